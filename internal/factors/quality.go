package factors

import (
	"github.com/wonny/talos/backend/internal/contracts"
)

// QualityMetrics holds the raw quality components for one instrument.
type QualityMetrics struct {
	ROE             float64
	ROA             float64
	ROIC            float64
	OperatingMargin float64
	NetMargin       float64

	DebtRatio        float64
	InterestCoverage float64
	CurrentRatio     float64
	QuickRatio       float64
	NetDebtRatio     float64

	FCFYield   float64
	OCFToNI    float64
	CapexRatio float64
	CashRatio  float64

	EarningsQuality float64
}

// 퀄리티 팩터 구성: 수익성 35% + 재무안정성 30% + 현금창출력 20% + 이익질 15%
func (m *QualityMetrics) components() []componentValue {
	return []componentValue{
		// 수익성 (35%): ROE 30 / ROA 20 / ROIC 20 / 영업이익률 15 / 순이익률 15
		{"quality.roe", 0.35 * 0.30, false, m.ROE},
		{"quality.roa", 0.35 * 0.20, false, m.ROA},
		{"quality.roic", 0.35 * 0.20, false, m.ROIC},
		{"quality.op_margin", 0.35 * 0.15, false, m.OperatingMargin},
		{"quality.net_margin", 0.35 * 0.15, false, m.NetMargin},
		// 재무안정성 (30%): 부채 25 / 이자보상 25 / 유동 20 / 당좌 15 / 순차입금 15
		{"quality.debt", 0.30 * 0.25, true, m.DebtRatio},
		{"quality.int_coverage", 0.30 * 0.25, false, m.InterestCoverage},
		{"quality.current", 0.30 * 0.20, false, m.CurrentRatio},
		{"quality.quick", 0.30 * 0.15, false, m.QuickRatio},
		{"quality.net_debt", 0.30 * 0.15, true, m.NetDebtRatio},
		// 현금창출력 (20%): FCF 수익률 35 / OCF-NI 30 / CAPEX 20 / 현금보유 15
		{"quality.fcf_yield", 0.20 * 0.35, false, m.FCFYield},
		{"quality.ocf_ni", 0.20 * 0.30, false, m.OCFToNI},
		{"quality.capex", 0.20 * 0.20, true, m.CapexRatio},
		{"quality.cash", 0.20 * 0.15, false, m.CashRatio},
		// 이익질 (15%): 순이익 변동성 역수
		{"quality.earnings_quality", 0.15, false, m.EarningsQuality},
	}
}

// CollectQuality extracts quality metrics from financial reports, newest
// first. 재무 데이터가 하나도 없으면 ErrInsufficientHistory.
func CollectQuality(fins []contracts.FinancialRecord) (*QualityMetrics, error) {
	if len(fins) == 0 {
		return nil, contracts.ErrInsufficientHistory
	}
	latest := fins[0]

	m := &QualityMetrics{
		ROE:             latest.ROE,
		ROA:             latest.ROA,
		ROIC:            latest.ROIC,
		OperatingMargin: latest.OperatingMargin,
		NetMargin:       latest.NetMargin,

		DebtRatio:        latest.DebtRatio,
		InterestCoverage: latest.InterestCoverage,
		CurrentRatio:     latest.CurrentRatio,
		QuickRatio:       latest.QuickRatio,
		NetDebtRatio:     latest.NetDebtRatio,

		FCFYield:   latest.FCFYield,
		OCFToNI:    latest.OCFToNI,
		CapexRatio: latest.CapexRatio,
		CashRatio:  latest.CashRatio,
	}

	m.EarningsQuality = stability(netIncomes(fins))

	return m, nil
}

// Observe feeds this instrument's metrics into the cross section.
func (m *QualityMetrics) Observe(xs *CrossSection) {
	observeAll(xs, m.components())
}

// Score ranks the metrics against the cross section, in [0, 100].
func (m *QualityMetrics) Score(xs *CrossSection) float64 {
	return blend(xs, m.components())
}
