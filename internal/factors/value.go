package factors

import (
	"github.com/wonny/talos/backend/internal/contracts"
)

// ValueMetrics holds the raw inputs of the value factor for one instrument.
type ValueMetrics struct {
	PER               float64
	PBR               float64
	PCR               float64
	PSR               float64
	DividendYield     float64
	DividendGrowth    float64
	DividendCapacity  float64
	DiscountToNAV     float64
	LiquidationMargin float64
	EarningsStability float64
}

// 가치 팩터 구성: 밸류에이션 40% + 배당 20% + 자산가치 20% + 이익안정성 20%
func (m *ValueMetrics) components() []componentValue {
	return []componentValue{
		// 밸류에이션 (40%): PER 30 / PBR 30 / PCR 20 / PSR 20, 낮을수록 좋음
		{"value.per", 0.40 * 0.30, true, m.PER},
		{"value.pbr", 0.40 * 0.30, true, m.PBR},
		{"value.pcr", 0.40 * 0.20, true, m.PCR},
		{"value.psr", 0.40 * 0.20, true, m.PSR},
		// 배당 (20%): 수익률 50 / 성장률 30 / 여력 20
		{"value.div_yield", 0.20 * 0.50, false, m.DividendYield},
		{"value.div_growth", 0.20 * 0.30, false, m.DividendGrowth},
		{"value.div_capacity", 0.20 * 0.20, false, m.DividendCapacity},
		// 자산가치 (20%): NAV 할인 60 / 청산가치 40
		{"value.nav_discount", 0.20 * 0.60, false, m.DiscountToNAV},
		{"value.liquidation", 0.20 * 0.40, false, m.LiquidationMargin},
		// 이익안정성 (20%)
		{"value.earnings_stability", 0.20, false, m.EarningsStability},
	}
}

// CollectValue extracts value metrics from financial reports, newest first.
// 재무 데이터가 하나도 없으면 ErrInsufficientHistory.
func CollectValue(fins []contracts.FinancialRecord) (*ValueMetrics, error) {
	if len(fins) == 0 {
		return nil, contracts.ErrInsufficientHistory
	}
	latest := fins[0]

	m := &ValueMetrics{
		PER:               ratioOrMissing(latest.PER),
		PBR:               ratioOrMissing(latest.PBR),
		PCR:               ratioOrMissing(latest.PCR),
		PSR:               ratioOrMissing(latest.PSR),
		DividendYield:     latest.DividendYield,
		DividendGrowth:    latest.DividendGrowth3Y,
		DividendCapacity:  latest.DividendCapacity,
		DiscountToNAV:     latest.DiscountToNAV,
		LiquidationMargin: latest.LiquidationMargin,
	}

	// 순이익 변동성 기반 안정성 (3기 이상 필요)
	m.EarningsStability = stability(netIncomes(fins))

	return m, nil
}

// Observe feeds this instrument's metrics into the cross section.
func (m *ValueMetrics) Observe(xs *CrossSection) {
	observeAll(xs, m.components())
}

// Score ranks the metrics against the cross section, in [0, 100].
func (m *ValueMetrics) Score(xs *CrossSection) float64 {
	return blend(xs, m.components())
}

// ratioOrMissing treats non-positive valuation ratios (적자 기업 등) as
// missing rather than cheap.
func ratioOrMissing(v float64) float64 {
	if v <= 0 {
		return missing
	}
	return v
}

func netIncomes(fins []contracts.FinancialRecord) []float64 {
	values := make([]float64, 0, len(fins))
	for _, f := range fins {
		if f.NetIncome != 0 {
			values = append(values, float64(f.NetIncome))
		}
	}
	return values
}
