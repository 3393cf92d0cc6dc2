package factors

import (
	"math"

	"github.com/wonny/talos/backend/internal/contracts"
)

// 분기 보고서 기준 조회 오프셋
const (
	quartersPerYear = 4
	minReports      = 5  // 전년 동기 비교에 필요한 최소 보고서 수
	reports3Y       = 13 // 3년 CAGR
	reports5Y       = 21 // 5년 CAGR
)

// GrowthMetrics holds the raw growth components for one instrument.
type GrowthMetrics struct {
	RevenueGrowth1Y float64
	RevenueCAGR3Y   float64
	RevenueCAGR5Y   float64

	EarningsGrowth1Y  float64
	EarningsCAGR3Y    float64
	OperatingGrowth1Y float64

	EarningsLeverage float64
	MarginExpansion  float64
	ROEImprovement   float64

	GrowthPersistence float64
}

// 성장 팩터 구성: 매출 30% + 이익 30% + 효율 25% + 지속성 15%
func (m *GrowthMetrics) components() []componentValue {
	return []componentValue{
		// 매출 성장 (30%): 1년 50 / 3년 CAGR 30 / 5년 CAGR 20
		{"growth.rev_1y", 0.30 * 0.50, false, m.RevenueGrowth1Y},
		{"growth.rev_cagr3", 0.30 * 0.30, false, m.RevenueCAGR3Y},
		{"growth.rev_cagr5", 0.30 * 0.20, false, m.RevenueCAGR5Y},
		// 이익 성장 (30%): 순이익 1년 40 / 순이익 3년 CAGR 30 / 영업이익 1년 30
		{"growth.ni_1y", 0.30 * 0.40, false, m.EarningsGrowth1Y},
		{"growth.ni_cagr3", 0.30 * 0.30, false, m.EarningsCAGR3Y},
		{"growth.op_1y", 0.30 * 0.30, false, m.OperatingGrowth1Y},
		// 성장 효율 (25%): 이익 레버리지 40 / 마진 확대 35 / ROE 개선 25
		{"growth.leverage", 0.25 * 0.40, false, m.EarningsLeverage},
		{"growth.margin_exp", 0.25 * 0.35, false, m.MarginExpansion},
		{"growth.roe_improve", 0.25 * 0.25, false, m.ROEImprovement},
		// 지속성 (15%): 최근 4분기 중 성장 분기 비율
		{"growth.persistence", 0.15, false, m.GrowthPersistence},
	}
}

// CollectGrowth extracts growth metrics from quarterly reports, newest
// first. 전년 동기 비교를 위해 최소 5개 보고서 필요.
func CollectGrowth(fins []contracts.FinancialRecord) (*GrowthMetrics, error) {
	if len(fins) < minReports {
		return nil, contracts.ErrInsufficientHistory
	}

	latest := fins[0]
	yearAgo := fins[quartersPerYear]

	m := &GrowthMetrics{
		RevenueGrowth1Y:   growthRate(float64(latest.Revenue), float64(yearAgo.Revenue)),
		EarningsGrowth1Y:  growthRate(float64(latest.NetIncome), float64(yearAgo.NetIncome)),
		OperatingGrowth1Y: growthRate(float64(latest.OperatingProfit), float64(yearAgo.OperatingProfit)),

		RevenueCAGR3Y:  missing,
		RevenueCAGR5Y:  missing,
		EarningsCAGR3Y: missing,

		MarginExpansion: latest.NetMargin - yearAgo.NetMargin,
		ROEImprovement:  latest.ROE - yearAgo.ROE,
	}

	if len(fins) >= reports3Y {
		base := fins[reports3Y-1]
		m.RevenueCAGR3Y = cagr(float64(latest.Revenue), float64(base.Revenue), 3)
		m.EarningsCAGR3Y = cagr(float64(latest.NetIncome), float64(base.NetIncome), 3)
	}
	if len(fins) >= reports5Y {
		base := fins[reports5Y-1]
		m.RevenueCAGR5Y = cagr(float64(latest.Revenue), float64(base.Revenue), 5)
	}

	// 이익 레버리지: 매출 성장 대비 이익 성장 배율 (매출 성장 시에만 의미)
	m.EarningsLeverage = missing
	if m.RevenueGrowth1Y > 0 && !math.IsInf(m.EarningsGrowth1Y, 0) {
		m.EarningsLeverage = m.EarningsGrowth1Y / m.RevenueGrowth1Y
	}

	m.GrowthPersistence = growthPersistence(fins)

	return m, nil
}

// Observe feeds this instrument's metrics into the cross section.
func (m *GrowthMetrics) Observe(xs *CrossSection) {
	observeAll(xs, m.components())
}

// Score ranks the metrics against the cross section, in [0, 100].
func (m *GrowthMetrics) Score(xs *CrossSection) float64 {
	return blend(xs, m.components())
}

// growthPersistence 최근 4개 분기 중 전년 동기 대비 매출이 성장한 비율 (%)
// 비교 불가능한 분기는 성장 없음으로 센다.
func growthPersistence(fins []contracts.FinancialRecord) float64 {
	grown := 0
	for q := 0; q < quartersPerYear; q++ {
		prev := q + quartersPerYear
		if prev >= len(fins) {
			break
		}
		if fins[q].Revenue > fins[prev].Revenue {
			grown++
		}
	}
	return float64(grown) / float64(quartersPerYear) * 100
}
