package screening

import (
	"github.com/wonny/talos/backend/internal/marketdata"
	"github.com/wonny/talos/backend/internal/strategyconfig"
)

// UniverseFilter applies the primary eligibility filters
// ⭐ SSOT: 유니버스 1차 필터는 여기서만
type UniverseFilter struct {
	filters strategyconfig.UniverseFilters
}

// NewUniverseFilter creates a new universe filter
func NewUniverseFilter(filters strategyconfig.UniverseFilters) *UniverseFilter {
	return &UniverseFilter{filters: filters}
}

// checkExclusion returns the exclusion reason, or "" when the row passes.
func (f *UniverseFilter) checkExclusion(row marketdata.UniverseRow) string {
	if row.Close < float64(f.filters.PriceMinKRW) {
		return "price_below_min"
	}
	if f.filters.PriceMaxKRW > 0 && row.Close > float64(f.filters.PriceMaxKRW) {
		return "price_above_max"
	}
	if row.MarketCap < f.filters.MarketcapMinKRW {
		return "marketcap_below_min"
	}
	if row.ADTV20 < f.filters.ADTV20MinKRW {
		return "adtv_below_min"
	}
	if f.filters.PERMax > 0 && row.PER > f.filters.PERMax {
		return "per_above_max"
	}
	if f.filters.DebtRatioMax > 0 && row.DebtRatio > f.filters.DebtRatioMax {
		return "debt_above_max"
	}
	return ""
}

// Apply filters rows and tallies exclusion reasons.
func (f *UniverseFilter) Apply(rows []marketdata.UniverseRow) (passed []marketdata.UniverseRow, filtered map[string]int) {
	filtered = make(map[string]int)
	for _, row := range rows {
		reason := f.checkExclusion(row)
		if reason == "" {
			passed = append(passed, row)
			continue
		}
		filtered[reason]++
	}
	return passed, filtered
}
