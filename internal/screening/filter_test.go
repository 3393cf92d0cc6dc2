package screening

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wonny/talos/backend/internal/marketdata"
	"github.com/wonny/talos/backend/internal/strategyconfig"
)

func testFilters() strategyconfig.UniverseFilters {
	return strategyconfig.UniverseFilters{
		PriceMinKRW:     1000,
		MarketcapMinKRW: 50_000_000_000,
		ADTV20MinKRW:    1_000_000_000,
		PERMax:          100,
		DebtRatioMax:    400,
	}
}

func goodRow() marketdata.UniverseRow {
	return marketdata.UniverseRow{
		Code:      "005930",
		Name:      "삼성전자",
		Close:     70_000,
		MarketCap: 400_000_000_000_000,
		ADTV20:    500_000_000_000,
		PER:       12,
		DebtRatio: 35,
	}
}

func TestCheckExclusion(t *testing.T) {
	f := NewUniverseFilter(testFilters())

	tests := []struct {
		name   string
		mutate func(*marketdata.UniverseRow)
		reason string
	}{
		{"passes", func(r *marketdata.UniverseRow) {}, ""},
		{"penny stock", func(r *marketdata.UniverseRow) { r.Close = 500 }, "price_below_min"},
		{"small cap", func(r *marketdata.UniverseRow) { r.MarketCap = 1_000_000_000 }, "marketcap_below_min"},
		{"illiquid", func(r *marketdata.UniverseRow) { r.ADTV20 = 100_000_000 }, "adtv_below_min"},
		{"overvalued", func(r *marketdata.UniverseRow) { r.PER = 250 }, "per_above_max"},
		{"overleveraged", func(r *marketdata.UniverseRow) { r.DebtRatio = 800 }, "debt_above_max"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := goodRow()
			tt.mutate(&row)
			assert.Equal(t, tt.reason, f.checkExclusion(row))
		})
	}
}

func TestCheckExclusionPriceCeiling(t *testing.T) {
	filters := testFilters()
	filters.PriceMaxKRW = 500_000
	f := NewUniverseFilter(filters)

	row := goodRow()
	row.Close = 1_200_000
	assert.Equal(t, "price_above_max", f.checkExclusion(row))

	// 0이면 상한 비활성
	f = NewUniverseFilter(testFilters())
	assert.Equal(t, "", f.checkExclusion(row))
}

func TestCheckExclusionZeroPERPasses(t *testing.T) {
	f := NewUniverseFilter(testFilters())

	// PER 데이터 없음(0)은 필터 대상이 아님 — 팩터 단계에서 결측 처리
	row := goodRow()
	row.PER = 0
	assert.Equal(t, "", f.checkExclusion(row))
}

func TestApplyTally(t *testing.T) {
	f := NewUniverseFilter(testFilters())

	cheap := goodRow()
	cheap.Code = "000001"
	cheap.Close = 500

	small := goodRow()
	small.Code = "000002"
	small.MarketCap = 1_000_000_000

	passed, filtered := f.Apply([]marketdata.UniverseRow{goodRow(), cheap, small})

	assert.Len(t, passed, 1)
	assert.Equal(t, map[string]int{
		"price_below_min":     1,
		"marketcap_below_min": 1,
	}, filtered)
}
