package screening

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/talos/backend/internal/contracts"
	"github.com/wonny/talos/backend/internal/marketdata"
	"github.com/wonny/talos/backend/internal/scoring"
	"github.com/wonny/talos/backend/internal/strategyconfig"
	"github.com/wonny/talos/backend/pkg/logger"
)

func testScreener() *Screener {
	cfg := &strategyconfig.Config{
		Universe: strategyconfig.Universe{MaxSize: 500, MinScorable: 1, Filters: testFilters()},
		Scoring: strategyconfig.Scoring{
			Weights:       strategyconfig.FactorWeights{Value: 0.30, Momentum: 0.30, Quality: 0.20, Growth: 0.20},
			MinHistory:    strategyconfig.MinHistory{PriceDays: 252, ReportPeriods: 5},
			MissingPolicy: strategyconfig.MissingExclude,
			NeutralScore:  50,
			ScoreRangeMin: 0,
			ScoreRangeMax: 100,
		},
		Selection: strategyconfig.Selection{TopK: 2},
	}
	log := logger.NewNop()
	return &Screener{
		filter:  NewUniverseFilter(cfg.Universe.Filters),
		agg:     scoring.NewAggregator(contracts.DefaultFactorWeights(), log),
		cfg:     cfg,
		logger:  log,
		workers: 2,
	}
}

// history 일정 성장률의 가격/재무 이력 생성
func history(code string, dailyGain float64, annualGrowthPct float64) collected {
	prices := make([]contracts.PriceRecord, 262)
	price := 70_000.0
	date := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	for i := range prices {
		prices[i] = contracts.PriceRecord{
			Code: code, Date: date.AddDate(0, 0, -i),
			Close: price, High: price * 1.01, Volume: 1_000_000,
		}
		price /= 1 + dailyGain
	}

	fins := make([]contracts.FinancialRecord, 21)
	for i := range fins {
		scale := math.Pow(1+annualGrowthPct/100, -float64(i)/4)
		fins[i] = contracts.FinancialRecord{
			Code:       code,
			ReportDate: date.AddDate(0, -3*i, 0),
			PER:        12, PBR: 1.2, PCR: 6, PSR: 1.0,
			ROE: 12, ROA: 6, ROIC: 9, OperatingMargin: 10, NetMargin: 8,
			DebtRatio: 60, InterestCoverage: 8, CurrentRatio: 150, QuickRatio: 100, NetDebtRatio: 20,
			FCFYield: 4, OCFToNI: 110, CapexRatio: 20, CashRatio: 15,
			Revenue:         int64(1_000_000 * scale),
			OperatingProfit: int64(100_000 * scale),
			NetIncome:       int64(80_000 * scale),
		}
	}

	return collected{
		row:    marketdata.UniverseRow{Code: code, Name: code, Sector: "tech"},
		prices: prices,
		fins:   fins,
	}
}

func TestScoreExcludePolicy(t *testing.T) {
	s := testScreener()

	full := history("000100", 0.002, 10)
	short := history("000200", 0.002, 10)
	short.prices = short.prices[:100] // 모멘텀 이력 부족

	scores := s.score([]collected{full, short}, 0, map[string]float64{})

	// EXCLUDE 정책: 이력 부족 종목은 결과에서 빠진다
	require.Len(t, scores, 1)
	assert.Equal(t, "000100", scores[0].Code)
}

func TestScoreNeutralPolicy(t *testing.T) {
	s := testScreener()
	s.cfg.Scoring.MissingPolicy = strategyconfig.MissingNeutral

	full := history("000100", 0.002, 10)
	short := history("000200", 0.002, 10)
	short.prices = short.prices[:100]

	scores := s.score([]collected{full, short}, 0, map[string]float64{})

	// NEUTRAL 정책: 결측 팩터는 중립 점수로 대체
	require.Len(t, scores, 2)
	for _, sc := range scores {
		if sc.Code == "000200" {
			assert.Equal(t, 50.0, sc.Momentum)
		}
	}
}

func TestScoreCollectErrorSkipped(t *testing.T) {
	s := testScreener()

	ok := history("000100", 0.002, 10)
	failed := collected{
		row: marketdata.UniverseRow{Code: "000200"},
		err: assert.AnError,
	}

	scores := s.score([]collected{ok, failed}, 0, map[string]float64{})
	require.Len(t, scores, 1)
	assert.Equal(t, "000100", scores[0].Code)
}

func TestScoreRangeInvariant(t *testing.T) {
	s := testScreener()

	items := []collected{
		history("000100", 0.004, 25),
		history("000200", 0.001, 5),
		history("000300", -0.001, -5),
	}

	scores := s.score(items, 0, map[string]float64{})
	require.Len(t, scores, 3)
	for _, sc := range scores {
		assert.GreaterOrEqual(t, sc.Value, 0.0)
		assert.LessOrEqual(t, sc.Value, 100.0)
		assert.GreaterOrEqual(t, sc.Momentum, 0.0)
		assert.LessOrEqual(t, sc.Momentum, 100.0)
	}
}

func TestReferenceReturns(t *testing.T) {
	a := history("000100", 0.002, 10)
	b := history("000200", 0.004, 10)
	b.row.Sector = "auto"
	a.ret3M = 10
	b.ret3M = 20

	market, sector := referenceReturns([]collected{a, b})

	assert.InDelta(t, 15.0, market, 1e-9)
	assert.InDelta(t, 10.0, sector["tech"], 1e-9)
	assert.InDelta(t, 20.0, sector["auto"], 1e-9)
}

func TestBuildTargetEqualWeights(t *testing.T) {
	date := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	ranked := []contracts.FactorScore{
		{Code: "A", Rank: 1}, {Code: "B", Rank: 2}, {Code: "C", Rank: 3},
	}

	target := buildTarget(date, ranked, 2)

	require.Equal(t, 2, target.Count())
	assert.Equal(t, "A", target.Positions[0].Code)
	assert.InDelta(t, 0.5, target.Positions[0].Weight, 1e-9)
	assert.True(t, target.IsBalanced(1e-9))
}

func TestBuildTargetFewerThanK(t *testing.T) {
	date := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	ranked := []contracts.FactorScore{{Code: "A", Rank: 1}}

	target := buildTarget(date, ranked, 50)

	require.Equal(t, 1, target.Count())
	assert.InDelta(t, 1.0, target.Positions[0].Weight, 1e-9)
}
