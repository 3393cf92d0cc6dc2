package rebalance

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/talos/backend/internal/contracts"
	"github.com/wonny/talos/backend/internal/strategyconfig"
	"github.com/wonny/talos/backend/pkg/logger"
)

// fakePrices 고정 가격 테이블
type fakePrices struct {
	prices map[string]float64
}

func (f *fakePrices) LatestPrice(_ context.Context, code string, _ time.Time) (*contracts.PriceRecord, error) {
	price, ok := f.prices[code]
	if !ok {
		return nil, contracts.ErrNotFound
	}
	return &contracts.PriceRecord{Code: code, Close: price}, nil
}

func testPlanner(prices map[string]float64) *Planner {
	return NewPlanner(
		&fakePrices{prices: prices},
		strategyconfig.Rebalance{
			Cadence:       strategyconfig.CadenceMonthly,
			CashBufferPct: 0.05,
			LotSize:       1,
		},
		logger.NewNop(),
	)
}

func targetOf(codes ...string) *contracts.PortfolioTarget {
	target := &contracts.PortfolioTarget{
		Date: time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
	}
	weight := 1.0 / float64(len(codes))
	for i, code := range codes {
		target.Positions = append(target.Positions, contracts.TargetWeight{
			Code: code, Name: code, Rank: i + 1, Weight: weight,
		})
	}
	return target
}

func TestPlanPartition(t *testing.T) {
	p := testPlanner(map[string]float64{"A": 10_000, "B": 20_000, "C": 30_000})

	holdings := []contracts.Holding{
		{Code: "A", Name: "A", Quantity: 10, AvgCost: 9_000},
		{Code: "B", Name: "B", Quantity: 5, AvgCost: 18_000},
	}

	plan, err := p.Plan(context.Background(), targetOf("B", "C").Date, holdings, targetOf("B", "C"), 10_000_000)
	require.NoError(t, err)

	// {A:10, B:5} vs {B, C} → sell A 전량, hold B, buy C
	require.Len(t, plan.Sells, 1)
	assert.Equal(t, "A", plan.Sells[0].Code)
	assert.Equal(t, 10, plan.Sells[0].Quantity)

	require.Len(t, plan.Holds, 1)
	assert.Equal(t, "B", plan.Holds[0].Code)

	require.Len(t, plan.Buys, 1)
	assert.Equal(t, "C", plan.Buys[0].Code)
}

func TestPlanPartitionLaw(t *testing.T) {
	p := testPlanner(map[string]float64{"A": 10_000, "B": 20_000, "C": 30_000, "D": 40_000})

	holdings := []contracts.Holding{
		{Code: "A", Quantity: 10}, {Code: "B", Quantity: 5}, {Code: "C", Quantity: 3},
	}
	target := targetOf("B", "C", "D")

	plan, err := p.Plan(context.Background(), target.Date, holdings, target, 100_000_000)
	require.NoError(t, err)

	// 모든 종목은 정확히 하나의 구획에만 속한다
	seen := map[string]int{}
	for _, leg := range plan.Sells {
		seen[leg.Code]++
	}
	for _, leg := range plan.Buys {
		seen[leg.Code]++
	}
	for _, leg := range plan.Holds {
		seen[leg.Code]++
	}
	for code, count := range seen {
		assert.Equal(t, 1, count, "code %s in multiple partitions", code)
	}
	assert.Len(t, seen, 4) // A, B, C, D
}

func TestPlanPartitionLawUnderfunded(t *testing.T) {
	// 자본 부족으로 수량이 안 나와도 분할 법칙은 유지된다
	p := testPlanner(map[string]float64{"A": 10_000, "B": 5_000_000}) // C 가격 없음

	holdings := []contracts.Holding{{Code: "A", Quantity: 10}}
	target := targetOf("A", "B", "C")

	plan, err := p.Plan(context.Background(), target.Date, holdings, target, 1_000_000)
	require.NoError(t, err)

	seen := map[string]int{}
	for _, leg := range plan.Sells {
		seen[leg.Code]++
	}
	for _, leg := range plan.Buys {
		seen[leg.Code]++
	}
	for _, leg := range plan.Holds {
		seen[leg.Code]++
	}
	assert.Len(t, seen, 3) // A(hold), B·C(buy, qty 0)
	for code, count := range seen {
		assert.Equal(t, 1, count, "code %s in multiple partitions", code)
	}
}

func TestPlanBuySizing(t *testing.T) {
	p := testPlanner(map[string]float64{"A": 33_000, "B": 70_000})

	target := targetOf("A", "B")
	capital := 10_000_000.0

	plan, err := p.Plan(context.Background(), target.Date, nil, target, capital)
	require.NoError(t, err)
	require.Len(t, plan.Buys, 2)

	// 배분: 10,000,000 × 0.95 / 2 = 4,750,000
	// A: floor(4750000/33000)=143주, B: floor(4750000/70000)=67주
	assert.Equal(t, 143, plan.Buys[0].Quantity)
	assert.Equal(t, 67, plan.Buys[1].Quantity)

	// 총 매수액은 가용 자본을 넘지 않는다
	assert.LessOrEqual(t, plan.TotalBuyAmount(), capital*0.95)
}

func TestPlanLotSizeRounding(t *testing.T) {
	p := testPlanner(map[string]float64{"A": 33_000})
	p.cfg.LotSize = 10

	target := targetOf("A")
	plan, err := p.Plan(context.Background(), target.Date, nil, target, 10_000_000)
	require.NoError(t, err)

	require.Len(t, plan.Buys, 1)
	assert.Equal(t, 0, plan.Buys[0].Quantity%10)
}

func TestPlanZeroQtyLegStaysInPlan(t *testing.T) {
	// 자본이 너무 작아 1주도 못 사는 경우에도 종목은 계획에 남는다
	p := testPlanner(map[string]float64{"A": 1_000_000})

	target := targetOf("A")
	plan, err := p.Plan(context.Background(), target.Date, nil, target, 500_000)
	require.NoError(t, err)

	require.Len(t, plan.Buys, 1)
	assert.Equal(t, "A", plan.Buys[0].Code)
	assert.Equal(t, 0, plan.Buys[0].Quantity)
	assert.Equal(t, "배분액 부족", plan.Buys[0].Reason)
}

func TestPlanMissingPriceLegStaysInPlan(t *testing.T) {
	p := testPlanner(map[string]float64{"A": 10_000}) // B 가격 없음

	target := targetOf("A", "B")
	plan, err := p.Plan(context.Background(), target.Date, nil, target, 10_000_000)
	require.NoError(t, err)

	require.Len(t, plan.Buys, 2)
	legs := map[string]contracts.TradeLeg{}
	for _, leg := range plan.Buys {
		legs[leg.Code] = leg
	}
	assert.Greater(t, legs["A"].Quantity, 0)
	assert.Equal(t, 0, legs["B"].Quantity)
	assert.Equal(t, "기준 가격 없음", legs["B"].Reason)
}

func TestPlanEmptyTargetSellsAll(t *testing.T) {
	p := testPlanner(map[string]float64{"A": 10_000, "B": 20_000})

	holdings := []contracts.Holding{
		{Code: "A", Quantity: 10}, {Code: "B", Quantity: 5},
	}
	target := &contracts.PortfolioTarget{Date: time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)}

	plan, err := p.Plan(context.Background(), target.Date, holdings, target, 10_000_000)
	require.NoError(t, err)

	assert.Len(t, plan.Sells, 2)
	assert.Empty(t, plan.Buys)
	assert.Empty(t, plan.Holds)
}
