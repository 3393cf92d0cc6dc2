package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wonny/talos/backend/internal/contracts"
	"github.com/wonny/talos/backend/pkg/logger"
)

func newAggregator() *Aggregator {
	return NewAggregator(contracts.DefaultFactorWeights(), logger.NewNop())
}

func TestAggregateTotalWeights(t *testing.T) {
	agg := newAggregator()

	result := agg.Aggregate([]contracts.FactorScore{
		{Code: "005930", Value: 80, Momentum: 60, Quality: 70, Growth: 50},
	})

	// 0.30*80 + 0.30*60 + 0.20*70 + 0.20*50 = 66
	assert.InDelta(t, 66.0, result[0].Total, 1e-9)
	assert.Equal(t, 1, result[0].Rank)
}

func TestAggregateTieBreaking(t *testing.T) {
	agg := newAggregator()

	// 동점: momentum 높은 쪽이 위, momentum도 같으면 code 오름차순
	scores := []contracts.FactorScore{
		{Code: "000660", Value: 50, Momentum: 50, Quality: 50, Growth: 50},
		{Code: "005930", Value: 40, Momentum: 60, Quality: 50, Growth: 50},
		{Code: "000270", Value: 50, Momentum: 50, Quality: 50, Growth: 50},
	}

	result := agg.Aggregate(scores)

	assert.Equal(t, "005930", result[0].Code) // momentum 60
	assert.Equal(t, "000270", result[1].Code) // code 오름차순
	assert.Equal(t, "000660", result[2].Code)
	assert.Equal(t, []int{1, 2, 3}, []int{result[0].Rank, result[1].Rank, result[2].Rank})
}

func TestAggregateOrderIndependence(t *testing.T) {
	agg := newAggregator()

	scores := []contracts.FactorScore{
		{Code: "A00001", Value: 10, Momentum: 90, Quality: 40, Growth: 70},
		{Code: "A00002", Value: 90, Momentum: 10, Quality: 60, Growth: 30},
		{Code: "A00003", Value: 55, Momentum: 55, Quality: 55, Growth: 55},
	}
	reversed := []contracts.FactorScore{scores[2], scores[1], scores[0]}

	r1 := agg.Aggregate(scores)
	r2 := agg.Aggregate(reversed)

	assert.Equal(t, r1, r2)
}

func TestAggregateDoesNotMutateInput(t *testing.T) {
	agg := newAggregator()

	scores := []contracts.FactorScore{
		{Code: "005930", Value: 80, Momentum: 60, Quality: 70, Growth: 50},
	}
	agg.Aggregate(scores)

	assert.Equal(t, 0.0, scores[0].Total)
	assert.Equal(t, 0, scores[0].Rank)
}

func TestAggregateEmpty(t *testing.T) {
	agg := newAggregator()
	assert.Empty(t, agg.Aggregate(nil))
}
