package factors

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPercentileMidRank(t *testing.T) {
	xs := NewCrossSection()
	for _, v := range []float64{10, 20, 30, 40, 50} {
		xs.Observe("m", v)
	}
	xs.Finalize()

	// 최솟값/최댓값/중앙값
	assert.InDelta(t, 10.0, xs.Percentile("m", 10), 0.01)
	assert.InDelta(t, 90.0, xs.Percentile("m", 50), 0.01)
	assert.InDelta(t, 50.0, xs.Percentile("m", 30), 0.01)
}

func TestPercentileTies(t *testing.T) {
	xs := NewCrossSection()
	for _, v := range []float64{1, 2, 2, 2, 3} {
		xs.Observe("m", v)
	}
	xs.Finalize()

	// 동점 3개는 mid-rank 공유: (1 + 4) / 10 * 100 = 50
	assert.InDelta(t, 50.0, xs.Percentile("m", 2), 0.01)
}

func TestPercentileMissing(t *testing.T) {
	xs := NewCrossSection()
	xs.Observe("m", math.Inf(-1)) // 결측은 분포에 들어가지 않음
	xs.Observe("m", 1)
	xs.Observe("m", 2)
	xs.Finalize()

	assert.Equal(t, 2, xs.Size("m"))
	assert.Equal(t, 0.0, xs.Percentile("m", math.Inf(-1)))
}

func TestPercentileEmptySeries(t *testing.T) {
	xs := NewCrossSection()
	xs.Finalize()

	assert.Equal(t, 0.0, xs.Percentile("nothing", 42))
}

func TestBlendInvertedMetric(t *testing.T) {
	xs := NewCrossSection()
	cheap := []componentValue{{"per", 1.0, true, 5.0}}
	pricey := []componentValue{{"per", 1.0, true, 50.0}}

	observeAll(xs, cheap)
	observeAll(xs, pricey)
	xs.Finalize()

	// PER은 낮을수록 좋다
	assert.Greater(t, blend(xs, cheap), blend(xs, pricey))
}

func TestBlendClampsRange(t *testing.T) {
	xs := NewCrossSection()
	comps := []componentValue{
		{"a", 0.5, false, 10.0},
		{"b", 0.5, false, 20.0},
	}
	observeAll(xs, comps)
	xs.Finalize()

	score := blend(xs, comps)
	assert.GreaterOrEqual(t, score, 0.0)
	assert.LessOrEqual(t, score, 100.0)
}

func TestStability(t *testing.T) {
	// 완전히 일정한 이익 → 변동성 0 → 1.0
	assert.InDelta(t, 1.0, stability([]float64{100, 100, 100}), 1e-9)

	// 변동이 크면 낮아진다
	steady := stability([]float64{100, 105, 95, 102})
	volatile := stability([]float64{100, 300, -50, 200})
	assert.Greater(t, steady, volatile)

	// 3기 미만은 결측
	assert.True(t, math.IsInf(stability([]float64{1, 2}), -1))
}
