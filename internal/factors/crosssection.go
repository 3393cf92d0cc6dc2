package factors

import (
	"math"
	"sort"
)

// CrossSection holds the per-metric value distributions of one scoring run.
// 팩터 점수는 절대값이 아니라 당일 유니버스 내 백분위로 매긴다.
type CrossSection struct {
	series    map[string][]float64
	finalized bool
}

// NewCrossSection creates an empty cross section
func NewCrossSection() *CrossSection {
	return &CrossSection{series: make(map[string][]float64)}
}

// Observe records one instrument's value for a metric.
// ±Inf는 결측 표시: 분포에는 넣지 않는다.
func (xs *CrossSection) Observe(key string, v float64) {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return
	}
	xs.series[key] = append(xs.series[key], v)
}

// Finalize sorts every series. Must be called before Percentile.
func (xs *CrossSection) Finalize() {
	for _, vals := range xs.series {
		sort.Float64s(vals)
	}
	xs.finalized = true
}

// Size returns the number of observations for a metric.
func (xs *CrossSection) Size(key string) int {
	return len(xs.series[key])
}

// Percentile returns the mid-rank percentile of v within the metric's
// distribution, in [0, 100]. 결측(±Inf)은 최하위로 취급한다.
func (xs *CrossSection) Percentile(key string, v float64) float64 {
	vals := xs.series[key]
	if len(vals) == 0 {
		return 0
	}
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0
	}

	// 동점은 mid-rank: (미만 개수 + 이하 개수) / 2n
	less := sort.SearchFloat64s(vals, v)
	lessOrEq := sort.Search(len(vals), func(i int) bool { return vals[i] > v })
	return float64(less+lessOrEq) / float64(2*len(vals)) * 100
}
