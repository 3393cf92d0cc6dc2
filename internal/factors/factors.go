// Package factors computes the four factor scores (Value, Momentum,
// Quality, Growth) in two phases: Collect gathers pure per-instrument
// metrics, Score ranks them against the day's cross section.
package factors

import "math"

// missing marks a component that could not be computed for an instrument.
// 백분위 계산에서 최하위(0점)로 떨어진다.
var missing = math.Inf(-1)

// componentValue is one weighted metric inside a factor blend.
// weight는 상위 그룹 가중치 × 내부 가중치로 평탄화되어 합이 1.0이다.
type componentValue struct {
	key      string
	weight   float64
	inverted bool // 낮을수록 좋은 지표 (PER 등)
	value    float64
}

// observeAll feeds every component value into the cross section.
// 결측(±Inf)은 Observe 단계에서 걸러진다.
func observeAll(xs *CrossSection, comps []componentValue) {
	for _, c := range comps {
		xs.Observe(c.key, c.value)
	}
}

// blend computes the weighted percentile blend, clamped to [0, 100].
func blend(xs *CrossSection, comps []componentValue) float64 {
	total := 0.0
	for _, c := range comps {
		if math.IsInf(c.value, 0) || math.IsNaN(c.value) {
			continue // 결측은 방향과 무관하게 0점
		}
		p := xs.Percentile(c.key, c.value)
		if c.inverted {
			p = 100 - p
		}
		total += p * c.weight
	}
	return clamp(total, 0, 100)
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}

// growthRate returns percentage growth from prev to cur, or missing when
// the base is not usable.
func growthRate(cur, prev float64) float64 {
	if prev == 0 {
		return missing
	}
	return (cur - prev) / math.Abs(prev) * 100
}

// cagr returns the annualized growth rate over `years`, or missing.
func cagr(cur, base float64, years float64) float64 {
	if cur <= 0 || base <= 0 || years <= 0 {
		return missing
	}
	return (math.Pow(cur/base, 1/years) - 1) * 100
}

// stability maps earnings volatility to (0, 1]: 1 / (1 + σ/|μ|).
func stability(values []float64) float64 {
	if len(values) < 3 {
		return missing
	}
	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))
	if mean == 0 {
		return missing
	}

	variance := 0.0
	for _, v := range values {
		variance += (v - mean) * (v - mean)
	}
	variance /= float64(len(values))
	vol := math.Sqrt(variance) / math.Abs(mean)

	return 1 / (1 + vol)
}
