package contracts

import "time"

// FactorScore represents the four sub-scores and composite total for one
// instrument on one date
// ⭐ SSOT: 팩터 점수 스키마는 여기서만 정의
type FactorScore struct {
	Code     string    `json:"code"`
	Name     string    `json:"name"`
	CalcDate time.Time `json:"calc_date"`

	// 서브 점수 (0 ~ 100)
	Value    float64 `json:"value"`
	Momentum float64 `json:"momentum"`
	Quality  float64 `json:"quality"`
	Growth   float64 `json:"growth"`

	Total float64 `json:"total"`
	Rank  int     `json:"rank"` // 1-based, dense, unique per date

	Reason string `json:"reason,omitempty"` // 사람이 읽는 선정 사유
}

// FactorWeights defines the blend of sub-scores into the total score.
type FactorWeights struct {
	Value    float64 `yaml:"value" json:"value"`
	Momentum float64 `yaml:"momentum" json:"momentum"`
	Quality  float64 `yaml:"quality" json:"quality"`
	Growth   float64 `yaml:"growth" json:"growth"`
}

// Sum returns the sum of all weights
func (w FactorWeights) Sum() float64 {
	return w.Value + w.Momentum + w.Quality + w.Growth
}

// DefaultFactorWeights returns the standard 30/30/20/20 blend.
func DefaultFactorWeights() FactorWeights {
	return FactorWeights{
		Value:    0.30,
		Momentum: 0.30,
		Quality:  0.20,
		Growth:   0.20,
	}
}

// TotalWith computes the weighted composite for this score row.
func (s *FactorScore) TotalWith(w FactorWeights) float64 {
	return s.Value*w.Value +
		s.Momentum*w.Momentum +
		s.Quality*w.Quality +
		s.Growth*w.Growth
}
