package contracts

import (
	"math"
	"time"
)

// PortfolioTarget represents the top-K selection for a date passed from
// screening to rebalancing
// ⭐ SSOT: 목표 포트폴리오 전달 계약
type PortfolioTarget struct {
	Date      time.Time      `json:"date"`
	Positions []TargetWeight `json:"positions"` // rank 순 정렬
}

// TargetWeight is one instrument's slot in the target portfolio.
type TargetWeight struct {
	Code   string  `json:"code"`
	Name   string  `json:"name"`
	Rank   int     `json:"rank"`
	Weight float64 `json:"weight"` // 0.0 ~ 1.0, 합계 1.0
	Reason string  `json:"reason,omitempty"`
}

// Codes returns the instrument codes in rank order.
func (t *PortfolioTarget) Codes() []string {
	codes := make([]string, 0, len(t.Positions))
	for _, p := range t.Positions {
		codes = append(codes, p.Code)
	}
	return codes
}

// Contains checks membership by instrument code.
func (t *PortfolioTarget) Contains(code string) bool {
	for _, p := range t.Positions {
		if p.Code == code {
			return true
		}
	}
	return false
}

// Count returns the number of target positions.
func (t *PortfolioTarget) Count() int {
	return len(t.Positions)
}

// TotalWeight returns the sum of all position weights.
func (t *PortfolioTarget) TotalWeight() float64 {
	total := 0.0
	for _, p := range t.Positions {
		total += p.Weight
	}
	return total
}

// IsBalanced checks the weight-sum invariant within tolerance.
func (t *PortfolioTarget) IsBalanced(epsilon float64) bool {
	if len(t.Positions) == 0 {
		return true
	}
	return math.Abs(t.TotalWeight()-1.0) <= epsilon
}
