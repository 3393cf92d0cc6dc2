package scoring

import (
	"fmt"
	"sort"

	"github.com/wonny/talos/backend/internal/contracts"
	"github.com/wonny/talos/backend/pkg/logger"
)

// Aggregator combines sub-scores into totals and assigns ranks
// ⭐ SSOT: 종합 점수/순위 산정은 여기서만
type Aggregator struct {
	weights contracts.FactorWeights
	logger  *logger.Logger
}

// NewAggregator creates a new aggregator
func NewAggregator(weights contracts.FactorWeights, logger *logger.Logger) *Aggregator {
	return &Aggregator{
		weights: weights,
		logger:  logger,
	}
}

// Aggregate computes totals, sorts deterministically and assigns ranks.
// 입력 순서와 무관하게 동일한 결과를 낸다:
// total 내림차순 → momentum 내림차순 → code 오름차순.
func (a *Aggregator) Aggregate(scores []contracts.FactorScore) []contracts.FactorScore {
	result := make([]contracts.FactorScore, len(scores))
	copy(result, scores)

	for i := range result {
		result[i].Total = result[i].TotalWith(a.weights)
		result[i].Reason = buildReason(&result[i])
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Total != result[j].Total {
			return result[i].Total > result[j].Total
		}
		if result[i].Momentum != result[j].Momentum {
			return result[i].Momentum > result[j].Momentum
		}
		return result[i].Code < result[j].Code
	})

	for i := range result {
		result[i].Rank = i + 1
	}

	if len(result) > 0 {
		a.logger.WithFields(map[string]interface{}{
			"total_stocks": len(result),
			"top_code":     result[0].Code,
			"top_score":    result[0].Total,
		}).Info("Aggregation completed")
	}

	return result
}

// buildReason summarizes the dominant factor for human review.
func buildReason(s *contracts.FactorScore) string {
	best, bestScore := "가치", s.Value
	if s.Momentum > bestScore {
		best, bestScore = "모멘텀", s.Momentum
	}
	if s.Quality > bestScore {
		best, bestScore = "퀄리티", s.Quality
	}
	if s.Growth > bestScore {
		best, bestScore = "성장", s.Growth
	}
	return fmt.Sprintf("%s 우위 (V%.0f/M%.0f/Q%.0f/G%.0f)", best, s.Value, s.Momentum, s.Quality, s.Growth)
}
