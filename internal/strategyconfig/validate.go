package strategyconfig

import (
	"fmt"
	"math"
)

// ValidationError 검증 실패 (프로그램 중단)
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Warning 권장 위반 (경고만)
type Warning struct {
	Code    string
	Message string
}

// Validate checks all required constraints
// 실패 시 error 반환 (프로그램 중단)
func Validate(cfg *Config) error {
	// === Meta ===
	if cfg.Meta.StrategyID == "" {
		return ValidationError{"meta.strategy_id", "required"}
	}

	// === Universe ===
	if cfg.Universe.MaxSize <= 0 {
		return ValidationError{"universe.max_size", "must be > 0"}
	}
	if cfg.Universe.MinScorable <= 0 {
		return ValidationError{"universe.min_scorable", "must be > 0"}
	}
	if cfg.Universe.MinScorable > cfg.Universe.MaxSize {
		return ValidationError{"universe", "min_scorable must be <= max_size"}
	}
	if cfg.Universe.Filters.PriceMinKRW < 0 {
		return ValidationError{"universe.filters.price_min_krw", "must be >= 0"}
	}
	if cfg.Universe.Filters.PriceMaxKRW < 0 {
		return ValidationError{"universe.filters.price_max_krw", "must be >= 0"}
	}
	if cfg.Universe.Filters.PriceMaxKRW > 0 && cfg.Universe.Filters.PriceMaxKRW <= cfg.Universe.Filters.PriceMinKRW {
		return ValidationError{"universe.filters", "price_max_krw must be > price_min_krw"}
	}
	if cfg.Universe.Filters.MarketcapMinKRW <= 0 {
		return ValidationError{"universe.filters.marketcap_min_krw", "must be > 0"}
	}

	// === Scoring ===
	w := cfg.Scoring.Weights
	if math.Abs(w.Sum()-1.0) > 1e-6 {
		return ValidationError{"scoring.weights", fmt.Sprintf("must sum to 1.0, got %.4f", w.Sum())}
	}
	if w.Value < 0 || w.Momentum < 0 || w.Quality < 0 || w.Growth < 0 {
		return ValidationError{"scoring.weights", "must all be >= 0"}
	}
	if cfg.Scoring.ScoreRangeMin >= cfg.Scoring.ScoreRangeMax {
		return ValidationError{"scoring", "score_range_min must be < score_range_max"}
	}
	switch cfg.Scoring.MissingPolicy {
	case MissingExclude, MissingNeutral:
	default:
		return ValidationError{"scoring.missing_policy", "must be EXCLUDE or NEUTRAL"}
	}
	if cfg.Scoring.MissingPolicy == MissingNeutral {
		if cfg.Scoring.NeutralScore < cfg.Scoring.ScoreRangeMin || cfg.Scoring.NeutralScore > cfg.Scoring.ScoreRangeMax {
			return ValidationError{"scoring.neutral_score", "must be within score range"}
		}
	}
	if cfg.Scoring.MinHistory.PriceDays <= 0 {
		return ValidationError{"scoring.min_history.price_days", "must be > 0"}
	}
	if cfg.Scoring.MinHistory.ReportPeriods <= 0 {
		return ValidationError{"scoring.min_history.report_periods", "must be > 0"}
	}

	// === Selection ===
	if cfg.Selection.TopK <= 0 {
		return ValidationError{"selection.top_k", "must be > 0"}
	}
	if cfg.Selection.TopK > cfg.Universe.MaxSize {
		return ValidationError{"selection.top_k", "must be <= universe.max_size"}
	}

	// === Rebalance ===
	switch cfg.Rebalance.Cadence {
	case CadenceDaily, CadenceWeekly, CadenceMonthly:
	default:
		return ValidationError{"rebalance.cadence", "must be DAILY, WEEKLY or MONTHLY"}
	}
	if cfg.Rebalance.CashBufferPct < 0 || cfg.Rebalance.CashBufferPct >= 1 {
		return ValidationError{"rebalance.cash_buffer_pct", "must be in [0, 1)"}
	}
	if cfg.Rebalance.LotSize < 1 {
		return ValidationError{"rebalance.lot_size", "must be >= 1"}
	}
	if cfg.Rebalance.MaxStaleDays < 0 {
		return ValidationError{"rebalance.max_stale_days", "must be >= 0"}
	}

	// === Scheduler ===
	if cfg.Scheduler.MaxRetries < 0 {
		return ValidationError{"scheduler.max_retries", "must be >= 0"}
	}
	if cfg.Scheduler.RetryBackoffMS <= 0 {
		return ValidationError{"scheduler.retry_backoff_ms", "must be > 0"}
	}

	return nil
}

// Warn checks recommended constraints (non-fatal)
func Warn(cfg *Config) []Warning {
	var warnings []Warning

	// ADTV < 10억 경고
	if cfg.Universe.Filters.ADTV20MinKRW < 1_000_000_000 {
		warnings = append(warnings, Warning{
			Code:    "LOW_ADTV",
			Message: "ADTV20 < 10억: 체결/슬리피지 리스크 높음",
		})
	}

	// 현금 버퍼 없이 전액 투입 경고
	if cfg.Rebalance.CashBufferPct == 0 {
		warnings = append(warnings, Warning{
			Code:    "NO_CASH_BUFFER",
			Message: "현금 버퍼 0%: 주문 반올림/수수료로 미체결 가능",
		})
	}

	// 모멘텀 편중 경고
	if cfg.Scoring.Weights.Momentum > 0.5 {
		warnings = append(warnings, Warning{
			Code:    "MOMENTUM_HEAVY",
			Message: "모멘텀 가중치 > 50%: 변동성 확대 우려",
		})
	}

	return warnings
}
