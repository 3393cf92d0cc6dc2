package strategyconfig

import "time"

// Config는 팩터 스코어링/리밸런싱 전략의 전체 설정
// ⭐ SSOT: 전략 파라미터는 YAML 파일에서만 온다
type Config struct {
	Meta      Meta      `yaml:"meta" json:"meta"`
	Universe  Universe  `yaml:"universe" json:"universe"`
	Scoring   Scoring   `yaml:"scoring" json:"scoring"`
	Selection Selection `yaml:"selection" json:"selection"`
	Rebalance Rebalance `yaml:"rebalance" json:"rebalance"`
	Scheduler Scheduler `yaml:"scheduler" json:"scheduler"`
}

// Meta 메타 정보
type Meta struct {
	StrategyID string `yaml:"strategy_id" json:"strategy_id"`
	Version    string `yaml:"version" json:"version"`
	Timezone   string `yaml:"timezone" json:"timezone"`
}

// Universe 스코어링 대상 풀
type Universe struct {
	MaxSize     int             `yaml:"max_size" json:"max_size"`         // 유니버스 상한 (시총순)
	MinScorable int             `yaml:"min_scorable" json:"min_scorable"` // 최소 스코어링 가능 종목 수
	Filters     UniverseFilters `yaml:"filters" json:"filters"`
}

type UniverseFilters struct {
	PriceMinKRW     int64   `yaml:"price_min_krw" json:"price_min_krw"`
	PriceMaxKRW     int64   `yaml:"price_max_krw" json:"price_max_krw"` // 0이면 상한 없음
	MarketcapMinKRW int64   `yaml:"marketcap_min_krw" json:"marketcap_min_krw"`
	ADTV20MinKRW    int64   `yaml:"adtv20_min_krw" json:"adtv20_min_krw"`
	PERMax          float64 `yaml:"per_max" json:"per_max"`
	DebtRatioMax    float64 `yaml:"debt_ratio_max" json:"debt_ratio_max"`
}

// Scoring 팩터 점수화
type Scoring struct {
	Weights       FactorWeights `yaml:"weights" json:"weights"`
	MinHistory    MinHistory    `yaml:"min_history" json:"min_history"`
	MissingPolicy string        `yaml:"missing_policy" json:"missing_policy"` // EXCLUDE | NEUTRAL
	NeutralScore  float64       `yaml:"neutral_score" json:"neutral_score"`
	ScoreRangeMin float64       `yaml:"score_range_min" json:"score_range_min"`
	ScoreRangeMax float64       `yaml:"score_range_max" json:"score_range_max"`
}

// FactorWeights 4팩터 가중치 (합 = 1.0)
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

type MinHistory struct {
	PriceDays     int `yaml:"price_days" json:"price_days"`         // 모멘텀 최소 일수
	ReportPeriods int `yaml:"report_periods" json:"report_periods"` // 성장 최소 보고서 수
}

// Selection 상위 종목 선정
type Selection struct {
	TopK int `yaml:"top_k" json:"top_k"`
}

// Rebalance 리밸런싱 정책
type Rebalance struct {
	Cadence       string  `yaml:"cadence" json:"cadence"` // DAILY | WEEKLY | MONTHLY
	CashBufferPct float64 `yaml:"cash_buffer_pct" json:"cash_buffer_pct"`
	LotSize       int     `yaml:"lot_size" json:"lot_size"`
	FallbackTopK  int     `yaml:"fallback_top_k" json:"fallback_top_k"` // 당일 스코어 없을 때 직전 결과 사용 폭
	MaxStaleDays  int     `yaml:"max_stale_days" json:"max_stale_days"` // fallback 허용 최대 경과 일수
}

// 리밸런싱 주기 상수
const (
	CadenceDaily   = "DAILY"
	CadenceWeekly  = "WEEKLY"
	CadenceMonthly = "MONTHLY"
)

// 결측 점수 정책 상수
const (
	MissingExclude = "EXCLUDE"
	MissingNeutral = "NEUTRAL"
)

// Scheduler 잡 실행 정책
type Scheduler struct {
	ScreeningCron  string `yaml:"screening_cron" json:"screening_cron"`
	RebalanceCron  string `yaml:"rebalance_cron" json:"rebalance_cron"`
	MaxRetries     int    `yaml:"max_retries" json:"max_retries"`
	RetryBackoffMS int    `yaml:"retry_backoff_ms" json:"retry_backoff_ms"`
}

// DecisionSnapshot 의사결정 스냅샷 (재현성용)
type DecisionSnapshot struct {
	ConfigHash string    `json:"config_hash"`
	ConfigYAML string    `json:"config_yaml"`
	StrategyID string    `json:"strategy_id"`
	CreatedAt  time.Time `json:"created_at"`
}
