package contracts

import (
	"context"
	"time"
)

// MarketDataProvider supplies price history and the scoring universe.
// ⭐ SSOT: 시장 데이터 조회 인터페이스
type MarketDataProvider interface {
	// Universe returns the instruments eligible for scoring on the date.
	Universe(ctx context.Context, date time.Time) ([]Instrument, error)

	// DailyPrices returns up to `days` most recent records ending at date,
	// newest first.
	DailyPrices(ctx context.Context, code string, date time.Time, days int) ([]PriceRecord, error)

	// LatestPrice returns the most recent close on or before date.
	LatestPrice(ctx context.Context, code string, date time.Time) (*PriceRecord, error)
}

// FinancialDataProvider supplies fundamental reports.
type FinancialDataProvider interface {
	// Financials returns up to `periods` most recent reports as of date,
	// newest first.
	Financials(ctx context.Context, code string, date time.Time, periods int) ([]FinancialRecord, error)
}

// ScoreStore persists per-date factor scores atomically.
// 같은 날짜 재계산 시 이전 결과를 통째로 교체한다 (부분 상태 금지).
type ScoreStore interface {
	ReplaceScores(ctx context.Context, date time.Time, scores []FactorScore) error
	ScoresByDate(ctx context.Context, date time.Time) ([]FactorScore, error)
	TopScores(ctx context.Context, date time.Time, limit int) ([]FactorScore, error)
}

// TargetStore persists the selected target portfolio per date.
type TargetStore interface {
	ReplaceTarget(ctx context.Context, target *PortfolioTarget) error
	TargetByDate(ctx context.Context, date time.Time) (*PortfolioTarget, error)
	LatestTarget(ctx context.Context, asOf time.Time) (*PortfolioTarget, error)
}

// HoldingProvider reads current positions.
type HoldingProvider interface {
	Holdings(ctx context.Context) ([]Holding, error)
	Cash(ctx context.Context) (float64, error)
}

// PlanStore persists rebalance plans and execution reports.
type PlanStore interface {
	SavePlan(ctx context.Context, plan *RebalancePlan) error
	PlanByDate(ctx context.Context, date time.Time) (*RebalancePlan, error)
	SaveReport(ctx context.Context, report *ExecutionReport) error
}

// BrokerGateway submits orders to the brokerage.
type BrokerGateway interface {
	SubmitOrder(ctx context.Context, order *Order) (*Order, error)
	Holdings(ctx context.Context) ([]Holding, error)
	Cash(ctx context.Context) (float64, error)
}

// NotificationSink receives human-readable pipeline events.
type NotificationSink interface {
	Notify(ctx context.Context, title, body string) error
}
