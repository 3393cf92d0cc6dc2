package commands

import (
	"fmt"
	"time"

	"github.com/wonny/talos/backend/internal/contracts"
	"github.com/wonny/talos/backend/internal/execution"
	"github.com/wonny/talos/backend/internal/marketdata"
	"github.com/wonny/talos/backend/internal/notify"
	"github.com/wonny/talos/backend/internal/rebalance"
	"github.com/wonny/talos/backend/internal/scheduler"
	"github.com/wonny/talos/backend/internal/scheduler/jobs"
	"github.com/wonny/talos/backend/internal/screening"
	"github.com/wonny/talos/backend/internal/scoring"
	"github.com/wonny/talos/backend/internal/strategyconfig"
	"github.com/wonny/talos/backend/pkg/config"
	"github.com/wonny/talos/backend/pkg/database"
	"github.com/wonny/talos/backend/pkg/logger"
	"github.com/wonny/talos/backend/pkg/redis"
)

// app bundles the wired dependencies every command needs.
// ⭐ SSOT: 의존성 조립은 이 파일에서만
type app struct {
	cfg      *config.Config
	strategy *strategyconfig.Config
	log      *logger.Logger
	db       *database.DB
	rds      *redis.Client

	data          *marketdata.Provider
	screenRepo    *screening.Repository
	rebalanceRepo *rebalance.Repository
}

// newApp loads configuration and connects to storage.
func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if strategyFile != "" {
		cfg.StrategyFile = strategyFile
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	log := logger.New(cfg)

	strategy, _, err := strategyconfig.Load(cfg.StrategyFile)
	if err != nil {
		return nil, fmt.Errorf("load strategy %s: %w", cfg.StrategyFile, err)
	}

	db, err := database.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	rds, err := redis.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	cache := redis.NewCache(rds, "talos")
	data := marketdata.NewProvider(
		marketdata.NewPriceRepository(db.Pool),
		marketdata.NewFinancialRepository(db.Pool),
		cache, log,
	)

	return &app{
		cfg:           cfg,
		strategy:      strategy,
		log:           log,
		db:            db,
		rds:           rds,
		data:          data,
		screenRepo:    screening.NewRepository(db.Pool),
		rebalanceRepo: rebalance.NewRepository(db.Pool),
	}, nil
}

func (a *app) close() {
	a.db.Close()
	_ = a.rds.Close()
}

// screener builds the scoring pipeline.
func (a *app) screener() *screening.Screener {
	weights := contracts.FactorWeights{
		Value:    a.strategy.Scoring.Weights.Value,
		Momentum: a.strategy.Scoring.Weights.Momentum,
		Quality:  a.strategy.Scoring.Weights.Quality,
		Growth:   a.strategy.Scoring.Weights.Growth,
	}
	agg := scoring.NewAggregator(weights, a.log)
	return screening.NewScreener(a.data, agg, a.screenRepo, a.strategy, a.log)
}

// broker returns the configured broker gateway.
// 키가 없으면 모의 브로커로 폴백한다 (개발 환경).
func (a *app) broker() contracts.BrokerGateway {
	if a.cfg.Broker.AppKey == "" {
		a.log.Warn("브로커 키 미설정, 모의 브로커 사용")
		return execution.NewMockBroker(0)
	}
	return execution.NewKISBroker(a.cfg.Broker, a.log)
}

// rebalancer wires the target resolver, planner and executor.
func (a *app) rebalancer(broker contracts.BrokerGateway) (*rebalance.Resolver, *rebalance.Planner, *execution.Executor) {
	resolver := rebalance.NewResolver(
		rebalance.NewComputedTarget(a.screenRepo, a.strategy.Rebalance.MaxStaleDays),
		rebalance.NewFallbackHeuristic(broker),
		a.log,
	)
	planner := rebalance.NewPlanner(a.data, a.strategy.Rebalance, a.log)
	executor := execution.NewExecutor(broker, a.log)
	return resolver, planner, executor
}

// notifier picks the webhook sink when configured, log sink otherwise.
func (a *app) notifier() contracts.NotificationSink {
	if a.cfg.WebhookURL != "" {
		return notify.NewWebhookSink(a.cfg.WebhookURL, a.log)
	}
	return notify.NewLogSink(a.log)
}

// newScheduler registers the screening and rebalance jobs.
func (a *app) newScheduler() (*scheduler.Scheduler, error) {
	backoff := time.Duration(a.strategy.Scheduler.RetryBackoffMS) * time.Millisecond
	sched := scheduler.New(a.log, a.strategy.Scheduler.MaxRetries, backoff)

	sink := a.notifier()
	sched.SetNotifier(sink)
	broker := a.broker()
	resolver, planner, executor := a.rebalancer(broker)

	if err := sched.AddJob(jobs.NewScreeningJob(
		a.screener(), sink, a.strategy.Scheduler.ScreeningCron, a.log,
	)); err != nil {
		return nil, err
	}
	if err := sched.AddJob(jobs.NewRebalanceJob(
		resolver, planner, executor, broker, a.rebalanceRepo,
		sink, a.strategy.Rebalance, a.strategy.Scheduler.RebalanceCron, a.log,
	)); err != nil {
		return nil, err
	}

	return sched, nil
}

// parseDateArg parses an optional YYYY-MM-DD positional arg, defaulting to today.
func parseDateArg(args []string) (time.Time, error) {
	if len(args) == 0 {
		now := time.Now()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	date, err := time.Parse("2006-01-02", args[0])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD): %w", args[0], err)
	}
	return date, nil
}
