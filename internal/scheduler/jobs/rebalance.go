package jobs

import (
	"context"
	"fmt"

	"github.com/wonny/talos/backend/internal/contracts"
	"github.com/wonny/talos/backend/internal/execution"
	"github.com/wonny/talos/backend/internal/rebalance"
	"github.com/wonny/talos/backend/internal/strategyconfig"
	"github.com/wonny/talos/backend/pkg/logger"
)

// RebalanceJob aligns actual holdings to the latest target portfolio.
// 장 시작 전 실행: 타깃 해석 → 계획 → 주문 집행 → 기록.
type RebalanceJob struct {
	resolver *rebalance.Resolver
	planner  *rebalance.Planner
	executor *execution.Executor
	broker   contracts.BrokerGateway
	repo     *rebalance.Repository
	notifier contracts.NotificationSink
	cfg      strategyconfig.Rebalance
	schedule string
	logger   *logger.Logger
}

// NewRebalanceJob creates a rebalance job
func NewRebalanceJob(
	resolver *rebalance.Resolver,
	planner *rebalance.Planner,
	executor *execution.Executor,
	broker contracts.BrokerGateway,
	repo *rebalance.Repository,
	notifier contracts.NotificationSink,
	cfg strategyconfig.Rebalance,
	schedule string,
	log *logger.Logger,
) *RebalanceJob {
	return &RebalanceJob{
		resolver: resolver,
		planner:  planner,
		executor: executor,
		broker:   broker,
		repo:     repo,
		notifier: notifier,
		cfg:      cfg,
		schedule: schedule,
		logger:   log.WithField("job", "rebalance"),
	}
}

func (j *RebalanceJob) Name() string     { return "rebalance" }
func (j *RebalanceJob) Schedule() string { return j.schedule }

// Run executes one rebalance cycle when the cadence fires.
func (j *RebalanceJob) Run(ctx context.Context) error {
	date := todayKST()

	if !rebalance.ShouldRebalance(j.cfg.Cadence, date) {
		j.logger.WithFields(map[string]interface{}{
			"date":    date.Format("2006-01-02"),
			"cadence": j.cfg.Cadence,
		}).Info("리밸런싱 주기 아님, 건너뜀")
		return nil
	}

	// 1. 타깃 해석 (계산 결과 또는 폴백)
	target, source, err := j.resolver.Resolve(ctx, date)
	if err != nil {
		return fmt.Errorf("failed to resolve target: %w", err)
	}

	// 2. 증권사 기준 실제 보유/현금 조회
	holdings, err := j.broker.Holdings(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch holdings: %w", err)
	}
	cash, err := j.broker.Cash(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch cash: %w", err)
	}

	// 3. 계획 산출 + 감사용 저장
	plan, err := j.planner.Plan(ctx, date, holdings, target, cash)
	if err != nil {
		return fmt.Errorf("failed to build plan: %w", err)
	}
	plan.Source = source
	if err := j.repo.SavePlan(ctx, plan); err != nil {
		return err
	}

	if plan.IsEmpty() {
		j.logger.WithField("date", date.Format("2006-01-02")).Info("매매 없음, 집행 생략")
		return nil
	}

	// 4. 주문 집행 (실패 주문은 기록만, 재시도 없음)
	report, err := j.executor.Execute(ctx, plan)
	if report != nil {
		if saveErr := j.repo.SaveReport(ctx, report); saveErr != nil {
			j.logger.WithError(saveErr).Error("집행 보고서 저장 실패")
		}
	}
	if err != nil {
		return fmt.Errorf("execution aborted: %w", err)
	}

	// 5. 집행 후 실제 보유로 동기화
	after, err := j.broker.Holdings(ctx)
	if err != nil {
		j.logger.WithError(err).Warn("집행 후 보유 조회 실패, 보유 기록 유지")
	} else if err := j.repo.ReplaceHoldings(ctx, after); err != nil {
		j.logger.WithError(err).Error("보유 기록 갱신 실패")
	}

	j.notify(ctx, "리밸런싱 완료", fmt.Sprintf(
		"%s 매도 %d / 매수 %d / 유지 %d (미체결 %d, 소스: %s)",
		date.Format("2006-01-02"),
		len(plan.Sells), len(plan.Buys), len(plan.Holds),
		len(report.Unresolved), source,
	))
	return nil
}

func (j *RebalanceJob) notify(ctx context.Context, title, body string) {
	if j.notifier == nil {
		return
	}
	if err := j.notifier.Notify(ctx, title, body); err != nil {
		j.logger.WithError(err).Warn("알림 전송 실패")
	}
}
