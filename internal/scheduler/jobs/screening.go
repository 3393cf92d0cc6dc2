package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/talos/backend/internal/contracts"
	"github.com/wonny/talos/backend/internal/screening"
	"github.com/wonny/talos/backend/pkg/logger"
)

// ScreeningJob runs the daily factor scoring pipeline after market close.
type ScreeningJob struct {
	screener *screening.Screener
	notifier contracts.NotificationSink
	schedule string
	logger   *logger.Logger
}

// NewScreeningJob creates a screening job
func NewScreeningJob(
	screener *screening.Screener,
	notifier contracts.NotificationSink,
	schedule string,
	log *logger.Logger,
) *ScreeningJob {
	return &ScreeningJob{
		screener: screener,
		notifier: notifier,
		schedule: schedule,
		logger:   log.WithField("job", "screening"),
	}
}

func (j *ScreeningJob) Name() string     { return "screening" }
func (j *ScreeningJob) Schedule() string { return j.schedule }

// Run scores today's universe and persists scores + target.
func (j *ScreeningJob) Run(ctx context.Context) error {
	date := todayKST()

	// 실패 알림은 스케줄러가 재시도 소진 후 보낸다
	target, err := j.screener.Run(ctx, date)
	if err != nil {
		return fmt.Errorf("screening failed for %s: %w", date.Format("2006-01-02"), err)
	}

	j.notify(ctx, "스크리닝 완료",
		fmt.Sprintf("%s 상위 %d종목 선정 (1위: %s)",
			date.Format("2006-01-02"), target.Count(), target.Positions[0].Name))
	return nil
}

func (j *ScreeningJob) notify(ctx context.Context, title, body string) {
	if j.notifier == nil {
		return
	}
	if err := j.notifier.Notify(ctx, title, body); err != nil {
		j.logger.WithError(err).Warn("알림 전송 실패")
	}
}

// todayKST returns today's date truncated to midnight KST.
// 거래 데이터 기준일이 한국 시장이라 항상 KST로 고정한다.
func todayKST() time.Time {
	loc, err := time.LoadLocation("Asia/Seoul")
	if err != nil {
		loc = time.FixedZone("KST", 9*60*60)
	}
	now := time.Now().In(loc)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
