package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/talos/backend/pkg/logger"
)

type fakeJob struct {
	name     string
	schedule string
	failures int32 // 처음 N회 실패 후 성공
	runs     int32
}

func (j *fakeJob) Name() string     { return j.name }
func (j *fakeJob) Schedule() string { return j.schedule }

func (j *fakeJob) Run(_ context.Context) error {
	n := atomic.AddInt32(&j.runs, 1)
	if n <= j.failures {
		return errors.New("transient failure")
	}
	return nil
}

func TestAddJobRejectsDuplicate(t *testing.T) {
	s := New(logger.NewNop(), 3, time.Millisecond)

	job := &fakeJob{name: "screening", schedule: "@daily"}
	require.NoError(t, s.AddJob(job))

	err := s.AddJob(&fakeJob{name: "screening", schedule: "@daily"})
	assert.Error(t, err)
}

func TestRunJobRetriesUntilSuccess(t *testing.T) {
	s := New(logger.NewNop(), 3, time.Millisecond)

	job := &fakeJob{name: "flaky", schedule: "@daily", failures: 2}
	require.NoError(t, s.AddJob(job))

	s.runJob(job)

	history, err := s.GetJobHistory("flaky")
	require.NoError(t, err)
	require.Len(t, history.Results, 1)

	result := history.Results[0]
	assert.True(t, result.Success)
	assert.Equal(t, 3, result.Attempts)
}

func TestRunJobGivesUpAfterMaxRetries(t *testing.T) {
	s := New(logger.NewNop(), 2, time.Millisecond)

	job := &fakeJob{name: "broken", schedule: "@daily", failures: 10}
	require.NoError(t, s.AddJob(job))

	s.runJob(job)

	history, err := s.GetJobHistory("broken")
	require.NoError(t, err)
	require.Len(t, history.Results, 1)

	result := history.Results[0]
	assert.False(t, result.Success)
	assert.Equal(t, 3, result.Attempts) // 최초 1회 + 재시도 2회
	assert.Contains(t, result.Error, "transient failure")
}

type fakeSink struct {
	notifications int32
	lastBody      string
}

func (s *fakeSink) Notify(_ context.Context, _, body string) error {
	atomic.AddInt32(&s.notifications, 1)
	s.lastBody = body
	return nil
}

func TestRunJobNotifiesOnceAfterRetriesExhausted(t *testing.T) {
	s := New(logger.NewNop(), 2, time.Millisecond)
	sink := &fakeSink{}
	s.SetNotifier(sink)

	job := &fakeJob{name: "broken", schedule: "@daily", failures: 10}
	require.NoError(t, s.AddJob(job))

	s.runJob(job)

	// 시도마다가 아니라 재시도 소진 후 한 번만
	assert.Equal(t, int32(1), atomic.LoadInt32(&sink.notifications))
	assert.Contains(t, sink.lastBody, "broken")
	assert.Contains(t, sink.lastBody, "transient failure")
}

func TestRunJobNoNotificationOnSuccess(t *testing.T) {
	s := New(logger.NewNop(), 3, time.Millisecond)
	sink := &fakeSink{}
	s.SetNotifier(sink)

	job := &fakeJob{name: "flaky", schedule: "@daily", failures: 2}
	require.NoError(t, s.AddJob(job))

	s.runJob(job)

	assert.Equal(t, int32(0), atomic.LoadInt32(&sink.notifications))
}

func TestGetJobStats(t *testing.T) {
	s := New(logger.NewNop(), 0, time.Millisecond)

	ok := &fakeJob{name: "ok", schedule: "@daily"}
	bad := &fakeJob{name: "bad", schedule: "@hourly", failures: 10}
	require.NoError(t, s.AddJob(ok))
	require.NoError(t, s.AddJob(bad))

	s.runJob(ok)
	s.runJob(ok)
	s.runJob(bad)

	stats := s.GetJobStats()
	require.Len(t, stats, 2)

	assert.Equal(t, 2, stats["ok"].TotalRuns)
	assert.Equal(t, 2, stats["ok"].SuccessCount)
	assert.InDelta(t, 1.0, stats["ok"].SuccessRate, 1e-9)
	assert.NotNil(t, stats["ok"].LastRun)

	assert.Equal(t, 1, stats["bad"].FailureCount)
	assert.Equal(t, "@hourly", stats["bad"].Schedule)
}

func TestJobHistoryKeepsLast100(t *testing.T) {
	h := &JobHistory{}
	for i := 0; i < 120; i++ {
		h.AddResult(JobResult{JobName: "j", Success: i%2 == 0})
	}
	assert.Len(t, h.Results, 100)
}
