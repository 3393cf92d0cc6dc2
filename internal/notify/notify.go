// Package notify delivers human-readable pipeline events.
package notify

import (
	"context"
	"time"

	"github.com/wonny/talos/backend/pkg/httputil"
	"github.com/wonny/talos/backend/pkg/logger"
)

// LogSink writes notifications to the structured log.
// 별도 채널이 설정되지 않은 환경의 기본 싱크.
type LogSink struct {
	logger *logger.Logger
}

// NewLogSink creates a log-backed sink
func NewLogSink(log *logger.Logger) *LogSink {
	return &LogSink{logger: log.WithField("module", "notify")}
}

func (s *LogSink) Notify(_ context.Context, title, body string) error {
	s.logger.WithFields(map[string]interface{}{
		"title": title,
		"body":  body,
	}).Info("Notification")
	return nil
}

// WebhookSink posts notifications to a webhook URL (Slack 호환 포맷).
type WebhookSink struct {
	client *httputil.Client
	logger *logger.Logger
}

// NewWebhookSink creates a webhook-backed sink
func NewWebhookSink(webhookURL string, log *logger.Logger) *WebhookSink {
	return &WebhookSink{
		client: httputil.NewClient(webhookURL, 5*time.Second),
		logger: log.WithField("module", "notify"),
	}
}

func (s *WebhookSink) Notify(ctx context.Context, title, body string) error {
	payload := map[string]string{
		"text": "*" + title + "*\n" + body,
	}
	if err := s.client.PostJSON(ctx, "", payload, nil); err != nil {
		// 알림 실패가 파이프라인을 막아서는 안 된다
		s.logger.WithError(err).Warn("웹훅 알림 실패")
		return err
	}
	return nil
}
