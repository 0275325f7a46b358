package data

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"mediareview/internal/biz"
	"mediareview/internal/conf"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/goccy/go-json"
)

// NewNotificationSink opens the notification log and, when a webhook url is
// configured, forwards every record to it as well.
func NewNotificationSink(c *conf.Notify, logger log.Logger) (biz.NotificationSink, func(), error) {
	f, err := os.OpenFile(c.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open notification log: %w", err)
	}

	sinks := multiSink{newLogSink(f)}
	if c.Webhook != nil && c.Webhook.Url != "" {
		sinks = append(sinks, newWebhookSink(c.Webhook, logger))
	}

	cleanup := func() {
		if err := f.Close(); err != nil {
			log.NewHelper(logger).Errorf("failed to close notification log: %v", err)
		}
	}
	return sinks, cleanup, nil
}

type multiSink []biz.NotificationSink

func (m multiSink) Notify(ctx context.Context, n *biz.Notification) error {
	var first error
	for _, s := range m {
		if err := s.Notify(ctx, n); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// logSink appends one structured line per notification.
type logSink struct {
	logger log.Logger
}

func newLogSink(f *os.File) *logSink {
	return &logSink{logger: log.With(log.NewStdLogger(f), "ts", log.DefaultTimestamp)}
}

func (s *logSink) Notify(_ context.Context, n *biz.Notification) error {
	return s.logger.Log(log.LevelInfo,
		"msg", "new review",
		"subscriber", n.Subscriber,
		"media_id", n.MediaID,
		"review", n.Summary,
	)
}

// webhookSink POSTs notifications as JSON, retrying transient failures.
type webhookSink struct {
	client     *http.Client
	url        string
	apiKey     string
	maxRetries int
	log        *log.Helper
}

func newWebhookSink(c *conf.Notify_Webhook, logger log.Logger) *webhookSink {
	return &webhookSink{
		client: &http.Client{
			Timeout: c.Timeout.AsDuration(),
		},
		url:        c.Url,
		apiKey:     c.ApiKey,
		maxRetries: c.MaxRetries,
		log:        log.NewHelper(log.With(logger, "module", "data/webhook")),
	}
}

type webhookPayload struct {
	Subscriber string `json:"subscriber"`
	MediaID    int64  `json:"media_id"`
	Review     string `json:"review"`
}

type permanentError struct{ status int }

func (e permanentError) Error() string {
	return fmt.Sprintf("webhook rejected notification: status %d", e.status)
}

func (s *webhookSink) Notify(ctx context.Context, n *biz.Notification) error {
	body, err := json.Marshal(webhookPayload{
		Subscriber: n.Subscriber,
		MediaID:    n.MediaID,
		Review:     n.Summary,
	})
	if err != nil {
		return fmt.Errorf("encode webhook payload: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(attempt) * 100 * time.Millisecond
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
			s.log.Debugf("retrying webhook for %s, attempt %d/%d", n.Subscriber, attempt, s.maxRetries)
		}

		lastErr = s.post(ctx, body)
		if lastErr == nil {
			return nil
		}

		// Client errors will not succeed on retry
		if _, ok := lastErr.(permanentError); ok {
			break
		}
	}

	return fmt.Errorf("webhook failed after %d attempts: %w", s.maxRetries+1, lastErr)
}

func (s *webhookSink) post(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("X-API-Key", s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return permanentError{status: resp.StatusCode}
	default:
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
}
