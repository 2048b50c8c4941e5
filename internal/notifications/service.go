package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"stint/internal/config"
	"stint/internal/schedule"
)

const userAgent = "Stint/0.1.0"

// Service defines the notification surface exposed to the tracker.
type Service interface {
	NotifySessionStopped(ctx context.Context, item *schedule.ScheduleItem) error
	NotifyHistoryCleared(ctx context.Context, removed int64) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ntfyService{
		endpoint: topic,
		client:   &http.Client{Timeout: timeout},
		sessions: cfg.Notifications.Sessions,
		history:  cfg.Notifications.History,
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint string
	client   *http.Client
	sessions bool
	history  bool
}

func (n *ntfyService) NotifySessionStopped(ctx context.Context, item *schedule.ScheduleItem) error {
	if !n.sessions || item == nil {
		return nil
	}
	data := payload{
		title:   "Stint - Session Stopped",
		message: fmt.Sprintf("Session #%d finished after %s", item.ID, item.Duration().Round(time.Second)),
		tags:    []string{"stint", "session", "stopped"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyHistoryCleared(ctx context.Context, removed int64) error {
	if !n.history {
		return nil
	}
	data := payload{
		title:   "Stint - History Cleared",
		message: fmt.Sprintf("Removed %d recorded sessions", removed),
		tags:    []string{"stint", "history", "cleared"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:    "Stint - Test",
		message:  "Test notification from stint",
		tags:     []string{"stint", "test"},
		priority: "low",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) NotifySessionStopped(context.Context, *schedule.ScheduleItem) error {
	return nil
}

func (noopService) NotifyHistoryCleared(context.Context, int64) error {
	return nil
}

func (noopService) TestNotification(context.Context) error {
	return nil
}
