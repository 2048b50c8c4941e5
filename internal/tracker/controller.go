package tracker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"stint/internal/logging"
	"stint/internal/notifications"
	"stint/internal/render"
	"stint/internal/schedule"
)

// Controller drives session tracking against the schedule store.
type Controller struct {
	mu        sync.Mutex
	store     *schedule.Store
	notifier  notifications.Service
	formatter *render.Formatter
	logger    *slog.Logger
	clock     func() time.Time

	lastItem       *schedule.ScheduleItem
	historyCleared bool
	rateNext       *schedule.ScheduleItem
}

// Option customizes Controller construction.
type Option func(*Controller)

// WithClock overrides the time source, for tests.
func WithClock(clock func() time.Time) Option {
	return func(c *Controller) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// New builds a Controller and primes its cached state from the store.
func New(ctx context.Context, store *schedule.Store, notifier notifications.Service, formatter *render.Formatter, logger *slog.Logger, opts ...Option) (*Controller, error) {
	c := &Controller{
		store:     store,
		notifier:  notifier,
		formatter: formatter,
		logger:    logging.WithComponent(logger, "tracker"),
		clock:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	if err := c.Refresh(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

// Refresh re-derives the cached session from the store. A closed most-recent
// item counts as absent: only an unfinished session means "currently tracking".
func (c *Controller) Refresh(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.refreshLocked(ctx)
}

func (c *Controller) refreshLocked(ctx context.Context) error {
	item, err := c.store.MostRecent(ctx)
	if err != nil {
		return fmt.Errorf("refresh tracking state: %w", err)
	}
	if item != nil && !item.Unfinished() {
		item = nil
	}
	c.lastItem = item
	return nil
}

// StartTracking opens a new session starting now and returns the stored row.
// The insert and the read-back refresh run as one logical unit.
func (c *Controller) StartTracking(ctx context.Context) (*schedule.ScheduleItem, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	requestID := uuid.NewString()
	item, err := c.store.Insert(ctx, schedule.NewSession(c.clock()))
	if err != nil {
		return nil, fmt.Errorf("start tracking: %w", err)
	}
	if err := c.refreshLocked(ctx); err != nil {
		return nil, err
	}
	c.logger.Info("session started",
		slog.Int64(logging.FieldItemID, item.ID),
		slog.String(logging.FieldCorrelationID, requestID),
	)
	return item, nil
}

// StopTracking closes the current session and arms the rate-next signal.
// With no session in progress it is a no-op and returns (nil, nil).
func (c *Controller) StopTracking(ctx context.Context) (*schedule.ScheduleItem, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.lastItem == nil {
		c.logger.Debug("stop ignored; no session in progress")
		return nil, nil
	}

	requestID := uuid.NewString()
	item := c.lastItem
	end := c.clock().UTC()
	if !end.After(item.StartTime) {
		// A stop in the same instant would leave the row reading as unfinished.
		end = item.StartTime.Add(time.Nanosecond)
	}
	item.EndTime = end

	if err := c.store.UpdateByKey(ctx, item); err != nil {
		return nil, fmt.Errorf("stop tracking: %w", err)
	}

	stopped := *item
	c.rateNext = &stopped
	if err := c.refreshLocked(ctx); err != nil {
		return nil, err
	}
	c.logger.Info("session stopped",
		slog.Int64(logging.FieldItemID, stopped.ID),
		slog.Duration("duration", stopped.Duration()),
		slog.String(logging.FieldCorrelationID, requestID),
	)

	if err := c.notifier.NotifySessionStopped(ctx, &stopped); err != nil {
		c.logger.Warn("session stop notification failed", "error", err)
	}
	return &stopped, nil
}

// Clear removes every recorded session and arms the history-cleared signal,
// even when the table was already empty.
func (c *Controller) Clear(ctx context.Context) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	requestID := uuid.NewString()
	removed, err := c.store.ClearAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("clear history: %w", err)
	}
	c.lastItem = nil
	c.historyCleared = true
	c.logger.Info("history cleared",
		slog.Int64("removed", removed),
		slog.String(logging.FieldCorrelationID, requestID),
	)

	if err := c.notifier.NotifyHistoryCleared(ctx, removed); err != nil {
		c.logger.Warn("history clear notification failed", "error", err)
	}
	return removed, nil
}

// RateSession records a quality rating between 1 and 5 on a stored session.
func (c *Controller) RateSession(ctx context.Context, id int64, rating int) (*schedule.ScheduleItem, error) {
	if rating < 1 || rating > 5 {
		return nil, fmt.Errorf("rating must be between 1 and 5, got %d", rating)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	item, err := c.store.GetByKey(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("rate session: %w", err)
	}
	if item == nil {
		return nil, fmt.Errorf("rate session %d: %w", id, schedule.ErrNotFound)
	}
	item.QualityRating = &rating
	if err := c.store.UpdateByKey(ctx, item); err != nil {
		return nil, fmt.Errorf("rate session: %w", err)
	}
	c.logger.Info("session rated",
		slog.Int64(logging.FieldItemID, item.ID),
		slog.Int("rating", rating),
	)
	return item, nil
}

// HistoryCleared reports whether the history-cleared signal is armed.
func (c *Controller) HistoryCleared() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.historyCleared
}

// AcknowledgeHistoryCleared consumes the history-cleared signal.
func (c *Controller) AcknowledgeHistoryCleared() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.historyCleared = false
}

// RateNext returns the session awaiting a rating, or nil when the signal is
// not armed.
func (c *Controller) RateNext() *schedule.ScheduleItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rateNext
}

// AcknowledgeRateNext consumes the rate-next signal.
func (c *Controller) AcknowledgeRateNext() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rateNext = nil
}
