package tracker

import (
	"context"
	"fmt"

	"stint/internal/schedule"
)

// ViewState is the derived, never-persisted state a consuming surface binds
// to. Each call recomputes it from the cached session and the live list.
type ViewState struct {
	Tracking     bool
	Current      *schedule.ScheduleItem
	StartVisible bool
	StopVisible  bool
	ClearVisible bool
	SessionCount int
	DisplayText  string
}

// ViewState derives the current view state.
func (c *Controller) ViewState(ctx context.Context) (ViewState, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	items, err := c.store.ListAllDescending(ctx)
	if err != nil {
		return ViewState{}, fmt.Errorf("derive view state: %w", err)
	}

	state := ViewState{
		Tracking:     c.lastItem != nil,
		Current:      c.lastItem,
		StartVisible: c.lastItem == nil,
		StopVisible:  c.lastItem != nil,
		ClearVisible: len(items) > 0,
		SessionCount: len(items),
		DisplayText:  c.formatter.History(items),
	}
	return state, nil
}
