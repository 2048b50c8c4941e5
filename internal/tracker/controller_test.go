package tracker_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"stint/internal/logging"
	"stint/internal/notifications"
	"stint/internal/render"
	"stint/internal/schedule"
	"stint/internal/testsupport"
	"stint/internal/tracker"
)

type fixture struct {
	store      *schedule.Store
	controller *tracker.Controller
	now        *time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	formatter, err := render.New(cfg)
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	fx := &fixture{store: store, now: &now}

	controller, err := tracker.New(
		context.Background(),
		store,
		notifications.NewService(cfg),
		formatter,
		logging.NewNop(),
		tracker.WithClock(func() time.Time { return *fx.now }),
	)
	if err != nil {
		t.Fatalf("tracker.New: %v", err)
	}
	fx.controller = controller
	return fx
}

func (fx *fixture) advance(d time.Duration) {
	*fx.now = fx.now.Add(d)
}

func (fx *fixture) viewState(t *testing.T) tracker.ViewState {
	t.Helper()
	state, err := fx.controller.ViewState(context.Background())
	if err != nil {
		t.Fatalf("ViewState: %v", err)
	}
	return state
}

func TestRefreshDetectsUnfinishedSession(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	unfinished := testsupport.StartSession(t, store, start)

	formatter, err := render.New(cfg)
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}
	controller, err := tracker.New(context.Background(), store, notifications.NewService(cfg), formatter, logging.NewNop())
	if err != nil {
		t.Fatalf("tracker.New: %v", err)
	}

	state, err := controller.ViewState(context.Background())
	if err != nil {
		t.Fatalf("ViewState: %v", err)
	}
	if !state.Tracking || state.Current == nil || state.Current.ID != unfinished.ID {
		t.Fatalf("expected unfinished session %d to be tracked: %+v", unfinished.ID, state)
	}
	if state.StartVisible || !state.StopVisible {
		t.Fatalf("unexpected button visibility: %+v", state)
	}
}

func TestRefreshIgnoresClosedSession(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	testsupport.ClosedSession(t, store, start, start.Add(time.Hour))

	formatter, err := render.New(cfg)
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}
	controller, err := tracker.New(context.Background(), store, notifications.NewService(cfg), formatter, logging.NewNop())
	if err != nil {
		t.Fatalf("tracker.New: %v", err)
	}

	state, err := controller.ViewState(context.Background())
	if err != nil {
		t.Fatalf("ViewState: %v", err)
	}
	if state.Tracking || state.Current != nil {
		t.Fatalf("expected closed session to count as absent: %+v", state)
	}
	if !state.StartVisible || state.StopVisible {
		t.Fatalf("unexpected button visibility: %+v", state)
	}
	if !state.ClearVisible || state.SessionCount != 1 {
		t.Fatalf("expected clear to stay available with history present: %+v", state)
	}
}

func TestStartTrackingAssignsFreshKeys(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	var lastID int64
	for i := 0; i < 3; i++ {
		item, err := fx.controller.StartTracking(ctx)
		if err != nil {
			t.Fatalf("StartTracking failed: %v", err)
		}
		if item.ID <= lastID {
			t.Fatalf("expected strictly increasing key, got %d after %d", item.ID, lastID)
		}
		lastID = item.ID

		state := fx.viewState(t)
		if state.Current == nil || state.Current.ID != item.ID {
			t.Fatalf("expected cached session %d, got %+v", item.ID, state.Current)
		}
		fx.advance(time.Minute)
	}
}

func TestStopTrackingNoopWhenAbsent(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	stopped, err := fx.controller.StopTracking(ctx)
	if err != nil {
		t.Fatalf("StopTracking failed: %v", err)
	}
	if stopped != nil {
		t.Fatalf("expected no-op stop, got %+v", stopped)
	}
	if fx.controller.RateNext() != nil {
		t.Fatal("expected rate-next signal to stay unarmed")
	}
	state := fx.viewState(t)
	if state.Tracking || state.SessionCount != 0 || state.ClearVisible {
		t.Fatalf("expected unchanged state: %+v", state)
	}
}

func TestStopTrackingClosesAndArmsRateNext(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	started, err := fx.controller.StartTracking(ctx)
	if err != nil {
		t.Fatalf("StartTracking failed: %v", err)
	}
	fx.advance(100 * time.Minute)

	stopped, err := fx.controller.StopTracking(ctx)
	if err != nil {
		t.Fatalf("StopTracking failed: %v", err)
	}
	if stopped == nil || stopped.ID != started.ID {
		t.Fatalf("expected stopped session %d, got %+v", started.ID, stopped)
	}
	if stopped.Duration() != 100*time.Minute {
		t.Fatalf("unexpected duration: %s", stopped.Duration())
	}

	row, err := fx.store.GetByKey(ctx, started.ID)
	if err != nil {
		t.Fatalf("GetByKey failed: %v", err)
	}
	if row.Unfinished() || !row.EndTime.Equal(stopped.EndTime) {
		t.Fatalf("expected persisted end time %s, got %#v", stopped.EndTime, row)
	}

	rateNext := fx.controller.RateNext()
	if rateNext == nil || rateNext.ID != stopped.ID || !rateNext.EndTime.Equal(stopped.EndTime) {
		t.Fatalf("expected rate-next signal for %d, got %+v", stopped.ID, rateNext)
	}

	state := fx.viewState(t)
	if state.Tracking || !state.StartVisible {
		t.Fatalf("expected tracking to end: %+v", state)
	}
	if !state.ClearVisible || state.SessionCount != 1 {
		t.Fatalf("expected closed row to survive: %+v", state)
	}
}

func TestClearIsTotalAndSignals(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	if _, err := fx.controller.StartTracking(ctx); err != nil {
		t.Fatalf("StartTracking failed: %v", err)
	}
	fx.advance(time.Hour)
	if _, err := fx.controller.StopTracking(ctx); err != nil {
		t.Fatalf("StopTracking failed: %v", err)
	}

	removed, err := fx.controller.Clear(ctx)
	if err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if removed != 1 {
		t.Fatalf("expected 1 removed row, got %d", removed)
	}

	state := fx.viewState(t)
	if state.Tracking || state.ClearVisible || state.SessionCount != 0 {
		t.Fatalf("expected empty state after clear: %+v", state)
	}
	if !state.StartVisible {
		t.Fatalf("expected start available after clear: %+v", state)
	}
	if !fx.controller.HistoryCleared() {
		t.Fatal("expected history-cleared signal armed")
	}
}

func TestClearSignalsOnEmptyHistory(t *testing.T) {
	fx := newFixture(t)

	removed, err := fx.controller.Clear(context.Background())
	if err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if removed != 0 {
		t.Fatalf("expected 0 removed rows, got %d", removed)
	}
	if !fx.controller.HistoryCleared() {
		t.Fatal("expected history-cleared signal armed even for empty history")
	}
}

func TestAcknowledgeResetsSignalsOnce(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	if _, err := fx.controller.StartTracking(ctx); err != nil {
		t.Fatalf("StartTracking failed: %v", err)
	}
	fx.advance(time.Minute)
	if _, err := fx.controller.StopTracking(ctx); err != nil {
		t.Fatalf("StopTracking failed: %v", err)
	}
	if _, err := fx.controller.Clear(ctx); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}

	fx.controller.AcknowledgeRateNext()
	if fx.controller.RateNext() != nil {
		t.Fatal("expected rate-next signal consumed")
	}
	fx.controller.AcknowledgeHistoryCleared()
	if fx.controller.HistoryCleared() {
		t.Fatal("expected history-cleared signal consumed")
	}

	// Signals stay consumed until a new event arms them again.
	if fx.controller.HistoryCleared() || fx.controller.RateNext() != nil {
		t.Fatal("expected signals to stay consumed")
	}
	if _, err := fx.controller.Clear(ctx); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if !fx.controller.HistoryCleared() {
		t.Fatal("expected new clear to arm the signal again")
	}
}

func TestRateSessionValidatesAndPersists(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	started, err := fx.controller.StartTracking(ctx)
	if err != nil {
		t.Fatalf("StartTracking failed: %v", err)
	}
	fx.advance(time.Hour)
	if _, err := fx.controller.StopTracking(ctx); err != nil {
		t.Fatalf("StopTracking failed: %v", err)
	}

	if _, err := fx.controller.RateSession(ctx, started.ID, 0); err == nil {
		t.Fatal("expected error for out-of-range rating")
	}
	if _, err := fx.controller.RateSession(ctx, started.ID+99, 3); !errors.Is(err, schedule.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown session, got %v", err)
	}

	rated, err := fx.controller.RateSession(ctx, started.ID, 4)
	if err != nil {
		t.Fatalf("RateSession failed: %v", err)
	}
	if !rated.Rated() || *rated.QualityRating != 4 {
		t.Fatalf("expected rating persisted, got %+v", rated)
	}

	row, err := fx.store.GetByKey(ctx, started.ID)
	if err != nil {
		t.Fatalf("GetByKey failed: %v", err)
	}
	if !row.Rated() || *row.QualityRating != 4 {
		t.Fatalf("expected stored rating, got %+v", row)
	}
}

func TestStartStopClearScenario(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	formatter, err := render.New(cfg)
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}
	now := time.Unix(100, 0).UTC()
	controller, err := tracker.New(
		context.Background(),
		store,
		notifications.NewService(cfg),
		formatter,
		logging.NewNop(),
		tracker.WithClock(func() time.Time { return now }),
	)
	if err != nil {
		t.Fatalf("tracker.New: %v", err)
	}
	ctx := context.Background()

	item, err := controller.StartTracking(ctx)
	if err != nil {
		t.Fatalf("StartTracking failed: %v", err)
	}
	if item.ID != 1 || !item.StartTime.Equal(time.Unix(100, 0).UTC()) || !item.Unfinished() {
		t.Fatalf("unexpected started item: %+v", item)
	}
	state, err := controller.ViewState(ctx)
	if err != nil {
		t.Fatalf("ViewState: %v", err)
	}
	if state.StartVisible {
		t.Fatalf("expected start hidden while tracking: %+v", state)
	}

	now = time.Unix(200, 0).UTC()
	stopped, err := controller.StopTracking(ctx)
	if err != nil {
		t.Fatalf("StopTracking failed: %v", err)
	}
	row, err := store.GetByKey(ctx, 1)
	if err != nil {
		t.Fatalf("GetByKey failed: %v", err)
	}
	if !row.StartTime.Equal(time.Unix(100, 0).UTC()) || !row.EndTime.Equal(time.Unix(200, 0).UTC()) {
		t.Fatalf("unexpected stored row: %+v", row)
	}
	rateNext := controller.RateNext()
	if rateNext == nil || rateNext.ID != stopped.ID || !rateNext.EndTime.Equal(row.EndTime) {
		t.Fatalf("expected rate-next to match stored row, got %+v", rateNext)
	}

	if _, err := controller.Clear(ctx); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	items, err := store.ListAllDescending(ctx)
	if err != nil {
		t.Fatalf("ListAllDescending failed: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected empty store, got %d rows", len(items))
	}
	state, err = controller.ViewState(ctx)
	if err != nil {
		t.Fatalf("ViewState: %v", err)
	}
	if state.Tracking || !state.StartVisible {
		t.Fatalf("expected idle state after clear: %+v", state)
	}
	if !controller.HistoryCleared() {
		t.Fatal("expected history-cleared signal armed")
	}
}
