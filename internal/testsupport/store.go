package testsupport

import (
	"context"
	"testing"
	"time"

	"stint/internal/config"
	"stint/internal/logging"
	"stint/internal/schedule"
)

// MustOpenStore opens a schedule.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *schedule.Store {
	t.Helper()

	store, err := schedule.Open(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("schedule.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// StartSession inserts an unfinished session starting at the provided instant.
func StartSession(t testing.TB, store *schedule.Store, start time.Time) *schedule.ScheduleItem {
	t.Helper()

	item, err := store.Insert(context.Background(), schedule.NewSession(start))
	if err != nil {
		t.Fatalf("store.Insert: %v", err)
	}
	return item
}

// ClosedSession inserts a session that ran from start to end.
func ClosedSession(t testing.TB, store *schedule.Store, start, end time.Time) *schedule.ScheduleItem {
	t.Helper()

	session := schedule.NewSession(start)
	session.EndTime = end.UTC()
	item, err := store.Insert(context.Background(), session)
	if err != nil {
		t.Fatalf("store.Insert: %v", err)
	}
	return item
}
