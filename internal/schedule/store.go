package schedule

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofrs/flock"
	_ "modernc.org/sqlite"

	"stint/internal/config"
	"stint/internal/logging"
)

// Store manages schedule persistence backed by SQLite.
type Store struct {
	db     *sql.DB
	path   string
	lock   *flock.Flock
	logger *slog.Logger
	hub    *hub
}

// Open initializes or connects to the schedule database, applies the schema,
// and acquires the single-writer lock file beside the database. ErrLocked is
// returned when another process already holds the lock.
func Open(cfg *config.Config, logger *slog.Logger) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := cfg.DatabasePath()
	lock := flock.New(dbPath + ".lock")
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire database lock: %w", err)
	}
	if !locked {
		return nil, ErrLocked
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		_ = lock.Unlock()
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			_ = lock.Unlock()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{
		db:     db,
		path:   dbPath,
		lock:   lock,
		logger: logging.WithComponent(logger, "schedule-store"),
		hub:    newHub(),
	}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		_ = lock.Unlock()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying database connection and releases the lock file.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	s.hub.close()
	err := s.db.Close()
	if s.lock != nil {
		if unlockErr := s.lock.Unlock(); unlockErr != nil && err == nil {
			err = unlockErr
		}
	}
	return err
}

// Path returns the location of the schedule database file.
func (s *Store) Path() string {
	return s.path
}

// Insert appends a new schedule item and returns the stored row. A zero ID
// lets SQLite assign the next key; a non-zero ID is inserted as given and
// surfaces the driver's constraint error when the key already exists.
func (s *Store) Insert(ctx context.Context, item *ScheduleItem) (*ScheduleItem, error) {
	if item == nil {
		return nil, errors.New("item is nil")
	}

	var (
		res sql.Result
		err error
	)
	if item.ID == 0 {
		res, err = s.db.ExecContext(
			ctx,
			`INSERT INTO schedule_items (start_time, end_time, quality_rating) VALUES (?, ?, ?)`,
			formatTime(item.StartTime),
			formatTime(item.EndTime),
			nullableInt(item.QualityRating),
		)
	} else {
		res, err = s.db.ExecContext(
			ctx,
			`INSERT INTO schedule_items (id, start_time, end_time, quality_rating) VALUES (?, ?, ?, ?)`,
			item.ID,
			formatTime(item.StartTime),
			formatTime(item.EndTime),
			nullableInt(item.QualityRating),
		)
	}
	if err != nil {
		return nil, fmt.Errorf("insert schedule item: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	stored, err := s.GetByKey(ctx, id)
	if err != nil {
		return nil, err
	}
	s.publish(ctx)
	return stored, nil
}

// UpdateByKey replaces the stored row whose key matches item.ID. ErrNotFound
// is returned when no row matches.
func (s *Store) UpdateByKey(ctx context.Context, item *ScheduleItem) error {
	if item == nil {
		return errors.New("item is nil")
	}
	res, err := s.db.ExecContext(
		ctx,
		`UPDATE schedule_items SET start_time = ?, end_time = ?, quality_rating = ? WHERE id = ?`,
		formatTime(item.StartTime),
		formatTime(item.EndTime),
		nullableInt(item.QualityRating),
		item.ID,
	)
	if err != nil {
		return fmt.Errorf("update schedule item: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("update schedule item %d: %w", item.ID, ErrNotFound)
	}
	s.publish(ctx)
	return nil
}

// GetByKey fetches a schedule item by identifier, returning nil when absent.
func (s *Store) GetByKey(ctx context.Context, id int64) (*ScheduleItem, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM schedule_items WHERE id = ?`, id)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get schedule item: %w", err)
	}
	return item, nil
}

// ClearAll removes every schedule item and reports how many rows were deleted.
// Clearing an already-empty table is valid and still publishes a snapshot.
func (s *Store) ClearAll(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM schedule_items`)
	if err != nil {
		return 0, fmt.Errorf("clear schedule items: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	s.publish(ctx)
	return affected, nil
}

// ListAllDescending returns all schedule items ordered by id descending.
func (s *Store) ListAllDescending(ctx context.Context) ([]*ScheduleItem, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+itemColumns+` FROM schedule_items ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list schedule items: %w", err)
	}
	defer rows.Close()

	var items []*ScheduleItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// MostRecent returns the schedule item with the maximum id, or nil when the
// table is empty.
func (s *Store) MostRecent(ctx context.Context) (*ScheduleItem, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM schedule_items ORDER BY id DESC LIMIT 1`)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("most recent schedule item: %w", err)
	}
	return item, nil
}

const itemColumns = "id, start_time, end_time, quality_rating"

func scanItem(scanner interface{ Scan(dest ...any) error }) (*ScheduleItem, error) {
	var (
		id       int64
		startRaw string
		endRaw   string
		rating   sql.NullInt64
	)

	if err := scanner.Scan(&id, &startRaw, &endRaw, &rating); err != nil {
		return nil, err
	}

	start, err := parseTimeString(startRaw)
	if err != nil {
		return nil, fmt.Errorf("parse start_time for item %d: %w", id, err)
	}
	end, err := parseTimeString(endRaw)
	if err != nil {
		return nil, fmt.Errorf("parse end_time for item %d: %w", id, err)
	}

	item := &ScheduleItem{ID: id, StartTime: start, EndTime: end}
	if rating.Valid {
		value := int(rating.Int64)
		item.QualityRating = &value
	}
	return item, nil
}

func formatTime(value time.Time) string {
	return value.UTC().Format(time.RFC3339Nano)
}

func nullableInt(value *int) any {
	if value == nil {
		return nil
	}
	return *value
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}
