package schedule

import "errors"

// ErrNotFound is returned when an update names a key with no matching row.
var ErrNotFound = errors.New("schedule item not found")

// ErrLocked is returned when another process holds the database lock.
var ErrLocked = errors.New("schedule database is locked by another stint process")
