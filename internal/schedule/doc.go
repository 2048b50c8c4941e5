// Package schedule persists tracked work sessions in SQLite and exposes the
// table through observable snapshot queries.
//
// The Store manages the database connection, schema initialization, and the
// single-writer lock file beside the database. A session row is "unfinished"
// while its end time still equals its start time; stopping a session is the
// only mutation a row ever receives (a later quality rating aside). Every
// committed mutation publishes a fresh descending snapshot to subscribers.
//
// Treat this package as the single source of truth for session semantics; when
// the row shape changes, update schema.sql and bump schemaVersion.
package schedule
