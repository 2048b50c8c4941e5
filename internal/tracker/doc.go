// Package tracker orchestrates start/stop/clear actions against the schedule
// store and derives the view state a consuming surface binds to.
//
// A Controller caches the most recent unfinished session: only an item whose
// end time still equals its start time counts as "currently tracking". One-shot
// signals (history cleared, rate-next) stay armed until the consumer
// acknowledges them, so a re-rendering surface cannot fire them twice.
//
// All operations serialize on one mutex per Controller so an insert and its
// read-back refresh form a single logical unit.
package tracker
