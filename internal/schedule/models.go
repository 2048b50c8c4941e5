package schedule

import "time"

// ScheduleItem is one tracked start/stop session.
//
// EndTime equal to StartTime marks an unfinished (in-progress) session; once
// EndTime moves past StartTime the row is closed and never reopened.
type ScheduleItem struct {
	ID            int64
	StartTime     time.Time
	EndTime       time.Time
	QualityRating *int
}

// Unfinished reports whether the session is still in progress.
func (i *ScheduleItem) Unfinished() bool {
	return i != nil && i.EndTime.Equal(i.StartTime)
}

// Duration returns the tracked length of a closed session and zero for an
// unfinished one.
func (i *ScheduleItem) Duration() time.Duration {
	if i == nil || i.Unfinished() {
		return 0
	}
	return i.EndTime.Sub(i.StartTime)
}

// Rated reports whether a quality rating has been recorded.
func (i *ScheduleItem) Rated() bool {
	return i != nil && i.QualityRating != nil
}

// NewSession builds an unfinished session starting at the given instant. The
// identifier is assigned by the store on insert.
func NewSession(start time.Time) *ScheduleItem {
	start = start.UTC()
	return &ScheduleItem{StartTime: start, EndTime: start}
}
