// Package render formats session history for display. It is the only place
// that knows how schedule items become user-facing text; the controller and
// CLI consume its output opaquely.
package render

import (
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"stint/internal/config"
	"stint/internal/schedule"
)

// Formatter renders session lists using the configured locale and time layout.
type Formatter struct {
	caser      cases.Caser
	timeFormat string
}

// New builds a Formatter from display configuration.
func New(cfg *config.Config) (*Formatter, error) {
	locale := "en-US"
	timeFormat := "2006-01-02 15:04"
	if cfg != nil {
		locale = cfg.Display.Locale
		timeFormat = cfg.Display.TimeFormat
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("parse display locale %q: %w", locale, err)
	}
	return &Formatter{
		caser:      cases.Title(tag),
		timeFormat: timeFormat,
	}, nil
}

// History renders the full descending session list as a table followed by a
// summary line. An empty list renders a short placeholder instead.
func (f *Formatter) History(items []*schedule.ScheduleItem) string {
	if len(items) == 0 {
		return f.caser.String("no sessions recorded")
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{
		f.caser.String("id"),
		f.caser.String("started"),
		f.caser.String("ended"),
		f.caser.String("duration"),
		f.caser.String("rating"),
	})
	for _, item := range items {
		tw.AppendRow(table.Row{
			item.ID,
			item.StartTime.Local().Format(f.timeFormat),
			f.endCell(item),
			f.durationCell(item),
			f.ratingCell(item),
		})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
	})

	return tw.Render() + "\n" + f.Summary(items)
}

// Summary renders a one-line aggregate for the given sessions.
func (f *Formatter) Summary(items []*schedule.ScheduleItem) string {
	var total time.Duration
	closed := 0
	tracking := false
	for _, item := range items {
		if item.Unfinished() {
			tracking = true
			continue
		}
		closed++
		total += item.Duration()
	}

	noun := "sessions"
	if closed == 1 {
		noun = "session"
	}
	summary := fmt.Sprintf("%d %s · %s tracked", closed, noun, f.Duration(total))
	if tracking {
		summary += " · " + f.caser.String("tracking now")
	}
	return summary
}

// Duration formats a duration as compact hours and minutes.
func (f *Formatter) Duration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	rounded := d.Round(time.Minute)
	hours := int(rounded / time.Hour)
	minutes := int(rounded % time.Hour / time.Minute)
	switch {
	case hours == 0 && minutes == 0 && d > 0:
		return "<1m"
	case hours == 0:
		return fmt.Sprintf("%dm", minutes)
	case minutes == 0:
		return fmt.Sprintf("%dh", hours)
	default:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
}

func (f *Formatter) endCell(item *schedule.ScheduleItem) string {
	if item.Unfinished() {
		return f.caser.String("tracking")
	}
	return item.EndTime.Local().Format(f.timeFormat)
}

func (f *Formatter) durationCell(item *schedule.ScheduleItem) string {
	if item.Unfinished() {
		return "—"
	}
	return f.Duration(item.Duration())
}

func (f *Formatter) ratingCell(item *schedule.ScheduleItem) string {
	if !item.Rated() {
		return "—"
	}
	return fmt.Sprintf("%d/5", *item.QualityRating)
}
