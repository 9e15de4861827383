package analytics

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/echo-journal/internal/journal"
)

// Color classes for calendar cells.
const (
	ColorGreen = "green"
	ColorRed   = "red"
	ColorBlue  = "blue"
)

type CalendarCell struct {
	Date     time.Time `json:"date"`
	Day      int       `json:"day"`
	InMonth  bool      `json:"in_month"`
	HasEntry bool      `json:"has_entry"`
	Entries  int       `json:"entries"`
	Color    string    `json:"color,omitempty"`
}

// MoodCalendar builds a six-week grid starting on the Sunday on or before the first
// day of month. Cells with entries are colored by their average sentiment.
func MoodCalendar(entries []journal.Entry, month time.Month, year int, loc *time.Location) [calendarCells]CalendarCell {
	if loc == nil {
		loc = time.UTC
	}
	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	start := first.AddDate(0, 0, -int(first.Weekday()))

	type tally struct {
		n     int
		score float64
	}
	perDay := make(map[time.Time]*tally)
	for _, e := range entries {
		if e.CreatedAt.IsZero() {
			continue
		}
		d := day(e.CreatedAt, loc)
		t, ok := perDay[d]
		if !ok {
			t = &tally{}
			perDay[d] = t
		}
		t.n++
		t.score += e.Sentiment.Score()
	}

	var grid [calendarCells]CalendarCell
	for i := range grid {
		date := start.AddDate(0, 0, i)
		cell := CalendarCell{
			Date:    date,
			Day:     date.Day(),
			InMonth: date.Month() == first.Month(),
		}
		if t, ok := perDay[date]; ok {
			cell.HasEntry = true
			cell.Entries = t.n
			cell.Color = colorFor(t.score / float64(t.n))
		}
		grid[i] = cell
	}
	return grid
}

func colorFor(avg float64) string {
	switch bucket(avg) {
	case MoodPositive:
		return ColorGreen
	case MoodNegative:
		return ColorRed
	default:
		return ColorBlue
	}
}
