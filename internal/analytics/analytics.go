// Package analytics derives mood statistics from finalized journal entries.
//
// Every function is pure and total: empty or odd input yields a zero or sentinel
// value, never a panic. Entries are expected newest first, as returned by
// journal.Repository.QueryByOwner. Calendar days are taken in the location of the
// supplied reference time.
package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/ahmetcoskunkizilkaya/echo-journal/internal/journal"
)

const (
	// MoodThreshold splits average sentiment scores into positive/neutral/negative.
	MoodThreshold = 0.3

	topEmotionLimit = 10
	weekDays        = 7
	calendarCells   = 42
)

// Mood is an averaged sentiment, or MoodNoData when there is nothing to average.
type Mood string

const (
	MoodPositive Mood = "positive"
	MoodNeutral  Mood = "neutral"
	MoodNegative Mood = "negative"
	MoodNoData   Mood = "no_data"
)

// Emoji is the symbol shown on the home screen.
func (m Mood) Emoji() string {
	switch m {
	case MoodPositive:
		return "😊"
	case MoodNegative:
		return "😔"
	case MoodNeutral:
		return "😐"
	default:
		return "—"
	}
}

func bucket(avg float64) Mood {
	switch {
	case avg > MoodThreshold:
		return MoodPositive
	case avg < -MoodThreshold:
		return MoodNegative
	default:
		return MoodNeutral
	}
}

// day truncates t to midnight of its calendar date in loc.
func day(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// Streak counts consecutive calendar days with at least one entry, walking back from
// the day of now. Entries without a timestamp are skipped.
func Streak(entries []journal.Entry, now time.Time) int {
	loc := now.Location()
	check := day(now, loc)
	streak := 0

	for _, e := range entries {
		if e.CreatedAt.IsZero() {
			continue
		}
		d := day(e.CreatedAt, loc)
		switch {
		case d.Equal(check):
			streak++
			check = check.AddDate(0, 0, -1)
		case d.Before(check):
			return streak
		}
	}
	return streak
}

// AverageMood buckets the mean sentiment score of the entries.
func AverageMood(entries []journal.Entry) Mood {
	if len(entries) == 0 {
		return MoodNoData
	}
	var total float64
	for _, e := range entries {
		total += e.Sentiment.Score()
	}
	return bucket(total / float64(len(entries)))
}

type EmotionCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// EmotionFrequency tallies emotion labels, most frequent first. Ties keep the order
// in which labels were first seen. Only the top ten are returned.
func EmotionFrequency(entries []journal.Entry) []EmotionCount {
	counts := make([]EmotionCount, 0)
	index := make(map[string]int)
	for _, e := range entries {
		for _, label := range e.Emotions {
			i, ok := index[label]
			if !ok {
				i = len(counts)
				index[label] = i
				counts = append(counts, EmotionCount{Label: label})
			}
			counts[i].Count++
		}
	}

	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})
	if len(counts) > topEmotionLimit {
		counts = counts[:topEmotionLimit]
	}
	return counts
}

type DailyIntensity struct {
	Date      time.Time `json:"date"`
	Weekday   string    `json:"weekday"`
	AvgStress float64   `json:"avg_stress"`
	AvgEnergy float64   `json:"avg_energy"`
	Entries   int       `json:"entries"`
}

// WeeklyIntensitySeries averages stress and energy for each of the last seven days,
// oldest first. Days without entries report 0.
func WeeklyIntensitySeries(entries []journal.Entry, now time.Time) []DailyIntensity {
	loc := now.Location()
	today := day(now, loc)
	series := make([]DailyIntensity, weekDays)

	for i := range series {
		date := today.AddDate(0, 0, -(weekDays - 1 - i))
		series[i] = DailyIntensity{
			Date:    date,
			Weekday: date.Weekday().String()[:3],
		}

		var stress, energy int
		for _, e := range entries {
			if e.CreatedAt.IsZero() || !sameDay(e.CreatedAt.In(loc), date) {
				continue
			}
			in := e.IntensityValues()
			stress += in.Stress
			energy += in.Energy
			series[i].Entries++
		}
		if n := series[i].Entries; n > 0 {
			series[i].AvgStress = float64(stress) / float64(n)
			series[i].AvgEnergy = float64(energy) / float64(n)
		}
	}
	return series
}

// ConsistencyScore is the percentage of the trailing windowDays (today included)
// that have at least one entry.
func ConsistencyScore(entries []journal.Entry, windowDays int, now time.Time) int {
	if windowDays <= 0 {
		return 0
	}
	loc := now.Location()
	days := make(map[time.Time]struct{})
	for _, e := range InWindow(entries, windowDays, now) {
		days[day(e.CreatedAt, loc)] = struct{}{}
	}
	return int(math.Round(float64(len(days)) / float64(windowDays) * 100))
}

// InWindow keeps the entries whose calendar day falls within the trailing windowDays
// (today included), in input order.
func InWindow(entries []journal.Entry, windowDays int, now time.Time) []journal.Entry {
	out := make([]journal.Entry, 0, len(entries))
	if windowDays <= 0 {
		return out
	}
	loc := now.Location()
	today := day(now, loc)
	start := today.AddDate(0, 0, -(windowDays - 1))

	for _, e := range entries {
		if e.CreatedAt.IsZero() {
			continue
		}
		d := day(e.CreatedAt, loc)
		if d.Before(start) || d.After(today) {
			continue
		}
		out = append(out, e)
	}
	return out
}

type DayPattern struct {
	Day          string            `json:"day"`
	DominantMood journal.Sentiment `json:"dominant_mood"`
	Count        int               `json:"count"`
}

// DayOfWeekPatterns groups entries by their weekday in loc (UTC when nil) and picks
// each weekday's most common sentiment. Weekdays and tied sentiments keep
// first-encounter order.
func DayOfWeekPatterns(entries []journal.Entry, loc *time.Location) []DayPattern {
	if loc == nil {
		loc = time.UTC
	}

	type group struct {
		pattern DayPattern
		order   []journal.Sentiment
		counts  map[journal.Sentiment]int
	}

	var groups []*group
	byDay := make(map[time.Weekday]*group)
	for _, e := range entries {
		if e.CreatedAt.IsZero() {
			continue
		}
		wd := e.CreatedAt.In(loc).Weekday()
		g, ok := byDay[wd]
		if !ok {
			g = &group{
				pattern: DayPattern{Day: wd.String()},
				counts:  make(map[journal.Sentiment]int),
			}
			byDay[wd] = g
			groups = append(groups, g)
		}

		mood := e.Sentiment
		if mood == "" {
			mood = journal.SentimentNeutral
		}
		if _, seen := g.counts[mood]; !seen {
			g.order = append(g.order, mood)
		}
		g.counts[mood]++
		g.pattern.Count++
	}

	patterns := make([]DayPattern, 0, len(groups))
	for _, g := range groups {
		best := 0
		for _, mood := range g.order {
			if g.counts[mood] > best {
				best = g.counts[mood]
				g.pattern.DominantMood = mood
			}
		}
		patterns = append(patterns, g.pattern)
	}
	return patterns
}
