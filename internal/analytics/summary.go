package analytics

import (
	"fmt"
	"time"

	"github.com/ahmetcoskunkizilkaya/echo-journal/internal/journal"
)

type WritingStats struct {
	TotalWords   int `json:"total_words"`
	AvgWordCount int `json:"avg_word_count"`
}

func WritingStatsFor(entries []journal.Entry) WritingStats {
	if len(entries) == 0 {
		return WritingStats{}
	}
	total := 0
	for _, e := range entries {
		total += e.WordCount()
	}
	return WritingStats{TotalWords: total, AvgWordCount: total / len(entries)}
}

// ConsistencyMessage describes a consistency score.
func ConsistencyMessage(score int) string {
	switch {
	case score >= 80:
		return "Excellent consistency! Keep it up!"
	case score >= 60:
		return "Good consistency. Try to journal more regularly."
	case score >= 40:
		return "Moderate consistency. Consider setting a daily reminder."
	default:
		return "Low consistency. Try to journal more frequently for better insights."
	}
}

// GenerateInsights turns the statistics into short messages for the insights view.
func GenerateInsights(entries []journal.Entry, patterns []DayPattern) []string {
	if len(entries) == 0 {
		return []string{"Start journaling to see your mood patterns!"}
	}

	var insights []string

	if len(entries) >= 7 {
		insights = append(insights, fmt.Sprintf("You've been consistently journaling! %d entries in the past period.", len(entries)))
	}

	var happiest *DayPattern
	for i := range patterns {
		p := &patterns[i]
		if p.DominantMood != journal.SentimentPositive {
			continue
		}
		if happiest == nil || p.Count > happiest.Count {
			happiest = p
		}
	}
	if happiest != nil {
		insights = append(insights, fmt.Sprintf("You tend to feel happiest on %ss.", happiest.Day))
	}

	if freq := EmotionFrequency(entries); len(freq) >= 4 {
		insights = append(insights, "You experience a good variety of emotions - this is completely normal!")
	}

	if len(insights) == 0 {
		insights = append(insights, "Keep journaling to discover your mood patterns!")
	}
	return insights
}

// Summary is everything the insights view shows, computed in one pass over a query
// result.
//
// Streak and Weekly look at every entry; the mood, emotion, pattern, writing and
// insight fields cover only the trailing WindowDays.
type Summary struct {
	TotalEntries      int              `json:"total_entries"`
	PeriodEntries     int              `json:"period_entries"`
	Streak            int              `json:"streak"`
	AverageMood       Mood             `json:"average_mood"`
	AverageMoodEmoji  string           `json:"average_mood_emoji"`
	TopEmotions       []EmotionCount   `json:"top_emotions"`
	Weekly            []DailyIntensity `json:"weekly"`
	WindowDays        int              `json:"window_days"`
	Consistency       int              `json:"consistency_score"`
	ConsistencyNote   string           `json:"consistency_message"`
	DayOfWeekPatterns []DayPattern     `json:"day_of_week_patterns"`
	Writing           WritingStats     `json:"writing"`
	Insights          []string         `json:"insights"`
	GeneratedAt       time.Time        `json:"generated_at"`
}

// Summarize computes a Summary with calendar days taken in now's location.
func Summarize(entries []journal.Entry, now time.Time, windowDays int) Summary {
	entries = InLocation(entries, now.Location())
	period := InWindow(entries, windowDays, now)
	patterns := DayOfWeekPatterns(period, now.Location())
	mood := AverageMood(period)
	consistency := ConsistencyScore(period, windowDays, now)

	return Summary{
		TotalEntries:      len(entries),
		PeriodEntries:     len(period),
		Streak:            Streak(entries, now),
		AverageMood:       mood,
		AverageMoodEmoji:  mood.Emoji(),
		TopEmotions:       EmotionFrequency(period),
		Weekly:            WeeklyIntensitySeries(entries, now),
		WindowDays:        windowDays,
		Consistency:       consistency,
		ConsistencyNote:   ConsistencyMessage(consistency),
		DayOfWeekPatterns: patterns,
		Writing:           WritingStatsFor(period),
		Insights:          GenerateInsights(period, patterns),
		GeneratedAt:       now,
	}
}

// InLocation returns copies of entries with CreatedAt expressed in loc.
func InLocation(entries []journal.Entry, loc *time.Location) []journal.Entry {
	out := make([]journal.Entry, len(entries))
	for i, e := range entries {
		if !e.CreatedAt.IsZero() {
			e.CreatedAt = e.CreatedAt.In(loc)
		}
		out[i] = e
	}
	return out
}
