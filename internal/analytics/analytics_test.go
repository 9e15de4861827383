package analytics

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/ahmetcoskunkizilkaya/echo-journal/internal/journal"
)

// now is a Thursday.
var now = time.Date(2026, 10, 15, 10, 0, 0, 0, time.UTC)

func entryAt(daysAgo int, sentiment journal.Sentiment, emotions ...string) journal.Entry {
	return journal.Entry{
		Emotions:    datatypes.JSONSlice[string](emotions),
		Intensities: datatypes.NewJSONType(journal.DefaultIntensities()),
		Sentiment:   sentiment,
		CreatedAt:   now.AddDate(0, 0, -daysAgo),
	}
}

func withIntensity(e journal.Entry, stress, energy int) journal.Entry {
	in := journal.DefaultIntensities()
	in.Stress = stress
	in.Energy = energy
	e.Intensities = datatypes.NewJSONType(in)
	return e
}

func TestStreak(t *testing.T) {
	tests := []struct {
		name    string
		entries []journal.Entry
		want    int
	}{
		{"empty", nil, 0},
		{"gap on day two", []journal.Entry{
			entryAt(0, journal.SentimentNeutral),
			entryAt(1, journal.SentimentNeutral),
			entryAt(3, journal.SentimentNeutral),
		}, 2},
		{"several entries per day count once", []journal.Entry{
			entryAt(0, journal.SentimentNeutral),
			entryAt(0, journal.SentimentNeutral),
			entryAt(1, journal.SentimentNeutral),
			entryAt(2, journal.SentimentNeutral),
		}, 3},
		{"nothing today", []journal.Entry{
			entryAt(1, journal.SentimentNeutral),
			entryAt(2, journal.SentimentNeutral),
		}, 0},
		{"undated entries are skipped", []journal.Entry{
			entryAt(0, journal.SentimentNeutral),
			{Sentiment: journal.SentimentPositive},
			entryAt(1, journal.SentimentNeutral),
		}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Streak(tt.entries, now))
		})
	}
}

func TestStreakUsesCalendarDaysOfNowLocation(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*60*60)
	local := time.Date(2026, 10, 15, 21, 0, 0, 0, loc) // 02:00 UTC on the 16th
	entries := []journal.Entry{
		{CreatedAt: time.Date(2026, 10, 16, 1, 0, 0, 0, time.UTC)}, // 20:00 on the 15th locally
		{CreatedAt: time.Date(2026, 10, 15, 3, 0, 0, 0, time.UTC)}, // 22:00 on the 14th locally
	}
	assert.Equal(t, 2, Streak(entries, local))
}

func TestAverageMood(t *testing.T) {
	assert.Equal(t, MoodNoData, AverageMood(nil))
	assert.Equal(t, "—", AverageMood(nil).Emoji())

	entries := []journal.Entry{
		entryAt(0, journal.SentimentPositive),
		entryAt(1, journal.SentimentPositive),
		entryAt(2, journal.SentimentPositive),
		entryAt(3, journal.SentimentNegative),
	}
	assert.Equal(t, MoodPositive, AverageMood(entries))
	assert.Equal(t, "😊", AverageMood(entries).Emoji())

	balanced := []journal.Entry{
		entryAt(0, journal.SentimentPositive),
		entryAt(1, journal.SentimentNegative),
		entryAt(2, journal.SentimentNeutral),
	}
	assert.Equal(t, MoodNeutral, AverageMood(balanced))

	gloomy := []journal.Entry{
		entryAt(0, journal.SentimentNegative),
		entryAt(1, journal.SentimentNeutral),
	}
	assert.Equal(t, MoodNegative, AverageMood(gloomy))
}

func TestEmotionFrequency(t *testing.T) {
	got := EmotionFrequency([]journal.Entry{
		entryAt(0, journal.SentimentPositive, "Joy", "Calm"),
		entryAt(1, journal.SentimentPositive, "Joy"),
	})
	want := []EmotionCount{{"Joy", 2}, {"Calm", 1}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("EmotionFrequency mismatch (-want +got):\n%s", diff)
	}

	assert.Empty(t, EmotionFrequency(nil))
}

func TestEmotionFrequencyTiesAndLimit(t *testing.T) {
	labels := []string{"A", "B", "C", "D", "E", "F", "G", "H", "I", "J", "K", "L"}
	entries := []journal.Entry{
		entryAt(0, journal.SentimentNeutral, labels...),
		entryAt(1, journal.SentimentNeutral, "L"),
	}

	got := EmotionFrequency(entries)
	require.Len(t, got, 10)
	assert.Equal(t, EmotionCount{"L", 2}, got[0])
	for i, c := range got[1:] {
		assert.Equal(t, labels[i], c.Label, "ties keep first-seen order")
		assert.Equal(t, 1, c.Count)
	}
}

func TestWeeklyIntensitySeries(t *testing.T) {
	entries := []journal.Entry{
		withIntensity(entryAt(0, journal.SentimentNeutral), 2, 8),
		withIntensity(entryAt(0, journal.SentimentNeutral), 4, 6),
		withIntensity(entryAt(3, journal.SentimentNeutral), 9, 1),
		withIntensity(entryAt(10, journal.SentimentNeutral), 10, 10),
	}

	series := WeeklyIntensitySeries(entries, now)
	require.Len(t, series, 7)

	assert.Equal(t, time.Date(2026, 10, 9, 0, 0, 0, 0, time.UTC), series[0].Date)
	assert.Equal(t, "Fri", series[0].Weekday)
	assert.Equal(t, time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC), series[6].Date)

	assert.Equal(t, 3.0, series[6].AvgStress)
	assert.Equal(t, 7.0, series[6].AvgEnergy)
	assert.Equal(t, 2, series[6].Entries)

	assert.Equal(t, 9.0, series[3].AvgStress)
	assert.Equal(t, 1.0, series[3].AvgEnergy)

	for _, i := range []int{0, 1, 2, 4, 5} {
		assert.Zero(t, series[i].AvgStress, "empty days report zero")
		assert.Zero(t, series[i].AvgEnergy)
		assert.Zero(t, series[i].Entries)
	}
}

func TestConsistencyScore(t *testing.T) {
	entries := []journal.Entry{
		entryAt(0, journal.SentimentNeutral),
		entryAt(0, journal.SentimentNeutral),
		entryAt(2, journal.SentimentNeutral),
		entryAt(6, journal.SentimentNeutral),
		entryAt(7, journal.SentimentNeutral),
	}
	assert.Equal(t, 43, ConsistencyScore(entries, 7, now))
	assert.Equal(t, 0, ConsistencyScore(nil, 7, now))
	assert.Equal(t, 0, ConsistencyScore(entries, 0, now))
	assert.Equal(t, 100, ConsistencyScore(entries[:1], 1, now))
	assert.Equal(t, 13, ConsistencyScore(entries, 30, now))
}

func TestDayOfWeekPatterns(t *testing.T) {
	entries := []journal.Entry{
		entryAt(0, journal.SentimentNegative),  // Thursday
		entryAt(7, journal.SentimentPositive),  // Thursday
		entryAt(14, journal.SentimentPositive), // Thursday
		entryAt(1, journal.SentimentNeutral),   // Wednesday
		entryAt(8, journal.SentimentNegative),  // Wednesday
		entryAt(2, ""),                         // Tuesday
	}

	got := DayOfWeekPatterns(entries, time.UTC)
	want := []DayPattern{
		{Day: "Thursday", DominantMood: journal.SentimentPositive, Count: 3},
		{Day: "Wednesday", DominantMood: journal.SentimentNeutral, Count: 2},
		{Day: "Tuesday", DominantMood: journal.SentimentNeutral, Count: 1},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("DayOfWeekPatterns mismatch (-want +got):\n%s", diff)
	}

	assert.Empty(t, DayOfWeekPatterns(nil, nil))
}

func TestDayOfWeekPatternsUsesLocation(t *testing.T) {
	// 10:00 UTC on Thursday is still 23:00 on Wednesday eleven hours west.
	entries := []journal.Entry{entryAt(0, journal.SentimentPositive)}

	west := time.FixedZone("UTC-11", -11*60*60)
	assert.Equal(t, "Wednesday", DayOfWeekPatterns(entries, west)[0].Day)
	assert.Equal(t, "Thursday", DayOfWeekPatterns(entries, nil)[0].Day)
}

func TestInWindow(t *testing.T) {
	entries := []journal.Entry{
		entryAt(0, journal.SentimentPositive),
		entryAt(6, journal.SentimentNeutral),
		entryAt(7, journal.SentimentNegative),
		{},
		entryAt(-1, journal.SentimentPositive), // tomorrow
	}

	got := InWindow(entries, 7, now)
	require.Len(t, got, 2)
	assert.Equal(t, journal.SentimentPositive, got[0].Sentiment)
	assert.Equal(t, journal.SentimentNeutral, got[1].Sentiment)

	assert.Empty(t, InWindow(entries, 0, now))
	assert.Empty(t, InWindow(nil, 30, now))
}
