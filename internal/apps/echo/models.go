package echo

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/echo-journal/internal/analytics"
	"github.com/ahmetcoskunkizilkaya/echo-journal/internal/journal"
)

// --- DTOs ---

type CategoryResponse struct {
	Category journal.Category `json:"category"`
	Emotions []string         `json:"emotions"`
}

type TaxonomyResponse struct {
	Categories []CategoryResponse `json:"categories"`
}

type PromptResponse struct {
	Prompt string `json:"prompt"`
	Tip    string `json:"tip"`
}

type SessionResponse struct {
	Draft     journal.Draft `json:"draft"`
	Step      string        `json:"step"`
	WordCount int           `json:"word_count"`
	Abandoned bool          `json:"abandoned,omitempty"`
}

type ToggleEmotionRequest struct {
	Emotion string `json:"emotion"`
}

// SetIntensitiesRequest maps dimension names to values, e.g. {"energy": 8}.
type SetIntensitiesRequest map[string]int

type SetTextRequest struct {
	Text string `json:"text"`
}

type EntryListResponse struct {
	Entries []journal.Entry `json:"entries"`
	Total   int             `json:"total"`
	Limit   int             `json:"limit"`
	Offset  int             `json:"offset"`
}

type CalendarResponse struct {
	Month int                      `json:"month"`
	Year  int                      `json:"year"`
	Cells []analytics.CalendarCell `json:"cells"`
}

// EntryInsights is the annotation stored on a finalized entry.
type EntryInsights struct {
	Sentiment   journal.Sentiment  `json:"sentiment"`
	Categories  []journal.Category `json:"categories"`
	WordCount   int                `json:"word_count"`
	Streak      int                `json:"streak"`
	AverageMood analytics.Mood     `json:"average_mood"`
	Consistency int                `json:"consistency_score"`
	Messages    []string           `json:"messages"`
	GeneratedAt time.Time          `json:"generated_at"`
}

func newSessionResponse(d journal.Draft) SessionResponse {
	return SessionResponse{
		Draft:     d,
		Step:      d.CurrentStep.String(),
		WordCount: d.WordCount(),
	}
}
