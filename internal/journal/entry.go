package journal

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Entry is a persisted journal record. Finalized entries (IsDraft=false) are
// write-once except for Insights.
type Entry struct {
	ID          uuid.UUID                       `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID     uuid.UUID                       `gorm:"type:uuid;not null;index:idx_journal_owner_draft_created,priority:1" json:"owner_id"`
	Emotions    datatypes.JSONSlice[string]     `json:"emotions"`
	Intensities datatypes.JSONType[Intensities] `json:"intensities"`
	Text        string                          `gorm:"type:text" json:"text"`
	Sentiment   Sentiment                       `gorm:"size:10" json:"sentiment,omitempty"`
	IsDraft     bool                            `gorm:"not null;index:idx_journal_owner_draft_created,priority:2" json:"is_draft"`
	Insights    datatypes.JSON                  `json:"insights,omitempty"`
	CreatedAt   time.Time                       `gorm:"index:idx_journal_owner_draft_created,priority:3,sort:desc" json:"created_at"`
	UpdatedAt   time.Time                       `json:"updated_at"`
}

func (Entry) TableName() string { return "journal_entries" }

func (e *Entry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// IntensityValues unwraps the JSON column.
func (e Entry) IntensityValues() Intensities {
	return e.Intensities.Data()
}

func (e Entry) WordCount() int {
	return wordCount(e.Text)
}

// newEntry snapshots a draft into an unsaved entry.
func newEntry(owner uuid.UUID, d Draft, isDraft bool) *Entry {
	d = d.Clone()
	return &Entry{
		OwnerID:     owner,
		Emotions:    datatypes.JSONSlice[string](d.SelectedEmotions),
		Intensities: datatypes.NewJSONType(d.Intensities),
		Text:        d.Text,
		IsDraft:     isDraft,
	}
}

func wordCount(text string) int {
	return len(strings.Fields(text))
}
