package journal

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// MemoryRepository is an in-process Repository used by tests and local tooling.
type MemoryRepository struct {
	mu      sync.RWMutex
	entries []Entry
	now     func() time.Time
}

// NewMemoryRepository creates an empty store. A nil clock defaults to time.Now.
func NewMemoryRepository(now func() time.Time) *MemoryRepository {
	if now == nil {
		now = time.Now
	}
	return &MemoryRepository{now: now}
}

func (m *MemoryRepository) Append(ctx context.Context, entry *Entry) (uuid.UUID, error) {
	if err := ctx.Err(); err != nil {
		return uuid.Nil, err
	}
	if entry.OwnerID == uuid.Nil {
		return uuid.Nil, ErrNoOwner
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	ts := m.now()
	// CreatedAt never goes backwards for an owner, even if the clock does.
	for _, e := range m.entries {
		if e.OwnerID == entry.OwnerID && e.CreatedAt.After(ts) {
			ts = e.CreatedAt
		}
	}
	entry.CreatedAt = ts
	entry.UpdatedAt = ts

	m.entries = append(m.entries, cloneEntry(*entry))
	return entry.ID, nil
}

func (m *MemoryRepository) PatchInsights(ctx context.Context, id uuid.UUID, insights datatypes.JSON) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.entries {
		if m.entries[i].ID == id && !m.entries[i].IsDraft {
			m.entries[i].Insights = slices.Clone(insights)
			m.entries[i].UpdatedAt = m.now()
			return nil
		}
	}
	return ErrEntryNotFound
}

func (m *MemoryRepository) QueryByOwner(ctx context.Context, ownerID uuid.UUID, isDraft bool) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]Entry, 0)
	for _, e := range m.entries {
		if e.OwnerID == ownerID && e.IsDraft == isDraft {
			result = append(result, cloneEntry(e))
		}
	}

	// Insertion order is preserved for equal timestamps; later inserts come first.
	slices.Reverse(result)
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

// Len reports the number of stored records.
func (m *MemoryRepository) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

func cloneEntry(e Entry) Entry {
	e.Emotions = slices.Clone(e.Emotions)
	e.Insights = slices.Clone(e.Insights)
	return e
}
