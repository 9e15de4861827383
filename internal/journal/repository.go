package journal

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Repository is the persistence boundary of the capture flow and the only read path
// feeding the analytics engine.
type Repository interface {
	// Append creates a record and stamps CreatedAt. It returns the new id.
	Append(ctx context.Context, entry *Entry) (uuid.UUID, error)

	// PatchInsights attaches derived insights to a finalized entry.
	PatchInsights(ctx context.Context, id uuid.UUID, insights datatypes.JSON) error

	// QueryByOwner lists an owner's entries with the given draft flag, newest first.
	QueryByOwner(ctx context.Context, ownerID uuid.UUID, isDraft bool) ([]Entry, error)
}

// GormRepository stores entries in the journal_entries table.
type GormRepository struct {
	db *gorm.DB
}

func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

func (r *GormRepository) Append(ctx context.Context, entry *Entry) (uuid.UUID, error) {
	if entry.OwnerID == uuid.Nil {
		return uuid.Nil, ErrNoOwner
	}
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return uuid.Nil, fmt.Errorf("failed to create journal entry: %w", err)
	}
	return entry.ID, nil
}

func (r *GormRepository) PatchInsights(ctx context.Context, id uuid.UUID, insights datatypes.JSON) error {
	result := r.db.WithContext(ctx).Model(&Entry{}).
		Where("id = ? AND is_draft = ?", id, false).
		Update("insights", insights)
	if result.Error != nil {
		return fmt.Errorf("failed to patch insights: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrEntryNotFound
	}
	return nil
}

func (r *GormRepository) QueryByOwner(ctx context.Context, ownerID uuid.UUID, isDraft bool) ([]Entry, error) {
	var entries []Entry
	err := r.db.WithContext(ctx).
		Where("owner_id = ? AND is_draft = ?", ownerID, isDraft).
		Order("created_at DESC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query journal entries: %w", err)
	}
	return entries, nil
}
