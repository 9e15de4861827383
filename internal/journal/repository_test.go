package journal

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Entry{}))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func sampleEntry(owner uuid.UUID, isDraft bool, text string) *Entry {
	d := NewDraft()
	d.toggle("Contentment")
	d.Text = text
	e := newEntry(owner, d, isDraft)
	if !isDraft {
		e.Sentiment = Classify(text)
	}
	return e
}

// repositoryContract runs the same checks against every Repository implementation.
func repositoryContract(t *testing.T, repo Repository) {
	ctx := context.Background()
	owner := uuid.New()
	other := uuid.New()

	_, err := repo.Append(ctx, sampleEntry(uuid.Nil, false, "orphan"))
	assert.ErrorIs(t, err, ErrNoOwner)

	var ids []uuid.UUID
	for _, text := range []string{"first", "second", "third"} {
		id, err := repo.Append(ctx, sampleEntry(owner, false, text))
		require.NoError(t, err)
		require.NotEqual(t, uuid.Nil, id)
		ids = append(ids, id)
		time.Sleep(2 * time.Millisecond)
	}
	_, err = repo.Append(ctx, sampleEntry(owner, true, "draft"))
	require.NoError(t, err)
	_, err = repo.Append(ctx, sampleEntry(other, false, "someone else"))
	require.NoError(t, err)

	finals, err := repo.QueryByOwner(ctx, owner, false)
	require.NoError(t, err)
	require.Len(t, finals, 3)
	assert.Equal(t, "third", finals[0].Text)
	assert.Equal(t, "first", finals[2].Text)
	assert.Equal(t, []string{"Contentment"}, []string(finals[0].Emotions))
	assert.Equal(t, DefaultIntensities(), finals[0].IntensityValues())
	for i := 1; i < len(finals); i++ {
		assert.False(t, finals[i].CreatedAt.After(finals[i-1].CreatedAt))
	}

	drafts, err := repo.QueryByOwner(ctx, owner, true)
	require.NoError(t, err)
	require.Len(t, drafts, 1)
	assert.True(t, drafts[0].IsDraft)

	insights := datatypes.JSON(`{"messages":["Keep journaling"]}`)
	require.NoError(t, repo.PatchInsights(ctx, ids[0], insights))
	assert.ErrorIs(t, repo.PatchInsights(ctx, drafts[0].ID, insights), ErrEntryNotFound, "drafts are never annotated")
	assert.ErrorIs(t, repo.PatchInsights(ctx, uuid.New(), insights), ErrEntryNotFound)

	finals, err = repo.QueryByOwner(ctx, owner, false)
	require.NoError(t, err)
	assert.JSONEq(t, string(insights), string(finals[2].Insights))
	assert.Equal(t, "first", finals[2].Text)
}

func TestMemoryRepository(t *testing.T) {
	repositoryContract(t, NewMemoryRepository(nil))
}

func TestGormRepository(t *testing.T) {
	repositoryContract(t, NewGormRepository(setupTestDB(t)))
}

func TestMemoryRepositoryCreatedAtNeverGoesBackwards(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	times := []time.Time{base, base.Add(-time.Hour)}
	i := 0
	repo := NewMemoryRepository(func() time.Time {
		ts := times[i]
		if i < len(times)-1 {
			i++
		}
		return ts
	})

	owner := uuid.New()
	_, err := repo.Append(ctx, sampleEntry(owner, false, "one"))
	require.NoError(t, err)
	_, err = repo.Append(ctx, sampleEntry(owner, false, "two"))
	require.NoError(t, err)

	entries, err := repo.QueryByOwner(ctx, owner, false)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "two", entries[0].Text, "equal timestamps keep insertion order, newest first")
	assert.Equal(t, base, entries[0].CreatedAt)
}

func TestMemoryRepositoryHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	repo := NewMemoryRepository(nil)
	_, err := repo.Append(ctx, sampleEntry(uuid.New(), false, "late"))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, repo.Len())
}
