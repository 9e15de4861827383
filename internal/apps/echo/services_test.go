package echo

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahmetcoskunkizilkaya/echo-journal/internal/journal"
)

func TestSessionStoreEnterResetsDraft(t *testing.T) {
	store := NewSessionStore(journal.NewMemoryRepository(nil), nil)
	user := uuid.New()

	ctrl := store.Get(user)
	_, err := ctrl.ToggleEmotion("Bliss")
	require.NoError(t, err)

	again := store.Enter(user)
	assert.Same(t, ctrl, again)
	assert.Empty(t, again.Draft().SelectedEmotions)

	assert.True(t, store.Leave(user))
	assert.False(t, store.Leave(user))
	assert.Zero(t, store.Len())
}

func TestListEntriesPaging(t *testing.T) {
	repo := journal.NewMemoryRepository(nil)
	svc := NewInsightsService(repo, 30, nil, nil)
	user := uuid.New()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := repo.Append(ctx, &journal.Entry{OwnerID: user, Text: "entry"})
		require.NoError(t, err)
	}

	page, err := svc.ListEntries(ctx, user, false, 2, 4)
	require.NoError(t, err)
	assert.Equal(t, 5, page.Total)
	assert.Len(t, page.Entries, 1)

	page, err = svc.ListEntries(ctx, user, false, 2, 10)
	require.NoError(t, err)
	assert.NotNil(t, page.Entries)
	assert.Empty(t, page.Entries)

	page, err = svc.ListEntries(ctx, uuid.New(), true, 20, 0)
	require.NoError(t, err)
	assert.Zero(t, page.Total)
}

func TestSummaryUsesConfiguredLocation(t *testing.T) {
	repo := journal.NewMemoryRepository(func() time.Time {
		return time.Date(2026, 10, 15, 23, 30, 0, 0, time.UTC)
	})
	user := uuid.New()
	_, err := repo.Append(context.Background(), &journal.Entry{OwnerID: user, Text: "late"})
	require.NoError(t, err)

	tokyo := time.FixedZone("JST", 9*60*60)
	now := func() time.Time { return time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC) }
	svc := NewInsightsService(repo, 7, tokyo, now)

	summary, err := svc.Summary(context.Background(), user, 0)
	require.NoError(t, err)
	// 23:30 UTC on the 15th is already the 16th in Tokyo, as is now.
	assert.Equal(t, 1, summary.Streak)
	assert.Equal(t, 7, summary.WindowDays)
}
