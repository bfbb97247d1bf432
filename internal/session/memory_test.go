package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreGetUnseenSender(t *testing.T) {
	store := NewMemoryStore()

	s, err := store.Get(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Nil(t, s)

	a, err := store.GetAdmin(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Nil(t, a)
}

func TestMemoryStoreSessionRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	s := NewSession("visitor-1")
	s.Step = StepApptName
	s.Set("day", "Friday")
	require.NoError(t, store.Put(ctx, s))

	got, err := store.Get(ctx, "visitor-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, StepApptName, got.Step)
	assert.Equal(t, "Friday", got.Get("day"))

	// The store holds copies; mutating a returned session must not leak
	// back into stored state.
	got.Set("day", "Saturday")
	again, err := store.Get(ctx, "visitor-1")
	require.NoError(t, err)
	assert.Equal(t, "Friday", again.Get("day"))
}

func TestMemoryStoreAdminRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	a := NewAdminSession("admin-1")
	a.Step = StepAdminSlotText
	a.PendingDate = "2025-07-10"
	require.NoError(t, store.PutAdmin(ctx, a))

	got, err := store.GetAdmin(ctx, "admin-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, StepAdminSlotText, got.Step)
	assert.Equal(t, "2025-07-10", got.PendingDate)
}

func TestMemoryStoreMarkSeen(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	first, err := store.MarkSeen(ctx, "wamid.1", time.Minute)
	require.NoError(t, err)
	assert.True(t, first)

	dup, err := store.MarkSeen(ctx, "wamid.1", time.Minute)
	require.NoError(t, err)
	assert.False(t, dup)

	// A different id is independent.
	other, err := store.MarkSeen(ctx, "wamid.2", time.Minute)
	require.NoError(t, err)
	assert.True(t, other)
}

func TestMemoryStoreMarkSeenExpiry(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	first, err := store.MarkSeen(ctx, "wamid.1", -time.Second)
	require.NoError(t, err)
	assert.True(t, first)

	// The previous entry has already expired, so the id reads as new.
	again, err := store.MarkSeen(ctx, "wamid.1", time.Minute)
	require.NoError(t, err)
	assert.True(t, again)
}

func TestMemoryStoreMarkSeenEmptyID(t *testing.T) {
	store := NewMemoryStore()

	// Deliveries without a message id are never treated as duplicates.
	for i := 0; i < 2; i++ {
		first, err := store.MarkSeen(context.Background(), "", time.Minute)
		require.NoError(t, err)
		assert.True(t, first)
	}
}
