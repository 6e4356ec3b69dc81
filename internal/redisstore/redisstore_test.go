package redisstore_test

import (
	"context"
	"io"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/myrjola/spbot/internal/redisstore"
	"github.com/myrjola/spbot/internal/scope"
	"github.com/myrjola/spbot/internal/testhelpers"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T) *redis.Client {
	t.Helper()
	addr, ok := os.LookupEnv("SPBOT_TEST_REDIS_ADDR")
	if !ok {
		t.Skip("SPBOT_TEST_REDIS_ADDR not set")
	}
	client, err := redisstore.NewClient(context.Background(), addr, testhelpers.NewLogger(io.Discard))
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, client.Close()) })
	return client
}

func TestScopeStore(t *testing.T) {
	ctx := context.Background()
	logger := testhelpers.NewLogger(io.Discard)
	store := redisstore.NewScopeStore(newClient(t), logger)
	conversationID := uuid.NewString()

	path, err := store.GetScope(ctx, conversationID)
	require.NoError(t, err)
	require.Nil(t, path)

	tracker := scope.NewTracker(store, logger)
	want := scope.Scope{Level: scope.ChiefComplaint, Elements: []string{"shortness of breath"}}
	require.NoError(t, tracker.Save(ctx, conversationID, want))

	got, err := tracker.Load(ctx, conversationID)
	require.NoError(t, err)
	require.Equal(t, want, got)

	require.NoError(t, store.ClearScope(ctx, conversationID))
	path, err = store.GetScope(ctx, conversationID)
	require.NoError(t, err)
	require.Nil(t, path)
}

func TestBlocker(t *testing.T) {
	ctx := context.Background()
	client := newClient(t)
	conversationID := uuid.NewString()

	blocker := redisstore.NewBlocker(client, time.Minute)
	ok, err := blocker.TryBlock(ctx, conversationID)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = blocker.TryBlock(ctx, conversationID)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, blocker.Unblock(ctx, conversationID))
	ok, err = blocker.TryBlock(ctx, conversationID)
	require.NoError(t, err)
	require.True(t, ok)
	require.NoError(t, blocker.Unblock(ctx, conversationID))

	short := redisstore.NewBlocker(client, 50*time.Millisecond)
	ok, err = short.TryBlock(ctx, conversationID)
	require.NoError(t, err)
	require.True(t, ok)
	require.Eventually(t, func() bool {
		acquired, blockErr := short.TryBlock(ctx, conversationID)
		return blockErr == nil && acquired
	}, 2*time.Second, 20*time.Millisecond, "blocks expire")
}
