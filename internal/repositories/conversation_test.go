package repositories_test

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/myrjola/spbot/internal/repositories"
	"github.com/myrjola/spbot/internal/scope"
	"github.com/myrjola/spbot/internal/testhelpers"
	"github.com/stretchr/testify/require"
)

func newConversationRepository(t *testing.T, ttl time.Duration) *repositories.ConversationRepository {
	t.Helper()
	return repositories.NewConversationRepository(newTestDB(t), ttl, testhelpers.NewLogger(io.Discard))
}

func TestConversationRepository_Scope(t *testing.T) {
	ctx := context.Background()
	repo := newConversationRepository(t, time.Minute)

	path, err := repo.GetScope(ctx, "conv-1")
	require.NoError(t, err)
	require.Nil(t, path)

	require.NoError(t, repo.SetScope(ctx, "conv-1", []string{"chief_complaint", "shortness of breath"}))
	path, err = repo.GetScope(ctx, "conv-1")
	require.NoError(t, err)
	require.Equal(t, []string{"chief_complaint", "shortness of breath"}, path)

	require.NoError(t, repo.ClearScope(ctx, "conv-1"))
	path, err = repo.GetScope(ctx, "conv-1")
	require.NoError(t, err)
	require.Nil(t, path)

	// The tracker round-trips through the repository.
	tracker := scope.NewTracker(repo, testhelpers.NewLogger(io.Discard))
	sc := scope.Scope{Level: scope.FamilyHistory, Elements: []string{"father"}}
	require.NoError(t, tracker.Save(ctx, "conv-2", sc))
	loaded, err := tracker.Load(ctx, "conv-2")
	require.NoError(t, err)
	require.Equal(t, sc, loaded)
}

func TestConversationRepository_Feedback(t *testing.T) {
	ctx := context.Background()
	repo := newConversationRepository(t, time.Minute)

	require.NoError(t, repo.SetCase(ctx, "conv-1", "chest-pain-01"))
	require.NoError(t, repo.SetScope(ctx, "conv-1", []string{"travel_history"}))
	require.NoError(t, repo.AppendFeedback(ctx, "conv-1", "Great case"))
	require.NoError(t, repo.AppendFeedback(ctx, "conv-1", "The patient was too vague"))
	require.NoError(t, repo.LogIssue(ctx, "conv-1", "nlu timeout"))

	path, err := repo.GetScope(ctx, "conv-1")
	require.NoError(t, err)
	require.Nil(t, path, "feedback clears the scope")

	conversation, err := repo.Get(ctx, "conv-1")
	require.NoError(t, err)
	require.Equal(t, "chest-pain-01", conversation.CaseID)
	require.Equal(t, []string{"Great case", "The patient was too vague"}, conversation.Feedback)
	require.Len(t, conversation.Issues, 1)
	require.Equal(t, "nlu timeout", conversation.Issues[0].Text)
	require.Len(t, conversation.Issues[0].ID, 36)
	require.False(t, conversation.Created.IsZero())

	// Issues create the conversation when needed.
	require.NoError(t, repo.LogIssue(ctx, "conv-2", "case not found"))
	conversation, err = repo.Get(ctx, "conv-2")
	require.NoError(t, err)
	require.Empty(t, conversation.Feedback)
	require.Len(t, conversation.Issues, 1)

	_, err = repo.Get(ctx, "missing")
	require.ErrorIs(t, err, repositories.ErrConversationNotFound)
}

func TestConversationRepository_Block(t *testing.T) {
	ctx := context.Background()

	t.Run("exclusive", func(t *testing.T) {
		repo := newConversationRepository(t, time.Hour)
		ok, err := repo.TryBlock(ctx, "conv-1")
		require.NoError(t, err)
		require.True(t, ok)

		ok, err = repo.TryBlock(ctx, "conv-1")
		require.NoError(t, err)
		require.False(t, ok)

		ok, err = repo.TryBlock(ctx, "conv-2")
		require.NoError(t, err)
		require.True(t, ok, "other conversations are independent")

		require.NoError(t, repo.Unblock(ctx, "conv-1"))
		ok, err = repo.TryBlock(ctx, "conv-1")
		require.NoError(t, err)
		require.True(t, ok)
	})

	t.Run("expired block", func(t *testing.T) {
		repo := newConversationRepository(t, -time.Second)
		ok, err := repo.TryBlock(ctx, "conv-1")
		require.NoError(t, err)
		require.True(t, ok)

		ok, err = repo.TryBlock(ctx, "conv-1")
		require.NoError(t, err)
		require.True(t, ok, "an abandoned block is taken over")
	})
}
