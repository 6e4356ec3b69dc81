package scope

import (
	"context"
	"log/slog"
	"slices"

	"github.com/myrjola/spbot/internal/errors"
)

// Store persists scope paths per conversation. GetScope returns a nil path when nothing is stored.
type Store interface {
	GetScope(ctx context.Context, conversationID string) ([]string, error)
	SetScope(ctx context.Context, conversationID string, path []string) error
	ClearScope(ctx context.Context, conversationID string) error
}

// Tracker loads and persists the scope of conversations.
type Tracker struct {
	store  Store
	logger *slog.Logger
}

func NewTracker(store Store, logger *slog.Logger) *Tracker {
	return &Tracker{
		store:  store,
		logger: logger,
	}
}

// Load returns the scope of the conversation. A corrupt stored path is logged and treated as no focus.
func (t *Tracker) Load(ctx context.Context, conversationID string) (Scope, error) {
	path, err := t.store.GetScope(ctx, conversationID)
	if err != nil {
		return Scope{}, errors.Wrap(err, "get scope")
	}
	s, err := FromPath(path)
	if err != nil {
		t.logger.LogAttrs(ctx, slog.LevelWarn, "discarding stored scope", errors.SlogError(err))
		return Scope{Level: None, Elements: nil}, nil
	}
	return s, nil
}

// Save persists s, replacing the stored path. Saving the empty scope clears it.
func (t *Tracker) Save(ctx context.Context, conversationID string, s Scope) error {
	if s.Level == None {
		return t.Close(ctx, conversationID)
	}
	if err := t.store.SetScope(ctx, conversationID, s.Path()); err != nil {
		return errors.Wrap(err, "set scope", slog.Any("path", s.Path()))
	}
	return nil
}

// SaveIfChanged persists s unless it equals before.
func (t *Tracker) SaveIfChanged(ctx context.Context, conversationID string, before Scope, s Scope) error {
	if slices.Equal(before.Path(), s.Path()) {
		return nil
	}
	return t.Save(ctx, conversationID, s)
}

// Close removes the scope of the conversation.
func (t *Tracker) Close(ctx context.Context, conversationID string) error {
	if err := t.store.ClearScope(ctx, conversationID); err != nil {
		return errors.Wrap(err, "clear scope")
	}
	return nil
}
