package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/myrjola/spbot/internal/errors"
	"github.com/myrjola/spbot/internal/models"
	"github.com/myrjola/spbot/internal/sqlite"
)

var ErrConversationNotFound = errors.NewSentinel("conversation not found")

// timestampLayout matches STRFTIME('%Y-%m-%dT%H:%M:%fZ').
const timestampLayout = "2006-01-02T15:04:05.000Z"

// ConversationRepository keeps the per-conversation state of encounters: the scope, the feedback, the issues and the
// blocked flag that serializes turns.
type ConversationRepository struct {
	dbs      *sqlite.Database
	blockTTL time.Duration
	logger   *slog.Logger
}

// NewConversationRepository creates the repository. A block older than blockTTL is considered abandoned.
func NewConversationRepository(dbs *sqlite.Database, blockTTL time.Duration, logger *slog.Logger) *ConversationRepository {
	return &ConversationRepository{
		dbs:      dbs,
		blockTTL: blockTTL,
		logger:   logger.With("source", "ConversationRepository"),
	}
}

// GetScope returns the stored scope path, or nil for an unknown conversation.
func (r *ConversationRepository) GetScope(ctx context.Context, conversationID string) ([]string, error) {
	var (
		document string
		path     []string
		err      error
	)
	err = r.dbs.ReadOnly.QueryRowContext(ctx, `SELECT scope FROM conversations WHERE id = ?`, conversationID).
		Scan(&document)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "select scope", slog.String("conversation_id", conversationID))
	}
	if err = json.Unmarshal([]byte(document), &path); err != nil {
		return nil, errors.Wrap(err, "unmarshal scope", slog.String("conversation_id", conversationID))
	}
	if len(path) == 0 {
		return nil, nil
	}
	return path, nil
}

func (r *ConversationRepository) SetScope(ctx context.Context, conversationID string, path []string) error {
	if path == nil {
		path = []string{}
	}
	document, err := json.Marshal(path)
	if err != nil {
		return errors.Wrap(err, "marshal scope")
	}
	if _, err = r.dbs.ReadWrite.ExecContext(ctx, `INSERT INTO conversations (id, scope)
VALUES (?, ?)
ON CONFLICT (id) DO UPDATE SET scope = excluded.scope`, conversationID, string(document)); err != nil {
		return errors.Wrap(err, "upsert scope", slog.String("conversation_id", conversationID))
	}
	return nil
}

func (r *ConversationRepository) ClearScope(ctx context.Context, conversationID string) error {
	if _, err := r.dbs.ReadWrite.ExecContext(ctx, `UPDATE conversations SET scope = '[]' WHERE id = ?`,
		conversationID); err != nil {
		return errors.Wrap(err, "clear scope", slog.String("conversation_id", conversationID))
	}
	return nil
}

// SetCase records which case the conversation interviews.
func (r *ConversationRepository) SetCase(ctx context.Context, conversationID string, caseID string) error {
	if _, err := r.dbs.ReadWrite.ExecContext(ctx, `INSERT INTO conversations (id, case_id)
VALUES (?, ?)
ON CONFLICT (id) DO UPDATE SET case_id = excluded.case_id, scope = '[]'`, conversationID, caseID); err != nil {
		return errors.Wrap(err, "upsert case id", slog.String("conversation_id", conversationID))
	}
	return nil
}

// AppendFeedback adds text to the feedback of the conversation and clears its scope.
func (r *ConversationRepository) AppendFeedback(ctx context.Context, conversationID string, text string) error {
	if _, err := r.dbs.ReadWrite.ExecContext(ctx, `INSERT INTO conversations (id, feedback)
VALUES (:id, :text)
ON CONFLICT (id) DO UPDATE SET feedback = CASE
                                              WHEN feedback = '' THEN excluded.feedback
                                              ELSE feedback || :separator || excluded.feedback END,
                               scope    = '[]'`,
		sql.Named("id", conversationID),
		sql.Named("text", text),
		sql.Named("separator", models.FeedbackSeparator),
	); err != nil {
		return errors.Wrap(err, "append feedback", slog.String("conversation_id", conversationID))
	}
	return nil
}

// LogIssue stores text as an issue of the conversation for operators to review.
func (r *ConversationRepository) LogIssue(ctx context.Context, conversationID string, text string) error {
	id, err := uuid.NewRandom()
	if err != nil {
		return errors.Wrap(err, "generate issue id")
	}
	tx, err := r.dbs.ReadWrite.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin transaction")
	}
	defer func() {
		if rollbackErr := tx.Rollback(); rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
			r.logger.LogAttrs(ctx, slog.LevelError, "failed to rollback transaction", errors.SlogError(rollbackErr))
		}
	}()
	if _, err = tx.ExecContext(ctx, `INSERT INTO conversations (id) VALUES (?) ON CONFLICT DO NOTHING`,
		conversationID); err != nil {
		return errors.Wrap(err, "ensure conversation", slog.String("conversation_id", conversationID))
	}
	if _, err = tx.ExecContext(ctx, `INSERT INTO issues (id, conversation_id, text) VALUES (?, ?, ?)`,
		id.String(), conversationID, text); err != nil {
		return errors.Wrap(err, "insert issue", slog.String("conversation_id", conversationID))
	}
	if err = tx.Commit(); err != nil {
		return errors.Wrap(err, "commit issue")
	}
	return nil
}

// TryBlock marks the conversation busy. It reports false when another turn holds the block.
func (r *ConversationRepository) TryBlock(ctx context.Context, conversationID string) (bool, error) {
	now := time.Now().UTC()
	res, err := r.dbs.ReadWrite.ExecContext(ctx, `INSERT INTO conversations (id, blocked_at)
VALUES (:id, :now)
ON CONFLICT (id) DO UPDATE SET blocked_at = excluded.blocked_at
WHERE blocked_at IS NULL
   OR blocked_at < :expired`,
		sql.Named("id", conversationID),
		sql.Named("now", now.Format(timestampLayout)),
		sql.Named("expired", now.Add(-r.blockTTL).Format(timestampLayout)),
	)
	if err != nil {
		return false, errors.Wrap(err, "block conversation", slog.String("conversation_id", conversationID))
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, errors.Wrap(err, "rows affected")
	}
	return affected == 1, nil
}

func (r *ConversationRepository) Unblock(ctx context.Context, conversationID string) error {
	if _, err := r.dbs.ReadWrite.ExecContext(ctx, `UPDATE conversations SET blocked_at = NULL WHERE id = ?`,
		conversationID); err != nil {
		return errors.Wrap(err, "unblock conversation", slog.String("conversation_id", conversationID))
	}
	return nil
}

// Get returns the conversation with its feedback and issues.
func (r *ConversationRepository) Get(ctx context.Context, conversationID string) (*models.Conversation, error) {
	var (
		conversation = models.Conversation{
			ID:       conversationID,
			CaseID:   "",
			Scope:    nil,
			Feedback: nil,
			Issues:   nil,
			Created:  time.Time{},
			Updated:  time.Time{},
		}
		scopeDocument    string
		feedback         string
		created, updated string
		rows             *sql.Rows
		err              error
	)

	stmt := `SELECT case_id, scope, feedback, created, updated FROM conversations WHERE id = ?`
	err = r.dbs.ReadOnly.QueryRowContext(ctx, stmt, conversationID).
		Scan(&conversation.CaseID, &scopeDocument, &feedback, &created, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errors.Wrap(ErrConversationNotFound, "select conversation",
			slog.String("conversation_id", conversationID))
	}
	if err != nil {
		return nil, errors.Wrap(err, "select conversation", slog.String("conversation_id", conversationID))
	}
	if err = json.Unmarshal([]byte(scopeDocument), &conversation.Scope); err != nil {
		return nil, errors.Wrap(err, "unmarshal scope")
	}
	if feedback != "" {
		conversation.Feedback = strings.Split(feedback, models.FeedbackSeparator)
	}
	if conversation.Created, err = time.Parse(timestampLayout, created); err != nil {
		return nil, errors.Wrap(err, "parse created")
	}
	if conversation.Updated, err = time.Parse(timestampLayout, updated); err != nil {
		return nil, errors.Wrap(err, "parse updated")
	}

	stmt = `SELECT id, text, created FROM issues WHERE conversation_id = ? ORDER BY created, id`
	if rows, err = r.dbs.ReadOnly.QueryContext(ctx, stmt, conversationID); err != nil {
		return nil, errors.Wrap(err, "query issues")
	}
	defer func() {
		if err = rows.Close(); err != nil {
			err = errors.Wrap(err, "close rows")
			r.logger.Error("could not close rows", errors.SlogError(err))
		}
	}()
	for rows.Next() {
		var issue models.Issue
		if err = rows.Scan(&issue.ID, &issue.Text, &created); err != nil {
			return nil, errors.Wrap(err, "scan issue")
		}
		if issue.Created, err = time.Parse(timestampLayout, created); err != nil {
			return nil, errors.Wrap(err, "parse issue created")
		}
		conversation.Issues = append(conversation.Issues, issue)
	}
	if err = rows.Err(); err != nil {
		return nil, errors.Wrap(err, "rows error")
	}

	return &conversation, nil
}
