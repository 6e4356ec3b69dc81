package repositories

import (
	"context"
	"database/sql"
	"log/slog"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/myrjola/spbot/internal/errors"
	"github.com/myrjola/spbot/internal/sqlite"
	"github.com/myrjola/spbot/internal/synonyms"
)

// SynonymRepository stores synonym groups. Every term of a group is equivalent to the others.
type SynonymRepository struct {
	dbs    *sqlite.Database
	logger *slog.Logger
}

func NewSynonymRepository(dbs *sqlite.Database, logger *slog.Logger) *SynonymRepository {
	return &SynonymRepository{
		dbs:    dbs,
		logger: logger.With("source", "SynonymRepository"),
	}
}

// FindSynonyms returns the terms sharing a group with term, term included. Unknown terms have no synonyms.
func (r *SynonymRepository) FindSynonyms(ctx context.Context, kind synonyms.Kind, term string) ([]string, error) {
	var terms []string
	if err := r.dbs.ReadOnly.SelectContext(ctx, &terms, `SELECT DISTINCT s2.term
FROM synonyms s1
         JOIN synonyms s2 ON s1.kind = s2.kind AND s1.group_id = s2.group_id
WHERE s1.kind = ?
  AND s1.term = ?
ORDER BY s2.term`, string(kind), strings.ToLower(term)); err != nil {
		return nil, errors.Wrap(err, "select synonyms", slog.String("kind", string(kind)), slog.String("term", term))
	}
	return terms, nil
}

// Import replaces the synonym groups of kind. Terms are stored lowercase.
func (r *SynonymRepository) Import(ctx context.Context, kind synonyms.Kind, groups [][]string) error {
	var (
		tx  *sqlx.Tx
		err error
	)
	if tx, err = r.dbs.ReadWrite.BeginTxx(ctx, nil); err != nil {
		return errors.Wrap(err, "begin transaction")
	}
	defer func() {
		if rollbackErr := tx.Rollback(); rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
			r.logger.LogAttrs(ctx, slog.LevelError, "failed to rollback transaction", errors.SlogError(rollbackErr))
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM synonyms WHERE kind = ?`, string(kind)); err != nil {
		return errors.Wrap(err, "delete synonyms", slog.String("kind", string(kind)))
	}
	for i, group := range groups {
		for _, term := range group {
			term = strings.ToLower(strings.TrimSpace(term))
			if term == "" {
				continue
			}
			if _, err = tx.ExecContext(ctx, `INSERT INTO synonyms (kind, group_id, term)
VALUES (?, ?, ?)
ON CONFLICT DO NOTHING`, string(kind), i+1, term); err != nil {
				return errors.Wrap(err, "insert synonym", slog.String("term", term))
			}
		}
	}
	if err = tx.Commit(); err != nil {
		return errors.Wrap(err, "commit synonyms")
	}
	r.logger.LogAttrs(ctx, slog.LevelInfo, "imported synonyms",
		slog.String("kind", string(kind)), slog.Int("groups", len(groups)))
	return nil
}
