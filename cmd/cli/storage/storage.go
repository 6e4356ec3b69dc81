// Package storage opens the case and synonym stores the CLI writes to.
package storage

import (
	"context"
	"io"
	"log/slog"

	"github.com/myrjola/spbot/internal/envstruct"
	"github.com/myrjola/spbot/internal/errors"
	"github.com/myrjola/spbot/internal/logging"
	"github.com/myrjola/spbot/internal/models"
	"github.com/myrjola/spbot/internal/mongostore"
	"github.com/myrjola/spbot/internal/repositories"
	"github.com/myrjola/spbot/internal/sqlite"
	"github.com/myrjola/spbot/internal/synonyms"
)

type config struct {
	SqliteURL string `env:"SPBOT_SQLITE_URL" envDefault:"spbot.sqlite3"`
	// MongoURI selects MongoDB instead of SQLite when set.
	MongoURI string `env:"SPBOT_MONGO_URI" envDefault:""`
	MongoDB  string `env:"SPBOT_MONGO_DB" envDefault:"spbot"`
}

// CaseCatalog stores case scripts.
type CaseCatalog interface {
	Upsert(ctx context.Context, rec models.CaseRecord) error
	Categories(ctx context.Context) ([]string, error)
	ChiefComplaints(ctx context.Context, category string) ([]models.ChiefComplaintOption, error)
}

// SynonymStore stores synonym groups.
type SynonymStore interface {
	synonyms.Store
	Import(ctx context.Context, kind synonyms.Kind, groups [][]string) error
}

type Stores struct {
	Cases    CaseCatalog
	Synonyms SynonymStore
	// Backend is "sqlite" or "mongo".
	Backend string
	close   func(ctx context.Context) error
}

// Open connects to MongoDB when SPBOT_MONGO_URI is set and to the SQLite database otherwise.
func Open(ctx context.Context, lookupEnv func(string) (string, bool), logger *slog.Logger) (*Stores, error) {
	var (
		cfg config
		err error
	)
	if err = envstruct.Populate(&cfg, lookupEnv); err != nil {
		return nil, errors.Wrap(err, "populate config")
	}

	if cfg.MongoURI != "" {
		var store *mongostore.Store
		if store, err = mongostore.Connect(ctx, cfg.MongoURI, cfg.MongoDB, logger); err != nil {
			return nil, errors.Wrap(err, "connect mongo")
		}
		return &Stores{Cases: store, Synonyms: store, Backend: "mongo", close: store.Close}, nil
	}

	var db *sqlite.Database
	if db, err = sqlite.NewDatabase(ctx, cfg.SqliteURL, logger); err != nil {
		return nil, errors.Wrap(err, "open database", slog.String("url", cfg.SqliteURL))
	}
	return &Stores{
		Cases:    repositories.NewCaseRepository(db, logger),
		Synonyms: repositories.NewSynonymRepository(db, logger),
		Backend:  "sqlite",
		close: func(context.Context) error {
			return db.Close()
		},
	}, nil
}

func (s *Stores) Close(ctx context.Context) error {
	if err := s.close(ctx); err != nil {
		return errors.Wrap(err, "close store", slog.String("backend", s.Backend))
	}
	return nil
}

// NewLogger logs text to w, which is the command's error stream so that command output stays parseable.
func NewLogger(w io.Writer) *slog.Logger {
	return slog.New(logging.NewContextHandler(slog.NewTextHandler(w, &slog.HandlerOptions{
		AddSource:   false,
		Level:       slog.LevelInfo,
		ReplaceAttr: nil,
	})))
}
