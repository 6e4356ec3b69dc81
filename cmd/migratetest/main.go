package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/myrjola/spbot/internal/errors"
	"github.com/myrjola/spbot/internal/repositories"
	"github.com/myrjola/spbot/internal/sqlite"
	"github.com/myrjola/spbot/internal/testhelpers"
)

func main() {
	logger := testhelpers.NewLogger(os.Stdout)
	var (
		err       error
		start     = time.Now()
		ctx       context.Context
		sqliteURL string
		ok        bool
		cancel    context.CancelFunc
	)
	ctx = context.Background()
	ctx, cancel = context.WithTimeout(ctx, 5*time.Second) //nolint:mnd // 5 seconds

	if sqliteURL, ok = os.LookupEnv("SPBOT_SQLITE_URL"); !ok {
		logger.LogAttrs(ctx, slog.LevelError, "SPBOT_SQLITE_URL not set")
		os.Exit(1)
	}

	var db *sqlite.Database
	if db, err = sqlite.NewDatabase(ctx, sqliteURL, logger); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error creating database",
			slog.String("url", sqliteURL), errors.SlogError(err))
		os.Exit(1)
	}

	// Every case must survive the migration and still be listed under its category.
	var ids []string
	if ids, err = repositories.NewCaseRepository(db, logger).AllCaseIDs(ctx); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error listing cases", errors.SlogError(err))
		os.Exit(1)
	}
	if len(ids) == 0 {
		logger.LogAttrs(ctx, slog.LevelError, "no cases found, something is likely wrong")
		os.Exit(1)
	}
	logger.LogAttrs(ctx, slog.LevelInfo, "case count", slog.Int("count", len(ids)))

	row := db.ReadOnly.QueryRowContext(ctx, `SELECT COUNT(*) FROM conversations`)
	var conversations int
	if err = row.Scan(&conversations); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error fetching conversation count", errors.SlogError(err))
		os.Exit(1)
	}
	logger.LogAttrs(ctx, slog.LevelInfo, "conversation count", slog.Int("count", conversations))

	if err = db.Close(); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error closing database", errors.SlogError(err))
		os.Exit(1)
	}
	logger.LogAttrs(ctx, slog.LevelInfo, "Migration test successful 🙌", slog.Duration("duration", time.Since(start)))
	cancel()
	os.Exit(0)
}
