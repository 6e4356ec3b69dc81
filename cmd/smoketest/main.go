package main

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/myrjola/spbot/internal/e2etest"
	"github.com/myrjola/spbot/internal/errors"
	"github.com/myrjola/spbot/internal/logging"
)

// TestEncounter starts an encounter and closes it right away, which exercises case loading, scope storage and the
// turn blocker without calling the language model.
func TestEncounter(client *e2etest.Client) error {
	ctx := context.Background()
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second) //nolint:mnd // 10 seconds
	defer cancel()
	var (
		err        error
		categories []string
		turn       e2etest.Turn
	)

	if categories, err = client.Categories(ctx); err != nil {
		return errors.Wrap(err, "list categories")
	}
	if len(categories) == 0 {
		return errors.New("no case categories")
	}

	conversationID := "smoketest-" + uuid.NewString()
	if turn, err = client.StartEncounter(ctx, conversationID, categories[0]); err != nil {
		return errors.Wrap(err, "start encounter")
	}
	if len(turn.Texts()) == 0 {
		return errors.New("no introduction", slog.String("case_id", turn.CaseID))
	}
	if turn, err = client.Say(ctx, conversationID, "END ENCOUNTER"); err != nil {
		return errors.Wrap(err, "end encounter")
	}
	if turn.Stage != "differentials" && !strings.HasSuffix(turn.Stage, "score") {
		return errors.New("encounter did not close", slog.String("stage", turn.Stage))
	}
	return nil
}

func main() {
	loggerHandler := logging.NewContextHandler(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		AddSource:   false,
		Level:       slog.LevelDebug,
		ReplaceAttr: nil,
	}))
	logger := slog.New(loggerHandler)
	ctx := context.Background()

	if len(os.Args) != 2 { //nolint:mnd // we expect only hostname to be passed as argument.
		logger.LogAttrs(ctx, slog.LevelError, "usage: smoketest <hostname>")
		os.Exit(1)
	}
	secret, ok := os.LookupEnv("SPBOT_BOT_SECRET")
	if !ok {
		logger.LogAttrs(ctx, slog.LevelError, "SPBOT_BOT_SECRET not set")
		os.Exit(1)
	}

	var (
		hostname = os.Args[1]
		url      = "https://" + hostname
		client   *e2etest.Client
		err      error
	)
	ctx = logging.WithAttrs(ctx, slog.String("hostname", url))

	if client, err = e2etest.NewClient(url, secret, "smoketest"); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error creating client", errors.SlogError(err))
		os.Exit(1)
	}
	if err = client.WaitForReady(ctx, "/api/healthy"); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "service not ready", errors.SlogError(err))
		os.Exit(1)
	}
	if err = TestEncounter(client); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error testing encounter", errors.SlogError(err))
		os.Exit(1)
	}

	logger.LogAttrs(ctx, slog.LevelInfo, "Smoke test successful 🙌")
	os.Exit(0)
}
