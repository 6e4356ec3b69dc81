package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/myrjola/spbot/cmd/cli/cases"
	"github.com/myrjola/spbot/cmd/cli/vocab"
	"github.com/myrjola/spbot/internal/errors"
	"github.com/spf13/cobra"
)

func init() {
	// A missing .env is fine, the environment may be configured otherwise.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	rootCmd.AddGroup(cases.Group)
	rootCmd.AddCommand(cases.Import, cases.List)
	rootCmd.AddGroup(vocab.Group)
	rootCmd.AddCommand(vocab.Import, vocab.Lookup)
}

var rootCmd = &cobra.Command{
	Use:   "spbot-cli",
	Short: "Manage standardized-patient cases",
	Long: `Command line utilities for the standardized-patient bot.

Commands write to the SQLite database at SPBOT_SQLITE_URL, or to MongoDB when SPBOT_MONGO_URI is set.`,
	SilenceUsage: true,
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func main() {
	Execute()
}
