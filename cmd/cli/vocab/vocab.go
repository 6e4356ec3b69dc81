// Package vocab holds the synonym table commands.
package vocab

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/myrjola/spbot/cmd/cli/storage"
	"github.com/myrjola/spbot/internal/errors"
	"github.com/myrjola/spbot/internal/synonyms"
	"github.com/spf13/cobra"
)

var Group = &cobra.Group{
	ID:    "synonyms",
	Title: "Synonym tables",
}

var Import = &cobra.Command{
	Use:     "import-synonyms [file.json]",
	GroupID: "synonyms",
	Short:   "Import synonym groups",
	Long: `Replaces the synonym groups of every kind present in the file. The file maps a kind to its groups:

  {"symptom": [["shortness of breath", "sob", "dyspnea"]], "disease": [["pulmonary embolism", "pe"]]}`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		logger := storage.NewLogger(cmd.ErrOrStderr())
		stores, err := storage.Open(ctx, os.LookupEnv, logger)
		if err != nil {
			return err
		}
		defer func() {
			if closeErr := stores.Close(context.WithoutCancel(ctx)); closeErr != nil {
				logger.LogAttrs(ctx, slog.LevelError, "close store", errors.SlogError(closeErr))
			}
		}()

		kinds, err := ImportFile(ctx, stores.Synonyms, args[0])
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "imported %s synonyms to %s\n", strings.Join(kinds, ", "), stores.Backend)
		return nil
	},
}

var Lookup = &cobra.Command{
	Use:     "synonyms [kind] [term]",
	GroupID: "synonyms",
	Short:   "Print the spellings equivalent to a term",
	Args:    cobra.MinimumNArgs(2), //nolint:mnd // kind and at least one word
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		kind, err := synonyms.ParseKind(args[0])
		if err != nil {
			return err
		}
		logger := storage.NewLogger(cmd.ErrOrStderr())
		stores, err := storage.Open(ctx, os.LookupEnv, logger)
		if err != nil {
			return err
		}
		defer func() {
			if closeErr := stores.Close(context.WithoutCancel(ctx)); closeErr != nil {
				logger.LogAttrs(ctx, slog.LevelError, "close store", errors.SlogError(closeErr))
			}
		}()

		index := synonyms.NewIndex(stores.Synonyms, logger)
		for _, term := range Equivalents(ctx, index, kind, strings.Join(args[1:], " ")) {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), term)
		}
		return nil
	},
}

// ImportFile imports the groups of each kind in the file and returns the imported kinds in sorted order.
func ImportFile(ctx context.Context, store storage.SynonymStore, path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read synonym file", slog.String("path", path))
	}
	var tables map[string][][]string
	if err = json.Unmarshal(data, &tables); err != nil {
		return nil, errors.Wrap(err, "unmarshal synonym file", slog.String("path", path))
	}

	groupsByKind := make(map[synonyms.Kind][][]string, len(tables))
	for name, groups := range tables {
		kind, parseErr := synonyms.ParseKind(name)
		if parseErr != nil {
			return nil, parseErr
		}
		groupsByKind[kind] = append(groupsByKind[kind], groups...)
	}

	names := make([]string, 0, len(groupsByKind))
	for kind := range groupsByKind {
		names = append(names, string(kind))
	}
	slices.Sort(names)

	for _, name := range names {
		kind := synonyms.Kind(name)
		if err = store.Import(ctx, kind, groupsByKind[kind]); err != nil {
			return nil, errors.Wrap(err, "import synonyms", slog.String("kind", name))
		}
	}
	return names, nil
}

// Equivalents lists the spellings of term in sorted order.
func Equivalents(ctx context.Context, index *synonyms.Index, kind synonyms.Kind, term string) []string {
	set := index.Equivalents(ctx, kind, term)
	terms := make([]string, 0, len(set))
	for t := range set {
		terms = append(terms, t)
	}
	slices.Sort(terms)
	return terms
}
