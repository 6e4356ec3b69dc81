package cases

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/myrjola/spbot/cmd/cli/storage"
	"github.com/myrjola/spbot/internal/errors"
	"github.com/myrjola/spbot/internal/models"
	"github.com/myrjola/spbot/internal/patient"
	"github.com/myrjola/spbot/internal/synonyms"
	"github.com/spf13/cobra"
)

var Group = &cobra.Group{
	ID:    "cases",
	Title: "Case scripts",
}

var Import = &cobra.Command{
	Use:     "import-cases [file.json]...",
	GroupID: "cases",
	Short:   "Import case scripts",
	Long: `Validates case scripts and stores them, replacing cases with the same id.
A file holds either one case object or an array of cases.`,
	Args: cobra.MinimumNArgs(1),
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

		index := synonyms.NewIndex(stores.Synonyms, logger)
		n, err := ImportFiles(ctx, stores.Cases, index, args, logger)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "imported %d cases to %s\n", n, stores.Backend)
		return nil
	},
}

var List = &cobra.Command{
	Use:     "list-cases [category]",
	GroupID: "cases",
	Short:   "List cases by category",
	Args:    cobra.MaximumNArgs(1),
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

		category := ""
		if len(args) == 1 {
			category = args[0]
		}
		return WriteList(ctx, stores.Cases, category, cmd.OutOrStdout())
	},
}

// ImportFiles validates every case of the files before storing any of them, so a bad file leaves the store
// untouched.
func ImportFiles(
	ctx context.Context,
	catalog storage.CaseCatalog,
	index *synonyms.Index,
	paths []string,
	logger *slog.Logger,
) (int, error) {
	var records []models.CaseRecord
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return 0, errors.Wrap(err, "read case file", slog.String("path", path))
		}
		recs, err := decodeRecords(data)
		if err != nil {
			return 0, errors.Wrap(err, "decode case file", slog.String("path", path))
		}
		for _, rec := range recs {
			if _, err = patient.New(rec, index, logger); err != nil {
				return 0, errors.Wrap(err, "validate case", slog.String("path", path))
			}
		}
		records = append(records, recs...)
	}

	for _, rec := range records {
		if err := catalog.Upsert(ctx, rec); err != nil {
			return 0, errors.Wrap(err, "store case", slog.String("caseID", rec.ID))
		}
		logger.LogAttrs(ctx, slog.LevelInfo, "imported case",
			slog.String("caseID", rec.ID), slog.String("category", rec.Category))
	}
	return len(records), nil
}

func decodeRecords(data []byte) ([]models.CaseRecord, error) {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var recs []models.CaseRecord
		if err := json.Unmarshal(data, &recs); err != nil {
			return nil, errors.Wrap(err, "unmarshal case array")
		}
		return recs, nil
	}
	var rec models.CaseRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, errors.Wrap(err, "unmarshal case")
	}
	return []models.CaseRecord{rec}, nil
}

// WriteList prints the chief complaints of category, or of every category when category is empty.
func WriteList(ctx context.Context, catalog storage.CaseCatalog, category string, w io.Writer) error {
	categories := []string{category}
	if category == "" {
		var err error
		if categories, err = catalog.Categories(ctx); err != nil {
			return errors.Wrap(err, "list categories")
		}
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0) //nolint:mnd // two spaces between columns
	_, _ = fmt.Fprintln(tw, "CATEGORY\tCHIEF COMPLAINT\tCASE ID")
	for _, c := range categories {
		options, err := catalog.ChiefComplaints(ctx, c)
		if err != nil {
			return errors.Wrap(err, "list chief complaints", slog.String("category", c))
		}
		for _, o := range options {
			_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\n", c, o.ChiefComplaint, o.CaseID)
		}
	}
	if err := tw.Flush(); err != nil {
		return errors.Wrap(err, "flush case list")
	}
	return nil
}
