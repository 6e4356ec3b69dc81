package repositories

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/myrjola/spbot/internal/errors"
	"github.com/myrjola/spbot/internal/models"
	"github.com/myrjola/spbot/internal/sqlite"
)

// CaseRepository stores case scripts as JSON documents next to the columns the catalog is browsed by.
type CaseRepository struct {
	dbs    *sqlite.Database
	logger *slog.Logger
}

func NewCaseRepository(dbs *sqlite.Database, logger *slog.Logger) *CaseRepository {
	return &CaseRepository{
		dbs:    dbs,
		logger: logger.With("source", "CaseRepository"),
	}
}

// FindCases returns every record stored under id. Callers decide what zero or several matches mean.
func (r *CaseRepository) FindCases(ctx context.Context, id string) ([]models.CaseRecord, error) {
	var documents []string
	if err := r.dbs.ReadOnly.SelectContext(ctx, &documents, `SELECT record FROM cases WHERE id = ?`, id); err != nil {
		return nil, errors.Wrap(err, "select cases", slog.String("case_id", id))
	}
	records := make([]models.CaseRecord, 0, len(documents))
	for _, document := range documents {
		var rec models.CaseRecord
		if err := json.Unmarshal([]byte(document), &rec); err != nil {
			return nil, errors.Wrap(err, "unmarshal case", slog.String("case_id", id))
		}
		records = append(records, rec)
	}
	return records, nil
}

func (r *CaseRepository) Categories(ctx context.Context) ([]string, error) {
	var categories []string
	if err := r.dbs.ReadOnly.SelectContext(ctx, &categories,
		`SELECT DISTINCT category FROM cases ORDER BY category`); err != nil {
		return nil, errors.Wrap(err, "select categories")
	}
	return categories, nil
}

// ChiefComplaints lists the cases of a category by their chief complaint.
func (r *CaseRepository) ChiefComplaints(ctx context.Context, category string) ([]models.ChiefComplaintOption, error) {
	var options []models.ChiefComplaintOption
	if err := r.dbs.ReadOnly.SelectContext(ctx, &options, `SELECT id, chief_complaint
FROM cases
WHERE category = ?
ORDER BY chief_complaint, id`, category); err != nil {
		return nil, errors.Wrap(err, "select chief complaints", slog.String("category", category))
	}
	return options, nil
}

func (r *CaseRepository) CaseIDs(ctx context.Context, category string) ([]string, error) {
	var ids []string
	if err := r.dbs.ReadOnly.SelectContext(ctx, &ids,
		`SELECT id FROM cases WHERE category = ? ORDER BY id`, category); err != nil {
		return nil, errors.Wrap(err, "select case ids", slog.String("category", category))
	}
	return ids, nil
}

func (r *CaseRepository) AllCaseIDs(ctx context.Context) ([]string, error) {
	var ids []string
	if err := r.dbs.ReadOnly.SelectContext(ctx, &ids, `SELECT id FROM cases ORDER BY id`); err != nil {
		return nil, errors.Wrap(err, "select all case ids")
	}
	return ids, nil
}

// Upsert stores rec, replacing any case with the same id.
func (r *CaseRepository) Upsert(ctx context.Context, rec models.CaseRecord) error {
	document, err := json.Marshal(rec)
	if err != nil {
		return errors.Wrap(err, "marshal case", slog.String("case_id", rec.ID))
	}
	row := struct {
		ID             string `db:"id"`
		Category       string `db:"category"`
		ChiefComplaint string `db:"chief_complaint"`
		Record         string `db:"record"`
	}{
		ID:             rec.ID,
		Category:       rec.Category,
		ChiefComplaint: rec.ChiefComplaint.Label,
		Record:         string(document),
	}
	if _, err = r.dbs.ReadWrite.NamedExecContext(ctx, `INSERT INTO cases (id, category, chief_complaint, record)
VALUES (:id, :category, :chief_complaint, :record)
ON CONFLICT (id) DO UPDATE SET category        = excluded.category,
                               chief_complaint = excluded.chief_complaint,
                               record          = excluded.record,
                               updated         = STRFTIME('%Y-%m-%dT%H:%M:%fZ')`, row); err != nil {
		return errors.Wrap(err, "upsert case", slog.String("case_id", rec.ID))
	}
	r.logger.LogAttrs(ctx, slog.LevelInfo, "stored case", slog.String("case_id", rec.ID))
	return nil
}
