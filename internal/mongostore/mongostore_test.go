package mongostore_test

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/myrjola/spbot/internal/models"
	"github.com/myrjola/spbot/internal/mongostore"
	"github.com/myrjola/spbot/internal/patient"
	"github.com/myrjola/spbot/internal/synonyms"
	"github.com/myrjola/spbot/internal/testhelpers"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *mongostore.Store {
	t.Helper()
	uri, ok := os.LookupEnv("SPBOT_TEST_MONGO_URI")
	if !ok {
		t.Skip("SPBOT_TEST_MONGO_URI not set")
	}
	ctx := context.Background()
	dbName := "spbot_test_" + uuid.NewString()[:8]
	store, err := mongostore.Connect(ctx, uri, dbName, testhelpers.NewLogger(io.Discard))
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, store.Drop(ctx))
		require.NoError(t, store.Close(ctx))
	})
	return store
}

func readRecord(t *testing.T) models.CaseRecord {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("..", "patient", "testdata", "chest_pain.json"))
	require.NoError(t, err)
	var rec models.CaseRecord
	require.NoError(t, json.Unmarshal(data, &rec))
	return rec
}

func TestStore_Cases(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	rec := readRecord(t)
	require.NoError(t, store.Upsert(ctx, rec))
	other := rec
	other.ID = "chest-pain-02"
	other.Category = "pulmonology"
	other.ChiefComplaint.Label = "pleuritic chest pain"
	require.NoError(t, store.Upsert(ctx, other))

	records, err := store.FindCases(ctx, rec.ID)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, rec.ID, records[0].ID)
	require.Equal(t, rec.Age, records[0].Age)
	require.Equal(t, rec.ChiefComplaint.Symptoms[0].Severity, records[0].ChiefComplaint.Symptoms[0].Severity)
	require.Equal(t, rec.Feedback.Differentials, records[0].Feedback.Differentials)

	c, err := patient.Load(ctx, store, rec.ID, synonyms.NewIndex(store, testhelpers.NewLogger(io.Discard)),
		testhelpers.NewLogger(io.Discard))
	require.NoError(t, err)
	require.Equal(t, "John Smith", c.Name())

	categories, err := store.Categories(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"cardiology", "pulmonology"}, categories)

	complaints, err := store.ChiefComplaints(ctx, "pulmonology")
	require.NoError(t, err)
	require.Equal(t, []models.ChiefComplaintOption{{ChiefComplaint: "pleuritic chest pain", CaseID: "chest-pain-02"}},
		complaints)

	ids, err := store.AllCaseIDs(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"chest-pain-01", "chest-pain-02"}, ids)

	ids, err = store.CaseIDs(ctx, "cardiology")
	require.NoError(t, err)
	require.Equal(t, []string{"chest-pain-01"}, ids)
}

func TestStore_Synonyms(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	require.NoError(t, store.Import(ctx, synonyms.Disease, [][]string{
		{"Hypertension", "HTN", "high blood pressure"},
		{"pulmonary embolism", "PE"},
	}))

	terms, err := store.FindSynonyms(ctx, synonyms.Disease, "HTN")
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"hypertension", "htn", "high blood pressure"}, terms)

	terms, err = store.FindSynonyms(ctx, synonyms.Disease, "asthma")
	require.NoError(t, err)
	require.Empty(t, terms)

	index := synonyms.NewIndex(store, testhelpers.NewLogger(io.Discard))
	require.True(t, index.Equivalents(ctx, synonyms.Disease, "Pulmonary Embolism").Contains("pe"))
}
