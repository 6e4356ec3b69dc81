package patient_test

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/myrjola/spbot/internal/models"
	"github.com/myrjola/spbot/internal/patient"
	"github.com/myrjola/spbot/internal/synonyms"
	"github.com/myrjola/spbot/internal/testhelpers"
	"github.com/stretchr/testify/require"
)

type stubSynonyms map[synonyms.Kind][][]string

func (s stubSynonyms) FindSynonyms(_ context.Context, kind synonyms.Kind, term string) ([]string, error) {
	var found []string
	for _, group := range s[kind] {
		if slices.Contains(group, term) {
			found = append(found, group...)
		}
	}
	return found, nil
}

var testSynonyms = stubSynonyms{
	synonyms.Symptom: {
		{"shortness of breath", "sob", "dyspnea", "trouble breathing"},
		{"nausea", "queasy", "feeling sick"},
		{"chest pain", "chest discomfort"},
	},
	synonyms.Disease: {
		{"hypertension", "high blood pressure", "htn"},
		{"pulmonary embolism", "pe"},
	},
	synonyms.Relationship: {
		{"father", "dad"},
		{"mother", "mom"},
	},
	synonyms.Substance: {
		{"marijuana", "weed", "cannabis"},
		{"cigarettes", "tobacco", "smoking"},
	},
	synonyms.Medication: {
		{"lisinopril", "prinivil"},
	},
	synonyms.Allergy: {
		{"penicillin", "pcn"},
	},
	synonyms.Surgery: {
		{"appendectomy", "appendix removal"},
	},
}

func newIndex() *synonyms.Index {
	return synonyms.NewIndex(testSynonyms, testhelpers.NewLogger(io.Discard))
}

func readRecord(t *testing.T, name string) models.CaseRecord {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	var rec models.CaseRecord
	require.NoError(t, json.Unmarshal(data, &rec))
	return rec
}

func newCase(t *testing.T, name string) *patient.Case {
	t.Helper()
	c, err := patient.New(readRecord(t, name), newIndex(), testhelpers.NewLogger(io.Discard))
	require.NoError(t, err)
	return c
}
