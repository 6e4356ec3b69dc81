package models_test

import (
	"encoding/json"
	"testing"

	"github.com/myrjola/spbot/internal/models"
	"github.com/stretchr/testify/require"
)

func TestAssociatedSymptomRecord_UnmarshalJSON(t *testing.T) {
	var s models.SymptomRecord
	err := json.Unmarshal([]byte(`{
		"symptom": "chest pain",
		"assoc_symptoms": [
			"nausea",
			{"symptom": "shortness of breath", "onset": "an hour ago", "assoc_symptoms": ["wheezing"]}
		]
	}`), &s)
	require.NoError(t, err)
	require.Len(t, s.AssociatedSymptoms, 2)

	leaf := s.AssociatedSymptoms[0]
	require.Equal(t, "nausea", leaf.Label)
	require.Nil(t, leaf.Symptom)

	node := s.AssociatedSymptoms[1]
	require.Equal(t, "shortness of breath", node.Label)
	require.NotNil(t, node.Symptom)
	require.Equal(t, "an hour ago", node.Symptom.Onset)
	require.Equal(t, "wheezing", node.Symptom.AssociatedSymptoms[0].Label)

	out, err := json.Marshal(s.AssociatedSymptoms)
	require.NoError(t, err)
	require.Contains(t, string(out), `"nausea"`)
	require.Contains(t, string(out), `"onset":"an hour ago"`)
}

func TestAssociatedSymptomRecord_Malformed(t *testing.T) {
	var s models.SymptomRecord
	err := json.Unmarshal([]byte(`{"symptom": "cough", "assoc_symptoms": [42]}`), &s)
	require.ErrorIs(t, err, models.ErrMalformedAssociatedSymptom)
}
