package mongostore

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func Test_decodeCase(t *testing.T) {
	newDocument := func(age any, severity any, dose any) bson.M {
		return bson.M{
			"_id":      "chest-pain-01",
			"category": "cardiology",
			"name":     "John Smith",
			"age":      bson.M{"value": age, "units": "year"},
			"gender":   "male",
			"chief_complaint": bson.M{
				"label": "chest pain",
				"symptoms": bson.A{
					bson.M{"symptom": "chest pain", "severity": severity},
				},
			},
			"medications": bson.A{
				bson.M{"name": "lisinopril", "dose": bson.M{"amount": dose, "unit": "mg"}},
			},
			"feedback": bson.M{"differentials": bson.A{"a", "b", "c"}},
		}
	}

	tests := []struct {
		name     string
		document bson.M
		wantDose float64
	}{
		{name: "doubles", document: newDocument(float64(54), float64(7), float64(10)), wantDose: 10},
		{name: "int32", document: newDocument(int32(54), int32(7), int32(10)), wantDose: 10},
		{name: "int64", document: newDocument(int64(54), int64(7), int64(10)), wantDose: 10},
		{name: "fractional dose", document: newDocument(float64(54), float64(7), 2.5), wantDose: 2.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := decodeCase(tt.document)
			require.NoError(t, err)
			require.Equal(t, "chest-pain-01", rec.ID)
			require.Equal(t, 54, rec.Age.Value)
			require.NotNil(t, rec.ChiefComplaint.Symptoms[0].Severity)
			require.Equal(t, 7, *rec.ChiefComplaint.Symptoms[0].Severity)
			require.InDelta(t, tt.wantDose, rec.Medications[0].Dose.Amount, 1e-9)
		})
	}

	t.Run("fractional integer field", func(t *testing.T) {
		_, err := decodeCase(newDocument(54.5, float64(7), float64(10)))
		require.Error(t, err)
	})
}
