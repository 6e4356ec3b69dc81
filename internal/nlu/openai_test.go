package nlu_test

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/myrjola/spbot/internal/nlu"
	"github.com/myrjola/spbot/internal/testhelpers"
	"github.com/stretchr/testify/require"
)

func TestClient_Recognize(t *testing.T) {
	responses := map[string]string{
		"When did the chest pain start?": `{"intent": "hpi.onset", "confidence": 0.93,
			"entities": [{"text": "Chest Pain", "kind": "symptom", "confidence": 0.88}]}`,
		"Any fever or cough?": `{"intent": "ros", "confidence": 0.8, "entities": [
			{"text": "fever", "kind": "symptom", "confidence": 0.9},
			{"text": "cough", "kind": "symptom", "confidence": 0.9},
			{"text": "cough", "kind": "weather", "confidence": 0.1}]}`,
		"What's the capital of France?": `{"intent": "geography", "confidence": 0.99, "entities": []}`,
		"garbled":                       `not json`,
		"Any \u212Anee pain or chest pain?": `{"intent": "ros", "confidence": 0.7, "entities": [
			{"text": "knee pain", "kind": "symptom", "confidence": 0.8},
			{"text": "chest pain", "kind": "symptom", "confidence": 0.8}]}`,
	}
	srv := testhelpers.NewFakeOpenAI(t, func(utterance string) string { return responses[utterance] })
	client := nlu.NewClient(nlu.Config{APIKey: "test", BaseURL: srv.URL, Model: ""},
		testhelpers.NewLogger(io.Discard))
	ctx := context.Background()

	tests := []struct {
		name    string
		text    string
		want    nlu.Result
		wantErr bool
	}{
		{
			name: "intent with entity span",
			text: "When did the chest pain start?",
			want: nlu.Result{
				Text:   "When did the chest pain start?",
				Intent: nlu.Intent{Label: nlu.IntentOnset, Score: 0.93},
				Entities: []nlu.Entity{
					{Label: "chest pain", Kind: nlu.KindSymptom, StartIndex: 13, EndIndex: 23, Score: 0.88},
				},
			},
		},
		{
			name: "unknown kinds are dropped",
			text: "Any fever or cough?",
			want: nlu.Result{
				Text:   "Any fever or cough?",
				Intent: nlu.Intent{Label: nlu.IntentReviewOfSystems, Score: 0.8},
				Entities: []nlu.Entity{
					{Label: "fever", Kind: nlu.KindSymptom, StartIndex: 4, EndIndex: 9, Score: 0.9},
					{Label: "cough", Kind: nlu.KindSymptom, StartIndex: 13, EndIndex: 18, Score: 0.9},
				},
			},
		},
		{
			name: "unknown intent",
			text: "What's the capital of France?",
			want: nlu.Result{
				Text:     "What's the capital of France?",
				Intent:   nlu.Intent{Label: nlu.IntentNone, Score: 0},
				Entities: []nlu.Entity{},
			},
		},
		{
			name: "spans index the original text when folding changes its length",
			text: "Any \u212Anee pain or chest pain?",
			want: nlu.Result{
				Text:   "Any \u212Anee pain or chest pain?",
				Intent: nlu.Intent{Label: nlu.IntentReviewOfSystems, Score: 0.7},
				Entities: []nlu.Entity{
					{Label: "knee pain", Kind: nlu.KindSymptom, StartIndex: 4, EndIndex: 15, Score: 0.8},
					{Label: "chest pain", Kind: nlu.KindSymptom, StartIndex: 19, EndIndex: 29, Score: 0.8},
				},
			},
		},
		{
			name:    "malformed completion",
			text:    "garbled",
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := client.Recognize(ctx, tt.text)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
			for _, e := range got.Entities {
				require.True(t, strings.EqualFold(e.Label, tt.text[e.StartIndex:e.EndIndex]))
			}
		})
	}
}

func TestResult_Labels(t *testing.T) {
	r := nlu.Result{
		Text:   "",
		Intent: nlu.Intent{Label: nlu.IntentFamilyHistory, Score: 1},
		Entities: []nlu.Entity{
			{Label: "mother", Kind: nlu.KindRelationship},
			{Label: "diabetes", Kind: nlu.KindDisease},
			{Label: "father", Kind: nlu.KindRelationship},
		},
	}
	require.Equal(t, []string{"mother", "father"}, r.Labels(nlu.KindRelationship))
	first, ok := r.First(nlu.KindDisease)
	require.True(t, ok)
	require.Equal(t, "diabetes", first)
	_, ok = r.First(nlu.KindOrdinal)
	require.False(t, ok)
}
