package repositories_test

import (
	"context"
	"io"
	"testing"

	"github.com/myrjola/spbot/internal/repositories"
	"github.com/myrjola/spbot/internal/synonyms"
	"github.com/myrjola/spbot/internal/testhelpers"
	"github.com/stretchr/testify/require"
)

func TestSynonymRepository_FindSynonyms(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewSynonymRepository(newTestDB(t), testhelpers.NewLogger(io.Discard))

	tests := []struct {
		name string
		kind synonyms.Kind
		term string
		want []string
	}{
		{
			name: "group members",
			kind: synonyms.Disease,
			term: "htn",
			want: []string{"high blood pressure", "htn", "hypertension"},
		},
		{
			name: "case insensitive",
			kind: synonyms.Medication,
			term: "Lipitor",
			want: []string{"atorvastatin", "lipitor"},
		},
		{
			name: "kinds do not mix",
			kind: synonyms.Symptom,
			term: "htn",
			want: nil,
		},
		{
			name: "term in two groups",
			kind: synonyms.Relationship,
			term: "sibling",
			want: []string{"brother", "sibling", "sister"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.FindSynonyms(ctx, tt.kind, tt.term)
			require.NoError(t, err)
			if tt.want == nil {
				require.Empty(t, got)
				return
			}
			require.Equal(t, tt.want, got)
		})
	}
}

func TestSynonymRepository_Import(t *testing.T) {
	ctx := context.Background()
	logger := testhelpers.NewLogger(io.Discard)
	repo := repositories.NewSynonymRepository(newTestDB(t), logger)

	err := repo.Import(ctx, synonyms.Surgery, [][]string{
		{"Tonsillectomy", "tonsils out", " "},
		{"appendectomy", "appy"},
	})
	require.NoError(t, err)

	got, err := repo.FindSynonyms(ctx, synonyms.Surgery, "appy")
	require.NoError(t, err)
	require.Equal(t, []string{"appendectomy", "appy"}, got)

	got, err = repo.FindSynonyms(ctx, synonyms.Surgery, "appendix removal")
	require.NoError(t, err)
	require.Empty(t, got, "import replaces the previous groups")

	index := synonyms.NewIndex(repo, logger)
	require.True(t, index.Equivalents(ctx, synonyms.Surgery, "tonsils out").Contains("tonsillectomy"))
}
