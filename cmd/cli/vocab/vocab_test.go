package vocab_test

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/myrjola/spbot/cmd/cli/storage"
	"github.com/myrjola/spbot/cmd/cli/vocab"
	"github.com/myrjola/spbot/internal/synonyms"
	"github.com/myrjola/spbot/internal/testhelpers"
	"github.com/stretchr/testify/require"
)

func openStores(t *testing.T) *storage.Stores {
	t.Helper()
	lookupEnv := func(key string) (string, bool) {
		if key == "SPBOT_SQLITE_URL" {
			return ":memory:", true
		}
		return "", false
	}
	stores, err := storage.Open(context.Background(), lookupEnv, testhelpers.NewLogger(io.Discard))
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, stores.Close(context.Background()))
	})
	return stores
}

func TestImportFile(t *testing.T) {
	ctx := context.Background()
	logger := testhelpers.NewLogger(io.Discard)

	tests := []struct {
		name      string
		content   string
		wantKinds []string
		wantErr   error
	}{
		{
			name: "replaces groups",
			content: `{"Disease": [["pulmonary embolism", "PE", "blood clot in the lung"]],
"allergy": [["penicillin", "pcn"]]}`,
			wantKinds: []string{"allergy", "disease"},
			wantErr:   nil,
		},
		{
			name:      "unknown kind",
			content:   `{"hobby": [["jazz", "bebop"]]}`,
			wantKinds: nil,
			wantErr:   synonyms.ErrUnknownKind,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stores := openStores(t)
			path := filepath.Join(t.TempDir(), "synonyms.json")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o600))

			kinds, err := vocab.ImportFile(ctx, stores.Synonyms, path)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantKinds, kinds)

			index := synonyms.NewIndex(stores.Synonyms, logger)
			require.Equal(t, []string{"blood clot in the lung", "pe", "pulmonary embolism"},
				vocab.Equivalents(ctx, index, synonyms.Disease, "pulmonary embolism"))
			require.Equal(t, []string{"pcn", "penicillin"}, vocab.Equivalents(ctx, index, synonyms.Allergy, "PCN"))
			// Importing a kind replaces the fixture groups of that kind only.
			require.Equal(t, []string{"acute coronary syndrome"},
				vocab.Equivalents(ctx, index, synonyms.Disease, "acute coronary syndrome"))
			require.Contains(t, vocab.Equivalents(ctx, index, synonyms.Symptom, "sob"), "shortness of breath")
		})
	}
}
