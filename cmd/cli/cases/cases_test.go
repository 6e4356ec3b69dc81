package cases_test

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/myrjola/spbot/cmd/cli/cases"
	"github.com/myrjola/spbot/cmd/cli/storage"
	"github.com/myrjola/spbot/internal/patient"
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
	require.Equal(t, "sqlite", stores.Backend)
	t.Cleanup(func() {
		require.NoError(t, stores.Close(context.Background()))
	})
	return stores
}

func writeFile(t *testing.T, name string, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

const minimalCase = `{
  "id": "%s",
  "category": "neurology",
  "name": "Ann Lee",
  "age": {"value": 40, "units": "year"},
  "gender": "female",
  "chief_complaint": {"label": "%s", "symptoms": [{"symptom": "%s"}]},
  "feedback": {"differentials": ["migraine", "tension headache", "cluster headache"]}
}`

func TestImportFiles(t *testing.T) {
	ctx := context.Background()
	logger := testhelpers.NewLogger(io.Discard)

	t.Run("single case", func(t *testing.T) {
		stores := openStores(t)
		index := synonyms.NewIndex(stores.Synonyms, logger)

		n, err := cases.ImportFiles(ctx, stores.Cases, index,
			[]string{"../../../internal/patient/testdata/prenatal.json"}, logger)
		require.NoError(t, err)
		require.Equal(t, 1, n)

		var out bytes.Buffer
		require.NoError(t, cases.WriteList(ctx, stores.Cases, "obstetrics", &out))
		require.Contains(t, out.String(), "pelvic pain")
		require.Contains(t, out.String(), "pelvic-pain-02")
	})

	t.Run("array of cases", func(t *testing.T) {
		stores := openStores(t)
		index := synonyms.NewIndex(stores.Synonyms, logger)
		path := writeFile(t, "neuro.json", "["+
			fmt.Sprintf(minimalCase, "headache-01", "headache", "headache")+","+
			fmt.Sprintf(minimalCase, "dizziness-01", "dizziness", "dizziness")+"]")

		n, err := cases.ImportFiles(ctx, stores.Cases, index, []string{path}, logger)
		require.NoError(t, err)
		require.Equal(t, 2, n)

		var out bytes.Buffer
		require.NoError(t, cases.WriteList(ctx, stores.Cases, "", &out))
		require.Contains(t, out.String(), "CATEGORY")
		require.Contains(t, out.String(), "headache-01")
		require.Contains(t, out.String(), "dizziness-01")
		require.Contains(t, out.String(), "chest-pain-01")
	})

	t.Run("invalid case stores nothing", func(t *testing.T) {
		stores := openStores(t)
		index := synonyms.NewIndex(stores.Synonyms, logger)
		valid := writeFile(t, "valid.json", fmt.Sprintf(minimalCase, "headache-01", "headache", "headache"))
		invalid := writeFile(t, "invalid.json", `{"id": "broken-01", "category": "neurology"}`)

		_, err := cases.ImportFiles(ctx, stores.Cases, index, []string{valid, invalid}, logger)
		require.ErrorIs(t, err, patient.ErrInvalidCase)

		categories, err := stores.Cases.Categories(ctx)
		require.NoError(t, err)
		require.NotContains(t, categories, "neurology")
	})

	t.Run("malformed JSON", func(t *testing.T) {
		stores := openStores(t)
		index := synonyms.NewIndex(stores.Synonyms, logger)
		path := writeFile(t, "bad.json", `{"id": `)

		_, err := cases.ImportFiles(ctx, stores.Cases, index, []string{path}, logger)
		require.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		stores := openStores(t)
		index := synonyms.NewIndex(stores.Synonyms, logger)

		_, err := cases.ImportFiles(ctx, stores.Cases, index, []string{"does-not-exist.json"}, logger)
		require.ErrorIs(t, err, os.ErrNotExist)
	})
}
