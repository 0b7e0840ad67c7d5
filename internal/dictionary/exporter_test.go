package dictionary

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"baakh/internal/database"
	"baakh/internal/sindhi"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	rows []database.DictionaryEntry
	err  error
}

func (f fakeSource) ListActive(context.Context) ([]database.DictionaryEntry, error) {
	return f.rows, f.err
}

func TestExporter_WritesLoadableFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dict.txt")
	src := fakeSource{rows: []database.DictionaryEntry{
		{Word: "سنڌ", Correction: "Sindh"},
		{Word: "ڀٽائي", Correction: "Bhittai"},
		{Word: "", Correction: "empty"},
		{Word: "a|b", Correction: "pipe"},
	}}

	res, err := NewExporter(src, path).Export(context.Background())
	require.NoError(t, err)
	assert.Equal(t, path, res.Path)
	assert.Equal(t, 4, res.Rows)
	assert.Equal(t, 2, res.Written)
	assert.Equal(t, 2, res.Skipped)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(raw), "# "))

	dict, err := sindhi.LoadDictionary(path)
	require.NoError(t, err)
	assert.Equal(t, sindhi.Dictionary{"سنڌ": "Sindh", "ڀٽائي": "Bhittai"}, dict)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file left behind")
}

func TestExporter_SourceErrorKeepsExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dict.txt")
	writeFile(t, path, "سنڌ|Sindh\n")

	_, err := NewExporter(fakeSource{err: errors.New("connection refused")}, path).Export(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "سنڌ|Sindh\n", string(raw))
}

func TestExporter_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	path := filepath.Join(t.TempDir(), "dict.txt")
	_, err := NewExporter(fakeSource{}, path).Export(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NoFileExists(t, path)
}

func TestExporter_ThenStoreReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dict.txt")
	s := NewStore(path)

	src := fakeSource{rows: []database.DictionaryEntry{{Word: "ٻار", Correction: "baar"}}}
	_, err := NewExporter(src, path).Export(context.Background())
	require.NoError(t, err)

	_, err = s.Reload()
	require.NoError(t, err)
	assert.Equal(t, "baar", sindhi.NewRomanizer(s).Romanize("ٻار", sindhi.ModeSmart))
}
