package sqlite

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONL_WriteThenRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.jsonl")
	records := []json.RawMessage{
		json.RawMessage(`{"task_id":"1","position":1}`),
		json.RawMessage(`{"task_id":"2","position":2}`),
	}
	require.NoError(t, writeJSONL(path, records))

	got, err := readJSONL(path)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.JSONEq(t, string(records[1]), string(got[1]))

	// No temp files survive the rename.
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestJSONL_ReadMissingFile(t *testing.T) {
	got, err := readJSONL(filepath.Join(t.TempDir(), "absent.jsonl"))
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestJSONL_ReadSkipsBlankLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "boards.jsonl")
	require.NoError(t, os.WriteFile(path, []byte("{\"a\":1}\n\n   \n{\"a\":2}\n"), 0o644))

	got, err := readJSONL(path)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestJSONL_ReadRejectsMalformedLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "boards.jsonl")
	require.NoError(t, os.WriteFile(path, []byte("{\"a\":1}\n{\"a\":\n"), 0o644))

	_, err := readJSONL(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boards.jsonl line 2")
}
