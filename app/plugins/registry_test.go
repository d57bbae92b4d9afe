package plugins

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/rescuesim/core/results"
)

func TestOpenResultStore(t *testing.T) {
	assert.Equal(t, []string{"jsonl", "jsonl_rotating", "sqlite"}, ResultStoreNames())

	s, err := OpenResultStore(results.Config{Backend: results.BackendJSONL, Path: filepath.Join(t.TempDir(), "r.jsonl")})
	require.NoError(t, err)
	_, ok := s.(*results.JSONLStore)
	assert.True(t, ok)
	require.NoError(t, s.Close())

	s, err = OpenResultStore(results.Config{Backend: results.BackendSQLite, Path: "file:plugins_test.db?mode=memory&cache=shared"})
	require.NoError(t, err)
	_, ok = s.(*results.SQLiteStore)
	assert.True(t, ok)
	require.NoError(t, s.Close())

	s, err = OpenResultStore(results.Config{Backend: results.BackendNone})
	assert.NoError(t, err)
	assert.Nil(t, s)

	_, err = OpenResultStore(results.Config{Backend: "redis"})
	assert.Error(t, err)

	_, err = OpenResultStore(results.Config{Backend: results.BackendJSONL, Path: filepath.Join(t.TempDir(), "missing", "r.jsonl")})
	assert.Error(t, err)
}
