package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func backends(t *testing.T) map[string]func() Storage {
	t.Helper()
	dir := t.TempDir()
	return map[string]func() Storage{
		"memory": func() Storage { return NewMemory() },
		"file": func() Storage {
			s, err := NewFile(filepath.Join(dir, "state", "storage.json"))
			require.NoError(t, err)
			return s
		},
		"sqlite": func() Storage {
			s, err := NewSQLite(filepath.Join(dir, "db", "storage.db"))
			require.NoError(t, err)
			return s
		},
	}
}

func TestStorageContract(t *testing.T) {
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			s := open()
			defer s.Close()

			_, ok, err := s.Get("missing")
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, s.Set("auth-storage", `{"token":"a"}`))
			require.NoError(t, s.Set("auth-storage", `{"token":"b"}`))
			v, ok, err := s.Get("auth-storage")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, `{"token":"b"}`, v)

			require.NoError(t, s.Remove("auth-storage"))
			require.NoError(t, s.Remove("auth-storage"))
			_, ok, err = s.Get("auth-storage")
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestFileSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.json")
	s, err := NewFile(path)
	require.NoError(t, err)
	require.NoError(t, s.Set("ui-storage", `{"theme":"dark"}`))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	reopened, err := NewFile(path)
	require.NoError(t, err)
	v, ok, err := reopened.Get("ui-storage")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"theme":"dark"}`, v)
}

func TestFileRejectsCorruptContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))
	_, err := NewFile(path)
	assert.Error(t, err)
}

func TestFileWithNullContentIsWritable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.json")
	require.NoError(t, os.WriteFile(path, []byte("null"), 0o600))

	s, err := NewFile(path)
	require.NoError(t, err)
	_, ok, err := s.Get("mb_access_token")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set("mb_access_token", "tok"))
	v, ok, err := s.Get("mb_access_token")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "tok", v)
}

func TestSQLiteSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.db")
	s, err := NewSQLite(path)
	require.NoError(t, err)
	require.NoError(t, s.Set("mb_access_token", "tok"))
	require.NoError(t, s.Close())

	reopened, err := NewSQLite(path)
	require.NoError(t, err)
	defer reopened.Close()
	v, ok, err := reopened.Get("mb_access_token")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "tok", v)
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	for _, backend := range []string{BackendFile, BackendSQLite, BackendMemory, ""} {
		s, err := Open(backend, filepath.Join(dir, "s-"+backend))
		require.NoError(t, err, backend)
		require.NoError(t, s.Close())
	}
	_, err := Open("redis", dir)
	assert.ErrorIs(t, err, ErrUnknownBackend)
}
