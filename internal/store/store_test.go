package store

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenInMemory(t *testing.T) {
	s, err := Open(":memory:")
	require.NoError(t, err)
	require.NotNil(t, s)

	assert.NoError(t, s.Close())
}

func TestOpenStampsFreshDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	// Reopening the same file must pass the schema gate.
	s, err = Open(path)
	require.NoError(t, err)
	assert.NoError(t, s.Close())
}

func TestOpenRejectsIncompatibleSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	_, err = db.Exec(`UPDATE meta SET schema_version = '2.0.0'`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	_, err = Open(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not compatible")
}

func TestOpenAcceptsNewerMinorSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	_, err = db.Exec(`UPDATE meta SET schema_version = '1.2.3'`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	s, err = Open(path)
	require.NoError(t, err)
	assert.NoError(t, s.Close())
}

func TestHashContent(t *testing.T) {
	assert.Equal(t,
		"2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824",
		HashContent("hello"),
	)
	assert.NotEqual(t, HashContent("a"), HashContent("b"))
}

func TestHashUnknownPath(t *testing.T) {
	s := newTestStore(t)

	hash, err := s.Hash("never/recorded.py")
	require.NoError(t, err)
	assert.Empty(t, hash)
}

func TestRecordWriteReplaces(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.RecordWrite("src/app.py", "v1"))
	require.NoError(t, s.RecordWrite("src/app.py", "v2"))

	hash, err := s.Hash("src/app.py")
	require.NoError(t, err)
	assert.Equal(t, HashContent("v2"), hash)
}

func TestShouldWriteNewPath(t *testing.T) {
	s := newTestStore(t)

	update, err := s.ShouldWrite(filepath.Join(t.TempDir(), "app.py"), "x = 1\n")
	require.NoError(t, err)
	assert.True(t, update)
}

func TestShouldWriteUnchanged(t *testing.T) {
	s := newTestStore(t)
	target := filepath.Join(t.TempDir(), "app.py")
	require.NoError(t, os.WriteFile(target, []byte("x = 1\n"), 0o644))
	require.NoError(t, s.RecordWrite(target, "x = 1\n"))

	update, err := s.ShouldWrite(target, "x = 1\n")
	require.NoError(t, err)
	assert.False(t, update)
}

func TestShouldWriteContentChanged(t *testing.T) {
	s := newTestStore(t)
	target := filepath.Join(t.TempDir(), "app.py")
	require.NoError(t, os.WriteFile(target, []byte("x = 1\n"), 0o644))
	require.NoError(t, s.RecordWrite(target, "x = 1\n"))

	update, err := s.ShouldWrite(target, "x = 2\n")
	require.NoError(t, err)
	assert.True(t, update)
}

func TestShouldWriteMissingFile(t *testing.T) {
	s := newTestStore(t)
	target := filepath.Join(t.TempDir(), "app.py")
	require.NoError(t, s.RecordWrite(target, "x = 1\n"))

	// Hash matches but the file was deleted behind our back.
	update, err := s.ShouldWrite(target, "x = 1\n")
	require.NoError(t, err)
	assert.True(t, update)
}

func TestShouldWriteDiskDrift(t *testing.T) {
	s := newTestStore(t)
	target := filepath.Join(t.TempDir(), "app.py")
	require.NoError(t, s.RecordWrite(target, "x = 1\n"))
	require.NoError(t, os.WriteFile(target, []byte("edited by hand\n"), 0o644))

	update, err := s.ShouldWrite(target, "x = 1\n")
	require.NoError(t, err)
	assert.True(t, update, "hand-edited file must be rewritten")
}

func TestPrune(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.RecordWrite("a.py", "a"))
	require.NoError(t, s.RecordWrite("b.py", "b"))
	require.NoError(t, s.RecordWrite("c.py", "c"))

	removed, err := s.Prune([]string{"b.py"})
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	hash, err := s.Hash("b.py")
	require.NoError(t, err)
	assert.Equal(t, HashContent("b"), hash)

	hash, err = s.Hash("a.py")
	require.NoError(t, err)
	assert.Empty(t, hash)
}

func TestRunHistory(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.RecordRun(Run{ID: "run-1", FilesWritten: 3, Warnings: 1}))
	require.NoError(t, s.RecordRun(Run{ID: "run-2", FilesWritten: 5, Warnings: 0}))

	runs, err := s.LastRuns(10)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	// Newest first.
	assert.Equal(t, "run-2", runs[0].ID)
	assert.Equal(t, 5, runs[0].FilesWritten)
	assert.Equal(t, "run-1", runs[1].ID)
	assert.Equal(t, 1, runs[1].Warnings)
	assert.False(t, runs[0].StartedAt.IsZero())

	runs, err = s.LastRuns(1)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "run-2", runs[0].ID)
}

func TestLastRunsEmpty(t *testing.T) {
	s := newTestStore(t)

	runs, err := s.LastRuns(5)
	require.NoError(t, err)
	assert.Empty(t, runs)
}
