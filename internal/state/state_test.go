package state

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"genforge/internal/fs"
)

func newTestManager(t *testing.T) (*Manager, string) {
	t.Helper()
	root := t.TempDir()
	m, err := New(filepath.Join(root, ".genforge"))
	require.NoError(t, err)
	return m, root
}

// recordWrite mimics what the app does around a materialized write.
func recordWrite(t *testing.T, m *Manager, path, content string) Operation {
	t.Helper()
	prev, err := m.Backup(path)
	require.NoError(t, err)

	action := ActionModify
	if prev == "" {
		action = ActionCreate
	}
	require.NoError(t, fs.WriteFile(path, content))

	after, err := m.Backup(path)
	require.NoError(t, err)

	return Operation{Path: path, Action: action, PrevBackup: prev, NewBackup: after}
}

func TestUndoRemovesCreatedFile(t *testing.T) {
	m, root := newTestManager(t)
	path := filepath.Join(root, "new.txt")

	op := recordWrite(t, m, path, "fresh")
	require.NoError(t, m.Write([]Operation{op}))

	restored, failed := m.Undo()
	assert.Equal(t, []string{path}, restored)
	assert.Empty(t, failed)
	assert.False(t, fs.Exists(path))
}

func TestUndoRestoresModifiedFile(t *testing.T) {
	m, root := newTestManager(t)
	path := filepath.Join(root, "f.txt")
	require.NoError(t, fs.WriteFile(path, "original"))

	op := recordWrite(t, m, path, "rewritten")
	require.NoError(t, m.Write([]Operation{op}))

	m.Undo()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "original", string(data))
}

func TestRedoReappliesEntry(t *testing.T) {
	m, root := newTestManager(t)
	path := filepath.Join(root, "f.txt")
	require.NoError(t, fs.WriteFile(path, "original"))

	op := recordWrite(t, m, path, "rewritten")
	require.NoError(t, m.Write([]Operation{op}))

	m.Undo()
	redone, failed := m.Redo()

	assert.Equal(t, []string{path}, redone)
	assert.Empty(t, failed)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "rewritten", string(data))
}

func TestUndoWithEmptyHistoryIsNoop(t *testing.T) {
	m, _ := newTestManager(t)

	restored, failed := m.Undo()
	assert.Empty(t, restored)
	assert.Empty(t, failed)

	redone, failed := m.Redo()
	assert.Empty(t, redone)
	assert.Empty(t, failed)
}

func TestWriteTruncatesRedoTail(t *testing.T) {
	m, root := newTestManager(t)
	a := filepath.Join(root, "a.txt")
	b := filepath.Join(root, "b.txt")

	require.NoError(t, m.Write([]Operation{recordWrite(t, m, a, "one")}))
	m.Undo()

	// A fresh entry after undo discards the redo branch.
	require.NoError(t, m.Write([]Operation{recordWrite(t, m, b, "two")}))

	redone, _ := m.Redo()
	assert.Empty(t, redone)
}

func TestJournalSurvivesReload(t *testing.T) {
	root := t.TempDir()
	stateDir := filepath.Join(root, ".genforge")

	m1, err := New(stateDir)
	require.NoError(t, err)
	path := filepath.Join(root, "persist.txt")
	require.NoError(t, m1.Write([]Operation{recordWrite(t, m1, path, "v1")}))

	m2, err := New(stateDir)
	require.NoError(t, err)

	restored, failed := m2.Undo()
	assert.Equal(t, []string{path}, restored)
	assert.Empty(t, failed)
	assert.False(t, fs.Exists(path))
}
