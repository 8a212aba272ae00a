// Package state keeps the operation journal that backs undo/redo. Every
// materialized write is recorded together with trash-dir backups of the
// content before and after, so either direction is a plain file copy.
package state

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"genforge/internal/fs"
)

const (
	stateFileName = "state.yaml"
	trashDirName  = "trash"
)

// Actions recorded per operation.
const (
	ActionCreate = "create"
	ActionModify = "modify"
	ActionFolder = "folder"
)

// Operation is one journal record.
type Operation struct {
	Path       string `yaml:"path"`
	Action     string `yaml:"action"`
	PrevBackup string `yaml:"prev_backup,omitempty"` // empty for created files
	NewBackup  string `yaml:"new_backup,omitempty"`
}

// Entry is one complete run of a verb.
type Entry struct {
	Timestamp  int64       `yaml:"timestamp"`
	Operations []Operation `yaml:"operations"`
}

type journal struct {
	History      []Entry `yaml:"history"`
	CurrentIndex int     `yaml:"current_index"`
}

// Manager handles the lifecycle of the journal file.
type Manager struct {
	stateDir  string
	statePath string
	state     *journal
}

// New creates and loads a state manager rooted at stateDir (.genforge).
func New(stateDir string) (*Manager, error) {
	if err := os.MkdirAll(stateDir, 0755); err != nil {
		return nil, fmt.Errorf("could not create state directory: %w", err)
	}
	m := &Manager{
		stateDir:  stateDir,
		statePath: filepath.Join(stateDir, stateFileName),
	}
	if err := m.load(); err != nil {
		// A corrupt journal loses history but never blocks the tool.
		m.state = &journal{CurrentIndex: -1}
	}
	return m, nil
}

func (m *Manager) load() error {
	data, err := os.ReadFile(m.statePath)
	if err != nil {
		if os.IsNotExist(err) {
			m.state = &journal{CurrentIndex: -1}
			return nil
		}
		return err
	}
	var j journal
	if err := yaml.Unmarshal(data, &j); err != nil {
		return err
	}
	m.state = &j
	return nil
}

func (m *Manager) save() error {
	data, err := yaml.Marshal(m.state)
	if err != nil {
		return err
	}
	return os.WriteFile(m.statePath, data, 0644)
}

// Backup copies path into the trash dir and returns the backup location.
// Returns an empty string if the file does not exist yet.
func (m *Manager) Backup(path string) (string, error) {
	if !fs.Exists(path) {
		return "", nil
	}
	name := fmt.Sprintf("%d-%s", time.Now().UnixNano(), filepath.Base(path))
	backup := filepath.Join(m.stateDir, trashDirName, name)
	if err := fs.CopyFile(path, backup); err != nil {
		return "", err
	}
	return backup, nil
}

// Write appends a new entry to the journal, truncating any redo tail.
func (m *Manager) Write(ops []Operation) error {
	if len(ops) == 0 {
		return nil
	}
	if m.state.CurrentIndex < len(m.state.History)-1 {
		m.state.History = m.state.History[:m.state.CurrentIndex+1]
	}
	m.state.History = append(m.state.History, Entry{
		Timestamp:  time.Now().UTC().Unix(),
		Operations: ops,
	})
	m.state.CurrentIndex++
	return m.save()
}

// Undo reverts the most recent entry and moves the pointer back.
// It returns the restored and failed paths.
func (m *Manager) Undo() (restored, failed []string) {
	if m.state.CurrentIndex < 0 {
		return nil, nil
	}
	entry := m.state.History[m.state.CurrentIndex]

	// Walk in reverse so files reappear before their directories vanish.
	for i := len(entry.Operations) - 1; i >= 0; i-- {
		op := entry.Operations[i]
		if err := m.undoOp(op); err != nil {
			failed = append(failed, op.Path)
			continue
		}
		restored = append(restored, op.Path)
	}

	m.state.CurrentIndex--
	if err := m.save(); err != nil {
		failed = append(failed, m.statePath)
	}
	return restored, failed
}

func (m *Manager) undoOp(op Operation) error {
	switch op.Action {
	case ActionCreate:
		return os.Remove(op.Path)
	case ActionModify:
		if op.PrevBackup == "" {
			return fmt.Errorf("no backup recorded for %s", op.Path)
		}
		return fs.CopyFile(op.PrevBackup, op.Path)
	case ActionFolder:
		// Directories are left in place; removing them could take unrelated
		// files with them.
		return nil
	default:
		return fmt.Errorf("unknown action %q", op.Action)
	}
}

// Redo re-applies the next entry and moves the pointer forward.
func (m *Manager) Redo() (redone, failed []string) {
	next := m.state.CurrentIndex + 1
	if next >= len(m.state.History) {
		return nil, nil
	}
	entry := m.state.History[next]

	for _, op := range entry.Operations {
		if err := m.redoOp(op); err != nil {
			failed = append(failed, op.Path)
			continue
		}
		redone = append(redone, op.Path)
	}

	m.state.CurrentIndex = next
	if err := m.save(); err != nil {
		failed = append(failed, m.statePath)
	}
	return redone, failed
}

func (m *Manager) redoOp(op Operation) error {
	switch op.Action {
	case ActionCreate, ActionModify:
		if op.NewBackup == "" {
			return fmt.Errorf("no backup recorded for %s", op.Path)
		}
		return fs.CopyFile(op.NewBackup, op.Path)
	case ActionFolder:
		return fs.EnsureFolder(op.Path)
	default:
		return fmt.Errorf("unknown action %q", op.Action)
	}
}
