package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"focustrack/internal/engine"
)

// SnapshotFile keeps the timer snapshot as YAML in a state directory. The
// file name carries engine.StorageKey, so a snapshot layout change starts
// from a fresh file.
type SnapshotFile struct {
	path string
}

func NewSnapshotFile(stateDir string) *SnapshotFile {
	return &SnapshotFile{path: filepath.Join(stateDir, engine.StorageKey+".yaml")}
}

func (f *SnapshotFile) Path() string {
	return f.path
}

// Load reads the persisted snapshot. The second result is false when
// nothing has been saved yet.
func (f *SnapshotFile) Load() (engine.Snapshot, bool, error) {
	raw, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return engine.Snapshot{}, false, nil
		}
		return engine.Snapshot{}, false, fmt.Errorf("read snapshot file: %w", err)
	}

	var snapshot engine.Snapshot
	if err := yaml.Unmarshal(raw, &snapshot); err != nil {
		return engine.Snapshot{}, false, fmt.Errorf("%w: %v", engine.ErrSnapshotCorrupt, err)
	}
	return snapshot, true, nil
}

// Save replaces the snapshot file. The write goes through a temp file and a
// rename so a crash never leaves half a snapshot behind.
func (f *SnapshotFile) Save(snapshot engine.Snapshot) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}

	serialized, err := yaml.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("marshal snapshot yaml: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".snapshot-*")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(serialized); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write snapshot file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close snapshot file: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("replace snapshot file: %w", err)
	}
	return nil
}

func (f *SnapshotFile) Clear() error {
	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove snapshot file: %w", err)
	}
	return nil
}
