// Package storage provides file system operations for task files and config.
package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jacksmith/tm/internal/model"
)

// DefaultTaskFile is the task file used when no path is configured.
const DefaultTaskFile = "tasks.yaml"

// LoadTasks reads and decodes the task file at path.
// Read failures are returned as *model.IOError, decoding failures as
// *model.FormatError.
func LoadTasks(path string) (*model.TaskFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &model.IOError{Op: "read", Path: path, Err: err}
	}
	return model.UnmarshalTasks(path, data)
}

// SaveTasks encodes tf and replaces the file at path with it.
// The parent directory is created if needed. Write failures are returned as
// *model.IOError and leave any previous file content in place.
func SaveTasks(path string, tf *model.TaskFile) error {
	data, err := model.MarshalTasks(tf)
	if err != nil {
		return err
	}
	if err := WriteFileAtomic(path, data, 0644); err != nil {
		return &model.IOError{Op: "write", Path: path, Err: err}
	}
	return nil
}

// WriteFileAtomic writes data to a temp file next to path and renames it
// over path. The temp file is removed on every failure path.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}

	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := f.Name()

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to write data: %w", err)
	}

	// Ensure data is on disk before the rename makes it visible
	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to sync file: %w", err)
	}

	if err := f.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to close file: %w", err)
	}

	if err := os.Chmod(tmpPath, perm); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to set permissions: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}

	return nil
}

// Exists reports whether a regular file exists at path.
func Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
