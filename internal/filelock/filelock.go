// Package filelock guards projscan's output files: an exclusive lock keeps
// two concurrent runs from interleaving writes to the same export document,
// and atomic writes keep interrupted export runs from leaving truncated
// CSV/JSON files behind.
package filelock

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
)

// OutputLock wraps a flock lock protecting one output path.
type OutputLock struct {
	flock *flock.Flock
	path  string
}

// NewOutputLock creates a lock for the given output path. The lock file is
// created next to the output as "<path>.lock".
func NewOutputLock(outputPath string) *OutputLock {
	lockPath := outputPath + ".lock"
	return &OutputLock{
		flock: flock.New(lockPath),
		path:  lockPath,
	}
}

// TryLock attempts to acquire the lock without blocking.
// Returns false if another process holds it.
func (ol *OutputLock) TryLock() (bool, error) {
	acquired, err := ol.flock.TryLock()
	if err != nil {
		return false, fmt.Errorf("failed to try lock on %s: %w", ol.path, err)
	}
	return acquired, nil
}

// Unlock releases the lock and removes the lock file.
func (ol *OutputLock) Unlock() error {
	if err := ol.flock.Unlock(); err != nil {
		return fmt.Errorf("failed to release lock on %s: %w", ol.path, err)
	}
	// Best effort: a stale lock file is harmless but untidy.
	os.Remove(ol.path)
	return nil
}

// AtomicWrite writes data to path via a uniquely named temp file in the same
// directory followed by a rename, so readers never observe a partial export.
// If the operation fails at any point, the original file (if it exists)
// remains unchanged.
func AtomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	// Same-directory temp file so the rename stays on one filesystem.
	tempPath := filepath.Join(dir, fmt.Sprintf(".%s.%s.tmp", filepath.Base(path), uuid.NewString()))

	if err := os.WriteFile(tempPath, data, 0644); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to write temp file: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to rename temp file to %s: %w", path, err)
	}

	return nil
}
