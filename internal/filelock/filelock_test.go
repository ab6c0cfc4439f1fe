package filelock

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTryLockAndUnlock(t *testing.T) {
	output := filepath.Join(t.TempDir(), "project_files.txt")

	lock := NewOutputLock(output)
	acquired, err := lock.TryLock()
	require.NoError(t, err)
	require.True(t, acquired)

	// A second lock on the same output must fail while the first is held.
	second := NewOutputLock(output)
	acquired2, err := second.TryLock()
	require.NoError(t, err)
	assert.False(t, acquired2)

	require.NoError(t, lock.Unlock())

	// After release the lock is available again.
	acquired3, err := second.TryLock()
	require.NoError(t, err)
	assert.True(t, acquired3)
	require.NoError(t, second.Unlock())
}

func TestUnlockRemovesLockFile(t *testing.T) {
	output := filepath.Join(t.TempDir(), "out.txt")

	lock := NewOutputLock(output)
	acquired, err := lock.TryLock()
	require.NoError(t, err)
	require.True(t, acquired)

	_, statErr := os.Stat(output + ".lock")
	require.NoError(t, statErr)

	require.NoError(t, lock.Unlock())

	_, statErr = os.Stat(output + ".lock")
	assert.True(t, os.IsNotExist(statErr))
}

func TestAtomicWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "export.csv")

	require.NoError(t, AtomicWrite(path, []byte("rank,size\n1,100\n")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "rank,size\n1,100\n", string(data))

	// Overwrite replaces content completely.
	require.NoError(t, AtomicWrite(path, []byte("rank,size\n")))
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "rank,size\n", string(data))

	// No temp files left behind.
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
