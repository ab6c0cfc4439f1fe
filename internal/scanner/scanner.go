// Package scanner walks a directory tree once, applies the exclusion
// policy, and produces an ordered sequence of FileRecords for the size
// analyzer and the content extractor.
//
// The walk is single-threaded and synchronous. Each on-disk file is visited
// at most once and stat'ed at most once. Per-file errors are logged and
// skipped; only caller cancellation aborts the traversal.
package scanner

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/harrison/projscan/internal/classify"
	"github.com/harrison/projscan/internal/config"
	"github.com/harrison/projscan/internal/policy"
)

// Skip reasons reported by the scanner's own gates, beyond the policy's.
const (
	ReasonMinSize   = "min-size"
	ReasonTooLarge  = "too-large"
	ReasonBinary    = "binary"
	ReasonIrregular = "irregular"
	ReasonStatError = "stat-error"
)

// Logger receives per-file scan diagnostics.
type Logger interface {
	LogDebug(message string)
	LogWarn(message string)
}

// Summary counts what the walk saw and why files were left out.
type Summary struct {
	// Seen is the number of file entries considered (directories excluded).
	Seen int

	// Included is the number of retained records.
	Included int

	// Excluded counts skipped files by reason.
	Excluded map[string]int

	// TotalBytes is the cumulative size of all retained records. It never
	// exceeds the configured total-size ceiling.
	TotalBytes int64

	// CapacityHit is set when the walk stopped early at the total-size
	// ceiling. This is a normal termination condition, not an error.
	CapacityHit bool
}

// Scanner performs the single scan pass.
type Scanner struct {
	cfg    *config.Config
	policy *policy.Policy
	log    Logger
}

// New creates a Scanner over the given configuration and policy.
func New(cfg *config.Config, pol *policy.Policy, log Logger) *Scanner {
	return &Scanner{
		cfg:    cfg,
		policy: pol,
		log:    log,
	}
}

// Scan walks the root and returns the accepted records in lexicographic
// order by path, together with a summary of the walk.
//
// Cancellation via ctx aborts at the next per-file boundary and is returned
// as the walk error; partial results are discarded by the caller.
func (s *Scanner) Scan(ctx context.Context) ([]FileRecord, *Summary, error) {
	root := s.policy.Root()

	records := make([]FileRecord, 0, 256)
	summary := &Summary{Excluded: make(map[string]int)}

	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			s.log.LogWarn(fmt.Sprintf("cannot access %s: %v", path, err))
			return nil
		}
		if path == root {
			return nil
		}

		if d.IsDir() {
			if excluded, reason := s.policy.ShouldExcludeDir(d.Name()); excluded {
				s.log.LogDebug(fmt.Sprintf("pruned %s (%s)", path, reason))
				return filepath.SkipDir
			}
			return nil
		}

		summary.Seen++

		outcome, record := s.consider(path, d)
		if outcome != "" {
			summary.Excluded[outcome]++
			s.log.LogDebug(fmt.Sprintf("skipped %s (%s)", path, outcome))
			return nil
		}

		if s.cfg.MaxTotalSize > 0 && summary.TotalBytes+record.SizeBytes > s.cfg.MaxTotalSize {
			summary.CapacityHit = true
			s.log.LogWarn(fmt.Sprintf(
				"total size ceiling reached (%s); stopping scan with %d file(s)",
				classify.FormatSize(s.cfg.MaxTotalSize), summary.Included))
			return fs.SkipAll
		}

		records = append(records, record)
		summary.Included++
		summary.TotalBytes += record.SizeBytes
		return nil
	})

	if walkErr != nil {
		return nil, nil, fmt.Errorf("scan aborted: %w", walkErr)
	}

	return records, summary, nil
}

// consider applies all per-file gates in order and either returns a
// non-empty skip reason or a fully built record. Expected skips are status
// values here, never errors.
func (s *Scanner) consider(path string, d fs.DirEntry) (string, FileRecord) {
	var zero FileRecord

	// Only regular files and in-root symlinks to regular files survive.
	isSymlink := d.Type()&fs.ModeSymlink != 0
	if !isSymlink && !d.Type().IsRegular() {
		return ReasonIrregular, zero
	}

	if excluded, reason := s.policy.ShouldExclude(path); excluded {
		return reason, zero
	}

	// The single stat call for this file. Symlink targets are stat'ed
	// through the link; the policy has already verified the target stays
	// inside the root.
	info, err := statEntry(path, d, isSymlink)
	if err != nil {
		s.log.LogWarn(fmt.Sprintf("cannot stat %s: %v", path, err))
		return ReasonStatError, zero
	}
	if !info.Mode().IsRegular() {
		return ReasonIrregular, zero
	}

	size := info.Size()
	if size < s.cfg.MinSizeBytes {
		return ReasonMinSize, zero
	}
	if s.cfg.MaxFileSize > 0 && size > s.cfg.MaxFileSize {
		return ReasonTooLarge, zero
	}

	if !s.cfg.IncludeBinary && classify.IsBinary(path) {
		return ReasonBinary, zero
	}

	rel, err := filepath.Rel(s.policy.Root(), path)
	if err != nil {
		return policy.ReasonOutsideRoot, zero
	}

	return "", NewFileRecord(path, rel, size, info.ModTime())
}

// statEntry resolves file metadata exactly once per entry.
func statEntry(path string, d fs.DirEntry, followLink bool) (fs.FileInfo, error) {
	if followLink {
		return os.Stat(path)
	}
	return d.Info()
}
