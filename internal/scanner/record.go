package scanner

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/harrison/projscan/internal/classify"
)

// FileRecord is one accepted file from a scan. Records are created fully
// populated, including derived fields, and are immutable afterward. They
// live only in memory for the duration of one run.
type FileRecord struct {
	// AbsolutePath is the on-disk path of the file.
	AbsolutePath string

	// RelativePath is the path relative to the scan root. It always resolves
	// to a location strictly inside the root.
	RelativePath string

	// SizeBytes comes from a single stat call made during the scan.
	SizeBytes int64

	// Modified is the mtime truncated to day granularity, UTC.
	Modified time.Time

	// FileType is the semantic type label derived from the extension.
	FileType string

	// Extension is the lowercased suffix, "" when absent.
	Extension string

	// SizeCategory is the coarse size bucket (tiny through huge).
	SizeCategory string
}

// NewFileRecord builds a fully populated record. All derived fields are
// computed here so no later mutation is needed.
func NewFileRecord(absPath, relPath string, sizeBytes int64, modTime time.Time) FileRecord {
	return FileRecord{
		AbsolutePath: absPath,
		RelativePath: relPath,
		SizeBytes:    sizeBytes,
		Modified:     modTime.UTC().Truncate(24 * time.Hour),
		FileType:     classify.Label(relPath),
		Extension:    strings.ToLower(filepath.Ext(relPath)),
		SizeCategory: classify.Category(sizeBytes),
	}
}

// ModifiedDate renders the modification day as YYYY-MM-DD.
func (r FileRecord) ModifiedDate() string {
	return r.Modified.Format("2006-01-02")
}

// Directory returns the record's parent directory relative to the scan
// root, "." for files directly under it.
func (r FileRecord) Directory() string {
	return filepath.Dir(r.RelativePath)
}
