// Package analyzer turns a scanned file record sequence into a ranked size
// report: top files by size plus directory and type breakdowns.
//
// The report is a derived, read-only view. Exporters consume the same
// ranked rows as the text rendering, so every output format carries
// identical rank numbers and sizes.
package analyzer

import (
	"sort"
	"time"

	"github.com/harrison/projscan/internal/config"
	"github.com/harrison/projscan/internal/scanner"
)

// Display row limits for the breakdown sections.
const (
	maxDirectoryRows = 20
	maxTypeRows      = 15
)

// RankedFile is a file record with its 1-based rank by descending size.
type RankedFile struct {
	Rank int
	scanner.FileRecord
}

// DirectoryAggregate accumulates totals for one directory (relative to the
// scan root). It references its largest record, it does not own it.
type DirectoryAggregate struct {
	Path      string
	TotalSize int64
	FileCount int
	Largest   scanner.FileRecord
}

// TypeAggregate accumulates totals for one file type label.
type TypeAggregate struct {
	Type      string
	TotalSize int64
	FileCount int
	Largest   scanner.FileRecord
}

// Report is the complete analysis result over one scan.
type Report struct {
	GeneratedAt time.Time
	Root        string

	// TotalFiles / TotalSize cover every analyzed record, not just the
	// displayed top slice. Percentages elsewhere are computed against these
	// filtered totals, intentionally not against the raw on-disk totals.
	TotalFiles int
	TotalSize  int64

	// TopFiles is sorted by size descending, ties kept in encounter order,
	// truncated to the configured maximum.
	TopFiles []RankedFile

	// Directories and Types are sorted by total size descending and
	// truncated for display.
	Directories []DirectoryAggregate
	Types       []TypeAggregate
}

// Analyze builds the report from the scanned records in one reduction pass
// plus one stable sort.
func Analyze(records []scanner.FileRecord, cfg *config.Config) *Report {
	report := &Report{
		GeneratedAt: time.Now(),
		Root:        cfg.Root,
		TotalFiles:  len(records),
	}

	dirIndex := make(map[string]*DirectoryAggregate)
	typeIndex := make(map[string]*TypeAggregate)

	for _, record := range records {
		report.TotalSize += record.SizeBytes

		dir := record.Directory()
		da, ok := dirIndex[dir]
		if !ok {
			da = &DirectoryAggregate{Path: dir}
			dirIndex[dir] = da
		}
		da.TotalSize += record.SizeBytes
		da.FileCount++
		if record.SizeBytes > da.Largest.SizeBytes {
			da.Largest = record
		}

		ta, ok := typeIndex[record.FileType]
		if !ok {
			ta = &TypeAggregate{Type: record.FileType}
			typeIndex[record.FileType] = ta
		}
		ta.TotalSize += record.SizeBytes
		ta.FileCount++
		if record.SizeBytes > ta.Largest.SizeBytes {
			ta.Largest = record
		}
	}

	report.TopFiles = rankBySize(records, cfg.MaxResults)
	report.Directories = sortDirectories(dirIndex)
	report.Types = sortTypes(typeIndex)

	return report
}

// rankBySize sorts records by size descending (stable: ties keep their
// encounter order) and assigns 1-based ranks, truncated to maxResults.
func rankBySize(records []scanner.FileRecord, maxResults int) []RankedFile {
	sorted := make([]scanner.FileRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].SizeBytes > sorted[j].SizeBytes
	})

	if maxResults > 0 && len(sorted) > maxResults {
		sorted = sorted[:maxResults]
	}

	ranked := make([]RankedFile, len(sorted))
	for i, record := range sorted {
		ranked[i] = RankedFile{Rank: i + 1, FileRecord: record}
	}
	return ranked
}

func sortDirectories(index map[string]*DirectoryAggregate) []DirectoryAggregate {
	out := make([]DirectoryAggregate, 0, len(index))
	for _, da := range index {
		out = append(out, *da)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalSize != out[j].TotalSize {
			return out[i].TotalSize > out[j].TotalSize
		}
		return out[i].Path < out[j].Path
	})
	if len(out) > maxDirectoryRows {
		out = out[:maxDirectoryRows]
	}
	return out
}

func sortTypes(index map[string]*TypeAggregate) []TypeAggregate {
	out := make([]TypeAggregate, 0, len(index))
	for _, ta := range index {
		out = append(out, *ta)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalSize != out[j].TotalSize {
			return out[i].TotalSize > out[j].TotalSize
		}
		return out[i].Type < out[j].Type
	})
	if len(out) > maxTypeRows {
		out = out[:maxTypeRows]
	}
	return out
}

// Percent computes part/total as a percentage, with a zero total mapping
// to 0 rather than dividing by zero.
func Percent(part, total int64) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}

// AvgSize is the floor average size, 0 for an empty count.
func AvgSize(total int64, count int) int64 {
	if count == 0 {
		return 0
	}
	return total / int64(count)
}
