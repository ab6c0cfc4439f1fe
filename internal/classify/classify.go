// Package classify maps files to semantic type labels and size categories.
//
// Classification is a pure function of the lowercased file extension using a
// fixed priority-ordered table. Binary detection is a separate, content-based
// check that sniffs the first kilobyte of a file.
package classify

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Size category thresholds. Each boundary is closed on the lower end:
// a size equal to the threshold selects the larger category.
const (
	thresholdSmall     = 100 * 1024
	thresholdMedium    = 1024 * 1024
	thresholdLarge     = 10 * 1024 * 1024
	thresholdVeryLarge = 100 * 1024 * 1024
	thresholdHuge      = 1024 * 1024 * 1024
)

// Labels returned for files without a known extension mapping.
const (
	LabelNoExtension = "No Extension"
)

// typeEntry pairs a set of extensions with a type label. The table is
// priority-ordered: the first entry claiming an extension wins.
type typeEntry struct {
	label string
	exts  []string
}

var typeTable = []typeEntry{
	{"Python", []string{".py", ".pyx", ".pyi", ".pyw"}},
	{"JavaScript", []string{".js", ".mjs", ".cjs", ".jsx"}},
	{"TypeScript", []string{".ts", ".tsx", ".mts", ".cts"}},
	{"Go", []string{".go"}},
	{"Rust", []string{".rs"}},
	{"Java", []string{".java"}},
	{"Kotlin", []string{".kt", ".kts"}},
	{"C", []string{".c", ".h"}},
	{"C++", []string{".cpp", ".cc", ".cxx", ".hpp", ".hxx"}},
	{"C#", []string{".cs"}},
	{"Ruby", []string{".rb", ".rake"}},
	{"PHP", []string{".php"}},
	{"Swift", []string{".swift"}},
	{"Shell", []string{".sh", ".bash", ".zsh", ".fish"}},
	{"PowerShell", []string{".ps1", ".psm1"}},
	{"SQL", []string{".sql"}},
	{"HTML", []string{".html", ".htm"}},
	{"CSS", []string{".css", ".scss", ".sass", ".less"}},
	{"Markdown", []string{".md", ".markdown"}},
	{"reStructuredText", []string{".rst"}},
	{"Text", []string{".txt", ".text"}},
	{"JSON", []string{".json", ".jsonl", ".ndjson"}},
	{"YAML", []string{".yaml", ".yml"}},
	{"TOML", []string{".toml"}},
	{"XML", []string{".xml", ".xsd", ".xsl"}},
	{"CSV", []string{".csv", ".tsv"}},
	{"Jupyter Notebook", []string{".ipynb"}},
	{"Config", []string{".ini", ".cfg", ".conf", ".properties", ".env"}},
	{"Log", []string{".log"}},
	{"Image", []string{".png", ".jpg", ".jpeg", ".gif", ".bmp", ".ico", ".svg", ".webp", ".tiff"}},
	{"Audio", []string{".mp3", ".wav", ".flac", ".ogg", ".m4a"}},
	{"Video", []string{".mp4", ".avi", ".mov", ".mkv", ".webm"}},
	{"Font", []string{".ttf", ".otf", ".woff", ".woff2"}},
	{"Archive", []string{".zip", ".tar", ".gz", ".bz2", ".xz", ".7z", ".rar"}},
	{"Document", []string{".pdf", ".doc", ".docx", ".xls", ".xlsx", ".ppt", ".pptx", ".odt"}},
	{"Database", []string{".db", ".sqlite", ".sqlite3"}},
	{"Executable", []string{".exe", ".dll", ".so", ".dylib", ".bin"}},
	{"Compiled", []string{".pyc", ".pyo", ".o", ".a", ".class", ".jar", ".war"}},
}

// typeIndex is built once from typeTable, first claim wins.
var typeIndex = func() map[string]string {
	idx := make(map[string]string)
	for _, entry := range typeTable {
		for _, ext := range entry.exts {
			if _, claimed := idx[ext]; !claimed {
				idx[ext] = entry.label
			}
		}
	}
	return idx
}()

// Label returns the semantic type label for the given path.
// It is total: unknown extensions map to "Other(<ext>)" and an empty
// extension maps to "No Extension". It never fails.
func Label(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return LabelNoExtension
	}
	if label, ok := typeIndex[ext]; ok {
		return label
	}
	return fmt.Sprintf("Other(%s)", ext)
}

// Category buckets a byte size into one of six coarse categories.
// Boundaries are closed on the lower end: exactly 1 MiB is "medium",
// exactly 1 GiB is "huge".
func Category(sizeBytes int64) string {
	switch {
	case sizeBytes >= thresholdHuge:
		return "huge"
	case sizeBytes >= thresholdVeryLarge:
		return "very_large"
	case sizeBytes >= thresholdLarge:
		return "large"
	case sizeBytes >= thresholdMedium:
		return "medium"
	case sizeBytes >= thresholdSmall:
		return "small"
	default:
		return "tiny"
	}
}

// sniffLen is the number of leading bytes inspected for binary detection.
const sniffLen = 1024

// IsBinary reports whether the file at path looks like binary content,
// determined by the presence of a NUL byte in the first kilobyte.
// Any I/O error is treated as binary so that unreadable files fall on the
// excluded side rather than being passed through.
func IsBinary(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return true
	}
	defer f.Close()

	buf := make([]byte, sniffLen)
	n, err := f.Read(buf)
	if err != nil && !errors.Is(err, io.EOF) {
		return true
	}

	for _, b := range buf[:n] {
		if b == 0 {
			return true
		}
	}
	return false
}

// FormatSize renders a byte count for humans: one decimal place at the
// GB/MB/KB thresholds, raw bytes with a "B" suffix below 1 KB.
func FormatSize(sizeBytes int64) string {
	const (
		kb = 1024
		mb = 1024 * kb
		gb = 1024 * mb
	)
	switch {
	case sizeBytes >= gb:
		return fmt.Sprintf("%.1f GB", float64(sizeBytes)/float64(gb))
	case sizeBytes >= mb:
		return fmt.Sprintf("%.1f MB", float64(sizeBytes)/float64(mb))
	case sizeBytes >= kb:
		return fmt.Sprintf("%.1f KB", float64(sizeBytes)/float64(kb))
	default:
		return fmt.Sprintf("%d B", sizeBytes)
	}
}
