package analyzer

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/harrison/projscan/internal/classify"
	"github.com/harrison/projscan/internal/filelock"
)

// csvHeader is the fixed column order of CSV exports.
const csvHeader = "rank,size_bytes,size_formatted,relative_path,file_type,extension,modified_date,size_category"

// jsonExport is the JSON export document shape.
type jsonExport struct {
	AnalysisDate  string        `json:"analysis_date"`
	RootDirectory string        `json:"root_directory"`
	TotalFiles    int           `json:"total_files"`
	TotalSize     int64         `json:"total_size"`
	Files         []jsonFileRow `json:"files"`
}

type jsonFileRow struct {
	Rank          int    `json:"rank"`
	SizeBytes     int64  `json:"size_bytes"`
	SizeFormatted string `json:"size_formatted"`
	RelativePath  string `json:"relative_path"`
	FileType      string `json:"file_type"`
	Extension     string `json:"extension"`
	ModifiedDate  string `json:"modified_date"`
	SizeCategory  string `json:"size_category"`
}

// ExportCSV renders the report's ranked rows as CSV. The rows are taken
// from the report verbatim, never recomputed, so ranks and sizes always
// match the text report.
func ExportCSV(report *Report) string {
	var sb strings.Builder
	sb.WriteString(csvHeader)
	sb.WriteString("\n")

	for _, f := range report.TopFiles {
		sb.WriteString(fmt.Sprintf("%d,%d,%s,%s,%s,%s,%s,%s\n",
			f.Rank,
			f.SizeBytes,
			escapeCSV(classify.FormatSize(f.SizeBytes)),
			escapeCSV(f.RelativePath),
			escapeCSV(f.FileType),
			escapeCSV(f.Extension),
			f.ModifiedDate(),
			f.SizeCategory))
	}

	return sb.String()
}

// ExportJSON renders the report's ranked rows as an indented JSON document.
func ExportJSON(report *Report) (string, error) {
	doc := jsonExport{
		AnalysisDate:  report.GeneratedAt.Format("2006-01-02 15:04:05"),
		RootDirectory: report.Root,
		TotalFiles:    report.TotalFiles,
		TotalSize:     report.TotalSize,
		Files:         make([]jsonFileRow, 0, len(report.TopFiles)),
	}

	for _, f := range report.TopFiles {
		doc.Files = append(doc.Files, jsonFileRow{
			Rank:          f.Rank,
			SizeBytes:     f.SizeBytes,
			SizeFormatted: classify.FormatSize(f.SizeBytes),
			RelativePath:  f.RelativePath,
			FileType:      f.FileType,
			Extension:     f.Extension,
			ModifiedDate:  f.ModifiedDate(),
			SizeCategory:  f.SizeCategory,
		})
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal JSON export: %w", err)
	}
	return string(data) + "\n", nil
}

// ExportCSVFile writes the CSV export atomically to path.
func ExportCSVFile(report *Report, path string) error {
	if err := filelock.AtomicWrite(path, []byte(ExportCSV(report))); err != nil {
		return fmt.Errorf("csv export failed: %w", err)
	}
	return nil
}

// ExportJSONFile writes the JSON export atomically to path.
func ExportJSONFile(report *Report, path string) error {
	content, err := ExportJSON(report)
	if err != nil {
		return err
	}
	if err := filelock.AtomicWrite(path, []byte(content)); err != nil {
		return fmt.Errorf("json export failed: %w", err)
	}
	return nil
}

// escapeCSV escapes fields containing separators or quotes.
func escapeCSV(s string) string {
	if strings.ContainsAny(s, ",\"\n\r") {
		s = strings.ReplaceAll(s, "\"", "\"\"")
		return "\"" + s + "\""
	}
	return s
}
