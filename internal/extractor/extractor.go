// Package extractor writes the concatenated project export document: a
// banner header, an optional table of contents, and one section per scanned
// file with optional redaction and collapsing applied.
//
// The document is written incrementally, one file section at a time, so at
// most one file's content is held in memory. Per-file read and decode
// failures become inline markers in the section body; only cancellation
// aborts the export.
package extractor

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/harrison/projscan/internal/classify"
	"github.com/harrison/projscan/internal/config"
	"github.com/harrison/projscan/internal/scanner"
)

const documentRule = "================================================================================"
const tocRule = "--------------------------------------------------------------------------------"

// Logger receives per-file extraction diagnostics.
type Logger interface {
	LogDebug(message string)
	LogWarn(message string)
}

// Stats summarizes one extraction run.
type Stats struct {
	Files     int
	Collapsed int
	Redacted  int
	Errors    int
	Bytes     int64
}

// Extractor writes the export document for a scanned record sequence.
type Extractor struct {
	cfg       *config.Config
	log       Logger
	redactor  *Redactor
	collapser *Collapser
}

// New creates an Extractor over the given configuration.
func New(cfg *config.Config, log Logger) *Extractor {
	return &Extractor{
		cfg:       cfg,
		log:       log,
		redactor:  NewRedactor(cfg.Redaction),
		collapser: NewCollapser(cfg.CollapseThreshold),
	}
}

// Extract writes all file sections to the configured output path.
//
// Cancellation is honored at every per-file boundary; the partially written
// document is left on disk and the context error is returned. Any other
// per-file failure is recovered into an inline marker and the export
// continues.
func (e *Extractor) Extract(ctx context.Context, records []scanner.FileRecord) (*Stats, error) {
	out, err := os.Create(e.cfg.OutputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	defer out.Close()

	w := bufio.NewWriter(out)
	stats := &Stats{}

	e.writeHeader(w, records)
	if e.cfg.IncludeTOC {
		e.writeTOC(w, records)
	}

	for _, record := range records {
		if ctxErr := ctx.Err(); ctxErr != nil {
			// Best effort: flush what was written so the partial document
			// is at least well formed up to the cut.
			_ = w.Flush()
			return stats, ctxErr
		}
		e.writeSection(w, record, stats)
		stats.Files++
	}

	if err := w.Flush(); err != nil {
		return stats, fmt.Errorf("failed to flush output file: %w", err)
	}
	if err := out.Close(); err != nil {
		return stats, fmt.Errorf("failed to close output file: %w", err)
	}

	if info, err := os.Stat(e.cfg.OutputPath); err == nil {
		stats.Bytes = info.Size()
	}
	return stats, nil
}

// writeHeader emits the document banner. The first line is the fixed export
// banner that the exclusion policy recognizes on later runs.
func (e *Extractor) writeHeader(w *bufio.Writer, records []scanner.FileRecord) {
	var total int64
	for _, r := range records {
		total += r.SizeBytes
	}

	fmt.Fprintln(w, config.ExportBanner)
	fmt.Fprintln(w, documentRule)
	fmt.Fprintf(w, "Root:           %s\n", e.cfg.Root)
	fmt.Fprintf(w, "Generated:      %s\n", time.Now().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "Total files:    %d\n", len(records))
	fmt.Fprintf(w, "Total size:     %s\n", classify.FormatSize(total))
	fmt.Fprintf(w, "Max file size:  %s\n", classify.FormatSize(e.cfg.MaxFileSize))
	fmt.Fprintf(w, "Max total size: %s\n", classify.FormatSize(e.cfg.MaxTotalSize))
	fmt.Fprintf(w, "Excluded dirs:  %s\n", strings.Join(e.cfg.Rules.ExcludedDirs, ", "))
	fmt.Fprintf(w, "Excluded exts:  %s\n", strings.Join(e.cfg.Rules.ExcludedExtensions, ", "))
	fmt.Fprintln(w, documentRule)
	fmt.Fprintln(w)
}

// writeTOC groups records by parent directory, keeping the record order and
// numbering files locally within each directory.
func (e *Extractor) writeTOC(w *bufio.Writer, records []scanner.FileRecord) {
	fmt.Fprintln(w, "TABLE OF CONTENTS")
	fmt.Fprintln(w, tocRule)

	var dirOrder []string
	grouped := make(map[string][]scanner.FileRecord)
	for _, record := range records {
		dir := record.Directory()
		if _, seen := grouped[dir]; !seen {
			dirOrder = append(dirOrder, dir)
		}
		grouped[dir] = append(grouped[dir], record)
	}

	for _, dir := range dirOrder {
		fmt.Fprintf(w, "[%s]\n", dir)
		for i, record := range grouped[dir] {
			fmt.Fprintf(w, "  %d. %s (%s)\n", i+1, record.RelativePath, classify.FormatSize(record.SizeBytes))
		}
	}
	fmt.Fprintln(w)
}

// writeSection emits one file's framed section. The content always ends
// with exactly one newline regardless of the file's own trailing
// whitespace.
func (e *Extractor) writeSection(w *bufio.Writer, record scanner.FileRecord, stats *Stats) {
	content, collapsed := e.renderContent(record, stats)

	meta := fmt.Sprintf("SIZE: %s | MODIFIED: %s",
		classify.FormatSize(record.SizeBytes), record.ModifiedDate())
	if collapsed {
		meta += " | [COLLAPSED]"
	}

	fmt.Fprintln(w, documentRule)
	fmt.Fprintf(w, "FILE: %s\n", record.RelativePath)
	fmt.Fprintln(w, meta)
	fmt.Fprintln(w, documentRule)
	fmt.Fprint(w, strings.TrimRight(content, " \t\r\n"))
	fmt.Fprintln(w)
	fmt.Fprintln(w)
}

// renderContent reads, decodes, redacts, and collapses one file's content.
// Failures never propagate; they become inline markers.
func (e *Extractor) renderContent(record scanner.FileRecord, stats *Stats) (string, bool) {
	data, err := os.ReadFile(record.AbsolutePath)
	if err != nil {
		e.log.LogWarn(fmt.Sprintf("cannot read %s: %v", record.RelativePath, err))
		stats.Errors++
		return fmt.Sprintf("[ERROR READING FILE: %v]", err), false
	}

	content, err := decodeContent(data)
	if err != nil {
		e.log.LogWarn(fmt.Sprintf("cannot decode %s: %v", record.RelativePath, err))
		stats.Errors++
		return fmt.Sprintf("[UNDECODABLE CONTENT: %d bytes]", len(data)), false
	}

	if e.redactor.Applies(record.RelativePath) {
		redacted, changed := e.redactor.Redact(content)
		if changed {
			e.log.LogDebug(fmt.Sprintf("redacted sensitive values in %s", record.RelativePath))
			stats.Redacted++
		}
		content = redacted
	}

	if e.cfg.CollapseLarge {
		shortened, collapsed := e.collapser.Collapse(content, record.RelativePath)
		if collapsed {
			e.log.LogDebug(fmt.Sprintf("collapsed %s", record.RelativePath))
			stats.Collapsed++
			return shortened, true
		}
	}

	return content, false
}
