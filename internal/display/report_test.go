package display

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/harrison/projscan/internal/analyzer"
	"github.com/harrison/projscan/internal/config"
	"github.com/harrison/projscan/internal/scanner"
)

func testReport(t *testing.T) (*analyzer.Report, *config.Config) {
	t.Helper()

	mod := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	records := []scanner.FileRecord{
		scanner.NewFileRecord("/root/src/big.py", filepath.Join("src", "big.py"), 3000, mod),
		scanner.NewFileRecord("/root/notes.md", "notes.md", 1000, mod),
	}

	cfg := config.Default()
	cfg.Root = "/root"
	return analyzer.Analyze(records, cfg), cfg
}

func TestRenderReportSections(t *testing.T) {
	report, cfg := testReport(t)

	var buf bytes.Buffer
	NewRenderer(&buf).RenderReport(report, cfg)
	out := buf.String()

	assert.Contains(t, out, "LARGEST FILES REPORT")
	assert.Contains(t, out, "Root:        /root")
	assert.Contains(t, out, "Total files: 2")
	assert.Contains(t, out, "Total size:  3.9 KB")
	assert.Contains(t, out, "TOP 2 FILES BY SIZE")
	assert.Contains(t, out, "DIRECTORY BREAKDOWN")
	assert.Contains(t, out, "FILE TYPE BREAKDOWN")

	// Percentages are against the filtered total.
	assert.Contains(t, out, "75.0%")
	assert.Contains(t, out, "25.0%")
	// Rank ordering survives into the rendering.
	assert.Contains(t, out, "   1.")
	assert.Contains(t, out, filepath.Join("src", "big.py"))

	// No ANSI escapes when the writer is not a terminal.
	assert.NotContains(t, out, "\x1b[")
}

func TestRenderReportRespectsToggles(t *testing.T) {
	report, cfg := testReport(t)
	cfg.ShowDirectories = false
	cfg.ShowTypes = false

	var buf bytes.Buffer
	NewRenderer(&buf).RenderReport(report, cfg)
	out := buf.String()

	assert.Contains(t, out, "TOP 2 FILES BY SIZE")
	assert.NotContains(t, out, "DIRECTORY BREAKDOWN")
	assert.NotContains(t, out, "FILE TYPE BREAKDOWN")
}

func TestRenderReportEmpty(t *testing.T) {
	cfg := config.Default()
	cfg.Root = "/root"
	report := analyzer.Analyze(nil, cfg)

	var buf bytes.Buffer
	NewRenderer(&buf).RenderReport(report, cfg)

	assert.Contains(t, buf.String(), "No files matched the scan criteria.")
}

func TestRenderScanSummary(t *testing.T) {
	summary := &scanner.Summary{
		Seen:     10,
		Included: 7,
		Excluded: map[string]int{
			"binary":   2,
			"env-file": 1,
		},
	}

	var buf bytes.Buffer
	NewRenderer(&buf).RenderScanSummary(summary)

	assert.Equal(t,
		"Scanned 10 file(s): 7 included, 3 excluded (binary: 2, env-file: 1)\n",
		buf.String())
}

func TestRenderScanSummaryNoExclusions(t *testing.T) {
	summary := &scanner.Summary{Seen: 3, Included: 3, Excluded: map[string]int{}}

	var buf bytes.Buffer
	NewRenderer(&buf).RenderScanSummary(summary)

	assert.Equal(t, "Scanned 3 file(s): 3 included, 0 excluded\n", buf.String())
}
