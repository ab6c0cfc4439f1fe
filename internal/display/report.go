// Package display renders the analyzer report and user-facing warnings to
// the terminal. Color is enabled only when the destination is a TTY; piped
// output stays plain so exports and diffs are stable.
package display

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/harrison/projscan/internal/analyzer"
	"github.com/harrison/projscan/internal/classify"
	"github.com/harrison/projscan/internal/config"
	"github.com/harrison/projscan/internal/scanner"
)

const sectionRule = "------------------------------------------------------------"
const reportRule = "============================================================"

// Renderer writes the human-readable size report.
type Renderer struct {
	out    io.Writer
	header *color.Color
	emph   *color.Color
	dim    *color.Color
}

// NewRenderer creates a renderer for out. Color is enabled only when out is
// a terminal.
func NewRenderer(out io.Writer) *Renderer {
	r := &Renderer{
		out:    out,
		header: color.New(color.FgCyan, color.Bold),
		emph:   color.New(color.Bold),
		dim:    color.New(color.FgHiBlack),
	}

	enabled := false
	if f, ok := out.(*os.File); ok {
		enabled = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	if enabled {
		r.header.EnableColor()
		r.emph.EnableColor()
		r.dim.EnableColor()
	} else {
		r.header.DisableColor()
		r.emph.DisableColor()
		r.dim.DisableColor()
	}

	return r
}

// RenderReport prints the full text report: summary header, top files, and
// the optional directory and type breakdowns. Percentages are relative to
// the analyzed (filtered) total, not the raw on-disk total.
func (r *Renderer) RenderReport(report *analyzer.Report, cfg *config.Config) {
	fmt.Fprintln(r.out, reportRule)
	fmt.Fprintln(r.out, r.header.Sprint("LARGEST FILES REPORT"))
	fmt.Fprintln(r.out, reportRule)
	fmt.Fprintf(r.out, "Root:        %s\n", report.Root)
	fmt.Fprintf(r.out, "Generated:   %s\n", report.GeneratedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(r.out, "Total files: %d\n", report.TotalFiles)
	fmt.Fprintf(r.out, "Total size:  %s\n", classify.FormatSize(report.TotalSize))
	fmt.Fprintln(r.out)

	r.renderTopFiles(report)

	if cfg.ShowDirectories {
		r.renderDirectories(report)
	}
	if cfg.ShowTypes {
		r.renderTypes(report)
	}
}

func (r *Renderer) renderTopFiles(report *analyzer.Report) {
	fmt.Fprintln(r.out, r.header.Sprintf("TOP %d FILES BY SIZE", len(report.TopFiles)))
	fmt.Fprintln(r.out, sectionRule)

	if len(report.TopFiles) == 0 {
		fmt.Fprintln(r.out, "No files matched the scan criteria.")
		fmt.Fprintln(r.out)
		return
	}

	for _, f := range report.TopFiles {
		pct := analyzer.Percent(f.SizeBytes, report.TotalSize)
		fmt.Fprintf(r.out, "%4d. %10s %6.1f%%  %s  %s\n",
			f.Rank,
			classify.FormatSize(f.SizeBytes),
			pct,
			f.RelativePath,
			r.dim.Sprintf("(%s, %s, %s)", f.FileType, f.ModifiedDate(), f.SizeCategory))
	}
	fmt.Fprintln(r.out)
}

func (r *Renderer) renderDirectories(report *analyzer.Report) {
	fmt.Fprintln(r.out, r.header.Sprint("DIRECTORY BREAKDOWN"))
	fmt.Fprintln(r.out, sectionRule)

	for _, d := range report.Directories {
		pct := analyzer.Percent(d.TotalSize, report.TotalSize)
		avg := analyzer.AvgSize(d.TotalSize, d.FileCount)
		fmt.Fprintf(r.out, "%10s %6.1f%%  %4d file(s)  avg %s  %s  %s\n",
			classify.FormatSize(d.TotalSize),
			pct,
			d.FileCount,
			classify.FormatSize(avg),
			r.emph.Sprint(d.Path),
			r.dim.Sprintf("(largest: %s)", d.Largest.RelativePath))
	}
	fmt.Fprintln(r.out)
}

func (r *Renderer) renderTypes(report *analyzer.Report) {
	fmt.Fprintln(r.out, r.header.Sprint("FILE TYPE BREAKDOWN"))
	fmt.Fprintln(r.out, sectionRule)

	for _, t := range report.Types {
		pct := analyzer.Percent(t.TotalSize, report.TotalSize)
		avg := analyzer.AvgSize(t.TotalSize, t.FileCount)
		fmt.Fprintf(r.out, "%10s %6.1f%%  %4d file(s)  avg %s  %s  %s\n",
			classify.FormatSize(t.TotalSize),
			pct,
			t.FileCount,
			classify.FormatSize(avg),
			r.emph.Sprint(t.Type),
			r.dim.Sprintf("(largest: %s)", t.Largest.RelativePath))
	}
	fmt.Fprintln(r.out)
}

// RenderScanSummary prints the one-line walk summary shown after both
// commands.
func (r *Renderer) RenderScanSummary(summary *scanner.Summary) {
	line := fmt.Sprintf("Scanned %d file(s): %d included, %d excluded",
		summary.Seen, summary.Included, excludedTotal(summary))

	if breakdown := excludedBreakdown(summary); breakdown != "" {
		line += " " + r.dim.Sprintf("(%s)", breakdown)
	}
	fmt.Fprintln(r.out, line)
}

func excludedTotal(summary *scanner.Summary) int {
	total := 0
	for _, n := range summary.Excluded {
		total += n
	}
	return total
}

// excludedBreakdown formats the per-reason counts in a stable order.
func excludedBreakdown(summary *scanner.Summary) string {
	if len(summary.Excluded) == 0 {
		return ""
	}

	reasons := make([]string, 0, len(summary.Excluded))
	for reason := range summary.Excluded {
		reasons = append(reasons, reason)
	}
	sort.Strings(reasons)

	parts := make([]string, 0, len(reasons))
	for _, reason := range reasons {
		parts = append(parts, fmt.Sprintf("%s: %d", reason, summary.Excluded[reason]))
	}
	return strings.Join(parts, ", ")
}
