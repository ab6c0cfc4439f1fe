package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/harrison/projscan/internal/classify"
	"github.com/harrison/projscan/internal/config"
	"github.com/harrison/projscan/internal/display"
	"github.com/harrison/projscan/internal/extractor"
	"github.com/harrison/projscan/internal/filelock"
	"github.com/harrison/projscan/internal/logger"
)

// NewExtractCommand creates the extract command
func NewExtractCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Export project file contents into one document",
		Long: `Scan the project and write every surviving file's content into a
single export document with a table of contents. Sensitive values in
env-style files are redacted; large files can be collapsed to a preview.

The output file is locked while writing so two concurrent runs cannot
interleave into the same document.

Examples:
  projscan extract
  projscan extract -r ./backend --output backend.txt
  projscan extract --exclude-pattern 'testdata/**' --exclude-pattern '*.snap'
  projscan extract --collapse-large --collapse-threshold 200
  projscan extract --skip-dotfiles --no-toc`,
		Args: cobra.NoArgs,
		RunE: extractCommand,
	}

	cmd.Flags().StringP("root", "r", ".", "Root directory to scan")
	cmd.Flags().String("output", config.DefaultOutputFile, "Output document path")
	cmd.Flags().StringArray("exclude-pattern", nil, "Glob pattern to exclude (repeatable)")
	cmd.Flags().Bool("skip-dotfiles", false, "Exclude hidden files from the export")
	cmd.Flags().Bool("collapse-large", false, "Collapse files above the line threshold")
	cmd.Flags().Int("collapse-threshold", 100, "Line count above which content is collapsed (minimum 5)")
	cmd.Flags().Bool("no-toc", false, "Omit the table of contents")
	cmd.Flags().Bool("verbose", false, "Show per-file scan decisions")
	cmd.Flags().String("config", "", "Path to config file (default: <root>/.projscan.yaml)")

	return cmd
}

// extractCommand implements the extract command logic
func extractCommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadScanConfig(cmd)
	if err != nil {
		return err
	}

	output, _ := cmd.Flags().GetString("output")
	cfg.OutputPath, err = filepath.Abs(output)
	if err != nil {
		return fmt.Errorf("invalid output path %s: %w", output, err)
	}

	patterns, _ := cmd.Flags().GetStringArray("exclude-pattern")
	cfg.Rules.ExcludePatterns = patterns

	// The extractor keeps dotfiles unless asked not to; hidden config files
	// are often exactly what an export is for.
	skipDotfiles, _ := cmd.Flags().GetBool("skip-dotfiles")
	cfg.IncludeHidden = !skipDotfiles

	if v, _ := cmd.Flags().GetBool("collapse-large"); v {
		cfg.CollapseLarge = true
	}
	if n, _ := cmd.Flags().GetInt("collapse-threshold"); cmd.Flags().Changed("collapse-threshold") {
		cfg.CollapseThreshold = n
	}
	if v, _ := cmd.Flags().GetBool("no-toc"); v {
		cfg.IncludeTOC = false
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	log := logger.NewConsoleLogger(os.Stderr, cfg.LogLevel)
	log.LogDebug(fmt.Sprintf("extract run %s", uuid.NewString()))

	lock := filelock.NewOutputLock(cfg.OutputPath)
	acquired, err := lock.TryLock()
	if err != nil {
		return err
	}
	if !acquired {
		return fmt.Errorf("another extraction is already writing to %s", cfg.OutputPath)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			log.LogWarn(err.Error())
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	records, summary, err := runScan(ctx, cfg, log)
	if err != nil {
		return err
	}

	stats, err := extractor.New(cfg, log).Extract(ctx, records)
	if err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}

	renderer := display.NewRenderer(os.Stdout)
	renderer.RenderScanSummary(summary)
	fmt.Fprintf(os.Stdout, "Exported %d file(s) (%s) to %s\n",
		stats.Files, classify.FormatSize(stats.Bytes), cfg.OutputPath)
	if stats.Redacted > 0 {
		fmt.Fprintf(os.Stdout, "Redacted sensitive values in %d file(s)\n", stats.Redacted)
	}
	if stats.Collapsed > 0 {
		fmt.Fprintf(os.Stdout, "Collapsed %d large file(s)\n", stats.Collapsed)
	}

	if summary.CapacityHit {
		display.WarnCapacityCeiling(classify.FormatSize(cfg.MaxTotalSize), summary.Included).Display(os.Stderr)
	}

	return nil
}
