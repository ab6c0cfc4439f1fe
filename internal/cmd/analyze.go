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

	"github.com/harrison/projscan/internal/analyzer"
	"github.com/harrison/projscan/internal/classify"
	"github.com/harrison/projscan/internal/config"
	"github.com/harrison/projscan/internal/display"
	"github.com/harrison/projscan/internal/logger"
	"github.com/harrison/projscan/internal/policy"
	"github.com/harrison/projscan/internal/scanner"
)

// NewAnalyzeCommand creates the analyze command
func NewAnalyzeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Rank project files by size",
		Long: `Scan the project and print a size report: the largest files,
a per-directory breakdown, and a per-type breakdown. Percentages are
relative to the analyzed total, after exclusions.

Examples:
  projscan analyze
  projscan analyze -r ./backend --top 25
  projscan analyze --min-size 1M --include-binary
  projscan analyze --export-csv sizes.csv --export-json sizes.json`,
		Args: cobra.NoArgs,
		RunE: analyzeCommand,
	}

	cmd.Flags().StringP("root", "r", ".", "Root directory to scan")
	cmd.Flags().Int("top", 100, "Maximum number of files in the top list")
	cmd.Flags().String("min-size", "", "Minimum file size to include (accepts K/M/G suffix)")
	cmd.Flags().Bool("include-binary", false, "Include binary files")
	cmd.Flags().Bool("include-hidden", false, "Include hidden files")
	cmd.Flags().Bool("no-directories", false, "Skip the directory breakdown section")
	cmd.Flags().Bool("no-types", false, "Skip the file type breakdown section")
	cmd.Flags().String("export-csv", "", "Write the ranked files as CSV to this path")
	cmd.Flags().String("export-json", "", "Write the ranked files as JSON to this path")
	cmd.Flags().Bool("verbose", false, "Show per-file scan decisions")
	cmd.Flags().String("config", "", "Path to config file (default: <root>/.projscan.yaml)")

	return cmd
}

// analyzeCommand implements the analyze command logic
func analyzeCommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadScanConfig(cmd)
	if err != nil {
		return err
	}

	if top, _ := cmd.Flags().GetInt("top"); cmd.Flags().Changed("top") {
		cfg.MaxResults = top
	}
	if minSize, _ := cmd.Flags().GetString("min-size"); minSize != "" {
		bytes, err := config.ParseSize(minSize)
		if err != nil {
			return fmt.Errorf("invalid --min-size: %w", err)
		}
		cfg.MinSizeBytes = bytes
	}
	if v, _ := cmd.Flags().GetBool("include-binary"); cmd.Flags().Changed("include-binary") {
		cfg.IncludeBinary = v
	}
	if v, _ := cmd.Flags().GetBool("include-hidden"); cmd.Flags().Changed("include-hidden") {
		cfg.IncludeHidden = v
	}
	if v, _ := cmd.Flags().GetBool("no-directories"); v {
		cfg.ShowDirectories = false
	}
	if v, _ := cmd.Flags().GetBool("no-types"); v {
		cfg.ShowTypes = false
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	log := logger.NewConsoleLogger(os.Stderr, cfg.LogLevel)
	log.LogDebug(fmt.Sprintf("scan run %s", uuid.NewString()))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	records, summary, err := runScan(ctx, cfg, log)
	if err != nil {
		return err
	}

	report := analyzer.Analyze(records, cfg)

	renderer := display.NewRenderer(os.Stdout)
	renderer.RenderReport(report, cfg)
	renderer.RenderScanSummary(summary)

	if summary.CapacityHit {
		display.WarnCapacityCeiling(classify.FormatSize(cfg.MaxTotalSize), summary.Included).Display(os.Stderr)
	}

	if path, _ := cmd.Flags().GetString("export-csv"); path != "" {
		if err := analyzer.ExportCSVFile(report, path); err != nil {
			return err
		}
		log.LogInfo(fmt.Sprintf("CSV export written to %s", path))
	}
	if path, _ := cmd.Flags().GetString("export-json"); path != "" {
		if err := analyzer.ExportJSONFile(report, path); err != nil {
			return err
		}
		log.LogInfo(fmt.Sprintf("JSON export written to %s", path))
	}

	return nil
}

// loadScanConfig resolves the scan root, loads the layered configuration,
// and applies the flags shared by both subcommands.
func loadScanConfig(cmd *cobra.Command) (*config.Config, error) {
	rootFlag, _ := cmd.Flags().GetString("root")
	root, err := absRoot(rootFlag)
	if err != nil {
		return nil, err
	}

	var cfg *config.Config
	if configPath, _ := cmd.Flags().GetString("config"); configPath != "" {
		cfg, err = config.Load(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", configPath, err)
		}
	} else {
		cfg, err = config.LoadFromDir(root)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	cfg.Root = root
	if self, err := os.Executable(); err == nil {
		cfg.SelfPath = self
	}

	if v, _ := cmd.Flags().GetBool("verbose"); v {
		cfg.LogLevel = "debug"
	}

	return cfg, nil
}

// absRoot resolves the --root flag to an absolute path.
func absRoot(root string) (string, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("invalid root %s: %w", root, err)
	}
	return abs, nil
}

// runScan builds the exclusion policy and runs the scan pass.
func runScan(ctx context.Context, cfg *config.Config, log *logger.ConsoleLogger) ([]scanner.FileRecord, *scanner.Summary, error) {
	pol, err := policy.New(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid exclusion rules: %w", err)
	}
	return scanner.New(cfg, pol, log).Scan(ctx)
}
