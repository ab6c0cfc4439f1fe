package cmd

import (
	"github.com/spf13/cobra"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// NewRootCommand creates and returns the root cobra command for projscan
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "projscan",
		Short: "Project file size analysis and content extraction",
		Long: `Projscan scans a project directory with a shared exclusion policy
(dependency caches, build artifacts, binaries, env and credential files)
and feeds the surviving files to one of two consumers:

  analyze  ranks files by size with directory and type breakdowns,
           optionally exporting CSV/JSON
  extract  concatenates file contents into a single export document
           with redaction of sensitive values and optional collapsing

Configuration is loaded from .projscan.yaml in the scan root if present.
CLI flags override configuration file settings.`,
		Version: Version,
		// Silence usage on errors to avoid duplicate help text
		SilenceUsage: true,
	}

	// Add subcommands
	cmd.AddCommand(NewAnalyzeCommand())
	cmd.AddCommand(NewExtractCommand())

	return cmd
}
