// Package policy implements the exclusion rules applied to every path
// encountered during a scan.
//
// The policy is a pure predicate over a path given an immutable
// configuration. Rules are evaluated in a fixed order and the first match
// wins: path safety, identity (the tool itself, the output document, prior
// exports), env-file handling, sensitive/lock globs and user patterns,
// hidden files, excluded directory names, excluded extensions.
package policy

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/harrison/projscan/internal/config"
)

// Exclusion reasons reported alongside a positive decision.
const (
	ReasonOutsideRoot = "outside-root"
	ReasonSelf        = "self"
	ReasonOutput      = "output"
	ReasonPriorExport = "prior-export"
	ReasonEnvFile     = "env-file"
	ReasonSensitive   = "sensitive"
	ReasonUserPattern = "user-pattern"
	ReasonHidden      = "hidden"
	ReasonExcludedDir = "excluded-dir"
	ReasonExtension   = "extension"
)

// exportNamePrefix marks files that look like a prior export by name.
var exportNamePrefix = strings.TrimSuffix(config.DefaultOutputFile, filepath.Ext(config.DefaultOutputFile))

// Policy evaluates exclusion rules against absolute paths.
// It is constructed once per scan and holds only derived, read-only state.
type Policy struct {
	cfg        *config.Config
	root       string // resolved scan root
	selfPath   string // resolved path of the running binary
	outputPath string // absolute output path, "" when not extracting
	lockPath   string // the output's lock file, excluded alongside it

	excludedDirs map[string]bool
	excludedExts map[string]bool
	hiddenAllow  map[string]bool
}

// New builds a Policy from the configuration. The scan root must exist; all
// glob patterns are validated up front so bad --exclude-pattern input fails
// before any scanning starts.
func New(cfg *config.Config) (*Policy, error) {
	root, err := filepath.EvalSymlinks(cfg.Root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve scan root %s: %w", cfg.Root, err)
	}

	for _, patterns := range [][]string{cfg.Rules.SensitivePatterns, cfg.Rules.EnvFilePatterns, cfg.Rules.ExcludePatterns} {
		for _, pattern := range patterns {
			if !doublestar.ValidatePattern(pattern) {
				return nil, fmt.Errorf("invalid glob pattern %q", pattern)
			}
		}
	}

	p := &Policy{
		cfg:          cfg,
		root:         root,
		excludedDirs: make(map[string]bool, len(cfg.Rules.ExcludedDirs)),
		excludedExts: make(map[string]bool, len(cfg.Rules.ExcludedExtensions)),
		hiddenAllow:  make(map[string]bool, len(cfg.Rules.HiddenAllowList)),
	}

	for _, dir := range cfg.Rules.ExcludedDirs {
		p.excludedDirs[dir] = true
	}
	for _, ext := range cfg.Rules.ExcludedExtensions {
		p.excludedExts[strings.ToLower(ext)] = true
	}
	for _, name := range cfg.Rules.HiddenAllowList {
		p.hiddenAllow[name] = true
	}

	if cfg.SelfPath != "" {
		if resolved, err := filepath.EvalSymlinks(cfg.SelfPath); err == nil {
			p.selfPath = resolved
		}
	}
	if cfg.OutputPath != "" {
		// The output file may not exist yet, so only normalize the path.
		if abs, err := filepath.Abs(cfg.OutputPath); err == nil {
			p.outputPath = abs
			p.lockPath = abs + ".lock"
		}
	}

	return p, nil
}

// Root returns the resolved scan root.
func (p *Policy) Root() string {
	return p.root
}

// ShouldExclude decides whether the file at absPath is excluded from the
// scan and, if so, why. The decision chain short-circuits on the first
// matching rule. It never returns an error: unresolvable paths are excluded.
func (p *Policy) ShouldExclude(absPath string) (bool, string) {
	// 1. Path safety: the resolved path must stay inside the resolved root.
	// Symlinks pointing outside the tree are excluded, never followed.
	resolved, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		return true, ReasonOutsideRoot
	}
	rel, err := filepath.Rel(p.root, resolved)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return true, ReasonOutsideRoot
	}

	name := filepath.Base(absPath)

	// 2. Identity: never export the tool itself, the destination document,
	// or a prior export left in the tree.
	if p.selfPath != "" && resolved == p.selfPath {
		return true, ReasonSelf
	}
	if p.outputPath != "" && resolved == p.outputPath {
		return true, ReasonOutput
	}
	// The lock file guarding the output exists for the duration of the run,
	// so an output inside the scan root would otherwise drag it along.
	if p.lockPath != "" && resolved == p.lockPath {
		return true, ReasonOutput
	}
	if looksLikePriorExport(name, resolved) {
		return true, ReasonPriorExport
	}

	// 3. Env files are excluded unless the name carries a preservation
	// marker (.env.example, .env.template, .env.sample).
	if p.matchesAny(p.cfg.Rules.EnvFilePatterns, name, rel) {
		if !containsAnyFold(name, p.cfg.Rules.PreserveMarkers) {
			return true, ReasonEnvFile
		}
	}

	// 4. Sensitive material and lock files, then user-supplied patterns.
	if p.matchesAny(p.cfg.Rules.SensitivePatterns, name, rel) {
		return true, ReasonSensitive
	}
	if p.matchesAny(p.cfg.Rules.ExcludePatterns, name, rel) {
		return true, ReasonUserPattern
	}

	// 5. Hidden files, with a small allow list.
	if !p.cfg.IncludeHidden && strings.HasPrefix(name, ".") && !p.hiddenAllow[name] {
		return true, ReasonHidden
	}

	// 6. Excluded directory names anywhere on the relative path.
	dir := filepath.Dir(rel)
	if dir != "." {
		for _, component := range strings.Split(dir, string(filepath.Separator)) {
			if p.excludedDirs[component] {
				return true, ReasonExcludedDir
			}
		}
	}

	// 7. Extension exclusion, unless binary content is requested.
	if !p.cfg.IncludeBinary {
		if p.excludedExts[strings.ToLower(filepath.Ext(name))] {
			return true, ReasonExtension
		}
	}

	return false, ""
}

// ShouldExcludeDir decides whether an entire directory subtree is pruned.
// Used by the scanner to stop descending early.
func (p *Policy) ShouldExcludeDir(name string) (bool, string) {
	if p.excludedDirs[name] {
		return true, ReasonExcludedDir
	}
	if !p.cfg.IncludeHidden && strings.HasPrefix(name, ".") {
		return true, ReasonHidden
	}
	return false, ""
}

// matchesAny matches the basename against bare patterns and the relative
// path against patterns containing a separator.
func (p *Policy) matchesAny(patterns []string, name, rel string) bool {
	for _, pattern := range patterns {
		target := name
		if strings.Contains(pattern, "/") {
			target = filepath.ToSlash(rel)
		}
		if ok, err := doublestar.Match(pattern, target); err == nil && ok {
			return true
		}
	}
	return false
}

// containsAnyFold reports whether s contains any of the markers,
// case-insensitively.
func containsAnyFold(s string, markers []string) bool {
	lower := strings.ToLower(s)
	for _, marker := range markers {
		if strings.Contains(lower, strings.ToLower(marker)) {
			return true
		}
	}
	return false
}

// looksLikePriorExport recognizes earlier extraction documents: the default
// export name, any "<prefix>*.txt" sibling of it, or a .txt file whose first
// line is the export banner.
func looksLikePriorExport(name, resolved string) bool {
	if name == config.DefaultOutputFile {
		return true
	}
	if strings.HasPrefix(name, exportNamePrefix) && strings.HasSuffix(name, ".txt") {
		return true
	}
	if strings.HasSuffix(name, ".txt") {
		return firstLineIs(resolved, config.ExportBanner)
	}
	return false
}

// firstLineIs reads at most one line from path and compares it to want.
// Any read error counts as a non-match.
func firstLineIs(path, want string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 4096), 4096)
	if !scanner.Scan() {
		return false
	}
	return scanner.Text() == want
}
