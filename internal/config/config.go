// Package config defines the immutable scan configuration shared by the
// scanner, the exclusion policy, and both report consumers.
//
// A configuration is constructed once before a scan from defaults, an
// optional .projscan.yaml file, and CLI flags (in that precedence order,
// lowest to highest). It is never mutated during a scan.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ConfigFileName is the per-project configuration file looked up in the
// scan root when --config is not given.
const ConfigFileName = ".projscan.yaml"

// DefaultOutputFile is the default extraction output document.
const DefaultOutputFile = "project_files.txt"

// ExportBanner is the first line of every extraction document. The exclusion
// policy uses it to recognize prior exports left inside the scan root.
const ExportBanner = "PROJECT FILE EXPORT"

// RedactionMarker replaces sensitive values during extraction.
const RedactionMarker = "***REDACTED***"

// MinCollapseThreshold is the floor for CollapseThreshold.
const MinCollapseThreshold = 5

// Rules holds the exclusion rule sets applied to every path during a scan.
type Rules struct {
	// ExcludedDirs are directory names skipped wherever they appear
	// (dependency caches, build artifacts, VCS metadata).
	ExcludedDirs []string `yaml:"excluded_dirs"`

	// ExcludedExtensions are lowercased suffixes excluded unless binary
	// inclusion is enabled.
	ExcludedExtensions []string `yaml:"excluded_extensions"`

	// SensitivePatterns are glob patterns for credential material and lock
	// files, excluded unconditionally.
	SensitivePatterns []string `yaml:"sensitive_patterns"`

	// EnvFilePatterns match env-style files (.env, .env.*).
	EnvFilePatterns []string `yaml:"env_file_patterns"`

	// PreserveMarkers are filename substrings that exempt an env-style file
	// from the env rule (.env.example and friends are safe to keep).
	PreserveMarkers []string `yaml:"preserve_markers"`

	// HiddenAllowList are dotfiles kept even when hidden files are excluded.
	HiddenAllowList []string `yaml:"hidden_allow_list"`

	// ExcludePatterns are user-supplied glob patterns (--exclude-pattern).
	ExcludePatterns []string `yaml:"-"`
}

// Redaction configures sensitive-value redaction during extraction.
type Redaction struct {
	// Extensions gates redaction: only files with one of these suffixes are
	// candidates. An empty string entry matches files without an extension.
	Extensions []string `yaml:"extensions"`

	// NameMarkers are filename substrings (case-insensitive) that mark a
	// candidate file as sensitive enough to redact.
	NameMarkers []string `yaml:"name_markers"`

	// SensitivePrefixes are key prefixes whose assigned values are replaced
	// with the redaction marker.
	SensitivePrefixes []string `yaml:"sensitive_prefixes"`
}

// Config is the full scan configuration. Fields without yaml tags are
// CLI-only and cannot be set from the config file.
type Config struct {
	// Root is the absolute scan root directory.
	Root string `yaml:"-"`

	Rules     Rules     `yaml:"rules"`
	Redaction Redaction `yaml:"redaction"`

	// MaxFileSize is the per-file ceiling; larger files are skipped.
	MaxFileSize int64 `yaml:"max_file_size"`

	// MaxTotalSize is the cumulative ceiling; the scan stops (without error)
	// once retaining the next file would exceed it.
	MaxTotalSize int64 `yaml:"max_total_size"`

	// MinSizeBytes drops files below this size from consideration.
	MinSizeBytes int64 `yaml:"-"`

	// MaxResults bounds the "top files" section of the size report.
	MaxResults int `yaml:"max_results"`

	IncludeBinary bool `yaml:"-"`
	IncludeHidden bool `yaml:"-"`

	// ShowDirectories / ShowTypes toggle the report breakdown sections.
	ShowDirectories bool `yaml:"-"`
	ShowTypes       bool `yaml:"-"`

	// CollapseLarge enables content collapsing during extraction.
	CollapseLarge bool `yaml:"-"`

	// CollapseThreshold is the line count above which content is collapsed.
	// Values below MinCollapseThreshold are raised to it.
	CollapseThreshold int `yaml:"collapse_threshold"`

	// IncludeTOC controls the table of contents in the export document.
	IncludeTOC bool `yaml:"-"`

	// OutputPath is the extraction output document path.
	OutputPath string `yaml:"-"`

	// SelfPath is the running binary's own path, excluded from every scan.
	SelfPath string `yaml:"-"`

	// LogLevel controls console logging (trace, debug, info, warn, error).
	LogLevel string `yaml:"log_level"`
}

// Default returns a Config with the stock exclusion sets and limits.
func Default() *Config {
	return &Config{
		Rules: Rules{
			ExcludedDirs: []string{
				".git", ".svn", ".hg", "node_modules", "__pycache__",
				".venv", "venv", ".tox", ".mypy_cache", ".pytest_cache",
				".ruff_cache", ".idea", ".vscode", "dist", "build", "target",
				".next", ".nuxt", "coverage", ".gradle", ".cache", "vendor",
				".terraform", ".eggs",
			},
			ExcludedExtensions: []string{
				".pyc", ".pyo", ".so", ".dll", ".dylib", ".exe", ".bin",
				".o", ".a", ".class", ".jar", ".war",
				".zip", ".tar", ".gz", ".bz2", ".xz", ".7z", ".rar",
				".png", ".jpg", ".jpeg", ".gif", ".bmp", ".ico", ".webp", ".tiff",
				".mp3", ".wav", ".flac", ".mp4", ".avi", ".mov", ".mkv",
				".ttf", ".otf", ".woff", ".woff2",
				".pdf", ".doc", ".docx", ".xls", ".xlsx", ".ppt", ".pptx",
				".db", ".sqlite", ".sqlite3",
			},
			SensitivePatterns: []string{
				"*.pem", "*.key", "*.crt", "*.cer", "*.p12", "*.pfx",
				"*.keystore", "*.jks",
				"id_rsa*", "id_ecdsa*", "id_ed25519*",
				"credentials*.json", "service-account*.json",
				"package-lock.json", "yarn.lock", "pnpm-lock.yaml",
				"poetry.lock", "Pipfile.lock", "composer.lock", "Cargo.lock",
				"Gemfile.lock", "go.sum",
			},
			EnvFilePatterns: []string{".env", ".env.*"},
			PreserveMarkers: []string{".example", ".template", ".sample"},
			HiddenAllowList: []string{".gitignore", ".gitattributes"},
		},
		Redaction: Redaction{
			Extensions: []string{"", ".env", ".ini", ".cfg", ".conf", ".properties", ".txt", ".yaml", ".yml", ".json"},
			NameMarkers: []string{
				"env", "secret", "credential", "token", "apikey", "api_key",
			},
			SensitivePrefixes: []string{
				"api_key", "apikey", "secret", "token", "password", "passwd",
				"pwd", "auth", "credential", "private_key", "access_key",
				"client_secret", "database_url", "db_password", "aws_",
				"github_token", "stripe_",
			},
		},
		MaxFileSize:       10 * 1024 * 1024,
		MaxTotalSize:      100 * 1024 * 1024,
		MinSizeBytes:      0,
		MaxResults:        100,
		IncludeBinary:     false,
		IncludeHidden:     false,
		ShowDirectories:   true,
		ShowTypes:         true,
		CollapseLarge:     false,
		CollapseThreshold: 100,
		IncludeTOC:        true,
		OutputPath:        DefaultOutputFile,
		LogLevel:          "info",
	}
}

// Load reads configuration from the given YAML file, layered on defaults.
// A missing file is not an error; a malformed one is.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Unmarshal over the defaults so absent keys keep their default values
	// and present keys replace them wholesale.
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return cfg, nil
}

// LoadFromDir loads .projscan.yaml from dir, falling back to defaults when
// the file does not exist.
func LoadFromDir(dir string) (*Config, error) {
	return Load(filepath.Join(dir, ConfigFileName))
}

// Validate checks the configuration for values that would make a scan
// meaningless. It also normalizes CollapseThreshold up to its floor.
func (c *Config) Validate() error {
	if c.Root == "" {
		return fmt.Errorf("scan root is not set")
	}
	info, err := os.Stat(c.Root)
	if err != nil {
		return fmt.Errorf("invalid scan root %s: %w", c.Root, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("scan root %s is not a directory", c.Root)
	}

	if c.MaxFileSize < 0 {
		return fmt.Errorf("max_file_size must be >= 0, got %d", c.MaxFileSize)
	}
	if c.MaxTotalSize < 0 {
		return fmt.Errorf("max_total_size must be >= 0, got %d", c.MaxTotalSize)
	}
	if c.MinSizeBytes < 0 {
		return fmt.Errorf("min size must be >= 0, got %d", c.MinSizeBytes)
	}
	if c.MaxResults <= 0 {
		return fmt.Errorf("max results must be > 0, got %d", c.MaxResults)
	}

	if c.CollapseThreshold < MinCollapseThreshold {
		c.CollapseThreshold = MinCollapseThreshold
	}

	validLevels := map[string]bool{
		"trace": true,
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[c.LogLevel] {
		return fmt.Errorf("invalid log_level %q, must be one of: trace, debug, info, warn, error", c.LogLevel)
	}

	return nil
}

// ParseSize parses a human size like "500", "64K", "10M" or "2G" into bytes.
// Suffixes are case-insensitive and use binary multiples.
func ParseSize(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty size")
	}

	multiplier := int64(1)
	switch strings.ToUpper(s[len(s)-1:]) {
	case "K":
		multiplier = 1024
		s = s[:len(s)-1]
	case "M":
		multiplier = 1024 * 1024
		s = s[:len(s)-1]
	case "G":
		multiplier = 1024 * 1024 * 1024
		s = s[:len(s)-1]
	}

	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size %q: %w", s, err)
	}
	if n < 0 {
		return 0, fmt.Errorf("size must not be negative, got %d", n)
	}

	return n * multiplier, nil
}
