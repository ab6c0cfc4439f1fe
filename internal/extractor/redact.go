package extractor

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/harrison/projscan/internal/config"
)

// Redactor replaces sensitive assigned values with a fixed marker before
// content is written to the export document.
//
// Redaction is gated twice: the file's extension must be in the configured
// redactable set AND its name must contain one of the sensitive name
// markers. Only then are individual lines inspected.
type Redactor struct {
	extensions  map[string]bool
	nameMarkers []string
	keyPattern  *regexp.Regexp
}

// NewRedactor builds a Redactor from the redaction configuration. With no
// sensitive prefixes configured the redactor passes content through.
func NewRedactor(rules config.Redaction) *Redactor {
	r := &Redactor{
		extensions:  make(map[string]bool, len(rules.Extensions)),
		nameMarkers: make([]string, 0, len(rules.NameMarkers)),
	}
	for _, ext := range rules.Extensions {
		r.extensions[strings.ToLower(ext)] = true
	}
	for _, marker := range rules.NameMarkers {
		r.nameMarkers = append(r.nameMarkers, strings.ToLower(marker))
	}

	if len(rules.SensitivePrefixes) > 0 {
		quoted := make([]string, 0, len(rules.SensitivePrefixes))
		for _, prefix := range rules.SensitivePrefixes {
			quoted = append(quoted, regexp.QuoteMeta(prefix))
		}
		// Keeps everything through the = sign; the assigned value after it
		// is what gets replaced.
		r.keyPattern = regexp.MustCompile(`(?i)^(\s*(?:` + strings.Join(quoted, "|") + `)[^=]*=)`)
	}

	return r
}

// Applies reports whether the named file is a redaction candidate.
func (r *Redactor) Applies(path string) bool {
	name := strings.ToLower(filepath.Base(path))
	if !r.extensions[strings.ToLower(filepath.Ext(name))] {
		return false
	}
	for _, marker := range r.nameMarkers {
		if strings.Contains(name, marker) {
			return true
		}
	}
	return false
}

// Redact scans content line by line and replaces the value of every
// sensitive assignment. Comment lines and blank lines are never touched.
// The second return reports whether anything was replaced.
func (r *Redactor) Redact(content string) (string, bool) {
	if r.keyPattern == nil {
		return content, false
	}

	lines := strings.Split(content, "\n")
	changed := false
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") || strings.HasPrefix(trimmed, ";") {
			continue
		}
		if m := r.keyPattern.FindStringSubmatch(line); m != nil {
			lines[i] = m[1] + config.RedactionMarker
			changed = true
		}
	}

	if !changed {
		return content, false
	}
	return strings.Join(lines, "\n"), true
}
