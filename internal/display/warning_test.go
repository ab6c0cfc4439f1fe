package display

import (
	"bytes"
	"strings"
	"testing"
)

func TestWarningDisplayFull(t *testing.T) {
	w := Warning{
		Title:      "Scan stopped early",
		Message:    "The size ceiling was reached.",
		Files:      []string{"a.bin", "b.bin"},
		Suggestion: "Raise the limit.",
	}

	var buf bytes.Buffer
	w.Display(&buf)
	out := buf.String()

	for _, want := range []string{
		"Warning: Scan stopped early",
		"The size ceiling was reached.",
		"Affected files:",
		"1. a.bin",
		"2. b.bin",
		"Suggestion:",
		"Raise the limit.",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestWarningDisplaySingularFile(t *testing.T) {
	w := Warning{Title: "Unreadable file", Files: []string{"broken.txt"}}

	var buf bytes.Buffer
	w.Display(&buf)

	if !strings.Contains(buf.String(), "Affected file:") {
		t.Errorf("expected singular label, got:\n%s", buf.String())
	}
	if strings.Contains(buf.String(), "Affected files:") {
		t.Errorf("unexpected plural label:\n%s", buf.String())
	}
}

func TestWarnCapacityCeiling(t *testing.T) {
	w := WarnCapacityCeiling("100.0 MB", 42)

	var buf bytes.Buffer
	w.Display(&buf)
	out := buf.String()

	if !strings.Contains(out, "total size ceiling") {
		t.Errorf("missing title, got:\n%s", out)
	}
	if !strings.Contains(out, "100.0 MB") || !strings.Contains(out, "42 file(s)") {
		t.Errorf("missing limit details, got:\n%s", out)
	}
}
