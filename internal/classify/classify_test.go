package classify

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLabel(t *testing.T) {
	tests := []struct {
		name string
		path string
		want string
	}{
		{"python file", "src/main.py", "Python"},
		{"python stub", "types.pyi", "Python"},
		{"markdown", "README.md", "Markdown"},
		{"markdown long ext", "notes.markdown", "Markdown"},
		{"go file", "internal/scanner/scanner.go", "Go"},
		{"uppercase extension", "REPORT.PDF", "Document"},
		{"env file", "settings.env", "Config"},
		{"unknown extension", "data.xyz", "Other(.xyz)"},
		{"no extension", "Makefile", "No Extension"},
		{"dotfile without extension", "config.", "Other(.)"},
		{"nested path unknown", "a/b/c.q2x", "Other(.q2x)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Label(tt.path))
		})
	}
}

func TestLabelNeverEmpty(t *testing.T) {
	// Totality: arbitrary names always classify to something.
	inputs := []string{"", ".", "..", "...", "a", "a.b.c.d", "weird name.tar.gz", string([]byte{0x00, 0x2e})}
	for _, in := range inputs {
		assert.NotEmpty(t, Label(in), "Label(%q) returned empty", in)
	}
}

func TestCategoryBoundaries(t *testing.T) {
	tests := []struct {
		name string
		size int64
		want string
	}{
		{"zero", 0, "tiny"},
		{"just below small", 100*1024 - 1, "tiny"},
		{"exactly 100 KiB", 100 * 1024, "small"},
		{"just below 1 MiB", 1048575, "small"},
		{"exactly 1 MiB", 1048576, "medium"},
		{"just below 10 MiB", 10*1024*1024 - 1, "medium"},
		{"exactly 10 MiB", 10 * 1024 * 1024, "large"},
		{"exactly 100 MiB", 100 * 1024 * 1024, "very_large"},
		{"just below 1 GiB", 1024*1024*1024 - 1, "very_large"},
		{"exactly 1 GiB", 1024 * 1024 * 1024, "huge"},
		{"well above 1 GiB", 5 * 1024 * 1024 * 1024, "huge"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Category(tt.size))
		})
	}
}

func TestIsBinary(t *testing.T) {
	tmpDir := t.TempDir()

	write := func(name string, data []byte) string {
		path := filepath.Join(tmpDir, name)
		require.NoError(t, os.WriteFile(path, data, 0644))
		return path
	}

	textFile := write("plain.txt", []byte("hello world\nsecond line\n"))
	binFile := write("blob.bin", []byte{0x89, 0x50, 0x4e, 0x47, 0x00, 0x01, 0x02})
	emptyFile := write("empty.txt", nil)
	// NUL beyond the sniff window is not detected; the sniff is a heuristic.
	tail := make([]byte, 2048)
	for i := range tail {
		tail[i] = 'a'
	}
	tail[2000] = 0x00
	lateNul := write("latenul.txt", tail)

	assert.False(t, IsBinary(textFile))
	assert.True(t, IsBinary(binFile))
	assert.False(t, IsBinary(emptyFile))
	assert.False(t, IsBinary(lateNul))

	// Missing files fail safe toward binary/excluded.
	assert.True(t, IsBinary(filepath.Join(tmpDir, "does-not-exist")))
}

func TestFormatSize(t *testing.T) {
	tests := []struct {
		size int64
		want string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1023, "1023 B"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{1048576, "1.0 MB"},
		{5 * 1048576, "5.0 MB"},
		{1073741824, "1.0 GB"},
		{3221225472, "3.0 GB"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatSize(tt.size), "FormatSize(%d)", tt.size)
	}
}
