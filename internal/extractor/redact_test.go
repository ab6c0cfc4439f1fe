package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/harrison/projscan/internal/config"
)

func defaultRedactor() *Redactor {
	return NewRedactor(config.Default().Redaction)
}

func TestRedactorApplies(t *testing.T) {
	r := defaultRedactor()

	tests := []struct {
		path string
		want bool
	}{
		{".env", true},
		{"config/.env", true},
		{"secrets.yaml", true},
		{"credentials.txt", true},
		{"API_TOKEN.conf", true},
		{"main.py", false},           // extension not redactable
		{"notes.txt", false},         // no sensitive name marker
		{"secret_plans.docx", false}, // extension not redactable
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, r.Applies(tt.path), tt.path)
	}
}

func TestRedactValues(t *testing.T) {
	r := defaultRedactor()

	in := "API_KEY=supersecret123\n" +
		"# API_KEY=abc\n" +
		"; password=also-a-comment\n" +
		"\n" +
		"  token = hunter2\n" +
		"DEBUG=true\n"

	out, changed := r.Redact(in)

	assert.True(t, changed)
	assert.Contains(t, out, "API_KEY=***REDACTED***")
	assert.NotContains(t, out, "supersecret123")
	assert.NotContains(t, out, "hunter2")
	assert.Contains(t, out, "  token =***REDACTED***")

	// Comments and unrelated keys survive untouched.
	assert.Contains(t, out, "# API_KEY=abc")
	assert.Contains(t, out, "; password=also-a-comment")
	assert.Contains(t, out, "DEBUG=true")
}

func TestRedactNoMatchesPassesThrough(t *testing.T) {
	r := defaultRedactor()

	in := "HOST=localhost\nPORT=8080\n"
	out, changed := r.Redact(in)

	assert.False(t, changed)
	assert.Equal(t, in, out)
}

func TestRedactCaseInsensitivePrefix(t *testing.T) {
	r := defaultRedactor()

	out, changed := r.Redact("Api_Key_Prod=value\nAWS_SECRET_ACCESS_KEY=xyz\n")

	assert.True(t, changed)
	assert.Contains(t, out, "Api_Key_Prod=***REDACTED***")
	assert.Contains(t, out, "AWS_SECRET_ACCESS_KEY=***REDACTED***")
}

func TestRedactWithoutPrefixesIsNoop(t *testing.T) {
	r := NewRedactor(config.Redaction{
		Extensions:  []string{".env"},
		NameMarkers: []string{"env"},
	})

	out, changed := r.Redact("API_KEY=value\n")
	assert.False(t, changed)
	assert.Equal(t, "API_KEY=value\n", out)
}
