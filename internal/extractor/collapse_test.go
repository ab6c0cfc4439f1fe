package extractor

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func numberedLines(n int) string {
	var sb strings.Builder
	for i := 1; i <= n; i++ {
		fmt.Fprintf(&sb, "line %d\n", i)
	}
	return sb.String()
}

func TestCollapseUnderThresholdUntouched(t *testing.T) {
	c := NewCollapser(10)

	in := numberedLines(5)
	out, collapsed := c.Collapse(in, "short.txt")

	assert.False(t, collapsed)
	assert.Equal(t, in, out)
}

func TestCollapsePlainTextKeepsHead(t *testing.T) {
	c := NewCollapser(5)

	out, collapsed := c.Collapse(numberedLines(20), "big.txt")
	require.True(t, collapsed)

	assert.Contains(t, out, "line 1")
	assert.Contains(t, out, "line 5")
	assert.NotContains(t, out, "line 6")
	assert.Contains(t, out, "... [15 more lines collapsed] ...")
}

func TestCollapseCountIgnoresTrailingNewline(t *testing.T) {
	c := NewCollapser(5)

	// Same ten content lines, with and without a final newline, elide the
	// same five lines.
	withNewline, collapsed := c.Collapse(numberedLines(10), "a.txt")
	require.True(t, collapsed)
	assert.Contains(t, withNewline, "... [5 more lines collapsed] ...")

	bare := strings.TrimSuffix(numberedLines(10), "\n")
	withoutNewline, collapsed := c.Collapse(bare, "a.txt")
	require.True(t, collapsed)
	assert.Contains(t, withoutNewline, "... [5 more lines collapsed] ...")
}

func TestCollapseExactThresholdWithNewlineUntouched(t *testing.T) {
	c := NewCollapser(10)

	in := numberedLines(10)
	out, collapsed := c.Collapse(in, "a.txt")

	assert.False(t, collapsed)
	assert.Equal(t, in, out)
}

func TestCollapseMarkdownPreservesHeadings(t *testing.T) {
	c := NewCollapser(5)

	in := "# Title\n" +
		"intro one\n" +
		"intro two\n" +
		"intro three\n" +
		"intro four\n" +
		"intro five\n" +
		"\n" +
		"## Section A\n" +
		"alpha\n" +
		"\n" +
		"## Section B\n" +
		"beta\n"

	out, collapsed := c.Collapse(in, "README.md")
	require.True(t, collapsed)

	assert.Contains(t, out, "# Title")
	assert.Contains(t, out, "## Section A")
	assert.Contains(t, out, "## Section B")

	// Three preview lines under the title, the rest elided.
	assert.Contains(t, out, "intro one")
	assert.Contains(t, out, "intro three")
	assert.NotContains(t, out, "intro four")
	assert.Contains(t, out, "lines collapsed")
	assert.Contains(t, out, "[markdown collapsed: 3 heading(s) preserved]")

	// Short sections keep their content.
	assert.Contains(t, out, "alpha")
	assert.Contains(t, out, "beta")
}

func TestCollapseMarkdownAdjacentHeadings(t *testing.T) {
	c := NewCollapser(5)

	var sb strings.Builder
	sb.WriteString("# One\n## Two\ncontent under two\n")
	sb.WriteString(numberedLines(10))

	out, collapsed := c.Collapse(sb.String(), "doc.md")
	require.True(t, collapsed)

	// A heading directly after another heading still keeps its preview.
	assert.Contains(t, out, "# One")
	assert.Contains(t, out, "## Two")
	assert.Contains(t, out, "content under two")
}

func TestCollapseMarkdownExtension(t *testing.T) {
	c := NewCollapser(2)

	in := "# H\na\nb\nc\nd\ne\n"

	mdOut, _ := c.Collapse(in, "notes.MD")
	txtOut, _ := c.Collapse(in, "notes.txt")

	assert.Contains(t, mdOut, "markdown collapsed")
	assert.NotContains(t, txtOut, "markdown collapsed")
	assert.Contains(t, txtOut, "more lines collapsed")
}
