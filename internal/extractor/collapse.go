package extractor

import (
	"fmt"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// markdownPreviewLines is the number of non-blank content lines kept after
// each markdown heading.
const markdownPreviewLines = 3

// Collapser truncates long file content for the export document. Markdown
// keeps its heading structure with a short preview under each heading;
// everything else keeps a head slice of lines.
type Collapser struct {
	threshold int
	md        goldmark.Markdown
}

// NewCollapser creates a Collapser that leaves content with at most
// threshold lines untouched.
func NewCollapser(threshold int) *Collapser {
	return &Collapser{
		threshold: threshold,
		md:        goldmark.New(),
	}
}

// Collapse shortens content when it exceeds the line threshold. The second
// return reports whether anything was collapsed.
func (c *Collapser) Collapse(content, path string) (string, bool) {
	lines := strings.Split(content, "\n")
	// A trailing newline produces an empty final element that is not a
	// content line; counting it would overstate the collapsed remainder.
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	if len(lines) <= c.threshold {
		return content, false
	}

	if isMarkdownPath(path) {
		return c.collapseMarkdown(content, lines), true
	}
	return c.collapseHead(lines), true
}

func isMarkdownPath(path string) bool {
	lower := strings.ToLower(path)
	return strings.HasSuffix(lower, ".md") || strings.HasSuffix(lower, ".markdown")
}

// collapseHead keeps the first threshold lines and reports the elided rest.
func (c *Collapser) collapseHead(lines []string) string {
	kept := lines[:c.threshold]
	remaining := len(lines) - c.threshold

	var sb strings.Builder
	sb.WriteString(strings.Join(kept, "\n"))
	sb.WriteString(fmt.Sprintf("\n... [%d more lines collapsed] ...", remaining))
	return sb.String()
}

// collapseMarkdown keeps every heading line plus up to three non-blank
// content lines after it. Each heading resets the preview budget, so a
// heading directly following another heading still gets its own preview.
func (c *Collapser) collapseMarkdown(content string, lines []string) string {
	headings := c.headingLines(content)

	var sb strings.Builder
	budget := markdownPreviewLines
	elided := 0

	flush := func() {
		if elided > 0 {
			sb.WriteString(fmt.Sprintf("... [%d lines collapsed] ...\n", elided))
			elided = 0
		}
	}

	for i, line := range lines {
		if headings[i] {
			flush()
			sb.WriteString(line)
			sb.WriteString("\n")
			budget = markdownPreviewLines
			continue
		}

		if strings.TrimSpace(line) == "" {
			// Blank lines ride along while the preview budget lasts.
			if budget > 0 {
				sb.WriteString("\n")
			} else {
				elided++
			}
			continue
		}

		if budget > 0 {
			sb.WriteString(line)
			sb.WriteString("\n")
			budget--
			continue
		}
		elided++
	}
	flush()

	sb.WriteString(fmt.Sprintf("... [markdown collapsed: %d heading(s) preserved] ...", len(headings)))
	return sb.String()
}

// headingLines parses the markdown and marks every source line that opens a
// heading. Heading positions come from the parsed AST segments, mapped back
// to line indexes through the line start offsets.
func (c *Collapser) headingLines(content string) map[int]bool {
	source := []byte(content)
	starts := lineStartOffsets(source)

	headings := make(map[int]bool)
	doc := c.md.Parser().Parse(text.NewReader(source))

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		heading, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}
		if heading.Lines().Len() == 0 {
			return ast.WalkContinue, nil
		}
		headings[lineIndexOf(starts, heading.Lines().At(0).Start)] = true
		return ast.WalkContinue, nil
	})

	return headings
}

// lineStartOffsets returns the byte offset of every line start.
func lineStartOffsets(source []byte) []int {
	starts := []int{0}
	for i, b := range source {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

// lineIndexOf maps a byte offset to the index of the line containing it.
func lineIndexOf(starts []int, offset int) int {
	return sort.Search(len(starts), func(i int) bool {
		return starts[i] > offset
	}) - 1
}
