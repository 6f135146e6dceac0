// Package ui renders suite results as box-drawn text for the console.
package ui

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/alohaeditor/qunit-acceptor/types"
)

// Tree connectors
const (
	TreeBranch     = "├── "
	TreeLastBranch = "└── "
	TreeContinue   = "│   "
	TreeIndent     = "    "

	BoxTopLeft     = "┌"
	BoxTopRight    = "┐"
	BoxBottomLeft  = "└"
	BoxBottomRight = "┘"
	BoxVertical    = "│"
	BoxHorizontal  = "─"
	BoxTeeRight    = "├"
	BoxTeeLeft     = "┤"
)

// BuildTreePrefix returns the connector for a node at depth. parentIsLast
// tells for every ancestor level whether that ancestor was the last sibling.
func BuildTreePrefix(depth int, isLast bool, parentIsLast []bool) string {
	if depth == 0 {
		return ""
	}

	var b strings.Builder
	for i := 0; i < depth-1; i++ {
		if i < len(parentIsLast) && parentIsLast[i] {
			b.WriteString(TreeIndent)
		} else {
			b.WriteString(TreeContinue)
		}
	}
	if isLast {
		b.WriteString(TreeLastBranch)
	} else {
		b.WriteString(TreeBranch)
	}
	return b.String()
}

// FailureTree renders the failed and errored modules of a run with their
// failing QUnit tests and assertion messages. It returns "" when nothing failed.
func FailureTree(run *types.RunResult, width int) string {
	var failed []*types.ModuleResult
	for _, m := range run.Modules {
		if m.Status == types.StatusFail || m.Status == types.StatusError {
			failed = append(failed, m)
		}
	}
	if len(failed) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(BuildBoxHeader(fmt.Sprintf("Failures (%d of %d modules)", len(failed), len(run.Modules)), width))
	for i, m := range failed {
		lastModule := i == len(failed)-1
		b.WriteString(BuildBoxLine(BuildTreePrefix(1, lastModule, nil)+m.Module+": "+firstLine(m.Summary()), width))

		tests := m.FailedTests()
		for j, t := range tests {
			lastTest := j == len(tests)-1
			line := fmt.Sprintf("%s%s (%d/%d)", BuildTreePrefix(2, lastTest, []bool{lastModule}), t.Name, t.Failed, t.Total)
			b.WriteString(BuildBoxLine(line, width))

			for k, msg := range t.Messages {
				prefix := BuildTreePrefix(3, k == len(t.Messages)-1, []bool{lastModule, lastTest})
				b.WriteString(BuildBoxLine(prefix+firstLine(msg), width))
			}
		}
	}
	b.WriteString(BuildBoxFooter(width))
	return b.String()
}

func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx != -1 {
		return s[:idx]
	}
	return s
}

// BuildBoxHeader creates a box header with the given title and width
func BuildBoxHeader(title string, width int) string {
	titleLen := utf8.RuneCountInString(title)
	if width < titleLen+4 {
		width = titleLen + 4
	}
	padding := width - 4 - titleLen

	header := BoxTopLeft + repeatString(BoxHorizontal, width-2) + BoxTopRight + "\n"
	header += BoxVertical + " " + title + repeatString(" ", padding+1) + BoxVertical + "\n"
	header += BoxTeeRight + repeatString(BoxHorizontal, width-2) + BoxTeeLeft + "\n"
	return header
}

// BuildBoxFooter creates a box footer with the given width
func BuildBoxFooter(width int) string {
	return BoxBottomLeft + repeatString(BoxHorizontal, width-2) + BoxBottomRight + "\n"
}

// BuildBoxLine creates a content line within a box, truncating by runes
func BuildBoxLine(content string, width int) string {
	contentLen := utf8.RuneCountInString(content)
	maxContentLen := width - 4

	if contentLen > maxContentLen {
		runes := []rune(content)
		content = string(runes[:maxContentLen-3]) + "..."
		contentLen = maxContentLen
	}

	padding := maxContentLen - contentLen
	return BoxVertical + " " + content + repeatString(" ", padding+1) + BoxVertical + "\n"
}

func repeatString(s string, n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat(s, n)
}
