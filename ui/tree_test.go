package ui

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/alohaeditor/qunit-acceptor/types"
)

func TestBuildTreePrefix(t *testing.T) {
	tests := []struct {
		name         string
		depth        int
		isLast       bool
		parentIsLast []bool
		expected     string
	}{
		{"depth 0", 0, false, nil, ""},
		{"depth 1, not last", 1, false, nil, "├── "},
		{"depth 1, is last", 1, true, nil, "└── "},
		{"depth 2, parent has siblings", 2, false, []bool{false}, "│   ├── "},
		{"depth 2, parent was last", 2, true, []bool{true}, "    └── "},
		{"depth 3, mixed parents", 3, true, []bool{false, true}, "│       └── "},
		{"depth 3, missing parent info", 3, false, nil, "│   │   ├── "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BuildTreePrefix(tt.depth, tt.isLast, tt.parentIsLast); got != tt.expected {
				t.Errorf("BuildTreePrefix() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestBuildBoxLine(t *testing.T) {
	line := BuildBoxLine("short", 20)
	if utf8.RuneCountInString(line) != 21 { // width plus newline
		t.Errorf("line width = %d, want 21: %q", utf8.RuneCountInString(line), line)
	}

	long := BuildBoxLine(strings.Repeat("ä", 40), 20)
	if !strings.Contains(long, "...") {
		t.Errorf("long content should be truncated: %q", long)
	}
	if utf8.RuneCountInString(long) != 21 {
		t.Errorf("truncated line width = %d, want 21", utf8.RuneCountInString(long))
	}
}

func TestBuildBoxHeader_GrowsForTitle(t *testing.T) {
	header := BuildBoxHeader("a rather long title", 5)
	lines := strings.Split(strings.TrimSuffix(header, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("header has %d lines, want 3", len(lines))
	}
	if !strings.Contains(lines[1], "a rather long title") {
		t.Errorf("title missing from header: %q", lines[1])
	}
	for _, l := range lines {
		if utf8.RuneCountInString(l) != utf8.RuneCountInString(lines[0]) {
			t.Errorf("header lines differ in width: %q", header)
		}
	}
}

func TestFailureTree(t *testing.T) {
	run := &types.RunResult{
		Modules: []*types.ModuleResult{
			{Module: "bold", Status: types.StatusPass},
			{
				Module: "table",
				Status: types.StatusFail,
				Tests: []types.QUnitTest{
					{Module: "table", Name: "insert row", Passed: 3, Failed: 1, Total: 4, Messages: []string{"expected 3 rows\nstack"}},
					{Module: "table", Name: "delete row", Passed: 2, Total: 2},
				},
			},
			{Module: "undo", Status: types.StatusError, Error: errors.New("timed out waiting for results")},
		},
	}

	out := FailureTree(run, 80)
	for _, want := range []string{
		"Failures (2 of 3 modules)",
		"├── table",
		"│   └── insert row (1/4)",
		"expected 3 rows",
		"└── undo: timed out waiting for results",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("FailureTree() missing %q in:\n%s", want, out)
		}
	}
	if strings.Contains(out, "delete row") {
		t.Errorf("passing tests must not be listed:\n%s", out)
	}
	if strings.Contains(out, "stack") {
		t.Errorf("only the first message line is shown:\n%s", out)
	}
	if strings.Contains(out, "bold") {
		t.Errorf("passing modules must not be listed:\n%s", out)
	}
}

func TestFailureTree_NothingFailed(t *testing.T) {
	run := &types.RunResult{Modules: []*types.ModuleResult{{Module: "bold", Status: types.StatusPass}}}
	if out := FailureTree(run, 80); out != "" {
		t.Errorf("FailureTree() = %q, want empty", out)
	}
}
