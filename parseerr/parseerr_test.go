// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package parseerr_test

import (
	"strings"
	"testing"

	"github.com/mdhender/parsekit/parseerr"
	"github.com/mdhender/parsekit/token"
)

func TestErrorIsSingleLineSummary(t *testing.T) {
	e := parseerr.New("Expected token: B", "ab\ncd", token.Span{Start: 3, End: 4})
	if got, want := e.Error(), "2:1: Expected token: B"; got != want {
		t.Fatalf("want %q, got %q", want, got)
	}
}

func TestRenderSingleLineSpan(t *testing.T) {
	e := parseerr.New("Expected token: B", "abc", token.Span{Start: 1, End: 2})
	got := e.Render()
	for _, want := range []string{"1:2: Expected token: B", "1 | abc", "  |  ^"} {
		if !strings.Contains(got, want) {
			t.Fatalf("want rendering to contain %q, got:\n%s", want, got)
		}
	}
}

// TestRenderMultiLineSpan covers spec.md §4.5's requirement that a span
// crossing line boundaries prints every covered line, each with its own
// caret run.
func TestRenderMultiLineSpan(t *testing.T) {
	source := "one\ntwo\nthree"
	// span covers "ne\ntwo\nthr": byte 1 through byte 11 (exclusive)
	e := parseerr.New("Unterminated block", source, token.Span{Start: 1, End: 11})
	got := e.Render()

	for _, want := range []string{
		"1:2: Unterminated block",
		"1 | one",
		"  |  ^^",
		"2 | two",
		"  | ^^^",
		"3 | three",
		"  | ^^^",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("want rendering to contain %q, got:\n%s", want, got)
		}
	}
}

func TestRenderClampsCaretAtEndOfFinalLine(t *testing.T) {
	source := "ab"
	e := parseerr.New("Expected end of input", source, token.Span{Start: 2, End: 2})
	got := e.Render()
	if !strings.Contains(got, "1 | ab") {
		t.Fatalf("want rendering to contain line text, got:\n%s", got)
	}
}
