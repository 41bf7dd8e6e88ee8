// Copyright (c) 2024 Michael D Henderson. All rights reserved.

// Package parseerr renders a parse failure as a human-readable,
// caret-annotated diagnostic: the offending line, a gutter with the
// line number, and a run of carets under the exact byte span that
// failed.
package parseerr

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mdhender/parsekit/token"
)

// ParseError is the top-level failure a Grammar.Parse or Grammar.Tokenize
// returns. Message is the innermost lexer or rule error's message; Source
// is the full input the failure occurred against, retained so Render can
// recover the offending line without the caller threading it through.
type ParseError struct {
	Message string
	Source  string
	Span    token.Span
}

// New builds a ParseError from a message, the source it was parsing, and
// the span to blame.
func New(message, source string, span token.Span) *ParseError {
	return &ParseError{Message: message, Source: source, Span: span}
}

// Error satisfies the error interface with a single-line summary:
// "<line>:<column>: <message>".
func (e *ParseError) Error() string {
	line, col := resolvePosition(e.Source, e.Span.Start)
	return fmt.Sprintf("%d:%d: %s", line, col, e.Message)
}

// Render produces the full multi-line, caret-annotated diagnostic. If
// the span crosses line boundaries, each covered line is printed with
// its own caret run, clamped to that line's own text.
func (e *ParseError) Render() string {
	lines := splitSourceLines(e.Source)
	startLine, startCol := resolvePosition(e.Source, e.Span.Start)

	lastOffset := e.Span.Start
	if e.Span.End > e.Span.Start {
		lastOffset = e.Span.End - 1
	}
	endLine, endCol := resolvePosition(e.Source, lastOffset)

	gutter := strconv.Itoa(endLine)
	pad := strings.Repeat(" ", len(gutter))

	var b strings.Builder
	fmt.Fprintf(&b, "%d:%d: %s\n", startLine, startCol, e.Message)
	fmt.Fprintf(&b, "%s |\n", pad)
	for ln := startLine; ln <= endLine; ln++ {
		var text string
		if ln >= 1 && ln <= len(lines) {
			text = lines[ln-1]
		}

		caretStart := 1
		if ln == startLine {
			caretStart = startCol
		}
		caretEnd := len(text) + 1
		if ln == endLine {
			caretEnd = endCol + 1
		}
		caretLen := caretEnd - caretStart
		if caretLen < 1 {
			caretLen = 1
		}
		// Clamp the caret run to the end of the line it is annotating —
		// a span that reaches EOF on the last line would otherwise
		// overshoot text's length. A span that starts at or past the end
		// of the line still gets one caret, one column after the text.
		if caretStart-1+caretLen > len(text) {
			caretLen = len(text) - (caretStart - 1)
			if caretLen < 1 {
				caretLen = 1
			}
		}

		fmt.Fprintf(&b, "%*d | %s\n", len(gutter), ln, text)
		fmt.Fprintf(&b, "%s | %s%s\n", pad, strings.Repeat(" ", caretStart-1), strings.Repeat("^", caretLen))
	}
	return b.String()
}

// resolvePosition converts a byte offset into source into a 1-based
// (line, column) pair. Line endings are recognised as "\n", "\r\n", or a
// lone "\r".
func resolvePosition(source string, offset int) (line, col int) {
	if offset > len(source) {
		offset = len(source)
	}
	line, col = 1, 1
	i := 0
	for i < offset {
		switch source[i] {
		case '\n':
			line++
			col = 1
			i++
		case '\r':
			line++
			col = 1
			i++
			if i < len(source) && source[i] == '\n' {
				i++
			}
		default:
			col++
			i++
		}
	}
	return line, col
}

// splitSourceLines splits source into lines, recognising "\n", "\r\n",
// and a lone "\r" as line endings. The trailing line terminator is
// stripped from each returned line.
func splitSourceLines(source string) []string {
	var lines []string
	start := 0
	i := 0
	for i < len(source) {
		switch source[i] {
		case '\n':
			lines = append(lines, source[start:i])
			i++
			start = i
		case '\r':
			lines = append(lines, source[start:i])
			i++
			if i < len(source) && source[i] == '\n' {
				i++
			}
			start = i
		default:
			i++
		}
	}
	lines = append(lines, source[start:])
	return lines
}
