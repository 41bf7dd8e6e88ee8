// Copyright (c) 2024 Michael D Henderson. All rights reserved.

// Package lexer implements the engine's greedy, declaration-ordered
// tokeniser: try each declared pattern at the current position in
// declaration order, accept the first one that matches a non-empty
// prefix, and repeat until the source is consumed or nothing matches.
package lexer

import (
	"unicode/utf8"

	"github.com/mdhender/parsekit/token"
)

// Declaration pairs a token kind with the pattern that recognises it.
// Declaration order is significant: it is both the lexer's tie-break
// for ambiguous prefixes and the grammar's canonical ordering for
// Grammar.TokenKinds.
type Declaration struct {
	Kind    token.Kind
	Pattern Pattern
}

// Error is raised when no declared pattern matches at the current
// position. Span covers exactly the one (possibly multi-byte) rune that
// could not be recognised.
type Error struct {
	Span token.Span
}

func (e *Error) Error() string {
	return "Unrecognized token"
}

// Lexer tokenises source text against an ordered set of declarations.
type Lexer struct {
	decls []Declaration
}

// New builds a Lexer over decls. The slice is read-only after this call;
// New does not mutate it.
func New(decls []Declaration) *Lexer {
	return &Lexer{decls: append([]Declaration(nil), decls...)}
}

// Tokenize scans source from byte 0 to len(source), trying each
// declaration in order at every position. It returns either the
// complete ordered token sequence, or the lexical Error for the first
// unrecognised character.
func (l *Lexer) Tokenize(source string) ([]token.Token, *Error) {
	var toks []token.Token
	i, n := 0, len(source)
	for i < n {
		kind, matchLen, ok := l.matchAt(source, i)
		if !ok {
			_, w := utf8.DecodeRuneInString(source[i:])
			if w == 0 {
				w = 1
			}
			return nil, &Error{Span: token.Span{Start: i, End: i + w}}
		}
		toks = append(toks, token.Token{Kind: kind, Span: token.Span{Start: i, End: i + matchLen}})
		i += matchLen
	}
	return toks, nil
}

// matchAt tries every declaration, in order, at offset i. It returns the
// first declaration whose pattern matches a non-empty prefix.
func (l *Lexer) matchAt(source string, i int) (token.Kind, int, bool) {
	for _, d := range l.decls {
		if n := d.Pattern.Match(source, i); n > 0 {
			return d.Kind, n, true
		}
	}
	return "", 0, false
}
