// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package lexer

import (
	"regexp"
	"strings"
)

// Pattern matches a token kind's lexeme anchored at a specific byte
// offset into src. It returns the length in bytes of the match, or -1
// if the pattern does not match starting exactly at offset. A zero
// length is a valid return value here — it is the lexer's job (not the
// pattern's) to reject zero-length matches, per the "no zero-length
// tokens" rule.
type Pattern interface {
	Match(src string, offset int) int
}

// Literal matches its exact text, verbatim, nothing more.
type Literal string

func (l Literal) Match(src string, offset int) int {
	if strings.HasPrefix(src[offset:], string(l)) {
		return len(l)
	}
	return -1
}

// Regexp matches a regular expression anchored at offset. Use NewRegexp
// to build one — it takes care of anchoring the supplied pattern at the
// start of the string being matched.
type Regexp struct {
	re *regexp.Regexp
}

// NewRegexp compiles pattern and anchors it so that it only ever matches
// at the very start of the string handed to Match (i.e. at the lexer's
// current offset, never later in the source).
func NewRegexp(pattern string) (Regexp, error) {
	re, err := regexp.Compile(`^(?:` + pattern + `)`)
	if err != nil {
		return Regexp{}, err
	}
	return Regexp{re: re}, nil
}

func (r Regexp) Match(src string, offset int) int {
	loc := r.re.FindStringIndex(src[offset:])
	if loc == nil {
		return -1
	}
	return loc[1]
}
