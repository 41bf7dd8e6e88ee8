// Copyright (c) 2024 Michael D Henderson. All rights reserved.

// Package rule implements the combinator algebra: the primitive and
// composite parsing operators described by the grammar specification,
// every one of them a pure function from a State to either a Result or
// a RuleError. Combinators never recover from a RuleError themselves —
// only Optional, ZeroOrMore/OneOrMore (after at least one success), and
// Choice (on the success of some alternative) intentionally swallow a
// failure. Everything else propagates the innermost error untouched.
package rule

import "github.com/mdhender/parsekit/token"

// Value is the erased result type a Rule produces. A primitive's Value
// is concrete (a Token, a string, nil); a composite's Value is shaped by
// whichever combinators built it — []Value for Sequence, map[string]Value
// for Struct, a *ast.Node for Node. Rules are polymorphic over T the way
// the specification describes; Go erases that to `any` and leans on
// structural checks downstream, the same way a dynamically-typed
// implementation would.
type Value = any

// DebugFunc is called, if set on a State, after a named rule (one
// registered directly in a grammar's rule table) finishes evaluating.
// It never affects the parse result — it exists purely so a grammar
// author can attach tracing without sprinkling log calls inside
// hand-written rules. idx is the position the rule was tried at; ok
// reports whether it succeeded.
type DebugFunc func(name string, idx int, ok bool)

// State is the input every combinator reads. It is immutable from a
// combinator's point of view — advancing means returning a new State,
// never mutating this one.
type State struct {
	Stream *token.Stream
	Index  int
	Debug  DebugFunc
}

// advance returns a copy of s positioned n tokens further along.
func (s State) advance(n int) State {
	s.Index += n
	return s
}

// current returns the span to blame when a rule fails at s: the current
// token's span, or the stream's EOF span if there is no current token.
func (s State) current() token.Span {
	if tok, ok := s.Stream.At(s.Index); ok {
		return tok.Span
	}
	return s.Stream.EOFSpan()
}

// RuleError is what a failing combinator returns: a message and the
// span at which it could not proceed. The caller's State is always left
// unchanged on failure — combinators never commit partial progress.
type RuleError struct {
	Message string
	Span    token.Span
}

func (e *RuleError) Error() string {
	return e.Message
}

// Result is what a succeeding combinator returns.
type Result struct {
	State    State
	Value    Value
	Consumed []token.Token
}

// Rule is the combinator type: a pure function of State to either a
// Result or a RuleError.
type Rule func(State) (Result, *RuleError)
