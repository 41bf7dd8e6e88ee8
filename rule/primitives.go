// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package rule

import (
	"github.com/mdhender/parsekit/ast"
	"github.com/mdhender/parsekit/token"
)

// Token succeeds when the current token's kind equals k, consuming it
// and yielding the token itself as the Value.
func Token(k token.Kind) Rule {
	return func(s State) (Result, *RuleError) {
		tok, ok := s.Stream.At(s.Index)
		if !ok || tok.Kind != k {
			return Result{}, &RuleError{
				Message: "Expected token: " + string(k),
				Span:    s.current(),
			}
		}
		return Result{
			State:    s.advance(1),
			Value:    tok,
			Consumed: []token.Token{tok},
		}, nil
	}
}

// Empty always succeeds, consumes nothing, and yields nil.
func Empty() Rule {
	return func(s State) (Result, *RuleError) {
		return Result{State: s}, nil
	}
}

// EOF succeeds only at the end of the stream. It consumes nothing.
func EOF() Rule {
	return func(s State) (Result, *RuleError) {
		if _, ok := s.Stream.At(s.Index); ok {
			return Result{}, &RuleError{
				Message: "Expected end of input",
				Span:    s.current(),
			}
		}
		return Result{State: s}, nil
	}
}

// Optional tries r; if r fails, Optional succeeds at the original state
// with a nil Value and no consumed tokens. Optional never propagates r's
// failure.
func Optional(r Rule) Rule {
	return func(s State) (Result, *RuleError) {
		if res, err := r(s); err == nil {
			return res, nil
		}
		return Result{State: s}, nil
	}
}

// Sequence runs each rule in turn, threading state forward, and fails at
// the first rule that fails — returning that rule's error with the
// original state untouched. On success its Value is a []Value in rule
// order, and Consumed is the concatenation of every rule's consumed
// tokens.
func Sequence(rs ...Rule) Rule {
	return func(s State) (Result, *RuleError) {
		cur := s
		values := make([]Value, 0, len(rs))
		var consumed []token.Token
		for _, r := range rs {
			res, err := r(cur)
			if err != nil {
				return Result{}, err
			}
			cur = res.State
			values = append(values, res.Value)
			consumed = append(consumed, res.Consumed...)
		}
		return Result{State: cur, Value: values, Consumed: consumed}, nil
	}
}

// Choice tries each alternative, in declaration order, at the original
// state. The first to succeed wins. If every alternative fails, Choice
// reports the error of whichever alternative failed furthest into the
// input (the "furthest error" rule); ties are broken by preferring the
// earliest-declared alternative. Choice with no alternatives always
// fails with a RuleError reading "No choices available".
func Choice(rs ...Rule) Rule {
	return func(s State) (Result, *RuleError) {
		if len(rs) == 0 {
			return Result{}, &RuleError{
				Message: "No choices available",
				Span:    s.current(),
			}
		}
		var furthest *RuleError
		for _, r := range rs {
			res, err := r(s)
			if err == nil {
				return res, nil
			}
			if furthest == nil || err.Span.Start > furthest.Span.Start {
				furthest = err
			}
		}
		return Result{}, furthest
	}
}

// ZeroOrMore repeatedly applies r until it fails or matches zero tokens,
// whichever comes first — a rule that can succeed without consuming
// input would otherwise loop forever, so ZeroOrMore treats a
// zero-length success as the end of the loop rather than as another
// iteration. It never fails. Value is a []Value of every iteration's
// result, in order; it may be empty.
func ZeroOrMore(r Rule) Rule {
	return func(s State) (Result, *RuleError) {
		cur := s
		var values []Value
		var consumed []token.Token
		for {
			res, err := r(cur)
			if err != nil {
				break
			}
			if res.State.Index == cur.Index {
				break
			}
			cur = res.State
			values = append(values, res.Value)
			consumed = append(consumed, res.Consumed...)
		}
		return Result{State: cur, Value: values, Consumed: consumed}, nil
	}
}

// OneOrMore is ZeroOrMore that requires at least one iteration to
// succeed. Its first attempt's failure (if any) is the error it
// reports.
func OneOrMore(r Rule) Rule {
	zom := ZeroOrMore(r)
	return func(s State) (Result, *RuleError) {
		first, err := r(s)
		if err != nil {
			return Result{}, err
		}
		rest, _ := zom(first.State)
		values := append([]Value{first.Value}, rest.Value.([]Value)...)
		consumed := append(append([]token.Token{}, first.Consumed...), rest.Consumed...)
		return Result{State: rest.State, Value: values, Consumed: consumed}, nil
	}
}

// List matches item rules separated by sep, requiring at least minLen
// items: the first item plus minLen-1 further (sep,item) pairs are
// mandatory, and a failure among those hard-fails the whole rule. Every
// (sep,item) pair beyond that floor is an optional repeat — if sep
// matches but the following item doesn't, that attempt rolls back and
// the loop simply stops, leaving a dangling trailing separator
// unconsumed for the enclosing rule to reject, the same way ZeroOrMore
// swallows a failing final attempt. Value is a []Value of the matched
// items (separators are discarded).
func List(item, sep Rule, minLen int) Rule {
	return func(s State) (Result, *RuleError) {
		cur := s
		var values []Value
		var consumed []token.Token

		first, err := item(cur)
		if err != nil {
			if minLen <= 0 {
				return Result{State: s, Value: []Value{}}, nil
			}
			return Result{}, err
		}
		cur = first.State
		values = append(values, first.Value)
		consumed = append(consumed, first.Consumed...)

		for {
			sepRes, sepErr := sep(cur)
			if sepErr != nil {
				break
			}
			itemRes, itemErr := item(sepRes.State)
			if itemErr != nil {
				if len(values) < minLen {
					return Result{}, itemErr
				}
				// minLen is already satisfied: this (sep,item) pair was
				// an optional tail attempt, not a mandatory repeat.
				// Roll back — leave the dangling separator unconsumed
				// for the enclosing rule to reject — and stop, the same
				// way ZeroOrMore swallows a failing final attempt.
				break
			}
			cur = itemRes.State
			values = append(values, itemRes.Value)
			consumed = append(consumed, sepRes.Consumed...)
			consumed = append(consumed, itemRes.Consumed...)
		}

		if len(values) < minLen {
			return Result{}, &RuleError{
				Message: "Expected at least one more item in list",
				Span:    s.current(),
			}
		}
		return Result{State: cur, Value: values, Consumed: consumed}, nil
	}
}

// Map runs r and, on success, replaces its Value with f(value). Map
// never touches Consumed or the resulting State. A panic inside f is
// not recovered — grammar authors are expected to write total
// functions.
func Map(r Rule, f func(Value) Value) Rule {
	return func(s State) (Result, *RuleError) {
		res, err := r(s)
		if err != nil {
			return Result{}, err
		}
		res.Value = f(res.Value)
		return res, nil
	}
}

// Text runs r and replaces its Value with the exact source text its
// consumed tokens span — the concatenation of every byte between the
// first and last consumed token, including any bytes (whitespace,
// skipped tokens) in between. Text of a rule that consumed nothing
// yields the empty string.
func Text(r Rule) Rule {
	return func(s State) (Result, *RuleError) {
		res, err := r(s)
		if err != nil {
			return Result{}, err
		}
		if len(res.Consumed) == 0 {
			res.Value = ""
			return res, nil
		}
		span := token.Cover(spansOf(res.Consumed)...)
		res.Value = s.Stream.Source()[span.Start:span.End]
		return res, nil
	}
}

func spansOf(toks []token.Token) []token.Span {
	spans := make([]token.Span, len(toks))
	for i, t := range toks {
		spans[i] = t.Span
	}
	return spans
}

// FieldSpec names one field of a Struct: the Go-side key it is stored
// under, and the rule that produces its value. A field whose Name is
// Anonymous contributes its Consumed tokens (for span coverage) without
// adding an entry to the resulting map — it exists to let grammar
// authors thread separators and punctuation through a struct body
// without surfacing them as properties.
type FieldSpec struct {
	Name string
	Rule Rule
}

// Anonymous marks a FieldSpec whose value is discarded from the
// resulting struct's properties.
const Anonymous = ""

// Field builds a FieldSpec. A convenience constructor mirroring the
// struct literal, kept because it reads better at grammar call sites:
// Field("name", identifier).
func Field(name string, r Rule) FieldSpec {
	return FieldSpec{Name: name, Rule: r}
}

// Struct runs each field's rule in turn, threading state forward as
// Sequence does, and fails at the first field that fails. On success
// its Value is a map[string]Value keyed by each named field (anonymous
// fields are omitted), and Consumed is every field's consumed tokens
// concatenated in order.
func Struct(fields ...FieldSpec) Rule {
	return func(s State) (Result, *RuleError) {
		cur := s
		out := make(map[string]Value, len(fields))
		var consumed []token.Token
		for _, f := range fields {
			res, err := f.Rule(cur)
			if err != nil {
				return Result{}, err
			}
			cur = res.State
			if f.Name != Anonymous {
				out[f.Name] = res.Value
			}
			consumed = append(consumed, res.Consumed...)
		}
		return Result{State: cur, Value: out, Consumed: consumed}, nil
	}
}

// Node runs r and wraps its result in an *ast.Node of the given type,
// recording every token r consumed so the node's span can be computed
// later. Node is typically applied at the boundary of each uppercase
// ("node-producing") rule in a grammar.
func Node(typ ast.NodeType, r Rule) Rule {
	return func(s State) (Result, *RuleError) {
		res, err := r(s)
		if err != nil {
			return Result{}, err
		}
		n := &ast.Node{
			Type:       typ,
			Properties: res.Value,
			Tokens:     spansOf(res.Consumed),
		}
		res.Value = n
		return res, nil
	}
}

// withName wraps r so that, if s.Debug is set, it is invoked after r
// runs with the rule's name, the position it was tried at, and whether
// it succeeded. grammar.Build installs this around every named rule
// in a grammar's rule table (Grammar.WithDebug supplies the callback) —
// it is not applied automatically to anonymous combinators built inline.
func withName(name string, r Rule) Rule {
	return func(s State) (Result, *RuleError) {
		res, err := r(s)
		if s.Debug != nil {
			s.Debug(name, s.Index, err == nil)
		}
		return res, err
	}
}

// WithDebug wraps r so it reports through State.Debug under name. It is
// exported so packages outside rule (notably grammar) can instrument
// rules built from grammar-supplied factories without reimplementing
// the bookkeeping in withName.
func WithDebug(name string, r Rule) Rule {
	return withName(name, r)
}
