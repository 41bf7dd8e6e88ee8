// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package rule_test

import (
	"testing"

	"github.com/go-test/deep"
	"github.com/mdhender/parsekit/ast"
	"github.com/mdhender/parsekit/rule"
	"github.com/mdhender/parsekit/token"
)

func stateFor(kinds ...token.Kind) rule.State {
	var toks []token.Token
	pos := 0
	for _, k := range kinds {
		toks = append(toks, token.Token{Kind: k, Span: token.Span{Start: pos, End: pos + 1}})
		pos++
	}
	return rule.State{Stream: token.NewStream(repeat("x", pos), toks)}
}

func repeat(s string, n int) string {
	out := make([]byte, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, s[0])
	}
	return string(out)
}

func TestTokenSuccessAndFailure(t *testing.T) {
	s := stateFor("NUM", "PLUS")
	res, err := rule.Token("NUM")(s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.State.Index != 1 {
		t.Fatalf("want index 1, got %d", res.State.Index)
	}
	if len(res.Consumed) != 1 {
		t.Fatalf("want 1 consumed token, got %d", len(res.Consumed))
	}

	_, err = rule.Token("PLUS")(s)
	if err == nil {
		t.Fatal("expected failure matching PLUS at index 0")
	}
}

func TestEmptyNeverFails(t *testing.T) {
	s := stateFor()
	res, err := rule.Empty()(s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Value != nil {
		t.Fatalf("want nil value, got %v", res.Value)
	}
	if res.State.Index != 0 {
		t.Fatalf("want unchanged index, got %d", res.State.Index)
	}
}

func TestEOF(t *testing.T) {
	s := stateFor("NUM")
	if _, err := rule.EOF()(s); err == nil {
		t.Fatal("expected failure: tokens remain")
	}
	end := rule.State{Stream: s.Stream, Index: 1}
	if _, err := rule.EOF()(end); err != nil {
		t.Fatalf("expected success at end of stream, got %v", err)
	}
}

func TestOptionalRecoversFailure(t *testing.T) {
	s := stateFor("NUM")
	res, err := rule.Optional(rule.Token("PLUS"))(s)
	if err != nil {
		t.Fatalf("Optional must never fail, got %v", err)
	}
	if res.State.Index != 0 {
		t.Fatalf("want original index preserved, got %d", res.State.Index)
	}
	if res.Value != nil {
		t.Fatalf("want nil value on recovered failure, got %v", res.Value)
	}
}

func TestSequenceStopsAtFirstFailure(t *testing.T) {
	s := stateFor("NUM", "PLUS")
	_, err := rule.Sequence(rule.Token("NUM"), rule.Token("NUM"))(s)
	if err == nil {
		t.Fatal("expected failure on second element")
	}

	res, err := rule.Sequence(rule.Token("NUM"), rule.Token("PLUS"))(s)
	if err != nil {
		t.Fatalf("unexpected failure: %v", err)
	}
	if res.State.Index != 2 {
		t.Fatalf("want index 2, got %d", res.State.Index)
	}
	if diff := deep.Equal(res.Value, []rule.Value{
		token.Token{Kind: "NUM", Span: token.Span{Start: 0, End: 1}},
		token.Token{Kind: "PLUS", Span: token.Span{Start: 1, End: 2}},
	}); diff != nil {
		t.Error(diff)
	}
}

func TestChoicePrefersFirstSuccess(t *testing.T) {
	s := stateFor("PLUS")
	res, err := rule.Choice(rule.Token("NUM"), rule.Token("PLUS"))(s)
	if err != nil {
		t.Fatalf("unexpected failure: %v", err)
	}
	if tok, ok := res.Value.(token.Token); !ok || tok.Kind != "PLUS" {
		t.Fatalf("want PLUS token, got %v", res.Value)
	}
}

func TestChoiceFurthestErrorWins(t *testing.T) {
	s := stateFor("NUM", "NUM")
	near := rule.Token("PLUS") // fails at index 0
	far := rule.Sequence(rule.Token("NUM"), rule.Token("PLUS")) // fails at index 1

	_, err := rule.Choice(near, far)(s)
	if err == nil {
		t.Fatal("expected failure")
	}
	if err.Span.Start != 1 {
		t.Fatalf("want furthest error at offset 1, got %d", err.Span.Start)
	}
}

func TestChoiceTieBreaksOnEarliestDeclaration(t *testing.T) {
	s := stateFor("LBRACE")
	first := func(rule.State) (rule.Result, *rule.RuleError) {
		return rule.Result{}, &rule.RuleError{Message: "first", Span: s.Stream.EOFSpan()}
	}
	second := func(rule.State) (rule.Result, *rule.RuleError) {
		return rule.Result{}, &rule.RuleError{Message: "second", Span: s.Stream.EOFSpan()}
	}
	_, err := rule.Choice(first, second)(s)
	if err == nil || err.Message != "first" {
		t.Fatalf("want tie broken toward first declared alternative, got %v", err)
	}
}

func TestChoiceNoAlternatives(t *testing.T) {
	s := stateFor()
	_, err := rule.Choice()(s)
	if err == nil {
		t.Fatal("expected failure with no choices")
	}
}

func TestZeroOrMoreStopsOnZeroLengthMatch(t *testing.T) {
	s := stateFor("NUM", "NUM")
	zeroLen := rule.Empty()
	res, err := rule.ZeroOrMore(zeroLen)(s)
	if err != nil {
		t.Fatalf("ZeroOrMore must never fail, got %v", err)
	}
	if res.State.Index != 0 {
		t.Fatalf("want loop to halt immediately on zero-length match, got index %d", res.State.Index)
	}
	if len(res.Value.([]rule.Value)) != 0 {
		t.Fatalf("want zero iterations recorded, got %v", res.Value)
	}
}

func TestZeroOrMoreConsumesUntilFailure(t *testing.T) {
	s := stateFor("NUM", "NUM", "PLUS")
	res, err := rule.ZeroOrMore(rule.Token("NUM"))(s)
	if err != nil {
		t.Fatalf("unexpected failure: %v", err)
	}
	if res.State.Index != 2 {
		t.Fatalf("want index 2, got %d", res.State.Index)
	}
	if len(res.Value.([]rule.Value)) != 2 {
		t.Fatalf("want 2 iterations, got %v", res.Value)
	}
}

func TestOneOrMoreRequiresOneSuccess(t *testing.T) {
	s := stateFor("PLUS")
	if _, err := rule.OneOrMore(rule.Token("NUM"))(s); err == nil {
		t.Fatal("expected failure with zero matches")
	}

	s = stateFor("NUM", "NUM", "PLUS")
	res, err := rule.OneOrMore(rule.Token("NUM"))(s)
	if err != nil {
		t.Fatalf("unexpected failure: %v", err)
	}
	if res.State.Index != 2 {
		t.Fatalf("want index 2, got %d", res.State.Index)
	}
}

func TestListEmptyAllowedWhenMinLenZero(t *testing.T) {
	s := stateFor("RBRACE")
	res, err := rule.List(rule.Token("NUM"), rule.Token("COMMA"), 0)(s)
	if err != nil {
		t.Fatalf("unexpected failure: %v", err)
	}
	if res.State.Index != 0 {
		t.Fatalf("want unchanged index, got %d", res.State.Index)
	}
	if len(res.Value.([]rule.Value)) != 0 {
		t.Fatalf("want zero items, got %v", res.Value)
	}
}

func TestListRequiresMinLen(t *testing.T) {
	s := stateFor("RBRACE")
	if _, err := rule.List(rule.Token("NUM"), rule.Token("COMMA"), 1)(s); err == nil {
		t.Fatal("expected failure: fewer than minLen items present")
	}
}

func TestListNonEmpty(t *testing.T) {
	s := stateFor("NUM", "COMMA", "NUM", "COMMA", "NUM")
	res, err := rule.List(rule.Token("NUM"), rule.Token("COMMA"), 1)(s)
	if err != nil {
		t.Fatalf("unexpected failure: %v", err)
	}
	if res.State.Index != 5 {
		t.Fatalf("want index 5, got %d", res.State.Index)
	}
	if len(res.Value.([]rule.Value)) != 3 {
		t.Fatalf("want 3 items, got %v", res.Value)
	}
}

// TestListLeavesDanglingTrailingSeparatorForEnclosingRule is seed
// scenario 3: a trailing separator with no item following it is not a
// List-internal failure — minLen is already satisfied, so the failed
// (sep,item) attempt rolls back and List stops, leaving the separator
// for the enclosing rule (here, EOF) to reject.
func TestListLeavesDanglingTrailingSeparatorForEnclosingRule(t *testing.T) {
	s := stateFor("NUM", "COMMA")
	res, err := rule.List(rule.Token("NUM"), rule.Token("COMMA"), 1)(s)
	if err != nil {
		t.Fatalf("unexpected failure: %v", err)
	}
	if res.State.Index != 1 {
		t.Fatalf("want index 1 (comma left unconsumed), got %d", res.State.Index)
	}
	if len(res.Value.([]rule.Value)) != 1 {
		t.Fatalf("want 1 item, got %v", res.Value)
	}
	if _, err := rule.EOF()(res.State); err == nil {
		t.Fatal("expected the enclosing EOF check to reject the dangling separator")
	}
}

func TestMapTransformsValue(t *testing.T) {
	s := stateFor("NUM")
	res, err := rule.Map(rule.Token("NUM"), func(v rule.Value) rule.Value {
		return "mapped"
	})(s)
	if err != nil {
		t.Fatalf("unexpected failure: %v", err)
	}
	if res.Value != "mapped" {
		t.Fatalf("want mapped value, got %v", res.Value)
	}
}

func TestTextReturnsSourceSlice(t *testing.T) {
	s := rule.State{Stream: token.NewStream("12+34", []token.Token{
		{Kind: "NUM", Span: token.Span{Start: 0, End: 2}},
		{Kind: "PLUS", Span: token.Span{Start: 2, End: 3}},
		{Kind: "NUM", Span: token.Span{Start: 3, End: 5}},
	})}
	res, err := rule.Text(rule.Sequence(rule.Token("NUM"), rule.Token("PLUS"), rule.Token("NUM")))(s)
	if err != nil {
		t.Fatalf("unexpected failure: %v", err)
	}
	if res.Value != "12+34" {
		t.Fatalf("want %q, got %q", "12+34", res.Value)
	}
}

func TestTextOfEmptyIsEmptyString(t *testing.T) {
	s := stateFor("NUM")
	res, err := rule.Text(rule.Empty())(s)
	if err != nil {
		t.Fatalf("unexpected failure: %v", err)
	}
	if res.Value != "" {
		t.Fatalf("want empty string, got %q", res.Value)
	}
}

func TestStructOmitsAnonymousFields(t *testing.T) {
	s := stateFor("LBRACE", "NUM", "RBRACE")
	res, err := rule.Struct(
		rule.Field(rule.Anonymous, rule.Token("LBRACE")),
		rule.Field("value", rule.Token("NUM")),
		rule.Field(rule.Anonymous, rule.Token("RBRACE")),
	)(s)
	if err != nil {
		t.Fatalf("unexpected failure: %v", err)
	}
	m, ok := res.Value.(map[string]rule.Value)
	if !ok {
		t.Fatalf("want map[string]rule.Value, got %T", res.Value)
	}
	if diff := deep.Equal(m, map[string]rule.Value{
		"value": token.Token{Kind: "NUM", Span: token.Span{Start: 1, End: 2}},
	}); diff != nil {
		t.Error(diff)
	}
	if len(res.Consumed) != 3 {
		t.Fatalf("want all 3 tokens recorded as consumed, got %d", len(res.Consumed))
	}
}

func TestNodeRecordsTypeAndSpan(t *testing.T) {
	s := stateFor("NUM", "PLUS", "NUM")
	res, err := rule.Node("BinaryExpr", rule.Sequence(
		rule.Token("NUM"), rule.Token("PLUS"), rule.Token("NUM"),
	))(s)
	if err != nil {
		t.Fatalf("unexpected failure: %v", err)
	}
	n, ok := res.Value.(*ast.Node)
	if !ok {
		t.Fatalf("want *ast.Node, got %T", res.Value)
	}
	if n.Type != "BinaryExpr" {
		t.Fatalf("want type BinaryExpr, got %q", n.Type)
	}
	if got := n.Span(); got.Start != 0 || got.End != 3 {
		t.Fatalf("want span [0,3), got [%d,%d)", got.Start, got.End)
	}
}

func TestWithDebugReportsOutcome(t *testing.T) {
	var calls []string
	s := stateFor("NUM")
	s.Debug = func(name string, idx int, ok bool) {
		calls = append(calls, name)
		if !ok {
			t.Fatalf("want success reported for %q", name)
		}
	}
	if _, err := rule.WithDebug("number", rule.Token("NUM"))(s); err != nil {
		t.Fatalf("unexpected failure: %v", err)
	}
	if diff := deep.Equal(calls, []string{"number"}); diff != nil {
		t.Error(diff)
	}
}
