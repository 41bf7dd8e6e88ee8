// Copyright (c) 2024 Michael D Henderson. All rights reserved.

// Package grammar assembles token declarations and rule factories into a
// runnable Grammar: it resolves mutual recursion between rules via lazy
// indirection cells, selects the root AST type, builds the lexer, and
// drives a full parse (tokenise, evaluate, check end-of-input) while
// translating every failure into a parseerr.ParseError.
package grammar

import (
	"fmt"
	"unicode"

	"github.com/google/uuid"

	"github.com/mdhender/parsekit/ast"
	"github.com/mdhender/parsekit/cerrs"
	"github.com/mdhender/parsekit/lexer"
	"github.com/mdhender/parsekit/parseerr"
	"github.com/mdhender/parsekit/rule"
	"github.com/mdhender/parsekit/token"
)

// TokenDecl declares one lexical class: the kind it produces, and the
// pattern the lexer matches to recognise it. Declaration order governs
// both lexing priority (§4.1) and Grammar.TokenKinds' ordering.
type TokenDecl struct {
	Kind    token.Kind
	Pattern lexer.Pattern
}

// Rules is the handle a RuleFactory receives. Rule returns a lazy
// reference to another rule by name: calling the returned rule.Rule
// delegates to whatever rule ends up registered under that name, even
// if that rule's factory has not run yet. This is what lets mutually
// recursive rules refer to each other without forward declarations.
type Rules interface {
	Rule(name string) rule.Rule
}

// RuleFactory builds a rule.Rule given a handle onto the rest of the
// grammar's rules. A factory must not invoke any rule it looks up via
// Rules — only store the lazy reference in a combinator — since other
// rules' factories may not have run yet.
type RuleFactory func(Rules) rule.Rule

// NamedRuleFactory pairs a rule's declared name with its factory.
// Declaration order matters: it fixes the grammar's root-selection rule
// (the first uppercase name wins) and the ordering of NodeTypes.
type NamedRuleFactory struct {
	Name    string
	Factory RuleFactory
}

// ruleCell is the indirection point a lazy reference resolves through.
// It starts empty and is filled once, right after its own rule's
// factory has run; lazy references only call through it at parse time.
type ruleCell struct {
	rule rule.Rule
}

func (c *ruleCell) call(s rule.State) (rule.Result, *rule.RuleError) {
	return c.rule(s)
}

type ruleTable struct {
	cells map[string]*ruleCell
	names map[string]bool
	err   error
}

func (t *ruleTable) Rule(name string) rule.Rule {
	if !t.names[name] && t.err == nil {
		t.err = fmt.Errorf("%w: %s", cerrs.ErrUndefinedRule, name)
	}
	cell, ok := t.cells[name]
	if !ok {
		cell = &ruleCell{}
		t.cells[name] = cell
	}
	return cell.call
}

// Grammar is an immutable, fully resolved parser: a lexer, a table of
// rules keyed by name, and the root AST type the driver invokes on
// Parse. Build it with Build or FromDSL (see package dsl); a Grammar
// returned successfully is always complete and consistent.
type Grammar struct {
	ID         uuid.UUID
	lexer      *lexer.Lexer
	rules      map[string]rule.Rule
	root       string
	tokenKinds []token.Kind
	nodeTypes  []ast.NodeType
	debug      rule.DebugFunc

	// tokenDecls and ruleDefs are retained so Extend can rebuild a
	// fresh Grammar from the union of this one's declarations and the
	// caller's additions, re-running the whole lazy-resolution pass
	// rather than trying to splice live rule closures together.
	tokenDecls []TokenDecl
	ruleDefs   []NamedRuleFactory
}

func isUppercaseName(name string) bool {
	for _, r := range name {
		return unicode.IsUpper(r)
	}
	return false
}

// Build assembles a Grammar from token declarations and rule
// definitions. It validates that every rule name is declared exactly
// once, that every lazy rule reference resolves to a declared name, and
// that at least one node rule (uppercase-leading name) exists to serve
// as the root. The first such rule in declaration order is the root.
func Build(tokenDecls []TokenDecl, ruleDefs []NamedRuleFactory) (*Grammar, error) {
	if len(ruleDefs) == 0 {
		return nil, cerrs.ErrEmptyGrammar
	}

	names := make(map[string]bool, len(ruleDefs))
	for _, d := range ruleDefs {
		if names[d.Name] {
			return nil, fmt.Errorf("%w: %s", cerrs.ErrDuplicateRule, d.Name)
		}
		names[d.Name] = true
	}

	table := &ruleTable{cells: make(map[string]*ruleCell, len(ruleDefs)), names: names}

	built := make(map[string]rule.Rule, len(ruleDefs))
	var nodeTypes []ast.NodeType
	root := ""
	for _, d := range ruleDefs {
		r := d.Factory(table)
		if isUppercaseName(d.Name) {
			r = rule.Node(ast.NodeType(d.Name), r)
			nodeTypes = append(nodeTypes, ast.NodeType(d.Name))
			if root == "" {
				root = d.Name
			}
		}
		r = rule.WithDebug(d.Name, r)
		built[d.Name] = r
		cell, ok := table.cells[d.Name]
		if !ok {
			cell = &ruleCell{}
			table.cells[d.Name] = cell
		}
		cell.rule = r
	}

	if table.err != nil {
		return nil, table.err
	}
	if root == "" {
		return nil, cerrs.ErrNoRootRule
	}

	decls := make([]lexer.Declaration, len(tokenDecls))
	kinds := make([]token.Kind, len(tokenDecls))
	for i, d := range tokenDecls {
		decls[i] = lexer.Declaration{Kind: d.Kind, Pattern: d.Pattern}
		kinds[i] = d.Kind
	}

	return &Grammar{
		ID:         uuid.New(),
		lexer:      lexer.New(decls),
		rules:      built,
		root:       root,
		tokenKinds: kinds,
		nodeTypes:  nodeTypes,
		tokenDecls: append([]TokenDecl(nil), tokenDecls...),
		ruleDefs:   append([]NamedRuleFactory(nil), ruleDefs...),
	}, nil
}

// Extend merges extraDefs over g's own rule definitions — an entry in
// extraDefs with the same name as one of g's replaces it — and rebuilds
// a brand-new Grammar from the union, re-running lazy resolution across
// every rule. g itself is never mutated.
func Extend(g *Grammar, extraDefs []NamedRuleFactory) (*Grammar, error) {
	merged := make([]NamedRuleFactory, 0, len(g.ruleDefs)+len(extraDefs))
	index := make(map[string]int, len(g.ruleDefs))
	for _, d := range g.ruleDefs {
		index[d.Name] = len(merged)
		merged = append(merged, d)
	}
	for _, d := range extraDefs {
		if i, ok := index[d.Name]; ok {
			merged[i] = d
			continue
		}
		index[d.Name] = len(merged)
		merged = append(merged, d)
	}
	return Build(g.tokenDecls, merged)
}

// WithDebug returns a copy of g whose Parse calls report every
// named-rule attempt through fn. g itself is unchanged.
func (g *Grammar) WithDebug(fn rule.DebugFunc) *Grammar {
	clone := *g
	clone.debug = fn
	return &clone
}

// TokenKinds returns the grammar's declared token kinds in declaration
// order.
func (g *Grammar) TokenKinds() []token.Kind {
	return append([]token.Kind(nil), g.tokenKinds...)
}

// NodeTypes returns the grammar's declared node types, in the
// declaration order of their owning rules.
func (g *Grammar) NodeTypes() []ast.NodeType {
	return append([]ast.NodeType(nil), g.nodeTypes...)
}

// Root returns the name of the rule Parse invokes as the grammar's root.
func (g *Grammar) Root() string {
	return g.root
}

// Tokenize runs the lexer alone, without evaluating any rule.
func (g *Grammar) Tokenize(source string) ([]token.Token, error) {
	toks, lexErr := g.lexer.Tokenize(source)
	if lexErr != nil {
		return nil, parseerr.New("Unrecognized token", source, lexErr.Span)
	}
	return toks, nil
}

// Parse tokenises source, drives the root rule over the resulting
// stream, and checks that the whole input was consumed. It returns the
// root AST node on success, or a *parseerr.ParseError on any lexical,
// rule, or trailing-input failure.
func (g *Grammar) Parse(source string) (*ast.Node, error) {
	toks, err := g.Tokenize(source)
	if err != nil {
		return nil, err
	}
	stream := token.NewStream(source, toks)
	state := rule.State{Stream: stream, Debug: g.debug}

	res, ruleErr := g.rules[g.root](state)
	if ruleErr != nil {
		return nil, parseerr.New(ruleErr.Message, source, ruleErr.Span)
	}
	if res.State.Index != stream.Len() {
		span := stream.EOFSpan()
		if tok, ok := stream.At(res.State.Index); ok {
			span = tok.Span
		}
		return nil, parseerr.New("Expected end of input", source, span)
	}
	return res.Value.(*ast.Node), nil
}

// validateSpan panics if span is not well-formed (negative Start, or End
// before Start). Tokens and Nodes are the one call path constructing
// values from caller-supplied data rather than data this package
// produced itself by lexing and parsing, so this is the boundary where
// validating a malformed fixture earns its keep.
func validateSpan(span token.Span) {
	if span.Start < 0 || span.End < span.Start {
		panic(fmt.Sprintf("grammar: invalid span %+v", span))
	}
}

// Tokens returns one Token constructor per declared token kind, for use
// by test code assembling expected values. Constructing a token through
// a kind not declared by this grammar is not possible — the returned
// map is keyed exactly by TokenKinds. Each constructor validates its
// span before building the Token.
func (g *Grammar) Tokens() map[token.Kind]func(token.Span) token.Token {
	out := make(map[token.Kind]func(token.Span) token.Token, len(g.tokenKinds))
	for _, k := range g.tokenKinds {
		k := k
		out[k] = func(span token.Span) token.Token {
			validateSpan(span)
			return token.Token{Kind: k, Span: span}
		}
	}
	return out
}

// Nodes returns one AST node constructor per declared node type, for
// use by test code assembling expected values. tokenSpans is optional;
// omitting it leaves the node's Tokens nil. Each constructor validates
// every given span before building the Node.
func (g *Grammar) Nodes() map[ast.NodeType]func(properties any, tokenSpans ...token.Span) *ast.Node {
	out := make(map[ast.NodeType]func(any, ...token.Span) *ast.Node, len(g.nodeTypes))
	for _, t := range g.nodeTypes {
		t := t
		out[t] = func(props any, spans ...token.Span) *ast.Node {
			for _, span := range spans {
				validateSpan(span)
			}
			return &ast.Node{Type: t, Properties: props, Tokens: spans}
		}
	}
	return out
}
