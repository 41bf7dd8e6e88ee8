// Copyright (c) 2024 Michael D Henderson. All rights reserved.

// Package parsekit is the top-level facade over the engine: build a
// Grammar from hand-written combinators or from DSL source, then drive
// it against input text. Everything it re-exports lives in a narrower
// package (rule, grammar, dsl, token, ast, parseerr) for callers who
// want the lower-level pieces directly; this package exists so the
// common path — describe a grammar, parse something with it — never
// needs more than one import.
package parsekit

import (
	"github.com/mdhender/parsekit/ast"
	"github.com/mdhender/parsekit/dsl"
	"github.com/mdhender/parsekit/grammar"
	"github.com/mdhender/parsekit/parseerr"
	"github.com/mdhender/parsekit/token"
)

type (
	// Grammar is a fully resolved parser: a lexer, a table of rules, and
	// the root AST type Parse evaluates.
	Grammar = grammar.Grammar
	// Node is an AST node produced by a grammar's node rules.
	Node = ast.Node
	// Token is one lexed unit of input: a kind and the span it covers.
	Token = token.Token
	// Span is a half-open byte range into a source string.
	Span = token.Span
	// ParseError reports a lexical, rule, or trailing-input failure at a
	// specific span of the source that produced it.
	ParseError = parseerr.ParseError
)

// GrammarFromPrimitives builds a Grammar directly from token
// declarations and rule factories, the way a grammar author working in
// Go rather than in DSL source would.
func GrammarFromPrimitives(tokenDecls []grammar.TokenDecl, ruleDefs []grammar.NamedRuleFactory) (*Grammar, error) {
	return grammar.Build(tokenDecls, ruleDefs)
}

// GrammarFromDSL parses source against the engine's self-hosted grammar
// DSL and lowers the result into a runnable Grammar.
func GrammarFromDSL(source string) (*Grammar, error) {
	return dsl.FromDSL(source)
}

// Extend returns a new Grammar built from g's rule definitions with
// extraDefs merged in by name — an entry in extraDefs replaces one of
// g's with the same name. g is never modified.
func Extend(g *Grammar, extraDefs []grammar.NamedRuleFactory) (*Grammar, error) {
	return grammar.Extend(g, extraDefs)
}
