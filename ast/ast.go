// Copyright (c) 2024 Michael D Henderson. All rights reserved.

// Package ast defines the AST node shape produced by the combinator
// runtime's node wrapper: a node kind, its structurally-typed
// properties, and the ordered leaf token spans consumed to build it.
package ast

import "github.com/mdhender/parsekit/token"

// NodeType names an AST node kind. The closed set in use by a grammar is
// whatever node rules (uppercase-leading rule names) that grammar
// declared.
type NodeType string

// Node is the result of a `node` combinator. Properties is whatever
// value the wrapped rule produced — a map[string]any for a struct body,
// a []any for a sequence/list body, a string for a text body, or
// anything else a grammar author's map step shapes it into. Tokens
// records every leaf token consumed while producing this node, in
// consumption order; it is informational only (source highlighting,
// text extraction) and is never consulted by the combinator algebra to
// make parsing decisions.
type Node struct {
	Type       NodeType
	Properties any
	Tokens     []token.Span
}

// Span returns the smallest span covering every token this node
// consumed. It returns the zero Span for a node that consumed nothing.
func (n *Node) Span() token.Span {
	if n == nil || len(n.Tokens) == 0 {
		return token.Span{}
	}
	return token.Cover(n.Tokens...)
}
