// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package dsl

// Ident is a bare identifier appearing in expression position — a
// reference to either a declared token kind or another rule, resolved
// during lowering once every token declaration in the source is known.
type Ident struct {
	Name string
}

// EmptyExpr is the `""` atomic expression: always matches, consumes
// nothing.
type EmptyExpr struct{}

// FieldExpr is one field of a Struct expression. Name is empty for an
// anonymous field (parsed, but dropped from the resulting properties).
type FieldExpr struct {
	Name string
	Body any
}

// StructExpr is a `{ field, field, ... }` expression.
type StructExpr struct {
	Fields []FieldExpr
}

// ListExpr is a `[ item, sep ]` expression.
type ListExpr struct {
	Item any
	Sep  any
}

// ReadExpr is a `<- inner` expression: lowers to text(lower(inner)).
type ReadExpr struct {
	Inner any
}

// ChoiceExpr is a `branch | branch | ...` expression.
type ChoiceExpr struct {
	Branches []any
}

// SequenceExpr is an `atomic atomic ...` expression (at least two
// atoms — a single atom is just that atom, not a Sequence).
type SequenceExpr struct {
	Elements []any
}

// PatternLiteral is a decoded string-literal terminal pattern.
type PatternLiteral struct {
	Value string
}

// PatternRegexp is a decoded `/regex/` terminal pattern.
type PatternRegexp struct {
	Value string
}
