// Copyright (c) 2024 Michael D Henderson. All rights reserved.

// Package dsl is the self-hosted frontend: a fixed grammar, expressed
// directly in the combinator algebra of package rule, that parses a
// BNF-style grammar description and lowers the resulting AST into a
// live, runnable *grammar.Grammar. Parsing a user's grammar is just
// another call through package grammar — the engine bootstraps itself.
package dsl

import (
	"sync"

	"github.com/mdhender/parsekit/ast"
	"github.com/mdhender/parsekit/grammar"
	"github.com/mdhender/parsekit/lexer"
	"github.com/mdhender/parsekit/rule"
)

func bootstrapTokenDecls() []grammar.TokenDecl {
	mustRegexp := func(pattern string) lexer.Pattern {
		re, err := lexer.NewRegexp(pattern)
		if err != nil {
			// The DSL's own lexicon is fixed at compile time; a failure
			// here means this package was built with a broken pattern,
			// not anything a grammar author did.
			panic("dsl: bootstrap pattern failed to compile: " + err.Error())
		}
		return re
	}
	return []grammar.TokenDecl{
		{Kind: KReadArrow, Pattern: lexer.Literal("<-")},
		{Kind: KArrow, Pattern: lexer.Literal("::=")},
		{Kind: KLAngle, Pattern: lexer.Literal("<")},
		{Kind: KRAngle, Pattern: lexer.Literal(">")},
		{Kind: KLBrace, Pattern: lexer.Literal("{")},
		{Kind: KRBrace, Pattern: lexer.Literal("}")},
		{Kind: KLBracket, Pattern: lexer.Literal("[")},
		{Kind: KRBracket, Pattern: lexer.Literal("]")},
		{Kind: KComma, Pattern: lexer.Literal(",")},
		{Kind: KColon, Pattern: lexer.Literal(":")},
		{Kind: KPipe, Pattern: lexer.Literal("|")},
		{Kind: KEmpty, Pattern: lexer.Literal(`""`)},
		{Kind: KString, Pattern: mustRegexp(`"(?:[^"\\]|\\.)*"`)},
		{Kind: KRegexp, Pattern: mustRegexp(`/(?:[^/\\]|\\.)*/`)},
		{Kind: KIdent, Pattern: mustRegexp(`[A-Za-z_][A-Za-z0-9_]*`)},
		{Kind: KNewline, Pattern: mustRegexp(`\r\n|\n|\r`)},
		{Kind: KWS, Pattern: mustRegexp(`[ \t]+`)},
	}
}

// asExpr normalises a Value into a flat Expr: unwrapping a node-rule's
// *ast.Node down to the typed expression it wraps, or passing through a
// value that is already a raw Expr (an atomic's Ident or EmptyExpr).
func asExpr(v rule.Value) rule.Value {
	if n, ok := v.(*ast.Node); ok {
		return n.Properties
	}
	return v
}

func identRef(v rule.Value) rule.Value {
	return Ident{Name: v.(string)}
}

func bootstrapRuleDefs() []grammar.NamedRuleFactory {
	identifier := func(grammar.Rules) rule.Rule {
		return rule.Text(rule.Token(KIdent))
	}
	whitespace := func(grammar.Rules) rule.Rule {
		return rule.OneOrMore(rule.Token(KWS))
	}
	// ws is whitespace's optional cousin: the BNF only names an explicit
	// separator nonterminal between atoms in a Sequence and around
	// statementSep; every other punctuation boundary (the arrow in a
	// rule declaration, the colon in a field, the brackets of a List,
	// the bar of a Choice) may still carry incidental spaces for
	// readability, so those productions pad themselves with ws rather
	// than rejecting a grammar author's spacing.
	ws := func(grammar.Rules) rule.Rule {
		return rule.ZeroOrMore(rule.Token(KWS))
	}
	newline := func(grammar.Rules) rule.Rule {
		return rule.Token(KNewline)
	}
	statementSep := func(rs grammar.Rules) rule.Rule {
		return rule.Sequence(
			rs.Rule("newline"),
			rule.ZeroOrMore(rule.Choice(rs.Rule("whitespace"), rs.Rule("newline"))),
		)
	}
	trailingWhitespace := func(rs grammar.Rules) rule.Rule {
		return rule.ZeroOrMore(rule.Choice(rule.Token(KWS), rule.Token(KNewline)))
	}
	atomic := func(rs grammar.Rules) rule.Rule {
		return rule.Choice(
			rule.Map(rs.Rule("identifier"), identRef),
			rule.Map(rs.Rule("Empty"), asExpr),
		)
	}
	expression := func(rs grammar.Rules) rule.Rule {
		return rule.Map(rule.Choice(
			rs.Rule("Struct"),
			rs.Rule("List"),
			rs.Rule("Read"),
			rs.Rule("Choice"),
			rs.Rule("Sequence"),
			rs.Rule("atomic"),
		), asExpr)
	}
	field := func(rs grammar.Rules) rule.Rule {
		return rule.Map(rule.Sequence(
			rule.Optional(rs.Rule("identifier")),
			rs.Rule("ws"),
			rule.Token(KColon),
			rs.Rule("ws"),
			rs.Rule("expression"),
		), func(v rule.Value) rule.Value {
			parts := v.([]rule.Value)
			name, _ := parts[0].(string)
			return FieldExpr{Name: name, Body: parts[4]}
		})
	}
	branch := func(rs grammar.Rules) rule.Rule {
		return rule.Map(rule.Choice(rs.Rule("Sequence"), rs.Rule("atomic")), asExpr)
	}

	stringLiteral := func(grammar.Rules) rule.Rule {
		return rule.Map(rule.Text(rule.Token(KString)), func(v rule.Value) rule.Value {
			decoded, _ := decodeStringLiteral(v.(string))
			return PatternLiteral{Value: decoded}
		})
	}
	regexLiteral := func(grammar.Rules) rule.Rule {
		return rule.Map(rule.Text(rule.Token(KRegexp)), func(v rule.Value) rule.Value {
			return PatternRegexp{Value: decodeRegexBody(v.(string))}
		})
	}
	pattern := func(rs grammar.Rules) rule.Rule {
		return rule.Choice(rs.Rule("stringLiteral"), rs.Rule("regexLiteral"))
	}

	terminalIdent := func(rs grammar.Rules) rule.Rule {
		return rs.Rule("identifier")
	}
	nonTerminalIdent := func(rs grammar.Rules) rule.Rule {
		return rule.Map(rule.Sequence(
			rule.Token(KLAngle), rs.Rule("ws"), rs.Rule("identifier"), rs.Rule("ws"), rule.Token(KRAngle),
		), func(v rule.Value) rule.Value {
			return v.([]rule.Value)[2]
		})
	}

	terminalRule := func(rs grammar.Rules) rule.Rule {
		return rule.Struct(
			rule.Field("name", rs.Rule("TerminalIdent")),
			rule.Field(rule.Anonymous, rs.Rule("ws")),
			rule.Field(rule.Anonymous, rule.Token(KArrow)),
			rule.Field(rule.Anonymous, rs.Rule("ws")),
			rule.Field("pattern", rs.Rule("pattern")),
		)
	}
	nonTerminalRule := func(rs grammar.Rules) rule.Rule {
		return rule.Struct(
			rule.Field("name", rs.Rule("NonTerminalIdent")),
			rule.Field(rule.Anonymous, rs.Rule("ws")),
			rule.Field(rule.Anonymous, rule.Token(KArrow)),
			rule.Field(rule.Anonymous, rs.Rule("ws")),
			rule.Field("body", rs.Rule("expression")),
		)
	}
	ruleAlias := func(rs grammar.Rules) rule.Rule {
		return rule.Choice(rs.Rule("TerminalRule"), rs.Rule("NonTerminalRule"))
	}

	emptyExpr := func(grammar.Rules) rule.Rule {
		return rule.Map(rule.Token(KEmpty), func(rule.Value) rule.Value {
			return EmptyExpr{}
		})
	}
	structExpr := func(rs grammar.Rules) rule.Rule {
		return rule.Map(rule.Sequence(
			rule.Token(KLBrace),
			rs.Rule("ws"),
			rs.Rule("statementSep"),
			rule.List(rs.Rule("field"), rule.Sequence(rule.Token(KComma), rs.Rule("ws"), rs.Rule("statementSep")), 1),
			rs.Rule("statementSep"),
			rule.Token(KRBrace),
		), func(v rule.Value) rule.Value {
			parts := v.([]rule.Value)
			items := parts[3].([]rule.Value)
			fields := make([]FieldExpr, len(items))
			for i, it := range items {
				fields[i] = it.(FieldExpr)
			}
			return StructExpr{Fields: fields}
		})
	}
	listExpr := func(rs grammar.Rules) rule.Rule {
		return rule.Map(rule.Sequence(
			rule.Token(KLBracket),
			rs.Rule("ws"),
			rs.Rule("expression"),
			rs.Rule("ws"),
			rule.Token(KComma),
			rs.Rule("ws"),
			rs.Rule("expression"),
			rs.Rule("ws"),
			rule.Token(KRBracket),
		), func(v rule.Value) rule.Value {
			parts := v.([]rule.Value)
			return ListExpr{Item: parts[2], Sep: parts[6]}
		})
	}
	readExpr := func(rs grammar.Rules) rule.Rule {
		return rule.Map(rule.Sequence(
			rule.Token(KReadArrow),
			rs.Rule("ws"),
			rule.Map(rule.Choice(rs.Rule("Choice"), rs.Rule("Sequence"), rs.Rule("atomic")), asExpr),
		), func(v rule.Value) rule.Value {
			return ReadExpr{Inner: v.([]rule.Value)[2]}
		})
	}
	choiceExpr := func(rs grammar.Rules) rule.Rule {
		return rule.Map(rule.List(rs.Rule("branch"), rule.Sequence(rs.Rule("ws"), rule.Token(KPipe), rs.Rule("ws")), 1), func(v rule.Value) rule.Value {
			return ChoiceExpr{Branches: v.([]rule.Value)}
		})
	}
	sequenceExpr := func(rs grammar.Rules) rule.Rule {
		return rule.Map(rule.List(
			rule.Map(rs.Rule("atomic"), asExpr),
			rs.Rule("whitespace"),
			2,
		), func(v rule.Value) rule.Value {
			return SequenceExpr{Elements: v.([]rule.Value)}
		})
	}

	program := func(rs grammar.Rules) rule.Rule {
		return rule.Map(rule.Sequence(
			rule.List(rs.Rule("rule"), rs.Rule("statementSep"), 1),
			rule.Optional(rs.Rule("trailingWhitespace")),
		), func(v rule.Value) rule.Value {
			return v.([]rule.Value)[0]
		})
	}

	return []grammar.NamedRuleFactory{
		// Program must be declared first: grammar.Build selects the
		// first uppercase-named rule in declaration order as the root,
		// and the DSL's root is always its Program node.
		{Name: "Program", Factory: program},
		{Name: "TerminalRule", Factory: terminalRule},
		{Name: "NonTerminalRule", Factory: nonTerminalRule},
		{Name: "TerminalIdent", Factory: terminalIdent},
		{Name: "NonTerminalIdent", Factory: nonTerminalIdent},
		{Name: "Struct", Factory: structExpr},
		{Name: "List", Factory: listExpr},
		{Name: "Read", Factory: readExpr},
		{Name: "Choice", Factory: choiceExpr},
		{Name: "Sequence", Factory: sequenceExpr},
		{Name: "Empty", Factory: emptyExpr},

		{Name: "identifier", Factory: identifier},
		{Name: "whitespace", Factory: whitespace},
		{Name: "ws", Factory: ws},
		{Name: "newline", Factory: newline},
		{Name: "statementSep", Factory: statementSep},
		{Name: "trailingWhitespace", Factory: trailingWhitespace},
		{Name: "stringLiteral", Factory: stringLiteral},
		{Name: "regexLiteral", Factory: regexLiteral},
		{Name: "pattern", Factory: pattern},
		{Name: "atomic", Factory: atomic},
		{Name: "expression", Factory: expression},
		{Name: "field", Factory: field},
		{Name: "branch", Factory: branch},
		{Name: "rule", Factory: ruleAlias},
	}
}

var (
	bootstrapOnce sync.Once
	bootstrapG    *grammar.Grammar
	bootstrapErr  error
)

// Bootstrap returns the fixed grammar that parses DSL source into a
// Program AST. It is built once and reused — the bootstrap grammar
// itself never changes between calls.
func Bootstrap() (*grammar.Grammar, error) {
	bootstrapOnce.Do(func() {
		bootstrapG, bootstrapErr = grammar.Build(bootstrapTokenDecls(), bootstrapRuleDefs())
	})
	return bootstrapG, bootstrapErr
}
