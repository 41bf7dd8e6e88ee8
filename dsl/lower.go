// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package dsl

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mdhender/parsekit/ast"
	"github.com/mdhender/parsekit/cerrs"
	"github.com/mdhender/parsekit/grammar"
	"github.com/mdhender/parsekit/lexer"
	"github.com/mdhender/parsekit/rule"
	"github.com/mdhender/parsekit/token"
)

// Lower walks a parsed Program node and builds the live Grammar it
// describes: every TerminalRule statement becomes a token declaration,
// every NonTerminalRule statement becomes a rule factory, and the two
// are handed to grammar.Build for lazy resolution exactly as any
// hand-written grammar would be.
func Lower(root *ast.Node) (*grammar.Grammar, error) {
	statements, _ := root.Properties.([]rule.Value)

	var tokenDecls []grammar.TokenDecl
	tokenNames := make(map[token.Kind]bool)
	for _, stmt := range statements {
		n := stmt.(*ast.Node)
		if n.Type != "TerminalRule" {
			continue
		}
		fields := n.Properties.(map[string]rule.Value)
		name := identName(fields["name"])
		pat, err := lowerPattern(fields["pattern"])
		if err != nil {
			return nil, err
		}
		tokenDecls = append(tokenDecls, grammar.TokenDecl{Kind: token.Kind(name), Pattern: pat})
		tokenNames[token.Kind(name)] = true
	}

	var ruleDefs []grammar.NamedRuleFactory
	for _, stmt := range statements {
		n := stmt.(*ast.Node)
		if n.Type != "NonTerminalRule" {
			continue
		}
		fields := n.Properties.(map[string]rule.Value)
		name := identName(fields["name"])
		body := fields["body"]
		ruleDefs = append(ruleDefs, grammar.NamedRuleFactory{
			Name: name,
			Factory: func(rs grammar.Rules) rule.Rule {
				return lowerExpr(body, tokenNames, rs)
			},
		})
	}

	return grammar.Build(tokenDecls, ruleDefs)
}

// identName extracts the plain name string out of a node-wrapped
// TerminalIdent or NonTerminalIdent value.
func identName(v rule.Value) string {
	if n, ok := v.(*ast.Node); ok {
		return n.Properties.(string)
	}
	return v.(string)
}

func lowerPattern(v rule.Value) (lexer.Pattern, error) {
	switch p := v.(type) {
	case PatternLiteral:
		return lexer.Literal(p.Value), nil
	case PatternRegexp:
		re, err := lexer.NewRegexp(p.Value)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", cerrs.ErrPatternCompile, p.Value, err)
		}
		return re, nil
	default:
		return nil, fmt.Errorf("%w: unrecognised pattern %T", cerrs.ErrPatternCompile, v)
	}
}

// lowerExpr recursively rewrites a DSL expression value into a live
// rule.Rule, per the lowering table: Ident resolves to a token read if
// its name was declared as a token kind, otherwise to a lazy reference
// to the rule of that name.
func lowerExpr(e rule.Value, tokenNames map[token.Kind]bool, rs grammar.Rules) rule.Rule {
	switch v := e.(type) {
	case Ident:
		if tokenNames[token.Kind(v.Name)] {
			return rule.Token(token.Kind(v.Name))
		}
		return rs.Rule(v.Name)
	case EmptyExpr:
		return rule.Empty()
	case StructExpr:
		specs := make([]rule.FieldSpec, len(v.Fields))
		for i, f := range v.Fields {
			name := f.Name
			if name == "" {
				name = rule.Anonymous
			}
			specs[i] = rule.Field(name, lowerExpr(f.Body, tokenNames, rs))
		}
		return rule.Struct(specs...)
	case ListExpr:
		return rule.List(lowerExpr(v.Item, tokenNames, rs), lowerExpr(v.Sep, tokenNames, rs), 0)
	case ReadExpr:
		return rule.Text(lowerExpr(v.Inner, tokenNames, rs))
	case ChoiceExpr:
		alts := make([]rule.Rule, len(v.Branches))
		for i, b := range v.Branches {
			alts[i] = lowerExpr(b, tokenNames, rs)
		}
		return rule.Choice(alts...)
	case SequenceExpr:
		elts := make([]rule.Rule, len(v.Elements))
		for i, el := range v.Elements {
			elts[i] = lowerExpr(el, tokenNames, rs)
		}
		return rule.Sequence(elts...)
	default:
		// The DSL parser only ever produces the Expr variants handled
		// above; any other value reaching here means the bootstrap
		// grammar itself is inconsistent with this lowering table.
		panic(fmt.Sprintf("dsl: lower: unrecognised expression %T", e))
	}
}

// decodeStringLiteral decodes a quoted string-literal token's raw text
// (including its surrounding quotes) using JSON's escaping rules. A
// literal that is not valid JSON (an unsupported escape sequence) is
// returned with its quotes stripped and otherwise unchanged, rather
// than failing the whole grammar build over one malformed escape.
func decodeStringLiteral(raw string) (string, error) {
	var s string
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return strings.TrimSuffix(strings.TrimPrefix(raw, `"`), `"`), err
	}
	return s, nil
}

// decodeRegexBody strips a `/.../ ` regex literal's delimiters and
// unescapes `\/` to `/`, leaving every other backslash escape (`\d`,
// `\\`, ...) untouched for the regexp compiler to interpret.
func decodeRegexBody(raw string) string {
	body := strings.TrimSuffix(strings.TrimPrefix(raw, "/"), "/")
	return strings.ReplaceAll(body, `\/`, `/`)
}
