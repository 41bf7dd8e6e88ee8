// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package dsl

import "github.com/mdhender/parsekit/token"

// Token kinds of the DSL's own lexicon. Declaration order (below, in
// bootstrapTokenDecls) resolves every prefix ambiguity: READARROW
// before ARROW before LANGLE (so "<-" and "::=" are never split into
// shorter tokens), EMPTY before STRING (so a bare `""` is read as the
// empty-expression marker rather than a zero-length string literal).
const (
	KReadArrow token.Kind = "READARROW"
	KArrow     token.Kind = "ARROW"
	KLAngle    token.Kind = "LANGLE"
	KRAngle    token.Kind = "RANGLE"
	KLBrace    token.Kind = "LBRACE"
	KRBrace    token.Kind = "RBRACE"
	KLBracket  token.Kind = "LBRACKET"
	KRBracket  token.Kind = "RBRACKET"
	KComma     token.Kind = "COMMA"
	KColon     token.Kind = "COLON"
	KPipe      token.Kind = "PIPE"
	KEmpty     token.Kind = "EMPTY"
	KString    token.Kind = "STRING"
	KRegexp    token.Kind = "REGEXP"
	KIdent     token.Kind = "IDENT"
	KNewline   token.Kind = "NEWLINE"
	KWS        token.Kind = "WS"
)
