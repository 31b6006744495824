// Package tokenize splits cell text into formula tokens.
package tokenize

import (
	"strings"

	"github.com/xuri/efp"

	"calcsheet/internal/formula"
	"calcsheet/internal/grid"
)

// Tokenize lexes text with the Excel formula lexer. A leading "=" is
// optional. Whitespace is dropped, parentheses come back as "(" and ")",
// and cell references are normalised to canonical labels ("$a$1" -> "A1").
// No token is ever empty.
func Tokenize(text string) formula.Formula {
	text = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(text), "="))
	if text == "" {
		return formula.Formula{}
	}

	ps := efp.ExcelParser()
	out := formula.Formula{}
	for _, tok := range ps.Parse(text) {
		switch {
		case tok.TType == efp.TokenTypeWhitespace:
		case tok.TSubType == efp.TokenSubTypeStart:
			if tok.TType == efp.TokenTypeFunction && tok.TValue != "" {
				out = append(out, tok.TValue)
			}
			out = append(out, "(")
		case tok.TSubType == efp.TokenSubTypeStop:
			out = append(out, ")")
		case tok.TType == efp.TokenTypeOperand && tok.TSubType == efp.TokenSubTypeRange:
			out = append(out, canonicalRef(tok.TValue))
		default:
			// intersection operators are bare whitespace
			if v := strings.TrimSpace(tok.TValue); v != "" {
				out = append(out, v)
			}
		}
	}
	return out
}

func canonicalRef(ref string) string {
	if strings.ContainsAny(ref, "!:") {
		return ref
	}
	if row, col, ok := grid.ParseCellRef(ref); ok {
		return grid.ColRowToName(col, row)
	}
	return ref
}

// References lists the distinct cell labels in f in order of first use.
func References(f formula.Formula) []string {
	var refs []string
	seen := map[string]bool{}
	for _, tok := range f {
		if grid.IsValidCellLabel(tok) && !seen[tok] {
			seen[tok] = true
			refs = append(refs, tok)
		}
	}
	return refs
}
