package render

import (
	"unicode"

	"github.com/razeghi71/kq/literal"
)

var keywords = map[string]bool{
	"and": true, "or": true, "not": true, "in": true, "has": true,
	"true": true, "false": true, "null": true, "by": true, "on": true,
	"let": true, "where": true, "project": true, "extend": true,
	"summarize": true, "order": true, "sort": true, "limit": true,
	"take": true, "top": true, "distinct": true, "count": true,
	"datatable": true, "dynamic": true,
}

// Ident returns name as an identifier, bracket-quoting it as ['name'] when it
// is empty, a keyword, or not a plain identifier.
func Ident(name string) string {
	if isIdent(name) && !keywords[name] {
		return name
	}
	return "[" + literal.Quote(name) + "]"
}

func isIdent(name string) bool {
	if name == "" {
		return false
	}
	for i, ch := range name {
		if i == 0 && !isIdentStart(ch) {
			return false
		}
		if !isIdentPart(ch) {
			return false
		}
	}
	return true
}

func isIdentStart(ch rune) bool {
	return unicode.IsLetter(ch) || ch == '_'
}

func isIdentPart(ch rune) bool {
	return unicode.IsLetter(ch) || unicode.IsDigit(ch) || ch == '_'
}
