package torznab

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var tokenBoundary = regexp.MustCompile(`[^\pL\pN]+`)

// foldForMatch lowers the string and strips combining marks so that
// accented and plain variants of a word compare equal.
func foldForMatch(s string) string {
	folder := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(folder, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(out)
}

func tokenizeQuery(keywords string) []string {
	var tokens []string
	for _, token := range tokenBoundary.Split(foldForMatch(keywords), -1) {
		if token == "" {
			continue
		}
		tokens = append(tokens, token)
	}
	return tokens
}
