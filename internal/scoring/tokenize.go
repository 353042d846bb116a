package scoring

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldText strips diacritics and lower-cases s
func foldText(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, err := transform.String(t, s)
	if err != nil {
		result = s
	}
	return strings.ToLower(result)
}

// isTokenRune keeps letters and digits plus the symbols that carry meaning in
// technology names (c++, c#, f#)
func isTokenRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '+' || r == '#'
}

// tokenize folds s and splits it into stemmed tokens
func tokenize(s string) []string {
	fields := strings.FieldsFunc(foldText(s), func(r rune) bool {
		return !isTokenRune(r)
	})
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		tokens = append(tokens, stem(f))
	}
	return tokens
}

// acronym plurals that the "is" guard below would otherwise keep
var pluralAcronyms = map[string]string{
	"apis": "api",
	"kpis": "kpi",
	"guis": "gui",
}

// stem removes plural endings so "databases" and "database" compare equal.
// Singular -y and -ie endings share the "i" stem of their -ies plural, so
// "policy"/"policies" and "cookie"/"cookies" collapse. Applied identically to
// keywords and resume text.
func stem(tok string) string {
	if singular, ok := pluralAcronyms[tok]; ok {
		return singular
	}
	n := len(tok)
	if n <= 2 || !isASCIIAlpha(tok) {
		return tok
	}
	switch {
	case strings.HasSuffix(tok, "ies") && n > 4:
		return tok[:n-2]
	case strings.HasSuffix(tok, "ie") && n > 3:
		return tok[:n-1]
	case tok[n-1] == 'y' && !isVowel(tok[n-2]):
		return tok[:n-1] + "i"
	case n <= 3:
		return tok
	case strings.HasSuffix(tok, "sses"),
		strings.HasSuffix(tok, "xes"),
		strings.HasSuffix(tok, "zes"),
		strings.HasSuffix(tok, "ches"),
		strings.HasSuffix(tok, "shes"):
		return tok[:n-2]
	case strings.HasSuffix(tok, "ss"),
		strings.HasSuffix(tok, "us"),
		strings.HasSuffix(tok, "is"):
		return tok
	case strings.HasSuffix(tok, "s"):
		return tok[:n-1]
	}
	return tok
}

func isVowel(c byte) bool {
	return strings.IndexByte("aeiou", c) >= 0
}

func isASCIIAlpha(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < 'a' || c > 'z' {
			return false
		}
	}
	return true
}

// containsPhrase reports whether phrase occurs as a contiguous run in tokens
func containsPhrase(tokens, phrase []string) bool {
	if len(phrase) == 0 || len(phrase) > len(tokens) {
		return false
	}
outer:
	for i := 0; i+len(phrase) <= len(tokens); i++ {
		for j, p := range phrase {
			if tokens[i+j] != p {
				continue outer
			}
		}
		return true
	}
	return false
}
