package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldAccents decomposes characters and drops combining marks, so "é" and "e"
// normalize identically.
var foldAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// leadingArticles lists the article words stripped from the front of a title
// in the supported languages.
var leadingArticles = map[string]struct{}{
	"the": {}, "a": {}, "an": {},
	"le": {}, "la": {}, "les": {},
	"un": {}, "une": {}, "des": {},
	// Elided forms: punctuation folding turns "l'école" into "l ecole".
	"l": {}, "d": {},
}

var symbolReplacer = strings.NewReplacer(
	"&", " and ",
	"+", " and ",
)

// Normalize returns the canonical comparison form of s: lowercase, accents
// folded, "&"/"+" spelled out, punctuation collapsed to spaces, leading
// articles removed, and whitespace runs reduced to single spaces. Empty input
// returns the empty string.
func Normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ""
	}
	if folded, _, err := transform.String(foldAccents, s); err == nil {
		s = folded
	}
	s = symbolReplacer.Replace(s)

	var b strings.Builder
	b.Grow(len(s))
	prevSpace := false
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			prevSpace = false
		default:
			if !prevSpace {
				b.WriteByte(' ')
				prevSpace = true
			}
		}
	}
	fields := strings.Fields(b.String())
	fields = stripLeadingArticles(fields)
	return strings.Join(fields, " ")
}

// stripLeadingArticles removes article tokens from the front until a
// non-article token is reached. At least one token is always kept so that
// titles made only of articles do not normalize to nothing.
func stripLeadingArticles(fields []string) []string {
	for len(fields) > 1 {
		if _, ok := leadingArticles[fields[0]]; !ok {
			break
		}
		fields = fields[1:]
	}
	return fields
}

// Key returns the grouping key for s: the normalized form with the remaining
// spaces removed. "ASTERIX", "astérix", and "Astérix " share one key.
func Key(s string) string {
	return strings.ReplaceAll(Normalize(s), " ", "")
}

// Tokens splits the normalized form of s into whole-word tokens, dropping
// single-character fragments left over from punctuation.
func Tokens(s string) []string {
	fields := strings.Fields(Normalize(s))
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) < 2 {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}

// TokenSet returns Tokens as a membership set.
func TokenSet(s string) map[string]struct{} {
	tokens := Tokens(s)
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return set
}
