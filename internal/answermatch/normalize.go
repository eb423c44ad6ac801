package answermatch

import (
	"strings"
	"unicode"
)

// Normalize returns the compact form of s: ASCII letters lowercased with
// apostrophes, hyphens and whitespace removed. Other punctuation is kept, so
// "Occam's Razor" and "occam razor" share the form "occamrazor" while "C#"
// and "C++" stay apart.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if isApostrophe(r) || r == '-' || unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(foldASCII(r))
	}
	return b.String()
}

// NormalizeWords lowercases s, drops apostrophes, turns every other non-word
// rune into a separator and collapses runs of separators into one space.
func NormalizeWords(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	space := false
	for _, r := range s {
		switch {
		case isApostrophe(r):
			continue
		case isWordRune(r):
			if space && b.Len() > 0 {
				b.WriteByte(' ')
			}
			space = false
			b.WriteRune(foldASCII(r))
		default:
			space = true
		}
	}
	return b.String()
}

// CoreName removes the filler words from s and returns the remaining words
// in compact form. "The Law of Proximity" becomes "proximity".
func CoreName(s string, fillers []string) string {
	set := make(map[string]struct{}, len(fillers))
	for _, f := range fillers {
		set[Normalize(f)] = struct{}{}
	}
	return coreName(s, set)
}

func coreName(s string, fillers map[string]struct{}) string {
	var b strings.Builder
	for _, w := range strings.Fields(NormalizeWords(s)) {
		if _, ok := fillers[w]; ok {
			continue
		}
		b.WriteString(w)
	}
	return b.String()
}

// beforeParen returns the text preceding the first parenthetical segment of s
// and reports whether s had one. "X (Y) Z" gives "X ".
func beforeParen(s string) (string, bool) {
	i := strings.IndexByte(s, '(')
	if i < 0 || !strings.Contains(s[i+1:], ")") {
		return s, false
	}
	return s[:i], true
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isApostrophe(r rune) bool {
	return r == '\'' || r == '’' || r == '`'
}

// foldASCII lowercases A-Z and leaves every other rune untouched.
func foldASCII(r rune) rune {
	if r >= 'A' && r <= 'Z' {
		return r + ('a' - 'A')
	}
	return r
}

func runeLen(s string) int {
	return len([]rune(s))
}
