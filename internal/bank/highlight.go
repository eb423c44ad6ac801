package bank

import "regexp"

var quotedRe = regexp.MustCompile(`'([^']+)'`)

// Span is a piece of explanation text. Highlighted spans were quoted with
// single quotes in the source text and are returned without the quotes.
type Span struct {
	Text        string
	Highlighted bool
}

// Highlight splits text into plain and highlighted spans.
func Highlight(text string) []Span {
	var spans []Span
	last := 0
	for _, m := range quotedRe.FindAllStringSubmatchIndex(text, -1) {
		if m[0] > last {
			spans = append(spans, Span{Text: text[last:m[0]]})
		}
		spans = append(spans, Span{Text: text[m[2]:m[3]], Highlighted: true})
		last = m[1]
	}
	if last < len(text) {
		spans = append(spans, Span{Text: text[last:]})
	}
	return spans
}
