package bank

import (
	"sort"
	"strings"

	"github.com/abhisek/recall/internal/answermatch"
)

// Answer is a response to one question. Only the field that belongs to the
// question's kind is read.
type Answer struct {
	Choice   int
	Text     string
	Selected []int
	Pairs    map[string]string
}

// Choice answers a multiple-choice question with an option index.
func Choice(i int) Answer { return Answer{Choice: i} }

// Text answers a type-in question.
func Text(s string) Answer { return Answer{Choice: -1, Text: s} }

// Selection answers a find-incorrect question.
func Selection(idx ...int) Answer { return Answer{Choice: -1, Selected: idx} }

// Matching answers a match-pairs question with term to definition links.
func Matching(pairs map[string]string) Answer { return Answer{Choice: -1, Pairs: pairs} }

// Result is the grading of one answer.
type Result struct {
	Correct bool

	// Tier is the matcher tier for type-in answers and TierExact or
	// TierNone for the other kinds.
	Tier answermatch.Tier

	Expected string
}

// CheckAnswer grades a against q. Type-in answers go through m; a nil m
// uses the generic matcher.
func CheckAnswer(q *Question, a Answer, m *answermatch.Matcher) Result {
	res := Result{Tier: answermatch.TierNone, Expected: q.CorrectAnswer()}

	switch q.Kind {
	case KindMultipleChoice:
		res.Correct = a.Choice == q.AnswerIndex && a.Choice >= 0 && a.Choice < len(q.Options)
	case KindTypeIn:
		if m == nil {
			m = answermatch.Default()
		}
		v := m.Match(a.Text, q.Answer)
		res.Correct = v.Match
		res.Tier = v.Tier
		return res
	case KindFindIncorrect:
		res.Correct = sameSet(a.Selected, q.Incorrect)
	case KindMatchPairs:
		res.Correct = pairsMatch(a.Pairs, q.Pairs)
	}

	if res.Correct {
		res.Tier = answermatch.TierExact
	}
	return res
}

// Describe renders a for review screens.
func Describe(q *Question, a Answer) string {
	switch q.Kind {
	case KindMultipleChoice:
		if a.Choice >= 0 && a.Choice < len(q.Options) {
			return q.Options[a.Choice]
		}
		return ""
	case KindTypeIn:
		return a.Text
	case KindFindIncorrect:
		idx := uniqueSorted(a.Selected)
		parts := make([]string, 0, len(idx))
		for _, i := range idx {
			if i >= 0 && i < len(q.Options) {
				parts = append(parts, q.Options[i])
			}
		}
		return strings.Join(parts, "; ")
	case KindMatchPairs:
		parts := make([]string, 0, len(q.Pairs))
		for _, p := range q.Pairs {
			if d, ok := a.Pairs[p.Term]; ok {
				parts = append(parts, p.Term+" = "+d)
			}
		}
		return strings.Join(parts, "; ")
	}
	return ""
}

func sameSet(got, want []int) bool {
	g, w := uniqueSorted(got), uniqueSorted(want)
	if len(g) != len(w) {
		return false
	}
	for i := range g {
		if g[i] != w[i] {
			return false
		}
	}
	return true
}

func uniqueSorted(in []int) []int {
	out := append([]int(nil), in...)
	sort.Ints(out)
	n := 0
	for i, v := range out {
		if i > 0 && v == out[n-1] {
			continue
		}
		out[n] = v
		n++
	}
	return out[:n]
}

func pairsMatch(got map[string]string, want []Pair) bool {
	if len(got) != len(want) {
		return false
	}
	for _, p := range want {
		if got[p.Term] != p.Definition {
			return false
		}
	}
	return true
}
