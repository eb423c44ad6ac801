package session

import (
	"math/rand/v2"

	"github.com/abhisek/recall/internal/bank"
)

// PairRound tracks the user pairing terms with definitions one link at a
// time. A wrong link counts as a mistake and leaves both sides open.
type PairRound struct {
	Terms       []string
	Definitions []string

	Attempts int
	Mistakes int

	want     map[string]string
	matched  map[string]string
	firstTry map[string]string
}

// NewPairRound prepares a round for a match-pairs question. Definitions are
// shuffled when rng is not nil.
func NewPairRound(q *bank.Question, rng *rand.Rand) *PairRound {
	r := &PairRound{
		Terms:       make([]string, len(q.Pairs)),
		Definitions: make([]string, len(q.Pairs)),
		want:        make(map[string]string, len(q.Pairs)),
		matched:     make(map[string]string, len(q.Pairs)),
		firstTry:    make(map[string]string, len(q.Pairs)),
	}
	for i, p := range q.Pairs {
		r.Terms[i] = p.Term
		r.Definitions[i] = p.Definition
		r.want[p.Term] = p.Definition
	}
	if rng != nil {
		rng.Shuffle(len(r.Definitions), func(i, j int) {
			r.Definitions[i], r.Definitions[j] = r.Definitions[j], r.Definitions[i]
		})
	}
	return r
}

// Try links term to def. It returns true when the link is right. Links to
// an already matched term or definition are ignored.
func (r *PairRound) Try(term, def string) bool {
	if _, ok := r.want[term]; !ok || r.TermMatched(term) || r.DefinitionMatched(def) {
		return false
	}

	r.Attempts++
	if _, ok := r.firstTry[term]; !ok {
		r.firstTry[term] = def
	}
	if r.want[term] != def {
		r.Mistakes++
		return false
	}
	r.matched[term] = def
	return true
}

// TermMatched reports whether term is already paired.
func (r *PairRound) TermMatched(term string) bool {
	_, ok := r.matched[term]
	return ok
}

// DefinitionMatched reports whether def is already paired.
func (r *PairRound) DefinitionMatched(def string) bool {
	for _, d := range r.matched {
		if d == def {
			return true
		}
	}
	return false
}

// Complete reports whether every term has been paired.
func (r *PairRound) Complete() bool {
	return len(r.matched) == len(r.want)
}

// Answer returns the first link tried for each term. It grades as correct
// exactly when the round had no mistakes.
func (r *PairRound) Answer() bank.Answer {
	links := make(map[string]string, len(r.firstTry))
	for t, d := range r.firstTry {
		links[t] = d
	}
	return bank.Matching(links)
}
