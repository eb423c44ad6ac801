package bank

import (
	"math/rand/v2"
	"sort"
)

// Clone returns a deep copy of q.
func (q Question) Clone() Question {
	q.Options = append([]string(nil), q.Options...)
	q.Incorrect = append([]int(nil), q.Incorrect...)
	q.Pairs = append([]Pair(nil), q.Pairs...)
	return q
}

// ShuffleOptions permutes the options of q in place and remaps AnswerIndex
// and Incorrect so they keep pointing at the same option text.
func ShuffleOptions(q *Question, rng *rand.Rand) {
	if len(q.Options) < 2 {
		return
	}

	perm := rng.Perm(len(q.Options))
	options := make([]string, len(perm))
	moved := make([]int, len(perm))
	for to, from := range perm {
		options[to] = q.Options[from]
		moved[from] = to
	}
	q.Options = options

	if q.Kind == KindMultipleChoice && q.AnswerIndex >= 0 && q.AnswerIndex < len(moved) {
		q.AnswerIndex = moved[q.AnswerIndex]
	}
	if len(q.Incorrect) > 0 {
		incorrect := make([]int, 0, len(q.Incorrect))
		for _, i := range q.Incorrect {
			if i >= 0 && i < len(moved) {
				incorrect = append(incorrect, moved[i])
			}
		}
		sort.Ints(incorrect)
		q.Incorrect = incorrect
	}
}

// Shuffled returns a copy of b with the options of every question shuffled.
// b is not modified.
func Shuffled(b *Bank, rng *rand.Rand) *Bank {
	out := *b
	out.Questions = make([]Question, len(b.Questions))
	for i, q := range b.Questions {
		c := q.Clone()
		ShuffleOptions(&c, rng)
		out.Questions[i] = c
	}
	return &out
}
