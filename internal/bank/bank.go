// Package bank loads question banks and grades answers against them.
package bank

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Kind is the answer format of a question.
type Kind string

const (
	KindMultipleChoice Kind = "multiple-choice"
	KindTypeIn         Kind = "type-in"
	KindFindIncorrect  Kind = "find-incorrect"
	KindMatchPairs     Kind = "match-pairs"
)

var (
	// ErrNotFound is returned when a bank ID is not in the library.
	ErrNotFound = errors.New("bank not found")

	// ErrUnsupportedVersion is returned for a bank whose format version this
	// build cannot read.
	ErrUnsupportedVersion = errors.New("unsupported bank version")
)

// Pair is one term/definition couple of a match-pairs question.
type Pair struct {
	Term       string `json:"term"`
	Definition string `json:"definition"`
}

// Question is a single item of a bank.
type Question struct {
	ID     string `json:"id"`
	Kind   Kind   `json:"kind"`
	Prompt string `json:"prompt"`

	// Options are the choices of multiple-choice and find-incorrect questions.
	Options []string `json:"options,omitempty"`

	// AnswerIndex is the correct option of a multiple-choice question.
	AnswerIndex int `json:"answerIndex"`

	// Answer is the reference answer of a type-in question.
	Answer string `json:"answer,omitempty"`

	// Incorrect lists the options a find-incorrect question wants selected.
	Incorrect []int `json:"incorrect,omitempty"`

	Pairs []Pair `json:"pairs,omitempty"`

	Explanation      string `json:"explanation,omitempty"`
	ShortExplanation string `json:"shortExplanation,omitempty"`
}

// CorrectAnswer renders the expected answer for feedback and review.
func (q *Question) CorrectAnswer() string {
	switch q.Kind {
	case KindMultipleChoice:
		if q.AnswerIndex >= 0 && q.AnswerIndex < len(q.Options) {
			return q.Options[q.AnswerIndex]
		}
	case KindTypeIn:
		return q.Answer
	case KindFindIncorrect:
		idx := append([]int(nil), q.Incorrect...)
		sort.Ints(idx)
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
			parts = append(parts, p.Term+" = "+p.Definition)
		}
		return strings.Join(parts, "; ")
	}
	return ""
}

// Bank is a named set of questions.
type Bank struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`

	// Version is the bank format version, a semantic version such as "v1.0.0".
	Version string `json:"version"`

	// Preset names the answer matcher preset for type-in questions.
	Preset string `json:"preset,omitempty"`

	Questions []Question `json:"questions"`
}

// Question returns the question with the given ID, or nil.
func (b *Bank) Question(id string) *Question {
	for i := range b.Questions {
		if b.Questions[i].ID == id {
			return &b.Questions[i]
		}
	}
	return nil
}

// Library is a set of banks ordered by ID.
type Library struct {
	banks map[string]*Bank
}

// NewLibrary builds a library. A later bank replaces an earlier one with the
// same ID.
func NewLibrary(banks ...*Bank) *Library {
	l := &Library{banks: make(map[string]*Bank, len(banks))}
	for _, b := range banks {
		l.banks[b.ID] = b
	}
	return l
}

// Get returns the bank with the given ID.
func (l *Library) Get(id string) (*Bank, error) {
	b, ok := l.banks[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return b, nil
}

// All returns every bank sorted by ID.
func (l *Library) All() []*Bank {
	out := make([]*Bank, 0, len(l.banks))
	for _, b := range l.banks {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Len returns the number of banks.
func (l *Library) Len() int {
	return len(l.banks)
}

// Merge returns a new library holding the banks of l and other. Banks of
// other win on ID clashes.
func (l *Library) Merge(other *Library) *Library {
	merged := NewLibrary(l.All()...)
	for _, b := range other.All() {
		merged.banks[b.ID] = b
	}
	return merged
}
