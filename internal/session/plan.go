package session

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/abhisek/recall/internal/bank"
)

// RandomBankID is the bank ID recorded for sessions drawn from every bank.
const RandomBankID = "random"

// DefaultRandomSize is the number of questions in a random session.
const DefaultRandomSize = 30

var (
	// ErrNoQuestions is returned when a plan would be empty.
	ErrNoQuestions = errors.New("no questions to play")

	// ErrFinished is returned when answering after the session ended.
	ErrFinished = errors.New("session finished")

	// ErrAnswered is returned when a question is answered twice.
	ErrAnswered = errors.New("question already answered")
)

// PlanItem is one question of a session together with where it came from.
type PlanItem struct {
	BankID   string
	Preset   string
	Question bank.Question
}

// Plan is the ordered list of questions served in a session.
type Plan struct {
	BankID string
	Title  string
	Items  []PlanItem
}

// Options control how a plan is drawn from a bank.
type Options struct {
	// Shuffle randomizes question order.
	Shuffle bool

	// ShuffleOptions randomizes the option order inside each question.
	ShuffleOptions bool

	// MaxQuestions caps the plan length. Zero means no cap.
	MaxQuestions int

	// Only restricts the plan to these question IDs, in this order.
	Only []string

	// DefaultPreset is the matcher preset for banks that do not name one.
	DefaultPreset string
}

// NewPlan builds a plan over b. rng may be nil when nothing is shuffled.
func NewPlan(b *bank.Bank, opts Options, rng *rand.Rand) (*Plan, error) {
	if (opts.Shuffle || opts.ShuffleOptions) && rng == nil {
		return nil, errors.New("shuffling requires a random source")
	}

	preset := b.Preset
	if preset == "" {
		preset = opts.DefaultPreset
	}

	questions := b.Questions
	if len(opts.Only) > 0 {
		questions = make([]bank.Question, 0, len(opts.Only))
		for _, id := range opts.Only {
			q := b.Question(id)
			if q == nil {
				return nil, fmt.Errorf("question %q not in bank %q", id, b.ID)
			}
			questions = append(questions, *q)
		}
	}

	items := make([]PlanItem, len(questions))
	for i, q := range questions {
		items[i] = PlanItem{BankID: b.ID, Preset: preset, Question: q.Clone()}
	}

	plan := &Plan{BankID: b.ID, Title: b.Title, Items: items}
	finishPlan(plan, opts, rng)
	if len(plan.Items) == 0 {
		return nil, ErrNoQuestions
	}
	return plan, nil
}

// RandomPlan merges every bank of lib and samples n questions. Options of
// every question are shuffled too.
func RandomPlan(lib *bank.Library, n int, defaultPreset string, rng *rand.Rand) (*Plan, error) {
	if rng == nil {
		return nil, errors.New("random plan requires a random source")
	}
	if n <= 0 {
		n = DefaultRandomSize
	}

	var items []PlanItem
	for _, b := range lib.All() {
		preset := b.Preset
		if preset == "" {
			preset = defaultPreset
		}
		for _, q := range b.Questions {
			items = append(items, PlanItem{BankID: b.ID, Preset: preset, Question: q.Clone()})
		}
	}

	plan := &Plan{BankID: RandomBankID, Title: "Random Quiz", Items: items}
	finishPlan(plan, Options{Shuffle: true, ShuffleOptions: true, MaxQuestions: n}, rng)
	if len(plan.Items) == 0 {
		return nil, ErrNoQuestions
	}
	return plan, nil
}

func finishPlan(plan *Plan, opts Options, rng *rand.Rand) {
	if opts.Shuffle {
		rng.Shuffle(len(plan.Items), func(i, j int) {
			plan.Items[i], plan.Items[j] = plan.Items[j], plan.Items[i]
		})
	}
	if opts.MaxQuestions > 0 && len(plan.Items) > opts.MaxQuestions {
		plan.Items = plan.Items[:opts.MaxQuestions]
	}
	if opts.ShuffleOptions {
		for i := range plan.Items {
			bank.ShuffleOptions(&plan.Items[i].Question, rng)
		}
	}
}
