package bank

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
)

const (
	// LengthBiasPercent flags a question whose correct option is at least this
	// much longer than the average wrong option.
	LengthBiasPercent = 40.0

	// DuplicateSimilarity flags two options of one question that are at least
	// this similar.
	DuplicateSimilarity = 0.9
)

// LengthFinding describes a multiple-choice question whose correct option
// stands out by length.
type LengthFinding struct {
	QuestionID      string
	CorrectLen      int
	AvgIncorrectLen float64
	DiffPercent     float64
}

// DuplicateFinding names two near-identical options of a question.
type DuplicateFinding struct {
	QuestionID string
	First      int
	Second     int
	Similarity float64
}

// Report is the outcome of Audit.
type Report struct {
	BankID string

	// MultipleChoice is the number of multiple-choice questions analysed.
	MultipleChoice int

	// CorrectLongest counts questions whose correct option is strictly the
	// longest one.
	CorrectLongest int

	// Positions counts correct answers per option position.
	Positions []int

	LengthBias     []LengthFinding
	NearDuplicates []DuplicateFinding
}

// LongestRatio is the share of multiple-choice questions whose correct
// option is the longest.
func (r Report) LongestRatio() float64 {
	if r.MultipleChoice == 0 {
		return 0
	}
	return float64(r.CorrectLongest) / float64(r.MultipleChoice)
}

// Audit looks for authoring problems that leak the answer: a correct option
// that is visibly longer than the others, answers piling up on one position,
// and options that say the same thing twice.
func Audit(b *Bank) Report {
	r := Report{BankID: b.ID}
	jw := metrics.NewJaroWinkler()

	for _, q := range b.Questions {
		if len(q.Options) >= 2 {
			r.NearDuplicates = append(r.NearDuplicates, nearDuplicates(q, jw)...)
		}
		if q.Kind != KindMultipleChoice || len(q.Options) < 2 {
			continue
		}

		r.MultipleChoice++
		for len(r.Positions) <= q.AnswerIndex {
			r.Positions = append(r.Positions, 0)
		}
		r.Positions[q.AnswerIndex]++

		correctLen := utf8.RuneCountInString(q.Options[q.AnswerIndex])
		var total, longestOther int
		for i, opt := range q.Options {
			if i == q.AnswerIndex {
				continue
			}
			n := utf8.RuneCountInString(opt)
			total += n
			longestOther = max(longestOther, n)
		}
		if correctLen > longestOther {
			r.CorrectLongest++
		}

		avg := float64(total) / float64(len(q.Options)-1)
		if avg == 0 {
			continue
		}
		diff := (float64(correctLen) - avg) / avg * 100
		if diff >= LengthBiasPercent {
			r.LengthBias = append(r.LengthBias, LengthFinding{
				QuestionID:      q.ID,
				CorrectLen:      correctLen,
				AvgIncorrectLen: avg,
				DiffPercent:     diff,
			})
		}
	}

	sort.Slice(r.LengthBias, func(i, j int) bool {
		return r.LengthBias[i].DiffPercent > r.LengthBias[j].DiffPercent
	})
	return r
}

func nearDuplicates(q Question, metric strutil.StringMetric) []DuplicateFinding {
	var out []DuplicateFinding
	for i := 0; i < len(q.Options); i++ {
		for j := i + 1; j < len(q.Options); j++ {
			a := strings.ToLower(strings.TrimSpace(q.Options[i]))
			b := strings.ToLower(strings.TrimSpace(q.Options[j]))
			sim := strutil.Similarity(a, b, metric)
			if sim >= DuplicateSimilarity {
				out = append(out, DuplicateFinding{
					QuestionID: q.ID,
					First:      i,
					Second:     j,
					Similarity: sim,
				})
			}
		}
	}
	return out
}
