// Package stats turns stored progress and answer events into the numbers
// shown on the statistics screen and by `recall stats`.
package stats

import (
	"sort"
	"time"

	"github.com/abhisek/recall/internal/bank"
	"github.com/abhisek/recall/internal/session"
	"github.com/abhisek/recall/internal/store"
)

// BankRow is one line of the overview.
type BankRow struct {
	BankID      string
	Title       string
	Total       int // questions in the bank
	Completed   int // questions answered in the last attempt
	Correct     int // score of the last attempt
	Best        int
	Attempts    int
	LastAttempt time.Time
	History     []store.AttemptEntry
}

// Started reports whether the bank has ever been played.
func (r BankRow) Started() bool { return r.Attempts > 0 }

// Accuracy is the last score as a fraction of the answered questions.
func (r BankRow) Accuracy() float64 {
	if r.Completed == 0 {
		return 0
	}
	return float64(r.Correct) / float64(r.Completed)
}

// BestPercent is the best score as a whole percentage of the bank size.
func (r BankRow) BestPercent() int {
	if r.Total == 0 {
		return 0
	}
	return r.Best * 100 / r.Total
}

// Report is the full overview.
type Report struct {
	Rows []BankRow

	TotalQuestions int
	Completed      int
	Correct        int
	Attempts       int
}

// CompletionRate is the share of all questions answered at least once.
func (r Report) CompletionRate() float64 {
	if r.TotalQuestions == 0 {
		return 0
	}
	return float64(r.Completed) / float64(r.TotalQuestions)
}

// Accuracy is the share of answered questions that were correct.
func (r Report) Accuracy() float64 {
	if r.Completed == 0 {
		return 0
	}
	return float64(r.Correct) / float64(r.Completed)
}

// RandomTitle labels the random-session row.
const RandomTitle = "Random Quiz"

// Overview builds one row per bank in lib, followed by a row for random
// sessions of randomSize questions. Banks without progress get empty rows.
func Overview(lib *bank.Library, progress map[string]*store.Progress, randomSize int) Report {
	var rep Report

	add := func(id, title string, total int) {
		row := BankRow{BankID: id, Title: title, Total: total}
		if p, ok := progress[id]; ok {
			row.Completed = p.Completed
			if row.Completed == 0 {
				row.Completed = p.Total
			}
			row.Correct = p.Score
			row.Best = max(p.BestScore, p.Score)
			row.Attempts = p.Attempts
			row.LastAttempt = p.LastAttempt
			row.History = p.AttemptHistory
		}
		rep.Rows = append(rep.Rows, row)
		rep.TotalQuestions += row.Total
		rep.Completed += row.Completed
		rep.Correct += row.Correct
		rep.Attempts += row.Attempts
	}

	if lib != nil {
		for _, b := range lib.All() {
			add(b.ID, b.Title, len(b.Questions))
		}
	}
	add(session.RandomBankID, RandomTitle, randomSize)
	return rep
}

// Mastery scores how well a question is known, from 0 to 1. A single
// answer counts fully; after that the latest result weighs 0.6 and the
// average of the earlier ones 0.4.
func Mastery(qs store.QuestionStat) float64 {
	if qs.Answered == 0 {
		return 0
	}
	latest := 0.0
	if qs.LastCorrect {
		latest = 1
	}
	if qs.Answered == 1 {
		return latest
	}

	historical := float64(qs.Correct-int(latest)) / float64(qs.Answered-1)
	m := latest*0.6 + historical*0.4
	return min(max(m, 0), 1)
}

// BankMastery averages Mastery over every question of b. Questions never
// answered count as zero.
func BankMastery(b *bank.Bank, stats []store.QuestionStat) float64 {
	if b == nil || len(b.Questions) == 0 {
		return 0
	}
	byID := make(map[string]store.QuestionStat, len(stats))
	for _, s := range stats {
		if s.BankID == b.ID {
			byID[s.QuestionID] = s
		}
	}
	var sum float64
	for _, q := range b.Questions {
		sum += Mastery(byID[q.ID])
	}
	return sum / float64(len(b.Questions))
}

// WeakQuestion pairs a question stat with its mastery.
type WeakQuestion struct {
	store.QuestionStat
	Mastery float64
}

// Weakest returns up to n answered questions with the lowest mastery.
// Ties go to the question answered more often, then by ID.
func Weakest(stats []store.QuestionStat, n int) []WeakQuestion {
	out := make([]WeakQuestion, 0, len(stats))
	for _, s := range stats {
		if s.Answered == 0 {
			continue
		}
		out = append(out, WeakQuestion{QuestionStat: s, Mastery: Mastery(s)})
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Mastery != b.Mastery {
			return a.Mastery < b.Mastery
		}
		if a.Answered != b.Answered {
			return a.Answered > b.Answered
		}
		if a.BankID != b.BankID {
			return a.BankID < b.BankID
		}
		return a.QuestionID < b.QuestionID
	})
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
