package session

import (
	"time"

	"github.com/abhisek/recall/internal/answermatch"
	"github.com/abhisek/recall/internal/bank"
)

// ReviewItem is one row of the post-session review.
type ReviewItem struct {
	BankID      string
	QuestionID  string
	Prompt      string
	Kind        bank.Kind
	Given       string
	Expected    string
	Answered    bool
	Correct     bool
	Tier        answermatch.Tier
	Explanation string
}

// SessionSummary holds the data displayed on the summary screen.
type SessionSummary struct {
	SessionID  string
	BankID     string
	Title      string
	Duration   time.Duration
	Total      int
	Answered   int
	Correct    int
	Accuracy   float64
	BestStreak int
	Review     []ReviewItem
}

// BuildSummary creates a SessionSummary from the session state.
func BuildSummary(state *SessionState, now time.Time) *SessionSummary {
	sum := &SessionSummary{
		SessionID:  state.SessionID,
		BankID:     state.Plan.BankID,
		Title:      state.Plan.Title,
		Duration:   state.Elapsed(now),
		Total:      state.Total(),
		Correct:    state.Score,
		BestStreak: state.BestStreak,
		Review:     make([]ReviewItem, 0, state.Total()),
	}

	for i, item := range state.Plan.Items {
		q := &item.Question
		ri := ReviewItem{
			BankID:      item.BankID,
			QuestionID:  q.ID,
			Prompt:      q.Prompt,
			Kind:        q.Kind,
			Expected:    q.CorrectAnswer(),
			Tier:        answermatch.TierNone,
			Explanation: q.Explanation,
		}
		if r := state.Responses[i]; r != nil {
			sum.Answered++
			ri.Answered = true
			ri.Given = bank.Describe(q, r.Answer)
			ri.Correct = r.Result.Correct
			ri.Tier = r.Result.Tier
		}
		sum.Review = append(sum.Review, ri)
	}

	if sum.Total > 0 {
		sum.Accuracy = float64(sum.Correct) / float64(sum.Total)
	}
	return sum
}

// Mistakes returns the review rows that were wrong or skipped.
func (s *SessionSummary) Mistakes() []ReviewItem {
	var out []ReviewItem
	for _, r := range s.Review {
		if !r.Correct {
			out = append(out, r)
		}
	}
	return out
}
