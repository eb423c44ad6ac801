package session

import (
	"time"

	"github.com/abhisek/recall/internal/bank"
)

// CurrentItem returns the displayed plan item, or nil once finished.
func CurrentItem(state *SessionState) *PlanItem {
	if state.Phase == PhaseFinished || state.Current < 0 || state.Current >= len(state.Plan.Items) {
		return nil
	}
	return &state.Plan.Items[state.Current]
}

// CurrentResponse returns the response to the displayed item, if any.
func CurrentResponse(state *SessionState) *Response {
	if state.Current < 0 || state.Current >= len(state.Responses) {
		return nil
	}
	return state.Responses[state.Current]
}

// HandleAnswer grades a for the current question and updates the score and
// streak. Each question accepts one answer.
func HandleAnswer(state *SessionState, a bank.Answer, now time.Time) (bank.Result, error) {
	if state.Phase == PhaseFinished {
		return bank.Result{}, ErrFinished
	}
	item := CurrentItem(state)
	if item == nil {
		return bank.Result{}, ErrFinished
	}
	if state.Responses[state.Current] != nil {
		return state.Responses[state.Current].Result, ErrAnswered
	}

	res := bank.CheckAnswer(&item.Question, a, state.matcherFor(item.Preset))
	state.Responses[state.Current] = &Response{
		Answer:  a,
		Result:  res,
		At:      now,
		Elapsed: now.Sub(state.QuestionStartTime),
	}

	if res.Correct {
		state.Score++
		state.Streak++
		state.BestStreak = max(state.BestStreak, state.Streak)
	} else {
		state.Streak = 0
	}

	state.Phase = PhaseFeedback
	return res, nil
}

// IsLast reports whether the current question is the final one.
func IsLast(state *SessionState) bool {
	return state.Current >= len(state.Plan.Items)-1
}

// Next moves to the following question. It returns false on the last one.
func Next(state *SessionState, now time.Time) bool {
	if state.Phase == PhaseFinished || IsLast(state) {
		return false
	}
	state.Current++
	syncPhase(state, now)
	return true
}

// Previous moves back one question so its answer can be reviewed.
func Previous(state *SessionState, now time.Time) bool {
	if state.Phase == PhaseFinished || state.Current == 0 {
		return false
	}
	state.Current--
	syncPhase(state, now)
	return true
}

// Finish ends the session. Unanswered questions count as wrong.
func Finish(state *SessionState, now time.Time) {
	if state.Phase == PhaseFinished {
		return
	}
	state.Phase = PhaseFinished
	state.EndTime = now
}

func syncPhase(state *SessionState, now time.Time) {
	if state.Responses[state.Current] != nil {
		state.Phase = PhaseFeedback
		return
	}
	state.Phase = PhaseActive
	state.QuestionStartTime = now
}
