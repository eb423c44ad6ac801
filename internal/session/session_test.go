package session

import (
	"errors"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/abhisek/recall/internal/answermatch"
	"github.com/abhisek/recall/internal/bank"
)

var t0 = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func testBank() *bank.Bank {
	return &bank.Bank{
		ID:     "laws",
		Title:  "Laws",
		Preset: answermatch.PresetLaw,
		Questions: []bank.Question{
			{ID: "q1", Kind: bank.KindTypeIn, Prompt: "Unfinished tasks stick", Answer: "Zeigarnik Effect"},
			{ID: "q2", Kind: bank.KindMultipleChoice, Prompt: "Pick b", Options: []string{"a", "b", "c"}, AnswerIndex: 1},
			{ID: "q3", Kind: bank.KindTypeIn, Prompt: "Zip", Answer: "Zip Effect"},
		},
	}
}

func testState(t *testing.T) *SessionState {
	t.Helper()
	plan, err := NewPlan(testBank(), Options{}, nil)
	if err != nil {
		t.Fatalf("NewPlan: %v", err)
	}
	return NewSessionState(plan, t0)
}

func TestNewSessionState(t *testing.T) {
	state := testState(t)

	if state.SessionID == "" {
		t.Error("expected a session id")
	}
	if state.Phase != PhaseActive {
		t.Errorf("Phase = %v, want PhaseActive", state.Phase)
	}
	if state.Total() != 3 {
		t.Errorf("Total = %d, want 3", state.Total())
	}
	if item := CurrentItem(state); item == nil || item.Question.ID != "q1" {
		t.Errorf("CurrentItem = %+v, want q1", item)
	}
}

func TestHandleAnswer_ScoreAndStreak(t *testing.T) {
	state := testState(t)

	res, err := HandleAnswer(state, bank.Text("zeignarik effect"), t0.Add(5*time.Second))
	if err != nil {
		t.Fatalf("HandleAnswer: %v", err)
	}
	if !res.Correct || res.Tier != answermatch.TierFuzzy {
		t.Errorf("result = %+v, want fuzzy match", res)
	}
	if state.Phase != PhaseFeedback {
		t.Errorf("Phase = %v, want PhaseFeedback", state.Phase)
	}
	if got := CurrentResponse(state).Elapsed; got != 5*time.Second {
		t.Errorf("Elapsed = %v, want 5s", got)
	}

	Next(state, t0.Add(6*time.Second))
	if _, err := HandleAnswer(state, bank.Choice(1), t0.Add(8*time.Second)); err != nil {
		t.Fatalf("HandleAnswer: %v", err)
	}
	if state.Score != 2 || state.Streak != 2 || state.BestStreak != 2 {
		t.Errorf("score/streak/best = %d/%d/%d, want 2/2/2", state.Score, state.Streak, state.BestStreak)
	}

	// The law preset rejects a three-letter core name.
	Next(state, t0.Add(9*time.Second))
	res, _ = HandleAnswer(state, bank.Text("zip"), t0.Add(10*time.Second))
	if res.Correct {
		t.Error("expected law preset to reject a 3-letter core")
	}
	if state.Streak != 0 || state.BestStreak != 2 {
		t.Errorf("streak/best = %d/%d, want 0/2", state.Streak, state.BestStreak)
	}
}

func TestHandleAnswer_OnlyOnce(t *testing.T) {
	state := testState(t)

	if _, err := HandleAnswer(state, bank.Text("wrong"), t0); err != nil {
		t.Fatalf("HandleAnswer: %v", err)
	}
	res, err := HandleAnswer(state, bank.Text("Zeigarnik Effect"), t0)
	if !errors.Is(err, ErrAnswered) {
		t.Errorf("err = %v, want ErrAnswered", err)
	}
	if res.Correct {
		t.Error("second answer must not replace the first")
	}
	if state.Score != 0 {
		t.Errorf("Score = %d, want 0", state.Score)
	}
}

func TestHandleAnswer_AfterFinish(t *testing.T) {
	state := testState(t)
	Finish(state, t0.Add(time.Minute))

	if _, err := HandleAnswer(state, bank.Text("x"), t0); !errors.Is(err, ErrFinished) {
		t.Errorf("err = %v, want ErrFinished", err)
	}
	if CurrentItem(state) != nil {
		t.Error("expected no current item after finish")
	}
	if state.Elapsed(t0.Add(time.Hour)) != time.Minute {
		t.Errorf("Elapsed = %v, want 1m", state.Elapsed(t0.Add(time.Hour)))
	}
}

func TestNavigation(t *testing.T) {
	state := testState(t)

	if Previous(state, t0) {
		t.Error("Previous on first question should fail")
	}
	HandleAnswer(state, bank.Text("Zeigarnik"), t0)

	if !Next(state, t0.Add(time.Second)) {
		t.Fatal("Next should succeed")
	}
	if state.Phase != PhaseActive {
		t.Errorf("Phase = %v, want PhaseActive on an unanswered question", state.Phase)
	}
	if !state.QuestionStartTime.Equal(t0.Add(time.Second)) {
		t.Errorf("QuestionStartTime not reset")
	}

	if !Previous(state, t0.Add(2*time.Second)) {
		t.Fatal("Previous should succeed")
	}
	if state.Phase != PhaseFeedback {
		t.Errorf("Phase = %v, want PhaseFeedback on an answered question", state.Phase)
	}

	Next(state, t0)
	Next(state, t0)
	if !IsLast(state) {
		t.Error("expected to be on the last question")
	}
	if Next(state, t0) {
		t.Error("Next past the end should fail")
	}
}

func TestNewPlan_Options(t *testing.T) {
	b := testBank()
	b.Preset = ""

	plan, err := NewPlan(b, Options{MaxQuestions: 2, DefaultPreset: "generic"}, nil)
	if err != nil {
		t.Fatalf("NewPlan: %v", err)
	}
	if len(plan.Items) != 2 {
		t.Errorf("items = %d, want 2", len(plan.Items))
	}
	if plan.Items[0].Preset != "generic" {
		t.Errorf("Preset = %q, want generic", plan.Items[0].Preset)
	}

	plan, err = NewPlan(b, Options{Only: []string{"q3", "q1"}}, nil)
	if err != nil {
		t.Fatalf("NewPlan: %v", err)
	}
	if plan.Items[0].Question.ID != "q3" || plan.Items[1].Question.ID != "q1" {
		t.Errorf("Only order not kept: %s, %s", plan.Items[0].Question.ID, plan.Items[1].Question.ID)
	}

	if _, err := NewPlan(b, Options{Only: []string{"nope"}}, nil); err == nil {
		t.Error("expected error for unknown question id")
	}
	if _, err := NewPlan(b, Options{Shuffle: true}, nil); err == nil {
		t.Error("expected error when shuffling without a random source")
	}
	if _, err := NewPlan(&bank.Bank{ID: "empty"}, Options{}, nil); !errors.Is(err, ErrNoQuestions) {
		t.Errorf("err = %v, want ErrNoQuestions", err)
	}
}

func TestNewPlan_ShuffleIsDeterministicPerSeed(t *testing.T) {
	b := testBank()
	for i := 0; i < 20; i++ {
		b.Questions = append(b.Questions, bank.Question{
			ID: string(rune('a' + i)), Kind: bank.KindTypeIn, Prompt: "p", Answer: "x",
		})
	}

	order := func(seed uint64) []string {
		plan, err := NewPlan(b, Options{Shuffle: true, ShuffleOptions: true}, rand.New(rand.NewPCG(seed, seed)))
		if err != nil {
			t.Fatalf("NewPlan: %v", err)
		}
		ids := make([]string, len(plan.Items))
		for i, it := range plan.Items {
			ids[i] = it.Question.ID
		}
		return ids
	}

	a, again := order(42), order(42)
	for i := range a {
		if a[i] != again[i] {
			t.Fatalf("same seed gave different orders: %v vs %v", a, again)
		}
	}
	if b.Questions[1].Options[1] != "b" {
		t.Error("plan shuffling must not touch the bank")
	}
}

func TestRandomPlan(t *testing.T) {
	other := &bank.Bank{
		ID: "other",
		Questions: []bank.Question{
			{ID: "o1", Kind: bank.KindMultipleChoice, Prompt: "p", Options: []string{"x", "y"}, AnswerIndex: 0},
		},
	}
	lib := bank.NewLibrary(testBank(), other)
	rng := rand.New(rand.NewPCG(1, 2))

	plan, err := RandomPlan(lib, 3, "generic", rng)
	if err != nil {
		t.Fatalf("RandomPlan: %v", err)
	}
	if plan.BankID != RandomBankID {
		t.Errorf("BankID = %q, want %q", plan.BankID, RandomBankID)
	}
	if len(plan.Items) != 3 {
		t.Errorf("items = %d, want 3", len(plan.Items))
	}
	for _, it := range plan.Items {
		if it.BankID == "laws" && it.Preset != answermatch.PresetLaw {
			t.Errorf("item from laws has preset %q", it.Preset)
		}
		if it.BankID == "other" && it.Preset != "generic" {
			t.Errorf("item from other has preset %q", it.Preset)
		}
	}

	all, err := RandomPlan(lib, 100, "", rng)
	if err != nil {
		t.Fatalf("RandomPlan: %v", err)
	}
	if len(all.Items) != 4 {
		t.Errorf("items = %d, want all 4", len(all.Items))
	}

	if _, err := RandomPlan(bank.NewLibrary(), 5, "", rng); !errors.Is(err, ErrNoQuestions) {
		t.Errorf("err = %v, want ErrNoQuestions", err)
	}
}
