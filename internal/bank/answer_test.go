package bank

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/abhisek/recall/internal/answermatch"
)

func sampleQuestions() map[Kind]*Question {
	return map[Kind]*Question{
		KindMultipleChoice: {
			ID: "mc", Kind: KindMultipleChoice, Prompt: "p",
			Options: []string{"a", "b", "c"}, AnswerIndex: 2,
		},
		KindTypeIn: {
			ID: "ti", Kind: KindTypeIn, Prompt: "p", Answer: "Zeigarnik Effect",
		},
		KindFindIncorrect: {
			ID: "fi", Kind: KindFindIncorrect, Prompt: "p",
			Options: []string{"a", "b", "c", "d"}, Incorrect: []int{3, 1},
		},
		KindMatchPairs: {
			ID: "mp", Kind: KindMatchPairs, Prompt: "p",
			Pairs: []Pair{{Term: "x", Definition: "1"}, {Term: "y", Definition: "2"}},
		},
	}
}

func TestCheckAnswer(t *testing.T) {
	qs := sampleQuestions()

	tests := []struct {
		name    string
		kind    Kind
		answer  Answer
		correct bool
		tier    answermatch.Tier
	}{
		{"mc right", KindMultipleChoice, Choice(2), true, answermatch.TierExact},
		{"mc wrong", KindMultipleChoice, Choice(0), false, answermatch.TierNone},
		{"mc out of range", KindMultipleChoice, Choice(7), false, answermatch.TierNone},
		{"type-in core", KindTypeIn, Text("zeigarnik"), true, answermatch.TierCore},
		{"type-in typo", KindTypeIn, Text("zeignarik effect"), true, answermatch.TierFuzzy},
		{"type-in empty", KindTypeIn, Text(""), false, answermatch.TierNone},
		{"find-incorrect any order", KindFindIncorrect, Selection(1, 3), true, answermatch.TierExact},
		{"find-incorrect repeated pick", KindFindIncorrect, Selection(3, 1, 3), true, answermatch.TierExact},
		{"find-incorrect partial", KindFindIncorrect, Selection(1), false, answermatch.TierNone},
		{"find-incorrect extra", KindFindIncorrect, Selection(0, 1, 3), false, answermatch.TierNone},
		{"pairs right", KindMatchPairs, Matching(map[string]string{"x": "1", "y": "2"}), true, answermatch.TierExact},
		{"pairs swapped", KindMatchPairs, Matching(map[string]string{"x": "2", "y": "1"}), false, answermatch.TierNone},
		{"pairs incomplete", KindMatchPairs, Matching(map[string]string{"x": "1"}), false, answermatch.TierNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := CheckAnswer(qs[tt.kind], tt.answer, nil)
			assert.Equal(t, tt.correct, res.Correct)
			assert.Equal(t, tt.tier, res.Tier)
			assert.Equal(t, qs[tt.kind].CorrectAnswer(), res.Expected)
		})
	}
}

func TestCheckAnswerUsesGivenMatcher(t *testing.T) {
	q := &Question{ID: "q", Kind: KindTypeIn, Answer: "Zip Effect"}

	law, err := answermatch.ForPreset(answermatch.PresetLaw)
	assert.NoError(t, err)

	assert.True(t, CheckAnswer(q, Text("zip"), nil).Correct)
	assert.False(t, CheckAnswer(q, Text("zip"), law).Correct)
}

func TestCorrectAnswerAndDescribe(t *testing.T) {
	qs := sampleQuestions()

	assert.Equal(t, "c", qs[KindMultipleChoice].CorrectAnswer())
	assert.Equal(t, "b; d", qs[KindFindIncorrect].CorrectAnswer())
	assert.Equal(t, "x = 1; y = 2", qs[KindMatchPairs].CorrectAnswer())

	assert.Equal(t, "a", Describe(qs[KindMultipleChoice], Choice(0)))
	assert.Equal(t, "", Describe(qs[KindMultipleChoice], Choice(-1)))
	assert.Equal(t, "zeig", Describe(qs[KindTypeIn], Text("zeig")))
	assert.Equal(t, "a; d", Describe(qs[KindFindIncorrect], Selection(3, 0)))
	assert.Equal(t, "y = 1", Describe(qs[KindMatchPairs], Matching(map[string]string{"y": "1"})))
}
