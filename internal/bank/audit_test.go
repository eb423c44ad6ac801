package bank

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAudit(t *testing.T) {
	b := &Bank{
		ID: "audit",
		Questions: []Question{
			{
				ID: "long", Kind: KindMultipleChoice,
				Options:     []string{"yes", "no", "A much longer and more careful answer", "maybe"},
				AnswerIndex: 2,
			},
			{
				ID: "fair", Kind: KindMultipleChoice,
				Options:     []string{"red", "blue", "green"},
				AnswerIndex: 0,
			},
			{
				ID: "dupe", Kind: KindFindIncorrect,
				Options:   []string{"Colour contrast", "colour contrast.", "Alt text"},
				Incorrect: []int{2},
			},
			{ID: "typed", Kind: KindTypeIn, Answer: "x"},
		},
	}

	r := Audit(b)
	assert.Equal(t, "audit", r.BankID)
	assert.Equal(t, 2, r.MultipleChoice)
	assert.Equal(t, 1, r.CorrectLongest)
	assert.InDelta(t, 0.5, r.LongestRatio(), 1e-9)
	assert.Equal(t, []int{1, 0, 1}, r.Positions)

	require.Len(t, r.LengthBias, 1)
	assert.Equal(t, "long", r.LengthBias[0].QuestionID)
	assert.Greater(t, r.LengthBias[0].DiffPercent, LengthBiasPercent)

	require.Len(t, r.NearDuplicates, 1)
	assert.Equal(t, "dupe", r.NearDuplicates[0].QuestionID)
	assert.Equal(t, 0, r.NearDuplicates[0].First)
	assert.Equal(t, 1, r.NearDuplicates[0].Second)
}

func TestAuditEmptyBank(t *testing.T) {
	r := Audit(&Bank{ID: "empty"})
	assert.Zero(t, r.LongestRatio())
	assert.Empty(t, r.LengthBias)
}

func TestHighlight(t *testing.T) {
	spans := Highlight("Keep 'small chunks' and 'clear signifiers' visible")
	assert.Equal(t, []Span{
		{Text: "Keep "},
		{Text: "small chunks", Highlighted: true},
		{Text: " and "},
		{Text: "clear signifiers", Highlighted: true},
		{Text: " visible"},
	}, spans)

	assert.Equal(t, []Span{{Text: "plain"}}, Highlight("plain"))
	assert.Nil(t, Highlight(""))
}
