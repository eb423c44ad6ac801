package bank

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShuffleOptionsKeepsAnswers(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))

	for i := 0; i < 50; i++ {
		mc := Question{Kind: KindMultipleChoice, Options: []string{"a", "b", "c", "d"}, AnswerIndex: 2}
		ShuffleOptions(&mc, rng)
		require.Len(t, mc.Options, 4)
		assert.Equal(t, "c", mc.Options[mc.AnswerIndex])
		assert.ElementsMatch(t, []string{"a", "b", "c", "d"}, mc.Options)

		fi := Question{Kind: KindFindIncorrect, Options: []string{"a", "b", "c", "d"}, Incorrect: []int{0, 3}}
		ShuffleOptions(&fi, rng)
		picked := []string{fi.Options[fi.Incorrect[0]], fi.Options[fi.Incorrect[1]]}
		assert.ElementsMatch(t, []string{"a", "d"}, picked)
		assert.IsIncreasing(t, fi.Incorrect)
	}
}

func TestShuffleOptionsIgnoresSingleOption(t *testing.T) {
	q := Question{Kind: KindTypeIn, Answer: "x"}
	ShuffleOptions(&q, rand.New(rand.NewPCG(1, 1)))
	assert.Nil(t, q.Options)
}

func TestShuffledLeavesBankUntouched(t *testing.T) {
	b := &Bank{
		ID: "b",
		Questions: []Question{
			{ID: "q", Kind: KindMultipleChoice, Options: []string{"a", "b", "c", "d", "e", "f"}, AnswerIndex: 0},
		},
	}

	out := Shuffled(b, rand.New(rand.NewPCG(7, 7)))
	assert.Equal(t, []string{"a", "b", "c", "d", "e", "f"}, b.Questions[0].Options)
	assert.Equal(t, 0, b.Questions[0].AnswerIndex)
	assert.Equal(t, "a", out.Questions[0].Options[out.Questions[0].AnswerIndex])
}
