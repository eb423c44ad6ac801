package answermatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistance(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"", "abc", 3},
		{"kitten", "sitting", 3},
		{"flaw", "lawn", 2},
		{"dohertythreshld", "dohertythreshold", 1},
		{"zeignarik", "zeigarnik", 2},
		{"héllo", "hello", 1},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Distance(tc.a, tc.b), "Distance(%q, %q)", tc.a, tc.b)
	}
}

func TestDistanceSymmetricAndZeroOnSelf(t *testing.T) {
	words := []string{"", "a", "law", "jakobslaw", "millerslaw", "occamsrazor", "ünïcödé"}
	for _, a := range words {
		assert.Zero(t, Distance(a, a), a)
		for _, b := range words {
			assert.Equal(t, Distance(a, b), Distance(b, a), "%q/%q", a, b)
		}
	}
}
