package answermatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"Jakob's Law":          "jakobslaw",
		"  Peak-End   Rule ":   "peakendrule",
		"Fitts’s Law!":         "fittsslaw!",
		"80/20 Rule":           "80/20rule",
		"?!":                   "?!",
		"C++":                  "c++",
		"3.14":                 "3.14",
		"ÜBER":                 "Über",
		"Recognition (recall)": "recognition(recall)",
	}
	for in, want := range cases {
		assert.Equal(t, want, Normalize(in), in)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	for _, s := range []string{"Jakob's Law", "A - B", "Ünïcödé Effect", ""} {
		n := Normalize(s)
		assert.Equal(t, n, Normalize(n))
	}
}

func TestNormalizeWords(t *testing.T) {
	cases := map[string]string{
		"Jakob's Law":          "jakobs law",
		"  Peak-End   Rule ":   "peak end rule",
		"Law of (Proximity)!":  "law of proximity",
		"...":                  "",
		"Tesler’s law":         "teslers law",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeWords(in), in)
	}
}

func TestBeforeParen(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"Recognition (not recall)", "Recognition ", true},
		{"X (Y) Z", "X ", true},
		{"(Y) X", "", true},
		{"Open (paren", "Open (paren", false},
		{"No parens", "No parens", false},
	}
	for _, tc := range cases {
		got, ok := beforeParen(tc.in)
		assert.Equal(t, tc.want, got, tc.in)
		assert.Equal(t, tc.ok, ok, tc.in)
	}
}

func TestCoreName(t *testing.T) {
	assert.Equal(t, "proximity", CoreName("The Law of Proximity", DefaultFillerWords))
	assert.Equal(t, "dohertythreshld", CoreName("Doherty Threshld", DefaultFillerWords))
	assert.Equal(t, "doherty", CoreName("Doherty Threshold", DefaultFillerWords))
	assert.Equal(t, "", CoreName("The Law", DefaultFillerWords))
	assert.Equal(t, "lawofthe", CoreName("Law of the", nil))
}
