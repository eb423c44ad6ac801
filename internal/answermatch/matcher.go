// Package answermatch decides whether a typed answer is close enough to the
// reference answer of a question to count as correct.
package answermatch

import (
	"strings"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
)

// Tier identifies the check that accepted an answer.
type Tier string

const (
	TierNone        Tier = "none"
	TierExact       Tier = "exact"
	TierAlternate   Tier = "alternate"
	TierCore        Tier = "core-match"
	TierContainment Tier = "containment"
	TierFuzzy       Tier = "fuzzy"
)

// Verdict is the outcome of a single comparison.
type Verdict struct {
	Match bool
	Tier  Tier

	// Distance is the edit distance that decided a fuzzy match, or the
	// distance between the normalized strings when the fuzzy step ran and
	// failed. It is -1 when the fuzzy step never ran.
	Distance int
}

// Matcher compares answers using a fixed set of Options. It holds no
// mutable state and is safe for concurrent use.
type Matcher struct {
	opts     Options
	fillers  map[string]struct{}
	typo     []TypoStep
	coreTypo []TypoStep
}

var defaultMatcher = New(GenericOptions())

// IsCorrect reports whether candidate matches reference under the generic
// preset.
func IsCorrect(candidate, reference string) bool {
	return defaultMatcher.IsCorrect(candidate, reference)
}

// Similarity returns a 0..1 Levenshtein similarity of the compact forms of a
// and b. It is a diagnostic and plays no part in Match.
func Similarity(a, b string) float64 {
	return strutil.Similarity(Normalize(a), Normalize(b), metrics.NewLevenshtein())
}

// Default returns the generic matcher.
func Default() *Matcher {
	return defaultMatcher
}

// New builds a Matcher. Options are copied.
func New(opts Options) *Matcher {
	fillers := make(map[string]struct{}, len(opts.FillerWords))
	for _, f := range opts.FillerWords {
		if n := Normalize(f); n != "" {
			fillers[n] = struct{}{}
		}
	}
	return &Matcher{
		opts:     opts,
		fillers:  fillers,
		typo:     sortedSteps(opts.Typo),
		coreTypo: sortedSteps(opts.CoreTypo),
	}
}

// ForPreset builds a Matcher for a named preset.
func ForPreset(name string) (*Matcher, error) {
	opts, err := Preset(name)
	if err != nil {
		return nil, err
	}
	return New(opts), nil
}

// Options returns the options the matcher was built with.
func (m *Matcher) Options() Options {
	return m.opts
}

// IsCorrect reports whether candidate matches reference.
func (m *Matcher) IsCorrect(candidate, reference string) bool {
	return m.Match(candidate, reference).Match
}

// Match runs the checks in order and stops at the first one that accepts:
// exact, alternate form, core name, containment, then edit distance.
func (m *Matcher) Match(candidate, reference string) Verdict {
	nc, nr := Normalize(candidate), Normalize(reference)
	v := Verdict{Tier: TierNone, Distance: -1}

	if nc == "" {
		if nr == "" {
			return accept(v, TierExact)
		}
		return v
	}

	if nc == nr {
		return accept(v, TierExact)
	}

	if alt, ok := beforeParen(reference); ok {
		na := Normalize(alt)
		cand, _ := beforeParen(candidate)
		if na != "" && Normalize(cand) == na {
			return accept(v, TierAlternate)
		}
	}

	cc, cr := coreName(candidate, m.fillers), coreName(reference, m.fillers)
	coreOK := runeLen(cc) >= m.opts.MinCoreLen && runeLen(cr) >= m.opts.MinCoreLen
	if coreOK && cc == cr {
		return accept(v, TierCore)
	}

	if m.coreContains(cc, cr) {
		return accept(v, TierContainment)
	}

	if m.contains(nc, nr) {
		return accept(v, TierContainment)
	}

	lc, lr := runeLen(nc), runeLen(nr)
	if lc >= m.opts.MinFuzzyLen && lr >= m.opts.MinFuzzyLen {
		v.Distance = Distance(nc, nr)
		if v.Distance <= tolerance(m.typo, lr) {
			return accept(v, TierFuzzy)
		}
	}

	if coreOK {
		d := Distance(cc, cr)
		if d <= tolerance(m.coreTypo, runeLen(cr)) {
			v.Distance = d
			return accept(v, TierFuzzy)
		}
	}

	return v
}

// contains reports whether one normalized string holds the other and the
// shorter covers enough of the longer.
func (m *Matcher) contains(nc, nr string) bool {
	if !strings.Contains(nc, nr) && !strings.Contains(nr, nc) {
		return false
	}
	lc, lr := runeLen(nc), runeLen(nr)
	ratio := float64(min(lc, lr)) / float64(max(lc, lr))
	return ratio >= m.opts.ContainmentRatio
}

// coreContains reports whether one core name holds the other, with the
// shorter one at least CoreContainment runes long. Zero disables the check.
func (m *Matcher) coreContains(cc, cr string) bool {
	if m.opts.CoreContainment <= 0 {
		return false
	}
	short, long := cc, cr
	if runeLen(short) > runeLen(long) {
		short, long = long, short
	}
	return runeLen(short) >= m.opts.CoreContainment && strings.Contains(long, short)
}

func accept(v Verdict, tier Tier) Verdict {
	v.Match = true
	v.Tier = tier
	return v
}
