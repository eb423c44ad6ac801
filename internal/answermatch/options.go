package answermatch

import (
	"errors"
	"fmt"
	"sort"
)

// Preset names accepted by Preset.
const (
	PresetGeneric = "generic"
	PresetLaw     = "law"
)

// ErrUnknownPreset is returned by Preset for a name it does not know.
var ErrUnknownPreset = errors.New("unknown matcher preset")

// DefaultFillerWords are dropped when computing core names.
var DefaultFillerWords = []string{"law", "effect", "principle", "rule", "the", "of", "threshold"}

// TypoStep allows up to MaxDistance edits once the reference is longer than
// LongerThan runes.
type TypoStep struct {
	LongerThan  int
	MaxDistance int
}

// Options tunes a Matcher.
type Options struct {
	// FillerWords are removed from both strings before the core-name checks.
	FillerWords []string

	// MinCoreLen is the shortest core name allowed to take part in a core
	// comparison, exact or fuzzy.
	MinCoreLen int

	// MinFuzzyLen is the shortest normalized string allowed to take part in
	// the edit-distance check.
	MinFuzzyLen int

	// CoreContainment accepts a core name found inside the other one when
	// the shorter core has at least this many runes. Zero turns it off.
	CoreContainment int

	// ContainmentRatio is the lowest min/max length ratio accepted when one
	// normalized string contains the other.
	ContainmentRatio float64

	// Typo and CoreTypo hold the graduated edit-distance tolerances for the
	// normalized strings and the core names.
	Typo     []TypoStep
	CoreTypo []TypoStep
}

// GenericOptions returns the options used for ordinary type-in questions.
func GenericOptions() Options {
	return Options{
		FillerWords:      append([]string(nil), DefaultFillerWords...),
		MinCoreLen:       3,
		MinFuzzyLen:      3,
		ContainmentRatio: 0.5,
		Typo: []TypoStep{
			{LongerThan: 10, MaxDistance: 3},
			{LongerThan: 6, MaxDistance: 2},
			{LongerThan: 0, MaxDistance: 1},
		},
		CoreTypo: []TypoStep{
			{LongerThan: 8, MaxDistance: 3},
			{LongerThan: 4, MaxDistance: 2},
			{LongerThan: 0, MaxDistance: 1},
		},
	}
}

// LawOptions returns the options used when the answer is the name of a law
// or principle. The length floors are raised to 4 and a partial core name
// such as "aesthetic" for "Aesthetic-Usability Effect" is accepted.
func LawOptions() Options {
	o := GenericOptions()
	o.MinCoreLen = 4
	o.MinFuzzyLen = 4
	o.CoreContainment = 4
	return o
}

// Preset returns the options registered under name.
func Preset(name string) (Options, error) {
	switch name {
	case PresetGeneric, "":
		return GenericOptions(), nil
	case PresetLaw:
		return LawOptions(), nil
	default:
		return Options{}, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}
}

// Presets lists the preset names.
func Presets() []string {
	return []string{PresetGeneric, PresetLaw}
}

// Validate checks that the options describe a usable matcher.
func (o Options) Validate() error {
	if o.MinCoreLen < 1 {
		return fmt.Errorf("min core length must be at least 1, got %d", o.MinCoreLen)
	}
	if o.MinFuzzyLen < 1 {
		return fmt.Errorf("min fuzzy length must be at least 1, got %d", o.MinFuzzyLen)
	}
	if o.CoreContainment < 0 {
		return fmt.Errorf("core containment length must not be negative, got %d", o.CoreContainment)
	}
	if o.ContainmentRatio <= 0 || o.ContainmentRatio > 1 {
		return fmt.Errorf("containment ratio must be in (0, 1], got %v", o.ContainmentRatio)
	}
	for _, steps := range [][]TypoStep{o.Typo, o.CoreTypo} {
		for _, s := range steps {
			if s.MaxDistance < 0 {
				return fmt.Errorf("typo step %+v: negative distance", s)
			}
		}
	}
	return nil
}

// sortedSteps returns a copy of steps ordered by LongerThan, largest first.
func sortedSteps(steps []TypoStep) []TypoStep {
	out := append([]TypoStep(nil), steps...)
	sort.Slice(out, func(i, j int) bool { return out[i].LongerThan > out[j].LongerThan })
	return out
}

// tolerance returns the edit budget for a reference of refLen runes, or -1
// when no step applies.
func tolerance(steps []TypoStep, refLen int) int {
	for _, s := range steps {
		if refLen > s.LongerThan {
			return s.MaxDistance
		}
	}
	return -1
}
