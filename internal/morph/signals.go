package morph

import (
	"codeberg.org/avatarlab/morphctl/internal/measure"
)

// Named composite signals. Per-measurement signals use the canonical
// measurement key directly.
const (
	sigHeight      = "height"
	sigWeight      = "weight"
	sigMass        = "mass"
	sigLean        = "lean"
	sigShape       = "shape"
	sigAthletic    = "athletic"
	sigTorsoWidth  = "torsowidth"
	sigTorsoLength = "torsolength"
	sigBelly       = "belly"
	sigGlute       = "glute"
	sigUpper       = "upper"
	sigLower       = "lower"
	sigInner       = "inner"
	sigOuter       = "outer"
	sigFront       = "front"
	sigBack        = "back"
	sigLength      = "length"
	sigSymmetry    = "symmetry"
)

// Per-category metric names addressed by keyword rules. They resolve
// against the category's metrics before falling back to global signals.
const (
	metricWidth = "width"
	metricDepth = "depth"
	metricGirth = "girth"
)

// signalSet holds the normalized sub-signals present for one derivation
// pass. Absent signals contribute nothing to weighted sums.
type signalSet map[string]float64

func (s signalSet) get(name string) (float64, bool) {
	v, ok := s[name]
	return v, ok
}

// blend computes 0.5 plus the weighted sum of (signal - 0.5) over the
// terms whose signal is present. ok is false when no term contributed.
func (s signalSet) blend(terms []term) (float64, bool) {
	v := 0.5
	contributed := false
	for _, t := range terms {
		if x, ok := s.get(t.signal); ok {
			v += (x - 0.5) * t.weight
			contributed = true
		}
	}
	if !contributed {
		return 0, false
	}
	return clamp01(v), true
}

func (s signalSet) putBlend(name string, terms []term) {
	if v, ok := s.blend(terms); ok {
		s[name] = v
	}
}

// computeSignals derives the full signal set for one pass: population
// fallbacks for height and weight, the BMI mass proxy, per-measurement
// ratio intensities, selector-driven shape and activity signals, and the
// composite geometry signals no measurement captures directly.
func computeSignals(set measure.Set, opts Options) signalSet {
	s := make(signalSet)

	height, hasHeight := set.Get(measure.KeyHeight)

	for key, window := range ratioWindows {
		value, ok := set.Get(key)
		if !ok {
			continue
		}
		if n, ok := measure.Normalize(value, height, window); ok {
			s[string(key)] = n
		}
	}

	// Body-mass proxy and its complement.
	if weight, ok := set.Get(measure.KeyWeight); ok && hasHeight && height > 0 {
		meters := height / 100
		if bmi, ok := measure.Normalize(weight/(meters*meters), 0, bmiWindow); ok {
			s[sigMass] = bmi
			s[sigLean] = 1 - bmi
		}
	}

	// Body shape: explicit selector wins over the measured hip-waist spread.
	if level, ok := bodyShapeLevels[string(measure.NormalizeKey(opts.BodyShape))]; ok {
		s[sigShape] = level
	} else {
		hip, hasHip := s.get(string(measure.KeyLowHip))
		waist, hasWaist := s.get(string(measure.KeyWaist))
		if hasHip && hasWaist {
			s[sigShape] = clamp01(0.5 + (hip-waist)*0.8)
		}
	}

	// Activity: explicit selector, else a blend of leanness.
	if level, ok := athleticLevels[string(measure.NormalizeKey(opts.AthleticLevel))]; ok {
		s[sigAthletic] = level
	} else if lean, ok := s.get(sigLean); ok {
		s[sigAthletic] = clamp01(0.15 + lean*0.7)
	}

	// Composite geometry signals.
	if w, ok := torsoWidth(s); ok {
		s[sigTorsoWidth] = w
	}
	s.putBlend(sigTorsoLength, []term{
		{sigHeight, 0.5},
		{string(measure.KeyInseam), -0.5},
	})
	s.putBlend(sigBelly, []term{
		{string(measure.KeyWaist), 0.5},
		{sigMass, 0.3},
		{sigShape, -0.2},
	})
	s.putBlend(sigGlute, []term{
		{string(measure.KeyLowHip), 0.5},
		{sigShape, 0.3},
		{sigMass, 0.2},
	})
	s.putBlend(sigUpper, []term{
		{string(measure.KeyShoulder), 0.4},
		{string(measure.KeyChest), 0.3},
		{string(measure.KeyLowHip), -0.4},
		{string(measure.KeyThigh), -0.2},
	})
	if upper, ok := s.get(sigUpper); ok {
		s[sigLower] = 1 - upper
	}
	s.putBlend(sigInner, []term{
		{sigMass, 0.3},
		{string(measure.KeyThigh), 0.2},
	})
	s.putBlend(sigOuter, []term{
		{sigShape, 0.3},
		{sigAthletic, 0.2},
	})
	if belly, ok := s.get(sigBelly); ok {
		s[sigFront] = belly
	}
	if glute, ok := s.get(sigGlute); ok {
		s[sigBack] = glute
	}
	s.putBlend(sigLength, []term{
		{sigHeight, 0.6},
		{string(measure.KeyInseam), 0.3},
	})

	// Left/right labels pull toward symmetry, always neutral.
	s[sigSymmetry] = 0.5

	return s
}

// torsoWidth averages the present members of (chest^2, waist, hip).
func torsoWidth(s signalSet) (float64, bool) {
	sum := 0.0
	n := 0
	if chest, ok := s.get(string(measure.KeyChest)); ok {
		sum += chest * chest
		n++
	}
	if waist, ok := s.get(string(measure.KeyWaist)); ok {
		sum += waist
		n++
	}
	if hip, ok := s.get(string(measure.KeyLowHip)); ok {
		sum += hip
		n++
	}
	if n == 0 {
		return 0, false
	}
	return clamp01(sum / float64(n)), true
}

// primaryGirth names the measurement most representative of each
// category's girth.
var primaryGirth = map[Category]string{
	CategoryBase:  sigMass,
	CategoryWaist: string(measure.KeyWaist),
	CategoryHips:  string(measure.KeyLowHip),
	CategoryChest: string(measure.KeyChest),
	CategoryArms:  string(measure.KeyBicep),
	CategoryLegs:  string(measure.KeyThigh),
	CategoryTorso: sigTorsoWidth,
	CategoryNeck:  string(measure.KeyNeck),
	CategoryHead:  string(measure.KeyHead),
	CategoryHand:  string(measure.KeyHandBreadth),
}

// categoryMetrics resolves the per-category sub-signal bundle: width,
// depth and girth lean on the category's primary girth measurement,
// everything else mirrors the global signals.
func categoryMetrics(s signalSet, category Category) signalSet {
	m := make(signalSet, len(s)+3)
	for name, v := range s {
		m[name] = v
	}

	primary := primaryGirth[category]
	if g, ok := s.get(primary); ok {
		m[metricGirth] = g
	}
	if w, ok := s.blend([]term{{primary, 0.6}, {sigTorsoWidth, 0.3}}); ok {
		m[metricWidth] = w
	}
	if d, ok := s.blend([]term{{primary, 0.5}, {sigMass, 0.3}}); ok {
		m[metricDepth] = d
	}

	return m
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
