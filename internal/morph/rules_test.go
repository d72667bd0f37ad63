package morph

import (
	"testing"

	"codeberg.org/avatarlab/morphctl/internal/measure"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyRulesPullsTowardTarget(t *testing.T) {
	rules := []Rule{
		{Keywords: []string{"width"}, Target: metricWidth, Weight: 0.6},
	}
	metrics := signalSet{metricWidth: 0.9}

	v := applyRules(rules, "waist width", 0.5, metrics)
	assert.InDelta(t, 0.5+(0.9-0.5)*0.6, v, 1e-9)
}

func TestApplyRulesInvertPullsAway(t *testing.T) {
	rules := []Rule{
		{Keywords: []string{"flat"}, Target: sigMass, Weight: 0.5, Invert: true},
	}
	metrics := signalSet{sigMass: 0.8}

	v := applyRules(rules, "stomach flat", 0.5, metrics)
	assert.InDelta(t, 0.5+((1-0.8)-0.5)*0.5, v, 1e-9)
}

func TestApplyRulesSkipsAbsentSignals(t *testing.T) {
	rules := []Rule{
		{Keywords: []string{"muscular"}, Target: sigAthletic, Weight: 0.65},
	}

	v := applyRules(rules, "chest muscular", 0.42, signalSet{})
	assert.Equal(t, 0.42, v, "absent target contributes nothing")
}

func TestApplyRulesOrderIsStable(t *testing.T) {
	rules := []Rule{
		{Keywords: []string{"belly"}, Target: sigBelly, Weight: 0.7},
		{Keywords: []string{"size"}, Target: sigMass, Weight: 0.6},
	}
	metrics := signalSet{sigBelly: 0.9, sigMass: 0.2}

	// belly applies first, then mass: order matters once clamping kicks in.
	v := applyRules(rules, "belly size", 0.5, metrics)
	expected := clamp01(clamp01(0.5+(0.9-0.5)*0.7) + (0.2-0.5)*0.6)
	assert.InDelta(t, expected, v, 1e-9)
}

func TestApplyRulesClamps(t *testing.T) {
	rules := []Rule{
		{Keywords: []string{"big"}, Target: sigMass, Weight: 1.0},
	}
	metrics := signalSet{sigMass: 1.0}

	v := applyRules(rules, "big big big", 0.9, metrics)
	assert.Equal(t, 1.0, v)
}

func TestJitterDeterministicAndBounded(t *testing.T) {
	signals := signalSet{sigMass: 0.42, sigShape: 0.61}

	seen := make(map[float64]int)
	for _, id := range []int{101, 201, 301, 401, 501, 601, 701, 801, 901, 1001} {
		j := jitter(id, signals)
		assert.Equal(t, j, jitter(id, signals), "same seed, same jitter")
		assert.LessOrEqual(t, j, jitterSpan)
		assert.GreaterOrEqual(t, j, -jitterSpan)
		seen[j]++
	}
	assert.Greater(t, len(seen), 5, "jitter spreads across parameters")
}

func TestComputeSignalsShapeFromMeasurements(t *testing.T) {
	set := measure.Set{
		measure.KeyHeight: 170,
		measure.KeyWaist:  70,
		measure.KeyLowHip: 98,
	}

	s := computeSignals(set, Options{})
	shape, ok := s.get(sigShape)
	require.True(t, ok)
	assert.Greater(t, shape, 0.5, "hip larger than waist reads as lower-body emphasis")
}

func TestComputeSignalsSelectorOverridesMeasurements(t *testing.T) {
	set := measure.Set{
		measure.KeyHeight: 170,
		measure.KeyWaist:  70,
		measure.KeyLowHip: 98,
	}

	s := computeSignals(set, Options{BodyShape: "Apple", AthleticLevel: "High"})

	shape, ok := s.get(sigShape)
	require.True(t, ok)
	assert.Equal(t, bodyShapeLevels["apple"], shape)

	athletic, ok := s.get(sigAthletic)
	require.True(t, ok)
	assert.Equal(t, athleticLevels["high"], athletic)
}

func TestComputeSignalsMassProxy(t *testing.T) {
	set := measure.Set{
		measure.KeyHeight: 170,
		measure.KeyWeight: 62,
	}

	s := computeSignals(set, Options{})

	// BMI 21.45 inside the 19-32 band.
	mass, ok := s.get(sigMass)
	require.True(t, ok)
	assert.InDelta(t, (62/(1.7*1.7)-19)/13, mass, 1e-9)

	lean, ok := s.get(sigLean)
	require.True(t, ok)
	assert.InDelta(t, 1-mass, lean, 1e-9)
}

func TestComputeSignalsMassAbsentWithoutWeight(t *testing.T) {
	s := computeSignals(measure.Set{measure.KeyHeight: 170}, Options{})

	_, ok := s.get(sigMass)
	assert.False(t, ok, "no weight, no mass proxy")
	_, ok = s.get(sigAthletic)
	assert.False(t, ok, "no leanness, no derived activity signal")
}

func TestTorsoWidthAveragesPresentMembers(t *testing.T) {
	s := signalSet{
		string(measure.KeyChest): 0.8,
		string(measure.KeyWaist): 0.4,
	}

	w, ok := torsoWidth(s)
	require.True(t, ok)
	assert.InDelta(t, (0.8*0.8+0.4)/2, w, 1e-9)

	_, ok = torsoWidth(signalSet{})
	assert.False(t, ok)
}

func TestCategoryMetricsResolvePrimaryGirth(t *testing.T) {
	s := signalSet{
		string(measure.KeyWaist): 0.7,
		sigMass:                  0.6,
	}

	m := categoryMetrics(s, CategoryWaist)

	girth, ok := m.get(metricGirth)
	require.True(t, ok)
	assert.Equal(t, 0.7, girth)

	depth, ok := m.get(metricDepth)
	require.True(t, ok)
	assert.InDelta(t, 0.5+(0.7-0.5)*0.5+(0.6-0.5)*0.3, depth, 1e-9)
}
