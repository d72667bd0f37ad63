package morph

import "math"

// jitterSpan is the maximum deterministic variation applied to a derived
// intensity, as a fraction of the full range (±4 percentage points).
const jitterSpan = 0.04

// jitter returns a value in [-jitterSpan, +jitterSpan] seeded from the
// parameter id and the rounded mass and shape signals. Identical inputs
// produce identical output; distinct parameters spread apart so derived
// bodies do not look artificially uniform.
func jitter(morphID int, s signalSet) float64 {
	mass := 0.5
	if v, ok := s.get(sigMass); ok {
		mass = v
	}
	shape := 0.5
	if v, ok := s.get(sigShape); ok {
		shape = v
	}

	seed := uint64(morphID)
	seed ^= uint64(math.Round(mass*100)) << 24
	seed ^= uint64(math.Round(shape*100)) << 48

	unit := float64(splitmix64(seed)>>11) / float64(1<<53)
	return (unit*2 - 1) * jitterSpan
}

// splitmix64 is the mixing function from Vigna's SplitMix64 generator.
func splitmix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}
