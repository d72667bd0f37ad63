package measure

// Window configures how a raw measurement is reduced to a dimensionless
// intensity. When BaseRatio is positive the value is normalized relative
// to body height: the ratio value/height is mapped linearly into
// [BaseRatio*(1-Spread), BaseRatio*(1+Spread)]. Otherwise the absolute
// [Min, Max] range is used. Both paths clamp to [0, 1].
type Window struct {
	BaseRatio float64
	Spread    float64
	Min       float64
	Max       float64
}

// Normalize maps value into [0, 1] via the window. The second return is
// false when neither path is configured or the configured window is
// degenerate; the caller falls back to the next signal or omits the term.
func Normalize(value, height float64, w Window) (float64, bool) {
	if !isFinite(value) {
		return 0, false
	}

	if w.BaseRatio > 0 && height > 0 && isFinite(height) {
		lo := w.BaseRatio * (1 - w.Spread)
		hi := w.BaseRatio * (1 + w.Spread)
		if hi <= lo {
			return 0, false
		}
		return clamp01((value/height - lo) / (hi - lo)), true
	}

	if w.Max > w.Min {
		return clamp01((value - w.Min) / (w.Max - w.Min)), true
	}

	return 0, false
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
