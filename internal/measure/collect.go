package measure

import (
	"math"
	"strconv"
	"strings"

	"codeberg.org/avatarlab/morphctl/internal/logger"
)

// Set holds one authoritative finite value per canonical key.
type Set map[Key]float64

// Sources are the partial measurement records merged by Collect, in
// precedence order: basic first, then detailed body, then quick-mode
// estimates. The first source to define a canonical key wins.
type Sources struct {
	Basic     map[string]any
	Body      map[string]any
	QuickMode map[string]any
}

// Keys excluded from numeric merging; they carry status, not values.
var statusKeys = map[Key]struct{}{
	"creationmode": {},
}

// Collect merges the sources into a single Set. Non-numeric and
// non-finite values are dropped; missing data is expected, not an error.
func Collect(src Sources) Set {
	out := make(Set)
	for _, m := range []map[string]any{src.Basic, src.Body, src.QuickMode} {
		for raw, v := range m {
			key := NormalizeKey(raw)
			if key == "" {
				continue
			}
			if _, ok := statusKeys[key]; ok {
				continue
			}
			if _, ok := out[key]; ok {
				continue
			}
			value, ok := coerce(v)
			if !ok {
				logger.Warn().
					Str("key", string(key)).
					Interface("value", v).
					Msg("Dropping non-numeric measurement value")
				continue
			}
			out[key] = value
		}
	}

	return out
}

// Get returns the value for key and whether it is present.
func (s Set) Get(key Key) (float64, bool) {
	v, ok := s[key]
	return v, ok
}

// coerce converts a raw source value into a finite float64. Numeric
// strings are accepted with either decimal separator.
func coerce(v any) (float64, bool) {
	switch value := v.(type) {
	case float64:
		return value, isFinite(value)
	case float32:
		return float64(value), isFinite(float64(value))
	case int:
		return float64(value), true
	case int32:
		return float64(value), true
	case int64:
		return float64(value), true
	case string:
		text := strings.TrimSpace(strings.ReplaceAll(value, ",", "."))
		if text == "" {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return 0, false
		}
		return parsed, isFinite(parsed)
	default:
		return 0, false
	}
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
