package morph

import (
	"math"
	"strings"

	"codeberg.org/avatarlab/morphctl/internal/measure"
)

// Options carry the declared selectors that steer derivation alongside
// the measured values.
type Options struct {
	Gender        string
	BodyShape     string
	AthleticLevel string
}

// Engine derives shape parameter intensities from merged measurements.
// The zero value is not usable; construct with NewEngine.
type Engine struct {
	keywordRules    []Rule
	positionalRules []Rule
}

func NewEngine() *Engine {
	return &Engine{
		keywordRules:    keywordRules,
		positionalRules: positionalRules,
	}
}

// Derive returns a new catalog in which every untouched parameter's value
// is replaced by a derived estimate and every manually-set parameter is
// copied through unchanged. With an empty measurement set it is an
// identity pass. Derivation is deterministic: identical inputs yield a
// bit-for-bit identical catalog.
func (e *Engine) Derive(catalog []Attribute, set measure.Set, opts Options) []Attribute {
	out := Clone(catalog)
	if len(set) == 0 {
		return out
	}

	signals := computeSignals(set, opts)
	bias := genderBias[string(measure.NormalizeKey(opts.Gender))]

	bases := make(map[Category]float64, len(categoryWeights))
	metrics := make(map[Category]signalSet, len(categoryWeights))
	for category, terms := range categoryWeights {
		base := 0.5
		if v, ok := signals.blend(terms); ok {
			base = v
		}
		bases[category] = base
		metrics[category] = categoryMetrics(signals, category)
	}

	for i := range out {
		attr := &out[i]
		if attr.IsManual() {
			continue
		}
		// Categories without a weight table derive from the neutral base
		// and the global signals instead of collapsing to an extreme.
		base, ok := bases[attr.Category]
		if !ok {
			base = 0.5
		}
		m, ok := metrics[attr.Category]
		if !ok {
			m = categoryMetrics(signals, attr.Category)
		}
		attr.Value = e.deriveValue(attr, base, m, signals, bias)
	}

	return out
}

// deriveValue runs the full adjustment pipeline for one parameter:
// category base, gender bias, keyword rules, positional rules, jitter,
// then round and clamp to the 0-100 scale.
func (e *Engine) deriveValue(attr *Attribute, base float64, metrics, signals signalSet, bias float64) int {
	label := strings.ToLower(attr.Label)

	v := clamp01(base + bias)
	v = applyRules(e.keywordRules, label, v, metrics)
	v = applyRules(e.positionalRules, label, v, metrics)
	v = clamp01(v + jitter(attr.ID, signals))

	return int(math.Round(v * 100))
}

// applyRules applies the matching rules in declaration order. A rule
// whose target signal is absent contributes nothing.
func applyRules(rules []Rule, label string, v float64, metrics signalSet) float64 {
	for _, rule := range rules {
		if !matches(rule, label) {
			continue
		}
		target, ok := metrics.get(rule.Target)
		if !ok {
			continue
		}
		if rule.Invert {
			target = 1 - target
		}
		v = clamp01(v + (target-0.5)*rule.Weight)
	}
	return v
}

func matches(rule Rule, label string) bool {
	for _, kw := range rule.Keywords {
		if strings.Contains(label, kw) {
			return true
		}
	}
	return false
}
