package morph

import "codeberg.org/avatarlab/morphctl/internal/measure"

// The numeric tables below are tunables. They encode working assumptions
// about adult proportions, not validated anthropometry.

// ratioWindows holds the per-measurement normalization window: a
// height-relative baseline ratio with a tolerance spread, or an absolute
// fallback range where no reliable ratio baseline exists.
var ratioWindows = map[measure.Key]measure.Window{
	measure.KeyHeight:      {Min: 150, Max: 200},
	measure.KeyWeight:      {Min: 45, Max: 120},
	measure.KeyShoulder:    {BaseRatio: 0.259, Spread: 0.25},
	measure.KeyChest:       {BaseRatio: 0.53, Spread: 0.30},
	measure.KeyUnderchest:  {BaseRatio: 0.45, Spread: 0.30},
	measure.KeyWaist:       {BaseRatio: 0.44, Spread: 0.35},
	measure.KeyHighHip:     {BaseRatio: 0.50, Spread: 0.30},
	measure.KeyLowHip:      {BaseRatio: 0.54, Spread: 0.30},
	measure.KeyInseam:      {BaseRatio: 0.45, Spread: 0.15},
	measure.KeyThigh:       {BaseRatio: 0.32, Spread: 0.35},
	measure.KeyMidThigh:    {BaseRatio: 0.30, Spread: 0.35},
	measure.KeyKnee:        {BaseRatio: 0.22, Spread: 0.30},
	measure.KeyCalf:        {BaseRatio: 0.21, Spread: 0.30},
	measure.KeyAnkle:       {BaseRatio: 0.125, Spread: 0.30},
	measure.KeyBicep:       {BaseRatio: 0.17, Spread: 0.40},
	measure.KeyForearm:     {BaseRatio: 0.15, Spread: 0.35},
	measure.KeyWrist:       {BaseRatio: 0.095, Spread: 0.25},
	measure.KeyArmSpan:     {BaseRatio: 1.0, Spread: 0.08},
	measure.KeyHandLength:  {BaseRatio: 0.105, Spread: 0.20},
	measure.KeyHandBreadth: {BaseRatio: 0.05, Spread: 0.25},
	measure.KeyFootLength:  {BaseRatio: 0.145, Spread: 0.15},
	measure.KeyFootBreadth: {BaseRatio: 0.055, Spread: 0.25},
	measure.KeyNeck:        {BaseRatio: 0.21, Spread: 0.30},
	measure.KeyHead:        {BaseRatio: 0.33, Spread: 0.15},
}

// bmiWindow normalizes weight/(height/100)^2 into the band used as the
// body-mass proxy.
var bmiWindow = measure.Window{Min: 19, Max: 32}

type term struct {
	signal string
	weight float64
}

// categoryWeights defines each category's base intensity as 0.5 plus the
// weighted sum of (signal - 0.5) over the present signals.
var categoryWeights = map[Category][]term{
	CategoryBase:  {{sigMass, 0.5}, {sigHeight, 0.3}},
	CategoryWaist: {{string(measure.KeyWaist), 0.7}, {sigBelly, 0.35}, {sigMass, 0.3}, {sigAthletic, -0.25}},
	CategoryHips:  {{string(measure.KeyLowHip), 0.7}, {sigGlute, 0.35}, {sigShape, 0.3}},
	CategoryChest: {{string(measure.KeyChest), 0.7}, {string(measure.KeyUnderchest), 0.25}, {sigMass, 0.2}},
	CategoryArms:  {{string(measure.KeyBicep), 0.5}, {string(measure.KeyForearm), 0.3}, {sigAthletic, 0.3}, {sigMass, 0.15}},
	CategoryLegs:  {{string(measure.KeyThigh), 0.5}, {string(measure.KeyCalf), 0.3}, {sigAthletic, 0.25}, {sigMass, 0.15}},
	CategoryTorso: {{sigTorsoWidth, 0.5}, {sigTorsoLength, 0.3}, {sigMass, 0.2}},
	CategoryNeck:  {{string(measure.KeyNeck), 0.8}, {sigMass, 0.15}},
	CategoryHead:  {{string(measure.KeyHead), 0.8}},
	CategoryHand:  {{string(measure.KeyHandLength), 0.45}, {string(measure.KeyHandBreadth), 0.45}},
}

// Rule is one label-keyword heuristic: when any keyword appears in the
// lower-cased parameter label, the intensity is pulled toward (or, when
// inverted, away from) the target signal with the given weight.
type Rule struct {
	Keywords []string
	Target   string
	Weight   float64
	Invert   bool
}

// keywordRules apply in declaration order so results are reproducible.
var keywordRules = []Rule{
	{Keywords: []string{"width", "diameter", "breadth", "wide"}, Target: metricWidth, Weight: 0.6},
	{Keywords: []string{"depth"}, Target: metricDepth, Weight: 0.6},
	{Keywords: []string{"girth", "circumference", "round"}, Target: metricGirth, Weight: 0.6},
	{Keywords: []string{"muscular", "strength", "muscle", "toned"}, Target: sigAthletic, Weight: 0.65},
	{Keywords: []string{"preg"}, Target: sigBelly, Weight: 0.85},
	{Keywords: []string{"belly", "stomach"}, Target: sigBelly, Weight: 0.7},
	{Keywords: []string{"glute", "butt", "rear"}, Target: sigGlute, Weight: 0.7},
	{Keywords: []string{"heavy", "mass", "big", "full", "size"}, Target: sigMass, Weight: 0.6},
	{Keywords: []string{"flat", "small", "weak", "thin", "slim"}, Target: sigMass, Weight: 0.5, Invert: true},
	{Keywords: []string{"long", "length", "tall"}, Target: sigLength, Weight: 0.55},
	{Keywords: []string{"short"}, Target: sigLength, Weight: 0.5, Invert: true},
	{Keywords: []string{"scale", "height"}, Target: sigHeight, Weight: 0.5},
}

// positionalRules pull toward the matching per-category balance signal.
var positionalRules = []Rule{
	{Keywords: []string{"upper"}, Target: sigUpper, Weight: 0.4},
	{Keywords: []string{"lower"}, Target: sigLower, Weight: 0.4},
	{Keywords: []string{"inner"}, Target: sigInner, Weight: 0.4},
	{Keywords: []string{"outer"}, Target: sigOuter, Weight: 0.4},
	{Keywords: []string{"front"}, Target: sigFront, Weight: 0.4},
	{Keywords: []string{"back"}, Target: sigBack, Weight: 0.4},
	{Keywords: []string{"left"}, Target: sigSymmetry, Weight: 0.3},
	{Keywords: []string{"right"}, Target: sigSymmetry, Weight: 0.3},
}

// bodyShapeLevels maps the explicit discrete shape selector onto the
// shape signal; higher means more lower-body emphasis.
var bodyShapeLevels = map[string]float64{
	"pear":             0.75,
	"hourglass":        0.65,
	"rectangle":        0.5,
	"apple":            0.3,
	"invertedtriangle": 0.2,
}

// athleticLevels maps the explicit activity selector onto the athletic
// signal.
var athleticLevels = map[string]float64{
	"sedentary": 0.15,
	"low":       0.25,
	"medium":    0.5,
	"high":      0.75,
	"athletic":  0.85,
}

// genderBias is the small fixed offset applied to every derived base.
var genderBias = map[string]float64{
	"male":   0.02,
	"female": -0.01,
}
