package measure_test

import (
	"math"
	"testing"

	"codeberg.org/avatarlab/morphctl/internal/measure"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeKey(t *testing.T) {
	tests := []struct {
		raw  string
		want measure.Key
	}{
		{"waist", measure.KeyWaist},
		{"Waist Circumference", measure.KeyWaist},
		{"bustCircumference", measure.KeyChest},
		{"hip_circumference", measure.KeyLowHip},
		{"Körpergröße", "korpergroße"},
		{"Stature", measure.KeyHeight},
		{"NECK-girth", measure.KeyNeck},
		{"shoulder width", measure.KeyShoulder},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, measure.NormalizeKey(tt.raw), "raw %q", tt.raw)
	}
}

func TestCollectMergeOrder(t *testing.T) {
	set := measure.Collect(measure.Sources{
		Basic: map[string]any{
			"waist":  70.0,
			"height": 170,
		},
		Body: map[string]any{
			"waistCircumference": 99.0, // same canonical key, must not overwrite
			"chest":              "92,5",
		},
		QuickMode: map[string]any{
			"chest":  120.0, // already set by body
			"lowHip": "101.5",
		},
	})

	assert.Equal(t, 70.0, set[measure.KeyWaist], "first writer wins")
	assert.Equal(t, 170.0, set[measure.KeyHeight])
	assert.Equal(t, 92.5, set[measure.KeyChest], "comma decimal separator parsed")
	assert.Equal(t, 101.5, set[measure.KeyLowHip])
}

func TestCollectDropsMalformedValues(t *testing.T) {
	set := measure.Collect(measure.Sources{
		Basic: map[string]any{
			"waist":        "not a number",
			"chest":        math.NaN(),
			"neck":         math.Inf(1),
			"creationMode": "quick",
			"thigh":        55.0,
		},
	})

	assert.Len(t, set, 1)
	assert.Equal(t, 55.0, set[measure.KeyThigh])
}

func TestCollectEmptySources(t *testing.T) {
	set := measure.Collect(measure.Sources{})
	assert.Empty(t, set)
}
