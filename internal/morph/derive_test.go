package morph_test

import (
	"testing"

	"codeberg.org/avatarlab/morphctl/internal/measure"
	"codeberg.org/avatarlab/morphctl/internal/morph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullSet() measure.Set {
	return measure.Set{
		measure.KeyHeight:   170,
		measure.KeyWeight:   62,
		measure.KeyChest:    92,
		measure.KeyWaist:    70,
		measure.KeyLowHip:   98,
		measure.KeyThigh:    56,
		measure.KeyCalf:     36,
		measure.KeyBicep:    28,
		measure.KeyNeck:     34,
		measure.KeyHead:     56,
		measure.KeyInseam:   78,
		measure.KeyShoulder: 44,
	}
}

func TestDeriveDeterministic(t *testing.T) {
	engine := morph.NewEngine()
	catalog := morph.DefaultCatalog()
	set := fullSet()
	opts := morph.Options{Gender: "female"}

	first := engine.Derive(catalog, set, opts)
	second := engine.Derive(catalog, set, opts)

	assert.Equal(t, first, second, "identical inputs derive identical catalogs")
}

func TestDeriveIdempotent(t *testing.T) {
	engine := morph.NewEngine()
	catalog := morph.DefaultCatalog()
	set := fullSet()
	opts := morph.Options{}

	once := engine.Derive(catalog, set, opts)
	twice := engine.Derive(once, set, opts)

	assert.Equal(t, once, twice, "re-deriving a derived catalog is a fixed point")
}

func TestDerivePreservesManualEdits(t *testing.T) {
	engine := morph.NewEngine()
	catalog := morph.DefaultCatalog()

	catalog[0].Value = 87
	catalog[5].Value = 3

	derived := engine.Derive(catalog, fullSet(), morph.Options{Gender: "male"})

	assert.Equal(t, 87, derived[0].Value, "manual edit preserved")
	assert.Equal(t, 3, derived[5].Value, "manual edit preserved")
}

func TestDeriveBounds(t *testing.T) {
	engine := morph.NewEngine()
	catalog := morph.DefaultCatalog()

	extremes := []measure.Set{
		{
			measure.KeyHeight: 150,
			measure.KeyWeight: 200,
			measure.KeyWaist:  180,
			measure.KeyLowHip: 190,
			measure.KeyChest:  185,
		},
		{
			measure.KeyHeight: 200,
			measure.KeyWeight: 30,
			measure.KeyWaist:  40,
			measure.KeyLowHip: 50,
			measure.KeyChest:  55,
		},
	}

	for _, set := range extremes {
		for _, attr := range engine.Derive(catalog, set, morph.Options{}) {
			assert.GreaterOrEqual(t, attr.Value, 0, "%s", attr.Label)
			assert.LessOrEqual(t, attr.Value, 100, "%s", attr.Label)
		}
	}
}

func TestDeriveEmptySetIsIdentity(t *testing.T) {
	engine := morph.NewEngine()
	catalog := morph.DefaultCatalog()[:24]
	catalog[3].Value = 71

	derived := engine.Derive(catalog, measure.Set{}, morph.Options{})

	require.Equal(t, catalog, derived)

	// The result is a copy, not an alias.
	derived[0].Value = 99
	assert.Equal(t, morph.Neutral, catalog[0].Value)
}

func TestDeriveFreshNeutralCatalogStaysNeutralWithoutData(t *testing.T) {
	engine := morph.NewEngine()
	catalog := morph.DefaultCatalog()[:24]

	derived := engine.Derive(catalog, measure.Set{}, morph.Options{})

	require.Len(t, derived, 24)
	for _, attr := range derived {
		assert.Equal(t, morph.Neutral, attr.Value, "%s", attr.Label)
	}
}

func TestDeriveRespondsToMeasurements(t *testing.T) {
	engine := morph.NewEngine()
	catalog := morph.DefaultCatalog()

	slim := engine.Derive(catalog, measure.Set{
		measure.KeyHeight: 170,
		measure.KeyWaist:  58,
	}, morph.Options{})
	wide := engine.Derive(catalog, measure.Set{
		measure.KeyHeight: 170,
		measure.KeyWaist:  96,
	}, morph.Options{})

	slimWaist := findByLabel(t, slim, "Waist Girth")
	wideWaist := findByLabel(t, wide, "Waist Girth")
	assert.Less(t, slimWaist.Value, wideWaist.Value,
		"a larger waist measurement derives a larger waist intensity")
}

func TestDeriveUncataloguedCategoryStaysNearNeutral(t *testing.T) {
	engine := morph.NewEngine()
	catalog := append(morph.DefaultCatalog(), morph.Attribute{
		ID:       5001,
		Label:    "Jaw Width",
		Category: "Face",
		Value:    morph.Neutral,
	})

	derived := engine.Derive(catalog, fullSet(), morph.Options{})

	jaw := findByLabel(t, derived, "Jaw Width")
	assert.InDelta(t, morph.Neutral, jaw.Value, 15,
		"a category without a weight table derives from the neutral base")
}

func TestDeriveGenderBias(t *testing.T) {
	engine := morph.NewEngine()
	catalog := morph.DefaultCatalog()
	set := fullSet()

	male := engine.Derive(catalog, set, morph.Options{Gender: "male"})
	female := engine.Derive(catalog, set, morph.Options{Gender: "female"})

	higher := 0
	for i := range male {
		if male[i].Value > female[i].Value {
			higher++
		}
	}
	assert.Greater(t, higher, len(male)/2, "male bias nudges most parameters up")
}

func findByLabel(t *testing.T, catalog []morph.Attribute, label string) morph.Attribute {
	t.Helper()
	for _, attr := range catalog {
		if attr.Label == label {
			return attr
		}
	}
	t.Fatalf("label %q not in catalog", label)
	return morph.Attribute{}
}
