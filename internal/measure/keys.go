package measure

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Key is a canonical, alias-normalized measurement identifier.
type Key string

// Canonical measurement keys. Lengths and girths are centimeters,
// weight is kilograms.
const (
	KeyHeight      Key = "height"
	KeyWeight      Key = "weight"
	KeyShoulder    Key = "shoulder"
	KeyChest       Key = "chest"
	KeyUnderchest  Key = "underchest"
	KeyWaist       Key = "waist"
	KeyHighHip     Key = "highhip"
	KeyLowHip      Key = "lowhip"
	KeyInseam      Key = "inseam"
	KeyThigh       Key = "thigh"
	KeyMidThigh    Key = "midthigh"
	KeyKnee        Key = "knee"
	KeyCalf        Key = "calf"
	KeyAnkle       Key = "ankle"
	KeyBicep       Key = "bicep"
	KeyForearm     Key = "forearm"
	KeyWrist       Key = "wrist"
	KeyArmSpan     Key = "armspan"
	KeyHandLength  Key = "handlength"
	KeyHandBreadth Key = "handbreadth"
	KeyFootLength  Key = "footlength"
	KeyFootBreadth Key = "footbreadth"
	KeyNeck        Key = "neck"
	KeyHead        Key = "head"
)

// aliases maps normalized raw spellings to their canonical key. Applied
// after NormalizeKey so differently-cased and accented source fields
// converge on one entry.
var aliases = map[string]Key{
	"bust":                 KeyChest,
	"bustcircumference":    KeyChest,
	"chestcircumference":   KeyChest,
	"underbust":            KeyUnderchest,
	"underbustgirth":       KeyUnderchest,
	"waistcircumference":   KeyWaist,
	"waistgirth":           KeyWaist,
	"hip":                  KeyLowHip,
	"hips":                 KeyLowHip,
	"hipcircumference":     KeyLowHip,
	"lowhipgirth":          KeyLowHip,
	"highhipgirth":         KeyHighHip,
	"upperhip":             KeyHighHip,
	"bodyheight":           KeyHeight,
	"stature":              KeyHeight,
	"bodyweight":           KeyWeight,
	"mass":                 KeyWeight,
	"insideleg":            KeyInseam,
	"inseamlength":         KeyInseam,
	"thighcircumference":   KeyThigh,
	"upperthigh":           KeyThigh,
	"midthighgirth":        KeyMidThigh,
	"kneecircumference":    KeyKnee,
	"calfcircumference":    KeyCalf,
	"anklecircumference":   KeyAnkle,
	"upperarm":             KeyBicep,
	"bicepcircumference":   KeyBicep,
	"forearmgirth":         KeyForearm,
	"forearmcircumference": KeyForearm,
	"wristcircumference":   KeyWrist,
	"armspanlength":        KeyArmSpan,
	"shoulderwidth":        KeyShoulder,
	"shoulderbreadth":      KeyShoulder,
	"neckcircumference":    KeyNeck,
	"neckgirth":            KeyNeck,
	"headcircumference":    KeyHead,
	"handlengthright":      KeyHandLength,
	"handbreadthright":     KeyHandBreadth,
	"footlengthright":      KeyFootLength,
	"footbreadthright":     KeyFootBreadth,
}

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeKey reduces a raw field name to its canonical key: diacritics
// stripped, non-alphanumeric runes removed, lowercased, then the alias
// table applied.
func NormalizeKey(raw string) Key {
	folded, _, err := transform.String(stripMarks, raw)
	if err != nil {
		folded = raw
	}

	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}

	key := b.String()
	if canonical, ok := aliases[key]; ok {
		return canonical
	}

	return Key(key)
}
