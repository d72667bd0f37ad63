package morph

// Category groups morph parameters by body region. Parameters in one
// category share a derived base intensity.
type Category string

const (
	CategoryBase  Category = "Base"
	CategoryWaist Category = "Waist"
	CategoryHips  Category = "Hips"
	CategoryChest Category = "Chest"
	CategoryArms  Category = "Arms"
	CategoryLegs  Category = "Legs"
	CategoryTorso Category = "Torso"
	CategoryNeck  Category = "Neck"
	CategoryHead  Category = "Head"
	CategoryHand  Category = "Hand"
)

// Neutral is the untouched slider position. Values further than
// ManualThreshold from it are treated as user edits and preserved.
const (
	Neutral         = 50
	ManualThreshold = 1
)

// Attribute is one shape parameter driving the remote renderer. Value is
// a percent-of-range intensity on a 0-100 scale.
type Attribute struct {
	ID       int      `json:"morphId"`
	Label    string   `json:"labelName"`
	Category Category `json:"category"`
	Value    int      `json:"value"`
}

// IsManual reports whether the parameter was set by hand rather than
// left at (or derived near) the neutral default.
func (a Attribute) IsManual() bool {
	d := a.Value - Neutral
	if d < 0 {
		d = -d
	}
	return d > ManualThreshold
}

// DefaultCatalog returns the static parameter catalog with every value
// at neutral. The ids are stable; the renderer addresses parameters by
// them.
func DefaultCatalog() []Attribute {
	out := make([]Attribute, len(catalogEntries))
	for i, e := range catalogEntries {
		out[i] = Attribute{ID: e.id, Label: e.label, Category: e.category, Value: Neutral}
	}
	return out
}

// Clone returns a deep copy of a catalog slice.
func Clone(catalog []Attribute) []Attribute {
	out := make([]Attribute, len(catalog))
	copy(out, catalog)
	return out
}

type catalogEntry struct {
	id       int
	label    string
	category Category
}

var catalogEntries = []catalogEntry{
	{101, "Body Scale", CategoryBase},
	{102, "Body Mass", CategoryBase},
	{103, "Body Muscular", CategoryBase},
	{104, "Body Thin", CategoryBase},
	{105, "Body Height", CategoryBase},
	{106, "Body Proportion Long Legs", CategoryBase},

	{201, "Waist Width", CategoryWaist},
	{202, "Waist Depth", CategoryWaist},
	{203, "Waist Girth", CategoryWaist},
	{204, "Belly Size", CategoryWaist},
	{205, "Belly Pregnant", CategoryWaist},
	{206, "Stomach Flat", CategoryWaist},
	{207, "Upper Belly", CategoryWaist},
	{208, "Lower Belly", CategoryWaist},
	{209, "Love Handles", CategoryWaist},

	{301, "Hip Width", CategoryHips},
	{302, "Hip Girth", CategoryHips},
	{303, "Glute Size", CategoryHips},
	{304, "Glute Muscular", CategoryHips},
	{305, "Glute Small", CategoryHips},
	{306, "Upper Hip Shelf", CategoryHips},
	{307, "Outer Hip Curve", CategoryHips},

	{401, "Chest Width", CategoryChest},
	{402, "Chest Depth", CategoryChest},
	{403, "Chest Girth", CategoryChest},
	{404, "Chest Muscular", CategoryChest},
	{405, "Chest Flat", CategoryChest},
	{406, "Upper Chest Fullness", CategoryChest},
	{407, "Underchest Girth", CategoryChest},

	{501, "Arm Girth", CategoryArms},
	{502, "Upper Arm Muscular", CategoryArms},
	{503, "Upper Arm Heavy", CategoryArms},
	{504, "Forearm Girth", CategoryArms},
	{505, "Forearm Thin", CategoryArms},
	{506, "Wrist Girth", CategoryArms},
	{507, "Arm Long", CategoryArms},
	{508, "Shoulder Width", CategoryArms},
	{509, "Shoulder Muscular", CategoryArms},

	{601, "Thigh Girth", CategoryLegs},
	{602, "Upper Thigh Heavy", CategoryLegs},
	{603, "Inner Thigh Fullness", CategoryLegs},
	{604, "Outer Thigh Curve", CategoryLegs},
	{605, "Thigh Muscular", CategoryLegs},
	{606, "Knee Girth", CategoryLegs},
	{607, "Calf Girth", CategoryLegs},
	{608, "Calf Muscular", CategoryLegs},
	{609, "Ankle Girth", CategoryLegs},
	{610, "Ankle Thin", CategoryLegs},
	{611, "Leg Long", CategoryLegs},
	{612, "Leg Short", CategoryLegs},

	{701, "Torso Width", CategoryTorso},
	{702, "Torso Depth", CategoryTorso},
	{703, "Torso Long", CategoryTorso},
	{704, "Torso Short", CategoryTorso},
	{705, "Torso Muscular", CategoryTorso},
	{706, "Back Width", CategoryTorso},
	{707, "Back Muscular", CategoryTorso},
	{708, "Front Torso Fullness", CategoryTorso},

	{801, "Neck Girth", CategoryNeck},
	{802, "Neck Long", CategoryNeck},
	{803, "Neck Thin", CategoryNeck},
	{804, "Neck Muscular", CategoryNeck},

	{901, "Head Size", CategoryHead},
	{902, "Head Width", CategoryHead},
	{903, "Head Depth", CategoryHead},

	{1001, "Hand Size", CategoryHand},
	{1002, "Hand Long", CategoryHand},
	{1003, "Hand Breadth", CategoryHand},
	{1004, "Finger Long", CategoryHand},
}
