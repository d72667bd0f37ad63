package delivery

import "fmt"

// ShapePayload carries one morph parameter update.
type ShapePayload struct {
	MorphID int `json:"morphId"`
	Value   int `json:"value"`
}

// HairPayload selects a hair style and color preset.
type HairPayload struct {
	Style string `json:"style"`
	Color string `json:"color,omitempty"`
}

// ClothingPayload dresses one clothing slot.
type ClothingPayload struct {
	Slot string `json:"slot"`
	Item string `json:"item"`
}

// ColorPayload recolors a named target (skin, eyes, lips).
type ColorPayload struct {
	Target string `json:"target"`
	Value  string `json:"value"`
}

// CameraPayload steers the renderer camera.
type CameraPayload struct {
	Action string  `json:"action"`
	Amount float64 `json:"amount,omitempty"`
}

// ShapeChannel names the logical channel for one morph parameter, so
// distinct parameters coalesce independently.
func ShapeChannel(morphID int) string {
	return fmt.Sprintf("shape:%d", morphID)
}

func NewShapeCommand(morphID, value int, label string) Command {
	return Command{
		Kind:    KindShapeUpdate,
		Payload: ShapePayload{MorphID: morphID, Value: value},
		Label:   label,
	}
}

func NewHairCommand(style, color string) Command {
	return Command{
		Kind:    KindHairUpdate,
		Payload: HairPayload{Style: style, Color: color},
		Label:   "hair",
	}
}

func NewClothingCommand(slot, item string) Command {
	return Command{
		Kind:    KindClothingUpdate,
		Payload: ClothingPayload{Slot: slot, Item: item},
		Label:   "clothing:" + slot,
	}
}

func NewColorCommand(target, value string) Command {
	return Command{
		Kind:    KindColorUpdate,
		Payload: ColorPayload{Target: target, Value: value},
		Label:   "color:" + target,
	}
}

func NewCameraCommand(action string, amount float64) Command {
	return Command{
		Kind:    KindCameraControl,
		Payload: CameraPayload{Action: action, Amount: amount},
		Label:   "camera",
	}
}
