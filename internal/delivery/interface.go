package delivery

// State is the observable connection state of the renderer session.
type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	default:
		return "disconnected"
	}
}

// Kind identifies the command family a channel carries.
type Kind string

const (
	KindShapeUpdate    Kind = "shape-update"
	KindHairUpdate     Kind = "hair-update"
	KindClothingUpdate Kind = "clothing-update"
	KindColorUpdate    Kind = "color-update"
	KindCameraControl  Kind = "camera-control"
)

// Command is one queued unit of work: a kind-specific payload bound for
// the remote renderer, plus a human-readable label for diagnostics.
type Command struct {
	Kind    Kind   `json:"kind"`
	Payload any    `json:"payload"`
	Label   string `json:"-"`
}

// Session is the opaque bidirectional channel to the renderer. Dispatch
// is fire-and-forget: Send failures are logged, never retried here.
type Session interface {
	State() State
	Send(cmd Command) error
	OnStateChange(fn func(State))
}
