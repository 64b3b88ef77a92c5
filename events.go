package streamdeck

// EventKind identifies which input of the panel changed state.
type EventKind int

const (
	// KeyChange reports a key press or release.
	KeyChange EventKind = iota

	// DialPress reports a dial press or release.
	DialPress

	// DialRotate reports dial rotation by a signed number of detents.
	DialRotate

	// TouchChange reports a tap, long press or drag on the touch screen.
	TouchChange
)

func (k EventKind) String() string {
	switch k {
	case KeyChange:
		return "key"
	case DialPress:
		return "dial-press"
	case DialRotate:
		return "dial-rotate"
	case TouchChange:
		return "touch"
	default:
		return "unknown"
	}
}

// TouchKind identifies the gesture of a TouchChange event.
type TouchKind int

const (
	TouchShort TouchKind = iota + 1
	TouchLong
	TouchDrag
)

func (k TouchKind) String() string {
	switch k {
	case TouchShort:
		return "tap"
	case TouchLong:
		return "hold"
	case TouchDrag:
		return "drag"
	default:
		return "unknown"
	}
}

// Event is one decoded state change. Indices are always in the logical
// (documented) key order; wire-order remapping is internal.
type Event struct {
	Kind EventKind

	// Index is the logical key or dial index. It is unused for touch
	// events, which carry coordinates instead.
	Index int

	// Pressed and WasPressed are the new and previous state for KeyChange
	// and DialPress events.
	Pressed    bool
	WasPressed bool

	// Delta is the signed rotation for DialRotate events.
	Delta int

	// Touch, X, Y describe TouchChange events; X2, Y2 are the drag
	// destination for TouchDrag.
	Touch  TouchKind
	X, Y   int
	X2, Y2 int
}

// EventFunc receives state-change events from the reader goroutine. It must
// be safe to call from that goroutine; events for one input report are
// delivered before the next report is read.
type EventFunc func(d *Device, ev Event)

// DisconnectFunc is invoked exactly once when the panel is removed while a
// session is open.
type DisconnectFunc func(d *Device)
