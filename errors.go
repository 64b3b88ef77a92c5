package streamdeck

import (
	"errors"

	"github.com/seagrayinc/streamdeck/internal/packet"
	"github.com/seagrayinc/streamdeck/internal/protocol"
)

// Errors returned from this package may be tested against these values with
// errors.Is.
var (
	// ErrNoDeviceFound reports that no supported panel is connected.
	ErrNoDeviceFound = errors.New("streamdeck: no device found")

	// ErrUnsupportedDevice reports a vendor/product pair with no descriptor.
	// There is deliberately no fallback descriptor: a mismatched layout
	// corrupts images and misreports keys without any error.
	ErrUnsupportedDevice = errors.New("streamdeck: unsupported device")

	// ErrClosed reports an operation on a session after Close.
	ErrClosed = errors.New("streamdeck: device is closed")

	// ErrDisconnected reports that the panel was removed. The session is
	// terminal; callers decide whether to re-enumerate.
	ErrDisconnected = errors.New("streamdeck: device disconnected")

	// ErrNotOpen reports an operation before Open.
	ErrNotOpen = errors.New("streamdeck: device is not open")

	// ErrAlreadyListening reports a second Listen on a running session.
	ErrAlreadyListening = errors.New("streamdeck: already listening")

	// ErrInvalidKey reports a key index outside [0, KeyCount).
	ErrInvalidKey = packet.ErrKeyOutOfRange

	// ErrInvalidDial reports a dial index outside [0, DialCount).
	ErrInvalidDial = errors.New("streamdeck: dial index out of range")

	// ErrInvalidImage reports an empty or unusable raw image payload.
	ErrInvalidImage = packet.ErrEmptyImage

	// ErrInvalidBrightness reports a brightness percentage outside [0, 100].
	ErrInvalidBrightness = protocol.ErrBrightnessRange

	// ErrNotVisual reports an image operation on a panel without displays.
	ErrNotVisual = packet.ErrNotVisual

	// ErrNoTouchScreen reports a touch screen operation on a panel
	// without one.
	ErrNoTouchScreen = packet.ErrNoTouchScreen
)
