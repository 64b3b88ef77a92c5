// Package streamdeck drives the Elgato Stream Deck family of USB HID button
// panels behind one uniform device abstraction: key images, brightness,
// serial/firmware queries, and asynchronous key, dial and touch events.
//
// The per-model wire layouts (image chunk headers, control opcodes, input
// report shapes) live in data tables under internal/model; everything else
// is one descriptor-driven engine.
package streamdeck

import (
	"fmt"
	"image"
	"sync"

	"github.com/seagrayinc/streamdeck/internal/hid"
	"github.com/seagrayinc/streamdeck/internal/model"
)

// ImageFormat describes the native key image format of a panel, for callers
// that pre-encode images themselves.
type ImageFormat struct {
	Width    int
	Height   int
	Format   string // "BMP", "JPEG" or "none"
	FlipX    bool
	FlipY    bool
	Rotation int
}

type connState int

const (
	stateNew connState = iota
	stateOpen
	stateClosed
	stateDisconnected
)

type readerState int

const (
	readerIdle readerState = iota
	readerRunning
	readerStopped
)

// Device is one panel session. It owns the transport handle exclusively and
// is safe for concurrent use; all writes and feature queries are serialized
// on an internal lock.
type Device struct {
	desc *model.Descriptor
	info hid.Info
	mgr  hid.Manager

	mu     sync.Mutex // serializes transport access and lifecycle changes
	dev    hid.Device
	state  connState
	reader readerState

	readerStop chan struct{}
	readerDone chan struct{}
	dcOnce     sync.Once

	cbMu sync.Mutex
	cb   EventFunc
	dcb  DisconnectFunc

	snapMu sync.Mutex
	keys   []bool
	dials  []bool
}

// Enumerate lists the supported panels currently connected. The returned
// devices are not open yet; HID hardware without a registered descriptor is
// skipped.
func Enumerate() ([]*Device, error) {
	mgr, err := hid.NewManager()
	if err != nil {
		return nil, err
	}
	return enumerate(mgr)
}

func enumerate(mgr hid.Manager) ([]*Device, error) {
	infos, err := mgr.List()
	if err != nil {
		return nil, err
	}
	var out []*Device
	for _, info := range infos {
		desc, ok := model.Lookup(info.VendorID, info.ProductID)
		if !ok {
			continue
		}
		out = append(out, &Device{desc: desc, info: info, mgr: mgr})
	}
	return out, nil
}

// OpenPath opens the panel at a transport path previously returned by
// Enumerate. Hardware at the path without a registered descriptor fails
// with ErrUnsupportedDevice.
func OpenPath(path string) (*Device, error) {
	mgr, err := hid.NewManager()
	if err != nil {
		return nil, err
	}
	return openPath(mgr, path)
}

func openPath(mgr hid.Manager, path string) (*Device, error) {
	infos, err := mgr.List()
	if err != nil {
		return nil, err
	}
	for _, info := range infos {
		if info.Path != path {
			continue
		}
		desc, ok := model.Lookup(info.VendorID, info.ProductID)
		if !ok {
			return nil, fmt.Errorf("%w: %04x:%04x", ErrUnsupportedDevice, info.VendorID, info.ProductID)
		}
		d := &Device{desc: desc, info: info, mgr: mgr}
		if err := d.Open(); err != nil {
			return nil, err
		}
		return d, nil
	}
	return nil, ErrNoDeviceFound
}

// OpenFirst opens the first supported panel found connected.
func OpenFirst() (*Device, error) {
	devs, err := Enumerate()
	if err != nil {
		return nil, err
	}
	if len(devs) == 0 {
		return nil, ErrNoDeviceFound
	}
	if err := devs[0].Open(); err != nil {
		return nil, err
	}
	return devs[0], nil
}

// newTestDevice wires a session directly to a transport, bypassing
// enumeration. Tests use it with hid.MockDevice.
func newTestDevice(desc *model.Descriptor, dev hid.Device) *Device {
	return &Device{
		desc:  desc,
		dev:   dev,
		state: stateOpen,
		keys:  make([]bool, desc.Keys),
		dials: make([]bool, desc.Dials),
	}
}

// ModelName returns the marketing name of the panel model.
func (d *Device) ModelName() string { return d.desc.Name }

// Path returns the transport path identifying this physical device.
func (d *Device) Path() string { return d.info.Path }

// ID returns the USB vendor:product pair as a hex string.
func (d *Device) ID() string {
	return fmt.Sprintf("%04x:%04x", d.desc.VendorID, d.desc.ProductID)
}

// KeyCount returns the number of physical keys.
func (d *Device) KeyCount() int { return d.desc.Keys }

// KeyLayout returns the physical key grid as (rows, columns).
func (d *Device) KeyLayout() (rows, cols int) { return d.desc.Rows, d.desc.Cols }

// DialCount returns the number of rotary dials, zero for most models.
func (d *Device) DialCount() int { return d.desc.Dials }

// Visual reports whether the panel has key displays.
func (d *Device) Visual() bool { return d.desc.Visual() }

// HasTouchScreen reports whether the panel has a touch strip display.
func (d *Device) HasTouchScreen() bool { return d.desc.HasTouchScreen() }

// KeySize returns the key display resolution in pixels.
func (d *Device) KeySize() image.Point {
	return image.Point{X: d.desc.ImageWidth, Y: d.desc.ImageHeight}
}

// TouchScreenSize returns the touch strip resolution, zero when absent.
func (d *Device) TouchScreenSize() image.Point {
	return image.Point{X: d.desc.TouchWidth, Y: d.desc.TouchHeight}
}

// KeyImageFormat describes the native image encoding of the panel's keys.
func (d *Device) KeyImageFormat() ImageFormat {
	return ImageFormat{
		Width:    d.desc.ImageWidth,
		Height:   d.desc.ImageHeight,
		Format:   d.desc.Format.String(),
		FlipX:    d.desc.FlipX,
		FlipY:    d.desc.FlipY,
		Rotation: d.desc.Rotation,
	}
}

// KeyStates returns a copy of the last-known key states in logical order.
func (d *Device) KeyStates() ([]bool, error) {
	if err := d.guard(); err != nil {
		return nil, err
	}
	d.snapMu.Lock()
	defer d.snapMu.Unlock()
	out := make([]bool, len(d.keys))
	copy(out, d.keys)
	return out, nil
}

// KeyState returns the last-known state of one key.
func (d *Device) KeyState(key int) (bool, error) {
	if key < 0 || key >= d.desc.Keys {
		return false, fmt.Errorf("%w: %d", ErrInvalidKey, key)
	}
	if err := d.guard(); err != nil {
		return false, err
	}
	d.snapMu.Lock()
	defer d.snapMu.Unlock()
	return d.keys[key], nil
}

// DialState returns the last-known press state of one dial.
func (d *Device) DialState(dial int) (bool, error) {
	if dial < 0 || dial >= d.desc.Dials {
		return false, fmt.Errorf("%w: %d", ErrInvalidDial, dial)
	}
	if err := d.guard(); err != nil {
		return false, err
	}
	d.snapMu.Lock()
	defer d.snapMu.Unlock()
	return d.dials[dial], nil
}

// DialStates returns a copy of the last-known dial press states.
func (d *Device) DialStates() ([]bool, error) {
	if err := d.guard(); err != nil {
		return nil, err
	}
	d.snapMu.Lock()
	defer d.snapMu.Unlock()
	out := make([]bool, len(d.dials))
	copy(out, d.dials)
	return out, nil
}

// guard returns the session-state error for operations that require an open
// device.
func (d *Device) guard() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.guardLocked()
}

func (d *Device) guardLocked() error {
	switch d.state {
	case stateNew:
		return ErrNotOpen
	case stateClosed:
		return ErrClosed
	case stateDisconnected:
		return ErrDisconnected
	}
	return nil
}
