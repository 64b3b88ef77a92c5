package streamdeck

import (
	"errors"
	"fmt"
	"image"
	"log/slog"

	"github.com/seagrayinc/streamdeck/internal/hid"
	"github.com/seagrayinc/streamdeck/internal/imaging"
	"github.com/seagrayinc/streamdeck/internal/packet"
	"github.com/seagrayinc/streamdeck/internal/protocol"
)

// ErrAlreadyOpen reports a second Open on an open session.
var ErrAlreadyOpen = errors.New("streamdeck: device is already open")

// Open claims the transport handle for exclusive use. It must be called
// before any other operation. On visual panels an empty image report is sent
// first, flushing any partial chunk sequence a crashed writer may have left
// in the device.
func (d *Device) Open() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	switch d.state {
	case stateOpen:
		return ErrAlreadyOpen
	case stateClosed:
		return ErrClosed
	case stateDisconnected:
		return ErrDisconnected
	}

	dev, err := d.mgr.Open(d.info)
	if err != nil {
		return err
	}
	d.dev = dev
	d.state = stateOpen
	d.keys = make([]bool, d.desc.Keys)
	d.dials = make([]bool, d.desc.Dials)

	if d.desc.Visual() {
		blank := packet.Blank(d.desc)
		if err := dev.WriteOutput(blank.ID, blank.Data); err != nil {
			dev.Close()
			d.dev = nil
			d.state = stateNew
			return fmt.Errorf("streamdeck: reset key stream: %w", err)
		}
	}
	return nil
}

// Close stops the event reader, releases the transport handle and marks the
// session unusable. It is idempotent: a second call is a no-op and performs
// no second transport close.
func (d *Device) Close() error {
	d.mu.Lock()
	if d.dev == nil {
		d.state = stateClosed
		d.mu.Unlock()
		return nil
	}
	dev := d.dev
	d.dev = nil
	d.state = stateClosed

	var done chan struct{}
	if d.reader == readerRunning && d.readerStop != nil {
		close(d.readerStop)
		d.readerStop = nil
		done = d.readerDone
	}
	d.mu.Unlock()

	// Closing the handle also unblocks a reader stuck in a transport read
	// on backends without bounded-timeout reads.
	err := dev.Close()
	if done != nil {
		<-done
	}
	return err
}

// SetKeyImage renders img on the given logical key. A nil img clears the
// key to black. The whole chunk sequence is written under the session lock,
// so concurrent writers can never interleave mid-image.
func (d *Device) SetKeyImage(key int, img image.Image) error {
	if key < 0 || key >= d.desc.Keys {
		return fmt.Errorf("%w: %d", ErrInvalidKey, key)
	}
	if !d.desc.Visual() {
		return ErrNotVisual
	}

	native, err := imaging.ForKey(d.desc, img)
	if err != nil {
		return err
	}
	reports, err := packet.ForKey(d.desc, key, native)
	if err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.guardLocked(); err != nil {
		return err
	}
	return d.writeLocked(reports)
}

// SetKeyImageRaw writes an already-encoded native image to a key, skipping
// the codec. The caller is responsible for matching KeyImageFormat.
func (d *Device) SetKeyImageRaw(key int, native []byte) error {
	reports, err := packet.ForKey(d.desc, key, native)
	if err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.guardLocked(); err != nil {
		return err
	}
	return d.writeLocked(reports)
}

// ClearKey clears one key to black.
func (d *Device) ClearKey(key int) error {
	return d.SetKeyImage(key, nil)
}

// ClearAllKeys clears every key to black.
func (d *Device) ClearAllKeys() error {
	for key := 0; key < d.desc.Keys; key++ {
		if err := d.SetKeyImage(key, nil); err != nil {
			return err
		}
	}
	return nil
}

// SetTouchScreenImage renders img across the full touch strip display. A
// nil img clears it to black.
func (d *Device) SetTouchScreenImage(img image.Image) error {
	if !d.desc.HasTouchScreen() {
		return ErrNoTouchScreen
	}
	w, h := d.desc.TouchWidth, d.desc.TouchHeight
	native, err := imaging.ForTouchScreen(d.desc, img, w, h)
	if err != nil {
		return err
	}
	reports, err := packet.ForTouchScreen(d.desc, 0, 0, w, h, native)
	if err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.guardLocked(); err != nil {
		return err
	}
	return d.writeLocked(reports)
}

// SetBrightness sets the panel backlight to percent in [0, 100].
// Out-of-range values are rejected before any transport write.
func (d *Device) SetBrightness(percent int) error {
	if percent < 0 || percent > 100 {
		return fmt.Errorf("%w: %d", ErrInvalidBrightness, percent)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.guardLocked(); err != nil {
		return err
	}
	return d.transportErr(protocol.SetBrightness(d.dev, d.desc, percent))
}

// Reset clears all key images and shows the standby image. On panels
// without a display this is a no-op.
func (d *Device) Reset() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.guardLocked(); err != nil {
		return err
	}
	return d.transportErr(protocol.Reset(d.dev, d.desc))
}

// SerialNumber queries the panel's serial number.
func (d *Device) SerialNumber() (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.guardLocked(); err != nil {
		return "", err
	}
	s, err := protocol.SerialNumber(d.dev, d.desc)
	return s, d.transportErr(err)
}

// FirmwareVersion queries the panel's firmware version.
func (d *Device) FirmwareVersion() (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.guardLocked(); err != nil {
		return "", err
	}
	s, err := protocol.FirmwareVersion(d.dev, d.desc)
	return s, d.transportErr(err)
}

// writeLocked sends an ordered report sequence. The caller holds d.mu.
func (d *Device) writeLocked(reports []packet.Report) error {
	for i, r := range reports {
		if err := d.dev.WriteOutput(r.ID, r.Data); err != nil {
			slog.Debug("streamdeck: image write failed",
				slog.Int("chunk", i), slog.Int("chunks", len(reports)), slog.Any("error", err))
			return d.transportErr(err)
		}
	}
	return nil
}

// transportErr maps a transport failure to the session error model and
// makes device removal terminal. The caller holds d.mu.
func (d *Device) transportErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, hid.ErrDeviceGone) {
		d.markDisconnectedLocked()
		return fmt.Errorf("%w: %v", ErrDisconnected, err)
	}
	return err
}

// markDisconnectedLocked makes device removal terminal for the session.
// The disconnect callback is fired separately by the reader, outside the
// session lock, so a callback is free to call back into the session.
func (d *Device) markDisconnectedLocked() {
	if d.state == stateOpen {
		d.state = stateDisconnected
	}
}

// notifyDisconnect fires the disconnect callback exactly once per session.
func (d *Device) notifyDisconnect() {
	d.dcOnce.Do(func() {
		d.cbMu.Lock()
		dcb := d.dcb
		d.cbMu.Unlock()
		if dcb != nil {
			dcb(d)
		}
	})
}
