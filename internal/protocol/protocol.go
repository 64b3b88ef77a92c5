// Package protocol encodes the device-level control commands (reset,
// brightness, serial and firmware queries) as fixed-length feature reports
// using a model's opcode table.
package protocol

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/seagrayinc/streamdeck/internal/hid"
	"github.com/seagrayinc/streamdeck/internal/model"
)

// ErrBrightnessRange reports a brightness percentage outside [0, 100].
// Out-of-range values are rejected rather than clamped: silent clamping
// hides caller bugs.
var ErrBrightnessRange = errors.New("protocol: brightness out of range")

// Reset clears all key images and shows the standby image. Panels without a
// display do not define the command; for those this is a no-op that never
// touches the transport.
func Reset(dev hid.Device, d *model.Descriptor) error {
	return command(dev, d.Reset, nil)
}

// SetBrightness sets the panel backlight to percent in [0, 100].
func SetBrightness(dev hid.Device, d *model.Descriptor, percent int) error {
	if percent < 0 || percent > 100 {
		return fmt.Errorf("%w: %d", ErrBrightnessRange, percent)
	}
	return command(dev, d.Brightness, []byte{byte(percent)})
}

// SerialNumber reads the panel's serial number string.
func SerialNumber(dev hid.Device, d *model.Descriptor) (string, error) {
	return query(dev, d.Serial)
}

// FirmwareVersion reads the panel's firmware version string.
func FirmwareVersion(dev hid.Device, d *model.Descriptor) (string, error) {
	return query(dev, d.Firmware)
}

func command(dev hid.Device, c model.Command, args []byte) error {
	if c.ReportID == 0 {
		return nil
	}
	payload := make([]byte, c.Len)
	n := copy(payload, c.Prefix)
	copy(payload[n:], args)
	return dev.SetFeature(c.ReportID, payload)
}

func query(dev hid.Device, q model.Query) (string, error) {
	payload, err := dev.GetFeature(q.ReportID)
	if err != nil {
		return "", err
	}
	if len(payload) <= q.Offset {
		return "", fmt.Errorf("protocol: feature report 0x%02x too short: %d bytes", q.ReportID, len(payload))
	}
	return extractString(payload[q.Offset:]), nil
}

// extractString decodes a NUL-terminated ASCII value from a fixed-length
// feature report payload.
func extractString(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b)
}
