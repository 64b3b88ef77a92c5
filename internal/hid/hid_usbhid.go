//go:build !hidapi

package hid

import (
	"errors"
	"fmt"
	"time"

	usbhid "rafaelmartins.com/p/usbhid"
)

type usbManager struct{}

func newManager() (Manager, error) { return &usbManager{}, nil }

func (m *usbManager) List() ([]Info, error) {
	devs, err := usbhid.Enumerate(nil)
	if err != nil {
		return nil, err
	}
	out := make([]Info, 0, len(devs))
	for _, d := range devs {
		out = append(out, Info{
			Path:         d.Path(),
			VendorID:     d.VendorId(),
			ProductID:    d.ProductId(),
			Product:      d.Product(),
			Manufacturer: d.Manufacturer(),
			Serial:       d.SerialNumber(),
		})
	}
	return out, nil
}

func (m *usbManager) Open(info Info) (Device, error) {
	d, err := usbhid.Get(func(dev *usbhid.Device) bool {
		return dev.Path() == info.Path
	}, true, false)
	if err != nil {
		return nil, fmt.Errorf("hid: open %s: %w", info.Path, err)
	}
	dev := &usbDevice{d: d}
	dev.reader = newBoundedReader(func() (byte, []byte, error) {
		id, buf, err := d.GetInputReport()
		if err != nil {
			return 0, nil, mapErr(err)
		}
		return id, buf, nil
	})
	return dev, nil
}

type usbDevice struct {
	d      *usbhid.Device
	reader *boundedReader
}

func (d *usbDevice) WriteOutput(reportID byte, data []byte) error {
	if err := d.d.SetOutputReport(reportID, data); err != nil {
		return mapErr(err)
	}
	return nil
}

// ReadInput honors the timeout even though usbhid's own read blocks until a
// report arrives: the blocking call lives in a pump goroutine behind
// boundedReader, and this returns ErrTimeout when the deadline passes first.
func (d *usbDevice) ReadInput(timeout time.Duration) (byte, []byte, error) {
	return d.reader.ReadInput(timeout)
}

func (d *usbDevice) SetFeature(reportID byte, data []byte) error {
	if err := d.d.SetFeatureReport(reportID, data); err != nil {
		return mapErr(err)
	}
	return nil
}

func (d *usbDevice) GetFeature(reportID byte) ([]byte, error) {
	buf, err := d.d.GetFeatureReport(reportID)
	if err != nil {
		return nil, mapErr(err)
	}
	return buf, nil
}

func (d *usbDevice) Close() error {
	d.reader.stop()
	return d.d.Close()
}

func mapErr(err error) error {
	if errors.Is(err, usbhid.ErrDeviceIsClosed) {
		return fmt.Errorf("%w: %v", ErrDeviceGone, err)
	}
	return err
}
