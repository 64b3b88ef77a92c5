//go:build hidapi

package hid

import (
	"fmt"
	"time"

	sshid "github.com/sstallion/go-hid"
)

// reportBuf is large enough for the biggest input or feature report any
// supported panel produces. hidapi does not expose per-device report
// lengths, so reads are done into a fixed buffer and trimmed.
const reportBuf = 1024

type hidapiManager struct{}

func newManager() (Manager, error) {
	if err := sshid.Init(); err != nil {
		return nil, fmt.Errorf("hid: hidapi init: %w", err)
	}
	return &hidapiManager{}, nil
}

func (m *hidapiManager) List() ([]Info, error) {
	var out []Info
	err := sshid.Enumerate(sshid.VendorIDAny, sshid.ProductIDAny, func(info *sshid.DeviceInfo) error {
		out = append(out, Info{
			Path:         info.Path,
			VendorID:     info.VendorID,
			ProductID:    info.ProductID,
			Product:      info.ProductStr,
			Manufacturer: info.MfrStr,
			Serial:       info.SerialNbr,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (m *hidapiManager) Open(info Info) (Device, error) {
	d, err := sshid.OpenPath(info.Path)
	if err != nil {
		return nil, fmt.Errorf("hid: open %s: %w", info.Path, err)
	}
	return &hidapiDevice{d: d}, nil
}

type hidapiDevice struct{ d *sshid.Device }

func (d *hidapiDevice) WriteOutput(reportID byte, data []byte) error {
	buf := make([]byte, 1+len(data))
	buf[0] = reportID
	copy(buf[1:], data)
	if _, err := d.d.Write(buf); err != nil {
		return fmt.Errorf("%w: %v", ErrDeviceGone, err)
	}
	return nil
}

func (d *hidapiDevice) ReadInput(timeout time.Duration) (byte, []byte, error) {
	buf := make([]byte, reportBuf)
	n, err := d.d.ReadWithTimeout(buf, timeout)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %v", ErrDeviceGone, err)
	}
	if n == 0 {
		return 0, nil, ErrTimeout
	}
	return buf[0], buf[1:n], nil
}

func (d *hidapiDevice) SetFeature(reportID byte, data []byte) error {
	buf := make([]byte, 1+len(data))
	buf[0] = reportID
	copy(buf[1:], data)
	if _, err := d.d.SendFeatureReport(buf); err != nil {
		return fmt.Errorf("%w: %v", ErrDeviceGone, err)
	}
	return nil
}

func (d *hidapiDevice) GetFeature(reportID byte) ([]byte, error) {
	buf := make([]byte, reportBuf)
	buf[0] = reportID
	n, err := d.d.GetFeatureReport(buf)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDeviceGone, err)
	}
	if n == 0 {
		return nil, nil
	}
	return buf[1:n], nil
}

func (d *hidapiDevice) Close() error { return d.d.Close() }
