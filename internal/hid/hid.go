// Package hid abstracts the raw USB HID transport used to talk to
// button-panel devices. Two backends are provided: a pure Go one built on
// rafaelmartins.com/p/usbhid (default) and a cgo one built on hidapi via
// github.com/sstallion/go-hid (build tag "hidapi").
package hid

import (
	"errors"
	"time"
)

// Errors returned by transport implementations, tested with errors.Is.
var (
	// ErrTimeout reports that no input report arrived within the read
	// deadline. Pollers treat it as "loop again", never as a failure.
	ErrTimeout = errors.New("hid: read timeout")

	// ErrDeviceGone reports that the device handle is no longer valid,
	// usually because the device was unplugged.
	ErrDeviceGone = errors.New("hid: device gone")
)

// Device represents an opened HID device capable of report I/O.
type Device interface {
	// WriteOutput sends one output report. data excludes the report ID.
	WriteOutput(reportID byte, data []byte) error

	// ReadInput reads one input report, blocking up to timeout when the
	// backend supports bounded reads. It returns the report ID and the
	// report payload (excluding the ID), or ErrTimeout.
	ReadInput(timeout time.Duration) (byte, []byte, error)

	// SetFeature sends one feature report. data excludes the report ID.
	SetFeature(reportID byte, data []byte) error

	// GetFeature reads one feature report by ID. The returned payload
	// excludes the report ID.
	GetFeature(reportID byte) ([]byte, error)

	Close() error
}

// Info describes an enumerated HID device before it is opened.
type Info struct {
	Path         string
	VendorID     uint16
	ProductID    uint16
	Product      string
	Manufacturer string
	Serial       string
}

// Manager enumerates and opens HID devices.
type Manager interface {
	List() ([]Info, error)
	Open(info Info) (Device, error)
}

// NewManager returns the backend-specific HID manager.
func NewManager() (Manager, error) {
	return newManager()
}
