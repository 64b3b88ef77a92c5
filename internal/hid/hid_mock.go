package hid

import (
	"sync"
	"time"
)

// MockReport is one scripted input report or read error.
type MockReport struct {
	ID   byte
	Data []byte
	Err  error
}

// MockWrite records one output or feature report sent to a MockDevice.
type MockWrite struct {
	ReportID byte
	Data     []byte
	Feature  bool
}

// MockDevice is a scriptable in-memory Device used by tests. Input reports
// are emitted through Emit; everything written is recorded.
type MockDevice struct {
	mu       sync.Mutex
	writes   []MockWrite
	features map[byte][]byte
	writeErr error
	closed   bool
	closes   int

	reports chan MockReport
}

func NewMockDevice() *MockDevice {
	return &MockDevice{
		features: make(map[byte][]byte),
		reports:  make(chan MockReport, 64),
	}
}

// Emit queues an input report for the next ReadInput call.
func (m *MockDevice) Emit(id byte, data []byte) {
	m.reports <- MockReport{ID: id, Data: data}
}

// EmitError queues a read error, e.g. ErrDeviceGone.
func (m *MockDevice) EmitError(err error) {
	m.reports <- MockReport{Err: err}
}

// SetFeatureResponse scripts the payload returned by GetFeature for id.
func (m *MockDevice) SetFeatureResponse(id byte, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.features[id] = data
}

// FailWrites makes all subsequent writes return err.
func (m *MockDevice) FailWrites(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writeErr = err
}

// Writes returns a copy of everything written so far.
func (m *MockDevice) Writes() []MockWrite {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]MockWrite, len(m.writes))
	copy(out, m.writes)
	return out
}

// CloseCount reports how many times Close has been called.
func (m *MockDevice) CloseCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closes
}

func (m *MockDevice) WriteOutput(reportID byte, data []byte) error {
	return m.record(reportID, data, false)
}

func (m *MockDevice) SetFeature(reportID byte, data []byte) error {
	return m.record(reportID, data, true)
}

func (m *MockDevice) record(reportID byte, data []byte, feature bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrDeviceGone
	}
	if m.writeErr != nil {
		return m.writeErr
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	m.writes = append(m.writes, MockWrite{ReportID: reportID, Data: cp, Feature: feature})
	return nil
}

func (m *MockDevice) ReadInput(timeout time.Duration) (byte, []byte, error) {
	select {
	case r := <-m.reports:
		if r.Err != nil {
			return 0, nil, r.Err
		}
		return r.ID, r.Data, nil
	case <-time.After(timeout):
		return 0, nil, ErrTimeout
	}
}

func (m *MockDevice) GetFeature(reportID byte) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil, ErrDeviceGone
	}
	data, ok := m.features[reportID]
	if !ok {
		return nil, ErrTimeout
	}
	return data, nil
}

func (m *MockDevice) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.closes++
	return nil
}

// MockManager is an in-memory Manager serving scripted device infos, each
// backed by its own MockDevice keyed on Info.Path.
type MockManager struct {
	infos   []Info
	devices map[string]*MockDevice
}

func NewMockManager(infos ...Info) *MockManager {
	m := &MockManager{infos: infos, devices: make(map[string]*MockDevice)}
	for _, info := range infos {
		m.devices[info.Path] = NewMockDevice()
	}
	return m
}

func (m *MockManager) List() ([]Info, error) {
	return append([]Info(nil), m.infos...), nil
}

func (m *MockManager) Open(info Info) (Device, error) {
	dev, ok := m.devices[info.Path]
	if !ok {
		return nil, ErrDeviceGone
	}
	return dev, nil
}

// DeviceAt returns the scripted device behind path, nil when unknown.
func (m *MockManager) DeviceAt(path string) *MockDevice {
	return m.devices[path]
}
