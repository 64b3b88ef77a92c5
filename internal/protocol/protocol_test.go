package protocol

import (
	"bytes"
	"errors"
	"testing"

	"github.com/seagrayinc/streamdeck/internal/hid"
	"github.com/seagrayinc/streamdeck/internal/model"
)

func descriptor(t *testing.T, pid uint16) *model.Descriptor {
	t.Helper()
	d, ok := model.Lookup(model.VendorElgato, pid)
	if !ok {
		t.Fatalf("missing descriptor 0x%04x", pid)
	}
	return d
}

func TestSetBrightnessPayload(t *testing.T) {
	tests := []struct {
		name    string
		pid     uint16
		percent int
		id      byte
		want    []byte
	}{
		{"gen1 full", 0x0060, 100, 0x05, []byte{0x55, 0xaa, 0xd1, 0x01, 100}},
		{"gen1 off", 0x0063, 0, 0x05, []byte{0x55, 0xaa, 0xd1, 0x01, 0}},
		{"gen2 mid", 0x006c, 42, 0x03, []byte{0x08, 42}},
		{"studio", 0x00aa, 75, 0x03, []byte{0x08, 75}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dev := hid.NewMockDevice()
			if err := SetBrightness(dev, descriptor(t, tt.pid), tt.percent); err != nil {
				t.Fatal(err)
			}
			writes := dev.Writes()
			if len(writes) != 1 || !writes[0].Feature {
				t.Fatalf("expected one feature write, got %+v", writes)
			}
			w := writes[0]
			if w.ReportID != tt.id {
				t.Errorf("report id 0x%02x, want 0x%02x", w.ReportID, tt.id)
			}
			if !bytes.HasPrefix(w.Data, tt.want) {
				t.Errorf("payload % x, want prefix % x", w.Data, tt.want)
			}
			wantLen := 16
			if tt.id == 0x03 {
				wantLen = 31
			}
			if len(w.Data) != wantLen {
				t.Errorf("payload length %d, want %d", len(w.Data), wantLen)
			}
			for _, b := range w.Data[len(tt.want):] {
				if b != 0 {
					t.Fatalf("payload not zero-padded: % x", w.Data)
				}
			}
		})
	}
}

func TestSetBrightnessRange(t *testing.T) {
	dev := hid.NewMockDevice()
	d := descriptor(t, 0x006c)

	for _, percent := range []int{-1, 101, 1000} {
		if err := SetBrightness(dev, d, percent); !errors.Is(err, ErrBrightnessRange) {
			t.Errorf("percent %d: %v", percent, err)
		}
	}
	if len(dev.Writes()) != 0 {
		t.Fatal("rejected brightness must not reach the transport")
	}
}

func TestReset(t *testing.T) {
	tests := []struct {
		name string
		pid  uint16
		id   byte
		want []byte
	}{
		{"gen1", 0x0060, 0x0b, []byte{0x63}},
		{"gen2", 0x006c, 0x03, []byte{0x02}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dev := hid.NewMockDevice()
			if err := Reset(dev, descriptor(t, tt.pid)); err != nil {
				t.Fatal(err)
			}
			writes := dev.Writes()
			if len(writes) != 1 || writes[0].ReportID != tt.id || !bytes.HasPrefix(writes[0].Data, tt.want) {
				t.Fatalf("unexpected reset write: %+v", writes)
			}
		})
	}
}

// The pedal has no display; reset must be a no-op that never touches the
// transport.
func TestResetPedalNoop(t *testing.T) {
	dev := hid.NewMockDevice()
	if err := Reset(dev, descriptor(t, 0x0086)); err != nil {
		t.Fatal(err)
	}
	if len(dev.Writes()) != 0 {
		t.Fatal("pedal reset reached the transport")
	}
}

func TestStringQueries(t *testing.T) {
	// Feature payloads as returned by the transport, report ID stripped.
	gen1Serial := append([]byte{0, 0, 0, 0}, []byte("AL12H1A00123\x00\x00\x00\x00")...)
	gen2Serial := append([]byte{0}, []byte("CL18K1A01234\x00\x00")...)
	gen2Firmware := append([]byte{0, 0, 0, 0, 0}, []byte("1.01.000\x00")...)

	t.Run("gen1 serial", func(t *testing.T) {
		dev := hid.NewMockDevice()
		dev.SetFeatureResponse(0x03, gen1Serial)
		got, err := SerialNumber(dev, descriptor(t, 0x0060))
		if err != nil {
			t.Fatal(err)
		}
		if got != "AL12H1A00123" {
			t.Errorf("serial %q", got)
		}
	})

	t.Run("gen2 serial", func(t *testing.T) {
		dev := hid.NewMockDevice()
		dev.SetFeatureResponse(0x06, gen2Serial)
		got, err := SerialNumber(dev, descriptor(t, 0x006c))
		if err != nil {
			t.Fatal(err)
		}
		if got != "CL18K1A01234" {
			t.Errorf("serial %q", got)
		}
	})

	t.Run("gen2 firmware", func(t *testing.T) {
		dev := hid.NewMockDevice()
		dev.SetFeatureResponse(0x05, gen2Firmware)
		got, err := FirmwareVersion(dev, descriptor(t, 0x006c))
		if err != nil {
			t.Fatal(err)
		}
		if got != "1.01.000" {
			t.Errorf("firmware %q", got)
		}
	})

	t.Run("studio serial", func(t *testing.T) {
		// The Studio answers at offset 4, unlike the other gen2 panels.
		dev := hid.NewMockDevice()
		dev.SetFeatureResponse(0x06, append([]byte{0, 0, 0, 0}, []byte("DL30K1A00042\x00\x00")...))
		got, err := SerialNumber(dev, descriptor(t, 0x00aa))
		if err != nil {
			t.Fatal(err)
		}
		if got != "DL30K1A00042" {
			t.Errorf("serial %q", got)
		}
	})

	t.Run("studio firmware", func(t *testing.T) {
		dev := hid.NewMockDevice()
		dev.SetFeatureResponse(0x05, append([]byte{0, 0, 0, 0}, []byte("1.03.004\x00")...))
		got, err := FirmwareVersion(dev, descriptor(t, 0x00aa))
		if err != nil {
			t.Fatal(err)
		}
		if got != "1.03.004" {
			t.Errorf("firmware %q", got)
		}
	})

	t.Run("short payload", func(t *testing.T) {
		dev := hid.NewMockDevice()
		dev.SetFeatureResponse(0x05, []byte{0, 0})
		if _, err := FirmwareVersion(dev, descriptor(t, 0x006c)); err == nil {
			t.Fatal("expected error for short feature report")
		}
	})
}
