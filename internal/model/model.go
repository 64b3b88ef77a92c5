// Package model holds the static capability and wire-layout tables for every
// supported panel. Descriptors are immutable after process start; new
// hardware is added by appending a table entry, not by new code paths.
//
// All byte offsets in this package are relative to report payloads with the
// HID report ID already stripped, matching the transport contract in
// internal/hid.
package model

// ImageFormat is the native encoding a panel expects for key images.
type ImageFormat int

const (
	FormatNone ImageFormat = iota
	FormatBMP
	FormatJPEG
)

func (f ImageFormat) String() string {
	switch f {
	case FormatBMP:
		return "BMP"
	case FormatJPEG:
		return "JPEG"
	default:
		return "none"
	}
}

// HeaderFamily selects the image-report header layout. The supported panels
// use one of two fixed shapes; genuinely new shapes get a new constant.
type HeaderFamily int

const (
	// HeaderNone marks panels without a display.
	HeaderNone HeaderFamily = iota

	// HeaderGen1 is the 15-byte header used by the first hardware
	// generation: 0x01, page, 0x00, last flag, wire key + 1, padding.
	HeaderGen1

	// HeaderGen2 is the 7-byte header used by the second generation:
	// 0x07, wire key, last flag, payload length LE16, page LE16.
	HeaderGen2
)

// InputFamily selects how input reports decode into a state snapshot.
type InputFamily int

const (
	// InputGen1 reports one byte per wire key starting at payload offset 0.
	InputGen1 InputFamily = iota

	// InputGen2 reports one byte per wire key starting at payload offset 3.
	InputGen2

	// InputTyped multiplexes key, dial and touch payloads behind an event
	// type byte at payload offset 0 (Stream Deck +).
	InputTyped
)

// Command describes one fire-and-forget feature-report command.
// The percent argument of the brightness command is appended after Prefix.
type Command struct {
	ReportID byte
	Prefix   []byte
	Len      int // feature payload length, report ID excluded
}

// Query describes one feature-report string query.
type Query struct {
	ReportID byte
	Offset   int // first byte of the NUL-terminated ASCII value
}

// Descriptor is the static capability table for one hardware variant.
type Descriptor struct {
	Name      string
	VendorID  uint16
	ProductID uint16

	Keys int
	Rows int
	Cols int

	Dials       int
	TouchWidth  int
	TouchHeight int

	ImageWidth  int
	ImageHeight int
	Format      ImageFormat
	FlipX       bool
	FlipY       bool
	Rotation    int

	ImageReportID  byte
	ImageReportLen int // total report length, report ID included
	Header         HeaderFamily
	PageBase       int // first page number on the wire
	HalfImage      bool // payload per report is half the image, not report capacity

	Input InputFamily

	// KeyMap translates logical (documented) key indices to wire indices.
	// nil means the orders coincide. Maps are self-inverse for all
	// supported panels.
	KeyMap []int

	Reset      Command // zero ReportID: command unsupported, no-op
	Brightness Command
	Serial     Query
	Firmware   Query
}

// Visual reports whether the panel has key displays.
func (d *Descriptor) Visual() bool { return d.Format != FormatNone }

// HasTouchScreen reports whether the panel has a touch strip display.
func (d *Descriptor) HasTouchScreen() bool { return d.TouchWidth > 0 }

// HeaderLen returns the image-report header length, report ID excluded.
func (d *Descriptor) HeaderLen() int {
	switch d.Header {
	case HeaderGen1:
		return 15
	case HeaderGen2:
		return 7
	default:
		return 0
	}
}

// MaxPayload returns the image payload capacity of one report.
func (d *Descriptor) MaxPayload() int {
	if !d.Visual() {
		return 0
	}
	return d.ImageReportLen - 1 - d.HeaderLen()
}

// WireKey translates a logical key index to its position on the wire.
func (d *Descriptor) WireKey(key int) int {
	if d.KeyMap == nil {
		return key
	}
	return d.KeyMap[key]
}

// LogicalKey translates a wire key index back to the documented order.
func (d *Descriptor) LogicalKey(wire int) int {
	if d.KeyMap == nil {
		return wire
	}
	// Remap tables are self-inverse, so the same table serves both ways.
	return d.KeyMap[wire]
}

// Lookup returns the descriptor for a vendor/product pair. Callers must not
// substitute a fallback descriptor on a miss: a mismatched layout corrupts
// images and misreports keys silently.
func Lookup(vendorID, productID uint16) (*Descriptor, bool) {
	d, ok := registry[[2]uint16{vendorID, productID}]
	return d, ok
}

// All returns every registered descriptor, for enumeration filters.
func All() []*Descriptor {
	out := make([]*Descriptor, 0, len(registry))
	for _, d := range registry {
		out = append(out, d)
	}
	return out
}
