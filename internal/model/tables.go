package model

// VendorElgato is the USB vendor ID shared by all supported panels.
const VendorElgato uint16 = 0x0fd9

// InputReportID is the report ID carrying key/dial/touch state on every
// supported panel.
const InputReportID byte = 0x01

// Control command tables per hardware generation. Lengths exclude the
// report ID; the devices require fixed-length feature reports.
var (
	gen1Reset      = Command{ReportID: 0x0b, Prefix: []byte{0x63}, Len: 16}
	gen1Brightness = Command{ReportID: 0x05, Prefix: []byte{0x55, 0xaa, 0xd1, 0x01}, Len: 16}
	gen1Serial     = Query{ReportID: 0x03, Offset: 4}
	gen1Firmware   = Query{ReportID: 0x04, Offset: 4}

	gen2Reset      = Command{ReportID: 0x03, Prefix: []byte{0x02}, Len: 31}
	gen2Brightness = Command{ReportID: 0x03, Prefix: []byte{0x08}, Len: 31}
	gen2Serial     = Query{ReportID: 0x06, Offset: 1}
	gen2Firmware   = Query{ReportID: 0x05, Offset: 5}

	// The Studio shares the gen2 commands but returns its identity strings
	// at a different offset.
	studioSerial   = Query{ReportID: 0x06, Offset: 4}
	studioFirmware = Query{ReportID: 0x05, Offset: 4}
)

// originalKeyMap mirrors each row: the first generation panel enumerates
// keys right-to-left on the wire while the documented order is
// left-to-right. The table is its own inverse.
var originalKeyMap = mirrorRows(3, 5)

func mirrorRows(rows, cols int) []int {
	m := make([]int, rows*cols)
	for k := range m {
		m[k] = k - k%cols + (cols - 1) - k%cols
	}
	return m
}

var registry = buildRegistry(
	&Descriptor{
		Name:      "Stream Deck Original",
		ProductID: 0x0060,
		Keys:      15, Rows: 3, Cols: 5,
		ImageWidth: 72, ImageHeight: 72,
		Format: FormatBMP,
		FlipX:  true, FlipY: true,

		ImageReportID:  0x02,
		ImageReportLen: 8191,
		Header:         HeaderGen1,
		PageBase:       1,
		HalfImage:      true,
		Input:          InputGen1,
		KeyMap:         originalKeyMap,

		Reset: gen1Reset, Brightness: gen1Brightness,
		Serial: gen1Serial, Firmware: gen1Firmware,
	},
	&Descriptor{
		Name:      "Stream Deck Original V2",
		ProductID: 0x006d,
		Keys:      15, Rows: 3, Cols: 5,
		ImageWidth: 72, ImageHeight: 72,
		Format: FormatJPEG,
		FlipX:  true, FlipY: true,

		ImageReportID:  0x02,
		ImageReportLen: 1024,
		Header:         HeaderGen2,
		Input:          InputGen2,

		Reset: gen2Reset, Brightness: gen2Brightness,
		Serial: gen2Serial, Firmware: gen2Firmware,
	},
	&Descriptor{
		Name:      "Stream Deck MK.2",
		ProductID: 0x0080,
		Keys:      15, Rows: 3, Cols: 5,
		ImageWidth: 72, ImageHeight: 72,
		Format: FormatJPEG,
		FlipX:  true, FlipY: true,

		ImageReportID:  0x02,
		ImageReportLen: 1024,
		Header:         HeaderGen2,
		Input:          InputGen2,

		Reset: gen2Reset, Brightness: gen2Brightness,
		Serial: gen2Serial, Firmware: gen2Firmware,
	},
	&Descriptor{
		Name:      "Stream Deck Mini",
		ProductID: 0x0063,
		Keys:      6, Rows: 2, Cols: 3,
		ImageWidth: 80, ImageHeight: 80,
		Format: FormatBMP,
		FlipY:  true, Rotation: 90,

		ImageReportID:  0x02,
		ImageReportLen: 1024,
		Header:         HeaderGen1,
		Input:          InputGen1,

		Reset: gen1Reset, Brightness: gen1Brightness,
		Serial: gen1Serial, Firmware: gen1Firmware,
	},
	&Descriptor{
		Name:      "Stream Deck Mini MK.2",
		ProductID: 0x0090,
		Keys:      6, Rows: 2, Cols: 3,
		ImageWidth: 80, ImageHeight: 80,
		Format: FormatBMP,
		FlipY:  true, Rotation: 90,

		ImageReportID:  0x02,
		ImageReportLen: 1024,
		Header:         HeaderGen1,
		Input:          InputGen1,

		Reset: gen1Reset, Brightness: gen1Brightness,
		Serial: gen1Serial, Firmware: gen1Firmware,
	},
	&Descriptor{
		Name:      "Stream Deck XL",
		ProductID: 0x006c,
		Keys:      32, Rows: 4, Cols: 8,
		ImageWidth: 96, ImageHeight: 96,
		Format: FormatJPEG,
		FlipX:  true, FlipY: true,

		ImageReportID:  0x02,
		ImageReportLen: 1024,
		Header:         HeaderGen2,
		Input:          InputGen2,

		Reset: gen2Reset, Brightness: gen2Brightness,
		Serial: gen2Serial, Firmware: gen2Firmware,
	},
	&Descriptor{
		Name:      "Stream Deck XL V2",
		ProductID: 0x008f,
		Keys:      32, Rows: 4, Cols: 8,
		ImageWidth: 96, ImageHeight: 96,
		Format: FormatJPEG,
		FlipX:  true, FlipY: true,

		ImageReportID:  0x02,
		ImageReportLen: 1024,
		Header:         HeaderGen2,
		Input:          InputGen2,

		Reset: gen2Reset, Brightness: gen2Brightness,
		Serial: gen2Serial, Firmware: gen2Firmware,
	},
	&Descriptor{
		Name:      "Stream Deck +",
		ProductID: 0x0084,
		Keys:      8, Rows: 2, Cols: 4,
		Dials:     4,
		TouchWidth: 800, TouchHeight: 100,
		ImageWidth: 120, ImageHeight: 120,
		Format: FormatJPEG,

		ImageReportID:  0x02,
		ImageReportLen: 1024,
		Header:         HeaderGen2,
		Input:          InputTyped,

		Reset: gen2Reset, Brightness: gen2Brightness,
		Serial: gen2Serial, Firmware: gen2Firmware,
	},
	&Descriptor{
		Name:      "Stream Deck Neo",
		ProductID: 0x009a,
		Keys:      8, Rows: 2, Cols: 4,
		ImageWidth: 96, ImageHeight: 96,
		Format: FormatJPEG,
		FlipX:  true, FlipY: true,

		ImageReportID:  0x02,
		ImageReportLen: 1024,
		Header:         HeaderGen2,
		Input:          InputGen2,

		Reset: gen2Reset, Brightness: gen2Brightness,
		Serial: gen2Serial, Firmware: gen2Firmware,
	},
	&Descriptor{
		Name:      "Stream Deck Studio",
		ProductID: 0x00aa,
		Keys:      32, Rows: 2, Cols: 16,
		Dials:     2,
		ImageWidth: 80, ImageHeight: 120,
		Format: FormatJPEG,

		ImageReportID:  0x02,
		ImageReportLen: 1024,
		Header:         HeaderGen2,
		Input:          InputTyped,

		Reset: gen2Reset, Brightness: gen2Brightness,
		Serial: studioSerial, Firmware: studioFirmware,
	},
	&Descriptor{
		Name:      "Stream Deck Pedal",
		ProductID: 0x0086,
		Keys:      3, Rows: 1, Cols: 3,
		Format:    FormatNone,

		Header: HeaderNone,
		Input:  InputGen2,

		// The pedal has no display: reset and brightness are left zero and
		// must not reach the transport.
		Serial: gen2Serial, Firmware: gen2Firmware,
	},
)

func buildRegistry(descs ...*Descriptor) map[[2]uint16]*Descriptor {
	m := make(map[[2]uint16]*Descriptor, len(descs))
	for _, d := range descs {
		d.VendorID = VendorElgato
		m[[2]uint16{d.VendorID, d.ProductID}] = d
	}
	return m
}
