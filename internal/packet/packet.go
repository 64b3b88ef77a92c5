// Package packet splits encoded images into the fixed-length output reports
// a panel expects. The devices require every report to be exactly its
// declared length, so the final chunk is zero-padded.
package packet

import (
	"encoding/binary"
	"errors"

	"github.com/seagrayinc/streamdeck/internal/model"
)

var (
	ErrKeyOutOfRange = errors.New("packet: key index out of range")
	ErrNotVisual     = errors.New("packet: device has no display")
	ErrNoTouchScreen = errors.New("packet: device has no touch screen")
	ErrEmptyImage    = errors.New("packet: empty image payload")
)

// Report is one outbound HID report, sized to the descriptor's image report
// length (report ID excluded).
type Report struct {
	ID   byte
	Data []byte
}

// touchHeaderLen is the header length of touch screen area writes,
// report ID excluded.
const touchHeaderLen = 15

// ForKey splits an encoded key image into its ordered report sequence for
// the given logical key. The continuation flag is set on every report but
// the last; image bytes are never reordered.
func ForKey(d *model.Descriptor, key int, image []byte) ([]Report, error) {
	if !d.Visual() {
		return nil, ErrNotVisual
	}
	if key < 0 || key >= d.Keys {
		return nil, ErrKeyOutOfRange
	}
	if len(image) == 0 {
		return nil, ErrEmptyImage
	}

	payloadLen := d.MaxPayload()
	if d.HalfImage {
		// The first generation panel splits key images in half regardless
		// of report capacity; an odd trailing byte travels in a third
		// report. A one-byte image degenerates to a single report.
		payloadLen = len(image) / 2
		if payloadLen == 0 {
			payloadLen = 1
		}
	}

	wire := d.WireKey(key)
	reportLen := d.ImageReportLen - 1
	headerLen := d.HeaderLen()

	var out []Report
	for page, sent := 0, 0; sent < len(image); page++ {
		n := min(payloadLen, len(image)-sent)
		last := sent+n == len(image)

		data := make([]byte, reportLen)
		switch d.Header {
		case model.HeaderGen1:
			data[0] = 0x01
			data[1] = byte(d.PageBase + page)
			data[3] = boolByte(last)
			data[4] = byte(wire + 1)
		case model.HeaderGen2:
			data[0] = 0x07
			data[1] = byte(wire)
			data[2] = boolByte(last)
			binary.LittleEndian.PutUint16(data[3:], uint16(n))
			binary.LittleEndian.PutUint16(data[5:], uint16(page))
		}
		copy(data[headerLen:], image[sent:sent+n])

		out = append(out, Report{ID: d.ImageReportID, Data: data})
		sent += n
	}
	return out, nil
}

// ForTouchScreen splits an encoded image into area-write reports targeting
// the rectangle (x, y, w, h) on the panel's touch screen.
func ForTouchScreen(d *model.Descriptor, x, y, w, h int, image []byte) ([]Report, error) {
	if !d.HasTouchScreen() {
		return nil, ErrNoTouchScreen
	}
	if len(image) == 0 {
		return nil, ErrEmptyImage
	}

	reportLen := d.ImageReportLen - 1
	payloadLen := reportLen - touchHeaderLen

	var out []Report
	for page, sent := 0, 0; sent < len(image); page++ {
		n := min(payloadLen, len(image)-sent)
		last := sent+n == len(image)

		data := make([]byte, reportLen)
		data[0] = 0x0c
		binary.LittleEndian.PutUint16(data[1:], uint16(x))
		binary.LittleEndian.PutUint16(data[3:], uint16(y))
		binary.LittleEndian.PutUint16(data[5:], uint16(w))
		binary.LittleEndian.PutUint16(data[7:], uint16(h))
		data[9] = boolByte(last)
		binary.LittleEndian.PutUint16(data[10:], uint16(page))
		copy(data[touchHeaderLen:], image[sent:sent+n])

		out = append(out, Report{ID: d.ImageReportID, Data: data})
		sent += n
	}
	return out, nil
}

// Blank returns the reports of a stream-reset write: one empty image report
// that flushes any partial chunk sequence left in the device by a previous
// writer.
func Blank(d *model.Descriptor) Report {
	return Report{ID: d.ImageReportID, Data: make([]byte, d.ImageReportLen-1)}
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
