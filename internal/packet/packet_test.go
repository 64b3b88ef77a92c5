package packet

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

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

func image(n int) []byte {
	img := make([]byte, n)
	for i := range img {
		img[i] = byte(i)
	}
	return img
}

// TestChunkProperties checks, for every visual model, that the chunk count
// matches the payload capacity, that every report has the fixed length the
// device requires, that the continuation flag is set on all but the final
// chunk, and that the concatenated payloads reproduce the image bytes.
func TestChunkProperties(t *testing.T) {
	for _, d := range model.All() {
		if !d.Visual() {
			continue
		}
		for _, size := range []int{1, 100, 101, 5000, 20000} {
			img := image(size)
			reports, err := ForKey(d, 0, img)
			if err != nil {
				t.Fatalf("%s size %d: %v", d.Name, size, err)
			}

			payloadLen := d.MaxPayload()
			if d.HalfImage {
				payloadLen = size / 2
				if payloadLen == 0 {
					payloadLen = 1
				}
			}
			wantChunks := (size + payloadLen - 1) / payloadLen
			if len(reports) != wantChunks {
				t.Errorf("%s size %d: %d chunks, want %d", d.Name, size, len(reports), wantChunks)
			}

			var got []byte
			remaining := size
			for i, r := range reports {
				if r.ID != d.ImageReportID {
					t.Errorf("%s: chunk %d report id 0x%02x", d.Name, i, r.ID)
				}
				if len(r.Data) != d.ImageReportLen-1 {
					t.Errorf("%s: chunk %d length %d, want %d", d.Name, i, len(r.Data), d.ImageReportLen-1)
				}

				last := lastFlag(d, r.Data)
				if want := i == len(reports)-1; last != want {
					t.Errorf("%s: chunk %d continuation flag wrong", d.Name, i)
				}

				n := payloadLen
				if remaining < n {
					n = remaining
				}
				got = append(got, r.Data[d.HeaderLen():d.HeaderLen()+n]...)
				remaining -= n
			}
			if !bytes.Equal(got, img) {
				t.Errorf("%s size %d: payload bytes do not round-trip", d.Name, size)
			}
		}
	}
}

func lastFlag(d *model.Descriptor, data []byte) bool {
	switch d.Header {
	case model.HeaderGen1:
		return data[3] != 0
	case model.HeaderGen2:
		return data[2] != 0
	}
	return false
}

func TestGen1Header(t *testing.T) {
	mini := descriptor(t, 0x0063)

	reports, err := ForKey(mini, 2, image(2000))
	if err != nil {
		t.Fatal(err)
	}
	if len(reports) != 2 {
		t.Fatalf("got %d chunks, want 2", len(reports))
	}

	first := reports[0].Data
	if first[0] != 0x01 || first[1] != 0 || first[2] != 0 || first[3] != 0 || first[4] != 3 {
		t.Errorf("first header wrong: % x", first[:5])
	}
	second := reports[1].Data
	if second[1] != 1 || second[3] != 1 || second[4] != 3 {
		t.Errorf("second header wrong: % x", second[:5])
	}
	for _, b := range first[5:15] {
		if b != 0 {
			t.Fatalf("gen1 header padding not zero: % x", first[:15])
		}
	}
}

// TestOriginalHalvesAndRemap checks the first generation quirks: the image
// always travels in two halves, pages count from one, and the key index is
// translated to the mirrored wire order.
func TestOriginalHalvesAndRemap(t *testing.T) {
	orig := descriptor(t, 0x0060)

	reports, err := ForKey(orig, 0, image(3000))
	if err != nil {
		t.Fatal(err)
	}
	if len(reports) != 2 {
		t.Fatalf("got %d chunks, want 2", len(reports))
	}
	// Logical key 0 is wire key 4; headers carry wire key + 1.
	for i, r := range reports {
		if r.Data[1] != byte(i+1) {
			t.Errorf("chunk %d: page %d, want %d", i, r.Data[1], i+1)
		}
		if r.Data[4] != 5 {
			t.Errorf("chunk %d: wire key byte %d, want 5", i, r.Data[4])
		}
	}
}

// An odd-length image splits floor-wise: two half-size chunks plus one
// carrying the trailing byte.
func TestOriginalOddLengthThirdChunk(t *testing.T) {
	orig := descriptor(t, 0x0060)

	reports, err := ForKey(orig, 0, image(3001))
	if err != nil {
		t.Fatal(err)
	}
	if len(reports) != 3 {
		t.Fatalf("got %d chunks, want 3", len(reports))
	}
	for i, r := range reports {
		if r.Data[1] != byte(i+1) {
			t.Errorf("chunk %d: page %d, want %d", i, r.Data[1], i+1)
		}
		last := r.Data[3] != 0
		if want := i == 2; last != want {
			t.Errorf("chunk %d: continuation flag wrong", i)
		}
	}
	// The trailing byte of the image lands alone in the final chunk.
	if got := reports[2].Data[orig.HeaderLen()]; got != image(3001)[3000] {
		t.Errorf("final chunk payload byte %d", got)
	}
}

func TestGen2Header(t *testing.T) {
	xl := descriptor(t, 0x006c)

	img := image(2500)
	reports, err := ForKey(xl, 7, img)
	if err != nil {
		t.Fatal(err)
	}
	if len(reports) != 3 {
		t.Fatalf("got %d chunks, want 3", len(reports))
	}

	wantLens := []int{1016, 1016, 468}
	for i, r := range reports {
		h := r.Data
		if h[0] != 0x07 || h[1] != 7 {
			t.Errorf("chunk %d: header prefix % x", i, h[:2])
		}
		if got := int(binary.LittleEndian.Uint16(h[3:])); got != wantLens[i] {
			t.Errorf("chunk %d: payload length %d, want %d", i, got, wantLens[i])
		}
		if got := int(binary.LittleEndian.Uint16(h[5:])); got != i {
			t.Errorf("chunk %d: page %d", i, got)
		}
	}

	// The final chunk is zero-padded to the report length.
	tail := reports[2].Data[7+468:]
	for _, b := range tail {
		if b != 0 {
			t.Fatal("final chunk not zero-padded")
		}
	}
}

func TestForTouchScreenHeader(t *testing.T) {
	plus := descriptor(t, 0x0084)

	reports, err := ForTouchScreen(plus, 0, 0, 800, 100, image(1500))
	if err != nil {
		t.Fatal(err)
	}
	if len(reports) != 2 {
		t.Fatalf("got %d chunks, want 2", len(reports))
	}

	h := reports[0].Data
	if h[0] != 0x0c {
		t.Errorf("touch opcode 0x%02x", h[0])
	}
	if binary.LittleEndian.Uint16(h[5:]) != 800 || binary.LittleEndian.Uint16(h[7:]) != 100 {
		t.Errorf("touch area wrong: % x", h[:15])
	}
	if h[9] != 0 || reports[1].Data[9] != 1 {
		t.Error("touch continuation flags wrong")
	}
	if binary.LittleEndian.Uint16(reports[1].Data[10:]) != 1 {
		t.Error("touch page number wrong")
	}
}

func TestForKeyValidation(t *testing.T) {
	xl := descriptor(t, 0x006c)
	pedal := descriptor(t, 0x0086)

	if _, err := ForKey(xl, -1, image(10)); !errors.Is(err, ErrKeyOutOfRange) {
		t.Errorf("key -1: %v", err)
	}
	if _, err := ForKey(xl, 32, image(10)); !errors.Is(err, ErrKeyOutOfRange) {
		t.Errorf("key 32: %v", err)
	}
	if _, err := ForKey(xl, 0, nil); !errors.Is(err, ErrEmptyImage) {
		t.Errorf("empty image: %v", err)
	}
	if _, err := ForKey(pedal, 0, image(10)); !errors.Is(err, ErrNotVisual) {
		t.Errorf("pedal: %v", err)
	}
	if _, err := ForTouchScreen(xl, 0, 0, 10, 10, image(10)); !errors.Is(err, ErrNoTouchScreen) {
		t.Errorf("xl touch: %v", err)
	}
}
