package streamdeck

import (
	"errors"
	"log/slog"
	"time"

	"github.com/seagrayinc/streamdeck/internal/hid"
	"github.com/seagrayinc/streamdeck/internal/model"
)

// pollTimeout bounds one reader read so a stop request is honored promptly
// on backends with bounded-timeout reads. A timeout is not an error; the
// loop just polls again.
const pollTimeout = 250 * time.Millisecond

// SetCallback registers the function receiving key, dial and touch events.
// Only one callback is registered at a time; it is invoked from the reader
// goroutine.
func (d *Device) SetCallback(fn EventFunc) {
	d.cbMu.Lock()
	d.cb = fn
	d.cbMu.Unlock()
}

// SetDisconnectCallback registers the function invoked exactly once when
// the panel is removed.
func (d *Device) SetDisconnectCallback(fn DisconnectFunc) {
	d.cbMu.Lock()
	d.dcb = fn
	d.cbMu.Unlock()
}

// Listen starts the event reader. It fails on a session that is not open or
// that is already listening. The reader stops on StopListening, Close, or a
// fatal transport error.
func (d *Device) Listen() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.guardLocked(); err != nil {
		return err
	}
	if d.reader == readerRunning {
		return ErrAlreadyListening
	}

	d.readerStop = make(chan struct{})
	d.readerDone = make(chan struct{})
	d.reader = readerRunning
	go d.readLoop(d.dev, d.readerStop, d.readerDone)
	return nil
}

// StopListening signals the reader to exit after its current cycle and
// waits for it. Calling it when the reader is not running is a no-op.
func (d *Device) StopListening() {
	d.mu.Lock()
	if d.reader != readerRunning || d.readerStop == nil {
		d.mu.Unlock()
		return
	}
	close(d.readerStop)
	d.readerStop = nil
	done := d.readerDone
	d.mu.Unlock()
	<-done
}

func (d *Device) readLoop(dev hid.Device, stop, done chan struct{}) {
	defer func() {
		d.mu.Lock()
		d.reader = readerStopped
		d.mu.Unlock()
		close(done)
	}()

	for {
		select {
		case <-stop:
			return
		default:
		}

		id, payload, err := dev.ReadInput(pollTimeout)
		if errors.Is(err, hid.ErrTimeout) {
			continue
		}
		if err != nil {
			select {
			case <-stop:
				// Explicit stop or close; the handle going away here is
				// expected and not a disconnection.
			default:
				d.mu.Lock()
				d.markDisconnectedLocked()
				d.mu.Unlock()
				d.notifyDisconnect()
			}
			return
		}
		if id != model.InputReportID {
			slog.Debug("streamdeck: ignoring unexpected report", slog.Int("id", int(id)))
			continue
		}

		// Decode, diff and dispatch one report completely before the next
		// read, so no decoded batch is ever dropped.
		for _, ev := range d.decode(payload) {
			d.dispatch(ev)
		}
	}
}

func (d *Device) dispatch(ev Event) {
	d.cbMu.Lock()
	cb := d.cb
	d.cbMu.Unlock()
	if cb != nil {
		cb(d, ev)
	}
}

// decode turns one input report payload into the state-change events versus
// the stored snapshot, replacing the snapshot as a side effect.
func (d *Device) decode(payload []byte) []Event {
	switch d.desc.Input {
	case model.InputGen1:
		return d.diffKeys(payload, 0)
	case model.InputGen2:
		return d.diffKeys(payload, 3)
	case model.InputTyped:
		return d.decodeTyped(payload)
	}
	return nil
}

// diffKeys decodes a plain key-state report whose per-key bytes start at
// offset, remaps wire order to logical order, and diffs against the
// previous snapshot.
func (d *Device) diffKeys(payload []byte, offset int) []Event {
	if len(payload) < offset+d.desc.Keys {
		slog.Warn("streamdeck: short key report", slog.Int("len", len(payload)))
		return nil
	}

	d.snapMu.Lock()
	defer d.snapMu.Unlock()

	var events []Event
	for k := 0; k < d.desc.Keys; k++ {
		pressed := payload[offset+d.desc.WireKey(k)] != 0
		if pressed != d.keys[k] {
			events = append(events, Event{
				Kind:       KeyChange,
				Index:      k,
				Pressed:    pressed,
				WasPressed: d.keys[k],
			})
			d.keys[k] = pressed
		}
	}
	return events
}

// Event type selectors of the typed input family (Stream Deck +), at
// payload offset 0.
const (
	typedKeys  = 0x00
	typedTouch = 0x02
	typedDial  = 0x03
)

func (d *Device) decodeTyped(payload []byte) []Event {
	if len(payload) < 4 {
		slog.Warn("streamdeck: short input report", slog.Int("len", len(payload)))
		return nil
	}

	switch payload[0] {
	case typedKeys:
		return d.diffKeys(payload, 3)
	case typedDial:
		return d.decodeDials(payload)
	case typedTouch:
		return d.decodeTouch(payload)
	}
	slog.Debug("streamdeck: unknown input event type", slog.Int("type", int(payload[0])))
	return nil
}

func (d *Device) decodeDials(payload []byte) []Event {
	if len(payload) < 4+d.desc.Dials {
		slog.Warn("streamdeck: short dial report", slog.Int("len", len(payload)))
		return nil
	}

	var events []Event
	switch payload[3] {
	case 0x00: // press states
		d.snapMu.Lock()
		for i := 0; i < d.desc.Dials; i++ {
			pressed := payload[4+i] != 0
			if pressed != d.dials[i] {
				events = append(events, Event{
					Kind:       DialPress,
					Index:      i,
					Pressed:    pressed,
					WasPressed: d.dials[i],
				})
				d.dials[i] = pressed
			}
		}
		d.snapMu.Unlock()
	case 0x01: // rotation deltas
		for i := 0; i < d.desc.Dials; i++ {
			if delta := int(int8(payload[4+i])); delta != 0 {
				events = append(events, Event{Kind: DialRotate, Index: i, Delta: delta})
			}
		}
	}
	return events
}

func (d *Device) decodeTouch(payload []byte) []Event {
	if len(payload) < 13 {
		slog.Warn("streamdeck: short touch report", slog.Int("len", len(payload)))
		return nil
	}

	ev := Event{
		Kind:  TouchChange,
		Index: -1,
		X:     int(uint16(payload[5]) | uint16(payload[6])<<8),
		Y:     int(uint16(payload[7]) | uint16(payload[8])<<8),
	}
	switch payload[3] {
	case 0x01:
		ev.Touch = TouchShort
	case 0x02:
		ev.Touch = TouchLong
	case 0x03:
		ev.Touch = TouchDrag
		ev.X2 = int(uint16(payload[9]) | uint16(payload[10])<<8)
		ev.Y2 = int(uint16(payload[11]) | uint16(payload[12])<<8)
	default:
		slog.Debug("streamdeck: unknown touch event", slog.Int("type", int(payload[3])))
		return nil
	}
	return []Event{ev}
}
