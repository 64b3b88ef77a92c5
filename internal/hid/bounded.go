package hid

import (
	"sync"
	"time"
)

// boundedReader adapts a blocking input-report read to the bounded-timeout
// ReadInput contract. A single pump goroutine owns the blocking call;
// callers wait on its channel with a deadline, so a poller observes
// ErrTimeout within the deadline even when the device never produces input.
type boundedReader struct {
	read func() (byte, []byte, error)

	pumpOnce sync.Once
	stopOnce sync.Once
	reports  chan boundedReport
	quit     chan struct{}
}

type boundedReport struct {
	id   byte
	data []byte
	err  error
}

func newBoundedReader(read func() (byte, []byte, error)) *boundedReader {
	return &boundedReader{
		read:    read,
		reports: make(chan boundedReport),
		quit:    make(chan struct{}),
	}
}

// ReadInput waits up to timeout for the pump to hand over one report.
func (r *boundedReader) ReadInput(timeout time.Duration) (byte, []byte, error) {
	r.pumpOnce.Do(func() { go r.pump() })

	select {
	case rep, ok := <-r.reports:
		if !ok {
			return 0, nil, ErrDeviceGone
		}
		return rep.id, rep.data, rep.err
	case <-r.quit:
		return 0, nil, ErrDeviceGone
	case <-time.After(timeout):
		return 0, nil, ErrTimeout
	}
}

// stop releases callers blocked in ReadInput. The pump itself exits once the
// underlying handle is closed and its pending read fails.
func (r *boundedReader) stop() {
	r.stopOnce.Do(func() { close(r.quit) })
}

func (r *boundedReader) pump() {
	for {
		id, data, err := r.read()
		if err != nil {
			select {
			case r.reports <- boundedReport{err: err}:
			case <-r.quit:
			}
			close(r.reports)
			return
		}
		select {
		case r.reports <- boundedReport{id: id, data: data}:
		case <-r.quit:
			return
		}
	}
}
