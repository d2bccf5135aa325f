// internal/radio/loopback.go
package radio

import (
	"sync"
	"time"
)

// Loopback is a Controller that confirms every command without touching
// hardware. Non-edge builds run against it; tests use it to exercise the
// cycler's command sequencing with and without confirmation delay.
type Loopback struct {
	// Delay postpones each confirmation. Zero confirms immediately from
	// a separate goroutine, preserving the asynchronous contract.
	Delay time.Duration

	mu      sync.Mutex
	handler Handler
}

// NewLoopback creates a loopback controller.
func NewLoopback() *Loopback {
	return &Loopback{}
}

// Notify implements Controller.
func (l *Loopback) Notify(h Handler) {
	l.mu.Lock()
	l.handler = h
	l.mu.Unlock()
}

func (l *Loopback) confirm(kind EventKind) {
	l.mu.Lock()
	h := l.handler
	l.mu.Unlock()
	if h == nil {
		return
	}

	delay := l.Delay
	go func() {
		if delay > 0 {
			time.Sleep(delay)
		}
		h(kind)
	}()
}

// SetRandomAddress implements Controller.
func (l *Loopback) SetRandomAddress([6]byte) error {
	l.confirm(EventAddressSet)
	return nil
}

// SetAdvertisingData implements Controller.
func (l *Loopback) SetAdvertisingData([31]byte) error {
	l.confirm(EventDataSet)
	return nil
}

// StartAdvertising implements Controller.
func (l *Loopback) StartAdvertising(Params) error {
	l.confirm(EventAdvertisingStarted)
	return nil
}

// StopAdvertising implements Controller.
func (l *Loopback) StopAdvertising() error {
	l.confirm(EventAdvertisingStopped)
	return nil
}
