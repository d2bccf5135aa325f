// internal/radio/bridge.go
package radio

import "go.uber.org/zap"

// Bridge translates controller events into gate releases. Any of the
// four command confirmations releases the slot; everything else is
// ignored.
type Bridge struct {
	gate *Gate
	log  *zap.Logger
}

// NewBridge wires a gate to a controller's event stream.
func NewBridge(gate *Gate, log *zap.Logger) *Bridge {
	return &Bridge{gate: gate, log: log}
}

// Handle is the radio.Handler installed on the controller.
func (b *Bridge) Handle(kind EventKind) {
	switch kind {
	case EventAddressSet, EventDataSet, EventAdvertisingStarted, EventAdvertisingStopped:
		b.log.Debug("radio command confirmed", zap.Stringer("event", kind))
		b.gate.Release()
	default:
	}
}
