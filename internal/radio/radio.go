// internal/radio/radio.go
package radio

import "time"

// Controller is the capability surface the cycler drives. Calls only
// issue the command; completion arrives asynchronously through the
// notified handler, one confirmation event per issued command.
type Controller interface {
	// Notify installs the event handler. Handlers must not block.
	Notify(Handler)

	SetRandomAddress(addr [6]byte) error
	SetAdvertisingData(payload [31]byte) error
	StartAdvertising(p Params) error
	StopAdvertising() error
}

// Params holds the advertising parameters the relay uses: legacy
// connectable undirected advertisement, fixed interval, all channels,
// static random address. Only the interval varies by configuration.
type Params struct {
	Interval time.Duration
}

// EventKind enumerates controller events. Only the four command
// confirmations matter to the relay; drivers may emit others freely.
type EventKind int

const (
	EventAddressSet EventKind = iota
	EventDataSet
	EventAdvertisingStarted
	EventAdvertisingStopped

	// EventOther stands in for anything else a driver reports.
	EventOther
)

func (k EventKind) String() string {
	switch k {
	case EventAddressSet:
		return "address-set"
	case EventDataSet:
		return "data-set"
	case EventAdvertisingStarted:
		return "advertising-started"
	case EventAdvertisingStopped:
		return "advertising-stopped"
	default:
		return "other"
	}
}

// Handler receives controller events.
type Handler func(EventKind)
