//go:build edge

// cmd/relayd/radio_edge.go
package main

import (
	"github.com/mkrv/airtag-relay/internal/radio"
	"github.com/mkrv/airtag-relay/internal/radio/bluetoothle"
)

// newController attaches to the host Bluetooth stack.
func newController() (radio.Controller, error) {
	return bluetoothle.New()
}
