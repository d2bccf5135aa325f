//go:build !edge

// cmd/relayd/radio_stub.go
package main

import (
	"github.com/mkrv/airtag-relay/internal/radio"
)

// newController returns the loopback radio. Builds without the edge tag
// run the full pipeline with advertisements confirmed but never aired.
func newController() (radio.Controller, error) {
	return radio.NewLoopback(), nil
}
