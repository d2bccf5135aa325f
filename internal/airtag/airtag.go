// internal/airtag/airtag.go
package airtag

import (
	"encoding/base64"
	"errors"
	"fmt"
)

const (
	// DataMaxLen is the longest base64 string a tag may carry:
	// 38 bytes encode to 52 characters.
	DataMaxLen = 52

	// BinDataLen is the decoded payload length. Anything else is rejected.
	BinDataLen = 38

	// KeyLen is the length of a NIST P-224 public key (224 bits).
	KeyLen = 28

	// AddrLen is the BLE link-layer address length.
	AddrLen = 6

	// PayloadLen is the maximum body of a legacy BLE advertisement.
	PayloadLen = 31
)

// ErrDecode is returned for any tag whose payload cannot be turned into
// key material. There are no partial results.
var ErrDecode = errors.New("airtag: undecodable payload")

// Tag is one captured beacon record as served by the feed.
type Tag struct {
	ID    uint32 `json:"id"`
	Data  string `json:"data"`
	Valid bool   `json:"valid"`
}

// String renders the tag the way the poll log reports it.
func (t Tag) String() string {
	state := "invalid"
	if t.Valid {
		state = "valid"
	}
	return fmt.Sprintf("AirTag %d: currently %s, data = %s", t.ID, state, t.Data)
}

// Key is the public key reconstructed from a tag's decoded payload.
type Key [KeyLen]byte

// Advertisement is the derived broadcast identity for one tag.
type Advertisement struct {
	Addr    [AddrLen]byte
	Payload [PayloadLen]byte
}

// ToKey decodes the tag's base64 payload and reassembles the public key
// from it. The bit layout mirrors the vendor's advertisement encoding:
// the key's first byte is split across decoded bytes 35 and 5, bytes 1-5
// are decoded bytes 4..0 reversed, the remainder is decoded bytes 13-34.
func (t Tag) ToKey() (Key, error) {
	var key Key

	bin, err := base64.StdEncoding.DecodeString(t.Data)
	if err != nil {
		return key, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if len(bin) != BinDataLen {
		return key, fmt.Errorf("%w: decoded %d bytes, want %d", ErrDecode, len(bin), BinDataLen)
	}

	key[0] = bin[35]<<6&0b11000000 | bin[5]&0b00111111
	for i := 1; i < 6; i++ {
		key[i] = bin[5-i]
	}
	copy(key[6:], bin[13:13+KeyLen-6])

	return key, nil
}

// ToAdvertisement derives the broadcast address and payload for the tag.
// Pure: identical input yields byte-identical output.
func (t Tag) ToAdvertisement() (Advertisement, error) {
	key, err := t.ToKey()
	if err != nil {
		return Advertisement{}, err
	}
	return Advertisement{
		Addr:    key.addr(),
		Payload: key.payload(),
	}, nil
}
