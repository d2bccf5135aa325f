// internal/airtag/airtag_test.go
package airtag

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// binData returns a 38-byte payload with bin[i] = i, except bin[35]
// which is overridden so the split first key byte is observable.
func binData(b35 byte) []byte {
	bin := make([]byte, BinDataLen)
	for i := range bin {
		bin[i] = byte(i)
	}
	bin[35] = b35
	return bin
}

func tagFor(bin []byte) Tag {
	return Tag{ID: 1, Data: base64.StdEncoding.EncodeToString(bin), Valid: true}
}

func TestToKey_Layout(t *testing.T) {
	// bin[35] = 0b01 contributes the key's top two bits, bin[5] = 5 the
	// low six.
	key, err := tagFor(binData(0b01)).ToKey()
	require.NoError(t, err)

	assert.Equal(t, byte(0b01000101), key[0])
	assert.Equal(t, []byte{4, 3, 2, 1, 0}, key[1:6], "key[1..5] is bin[4..0] reversed")
	for i := 6; i < KeyLen; i++ {
		assert.Equal(t, byte(13+i-6), key[i], "key[%d] should be bin[%d]", i, 13+i-6)
	}
}

func TestToKey_Deterministic(t *testing.T) {
	tag := tagFor(binData(0xFF))

	k1, err := tag.ToKey()
	require.NoError(t, err)
	k2, err := tag.ToKey()
	require.NoError(t, err)

	assert.Equal(t, k1, k2)
}

func TestToKey_RejectsBadInput(t *testing.T) {
	cases := []struct {
		name string
		data string
	}{
		{"not base64", "!!! definitely not base64 !!!"},
		{"empty", ""},
		{"37 bytes", base64.StdEncoding.EncodeToString(make([]byte, 37))},
		{"39 bytes", base64.StdEncoding.EncodeToString(make([]byte, 39))},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Tag{ID: 7, Data: tc.data}.ToKey()
			require.ErrorIs(t, err, ErrDecode)
		})
	}
}

func TestToAdvertisement_PayloadLayout(t *testing.T) {
	adv, err := tagFor(binData(0b01)).ToAdvertisement()
	require.NoError(t, err)

	p := adv.Payload
	assert.Equal(t, byte(0x1E), p[0])
	assert.Equal(t, byte(0xFF), p[1])
	assert.Equal(t, byte(0x4C), p[2])
	assert.Equal(t, byte(0x00), p[3])
	assert.Equal(t, byte(0x12), p[4])
	assert.Equal(t, byte(0x19), p[5])
	assert.Equal(t, byte(0x10), p[6])
	assert.Equal(t, byte(0b01), p[29], "top two key bits, right-aligned")
	assert.Equal(t, byte(0x00), p[30], "hint is always zero")

	key, err := tagFor(binData(0b01)).ToKey()
	require.NoError(t, err)
	assert.Equal(t, key[6:], p[7:29], "payload carries key[6..27]")
}

func TestToAdvertisement_AddrTopBitsForced(t *testing.T) {
	// bin[35] = 0 keeps the raw first key byte's top bits clear, so the
	// forcing is visible.
	adv, err := tagFor(binData(0)).ToAdvertisement()
	require.NoError(t, err)

	assert.Equal(t, byte(0b11000000), adv.Addr[0]&0b11000000)

	key, err := tagFor(binData(0)).ToKey()
	require.NoError(t, err)
	assert.Equal(t, key[1:6], adv.Addr[1:6])
}

func TestTagString(t *testing.T) {
	tag := Tag{ID: 42, Data: "abc", Valid: true}
	assert.Equal(t, "AirTag 42: currently valid, data = abc", tag.String())

	tag.Valid = false
	assert.Equal(t, "AirTag 42: currently invalid, data = abc", tag.String())
}
