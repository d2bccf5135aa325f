// internal/airtag/payload.go
package airtag

// Offline-finding advertisement layout constants.
// These values define the wire format and MUST NOT be configurable.

// ---- PAYLOAD OFFSETS ----

const (
	offLength     = 0  // declared length of the remaining structure
	offAdType     = 1  // AD type (manufacturer-specific data)
	offCompanyLo  = 2  // company identifier, little-endian
	offCompanyHi  = 3
	offRecordType = 4  // offline-finding record type
	offRecordLen  = 5  // offline-finding record length
	offStatus     = 6  // device status
	offKeyStart   = 7  // key[6..27], 22 bytes
	offKeyBits    = 29 // top two bits of key[0], right-aligned
	offHint       = 30 // hint, the relay never advertises one
)

// ---- FIXED VALUES ----

const (
	advLength  = 0x1E
	advAdType  = 0xFF
	companyLo  = 0x4C // Apple
	companyHi  = 0x00
	recordType = 0x12
	recordLen  = 0x19
	status     = 0x10
)

// payload builds the 31-byte legacy advertisement body from the key.
// No IO. No side effects.
func (k Key) payload() [PayloadLen]byte {
	var p [PayloadLen]byte

	p[offLength] = advLength
	p[offAdType] = advAdType
	p[offCompanyLo] = companyLo
	p[offCompanyHi] = companyHi
	p[offRecordType] = recordType
	p[offRecordLen] = recordLen
	p[offStatus] = status
	copy(p[offKeyStart:offKeyStart+22], k[6:])
	p[offKeyBits] = k[0] >> 6 & 0b11
	p[offHint] = 0x00

	return p
}

// addr builds the link-layer address: the first six key bytes with the
// top two bits forced on, marking a static random address.
func (k Key) addr() [AddrLen]byte {
	var a [AddrLen]byte
	copy(a[:], k[:AddrLen])
	a[0] |= 0b11000000
	return a
}
