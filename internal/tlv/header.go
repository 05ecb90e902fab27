package tlv

import (
	"fmt"

	"github.com/assetlink-labs/assetlink/internal/asset"
)

// Record kinds, stored in bits 7-6 of the type byte.
const (
	KindObjectInstance byte = 0x00
	KindResource       byte = 0xC0
)

const (
	kindMask      byte = 0xC0
	idWideFlag    byte = 0x20 // 2-byte identifier
	lenClassMask  byte = 0x18 // explicit length field width, 0 = inline
	lenInlineMask byte = 0x07

	maxInlineLen = 7
	// Lengths needing more than a 3-byte field cannot be encoded.
	maxValueLen = 1<<24 - 1

	maxID = 0xFFFF
)

// HeaderSize returns the number of bytes WriteHeader will emit for the
// given identifier and value length.
func HeaderSize(id, length int) int {
	n := 2 // type byte + 1-byte id
	if id > 0xFF {
		n++
	}
	switch {
	case length <= maxInlineLen:
	case length <= 0xFF:
		n++
	case length <= 0xFFFF:
		n += 2
	default:
		n += 3
	}
	return n
}

// WriteHeader emits one record header into dst and returns its size.
// The identifier width and length-field class are selected automatically:
// the id field widens to 2 bytes when id > 255, and the smallest length
// class that fits the value length is used, with lengths below 8 packed
// into the type byte itself.
func WriteHeader(dst []byte, kind byte, id, length int) (int, error) {
	if kind&^kindMask != 0 || (kind != KindObjectInstance && kind != KindResource) {
		return 0, fmt.Errorf("tlv: record kind %#02x: %w", kind, asset.ErrFault)
	}
	if id < 0 || id > maxID {
		return 0, fmt.Errorf("tlv: identifier %d out of range: %w", id, asset.ErrFault)
	}
	if length < 0 || length > maxValueLen {
		return 0, fmt.Errorf("tlv: value length %d out of range: %w", length, asset.ErrFault)
	}

	t := kind
	idBytes := 1
	if id > 0xFF {
		t |= idWideFlag
		idBytes = 2
	}

	lenBytes := 0
	switch {
	case length <= maxInlineLen:
		t |= byte(length)
	case length <= 0xFF:
		t |= 0x08
		lenBytes = 1
	case length <= 0xFFFF:
		t |= 0x10
		lenBytes = 2
	default:
		t |= 0x18
		lenBytes = 3
	}

	n := 1 + idBytes + lenBytes
	if len(dst) < n {
		return 0, fmt.Errorf("tlv: header needs %d bytes: %w", n, asset.ErrOverflow)
	}

	dst[0] = t
	p := 1
	if idBytes == 2 {
		dst[p] = byte(id >> 8)
		p++
	}
	dst[p] = byte(id)
	p++
	for shift := (lenBytes - 1) * 8; shift >= 0; shift -= 8 {
		dst[p] = byte(length >> shift)
		p++
	}
	return n, nil
}

// ReadHeader parses one record header from src, returning the record
// kind, identifier, value length, and header size. A truncated header is
// a malformed stream and reports ErrFault.
func ReadHeader(src []byte) (kind byte, id, length, n int, err error) {
	if len(src) < 2 {
		return 0, 0, 0, 0, fmt.Errorf("tlv: truncated header: %w", asset.ErrFault)
	}
	t := src[0]
	kind = t & kindMask

	idBytes := 1
	if t&idWideFlag != 0 {
		idBytes = 2
	}
	lenBytes := int(t&lenClassMask) >> 3

	n = 1 + idBytes + lenBytes
	if len(src) < n {
		return 0, 0, 0, 0, fmt.Errorf("tlv: truncated header: %w", asset.ErrFault)
	}

	p := 1
	id = int(src[p])
	p++
	if idBytes == 2 {
		id = id<<8 | int(src[p])
		p++
	}

	if lenBytes == 0 {
		length = int(t & lenInlineMask)
	} else {
		for k := 0; k < lenBytes; k++ {
			length = length<<8 | int(src[p])
			p++
		}
	}
	return kind, id, length, n, nil
}
