package tlv

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/assetlink-labs/assetlink/internal/asset"
)

const maxStringLen = 255

// WriteIntValue emits a 4-byte big-endian two's-complement integer.
func WriteIntValue(dst []byte, v int32) (int, error) {
	if len(dst) < 4 {
		return 0, fmt.Errorf("tlv: int value needs 4 bytes: %w", asset.ErrOverflow)
	}
	binary.BigEndian.PutUint32(dst, uint32(v))
	return 4, nil
}

// WriteBoolValue emits a single 0/1 byte.
func WriteBoolValue(dst []byte, v bool) (int, error) {
	if len(dst) < 1 {
		return 0, fmt.Errorf("tlv: bool value needs 1 byte: %w", asset.ErrOverflow)
	}
	if v {
		dst[0] = 1
	} else {
		dst[0] = 0
	}
	return 1, nil
}

// WriteStringValue emits the raw string bytes, no terminator. Strings
// longer than 255 bytes cannot be carried and report ErrFault.
func WriteStringValue(dst []byte, v string) (int, error) {
	if len(v) > maxStringLen {
		return 0, fmt.Errorf("tlv: string length %d exceeds %d: %w", len(v), maxStringLen, asset.ErrFault)
	}
	if len(dst) < len(v) {
		return 0, fmt.Errorf("tlv: string value needs %d bytes: %w", len(v), asset.ErrOverflow)
	}
	copy(dst, v)
	return len(v), nil
}

// WriteFloatValue emits an 8-byte IEEE-754 double in network byte order.
func WriteFloatValue(dst []byte, v float64) (int, error) {
	if len(dst) < 8 {
		return 0, fmt.Errorf("tlv: float value needs 8 bytes: %w", asset.ErrOverflow)
	}
	binary.BigEndian.PutUint64(dst, math.Float64bits(v))
	return 8, nil
}

// ReadIntValue reconstructs an integer from a 1-, 2-, or 4-byte value,
// zero-extending narrower encodings.
func ReadIntValue(src []byte) (int32, error) {
	switch len(src) {
	case 1:
		return int32(src[0]), nil
	case 2:
		return int32(binary.BigEndian.Uint16(src)), nil
	case 4:
		return int32(binary.BigEndian.Uint32(src)), nil
	default:
		return 0, fmt.Errorf("tlv: int value of %d bytes: %w", len(src), asset.ErrFault)
	}
}

// ReadBoolValue reconstructs a boolean from exactly one byte.
func ReadBoolValue(src []byte) (bool, error) {
	if len(src) != 1 {
		return false, fmt.Errorf("tlv: bool value of %d bytes: %w", len(src), asset.ErrFault)
	}
	return src[0] != 0, nil
}

// ReadStringValue copies the value bytes. Lengths above 255 report
// ErrFault.
func ReadStringValue(src []byte) (string, error) {
	if len(src) > maxStringLen {
		return "", fmt.Errorf("tlv: string length %d exceeds %d: %w", len(src), maxStringLen, asset.ErrFault)
	}
	return string(src), nil
}

// ReadFloatValue reconstructs a float from a 4-byte single (promoted to
// double) or an 8-byte double, both network byte order.
func ReadFloatValue(src []byte) (float64, error) {
	switch len(src) {
	case 4:
		return float64(math.Float32frombits(binary.BigEndian.Uint32(src))), nil
	case 8:
		return math.Float64frombits(binary.BigEndian.Uint64(src)), nil
	default:
		return 0, fmt.Errorf("tlv: float value of %d bytes: %w", len(src), asset.ErrFault)
	}
}
