package tlv

import (
	"fmt"

	"github.com/assetlink-labs/assetlink/internal/asset"
)

// AllFields selects every eligible field instead of a single one.
const AllFields = -1

// valueLength returns the on-wire value size for a field.
func valueLength(f *asset.Field) (int, error) {
	switch f.Type() {
	case asset.TypeInt:
		return 4, nil
	case asset.TypeBool:
		return 1, nil
	case asset.TypeString:
		s, err := f.Str()
		if err != nil {
			return 0, err
		}
		if len(s) > maxStringLen {
			return 0, fmt.Errorf("tlv: string length %d exceeds %d: %w", len(s), maxStringLen, asset.ErrFault)
		}
		return len(s), nil
	case asset.TypeFloat:
		return 8, nil
	default:
		return 0, nil
	}
}

// WriteField emits one resource record for the field.
func WriteField(dst []byte, f *asset.Field) (int, error) {
	length, err := valueLength(f)
	if err != nil {
		return 0, err
	}
	n, err := WriteHeader(dst, KindResource, f.ID(), length)
	if err != nil {
		return 0, err
	}

	var vn int
	switch f.Type() {
	case asset.TypeInt:
		v, _ := f.Int()
		vn, err = WriteIntValue(dst[n:], v)
	case asset.TypeBool:
		v, _ := f.Bool()
		vn, err = WriteBoolValue(dst[n:], v)
	case asset.TypeString:
		v, _ := f.Str()
		vn, err = WriteStringValue(dst[n:], v)
	case asset.TypeFloat:
		v, _ := f.Float()
		vn, err = WriteFloatValue(dst[n:], v)
	default:
		// TypeNone carries no value bytes.
	}
	if err != nil {
		return 0, err
	}
	return n + vn, nil
}

// WriteFieldList emits one resource record per remote-writable field of
// the instance. Fields lacking write access never reach the wire, even
// when readable.
func WriteFieldList(dst []byte, inst *asset.Instance) (int, error) {
	n := 0
	for _, f := range inst.Fields() {
		if f.Access()&asset.AccessWrite == 0 {
			continue
		}
		fn, err := WriteField(dst[n:], f)
		if err != nil {
			return 0, err
		}
		n += fn
	}
	return n, nil
}

// WriteInstance wraps the instance's resource records in one
// object-instance record. fieldID selects a single field, or AllFields
// for every remote-writable one. The inner content is serialized to a
// scratch buffer first so the wrapper header carries the exact length.
func WriteInstance(dst []byte, inst *asset.Instance, fieldID int) (int, error) {
	inner := make([]byte, len(dst))
	var innerLen int
	var err error
	if fieldID == AllFields {
		innerLen, err = WriteFieldList(inner, inst)
	} else {
		f := inst.FieldByID(fieldID)
		if f == nil {
			return 0, fmt.Errorf("tlv: field %d: %w", fieldID, asset.ErrNotFound)
		}
		innerLen, err = WriteField(inner, f)
	}
	if err != nil {
		return 0, err
	}

	n, err := WriteHeader(dst, KindObjectInstance, inst.ID(), innerLen)
	if err != nil {
		return 0, err
	}
	if n+innerLen > len(dst) {
		return 0, fmt.Errorf("tlv: instance record needs %d bytes: %w", n+innerLen, asset.ErrOverflow)
	}
	copy(dst[n:], inner[:innerLen])
	return n + innerLen, nil
}

// WriteObject concatenates WriteInstance over every instance of the
// asset.
func WriteObject(dst []byte, a *asset.Asset, fieldID int) (int, error) {
	n := 0
	for _, inst := range a.Instances() {
		in, err := WriteInstance(dst[n:], inst, fieldID)
		if err != nil {
			return 0, err
		}
		n += in
	}
	return n, nil
}

// WriteChangedResource emits the object-instance record for one instance
// and one field, used for partial notifications instead of re-encoding
// the whole object.
func WriteChangedResource(dst []byte, a *asset.Asset, instanceID, fieldID int) (int, error) {
	inst := a.InstanceByID(instanceID)
	if inst == nil {
		return 0, fmt.Errorf("tlv: instance %d: %w", instanceID, asset.ErrNotFound)
	}
	return WriteInstance(dst, inst, fieldID)
}

// ReadFieldList parses resource records from buf until it is exhausted,
// updating the matching field of the instance for each. Any record that
// is not a resource record desynchronizes the stream and reports
// ErrFault. When notify is set, each update fires write handlers as a
// server-side write.
func ReadFieldList(buf []byte, inst *asset.Instance, notify bool) error {
	off := 0
	for off < len(buf) {
		kind, id, length, n, err := ReadHeader(buf[off:])
		if err != nil {
			return err
		}
		if kind != KindResource {
			return fmt.Errorf("tlv: record kind %#02x at offset %d: %w", kind, off, asset.ErrFault)
		}
		off += n
		if off+length > len(buf) {
			return fmt.Errorf("tlv: truncated value at offset %d: %w", off, asset.ErrFault)
		}
		value := buf[off : off+length]
		off += length

		if err := applyValue(inst, id, value, notify); err != nil {
			return err
		}
	}
	return nil
}

func applyValue(inst *asset.Instance, fieldID int, value []byte, notify bool) error {
	f := inst.FieldByID(fieldID)
	if f == nil {
		return fmt.Errorf("tlv: field %d: %w", fieldID, asset.ErrNotFound)
	}
	switch f.Type() {
	case asset.TypeInt:
		v, err := ReadIntValue(value)
		if err != nil {
			return err
		}
		if notify {
			return inst.SetInt(fieldID, v, asset.SideServer)
		}
		return f.SetInt(v)
	case asset.TypeBool:
		v, err := ReadBoolValue(value)
		if err != nil {
			return err
		}
		if notify {
			return inst.SetBool(fieldID, v, asset.SideServer)
		}
		return f.SetBool(v)
	case asset.TypeString:
		v, err := ReadStringValue(value)
		if err != nil {
			return err
		}
		if notify {
			return inst.SetString(fieldID, v, asset.SideServer)
		}
		return f.SetStr(v)
	case asset.TypeFloat:
		v, err := ReadFloatValue(value)
		if err != nil {
			return err
		}
		if notify {
			return inst.SetFloat(fieldID, v, asset.SideServer)
		}
		return f.SetFloat(v)
	default:
		return fmt.Errorf("tlv: field %d carries no value: %w", fieldID, asset.ErrFault)
	}
}
