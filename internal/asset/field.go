package asset

import (
	"fmt"
	"strconv"
)

// MaxTokenLen is the longest observation token a field can carry.
const MaxTokenLen = 8

// Field is one resource of an instance. Identity, type, and access are
// fixed at model-definition time; only the value and the observation
// state mutate. The value is a tagged variant: exactly the slot matching
// the field's type is meaningful.
type Field struct {
	id     int
	name   string
	typ    FieldType
	access Access

	intVal   int32
	boolVal  bool
	strVal   string
	floatVal float64

	observed bool
	token    []byte
}

func newField(m ModelField) (*Field, error) {
	f := &Field{id: m.ID, name: m.Name, typ: m.Type, access: m.Access}
	if m.HasDefault {
		if err := f.SetText(m.Default); err != nil {
			return nil, fmt.Errorf("field %d default %q: %w", m.ID, m.Default, err)
		}
	}
	return f, nil
}

func (f *Field) ID() int          { return f.id }
func (f *Field) Name() string     { return f.name }
func (f *Field) Type() FieldType  { return f.typ }
func (f *Field) Access() Access   { return f.access }
func (f *Field) Observed() bool   { return f.observed }

// Token returns the observation token currently applied to the field.
func (f *Field) Token() []byte { return f.token }

// Int returns the stored integer. ErrFault if the field is not TypeInt.
func (f *Field) Int() (int32, error) {
	if f.typ != TypeInt {
		return 0, f.typeMismatch(TypeInt)
	}
	return f.intVal, nil
}

// Bool returns the stored boolean. ErrFault if the field is not TypeBool.
func (f *Field) Bool() (bool, error) {
	if f.typ != TypeBool {
		return false, f.typeMismatch(TypeBool)
	}
	return f.boolVal, nil
}

// Str returns the stored string. ErrFault if the field is not TypeString.
func (f *Field) Str() (string, error) {
	if f.typ != TypeString {
		return "", f.typeMismatch(TypeString)
	}
	return f.strVal, nil
}

// Float returns the stored float. ErrFault if the field is not TypeFloat.
func (f *Field) Float() (float64, error) {
	if f.typ != TypeFloat {
		return 0, f.typeMismatch(TypeFloat)
	}
	return f.floatVal, nil
}

// SetInt stores an integer without firing handlers. Used by the codec
// decode path and by snapshot restore; protocol-visible writes go through
// Instance.SetInt.
func (f *Field) SetInt(v int32) error {
	if f.typ != TypeInt {
		return f.typeMismatch(TypeInt)
	}
	f.intVal = v
	return nil
}

// SetBool stores a boolean without firing handlers.
func (f *Field) SetBool(v bool) error {
	if f.typ != TypeBool {
		return f.typeMismatch(TypeBool)
	}
	f.boolVal = v
	return nil
}

// SetStr stores a string without firing handlers.
func (f *Field) SetStr(v string) error {
	if f.typ != TypeString {
		return f.typeMismatch(TypeString)
	}
	f.strVal = v
	return nil
}

// SetFloat stores a float without firing handlers.
func (f *Field) SetFloat(v float64) error {
	if f.typ != TypeFloat {
		return f.typeMismatch(TypeFloat)
	}
	f.floatVal = v
	return nil
}

// Text returns the field's value in textual form. ErrFault for TypeNone,
// which carries no value.
func (f *Field) Text() (string, error) {
	switch f.typ {
	case TypeInt:
		return strconv.FormatInt(int64(f.intVal), 10), nil
	case TypeBool:
		// LWM2M plain-text convention.
		if f.boolVal {
			return "1", nil
		}
		return "0", nil
	case TypeString:
		return f.strVal, nil
	case TypeFloat:
		return strconv.FormatFloat(f.floatVal, 'g', -1, 64), nil
	default:
		return "", fmt.Errorf("field %d has no value: %w", f.id, ErrFault)
	}
}

// SetText parses text per the field's type and stores it without firing
// handlers.
func (f *Field) SetText(s string) error {
	switch f.typ {
	case TypeInt:
		v, err := strconv.ParseInt(s, 10, 32)
		if err != nil {
			return fmt.Errorf("field %d: parsing %q as int: %w", f.id, s, ErrFault)
		}
		f.intVal = int32(v)
	case TypeBool:
		switch s {
		case "0", "false":
			f.boolVal = false
		case "1", "true":
			f.boolVal = true
		default:
			return fmt.Errorf("field %d: parsing %q as bool: %w", f.id, s, ErrFault)
		}
	case TypeString:
		f.strVal = s
	case TypeFloat:
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("field %d: parsing %q as float: %w", f.id, s, ErrFault)
		}
		f.floatVal = v
	default:
		return fmt.Errorf("field %d has no value: %w", f.id, ErrFault)
	}
	return nil
}

// SetObserve applies or clears observation state. The token is copied;
// tokens longer than MaxTokenLen are rejected with ErrFault.
func (f *Field) SetObserve(enable bool, token []byte) error {
	if len(token) > MaxTokenLen {
		return fmt.Errorf("token length %d exceeds %d: %w", len(token), MaxTokenLen, ErrFault)
	}
	f.observed = enable
	if !enable {
		f.token = nil
		return nil
	}
	f.token = append([]byte(nil), token...)
	return nil
}

func (f *Field) typeMismatch(want FieldType) error {
	return fmt.Errorf("field %d is %s, not %s: %w", f.id, f.typ, want, ErrFault)
}
