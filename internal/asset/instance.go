package asset

import "fmt"

// Instance is one object instance of an asset. Instances are owned by
// their Asset; the back-reference is non-owning and is cleared when the
// instance is deleted.
type Instance struct {
	id     int
	owner  *Asset
	fields []*Field
}

func (i *Instance) ID() int { return i.id }

// Asset returns the owning asset, or nil after the instance was deleted.
func (i *Instance) Asset() *Asset { return i.owner }

// Fields returns the instance's fields in model order. The slice is the
// instance's own; callers must not mutate it.
func (i *Instance) Fields() []*Field { return i.fields }

// FieldByID returns the field with the given id, or nil.
func (i *Instance) FieldByID(fieldID int) *Field {
	for _, f := range i.fields {
		if f.id == fieldID {
			return f
		}
	}
	return nil
}

func (i *Instance) field(fieldID int) (*Field, error) {
	f := i.FieldByID(fieldID)
	if f == nil {
		return nil, fmt.Errorf("field %d: %w", fieldID, ErrNotFound)
	}
	return f, nil
}

// GetInt reads an integer field on behalf of side, firing read handlers
// registered by the opposite side.
func (i *Instance) GetInt(fieldID int, side Side) (int32, error) {
	f, err := i.field(fieldID)
	if err != nil {
		return 0, err
	}
	v, err := f.Int()
	if err != nil {
		return 0, err
	}
	i.dispatch(fieldID, ActionRead, side)
	return v, nil
}

// GetBool reads a boolean field on behalf of side.
func (i *Instance) GetBool(fieldID int, side Side) (bool, error) {
	f, err := i.field(fieldID)
	if err != nil {
		return false, err
	}
	v, err := f.Bool()
	if err != nil {
		return false, err
	}
	i.dispatch(fieldID, ActionRead, side)
	return v, nil
}

// GetString reads a string field on behalf of side.
func (i *Instance) GetString(fieldID int, side Side) (string, error) {
	f, err := i.field(fieldID)
	if err != nil {
		return "", err
	}
	v, err := f.Str()
	if err != nil {
		return "", err
	}
	i.dispatch(fieldID, ActionRead, side)
	return v, nil
}

// GetFloat reads a float field on behalf of side.
func (i *Instance) GetFloat(fieldID int, side Side) (float64, error) {
	f, err := i.field(fieldID)
	if err != nil {
		return 0, err
	}
	v, err := f.Float()
	if err != nil {
		return 0, err
	}
	i.dispatch(fieldID, ActionRead, side)
	return v, nil
}

// SetInt writes an integer field on behalf of side, firing write handlers
// registered by the opposite side. A type mismatch leaves the stored
// value unchanged and returns ErrFault.
func (i *Instance) SetInt(fieldID int, v int32, side Side) error {
	f, err := i.field(fieldID)
	if err != nil {
		return err
	}
	if err := f.SetInt(v); err != nil {
		return err
	}
	i.dispatch(fieldID, ActionWrite, side)
	return nil
}

// SetBool writes a boolean field on behalf of side.
func (i *Instance) SetBool(fieldID int, v bool, side Side) error {
	f, err := i.field(fieldID)
	if err != nil {
		return err
	}
	if err := f.SetBool(v); err != nil {
		return err
	}
	i.dispatch(fieldID, ActionWrite, side)
	return nil
}

// SetString writes a string field on behalf of side.
func (i *Instance) SetString(fieldID int, v string, side Side) error {
	f, err := i.field(fieldID)
	if err != nil {
		return err
	}
	if err := f.SetStr(v); err != nil {
		return err
	}
	i.dispatch(fieldID, ActionWrite, side)
	return nil
}

// SetFloat writes a float field on behalf of side.
func (i *Instance) SetFloat(fieldID int, v float64, side Side) error {
	f, err := i.field(fieldID)
	if err != nil {
		return err
	}
	if err := f.SetFloat(v); err != nil {
		return err
	}
	i.dispatch(fieldID, ActionWrite, side)
	return nil
}

// Value reads any field in textual form. If the opposite side has a
// handler registered for the field, the read is deferred: the handlers
// fire and Value returns ErrUnavailable, with the true value supplied
// later through a separate write by the handler's owner.
func (i *Instance) Value(fieldID int, side Side) (string, error) {
	f, err := i.field(fieldID)
	if err != nil {
		return "", err
	}
	if i.owner != nil && i.owner.hasFieldHandler(fieldID, side) {
		i.dispatch(fieldID, ActionRead, side)
		return "", fmt.Errorf("field %d read deferred: %w", fieldID, ErrUnavailable)
	}
	return f.Text()
}

// SetValue writes any field from textual form on behalf of side.
func (i *Instance) SetValue(fieldID int, text string, side Side) error {
	f, err := i.field(fieldID)
	if err != nil {
		return err
	}
	if err := f.SetText(text); err != nil {
		return err
	}
	i.dispatch(fieldID, ActionWrite, side)
	return nil
}

// Execute triggers an executable field on behalf of side. There is no
// stored value to mutate; the operation only fires handlers. ErrFault if
// the field's access lacks the exec bit.
func (i *Instance) Execute(fieldID int, side Side) error {
	f, err := i.field(fieldID)
	if err != nil {
		return err
	}
	if f.access&AccessExec == 0 {
		return fmt.Errorf("field %d is not executable: %w", fieldID, ErrFault)
	}
	i.dispatch(fieldID, ActionExec, side)
	return nil
}

// SetObserve applies observation state to every remote-writable field of
// the instance: the party able to write is the party whose changes are
// worth observing.
func (i *Instance) SetObserve(enable bool, token []byte) error {
	if len(token) > MaxTokenLen {
		return fmt.Errorf("token length %d exceeds %d: %w", len(token), MaxTokenLen, ErrFault)
	}
	for _, f := range i.fields {
		if f.access&AccessWrite == 0 {
			continue
		}
		if err := f.SetObserve(enable, token); err != nil {
			return err
		}
	}
	return nil
}

// IsCompoundObserved reports whether both named fields are individually
// observed. The software-management object uses this to test its state
// and result resources together.
func (i *Instance) IsCompoundObserved(fieldA, fieldB int) bool {
	fa := i.FieldByID(fieldA)
	fb := i.FieldByID(fieldB)
	return fa != nil && fb != nil && fa.observed && fb.observed
}

// dispatch fires every field handler registered by the side opposite the
// caller's. Handlers run synchronously; their errors are their own.
func (i *Instance) dispatch(fieldID int, action Action, callerSide Side) {
	if i.owner == nil {
		return
	}
	i.owner.dispatchField(i, fieldID, action, callerSide)
}
