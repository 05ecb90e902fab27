package asset

import "fmt"

// FieldType is the value type of a field, fixed at model-definition time.
type FieldType uint8

const (
	TypeNone FieldType = iota
	TypeInt
	TypeBool
	TypeString
	TypeFloat
)

// String returns the model-document spelling of the type.
func (t FieldType) String() string {
	switch t {
	case TypeNone:
		return "none"
	case TypeInt:
		return "int"
	case TypeBool:
		return "bool"
	case TypeString:
		return "string"
	case TypeFloat:
		return "float"
	default:
		return fmt.Sprintf("type(%d)", uint8(t))
	}
}

// ParseFieldType converts a model-document type tag to a FieldType.
func ParseFieldType(s string) (FieldType, error) {
	switch s {
	case "none":
		return TypeNone, nil
	case "int":
		return TypeInt, nil
	case "bool":
		return TypeBool, nil
	case "string":
		return TypeString, nil
	case "float":
		return TypeFloat, nil
	default:
		return TypeNone, fmt.Errorf("unknown field type %q: %w", s, ErrFault)
	}
}

// Access is a bitmask of operations the remote party may perform on a
// field. The perspective is always the off-device side: a field with
// AccessWrite is writable by the management server.
type Access uint8

const (
	AccessExec  Access = 0x1
	AccessWrite Access = 0x2
	AccessRead  Access = 0x4
)

// String returns the model-document spelling, e.g. "rw".
func (a Access) String() string {
	var s []byte
	if a&AccessRead != 0 {
		s = append(s, 'r')
	}
	if a&AccessWrite != 0 {
		s = append(s, 'w')
	}
	if a&AccessExec != 0 {
		s = append(s, 'x')
	}
	return string(s)
}

// ParseAccess converts a model-document access string ("r", "w", "x"
// combined in any order) to an Access bitmask.
func ParseAccess(s string) (Access, error) {
	var a Access
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case 'r':
			a |= AccessRead
		case 'w':
			a |= AccessWrite
		case 'x':
			a |= AccessExec
		default:
			return 0, fmt.Errorf("unknown access flag %q in %q: %w", s[i], s, ErrFault)
		}
	}
	return a, nil
}

// Side identifies which party performs an access or registered a handler:
// the on-device owner (client) or the management-side logic (server).
type Side uint8

const (
	SideClient Side = iota
	SideServer
)

func (s Side) String() string {
	if s == SideClient {
		return "client"
	}
	return "server"
}

// Action is the kind of operation reported to handlers.
type Action uint8

const (
	ActionRead Action = iota
	ActionWrite
	ActionExec
	ActionCreate
	ActionDelete
)

func (a Action) String() string {
	switch a {
	case ActionRead:
		return "read"
	case ActionWrite:
		return "write"
	case ActionExec:
		return "exec"
	case ActionCreate:
		return "create"
	case ActionDelete:
		return "delete"
	default:
		return fmt.Sprintf("action(%d)", uint8(a))
	}
}

// FieldHandler is invoked when the opposite side reads, writes, or
// executes the field it was registered for. Handler state is carried by
// closure; handlers run synchronously inside the triggering operation.
type FieldHandler func(inst *Instance, fieldID int, action Action)

// LifecycleHandler is invoked when an instance of the asset it was
// registered for is created or deleted.
type LifecycleHandler func(inst *Instance, action Action)

// ModelField describes one field of an object model.
type ModelField struct {
	ID         int
	Name       string
	Type       FieldType
	Access     Access
	Default    string
	HasDefault bool
}

// ObjectModel is the read-only definition an asset is materialized from.
type ObjectModel struct {
	App    string
	ID     int
	Name   string
	Fields []ModelField
}

// ModelSource supplies object models to the registry. Absence of a
// definition is reported by wrapping ErrNotFound.
type ModelSource interface {
	ObjectByID(app string, id int) (*ObjectModel, error)
	ObjectByName(app, name string) (*ObjectModel, error)
}
