package asset

import (
	"errors"
	"testing"
)

func newTestInstance(t *testing.T) (*Registry, *Instance) {
	t.Helper()
	r := newTestRegistry(t)
	inst, err := r.CreateInstanceByID("demo", 5, AutoID)
	if err != nil {
		t.Fatalf("CreateInstanceByID error: %v", err)
	}
	return r, inst
}

func TestTypedAccess_MissingField(t *testing.T) {
	_, inst := newTestInstance(t)

	if _, err := inst.GetInt(99, SideClient); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetInt(99) = %v, want ErrNotFound", err)
	}
	if err := inst.SetInt(99, 1, SideClient); !errors.Is(err, ErrNotFound) {
		t.Errorf("SetInt(99) = %v, want ErrNotFound", err)
	}
}

func TestTypedAccess_TypeMismatch(t *testing.T) {
	_, inst := newTestInstance(t)

	// Field 3 is the int field.
	if err := inst.SetInt(3, 7, SideClient); err != nil {
		t.Fatalf("SetInt error: %v", err)
	}

	if err := inst.SetBool(3, true, SideClient); !errors.Is(err, ErrFault) {
		t.Errorf("SetBool on int field = %v, want ErrFault", err)
	}
	if err := inst.SetString(3, "x", SideClient); !errors.Is(err, ErrFault) {
		t.Errorf("SetString on int field = %v, want ErrFault", err)
	}
	if err := inst.SetFloat(3, 1.5, SideClient); !errors.Is(err, ErrFault) {
		t.Errorf("SetFloat on int field = %v, want ErrFault", err)
	}
	if _, err := inst.GetString(3, SideClient); !errors.Is(err, ErrFault) {
		t.Errorf("GetString on int field = %v, want ErrFault", err)
	}

	// The failed writes must not have clobbered the stored value.
	if v, err := inst.GetInt(3, SideClient); err != nil || v != 7 {
		t.Errorf("GetInt = %d, %v; want 7", v, err)
	}
}

func TestDispatch_CrossSideOnly(t *testing.T) {
	r := newTestRegistry(t)
	a, err := r.GetOrCreateByID("demo", 5)
	if err != nil {
		t.Fatalf("GetOrCreateByID error: %v", err)
	}

	var clientSaw, serverSaw []Action
	a.OnField(3, SideClient, func(inst *Instance, fieldID int, action Action) {
		clientSaw = append(clientSaw, action)
	})
	a.OnField(3, SideServer, func(inst *Instance, fieldID int, action Action) {
		serverSaw = append(serverSaw, action)
	})

	inst, err := r.CreateInstanceByID("demo", 5, AutoID)
	if err != nil {
		t.Fatalf("CreateInstanceByID error: %v", err)
	}

	// A server-side write notifies client registrants only.
	if err := inst.SetInt(3, 1, SideServer); err != nil {
		t.Fatalf("SetInt error: %v", err)
	}
	if len(clientSaw) != 1 || clientSaw[0] != ActionWrite {
		t.Errorf("client handler saw %v, want [write]", clientSaw)
	}
	if len(serverSaw) != 0 {
		t.Errorf("server handler saw %v for a server-side write", serverSaw)
	}

	// A client-side write notifies server registrants only.
	if err := inst.SetInt(3, 2, SideClient); err != nil {
		t.Fatalf("SetInt error: %v", err)
	}
	if len(serverSaw) != 1 || serverSaw[0] != ActionWrite {
		t.Errorf("server handler saw %v, want [write]", serverSaw)
	}
	if len(clientSaw) != 1 {
		t.Errorf("client handler saw %v for a client-side write", clientSaw)
	}

	// Reads dispatch the same way.
	if _, err := inst.GetInt(3, SideServer); err != nil {
		t.Fatalf("GetInt error: %v", err)
	}
	if len(clientSaw) != 2 || clientSaw[1] != ActionRead {
		t.Errorf("client handler saw %v, want [write read]", clientSaw)
	}
}

func TestDispatch_FailedAccessFiresNothing(t *testing.T) {
	r := newTestRegistry(t)
	a, err := r.GetOrCreateByID("demo", 5)
	if err != nil {
		t.Fatalf("GetOrCreateByID error: %v", err)
	}
	calls := 0
	a.OnField(3, SideClient, func(inst *Instance, fieldID int, action Action) { calls++ })

	inst, err := r.CreateInstanceByID("demo", 5, AutoID)
	if err != nil {
		t.Fatalf("CreateInstanceByID error: %v", err)
	}

	if err := inst.SetBool(3, true, SideServer); !errors.Is(err, ErrFault) {
		t.Fatalf("SetBool = %v, want ErrFault", err)
	}
	if calls != 0 {
		t.Errorf("handler fired %d times on a faulted write", calls)
	}
}

func TestValue_TextualForms(t *testing.T) {
	_, inst := newTestInstance(t)

	if err := inst.SetInt(3, -12, SideClient); err != nil {
		t.Fatalf("SetInt error: %v", err)
	}
	if err := inst.SetBool(2, true, SideClient); err != nil {
		t.Fatalf("SetBool error: %v", err)
	}
	if err := inst.SetString(1, "probe", SideClient); err != nil {
		t.Fatalf("SetString error: %v", err)
	}
	if err := inst.SetFloat(0, 2.5, SideClient); err != nil {
		t.Fatalf("SetFloat error: %v", err)
	}

	tests := []struct {
		fieldID int
		want    string
	}{
		{3, "-12"},
		{2, "1"},
		{1, "probe"},
		{0, "2.5"},
	}
	for _, tt := range tests {
		got, err := inst.Value(tt.fieldID, SideClient)
		if err != nil {
			t.Errorf("Value(%d) error: %v", tt.fieldID, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Value(%d) = %q, want %q", tt.fieldID, got, tt.want)
		}
	}

	// TypeNone has nothing to convert.
	if _, err := inst.Value(5, SideClient); !errors.Is(err, ErrFault) {
		t.Errorf("Value on none-typed field = %v, want ErrFault", err)
	}
}

func TestValue_DeferredRead(t *testing.T) {
	r := newTestRegistry(t)
	a, err := r.GetOrCreateByID("demo", 5)
	if err != nil {
		t.Fatalf("GetOrCreateByID error: %v", err)
	}

	reads := 0
	a.OnField(0, SideClient, func(inst *Instance, fieldID int, action Action) {
		if action == ActionRead {
			reads++
		}
	})

	inst, err := r.CreateInstanceByID("demo", 5, AutoID)
	if err != nil {
		t.Fatalf("CreateInstanceByID error: %v", err)
	}

	// A server read of a handled field defers: handlers fire, value
	// comes later out-of-band.
	if _, err := inst.Value(0, SideServer); !errors.Is(err, ErrUnavailable) {
		t.Errorf("Value = %v, want ErrUnavailable", err)
	}
	if reads != 1 {
		t.Errorf("read handler fired %d times, want 1", reads)
	}

	// A client read of the same field is same-side and stays synchronous.
	if _, err := inst.Value(0, SideClient); err != nil {
		t.Errorf("client-side Value error: %v", err)
	}
}

func TestSetValue_ParsesPerType(t *testing.T) {
	_, inst := newTestInstance(t)

	tests := []struct {
		fieldID int
		text    string
	}{
		{3, "1234"},
		{2, "true"},
		{1, "hello"},
		{0, "-0.25"},
	}
	for _, tt := range tests {
		if err := inst.SetValue(tt.fieldID, tt.text, SideServer); err != nil {
			t.Errorf("SetValue(%d, %q) error: %v", tt.fieldID, tt.text, err)
		}
	}

	if v, _ := inst.FieldByID(3).Int(); v != 1234 {
		t.Errorf("int = %d, want 1234", v)
	}
	if v, _ := inst.FieldByID(2).Bool(); !v {
		t.Error("bool = false, want true")
	}
	if v, _ := inst.FieldByID(1).Str(); v != "hello" {
		t.Errorf("string = %q, want hello", v)
	}
	if v, _ := inst.FieldByID(0).Float(); v != -0.25 {
		t.Errorf("float = %v, want -0.25", v)
	}

	if err := inst.SetValue(3, "not-a-number", SideServer); !errors.Is(err, ErrFault) {
		t.Errorf("SetValue with garbage = %v, want ErrFault", err)
	}
}

func TestExecute(t *testing.T) {
	r := newTestRegistry(t)
	a, err := r.GetOrCreateByID("demo", 5)
	if err != nil {
		t.Fatalf("GetOrCreateByID error: %v", err)
	}

	var execs []int
	a.OnField(5, SideClient, func(inst *Instance, fieldID int, action Action) {
		if action == ActionExec {
			execs = append(execs, fieldID)
		}
	})

	inst, err := r.CreateInstanceByID("demo", 5, AutoID)
	if err != nil {
		t.Fatalf("CreateInstanceByID error: %v", err)
	}

	if err := inst.Execute(5, SideServer); err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if len(execs) != 1 || execs[0] != 5 {
		t.Errorf("exec handler saw %v, want [5]", execs)
	}

	// Field 1 has no exec bit.
	if err := inst.Execute(1, SideServer); !errors.Is(err, ErrFault) {
		t.Errorf("Execute on non-executable field = %v, want ErrFault", err)
	}
}
