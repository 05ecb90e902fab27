package asset

import "fmt"

type fieldHandlerReg struct {
	fieldID int
	side    Side
	fn      FieldHandler
}

type lifecycleHandlerReg struct {
	side Side
	fn   LifecycleHandler
}

// Asset is one managed object definition together with its live
// instances. It is reachable in the registry under both its (app, id) and
// (app, name) keys and owns its instances, handler registrations, and
// object-level observation state.
type Asset struct {
	app  string
	id   int
	name string

	model     *ObjectModel
	instances []*Instance

	// lastInstanceID is the highest id ever assigned, monotonic across
	// deletions.
	lastInstanceID int

	fieldHandlers     []fieldHandlerReg
	lifecycleHandlers []lifecycleHandlerReg

	observeAll   bool
	observeToken []byte

	registry *Registry
}

func (a *Asset) App() string  { return a.app }
func (a *Asset) ID() int      { return a.id }
func (a *Asset) Name() string { return a.name }

// Model returns the read-only definition the asset was materialized from.
func (a *Asset) Model() *ObjectModel { return a.model }

// Instances returns the live instances in creation order. The slice is
// the asset's own; callers must not mutate it.
func (a *Asset) Instances() []*Instance { return a.instances }

// InstanceByID returns the instance with the given id, or nil.
func (a *Asset) InstanceByID(instanceID int) *Instance {
	for _, inst := range a.instances {
		if inst.id == instanceID {
			return inst
		}
	}
	return nil
}

// LastInstanceID returns the highest instance id ever assigned.
func (a *Asset) LastInstanceID() int { return a.lastInstanceID }

// OnField registers a handler fired when the side opposite to the given
// one reads, writes, or executes the field.
func (a *Asset) OnField(fieldID int, side Side, fn FieldHandler) {
	a.fieldHandlers = append(a.fieldHandlers, fieldHandlerReg{fieldID: fieldID, side: side, fn: fn})
}

// OnLifecycle registers a handler fired when an instance of this asset is
// created or deleted.
func (a *Asset) OnLifecycle(side Side, fn LifecycleHandler) {
	a.lifecycleHandlers = append(a.lifecycleHandlers, lifecycleHandlerReg{side: side, fn: fn})
}

// SetObserveAllInstances applies observation state to every current
// instance and records it on the asset itself, so instances created
// afterwards inherit it automatically.
func (a *Asset) SetObserveAllInstances(enable bool, token []byte) error {
	if len(token) > MaxTokenLen {
		return fmt.Errorf("token length %d exceeds %d: %w", len(token), MaxTokenLen, ErrFault)
	}
	for _, inst := range a.instances {
		if err := inst.SetObserve(enable, token); err != nil {
			return err
		}
	}
	a.observeAll = enable
	if enable {
		a.observeToken = append([]byte(nil), token...)
	} else {
		a.observeToken = nil
	}
	return nil
}

// ObserveAll reports the object-level observation flag and token.
func (a *Asset) ObserveAll() (bool, []byte) { return a.observeAll, a.observeToken }

// hasFieldHandler reports whether any handler registered by the side
// opposite to callerSide covers the field.
func (a *Asset) hasFieldHandler(fieldID int, callerSide Side) bool {
	for _, reg := range a.fieldHandlers {
		if reg.fieldID == fieldID && reg.side != callerSide {
			return true
		}
	}
	return false
}

// dispatchField fires every field handler whose registration side differs
// from the caller's. Same-side registrants are never notified of
// same-side actions.
func (a *Asset) dispatchField(inst *Instance, fieldID int, action Action, callerSide Side) {
	for _, reg := range a.fieldHandlers {
		if reg.fieldID != fieldID || reg.side == callerSide {
			continue
		}
		reg.fn(inst, fieldID, action)
	}
}

// dispatchLifecycle fires every per-asset lifecycle handler and the
// registry-wide handlers. Create/delete events notify both sides.
func (a *Asset) dispatchLifecycle(inst *Instance, action Action) {
	for _, reg := range a.lifecycleHandlers {
		reg.fn(inst, action)
	}
	if a.registry != nil {
		for _, fn := range a.registry.lifecycleHandlers {
			fn(inst, action)
		}
	}
}

// releaseHandlers drops every handler registration. Called when the asset
// is destroyed.
func (a *Asset) releaseHandlers() {
	a.fieldHandlers = nil
	a.lifecycleHandlers = nil
}
