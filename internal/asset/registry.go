package asset

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/assetlink-labs/assetlink/internal/logging"
)

// Registry owns every asset definition, indexed both by (app, id) and by
// (app, name). Both keys always resolve to the same asset: a single
// internal create path inserts both and a single destroy path removes
// both. The registry is constructed once at agent start-up and handed to
// all consumers; it is not ambient global state.
//
// All tree mutation and handler dispatch is single-goroutine cooperative.
// The only internal goroutine is the update notifier's timer, which
// touches nothing but its sink.
type Registry struct {
	models ModelSource
	log    *logging.Logger

	byID   map[string]*Asset
	byName map[string]*Asset

	lifecycleHandlers []LifecycleHandler

	updates *UpdateNotifier
}

// NewRegistry builds an empty registry over the given model source. A nil
// logger is replaced by a no-op logger.
func NewRegistry(models ModelSource, log *logging.Logger) *Registry {
	if log == nil {
		log = logging.Nop()
	}
	return &Registry{
		models:  models,
		log:     log,
		byID:    make(map[string]*Asset),
		byName:  make(map[string]*Asset),
		updates: NewUpdateNotifier(0, nil),
	}
}

// SetRegistrationSink installs the connection-layer callback invoked when
// the debounced registration-update window expires.
func (r *Registry) SetRegistrationSink(fn func()) {
	r.updates.SetSink(fn)
}

// KickRegistrationUpdate restarts the registration-update debounce
// window. Instance creation does this implicitly; callers that delete
// instances and want an update invoke it explicitly.
func (r *Registry) KickRegistrationUpdate() {
	r.updates.Kick()
}

// Close stops the registration-update timer.
func (r *Registry) Close() {
	r.updates.Stop()
}

// OnAnyLifecycle registers a handler fired on create/delete of every
// asset's instances.
func (r *Registry) OnAnyLifecycle(fn LifecycleHandler) {
	r.lifecycleHandlers = append(r.lifecycleHandlers, fn)
}

func idKey(app string, id int) string {
	return app + "/" + strconv.Itoa(id)
}

func nameKey(app, name string) string {
	return app + "/" + name
}

// LookupByID returns the asset under (app, id), if present.
func (r *Registry) LookupByID(app string, id int) (*Asset, bool) {
	a, ok := r.byID[idKey(app, id)]
	return a, ok
}

// LookupByName returns the asset under (app, name), if present.
func (r *Registry) LookupByName(app, name string) (*Asset, bool) {
	a, ok := r.byName[nameKey(app, name)]
	return a, ok
}

// GetOrCreateByID returns the asset under (app, id), materializing it
// from the model source on first reference. A missing model definition is
// reported as ErrNotFound.
func (r *Registry) GetOrCreateByID(app string, id int) (*Asset, error) {
	if a, ok := r.byID[idKey(app, id)]; ok {
		return a, nil
	}
	m, err := r.loadModelByID(app, id)
	if err != nil {
		return nil, err
	}
	return r.create(m)
}

// GetOrCreateByName returns the asset under (app, name), materializing it
// from the model source on first reference.
func (r *Registry) GetOrCreateByName(app, name string) (*Asset, error) {
	if a, ok := r.byName[nameKey(app, name)]; ok {
		return a, nil
	}
	m, err := r.loadModelByName(app, name)
	if err != nil {
		return nil, err
	}
	return r.create(m)
}

func (r *Registry) loadModelByID(app string, id int) (*ObjectModel, error) {
	if app == BuiltinApp && id == SoftwareObjectID {
		return softwareModel(), nil
	}
	if r.models == nil {
		return nil, fmt.Errorf("model %s/%d: no model source: %w", app, id, ErrNotFound)
	}
	m, err := r.models.ObjectByID(app, id)
	if err != nil {
		return nil, fmt.Errorf("loading model %s/%d: %w", app, id, err)
	}
	return m, nil
}

func (r *Registry) loadModelByName(app, name string) (*ObjectModel, error) {
	if app == BuiltinApp && name == SoftwareObjectName {
		return softwareModel(), nil
	}
	if r.models == nil {
		return nil, fmt.Errorf("model %s/%s: no model source: %w", app, name, ErrNotFound)
	}
	m, err := r.models.ObjectByName(app, name)
	if err != nil {
		return nil, fmt.Errorf("loading model %s/%s: %w", app, name, err)
	}
	return m, nil
}

// create is the single path that materializes an asset and inserts it
// under both index keys atomically.
func (r *Registry) create(m *ObjectModel) (*Asset, error) {
	a := &Asset{
		app:      m.App,
		id:       m.ID,
		name:     m.Name,
		model:    m,
		registry: r,
	}
	r.byID[idKey(a.app, a.id)] = a
	r.byName[nameKey(a.app, a.name)] = a
	r.log.Debug("asset created", "app", a.app, "id", a.id, "name", a.name)
	return a, nil
}

// destroy is the single path that removes an asset from both indices and
// releases its handler registrations.
func (r *Registry) destroy(a *Asset) {
	a.releaseHandlers()
	delete(r.byID, idKey(a.app, a.id))
	delete(r.byName, nameKey(a.app, a.name))
	r.log.Debug("asset destroyed", "app", a.app, "id", a.id, "name", a.name)
}

// AutoID makes CreateInstance assign the next free instance id.
const AutoID = -1

// CreateInstanceByID creates an instance of the asset under (app, id),
// materializing the asset first if needed. instanceID is either an
// explicit non-negative id or AutoID. An explicit id that collides with
// an existing instance returns ErrDuplicate without mutation.
func (r *Registry) CreateInstanceByID(app string, id, instanceID int) (*Instance, error) {
	a, err := r.GetOrCreateByID(app, id)
	if err != nil {
		return nil, err
	}
	return r.createInstance(a, instanceID)
}

// CreateInstanceByName is CreateInstanceByID addressed by asset name.
func (r *Registry) CreateInstanceByName(app, name string, instanceID int) (*Instance, error) {
	a, err := r.GetOrCreateByName(app, name)
	if err != nil {
		return nil, err
	}
	return r.createInstance(a, instanceID)
}

func (r *Registry) createInstance(a *Asset, instanceID int) (*Instance, error) {
	if instanceID >= 0 && a.InstanceByID(instanceID) != nil {
		return nil, fmt.Errorf("instance %s/%d/%d: %w", a.app, a.id, instanceID, ErrDuplicate)
	}

	fields := make([]*Field, 0, len(a.model.Fields))
	for _, fm := range a.model.Fields {
		f, err := newField(fm)
		if err != nil {
			return nil, err
		}
		fields = append(fields, f)
	}

	if instanceID < 0 {
		a.lastInstanceID++
		instanceID = a.lastInstanceID
	} else if instanceID > a.lastInstanceID {
		a.lastInstanceID = instanceID
	}

	inst := &Instance{id: instanceID, owner: a, fields: fields}
	if a.observeAll {
		if err := inst.SetObserve(true, a.observeToken); err != nil {
			return nil, err
		}
	}

	a.instances = append(a.instances, inst)
	a.dispatchLifecycle(inst, ActionCreate)
	r.updates.Kick()
	r.log.Debug("instance created", "app", a.app, "asset", a.id, "instance", instanceID)
	return inst, nil
}

// DeleteInstance fires delete handlers, releases the instance's fields,
// and removes it from its asset. The asset itself survives even with an
// empty instance list; use DeleteInstanceAndAsset to reap it.
func (r *Registry) DeleteInstance(inst *Instance) error {
	a := inst.owner
	if a == nil {
		return fmt.Errorf("instance already deleted: %w", ErrNotFound)
	}
	a.dispatchLifecycle(inst, ActionDelete)

	for n, cur := range a.instances {
		if cur == inst {
			a.instances = append(a.instances[:n], a.instances[n+1:]...)
			break
		}
	}
	inst.fields = nil
	inst.owner = nil
	r.log.Debug("instance deleted", "app", a.app, "asset", a.id, "instance", inst.id)
	return nil
}

// DeleteInstanceAndAsset deletes the instance and, if that emptied the
// asset's instance list, destroys the asset: all handler registrations
// are released and both index entries removed.
func (r *Registry) DeleteInstanceAndAsset(inst *Instance) error {
	a := inst.owner
	if err := r.DeleteInstance(inst); err != nil {
		return err
	}
	if len(a.instances) == 0 {
		r.destroy(a)
	}
	return nil
}

// CancelAllObserve walks the entire tree, clearing the object-level
// observation flag of every asset and the observation state of every
// field of every instance. Used for a full subscription reset.
func (r *Registry) CancelAllObserve() {
	for _, a := range r.byID {
		a.observeAll = false
		a.observeToken = nil
		for _, inst := range a.instances {
			for _, f := range inst.fields {
				_ = f.SetObserve(false, nil)
			}
		}
	}
}

// Assets returns every asset, ordered by (app, id) for deterministic
// iteration.
func (r *Registry) Assets() []*Asset {
	out := make([]*Asset, 0, len(r.byID))
	for _, a := range r.byID {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].app != out[j].app {
			return out[i].app < out[j].app
		}
		return out[i].id < out[j].id
	})
	return out
}
