// Package snapshot persists the value state of the asset tree across
// agent restarts. A snapshot captures every asset's instances and field
// values; restore re-materializes instances through the registry and
// stores the values directly, without firing handlers or the
// registration debouncer beyond what instance creation implies.
package snapshot

import (
	"fmt"
	"os"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/assetlink-labs/assetlink/internal/asset"
)

// State is the serialized form of the tree's mutable values.
type State struct {
	Assets []AssetState `msgpack:"assets"`
}

// AssetState holds one asset's instances.
type AssetState struct {
	App       string          `msgpack:"app"`
	ID        int             `msgpack:"id"`
	Instances []InstanceState `msgpack:"instances"`
}

// InstanceState holds one instance's field values.
type InstanceState struct {
	ID     int          `msgpack:"id"`
	Fields []FieldState `msgpack:"fields"`
}

// FieldState is one field's typed value. Type selects the meaningful
// slot, mirroring the field's tagged variant.
type FieldState struct {
	ID    int     `msgpack:"id"`
	Type  uint8   `msgpack:"type"`
	Int   int32   `msgpack:"int,omitempty"`
	Bool  bool    `msgpack:"bool,omitempty"`
	Str   string  `msgpack:"str,omitempty"`
	Float float64 `msgpack:"float,omitempty"`
}

// Capture walks the registry and records every field value.
func Capture(r *asset.Registry) *State {
	st := &State{}
	for _, a := range r.Assets() {
		as := AssetState{App: a.App(), ID: a.ID()}
		for _, inst := range a.Instances() {
			is := InstanceState{ID: inst.ID()}
			for _, f := range inst.Fields() {
				fs := FieldState{ID: f.ID(), Type: uint8(f.Type())}
				switch f.Type() {
				case asset.TypeInt:
					fs.Int, _ = f.Int()
				case asset.TypeBool:
					fs.Bool, _ = f.Bool()
				case asset.TypeString:
					fs.Str, _ = f.Str()
				case asset.TypeFloat:
					fs.Float, _ = f.Float()
				}
				is.Fields = append(is.Fields, fs)
			}
			as.Instances = append(as.Instances, is)
		}
		st.Assets = append(st.Assets, as)
	}
	return st
}

// Restore replays a snapshot into the registry. Instances are created
// when missing (existing ones are reused); field values are stored
// silently. Fields or assets that no longer match the current models are
// skipped rather than failing the whole restore.
func Restore(r *asset.Registry, st *State) error {
	for _, as := range st.Assets {
		for _, is := range as.Instances {
			inst, err := r.CreateInstanceByID(as.App, as.ID, is.ID)
			if err != nil {
				if a, ok := r.LookupByID(as.App, as.ID); ok {
					inst = a.InstanceByID(is.ID)
				}
				if inst == nil {
					continue
				}
			}
			for _, fs := range is.Fields {
				f := inst.FieldByID(fs.ID)
				if f == nil || uint8(f.Type()) != fs.Type {
					continue
				}
				switch f.Type() {
				case asset.TypeInt:
					_ = f.SetInt(fs.Int)
				case asset.TypeBool:
					_ = f.SetBool(fs.Bool)
				case asset.TypeString:
					_ = f.SetStr(fs.Str)
				case asset.TypeFloat:
					_ = f.SetFloat(fs.Float)
				}
			}
		}
	}
	return nil
}

// Save writes the snapshot to a file in msgpack encoding.
func Save(path string, st *State) error {
	data, err := msgpack.Marshal(st)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing snapshot %s: %w", path, err)
	}
	return nil
}

// Load reads a snapshot file.
func Load(path string) (*State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot %s: %w", path, err)
	}
	var st State
	if err := msgpack.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("decoding snapshot %s: %w", path, err)
	}
	return &st, nil
}
