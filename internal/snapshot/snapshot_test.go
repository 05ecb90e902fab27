package snapshot

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/assetlink-labs/assetlink/internal/asset"
)

type stubModels struct {
	models []*asset.ObjectModel
}

func (s *stubModels) ObjectByID(app string, id int) (*asset.ObjectModel, error) {
	for _, m := range s.models {
		if m.App == app && m.ID == id {
			return m, nil
		}
	}
	return nil, fmt.Errorf("no model for %s/%d: %w", app, id, asset.ErrNotFound)
}

func (s *stubModels) ObjectByName(app, name string) (*asset.ObjectModel, error) {
	for _, m := range s.models {
		if m.App == app && m.Name == name {
			return m, nil
		}
	}
	return nil, fmt.Errorf("no model for %s/%s: %w", app, name, asset.ErrNotFound)
}

func sensorModel() *asset.ObjectModel {
	return &asset.ObjectModel{
		App:  "demo",
		ID:   5,
		Name: "sensor",
		Fields: []asset.ModelField{
			{ID: 0, Name: "temperature", Type: asset.TypeFloat, Access: asset.AccessRead | asset.AccessWrite},
			{ID: 1, Name: "label", Type: asset.TypeString, Access: asset.AccessRead | asset.AccessWrite},
			{ID: 2, Name: "enabled", Type: asset.TypeBool, Access: asset.AccessRead | asset.AccessWrite},
			{ID: 3, Name: "count", Type: asset.TypeInt, Access: asset.AccessRead | asset.AccessWrite},
		},
	}
}

func newTestRegistry(t *testing.T) *asset.Registry {
	t.Helper()
	r := asset.NewRegistry(&stubModels{models: []*asset.ObjectModel{sensorModel()}}, nil)
	t.Cleanup(r.Close)
	return r
}

func populate(t *testing.T, r *asset.Registry) {
	t.Helper()
	inst, err := r.CreateInstanceByID("demo", 5, 0)
	if err != nil {
		t.Fatalf("CreateInstanceByID error: %v", err)
	}
	if err := inst.FieldByID(0).SetFloat(21.5); err != nil {
		t.Fatal(err)
	}
	if err := inst.FieldByID(1).SetStr("kitchen"); err != nil {
		t.Fatal(err)
	}
	if err := inst.FieldByID(2).SetBool(true); err != nil {
		t.Fatal(err)
	}
	if err := inst.FieldByID(3).SetInt(-7); err != nil {
		t.Fatal(err)
	}
	if _, err := r.CreateInstanceByID("demo", 5, 3); err != nil {
		t.Fatalf("CreateInstanceByID error: %v", err)
	}
}

func TestCaptureRestore_RoundTrip(t *testing.T) {
	src := newTestRegistry(t)
	populate(t, src)

	st := Capture(src)
	if len(st.Assets) != 1 {
		t.Fatalf("captured %d assets, want 1", len(st.Assets))
	}
	if len(st.Assets[0].Instances) != 2 {
		t.Fatalf("captured %d instances, want 2", len(st.Assets[0].Instances))
	}

	dst := newTestRegistry(t)
	if err := Restore(dst, st); err != nil {
		t.Fatalf("Restore error: %v", err)
	}

	a, ok := dst.LookupByID("demo", 5)
	if !ok {
		t.Fatal("asset missing after restore")
	}
	inst := a.InstanceByID(0)
	if inst == nil {
		t.Fatal("instance 0 missing after restore")
	}
	if v, _ := inst.FieldByID(0).Float(); v != 21.5 {
		t.Errorf("temperature = %v, want 21.5", v)
	}
	if v, _ := inst.FieldByID(1).Str(); v != "kitchen" {
		t.Errorf("label = %q, want kitchen", v)
	}
	if v, _ := inst.FieldByID(2).Bool(); !v {
		t.Error("enabled = false, want true")
	}
	if v, _ := inst.FieldByID(3).Int(); v != -7 {
		t.Errorf("count = %d, want -7", v)
	}
	if a.InstanceByID(3) == nil {
		t.Error("instance 3 missing after restore")
	}
	// Restored explicit ids keep the watermark ahead of them.
	if a.LastInstanceID() != 3 {
		t.Errorf("LastInstanceID = %d, want 3", a.LastInstanceID())
	}
}

func TestRestore_SilentAndReusing(t *testing.T) {
	src := newTestRegistry(t)
	populate(t, src)
	st := Capture(src)

	dst := newTestRegistry(t)
	inst, err := dst.CreateInstanceByID("demo", 5, 0)
	if err != nil {
		t.Fatalf("CreateInstanceByID error: %v", err)
	}
	a, _ := dst.LookupByID("demo", 5)
	var writes int
	a.OnField(1, asset.SideServer, func(*asset.Instance, int, asset.Action) { writes++ })

	if err := Restore(dst, st); err != nil {
		t.Fatalf("Restore error: %v", err)
	}
	// The existing instance was reused and its values overwritten without
	// dispatch.
	if v, _ := inst.FieldByID(1).Str(); v != "kitchen" {
		t.Errorf("label = %q, want kitchen", v)
	}
	if writes != 0 {
		t.Errorf("restore fired %d write handlers, want 0", writes)
	}
	if got := len(a.Instances()); got != 2 {
		t.Errorf("instance count = %d, want 2", got)
	}
}

func TestRestore_SkipsUnknownFieldsAndAssets(t *testing.T) {
	st := &State{
		Assets: []AssetState{
			{
				App: "demo", ID: 5,
				Instances: []InstanceState{
					{
						ID: 0,
						Fields: []FieldState{
							{ID: 3, Type: uint8(asset.TypeInt), Int: 11},
							// Unknown field and a type that drifted.
							{ID: 99, Type: uint8(asset.TypeInt), Int: 1},
							{ID: 1, Type: uint8(asset.TypeBool), Bool: true},
						},
					},
				},
			},
			// No model for this asset anymore.
			{App: "gone", ID: 1, Instances: []InstanceState{{ID: 0}}},
		},
	}

	r := newTestRegistry(t)
	if err := Restore(r, st); err != nil {
		t.Fatalf("Restore error: %v", err)
	}

	a, ok := r.LookupByID("demo", 5)
	if !ok {
		t.Fatal("asset missing after restore")
	}
	inst := a.InstanceByID(0)
	if v, _ := inst.FieldByID(3).Int(); v != 11 {
		t.Errorf("count = %d, want 11", v)
	}
	// Field 1 is a string in the model; the boolean entry is skipped.
	if v, _ := inst.FieldByID(1).Str(); v != "" {
		t.Errorf("label = %q, want empty", v)
	}
	if _, ok := r.LookupByID("gone", 1); ok {
		t.Error("asset without a model materialized during restore")
	}
}

func TestSaveLoad(t *testing.T) {
	src := newTestRegistry(t)
	populate(t, src)
	st := Capture(src)

	path := filepath.Join(t.TempDir(), "state.msgpack")
	if err := Save(path, st); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if len(loaded.Assets) != 1 || len(loaded.Assets[0].Instances) != 2 {
		t.Fatalf("loaded shape = %d assets, want 1 with 2 instances", len(loaded.Assets))
	}
	got := loaded.Assets[0].Instances[0]
	if got.Fields[1].Str != "kitchen" {
		t.Errorf("loaded label = %q, want kitchen", got.Fields[1].Str)
	}
	if got.Fields[3].Int != -7 {
		t.Errorf("loaded count = %d, want -7", got.Fields[3].Int)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.msgpack")); err == nil {
		t.Fatal("expected error for missing snapshot, got nil")
	}
}
