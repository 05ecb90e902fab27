package softmgmt

import (
	"errors"
	"fmt"
	"testing"

	"github.com/assetlink-labs/assetlink/internal/asset"
)

type emptyModels struct{}

func (emptyModels) ObjectByID(app string, id int) (*asset.ObjectModel, error) {
	return nil, fmt.Errorf("no model for %s/%d: %w", app, id, asset.ErrNotFound)
}

func (emptyModels) ObjectByName(app, name string) (*asset.ObjectModel, error) {
	return nil, fmt.Errorf("no model for %s/%s: %w", app, name, asset.ErrNotFound)
}

func newManager(t *testing.T, hooks Hooks) (*Manager, *asset.Instance) {
	t.Helper()
	r := asset.NewRegistry(emptyModels{}, nil)
	t.Cleanup(r.Close)

	m, err := Attach(r, nil, hooks)
	if err != nil {
		t.Fatalf("Attach error: %v", err)
	}
	inst, err := r.CreateInstanceByID(asset.BuiltinApp, asset.SoftwareObjectID, 0)
	if err != nil {
		t.Fatalf("CreateInstanceByID error: %v", err)
	}
	return m, inst
}

func TestAttach_MaterializesSoftwareObject(t *testing.T) {
	r := asset.NewRegistry(emptyModels{}, nil)
	defer r.Close()

	if _, err := Attach(r, nil, Hooks{}); err != nil {
		t.Fatalf("Attach error: %v", err)
	}
	a, ok := r.LookupByID(asset.BuiltinApp, asset.SoftwareObjectID)
	if !ok {
		t.Fatal("software object missing after Attach")
	}
	if a.Name() != asset.SoftwareObjectName {
		t.Errorf("name = %q, want %q", a.Name(), asset.SoftwareObjectName)
	}
}

func TestInstallFlow(t *testing.T) {
	var fetched, installedName, installedVersion string
	m, inst := newManager(t, Hooks{
		Fetch: func(uri string) error {
			fetched = uri
			return nil
		},
		Install: func(name, version string) error {
			installedName, installedVersion = name, version
			return nil
		},
	})

	if err := m.SetPackage(inst, "firmware", "1.2.0"); err != nil {
		t.Fatalf("SetPackage error: %v", err)
	}

	// Server pushes the package URI.
	if err := inst.SetString(asset.SWPackageURI, "coap://host/fw.bin", asset.SideServer); err != nil {
		t.Fatalf("SetString error: %v", err)
	}
	if fetched != "coap://host/fw.bin" {
		t.Errorf("fetched = %q, want the written URI", fetched)
	}
	if State(inst) != StateDownloaded || Result(inst) != ResultDownloaded {
		t.Fatalf("after download: state=%d result=%d, want %d/%d",
			State(inst), Result(inst), StateDownloaded, ResultDownloaded)
	}

	// Server triggers the install.
	if err := inst.Execute(asset.SWInstall, asset.SideServer); err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if installedName != "firmware" || installedVersion != "1.2.0" {
		t.Errorf("install hook got %q/%q, want firmware/1.2.0", installedName, installedVersion)
	}
	if State(inst) != StateInstalled || Result(inst) != ResultInstalled {
		t.Errorf("after install: state=%d result=%d, want %d/%d",
			State(inst), Result(inst), StateInstalled, ResultInstalled)
	}
}

func TestFetchFailure(t *testing.T) {
	_, inst := newManager(t, Hooks{
		Fetch: func(string) error { return errors.New("unreachable") },
	})

	if err := inst.SetString(asset.SWPackageURI, "coap://host/fw.bin", asset.SideServer); err != nil {
		t.Fatalf("SetString error: %v", err)
	}
	if State(inst) != StateInitial || Result(inst) != ResultConnectionLost {
		t.Errorf("state=%d result=%d, want %d/%d",
			State(inst), Result(inst), StateInitial, ResultConnectionLost)
	}
}

func TestEmptyURI(t *testing.T) {
	_, inst := newManager(t, Hooks{})

	if err := inst.SetString(asset.SWPackageURI, "", asset.SideServer); err != nil {
		t.Fatalf("SetString error: %v", err)
	}
	if Result(inst) != ResultInvalidURI {
		t.Errorf("result = %d, want %d", Result(inst), ResultInvalidURI)
	}
}

func TestInstallBeforeDownloadFails(t *testing.T) {
	installed := false
	_, inst := newManager(t, Hooks{
		Install: func(string, string) error {
			installed = true
			return nil
		},
	})

	if err := inst.Execute(asset.SWInstall, asset.SideServer); err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if installed {
		t.Error("install hook ran without a downloaded package")
	}
	if Result(inst) != ResultInstallFailure {
		t.Errorf("result = %d, want %d", Result(inst), ResultInstallFailure)
	}
}

func TestInstallHookFailure(t *testing.T) {
	_, inst := newManager(t, Hooks{
		Install: func(string, string) error { return errors.New("disk full") },
	})

	if err := inst.SetString(asset.SWPackageURI, "coap://host/fw.bin", asset.SideServer); err != nil {
		t.Fatalf("SetString error: %v", err)
	}
	if err := inst.Execute(asset.SWInstall, asset.SideServer); err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if State(inst) != StateDownloaded || Result(inst) != ResultInstallFailure {
		t.Errorf("state=%d result=%d, want %d/%d",
			State(inst), Result(inst), StateDownloaded, ResultInstallFailure)
	}
}

func TestActivationLifecycle(t *testing.T) {
	_, inst := newManager(t, Hooks{})

	// Activation before install is refused.
	if err := inst.Execute(asset.SWActivate, asset.SideServer); err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if v, _ := inst.FieldByID(asset.SWActivationState).Bool(); v {
		t.Error("activated without an installed package")
	}

	if err := inst.SetString(asset.SWPackageURI, "coap://host/fw.bin", asset.SideServer); err != nil {
		t.Fatalf("SetString error: %v", err)
	}
	if err := inst.Execute(asset.SWInstall, asset.SideServer); err != nil {
		t.Fatalf("Execute error: %v", err)
	}

	if err := inst.Execute(asset.SWActivate, asset.SideServer); err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if v, _ := inst.FieldByID(asset.SWActivationState).Bool(); !v {
		t.Error("not activated after install and activate")
	}

	if err := inst.Execute(asset.SWDeactivate, asset.SideServer); err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if v, _ := inst.FieldByID(asset.SWActivationState).Bool(); v {
		t.Error("still activated after deactivate")
	}
}

func TestUninstallResets(t *testing.T) {
	var removed string
	_, inst := newManager(t, Hooks{
		Uninstall: func(name string) error {
			removed = name
			return nil
		},
	})

	if err := inst.SetString(asset.SWPackageURI, "coap://host/fw.bin", asset.SideServer); err != nil {
		t.Fatalf("SetString error: %v", err)
	}
	if err := inst.Execute(asset.SWInstall, asset.SideServer); err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if err := inst.SetString(asset.SWPackageName, "firmware", asset.SideClient); err != nil {
		t.Fatalf("SetString error: %v", err)
	}

	if err := inst.Execute(asset.SWUninstall, asset.SideServer); err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if removed != "firmware" {
		t.Errorf("uninstall hook got %q, want firmware", removed)
	}
	if State(inst) != StateInitial || Result(inst) != ResultInitial {
		t.Errorf("state=%d result=%d, want %d/%d",
			State(inst), Result(inst), StateInitial, ResultInitial)
	}
	if v, _ := inst.FieldByID(asset.SWActivationState).Bool(); v {
		t.Error("still activated after uninstall")
	}
}

func TestClientWritesDoNotTriggerHandlers(t *testing.T) {
	fetched := false
	_, inst := newManager(t, Hooks{
		Fetch: func(string) error {
			fetched = true
			return nil
		},
	})

	// The device writing its own URI field is not a server command.
	if err := inst.SetString(asset.SWPackageURI, "coap://host/fw.bin", asset.SideClient); err != nil {
		t.Fatalf("SetString error: %v", err)
	}
	if fetched {
		t.Error("fetch ran on a device-side write")
	}
	if State(inst) != StateInitial {
		t.Errorf("state = %d, want %d", State(inst), StateInitial)
	}
}

func TestShouldUpdate(t *testing.T) {
	tests := []struct {
		current string
		offered string
		want    bool
	}{
		{"1.0.0", "1.0.1", true},
		{"1.0.0", "2.0.0", true},
		{"1.0.0", "1.0.0", false},
		{"2.0.0", "1.9.9", false},
		{"", "0.1.0", true},
	}
	for _, tt := range tests {
		got, err := ShouldUpdate(tt.current, tt.offered)
		if err != nil {
			t.Errorf("ShouldUpdate(%q, %q) error: %v", tt.current, tt.offered, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ShouldUpdate(%q, %q) = %v, want %v", tt.current, tt.offered, got, tt.want)
		}
	}

	if _, err := ShouldUpdate("1.0.0", "not-a-version"); !errors.Is(err, asset.ErrFault) {
		t.Errorf("malformed offered version = %v, want ErrFault", err)
	}
	if _, err := ShouldUpdate("garbage", "1.0.0"); !errors.Is(err, asset.ErrFault) {
		t.Errorf("malformed current version = %v, want ErrFault", err)
	}
}

func TestSetPackage_RejectsBadVersion(t *testing.T) {
	m, inst := newManager(t, Hooks{})
	if err := m.SetPackage(inst, "firmware", "latest"); !errors.Is(err, asset.ErrFault) {
		t.Errorf("SetPackage = %v, want ErrFault", err)
	}
}

func TestNotificationNeeded(t *testing.T) {
	_, inst := newManager(t, Hooks{})

	if NotificationNeeded(inst) {
		t.Error("notification needed before any observe")
	}
	if err := inst.FieldByID(asset.SWUpdateState).SetObserve(true, []byte{0x01}); err != nil {
		t.Fatalf("SetObserve error: %v", err)
	}
	if NotificationNeeded(inst) {
		t.Error("notification needed with only the state observed")
	}
	if err := inst.FieldByID(asset.SWUpdateResult).SetObserve(true, []byte{0x01}); err != nil {
		t.Fatalf("SetObserve error: %v", err)
	}
	if !NotificationNeeded(inst) {
		t.Error("notification not needed with state and result observed")
	}
}
