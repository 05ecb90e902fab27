package softmgmt

import (
	"fmt"

	"github.com/Masterminds/semver/v3"

	"github.com/assetlink-labs/assetlink/internal/asset"
	"github.com/assetlink-labs/assetlink/internal/logging"
)

// Update states of the software-management object.
const (
	StateInitial         int32 = 0
	StateDownloadStarted int32 = 1
	StateDownloaded      int32 = 2
	StateDelivered       int32 = 3
	StateInstalled       int32 = 4
)

// Update results of the software-management object.
const (
	ResultInitial        int32 = 0
	ResultDownloading    int32 = 1
	ResultInstalled      int32 = 2
	ResultDownloaded     int32 = 3
	ResultConnectionLost int32 = 52
	ResultInvalidURI     int32 = 56
	ResultInstallFailure int32 = 58
	ResultUninstallError int32 = 59
)

// Hooks are the device-specific operations the manager delegates to.
// Nil hooks succeed immediately, which keeps the state machine usable in
// harnesses and tests.
type Hooks struct {
	// Fetch downloads the package behind the URI the server wrote.
	Fetch func(uri string) error
	// Install applies the downloaded package.
	Install func(name, version string) error
	// Uninstall removes the installed package.
	Uninstall func(name string) error
}

// Manager owns the device-side behavior of the software-management
// object.
type Manager struct {
	reg   *asset.Registry
	log   *logging.Logger
	hooks Hooks
}

// Attach materializes the software-management object and registers its
// device-side handlers. The handlers fire on server-driven writes and
// executes, per the cross-side dispatch rule.
func Attach(reg *asset.Registry, log *logging.Logger, hooks Hooks) (*Manager, error) {
	if log == nil {
		log = logging.Nop()
	}
	m := &Manager{reg: reg, log: log, hooks: hooks}

	a, err := reg.GetOrCreateByID(asset.BuiltinApp, asset.SoftwareObjectID)
	if err != nil {
		return nil, fmt.Errorf("attaching software management: %w", err)
	}
	a.OnField(asset.SWPackageURI, asset.SideClient, m.onPackageURI)
	a.OnField(asset.SWInstall, asset.SideClient, m.onInstall)
	a.OnField(asset.SWUninstall, asset.SideClient, m.onUninstall)
	a.OnField(asset.SWActivate, asset.SideClient, m.onActivate)
	a.OnField(asset.SWDeactivate, asset.SideClient, m.onDeactivate)
	return m, nil
}

// State reads the current update state without firing handlers.
func State(inst *asset.Instance) int32 {
	if f := inst.FieldByID(asset.SWUpdateState); f != nil {
		v, _ := f.Int()
		return v
	}
	return StateInitial
}

// Result reads the current update result without firing handlers.
func Result(inst *asset.Instance) int32 {
	if f := inst.FieldByID(asset.SWUpdateResult); f != nil {
		v, _ := f.Int()
		return v
	}
	return ResultInitial
}

// NotificationNeeded reports whether the server observes both the update
// state and the update result, i.e. whether a state transition should be
// pushed as a partial notification.
func NotificationNeeded(inst *asset.Instance) bool {
	return inst.IsCompoundObserved(asset.SWUpdateState, asset.SWUpdateResult)
}

// ShouldUpdate compares two semantic versions and reports whether the
// offered one is an upgrade. Malformed versions are ErrFault.
func ShouldUpdate(current, offered string) (bool, error) {
	ov, err := semver.NewVersion(offered)
	if err != nil {
		return false, fmt.Errorf("offered version %q: %s: %w", offered, err, asset.ErrFault)
	}
	if current == "" {
		return true, nil
	}
	cv, err := semver.NewVersion(current)
	if err != nil {
		return false, fmt.Errorf("current version %q: %s: %w", current, err, asset.ErrFault)
	}
	return ov.GreaterThan(cv), nil
}

// SetPackage records the package identity on the instance after
// validating the version as semver. Used by the device once a package is
// known, before or after installation.
func (m *Manager) SetPackage(inst *asset.Instance, name, version string) error {
	if _, err := semver.NewVersion(version); err != nil {
		return fmt.Errorf("package version %q: %s: %w", version, err, asset.ErrFault)
	}
	if err := inst.SetString(asset.SWPackageName, name, asset.SideClient); err != nil {
		return err
	}
	return inst.SetString(asset.SWPackageVersion, version, asset.SideClient)
}

func fieldStr(inst *asset.Instance, fieldID int) string {
	if f := inst.FieldByID(fieldID); f != nil {
		s, _ := f.Str()
		return s
	}
	return ""
}

// setProgress stores state and result as client-side writes, notifying
// any server-side observers.
func (m *Manager) setProgress(inst *asset.Instance, state, result int32) {
	_ = inst.SetInt(asset.SWUpdateState, state, asset.SideClient)
	_ = inst.SetInt(asset.SWUpdateResult, result, asset.SideClient)
}

func (m *Manager) onPackageURI(inst *asset.Instance, fieldID int, action asset.Action) {
	if action != asset.ActionWrite {
		return
	}
	uri := fieldStr(inst, asset.SWPackageURI)
	if uri == "" {
		m.setProgress(inst, StateInitial, ResultInvalidURI)
		return
	}

	m.log.Info("package uri written", "instance", inst.ID(), "uri", uri)
	m.setProgress(inst, StateDownloadStarted, ResultDownloading)
	if m.hooks.Fetch != nil {
		if err := m.hooks.Fetch(uri); err != nil {
			m.log.Warn("package fetch failed", "uri", uri, "error", err)
			m.setProgress(inst, StateInitial, ResultConnectionLost)
			return
		}
	}
	m.setProgress(inst, StateDownloaded, ResultDownloaded)
}

func (m *Manager) onInstall(inst *asset.Instance, fieldID int, action asset.Action) {
	if action != asset.ActionExec {
		return
	}
	switch State(inst) {
	case StateDownloaded, StateDelivered:
	default:
		m.setProgress(inst, State(inst), ResultInstallFailure)
		return
	}

	name := fieldStr(inst, asset.SWPackageName)
	version := fieldStr(inst, asset.SWPackageVersion)
	if m.hooks.Install != nil {
		if err := m.hooks.Install(name, version); err != nil {
			m.log.Warn("package install failed", "package", name, "error", err)
			m.setProgress(inst, State(inst), ResultInstallFailure)
			return
		}
	}
	m.log.Info("package installed", "package", name, "version", version)
	m.setProgress(inst, StateInstalled, ResultInstalled)
}

func (m *Manager) onUninstall(inst *asset.Instance, fieldID int, action asset.Action) {
	if action != asset.ActionExec {
		return
	}
	name := fieldStr(inst, asset.SWPackageName)
	if m.hooks.Uninstall != nil {
		if err := m.hooks.Uninstall(name); err != nil {
			m.log.Warn("package uninstall failed", "package", name, "error", err)
			m.setProgress(inst, State(inst), ResultUninstallError)
			return
		}
	}
	_ = inst.SetBool(asset.SWActivationState, false, asset.SideClient)
	m.setProgress(inst, StateInitial, ResultInitial)
}

func (m *Manager) onActivate(inst *asset.Instance, fieldID int, action asset.Action) {
	if action != asset.ActionExec {
		return
	}
	if State(inst) != StateInstalled {
		return
	}
	_ = inst.SetBool(asset.SWActivationState, true, asset.SideClient)
}

func (m *Manager) onDeactivate(inst *asset.Instance, fieldID int, action asset.Action) {
	if action != asset.ActionExec {
		return
	}
	_ = inst.SetBool(asset.SWActivationState, false, asset.SideClient)
}
