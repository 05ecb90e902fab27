package asset

// The software-management object is the one identity materialized from an
// in-code field list instead of the model source.
const (
	BuiltinApp         = "lwm2m"
	SoftwareObjectID   = 9
	SoftwareObjectName = "software"
)

// Resource ids of the software-management object, matching the OMA LWM2M
// object 9 layout.
const (
	SWPackageName             = 0
	SWPackageVersion          = 1
	SWPackageURI              = 3
	SWInstall                 = 4
	SWUninstall               = 6
	SWUpdateState             = 7
	SWUpdateSupportedObjects  = 8
	SWUpdateResult            = 9
	SWActivate                = 10
	SWDeactivate              = 11
	SWActivationState         = 12
)

// softwareModel returns the hard-coded definition of the
// software-management object. Access is from the remote party's
// perspective: the server reads name/version/state/result, writes the
// package URI, and executes install/uninstall/activate/deactivate.
func softwareModel() *ObjectModel {
	return &ObjectModel{
		App:  BuiltinApp,
		ID:   SoftwareObjectID,
		Name: SoftwareObjectName,
		Fields: []ModelField{
			{ID: SWPackageName, Name: "package name", Type: TypeString, Access: AccessRead},
			{ID: SWPackageVersion, Name: "package version", Type: TypeString, Access: AccessRead},
			{ID: SWPackageURI, Name: "package uri", Type: TypeString, Access: AccessWrite},
			{ID: SWInstall, Name: "install", Type: TypeNone, Access: AccessExec},
			{ID: SWUninstall, Name: "uninstall", Type: TypeNone, Access: AccessExec},
			{ID: SWUpdateState, Name: "update state", Type: TypeInt, Access: AccessRead | AccessWrite},
			{ID: SWUpdateSupportedObjects, Name: "update supported objects", Type: TypeBool, Access: AccessRead | AccessWrite},
			{ID: SWUpdateResult, Name: "update result", Type: TypeInt, Access: AccessRead | AccessWrite},
			{ID: SWActivate, Name: "activate", Type: TypeNone, Access: AccessExec},
			{ID: SWDeactivate, Name: "deactivate", Type: TypeNone, Access: AccessExec},
			{ID: SWActivationState, Name: "activation state", Type: TypeBool, Access: AccessRead | AccessWrite},
		},
	}
}
