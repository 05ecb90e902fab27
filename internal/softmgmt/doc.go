// Package softmgmt drives the built-in software-management object: it
// registers the device-side handlers for the package URI, install,
// uninstall, activate, and deactivate resources and keeps the update
// state and result resources consistent with the LWM2M software
// management state machine. Offered package versions are validated and
// compared as semantic versions.
package softmgmt
