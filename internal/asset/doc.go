// Package asset implements the device-side object tree of the AssetLink
// agent: a registry of asset definitions keyed by application name plus
// numeric id or name, the instance and field lifecycle, typed accessors with
// cross-side action dispatch, the observation engine, and the
// registration-update debouncer. The tree is the state a remote management
// server reads, writes, executes and observes; the wire encoding lives in
// the tlv package.
package asset
