// Package cli wires the cobra command surface of the assetlink agent:
// the demo/run loop, object-model inspection and validation, TLV stream
// decoding, configuration management, and diagnostics.
package cli
