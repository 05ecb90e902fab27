// Package config manages user-level settings stored at
// ~/.assetlink/config.yaml: the object-model directory, the logging
// mode, and the value-snapshot path.
package config
