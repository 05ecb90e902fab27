// Package model reads the agent's object-model documents: one YAML file
// per managed object type, defining its identity and ordered field list
// (id, name, type, access, optional default). Documents are validated
// against a JSON Schema and served to the asset registry through the
// asset.ModelSource interface via Dir.
package model
