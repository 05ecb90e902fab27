package model

import (
	"fmt"

	"github.com/assetlink-labs/assetlink/internal/asset"
)

// Document is the YAML form of one object-model definition.
type Document struct {
	App    string          `yaml:"app" json:"app"`
	ID     int             `yaml:"id" json:"id"`
	Name   string          `yaml:"name" json:"name"`
	Fields []FieldDocument `yaml:"fields" json:"fields"`
}

// FieldDocument is the YAML form of one field definition.
type FieldDocument struct {
	ID     int    `yaml:"id" json:"id"`
	Name   string `yaml:"name" json:"name"`
	Type   string `yaml:"type" json:"type"`
	Access string `yaml:"access" json:"access"`

	// Default may be a YAML string, number, or boolean; it is carried
	// textually and parsed per the field type when an instance is built.
	Default any `yaml:"default,omitempty" json:"default,omitempty"`
}

// ToObjectModel converts the document into the registry's model form,
// resolving type tags and access strings.
func (d *Document) ToObjectModel() (*asset.ObjectModel, error) {
	m := &asset.ObjectModel{
		App:    d.App,
		ID:     d.ID,
		Name:   d.Name,
		Fields: make([]asset.ModelField, 0, len(d.Fields)),
	}
	for _, fd := range d.Fields {
		typ, err := asset.ParseFieldType(fd.Type)
		if err != nil {
			return nil, fmt.Errorf("model %s/%d field %d: %w", d.App, d.ID, fd.ID, err)
		}
		access, err := asset.ParseAccess(fd.Access)
		if err != nil {
			return nil, fmt.Errorf("model %s/%d field %d: %w", d.App, d.ID, fd.ID, err)
		}
		mf := asset.ModelField{
			ID:     fd.ID,
			Name:   fd.Name,
			Type:   typ,
			Access: access,
		}
		if fd.Default != nil {
			mf.Default = defaultText(fd.Default)
			mf.HasDefault = true
		}
		m.Fields = append(m.Fields, mf)
	}
	return m, nil
}

// defaultText renders a YAML default value in the textual form the field
// layer parses.
func defaultText(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case bool:
		if val {
			return "1"
		}
		return "0"
	default:
		return fmt.Sprint(val)
	}
}
