package model

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"
)

// Parse unmarshals one object-model document from YAML bytes.
func Parse(data []byte) (*Document, error) {
	var d Document
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("parsing model document: %w", err)
	}
	return &d, nil
}

// ParseFile reads and unmarshals one object-model document.
func ParseFile(path string) (*Document, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	d, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("model %s: %w", path, err)
	}
	return d, nil
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", path, err)
	}
	return data, nil
}
