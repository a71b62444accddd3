package catalog

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var seedYAML []byte

type seedFile struct {
	Tools []ToolRecord `yaml:"tools"`
}

// DecodeYAML reads a `tools:` document. Unknown keys are rejected so typos in
// hand-edited catalog files surface at startup.
func DecodeYAML(r io.Reader) ([]ToolRecord, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f seedFile
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to decode catalog YAML: %w", err)
	}
	return f.Tools, nil
}

// ReadFile reads a catalog YAML file from disk
func ReadFile(path string) ([]ToolRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	records, err := DecodeYAML(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return records, nil
}

// SeedRecords returns the built-in catalog
func SeedRecords() ([]ToolRecord, error) {
	return DecodeYAML(bytes.NewReader(seedYAML))
}

// Default builds a catalog from the built-in records
func Default() (*Catalog, error) {
	records, err := SeedRecords()
	if err != nil {
		return nil, err
	}
	return New(records)
}
