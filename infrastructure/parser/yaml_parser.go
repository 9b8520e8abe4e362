// Package parser reads and writes module manifests as YAML.
package parser

import (
	"bytes"
	"fmt"

	"github.com/reglet-dev/reglet-rand/domain/entities"
	"github.com/reglet-dev/reglet-rand/domain/ports"
	"gopkg.in/yaml.v3"
)

// YamlManifestParser implements ManifestParser for YAML.
type YamlManifestParser struct{}

// NewYamlManifestParser creates a new YamlManifestParser.
func NewYamlManifestParser() ports.ManifestParser {
	return &YamlManifestParser{}
}

// Parse unmarshals YAML bytes into a Manifest. Every function must have a
// name and a non-negative arity, and names must be unique.
func (p *YamlManifestParser) Parse(data []byte) (*entities.Manifest, error) {
	var manifest entities.Manifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}

	seen := make(map[string]bool, len(manifest.Functions))
	for i, fn := range manifest.Functions {
		switch {
		case fn.Name == "":
			return nil, fmt.Errorf("parse manifest: function %d has no name", i)
		case fn.Arity < 0:
			return nil, fmt.Errorf("parse manifest: function %q has negative arity %d", fn.Name, fn.Arity)
		case seen[fn.Name]:
			return nil, fmt.Errorf("parse manifest: duplicate function %q", fn.Name)
		}
		seen[fn.Name] = true
	}
	return &manifest, nil
}

// Encode renders m as YAML with two-space indentation.
func (p *YamlManifestParser) Encode(m entities.Manifest) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(m); err != nil {
		return nil, fmt.Errorf("encode manifest: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode manifest: %w", err)
	}
	return buf.Bytes(), nil
}
