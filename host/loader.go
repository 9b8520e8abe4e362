package host

import (
	"fmt"
	"strings"

	"github.com/reglet-dev/reglet-rand/domain/entities"
	"github.com/reglet-dev/reglet-rand/domain/ports"
	"github.com/reglet-dev/reglet-rand/hostfuncs"
	"github.com/reglet-dev/reglet-rand/infrastructure/parser"
)

// loaderConfig holds configuration for the Loader.
type loaderConfig struct {
	parser   ports.ManifestParser
	registry *hostfuncs.HandlerRegistry
}

func defaultLoaderConfig() loaderConfig {
	return loaderConfig{
		parser: parser.NewYamlManifestParser(),
	}
}

// Loader reads the manifest a guest was built against and checks that the
// host can satisfy it.
type Loader struct {
	config loaderConfig
}

// LoaderOption configures the Loader.
type LoaderOption func(*loaderConfig)

// WithRegistry checks loaded manifests against the functions and types r exports.
func WithRegistry(r *hostfuncs.HandlerRegistry) LoaderOption {
	return func(c *loaderConfig) {
		c.registry = r
	}
}

// WithParser sets a custom manifest parser.
func WithParser(p ports.ManifestParser) LoaderOption {
	return func(c *loaderConfig) {
		c.parser = p
	}
}

// NewLoader creates a new Loader with defaults.
func NewLoader(opts ...LoaderOption) *Loader {
	cfg := defaultLoaderConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Loader{config: cfg}
}

// LoadManifest parses a manifest and, when a registry is configured,
// verifies every declared type and function is exported with the same
// arity and effect flag.
func (l *Loader) LoadManifest(raw []byte) (*entities.Manifest, error) {
	manifest, err := l.config.parser.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}

	if l.config.registry == nil {
		return manifest, nil
	}

	if problems := compare(manifest, l.config.registry); len(problems) > 0 {
		return nil, fmt.Errorf("manifest validation failed:\n- %s", strings.Join(problems, "\n- "))
	}
	return manifest, nil
}

func compare(m *entities.Manifest, r *hostfuncs.HandlerRegistry) []string {
	var problems []string

	exported := r.Manifest()
	for _, t := range m.Types {
		if !exported.HasType(t.Name) {
			problems = append(problems, fmt.Sprintf("%s: type not exported", t.Name))
		}
	}

	for _, want := range m.Functions {
		got, ok := r.Decl(want.Name)
		switch {
		case !ok:
			problems = append(problems, fmt.Sprintf("%s: function not exported", want.Name))
		case got.Arity != want.Arity:
			problems = append(problems, fmt.Sprintf("%s: arity %d, host has %d", want.Name, want.Arity, got.Arity))
		case got.Effectful != want.Effectful:
			problems = append(problems, fmt.Sprintf("%s: effectful=%t, host has %t", want.Name, want.Effectful, got.Effectful))
		}
	}
	return problems
}
