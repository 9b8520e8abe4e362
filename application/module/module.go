// Package module assembles the random module's host function registry.
package module

import (
	"log/slog"

	"github.com/reglet-dev/reglet-rand/domain/ports"
	"github.com/reglet-dev/reglet-rand/hostfuncs"
)

// Identity reported in manifests.
const (
	Name        = "random"
	Version     = "1.0.0"
	Description = "Pseudorandom primitives: a global generator and seeded xorshift128 values."
)

// NewRegistry returns the random module registry with panic recovery and
// call logging. Global draws go to gen.
func NewRegistry(gen ports.GlobalGenerator, logger *slog.Logger) (*hostfuncs.HandlerRegistry, error) {
	return hostfuncs.NewRegistry(
		hostfuncs.WithModuleInfo(hostfuncs.ModuleInfo{
			Name:        Name,
			Version:     Version,
			Description: Description,
		}),
		hostfuncs.WithMiddleware(
			hostfuncs.PanicRecoveryMiddleware(),
			hostfuncs.LoggingMiddleware(logger),
		),
		hostfuncs.WithBundle(hostfuncs.RandomBundle(gen)),
	)
}
