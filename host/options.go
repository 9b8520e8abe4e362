package host

import (
	"log/slog"

	"github.com/reglet-dev/reglet-rand/hostfuncs"
	wazeroadapter "github.com/reglet-dev/reglet-rand/infrastructure/wazero"
)

// Option defines a functional option for configuring the Executor.
type Option func(*Executor)

// WithHostFunctions configures the executor with a host function registry.
func WithHostFunctions(registry *hostfuncs.HandlerRegistry) Option {
	return func(e *Executor) {
		e.registry = registry
	}
}

// WithLogger sets the logger used for adapter failures and guest logs.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Executor) {
		e.logger = logger
	}
}

// WithAdapterOptions passes options through to the wazero adapter, for
// example a module name or request size limit.
func WithAdapterOptions(opts ...wazeroadapter.AdapterOption) Option {
	return func(e *Executor) {
		e.adapterOpts = append(e.adapterOpts, opts...)
	}
}
