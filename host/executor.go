package host

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/reglet-dev/reglet-rand/hostfuncs"
	wazeroadapter "github.com/reglet-dev/reglet-rand/infrastructure/wazero"
	"github.com/reglet-dev/reglet-rand/rand"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
)

// Executor manages the lifecycle of WASM guests.
type Executor struct {
	runtime     wazero.Runtime
	registry    *hostfuncs.HandlerRegistry
	logger      *slog.Logger
	adapterOpts []wazeroadapter.AdapterOption
}

// NewExecutor creates a new executor with the given options. Without
// WithHostFunctions the guest sees the random module on rand.Default.
func NewExecutor(ctx context.Context, opts ...Option) (*Executor, error) {
	e := &Executor{}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}

	// Default registry if not provided
	if e.registry == nil {
		reg, err := hostfuncs.NewRegistry(
			hostfuncs.WithMiddleware(hostfuncs.PanicRecoveryMiddleware()),
			hostfuncs.WithBundle(hostfuncs.RandomBundle(rand.Default)),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create default registry: %w", err)
		}
		e.registry = reg
	}

	rt := wazero.NewRuntime(ctx)
	wasi_snapshot_preview1.MustInstantiate(ctx, rt)
	e.runtime = rt

	adapterOpts := append([]wazeroadapter.AdapterOption{
		wazeroadapter.WithLogger(e.logger),
		wazeroadapter.WithCustomHandler(wazeroadapter.LogMessageHandler(e.logger)),
	}, e.adapterOpts...)

	if err := wazeroadapter.RegisterWithRuntime(ctx, rt, e.registry, adapterOpts...); err != nil {
		_ = rt.Close(ctx)
		return nil, fmt.Errorf("failed to register host functions: %w", err)
	}

	return e, nil
}

// Close releases resources held by the executor.
func (e *Executor) Close(ctx context.Context) error {
	return e.runtime.Close(ctx)
}

// Registry returns the registry the guests call into.
func (e *Executor) Registry() *hostfuncs.HandlerRegistry {
	return e.registry
}

// PluginInstance represents an instantiated WASM guest.
type PluginInstance struct {
	module api.Module
	name   string
}

// LoadPlugin instantiates a WASM module under name. Host function logs
// and guest log records carry the name.
func (e *Executor) LoadPlugin(ctx context.Context, name string, wasmBytes []byte) (*PluginInstance, error) {
	cfg := wazero.NewModuleConfig().WithName(name)
	mod, err := e.runtime.InstantiateWithConfig(wazeroadapter.WithGuestName(ctx, name), wasmBytes, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to instantiate module %q: %w", name, err)
	}

	// Initialize if needed (though Instantiate usually handles start)
	if init := mod.ExportedFunction("_initialize"); init != nil {
		if _, err := init.Call(ctx); err != nil {
			return nil, fmt.Errorf("failed to call _initialize: %w", err)
		}
	}

	return &PluginInstance{module: mod, name: name}, nil
}

// Name returns the name the instance was loaded under.
func (p *PluginInstance) Name() string {
	return p.name
}

// Call invokes a guest export that returns a packed ptr+len and returns a
// copy of the bytes it points at. A non-empty input is copied into guest
// memory first and passed as (ptr, len).
func (p *PluginInstance) Call(ctx context.Context, export string, input []byte) ([]byte, error) {
	packed, err := p.callRaw(wazeroadapter.WithGuestName(ctx, p.name), export, input)
	if err != nil {
		return nil, err
	}
	return p.readPacked(packed)
}

// Close releases the guest module.
func (p *PluginInstance) Close(ctx context.Context) error {
	return p.module.Close(ctx)
}
