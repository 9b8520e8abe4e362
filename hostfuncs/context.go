package hostfuncs

import (
	"context"

	"github.com/reglet-dev/reglet-rand/domain/entities"
)

// HostContext wraps a standard context.Context with the declaration of the
// host function being invoked, so middleware can inspect it.
type HostContext interface {
	context.Context

	// FunctionName returns the name of the host function being invoked.
	FunctionName() string

	// Function returns the full declaration of the invoked function.
	Function() entities.FunctionDecl
}

type hostContext struct {
	context.Context
	decl entities.FunctionDecl
}

// NewHostContext creates a new HostContext wrapping the given context.
func NewHostContext(ctx context.Context, decl entities.FunctionDecl) HostContext {
	return &hostContext{Context: ctx, decl: decl}
}

func (c *hostContext) FunctionName() string {
	return c.decl.Name
}

func (c *hostContext) Function() entities.FunctionDecl {
	return c.decl
}

// HostContextFrom extracts a HostContext from a context.Context.
// If the context is already a HostContext for the same function it is
// returned directly; otherwise a new one wraps ctx.
func HostContextFrom(ctx context.Context, decl entities.FunctionDecl) HostContext {
	if hc, ok := ctx.(HostContext); ok && hc.FunctionName() == decl.Name {
		return hc
	}
	return NewHostContext(ctx, decl)
}
