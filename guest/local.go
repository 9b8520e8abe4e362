package guest

import (
	"context"

	"github.com/reglet-dev/reglet-rand/hostfuncs"
)

type localTransport struct {
	ctx      context.Context
	registry *hostfuncs.HandlerRegistry
}

// NewLocalTransport invokes registry in-process. Useful for running guest
// code natively, for example in tests.
func NewLocalTransport(ctx context.Context, registry *hostfuncs.HandlerRegistry) Transport {
	return &localTransport{ctx: ctx, registry: registry}
}

func (t *localTransport) Call(function string, payload []byte) ([]byte, error) {
	return t.registry.Invoke(t.ctx, function, payload)
}
