package hostfuncs

import (
	"context"
	"fmt"
	"sort"

	"github.com/reglet-dev/reglet-rand/domain/entities"
)

// Function is a host function together with its declaration.
type Function struct {
	// Handler serves the function's JSON payloads.
	Handler ByteHandler

	// Request and Response are zero values of the wire types, kept for
	// schema generation. Nil for raw byte handlers.
	Request  any
	Response any

	// Decl is what hosts register: name, arity and effect flag.
	Decl entities.FunctionDecl
}

// NewFunction builds a Function from a typed HostFunc.
func NewFunction[Req any, Resp any](decl entities.FunctionDecl, fn HostFunc[Req, Resp]) Function {
	var req Req
	var resp Resp
	return Function{
		Decl:     decl,
		Handler:  NewJSONHandler(fn),
		Request:  req,
		Response: resp,
	}
}

// ModuleInfo names the module a registry exports.
type ModuleInfo struct {
	Name        string
	Version     string
	Description string
}

// HandlerRegistry is an immutable collection of named host functions and
// native type declarations. Once created via NewRegistry, nothing can be
// added or removed, so lookups are lock-free.
type HandlerRegistry struct {
	functions  map[string]Function
	info       ModuleInfo
	names      []string // sorted for consistent iteration
	types      []entities.TypeDecl
	middleware []Middleware
}

// registryBuilder accumulates configuration during registry construction.
type registryBuilder struct {
	functions  map[string]Function
	info       ModuleInfo
	types      []entities.TypeDecl
	middleware []Middleware
	errors     []error
}

// NewRegistry creates an immutable HandlerRegistry with the given options.
// Returns an error if any function or type name is registered twice.
//
// Example usage:
//
//	registry, err := NewRegistry(
//	    WithMiddleware(PanicRecoveryMiddleware()),
//	    WithBundle(RandomBundle(rand.Default)),
//	)
func NewRegistry(opts ...RegistryOption) (*HandlerRegistry, error) {
	b := &registryBuilder{
		functions: make(map[string]Function),
	}

	for _, opt := range opts {
		opt(b)
	}

	if len(b.errors) > 0 {
		return nil, b.errors[0]
	}

	names := make([]string, 0, len(b.functions))
	for name := range b.functions {
		names = append(names, name)
	}
	sort.Strings(names)

	// Apply middleware in reverse order so the first middleware wraps outermost.
	wrapped := make(map[string]Function, len(b.functions))
	for name, fn := range b.functions {
		h := fn.Handler
		for i := len(b.middleware) - 1; i >= 0; i-- {
			h = b.middleware[i](h)
		}
		fn.Handler = h
		wrapped[name] = fn
	}

	types := make([]entities.TypeDecl, len(b.types))
	copy(types, b.types)
	sort.Slice(types, func(i, j int) bool { return types[i].Name < types[j].Name })

	return &HandlerRegistry{
		functions:  wrapped,
		info:       b.info,
		names:      names,
		types:      types,
		middleware: b.middleware,
	}, nil
}

// Invoke dispatches a host function call by name.
// Returns the JSON response bytes, or an ErrorResponse JSON if the function is not found.
func (r *HandlerRegistry) Invoke(ctx context.Context, name string, payload []byte) ([]byte, error) {
	fn, ok := r.functions[name]
	if !ok {
		return NewNotFoundError(name, r.names...).ToJSON(), nil
	}

	return fn.Handler(HostContextFrom(ctx, fn.Decl), payload)
}

// Has returns true if a function with the given name is registered.
func (r *HandlerRegistry) Has(name string) bool {
	_, ok := r.functions[name]
	return ok
}

// Names returns a sorted list of all registered function names.
func (r *HandlerRegistry) Names() []string {
	result := make([]string, len(r.names))
	copy(result, r.names)
	return result
}

// Decl returns the declaration of a registered function.
func (r *HandlerRegistry) Decl(name string) (entities.FunctionDecl, bool) {
	fn, ok := r.functions[name]
	return fn.Decl, ok
}

// Functions returns every registered function in name order.
// Handlers are the middleware-wrapped ones Invoke uses.
func (r *HandlerRegistry) Functions() []Function {
	result := make([]Function, 0, len(r.names))
	for _, name := range r.names {
		result = append(result, r.functions[name])
	}
	return result
}

// Types returns the declared native types in name order.
func (r *HandlerRegistry) Types() []entities.TypeDecl {
	result := make([]entities.TypeDecl, len(r.types))
	copy(result, r.types)
	return result
}

// Manifest describes the registry's exports. Schemas are left empty; see
// application/schema for filling them in.
func (r *HandlerRegistry) Manifest() entities.Manifest {
	m := entities.Manifest{
		Name:        r.info.Name,
		Version:     r.info.Version,
		Description: r.info.Description,
		Types:       r.Types(),
		Functions:   make([]entities.FunctionDecl, 0, len(r.names)),
	}
	for _, name := range r.names {
		m.Functions = append(m.Functions, r.functions[name].Decl)
	}
	return m
}

// addFunction registers a function under its declared name.
func (b *registryBuilder) addFunction(fn Function) error {
	name := fn.Decl.Name
	if name == "" {
		return fmt.Errorf("handler name cannot be empty")
	}
	if fn.Handler == nil {
		return fmt.Errorf("handler %q has no implementation", name)
	}
	if fn.Decl.Arity < 0 {
		return fmt.Errorf("handler %q has negative arity %d", name, fn.Decl.Arity)
	}
	if _, exists := b.functions[name]; exists {
		return fmt.Errorf("duplicate handler name: %q", name)
	}
	b.functions[name] = fn
	return nil
}

// addType registers a native type declaration.
func (b *registryBuilder) addType(decl entities.TypeDecl) error {
	if decl.Name == "" {
		return fmt.Errorf("type name cannot be empty")
	}
	for _, existing := range b.types {
		if existing.Name == decl.Name {
			return fmt.Errorf("duplicate type name: %q", decl.Name)
		}
	}
	b.types = append(b.types, decl)
	return nil
}

func (b *registryBuilder) collect(err error) {
	if err != nil {
		b.errors = append(b.errors, err)
	}
}

// WithByteHandler registers a raw ByteHandler with the given name and a
// single unit argument. Use WithFunction to declare arity and effects.
func WithByteHandler(name string, handler ByteHandler) RegistryOption {
	return func(b *registryBuilder) {
		b.collect(b.addFunction(Function{
			Decl:    entities.FunctionDecl{Name: name, Arity: 1},
			Handler: handler,
		}))
	}
}

// WithHandler registers a typed host function with automatic JSON handling
// and a single argument.
//
// Example usage:
//
//	WithHandler("custom_func", func(ctx context.Context, req MyRequest) MyResponse {
//	    return MyResponse{Result: req.Input}
//	})
func WithHandler[Req any, Resp any](name string, fn HostFunc[Req, Resp]) RegistryOption {
	return WithFunction(NewFunction(entities.FunctionDecl{Name: name, Arity: 1}, fn))
}

// WithFunction registers fully declared functions.
func WithFunction(fns ...Function) RegistryOption {
	return func(b *registryBuilder) {
		for _, fn := range fns {
			b.collect(b.addFunction(fn))
		}
	}
}

// WithType declares native types exported alongside the functions.
func WithType(decls ...entities.TypeDecl) RegistryOption {
	return func(b *registryBuilder) {
		for _, decl := range decls {
			b.collect(b.addType(decl))
		}
	}
}

// WithModuleInfo sets the name, version and description reported by Manifest.
func WithModuleInfo(info ModuleInfo) RegistryOption {
	return func(b *registryBuilder) {
		b.info = info
	}
}

// WithMiddleware adds middleware to the registry.
// Middleware executes in FIFO order (first added wraps first).
func WithMiddleware(mw ...Middleware) RegistryOption {
	return func(b *registryBuilder) {
		b.middleware = append(b.middleware, mw...)
	}
}
