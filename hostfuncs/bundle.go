package hostfuncs

import (
	"github.com/reglet-dev/reglet-rand/domain/entities"
	"github.com/reglet-dev/reglet-rand/domain/ports"
)

// HostFuncBundle is a pre-configured set of related host functions and the
// native types they exchange.
type HostFuncBundle interface {
	// Functions returns the bundle's functions.
	Functions() []Function

	// Types returns the native types the functions accept or return.
	Types() []entities.TypeDecl
}

type staticBundle struct {
	functions []Function
	types     []entities.TypeDecl
}

func (b *staticBundle) Functions() []Function {
	return b.functions
}

func (b *staticBundle) Types() []entities.TypeDecl {
	return b.types
}

// RandomBundle returns the random module: next_int, next_float,
// gen_int_range, xor_shift_new, xor_shift_next and the XorShiftRng type.
// Global draws go to gen.
func RandomBundle(gen ports.GlobalGenerator) HostFuncBundle {
	return &staticBundle{
		functions: RandomFunctions(gen),
		types:     RandomTypes(),
	}
}

// compositeBundle combines multiple bundles into one.
type compositeBundle struct {
	bundles []HostFuncBundle
}

func (b *compositeBundle) Functions() []Function {
	var result []Function
	for _, bundle := range b.bundles {
		result = append(result, bundle.Functions()...)
	}
	return result
}

func (b *compositeBundle) Types() []entities.TypeDecl {
	var result []entities.TypeDecl
	for _, bundle := range b.bundles {
		result = append(result, bundle.Types()...)
	}
	return result
}

// CombineBundles merges bundles. Name clashes surface when the result is
// passed to WithBundle.
func CombineBundles(bundles ...HostFuncBundle) HostFuncBundle {
	return &compositeBundle{bundles: bundles}
}

// WithBundle registers all functions and types from a bundle.
func WithBundle(bundle HostFuncBundle) RegistryOption {
	return func(b *registryBuilder) {
		for _, fn := range bundle.Functions() {
			b.collect(b.addFunction(fn))
		}
		for _, decl := range bundle.Types() {
			b.collect(b.addType(decl))
		}
	}
}
