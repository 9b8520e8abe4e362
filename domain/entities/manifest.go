package entities

import "encoding/json"

// Manifest describes everything a module exports to a host runtime.
// Hosts consume it to register native types and native functions.
type Manifest struct {
	Name        string         `json:"name" yaml:"name"`
	Version     string         `json:"version" yaml:"version"`
	Description string         `json:"description,omitempty" yaml:"description,omitempty"`
	Types       []TypeDecl     `json:"types" yaml:"types"`
	Functions   []FunctionDecl `json:"functions" yaml:"functions"`
}

// TypeDecl declares an opaque, host-visible native type.
// Native types expose no fields or methods of their own; hosts only pass
// values of the type back into the module's functions.
type TypeDecl struct {
	Name string `json:"name" yaml:"name"`
	Doc  string `json:"doc,omitempty" yaml:"doc,omitempty"`
}

// FunctionDecl declares a host-callable native function.
type FunctionDecl struct {
	// Name is the host-visible function name (e.g., "xor_shift_next").
	Name string `json:"name" yaml:"name"`

	// Doc is a one-line description.
	Doc string `json:"doc,omitempty" yaml:"doc,omitempty"`

	// Request and Response hold JSON schemas of the wire payloads, if known.
	Request  json.RawMessage `json:"request_schema,omitempty" yaml:"-"`
	Response json.RawMessage `json:"response_schema,omitempty" yaml:"-"`

	// Arity is the number of arguments the host passes. Functions that take
	// no meaningful input still declare a single unit argument.
	Arity int `json:"arity" yaml:"arity"`

	// Effectful marks functions that read or advance shared generator state.
	// Hosts must run them on every call and never cache or reorder them.
	Effectful bool `json:"effectful" yaml:"effectful"`
}

// Function returns the declaration with the given name.
func (m Manifest) Function(name string) (FunctionDecl, bool) {
	for _, fn := range m.Functions {
		if fn.Name == name {
			return fn, true
		}
	}
	return FunctionDecl{}, false
}

// HasType reports whether the manifest declares a native type with the given name.
func (m Manifest) HasType(name string) bool {
	for _, t := range m.Types {
		if t.Name == name {
			return true
		}
	}
	return false
}
