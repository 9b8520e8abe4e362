// Package schema provides JSON schema generation for host function payloads.
package schema

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/invopop/jsonschema"
	"github.com/reglet-dev/reglet-rand/domain/entities"
	rerrors "github.com/reglet-dev/reglet-rand/domain/errors"
	"github.com/reglet-dev/reglet-rand/hostfuncs"
	"github.com/reglet-dev/reglet-rand/rand"
)

var xorShiftType = reflect.TypeOf(rand.XorShiftRng{})

// newReflector returns a reflector that knows the opaque native types.
func newReflector() *jsonschema.Reflector {
	return &jsonschema.Reflector{
		ExpandedStruct: true, // Expand struct definitions inline
		DoNotReference: true,
		Mapper:         mapNativeTypes,
	}
}

// mapNativeTypes describes XorShiftRng as the base64 string it encodes to.
func mapNativeTypes(t reflect.Type) *jsonschema.Schema {
	if t != xorShiftType {
		return nil
	}
	return &jsonschema.Schema{
		Type:            "string",
		ContentEncoding: "base64",
		Title:           rand.XorShiftTypeName,
		Description:     "Opaque generator state (16 bytes).",
	}
}

// GenerateSchema creates a JSON schema from a Go value.
// It uses the `invopop/jsonschema` library to reflect on the type
// and generate a standard JSON Schema (Draft 2020-12).
func GenerateSchema(v interface{}) ([]byte, error) {
	schema := newReflector().Reflect(v)

	jsonBytes, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, &rerrors.SchemaError{Type: fmt.Sprintf("%T", v), Err: err}
	}

	return jsonBytes, nil
}

// Manifest returns the registry's manifest with request and response
// schemas filled in for every typed function.
func Manifest(registry *hostfuncs.HandlerRegistry) (entities.Manifest, error) {
	m := registry.Manifest()
	for i, fn := range registry.Functions() {
		if fn.Request != nil {
			req, err := GenerateSchema(fn.Request)
			if err != nil {
				return entities.Manifest{}, fmt.Errorf("request schema for %s: %w", fn.Decl.Name, err)
			}
			m.Functions[i].Request = req
		}
		if fn.Response != nil {
			resp, err := GenerateSchema(fn.Response)
			if err != nil {
				return entities.Manifest{}, fmt.Errorf("response schema for %s: %w", fn.Decl.Name, err)
			}
			m.Functions[i].Response = resp
		}
	}
	return m, nil
}
