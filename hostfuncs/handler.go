package hostfuncs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/go-playground/validator/v10"
)

// HostFunc is a generic function signature for host functions.
// It accepts a context and a typed request, and returns a typed response.
type HostFunc[Req any, Resp any] func(context.Context, Req) Resp

// ByteHandler is a function that accepts raw bytes (JSON) and returns raw bytes (JSON).
// This is the common interface that WASM runtimes can easily use.
type ByteHandler func(context.Context, []byte) ([]byte, error)

// validate is a package-level singleton; building a validator is expensive.
var validate = validator.New()

// NewJSONHandler wraps a typed HostFunc into a ByteHandler.
// It decodes and validates the request and encodes the response.
//
// An empty payload decodes as the zero request, which is how hosts pass the
// unit argument of functions such as next_int. Malformed or invalid requests
// produce a VALIDATION_ERROR response rather than a Go error.
func NewJSONHandler[Req any, Resp any](fn HostFunc[Req, Resp]) ByteHandler {
	return func(ctx context.Context, payload []byte) ([]byte, error) {
		var req Req
		if len(bytes.TrimSpace(payload)) > 0 {
			if err := json.Unmarshal(payload, &req); err != nil {
				return NewValidationError(fmt.Sprintf("failed to unmarshal request: %v", err)).ToJSON(), nil
			}
		}

		if reflect.ValueOf(req).Kind() == reflect.Struct {
			if err := validate.Struct(req); err != nil {
				return NewValidationError(fmt.Sprintf("invalid request: %v", err)).ToJSON(), nil
			}
		}

		resp := fn(ctx, req)

		respBytes, err := json.Marshal(resp)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response: %w", err)
		}

		return respBytes, nil
	}
}
