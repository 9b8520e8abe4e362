package hostfuncs

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorResponse_ToJSON(t *testing.T) {
	tests := []struct {
		name     string
		err      ErrorResponse
		expected string
	}{
		{
			name:     "validation error",
			err:      NewValidationError("invalid JSON"),
			expected: `{"error":"VALIDATION_ERROR","message":"invalid JSON","code":400}`,
		},
		{
			name:     "not found",
			err:      NewNotFoundError("foo"),
			expected: `{"error":"NOT_FOUND","message":"unknown host function: foo","code":404}`,
		},
		{
			name:     "internal error",
			err:      NewInternalError("boom"),
			expected: `{"error":"INTERNAL_ERROR","message":"boom","code":500}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.JSONEq(t, tt.expected, string(tt.err.ToJSON()))
		})
	}
}

func TestNewNotFoundError_Suggestion(t *testing.T) {
	known := []string{"gen_int_range", "next_float", "next_int", "xor_shift_new", "xor_shift_next"}

	tests := []struct {
		name    string
		want    string
		missing bool
	}{
		{name: "next_in", want: `did you mean "next_int"?`},
		{name: "xorshift_next", want: `did you mean "xor_shift_next"?`},
		{name: "gen_int_rnage", want: `did you mean "gen_int_range"?`},
		{name: "shuffle", missing: true},
		{name: "", missing: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := NewNotFoundError(tt.name, known...)
			assert.Equal(t, 404, resp.Code)
			if tt.missing {
				assert.NotContains(t, resp.Message, "did you mean")
				return
			}
			assert.Contains(t, resp.Message, tt.want)
		})
	}
}

func TestNewPanicError(t *testing.T) {
	assert.Equal(t, "panic: boom", NewPanicError("boom").Message)
	assert.Equal(t, "panic: wrapped", NewPanicError(errors.New("wrapped")).Message)
	assert.Equal(t, "panic: panic recovered", NewPanicError(42).Message)
}
