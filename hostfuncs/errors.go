package hostfuncs

import (
	"encoding/json"
	"fmt"

	"github.com/agnivade/levenshtein"
)

// ErrorResponse represents a structured error that can be returned as JSON to guests.
// This ensures guests receive consistent, parseable errors instead of causing WASM traps.
// Domain failures (bad seed, empty range) travel inside each response's
// own error field instead; ErrorResponse covers dispatch problems.
type ErrorResponse struct {
	// Error is a machine-readable error type identifier (e.g., "VALIDATION_ERROR", "INTERNAL_ERROR").
	Error string `json:"error"`

	// Message is a human-readable error description.
	Message string `json:"message"`

	// Code is a numeric error code (e.g., 400, 500).
	Code int `json:"code"`
}

// ToJSON serializes the ErrorResponse to JSON bytes.
// Returns nil if serialization fails (which should never happen for this simple type).
func (e ErrorResponse) ToJSON() []byte {
	data, err := json.Marshal(e)
	if err != nil {
		return nil
	}
	return data
}

// maxSuggestionDistance bounds how far a typo may be from a known name.
const maxSuggestionDistance = 3

// NewValidationError creates an error response for bad input (e.g., malformed JSON).
func NewValidationError(message string) ErrorResponse {
	return ErrorResponse{
		Error:   "VALIDATION_ERROR",
		Message: message,
		Code:    400,
	}
}

// NewNotFoundError creates an error response for unknown function names.
// When one of known is close to name, the message suggests it.
func NewNotFoundError(name string, known ...string) ErrorResponse {
	msg := "unknown host function: " + name
	if s := closestName(name, known); s != "" {
		msg = fmt.Sprintf("%s (did you mean %q?)", msg, s)
	}
	return ErrorResponse{
		Error:   "NOT_FOUND",
		Message: msg,
		Code:    404,
	}
}

// NewInternalError creates an error response for unexpected failures.
func NewInternalError(message string) ErrorResponse {
	return ErrorResponse{
		Error:   "INTERNAL_ERROR",
		Message: message,
		Code:    500,
	}
}

// NewPanicError creates an error response for recovered panics.
func NewPanicError(panicValue any) ErrorResponse {
	var msg string
	if err, ok := panicValue.(error); ok {
		msg = err.Error()
	} else if s, ok := panicValue.(string); ok {
		msg = s
	} else {
		msg = "panic recovered"
	}
	return ErrorResponse{
		Error:   "INTERNAL_ERROR",
		Message: "panic: " + msg,
		Code:    500,
	}
}

// closestName returns the known name nearest to name, or "" if none is
// within maxSuggestionDistance. Ties go to the earlier entry.
func closestName(name string, known []string) string {
	best := ""
	bestDist := maxSuggestionDistance + 1
	for _, candidate := range known {
		dist := levenshtein.ComputeDistance(name, candidate)
		if dist < bestDist {
			best, bestDist = candidate, dist
		}
	}
	return best
}
