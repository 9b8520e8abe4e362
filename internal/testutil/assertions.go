// Package testutil provides common test helpers: JSON assertions and a
// tiny hand-assembled wasm guest for exercising host functions.
package testutil

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AssertJSONEqual compares two JSON strings for equality, ignoring formatting
func AssertJSONEqual(t *testing.T, expected, actual string, msgAndArgs ...interface{}) {
	t.Helper()

	var expectedJSON, actualJSON interface{}
	require.NoError(t, json.Unmarshal([]byte(expected), &expectedJSON), "expected JSON is invalid")
	require.NoError(t, json.Unmarshal([]byte(actual), &actualJSON), "actual JSON is invalid")

	assert.Equal(t, expectedJSON, actualJSON, msgAndArgs...)
}

// RequireDispatchError asserts data is a dispatch error body
// ({"error": "...", "message": "...", "code": n}) of the given kind and
// returns its message.
func RequireDispatchError(t *testing.T, data []byte, kind string) string {
	t.Helper()

	var resp struct {
		Error   string `json:"error"`
		Message string `json:"message"`
		Code    int    `json:"code"`
	}
	require.NoError(t, json.Unmarshal(data, &resp), "response is not a dispatch error: %s", data)
	require.Equal(t, kind, resp.Error, "unexpected error kind in %s", data)
	return resp.Message
}

// AssertInRange asserts low <= v < high.
func AssertInRange(t *testing.T, v, low, high int64, msgAndArgs ...interface{}) bool {
	t.Helper()
	return assert.GreaterOrEqual(t, v, low, msgAndArgs...) && assert.Less(t, v, high, msgAndArgs...)
}
