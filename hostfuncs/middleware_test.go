package hostfuncs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/reglet-dev/reglet-rand/domain/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPanicRecoveryMiddleware(t *testing.T) {
	panicHandler := func(ctx context.Context, payload []byte) ([]byte, error) {
		panic("test panic")
	}

	wrapped := PanicRecoveryMiddleware()(panicHandler)

	// Should not panic, should return structured error
	resp, err := wrapped(context.Background(), []byte("{}"))
	require.NoError(t, err)
	require.NotNil(t, resp)

	var errResp ErrorResponse
	require.NoError(t, json.Unmarshal(resp, &errResp))
	assert.Equal(t, "INTERNAL_ERROR", errResp.Error)
	assert.Equal(t, 500, errResp.Code)
	assert.Contains(t, errResp.Message, "test panic")
}

func TestPanicRecoveryMiddleware_NoPanic(t *testing.T) {
	normalHandler := func(ctx context.Context, payload []byte) ([]byte, error) {
		return []byte(`{"value":1}`), nil
	}

	resp, err := PanicRecoveryMiddleware()(normalHandler)(context.Background(), []byte("{}"))
	require.NoError(t, err)
	assert.Equal(t, `{"value":1}`, string(resp))
}

func TestLoggingMiddleware(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	ok := func(ctx context.Context, payload []byte) ([]byte, error) {
		return []byte(`{}`), nil
	}
	failing := func(ctx context.Context, payload []byte) ([]byte, error) {
		return nil, errors.New("marshal failed")
	}

	reg, err := NewRegistry(
		WithMiddleware(LoggingMiddleware(logger)),
		WithFunction(
			Function{Decl: entities.FunctionDecl{Name: "next_int", Arity: 1, Effectful: true}, Handler: ok},
			Function{Decl: entities.FunctionDecl{Name: "broken", Arity: 1}, Handler: failing},
		),
	)
	require.NoError(t, err)

	_, err = reg.Invoke(context.Background(), "next_int", nil)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "function=next_int")
	assert.Contains(t, buf.String(), "effectful=true")

	buf.Reset()
	_, err = reg.Invoke(context.Background(), "broken", nil)
	require.Error(t, err)
	assert.Contains(t, buf.String(), "level=ERROR")
	assert.Contains(t, buf.String(), "marshal failed")
}
