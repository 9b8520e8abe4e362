package guest

import (
	"context"
	"errors"
	"testing"

	"github.com/reglet-dev/reglet-rand/domain/entities"
	rerrors "github.com/reglet-dev/reglet-rand/domain/errors"
	"github.com/reglet-dev/reglet-rand/hostfuncs"
	"github.com/reglet-dev/reglet-rand/internal/testutil"
	"github.com/reglet-dev/reglet-rand/rand"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	registry, err := hostfuncs.NewRegistry(
		hostfuncs.WithBundle(hostfuncs.RandomBundle(rand.NewSeededGlobal([32]byte{4}))),
	)
	require.NoError(t, err)
	return NewClient(NewLocalTransport(context.Background(), registry))
}

func TestClient_XorShift(t *testing.T) {
	c := newTestClient(t)

	gen, err := c.XorShiftNew(make([]byte, 16))
	require.NoError(t, err)

	first, err := c.XorShiftNext(gen)
	require.NoError(t, err)
	assert.Equal(t, int64(841419734713250627), first.Value)

	second, err := c.XorShiftNext(first.Gen)
	require.NoError(t, err)
	assert.Equal(t, int64(841433079176642404), second.Value)

	// Host and local stepping agree.
	v, next := gen.Next()
	assert.Equal(t, first.Value, v)
	assert.Equal(t, first.Gen, next)
}

func TestClient_XorShiftNew_BadSeed(t *testing.T) {
	c := newTestClient(t)

	_, err := c.XorShiftNew([]byte{1, 2, 3})
	require.Error(t, err)

	var detail *entities.ErrorDetail
	require.True(t, errors.As(err, &detail))
	assert.Equal(t, "seed_length", detail.Code)
}

func TestClient_GenIntRange(t *testing.T) {
	c := newTestClient(t)

	for i := 0; i < 1000; i++ {
		v, err := c.GenIntRange(-2, 2)
		require.NoError(t, err)
		testutil.AssertInRange(t, v, -2, 2)
	}

	_, err := c.GenIntRange(2, -2)
	var detail *entities.ErrorDetail
	require.True(t, errors.As(err, &detail))
	assert.Equal(t, "empty_range", detail.Code)
}

func TestClient_GenIntRange_MissingValue(t *testing.T) {
	c := NewClient(stubTransport{resp: []byte(`{}`)})

	_, err := c.GenIntRange(0, 10)
	var wfErr *rerrors.WireFormatError
	require.True(t, errors.As(err, &wfErr))
	assert.ErrorIs(t, err, errMissingValue)
}

func TestClient_GlobalDraws(t *testing.T) {
	c := newTestClient(t)
	want := rand.NewSeededGlobal([32]byte{4})

	n, err := c.NextInt()
	require.NoError(t, err)
	assert.Equal(t, want.NextInt(), n)

	f, err := c.NextFloat()
	require.NoError(t, err)
	assert.Equal(t, want.NextFloat(), f)
}

type stubTransport struct {
	resp []byte
	err  error
}

func (s stubTransport) Call(string, []byte) ([]byte, error) {
	return s.resp, s.err
}

func TestClient_TransportFailures(t *testing.T) {
	tests := []struct {
		name    string
		stub    stubTransport
		wantErr string
	}{
		{name: "transport error", stub: stubTransport{err: errors.New("trap")}, wantErr: "call next_int: trap"},
		{name: "no data", stub: stubTransport{}, wantErr: "host returned no data"},
		{name: "garbage", stub: stubTransport{resp: []byte("{")}, wantErr: "failed to unmarshal response"},
		{name: "dispatch error", stub: stubTransport{resp: hostfuncs.NewNotFoundError("next_int").ToJSON()}, wantErr: "NOT_FOUND: unknown host function"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewClient(tt.stub).NextInt()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDispatchError(t *testing.T) {
	hostErr := dispatchError(hostfuncs.NewValidationError("bad").ToJSON())
	require.NotNil(t, hostErr)
	assert.Equal(t, "VALIDATION_ERROR", hostErr.Kind)
	assert.Equal(t, 400, hostErr.Code)

	assert.Nil(t, dispatchError([]byte(`{"error":{"code":"empty_range"},"value":0}`)))
	assert.Nil(t, dispatchError([]byte(`{"value":1}`)))
}
