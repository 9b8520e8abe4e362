package hostfuncs

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/reglet-dev/reglet-rand/rand"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedGenerator returns canned values and counts calls.
type fixedGenerator struct {
	calls int
}

func (g *fixedGenerator) NextInt() int64 {
	g.calls++
	return -7
}

func (g *fixedGenerator) NextFloat() float64 {
	g.calls++
	return 0.25
}

func (g *fixedGenerator) GenIntRange(low, high int64) (int64, error) {
	g.calls++
	return rand.NewSeededGlobal([32]byte{}).GenIntRange(low, high)
}

func newRandomRegistry(t *testing.T, gen *fixedGenerator) *HandlerRegistry {
	t.Helper()
	reg, err := NewRegistry(
		WithMiddleware(PanicRecoveryMiddleware()),
		WithBundle(RandomBundle(gen)),
	)
	require.NoError(t, err)
	return reg
}

func invoke(t *testing.T, reg *HandlerRegistry, name, payload string, out any) {
	t.Helper()
	resp, err := reg.Invoke(context.Background(), name, []byte(payload))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(resp, out), string(resp))
}

func TestRandom_GlobalDrawsAreNotCached(t *testing.T) {
	gen := &fixedGenerator{}
	reg := newRandomRegistry(t, gen)

	var intResp IntResponse
	invoke(t, reg, FuncNextInt, "", &intResp)
	invoke(t, reg, FuncNextInt, "{}", &intResp)
	assert.Equal(t, int64(-7), intResp.Value)

	var floatResp FloatResponse
	invoke(t, reg, FuncNextFloat, "null", &floatResp)
	assert.Equal(t, 0.25, floatResp.Value)

	assert.Equal(t, 3, gen.calls)
}

func TestRandom_GenIntRange(t *testing.T) {
	reg := newRandomRegistry(t, &fixedGenerator{})

	t.Run("in range", func(t *testing.T) {
		for i := 0; i < 100; i++ {
			var resp GenIntRangeResponse
			invoke(t, reg, FuncGenIntRange, `{"low":-5,"high":5}`, &resp)
			require.Nil(t, resp.Error)
			require.NotNil(t, resp.Value)
			assert.GreaterOrEqual(t, *resp.Value, int64(-5))
			assert.Less(t, *resp.Value, int64(5))
		}
	})

	t.Run("empty range fails", func(t *testing.T) {
		var resp GenIntRangeResponse
		invoke(t, reg, FuncGenIntRange, `{"low":5,"high":5}`, &resp)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "empty_range", resp.Error.Code)
		assert.Equal(t, "validation", resp.Error.Type)
		assert.Nil(t, resp.Value)
	})

	t.Run("failed draw carries no value", func(t *testing.T) {
		out, err := reg.Invoke(context.Background(), FuncGenIntRange, []byte(`{"low":5,"high":5}`))
		require.NoError(t, err)

		var raw map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(out, &raw))
		assert.Contains(t, raw, "error")
		assert.NotContains(t, raw, "value")
	})

	t.Run("zero is still sent", func(t *testing.T) {
		out, err := reg.Invoke(context.Background(), FuncGenIntRange, []byte(`{"low":0,"high":1}`))
		require.NoError(t, err)
		assert.JSONEq(t, `{"value":0}`, string(out))
	})
}

func TestRandom_XorShiftNew(t *testing.T) {
	reg := newRandomRegistry(t, &fixedGenerator{})

	t.Run("sixteen bytes", func(t *testing.T) {
		var resp XorShiftNewResponse
		invoke(t, reg, FuncXorShiftNew, `{"seed":"AAAAAAAAAAAAAAAAAAAAAA=="}`, &resp)
		require.Nil(t, resp.Error)
		require.NotNil(t, resp.Gen)

		want, err := rand.NewXorShift(make([]byte, 16))
		require.NoError(t, err)
		assert.Equal(t, want, *resp.Gen)
	})

	for _, tc := range []struct {
		name    string
		payload string
		got     float64
	}{
		{name: "fifteen bytes", payload: `{"seed":"AAAAAAAAAAAAAAAAAAAA"}`, got: 15},
		{name: "seventeen bytes", payload: `{"seed":"AAAAAAAAAAAAAAAAAAAAAAA="}`, got: 17},
		{name: "missing seed", payload: `{}`, got: 0},
	} {
		t.Run(tc.name, func(t *testing.T) {
			var resp XorShiftNewResponse
			invoke(t, reg, FuncXorShiftNew, tc.payload, &resp)
			assert.Nil(t, resp.Gen)
			require.NotNil(t, resp.Error)
			assert.Equal(t, "seed_length", resp.Error.Code)
			assert.Contains(t, resp.Error.Message, "expected seed of 16 bytes")
			assert.Equal(t, tc.got, resp.Error.Details["got"])
		})
	}
}

func TestRandom_XorShiftNext(t *testing.T) {
	reg := newRandomRegistry(t, &fixedGenerator{})

	var created XorShiftNewResponse
	invoke(t, reg, FuncXorShiftNew, `{"seed":"AAAAAAAAAAAAAAAAAAAAAA=="}`, &created)
	require.NotNil(t, created.Gen)

	req, err := json.Marshal(XorShiftNextRequest{Gen: created.Gen})
	require.NoError(t, err)

	var first, again XorShiftNextResponse
	invoke(t, reg, FuncXorShiftNext, string(req), &first)
	invoke(t, reg, FuncXorShiftNext, string(req), &again)

	assert.Equal(t, int64(841419734713250627), first.Value)
	assert.Equal(t, first, again, "same input generator must give the same draw")

	next, err := json.Marshal(XorShiftNextRequest{Gen: &first.Gen})
	require.NoError(t, err)
	var second XorShiftNextResponse
	invoke(t, reg, FuncXorShiftNext, string(next), &second)
	assert.Equal(t, int64(841433079176642404), second.Value)
}

func TestRandom_XorShiftNext_InvalidGenerator(t *testing.T) {
	reg := newRandomRegistry(t, &fixedGenerator{})

	for _, payload := range []string{`{}`, `{"gen":"AAAA"}`, `{"gen":"!!"}`} {
		var errResp ErrorResponse
		invoke(t, reg, FuncXorShiftNext, payload, &errResp)
		assert.Equal(t, "VALIDATION_ERROR", errResp.Error, payload)
	}
}
