package rand

import (
	"encoding/json"
	"errors"
	"testing"

	rerrors "github.com/reglet-dev/reglet-rand/domain/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countingSeed() []byte {
	seed := make([]byte, SeedSize)
	for i := range seed {
		seed[i] = byte(i + 1)
	}
	return seed
}

func TestNewXorShift_SeedLength(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		wantErr bool
	}{
		{name: "empty", size: 0, wantErr: true},
		{name: "four bytes", size: 4, wantErr: true},
		{name: "fifteen bytes", size: 15, wantErr: true},
		{name: "sixteen bytes", size: 16, wantErr: false},
		{name: "seventeen bytes", size: 17, wantErr: true},
		{name: "thirty two bytes", size: 32, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seed := make([]byte, tt.size)
			for i := range seed {
				seed[i] = 0xA5
			}

			gen, err := NewXorShift(seed)
			if !tt.wantErr {
				require.NoError(t, err)
				assert.False(t, gen.IsZero())
				return
			}

			require.Error(t, err)
			assert.True(t, gen.IsZero(), "no generator may escape a failed construction")

			var lenErr *rerrors.SeedLengthError
			require.True(t, errors.As(err, &lenErr))
			assert.Equal(t, SeedSize, lenErr.Want)
			assert.Equal(t, tt.size, lenErr.Got)
			assert.Contains(t, err.Error(), "expected seed of 16 bytes")
		})
	}
}

func TestNewXorShift_ZeroSeedVector(t *testing.T) {
	gen, err := NewXorShift(make([]byte, SeedSize))
	require.NoError(t, err)

	v0, g1 := gen.Next()
	v1, g2 := g1.Next()
	v2, _ := g2.Next()

	assert.Equal(t, int64(841419734713250627), v0)
	assert.Equal(t, int64(841433079176642404), v1)
	assert.Equal(t, int64(-5683442434462549776), v2)
}

func TestXorShift_ReferenceOutputs(t *testing.T) {
	// Published xorshift128 outputs for the seed 16, 15, ..., 1.
	seed := []byte{16, 15, 14, 13, 12, 11, 10, 9, 8, 7, 6, 5, 4, 3, 2, 1}
	gen, err := NewXorShift(seed)
	require.NoError(t, err)

	want := []uint32{2081028795, 620940381, 269070770, 16943764}
	g := gen
	for i, w := range want {
		var v uint32
		v, g = g.NextUint32()
		assert.Equal(t, w, v, "output %d", i)
	}

	u, _ := gen.NextUint64()
	assert.Equal(t, uint64(2666918631241808571), u)
}

func TestXorShift_SameSeedSameGenerator(t *testing.T) {
	a, err := NewXorShift(countingSeed())
	require.NoError(t, err)
	b, err := NewXorShift(countingSeed())
	require.NoError(t, err)

	assert.Equal(t, a, b)

	va, _ := a.Next()
	vb, _ := b.Next()
	assert.Equal(t, va, vb)
}

func TestXorShift_NextLeavesReceiverUnchanged(t *testing.T) {
	gen, err := NewXorShift(countingSeed())
	require.NoError(t, err)
	before := gen

	v1, next1 := gen.Next()
	v2, next2 := gen.Next()

	assert.Equal(t, before, gen)
	assert.Equal(t, v1, v2)
	assert.Equal(t, next1, next2)
	assert.NotEqual(t, gen, next1)
}

func TestXorShift_Replay(t *testing.T) {
	const n = 1000

	run := func() []int64 {
		gen, err := NewXorShift(countingSeed())
		require.NoError(t, err)
		out := make([]int64, n)
		for i := range out {
			out[i], gen = gen.Next()
		}
		return out
	}

	first := run()
	second := run()
	assert.Equal(t, first, second)

	// Restarting from any intermediate value replays the tail.
	gen, err := NewXorShift(countingSeed())
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		_, gen = gen.Next()
	}
	checkpoint := gen
	for i := 10; i < 20; i++ {
		var v int64
		v, gen = gen.Next()
		assert.Equal(t, first[i], v)
	}
	v, _ := checkpoint.Next()
	assert.Equal(t, first[10], v)
}

func TestXorShift_NextDraw(t *testing.T) {
	gen, err := NewXorShift(countingSeed())
	require.NoError(t, err)

	draw := gen.NextDraw()
	v, next := gen.Next()
	assert.Equal(t, v, draw.Value)
	assert.Equal(t, next, draw.Gen)
}

func TestXorShift_BytesRoundTrip(t *testing.T) {
	gen, err := NewXorShift(countingSeed())
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		_, gen = gen.Next()
	}

	assert.Equal(t, gen, XorShiftFromSeed(gen.Bytes()))

	fresh, err := NewXorShift(countingSeed())
	require.NoError(t, err)
	b := fresh.Bytes()
	assert.Equal(t, countingSeed(), b[:])
}

func TestXorShift_TextEncoding(t *testing.T) {
	zero, err := NewXorShift(make([]byte, SeedSize))
	require.NoError(t, err)

	text, err := zero.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "7V6tC+1erQvtXq0L7V6tCw==", string(text))

	var decoded XorShiftRng
	require.NoError(t, decoded.UnmarshalText([]byte("AQIDBAUGBwgJCgsMDQ4PEA==")))
	expected, err := NewXorShift(countingSeed())
	require.NoError(t, err)
	assert.Equal(t, expected, decoded)
}

func TestXorShift_UnmarshalTextErrors(t *testing.T) {
	t.Run("bad base64", func(t *testing.T) {
		var g XorShiftRng
		err := g.UnmarshalText([]byte("not base64!"))
		var wfErr *rerrors.WireFormatError
		require.True(t, errors.As(err, &wfErr))
		assert.True(t, g.IsZero())
	})

	t.Run("short state", func(t *testing.T) {
		var g XorShiftRng
		err := g.UnmarshalText([]byte("AAAAAAAAAAAAAAAAAAAA"))
		var lenErr *rerrors.SeedLengthError
		require.True(t, errors.As(err, &lenErr))
		assert.Equal(t, 15, lenErr.Got)
		assert.True(t, g.IsZero())
	})
}

func TestDraw_JSON(t *testing.T) {
	gen, err := NewXorShift(make([]byte, SeedSize))
	require.NoError(t, err)

	data, err := json.Marshal(gen.NextDraw())
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(data, &fields))
	assert.Len(t, fields, 2)
	assert.Contains(t, fields, "value")
	assert.Contains(t, fields, "gen")

	var draw Draw
	require.NoError(t, json.Unmarshal(data, &draw))
	assert.Equal(t, int64(841419734713250627), draw.Value)

	v, _ := draw.Gen.Next()
	assert.Equal(t, int64(841433079176642404), v)
}

func TestXorShift_String(t *testing.T) {
	gen, err := NewXorShift(countingSeed())
	require.NoError(t, err)
	assert.Equal(t, "XorShiftRng(0102030405060708090a0b0c0d0e0f10)", gen.String())
}
