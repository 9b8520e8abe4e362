package rand

import (
	"encoding/base64"
	"encoding/binary"
	"fmt"

	rerrors "github.com/reglet-dev/reglet-rand/domain/errors"
)

// SeedSize is the exact number of seed bytes an XorShiftRng consumes.
const SeedSize = 16

// XorShiftTypeName is the host-visible name of the XorShiftRng native type.
const XorShiftTypeName = "XorShiftRng"

// zeroSeedWord replaces every state word when the seed is all zeros.
// Xorshift never leaves the zero state, so that seed would only emit zeros.
const zeroSeedWord uint32 = 0x0BAD5EED

// XorShiftRng is Marsaglia's xorshift128 generator held by value.
// The zero value is not a usable generator; build one with NewXorShift.
type XorShiftRng struct {
	x, y, z, w uint32
}

// Draw pairs a drawn value with the generator state that follows it.
type Draw struct {
	Value int64       `json:"value"`
	Gen   XorShiftRng `json:"gen"`
}

// NewXorShift builds a generator from exactly SeedSize bytes of seed material.
// Any other length fails with a *errors.SeedLengthError.
func NewXorShift(seed []byte) (XorShiftRng, error) {
	if len(seed) != SeedSize {
		return XorShiftRng{}, &rerrors.SeedLengthError{Want: SeedSize, Got: len(seed)}
	}
	var s [SeedSize]byte
	copy(s[:], seed)
	return XorShiftFromSeed(s), nil
}

// XorShiftFromSeed builds a generator from a fixed-size seed.
func XorShiftFromSeed(seed [SeedSize]byte) XorShiftRng {
	g := XorShiftRng{
		x: binary.LittleEndian.Uint32(seed[0:4]),
		y: binary.LittleEndian.Uint32(seed[4:8]),
		z: binary.LittleEndian.Uint32(seed[8:12]),
		w: binary.LittleEndian.Uint32(seed[12:16]),
	}
	if g.x|g.y|g.z|g.w == 0 {
		g = XorShiftRng{x: zeroSeedWord, y: zeroSeedWord, z: zeroSeedWord, w: zeroSeedWord}
	}
	return g
}

// step advances the state in place and returns the new w word.
// Only ever called on a copy owned by the caller.
func (g *XorShiftRng) step() uint32 {
	t := g.x ^ (g.x << 11)
	g.x, g.y, g.z = g.y, g.z, g.w
	g.w = g.w ^ (g.w >> 19) ^ (t ^ (t >> 8))
	return g.w
}

// NextUint32 returns one 32-bit output and the successor generator.
func (g XorShiftRng) NextUint32() (uint32, XorShiftRng) {
	v := g.step()
	return v, g
}

// NextUint64 returns one 64-bit output built from two steps, low word first,
// and the successor generator.
func (g XorShiftRng) NextUint64() (uint64, XorShiftRng) {
	lo := uint64(g.step())
	hi := uint64(g.step())
	return hi<<32 | lo, g
}

// Next returns a uniformly distributed int64 and the successor generator.
// The receiver is a copy: the caller's generator is left as it was.
func (g XorShiftRng) Next() (int64, XorShiftRng) {
	v, next := g.NextUint64()
	return int64(v), next //nolint:gosec // G115: full-range reinterpretation is the contract
}

// NextDraw is Next packaged as a Draw record.
func (g XorShiftRng) NextDraw() Draw {
	v, next := g.Next()
	return Draw{Value: v, Gen: next}
}

// Bytes returns the current state in seed layout.
// XorShiftFromSeed(g.Bytes()) == g for every generator built by this package.
func (g XorShiftRng) Bytes() [SeedSize]byte {
	var b [SeedSize]byte
	binary.LittleEndian.PutUint32(b[0:4], g.x)
	binary.LittleEndian.PutUint32(b[4:8], g.y)
	binary.LittleEndian.PutUint32(b[8:12], g.z)
	binary.LittleEndian.PutUint32(b[12:16], g.w)
	return b
}

// IsZero reports whether g is the unusable zero value.
func (g XorShiftRng) IsZero() bool {
	return g == XorShiftRng{}
}

// String implements fmt.Stringer without exposing more than the state bytes.
func (g XorShiftRng) String() string {
	b := g.Bytes()
	return fmt.Sprintf("%s(%x)", XorShiftTypeName, b[:])
}

// MarshalText encodes the state as standard base64 of its 16 seed bytes.
func (g XorShiftRng) MarshalText() ([]byte, error) {
	b := g.Bytes()
	out := make([]byte, base64.StdEncoding.EncodedLen(SeedSize))
	base64.StdEncoding.Encode(out, b[:])
	return out, nil
}

// UnmarshalText decodes a value produced by MarshalText. The decoded bytes
// go through NewXorShift, so the same length rule applies.
func (g *XorShiftRng) UnmarshalText(text []byte) error {
	raw := make([]byte, base64.StdEncoding.DecodedLen(len(text)))
	n, err := base64.StdEncoding.Decode(raw, text)
	if err != nil {
		return &rerrors.WireFormatError{Operation: "decode", Type: XorShiftTypeName, Err: err}
	}
	next, err := NewXorShift(raw[:n])
	if err != nil {
		return err
	}
	*g = next
	return nil
}
