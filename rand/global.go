package rand

import (
	mrand "math/rand/v2"
	"sync"

	rerrors "github.com/reglet-dev/reglet-rand/domain/errors"
)

// Global is a process-wide generator for effectful draws.
//
// The zero value and Default draw from the Go runtime's per-thread ChaCha8
// state, which is seeded from OS entropy on first use and needs no locking.
// NewSeededGlobal returns a reproducible instance guarded by a mutex.
type Global struct {
	mu  sync.Mutex
	rng *mrand.Rand // nil uses the runtime's per-thread generator
}

// Default is the process-wide generator used by the package-level draws.
var Default = &Global{}

// NewSeededGlobal returns a Global whose draw sequence is fixed by seed.
func NewSeededGlobal(seed [32]byte) *Global {
	return &Global{rng: mrand.New(mrand.NewChaCha8(seed))}
}

// Seeded reports whether g replays a fixed sequence.
func (g *Global) Seeded() bool {
	return g.rng != nil
}

func (g *Global) uint64() uint64 {
	if g.rng == nil {
		return mrand.Uint64()
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rng.Uint64()
}

// uint64n returns a uniform value in [0, n). n must be non-zero.
func (g *Global) uint64n(n uint64) uint64 {
	if g.rng == nil {
		return mrand.Uint64N(n)
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rng.Uint64N(n)
}

// NextInt draws a uniformly distributed int64 spanning the full range.
func (g *Global) NextInt() int64 {
	return int64(g.uint64()) //nolint:gosec // G115: full-range reinterpretation is the contract
}

// NextFloat draws a uniformly distributed float64 in [0, 1).
func (g *Global) NextFloat() float64 {
	return float64(g.uint64()<<11>>11) / (1 << 53)
}

// GenIntRange draws a uniformly distributed int64 in [low, high).
// When low >= high it returns a *errors.RangeError and draws nothing.
func (g *Global) GenIntRange(low, high int64) (int64, error) {
	if low >= high {
		return 0, &rerrors.RangeError{Low: low, High: high}
	}
	// The span can exceed MaxInt64, so work in uint64 and rely on wraparound.
	span := uint64(high) - uint64(low) //nolint:gosec // G115: modular arithmetic
	return int64(uint64(low) + g.uint64n(span)), nil //nolint:gosec // G115: result lies in [low, high)
}

// NextInt draws from Default.
func NextInt() int64 {
	return Default.NextInt()
}

// NextFloat draws from Default.
func NextFloat() float64 {
	return Default.NextFloat()
}

// GenIntRange draws from Default.
func GenIntRange(low, high int64) (int64, error) {
	return Default.GenIntRange(low, high)
}
