package lua

import (
	"math"
	"strconv"

	"github.com/Shopify/go-lua"
	"github.com/reglet-dev/reglet-rand/domain/ports"
	"github.com/reglet-dev/reglet-rand/rand"
)

// DefaultModuleName is the name scripts pass to require.
const DefaultModuleName = "random"

// Config holds configuration for the Lua binding.
type Config struct {
	// ModuleName is the require name (default: "random").
	ModuleName string

	// Global also stores the module table in a global of the same name.
	Global bool
}

// Option configures the binding.
type Option func(*Config)

// WithModuleName sets the require name.
func WithModuleName(name string) Option {
	return func(c *Config) {
		c.ModuleName = name
	}
}

// WithGlobal makes the module table a global as well.
func WithGlobal() Option {
	return func(c *Config) {
		c.Global = true
	}
}

// Open registers the random module with l. Global draws go to gen. The
// package library must already be open for scripts to require it.
func Open(l *lua.State, gen ports.GlobalGenerator, opts ...Option) {
	cfg := Config{ModuleName: DefaultModuleName}
	for _, opt := range opts {
		opt(&cfg)
	}

	lua.Require(l, cfg.ModuleName, func(l *lua.State) int {
		registerXorShiftType(l)
		lua.NewLibrary(l, functions(gen))
		return 1
	}, cfg.Global)
	l.Pop(1)
}

// NewState returns a state with the standard libraries and the random
// module opened.
func NewState(gen ports.GlobalGenerator, opts ...Option) *lua.State {
	l := lua.NewState()
	lua.OpenLibraries(l)
	Open(l, gen, opts...)
	return l
}

func functions(gen ports.GlobalGenerator) []lua.RegistryFunction {
	return []lua.RegistryFunction{
		{Name: "next_int", Function: func(l *lua.State) int {
			l.PushInteger(int(gen.NextInt()))
			return 1
		}},
		{Name: "next_float", Function: func(l *lua.State) int {
			l.PushNumber(gen.NextFloat())
			return 1
		}},
		{Name: "gen_int_range", Function: func(l *lua.State) int {
			low := checkInt64(l, 1)
			high := checkInt64(l, 2)
			v, err := gen.GenIntRange(low, high)
			if err != nil {
				lua.Errorf(l, "%s", err.Error())
				return 0
			}
			l.PushInteger(int(v))
			return 1
		}},
		{Name: "xor_shift_new", Function: xorShiftNew},
		{Name: "xor_shift_next", Function: xorShiftNext},
	}
}

// checkInt64 reads argument index as an integer that int64 holds exactly.
// Lua numbers are float64, so 2^63 and above, NaN, infinities and
// fractions are argument errors rather than wrapped or truncated values.
func checkInt64(l *lua.State, index int) int64 {
	f := lua.CheckNumber(l, index)
	switch {
	case math.IsNaN(f) || math.IsInf(f, 0):
		lua.ArgumentError(l, index, "number is not finite")
	case f < math.MinInt64 || f >= 1<<63:
		lua.ArgumentError(l, index, "number is outside the int64 range")
	case f != math.Trunc(f):
		lua.ArgumentError(l, index, "number has no integer representation")
	}
	return int64(f)
}

// xorShiftNew takes the seed as a Lua string of raw bytes. On a bad seed it
// returns nil and the message so callers can assert() or branch.
func xorShiftNew(l *lua.State) int {
	seed := lua.CheckString(l, 1)
	gen, err := rand.NewXorShift([]byte(seed))
	if err != nil {
		l.PushNil()
		l.PushString(err.Error())
		return 2
	}
	pushXorShift(l, gen)
	return 1
}

// xorShiftNext returns the table {value = n, value_str = "n", gen = successor}.
// value is a Lua number and loses low bits beyond 2^53; value_str is the
// exact decimal.
func xorShiftNext(l *lua.State) int {
	draw := checkXorShift(l, 1).NextDraw()
	l.NewTable()
	l.PushInteger(int(draw.Value))
	l.SetField(-2, "value")
	l.PushString(strconv.FormatInt(draw.Value, 10))
	l.SetField(-2, "value_str")
	pushXorShift(l, draw.Gen)
	l.SetField(-2, "gen")
	return 1
}
