package lua

import (
	"github.com/Shopify/go-lua"
	"github.com/reglet-dev/reglet-rand/rand"
)

var xorShiftMethods = []lua.RegistryFunction{
	{Name: "next", Function: xorShiftNext},
	{Name: "state", Function: xorShiftState},
}

var xorShiftMetaMethods = []lua.RegistryFunction{
	{Name: "__tostring", Function: xorShiftToString},
	{Name: "__eq", Function: xorShiftEqual},
}

// registerXorShiftType creates the XorShiftRng metatable once per state.
func registerXorShiftType(l *lua.State) {
	if lua.NewMetaTable(l, rand.XorShiftTypeName) {
		lua.SetFunctions(l, xorShiftMetaMethods, 0)
		l.NewTable()
		lua.SetFunctions(l, xorShiftMethods, 0)
		l.SetField(-2, "__index")
	}
	l.Pop(1)
}

func pushXorShift(l *lua.State, gen rand.XorShiftRng) {
	l.PushUserData(gen)
	lua.SetMetaTableNamed(l, rand.XorShiftTypeName)
}

func checkXorShift(l *lua.State, index int) rand.XorShiftRng {
	gen, ok := lua.CheckUserData(l, index, rand.XorShiftTypeName).(rand.XorShiftRng)
	if !ok {
		lua.ArgumentError(l, index, "XorShiftRng expected")
	}
	return gen
}

// xorShiftState returns the base64 state, which round-trips through
// rand.XorShiftRng.UnmarshalText.
func xorShiftState(l *lua.State) int {
	text, _ := checkXorShift(l, 1).MarshalText()
	l.PushString(string(text))
	return 1
}

func xorShiftToString(l *lua.State) int {
	l.PushString(checkXorShift(l, 1).String())
	return 1
}

func xorShiftEqual(l *lua.State) int {
	a, okA := lua.TestUserData(l, 1, rand.XorShiftTypeName).(rand.XorShiftRng)
	b, okB := lua.TestUserData(l, 2, rand.XorShiftTypeName).(rand.XorShiftRng)
	l.PushBoolean(okA && okB && a == b)
	return 1
}
