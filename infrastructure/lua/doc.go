// Package lua exposes the random module to Lua scripts run by Shopify/go-lua.
//
// Open registers a loader so scripts can write
//
//	local random = require "random"
//	local gen = assert(random.xor_shift_new(string.rep("\0", 16)))
//	local r = random.xor_shift_next(gen)
//	print(r.value, r.gen)
//
// XorShiftRng values are full userdata with the metatable "XorShiftRng".
// They are immutable: xor_shift_next and gen:next() return a new value and
// leave their argument alone.
//
// Lua numbers are float64. Integers outside ±2^53 come back rounded, so the
// zero-seed first draw 841419734713250627 reads as 841419734713250688 in
// r.value; r.value_str carries the exact decimal and gen:state() the exact
// generator. gen_int_range bounds must be integers in [-2^63, 2^63); other
// numbers raise an argument error instead of wrapping.
package lua
