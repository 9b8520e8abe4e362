// Package rand provides the pseudorandom generators exposed to host runtimes.
//
// Two generator families live here:
//
//   - Global, a process-wide generator seeded from OS entropy. Its draws
//     (NextInt, NextFloat, GenIntRange) are effectful: every call advances
//     shared state and returns a fresh value.
//   - XorShiftRng, an explicit xorshift128 generator built from 16 seed bytes.
//     It is a plain value: Next never modifies the receiver and instead
//     returns the successor state, so replaying the same calls from the same
//     value always reproduces the same sequence.
//
// # Determinism
//
// NewXorShift reads the seed as four little-endian uint32 words. Identical
// seeds yield identical generators. The state of any generator, as returned
// by Bytes, is itself a seed that reconstructs that generator.
//
// Example:
//
//	gen, err := rand.NewXorShift(seed)
//	if err != nil {
//	    return err
//	}
//	v1, gen := gen.Next()
//	v2, gen := gen.Next()
package rand
