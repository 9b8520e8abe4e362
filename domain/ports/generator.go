package ports

// GlobalGenerator is the effectful, process-wide source behind next_int,
// next_float and gen_int_range. Every call advances shared state.
type GlobalGenerator interface {
	// NextInt draws a uniformly distributed int64 over the full range.
	NextInt() int64

	// NextFloat draws a uniformly distributed float64 in [0, 1).
	NextFloat() float64

	// GenIntRange draws a uniformly distributed int64 in [low, high).
	// It fails without drawing when low >= high.
	GenIntRange(low, high int64) (int64, error)
}
