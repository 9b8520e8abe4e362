package hostfuncs

import (
	"context"

	"github.com/reglet-dev/reglet-rand/domain/entities"
	rerrors "github.com/reglet-dev/reglet-rand/domain/errors"
	"github.com/reglet-dev/reglet-rand/domain/ports"
	"github.com/reglet-dev/reglet-rand/rand"
)

// Host-visible function names.
const (
	FuncNextInt      = "next_int"
	FuncNextFloat    = "next_float"
	FuncGenIntRange  = "gen_int_range"
	FuncXorShiftNew  = "xor_shift_new"
	FuncXorShiftNext = "xor_shift_next"
)

// UnitRequest is the single, empty argument of the global draws.
// An empty payload, "{}" or "null" all decode to it.
type UnitRequest struct{}

// IntResponse carries a drawn integer.
type IntResponse struct {
	Value int64 `json:"value"`
}

// FloatResponse carries a drawn float in [0, 1).
type FloatResponse struct {
	Value float64 `json:"value"`
}

// GenIntRangeRequest asks for an integer in [Low, High).
type GenIntRangeRequest struct {
	Low  int64 `json:"low"`
	High int64 `json:"high"`
}

// GenIntRangeResponse contains the drawn integer or why none was drawn.
// Exactly one of the two fields is set.
type GenIntRangeResponse struct {
	// Error is set when Low >= High.
	Error *entities.ErrorDetail `json:"error,omitempty"`
	Value *int64                `json:"value,omitempty"`
}

// XorShiftNewRequest carries seed bytes, base64 encoded on the wire.
type XorShiftNewRequest struct {
	Seed []byte `json:"seed"`
}

// XorShiftNewResponse holds either the new generator or the failure.
// Exactly one of the two fields is set.
type XorShiftNewResponse struct {
	Error *entities.ErrorDetail `json:"error,omitempty"`
	Gen   *rand.XorShiftRng     `json:"gen,omitempty"`
}

// XorShiftNextRequest passes a generator value in by copy.
type XorShiftNextRequest struct {
	Gen *rand.XorShiftRng `json:"gen" validate:"required"`
}

// XorShiftNextResponse is the {value, gen} record.
type XorShiftNextResponse = rand.Draw

// PerformNextInt draws a full-range integer from gen.
func PerformNextInt(_ context.Context, gen ports.GlobalGenerator) IntResponse {
	return IntResponse{Value: gen.NextInt()}
}

// PerformNextFloat draws a float in [0, 1) from gen.
func PerformNextFloat(_ context.Context, gen ports.GlobalGenerator) FloatResponse {
	return FloatResponse{Value: gen.NextFloat()}
}

// PerformGenIntRange draws an integer in [req.Low, req.High) from gen.
func PerformGenIntRange(_ context.Context, gen ports.GlobalGenerator, req GenIntRangeRequest) GenIntRangeResponse {
	v, err := gen.GenIntRange(req.Low, req.High)
	if err != nil {
		return GenIntRangeResponse{Error: rerrors.ToErrorDetail(err)}
	}
	return GenIntRangeResponse{Value: &v}
}

// PerformXorShiftNew builds a seeded generator. It touches no global state.
func PerformXorShiftNew(_ context.Context, req XorShiftNewRequest) XorShiftNewResponse {
	gen, err := rand.NewXorShift(req.Seed)
	if err != nil {
		return XorShiftNewResponse{Error: rerrors.ToErrorDetail(err)}
	}
	return XorShiftNewResponse{Gen: &gen}
}

// PerformXorShiftNext advances a copy of req.Gen once.
func PerformXorShiftNext(_ context.Context, req XorShiftNextRequest) XorShiftNextResponse {
	return req.Gen.NextDraw()
}

// RandomTypes declares the native types of the random module.
func RandomTypes() []entities.TypeDecl {
	return []entities.TypeDecl{
		{Name: rand.XorShiftTypeName, Doc: "Seeded xorshift128 generator value; 16 bytes of state."},
	}
}

// RandomFunctions returns the five random module functions. The global
// draws use gen and are declared effectful.
func RandomFunctions(gen ports.GlobalGenerator) []Function {
	return []Function{
		NewFunction(entities.FunctionDecl{
			Name: FuncNextInt, Arity: 1, Effectful: true,
			Doc: "Draw a uniformly distributed integer over the full int64 range.",
		}, func(ctx context.Context, _ UnitRequest) IntResponse {
			return PerformNextInt(ctx, gen)
		}),
		NewFunction(entities.FunctionDecl{
			Name: FuncNextFloat, Arity: 1, Effectful: true,
			Doc: "Draw a uniformly distributed float in [0, 1).",
		}, func(ctx context.Context, _ UnitRequest) FloatResponse {
			return PerformNextFloat(ctx, gen)
		}),
		NewFunction(entities.FunctionDecl{
			Name: FuncGenIntRange, Arity: 2, Effectful: true,
			Doc: "Draw a uniformly distributed integer in [low, high); fails when low >= high.",
		}, func(ctx context.Context, req GenIntRangeRequest) GenIntRangeResponse {
			return PerformGenIntRange(ctx, gen, req)
		}),
		NewFunction(entities.FunctionDecl{
			Name: FuncXorShiftNew, Arity: 1,
			Doc: "Build an XorShiftRng from exactly 16 seed bytes.",
		}, PerformXorShiftNew),
		NewFunction(entities.FunctionDecl{
			Name: FuncXorShiftNext, Arity: 1,
			Doc: "Draw one integer from an XorShiftRng and return {value, gen}; the input is unchanged.",
		}, PerformXorShiftNext),
	}
}
