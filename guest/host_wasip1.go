//go:build wasip1

package guest

import (
	"fmt"
	"log/slog"

	"github.com/reglet-dev/reglet-rand/internal/abi"
)

//go:wasmimport reglet_host next_int
func hostNextInt(packed uint64) uint64

//go:wasmimport reglet_host next_float
func hostNextFloat(packed uint64) uint64

//go:wasmimport reglet_host gen_int_range
func hostGenIntRange(packed uint64) uint64

//go:wasmimport reglet_host xor_shift_new
func hostXorShiftNew(packed uint64) uint64

//go:wasmimport reglet_host xor_shift_next
func hostXorShiftNext(packed uint64) uint64

//go:wasmimport reglet_host log_message
func hostLogMessage(packed uint64)

var hostFuncs = map[string]func(uint64) uint64{
	"next_int":       hostNextInt,
	"next_float":     hostNextFloat,
	"gen_int_range":  hostGenIntRange,
	"xor_shift_new":  hostXorShiftNew,
	"xor_shift_next": hostXorShiftNext,
}

type hostTransport struct{}

// HostTransport calls the reglet_host imports.
func HostTransport() Transport {
	return hostTransport{}
}

// Host returns a client for the reglet_host imports.
func Host() *Client {
	return NewClient(HostTransport())
}

func (hostTransport) Call(function string, payload []byte) ([]byte, error) {
	fn, ok := hostFuncs[function]
	if !ok {
		return nil, fmt.Errorf("no host import for %q", function)
	}

	req := abi.PtrFromBytes(payload)
	defer abi.DeallocatePacked(req)

	resp := fn(req)
	if resp == 0 {
		return nil, nil
	}
	data := abi.BytesFromPtr(resp)
	abi.DeallocatePacked(resp)
	return data, nil
}

// HostLogHandler returns a slog.Handler writing to the host's log_message hook.
func HostLogHandler(level slog.Leveler) *LogHandler {
	return NewLogHandler(func(data []byte) {
		packed := abi.PtrFromBytes(data)
		hostLogMessage(packed)
		abi.DeallocatePacked(packed)
	}, level)
}
