// Package wazero registers the random module's host functions with a wazero runtime.
//
// Every function in a hostfuncs.HandlerRegistry is exported from a host module
// with the signature (i64) -> i64. The argument packs the guest pointer and
// length of a JSON request, upper 32 bits pointer and lower 32 bits length;
// the result packs the JSON response the same way, written into memory the
// guest hands out from its "allocate" export. An empty request is the unit
// argument of next_int and next_float.
//
// # Basic Usage
//
//	registry, err := hostfuncs.NewRegistry(
//	    hostfuncs.WithBundle(hostfuncs.RandomBundle(rand.Default)),
//	)
//	if err != nil {
//	    return err
//	}
//
//	runtime := wazero.NewRuntime(ctx)
//	err = wazeroadapter.RegisterWithRuntime(ctx, runtime, registry,
//	    wazeroadapter.WithModuleName("reglet_host"),
//	    wazeroadapter.WithCustomHandler(wazeroadapter.LogMessageHandler(logger)),
//	)
package wazero
