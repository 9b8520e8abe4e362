// Package host runs WASM guests against the random host module.
//
// It owns a wazero runtime with WASI, the "reglet_host" module built from a
// hostfuncs.HandlerRegistry and the log_message hook, and the low-level ABI
// for calling guest exports (memory allocation, ptr+len packing).
package host
