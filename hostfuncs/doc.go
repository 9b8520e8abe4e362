// Package hostfuncs exposes the random module as named host functions.
//
// Each function is a ByteHandler that takes a JSON request and returns a JSON
// response, plus an entities.FunctionDecl carrying its arity and whether it
// is effectful. Nothing here depends on a particular runtime: the wazero and
// HTTP adapters both dispatch through a HandlerRegistry.
package hostfuncs
