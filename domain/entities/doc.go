// Package entities provides core domain entities for the random module.
// These are the host-neutral types every adapter (wazero, Lua, HTTP) speaks:
// structured errors and the module manifest that describes the exported
// native types and functions.
package entities
