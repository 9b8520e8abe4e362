// Package ports defines the interfaces host adapters depend on: the global
// generator they draw from and the manifest parser. A process-wide generator
// can be swapped for a reproducible one in tests and replays.
package ports
