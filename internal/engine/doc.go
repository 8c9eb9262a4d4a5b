// Package engine composes chip resolution, code generation, HAL discovery
// and the incremental build cache into the set-chip/compile flow the rest
// of the system consumes. The engine owns the mutable build session; it is
// synchronous and must not be driven by more than one caller at a time,
// since the build directory and the per-family archive are mutated in
// place.
package engine
