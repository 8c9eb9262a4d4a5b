// Package toolchain is the engine's boundary with the external cross
// toolchain (compiler, archiver, object-copy tool). It owns child-process
// invocation with bounded timeouts, environment probing, the CPU/FPU flag
// derivation from a chip spec, and the filtering of toolchain diagnostics
// down to the lines a caller can act on.
//
// All invocations go through the Runner interface so higher layers can be
// tested without a cross compiler installed.
package toolchain
