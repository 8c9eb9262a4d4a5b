// Package config loads the engine's configuration from an HCL file and
// fills in defaults for anything omitted. The file names the cross
// toolchain binaries, the workspace directory layout, per-step timeouts,
// and the default target chip; every field is optional so a missing or
// empty file yields a fully usable default configuration.
package config
