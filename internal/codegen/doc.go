// Package codegen synthesizes the two per-chip source inputs the external
// toolchain needs: a linker script sized from the part's flash/RAM, and a
// GNU assembly startup unit carrying the interrupt vector table and weak
// default handlers.
//
// Both generators are pure functions of their inputs. Symbol names in the
// output (_estack, _sdata, _edata, _sbss, _ebss, _etext) are a contract:
// the startup unit and user C code reference them by name, so the linker
// script must keep them byte-exact and the section ordering fixed.
package codegen
