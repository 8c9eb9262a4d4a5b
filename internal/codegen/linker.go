package codegen

import (
	"fmt"
	"strings"
)

// Memory-map origins shared by every supported part.
const (
	FlashOrigin = 0x08000000
	RAMOrigin   = 0x20000000
)

// Fixed heap/stack reservations checked by the linker at the end of RAM.
const (
	minHeapSize  = 0x200
	minStackSize = 0x400
)

// LinkerScript emits a GNU ld script for a part with the given flash and
// RAM sizes. It is a pure function of the two sizes; section names and
// ordering never vary because the startup unit and user code reference the
// boundary symbols by name.
func LinkerScript(flashKB, ramKB uint) string {
	var b strings.Builder
	fmt.Fprintf(&b, "MEMORY {\n")
	fmt.Fprintf(&b, "  FLASH (rx)  : ORIGIN = 0x%08X, LENGTH = %d\n", FlashOrigin, flashKB*1024)
	fmt.Fprintf(&b, "  RAM   (xrw) : ORIGIN = 0x%08X, LENGTH = %d\n", RAMOrigin, ramKB*1024)
	fmt.Fprintf(&b, "}\n")
	fmt.Fprintf(&b, "_estack = ORIGIN(RAM) + LENGTH(RAM);\n")
	fmt.Fprintf(&b, "_Min_Heap_Size = 0x%X;\n", minHeapSize)
	fmt.Fprintf(&b, "_Min_Stack_Size = 0x%X;\n", minStackSize)
	b.WriteString(`SECTIONS {
  .isr_vector : { KEEP(*(.isr_vector)) } >FLASH
  .text : { *(.text*) *(.rodata*) . = ALIGN(4); _etext = .; } >FLASH
  .init : { KEEP(*(.init)) } >FLASH
  .fini : { KEEP(*(.fini)) } >FLASH
  .init_array : { KEEP(*(.init_array*)) } >FLASH
  .fini_array : { KEEP(*(.fini_array*)) } >FLASH
  .data : AT(_etext) { _sdata = .; *(.data*) . = ALIGN(4); _edata = .; } >RAM
  .bss : { _sbss = .; *(.bss*) *(COMMON) . = ALIGN(4); _ebss = .; } >RAM
  ._user_heap_stack : { . = ALIGN(8); . = . + _Min_Heap_Size; . = . + _Min_Stack_Size; . = ALIGN(8); } >RAM
  /DISCARD/ : { *(.ARM.*) }
}
`)
	return b.String()
}
