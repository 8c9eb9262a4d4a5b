package codegen

import (
	"fmt"
	"strings"

	"github.com/flashtalk/fwbuild/internal/chip"
)

// CoreVectorCount is the number of words at the head of every Cortex-M
// vector table: the initial stack pointer plus the fixed core exceptions
// (Reset, NMI, HardFault, MemManage, BusFault, UsageFault, four reserved
// words, SVCall, DebugMon, one reserved word, PendSV, SysTick).
const CoreVectorCount = 16

// coreHandlers are the named core exception handlers that get a weak alias
// to Default_Handler, plus SystemInit so a HAL-less build still links.
var coreHandlers = []string{
	"NMI_Handler",
	"HardFault_Handler",
	"MemManage_Handler",
	"BusFault_Handler",
	"UsageFault_Handler",
	"SVC_Handler",
	"DebugMon_Handler",
	"PendSV_Handler",
	"SysTick_Handler",
	"SystemInit",
}

// Startup emits the GNU assembly startup unit for a core and its family's
// interrupt table: the vector table in its own .isr_vector section, a reset
// handler that copies .data from flash, zeroes .bss and jumps through
// SystemInit into main, an endless-loop Default_Handler, and a weak alias
// onto Default_Handler for every named handler so user code can override
// any single one by defining a function of the same name.
func Startup(core chip.Core, table []Vector) string {
	var vecs strings.Builder
	for _, v := range table {
		if v == Reserved {
			vecs.WriteString("  .word 0  /* reserved */\n")
		} else {
			fmt.Fprintf(&vecs, "  .word %s\n", v)
		}
	}

	var weaks strings.Builder
	for _, name := range coreHandlers {
		fmt.Fprintf(&weaks, ".weak %s\n.thumb_set %s, Default_Handler\n", name, name)
	}
	for _, v := range table {
		if v == Reserved {
			continue
		}
		fmt.Fprintf(&weaks, ".weak %s\n.thumb_set %s, Default_Handler\n", v, v)
	}

	var b strings.Builder
	fmt.Fprintf(&b, ".syntax unified\n.cpu %s\n.thumb\n\n", core)
	b.WriteString(".global g_pfnVectors\n.global Default_Handler\n\n")

	b.WriteString(".section .isr_vector,\"a\",%progbits\n")
	b.WriteString(".type g_pfnVectors, %object\n")
	b.WriteString(`g_pfnVectors:
  .word _estack
  .word Reset_Handler
  .word NMI_Handler
  .word HardFault_Handler
  .word MemManage_Handler
  .word BusFault_Handler
  .word UsageFault_Handler
  .word 0,0,0,0
  .word SVC_Handler
  .word DebugMon_Handler
  .word 0
  .word PendSV_Handler
  .word SysTick_Handler
`)
	b.WriteString(vecs.String())
	b.WriteString("\n")

	b.WriteString(`.section .text.Reset_Handler
.weak Reset_Handler
.type Reset_Handler, %function
Reset_Handler:
  ldr r0, =_estack
  mov sp, r0
  ldr r0, =_sdata
  ldr r1, =_edata
  ldr r2, =_etext
  b 2f
1: ldr r3, [r2], #4
  str r3, [r0], #4
2: cmp r0, r1
  blt 1b
  ldr r0, =_sbss
  ldr r1, =_ebss
  movs r2, #0
  b 4f
3: str r2, [r0], #4
4: cmp r0, r1
  blt 3b
  bl SystemInit
  bl main
  b .

.section .text.Default_Handler,"ax",%progbits
Default_Handler: b .

`)
	b.WriteString(weaks.String())
	return b.String()
}
