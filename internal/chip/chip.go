package chip

import "slices"

// Core identifies the Cortex-M core of a part, in the form the cross
// compiler expects for its -mcpu flag.
type Core string

const (
	CortexM0     Core = "cortex-m0"
	CortexM0Plus Core = "cortex-m0plus"
	CortexM3     Core = "cortex-m3"
	CortexM4     Core = "cortex-m4"
)

// Family identifies an STM32 sub-series sharing one interrupt layout and
// one HAL source set.
type Family string

const (
	FamilyF0 Family = "f0"
	FamilyF1 Family = "f1"
	FamilyF3 Family = "f3"
	FamilyF4 Family = "f4"
)

// Spec is the immutable parameter record for one chip model. Instances are
// table entries; they are never mutated after startup.
type Spec struct {
	Name    string // canonical table key, e.g. "STM32F103C8"
	Core    Core
	FlashKB uint
	RAMKB   uint
	Define  string // device preprocessor define, e.g. "STM32F103xB"
	Family  Family
	HasFPU  bool
}

// DefaultChipName is the part assumed when the user never picked one or the
// pick was unrecognized. The Blue Pill's STM32F103C8T6 is the overwhelmingly
// common hobbyist target.
const DefaultChipName = "STM32F103C8T6"

// defaultKey is the table entry DefaultChipName resolves to.
const defaultKey = "STM32F103C8"

// table maps canonical chip identifiers to their parameters. Keys are
// normalized part-number prefixes without package/temperature suffixes.
var table = map[string]Spec{
	// STM32F1 series (Cortex-M3).
	"STM32F103C8": {Core: CortexM3, FlashKB: 64, RAMKB: 20, Define: "STM32F103xB", Family: FamilyF1},
	"STM32F103CB": {Core: CortexM3, FlashKB: 128, RAMKB: 20, Define: "STM32F103xB", Family: FamilyF1},
	"STM32F103RB": {Core: CortexM3, FlashKB: 128, RAMKB: 20, Define: "STM32F103xB", Family: FamilyF1},
	"STM32F103RC": {Core: CortexM3, FlashKB: 256, RAMKB: 48, Define: "STM32F103xE", Family: FamilyF1},
	"STM32F103RE": {Core: CortexM3, FlashKB: 512, RAMKB: 64, Define: "STM32F103xE", Family: FamilyF1},
	"STM32F103ZE": {Core: CortexM3, FlashKB: 512, RAMKB: 64, Define: "STM32F103xE", Family: FamilyF1},
	"STM32F103VE": {Core: CortexM3, FlashKB: 512, RAMKB: 64, Define: "STM32F103xE", Family: FamilyF1},
	"STM32F100RB": {Core: CortexM3, FlashKB: 128, RAMKB: 8, Define: "STM32F100xB", Family: FamilyF1},
	"STM32F105":   {Core: CortexM3, FlashKB: 256, RAMKB: 64, Define: "STM32F105xC", Family: FamilyF1},
	"STM32F107":   {Core: CortexM3, FlashKB: 256, RAMKB: 64, Define: "STM32F107xC", Family: FamilyF1},

	// STM32F4 series (Cortex-M4F).
	"STM32F401CC": {Core: CortexM4, FlashKB: 256, RAMKB: 64, Define: "STM32F401xC", Family: FamilyF4, HasFPU: true},
	"STM32F401CE": {Core: CortexM4, FlashKB: 512, RAMKB: 96, Define: "STM32F401xE", Family: FamilyF4, HasFPU: true},
	"STM32F407VE": {Core: CortexM4, FlashKB: 512, RAMKB: 128, Define: "STM32F407xx", Family: FamilyF4, HasFPU: true},
	"STM32F407VG": {Core: CortexM4, FlashKB: 1024, RAMKB: 128, Define: "STM32F407xx", Family: FamilyF4, HasFPU: true},
	"STM32F407ZG": {Core: CortexM4, FlashKB: 1024, RAMKB: 128, Define: "STM32F407xx", Family: FamilyF4, HasFPU: true},
	"STM32F411CE": {Core: CortexM4, FlashKB: 512, RAMKB: 128, Define: "STM32F411xE", Family: FamilyF4, HasFPU: true},
	"STM32F429ZI": {Core: CortexM4, FlashKB: 2048, RAMKB: 256, Define: "STM32F429xx", Family: FamilyF4, HasFPU: true},
	"STM32F446RE": {Core: CortexM4, FlashKB: 512, RAMKB: 128, Define: "STM32F446xx", Family: FamilyF4, HasFPU: true},

	// STM32F0 series (Cortex-M0).
	"STM32F030F4": {Core: CortexM0, FlashKB: 16, RAMKB: 4, Define: "STM32F030x6", Family: FamilyF0},
	"STM32F030C8": {Core: CortexM0, FlashKB: 64, RAMKB: 8, Define: "STM32F030x8", Family: FamilyF0},
	"STM32F072RB": {Core: CortexM0, FlashKB: 128, RAMKB: 16, Define: "STM32F072xB", Family: FamilyF0},

	// STM32F3 series (Cortex-M4F).
	"STM32F303CC": {Core: CortexM4, FlashKB: 256, RAMKB: 40, Define: "STM32F303xC", Family: FamilyF3, HasFPU: true},
	"STM32F303RE": {Core: CortexM4, FlashKB: 512, RAMKB: 64, Define: "STM32F303xE", Family: FamilyF3, HasFPU: true},
}

// sortedKeys caches the table keys in deterministic order so the scan-based
// match strategies do not depend on map iteration order.
var sortedKeys = func() []string {
	keys := make([]string, 0, len(table))
	for k := range table {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}()

// Default returns the spec used when a chip name cannot be resolved.
func Default() Spec {
	return lookup(defaultKey)
}

// Known returns whether name is an exact canonical table key.
func Known(name string) bool {
	_, ok := table[name]
	return ok
}

func lookup(key string) Spec {
	s := table[key]
	s.Name = key
	return s
}
