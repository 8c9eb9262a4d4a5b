package toolchain

import (
	"fmt"

	"github.com/flashtalk/fwbuild/internal/chip"
)

// CPUFlags derives the -mcpu/-mthumb set for a chip, enabling the hard
// float ABI on parts with an FPU.
func CPUFlags(spec chip.Spec) []string {
	flags := []string{fmt.Sprintf("-mcpu=%s", spec.Core), "-mthumb"}
	if spec.HasFPU {
		flags = append(flags, "-mfloat-abi=hard", "-mfpu=fpv4-sp-d16")
	}
	return flags
}

// DefineFlags yields the device preprocessor define plus the HAL driver
// switch every ST HAL translation unit expects.
func DefineFlags(spec chip.Spec) []string {
	return []string{fmt.Sprintf("-D%s", spec.Define), "-DUSE_HAL_DRIVER"}
}

// IncludeFlags converts include directories into -I arguments.
func IncludeFlags(dirs []string) []string {
	flags := make([]string, 0, len(dirs))
	for _, dir := range dirs {
		flags = append(flags, "-I"+dir)
	}
	return flags
}

// OptimizeFlags are the fixed code-size options used for every compile:
// section splitting so the linker's --gc-sections can drop unused HAL code.
func OptimizeFlags() []string {
	return []string{"-Os", "-ffunction-sections", "-fdata-sections"}
}
