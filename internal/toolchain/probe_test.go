package toolchain_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flashtalk/fwbuild/internal/chip"
	"github.com/flashtalk/fwbuild/internal/toolchain"
	"github.com/flashtalk/fwbuild/internal/toolchain/toolchaintest"
)

func TestProbe_GCCAndSpecsPresent(t *testing.T) {
	t.Parallel()

	runner := toolchaintest.New()
	runner.Stub("--version", toolchain.Output{
		Stdout: "arm-none-eabi-gcc (GNU Arm Embedded Toolchain) 13.2.1\nCopyright (C) 2023\n",
	}, nil)

	status := toolchain.Probe(context.Background(), runner, "arm-none-eabi-gcc", chip.CortexM3)

	require.True(t, status.HasGCC)
	require.Equal(t, "arm-none-eabi-gcc (GNU Arm Embedded Toolchain) 13.2.1", status.GCCVersion)
	require.True(t, status.HasSpecs)
}

func TestProbe_MissingGCCSkipsSpecsProbe(t *testing.T) {
	t.Parallel()

	runner := toolchaintest.New()
	runner.Stub("--version", toolchain.Output{}, errors.New("exec: \"arm-none-eabi-gcc\": executable file not found in $PATH"))

	status := toolchain.Probe(context.Background(), runner, "arm-none-eabi-gcc", chip.CortexM3)

	require.False(t, status.HasGCC)
	require.False(t, status.HasSpecs)
	require.Len(t, runner.Calls(), 1, "specs probe must not run without gcc")
}

func TestProbe_SpecsProbeFailure(t *testing.T) {
	t.Parallel()

	runner := toolchaintest.New()
	runner.Stub("--version", toolchain.Output{Stdout: "gcc 13.2.1\n"}, nil)
	runner.Stub("nosys.specs", toolchain.Output{ExitCode: 1, Stderr: "spec file not found"}, nil)

	status := toolchain.Probe(context.Background(), runner, "arm-none-eabi-gcc", chip.CortexM4)

	require.True(t, status.HasGCC)
	require.False(t, status.HasSpecs)
}

func TestCPUFlags_FPUSelection(t *testing.T) {
	t.Parallel()

	spec, ok := chip.Resolve("STM32F103C8")
	require.True(t, ok)
	require.Equal(t, []string{"-mcpu=cortex-m3", "-mthumb"}, toolchain.CPUFlags(spec))

	spec, ok = chip.Resolve("STM32F407VG")
	require.True(t, ok)
	require.Equal(t,
		[]string{"-mcpu=cortex-m4", "-mthumb", "-mfloat-abi=hard", "-mfpu=fpv4-sp-d16"},
		toolchain.CPUFlags(spec))
}

func TestDefineAndIncludeFlags(t *testing.T) {
	t.Parallel()

	spec, ok := chip.Resolve("STM32F103C8")
	require.True(t, ok)

	require.Equal(t, []string{"-DSTM32F103xB", "-DUSE_HAL_DRIVER"}, toolchain.DefineFlags(spec))
	require.Equal(t, []string{"-Ia", "-Ib"}, toolchain.IncludeFlags([]string{"a", "b"}))
}
