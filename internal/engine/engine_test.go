package engine

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flashtalk/fwbuild/internal/chip"
	"github.com/flashtalk/fwbuild/internal/config"
	"github.com/flashtalk/fwbuild/internal/toolchain"
	"github.com/flashtalk/fwbuild/internal/toolchain/toolchaintest"
)

const testSource = "#include <stdint.h>\nint main(void) { return 0; }\n"

// newTestEngine wires an engine to temp dirs and a fake runner that
// reports a working gcc.
func newTestEngine(t *testing.T) (*Engine, *toolchaintest.Runner, *config.Config) {
	t.Helper()

	cfg := config.Default()
	cfg.Paths.Build = filepath.Join(t.TempDir(), "build")
	cfg.Paths.HAL = filepath.Join(t.TempDir(), "hal")

	runner := toolchaintest.New()
	runner.Stub("--version", toolchain.Output{Stdout: "arm-none-eabi-gcc 13.2.1\n"}, nil)

	eng, err := New(cfg, runner)
	require.NoError(t, err)
	return eng, runner, cfg
}

// installHAL writes a minimal F1 HAL fixture under the engine's HAL root.
func installHAL(t *testing.T, cfg *config.Config) {
	t.Helper()

	incDir := filepath.Join(cfg.Paths.HAL, "Inc")
	srcDir := filepath.Join(cfg.Paths.HAL, "Src")
	require.NoError(t, os.MkdirAll(incDir, 0o755))
	require.NoError(t, os.MkdirAll(srcDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(incDir, "stm32f1xx_hal.h"), []byte("#pragma once\n"), 0o644))
	for _, name := range []string{"stm32f1xx_hal.c", "stm32f1xx_hal_gpio.c", "system_stm32f1xx.c"} {
		require.NoError(t, os.WriteFile(filepath.Join(srcDir, name), []byte("/* hal */\n"), 0o644))
	}
}

func lastCompileArgs(t *testing.T, runner *toolchaintest.Runner, cc string) []string {
	t.Helper()
	calls := runner.Calls()
	for i := len(calls) - 1; i >= 0; i-- {
		if calls[i].Path == cc && !strings.Contains(strings.Join(calls[i].Args, " "), "--version") {
			return calls[i].Args
		}
	}
	t.Fatal("no compiler invocation recorded")
	return nil
}

func TestSetChip_WritesGeneratedFiles(t *testing.T) {
	t.Parallel()

	eng, _, cfg := newTestEngine(t)

	spec, err := eng.SetChip(context.Background(), "STM32F103C8T6")

	require.NoError(t, err)
	require.Equal(t, chip.CortexM3, spec.Core)
	require.Equal(t, uint(64), spec.FlashKB)
	require.Equal(t, uint(20), spec.RAMKB)
	require.Equal(t, chip.FamilyF1, spec.Family)
	require.False(t, spec.HasFPU)

	ld, err := os.ReadFile(filepath.Join(cfg.Paths.Build, "link.ld"))
	require.NoError(t, err)
	require.Contains(t, string(ld), "LENGTH = 65536")
	require.Contains(t, string(ld), "LENGTH = 20480")

	asm, err := os.ReadFile(filepath.Join(cfg.Paths.Build, "startup.s"))
	require.NoError(t, err)
	require.Contains(t, string(asm), ".cpu cortex-m3")
	require.Contains(t, string(asm), "USART1_IRQHandler")
}

func TestSetChip_F407Discovery(t *testing.T) {
	t.Parallel()

	eng, _, _ := newTestEngine(t)

	spec, err := eng.SetChip(context.Background(), "STM32F407VGT6")

	require.NoError(t, err)
	require.Equal(t, uint(1024), spec.FlashKB)
	require.Equal(t, uint(128), spec.RAMKB)
	require.Equal(t, chip.FamilyF4, spec.Family)
	require.True(t, spec.HasFPU)
}

func TestCheck_UnknownChipFallsBackToDefault(t *testing.T) {
	t.Parallel()

	eng, _, _ := newTestEngine(t)

	status, err := eng.Check(context.Background(), "STM32Q999ZZ")

	require.NoError(t, err)
	require.True(t, status.Unrecognized)
	require.Equal(t, chip.Default(), status.Chip)
	require.True(t, status.GCC)
}

func TestCompile_NoHALIsSyntaxOnly(t *testing.T) {
	t.Parallel()

	eng, runner, cfg := newTestEngine(t)
	_, err := eng.SetChip(context.Background(), "STM32F103C8T6")
	require.NoError(t, err)

	result := eng.Compile(context.Background(), testSource)

	require.True(t, result.OK)
	require.Empty(t, result.BinaryPath)
	require.Zero(t, result.BinarySize)
	require.Contains(t, result.Message, "syntax check")

	args := lastCompileArgs(t, runner, cfg.Toolchain.CC)
	require.Contains(t, args, "-fsyntax-only")
	require.NotContains(t, strings.Join(args, " "), "-o ")
}

func TestCompile_FastPathAfterCheck(t *testing.T) {
	t.Parallel()

	eng, runner, cfg := newTestEngine(t)
	installHAL(t, cfg)
	ctx := context.Background()

	status, err := eng.Check(ctx, "STM32F103C8T6")
	require.NoError(t, err)
	require.True(t, status.HAL)
	require.True(t, status.HALArchive, "check must warm the archive")

	result := eng.Compile(ctx, testSource)

	require.True(t, result.OK)
	require.Equal(t, filepath.Join(cfg.Paths.Build, "firmware.bin"), result.BinaryPath)
	require.Positive(t, result.BinarySize)

	joined := strings.Join(lastCompileArgs(t, runner, cfg.Toolchain.CC), " ")
	require.Contains(t, joined, "-lstm32hal_f1")
	require.NotContains(t, joined, "stm32f1xx_hal_gpio.c", "fast path must not recompile HAL sources")
	require.Contains(t, joined, "-T"+filepath.Join(cfg.Paths.Build, "link.ld"))
	require.Contains(t, joined, "-nostartfiles")
}

func TestCompile_SlowPathWithoutWarmArchive(t *testing.T) {
	t.Parallel()

	eng, runner, cfg := newTestEngine(t)
	installHAL(t, cfg)
	ctx := context.Background()

	// SetChip alone never compiles; with no archive on disk the session
	// stays on the slow path.
	_, err := eng.SetChip(ctx, "STM32F103C8T6")
	require.NoError(t, err)

	result := eng.Compile(ctx, testSource)

	require.True(t, result.OK)
	joined := strings.Join(lastCompileArgs(t, runner, cfg.Toolchain.CC), " ")
	require.Contains(t, joined, "stm32f1xx_hal_gpio.c", "slow path compiles HAL sources inline")
	require.NotContains(t, joined, "-lstm32hal_f1")
}

func TestCompile_SwitchingBackRediscoversArchive(t *testing.T) {
	t.Parallel()

	eng, runner, cfg := newTestEngine(t)
	installHAL(t, cfg) // F1 only
	ctx := context.Background()

	_, err := eng.Check(ctx, "STM32F103C8T6")
	require.NoError(t, err)

	// Switch to a family with no HAL, then back.
	_, err = eng.SetChip(ctx, "STM32F407VG")
	require.NoError(t, err)
	_, err = eng.SetChip(ctx, "STM32F103C8")
	require.NoError(t, err)

	runner.Reset()
	result := eng.Compile(ctx, testSource)

	require.True(t, result.OK)
	joined := strings.Join(lastCompileArgs(t, runner, cfg.Toolchain.CC), " ")
	require.Contains(t, joined, "-lstm32hal_f1", "existing archive must be rediscovered")
	require.Zero(t, runner.CallsMatching(" -c "), "no recompilation on switch-back")
}

func TestCompile_DefaultChipWhenNoneSet(t *testing.T) {
	t.Parallel()

	eng, _, cfg := newTestEngine(t)

	result := eng.Compile(context.Background(), testSource)

	require.True(t, result.OK)
	spec, ok := eng.Chip()
	require.True(t, ok)
	require.Equal(t, chip.Default(), spec)
	require.FileExists(t, filepath.Join(cfg.Paths.Build, "main.c"))
}

func TestCompile_MissingGCCIsStructuredFailure(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.Paths.Build = filepath.Join(t.TempDir(), "build")
	cfg.Paths.HAL = filepath.Join(t.TempDir(), "hal")
	runner := toolchaintest.New()
	runner.Stub("--version", toolchain.Output{}, os.ErrNotExist)

	eng, err := New(cfg, runner)
	require.NoError(t, err)

	result := eng.Compile(context.Background(), testSource)

	require.False(t, result.OK)
	require.Contains(t, result.Message, "arm-none-eabi-gcc is not installed")
	require.Empty(t, result.BinaryPath)
}

func TestCompile_TimeoutIsReportedAsFailure(t *testing.T) {
	t.Parallel()

	eng, runner, _ := newTestEngine(t)
	installHAL(t, eng.cfg)
	_, err := eng.SetChip(context.Background(), "STM32F103C8")
	require.NoError(t, err)
	runner.Stub("main.c", toolchain.Output{TimedOut: true}, toolchain.ErrTimeout)

	result := eng.Compile(context.Background(), testSource)

	require.False(t, result.OK)
	require.Equal(t, "compile timed out", result.Message)
}

func TestCompile_FailureReturnsFilteredDiagnostics(t *testing.T) {
	t.Parallel()

	eng, runner, _ := newTestEngine(t)
	installHAL(t, eng.cfg)
	_, err := eng.SetChip(context.Background(), "STM32F103C8")
	require.NoError(t, err)

	runner.Stub("main.c", toolchain.Output{
		ExitCode: 1,
		Stderr: "main.c: In function 'main':\n" +
			"main.c:2:3: error: expected ';' before 'return'\n" +
			"collect2: error: ld returned 1 exit status\n",
	}, nil)

	result := eng.Compile(context.Background(), testSource)

	require.False(t, result.OK)
	require.Contains(t, result.Message, "error: expected ';'")
	require.NotContains(t, result.Message, "collect2:")
	require.NotContains(t, result.Message, "In function")
}

func TestCompile_RemovesPreviousArtifacts(t *testing.T) {
	t.Parallel()

	eng, runner, cfg := newTestEngine(t)
	installHAL(t, cfg)
	ctx := context.Background()
	_, err := eng.Check(ctx, "STM32F103C8")
	require.NoError(t, err)

	require.True(t, eng.Compile(ctx, testSource).OK)

	// Force the next build to fail; stale artifacts must not survive.
	runner.Stub("main.c", toolchain.Output{ExitCode: 1, Stderr: "main.c:1:1: error: nope"}, nil)
	result := eng.Compile(ctx, testSource)

	require.False(t, result.OK)
	require.NoFileExists(t, filepath.Join(cfg.Paths.Build, "firmware.elf"))
	require.NoFileExists(t, filepath.Join(cfg.Paths.Build, "firmware.bin"))
}
