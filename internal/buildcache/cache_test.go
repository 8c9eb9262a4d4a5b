package buildcache

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/flashtalk/fwbuild/internal/chip"
	"github.com/flashtalk/fwbuild/internal/config"
	"github.com/flashtalk/fwbuild/internal/toolchain"
	"github.com/flashtalk/fwbuild/internal/toolchain/toolchaintest"
)

func newTestCache(t *testing.T) (*Cache, *toolchaintest.Runner, string, []string) {
	t.Helper()

	buildDir := t.TempDir()
	srcDir := t.TempDir()

	sources := make([]string, 0, 3)
	for _, name := range []string{"stm32f1xx_hal.c", "stm32f1xx_hal_gpio.c", "system_stm32f1xx.c"} {
		path := filepath.Join(srcDir, name)
		require.NoError(t, os.WriteFile(path, []byte("/* hal */\n"), 0o644))
		sources = append(sources, path)
	}

	runner := toolchaintest.New()
	cfg := config.Default()
	cache := New(buildDir, runner, cfg.Toolchain, cfg.Timeouts)
	return cache, runner, buildDir, sources
}

func f1Spec(t *testing.T) chip.Spec {
	t.Helper()
	spec, ok := chip.Resolve("STM32F103C8")
	require.True(t, ok)
	return spec
}

func TestEnsureArchive_ColdBuildCompilesEverythingOnce(t *testing.T) {
	t.Parallel()

	cache, runner, _, sources := newTestCache(t)

	ready, err := cache.EnsureArchive(context.Background(), sources, []string{"inc"}, f1Spec(t))

	require.NoError(t, err)
	require.True(t, ready)
	require.Equal(t, len(sources), runner.CallsMatching(" -c "), "one compile per unit")
	require.Equal(t, 1, runner.CallsMatching("rcs"), "one archive invocation")
	require.FileExists(t, cache.ArchivePath(chip.FamilyF1))
}

func TestEnsureArchive_SecondRunIsZeroInvocations(t *testing.T) {
	t.Parallel()

	cache, runner, _, sources := newTestCache(t)
	ctx := context.Background()

	ready, err := cache.EnsureArchive(ctx, sources, nil, f1Spec(t))
	require.NoError(t, err)
	require.True(t, ready)

	runner.Reset()
	ready, err = cache.EnsureArchive(ctx, sources, nil, f1Spec(t))

	require.NoError(t, err)
	require.True(t, ready)
	require.Empty(t, runner.Calls(), "fresh archive must short-circuit")
}

func TestEnsureArchive_TouchingOneSourceRecompilesExactlyOne(t *testing.T) {
	t.Parallel()

	cache, runner, _, sources := newTestCache(t)
	ctx := context.Background()

	_, err := cache.EnsureArchive(ctx, sources, nil, f1Spec(t))
	require.NoError(t, err)

	// Push one source's mtime past its object's.
	future := time.Now().Add(2 * time.Second)
	require.NoError(t, os.Chtimes(sources[1], future, future))

	runner.Reset()
	ready, err := cache.EnsureArchive(ctx, sources, nil, f1Spec(t))

	require.NoError(t, err)
	require.True(t, ready)
	require.Equal(t, 1, runner.CallsMatching(" -c "), "exactly the touched unit recompiles")
	require.Equal(t, 1, runner.CallsMatching("rcs"), "archive rebuilt once")
}

func TestEnsureArchive_MissingArchiveRearchivesWithoutCompiling(t *testing.T) {
	t.Parallel()

	cache, runner, _, sources := newTestCache(t)
	ctx := context.Background()
	spec := f1Spec(t)

	_, err := cache.EnsureArchive(ctx, sources, nil, spec)
	require.NoError(t, err)
	require.NoError(t, os.Remove(cache.ArchivePath(spec.Family)))

	runner.Reset()
	ready, err := cache.EnsureArchive(ctx, sources, nil, spec)

	require.NoError(t, err)
	require.True(t, ready)
	require.Zero(t, runner.CallsMatching(" -c "), "objects are still fresh")
	require.Equal(t, 1, runner.CallsMatching("rcs"))
}

func TestEnsureArchive_CompileFailureLeavesArchiveNotReady(t *testing.T) {
	t.Parallel()

	cache, runner, _, sources := newTestCache(t)
	runner.Stub("stm32f1xx_hal_gpio", toolchain.Output{
		ExitCode: 1,
		Stderr:   "stm32f1xx_hal_gpio.c:10:1: error: unknown type name 'GPIO_TypeDef'\nmore noise\n",
	}, nil)

	ready, err := cache.EnsureArchive(context.Background(), sources, nil, f1Spec(t))

	require.False(t, ready)
	require.Error(t, err)
	require.Contains(t, err.Error(), "stm32f1xx_hal_gpio.c")
	require.Contains(t, err.Error(), "error: unknown type name")
}

func TestEnsureArchive_ArchiverFailure(t *testing.T) {
	t.Parallel()

	cache, runner, _, sources := newTestCache(t)
	runner.Stub("rcs", toolchain.Output{ExitCode: 1, Stderr: "ar: malformed archive"}, nil)

	ready, err := cache.EnsureArchive(context.Background(), sources, nil, f1Spec(t))

	require.False(t, ready)
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to archive")
}

func TestEnsureArchive_NoSources(t *testing.T) {
	t.Parallel()

	cache, _, _, _ := newTestCache(t)

	ready, err := cache.EnsureArchive(context.Background(), nil, nil, f1Spec(t))

	require.False(t, ready)
	require.Error(t, err)
}

func TestEnsureArchive_CompileTimeoutIsFailureNotCrash(t *testing.T) {
	t.Parallel()

	cache, runner, _, sources := newTestCache(t)
	runner.Stub(" -c ", toolchain.Output{TimedOut: true}, toolchain.ErrTimeout)

	ready, err := cache.EnsureArchive(context.Background(), sources, nil, f1Spec(t))

	require.False(t, ready)
	require.ErrorIs(t, err, toolchain.ErrTimeout)
}

func TestArchiveLinkFlags(t *testing.T) {
	t.Parallel()

	cache, _, buildDir, _ := newTestCache(t)

	require.Equal(t,
		[]string{"-L" + buildDir, "-lstm32hal_f1"},
		cache.ArchiveLinkFlags(chip.FamilyF1))
}
