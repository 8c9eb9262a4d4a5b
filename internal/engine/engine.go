package engine

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/flashtalk/fwbuild/internal/buildcache"
	"github.com/flashtalk/fwbuild/internal/chip"
	"github.com/flashtalk/fwbuild/internal/codegen"
	"github.com/flashtalk/fwbuild/internal/config"
	"github.com/flashtalk/fwbuild/internal/ctxlog"
	"github.com/flashtalk/fwbuild/internal/fsutil"
	"github.com/flashtalk/fwbuild/internal/hal"
	"github.com/flashtalk/fwbuild/internal/toolchain"
)

// Generated and produced file names inside the build directory.
const (
	linkerScriptName = "link.ld"
	startupName      = "startup.s"
	userSourceName   = "main.c"
	elfName          = "firmware.elf"
	binName          = "firmware.bin"
)

// Result is the caller-facing outcome of one compile. Failures are data,
// never panics: Message carries either a success note or the filtered
// toolchain diagnostics.
type Result struct {
	OK         bool
	Message    string
	BinaryPath string // empty when no binary was produced (failure or syntax-only)
	BinarySize int64
}

// EnvStatus is the outcome of an environment check.
type EnvStatus struct {
	GCC          bool
	GCCVersion   string
	Specs        bool
	HAL          bool
	HALArchive   bool
	Chip         chip.Spec
	Unrecognized bool // chip name fell back to the default
}

// session is the engine's mutable per-process state. The current chip and
// family are replaced wholesale on every chip change.
type session struct {
	chip         *chip.Spec
	unrecognized bool
	hal          hal.Set
	archiveReady bool

	probed bool
	tools  toolchain.Status
}

// Engine is the compile orchestrator.
type Engine struct {
	cfg     *config.Config
	runner  toolchain.Runner
	cache   *buildcache.Cache
	session session
}

// New creates an engine and its build directory.
func New(cfg *config.Config, runner toolchain.Runner) (*Engine, error) {
	if err := os.MkdirAll(cfg.Paths.Build, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create build directory: %w", err)
	}
	return &Engine{
		cfg:    cfg,
		runner: runner,
		cache:  buildcache.New(cfg.Paths.Build, runner, cfg.Toolchain, cfg.Timeouts),
	}, nil
}

// Chip returns the session's current chip, if one has been set.
func (e *Engine) Chip() (chip.Spec, bool) {
	if e.session.chip == nil {
		return chip.Spec{}, false
	}
	return *e.session.chip, true
}

// SetChip resolves name, regenerates the linker script and startup unit
// for the resolved part, and on a family change re-resolves the HAL source
// set and drops the archive-ready flag. Cached objects and archives on
// disk are untouched; if the new family's archive is already fresh the
// fast path resumes immediately.
func (e *Engine) SetChip(ctx context.Context, name string) (chip.Spec, error) {
	logger := ctxlog.FromContext(ctx)

	spec, recognized := chip.Resolve(name)
	if !recognized {
		logger.Warn("Unknown chip, using default parameters.", "requested", name, "default", spec.Name)
	}

	previous := e.session.chip
	e.session.chip = &spec
	e.session.unrecognized = !recognized

	ld := codegen.LinkerScript(spec.FlashKB, spec.RAMKB)
	if err := os.WriteFile(e.buildPath(linkerScriptName), []byte(ld), 0o644); err != nil {
		return spec, fmt.Errorf("failed to write linker script: %w", err)
	}
	startup := codegen.Startup(spec.Core, codegen.IRQTable(spec.Family))
	if err := os.WriteFile(e.buildPath(startupName), []byte(startup), 0o644); err != nil {
		return spec, fmt.Errorf("failed to write startup unit: %w", err)
	}

	if previous == nil || previous.Family != spec.Family {
		e.session.hal = hal.Resolve(e.cfg.Paths.HAL, spec.Family)
		e.session.archiveReady = e.session.hal.Available &&
			e.cache.IsFresh(e.session.hal.SourceFiles, spec.Family)
		logger.Debug("Family changed, HAL re-resolved.",
			"family", spec.Family,
			"hal_available", e.session.hal.Available,
			"archive_ready", e.session.archiveReady,
			"sources", len(e.session.hal.SourceFiles))
	}

	logger.Info("Target chip set.",
		"chip", spec.Name,
		"core", spec.Core,
		"flash_kb", spec.FlashKB,
		"ram_kb", spec.RAMKB,
		"family", spec.Family,
		"fpu", spec.HasFPU)
	return spec, nil
}

// Check probes the toolchain and HAL environment, setting the chip first
// when chipName is non-empty or no chip is current. With both a compiler
// and a HAL present it also warms the archive cache, so the first real
// compile after a check takes the fast path.
func (e *Engine) Check(ctx context.Context, chipName string) (EnvStatus, error) {
	logger := ctxlog.FromContext(ctx)

	if chipName != "" || e.session.chip == nil {
		name := chipName
		if name == "" {
			name = e.cfg.DefaultChip
		}
		if _, err := e.SetChip(ctx, name); err != nil {
			return EnvStatus{}, err
		}
	}

	e.probe(ctx)

	status := EnvStatus{
		GCC:          e.session.tools.HasGCC,
		GCCVersion:   e.session.tools.GCCVersion,
		Specs:        e.session.tools.HasSpecs,
		HAL:          e.session.hal.Available,
		Chip:         *e.session.chip,
		Unrecognized: e.session.unrecognized,
	}

	if status.GCC && status.HAL && !e.session.archiveReady {
		ready, err := e.cache.EnsureArchive(ctx, e.session.hal.SourceFiles, e.session.hal.IncludeDirs, *e.session.chip)
		if err != nil {
			logger.Warn("HAL precompile failed, builds will use the slow path.", "err", err)
		}
		e.session.archiveReady = ready
	}
	status.HALArchive = e.session.archiveReady
	return status, nil
}

// Compile builds the given C source for the current chip (the default chip
// when none was set). With a HAL and a fresh archive it links against the
// cached library; with a HAL but no archive it compiles the full HAL
// source set in one invocation; without a HAL it only syntax-checks. All
// failures come back inside the Result.
func (e *Engine) Compile(ctx context.Context, source string) Result {
	logger := ctxlog.FromContext(ctx)

	if e.session.chip == nil {
		if _, err := e.SetChip(ctx, e.cfg.DefaultChip); err != nil {
			return Result{Message: err.Error()}
		}
	}
	e.probe(ctx)

	if err := os.WriteFile(e.buildPath(userSourceName), []byte(source), 0o644); err != nil {
		return Result{Message: fmt.Sprintf("failed to write user source: %v", err)}
	}

	elf := e.buildPath(elfName)
	bin := e.buildPath(binName)
	for _, path := range []string{elf, bin} {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return Result{Message: fmt.Sprintf("failed to clear previous artifact: %v", err)}
		}
	}

	if !e.session.tools.HasGCC {
		return Result{Message: fmt.Sprintf("%s is not installed", e.cfg.Toolchain.CC)}
	}

	spec := *e.session.chip
	args, linking := e.compileArgs(spec, elf)

	timeout := e.cfg.Timeouts.Link
	if !linking {
		timeout = e.cfg.Timeouts.Compile
	}
	out, err := e.runner.Run(ctx, toolchain.Command{
		Path:    e.cfg.Toolchain.CC,
		Args:    args,
		Timeout: timeout,
	})
	if errors.Is(err, toolchain.ErrTimeout) || out.TimedOut {
		return Result{Message: "compile timed out"}
	}
	if err != nil {
		return Result{Message: err.Error()}
	}
	if out.ExitCode != 0 {
		return Result{Message: toolchain.FilterDiagnostics(out.Stderr)}
	}

	if !linking {
		return Result{OK: true, Message: "syntax check passed (no HAL)"}
	}

	// Convert the linked image to a flat binary for flashing.
	out, err = e.runner.Run(ctx, toolchain.Command{
		Path:    e.cfg.Toolchain.Objcopy,
		Args:    []string{"-O", "binary", elf, bin},
		Timeout: e.cfg.Timeouts.Objcopy,
	})
	if err != nil || out.ExitCode != 0 {
		logger.Warn("objcopy failed, reporting ELF only.", "err", err, "stderr", stderrHead(out))
		return Result{OK: true, Message: "compiled (no flat binary)", BinaryPath: elf, BinarySize: fsutil.Size(elf)}
	}

	size := fsutil.Size(bin)
	return Result{
		OK:         true,
		Message:    fmt.Sprintf("compiled (%dB)", size),
		BinaryPath: bin,
		BinarySize: size,
	}
}

// compileArgs assembles the full compiler argv for the current session
// state and reports whether the invocation links (false = syntax-only).
func (e *Engine) compileArgs(spec chip.Spec, elf string) ([]string, bool) {
	args := toolchain.CPUFlags(spec)

	if !e.session.hal.Available {
		args = append(args, fmt.Sprintf("-D%s", spec.Define))
		args = append(args, "-fsyntax-only", "-Wall", e.buildPath(userSourceName))
		return args, false
	}

	args = append(args, toolchain.DefineFlags(spec)...)
	args = append(args, toolchain.IncludeFlags(e.session.hal.IncludeDirs)...)
	args = append(args,
		"-Os", "-Wall", "-Wno-unused-variable", "-Wno-unused-function",
		"-ffunction-sections", "-fdata-sections",
		"-T"+e.buildPath(linkerScriptName),
		"-Wl,--gc-sections",
		e.buildPath(userSourceName),
		e.buildPath(startupName),
	)

	if e.session.archiveReady {
		// Fast path: user code plus the cached archive.
		args = append(args, "-o", elf, "-nostartfiles")
		args = append(args, e.cache.ArchiveLinkFlags(spec.Family)...)
	} else {
		// Slow path: every HAL unit in one invocation.
		args = append(args, e.session.hal.SourceFiles...)
		args = append(args, "-o", elf, "-nostartfiles")
	}
	args = append(args, "-lc", "-lm", "-lnosys")
	if e.session.tools.HasSpecs {
		args = append(args, toolchain.SpecsFlags()...)
	}
	return args, true
}

// probe runs the toolchain environment probe once per session.
func (e *Engine) probe(ctx context.Context) {
	if e.session.probed {
		return
	}
	core := chip.CortexM3
	if e.session.chip != nil {
		core = e.session.chip.Core
	}
	e.session.tools = toolchain.Probe(ctx, e.runner, e.cfg.Toolchain.CC, core)
	e.session.probed = true
}

func (e *Engine) buildPath(name string) string {
	return filepath.Join(e.cfg.Paths.Build, name)
}

// stderrHead trims stderr to a single log-friendly line.
func stderrHead(out toolchain.Output) string {
	s := out.Stderr
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	if len(s) > 120 {
		s = s[:120]
	}
	return s
}
