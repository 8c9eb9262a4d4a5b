package toolchain

import (
	"context"
	"strings"

	"github.com/flashtalk/fwbuild/internal/chip"
	"github.com/flashtalk/fwbuild/internal/ctxlog"
)

// Status reports what the environment probe found.
type Status struct {
	HasGCC     bool
	GCCVersion string
	HasSpecs   bool // newlib-nano/nosys spec files usable
}

// Probe checks that the cross compiler exists and whether the nano/nosys
// spec files are installed, without compiling anything real. The specs
// probe runs the preprocessor over empty input, the cheapest invocation
// that still loads the spec files.
func Probe(ctx context.Context, runner Runner, gccPath string, core chip.Core) Status {
	logger := ctxlog.FromContext(ctx)
	var status Status

	out, err := runner.Run(ctx, Command{
		Path:    gccPath,
		Args:    []string{"--version"},
		Timeout: ProbeTimeout,
	})
	if err != nil || out.ExitCode != 0 {
		logger.Debug("Cross compiler probe failed.", "path", gccPath, "err", err)
		return status
	}
	status.HasGCC = true
	if i := strings.IndexByte(out.Stdout, '\n'); i >= 0 {
		status.GCCVersion = out.Stdout[:i]
	} else {
		status.GCCVersion = out.Stdout
	}

	out, err = runner.Run(ctx, Command{
		Path: gccPath,
		Args: []string{
			"-mcpu=" + string(core), "-mthumb",
			"--specs=nosys.specs", "--specs=nano.specs",
			"-x", "c", "-E", "-", "-o", "/dev/null",
		},
		Stdin:   " ",
		Timeout: ProbeTimeout,
	})
	status.HasSpecs = err == nil && out.ExitCode == 0
	logger.Debug("Toolchain probe finished.", "gcc", status.HasGCC, "version", status.GCCVersion, "specs", status.HasSpecs)
	return status
}

// SpecsFlags are appended to link invocations when the probe found the
// newlib spec files.
func SpecsFlags() []string {
	return []string{"--specs=nosys.specs", "--specs=nano.specs"}
}
