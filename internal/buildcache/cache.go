// Package buildcache maintains the per-family archive of precompiled HAL
// objects that turns a cold multi-second HAL build into a near-instant
// incremental one.
//
// Staleness is mtime based and advisory: a false-stale only costs one
// redundant compile, so equal timestamps count as fresh and anything
// doubtful is rebuilt. Objects and archives live in the build directory
// and survive chip switches; switching back to a family rediscovers its
// archive without recompiling.
package buildcache

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/flashtalk/fwbuild/internal/chip"
	"github.com/flashtalk/fwbuild/internal/config"
	"github.com/flashtalk/fwbuild/internal/ctxlog"
	"github.com/flashtalk/fwbuild/internal/fsutil"
	"github.com/flashtalk/fwbuild/internal/toolchain"
)

// Cache compiles stale HAL translation units and archives them into one
// static library per family.
type Cache struct {
	buildDir string
	runner   toolchain.Runner
	tools    config.Toolchain
	timeouts config.Timeouts
}

// New creates a cache rooted at buildDir.
func New(buildDir string, runner toolchain.Runner, tools config.Toolchain, timeouts config.Timeouts) *Cache {
	return &Cache{buildDir: buildDir, runner: runner, tools: tools, timeouts: timeouts}
}

// ArchivePath is where the family's static library lives.
func (c *Cache) ArchivePath(family chip.Family) string {
	return filepath.Join(c.buildDir, fmt.Sprintf("libstm32hal_%s.a", family))
}

// ArchiveLinkFlags are the -L/-l pair that links against the cached archive.
func (c *Cache) ArchiveLinkFlags(family chip.Family) []string {
	return []string{"-L" + c.buildDir, fmt.Sprintf("-lstm32hal_%s", family)}
}

func (c *Cache) objDir(family chip.Family) string {
	return filepath.Join(c.buildDir, fmt.Sprintf("hal_obj_%s", family))
}

// IsFresh reports whether the family's archive exists and none of the
// given sources is stale relative to its cached object. It never invokes
// any tool, which makes it safe to call on every chip switch to rediscover
// an archive built earlier in the session or by a previous process.
func (c *Cache) IsFresh(sources []string, family chip.Family) bool {
	if len(sources) == 0 || !fsutil.Exists(c.ArchivePath(family)) {
		return false
	}
	objDir := c.objDir(family)
	for _, src := range sources {
		if fsutil.Stale(src, filepath.Join(objDir, objectName(src))) {
			return false
		}
	}
	return true
}

// unit pairs one translation unit with its cached object file.
type unit struct {
	src string
	obj string
}

// EnsureArchive brings the family's static library up to date with the
// given source set: it recompiles only the units whose objects are missing
// or older than their source, then re-archives everything. When nothing is
// stale and the archive exists it returns immediately without invoking any
// tool. The returned bool is whether the archive is ready; a non-nil error
// explains why it is not, and the caller is expected to fall back to a
// full-source build rather than abort.
func (c *Cache) EnsureArchive(ctx context.Context, sources, includeDirs []string, spec chip.Spec) (bool, error) {
	logger := ctxlog.FromContext(ctx)
	family := spec.Family

	if len(sources) == 0 {
		return false, fmt.Errorf("no HAL sources for family %s", family)
	}

	objDir := c.objDir(family)
	if err := os.MkdirAll(objDir, 0o755); err != nil {
		return false, fmt.Errorf("failed to create object directory: %w", err)
	}

	units := make([]unit, 0, len(sources))
	var stale []unit
	for _, src := range sources {
		obj := filepath.Join(objDir, objectName(src))
		u := unit{src: src, obj: obj}
		units = append(units, u)
		if fsutil.Stale(src, obj) {
			stale = append(stale, u)
		}
	}

	archive := c.ArchivePath(family)
	if len(stale) == 0 && fsutil.Exists(archive) {
		logger.Debug("HAL archive is current.", "family", family, "archive", archive)
		return true, nil
	}

	logger.Info("Precompiling HAL.",
		"family", family,
		"stale", len(stale),
		"total", len(units),
		"cached", len(units)-len(stale))

	flags := toolchain.CPUFlags(spec)
	flags = append(flags, toolchain.DefineFlags(spec)...)
	flags = append(flags, toolchain.IncludeFlags(includeDirs)...)
	flags = append(flags, toolchain.OptimizeFlags()...)

	for _, u := range stale {
		args := append(append([]string(nil), flags...), "-c", u.src, "-o", u.obj)
		out, err := c.runner.Run(ctx, toolchain.Command{
			Path:    c.tools.CC,
			Args:    args,
			Timeout: c.timeouts.Compile,
		})
		if err != nil {
			return false, fmt.Errorf("failed to compile %s: %w", filepath.Base(u.src), err)
		}
		if out.ExitCode != 0 {
			return false, fmt.Errorf("failed to compile %s: %s",
				filepath.Base(u.src), firstLine(out.Stderr))
		}
	}

	// Archive every object that exists, not just the freshly compiled ones.
	var objs []string
	for _, u := range units {
		if fsutil.Exists(u.obj) {
			objs = append(objs, u.obj)
		}
	}
	if len(objs) == 0 {
		return false, fmt.Errorf("no objects produced for family %s", family)
	}

	args := append([]string{"rcs", archive}, objs...)
	out, err := c.runner.Run(ctx, toolchain.Command{
		Path:    c.tools.AR,
		Args:    args,
		Timeout: c.timeouts.Archive,
	})
	if err != nil {
		return false, fmt.Errorf("failed to archive HAL objects: %w", err)
	}
	if out.ExitCode != 0 {
		return false, fmt.Errorf("failed to archive HAL objects: %s", firstLine(out.Stderr))
	}

	logger.Info("HAL archive ready.",
		"archive", filepath.Base(archive),
		"size_kb", fsutil.Size(archive)/1024)
	return true, nil
}

// objectName maps a source path to its object file name.
func objectName(src string) string {
	base := filepath.Base(src)
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".o"
}

func firstLine(s string) string {
	line := s
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		line = s[:i]
	}
	const max = 120
	if len(line) > max {
		line = line[:max]
	}
	return line
}
