package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty/gocty"

	"github.com/flashtalk/fwbuild/internal/chip"
)

// Toolchain names the external binaries the engine shells out to. The size
// tool is accepted for completeness; only cc, ar and objcopy are invoked.
type Toolchain struct {
	CC      string `hcl:"cc,optional"`
	AR      string `hcl:"ar,optional"`
	Objcopy string `hcl:"objcopy,optional"`
	Size    string `hcl:"size,optional"`
}

// Paths is the workspace directory layout.
type Paths struct {
	Build string `hcl:"build,optional"`
	HAL   string `hcl:"hal,optional"`
}

// Timeouts bounds each class of child-process invocation.
type Timeouts struct {
	Probe   time.Duration
	Compile time.Duration
	Archive time.Duration
	Link    time.Duration
	Objcopy time.Duration
}

// Config is the fully resolved engine configuration.
type Config struct {
	Toolchain   Toolchain
	Paths       Paths
	Timeouts    Timeouts
	DefaultChip string
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Toolchain: Toolchain{
			CC:      "arm-none-eabi-gcc",
			AR:      "arm-none-eabi-ar",
			Objcopy: "arm-none-eabi-objcopy",
			Size:    "arm-none-eabi-size",
		},
		Paths: Paths{
			Build: filepath.Join("workspace", "build"),
			HAL:   filepath.Join("workspace", "hal"),
		},
		Timeouts: Timeouts{
			Probe:   5 * time.Second,
			Compile: 60 * time.Second,
			Archive: 30 * time.Second,
			Link:    120 * time.Second,
			Objcopy: 10 * time.Second,
		},
		DefaultChip: chip.DefaultChipName,
	}
}

// Load parses the HCL file at path and overlays it on the defaults. An
// empty path returns the defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(src, path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse %s: %w", path, diags)
	}

	var raw struct {
		Toolchain   *Toolchain `hcl:"toolchain,block"`
		Paths       *Paths     `hcl:"paths,block"`
		Timeouts    *timeouts  `hcl:"timeouts,block"`
		DefaultChip *string    `hcl:"default_chip,optional"`
	}
	if diags := gohcl.DecodeBody(hclFile.Body, nil, &raw); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode %s: %w", path, diags)
	}

	if raw.Toolchain != nil {
		overlayString(&cfg.Toolchain.CC, raw.Toolchain.CC)
		overlayString(&cfg.Toolchain.AR, raw.Toolchain.AR)
		overlayString(&cfg.Toolchain.Objcopy, raw.Toolchain.Objcopy)
		overlayString(&cfg.Toolchain.Size, raw.Toolchain.Size)
	}
	if raw.Paths != nil {
		overlayString(&cfg.Paths.Build, raw.Paths.Build)
		overlayString(&cfg.Paths.HAL, raw.Paths.HAL)
	}
	if raw.Timeouts != nil {
		if err := raw.Timeouts.overlay(&cfg.Timeouts); err != nil {
			return nil, fmt.Errorf("invalid timeouts block in %s: %w", path, err)
		}
	}
	if raw.DefaultChip != nil && *raw.DefaultChip != "" {
		cfg.DefaultChip = *raw.DefaultChip
	}

	return cfg, nil
}

func overlayString(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}

// timeouts captures the block body so its attributes can be decoded as
// second counts through cty, keeping the HCL surface free of duration
// string syntax.
type timeouts struct {
	Remain hcl.Body `hcl:",remain"`
}

// overlay decodes any of probe/compile/archive/link/objcopy attributes as
// integer seconds onto the defaults.
func (t *timeouts) overlay(dst *Timeouts) error {
	attrs, diags := t.Remain.JustAttributes()
	if diags.HasErrors() {
		return diags
	}

	fields := map[string]*time.Duration{
		"probe":   &dst.Probe,
		"compile": &dst.Compile,
		"archive": &dst.Archive,
		"link":    &dst.Link,
		"objcopy": &dst.Objcopy,
	}
	for name, attr := range attrs {
		field, ok := fields[name]
		if !ok {
			return fmt.Errorf("unknown timeout %q", name)
		}
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return diags
		}
		var seconds int64
		if err := gocty.FromCtyValue(val, &seconds); err != nil {
			return fmt.Errorf("timeout %q: %w", name, err)
		}
		if seconds <= 0 {
			return fmt.Errorf("timeout %q must be positive, got %d", name, seconds)
		}
		*field = time.Duration(seconds) * time.Second
	}
	return nil
}
