package app

import (
	"context"
	"fmt"
	"os"

	"github.com/flashtalk/fwbuild/internal/ctxlog"
)

// Run executes the requested engine command: an environment check, or a
// set-chip/compile cycle for the given source file.
func (a *App) Run(ctx context.Context, appConfig *Config) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	if appConfig.CheckOnly {
		return a.runCheck(ctx, appConfig)
	}
	return a.runCompile(ctx, appConfig)
}

func (a *App) runCheck(ctx context.Context, appConfig *Config) error {
	status, err := a.engine.Check(ctx, appConfig.ChipName)
	if err != nil {
		return fmt.Errorf("environment check failed: %w", err)
	}

	fmt.Fprintf(a.outW, "chip:        %s (%s, %dKB flash, %dKB RAM)\n",
		status.Chip.Name, status.Chip.Core, status.Chip.FlashKB, status.Chip.RAMKB)
	if status.Unrecognized {
		fmt.Fprintf(a.outW, "             (requested chip was not recognized; using default)\n")
	}
	fmt.Fprintf(a.outW, "gcc:         %v", status.GCC)
	if status.GCCVersion != "" {
		fmt.Fprintf(a.outW, " (%s)", status.GCCVersion)
	}
	fmt.Fprintln(a.outW)
	fmt.Fprintf(a.outW, "specs:       %v\n", status.Specs)
	fmt.Fprintf(a.outW, "hal:         %v\n", status.HAL)
	fmt.Fprintf(a.outW, "hal archive: %v\n", status.HALArchive)
	return nil
}

func (a *App) runCompile(ctx context.Context, appConfig *Config) error {
	source, err := os.ReadFile(appConfig.SourcePath)
	if err != nil {
		return fmt.Errorf("failed to read source file: %w", err)
	}

	if appConfig.ChipName != "" {
		if _, err := a.engine.SetChip(ctx, appConfig.ChipName); err != nil {
			return fmt.Errorf("failed to configure target chip: %w", err)
		}
	}

	result := a.engine.Compile(ctx, string(source))
	if !result.OK {
		return fmt.Errorf("compilation failed:\n%s", result.Message)
	}

	fmt.Fprintln(a.outW, result.Message)
	if result.BinaryPath != "" {
		fmt.Fprintf(a.outW, "binary: %s (%d bytes)\n", result.BinaryPath, result.BinarySize)
	}
	a.logger.Debug("App.Run method finished.")
	return nil
}
