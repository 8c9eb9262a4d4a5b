package app

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/flashtalk/fwbuild/internal/config"
	"github.com/flashtalk/fwbuild/internal/engine"
	"github.com/flashtalk/fwbuild/internal/toolchain"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	engine *engine.Engine
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance with its own isolated logger and build engine.
// Critical startup problems (unreadable config, unwritable build dir) are
// fatal and panic; the entrypoint recovers them into a clean exit.
func NewApp(outW io.Writer, appConfig *Config, runner toolchain.Runner) *App {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, outW)
	logger.Debug("Logger configured successfully.")

	engineConfig, err := config.Load(appConfig.ConfigPath)
	if err != nil {
		panic(fmt.Errorf("failed to load configuration: %w", err))
	}
	logger.Debug("Engine configuration loaded.",
		"cc", engineConfig.Toolchain.CC,
		"build_dir", engineConfig.Paths.Build,
		"hal_dir", engineConfig.Paths.HAL,
		"default_chip", engineConfig.DefaultChip)

	if runner == nil {
		runner = toolchain.NewExecRunner()
	}
	eng, err := engine.New(engineConfig, runner)
	if err != nil {
		panic(fmt.Errorf("failed to initialize build engine: %w", err))
	}
	logger.Debug("Build engine initialized.")

	return &App{
		outW:   outW,
		logger: logger,
		engine: eng,
	}
}

// Engine returns the application's build engine. This is primarily for testing.
func (a *App) Engine() *engine.Engine {
	return a.engine
}
