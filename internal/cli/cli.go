package cli

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/flashtalk/fwbuild/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated app.Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	flagSet := flag.NewFlagSet("fwbuild", flag.ContinueOnError)
	flagSet.SetOutput(output)

	// Custom usage/help text function
	flagSet.Usage = func() {
		fmt.Fprint(output, `
fwbuild - STM32 target configuration and incremental firmware builds.

Usage:
  fwbuild [options] SOURCE.c

Arguments:
  SOURCE.c
    Path to the C source file to compile for the target chip.

Options:
`)
		flagSet.PrintDefaults()
	}

	chipFlag := flagSet.String("chip", "", "Target chip model, e.g. 'STM32F103C8T6'. Defaults to the configured chip.")
	configFlag := flagSet.String("config", "", "Path to an HCL engine configuration file.")
	checkFlag := flagSet.Bool("check", false, "Probe the toolchain/HAL environment and warm the HAL cache, then exit.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	sourcePath := ""
	if flagSet.NArg() > 0 {
		sourcePath = flagSet.Arg(0)
	}

	if sourcePath == "" && !*checkFlag {
		flagSet.Usage()
		return nil, true, nil
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	config, err := app.NewConfig(app.Config{
		SourcePath: sourcePath,
		ChipName:   *chipFlag,
		ConfigPath: *configFlag,
		CheckOnly:  *checkFlag,
		LogFormat:  logFormat,
		LogLevel:   logLevel,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	return config, false, nil
}
