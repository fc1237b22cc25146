package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/vk/rescomp/internal/app"
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

// Parse processes command-line arguments. It returns a populated Config, a
// boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("rescomp", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
rescomp - compiles declarative resource descriptions into Go source.

Usage:
  rescomp [options] [RES_PATH]

Arguments:
  RES_PATH
    Path to a single .res.hcl file or a directory containing them.

Options:
`)
		flagSet.PrintDefaults()
	}

	resFlag := flagSet.String("res", "", "Path to the resource file or directory.")
	outFlag := flagSet.String("out", "gen", "Directory receiving the generated source files.")
	profileFlag := flagSet.String("profile", "", "Active profile for profile-qualified resources.")
	duplicatesFlag := flagSet.String("duplicates", "warn", "Duplicate key handling. Options: 'warn' or 'error'.")
	includeTestFlag := flagSet.Bool("include-test", false, "Include test-scoped resource files.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	path := *resFlag
	if path == "" && flagSet.NArg() > 0 {
		path = flagSet.Arg(0)
	}
	if path == "" {
		slog.Debug("No resource path provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	duplicates := strings.ToLower(*duplicatesFlag)
	if duplicates != "warn" && duplicates != "error" {
		return nil, false, &ExitError{Code: 2, Message: "invalid duplicates: must be 'warn' or 'error'"}
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
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		ResPath:            path,
		OutputDir:          *outFlag,
		Profile:            *profileFlag,
		DuplicatesAreFatal: duplicates == "error",
		IncludeTest:        *includeTestFlag,
		LogFormat:          logFormat,
		LogLevel:           logLevel,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
