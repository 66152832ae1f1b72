package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/vk/pathlab/internal/app"
	"github.com/vk/pathlab/internal/solver"
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
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("pathlab", flag.ContinueOnError)
	flagSet.SetOutput(output)

	// Custom usage/help text function
	flagSet.Usage = func() {
		fmt.Fprint(output, `
Pathlab - An interactive shortest-path visualizer and solver.

Usage:
  pathlab [options] MODE

Modes:
  serve
    Host the solver HTTP API and the socket.io canvas bridge.
  solve
    Run one algorithm headlessly on a random graph and print the results.
  watch
    Connect to a running server and mirror the canvas event stream.

Options:
`)
		flagSet.PrintDefaults()
	}

	configFlag := flagSet.String("config", "", "Path to an optional HCL config file.")
	listenFlag := flagSet.String("listen", "", "Listen address for serve mode, e.g. ':8080'.")
	solverURLFlag := flagSet.String("solver-url", "", "Base URL of the solver API.")
	algorithmFlag := flagSet.String("algorithm", "dijkstra", "Algorithm for solve mode. Options: 'dijkstra', 'a_star', 'bellman_ford', 'bidirectional'.")
	speedFlag := flagSet.Int("speed", 0, "Replay speed from 1 (slow) to 10 (fast). 0 uses the config value.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	if flagSet.NArg() == 0 {
		slog.Debug("No mode provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	mode := strings.ToLower(flagSet.Arg(0))
	switch mode {
	case "serve", "solve", "watch":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("invalid mode %q: must be 'serve', 'solve' or 'watch'", mode)}
	}
	slog.Debug("Mode determined.", "mode", mode)

	algorithm := strings.ToLower(*algorithmFlag)
	if _, ok := solver.Algorithms[algorithm]; !ok {
		return nil, false, &ExitError{Code: 2, Message: "invalid algorithm: must be 'dijkstra', 'a_star', 'bellman_ford' or 'bidirectional'"}
	}

	if *speedFlag < 0 || *speedFlag > 10 {
		return nil, false, &ExitError{Code: 2, Message: "invalid speed: must be between 1 and 10"}
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

	config := &app.Config{
		Mode:       mode,
		ConfigPath: *configFlag,
		ListenAddr: *listenFlag,
		SolverURL:  *solverURLFlag,
		Algorithm:  algorithm,
		Speed:      *speedFlag,
		LogFormat:  logFormat,
		LogLevel:   logLevel,
	}

	slog.Debug("CLI parser finished successfully.", "mode", config.Mode)
	return config, false, nil
}
