// Package cmd implements the CLI command structure for tasq.
package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/tasq-sh/tasq/internal/config"
	"github.com/tasq-sh/tasq/internal/logging"
	"github.com/tasq-sh/tasq/internal/storage"
)

// Version is set via ldflags at build time.
var Version = "dev"

// errExit signals a non-zero exit where the message was already printed.
var errExit = errors.New("exit status 1")

// IsExitError reports whether err only carries an exit status, with the
// user-facing message already written.
func IsExitError(err error) bool {
	return errors.Is(err, errExit)
}

// app carries the resolved settings and output streams for one invocation.
type app struct {
	settings *config.Settings
	stdout   io.Writer
	stderr   io.Writer
	logger   *log.Logger
	jsonOut  bool
}

// Run executes the tasq CLI.
func Run(ctx context.Context, args []string) error {
	return run(ctx, args, os.Stdout, os.Stderr)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("tasq", flag.ContinueOnError)
	fs.Usage = func() {
		printUsage(fs, stderr)
	}
	fs.SetOutput(stderr)

	var filePath string
	fs.StringVar(&filePath, "file", "", "Path to the todo.txt file")
	fs.StringVar(&filePath, "f", "", "Path to the todo.txt file (shorthand)")
	var jsonOut bool
	fs.BoolVar(&jsonOut, "json", false, "Output in JSON format")
	fs.BoolVar(&jsonOut, "j", false, "Output in JSON format (shorthand)")
	var verbose bool
	fs.BoolVar(&verbose, "verbose", false, "Show verbose output")
	fs.BoolVar(&verbose, "v", false, "Show verbose output (shorthand)")
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "V", false, "Show version")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if *help {
		printUsage(fs, stdout)
		return nil
	}

	settings := config.Resolve(filePath)
	a := &app{
		settings: settings,
		stdout:   stdout,
		stderr:   stderr,
		jsonOut:  jsonOut,
		logger: logging.New(stderr, logging.Options{
			Level:   settings.LogLevel,
			Format:  settings.LogFormat,
			Verbose: verbose,
		}),
	}

	if *showVersion {
		return a.versionCommand()
	}

	remaining := fs.Args()
	if len(remaining) == 0 {
		printUsage(fs, stdout)
		return nil
	}
	subcommand := remaining[0]
	remaining = remaining[1:]

	a.logger.Debug("resolved todo file", "path", settings.TodoFile, "source", settings.Source)

	switch subcommand {
	case "task":
		return a.taskCommand(ctx, remaining)
	case "config":
		return a.configCommand(remaining)
	case "tui":
		return a.tuiCommand(ctx)
	case "version":
		return a.versionCommand()
	case "help":
		printUsage(fs, stdout)
		return nil
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", subcommand)
		printUsage(fs, stderr)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

// todoFile returns the storage handle for the resolved path.
func (a *app) todoFile() *storage.TodoFile {
	return storage.New(a.settings.TodoFile, a.logger)
}

func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "tasq - A todo.txt-compatible FIFO queue task management tool")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  tasq [options] <command> [arguments]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  task in TEXT       Add a new task to the end of the queue")
	fmt.Fprintln(w, "  task next          Show the next incomplete task")
	fmt.Fprintln(w, "  task done          Mark the next incomplete task as complete")
	fmt.Fprintln(w, "  task list          List tasks in queue order")
	fmt.Fprintln(w, "  task skip          Move the next task to the back of the queue")
	fmt.Fprintln(w, "  task import FILE   Append tasks from a JSON file")
	fmt.Fprintln(w, "  config path        Show the resolved todo.txt path")
	fmt.Fprintln(w, "  config set-path P  Save the default todo.txt path")
	fmt.Fprintln(w, "  tui                Launch the terminal queue viewer")
	fmt.Fprintln(w, "  version            Show version information")
	fmt.Fprintln(w, "  help               Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
}

func (a *app) versionCommand() error {
	if a.jsonOut {
		return a.printJSON(map[string]string{"version": Version})
	}
	fmt.Fprintf(a.stdout, "tasq version %s\n", Version)
	return nil
}

// printJSON writes v to stdout as a single JSON line.
func (a *app) printJSON(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	fmt.Fprintln(a.stdout, string(data))
	return nil
}

// splitCommand pops the next subcommand off the argument list.
func splitCommand(args []string) (string, []string) {
	if len(args) == 0 {
		return "", nil
	}
	return strings.TrimSpace(args[0]), args[1:]
}
