package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/tasq-sh/tasq/internal/config"
)

func (a *app) configCommand(args []string) error {
	sub, rest := splitCommand(args)
	switch sub {
	case "path":
		return a.configPath()
	case "set-path":
		return a.configSetPath(rest)
	case "":
		fmt.Fprintln(a.stderr, "Usage: tasq config <path|set-path>")
		return errExit
	default:
		fmt.Fprintf(a.stderr, "Unknown config command: %s\n", sub)
		return fmt.Errorf("unknown config command: %s", sub)
	}
}

// configPath shows where the todo file resolves to and why.
func (a *app) configPath() error {
	s := a.settings
	exists := false
	if _, err := os.Stat(s.TodoFile); err == nil {
		exists = true
	}

	if a.jsonOut {
		return a.printJSON(map[string]any{
			"path":               s.TodoFile,
			"source":             string(s.Source),
			"source_description": s.SourceDescription(),
			"exists":             exists,
		})
	}

	fmt.Fprintf(a.stdout, "Path: %s\n", s.TodoFile)
	fmt.Fprintf(a.stdout, "Source: %s\n", s.SourceDescription())
	existsStr := "No"
	if exists {
		existsStr = "Yes"
	}
	fmt.Fprintf(a.stdout, "Exists: %s\n", existsStr)
	return nil
}

// configSetPath persists the default todo file path in the config file.
func (a *app) configSetPath(args []string) error {
	if len(args) != 1 {
		fmt.Fprintln(a.stderr, "Usage: tasq config set-path PATH")
		return errExit
	}

	path, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	if err := config.Save(path); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	if a.jsonOut {
		return a.printJSON(map[string]string{
			"path":        path,
			"config_file": config.Path(),
		})
	}
	fmt.Fprintf(a.stdout, "Configuration saved: %s\n", path)
	fmt.Fprintf(a.stdout, "Config file: %s\n", config.Path())
	return nil
}
