package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
)

// Source represents where the resolved todo file path came from.
type Source string

const (
	SourceCLI     Source = "cli"
	SourceEnv     Source = "env"
	SourceConfig  Source = "config"
	SourceDefault Source = "default"
)

// EnvVar is the environment variable that overrides the todo file path.
const EnvVar = "TASQ_FILE"

// File is the on-disk shape of config.toml.
type File struct {
	TodoFile   string `toml:"todo_file"`
	SchemaFile string `toml:"schema_file,omitempty"`
	LogLevel   string `toml:"log_level,omitempty"`
	LogFormat  string `toml:"log_format,omitempty"`
}

// Settings holds the resolved todo file path with its provenance, plus the
// optional keys carried along from the config file.
type Settings struct {
	TodoFile   string
	Source     Source
	SchemaFile string
	LogLevel   string
	LogFormat  string
}

// SourceDescription returns a human-readable description of the source.
func (s *Settings) SourceDescription() string {
	switch s.Source {
	case SourceCLI:
		return "CLI option (--file)"
	case SourceEnv:
		return fmt.Sprintf("Environment variable (%s)", EnvVar)
	case SourceConfig:
		return fmt.Sprintf("Config file (%s)", Path())
	case SourceDefault:
		return "Default"
	}
	return string(s.Source)
}

// Resolve resolves the todo file path. cliPath is the value of the --file
// flag, or empty. Resolution never fails: an unreadable or malformed
// config file is treated as absent.
func Resolve(cliPath string) *Settings {
	file := readFile()
	s := &Settings{
		SchemaFile: file.SchemaFile,
		LogLevel:   file.LogLevel,
		LogFormat:  file.LogFormat,
	}

	switch {
	case cliPath != "":
		s.TodoFile = absPath(cliPath)
		s.Source = SourceCLI
	case os.Getenv(EnvVar) != "":
		s.TodoFile = absPath(os.Getenv(EnvVar))
		s.Source = SourceEnv
	case file.TodoFile != "":
		s.TodoFile = absPath(file.TodoFile)
		s.Source = SourceConfig
	default:
		s.TodoFile = defaultPath()
		s.Source = SourceDefault
	}
	return s
}

// Path returns the config file path.
func Path() string {
	if runtime.GOOS == "windows" {
		if appdata := os.Getenv("APPDATA"); appdata != "" {
			return filepath.Join(appdata, "tasq", "config.toml")
		}
	} else if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "tasq", "config.toml")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".config", "tasq", "config.toml")
	}
	return filepath.Join(home, ".config", "tasq", "config.toml")
}

// Save persists the todo file path to the config file, creating its
// directory if needed. Other keys already present in the file are kept.
func Save(todoFile string) error {
	path := Path()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	file := readFile()
	file.TodoFile = todoFile

	fh, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create config file: %w", err)
	}
	defer fh.Close()

	if err := toml.NewEncoder(fh).Encode(file); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// readFile loads config.toml, returning an empty File when the file is
// missing or malformed.
func readFile() File {
	var file File
	if _, err := toml.DecodeFile(Path(), &file); err != nil {
		return File{}
	}
	return file
}

// defaultPath prefers ./todo.txt when it already exists, otherwise the
// home directory todo.txt.
func defaultPath() string {
	local := "todo.txt"
	if _, err := os.Stat(local); err == nil {
		return absPath(local)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return absPath(local)
	}
	return filepath.Join(home, "todo.txt")
}

func absPath(p string) string {
	abs, err := filepath.Abs(p)
	if err != nil {
		return p
	}
	return abs
}
