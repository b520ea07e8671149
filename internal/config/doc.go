// Package config resolves the todo.txt file path.
//
// The path is resolved from multiple sources in priority order:
// 1. CLI flag (--file)
// 2. Environment variable (TASQ_FILE)
// 3. Config file (config.toml, todo_file key)
// 4. Default (./todo.txt if it exists, otherwise ~/todo.txt)
//
// The winning source is reported alongside the path so commands can show
// where the path came from.
//
// Config file locations:
// - Windows: %APPDATA%\tasq\config.toml
// - Linux/BSD/macOS: $XDG_CONFIG_HOME/tasq/config.toml or ~/.config/tasq/config.toml
package config
