// Package config handles configuration loading and tasks home resolution.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Supported store backends.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// ---------------------------------------------------------------------------
// Config types
// ---------------------------------------------------------------------------

// StoreConfig selects where and how the task list is persisted.
type StoreConfig struct {
	Backend string `yaml:"backend"` // "json" | "sqlite"
	File    string `yaml:"file"`    // relative to the tasks home unless absolute
}

// TasksConfig is the root per-home configuration.
type TasksConfig struct {
	Store StoreConfig `yaml:"store"`
}

// Default returns a TasksConfig populated with sensible defaults.
func Default() *TasksConfig {
	return &TasksConfig{
		Store: StoreConfig{
			Backend: BackendJSON,
			File:    DefaultFile(BackendJSON),
		},
	}
}

// DefaultFile returns the store file name used when none is configured.
func DefaultFile(backend string) string {
	if backend == BackendSQLite {
		return "tasks.db"
	}
	return "tasks.json"
}

// Load reads a per-home config.yaml from path.
// If the file does not exist it returns Default() with no error.
// Missing keys retain their default values.
func Load(path string) (*TasksConfig, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}

	// Unmarshal into a plain map so we can apply only the keys that are present.
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("config.Load %s: %w", path, err)
	}

	if st, ok := raw["store"].(map[string]any); ok {
		if v, ok := st["backend"].(string); ok && v != "" {
			cfg.Store.Backend = strings.ToLower(strings.TrimSpace(v))
			cfg.Store.File = DefaultFile(cfg.Store.Backend)
		}
		if v, ok := st["file"].(string); ok && strings.TrimSpace(v) != "" {
			cfg.Store.File = strings.TrimSpace(v)
		}
	}

	return cfg, nil
}

// Validate reports configuration values that cannot be used.
func (c *TasksConfig) Validate() error {
	switch c.Store.Backend {
	case BackendJSON, BackendSQLite:
		return nil
	default:
		return fmt.Errorf("unknown store backend %q (want %s or %s)", c.Store.Backend, BackendJSON, BackendSQLite)
	}
}

// StorePath resolves the store file against home.
func (c *TasksConfig) StorePath(home string) string {
	file := c.Store.File
	if file == "" {
		file = DefaultFile(c.Store.Backend)
	}
	if filepath.IsAbs(file) {
		return file
	}
	return filepath.Join(home, file)
}

// ---------------------------------------------------------------------------
// Tasks home resolution
// ---------------------------------------------------------------------------

// normalizePath expands ~ and makes the path absolute.
func normalizePath(path string) (string, error) {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		path = filepath.Join(home, path[2:])
	}
	return filepath.Abs(os.ExpandEnv(path))
}

// ResolveTasksHome returns the tasks home path and the source of the resolution.
// Priority: flag → TASKS_HOME env → persisted global config → ~/.tasks
// source is one of "flag", "env", "config", or "default".
func ResolveTasksHome(flag string) (path, source string) {
	if flag != "" {
		if p, err := normalizePath(flag); err == nil {
			return p, "flag"
		}
	}

	if env := os.Getenv("TASKS_HOME"); env != "" {
		p, err := normalizePath(env)
		if err == nil {
			return p, "env"
		}
	}

	if persisted, ok, _ := GetPersistedTasksHome(); ok {
		return persisted, "config"
	}

	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".tasks"), "default"
}

// GetTasksHome returns the resolved tasks home path.
func GetTasksHome(flag string) string {
	path, _ := ResolveTasksHome(flag)
	return path
}

// ---------------------------------------------------------------------------
// Global config
// ---------------------------------------------------------------------------

const tasksHomeKey = "tasks_home"

// GlobalConfigPath returns ~/.config/tasks/config.yaml. It only carries the
// persisted tasks home; store settings live in <home>/config.yaml.
func GlobalConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "tasks", "config.yaml"), nil
}

// readGlobal returns the global config as a raw map so unrelated keys survive
// a rewrite. A missing or unparsable file reads as empty.
func readGlobal(path string) (map[string]any, error) {
	raw := make(map[string]any)
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return raw, nil
	}
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, &raw); err != nil || raw == nil {
		return make(map[string]any), nil
	}
	return raw, nil
}

// writeGlobal persists raw, deleting the file once it has no keys left.
func writeGlobal(path string, raw map[string]any) error {
	if len(raw) == 0 {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	out, err := yaml.Marshal(raw)
	if err != nil {
		return err
	}
	return os.WriteFile(path, out, 0o600)
}

// GetPersistedTasksHome reads tasks_home from the global config.
// Returns ("", false, nil) if not set.
func GetPersistedTasksHome() (string, bool, error) {
	cfgPath, err := GlobalConfigPath()
	if err != nil {
		return "", false, err
	}
	raw, err := readGlobal(cfgPath)
	if err != nil {
		return "", false, err
	}
	val, _ := raw[tasksHomeKey].(string)
	if val = strings.TrimSpace(val); val == "" {
		return "", false, nil
	}
	p, err := normalizePath(val)
	if err != nil {
		return "", false, err
	}
	return p, true, nil
}

// SetPersistedTasksHome records path as the tasks home used when neither
// --tasks-home nor TASKS_HOME is given. The path must not be a regular file,
// and a config.yaml already inside it must name a valid store; otherwise
// nothing is written. Returns the normalized path.
func SetPersistedTasksHome(path string) (string, error) {
	normalized, err := normalizePath(path)
	if err != nil {
		return "", err
	}
	if info, err := os.Stat(normalized); err == nil && !info.IsDir() {
		return "", fmt.Errorf("tasks home %s is not a directory", normalized)
	}
	cfg, err := Load(filepath.Join(normalized, "config.yaml"))
	if err != nil {
		return "", err
	}
	if err := cfg.Validate(); err != nil {
		return "", err
	}

	cfgPath, err := GlobalConfigPath()
	if err != nil {
		return "", err
	}
	raw, err := readGlobal(cfgPath)
	if err != nil {
		return "", err
	}
	raw[tasksHomeKey] = normalized
	if err := writeGlobal(cfgPath, raw); err != nil {
		return "", err
	}
	return normalized, nil
}

// ClearPersistedTasksHome removes tasks_home from the global config and
// reports whether it was set. The task store itself is never touched.
func ClearPersistedTasksHome() (bool, error) {
	cfgPath, err := GlobalConfigPath()
	if err != nil {
		return false, err
	}
	raw, err := readGlobal(cfgPath)
	if err != nil {
		return false, err
	}
	if _, ok := raw[tasksHomeKey]; !ok {
		return false, nil
	}
	delete(raw, tasksHomeKey)
	return true, writeGlobal(cfgPath, raw)
}
