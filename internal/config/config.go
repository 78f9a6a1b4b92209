// internal/config/config.go
//
// This package handles configuration and the .todo directory structure.
// The first start in a directory creates .todo/ with a commented
// config.yaml; the task list itself stays in tasks.txt next to it.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"github.com/kingrea/todo/internal/task"
)

const (
	// TodoDir is the name of the directory we create in the working directory
	TodoDir = ".todo"

	defaultTasksFile    = "tasks.txt"
	defaultLogLevel     = "info"
	defaultJournalLines = 4
)

const defaultConfigYAML = `# to-do configuration
version: 1

# Where the task list is stored, relative to this directory's parent.
tasks_file: tasks.txt

defaults:
  # Initial value of the priority selector: High, Medium or Low.
  priority: Medium

logging:
  # debug, info, warn or error. Written to .todo/logs/todo.log.
  level: info

ui:
  # Show the most recent activity below the task list.
  show_journal: true
  journal_lines: 4
`

// Defaults holds the initial values of the entry form.
type Defaults struct {
	Priority string `yaml:"priority"`
}

// LoggingConfig controls the diagnostic log.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// UIConfig controls optional panels.
type UIConfig struct {
	ShowJournal  *bool `yaml:"show_journal,omitempty"`
	JournalLines int   `yaml:"journal_lines"`
}

// FileConfig models .todo/config.yaml.
type FileConfig struct {
	Version   int           `yaml:"version"`
	TasksFile string        `yaml:"tasks_file"`
	Defaults  Defaults      `yaml:"defaults"`
	Logging   LoggingConfig `yaml:"logging"`
	UI        UIConfig      `yaml:"ui"`
}

// Config holds the runtime configuration.
type Config struct {
	// WorkDir is the directory the program was started from
	WorkDir string

	// TodoDir is WorkDir/.todo
	TodoDir string

	File FileConfig
}

// InitDir creates the .todo directory structure in the given directory.
//
// Structure created:
// .todo/
// ├── config.yaml
// └── logs/         <- todo.log (diagnostics) and journal.log (activity)
func InitDir(workDir string) error {
	todoDir := filepath.Join(workDir, TodoDir)
	if err := os.MkdirAll(filepath.Join(todoDir, "logs"), 0o755); err != nil {
		return err
	}
	return ensureConfigFile(filepath.Join(todoDir, "config.yaml"))
}

// New builds a Config for workDir, reading .todo/config.yaml when present.
func New(workDir string) (*Config, error) {
	cfg := &Config{
		WorkDir: workDir,
		TodoDir: filepath.Join(workDir, TodoDir),
		File:    defaultFileConfig(),
	}
	cfg.File.normalize(workDir)
	if err := cfg.load(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ConfigPath returns the on-disk location for the config file.
func (c *Config) ConfigPath() string {
	return filepath.Join(c.TodoDir, "config.yaml")
}

// LogsDir returns the path to the logs directory
func (c *Config) LogsDir() string {
	return filepath.Join(c.TodoDir, "logs")
}

// LogPath returns the diagnostic log file.
func (c *Config) LogPath() string {
	return filepath.Join(c.LogsDir(), "todo.log")
}

// JournalPath returns the activity journal file.
func (c *Config) JournalPath() string {
	return filepath.Join(c.LogsDir(), "journal.log")
}

// TasksPath returns the absolute path of the task list file.
func (c *Config) TasksPath() string {
	return c.File.TasksFile
}

// DefaultPriority returns the initial priority of the entry form.
func (c *Config) DefaultPriority() task.Priority {
	p, ok := task.ParsePriority(c.File.Defaults.Priority)
	if !ok {
		return task.PriorityMedium
	}
	return p
}

// LogLevel returns the configured diagnostic log level.
func (c *Config) LogLevel() log.Level {
	level, err := log.ParseLevel(c.File.Logging.Level)
	if err != nil {
		return log.InfoLevel
	}
	return level
}

// ShowJournal reports whether the activity panel is visible.
func (c *Config) ShowJournal() bool {
	if c.File.UI.ShowJournal == nil {
		return true
	}
	return *c.File.UI.ShowJournal
}

// JournalLines returns how many activity lines the panel shows.
func (c *Config) JournalLines() int {
	return c.File.UI.JournalLines
}

func (c *Config) load() error {
	path := c.ConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: read %s: %w", path, err)
	}

	parsed := defaultFileConfig()
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}

	parsed.applyDefaults()
	parsed.normalize(c.WorkDir)
	if err := parsed.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	c.File = parsed
	return nil
}

func defaultFileConfig() FileConfig {
	return FileConfig{
		Version:   1,
		TasksFile: defaultTasksFile,
		Defaults:  Defaults{Priority: string(task.PriorityMedium)},
		Logging:   LoggingConfig{Level: defaultLogLevel},
		UI:        UIConfig{JournalLines: defaultJournalLines},
	}
}

func (fc *FileConfig) applyDefaults() {
	if fc.Version == 0 {
		fc.Version = 1
	}
	if strings.TrimSpace(fc.TasksFile) == "" {
		fc.TasksFile = defaultTasksFile
	}
	if strings.TrimSpace(fc.Defaults.Priority) == "" {
		fc.Defaults.Priority = string(task.PriorityMedium)
	}
	if strings.TrimSpace(fc.Logging.Level) == "" {
		fc.Logging.Level = defaultLogLevel
	}
}

func (fc *FileConfig) normalize(base string) {
	fc.TasksFile = resolvePath(base, fc.TasksFile)
	if p, ok := task.ParsePriority(fc.Defaults.Priority); ok {
		fc.Defaults.Priority = string(p)
	}
	fc.Logging.Level = strings.ToLower(strings.TrimSpace(fc.Logging.Level))
}

func (fc *FileConfig) validate() error {
	if fc.Version < 1 {
		return fmt.Errorf("config version must be >= 1")
	}
	if _, ok := task.ParsePriority(fc.Defaults.Priority); !ok {
		return fmt.Errorf("defaults.priority must be High, Medium or Low")
	}
	if _, err := log.ParseLevel(fc.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	if fc.UI.JournalLines < 0 {
		return fmt.Errorf("ui.journal_lines must be >= 0")
	}
	return nil
}

func resolvePath(base, candidate string) string {
	trimmed := strings.TrimSpace(candidate)
	if trimmed == "" {
		return ""
	}
	if filepath.IsAbs(trimmed) {
		return filepath.Clean(trimmed)
	}
	return filepath.Clean(filepath.Join(base, trimmed))
}

func ensureConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}
