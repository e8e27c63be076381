package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Logging  LoggingConfig   `yaml:"logging"`
	Poll     PollConfig      `yaml:"poll"`
	History  *HistoryConfig  `yaml:"history,omitempty"`
	Telegram *TelegramConfig `yaml:"telegram,omitempty"`
	Tasks    []TaskConfig    `yaml:"tasks"`
}

type LoggingConfig struct {
	Level   string     `yaml:"level"`
	Console *bool      `yaml:"console,omitempty"`
	File    FileConfig `yaml:"file"`
}

type FileConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// PollConfig controls the scheduler loop.
//
// Durations are Go duration strings (e.g. "500ms", "1s").
type PollConfig struct {
	Interval         string `yaml:"interval"`
	FailureLogPerSec int    `yaml:"failure_log_per_sec"`
}

type HistoryConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

type TelegramConfig struct {
	Token  string `yaml:"token"`
	ChatID int64  `yaml:"chat_id"`
}

// TaskConfig is one entry of the tasks list.
//
// Enabled is a pointer so we can distinguish "omitted" (default true)
// from an explicit false.
type TaskConfig struct {
	Name        string         `yaml:"name"`
	Schedule    string         `yaml:"schedule"`
	Action      string         `yaml:"action"`
	Description string         `yaml:"description,omitempty"`
	Enabled     *bool          `yaml:"enabled,omitempty"`
	Parameters  map[string]any `yaml:"parameters,omitempty"`
}

func (t TaskConfig) IsEnabled() bool { return t.Enabled == nil || *t.Enabled }

// ConsoleEnabled defaults to true when the field is omitted.
func (l LoggingConfig) ConsoleEnabled() bool { return l.Console == nil || *l.Console }

// PollInterval returns the parsed interval, or 1s when unset.
func (p PollConfig) PollInterval() (time.Duration, error) {
	s := strings.TrimSpace(p.Interval)
	if s == "" {
		return time.Second, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("%w: poll.interval %q: %v", ErrInvalidConfig, p.Interval, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%w: poll.interval must be positive, got %q", ErrInvalidConfig, p.Interval)
	}
	return d, nil
}

func Parse(data []byte) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", ErrInvalidConfig)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	// reject trailing documents (e.g. concatenated YAML)
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing document", ErrInvalidConfig)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(b)
}

func (c *Config) Validate() error {
	if _, err := c.Poll.PollInterval(); err != nil {
		return err
	}
	if c.History != nil && c.History.Enabled && strings.TrimSpace(c.History.Path) == "" {
		return fmt.Errorf("%w: history.path is required when history is enabled", ErrInvalidConfig)
	}
	seen := make(map[string]int, len(c.Tasks))
	for i, t := range c.Tasks {
		if strings.TrimSpace(t.Name) == "" {
			return fmt.Errorf("%w: tasks[%d].name is required", ErrInvalidConfig, i)
		}
		if strings.TrimSpace(t.Schedule) == "" {
			return fmt.Errorf("%w: tasks[%d] (%s): schedule is required", ErrInvalidConfig, i, t.Name)
		}
		if strings.TrimSpace(t.Action) == "" {
			return fmt.Errorf("%w: tasks[%d] (%s): action is required", ErrInvalidConfig, i, t.Name)
		}
		if j, dup := seen[t.Name]; dup {
			return fmt.Errorf("%w: tasks[%d] and tasks[%d] share the name %q", ErrInvalidConfig, j, i, t.Name)
		}
		seen[t.Name] = i
	}
	return nil
}
