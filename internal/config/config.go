// Package config loads YAML queue definitions used by the ringq command and
// examples.
//
// A definition names the medium, the queue layout and the log settings:
//
//	medium:
//	  kind: local
//	  root: ~/ringq
//	queue:
//	  name: sensors.q
//	  capacity: 2048
//	  elementSize: 80
//	  autoSync: true
//	log:
//	  level: info
//	  format: json
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vnykmshr/ringq/internal/logging"
	"github.com/vnykmshr/ringq/internal/medium"
	"github.com/vnykmshr/ringq/internal/queue"
)

// Medium kinds.
const (
	MediumLocal  = "local"
	MediumMemory = "memory"
)

// Log formats.
const (
	LogText = "text"
	LogJSON = "json"
)

// Config is a queue definition.
type Config struct {
	Medium MediumConfig `yaml:"medium"`
	Queue  QueueConfig  `yaml:"queue"`
	Log    LogConfig    `yaml:"log"`
}

// MediumConfig selects the storage medium.
type MediumConfig struct {
	// Kind is "local" (default) or "memory"
	Kind string `yaml:"kind"`

	// Root is the directory of a local medium
	Root string `yaml:"root"`
}

// QueueConfig describes the queue store and its layout.
type QueueConfig struct {
	Name           string `yaml:"name"`
	Capacity       uint32 `yaml:"capacity"`
	ElementSize    uint16 `yaml:"elementSize"`
	MaxElementSize int    `yaml:"maxElementSize"`
	AutoSync       bool   `yaml:"autoSync"`
}

// LogConfig selects the logger.
type LogConfig struct {
	// Level is debug, info, warn or error; empty disables logging
	Level string `yaml:"level"`

	// Format is "text" (default) or "json"
	Format string `yaml:"format"`
}

// Load reads and validates a definition file. A leading "~" in path is
// expanded to the user's home directory.
func Load(path string) (*Config, error) {
	path, err := expandUserPath(path)
	if err != nil {
		return nil, err
	}

	b, err := os.ReadFile(path) //nolint:gosec // G304: path is supplied by the operator
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes and validates a definition. Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	cfg := &Config{}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyDefaults()
	if cfg.Medium.Kind == MediumLocal {
		root, err := expandUserPath(cfg.Medium.Root)
		if err != nil {
			return nil, err
		}
		cfg.Medium.Root = root
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Medium.Kind == "" {
		c.Medium.Kind = MediumLocal
	}
	if c.Queue.Capacity == 0 {
		c.Queue.Capacity = queue.DefaultCapacity
	}
	if c.Log.Format == "" {
		c.Log.Format = LogText
	}
}

// Validate checks the definition for consistency.
func (c *Config) Validate() error {
	switch c.Medium.Kind {
	case MediumLocal:
		if strings.TrimSpace(c.Medium.Root) == "" {
			return fmt.Errorf("medium.root is required for a local medium")
		}
	case MediumMemory:
	default:
		return fmt.Errorf("unknown medium kind: %q", c.Medium.Kind)
	}

	if err := medium.ValidateName(c.Queue.Name); err != nil {
		return fmt.Errorf("queue.name: %w", err)
	}

	if c.Log.Level != "" {
		if _, err := logging.ParseLevel(c.Log.Level); err != nil {
			return fmt.Errorf("log.level: %w", err)
		}
	}
	if c.Log.Format != LogText && c.Log.Format != LogJSON {
		return fmt.Errorf("unknown log format: %q", c.Log.Format)
	}

	opts := c.baseOptions()
	if err := opts.Validate(); err != nil {
		return fmt.Errorf("queue: %w", err)
	}
	return nil
}

// NewMedium constructs the configured medium. It is not mounted.
func (c *Config) NewMedium() medium.Medium {
	if c.Medium.Kind == MediumMemory {
		return medium.NewMemory()
	}
	return medium.NewLocal(c.Medium.Root)
}

// QueueOptions returns queue options for the definition, logging to w.
func (c *Config) QueueOptions(w io.Writer) *queue.Options {
	opts := c.baseOptions()
	opts.Logger = c.Logger(w)
	return opts
}

// Logger returns the configured logger writing to w. An empty level
// disables logging.
func (c *Config) Logger(w io.Writer) logging.Logger {
	if c.Log.Level == "" {
		return logging.NoopLogger{}
	}

	level, err := logging.ParseLevel(c.Log.Level)
	if err != nil {
		level = logging.LevelInfo
	}
	if c.Log.Format == LogJSON {
		return logging.NewJSONLogger(w, level)
	}
	return logging.NewWriterLogger(w, level)
}

func (c *Config) baseOptions() *queue.Options {
	opts := queue.DefaultOptions()
	opts.Capacity = c.Queue.Capacity
	opts.ElementSize = c.Queue.ElementSize
	opts.MaxElementSize = c.Queue.MaxElementSize
	opts.AutoSync = c.Queue.AutoSync
	return opts
}

func expandUserPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed != "~" && !strings.HasPrefix(trimmed, "~/") {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to expand %s: %w", path, err)
	}
	return filepath.Join(home, strings.TrimPrefix(trimmed, "~")), nil
}
