// Package config loads scenepanel settings.
//
// Settings come from three layers applied in order: built-in defaults, an
// optional TOML file, and SCENEPANEL_* environment variables. Command-line
// flags are applied by the caller on top of the result.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/scenepanel/internal/value"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "SCENEPANEL_"

// Config is the complete set of settings.
type Config struct {
	Log     LogConfig     `toml:"log"`
	History HistoryConfig `toml:"history"`
	Sink    SinkConfig    `toml:"sink"`
	Scene   SceneConfig   `toml:"scene"`
	Remote  RemoteConfig  `toml:"remote"`
	Theme   ThemeConfig   `toml:"theme"`
}

// LogConfig controls logging.
type LogConfig struct {
	Level string `toml:"level" env:"LOG_LEVEL"`
	File  string `toml:"file" env:"LOG_FILE"`
}

// HistoryConfig controls the undo stack.
type HistoryConfig struct {
	MaxEntries int `toml:"max_entries" env:"HISTORY_MAX"`
}

// SinkConfig controls the command queue.
type SinkConfig struct {
	QueueSize int `toml:"queue_size" env:"SINK_QUEUE"`
}

// SceneConfig names the scene document.
type SceneConfig struct {
	Path  string `toml:"path" env:"SCENE"`
	Watch bool   `toml:"watch" env:"SCENE_WATCH"`
}

// RemoteConfig controls the websocket front end. An empty Listen disables it.
type RemoteConfig struct {
	Listen string `toml:"listen" env:"LISTEN"`
}

// ThemeConfig controls terminal colors.
type ThemeConfig struct {
	Accent string `toml:"accent" env:"ACCENT"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Log:     LogConfig{Level: "info"},
		History: HistoryConfig{MaxEntries: 1000},
		Sink:    SinkConfig{QueueSize: 256},
		Scene:   SceneConfig{Watch: true},
		Theme:   ThemeConfig{Accent: "#008080"},
	}
}

// Loader reads configuration from a file system and an environment.
type Loader struct {
	fsys    fs.ReadFileFS
	environ map[string]string
}

// NewLoader creates a loader over the OS file system and process
// environment.
func NewLoader() *Loader {
	return &Loader{fsys: osFS{}}
}

// NewLoaderWith creates a loader over fsys and a fixed environment.
func NewLoaderWith(fsys fs.ReadFileFS, environ map[string]string) *Loader {
	return &Loader{fsys: fsys, environ: environ}
}

// Load returns defaults overlaid with the file at path and the environment.
// A missing or empty path is not an error.
func (l *Loader) Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := l.fsys.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return cfg, fmt.Errorf("reading config file %s: %w", path, err)
		default:
			if err := toml.Unmarshal(data, &cfg); err != nil {
				return cfg, &ParseError{Path: path, Err: err}
			}
		}
	}

	opts := env.Options{Prefix: EnvPrefix, Environment: l.environ}
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return cfg, fmt.Errorf("%w: %w", ErrEnv, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Load is a convenience for NewLoader().Load(path).
func Load(path string) (Config, error) {
	return NewLoader().Load(path)
}

// Validate checks settings for consistency.
func (c Config) Validate() error {
	var errs []error
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Errorf("%w: log.level %q", ErrInvalid, c.Log.Level))
	}
	if c.History.MaxEntries <= 0 {
		errs = append(errs, fmt.Errorf("%w: history.max_entries must be positive", ErrInvalid))
	}
	if c.Sink.QueueSize <= 0 {
		errs = append(errs, fmt.Errorf("%w: sink.queue_size must be positive", ErrInvalid))
	}
	if _, err := c.Theme.AccentColor(); err != nil {
		errs = append(errs, fmt.Errorf("%w: theme.accent: %w", ErrInvalid, err))
	}
	return errors.Join(errs...)
}

// AccentColor parses the accent color.
func (t ThemeConfig) AccentColor() (value.Color, error) {
	return value.ParseColor(t.Accent)
}

type osFS struct{}

func (osFS) Open(name string) (fs.File, error) { return os.Open(name) }

func (osFS) ReadFile(name string) ([]byte, error) { return os.ReadFile(name) }
