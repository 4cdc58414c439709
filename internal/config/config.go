package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/afero"
)

const (
	DefaultConfigFileName = "config.toml"
	DefaultDBName         = "todo.db"
	DefaultLogName        = "todo.log"
	appDirName            = "todo"
)

type Keymap struct {
	Quit         string `toml:"quit" validate:"required"`
	Add          string `toml:"add" validate:"required"`
	Up           string `toml:"up" validate:"required"`
	Down         string `toml:"down" validate:"required"`
	Toggle       string `toml:"toggle" validate:"required"`
	Delete       string `toml:"delete" validate:"required"`
	Edit         string `toml:"edit" validate:"required"`
	Grab         string `toml:"grab" validate:"required"`
	Confirm      string `toml:"confirm" validate:"required"`
	Cancel       string `toml:"cancel" validate:"required"`
	NextFilter   string `toml:"next_filter" validate:"required"`
	NextTheme    string `toml:"next_theme" validate:"required"`
	ShowAll      string `toml:"show_all" validate:"required"`
	ShowActive   string `toml:"show_active" validate:"required"`
	ShowComplete string `toml:"show_completed" validate:"required"`
}

type Config struct {
	DBPath   string `toml:"db_path" validate:"required"`
	LogPath  string `toml:"log_path"`
	LogLevel string `toml:"log_level" validate:"omitempty,oneof=debug info warn error"`
	// Theme applies only until a theme is picked in the app.
	Theme string `toml:"theme" validate:"omitempty,oneof=light dark"`
	Keys  Keymap `toml:"keys"`
}

var validate = validator.New()

// ResolveConfigPath returns the per-user config file location, falling back
// to the working directory when no user config dir is available.
func ResolveConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return DefaultConfigFileName
	}
	return filepath.Join(dir, appDirName, DefaultConfigFileName)
}

// LoadOrCreate reads the config at path, writing the defaults there first
// when the file does not exist yet. Relative db and log paths resolve
// against the config file's directory.
func LoadOrCreate(fs afero.Fs, path string) (Config, error) {
	cfg := Default()
	exists, err := afero.Exists(fs, path)
	if err != nil {
		return cfg, err
	}
	if !exists {
		if err := write(fs, path, cfg); err != nil {
			return cfg, fmt.Errorf("write default config: %w", err)
		}
		return cfg.resolve(filepath.Dir(path)), nil
	}

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	if cfg.DBPath == "" {
		cfg.DBPath = DefaultDBName
	}
	if err := Validate(cfg); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg.resolve(filepath.Dir(path)), nil
}

func Validate(cfg Config) error {
	err := validate.Struct(cfg)
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		msgs = append(msgs, fmt.Sprintf("field '%s' failed rule '%s' (value: '%v')", e.Namespace(), e.Tag(), e.Value()))
	}
	return errors.New(strings.Join(msgs, "; "))
}

// SlogLevel maps LogLevel onto slog; unknown or empty means info.
func (c Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (c Config) resolve(base string) Config {
	if !filepath.IsAbs(c.DBPath) && !strings.HasPrefix(c.DBPath, "file:") {
		c.DBPath = filepath.Join(base, c.DBPath)
	}
	if c.LogPath != "" && !filepath.IsAbs(c.LogPath) {
		c.LogPath = filepath.Join(base, c.LogPath)
	}
	return c
}

func write(fs afero.Fs, path string, cfg Config) error {
	if err := fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return afero.WriteFile(fs, path, data, 0o644)
}

// Default is the configuration written on first launch.
func Default() Config {
	return Config{
		DBPath:   DefaultDBName,
		LogPath:  DefaultLogName,
		LogLevel: "info",
		Theme:    "light",
		Keys: Keymap{
			Quit:         "q",
			Add:          "a",
			Up:           "k",
			Down:         "j",
			Toggle:       " ",
			Delete:       "d",
			Edit:         "e",
			Grab:         "m",
			Confirm:      "enter",
			Cancel:       "esc",
			NextFilter:   "f",
			NextTheme:    "t",
			ShowAll:      "1",
			ShowActive:   "2",
			ShowComplete: "3",
		},
	}
}
