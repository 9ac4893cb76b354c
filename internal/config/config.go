package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"github.com/ramanasai/freeflow/internal/timefmt"
)

const envPrefix = "FREEFLOW"

type TimerConfig struct {
	Duration string `mapstructure:"duration"` // "15:00"
}

type EditorConfig struct {
	Font string `mapstructure:"font"`
	Size int    `mapstructure:"size"`
}

type NotificationConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

type LogConfig struct {
	Level string `mapstructure:"level"` // debug|info|warn|error
}

type EncryptionConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

type Config struct {
	DataDir       string             `mapstructure:"data_dir"`
	AutosaveDelay time.Duration      `mapstructure:"autosave_delay"`
	Timer         TimerConfig        `mapstructure:"timer"`
	Editor        EditorConfig       `mapstructure:"editor"`
	Notifications NotificationConfig `mapstructure:"notifications"`
	Log           LogConfig          `mapstructure:"log"`
	Encryption    EncryptionConfig   `mapstructure:"encryption"`

	// Passphrase only comes from FREEFLOW_PASSPHRASE.
	Passphrase string `mapstructure:"-"`
}

func Default() Config {
	return Config{
		DataDir:       "~/.local/share/freeflow",
		AutosaveDelay: 750 * time.Millisecond,
		Timer:         TimerConfig{Duration: "15:00"},
		Editor:        EditorConfig{Font: "Lato", Size: 18},
		Notifications: NotificationConfig{Enabled: true},
		Log:           LogConfig{Level: "info"},
	}
}

func xdgConfigPath() (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(home, ".config", "freeflow")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load reads ~/.config/freeflow/config.yaml. A missing file leaves the defaults.
func Load() (Config, error) {
	path, err := xdgConfigPath()
	if err != nil {
		return Default(), err
	}
	return LoadFile(path)
}

// LoadFile reads the config at path, then applies FREEFLOW_* overrides.
func LoadFile(path string) (Config, error) {
	cfg := Default()

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile(path)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("data_dir", cfg.DataDir)
	v.SetDefault("autosave_delay", cfg.AutosaveDelay)
	v.SetDefault("timer.duration", cfg.Timer.Duration)
	v.SetDefault("editor.font", cfg.Editor.Font)
	v.SetDefault("editor.size", cfg.Editor.Size)
	v.SetDefault("notifications.enabled", cfg.Notifications.Enabled)
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("encryption.enabled", cfg.Encryption.Enabled)

	if err := v.ReadInConfig(); err != nil && !os.IsNotExist(err) {
		if _, missing := err.(viper.ConfigFileNotFoundError); !missing {
			return cfg, fmt.Errorf("config read: %w", err)
		}
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("config unmarshal: %w", err)
	}
	cfg.Passphrase = v.GetString("passphrase")

	dir, err := homedir.Expand(strings.TrimSpace(cfg.DataDir))
	if err != nil {
		return cfg, fmt.Errorf("config data_dir: %w", err)
	}
	cfg.DataDir = dir
	if cfg.AutosaveDelay <= 0 {
		cfg.AutosaveDelay = Default().AutosaveDelay
	}
	return cfg, nil
}

// TimerSeconds is the configured countdown length. Malformed values fall back
// to fifteen minutes.
func (c Config) TimerSeconds() int {
	return timefmt.Parse(c.Timer.Duration)
}

// LogPath is where the TUI writes its log.
func (c Config) LogPath() string {
	return filepath.Join(c.DataDir, "freeflow.log")
}
