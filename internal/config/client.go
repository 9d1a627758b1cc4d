package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"focustrack/internal/engine"
	"focustrack/internal/model"
)

const clientEnvPrefix = "FOCUSTRACK"

// ClientConfig is the terminal client's configuration.
type ClientConfig struct {
	ServerURL            string        `mapstructure:"server_url"`
	Token                string        `mapstructure:"token"`
	StateDir             string        `mapstructure:"state_dir"`
	Timezone             string        `mapstructure:"timezone"`
	WorkDuration         time.Duration `mapstructure:"work_duration"`
	ShortBreakDuration   time.Duration `mapstructure:"short_break_duration"`
	LongBreakDuration    time.Duration `mapstructure:"long_break_duration"`
	CyclesUntilLongBreak int           `mapstructure:"cycles_until_long_break"`
	EmitTimeout          time.Duration `mapstructure:"emit_timeout"`
}

// ClientHome is ~/.focustrack, or the working directory when there is no
// home directory.
func ClientHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".focustrack"
	}
	return filepath.Join(home, ".focustrack")
}

func ClientConfigPath() string {
	return filepath.Join(ClientHome(), "config.yaml")
}

func newClientViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetDefault("server_url", "http://localhost:8080")
	v.SetDefault("token", "")
	v.SetDefault("state_dir", ClientHome())
	v.SetDefault("timezone", "Local")
	v.SetDefault("work_duration", time.Duration(model.DefaultWorkDurationSeconds)*time.Second)
	v.SetDefault("short_break_duration", time.Duration(model.DefaultShortBreakDurationSeconds)*time.Second)
	v.SetDefault("long_break_duration", time.Duration(model.DefaultLongBreakDurationSeconds)*time.Second)
	v.SetDefault("cycles_until_long_break", model.DefaultCyclesUntilLongBreak)
	v.SetDefault("emit_timeout", 10*time.Second)

	v.SetEnvPrefix(clientEnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// LoadClient reads path (a missing file means defaults), applies FOCUSTRACK_*
// environment overrides and validates the result.
func LoadClient(path string) (ClientConfig, error) {
	v := newClientViper()
	if err := readIfExists(v, path); err != nil {
		return ClientConfig{}, err
	}

	var cfg ClientConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return ClientConfig{}, fmt.Errorf("decode client config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return ClientConfig{}, err
	}
	return cfg, nil
}

func readIfExists(v *viper.Viper, path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("read client config %s: %w", path, err)
	}
	return nil
}

func (c ClientConfig) Validate() error {
	if c.ServerURL == "" {
		return fmt.Errorf("%w: server_url is required", engine.ErrInvalidConfig)
	}
	if c.EmitTimeout <= 0 {
		return fmt.Errorf("%w: emit_timeout must be positive", engine.ErrInvalidConfig)
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("%w: %v", engine.ErrInvalidConfig, err)
	}
	return c.Timer().Validate()
}

func (c ClientConfig) Timer() engine.Config {
	return engine.Config{
		WorkDuration:         c.WorkDuration,
		ShortBreakDuration:   c.ShortBreakDuration,
		LongBreakDuration:    c.LongBreakDuration,
		CyclesUntilLongBreak: c.CyclesUntilLongBreak,
	}
}

func (c ClientConfig) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

// SaveCredentials writes the server URL and token into the config file at
// path, keeping any other keys already there.
func SaveCredentials(path, serverURL, token string) error {
	v := viper.New()
	v.SetConfigType("yaml")
	if err := readIfExists(v, path); err != nil {
		return err
	}
	if serverURL != "" {
		v.Set("server_url", serverURL)
	}
	v.Set("token", token)

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write client config: %w", err)
	}
	return os.Chmod(path, 0o600)
}
