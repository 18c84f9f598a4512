// Package config provides Viper-based configuration loading for the race server.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ServerConfig holds the HTTP/WebSocket listener settings.
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// Addr returns the "host:port" listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// GameConfig holds race lifecycle tunables.
type GameConfig struct {
	// GracePeriod is how long a dropped participant keeps their roster
	// slot before removal.
	GracePeriod time.Duration `mapstructure:"grace_period"`
	// BotTickBase is the interval a 1 word/sec bot ticks at. Lower it in
	// tests to speed up simulated races.
	BotTickBase time.Duration `mapstructure:"bot_tick_base"`
}

// TextGenConfig holds settings for the round-text generation service.
type TextGenConfig struct {
	APIKey  string        `mapstructure:"api_key"`
	Model   string        `mapstructure:"model"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// Config is the top-level application configuration.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Logging LoggingConfig `mapstructure:"logging"`
	Game    GameConfig    `mapstructure:"game"`
	TextGen TextGenConfig `mapstructure:"textgen"`
}

// Validate checks all configuration invariants.
func (c Config) Validate() error {
	var errs []string

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port must be 1-65535, got %d", c.Server.Port))
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		errs = append(errs, fmt.Sprintf("logging.level must be one of [debug, info, warn, error], got %q", c.Logging.Level))
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[c.Logging.Format] {
		errs = append(errs, fmt.Sprintf("logging.format must be one of [json, console], got %q", c.Logging.Format))
	}

	if c.Game.GracePeriod <= 0 {
		errs = append(errs, fmt.Sprintf("game.grace_period must be positive, got %s", c.Game.GracePeriod))
	}
	if c.Game.BotTickBase <= 0 {
		errs = append(errs, fmt.Sprintf("game.bot_tick_base must be positive, got %s", c.Game.BotTickBase))
	}

	if c.TextGen.Timeout <= 0 {
		errs = append(errs, fmt.Sprintf("textgen.timeout must be positive, got %s", c.TextGen.Timeout))
	}
	if c.TextGen.Model == "" {
		errs = append(errs, "textgen.model must not be empty")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// Load reads configuration from the given file path, applies environment
// variable overrides, and validates the result. An empty path loads
// defaults and environment overrides only.
func Load(path string) (Config, error) {
	v := viper.New()

	v.SetEnvPrefix("TYPERACE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("game.grace_period", "5s")
	v.SetDefault("game.bot_tick_base", "1s")

	v.SetDefault("textgen.api_key", "")
	v.SetDefault("textgen.model", "claude-haiku-4-5")
	v.SetDefault("textgen.timeout", "10s")
}
