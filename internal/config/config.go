package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/marknote/marknote/internal/markup"
	"gopkg.in/yaml.v3"
)

// Config defines server configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Transport TransportConfig `yaml:"transport"`
	DB        DBConfig        `yaml:"db"`
	Log       LogConfig       `yaml:"log"`
	Autosave  AutosaveConfig  `yaml:"autosave"`
	Render    markup.Config   `yaml:"render"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type TransportConfig struct {
	// Mode is "stdio" or "http".
	Mode string `yaml:"mode"`
}

type DBConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	// File receives logs instead of the console when set.
	File string `yaml:"file"`
}

type AutosaveConfig struct {
	Delay time.Duration `yaml:"delay"`
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: 8080,
		},
		Transport: TransportConfig{
			Mode: "stdio",
		},
		DB: DBConfig{
			Path: "marknote.db",
		},
		Log: LogConfig{
			Level: "info",
		},
		Autosave: AutosaveConfig{
			Delay: 500 * time.Millisecond,
		},
		Render: markup.DefaultConfig(),
	}
}

// Load reads configuration from an optional .env file, an optional YAML file
// and environment variables, in increasing precedence.
func Load() (Config, error) {
	envFile := os.Getenv("MARKNOTE_ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load env file: %w", err)
	}

	cfg := Default()

	if path := os.Getenv("MARKNOTE_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values that cannot be corrected silently.
func (c Config) Validate() error {
	switch c.Transport.Mode {
	case "stdio", "http":
	default:
		return fmt.Errorf("invalid transport mode %q", c.Transport.Mode)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.Autosave.Delay <= 0 {
		return fmt.Errorf("invalid autosave delay %s", c.Autosave.Delay)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	if mode := os.Getenv("MARKNOTE_TRANSPORT"); mode != "" {
		cfg.Transport.Mode = mode
	}
	if host := os.Getenv("MARKNOTE_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if portStr := os.Getenv("MARKNOTE_SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return fmt.Errorf("invalid MARKNOTE_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if dbPath := os.Getenv("MARKNOTE_DB_PATH"); dbPath != "" {
		cfg.DB.Path = dbPath
	}
	if level := os.Getenv("MARKNOTE_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if logPath := os.Getenv("MARKNOTE_LOG_PATH"); logPath != "" {
		cfg.Log.File = logPath
	}
	if delay := os.Getenv("MARKNOTE_AUTOSAVE_DELAY"); delay != "" {
		d, err := time.ParseDuration(delay)
		if err != nil {
			return fmt.Errorf("invalid MARKNOTE_AUTOSAVE_DELAY: %w", err)
		}
		cfg.Autosave.Delay = d
	}
	if style := os.Getenv("MARKNOTE_HIGHLIGHT_STYLE"); style != "" {
		cfg.Render.HighlightStyle = style
	}
	if wraps := os.Getenv("MARKNOTE_HARD_WRAPS"); wraps != "" {
		b, err := strconv.ParseBool(wraps)
		if err != nil {
			return fmt.Errorf("invalid MARKNOTE_HARD_WRAPS: %w", err)
		}
		cfg.Render.HardWraps = b
	}
	return nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
