// Package config loads server settings: built-in defaults, then an optional
// YAML file, then environment variables, then command-line flags.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds runtime settings for the wage server.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
	Wage    WageConfig    `yaml:"wage"`
	Log     LogConfig     `yaml:"log"`
}

// ServerConfig controls the HTTP listener and static UI.
type ServerConfig struct {
	Port           int           `yaml:"port"`
	ReadTimeout    time.Duration `yaml:"read_timeout"`
	WriteTimeout   time.Duration `yaml:"write_timeout"`
	IdleTimeout    time.Duration `yaml:"idle_timeout"`
	AllowedOrigins []string      `yaml:"allowed_origins"`
	// StaticDir holds the browser UI. Empty disables static serving.
	StaticDir string `yaml:"static_dir"`
}

// StorageConfig locates the entry document. ":memory:" keeps entries in
// process memory only.
type StorageConfig struct {
	Path string `yaml:"path"`
}

// WageConfig holds display settings for wages.
type WageConfig struct {
	Currency string `yaml:"currency"`
}

// LogConfig selects level, format and the optional rotated log file.
type LogConfig struct {
	Level      string `yaml:"level"`
	Format     string `yaml:"format"` // "json" or "text"
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// MemoryPath selects the in-memory backend.
const MemoryPath = ":memory:"

// Default returns the development defaults.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           8080,
			ReadTimeout:    15 * time.Second,
			WriteTimeout:   15 * time.Second,
			IdleTimeout:    60 * time.Second,
			AllowedOrigins: []string{"http://localhost:5173", "http://localhost:8080"},
			StaticDir:      "./web",
		},
		Storage: StorageConfig{Path: "wage_data.json"},
		Wage:    WageConfig{Currency: "₹"},
		Log: LogConfig{
			Level:      "info",
			Format:     "text",
			MaxSizeMB:  100,
			MaxBackups: 3,
			MaxAgeDays: 30,
		},
	}
}

// Load builds a Config from defaults, the YAML file named by -config or
// WAGE_CONFIG, the environment and finally args.
func Load(args []string) (*Config, error) {
	fs := flag.NewFlagSet("wage-server", flag.ContinueOnError)
	configFile := fs.String("config", os.Getenv("WAGE_CONFIG"), "YAML config file")
	port := fs.Int("port", 0, "HTTP server port")
	dataPath := fs.String("data", "", `entry document path (":memory:" for in-memory)`)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg := Default()
	if *configFile != "" {
		if err := cfg.loadFile(*configFile); err != nil {
			return nil, err
		}
	}

	envOverride(&cfg.Storage.Path, "WAGE_DATA")
	envOverride(&cfg.Log.Level, "LOG_LEVEL")
	envOverride(&cfg.Log.File, "LOG_FILE")
	envOverrideInt(&cfg.Server.Port, "PORT")

	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *dataPath != "" {
		cfg.Storage.Path = *dataPath
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return nil
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Server.Port)
	}
	if c.Storage.Path == "" {
		return errors.New("storage path is required")
	}
	return nil
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

func envOverride(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func envOverrideInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}
