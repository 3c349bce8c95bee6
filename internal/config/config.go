package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
	"unicode/utf8"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/solardash/internal/analysis"
)

const (
	envPrefix = "SOLARDASH"
	dirName   = ".solardash"
)

// Global configuration structure.
type Global struct {
	// HTTP server
	ListenAddr         string `mapstructure:"listen_addr" yaml:"listen_addr"`
	MaxUploadMB        int    `mapstructure:"max_upload_mb" yaml:"max_upload_mb"`
	ReadTimeoutSec     int    `mapstructure:"read_timeout_sec" yaml:"read_timeout_sec"`
	WriteTimeoutSec    int    `mapstructure:"write_timeout_sec" yaml:"write_timeout_sec"`
	ShutdownTimeoutSec int    `mapstructure:"shutdown_timeout_sec" yaml:"shutdown_timeout_sec"`

	// Dataset loading
	PreviewRows int `mapstructure:"preview_rows" yaml:"preview_rows"`
	MaxRows     int `mapstructure:"max_rows" yaml:"max_rows"`
	// Delimiter overrides the per-extension default when set.
	Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`

	LogLevel  string `mapstructure:"log_level" yaml:"log_level"`
	LogFormat string `mapstructure:"log_format" yaml:"log_format"`
}

// Defaults returns the built-in configuration.
func Defaults() *Global {
	return &Global{
		ListenAddr:         ":8501",
		MaxUploadMB:        200,
		ReadTimeoutSec:     30,
		WriteTimeoutSec:    120,
		ShutdownTimeoutSec: 10,
		PreviewRows:        5,
		LogLevel:           "info",
		LogFormat:          "console",
	}
}

// Dir returns ~/.solardash.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, dirName), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.solardash/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		dir, err := Dir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file > defaults. CLI flags are applied by the caller.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	d := Defaults()
	v.SetDefault("listen_addr", d.ListenAddr)
	v.SetDefault("max_upload_mb", d.MaxUploadMB)
	v.SetDefault("read_timeout_sec", d.ReadTimeoutSec)
	v.SetDefault("write_timeout_sec", d.WriteTimeoutSec)
	v.SetDefault("shutdown_timeout_sec", d.ShutdownTimeoutSec)
	v.SetDefault("preview_rows", d.PreviewRows)
	v.SetDefault("max_rows", d.MaxRows)
	v.SetDefault("delimiter", d.Delimiter)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("log_format", d.LogFormat)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate rejects values no component can run with.
func (c *Global) Validate() error {
	if c.MaxUploadMB <= 0 {
		return fmt.Errorf("max_upload_mb must be positive, got %d", c.MaxUploadMB)
	}
	if c.PreviewRows < 0 {
		return fmt.Errorf("preview_rows must not be negative, got %d", c.PreviewRows)
	}
	if c.MaxRows < 0 {
		return fmt.Errorf("max_rows must not be negative, got %d", c.MaxRows)
	}
	if c.Delimiter != "" && c.Delimiter != `\t` && utf8.RuneCountInString(c.Delimiter) != 1 {
		return fmt.Errorf("delimiter must be a single character, got %q", c.Delimiter)
	}
	return nil
}

// AnalysisOptions maps the loading keys onto dataset options.
func (c *Global) AnalysisOptions() analysis.Options {
	opt := analysis.DefaultOptions()
	if c.PreviewRows > 0 {
		opt.PreviewRows = c.PreviewRows
	}
	opt.MaxRows = c.MaxRows
	opt.Delimiter = 0
	switch c.Delimiter {
	case "":
	case `\t`:
		opt.Delimiter = '\t'
	default:
		opt.Delimiter, _ = utf8.DecodeRuneInString(c.Delimiter)
	}
	return opt
}

func (c *Global) ReadTimeout() time.Duration { return time.Duration(c.ReadTimeoutSec) * time.Second }

func (c *Global) WriteTimeout() time.Duration { return time.Duration(c.WriteTimeoutSec) * time.Second }

func (c *Global) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutSec) * time.Second
}

// MaxUploadBytes is the request body limit for uploads.
func (c *Global) MaxUploadBytes() int64 { return int64(c.MaxUploadMB) << 20 }
