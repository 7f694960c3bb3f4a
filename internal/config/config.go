// Package config loads gcdweb's settings. Precedence, highest first: command
// line flags, GCDWEB_* environment variables, the gcdweb.yaml config file,
// built-in defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/sanverite/gcdweb/internal/i18n"
	"github.com/sanverite/gcdweb/internal/logging"
)

const (
	DefaultListen = "127.0.0.1:3000"
	EnvPrefix     = "GCDWEB"
	FileName      = "gcdweb"
)

// Config is the effective configuration of the service.
type Config struct {
	Listen            string        `mapstructure:"listen"`
	Language          string        `mapstructure:"language"`
	LogLevel          string        `mapstructure:"log-level"`
	LogFormat         string        `mapstructure:"log-format"`
	ReadTimeout       time.Duration `mapstructure:"read-timeout"`
	ReadHeaderTimeout time.Duration `mapstructure:"read-header-timeout"`
	WriteTimeout      time.Duration `mapstructure:"write-timeout"`
	IdleTimeout       time.Duration `mapstructure:"idle-timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown-timeout"`
	MaxBodyBytes      int64         `mapstructure:"max-body-bytes"`
	GzipMinSize       int           `mapstructure:"gzip-min-size"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Listen:            DefaultListen,
		Language:          i18n.DefaultLanguage,
		LogLevel:          logging.DefaultLevel,
		LogFormat:         logging.DefaultFormat,
		ReadTimeout:       5 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
		ShutdownTimeout:   5 * time.Second,
		MaxBodyBytes:      1 << 20,
		GzipMinSize:       1024,
	}
}

// RegisterFlags adds one flag per setting to fs. Flag names match the config
// file keys.
func RegisterFlags(fs *pflag.FlagSet) {
	d := Defaults()
	fs.String("listen", d.Listen, "HTTP listen address")
	fs.String("language", d.Language, "Fallback language for pages")
	fs.String("log-level", d.LogLevel, fmt.Sprintf("Logging level (valid: %s)", strings.Join(logging.ValidLevels(), ",")))
	fs.String("log-format", d.LogFormat, fmt.Sprintf("Log output format (valid: %s)", strings.Join(logging.ValidFormats(), ",")))
	fs.Duration("read-timeout", d.ReadTimeout, "Maximum duration for reading a request")
	fs.Duration("read-header-timeout", d.ReadHeaderTimeout, "Maximum duration for reading request headers")
	fs.Duration("write-timeout", d.WriteTimeout, "Maximum duration before timing out a response write")
	fs.Duration("idle-timeout", d.IdleTimeout, "Keep-alive idle timeout")
	fs.Duration("shutdown-timeout", d.ShutdownTimeout, "Graceful shutdown timeout")
	fs.Int64("max-body-bytes", d.MaxBodyBytes, "Largest accepted form body in bytes")
	fs.Int("gzip-min-size", d.GzipMinSize, "Smallest response body compressed with gzip")
}

// configDirs returns the directories searched for gcdweb.yaml.
func configDirs() []string {
	var dirs []string
	if userDir, err := os.UserConfigDir(); err == nil {
		dirs = append(dirs, filepath.Join(userDir, "gcdweb"))
	}
	switch runtime.GOOS {
	case "windows":
		dirs = append(dirs, filepath.Join(os.Getenv("ProgramData"), "gcdweb"))
	default:
		dirs = append(dirs, "/etc/gcdweb")
	}
	return append(dirs, ".")
}

// Load resolves the configuration. file names an explicit config file which
// must exist; when empty the standard locations are searched and a missing
// file is not an error. fs may be nil.
func Load(fs *pflag.FlagSet, file string) (Config, error) {
	v := viper.New()

	d := Defaults()
	v.SetDefault("listen", d.Listen)
	v.SetDefault("language", d.Language)
	v.SetDefault("log-level", d.LogLevel)
	v.SetDefault("log-format", d.LogFormat)
	v.SetDefault("read-timeout", d.ReadTimeout)
	v.SetDefault("read-header-timeout", d.ReadHeaderTimeout)
	v.SetDefault("write-timeout", d.WriteTimeout)
	v.SetDefault("idle-timeout", d.IdleTimeout)
	v.SetDefault("shutdown-timeout", d.ShutdownTimeout)
	v.SetDefault("max-body-bytes", d.MaxBodyBytes)
	v.SetDefault("gzip-min-size", d.GzipMinSize)

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		for _, dir := range configDirs() {
			v.AddConfigPath(dir)
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if fs != nil {
		if err := v.BindPFlags(fs); err != nil {
			return Config{}, fmt.Errorf("binding flags: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.Listen == "" {
		return errors.New("listen address must not be empty")
	}
	if err := (logging.Options{Level: c.LogLevel, Format: c.LogFormat}).Validate(); err != nil {
		return err
	}
	catalog, err := i18n.New(i18n.DefaultLanguage)
	if err != nil {
		return err
	}
	if !catalog.Supports(c.Language) {
		return fmt.Errorf("unsupported language %q (supported: %s)", c.Language, strings.Join(catalog.Languages(), ","))
	}
	for name, d := range map[string]time.Duration{
		"read-timeout":        c.ReadTimeout,
		"read-header-timeout": c.ReadHeaderTimeout,
		"write-timeout":       c.WriteTimeout,
		"idle-timeout":        c.IdleTimeout,
		"shutdown-timeout":    c.ShutdownTimeout,
	} {
		if d <= 0 {
			return fmt.Errorf("%s must be positive, got %s", name, d)
		}
	}
	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("max-body-bytes must be positive, got %d", c.MaxBodyBytes)
	}
	if c.GzipMinSize < 0 {
		return fmt.Errorf("gzip-min-size must not be negative, got %d", c.GzipMinSize)
	}
	return nil
}

// fileView is Config as written in gcdweb.yaml, durations in Go syntax.
type fileView struct {
	Listen            string `yaml:"listen"`
	Language          string `yaml:"language"`
	LogLevel          string `yaml:"log-level"`
	LogFormat         string `yaml:"log-format"`
	ReadTimeout       string `yaml:"read-timeout"`
	ReadHeaderTimeout string `yaml:"read-header-timeout"`
	WriteTimeout      string `yaml:"write-timeout"`
	IdleTimeout       string `yaml:"idle-timeout"`
	ShutdownTimeout   string `yaml:"shutdown-timeout"`
	MaxBodyBytes      int64  `yaml:"max-body-bytes"`
	GzipMinSize       int    `yaml:"gzip-min-size"`
}

// Marshal renders c as YAML that Load accepts back as a config file.
func Marshal(c Config) ([]byte, error) {
	return yaml.Marshal(fileView{
		Listen:            c.Listen,
		Language:          c.Language,
		LogLevel:          c.LogLevel,
		LogFormat:         c.LogFormat,
		ReadTimeout:       c.ReadTimeout.String(),
		ReadHeaderTimeout: c.ReadHeaderTimeout.String(),
		WriteTimeout:      c.WriteTimeout.String(),
		IdleTimeout:       c.IdleTimeout.String(),
		ShutdownTimeout:   c.ShutdownTimeout.String(),
		MaxBodyBytes:      c.MaxBodyBytes,
		GzipMinSize:       c.GzipMinSize,
	})
}
