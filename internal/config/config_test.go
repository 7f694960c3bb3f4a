package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	// Unset environment variables set on host computer
	for _, key := range []string{"LISTEN", "LANGUAGE", "LOG_LEVEL", "LOG_FORMAT", "READ_TIMEOUT", "MAX_BODY_BYTES"} {
		t.Setenv(EnvPrefix+"_"+key, "")
	}
	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Chdir(t.TempDir())

	tests := []struct {
		name string
		file string
		args []string
		envs map[string]string
		want func(t *testing.T, got Config)
	}{
		{
			"defaults",
			"",
			nil,
			nil,
			func(t *testing.T, got Config) {
				assert.Equal(t, Defaults(), got)
			},
		},
		{
			"config file override default",
			"listen: 0.0.0.0:8080\nread-timeout: 3s\n",
			nil,
			nil,
			func(t *testing.T, got Config) {
				assert.Equal(t, "0.0.0.0:8080", got.Listen)
				assert.Equal(t, 3*time.Second, got.ReadTimeout)
			},
		},
		{
			"env var override config file",
			"listen: 0.0.0.0:8080\n",
			nil,
			map[string]string{"GCDWEB_LISTEN": "127.0.0.1:9000", "GCDWEB_MAX_BODY_BYTES": "512"},
			func(t *testing.T, got Config) {
				assert.Equal(t, "127.0.0.1:9000", got.Listen)
				assert.Equal(t, int64(512), got.MaxBodyBytes)
			},
		},
		{
			"flag override env var",
			"",
			[]string{"--listen", "127.0.0.1:9100", "--language", "de", "--write-timeout", "1m"},
			map[string]string{"GCDWEB_LISTEN": "127.0.0.1:9000"},
			func(t *testing.T, got Config) {
				assert.Equal(t, "127.0.0.1:9100", got.Listen)
				assert.Equal(t, "de", got.Language)
				assert.Equal(t, time.Minute, got.WriteTimeout)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.envs {
				t.Setenv(k, v)
			}
			if tt.file != "" {
				require.NoError(t, os.WriteFile(FileName+".yaml", []byte(tt.file), 0o600))
				t.Cleanup(func() { os.Remove(FileName + ".yaml") })
			}
			fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
			RegisterFlags(fs)
			require.NoError(t, fs.Parse(tt.args))

			got, err := Load(fs, "")
			require.NoError(t, err)
			tt.want(t, got)
		})
	}
}

func TestLoad_ExplicitFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log-level: debug\n"), 0o600))

	got, err := Load(nil, path)
	require.NoError(t, err)
	assert.Equal(t, "debug", got.LogLevel)

	_, err = Load(nil, filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "reading config file")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		want   string
	}{
		{"empty listen", func(c *Config) { c.Listen = "" }, "listen address must not be empty"},
		{"bad level", func(c *Config) { c.LogLevel = "loud" }, `invalid log level "loud"`},
		{"bad format", func(c *Config) { c.LogFormat = "xml" }, `invalid log format "xml"`},
		{"bad language", func(c *Config) { c.Language = "fr" }, `unsupported language "fr"`},
		{"zero timeout", func(c *Config) { c.IdleTimeout = 0 }, "idle-timeout must be positive"},
		{"zero body", func(c *Config) { c.MaxBodyBytes = 0 }, "max-body-bytes must be positive"},
		{"negative gzip", func(c *Config) { c.GzipMinSize = -1 }, "gzip-min-size must not be negative"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Defaults()
			tt.mutate(&c)
			assert.ErrorContains(t, c.Validate(), tt.want)
		})
	}
	assert.NoError(t, Defaults().Validate())
}

func TestMarshal_RoundTrip(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	want := Defaults()
	want.Listen = "0.0.0.0:3000"
	want.ShutdownTimeout = 1500 * time.Millisecond

	data, err := Marshal(want)
	require.NoError(t, err)
	assert.Regexp(t, `shutdown-timeout: "?1\.5s"?`, string(data))

	path := filepath.Join(t.TempDir(), "gcdweb.yaml")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	got, err := Load(nil, path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
