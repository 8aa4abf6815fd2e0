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

func flagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("menu", "", "")
	fs.String("log-level", "info", "")
	fs.String("redis-url", "", "")
	fs.Duration("redis-ttl", 0, "")
	fs.String("addr", ":8080", "")
	return fs
}

func TestLoad_Defaults(t *testing.T) {
	c, err := Load(nil, "")
	require.NoError(t, err)

	assert.Equal(t, "info", c.Log.Level)
	assert.Equal(t, "text", c.Log.Format)
	assert.Equal(t, "keyboard:", c.Redis.Prefix)
	assert.True(t, c.Redis.Lock)
	assert.Equal(t, ":8080", c.HTTP.Addr)
	assert.Empty(t, c.Redis.URL)
}

func TestLoad_Precedence(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "keyboard.yaml")
	require.NoError(t, os.WriteFile(file, []byte("menu: from-file.yaml\nlog:\n  level: warn\nredis:\n  url: redis://file:6379\n"), 0o644))

	t.Setenv("KEYBOARD_LOG_LEVEL", "error")
	t.Setenv("KEYBOARD_REDIS_TTL", "90s")

	fs := flagSet()
	require.NoError(t, fs.Parse([]string{"--redis-url", "redis://flag:6379"}))

	c, err := Load(fs, file)
	require.NoError(t, err)

	assert.Equal(t, "from-file.yaml", c.Menu, "file beats defaults")
	assert.Equal(t, "error", c.Log.Level, "env beats file")
	assert.Equal(t, 90*time.Second, c.Redis.TTL)
	assert.Equal(t, "redis://flag:6379", c.Redis.URL, "set flags beat everything")
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(nil, filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	t.Setenv("KEYBOARD_LOG_FORMAT", "xml")
	_, err = Load(nil, "")
	assert.ErrorContains(t, err, "invalid log format")
}
