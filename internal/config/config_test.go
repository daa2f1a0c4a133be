package config

import (
	"flag"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Makepad-fr/tada/internal/model"
)

// isolate points the user config dir and cwd at empty temp dirs and clears TADA_* vars.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	for _, k := range []string{"TADA_API_URL", "TADA_TIMEOUT", "TADA_THEME", "TADA_FILTER",
		"TADA_LOG_LEVEL", "TADA_LOG_FORMAT", "TADA_LOG_FILE", "TADA_CONFIG"} {
		t.Setenv(k, "")
	}
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func newFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("todo", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func write(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestDefaults(t *testing.T) {
	isolate(t)

	fs := newFlagSet()
	cfg, err := Load(fs, []string{"ls"})
	require.NoError(t, err)

	assert.Equal(t, DefaultAPIURL, cfg.APIURL)
	assert.Equal(t, DefaultTimeout, cfg.Timeout)
	assert.Equal(t, DefaultTheme, cfg.Theme)
	assert.Equal(t, model.FilterAll, cfg.DefaultFilter())
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
	assert.Equal(t, []string{"ls"}, fs.Args())
}

func TestPriorityOrder(t *testing.T) {
	dir := isolate(t)

	userDir, err := os.UserConfigDir()
	require.NoError(t, err)
	write(t, filepath.Join(userDir, "tada", "config.toml"), `
api_url = "http://user.example"
theme = "neon"
timeout = "3s"
log_level = "debug"
`)
	write(t, filepath.Join(dir, ProjectConfigFile), `
api_url = "http://project.example/"
filter = "active"
`)
	explicit := filepath.Join(dir, "extra.toml")
	write(t, explicit, `group = true`)

	t.Setenv("TADA_THEME", "mono")
	t.Setenv("TADA_TIMEOUT", "7")

	fs := newFlagSet()
	cfg, err := Load(fs, []string{"-config", explicit, "-log-level", "error", "add", "milk"})
	require.NoError(t, err)

	assert.Equal(t, "http://project.example", cfg.APIURL)
	assert.Equal(t, "mono", cfg.Theme)
	assert.Equal(t, 7*time.Second, cfg.Timeout)
	assert.Equal(t, model.FilterActive, cfg.DefaultFilter())
	assert.True(t, cfg.Group)
	assert.Equal(t, "error", cfg.LogLevel)
	assert.Equal(t, explicit, cfg.ConfigFile)
	assert.Equal(t, []string{"add", "milk"}, fs.Args())
}

func TestFlagsOverrideEnv(t *testing.T) {
	isolate(t)
	t.Setenv("TADA_API_URL", "http://env.example")

	cfg, err := Load(newFlagSet(), []string{"--api=https://flag.example", "-timeout", "250ms", "ls"})
	require.NoError(t, err)
	assert.Equal(t, "https://flag.example", cfg.APIURL)
	assert.Equal(t, 250*time.Millisecond, cfg.Timeout)
}

func TestInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		args []string
		env  map[string]string
	}{
		{"bad url", []string{"-api", "localhost:8080"}, nil},
		{"zero timeout", []string{"-timeout", "0s"}, nil},
		{"bad filter", []string{"-filter", "someday"}, nil},
		{"bad env timeout", nil, map[string]string{"TADA_TIMEOUT": "soon"}},
		{"unknown flag", []string{"-nope"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load(newFlagSet(), tt.args)
			assert.Error(t, err)
		})
	}
}

func TestBrokenConfigFile(t *testing.T) {
	dir := isolate(t)
	write(t, filepath.Join(dir, ProjectConfigFile), `api_url = `)

	_, err := Load(newFlagSet(), nil)
	assert.ErrorContains(t, err, "project config file")
}

func TestLookupFlag(t *testing.T) {
	assert.Equal(t, "a.toml", lookupFlag([]string{"-config", "a.toml"}, "config"))
	assert.Equal(t, "b.toml", lookupFlag([]string{"-api", "http://x", "--config=b.toml"}, "config"))
	assert.Equal(t, "", lookupFlag([]string{"--", "-config", "c.toml"}, "config"))
	assert.Equal(t, "", lookupFlag([]string{"-config"}, "config"))
}
