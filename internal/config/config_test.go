package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetViper(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
}

func TestGet(t *testing.T) {
	cases := []struct {
		name string
		set  map[string]any
		want Config
	}{
		{
			name: "empty viper gives the zero config",
			want: Config{},
		},
		{
			name: "every key",
			set: map[string]any{
				"server_url":    "http://school.example:9000",
				"session_file":  "/srv/signup/session.json",
				"output_format": "yaml",
				"verbose":       true,
				"timeout":       45 * time.Second,
			},
			want: Config{
				ServerURL:    "http://school.example:9000",
				SessionFile:  "/srv/signup/session.json",
				OutputFormat: "yaml",
				Verbose:      true,
				Timeout:      45 * time.Second,
			},
		},
		{
			name: "duration given as text",
			set:  map[string]any{"timeout": "2m"},
			want: Config{Timeout: 2 * time.Minute},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resetViper(t)
			for k, v := range tc.set {
				viper.Set(k, v)
			}
			cfg, err := Get()
			require.NoError(t, err)
			assert.Equal(t, tc.want, *cfg)
		})
	}
}

func TestResolveKeepsSetValues(t *testing.T) {
	resetViper(t)
	viper.Set("output_format", "json")

	cfg, err := Resolve()
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.OutputFormat)
	assert.Equal(t, "http://localhost:8000", cfg.ServerURL)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Empty(t, cfg.SessionFile)
}

func TestInitLayers(t *testing.T) {
	resetViper(t)
	path := filepath.Join(t.TempDir(), "signup.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server_url: http://from-file:8000\noutput_format: json\n"), 0o600))
	t.Setenv("SIGNUP_OUTPUT_FORMAT", "table")
	t.Setenv("SIGNUP_TIMEOUT", "5s")

	require.NoError(t, Init(path))
	cfg, err := Get()
	require.NoError(t, err)

	assert.Equal(t, "http://from-file:8000", cfg.ServerURL, "file")
	assert.Equal(t, "table", cfg.OutputFormat, "environment over file")
	assert.Equal(t, 5*time.Second, cfg.Timeout, "environment")
	assert.False(t, cfg.Verbose, "default")
}

func TestInitConfigFileLookup(t *testing.T) {
	t.Run("explicit file must exist", func(t *testing.T) {
		resetViper(t)
		assert.Error(t, Init(filepath.Join(t.TempDir(), "missing.yaml")))
	})

	t.Run("default location may be absent", func(t *testing.T) {
		resetViper(t)
		home := t.TempDir()
		t.Setenv("XDG_CONFIG_HOME", home)
		t.Setenv("HOME", home)

		require.NoError(t, Init(""))
		cfg, err := Get()
		require.NoError(t, err)
		assert.Equal(t, Defaults().ServerURL, cfg.ServerURL)
	})

	t.Run("default location is read", func(t *testing.T) {
		resetViper(t)
		home := t.TempDir()
		t.Setenv("XDG_CONFIG_HOME", home)
		t.Setenv("HOME", home)
		dir, err := Dir()
		require.NoError(t, err)
		require.NoError(t, os.MkdirAll(dir, 0o700))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("verbose: true\n"), 0o600))

		require.NoError(t, Init(""))
		assert.True(t, viper.GetBool("verbose"))
	})
}

func TestSessionPath(t *testing.T) {
	got, err := (&Config{SessionFile: "/srv/custom.json"}).SessionPath()
	require.NoError(t, err)
	assert.Equal(t, "/srv/custom.json", got)

	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", home)
	t.Setenv("HOME", home)
	got, err = (&Config{}).SessionPath()
	require.NoError(t, err)
	assert.Equal(t, "session.json", filepath.Base(got))
	assert.Equal(t, "signup", filepath.Base(filepath.Dir(got)))
}
