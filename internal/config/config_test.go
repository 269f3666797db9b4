package config

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/scenepanel/internal/value"
)

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestLoadMissingFile(t *testing.T) {
	l := NewLoaderWith(fstest.MapFS{}, map[string]string{})
	cfg, err := l.Load("scenepanel.toml")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFile(t *testing.T) {
	fsys := fstest.MapFS{
		"scenepanel.toml": {Data: []byte(`
[log]
level = "debug"

[history]
max_entries = 50

[scene]
path = "level1.yaml"
watch = false

[remote]
listen = "127.0.0.1:7700"

[theme]
accent = "#ff8800"
`)},
	}
	cfg, err := NewLoaderWith(fsys, map[string]string{}).Load("scenepanel.toml")
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 50, cfg.History.MaxEntries)
	assert.Equal(t, 256, cfg.Sink.QueueSize, "unset keys keep defaults")
	assert.Equal(t, "level1.yaml", cfg.Scene.Path)
	assert.False(t, cfg.Scene.Watch)
	assert.Equal(t, "127.0.0.1:7700", cfg.Remote.Listen)

	accent, err := cfg.Theme.AccentColor()
	require.NoError(t, err)
	assert.Equal(t, value.RGB(0xff, 0x88, 0x00), accent)
}

func TestEnvOverridesFile(t *testing.T) {
	fsys := fstest.MapFS{
		"c.toml": {Data: []byte("[sink]\nqueue_size = 8\n")},
	}
	environ := map[string]string{
		"SCENEPANEL_SINK_QUEUE":  "64",
		"SCENEPANEL_LOG_LEVEL":   "warn",
		"SCENEPANEL_SCENE":       "from-env.yaml",
		"SCENEPANEL_HISTORY_MAX": "10",
		"UNRELATED_SINK_QUEUE":   "1",
	}
	cfg, err := NewLoaderWith(fsys, environ).Load("c.toml")
	require.NoError(t, err)

	assert.Equal(t, 64, cfg.Sink.QueueSize)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "from-env.yaml", cfg.Scene.Path)
	assert.Equal(t, 10, cfg.History.MaxEntries)
}

func TestLogLevelSpellings(t *testing.T) {
	for _, level := range []string{"debug", "Debug", "INFO", "warn", "WARN", "warning", "Error"} {
		cfg := Default()
		cfg.Log.Level = level
		assert.NoError(t, cfg.Validate(), level)
	}

	cfg := Default()
	cfg.Log.Level = "verbose"
	assert.ErrorIs(t, cfg.Validate(), ErrInvalid)
}

func TestLoadErrors(t *testing.T) {
	t.Run("malformed toml", func(t *testing.T) {
		fsys := fstest.MapFS{"bad.toml": {Data: []byte("[log\nlevel=")}}
		_, err := NewLoaderWith(fsys, map[string]string{}).Load("bad.toml")
		var perr *ParseError
		require.ErrorAs(t, err, &perr)
		assert.Equal(t, "bad.toml", perr.Path)
	})

	t.Run("bad env number", func(t *testing.T) {
		_, err := NewLoaderWith(fstest.MapFS{}, map[string]string{"SCENEPANEL_SINK_QUEUE": "many"}).Load("")
		assert.ErrorIs(t, err, ErrEnv)
	})

	t.Run("invalid values", func(t *testing.T) {
		fsys := fstest.MapFS{"c.toml": {Data: []byte("[log]\nlevel = \"loud\"\n[history]\nmax_entries = 0\n[theme]\naccent = \"teal\"\n")}}
		_, err := NewLoaderWith(fsys, map[string]string{}).Load("c.toml")
		require.ErrorIs(t, err, ErrInvalid)
		assert.Contains(t, err.Error(), "log.level")
		assert.Contains(t, err.Error(), "history.max_entries")
		assert.Contains(t, err.Error(), "theme.accent")
	})
}
