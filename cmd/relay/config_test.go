package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/relay"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"complete", Config{URL: "http://localhost:3000", ChatflowID: "cf"}, false},
		{"missing url", Config{ChatflowID: "cf"}, true},
		{"missing chatflow", Config{URL: "http://localhost:3000"}, true},
		{"blank values", Config{URL: " ", ChatflowID: "\t"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, relay.ErrValidation)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func newTestViper(t *testing.T, args ...string) *viper.Viper {
	t.Helper()
	v := viper.New()
	flags := pflag.NewFlagSet("relay", pflag.ContinueOnError)
	bindFlags(v, flags)
	require.NoError(t, flags.Parse(args))
	return v
}

func TestLoadConfig_Precedence(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("FLOWISE_URL", "")
	t.Setenv("FLOWISE_API_KEY", "")
	t.Setenv("RELAY_LOG_LEVEL", "")
	t.Setenv("FLOWISE_CHATFLOW_ID", "cf-env")

	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("url: http://file:3000\nchatflow_id: cf-file\napi_key: file-key\n"), 0o600))

	v := newTestViper(t, "--url", "http://flag:3000")
	require.NoError(t, readConfigFile(v, cfgPath))
	cfg, err := loadConfig(v)
	require.NoError(t, err)

	assert.Equal(t, "http://flag:3000", cfg.URL)
	assert.Equal(t, "cf-env", cfg.ChatflowID)
	assert.Equal(t, "file-key", cfg.APIKey)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, filepath.Join(home, ".relay", "session.json"), cfg.SessionPath)
	assert.Equal(t, filepath.Join(home, ".relay", "relay.log"), cfg.LogFile)
}

func TestReadConfigFile(t *testing.T) {
	t.Run("default file is optional", func(t *testing.T) {
		t.Setenv("HOME", t.TempDir())
		assert.NoError(t, readConfigFile(viper.New(), ""))
	})

	t.Run("default file is read", func(t *testing.T) {
		home := t.TempDir()
		t.Setenv("HOME", home)
		require.NoError(t, os.MkdirAll(filepath.Join(home, ".relay"), 0o700))
		require.NoError(t, os.WriteFile(filepath.Join(home, ".relay", "config.yaml"), []byte("chatflow_id: from-home\n"), 0o600))

		v := viper.New()
		require.NoError(t, readConfigFile(v, ""))
		assert.Equal(t, "from-home", v.GetString("chatflow_id"))
	})

	t.Run("explicit file must exist", func(t *testing.T) {
		t.Parallel()
		err := readConfigFile(viper.New(), filepath.Join(t.TempDir(), "missing.yaml"))
		assert.Error(t, err)
	})
}

func TestNewLogger(t *testing.T) {
	t.Parallel()

	t.Run("filters below the level", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		logger, err := newLogger(&buf, "warn")
		require.NoError(t, err)
		logger.Info("hidden")
		logger.Warn("shown", "key", "value")
		assert.NotContains(t, buf.String(), "hidden")
		assert.Contains(t, buf.String(), "msg=shown key=value")
	})

	t.Run("empty level means info", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		logger, err := newLogger(&buf, "")
		require.NoError(t, err)
		logger.Debug("hidden")
		logger.Info("shown")
		assert.NotContains(t, buf.String(), "hidden")
		assert.Contains(t, buf.String(), "shown")
	})

	t.Run("unknown level", func(t *testing.T) {
		t.Parallel()
		_, err := newLogger(&bytes.Buffer{}, "loud")
		assert.Error(t, err)
	})
}

func TestOpenLogFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "relay.log")
	f, err := openLogFile(path)
	require.NoError(t, err)
	_, err = f.WriteString("line\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "line\n", string(data))
}
