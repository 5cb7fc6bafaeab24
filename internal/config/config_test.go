package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRead(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		required bool
		wantErr  bool
		check    func(t *testing.T)
	}{
		{
			name: "defaults without file",
			check: func(t *testing.T) {
				assert.Equal(t, "info", viper.GetString("bot.log_level"))
				assert.Equal(t, int64(10*1024*1024), viper.GetInt64("convert.max_input_bytes"))
				assert.Equal(t, int64(64*1024*1024), viper.GetInt64("convert.max_input_pixels"))
				assert.Equal(t, 8192, viper.GetInt("convert.max_dimension"))
				assert.Equal(t, "catmullrom", viper.GetString("convert.interpolation"))
				assert.Equal(t, "1m", viper.GetString("handler.timeout"))
			},
		},
		{
			name:     "required file missing",
			required: true,
			wantErr:  true,
		},
		{
			name:    "file overrides defaults",
			content: "[convert]\nmax_dimension = 1024\ninterpolation = \"bilinear\"\n",
			check: func(t *testing.T) {
				assert.Equal(t, 1024, viper.GetInt("convert.max_dimension"))
				assert.Equal(t, "bilinear", viper.GetString("convert.interpolation"))
				assert.Equal(t, "info", viper.GetString("bot.log_level"))
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			viper.Reset()
			t.Cleanup(viper.Reset)

			dir := t.TempDir()
			t.Chdir(dir)
			if tc.content != "" {
				require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(tc.content), 0o600))
			}

			err := Read("", tc.required)
			if tc.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			tc.check(t)
		})
	}
}

func TestRead_ExplicitFile(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	path := filepath.Join(t.TempDir(), "custom.toml")
	require.NoError(t, os.WriteFile(path, []byte("[bot]\nlog_level = \"debug\"\n"), 0o600))

	require.NoError(t, Read(path, true))
	assert.Equal(t, zerolog.DebugLevel, LogLevel())
}

func TestRead_EnvOverride(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	t.Setenv("IMGBOT_CONVERT_MAX_DIMENSION", "640")
	t.Chdir(t.TempDir())

	require.NoError(t, Read("", false))
	assert.Equal(t, 640, viper.GetInt("convert.max_dimension"))
}

func TestLogLevel(t *testing.T) {
	tests := []struct {
		value string
		want  zerolog.Level
	}{
		{value: "debug", want: zerolog.DebugLevel},
		{value: "info", want: zerolog.InfoLevel},
		{value: "warn", want: zerolog.WarnLevel},
		{value: "error", want: zerolog.ErrorLevel},
		{value: "verbose", want: zerolog.InfoLevel},
	}

	for _, tc := range tests {
		t.Run(tc.value, func(t *testing.T) {
			viper.Reset()
			t.Cleanup(viper.Reset)
			viper.Set("bot.log_level", tc.value)

			assert.Equal(t, tc.want, LogLevel())
		})
	}
}
