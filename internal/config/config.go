package config

import (
	"errors"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

const EnvPrefix = "IMGBOT"

func SetDefaults() {
	viper.SetDefault("bot.log_level", "info")
	viper.SetDefault("telegram.daily_conversion_limit", 0)
	viper.SetDefault("handler.timeout", "1m")
	viper.SetDefault("convert.max_input_bytes", 10*1024*1024)
	viper.SetDefault("convert.max_input_pixels", 64*1024*1024)
	viper.SetDefault("convert.max_dimension", 8192)
	viper.SetDefault("convert.interpolation", "catmullrom")
}

// Read loads config.toml from the working directory, or the given file, on top of the defaults. Keys can be
// overridden with IMGBOT_ prefixed environment variables, e.g. IMGBOT_TELEGRAM_BOT_TOKEN.
func Read(file string, required bool) error {
	SetDefaults()

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if file != "" {
		viper.SetConfigFile(file)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
		viper.SetConfigType("toml")
	}

	err := viper.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !required && errors.As(err, &notFound) {
			return nil
		}
		return err
	}

	return nil
}

func LogLevel() zerolog.Level {
	switch viper.GetString("bot.log_level") {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
