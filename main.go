package main

import (
	"context"
	"imgbot/internal/adapters/compositor"
	"imgbot/internal/adapters/decoder"
	"imgbot/internal/adapters/encoder"
	"imgbot/internal/adapters/file"
	"imgbot/internal/adapters/handler"
	"imgbot/internal/adapters/sender"
	"imgbot/internal/config"
	"imgbot/internal/core/domain/command"
	"imgbot/internal/core/service"
	"os"
	"os/signal"
	"time"

	"github.com/go-telegram/bot/models"

	"github.com/rs/zerolog"

	"github.com/go-telegram/bot"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

func main() {
	log.Info().Msg("starting imgbot...")

	log.Info().Msg("reading config file...")
	err := config.Read("", true)
	if err != nil {
		log.Fatal().Err(err).Msg("could not read config file")
	}

	zerolog.SetGlobalLevel(config.LogLevel())

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	token := viper.GetString("telegram.bot_token")
	opts := []bot.Option{
		bot.WithDefaultHandler(noOpHandler),
	}

	b, err := bot.New(token, opts...)
	if err != nil {
		log.Panic().Err(err).Msg("failed initializing telegram bot")
	}

	s := sender.NewTelegram(b)

	scaler, err := compositor.NewScaler(viper.GetString("convert.interpolation"))
	if err != nil {
		log.Panic().Err(err).Msg("invalid interpolation in config")
	}

	pipeline := service.NewPipeline(scaler, encoder.NewCodec())
	imageDecoder := decoder.NewDecoder(viper.GetInt64("convert.max_input_bytes"),
		viper.GetInt64("convert.max_input_pixels"))
	downloader := file.NewDownloader(nil)

	authorizer, err := service.NewAuthorizer(s)
	if err != nil {
		log.Panic().Err(err).Msg("invalid allowed chat ids in config")
	}

	tracker := service.NewUsageTracker(ctx, s)

	limits := command.Limits{
		MaxInputBytes: imageDecoder.MaxBytes(),
		MaxDimension:  viper.GetInt("convert.max_dimension"),
	}

	commandRegistry := &command.Registry{}
	commandRegistry.Register(command.NewConvert(pipeline, imageDecoder, downloader, s, s, authorizer, tracker,
		limits, "/convert"))
	commandRegistry.Register(command.NewUsage(tracker, s, "/usage"))
	commandRegistry.Register(command.NewHelp(commandRegistry, s, "/help"))

	handlerTimeout, err := time.ParseDuration(viper.GetString("handler.timeout"))
	if err != nil {
		log.Panic().Err(err).Msg("invalid timeout for handler in config")
	}

	commandHandler := handler.NewCommand(commandRegistry, handlerTimeout, limits.MaxInputBytes)

	b.RegisterHandler(bot.HandlerTypeMessageText, "/", bot.MatchTypePrefix, commandHandler.Handle)
	b.RegisterHandler(bot.HandlerTypePhotoCaption, "/", bot.MatchTypePrefix, commandHandler.Handle)

	log.Info().Msg("bot listening")
	b.Start(ctx)
}

func noOpHandler(_ context.Context, _ *bot.Bot, _ *models.Update) {}
