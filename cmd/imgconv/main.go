package main

import (
	"context"
	"errors"
	"fmt"
	"imgbot/internal/adapters/compositor"
	"imgbot/internal/adapters/decoder"
	"imgbot/internal/adapters/encoder"
	"imgbot/internal/adapters/file"
	"imgbot/internal/config"
	"imgbot/internal/core/domain"
	"imgbot/internal/core/domain/command"
	"imgbot/internal/core/service"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type options struct {
	in     string
	out    string
	format string
	size   string
	focus  bool
	hq     bool
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	out, err := run(ctx, os.Args[1:])
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		log.Fatal().Err(err).Msg("conversion failed")
	}

	fmt.Println(out)
}

func run(ctx context.Context, args []string) (string, error) {
	var opts options
	var configFile string

	flags := pflag.NewFlagSet("imgconv", pflag.ContinueOnError)
	flags.StringVarP(&opts.in, "in", "i", "", "input image")
	flags.StringVarP(&opts.out, "out", "o", "", "output file, defaults to <name>_converted.<ext> next to the input")
	flags.StringVarP(&opts.format, "format", "f", "jpg", "output format: jpg, png, webp or gif")
	flags.StringVarP(&opts.size, "size", "s", "", "target size as WxH or N%")
	flags.BoolVar(&opts.focus, "focus", false, "crop to the target aspect ratio instead of stretching")
	flags.BoolVar(&opts.hq, "hq", false, "encode at high quality instead of optimized")
	flags.StringVarP(&configFile, "config", "c", "", "optional config file")
	flags.String("interpolation", compositor.DefaultInterpolation, "nearest, approxbilinear, bilinear or catmullrom")
	flags.String("log-level", "info", "log level")
	flags.Int64("max-input-bytes", decoder.DefaultMaxBytes, "maximum input file size")
	flags.Int64("max-input-pixels", decoder.DefaultMaxPixels, "maximum decoded width×height of the input")
	flags.Int("max-dimension", 8192, "maximum side of the output image")

	if err := flags.Parse(args); err != nil {
		return "", err
	}

	if err := config.Read(configFile, configFile != ""); err != nil {
		return "", fmt.Errorf("could not read config file: %w", err)
	}

	for key, flag := range map[string]string{
		"convert.interpolation":    "interpolation",
		"bot.log_level":            "log-level",
		"convert.max_input_bytes":  "max-input-bytes",
		"convert.max_input_pixels": "max-input-pixels",
		"convert.max_dimension":    "max-dimension",
	} {
		if err := viper.BindPFlag(key, flags.Lookup(flag)); err != nil {
			return "", err
		}
	}

	zerolog.SetGlobalLevel(config.LogLevel())

	if opts.in == "" {
		return "", errors.New("missing input image, use --in")
	}

	cfg, err := command.ParseConvertArgs(strings.Join([]string{opts.format, opts.size, flagWord(opts.focus, "focus"),
		flagWord(opts.hq, "hq")}, " "), viper.GetInt("convert.max_dimension"))
	if err != nil {
		return "", err
	}

	data, err := os.ReadFile(opts.in)
	if err != nil {
		return "", err
	}

	imageDecoder := decoder.NewDecoder(viper.GetInt64("convert.max_input_bytes"),
		viper.GetInt64("convert.max_input_pixels"))
	img, format, err := imageDecoder.Decode(data)
	if err != nil {
		return "", err
	}

	bounds := img.Bounds()
	geometry := domain.ResolveGeometry(bounds.Dx(), bounds.Dy(), cfg)
	if err := domain.CheckDimensions(geometry, viper.GetInt("convert.max_dimension")); err != nil {
		return "", err
	}

	log.Debug().Str("sourceFormat", format).Str("file", opts.in).Msg("decoded input")

	scaler, err := compositor.NewScaler(viper.GetString("convert.interpolation"))
	if err != nil {
		return "", err
	}

	res := <-service.NewPipeline(scaler, encoder.NewCodec()).Convert(ctx, img, cfg)
	if res.Err != nil {
		return "", res.Err
	}

	out := opts.out
	if out == "" {
		out = filepath.Join(filepath.Dir(opts.in), command.OutputFileName(filepath.Base(opts.in), res.Result.Extension))
	}

	if err := file.SaveFile(out, res.Result.Data); err != nil {
		return "", err
	}

	log.Info().Str("file", out).Int("width", res.Result.Width).Int("height", res.Result.Height).
		Str("mimeType", res.Result.MimeType).Msg("saved converted image")

	return out, nil
}

func flagWord(set bool, word string) string {
	if set {
		return word
	}
	return ""
}
