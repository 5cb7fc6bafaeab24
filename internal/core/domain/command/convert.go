package command

import (
	"context"
	"fmt"
	"imgbot/internal/core/domain"
	"imgbot/internal/core/port"
	"imgbot/internal/core/service"
	"time"

	"github.com/rs/zerolog/log"
)

type Limits struct {
	MaxInputBytes int64
	MaxDimension  int
}

type Convert struct {
	converter      port.ImageConverter
	decoder        port.ImageDecoder
	downloader     port.FileDownloader
	textSender     port.TextSender
	documentSender port.DocumentSender
	authorizer     service.Authorizer
	tracker        service.Tracker
	limits         Limits
	command        string
}

func NewConvert(converter port.ImageConverter, decoder port.ImageDecoder, downloader port.FileDownloader,
	textSender port.TextSender, documentSender port.DocumentSender, authorizer service.Authorizer,
	tracker service.Tracker, limits Limits, command string) *Convert {
	return &Convert{
		converter:      converter,
		decoder:        decoder,
		downloader:     downloader,
		textSender:     textSender,
		documentSender: documentSender,
		authorizer:     authorizer,
		tracker:        tracker,
		limits:         limits,
		command:        command,
	}
}

func (c *Convert) GetCommand() string {
	return c.command
}

func (c *Convert) GetUsage() string {
	return convertSyntax + ": convert the attached or replied-to image"
}

func (c *Convert) Respond(ctx context.Context, timeout time.Duration, message *domain.Message) error {
	l := log.With().
		Int("messageId", message.ID).
		Int64("chatId", message.ChatID).
		Str("command", c.GetCommand()).
		Logger()

	l.Info().Msg("handling request")

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if !c.authorizer.IsAuthorized(ctx, message.ChatID) {
		return nil
	}

	if !c.tracker.CheckLimit(ctx, message.ChatID) {
		return nil
	}

	if message.FileErr != nil {
		l.Warn().Err(message.FileErr).Msg("attachment could not be resolved")
		_ = c.textSender.NotifyAndReturnError(ctx, fmt.Errorf("failed to fetch image: %w", message.FileErr), message)
		return nil
	}

	if message.FileURL == "" {
		_ = c.textSender.NotifyAndReturnError(ctx, domain.ErrMissingImage, message)
		return nil
	}

	cfg, err := ParseConvertArgs(ParseCommandArgs(message.Text), c.limits.MaxDimension)
	if err != nil {
		_ = c.textSender.NotifyAndReturnError(ctx, err, message)
		return nil
	}

	if c.limits.MaxInputBytes > 0 && message.FileSize > c.limits.MaxInputBytes {
		_ = c.textSender.NotifyAndReturnError(ctx,
			fmt.Errorf("image is too large, the limit is %d MB", c.limits.MaxInputBytes/(1024*1024)), message)
		return nil
	}

	go c.textSender.SendChatAction(ctx, message.ChatID, domain.SendingDocument)

	data, err := c.downloader.Download(ctx, message.FileURL, c.limits.MaxInputBytes)
	if err != nil {
		return c.textSender.NotifyAndReturnError(context.WithoutCancel(ctx),
			fmt.Errorf("failed to download image: %w", err), message)
	}

	img, format, err := c.decoder.Decode(data)
	if err != nil {
		l.Warn().Err(err).Msg("could not decode upload")
		_ = c.textSender.NotifyAndReturnError(ctx, fmt.Errorf("failed to read image: %w", err), message)
		return nil
	}

	bounds := img.Bounds()
	geometry := domain.ResolveGeometry(bounds.Dx(), bounds.Dy(), cfg)
	if err := domain.CheckDimensions(geometry, c.limits.MaxDimension); err != nil {
		_ = c.textSender.NotifyAndReturnError(ctx, err, message)
		return nil
	}

	l.Debug().Str("sourceFormat", format).Str("targetFormat", string(cfg.Format)).Msg("starting conversion")

	var res domain.ConvertResult
	select {
	case res = <-c.converter.Convert(ctx, img, cfg):
	case <-ctx.Done():
		return c.textSender.NotifyAndReturnError(context.WithoutCancel(ctx),
			fmt.Errorf("conversion timed out: %w", ctx.Err()), message)
	}

	if res.Err != nil {
		return c.textSender.NotifyAndReturnError(context.WithoutCancel(ctx),
			fmt.Errorf("failed to convert image: %w", res.Err), message)
	}

	name := OutputFileName(message.FileName, res.Result.Extension)
	err = c.documentSender.SendDocumentReply(ctx, message, name, res.Result)
	if err != nil {
		return c.textSender.NotifyAndReturnError(context.WithoutCancel(ctx),
			fmt.Errorf("failed to send converted image: %w", err), message)
	}

	c.tracker.AddConversion(message.ChatID)

	l.Info().Str("file", name).Int("bytes", len(res.Result.Data)).Msg("sent converted image")

	return nil
}
