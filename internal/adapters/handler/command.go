package handler

import (
	"context"
	"fmt"
	"imgbot/internal/core/domain"
	"imgbot/internal/core/domain/command"
	"imgbot/internal/core/port"
	"path"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog/log"
)

type fileResolver interface {
	GetFile(ctx context.Context, params *bot.GetFileParams) (*models.File, error)
	FileDownloadLink(f *models.File) string
}

type attachment struct {
	fileID   string
	fileName string
	fileSize int64
}

type Command struct {
	commandRegistry port.CommandRegistry
	timeout         time.Duration
	maxInputBytes   int64
}

func NewCommand(commandRegistry port.CommandRegistry, timeout time.Duration, maxInputBytes int64) *Command {
	return &Command{commandRegistry: commandRegistry, timeout: timeout, maxInputBytes: maxInputBytes}
}

func (c *Command) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	c.handle(ctx, b, update)
}

func (c *Command) handle(ctx context.Context, files fileResolver, update *models.Update) {
	if update.Message == nil {
		log.Debug().Msg("update without message")
		return
	}

	msg := update.Message
	text := msg.Text
	if text == "" {
		text = msg.Caption
	}

	log.Debug().Str("message", text).Msg("received command")

	cmd := command.ParseCommand(text)
	commandHandler, err := c.commandRegistry.Get(cmd)
	if err != nil {
		log.Debug().Str("command", cmd).Msg("no handler for command")
		return
	}

	message := &domain.Message{
		ID:       msg.ID,
		ChatID:   msg.Chat.ID,
		Username: getUserNameFromMessage(msg.From),
		Text:     text,
	}

	file := findAttachment(msg, c.maxInputBytes)
	if file == nil && msg.ReplyToMessage != nil {
		file = findAttachment(msg.ReplyToMessage, c.maxInputBytes)
	}

	go func() {
		if file != nil {
			resolveAttachment(ctx, files, file, message)
		}

		err := commandHandler.Respond(context.Background(), c.timeout, message)
		if err != nil {
			log.Err(err).Str("command", cmd).Msg("failed to respond to command")
		}
	}()
}

func resolveAttachment(ctx context.Context, files fileResolver, file *attachment, message *domain.Message) {
	f, err := files.GetFile(ctx, &bot.GetFileParams{FileID: file.fileID})
	if err != nil {
		log.Error().Err(err).Str("fileId", file.fileID).Msg("error getting file from telegram api")
		message.FileErr = fmt.Errorf("%w: %w", domain.ErrFileUnavailable, err)
		return
	}

	message.FileURL = files.FileDownloadLink(f)
	message.FileSize = file.fileSize
	message.FileName = file.fileName
	if message.FileName == "" {
		message.FileName = path.Base(f.FilePath)
	}
	if f.FileSize > 0 {
		message.FileSize = f.FileSize
	}
}

func findAttachment(msg *models.Message, maxBytes int64) *attachment {
	if msg.Document != nil && strings.HasPrefix(msg.Document.MimeType, "image/") {
		return &attachment{
			fileID:   msg.Document.FileID,
			fileName: msg.Document.FileName,
			fileSize: msg.Document.FileSize,
		}
	}

	if len(msg.Photo) > 0 {
		photo := findLargestFittingPhoto(msg.Photo, maxBytes)
		return &attachment{
			fileID:   photo.FileID,
			fileSize: int64(photo.FileSize),
		}
	}

	return nil
}

// findLargestFittingPhoto returns the biggest photo size below the input limit, or the smallest one if none fits.
func findLargestFittingPhoto(photos []models.PhotoSize, maxBytes int64) models.PhotoSize {
	best := -1
	for i, photo := range photos {
		if maxBytes > 0 && int64(photo.FileSize) > maxBytes {
			continue
		}
		if best < 0 || photo.Width*photo.Height > photos[best].Width*photos[best].Height {
			best = i
		}
	}

	if best < 0 {
		return photos[0]
	}

	return photos[best]
}

func getUserNameFromMessage(user *models.User) string {
	if user == nil {
		return ""
	}

	if user.Username == "" {
		return user.FirstName
	}

	return "@" + user.Username
}
