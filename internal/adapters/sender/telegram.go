package sender

import (
	"bytes"
	"context"
	"fmt"
	"imgbot/internal/core/domain"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog/log"
)

const (
	TelegramMessageLimit = 4096
	ChatActionRepeat     = 5 * time.Second
)

type TelegramBot interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
	SendDocument(ctx context.Context, params *bot.SendDocumentParams) (*models.Message, error)
	SendChatAction(ctx context.Context, params *bot.SendChatActionParams) (bool, error)
}

type Telegram struct {
	bot    TelegramBot
	repeat time.Duration
}

func NewTelegram(bot TelegramBot) *Telegram {
	return &Telegram{bot: bot, repeat: ChatActionRepeat}
}

// SendMessageReply replies with text, split into several messages when it exceeds the Telegram limit. The ID of
// the last sent message is returned.
func (s *Telegram) SendMessageReply(ctx context.Context, message *domain.Message, text string) (int, error) {
	var id int

	for _, chunk := range chunkText(text, TelegramMessageLimit) {
		sent, err := s.bot.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: message.ChatID,
			Text:   chunk,
			ReplyParameters: &models.ReplyParameters{
				MessageID: message.ID,
				ChatID:    message.ChatID,
			},
		})
		if err != nil {
			log.Error().Err(err).Int64("chatId", message.ChatID).Msg("failed to send message")
			return 0, fmt.Errorf("%w: %w", domain.ErrSendingReplyFailed, err)
		}
		id = sent.ID
	}

	return id, nil
}

func (s *Telegram) SendDocumentReply(ctx context.Context, message *domain.Message, fileName string,
	result *domain.EncodedResult) error {
	params := &bot.SendDocumentParams{
		ChatID: message.ChatID,
		Document: &models.InputFileUpload{
			Filename: fileName,
			Data:     bytes.NewReader(result.Data),
		},
		Caption: fmt.Sprintf("%dx%d %s, %d KB", result.Width, result.Height, result.MimeType,
			(len(result.Data)+1023)/1024),
		ReplyParameters: &models.ReplyParameters{
			MessageID: message.ID,
			ChatID:    message.ChatID,
		},
	}

	_, err := s.bot.SendDocument(ctx, params)
	if err != nil {
		log.Error().Err(err).Msg("failed to send document response")
		return err
	}

	return nil
}

func (s *Telegram) NotifyAndReturnError(ctx context.Context, err error, message *domain.Message) error {
	_, sendErr := s.SendMessageReply(ctx, message, err.Error())
	if sendErr != nil {
		log.Error().Err(sendErr).AnErr("cause", err).Msg("failed to notify chat about error")
		return sendErr
	}

	return err
}

func (s *Telegram) SendChatAction(ctx context.Context, chatID int64, action domain.Action) {
	var chatAction models.ChatAction
	switch action {
	case domain.SendingDocument:
		chatAction = models.ChatActionUploadDocument
	default:
		chatAction = models.ChatActionTyping
	}

	log.Debug().Int64("chatID", chatID).Msg("starting action routine")
	for {
		log.Debug().Int64("chatID", chatID).Msg("transmitting action")
		_, err := s.bot.SendChatAction(ctx, &bot.SendChatActionParams{
			ChatID: chatID,
			Action: chatAction,
		})
		if err != nil {
			log.Err(err).Msg("error sending chat action")
			return
		}

		select {
		case <-ctx.Done():
			log.Debug().Int64("chatID", chatID).Msg("done, stopping action routine")
			return
		case <-time.After(s.repeat):
		}
	}
}

func chunkText(text string, limit int) []string {
	runes := []rune(text)
	if len(runes) <= limit {
		return []string{text}
	}

	chunks := make([]string, 0, len(runes)/limit+1)
	for len(runes) > 0 {
		n := min(limit, len(runes))
		chunks = append(chunks, string(runes[:n]))
		runes = runes[n:]
	}

	return chunks
}
