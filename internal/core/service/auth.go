package service

import (
	"context"
	"errors"
	"fmt"
	"imgbot/internal/core/domain"
	"imgbot/internal/core/port"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Authorizer interface {
	IsAuthorized(ctx context.Context, chatID int64) bool
}

// ChatAuthorizer admits chats listed in telegram.allowed_chat_ids.
type ChatAuthorizer struct {
	allowed map[int64]struct{}
	admin   string
	sender  port.TextSender
}

func NewAuthorizer(sender port.TextSender) (*ChatAuthorizer, error) {
	var list []int64

	err := viper.UnmarshalKey("telegram.allowed_chat_ids", &list)
	if err != nil {
		return nil, errors.New("failed to load allowed chat IDs")
	}

	allowed := make(map[int64]struct{}, len(list))
	for _, id := range list {
		allowed[id] = struct{}{}
	}

	log.Info().Int("chats", len(allowed)).Msg("loaded chat allowlist")

	return &ChatAuthorizer{
		allowed: allowed,
		admin:   viper.GetString("telegram.admin_username"),
		sender:  sender,
	}, nil
}

const forbidden = "You are not allowed to convert images with this bot. Please contact @%s with this ID to get access: %d"

func (a *ChatAuthorizer) IsAuthorized(ctx context.Context, chatID int64) bool {
	if _, ok := a.allowed[chatID]; ok {
		return true
	}

	log.Info().Int64("chatId", chatID).Msg("rejected unauthorized chat")

	_, err := a.sender.SendMessageReply(ctx,
		&domain.Message{ChatID: chatID},
		fmt.Sprintf(forbidden, a.admin, chatID))
	if err != nil {
		log.Err(err).Msg("failed to send unauthorized warning")
	}

	return false
}
