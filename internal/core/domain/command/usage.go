package command

import (
	"context"
	"fmt"
	"imgbot/internal/core/domain"
	"imgbot/internal/core/port"
	"imgbot/internal/core/service"
	"time"
)

type Usage struct {
	tracker service.Tracker
	sender  port.TextSender
	command string
}

func NewUsage(tracker service.Tracker, ts port.TextSender, command string) *Usage {
	return &Usage{
		tracker: tracker,
		sender:  ts,
		command: command,
	}
}

func (u *Usage) GetCommand() string {
	return u.command
}

func (u *Usage) GetUsage() string {
	return u.command + ": show today's conversions in this chat"
}

const (
	usageMessage          = "Conversions today within ChatID %d: %d of %d."
	usageMessageUnlimited = "Conversions today within ChatID %d: %d."
)

func (u *Usage) Respond(ctx context.Context, _ time.Duration, message *domain.Message) error {
	used := u.tracker.GetConversions(message.ChatID)

	text := fmt.Sprintf(usageMessageUnlimited, message.ChatID, used)
	if limit := u.tracker.GetLimit(); limit > 0 {
		text = fmt.Sprintf(usageMessage, message.ChatID, used, limit)
	}

	_, err := u.sender.SendMessageReply(ctx, message, text)
	if err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}

	return nil
}
