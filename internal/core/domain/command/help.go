package command

import (
	"context"
	"fmt"
	"imgbot/internal/core/domain"
	"imgbot/internal/core/port"
	"strings"
	"time"
)

type Help struct {
	registry port.CommandRegistry
	sender   port.TextSender
	command  string
}

func NewHelp(registry port.CommandRegistry, ts port.TextSender, command string) *Help {
	return &Help{registry: registry, sender: ts, command: command}
}

func (h *Help) GetCommand() string {
	return h.command
}

func (h *Help) GetUsage() string {
	return h.command + ": list available commands"
}

func (h *Help) Respond(ctx context.Context, _ time.Duration, message *domain.Message) error {
	var sb strings.Builder
	sb.WriteString("Available commands:\n")

	for _, name := range h.registry.ListCommands() {
		cmd, err := h.registry.Get(name)
		if err != nil {
			continue
		}
		sb.WriteString(cmd.GetUsage())
		sb.WriteString("\n")
	}

	_, err := h.sender.SendMessageReply(ctx, message, strings.TrimSuffix(sb.String(), "\n"))
	if err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}

	return nil
}
