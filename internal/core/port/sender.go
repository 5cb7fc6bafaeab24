package port

import (
	"context"
	"imgbot/internal/core/domain"
)

type TextSender interface {
	// SendMessageReply sends a reply to a specified message with the given text and returns the sent message ID and
	// an error if any.
	SendMessageReply(ctx context.Context, message *domain.Message, text string) (int, error)
	// SendChatAction sends a specified chat action (e.g., typing, uploading a document) to indicate activity in a
	// given chat.
	SendChatAction(ctx context.Context, chatID int64, action domain.Action)
	// NotifyAndReturnError sends an error notification based on the provided message context and returns the error.
	NotifyAndReturnError(ctx context.Context, err error, message *domain.Message) error
}

type DocumentSender interface {
	// SendDocumentReply sends an encoded file as document so the chat client does not recompress it.
	SendDocumentReply(ctx context.Context, message *domain.Message, fileName string, result *domain.EncodedResult) error
}
