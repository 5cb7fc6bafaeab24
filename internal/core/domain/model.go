package domain

type Message struct {
	ID       int
	ChatID   int64
	Username string
	Text     string
	// FileURL points to the image attached to the message or to the message it replies to.
	FileURL  string
	FileName string
	FileSize int64
	// FileErr is set when an image was attached but its download link could not be resolved.
	FileErr error
}

type Action string

const (
	Typing          Action = "typing"
	SendingDocument Action = "sending_document"
)
