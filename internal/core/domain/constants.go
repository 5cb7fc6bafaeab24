package domain

import (
	"errors"
	"fmt"
)

var (
	ErrSendingReplyFailed = errors.New("failed to send reply")
	ErrEmptySource        = errors.New("image has no pixels")
	ErrEncode             = errors.New("failed to encode image")
	ErrMissingImage       = errors.New("reply to an image or send one with this command")
	ErrFileUnavailable    = errors.New("could not fetch the image from telegram")
	ErrTargetTooLarge     = errors.New("output size exceeds the maximum")
)

// TargetSizeError is returned when a resolved output size is larger than the configured maximum side.
type TargetSizeError struct {
	Width  int
	Height int
	Max    int
}

func (e *TargetSizeError) Error() string {
	return fmt.Sprintf("output size %dx%d exceeds the maximum of %d pixels", e.Width, e.Height, e.Max)
}

func (e *TargetSizeError) Is(target error) bool {
	return target == ErrTargetTooLarge
}

// EncodeError is returned when the codec for MimeType rejects the bitmap.
type EncodeError struct {
	MimeType string
	Err      error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("encoding %s: %v", e.MimeType, e.Err)
}

func (e *EncodeError) Unwrap() error {
	return e.Err
}

func (e *EncodeError) Is(target error) bool {
	return target == ErrEncode
}
