package command

import (
	"context"
	"image"
	"imgbot/internal/core/domain"
	"sync"
)

type MockTextSender struct {
	mu      sync.Mutex
	err     error
	Message string
	CtxErr  error
}

func (m *MockTextSender) SendMessageReply(_ context.Context, _ *domain.Message, message string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Message = message
	return 0, m.err
}

func (m *MockTextSender) NotifyAndReturnError(ctx context.Context, err error, _ *domain.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Message = err.Error()
	m.CtxErr = ctx.Err()
	if m.err != nil {
		return m.err
	}
	return err
}

func (m *MockTextSender) SendChatAction(_ context.Context, _ int64, _ domain.Action) {}

type MockDocumentSender struct {
	err      error
	FileName string
	Result   *domain.EncodedResult
}

func (m *MockDocumentSender) SendDocumentReply(_ context.Context, _ *domain.Message, fileName string,
	result *domain.EncodedResult) error {
	m.FileName = fileName
	m.Result = result
	return m.err
}

type MockDownloader struct {
	err      error
	data     []byte
	block    bool
	URL      string
	MaxBytes int64
}

func (m *MockDownloader) Download(ctx context.Context, url string, maxBytes int64) ([]byte, error) {
	m.URL = url
	m.MaxBytes = maxBytes
	if m.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return m.data, m.err
}

type MockDecoder struct {
	err error
	img image.Image
}

func (m *MockDecoder) Decode(_ []byte) (image.Image, string, error) {
	return m.img, "png", m.err
}

type MockConverter struct {
	result *domain.EncodedResult
	err    error
	block  bool
	Config domain.TransformConfig
	Called bool
}

func (m *MockConverter) Convert(_ context.Context, _ image.Image,
	cfg domain.TransformConfig) <-chan domain.ConvertResult {
	m.Called = true
	m.Config = cfg

	done := make(chan domain.ConvertResult, 1)
	if m.block {
		return done
	}
	done <- domain.ConvertResult{Result: m.result, Err: m.err}
	close(done)
	return done
}

type MockAuthorizer struct {
	deny bool
}

func (m *MockAuthorizer) IsAuthorized(_ context.Context, _ int64) bool {
	return !m.deny
}

type MockTracker struct {
	overLimit   bool
	limit       int
	Conversions int
}

func (m *MockTracker) AddConversion(_ int64) {
	m.Conversions++
}

func (m *MockTracker) CheckLimit(_ context.Context, _ int64) bool {
	return !m.overLimit
}

func (m *MockTracker) GetConversions(_ int64) int {
	return m.Conversions
}

func (m *MockTracker) GetLimit() int {
	return m.limit
}
