package file

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gofrs/uuid/v5"
	"github.com/rs/zerolog/log"
)

var ErrFileTooLarge = errors.New("file exceeds size limit")

type Downloader struct {
	client *http.Client
}

func NewDownloader(client *http.Client) *Downloader {
	if client == nil {
		client = &http.Client{}
	}
	return &Downloader{client: client}
}

// Download returns the byte content of a file on a provided URL, reading at most maxBytes.
func (d *Downloader) Download(ctx context.Context, path string, maxBytes int64) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, path, nil)
	if err != nil {
		err = fmt.Errorf("error creating request %w", err)
		log.Error().Err(err).Send()
		return nil, err
	}

	res, err := d.client.Do(req)
	if err != nil {
		err = fmt.Errorf("error executing request %w", err)
		log.Error().Err(err).Send()
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		err = fmt.Errorf("unexpected status code on download: %d", res.StatusCode)
		log.Error().Err(err).Send()
		return nil, err
	}

	if maxBytes > 0 && res.ContentLength > maxBytes {
		return nil, fmt.Errorf("%w: %d bytes", ErrFileTooLarge, res.ContentLength)
	}

	reader := res.Body
	if maxBytes > 0 {
		reader = io.NopCloser(io.LimitReader(res.Body, maxBytes+1))
	}

	buf, err := io.ReadAll(reader)
	if err != nil {
		err = fmt.Errorf("error reading response %w", err)
		log.Error().Err(err).Send()
		return nil, err
	}

	if maxBytes > 0 && int64(len(buf)) > maxBytes {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrFileTooLarge, maxBytes)
	}

	log.Debug().Int("bytes", len(buf)).Msg("downloaded file")

	return buf, nil
}

// SaveFile writes data next to path under a temporary name and renames it into place, so readers
// never observe a partially written file.
func SaveFile(path string, data []byte) error {
	id, err := uuid.NewV4()
	if err != nil {
		return err
	}

	tmp := filepath.Join(filepath.Dir(path), fmt.Sprintf(".%s.tmp", id.String()))

	log.Debug().Int("bytes", len(data)).Str("path", tmp).Msg("creating temp file")

	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		err = fmt.Errorf("error writing temp file %w", err)
		log.Error().Err(err).Send()
		return err
	}

	if err := os.Rename(tmp, path); err != nil {
		removeTempFile(tmp)
		err = fmt.Errorf("error moving temp file into place %w", err)
		log.Error().Err(err).Send()
		return err
	}

	log.Debug().Str("path", path).Msg("saved file")

	return nil
}

func removeTempFile(path string) {
	err := os.Remove(path)
	if err != nil {
		log.Warn().Str("path", path).Err(err).Msg("could not clean up temp file")
		return
	}
	log.Debug().Str("path", path).Msg("cleaned up temp file")
}
