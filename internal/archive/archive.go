// Package archive keeps the original receipt photos in a GCS bucket so the
// evidence behind a sheet row can always be pulled back up. Archiving is
// strictly best-effort: a failed upload is logged and never fails the event.
package archive

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"cloud.google.com/go/storage"
	"github.com/rs/zerolog"
)

type Store struct {
	client *storage.Client
	bucket string
	log    zerolog.Logger
}

func New(ctx context.Context, bucket string, log zerolog.Logger) (*Store, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("archive: create storage client: %w", err)
	}
	return &Store{client: client, bucket: bucket, log: log}, nil
}

// SavePhoto uploads the image bytes under a date-partitioned object name and
// returns the resulting GCS URI.
func (s *Store) SavePhoto(ctx context.Context, data []byte, eventID string, when time.Time) (string, error) {
	objectName := fmt.Sprintf("receipts/%s/%s.jpg", when.Format("2006/01/02"), eventID)

	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	w := s.client.Bucket(s.bucket).Object(objectName).NewWriter(ctx)
	if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("archive: write object %q: %w", objectName, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("archive: finalize upload of %q: %w", objectName, err)
	}

	uri := fmt.Sprintf("gs://%s/%s", s.bucket, objectName)
	s.log.Debug().Str("uri", uri).Msg("archived receipt photo")
	return uri, nil
}

func (s *Store) Close() error {
	return s.client.Close()
}
