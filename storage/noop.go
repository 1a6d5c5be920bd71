package storage

import (
	"context"
	"errors"
	"io"
)

var ErrUploadsDisabled = errors.New("file uploads are not configured")

type noopUploader struct{}

// NewNoopUploader returns an uploader that rejects every upload. Used
// when the deployment has no object storage configured.
func NewNoopUploader() FileUploader {
	return noopUploader{}
}

func (noopUploader) Upload(ctx context.Context, key, contentType string, reader io.Reader) (*UploadResult, error) {
	return nil, ErrUploadsDisabled
}

func (noopUploader) Delete(ctx context.Context, key string) error { return nil }

func (noopUploader) GetPublicURL(key string) string { return "" }
