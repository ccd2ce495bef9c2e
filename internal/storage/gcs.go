// Package storage persists pitch attachments in Google Cloud Storage.
package storage

import (
	"context"
	"fmt"
	"io"
	"path"

	"github.com/google/uuid"
	gstorage "google.golang.org/api/storage/v1"
)

// Uploader stores an attachment and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, fileName, contentType string, body io.Reader) (string, error)
}

// GCSUploader implements Uploader against a Cloud Storage bucket with public
// read objects.
type GCSUploader struct {
	service *gstorage.Service
	bucket  string
}

// NewGCSUploader builds an uploader using application default credentials.
func NewGCSUploader(ctx context.Context, bucket string) (*GCSUploader, error) {
	service, err := gstorage.NewService(ctx)
	if err != nil {
		return nil, fmt.Errorf("create storage service: %w", err)
	}
	return &GCSUploader{service: service, bucket: bucket}, nil
}

// Upload writes the attachment under a collision-free object name and
// returns the public object URL.
func (u *GCSUploader) Upload(ctx context.Context, fileName, contentType string, body io.Reader) (string, error) {
	objectName := uuid.NewString() + path.Ext(fileName)

	object := &gstorage.Object{
		Name:        objectName,
		ContentType: contentType,
	}
	if _, err := u.service.Objects.Insert(u.bucket, object).Media(body).Context(ctx).Do(); err != nil {
		return "", fmt.Errorf("upload attachment %q: %w", fileName, err)
	}

	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", u.bucket, objectName), nil
}
