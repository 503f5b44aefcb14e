// Package noop provides an ObjectStorage that silently discards uploads,
// used when no archive bucket is configured.
package noop

import (
	"context"
	"log"

	"clearbill/internal/port"
)

type storage struct{}

// NewStorage creates a no-op ObjectStorage.
func NewStorage() port.ObjectStorage {
	log.Printf("noop.NewStorage: document archival is not configured; uploads will be discarded")
	return &storage{}
}

func (s *storage) Upload(_ context.Context, input port.UploadInput) (*port.UploadOutput, error) {
	return &port.UploadOutput{Location: "noop://" + input.Key}, nil
}

func (s *storage) Delete(_ context.Context, _, _ string) error {
	return nil
}

func (s *storage) GetPresignedURL(_ context.Context, _, _ string, _ int64) (string, error) {
	return "", nil
}
