package blobstore

import (
	"context"
	"strings"

	"fragments/internal/models"
)

// PayloadStore is the byte-storage abstraction behind fragment data, keyed
// by (ownerID, id). Get returns nil, false when no payload exists.
type PayloadStore interface {
	Put(ctx context.Context, ownerID, id string, data []byte) error
	Get(ctx context.Context, ownerID, id string) ([]byte, bool, error)
	Delete(ctx context.Context, ownerID, id string) error
}

var (
	_ PayloadStore = (*Local)(nil)
	_ PayloadStore = (*Memory)(nil)
)

func validateKey(ownerID, id string) error {
	if strings.TrimSpace(ownerID) == "" {
		return models.NewValidationError("ownerId", "key is required")
	}
	if strings.TrimSpace(id) == "" {
		return models.NewValidationError("id", "key is required")
	}
	return nil
}
