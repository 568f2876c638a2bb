package store

import (
	"context"
	"strings"

	"fragments/internal/models"
)

// MetadataStore persists serialized fragment records keyed by (ownerID, id).
//
// Get returns nil, nil when no record exists. Query returns the owner's
// records in insertion order and never crosses owners.
type MetadataStore interface {
	Put(ctx context.Context, ownerID, id string, record []byte) error
	Get(ctx context.Context, ownerID, id string) ([]byte, error)
	Query(ctx context.Context, ownerID string) ([][]byte, error)
	Delete(ctx context.Context, ownerID, id string) error
}

var (
	_ MetadataStore = (*Store)(nil)
	_ MetadataStore = (*Memory)(nil)
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

func validateOwner(ownerID string) error {
	if strings.TrimSpace(ownerID) == "" {
		return models.NewValidationError("ownerId", "key is required")
	}
	return nil
}
