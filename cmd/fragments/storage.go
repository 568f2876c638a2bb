package main

import (
	"fmt"
	"log/slog"

	"fragments/internal/blobstore"
	"fragments/internal/config"
	"fragments/internal/fragment"
	"fragments/internal/store"
)

// openBackend builds the metadata and payload stores selected by cfg. The
// returned closer releases the metadata database, if any.
func openBackend(cfg *config.Config, logger *slog.Logger) (fragment.Backend, func() error, error) {
	noop := func() error { return nil }
	if err := config.ValidateStorageBackend(cfg.Storage.Backend); err != nil {
		return fragment.Backend{}, noop, err
	}

	if cfg.Storage.Backend == config.StorageMemory {
		logger.Warn("using in-memory storage; fragments are lost on restart")
		return fragment.Backend{
			Metadata: store.NewMemory(),
			Payload:  blobstore.NewMemory(),
		}, noop, nil
	}

	if cfg.Storage.DBPath == "" {
		return fragment.Backend{}, noop, fmt.Errorf("db path is required")
	}
	logger.Info("opening database", "path", cfg.Storage.DBPath)
	st, err := store.Open(cfg.Storage.DBPath)
	if err != nil {
		return fragment.Backend{}, noop, err
	}

	logger.Info("opening payload store", "path", cfg.Storage.DataDir, "compress", cfg.Storage.Compress)
	payload, err := blobstore.NewLocal(cfg.Storage.DataDir, blobstore.WithCompression(cfg.Storage.Compress))
	if err != nil {
		_ = st.Close()
		return fragment.Backend{}, noop, err
	}

	return fragment.Backend{Metadata: st, Payload: payload}, st.Close, nil
}
