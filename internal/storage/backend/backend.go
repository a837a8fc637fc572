// Package backend selects the object store implementation from configuration.
package backend

import (
	"context"
	"fmt"

	"github.com/mrlokans/portfolio/internal/config"
	"github.com/mrlokans/portfolio/internal/storage"
	"github.com/mrlokans/portfolio/internal/storage/localstore"
	"github.com/mrlokans/portfolio/internal/storage/s3store"
)

// Open builds the object store selected by cfg.Backend.
func Open(ctx context.Context, cfg config.Storage) (storage.ObjectStore, error) {
	switch cfg.Backend {
	case config.StorageBackendLocal, "":
		store, err := localstore.New(cfg.LocalDir, cfg.LocalBaseURL)
		if err != nil {
			return nil, err
		}
		return store, nil
	case config.StorageBackendS3:
		store, err := s3store.New(ctx, s3store.Config{
			Bucket:        cfg.S3Bucket,
			Region:        cfg.S3Region,
			Endpoint:      cfg.S3Endpoint,
			AccessKey:     cfg.S3AccessKey,
			SecretKey:     cfg.S3SecretKey,
			UsePathStyle:  cfg.S3UsePathStyle,
			PublicBaseURL: cfg.S3PublicBaseURL,
		})
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
