package repository

import (
	"context"
	"fmt"
	"io"

	"catalog-console/internal/data/entity"
	"catalog-console/pkg/backend"

	"go.uber.org/zap"
)

type AssetRepository interface {
	// Upload stores body at path and resolves its public URL.
	Upload(ctx context.Context, kind entity.AssetKind, path string, body io.Reader, contentType string) (*entity.UploadedAsset, error)
}

type assetRepository struct {
	storage backend.Storage
	log     *zap.Logger
}

func NewAssetRepository(storage backend.Storage, log *zap.Logger) AssetRepository {
	return &assetRepository{
		storage: storage,
		log:     log.With(zap.String("repository", "asset")),
	}
}

func (r *assetRepository) Upload(ctx context.Context, kind entity.AssetKind, path string, body io.Reader, contentType string) (*entity.UploadedAsset, error) {
	if err := r.storage.Upload(ctx, path, body, contentType); err != nil {
		r.log.Error("Failed to upload asset",
			zap.Error(err),
			zap.String("kind", string(kind)),
			zap.String("path", path),
		)
		return nil, fmt.Errorf("upload %s: %w", kind, err)
	}

	asset := &entity.UploadedAsset{
		Kind:        kind,
		StoragePath: path,
		PublicURL:   r.storage.PublicURL(path),
	}

	r.log.Info("Asset uploaded",
		zap.String("kind", string(kind)),
		zap.String("path", path),
	)
	return asset, nil
}
