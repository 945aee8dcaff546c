package repository

import (
	"context"
	"fmt"

	"catalog-console/internal/data/entity"
	"catalog-console/pkg/backend"

	"go.uber.org/zap"
)

type ContentRepository interface {
	Create(ctx context.Context, record *entity.ContentRecord) error
}

type contentRepository struct {
	client *backend.Client
	log    *zap.Logger
}

func NewContentRepository(client *backend.Client, log *zap.Logger) ContentRepository {
	return &contentRepository{
		client: client,
		log:    log.With(zap.String("repository", "content")),
	}
}

// Create inserts the record as a single row.
func (r *contentRepository) Create(ctx context.Context, record *entity.ContentRecord) error {
	if record.Genres == nil {
		record.Genres = []string{}
	}
	if err := r.client.From(TableContent).Insert(ctx, []*entity.ContentRecord{record}); err != nil {
		r.log.Error("Failed to insert content",
			zap.Error(err),
			zap.String("title", record.Title),
		)
		return fmt.Errorf("create content: %w", err)
	}
	return nil
}
