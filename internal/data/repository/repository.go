package repository

import (
	"catalog-console/pkg/backend"

	"go.uber.org/zap"
)

const (
	TableGenres  = "genres"
	TableContent = "content"
)

type Repository struct {
	Session SessionRepository
	Genre   GenreRepository
	Content ContentRepository
	Asset   AssetRepository
}

func NewRepository(client *backend.Client, log *zap.Logger) *Repository {
	return &Repository{
		Session: NewSessionRepository(client.Auth, log),
		Genre:   NewGenreRepository(client, log),
		Content: NewContentRepository(client, log),
		Asset:   NewAssetRepository(client.Storage, log),
	}
}
