package repository

import (
	"context"
	"fmt"

	"catalog-console/internal/data/entity"
	"catalog-console/pkg/backend"

	"go.uber.org/zap"
)

type GenreRepository interface {
	FindAll(ctx context.Context) ([]entity.Genre, error)
	Create(ctx context.Context, name string) error
	Update(ctx context.Context, id int64, name string) error
	Delete(ctx context.Context, id int64) error
}

type genreRepository struct {
	client *backend.Client
	log    *zap.Logger
}

func NewGenreRepository(client *backend.Client, log *zap.Logger) GenreRepository {
	return &genreRepository{
		client: client,
		log:    log.With(zap.String("repository", "genre")),
	}
}

func (r *genreRepository) FindAll(ctx context.Context) ([]entity.Genre, error) {
	var genres []entity.Genre
	if err := r.client.From(TableGenres).Select(ctx, "*", &genres, backend.OrderBy("id")); err != nil {
		r.log.Error("Failed to fetch genres", zap.Error(err))
		return nil, fmt.Errorf("find all genres: %w", err)
	}
	if genres == nil {
		genres = []entity.Genre{}
	}
	return genres, nil
}

func (r *genreRepository) Create(ctx context.Context, name string) error {
	rows := []map[string]string{{"name": name}}
	if err := r.client.From(TableGenres).Insert(ctx, rows); err != nil {
		r.log.Error("Failed to insert genre", zap.Error(err), zap.String("name", name))
		return fmt.Errorf("create genre: %w", err)
	}
	return nil
}

func (r *genreRepository) Update(ctx context.Context, id int64, name string) error {
	err := r.client.From(TableGenres).Update(ctx, map[string]string{"name": name}, backend.Eq("id", id))
	if err != nil {
		r.log.Error("Failed to update genre",
			zap.Error(err),
			zap.Int64("genre_id", id),
			zap.String("name", name),
		)
		return fmt.Errorf("update genre %d: %w", id, err)
	}
	return nil
}

func (r *genreRepository) Delete(ctx context.Context, id int64) error {
	if err := r.client.From(TableGenres).Delete(ctx, backend.Eq("id", id)); err != nil {
		r.log.Error("Failed to delete genre", zap.Error(err), zap.Int64("genre_id", id))
		return fmt.Errorf("delete genre %d: %w", id, err)
	}
	return nil
}
