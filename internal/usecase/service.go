package usecase

import (
	"catalog-console/internal/data/repository"
	"catalog-console/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Auth     AuthService
	Genre    GenreService
	WatchAge WatchAgeService
	Content  ContentService
}

func NewService(repo *repository.Repository, config *utils.Config, log *zap.Logger) *Service {
	return &Service{
		Auth:     NewAuthService(repo.Session, config.Session, log),
		Genre:    NewGenreService(repo.Genre, log),
		WatchAge: NewWatchAgeService(log),
		Content:  NewContentService(repo, log),
	}
}
