package adaptor

import (
	"catalog-console/internal/usecase"
	"catalog-console/pkg/utils"

	"go.uber.org/zap"
)

type Handler struct {
	Auth      *AuthHandler
	Dashboard *DashboardHandler
	Genre     *GenreHandler
	WatchAge  *WatchAgeHandler
	Content   *ContentHandler
}

func NewHandler(service *usecase.Service, view *View, config *utils.Config, log *zap.Logger) *Handler {
	return &Handler{
		Auth:      NewAuthHandler(service.Auth, view, config.Session, log),
		Dashboard: NewDashboardHandler(view, log),
		Genre:     NewGenreHandler(service.Genre, view, log),
		WatchAge:  NewWatchAgeHandler(service.WatchAge, view, log),
		Content:   NewContentHandler(service.Content, view, config.Storage, log),
	}
}
