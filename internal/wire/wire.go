// internal/wire/wire.go
package wire

import (
	"net/http"
	"strings"

	"catalog-console/internal/adaptor"
	"catalog-console/internal/data/repository"
	"catalog-console/internal/usecase"
	"catalog-console/pkg/backend"
	"catalog-console/pkg/middleware"
	"catalog-console/pkg/utils"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// App holds the assembled HTTP surface
type App struct {
	Router *chi.Mux
}

// Wiring builds repositories, services, handlers and routes on top of one
// backend client.
func Wiring(client *backend.Client, config *utils.Config, logger *zap.Logger) (*App, error) {
	repo := repository.NewRepository(client, logger)
	service := usecase.NewService(repo, config, logger)

	view, err := adaptor.NewView(logger)
	if err != nil {
		return nil, err
	}
	handler := adaptor.NewHandler(service, view, config, logger)

	router := setupRouter(handler, service, client, config, logger)

	return &App{
		Router: router,
	}, nil
}

// setupRouter configures the chi router
func setupRouter(
	handler *adaptor.Handler,
	service *usecase.Service,
	client *backend.Client,
	config *utils.Config,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Apply global middleware
	r.Use(chimw.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))

	guard := middleware.SessionGuard(service.Auth, config.Session, logger)

	wireAuth(r, handler.Auth, guard)
	r.Group(func(r chi.Router) {
		r.Use(guard)
		wireDashboard(r, handler.Dashboard)
		wireGenre(r, handler.Genre)
		wireWatchAge(r, handler.WatchAge)
		wireContent(r, handler.Content)
	})

	if store, ok := client.Storage.(*backend.FileStore); ok {
		wireMedia(r, store)
	}

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		utils.ResponseSuccess(w, "OK", map[string]string{
			"app":     config.App.Name,
			"backend": config.Backend.Driver,
		})
	})

	return r
}

// wireMedia serves FileStore objects. Directory listings are not exposed.
func wireMedia(r chi.Router, store *backend.FileStore) {
	files := http.StripPrefix(backend.MediaPrefix, http.FileServer(http.Dir(store.Dir())))
	r.Get(backend.MediaPrefix+"*", func(w http.ResponseWriter, req *http.Request) {
		if strings.HasSuffix(req.URL.Path, "/") {
			http.NotFound(w, req)
			return
		}
		files.ServeHTTP(w, req)
	})
}
