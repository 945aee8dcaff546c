package wire

import (
	"catalog-console/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

// The functions below expect r to already carry the session guard.

func wireDashboard(r chi.Router, dashboardHandler *adaptor.DashboardHandler) {
	r.Get("/dashboard", dashboardHandler.Show)
}

func wireGenre(r chi.Router, genreHandler *adaptor.GenreHandler) {
	r.Route("/genres", func(r chi.Router) {
		r.Get("/", genreHandler.List)               // GET /genres
		r.Post("/", genreHandler.Save)              // POST /genres
		r.Get("/{id}/edit", genreHandler.Edit)      // GET /genres/{id}/edit
		r.Post("/{id}/delete", genreHandler.Delete) // POST /genres/{id}/delete
	})
}

func wireWatchAge(r chi.Router, watchAgeHandler *adaptor.WatchAgeHandler) {
	r.Get("/watch-age", watchAgeHandler.Show)
	r.Post("/watch-age", watchAgeHandler.Apply)
}

func wireContent(r chi.Router, contentHandler *adaptor.ContentHandler) {
	r.Get("/upload", contentHandler.Show)
	r.Post("/upload", contentHandler.Upload)
}
