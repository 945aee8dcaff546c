package adaptor

import (
	"net/http"
	"strconv"

	"catalog-console/internal/dto/response"
	"catalog-console/internal/usecase"
	"catalog-console/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type GenreHandler struct {
	service usecase.GenreService
	view    *View
	log     *zap.Logger
}

func NewGenreHandler(service usecase.GenreService, view *View, log *zap.Logger) *GenreHandler {
	return &GenreHandler{
		service: service,
		view:    view,
		log:     log.With(zap.String("handler", "genre")),
	}
}

func (h *GenreHandler) render(w http.ResponseWriter, r *http.Request, m *usecase.GenreManager, toasts ...response.Toast) {
	h.view.Render(w, r, http.StatusOK, "genres", response.Page{
		Title:  "Manage Genres",
		Path:   "/genres",
		Toasts: toasts,
		Data:   response.NewGenrePage(m.Genres, m.Name, m.EditID),
	})
}

func failure(err error) response.Toast {
	return response.Toast{Kind: response.ToastError, Message: usecase.UserMessage(err)}
}

// editTarget reads the hidden edit_id field; anything unparsable means no
// edit in progress.
func editTarget(r *http.Request) *int64 {
	raw := r.PostFormValue("edit_id")
	if raw == "" {
		return nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil
	}
	return &id
}

func (h *GenreHandler) parseID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.log.Warn("Invalid genre id", zap.String("id", chi.URLParam(r, "id")))
		return 0, false
	}
	return id, true
}

// List handles GET /genres
func (h *GenreHandler) List(w http.ResponseWriter, r *http.Request) {
	m := h.service.Open("", nil)
	if err := m.FetchAll(r.Context()); err != nil {
		h.render(w, r, m, failure(err))
		return
	}
	h.render(w, r, m)
}

// Save handles POST /genres
func (h *GenreHandler) Save(w http.ResponseWriter, r *http.Request) {
	name := r.PostFormValue("name")
	m := h.service.Open(name, editTarget(r))
	m.FetchAll(r.Context())

	if err := m.CreateOrUpdate(r.Context(), name); err != nil {
		h.render(w, r, m, failure(err))
		return
	}
	h.render(w, r, m)
}

// Edit handles GET /genres/{id}/edit
func (h *GenreHandler) Edit(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(r)
	if !ok {
		utils.Redirect(w, r, "/genres")
		return
	}

	m := h.service.Open("", nil)
	if err := m.FetchAll(r.Context()); err != nil {
		h.render(w, r, m, failure(err))
		return
	}

	genre, found := m.Find(id)
	if !found {
		utils.Redirect(w, r, "/genres")
		return
	}
	m.BeginEdit(genre)
	h.render(w, r, m)
}

// Delete handles POST /genres/{id}/delete
func (h *GenreHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(r)
	if !ok {
		utils.Redirect(w, r, "/genres")
		return
	}

	m := h.service.Open(r.PostFormValue("name"), editTarget(r))
	m.FetchAll(r.Context())

	if err := m.Delete(r.Context(), id); err != nil {
		h.render(w, r, m, failure(err))
		return
	}
	h.render(w, r, m)
}
