package adaptor

import (
	"net/http"
	"net/url"
	"strings"

	"catalog-console/internal/dto/response"
	"catalog-console/internal/usecase"

	"go.uber.org/zap"
)

// draftFieldPrefix names the fields that carry the edit boxes of rows other
// than the one being acted on, as draft.<id>.
const draftFieldPrefix = "draft."

type WatchAgeHandler struct {
	service usecase.WatchAgeService
	view    *View
	log     *zap.Logger
}

func NewWatchAgeHandler(service usecase.WatchAgeService, view *View, log *zap.Logger) *WatchAgeHandler {
	return &WatchAgeHandler{
		service: service,
		view:    view,
		log:     log.With(zap.String("handler", "watch_age")),
	}
}

func (h *WatchAgeHandler) render(w http.ResponseWriter, r *http.Request, m *usecase.WatchAgeManager) {
	h.view.Render(w, r, http.StatusOK, "watch_age", response.Page{
		Title:  "Manage Watch Age",
		Toasts: m.Toasts,
		Data: response.WatchAgePage{
			Items: m.Items,
			Label: m.Label,
			State: m.State(),
		},
	})
}

// Show handles GET /watch-age. Every visit starts from an empty list.
func (h *WatchAgeHandler) Show(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, h.service.Open(""))
}

// Apply handles POST /watch-age: one list operation against the state the
// page was rendered with.
func (h *WatchAgeHandler) Apply(w http.ResponseWriter, r *http.Request) {
	m := h.service.Open(r.PostFormValue("state"))
	m.KeepDrafts(carriedDrafts(r.PostForm))
	id := r.PostFormValue("id")

	switch action := r.PostFormValue("action"); action {
	case "add":
		m.Add(r.PostFormValue("label"))
	case "delete":
		m.Delete(id)
	case "edit":
		m.BeginEdit(id)
	case "save":
		m.Save(id, r.PostFormValue("draft"))
	default:
		h.log.Warn("Unknown watch age action", zap.String("action", action))
	}

	h.render(w, r, m)
}

func carriedDrafts(form url.Values) map[string]string {
	drafts := make(map[string]string)
	for key, values := range form {
		id, ok := strings.CutPrefix(key, draftFieldPrefix)
		if ok && id != "" && len(values) > 0 {
			drafts[id] = values[len(values)-1]
		}
	}
	return drafts
}
