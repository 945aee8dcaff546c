package adaptor

import (
	"net/http"

	"catalog-console/internal/dto/response"

	"go.uber.org/zap"
)

type DashboardHandler struct {
	view *View
	log  *zap.Logger
}

func NewDashboardHandler(view *View, log *zap.Logger) *DashboardHandler {
	return &DashboardHandler{view: view, log: log.With(zap.String("handler", "dashboard"))}
}

// Show handles GET /dashboard
func (h *DashboardHandler) Show(w http.ResponseWriter, r *http.Request) {
	h.view.Render(w, r, http.StatusOK, "dashboard", response.Page{Title: "Dashboard"})
}
