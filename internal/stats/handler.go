// AngelaMos | 2026
// handler.go

package stats

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/coworkflow/internal/core"
	"github.com/carterperez-dev/coworkflow/internal/middleware"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.With(middleware.RequireSession).Get("/stats/today", h.Today)
}

func (h *Handler) Today(w http.ResponseWriter, r *http.Request) {
	today, err := h.service.Today(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, today)
}
