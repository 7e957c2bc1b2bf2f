// AngelaMos | 2026
// handler.go

package activity

import (
	"net/http"
	"strconv"

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
	r.Route("/activity", func(r chi.Router) {
		r.Use(middleware.RequireSession)

		r.Get("/recent", h.Recent)
		r.Get("/user/{userID}", h.ForUser)
	})
}

func (h *Handler) Recent(w http.ResponseWriter, r *http.Request) {
	limit := DefaultRecentLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			core.BadRequest(w, "limit must be a positive integer")
			return
		}
		limit = n
	}

	entries, err := h.service.Recent(r.Context(), middleware.GetUserID(r.Context()), limit)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, entries)
}

func (h *Handler) ForUser(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.ForUser(
		r.Context(),
		middleware.GetUserID(r.Context()),
		chi.URLParam(r, "userID"),
		0,
	)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, entries)
}
