// AngelaMos | 2026
// handler.go

package checkin

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
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireSession)

		r.Post("/checkin", h.CheckIn)
		r.Post("/checkout", h.CheckOut)
		r.Get("/checkin/status", h.Status)
		r.Get("/checkins/active", h.ListActive)
		r.Get("/checkins/user/{userID}", h.History)
	})
}

func (h *Handler) CheckIn(w http.ResponseWriter, r *http.Request) {
	rec, err := h.service.CheckIn(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.Created(w, rec)
}

func (h *Handler) CheckOut(w http.ResponseWriter, r *http.Request) {
	rec, err := h.service.CheckOut(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, rec)
}

// Status returns the caller's active record, or null.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	rec, err := h.service.Status(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, map[string]any{
		"checked_in": rec != nil,
		"record":     rec,
	})
}

func (h *Handler) ListActive(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.ListActive(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, entries)
}

func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	recs, err := h.service.History(
		r.Context(),
		middleware.GetUserID(r.Context()),
		chi.URLParam(r, "userID"),
	)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	if recs == nil {
		recs = []Record{}
	}
	core.OK(w, recs)
}
