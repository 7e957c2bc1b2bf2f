// AngelaMos | 2026
// handler.go

package pricing

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/coworkflow/internal/core"
	"github.com/carterperez-dev/coworkflow/internal/middleware"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/pricing", func(r chi.Router) {
		r.Get("/", h.GetAll)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireSession)

			r.Get("/scheduled", h.ListScheduled)
			r.Post("/scheduled", h.Schedule)
			r.Post("/scheduled/{id}/apply", h.ApplyScheduled)
			r.Get("/history/{planType}", h.History)
			r.Put("/{planType}", h.Update)
		})

		r.Get("/{planType}", h.Get)
	})
}

func (h *Handler) GetAll(w http.ResponseWriter, r *http.Request) {
	tiers, err := h.service.GetAll(r.Context())
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, tiers)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	tier, err := h.service.Get(r.Context(), chi.URLParam(r, "planType"))
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, tier)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateTierRequest
	if !core.DecodeAndValidate(w, r, h.validator, &req) {
		return
	}

	tier, err := h.service.Update(
		r.Context(),
		middleware.GetUserID(r.Context()),
		chi.URLParam(r, "planType"),
		req,
	)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, tier)
}

func (h *Handler) Schedule(w http.ResponseWriter, r *http.Request) {
	var req ScheduleRequest
	if !core.DecodeAndValidate(w, r, h.validator, &req) {
		return
	}

	c, err := h.service.Schedule(r.Context(), middleware.GetUserID(r.Context()), req)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.Created(w, c)
}

func (h *Handler) ListScheduled(w http.ResponseWriter, r *http.Request) {
	changes, err := h.service.ListScheduled(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		core.JSONError(w, err)
		return
	}

	if changes == nil {
		changes = []ScheduledChange{}
	}
	core.OK(w, changes)
}

func (h *Handler) ApplyScheduled(w http.ResponseWriter, r *http.Request) {
	c, err := h.service.ApplyScheduled(
		r.Context(),
		middleware.GetUserID(r.Context()),
		chi.URLParam(r, "id"),
	)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, c)
}

func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	changes, err := h.service.History(
		r.Context(),
		middleware.GetUserID(r.Context()),
		chi.URLParam(r, "planType"),
	)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	if changes == nil {
		changes = []PriceChange{}
	}
	core.OK(w, changes)
}
