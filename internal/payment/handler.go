// AngelaMos | 2026
// handler.go

package payment

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/coworkflow/internal/core"
	"github.com/carterperez-dev/coworkflow/internal/middleware"
)

type Handler struct {
	service  *Service
	validate *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:  service,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/payments", func(r chi.Router) {
		r.Use(middleware.RequireSession)

		r.Post("/", h.Create)
		r.Get("/user/{userID}", h.ForUser)
		r.Get("/{paymentID}/receipt", h.Receipt)
	})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req RecordPaymentRequest
	if !core.DecodeAndValidate(w, r, h.validate, &req) {
		return
	}

	p, err := h.service.Record(r.Context(), middleware.GetUserID(r.Context()), req)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.Created(w, p)
}

func (h *Handler) ForUser(w http.ResponseWriter, r *http.Request) {
	records, err := h.service.ForUser(
		r.Context(),
		middleware.GetUserID(r.Context()),
		chi.URLParam(r, "userID"),
	)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	if records == nil {
		records = []Record{}
	}
	core.OK(w, records)
}

func (h *Handler) Receipt(w http.ResponseWriter, r *http.Request) {
	receipt, err := h.service.Receipt(
		r.Context(),
		middleware.GetUserID(r.Context()),
		chi.URLParam(r, "paymentID"),
	)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, receipt)
}
