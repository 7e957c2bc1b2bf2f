// AngelaMos | 2026
// handler.go

package qrcode

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

// RegisterRoutes mounts /qrcode. verifyLimit guards the public verify
// endpoint against code guessing.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	verifyLimit func(http.Handler) http.Handler,
) {
	r.Route("/qrcode", func(r chi.Router) {
		r.With(verifyLimit).Post("/verify", h.Verify)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireSession)
			r.Post("/generate", h.Generate)
			r.Post("/guest", h.CreateGuest)
			r.Get("/guest", h.ListGuest)
		})
	})
}

func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.IssueMonthly(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, resp)
}

func (h *Handler) CreateGuest(w http.ResponseWriter, r *http.Request) {
	var req GuestCodeRequest
	if !core.DecodeAndValidate(w, r, h.validator, &req) {
		return
	}

	g, err := h.service.IssueGuest(r.Context(), middleware.GetUserID(r.Context()), req)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.Created(w, g)
}

func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	var req VerifyRequest
	if !core.DecodeAndValidate(w, r, h.validator, &req) {
		return
	}

	res, err := h.service.Verify(r.Context(), req.QRCode)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, res)
}

func (h *Handler) ListGuest(w http.ResponseWriter, r *http.Request) {
	codes, err := h.service.ListGuest(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		core.JSONError(w, err)
		return
	}

	if codes == nil {
		codes = []GuestCode{}
	}
	core.OK(w, codes)
}
