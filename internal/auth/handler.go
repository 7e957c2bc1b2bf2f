// AngelaMos | 2026
// handler.go

package auth

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/coworkflow/internal/core"
	"github.com/carterperez-dev/coworkflow/internal/middleware"
	"github.com/carterperez-dev/coworkflow/internal/user"
)

type CookieJar interface {
	SetCookie(w http.ResponseWriter, token string, expiresAt time.Time)
	ClearCookie(w http.ResponseWriter)
	TokenFromRequest(r *http.Request) string
}

type Handler struct {
	service   *Service
	cookies   CookieJar
	validator *validator.Validate
}

func NewHandler(service *Service, cookies CookieJar) *Handler {
	return &Handler{
		service:   service,
		cookies:   cookies,
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// RegisterRoutes mounts /auth. credentialLimit guards the endpoints that
// accept secrets.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	credentialLimit func(http.Handler) http.Handler,
) {
	r.Route("/auth", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(credentialLimit)
			r.Post("/register", h.Register)
			r.Post("/login", h.Login)
			r.Post("/pin-login", h.PinLogin)
		})

		r.Post("/logout", h.Logout)

		r.With(middleware.RequireSession).Get("/me", h.GetMe)
	})
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !core.DecodeAndValidate(w, r, h.validator, &req) {
		return
	}

	res, err := h.service.Register(r.Context(), req)
	if err != nil {
		handleError(w, err)
		return
	}

	h.cookies.SetCookie(w, res.Token, res.ExpiresAt)
	core.Created(w, user.ToUserResponse(res.User))
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !core.DecodeAndValidate(w, r, h.validator, &req) {
		return
	}

	res, err := h.service.Login(r.Context(), req)
	if err != nil {
		handleError(w, err)
		return
	}

	h.cookies.SetCookie(w, res.Token, res.ExpiresAt)
	core.OK(w, AuthResponse{User: user.ToUserResponse(res.User)})
}

func (h *Handler) PinLogin(w http.ResponseWriter, r *http.Request) {
	var req PinLoginRequest
	if !core.DecodeAndValidate(w, r, h.validator, &req) {
		return
	}

	res, err := h.service.PinLogin(r.Context(), req)
	if err != nil {
		handleError(w, err)
		return
	}

	h.cookies.SetCookie(w, res.Token, res.ExpiresAt)
	core.OK(w, AuthResponse{User: user.ToUserResponse(res.User)})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Logout(r.Context(), h.cookies.TokenFromRequest(r)); err != nil {
		core.InternalServerError(w, err)
		return
	}

	h.cookies.ClearCookie(w)
	core.OK(w, map[string]string{"message": "logged out"})
}

func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	u, err := h.service.CurrentUser(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		handleError(w, err)
		return
	}

	core.OK(w, user.ToUserResponse(u))
}

func handleError(w http.ResponseWriter, err error) {
	if core.IsAppError(err) {
		core.JSONError(w, err)
		return
	}

	switch {
	case errors.Is(err, core.ErrUnauthorized):
		core.Unauthorized(w, "")
	case errors.Is(err, core.ErrNotFound):
		core.NotFound(w, "user")
	default:
		core.InternalServerError(w, err)
	}
}
