// AngelaMos | 2026
// manager.go

package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwt"

	"github.com/carterperez-dev/coworkflow/internal/config"
	"github.com/carterperez-dev/coworkflow/internal/core"
)

const cookieIssuer = "coworkflow"

// Manager issues, resolves and destroys sessions. The cookie value is an
// HS256-signed token whose jti is the raw session id.
type Manager struct {
	store      Store
	secret     []byte
	cookieName string
	ttl        time.Duration
	secure     bool
	now        func() time.Time
}

func NewManager(store Store, cfg config.SessionConfig, secure bool) *Manager {
	return &Manager{
		store:      store,
		secret:     []byte(cfg.Secret),
		cookieName: cfg.CookieName,
		ttl:        cfg.TTL,
		secure:     secure,
		now:        time.Now,
	}
}

func (m *Manager) WithClock(now func() time.Time) *Manager {
	m.now = now
	return m
}

// Create stores a new session for userID and returns the signed cookie value.
func (m *Manager) Create(
	ctx context.Context,
	userID string,
) (string, time.Time, error) {
	id, err := core.GenerateSessionID()
	if err != nil {
		return "", time.Time{}, fmt.Errorf("create session: %w", err)
	}

	now := m.now()
	expiresAt := now.Add(m.ttl)

	s := &Session{
		IDHash:    core.HashToken(id),
		UserID:    userID,
		ExpiresAt: expiresAt,
		CreatedAt: now,
	}
	if err := m.store.Set(ctx, s); err != nil {
		return "", time.Time{}, fmt.Errorf("create session: %w", err)
	}

	token, err := m.sign(id, now, expiresAt)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("create session: %w", err)
	}

	return token, expiresAt, nil
}

// Resolve maps a cookie value to its user id. Any invalid, expired or
// unknown token yields ErrUnauthorized.
func (m *Manager) Resolve(ctx context.Context, token string) (string, error) {
	id, err := m.verify(token)
	if err != nil {
		return "", fmt.Errorf("resolve session: %w", core.ErrUnauthorized)
	}

	s, err := m.store.Get(ctx, core.HashToken(id))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return "", fmt.Errorf("resolve session: %w", core.ErrUnauthorized)
		}
		return "", fmt.Errorf("resolve session: %w", err)
	}

	if s.IsExpired(m.now()) {
		return "", fmt.Errorf("resolve session: expired: %w", core.ErrUnauthorized)
	}

	return s.UserID, nil
}

// Destroy removes the session behind token. Unknown or malformed tokens
// are ignored so logout stays idempotent.
func (m *Manager) Destroy(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}

	id, err := m.verify(token)
	if err != nil {
		return nil //nolint:nilerr // nothing to destroy
	}

	if err := m.store.Destroy(ctx, core.HashToken(id)); err != nil {
		return fmt.Errorf("destroy session: %w", err)
	}

	return nil
}

func (m *Manager) Prune(ctx context.Context) (int64, error) {
	n, err := m.store.DeleteExpired(ctx, m.now())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		slog.Info("pruned expired sessions", "count", n)
	}
	return n, nil
}

func (m *Manager) sign(id string, now, expiresAt time.Time) (string, error) {
	token, err := jwt.NewBuilder().
		JwtID(id).
		Issuer(cookieIssuer).
		IssuedAt(now).
		Expiration(expiresAt).
		Build()
	if err != nil {
		return "", fmt.Errorf("build token: %w", err)
	}

	signed, err := jwt.Sign(token, jwt.WithKey(jwa.HS256(), m.secret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return string(signed), nil
}

func (m *Manager) verify(value string) (string, error) {
	token, err := jwt.Parse(
		[]byte(value),
		jwt.WithKey(jwa.HS256(), m.secret),
		jwt.WithValidate(true),
		jwt.WithIssuer(cookieIssuer),
		jwt.WithClock(jwt.ClockFunc(m.now)),
	)
	if err != nil {
		return "", fmt.Errorf("parse token: %w", err)
	}

	id, ok := token.JwtID()
	if !ok || id == "" {
		return "", fmt.Errorf("parse token: missing jti: %w", core.ErrUnauthorized)
	}

	return id, nil
}

// SetCookie writes the session cookie.
func (m *Manager) SetCookie(w http.ResponseWriter, token string, expiresAt time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		MaxAge:   int(m.ttl.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (m *Manager) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// TokenFromRequest returns the raw cookie value, or "" when absent.
func (m *Manager) TokenFromRequest(r *http.Request) string {
	c, err := r.Cookie(m.cookieName)
	if err != nil {
		return ""
	}
	return c.Value
}
