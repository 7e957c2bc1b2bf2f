// AngelaMos | 2026
// app_test.go

package app

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/carterperez-dev/coworkflow/internal/access"
	"github.com/carterperez-dev/coworkflow/internal/config"
)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type env struct {
	server *httptest.Server
	stores Stores
	app    *App
	clock  *clock
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Name: "coworkflow", Environment: "test"},
		Session: config.SessionConfig{
			Secret:     "test-secret-that-is-long-enough-for-hs256",
			CookieName: "cw_session",
			TTL:        24 * time.Hour,
		},
		Receipt: config.ReceiptConfig{CompanyName: "CoworkFlow Space"},
		RateLimit: config.RateLimitConfig{
			Requests:     10000,
			Burst:        10000,
			AuthRequests: 10000,
			AuthBurst:    10000,
			Window:       time.Minute,
		},
		CORS: config.CORSConfig{AllowedOrigins: []string{"*"}},
	}
}

func newEnv(t *testing.T) *env {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	e := &env{
		stores: MemoryStores(),
		clock:  &clock{now: time.Date(2026, time.June, 1, 9, 0, 0, 0, time.UTC)},
	}
	e.app = New(ctx, Deps{
		Config: testConfig(),
		Stores: e.stores,
		Now:    e.clock.Now,
	})
	e.server = httptest.NewServer(e.app.Router)
	t.Cleanup(e.server.Close)

	return e
}

type client struct {
	t    *testing.T
	base string
	http *http.Client
}

func (e *env) client(t *testing.T) *client {
	t.Helper()

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookie jar: %v", err)
	}
	return &client{t: t, base: e.server.URL, http: &http.Client{Jar: jar}}
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// do sends body as JSON and decodes data into out when the call succeeds.
func (c *client) do(method, path string, body, out any) int {
	c.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			c.t.Fatalf("encode: %v", err)
		}
	}

	req, err := http.NewRequest(method, c.base+path, &buf)
	if err != nil {
		c.t.Fatalf("request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	var res envelope
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		c.t.Fatalf("%s %s: decode: %v", method, path, err)
	}
	if out != nil && res.Success {
		if err := json.Unmarshal(res.Data, out); err != nil {
			c.t.Fatalf("%s %s: data: %v", method, path, err)
		}
	}
	return resp.StatusCode
}

func (c *client) must(want int, method, path string, body, out any) {
	c.t.Helper()
	if got := c.do(method, path, body, out); got != want {
		c.t.Fatalf("%s %s: got %d, want %d", method, path, got, want)
	}
}

func (e *env) register(t *testing.T, username string) *client {
	t.Helper()

	c := e.client(t)
	c.must(http.StatusCreated, http.MethodPost, "/api/auth/register", map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"name":     username,
		"password": "secret-password",
		"pin":      "1234",
	}, nil)
	return c
}

func (e *env) promote(t *testing.T, username string, role access.Role) {
	t.Helper()
	ctx := context.Background()

	u, err := e.stores.Users.GetByUsername(ctx, username)
	if err != nil {
		t.Fatalf("lookup %s: %v", username, err)
	}
	u.Role = role
	if err := e.stores.Users.Update(ctx, u); err != nil {
		t.Fatalf("promote %s: %v", username, err)
	}
}

type checkInRecord struct {
	ID           string     `json:"id"`
	CheckOutTime *time.Time `json:"check_out_time"`
	Duration     *int       `json:"duration"`
	PlanType     string     `json:"plan_type"`
}

func TestMemberVisit(t *testing.T) {
	e := newEnv(t)
	e.register(t, "alice")

	c := e.client(t)
	var login struct {
		User struct {
			Username string `json:"username"`
		} `json:"user"`
	}
	c.must(http.StatusOK, http.MethodPost, "/api/auth/pin-login",
		map[string]string{"username": "alice", "pin": "1234"}, &login)
	if login.User.Username != "alice" {
		t.Fatalf("logged in as %q", login.User.Username)
	}

	var in checkInRecord
	c.must(http.StatusCreated, http.MethodPost, "/api/checkin", nil, &in)
	if in.PlanType != "hourly" || in.CheckOutTime != nil {
		t.Fatalf("check-in = %+v", in)
	}

	var status struct {
		CheckedIn bool           `json:"checked_in"`
		Record    *checkInRecord `json:"record"`
	}
	c.must(http.StatusOK, http.MethodGet, "/api/checkin/status", nil, &status)
	if !status.CheckedIn || status.Record == nil || status.Record.ID != in.ID {
		t.Fatalf("status = %+v", status)
	}

	e.clock.Advance(90 * time.Minute)

	var out checkInRecord
	c.must(http.StatusOK, http.MethodPost, "/api/checkout", nil, &out)
	if out.Duration == nil || *out.Duration != 90 {
		t.Fatalf("duration = %v", out.Duration)
	}

	status.Record = nil
	c.must(http.StatusOK, http.MethodGet, "/api/checkin/status", nil, &status)
	if status.CheckedIn || status.Record != nil {
		t.Fatalf("still active: %+v", status)
	}

	c.must(http.StatusBadRequest, http.MethodPost, "/api/checkout", nil, nil)

	c.must(http.StatusOK, http.MethodPost, "/api/auth/logout", nil, nil)
	c.must(http.StatusUnauthorized, http.MethodGet, "/api/auth/me", nil, nil)
}

func TestGuestCodeFlow(t *testing.T) {
	e := newEnv(t)
	mgr := e.register(t, "mia")
	e.promote(t, "mia", access.RoleManager)

	var guest struct {
		QRCode   string `json:"qr_code"`
		PlanType string `json:"plan_type"`
	}
	mgr.must(http.StatusCreated, http.MethodPost, "/api/qrcode/guest",
		map[string]string{"guest_name": "Visitor", "plan_type": "hourly"}, &guest)
	if guest.QRCode == "" {
		t.Fatal("empty guest code")
	}

	kiosk := e.client(t)
	var res struct {
		User struct {
			Username string `json:"username"`
		} `json:"user"`
		CheckIn   *checkInRecord `json:"check_in"`
		GuestCode bool           `json:"guest_code"`
	}
	kiosk.must(http.StatusOK, http.MethodPost, "/api/qrcode/verify",
		map[string]string{"qr_code": guest.QRCode}, &res)
	if res.User.Username != "mia" || !res.GuestCode || res.CheckIn == nil {
		t.Fatalf("verify = %+v", res)
	}

	kiosk.must(http.StatusNotFound, http.MethodPost, "/api/qrcode/verify",
		map[string]string{"qr_code": guest.QRCode}, nil)

	var active []json.RawMessage
	mgr.must(http.StatusOK, http.MethodGet, "/api/checkins/active", nil, &active)
	if len(active) != 1 {
		t.Fatalf("active = %d", len(active))
	}
}

func TestPriceUpdate(t *testing.T) {
	e := newEnv(t)
	mgr := e.register(t, "mia")
	e.promote(t, "mia", access.RoleManager)

	mgr.must(http.StatusOK, http.MethodPut, "/api/pricing/hourly",
		map[string]int{"amount": 1200}, nil)

	var tiers []struct {
		PlanType string `json:"plan_type"`
		Amount   int    `json:"amount"`
	}
	anon := e.client(t)
	anon.must(http.StatusOK, http.MethodGet, "/api/pricing", nil, &tiers)

	found := false
	for _, tier := range tiers {
		if tier.PlanType == "hourly" {
			found = true
			if tier.Amount != 1200 {
				t.Fatalf("hourly = %d", tier.Amount)
			}
		}
	}
	if !found {
		t.Fatal("hourly tier missing")
	}

	var history []struct {
		OldAmount int `json:"old_amount"`
		NewAmount int `json:"new_amount"`
	}
	mgr.must(http.StatusOK, http.MethodGet, "/api/pricing/history/hourly", nil, &history)
	if len(history) != 1 || history[0].OldAmount != 1000 || history[0].NewAmount != 1200 {
		t.Fatalf("history = %+v", history)
	}
}

func TestAccessControl(t *testing.T) {
	e := newEnv(t)
	member := e.register(t, "alice")
	anon := e.client(t)

	anon.must(http.StatusUnauthorized, http.MethodPost, "/api/checkin", nil, nil)
	member.must(http.StatusForbidden, http.MethodGet, "/api/checkins/active", nil, nil)
	member.must(http.StatusForbidden, http.MethodPut, "/api/pricing/hourly",
		map[string]int{"amount": 1}, nil)
	member.must(http.StatusForbidden, http.MethodGet, "/api/admin/system", nil, nil)

	anon.must(http.StatusUnauthorized, http.MethodPost, "/api/auth/login",
		map[string]string{"username": "alice", "password": "wrong-password"}, nil)
	anon.must(http.StatusNotFound, http.MethodGet, "/api/nope", nil, nil)
}

func TestRegisterRejectsMalformedCredentials(t *testing.T) {
	e := newEnv(t)
	e.register(t, "alice")
	c := e.client(t)

	for _, pin := range []string{"-123", "1.23", "+999", "12a4"} {
		c.must(http.StatusBadRequest, http.MethodPost, "/api/auth/register", map[string]string{
			"username": "bob",
			"email":    "bob@example.com",
			"name":     "Bob",
			"password": "secret-password",
			"pin":      pin,
		}, nil)
		c.must(http.StatusBadRequest, http.MethodPost, "/api/auth/pin-login",
			map[string]string{"username": "alice", "pin": pin}, nil)
	}

	c.must(http.StatusBadRequest, http.MethodPost, "/api/auth/register", map[string]string{
		"username": "  ab  ",
		"email":    "ab@example.com",
		"name":     "Ab",
		"password": "secret-password",
		"pin":      "1234",
	}, nil)

	var created struct {
		Username string `json:"username"`
	}
	c.must(http.StatusCreated, http.MethodPost, "/api/auth/register", map[string]string{
		"username": "  carol  ",
		"email":    "Carol@Example.com",
		"name":     "Carol",
		"password": "secret-password",
		"pin":      "4321",
	}, &created)
	if created.Username != "carol" {
		t.Fatalf("stored username %q", created.Username)
	}
}
