// AngelaMos | 2026
// errors_test.go

package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
)

func TestToAppErrorStatuses(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("op: %w", ErrInvalidInput), http.StatusBadRequest},
		{fmt.Errorf("op: %w", ErrConflict), http.StatusBadRequest},
		{fmt.Errorf("op: %w", ErrDuplicateKey), http.StatusBadRequest},
		{fmt.Errorf("op: %w", ErrInvalidCredentials), http.StatusUnauthorized},
		{fmt.Errorf("op: %w", ErrUnauthorized), http.StatusUnauthorized},
		{fmt.Errorf("op: %w", ErrForbidden), http.StatusForbidden},
		{fmt.Errorf("op: %w", ErrNotFound), http.StatusNotFound},
		{errors.New("boom"), http.StatusInternalServerError},
		{fmt.Errorf("wrapped: %w", ConflictError("user is already checked in")), http.StatusBadRequest},
	}

	for _, tc := range cases {
		if got := ToAppError(tc.err).StatusCode; got != tc.want {
			t.Fatalf("ToAppError(%v) status = %d, want %d", tc.err, got, tc.want)
		}
	}
}

func TestToAppErrorKeepsMessage(t *testing.T) {
	err := fmt.Errorf("check in: %w", ConflictError("user is already checked in"))
	appErr := ToAppError(err)
	if appErr.Message != "user is already checked in" {
		t.Fatalf("message = %q", appErr.Message)
	}
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("AppError must unwrap to its sentinel")
	}
}

func TestJSONErrorHidesInternalCause(t *testing.T) {
	rec := httptest.NewRecorder()
	JSONError(rec, errors.New("pq: connection refused"))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "connection refused") {
		t.Fatalf("internal cause leaked: %s", rec.Body.String())
	}

	var body Response
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Success || body.Error == nil || body.Error.Code != CodeInternal {
		t.Fatalf("unexpected body %+v", body)
	}
}

type sampleRequest struct {
	Username string `json:"username" validate:"required,min=3"`
	Pin      string `json:"pin"      validate:"required,len=4,number"`
}

func (r *sampleRequest) Normalize() {
	r.Username = strings.TrimSpace(r.Username)
}

func TestDecodeAndValidate(t *testing.T) {
	v := validator.New(validator.WithRequiredStructEnabled())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"username":"al","pin":"12a4"}`))
	var dst sampleRequest
	if DecodeAndValidate(rec, req, v, &dst) {
		t.Fatalf("expected validation failure")
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}

	var body Response
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Error.Details) != 2 {
		t.Fatalf("expected one message per field, got %v", body.Error.Details)
	}
	if body.Error.Details[0] != "username must be at least 3 characters" {
		t.Fatalf("unexpected message %q", body.Error.Details[0])
	}

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`not json`))
	if DecodeAndValidate(rec, req, v, &dst) {
		t.Fatalf("expected decode failure")
	}

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"username":"alice","pin":"1234"}`))
	if !DecodeAndValidate(rec, req, v, &dst) {
		t.Fatalf("valid body rejected: %s", rec.Body.String())
	}
}

func TestDecodeAndValidateNormalizesFirst(t *testing.T) {
	v := validator.New(validator.WithRequiredStructEnabled())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"username":"  ab  ","pin":"1234"}`))
	var dst sampleRequest
	if DecodeAndValidate(rec, req, v, &dst) {
		t.Fatalf("padded short username accepted as %q", dst.Username)
	}

	for _, pin := range []string{"-123", "1.23", "+999"} {
		rec = httptest.NewRecorder()
		req = httptest.NewRequest(http.MethodPost, "/",
			strings.NewReader(`{"username":"alice","pin":"`+pin+`"}`))
		if DecodeAndValidate(rec, req, v, &dst) {
			t.Fatalf("pin %q accepted", pin)
		}
	}
}
