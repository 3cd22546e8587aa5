package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/aulahub/lms-platform/internal/core/domain"
)

func TestHTTPErrorHandler_DomainErrorMapping(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{domain.ErrUserNotFound, http.StatusNotFound},
		{domain.ErrCourseNotFound, http.StatusNotFound},
		{domain.ErrModuleNotFound, http.StatusNotFound},
		{domain.ErrLessonNotFound, http.StatusNotFound},
		{domain.ErrResourceNotFound, http.StatusNotFound},
		{domain.ErrPostNotFound, http.StatusNotFound},
		{domain.ErrConversationNotFound, http.StatusNotFound},
		{domain.ErrNotificationNotFound, http.StatusNotFound},
		{domain.ErrForbidden, http.StatusForbidden},
		{domain.ErrInvalidCredentials, http.StatusUnauthorized},
		{domain.ErrUserExists, http.StatusConflict},
		{domain.ErrInvalidToken, http.StatusBadRequest},
		{domain.ErrInvalidNotificationKind, http.StatusBadRequest},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	e := echo.New()
	handler := NewHTTPErrorHandler(zerolog.Nop())

	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		handler(tc.err, c)

		if rec.Code != tc.code {
			t.Fatalf("%v: expected %d, got %d", tc.err, tc.code, rec.Code)
		}
		var resp map[string]string
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("%v: invalid json: %v", tc.err, err)
		}
		if resp["error"] == "" {
			t.Fatalf("%v: error envelope missing", tc.err)
		}
	}
}

func TestHTTPErrorHandler_WrappedDomainError(t *testing.T) {
	e := echo.New()
	handler := NewHTTPErrorHandler(zerolog.Nop())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler(errors.Join(errors.New("context"), domain.ErrPostNotFound), c)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("wrapped domain error should still map: got %d", rec.Code)
	}
}

func TestHTTPErrorHandler_InternalErrorIsOpaque(t *testing.T) {
	e := echo.New()
	handler := NewHTTPErrorHandler(zerolog.Nop())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler(errors.New("pq: secret table missing"), c)

	var resp map[string]string
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp["error"] != "internal server error" {
		t.Fatalf("internal causes must not leak: %q", resp["error"])
	}
}

func TestHTTPErrorHandler_EchoErrorPassthrough(t *testing.T) {
	e := echo.New()
	handler := NewHTTPErrorHandler(zerolog.Nop())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler(echo.NewHTTPError(http.StatusTeapot, "short and stout"), c)

	if rec.Code != http.StatusTeapot {
		t.Fatalf("expected 418, got %d", rec.Code)
	}
}
