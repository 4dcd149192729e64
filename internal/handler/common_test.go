package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/ShrayOps/Multi-Domain-Intelligence-Platform/internal/repository"
	"github.com/ShrayOps/Multi-Domain-Intelligence-Platform/internal/service"
)

func TestWriteServiceErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"validation", &service.ValidationError{Field: "title", Reason: "required"}, http.StatusBadRequest},
		{"not found", repository.ErrNotFound, http.StatusNotFound},
		{"duplicate username", repository.ErrUsernameExists, http.StatusConflict},
		{"constraint", repository.ErrConstraint, http.StatusConflict},
		{"bad credentials", service.ErrInvalidCredentials, http.StatusUnauthorized},
		{"storage down", repository.ErrUnavailable, http.StatusInternalServerError},
	}
	e := echo.New()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)
			if err := writeServiceError(c, tc.err); err != nil {
				t.Fatalf("writeServiceError: %v", err)
			}
			if rec.Code != tc.want {
				t.Fatalf("status = %d, want %d", rec.Code, tc.want)
			}
		})
	}
}

func TestGetUserIDClaimShapes(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	// JWT numeric claims arrive as float64 after JSON decoding.
	c.Set("user_id", float64(7))
	if id, err := getUserID(c); err != nil || id != 7 {
		t.Fatalf("float64 claim: id=%d err=%v", id, err)
	}
	c.Set("user_id", uint64(8))
	if id, err := getUserID(c); err != nil || id != 8 {
		t.Fatalf("uint64 claim: id=%d err=%v", id, err)
	}
	c.Set("user_id", "9")
	if id, err := getUserID(c); err != nil || id != 9 {
		t.Fatalf("string claim: id=%d err=%v", id, err)
	}
	c.Set("user_id", nil)
	if _, err := getUserID(c); err == nil {
		t.Fatalf("missing claim must fail")
	}
}
