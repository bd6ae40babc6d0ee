package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func okHandler(c echo.Context) error { return c.NoContent(http.StatusOK) }

func TestRBAC(t *testing.T) {
	tests := []struct {
		name     string
		role     any
		allowed  []string
		wantCode int
	}{
		{"admin on admin route", "admin", []string{"admin"}, http.StatusOK},
		{"user on admin route", "user", []string{"admin"}, http.StatusForbidden},
		{"either role", "user", []string{"admin", "user"}, http.StatusOK},
		{"no role", nil, []string{"admin"}, http.StatusForbidden},
		{"role of wrong type", 1, []string{"admin"}, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
			if tt.role != nil {
				c.Set(KeyRole, tt.role)
			}

			if err := RBAC(tt.allowed...)(okHandler)(c); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if rec.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d", tt.wantCode, rec.Code)
			}
		})
	}
}

func TestOwner(t *testing.T) {
	tests := []struct {
		name     string
		sub      string
		param    string
		wantCode int
	}{
		{"own id", "u1", "u1", http.StatusOK},
		{"other id", "u1", "u2", http.StatusForbidden},
		{"no subject", "", "u1", http.StatusForbidden},
		{"empty segment", "u1", "", http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
			c.SetParamNames("userId")
			c.SetParamValues(tt.param)
			if tt.sub != "" {
				c.Set(KeyUserID, tt.sub)
			}

			_ = Owner("userId")(okHandler)(c)

			if rec.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d", tt.wantCode, rec.Code)
			}
			if tt.wantCode == http.StatusForbidden && rec.Body.String() != "{\"error\":\"access forbidden\"}\n" {
				t.Errorf("unexpected body %q", rec.Body.String())
			}
		})
	}
}
