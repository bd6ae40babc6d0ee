package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/gooddeal/storefront/internal/core/domain"
)

func TestHealthHandler_Readiness(t *testing.T) {
	tests := []struct {
		name     string
		checkers []Checker
		wantCode int
		wantDeps map[string]string
	}{
		{
			name:     "all up",
			checkers: []Checker{stubChecker{name: "mongodb"}, stubChecker{name: "redis"}},
			wantCode: http.StatusOK,
			wantDeps: map[string]string{"mongodb": "ok", "redis": "ok"},
		},
		{
			name:     "redis down",
			checkers: []Checker{stubChecker{name: "mongodb"}, stubChecker{name: "redis", err: errors.New("connection refused")}},
			wantCode: http.StatusServiceUnavailable,
			wantDeps: map[string]string{"mongodb": "ok", "redis": "unhealthy"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEcho(t)
			c, rec := jsonContext(e, http.MethodGet, "", nil, "", "")

			if err := NewHealthHandler(tt.checkers...).Readiness(c); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if rec.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d", tt.wantCode, rec.Code)
			}
			var resp readinessResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			for name, want := range tt.wantDeps {
				if resp.Dependencies[name].Status != want {
					t.Errorf("%s: expected %s, got %s", name, want, resp.Dependencies[name].Status)
				}
			}
		})
	}
}

func TestMenuHandler_Get(t *testing.T) {
	e := newEcho(t)
	c, rec := jsonContext(e, http.MethodGet, "", map[string]string{"userId": "u1"}, "u1", domain.RoleUser)
	c.Request().URL.RawQuery = "path=/account/purchase"

	if err := NewMenuHandler().Get(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp menuResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	var active []string
	for _, it := range resp.Items {
		if it.Active {
			active = append(active, it.Key)
		}
	}
	if len(active) != 1 || active[0] != "purchase" {
		t.Fatalf("expected purchase to be active, got %v", active)
	}
}

func TestMenuHandler_Get_RequiresClaims(t *testing.T) {
	e := newEcho(t)
	c, _ := jsonContext(e, http.MethodGet, "", nil, "", "")

	if err := NewMenuHandler().Get(c); err == nil {
		t.Fatal("expected error without claims")
	}
}
