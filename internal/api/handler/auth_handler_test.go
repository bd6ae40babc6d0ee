package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/gooddeal/storefront/internal/core/domain"
	"github.com/gooddeal/storefront/internal/core/ports"
)

func TestAuthHandler_Signup_Success(t *testing.T) {
	e := newEcho(t)
	stub := &stubAuthService{
		signupFn: func(ctx context.Context, in ports.SignupInput) (*domain.User, error) {
			if in.Email != "alice@example.com" || in.Firstname != "Alice" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &domain.User{ID: "u1", Email: in.Email, Role: domain.RoleUser}, nil
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := jsonContext(e, http.MethodPost, `{"firstname":"Alice","lastname":"Nguyen","email":"alice@example.com","password":"Abc1@x"}`, nil, "", "")
	if err := handler.Signup(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["success"] == "" || resp["success"] == nil {
		t.Fatalf("expected success message, got %+v", resp)
	}
}

func TestAuthHandler_Signup_InvalidFieldsNeverReachService(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"weak password", `{"firstname":"Alice","lastname":"Nguyen","email":"alice@example.com","password":"abc"}`},
		{"bad email", `{"firstname":"Alice","lastname":"Nguyen","email":"foo","password":"Abc1@x"}`},
		{"bad phone", `{"firstname":"Alice","lastname":"Nguyen","phone":"12ab","password":"Abc1@x"}`},
		{"missing name", `{"lastname":"Nguyen","email":"alice@example.com","password":"Abc1@x"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEcho(t)
			stub := &stubAuthService{
				signupFn: func(context.Context, ports.SignupInput) (*domain.User, error) {
					t.Fatal("service must not be called")
					return nil, nil
				},
			}

			c, _ := jsonContext(e, http.MethodPost, tt.body, nil, "", "")
			err := NewAuthHandler(stub).Signup(c)
			if !errors.Is(err, domain.ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestAuthHandler_Signup_UserExists(t *testing.T) {
	e := newEcho(t)
	stub := &stubAuthService{
		signupFn: func(context.Context, ports.SignupInput) (*domain.User, error) {
			return nil, domain.ErrUserExists
		},
	}

	c, _ := jsonContext(e, http.MethodPost, `{"firstname":"Bob","lastname":"Tran","phone":"0912345678","password":"Abc1@x"}`, nil, "", "")
	if err := NewAuthHandler(stub).Signup(c); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthHandler_Signin_Success(t *testing.T) {
	e := newEcho(t)
	stub := &stubAuthService{
		signinFn: func(ctx context.Context, email, phone, password string) (*domain.TokenPair, *domain.User, error) {
			if phone != "0912345678" || email != "" {
				t.Fatalf("unexpected login: %q %q", email, phone)
			}
			return &domain.TokenPair{AccessToken: "a", RefreshToken: "r"}, &domain.User{ID: "u1", Role: domain.RoleAdmin}, nil
		},
	}

	c, rec := jsonContext(e, http.MethodPost, `{"phone":"0912345678","password":"Abc1@x"}`, nil, "", "")
	if err := NewAuthHandler(stub).Signin(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp signinResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.AccessToken != "a" || resp.RefreshToken != "r" || resp.ID != "u1" || resp.Role != domain.RoleAdmin {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestAuthHandler_Signin_InvalidCredentials(t *testing.T) {
	e := newEcho(t)
	stub := &stubAuthService{
		signinFn: func(context.Context, string, string, string) (*domain.TokenPair, *domain.User, error) {
			return nil, nil, domain.ErrInvalidCredentials
		},
	}

	c, _ := jsonContext(e, http.MethodPost, `{"email":"a@example.com","password":"Wrong1@"}`, nil, "", "")
	if err := NewAuthHandler(stub).Signin(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}
