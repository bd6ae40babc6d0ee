package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/gooddeal/storefront/internal/core/domain"
	"github.com/gooddeal/storefront/internal/core/ports"
)

const testSecret = "secret"

func newAuth() (*AuthService, *stubUserRepo, *stubTokenStore, *stubMailer) {
	users := newStubUserRepo()
	tokens := newStubTokenStore()
	mailer := &stubMailer{}
	svc := NewAuthService(users, tokens, mailer, AuthConfig{
		Secret:    testSecret,
		ClientURL: "https://shop.example/",
	}, discardLogger)
	return svc, users, tokens, mailer
}

func signupAlice(t *testing.T, svc *AuthService) *domain.User {
	t.Helper()
	u, err := svc.Signup(context.Background(), ports.SignupInput{
		Firstname: "Alice",
		Lastname:  "Nguyen",
		Email:     "Alice@Example.com",
		Password:  "Abc1@x",
	})
	if err != nil {
		t.Fatalf("Signup returned error: %v", err)
	}
	return u
}

func TestAuthService_Signup_HashesPassword(t *testing.T) {
	svc, _, _, _ := newAuth()

	u := signupAlice(t, svc)

	if u.PasswordHash == "Abc1@x" {
		t.Fatal("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("Abc1@x")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	if u.Role != domain.RoleUser {
		t.Errorf("unexpected role: %s", u.Role)
	}
	if u.Email != "alice@example.com" {
		t.Errorf("email must be lower-cased, got %q", u.Email)
	}
}

func TestAuthService_Signup_Duplicate(t *testing.T) {
	svc, _, _, _ := newAuth()
	signupAlice(t, svc)

	_, err := svc.Signup(context.Background(), ports.SignupInput{Firstname: "A", Lastname: "B", Email: "alice@example.com", Password: "Abc1@x"})
	if !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthService_Signup_DuplicateIgnoresEmailCase(t *testing.T) {
	svc, _, _, _ := newAuth()
	ctx := context.Background()

	if _, err := svc.Signup(ctx, ports.SignupInput{Firstname: "A", Lastname: "B", Email: "Bob@Example.com", Password: "Abc1@x"}); err != nil {
		t.Fatalf("signup: %v", err)
	}
	_, err := svc.Signup(ctx, ports.SignupInput{Firstname: "A", Lastname: "B", Email: "BOB@example.COM", Password: "Abc1@x"})
	if !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthService_Signup_RequiresLogin(t *testing.T) {
	svc, _, _, _ := newAuth()

	_, err := svc.Signup(context.Background(), ports.SignupInput{Firstname: "A", Lastname: "B", Password: "Abc1@x"})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestAuthService_Signin_IssuesTokenPair(t *testing.T) {
	svc, _, tokens, _ := newAuth()
	u := signupAlice(t, svc)

	pair, got, err := svc.Signin(context.Background(), "alice@example.com", "", "Abc1@x")
	if err != nil {
		t.Fatalf("Signin returned error: %v", err)
	}
	if got.ID != u.ID {
		t.Errorf("unexpected user %q", got.ID)
	}

	claims := jwt.MapClaims{}
	if _, err := jwt.ParseWithClaims(pair.AccessToken, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	}); err != nil {
		t.Fatalf("access token invalid: %v", err)
	}
	if claims["sub"] != u.ID || claims["role"] != domain.RoleUser || claims["typ"] != domain.TokenTypeAccess {
		t.Errorf("unexpected access claims: %v", claims)
	}
	if len(tokens.refresh) != 1 {
		t.Errorf("expected 1 stored refresh token, got %d", len(tokens.refresh))
	}
}

func TestAuthService_Signin_WrongPassword(t *testing.T) {
	svc, _, _, _ := newAuth()
	signupAlice(t, svc)

	if _, _, err := svc.Signin(context.Background(), "alice@example.com", "", "Wrong1@"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, err := svc.Signin(context.Background(), "", "0912345678", "Abc1@x"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("unknown user must look like bad credentials, got %v", err)
	}
}

func TestAuthService_Refresh_RotatesToken(t *testing.T) {
	svc, _, tokens, _ := newAuth()
	signupAlice(t, svc)
	pair, _, _ := svc.Signin(context.Background(), "alice@example.com", "", "Abc1@x")

	next, err := svc.Refresh(context.Background(), pair.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}
	if next.RefreshToken == pair.RefreshToken {
		t.Error("refresh token must rotate")
	}
	if len(tokens.refresh) != 1 {
		t.Errorf("old refresh token must be revoked, store has %d", len(tokens.refresh))
	}

	if _, err := svc.Refresh(context.Background(), pair.RefreshToken); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("reusing a rotated token must fail, got %v", err)
	}
}

func TestAuthService_Refresh_ConcurrentSingleUse(t *testing.T) {
	svc, _, tokens, _ := newAuth()
	signupAlice(t, svc)
	pair, _, _ := svc.Signin(context.Background(), "alice@example.com", "", "Abc1@x")

	const attempts = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.Refresh(context.Background(), pair.RefreshToken); err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if successes != 1 {
		t.Fatalf("a refresh token must be redeemed once, got %d successes", successes)
	}
	if len(tokens.refresh) != 1 {
		t.Errorf("expected only the rotated token to remain, store has %d", len(tokens.refresh))
	}
}

func TestAuthService_Refresh_RejectsAccessToken(t *testing.T) {
	svc, _, _, _ := newAuth()
	signupAlice(t, svc)
	pair, _, _ := svc.Signin(context.Background(), "alice@example.com", "", "Abc1@x")

	if _, err := svc.Refresh(context.Background(), pair.AccessToken); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestAuthService_Refresh_Expired(t *testing.T) {
	svc, _, _, _ := newAuth()
	signupAlice(t, svc)
	pair, _, _ := svc.Signin(context.Background(), "alice@example.com", "", "Abc1@x")

	svc.now = func() time.Time { return time.Now().Add(defaultRefreshTTL + time.Hour) }

	if _, err := svc.Refresh(context.Background(), pair.RefreshToken); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestAuthService_Signout_RevokesRefresh(t *testing.T) {
	svc, _, tokens, _ := newAuth()
	signupAlice(t, svc)
	pair, _, _ := svc.Signin(context.Background(), "alice@example.com", "", "Abc1@x")

	if err := svc.Signout(context.Background(), pair.RefreshToken); err != nil {
		t.Fatalf("Signout returned error: %v", err)
	}
	if len(tokens.refresh) != 0 {
		t.Errorf("expected refresh token to be revoked")
	}
}

func TestAuthService_ForgotAndChangePassword(t *testing.T) {
	svc, users, tokens, mailer := newAuth()
	u := signupAlice(t, svc)

	if err := svc.ForgotPassword(context.Background(), "alice@example.com"); err != nil {
		t.Fatalf("ForgotPassword returned error: %v", err)
	}
	if len(mailer.sent) != 1 || mailer.sent[0].to != "alice@example.com" {
		t.Fatalf("expected one reset mail, got %+v", mailer.sent)
	}

	var code string
	for c := range tokens.reset {
		code = c
	}
	if !strings.Contains(mailer.sent[0].body, "https://shop.example/change/password/"+code) {
		t.Errorf("mail must link to the reset page: %s", mailer.sent[0].body)
	}

	if err := svc.ChangePassword(context.Background(), code, "New1@pw"); err != nil {
		t.Fatalf("ChangePassword returned error: %v", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(users.users[u.ID].PasswordHash), []byte("New1@pw")); err != nil {
		t.Errorf("password not updated: %v", err)
	}

	if err := svc.ChangePassword(context.Background(), code, "Other1@"); !errors.Is(err, domain.ErrInvalidToken) {
		t.Errorf("a reset code must be single use, got %v", err)
	}
}

func TestAuthService_ForgotPassword_UnknownEmail(t *testing.T) {
	svc, _, _, mailer := newAuth()

	if err := svc.ForgotPassword(context.Background(), "ghost@example.com"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if len(mailer.sent) != 0 {
		t.Error("no mail must be sent")
	}
}
