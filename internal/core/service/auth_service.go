package service

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/gooddeal/storefront/internal/core/domain"
	"github.com/gooddeal/storefront/internal/core/ports"
)

const (
	defaultAccessTTL  = 15 * time.Minute
	defaultRefreshTTL = 7 * 24 * time.Hour
	resetCodeTTL      = 30 * time.Minute
)

// AuthConfig holds the token settings of AuthService.
type AuthConfig struct {
	Secret     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	// ClientURL is the storefront base used in password reset links.
	ClientURL string
}

// AuthService implements sign up, sign in and the token pair lifecycle.
type AuthService struct {
	users  ports.UserRepository
	tokens ports.TokenStore
	mailer ports.Mailer
	cfg    AuthConfig
	log    zerolog.Logger
	now    func() time.Time
}

func NewAuthService(users ports.UserRepository, tokens ports.TokenStore, mailer ports.Mailer, cfg AuthConfig, log zerolog.Logger) *AuthService {
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = defaultAccessTTL
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = defaultRefreshTTL
	}
	return &AuthService{users: users, tokens: tokens, mailer: mailer, cfg: cfg, log: log, now: time.Now}
}

func (s *AuthService) Signup(ctx context.Context, in ports.SignupInput) (*domain.User, error) {
	if in.Email == "" && in.Phone == "" {
		return nil, fmt.Errorf("%w: email or phone is required", domain.ErrInvalidInput)
	}

	email := strings.ToLower(in.Email)
	if _, err := s.users.FindByLogin(ctx, email, in.Phone); err == nil {
		return nil, domain.ErrUserExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("signup: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("signup: hash password: %w", err)
	}

	now := s.now().UTC()
	user, err := s.users.Create(ctx, &domain.User{
		Firstname:    strings.TrimSpace(in.Firstname),
		Lastname:     strings.TrimSpace(in.Lastname),
		Email:        email,
		Phone:        in.Phone,
		PasswordHash: string(hash),
		Role:         domain.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, fmt.Errorf("signup: %w", err)
	}

	s.log.Info().Str("user_id", user.ID).Msg("user signed up")
	return user, nil
}

func (s *AuthService) Signin(ctx context.Context, email, phone, password string) (*domain.TokenPair, *domain.User, error) {
	if (email == "" && phone == "") || password == "" {
		return nil, nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByLogin(ctx, strings.ToLower(email), phone)
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, nil, fmt.Errorf("signin: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, nil, domain.ErrInvalidCredentials
	}

	pair, err := s.issue(ctx, user)
	if err != nil {
		return nil, nil, fmt.Errorf("signin: %w", err)
	}
	return pair, user, nil
}

// Signout revokes the refresh token. Access tokens stay valid until they
// expire.
func (s *AuthService) Signout(ctx context.Context, refreshToken string) error {
	claims, err := s.parse(refreshToken, domain.TokenTypeRefresh)
	if err != nil {
		return err
	}
	jti, _ := claims["jti"].(string)
	if err := s.tokens.RevokeRefresh(ctx, jti); err != nil {
		return fmt.Errorf("signout: %w", err)
	}
	return nil
}

// Refresh rotates a refresh token. The presented one is consumed before the
// new pair is issued, so it can be redeemed once.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	claims, err := s.parse(refreshToken, domain.TokenTypeRefresh)
	if err != nil {
		return nil, err
	}
	jti, _ := claims["jti"].(string)
	sub, _ := claims["sub"].(string)

	owner, err := s.tokens.ConsumeRefresh(ctx, jti)
	if err != nil {
		return nil, err
	}
	if owner != sub {
		return nil, domain.ErrInvalidToken
	}

	user, err := s.users.FindByID(ctx, sub)
	if err != nil {
		return nil, fmt.Errorf("refresh: %w", err)
	}
	return s.issue(ctx, user)
}

// ForgotPassword mails a one-time link to change the password.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.users.FindByLogin(ctx, strings.ToLower(email), "")
	if err != nil {
		return err
	}

	code := uuid.NewString()
	if err := s.tokens.SaveResetCode(ctx, code, user.ID, resetCodeTTL); err != nil {
		return fmt.Errorf("forgot password: %w", err)
	}

	link := strings.TrimRight(s.cfg.ClientURL, "/") + "/change/password/" + code
	body := fmt.Sprintf(
		`<p>Hi %s,</p><p>Follow <a href="%s">this link</a> to choose a new password. It expires in %d minutes.</p>`,
		html.EscapeString(user.Firstname), link, int(resetCodeTTL.Minutes()),
	)
	if err := s.mailer.Send(ctx, user.Email, "Change your password", body); err != nil {
		return fmt.Errorf("forgot password: send mail: %w", err)
	}
	return nil
}

func (s *AuthService) ChangePassword(ctx context.Context, code, password string) error {
	userID, err := s.tokens.ConsumeResetCode(ctx, code)
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("change password: hash password: %w", err)
	}
	if err := s.users.UpdatePassword(ctx, userID, string(hash)); err != nil {
		return fmt.Errorf("change password: %w", err)
	}

	s.log.Info().Str("user_id", userID).Msg("password changed")
	return nil
}

func (s *AuthService) issue(ctx context.Context, user *domain.User) (*domain.TokenPair, error) {
	now := s.now()

	access, err := s.sign(jwt.MapClaims{
		"sub":  user.ID,
		"role": user.Role,
		"typ":  domain.TokenTypeAccess,
		"iat":  now.Unix(),
		"exp":  now.Add(s.cfg.AccessTTL).Unix(),
	})
	if err != nil {
		return nil, err
	}

	jti := uuid.NewString()
	refresh, err := s.sign(jwt.MapClaims{
		"sub": user.ID,
		"jti": jti,
		"typ": domain.TokenTypeRefresh,
		"iat": now.Unix(),
		"exp": now.Add(s.cfg.RefreshTTL).Unix(),
	})
	if err != nil {
		return nil, err
	}

	if err := s.tokens.SaveRefresh(ctx, jti, user.ID, s.cfg.RefreshTTL); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}
	return &domain.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *AuthService) sign(claims jwt.MapClaims) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.cfg.Secret))
}

func (s *AuthService) parse(token, typ string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.Secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil || !tkn.Valid {
		return nil, domain.ErrInvalidToken
	}
	if claims["typ"] != typ {
		return nil, domain.ErrInvalidToken
	}
	return claims, nil
}
