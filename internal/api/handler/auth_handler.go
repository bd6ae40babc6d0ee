package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gooddeal/storefront/internal/api/metrics"
	"github.com/gooddeal/storefront/internal/core/domain"
	"github.com/gooddeal/storefront/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type signupRequest struct {
	Firstname string `json:"firstname" validate:"required,person_name"`
	Lastname  string `json:"lastname" validate:"required,person_name"`
	Email     string `json:"email,omitempty" validate:"omitempty,email"`
	Phone     string `json:"phone,omitempty" validate:"omitempty,vn_phone"`
	Password  string `json:"password" validate:"required,strong_password"`
}

type signinRequest struct {
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Password string `json:"password" validate:"required"`
}

type signinResponse struct {
	Success      string `json:"success"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ID           string `json:"_id"`
	Role         string `json:"role"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type tokenResponse struct {
	Success      string `json:"success"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type changePasswordRequest struct {
	Password string `json:"password" validate:"required,strong_password"`
}

// Signup creates a new user account.
//
// @Summary      Sign up
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signupRequest  true  "Account details; set email or phone"
// @Success      201   {object}  successResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /api/signup [post]
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	_, err := h.authService.Signup(c.Request().Context(), ports.SignupInput{
		Firstname: req.Firstname,
		Lastname:  req.Lastname,
		Email:     req.Email,
		Phone:     req.Phone,
		Password:  req.Password,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, successResponse{Success: "Signed up successfully"})
}

// Signin authenticates a user and returns a token pair.
//
// @Summary      Sign in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signinRequest  true  "Email or phone and password"
// @Success      200   {object}  signinResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /api/signin [post]
func (h *AuthHandler) Signin(c echo.Context) error {
	var req signinRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	pair, user, err := h.authService.Signin(c.Request().Context(), req.Email, req.Phone, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			metrics.SigninsTotal.WithLabelValues("failed").Inc()
		}
		return err
	}
	metrics.SigninsTotal.WithLabelValues("ok").Inc()

	return c.JSON(http.StatusOK, signinResponse{
		Success:      "Signed in successfully",
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ID:           user.ID,
		Role:         user.Role,
	})
}

// Signout revokes a refresh token.
//
// @Summary      Sign out
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      refreshRequest  true  "Refresh token to revoke"
// @Success      200   {object}  successResponse
// @Failure      401   {object}  errorResponse
// @Router       /api/signout [post]
func (h *AuthHandler) Signout(c echo.Context) error {
	var req refreshRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := h.authService.Signout(c.Request().Context(), req.RefreshToken); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, successResponse{Success: "Signed out"})
}

// Refresh exchanges a refresh token for a new pair. The old refresh token
// stops working.
//
// @Summary      Refresh tokens
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      refreshRequest  true  "Current refresh token"
// @Success      200   {object}  tokenResponse
// @Failure      401   {object}  errorResponse
// @Router       /api/refresh/token [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	pair, err := h.authService.Refresh(c.Request().Context(), req.RefreshToken)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, tokenResponse{
		Success:      "Refreshed token",
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

// ForgotPassword mails a password reset link.
//
// @Summary      Request a password reset
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      forgotPasswordRequest  true  "Account email"
// @Success      200   {object}  successResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/forgot/password [post]
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req forgotPasswordRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := h.authService.ForgotPassword(c.Request().Context(), req.Email); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, successResponse{Success: "A reset link has been sent to your email"})
}

// ChangePassword sets a new password using a mailed reset code.
//
// @Summary      Change password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        forgotPasswordCode  path      string                 true  "Reset code from the mail"
// @Param        body                body      changePasswordRequest  true  "New password"
// @Success      200                 {object}  successResponse
// @Failure      401                 {object}  errorResponse
// @Router       /api/change/password/{forgotPasswordCode} [put]
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	var req changePasswordRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := h.authService.ChangePassword(c.Request().Context(), c.Param("forgotPasswordCode"), req.Password); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, successResponse{Success: "Password changed"})
}
