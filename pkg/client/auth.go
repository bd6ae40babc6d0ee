package client

import (
	"context"
	"net/http"
	"net/url"
)

// Signup creates an account and returns the server's confirmation.
func (c *Client) Signup(ctx context.Context, in SignupInput) (string, error) {
	var out message
	if err := c.doJSON(ctx, http.MethodPost, "/api/signup", nil, in, &out); err != nil {
		return "", err
	}
	return out.Success, nil
}

// Signin authenticates with an email or a phone and stores the issued
// identity and tokens in the client's session.
func (c *Client) Signin(ctx context.Context, email, phone, password string) (string, error) {
	in := struct {
		Email    string `json:"email,omitempty"`
		Phone    string `json:"phone,omitempty"`
		Password string `json:"password"`
	}{email, phone, password}

	var out struct {
		Success      string `json:"success"`
		AccessToken  string `json:"accessToken"`
		RefreshToken string `json:"refreshToken"`
		ID           string `json:"_id"`
		Role         string `json:"role"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/api/signin", nil, in, &out); err != nil {
		return "", err
	}
	c.session.set(SessionState{
		UserID:       out.ID,
		Role:         out.Role,
		AccessToken:  out.AccessToken,
		RefreshToken: out.RefreshToken,
	})
	return out.Success, nil
}

// Signout revokes the refresh token and clears the session. The session is
// cleared even when the server call fails.
func (c *Client) Signout(ctx context.Context) (string, error) {
	st := c.session.State()
	defer c.session.Clear()

	if st.RefreshToken == "" {
		return "Signed out", nil
	}
	in := struct {
		RefreshToken string `json:"refreshToken"`
	}{st.RefreshToken}

	var out message
	if err := c.doJSON(ctx, http.MethodPost, "/api/signout", nil, in, &out); err != nil {
		return "", err
	}
	return out.Success, nil
}

// Logout is Signout for callers that only care about the error.
func (c *Client) Logout(ctx context.Context) error {
	_, err := c.Signout(ctx)
	return err
}

// Refresh exchanges the refresh token for a new pair. Refresh tokens rotate,
// so the old one is dead once this returns.
func (c *Client) Refresh(ctx context.Context) error {
	st := c.session.State()
	if st.RefreshToken == "" {
		return ErrNotSignedIn
	}
	in := struct {
		RefreshToken string `json:"refreshToken"`
	}{st.RefreshToken}

	var out struct {
		AccessToken  string `json:"accessToken"`
		RefreshToken string `json:"refreshToken"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/api/refresh/token", nil, in, &out); err != nil {
		return err
	}
	c.session.setTokens(out.AccessToken, out.RefreshToken)
	return nil
}

func (c *Client) ForgotPassword(ctx context.Context, email string) (string, error) {
	in := struct {
		Email string `json:"email"`
	}{email}

	var out message
	if err := c.doJSON(ctx, http.MethodPost, "/api/forgot/password", nil, in, &out); err != nil {
		return "", err
	}
	return out.Success, nil
}

func (c *Client) ChangePassword(ctx context.Context, code, password string) (string, error) {
	in := struct {
		Password string `json:"password"`
	}{password}

	var out message
	path := "/api/change/password/" + url.PathEscape(code)
	if err := c.doJSON(ctx, http.MethodPut, path, nil, in, &out); err != nil {
		return "", err
	}
	return out.Success, nil
}

// Menu returns the account navigation for the signed-in role with the entry
// matching path marked active.
func (c *Client) Menu(ctx context.Context, path string) ([]MenuItem, error) {
	uid, err := c.userID()
	if err != nil {
		return nil, err
	}
	var out struct {
		Items []MenuItem `json:"items"`
	}
	q := url.Values{"path": {path}}
	if err := c.doJSON(ctx, http.MethodGet, "/api/menu/"+uid, q, nil, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}
