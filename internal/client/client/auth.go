package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/dmitrijs2005/agentmarket/internal/client/models"
)

type tokenResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	User        *models.User `json:"user,omitempty"`
}

// Login exchanges credentials for a bearer token at /token and then loads
// the user it belongs to.
func (c *HTTPClient) Login(ctx context.Context, creds models.Credentials) Result[models.AuthData] {
	form := url.Values{}
	form.Set("username", creds.Username)
	form.Set("password", creds.Password)

	tok := call[tokenResponse](ctx, c, request{
		method:   http.MethodPost,
		path:     "/token",
		form:     form,
		fallback: "Login failed",
	})
	if !tok.OK() {
		return mapResult(asCredentialsFailure(tok), models.AuthData{})
	}
	if tok.Data.AccessToken == "" {
		return Failure[models.AuthData]("Invalid token response format", tok.Code, ErrMalformed)
	}

	user := c.CurrentUser(ctx, tok.Data.AccessToken)
	return mapResult(asCredentialsFailure(user), models.AuthData{Token: tok.Data.AccessToken, User: user.Data})
}

// asCredentialsFailure reclassifies a 401/403 met while logging in.
func asCredentialsFailure[T any](r Result[T]) Result[T] {
	if r.IsUnauthorized() {
		r.cause = ErrInvalidCredentials
	}
	return r
}

// Register creates an account. It does not log in.
func (c *HTTPClient) Register(ctx context.Context, data models.Registration) Result[*models.User] {
	if data.ConfirmPassword == "" {
		data.ConfirmPassword = data.Password
	}
	return call[*models.User](ctx, c, request{
		method:   http.MethodPost,
		path:     "/users/register",
		body:     data,
		fallback: "Registration failed",
	})
}

func (c *HTTPClient) CurrentUser(ctx context.Context, token string) Result[*models.User] {
	return call[*models.User](ctx, c, request{
		method:   http.MethodGet,
		path:     "/users/me",
		token:    token,
		fallback: "Failed to get user data",
	})
}

func (c *HTTPClient) UpdateUser(ctx context.Context, token string, patch models.UserUpdate) Result[*models.User] {
	return call[*models.User](ctx, c, request{
		method:   http.MethodPatch,
		path:     "/users/me",
		token:    token,
		body:     patch,
		fallback: "Failed to update user",
	})
}

// RefreshToken trades a still-valid token for a fresh one.
func (c *HTTPClient) RefreshToken(ctx context.Context, token string) Result[models.AuthData] {
	res := call[tokenResponse](ctx, c, request{
		method:   http.MethodPost,
		path:     "/token/refresh",
		token:    token,
		body:     struct{}{},
		fallback: "Token refresh failed",
	})
	if res.OK() && res.Data.AccessToken == "" {
		return Failure[models.AuthData]("Token refresh failed", res.Code, ErrMalformed)
	}
	return mapResult(res, models.AuthData{Token: res.Data.AccessToken, User: res.Data.User})
}

func (c *HTTPClient) UpdatePassword(ctx context.Context, token string, change models.PasswordChange) Result[struct{}] {
	return call[struct{}](ctx, c, request{
		method:   http.MethodPut,
		path:     "/users/password",
		token:    token,
		body:     change,
		fallback: "Failed to update password",
	})
}

// ResetPassword completes a reset with the token received by email.
func (c *HTTPClient) ResetPassword(ctx context.Context, resetToken, password string) Result[struct{}] {
	return call[struct{}](ctx, c, request{
		method:   http.MethodPost,
		path:     "/users/reset-password",
		body:     map[string]string{"token": resetToken, "password": password},
		fallback: "Failed to reset password",
	})
}

func (c *HTTPClient) RequestPasswordReset(ctx context.Context, email string) Result[struct{}] {
	return call[struct{}](ctx, c, request{
		method:   http.MethodPost,
		path:     "/users/forgot-password",
		body:     map[string]string{"email": email},
		fallback: "Failed to request password reset",
	})
}
