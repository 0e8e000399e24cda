package services

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/agentmarket/internal/client/client"
	"github.com/dmitrijs2005/agentmarket/internal/client/models"
	"github.com/dmitrijs2005/agentmarket/internal/client/session"
)

// AccountService covers the password lifecycle. Login, registration and
// profile changes go through the session store.
type AccountService interface {
	ChangePassword(ctx context.Context, current, next, confirm string) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, resetToken, password, confirm string) error
}

type accountService struct {
	auth    client.AuthGateway
	session Session
}

func NewAccountService(auth client.AuthGateway, s Session) AccountService {
	return &accountService{auth: auth, session: s}
}

func (a *accountService) ChangePassword(ctx context.Context, current, next, confirm string) error {
	if current == "" {
		return invalid("current_password", "Current password is required")
	}
	if err := ValidatePassword("new_password", next); err != nil {
		return err
	}
	if next != confirm {
		return invalid("confirm_password", "Passwords must match")
	}

	token := a.session.Snapshot().Token
	if token == "" {
		return session.ErrNotAuthenticated
	}
	return a.auth.UpdatePassword(ctx, token, models.PasswordChange{CurrentPassword: current, NewPassword: next}).Err()
}

func (a *accountService) ForgotPassword(ctx context.Context, email string) error {
	if err := ValidateEmail(email); err != nil {
		return err
	}
	return a.auth.RequestPasswordReset(ctx, strings.TrimSpace(email)).Err()
}

func (a *accountService) ResetPassword(ctx context.Context, resetToken, password, confirm string) error {
	if strings.TrimSpace(resetToken) == "" {
		return invalid("token", "Reset token is required")
	}
	if err := ValidatePassword("password", password); err != nil {
		return err
	}
	if password != confirm {
		return invalid("confirm_password", "Passwords must match")
	}
	return a.auth.ResetPassword(ctx, strings.TrimSpace(resetToken), password).Err()
}
