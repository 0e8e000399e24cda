package services

import (
	"fmt"
	"net/mail"
	"strings"

	"github.com/dmitrijs2005/agentmarket/internal/client/models"
	"github.com/dmitrijs2005/agentmarket/internal/common"
)

const (
	minUsernameLen = 3
	minPasswordLen = 8
)

// ValidationError is an input problem caught before any request is sent.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return common.ErrorValidation }

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

func ValidateRegistration(r models.Registration) error {
	if len(strings.TrimSpace(r.Username)) < minUsernameLen {
		return invalid("username", "Username must be at least %d characters", minUsernameLen)
	}
	if err := ValidateEmail(r.Email); err != nil {
		return err
	}
	if err := ValidatePassword("password", r.Password); err != nil {
		return err
	}
	if r.ConfirmPassword != r.Password {
		return invalid("confirm_password", "Passwords must match")
	}
	return nil
}

func ValidateEmail(email string) error {
	if strings.TrimSpace(email) == "" {
		return invalid("email", "Email is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return invalid("email", "Invalid email address")
	}
	return nil
}

func ValidatePassword(field, password string) error {
	if len(password) < minPasswordLen {
		return invalid(field, "Password must be at least %d characters", minPasswordLen)
	}
	return nil
}

func ValidateAgentDraft(d models.AgentDraft) error {
	if strings.TrimSpace(d.Name) == "" {
		return invalid("name", "Name is required")
	}
	if strings.TrimSpace(d.Description) == "" {
		return invalid("description", "Description is required")
	}
	if d.Price < 0 {
		return invalid("price", "Price must not be negative")
	}
	return nil
}
