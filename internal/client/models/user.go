package models

import (
	"github.com/dmitrijs2005/agentmarket/internal/timex"
)

// User is the identity of the logged-in account as returned by /users/me.
type User struct {
	ID             int64      `json:"id"`
	Username       string     `json:"username"`
	Email          string     `json:"email"`
	FirstName      string     `json:"first_name,omitempty"`
	LastName       string     `json:"last_name,omitempty"`
	IsDeveloper    bool       `json:"is_developer"`
	IsActive       bool       `json:"is_active"`
	TokenBalance   Tokens     `json:"token_balance"`
	AgentPurchases []int64    `json:"agent_purchases,omitempty"`
	CreatedAt      timex.Time `json:"created_at"`
	UpdatedAt      timex.Time `json:"updated_at"`
}

// Clone returns a deep copy of u.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	if u.AgentPurchases != nil {
		c.AgentPurchases = append([]int64(nil), u.AgentPurchases...)
	}
	return &c
}

// HasPurchased reports whether agentID is among the user's purchases.
func (u *User) HasPurchased(agentID int64) bool {
	if u == nil {
		return false
	}
	for _, id := range u.AgentPurchases {
		if id == agentID {
			return true
		}
	}
	return false
}

// UserUpdate is a partial profile patch. Nil fields are not sent.
type UserUpdate struct {
	Email       *string `json:"email,omitempty"`
	FirstName   *string `json:"first_name,omitempty"`
	LastName    *string `json:"last_name,omitempty"`
	IsDeveloper *bool   `json:"is_developer,omitempty"`
}

// Empty reports whether the patch carries no changes.
func (u UserUpdate) Empty() bool {
	return u.Email == nil && u.FirstName == nil && u.LastName == nil && u.IsDeveloper == nil
}

// Credentials are exchanged for a bearer token at /token.
type Credentials struct {
	Username string
	Password string
}

// Registration is the payload of /users/register.
type Registration struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	FirstName       string `json:"first_name,omitempty"`
	LastName        string `json:"last_name,omitempty"`
	IsDeveloper     bool   `json:"is_developer"`
}

// Credentials returns the login credentials implied by the registration.
func (r Registration) Credentials() Credentials {
	return Credentials{Username: r.Username, Password: r.Password}
}

// PasswordChange is the payload of PUT /users/password.
type PasswordChange struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// AuthData is the result of a successful login: the bearer token and the
// user it belongs to.
type AuthData struct {
	Token string
	User  *User
}
