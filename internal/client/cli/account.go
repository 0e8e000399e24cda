package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/agentmarket/internal/client/models"
	"github.com/dmitrijs2005/agentmarket/internal/client/services"
	"github.com/dmitrijs2005/agentmarket/internal/common"
)

// getSimpleText, getPassword, getMultiline and getConfirm are indirections
// over the interactive input helpers so tests can script answers.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
	getMultiline  = GetMultiline
	getConfirm    = GetConfirm
)

func (a *App) ask(prompt string) (string, error) {
	return getSimpleText(a.reader, prompt, a.out)
}

// askSecret reads a password and returns it as a string. The raw bytes are
// wiped.
func (a *App) askSecret(prompt string) (string, error) {
	pw, err := getPassword(a.reader, prompt, a.out)
	if err != nil {
		return "", err
	}
	defer common.WipeByteArray(pw)
	return string(pw), nil
}

// Login prompts for credentials and opens a session. The username of the
// last successful login is offered as the default.
func (a *App) Login(ctx context.Context) error {
	if err := a.session.Wait(ctx); err != nil {
		return err
	}

	last, err := a.prefs.LastUsername(ctx)
	if err != nil {
		a.log.Warn(ctx, "reading last username failed", "error", err)
	}

	prompt := "Username"
	if last != "" {
		prompt = fmt.Sprintf("Username [%s]", last)
	}
	username, err := a.ask(prompt)
	if err != nil {
		return err
	}
	if username == "" {
		username = last
	}
	if username == "" {
		return &services.ValidationError{Field: "username", Message: "Username is required"}
	}

	password, err := a.askSecret("Password")
	if err != nil {
		return err
	}

	if err := a.session.Login(ctx, models.Credentials{Username: username, Password: password}); err != nil {
		return err
	}
	if err := a.prefs.RememberUsername(ctx, username); err != nil {
		a.log.Warn(ctx, "remembering username failed", "error", err)
	}

	fmt.Fprintln(a.out, a.render.Success("Logged in as "+username+"."))
	return nil
}

// Register creates an account and logs into it.
func (a *App) Register(ctx context.Context) error {
	if err := a.session.Wait(ctx); err != nil {
		return err
	}

	var (
		r   models.Registration
		err error
	)
	if r.Username, err = a.ask("Username"); err != nil {
		return err
	}
	if r.Email, err = a.ask("Email"); err != nil {
		return err
	}
	if r.FirstName, err = a.ask("First name (optional)"); err != nil {
		return err
	}
	if r.LastName, err = a.ask("Last name (optional)"); err != nil {
		return err
	}
	if r.IsDeveloper, err = getConfirm(a.reader, "Register as a developer?", a.out); err != nil {
		return err
	}
	if r.Password, err = a.askSecret("Password"); err != nil {
		return err
	}
	if r.ConfirmPassword, err = a.askSecret("Confirm password"); err != nil {
		return err
	}

	if err := services.ValidateRegistration(r); err != nil {
		return err
	}
	if err := a.session.Register(ctx, r); err != nil {
		return err
	}
	if err := a.prefs.RememberUsername(ctx, r.Username); err != nil {
		a.log.Warn(ctx, "remembering username failed", "error", err)
	}

	fmt.Fprintln(a.out, a.render.Success("Account created. Logged in as "+r.Username+"."))
	return nil
}

// Logout ends the session locally. With forget, every local trace of the
// account is removed as well.
func (a *App) Logout(ctx context.Context, forget bool) error {
	if err := a.session.Logout(ctx); err != nil {
		return err
	}
	if forget {
		if err := a.prefs.Wipe(ctx); err != nil {
			return err
		}
	}
	fmt.Fprintln(a.out, "Logged out.")
	return nil
}

// Renew swaps the bearer token for a fresh one.
func (a *App) Renew(ctx context.Context) error {
	return a.protect(ctx, "renew", func(ctx context.Context) error {
		if err := a.session.Renew(ctx); err != nil {
			return err
		}
		if expires, ok := a.session.TokenExpiry(); ok {
			fmt.Fprintf(a.out, "Session renewed until %s.\n", expires.Local().Format("2006-01-02 15:04"))
			return nil
		}
		fmt.Fprintln(a.out, "Session renewed.")
		return nil
	})
}

// WhoAmI re-reads the profile from the server and shows it.
func (a *App) WhoAmI(ctx context.Context) error {
	return a.protect(ctx, "whoami", func(ctx context.Context) error {
		if err := a.session.Refresh(ctx); err != nil {
			return err
		}
		since, _, err := a.prefs.SavedAt(ctx)
		if err != nil {
			a.log.Warn(ctx, "reading token save time failed", "error", err)
		}
		expires, _ := a.session.TokenExpiry()
		fmt.Fprint(a.out, a.render.User(a.session.Snapshot().User, since, expires))
		return nil
	})
}

// Profile edits the profile. Blank answers keep the current value.
func (a *App) Profile(ctx context.Context) error {
	return a.protect(ctx, "profile", func(ctx context.Context) error {
		u := a.session.Snapshot().User
		if u == nil {
			u = &models.User{}
		}

		var patch models.UserUpdate
		for _, f := range []struct {
			label   string
			current string
			dst     **string
		}{
			{"Email", u.Email, &patch.Email},
			{"First name", u.FirstName, &patch.FirstName},
			{"Last name", u.LastName, &patch.LastName},
		} {
			v, err := a.ask(fmt.Sprintf("%s [%s]", f.label, f.current))
			if err != nil {
				return err
			}
			if v != "" && v != f.current {
				*f.dst = &v
			}
		}

		if patch.Email != nil {
			if err := services.ValidateEmail(*patch.Email); err != nil {
				return err
			}
		}
		if patch.Empty() {
			fmt.Fprintln(a.out, "Nothing to change.")
			return nil
		}
		if err := a.session.UpdateUser(ctx, patch); err != nil {
			return err
		}
		fmt.Fprintln(a.out, a.render.Success("Profile updated."))
		return nil
	})
}

func (a *App) ChangePassword(ctx context.Context) error {
	return a.protect(ctx, "password", func(ctx context.Context) error {
		current, err := a.askSecret("Current password")
		if err != nil {
			return err
		}
		next, err := a.askSecret("New password")
		if err != nil {
			return err
		}
		confirm, err := a.askSecret("Confirm new password")
		if err != nil {
			return err
		}
		if err := a.account.ChangePassword(ctx, current, next, confirm); err != nil {
			return err
		}
		fmt.Fprintln(a.out, a.render.Success("Password changed."))
		return nil
	})
}

// ForgotPassword asks the server to mail a reset link.
func (a *App) ForgotPassword(ctx context.Context) error {
	email, err := a.ask("Email")
	if err != nil {
		return err
	}
	if err := a.account.ForgotPassword(ctx, email); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "If the address is registered, a reset link is on its way.")
	return nil
}

// ResetPassword sets a new password using the token from the reset link.
func (a *App) ResetPassword(ctx context.Context) error {
	token, err := a.ask("Reset token")
	if err != nil {
		return err
	}
	password, err := a.askSecret("New password")
	if err != nil {
		return err
	}
	confirm, err := a.askSecret("Confirm new password")
	if err != nil {
		return err
	}
	if err := a.account.ResetPassword(ctx, token, password, confirm); err != nil {
		return err
	}
	fmt.Fprintln(a.out, a.render.Success("Password reset. You can log in now."))
	return nil
}
