// Package guard decides whether a protected command may run given the
// current session.
package guard

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/agentmarket/internal/client/session"
)

// LoginPath is where anonymous users are sent.
const LoginPath = "login"

var ErrLoginRequired = errors.New("login required")

type Action int

const (
	// Wait means the session is still resolving; neither the protected
	// view nor a redirect may be shown.
	Wait Action = iota
	Redirect
	Render
)

func (a Action) String() string {
	switch a {
	case Wait:
		return "wait"
	case Redirect:
		return "redirect"
	case Render:
		return "render"
	default:
		return "unknown"
	}
}

// Decision is the outcome of Decide. For Redirect, To is the login path and
// From the originally requested location.
type Decision struct {
	Action Action
	To     string
	From   string
}

// Decide gates requested on the session snapshot. It never redirects while
// the session is loading.
func Decide(snap session.Snapshot, requested string) Decision {
	switch {
	case snap.Loading():
		return Decision{Action: Wait}
	case snap.Token == "":
		return Decision{Action: Redirect, To: LoginPath, From: requested}
	default:
		return Decision{Action: Render}
	}
}

// Session is the part of session.Store the guard reads.
type Session interface {
	Snapshot() session.Snapshot
	Wait(ctx context.Context) error
}

// LoginFunc runs the interactive login flow. d.From names the command to
// resume afterwards.
type LoginFunc func(ctx context.Context, d Decision) error

type Guard struct {
	session Session
	login   LoginFunc
}

func New(s Session, login LoginFunc) *Guard {
	return &Guard{session: s, login: login}
}

// Protect runs view if the session allows it. A pending session is waited
// for. An anonymous session is sent through the login flow; if that ends
// authenticated, the requested view runs.
func (g *Guard) Protect(ctx context.Context, requested string, view func(ctx context.Context) error) error {
	d := Decide(g.session.Snapshot(), requested)

	if d.Action == Wait {
		if err := g.session.Wait(ctx); err != nil {
			return err
		}
		d = Decide(g.session.Snapshot(), requested)
	}

	if d.Action == Redirect {
		if g.login == nil {
			return ErrLoginRequired
		}
		if err := g.login(ctx, d); err != nil {
			return err
		}
		d = Decide(g.session.Snapshot(), requested)
	}

	if d.Action != Render {
		return ErrLoginRequired
	}
	return view(ctx)
}
