package cli

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dmitrijs2005/agentmarket/internal/client/client"
	"github.com/dmitrijs2005/agentmarket/internal/client/config"
	"github.com/dmitrijs2005/agentmarket/internal/client/guard"
	"github.com/dmitrijs2005/agentmarket/internal/client/models"
	"github.com/dmitrijs2005/agentmarket/internal/client/render"
	"github.com/dmitrijs2005/agentmarket/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/agentmarket/internal/client/services"
	"github.com/dmitrijs2005/agentmarket/internal/client/session"
	"github.com/dmitrijs2005/agentmarket/internal/filex"
	"github.com/dmitrijs2005/agentmarket/internal/logging"
	"golang.org/x/term"
)

// Session is the part of session.Store the CLI drives.
type Session interface {
	Snapshot() session.Snapshot
	Wait(ctx context.Context) error
	Rehydrate(ctx context.Context)
	Login(ctx context.Context, creds models.Credentials) error
	Register(ctx context.Context, data models.Registration) error
	Logout(ctx context.Context) error
	UpdateUser(ctx context.Context, patch models.UserUpdate) error
	Refresh(ctx context.Context) error
	Renew(ctx context.Context) error
	TokenExpiry() (time.Time, bool)
}

// Preferences is local state kept next to the token.
type Preferences interface {
	LastUsername(ctx context.Context) (string, error)
	RememberUsername(ctx context.Context, username string) error
	SavedAt(ctx context.Context) (time.Time, bool, error)
	Wipe(ctx context.Context) error
}

type App struct {
	session Session
	guard   *guard.Guard
	market  services.MarketService
	account services.AccountService
	prefs   Preferences
	render  *render.Renderer
	log     logging.Logger
	db      *sql.DB
	reader  *bufio.Reader
	out     io.Writer
}

// NewApp opens the local database and wires the backend client, the session
// and the services for an interactive run on stdin/stdout.
func NewApp(ctx context.Context, cfg *config.Config, log logging.Logger) (*App, error) {
	if err := filex.EnsureParentDir(cfg.DBPath); err != nil {
		return nil, fmt.Errorf("preparing data directory: %w", err)
	}
	db, err := client.InitDatabase(ctx, cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening local database: %w", err)
	}

	api, err := client.NewHTTPClient(client.Config{
		BaseURL: cfg.APIURL,
		Timeout: cfg.RequestTimeout,
		Logger:  log,
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	tokens := metadata.NewTokenStore(db)
	store := session.New(api, tokens, log)

	stdout := int(os.Stdout.Fd())
	opts := render.Options{Color: !cfg.NoColor && term.IsTerminal(stdout)}
	if w, _, err := term.GetSize(stdout); err == nil {
		opts.Width = w
	}

	a := newApp(store,
		services.NewMarketService(api, store, log),
		services.NewAccountService(api, store),
		tokens,
		render.New(os.Stdout, opts),
		log, os.Stdin, os.Stdout)
	a.db = db
	return a, nil
}

func newApp(s Session, market services.MarketService, account services.AccountService, prefs Preferences,
	r *render.Renderer, log logging.Logger, in io.Reader, out io.Writer) *App {
	if log == nil {
		log = logging.Nop()
	}
	a := &App{
		session: s,
		market:  market,
		account: account,
		prefs:   prefs,
		render:  r,
		log:     log,
		reader:  bufio.NewReader(in),
		out:     out,
	}
	a.guard = guard.New(s, a.loginRedirect)
	return a
}

// Run restores the previous session in the background and serves the REPL
// until the user exits.
func (a *App) Run(ctx context.Context) {
	go a.session.Rehydrate(ctx)

	printlnFn("Welcome to the agent marketplace (type 'help' for commands)")
	runREPL(ctx, a, a.status, a.reader)
}

func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

func (a *App) isLoggedIn() bool {
	return a.session.Snapshot().Token != ""
}

func (a *App) status() string {
	snap := a.session.Snapshot()
	switch {
	case snap.Loading():
		return "restoring session"
	case snap.Token == "" || snap.User == nil:
		return "anonymous"
	default:
		return fmt.Sprintf("%s, %d tokens", snap.User.Username, snap.User.TokenBalance)
	}
}

// loginRedirect is the guard's login flow. The requested command resumes
// when it succeeds.
func (a *App) loginRedirect(ctx context.Context, d guard.Decision) error {
	fmt.Fprintf(a.out, "Log in to continue to %s.\n", d.From)
	return a.Login(ctx)
}

func (a *App) protect(ctx context.Context, command string, view func(ctx context.Context) error) error {
	return a.guard.Protect(ctx, command, view)
}

// report prints err for the user. An unauthorized response means the token
// is no longer accepted, so the session is dropped. Rejected credentials
// leave the session alone.
func (a *App) report(ctx context.Context, err error) {
	if err == nil {
		return
	}
	switch {
	case errors.Is(err, client.ErrInvalidCredentials):
		fmt.Fprintln(a.out, a.render.Error(err.Error()))
	case errors.Is(err, client.ErrUnauthorized):
		if lerr := a.session.Logout(ctx); lerr != nil {
			a.log.Warn(ctx, "dropping expired session failed", "error", lerr)
		}
		fmt.Fprintln(a.out, a.render.Error("your session has expired, please log in again"))
	case errors.Is(err, guard.ErrLoginRequired):
		fmt.Fprintln(a.out, a.render.Error("login required"))
	case errors.Is(err, context.Canceled):
		fmt.Fprintln(a.out, "Canceled.")
	default:
		fmt.Fprintln(a.out, a.render.Error(err.Error()))
	}
}
