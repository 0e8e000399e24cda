package cli

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/agentmarket/internal/client/invocation"
	"github.com/dmitrijs2005/agentmarket/internal/client/models"
	"github.com/dmitrijs2005/agentmarket/internal/client/render"
	"github.com/dmitrijs2005/agentmarket/internal/client/services"
	"github.com/dmitrijs2005/agentmarket/internal/client/session"
)

// fakeSession implements Session in memory.
type fakeSession struct {
	snap session.Snapshot

	loginErr    error
	registerErr error
	refreshErr  error
	expiry      time.Time

	logins     []models.Credentials
	registered []models.Registration
	patches    []models.UserUpdate
	logouts    int
	refreshes  int
	renewals   int
}

func anonymous() *fakeSession {
	return &fakeSession{snap: session.Snapshot{State: session.StateAnonymous}}
}

func loggedIn(u *models.User) *fakeSession {
	return &fakeSession{snap: session.Snapshot{State: session.StateAuthenticated, Token: "tok", User: u}}
}

func (f *fakeSession) Snapshot() session.Snapshot {
	s := f.snap
	s.User = f.snap.User.Clone()
	return s
}
func (f *fakeSession) Wait(context.Context) error { return nil }
func (f *fakeSession) Rehydrate(context.Context) {
	if f.snap.State == session.StateUnknown {
		f.snap.State = session.StateAnonymous
	}
}

func (f *fakeSession) Login(_ context.Context, creds models.Credentials) error {
	f.logins = append(f.logins, creds)
	if f.loginErr != nil {
		f.snap.Error = f.loginErr.Error()
		return f.loginErr
	}
	f.snap = session.Snapshot{
		State: session.StateAuthenticated,
		Token: "tok-" + creds.Username,
		User:  &models.User{ID: 1, Username: creds.Username, TokenBalance: 100},
	}
	return nil
}

func (f *fakeSession) Register(ctx context.Context, data models.Registration) error {
	f.registered = append(f.registered, data)
	if f.registerErr != nil {
		return f.registerErr
	}
	return f.Login(ctx, data.Credentials())
}

func (f *fakeSession) Logout(context.Context) error {
	f.logouts++
	f.snap = session.Snapshot{State: session.StateAnonymous}
	return nil
}

func (f *fakeSession) UpdateUser(_ context.Context, patch models.UserUpdate) error {
	f.patches = append(f.patches, patch)
	if patch.Email != nil {
		f.snap.User.Email = *patch.Email
	}
	return nil
}

func (f *fakeSession) Refresh(context.Context) error {
	f.refreshes++
	return f.refreshErr
}

func (f *fakeSession) Renew(context.Context) error {
	f.renewals++
	f.snap.Token += "+"
	return nil
}

func (f *fakeSession) TokenExpiry() (time.Time, bool) { return f.expiry, !f.expiry.IsZero() }

// fakeMarket implements services.MarketService.
type fakeMarket struct {
	agents    []models.Agent
	agentsErr error
	byID      map[int64]*models.Agent

	purchased []int64
	invoked   []invocation.Input
	invokeRet *models.Invocation
	invokeErr error

	history   []models.Invocation
	dashboard services.Dashboard
	tokens    []models.Tokens
	balance   models.Tokens

	created   []models.AgentDraft
	updates   []models.AgentUpdate
	deleted   []int64
	analytics *models.Analytics

	calls map[string]int
}

func newFakeMarket(agents ...models.Agent) *fakeMarket {
	m := &fakeMarket{agents: agents, byID: map[int64]*models.Agent{}, calls: map[string]int{}}
	for i := range agents {
		a := agents[i]
		m.byID[a.ID] = &a
	}
	return m
}

func (m *fakeMarket) Agents(context.Context) ([]models.Agent, error) {
	m.calls["agents"]++
	return m.agents, m.agentsErr
}

func (m *fakeMarket) Agent(_ context.Context, id int64) (*models.Agent, error) {
	m.calls["agent"]++
	a, ok := m.byID[id]
	if !ok {
		return nil, &services.ValidationError{Field: "id", Message: "Agent not found"}
	}
	c := *a
	return &c, nil
}

func (m *fakeMarket) Purchase(_ context.Context, agent *models.Agent) (*models.Purchase, error) {
	m.purchased = append(m.purchased, agent.ID)
	agent.IsPurchased = true
	return &models.Purchase{AgentID: agent.ID, PurchaseID: 1, PurchasePrice: agent.Price, RemainingBalance: 100 - agent.Price}, nil
}

func (m *fakeMarket) Invoke(_ context.Context, _ models.Agent, in invocation.Input) (*models.Invocation, error) {
	m.invoked = append(m.invoked, in)
	if m.invokeErr != nil {
		return nil, m.invokeErr
	}
	c := *m.invokeRet
	return &c, nil
}

func (m *fakeMarket) History(context.Context) ([]models.Invocation, error) {
	m.calls["history"]++
	return m.history, nil
}

func (m *fakeMarket) BuyTokens(_ context.Context, amount models.Tokens) (*models.TokenPurchase, error) {
	m.tokens = append(m.tokens, amount)
	return &models.TokenPurchase{Status: "success", NewBalance: 100 + amount, AmountAdded: amount}, nil
}

func (m *fakeMarket) Balance(context.Context) (models.Tokens, error) { return m.balance, nil }

func (m *fakeMarket) Dashboard(context.Context) (services.Dashboard, error) {
	m.calls["dashboard"]++
	return m.dashboard, nil
}

func (m *fakeMarket) CreateAgent(_ context.Context, draft models.AgentDraft) (*models.Agent, error) {
	m.created = append(m.created, draft)
	return &models.Agent{ID: 99, Name: draft.Name, Description: draft.Description, Price: draft.Price}, nil
}

func (m *fakeMarket) UpdateAgent(_ context.Context, id int64, patch models.AgentUpdate) (*models.Agent, error) {
	m.updates = append(m.updates, patch)
	a := *m.byID[id]
	if patch.Name != nil {
		a.Name = *patch.Name
	}
	return &a, nil
}

func (m *fakeMarket) DeleteAgent(_ context.Context, id int64) error {
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *fakeMarket) Analytics(context.Context, int64) (*models.Analytics, error) {
	return m.analytics, nil
}

// fakeAccount implements services.AccountService.
type fakeAccount struct {
	changes [][3]string
	forgot  []string
	resets  [][3]string
	err     error
}

func (f *fakeAccount) ChangePassword(_ context.Context, current, next, confirm string) error {
	f.changes = append(f.changes, [3]string{current, next, confirm})
	return f.err
}

func (f *fakeAccount) ForgotPassword(_ context.Context, email string) error {
	f.forgot = append(f.forgot, email)
	return f.err
}

func (f *fakeAccount) ResetPassword(_ context.Context, token, password, confirm string) error {
	f.resets = append(f.resets, [3]string{token, password, confirm})
	return f.err
}

// fakePrefs implements Preferences.
type fakePrefs struct {
	last    string
	savedAt time.Time
	wiped   bool
}

func (p *fakePrefs) LastUsername(context.Context) (string, error) { return p.last, nil }
func (p *fakePrefs) RememberUsername(_ context.Context, username string) error {
	p.last = username
	return nil
}
func (p *fakePrefs) SavedAt(context.Context) (time.Time, bool, error) {
	return p.savedAt, !p.savedAt.IsZero(), nil
}
func (p *fakePrefs) Wipe(context.Context) error {
	p.wiped = true
	p.last = ""
	return nil
}

type testApp struct {
	*App
	sess  *fakeSession
	mkt   *fakeMarket
	acct  *fakeAccount
	prf   *fakePrefs
	shown *bytes.Buffer
}

// newTestApp builds an App over fakes with input as the scripted answers.
// Passwords are read from the same input.
func newTestApp(t *testing.T, s *fakeSession, m *fakeMarket, input string) *testApp {
	t.Helper()
	stubTerminal(t, false)

	var out bytes.Buffer
	acc := &fakeAccount{}
	prefs := &fakePrefs{}
	app := newApp(s, m, acc, prefs, render.New(&out, render.Options{Width: 100}), nil, bytes.NewBufferString(input), &out)
	return &testApp{App: app, sess: s, mkt: m, acct: acc, prf: prefs, shown: &out}
}
