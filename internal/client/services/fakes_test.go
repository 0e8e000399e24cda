package services

import (
	"context"
	"net/http"
	"sync"

	"github.com/dmitrijs2005/agentmarket/internal/client/client"
	"github.com/dmitrijs2005/agentmarket/internal/client/models"
	"github.com/dmitrijs2005/agentmarket/internal/client/session"
)

// fakeAgents implements client.AgentGateway for unit tests.
type fakeAgents struct {
	mu sync.Mutex

	AgentsRet  []models.Agent
	AgentsFail string

	HistoryRet  []models.Invocation
	HistoryFail string

	PurchaseRet  *models.Purchase
	InvokeRet    *models.Invocation
	BalanceRet   models.Tokens
	BalanceFail  string
	TokensRet    *models.TokenPurchase
	Analytics    *models.Analytics
	Unauthorized bool

	LastToken      string
	LastPurchaseID int64
	LastPrice      models.Tokens
	LastInvokeID   int64
	LastInvoke     *models.InvocationRequest
	LastAmount     models.Tokens
	Calls          map[string]int
}

func newFakeAgents() *fakeAgents {
	return &fakeAgents{Calls: map[string]int{}}
}

func (f *fakeAgents) hit(name, token string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls[name]++
	f.LastToken = token
}

func unauthorized[T any]() client.Result[T] {
	return client.Failure[T]("Could not validate credentials", http.StatusUnauthorized, client.ErrUnauthorized)
}

func (f *fakeAgents) ListAgents(_ context.Context, token string) client.Result[[]models.Agent] {
	f.hit("ListAgents", token)
	if f.Unauthorized {
		return unauthorized[[]models.Agent]()
	}
	if f.AgentsFail != "" {
		return client.Failure[[]models.Agent](f.AgentsFail, http.StatusInternalServerError, client.ErrServer)
	}
	return client.Success(f.AgentsRet)
}

func (f *fakeAgents) GetAgent(_ context.Context, token string, id int64) client.Result[*models.Agent] {
	f.hit("GetAgent", token)
	for _, a := range f.AgentsRet {
		if a.ID == id {
			a := a
			return client.Success(&a)
		}
	}
	return client.Failure[*models.Agent]("Agent not found", http.StatusNotFound, client.ErrServer)
}

func (f *fakeAgents) CreateAgent(_ context.Context, token string, draft models.AgentDraft) client.Result[*models.Agent] {
	f.hit("CreateAgent", token)
	return client.Success(&models.Agent{ID: 99, Name: draft.Name, Price: draft.Price})
}

func (f *fakeAgents) UpdateAgent(_ context.Context, token string, id int64, patch models.AgentUpdate) client.Result[*models.Agent] {
	f.hit("UpdateAgent", token)
	a := &models.Agent{ID: id}
	if patch.Name != nil {
		a.Name = *patch.Name
	}
	return client.Success(a)
}

func (f *fakeAgents) DeleteAgent(_ context.Context, token string, _ int64) client.Result[struct{}] {
	f.hit("DeleteAgent", token)
	return client.Success(struct{}{})
}

func (f *fakeAgents) PurchaseAgent(_ context.Context, token string, agentID int64, price models.Tokens) client.Result[*models.Purchase] {
	f.hit("PurchaseAgent", token)
	f.LastPurchaseID, f.LastPrice = agentID, price
	if f.PurchaseRet == nil {
		return client.Failure[*models.Purchase]("Insufficient token balance", http.StatusBadRequest, client.ErrServer)
	}
	return client.Success(f.PurchaseRet)
}

func (f *fakeAgents) InvokeAgent(_ context.Context, token string, agentID int64, req models.InvocationRequest) client.Result[*models.Invocation] {
	f.hit("InvokeAgent", token)
	f.LastInvokeID = agentID
	f.LastInvoke = &req
	return client.Success(f.InvokeRet)
}

func (f *fakeAgents) ListInvocations(_ context.Context, token string) client.Result[[]models.Invocation] {
	f.hit("ListInvocations", token)
	if f.HistoryFail != "" {
		return client.Failure[[]models.Invocation](f.HistoryFail, 0, client.ErrUnavailable)
	}
	return client.Success(f.HistoryRet)
}

func (f *fakeAgents) GetAnalytics(_ context.Context, token string, _ int64) client.Result[*models.Analytics] {
	f.hit("GetAnalytics", token)
	if f.Analytics == nil {
		return client.Failure[*models.Analytics]("Failed to fetch agent analytics", http.StatusInternalServerError, client.ErrServer)
	}
	return client.Success(f.Analytics)
}

func (f *fakeAgents) PurchaseTokens(_ context.Context, token string, amount models.Tokens) client.Result[*models.TokenPurchase] {
	f.hit("PurchaseTokens", token)
	f.LastAmount = amount
	return client.Success(f.TokensRet)
}

func (f *fakeAgents) GetBalance(_ context.Context, token string) client.Result[models.TokenBalance] {
	f.hit("GetBalance", token)
	if f.BalanceFail != "" {
		return client.Failure[models.TokenBalance](f.BalanceFail, 0, client.ErrUnavailable)
	}
	return client.Success(models.TokenBalance{Balance: f.BalanceRet})
}

// fakeAuth implements client.AuthGateway; only the password calls are used.
type fakeAuth struct {
	LastChange     models.PasswordChange
	LastEmail      string
	LastResetToken string
	LastPassword   string
	Fail           string
}

func (f *fakeAuth) result() client.Result[struct{}] {
	if f.Fail != "" {
		return client.Failure[struct{}](f.Fail, http.StatusBadRequest, client.ErrServer)
	}
	return client.Success(struct{}{})
}

func (f *fakeAuth) Login(context.Context, models.Credentials) client.Result[models.AuthData] {
	return client.Success(models.AuthData{})
}

func (f *fakeAuth) Register(context.Context, models.Registration) client.Result[*models.User] {
	return client.Success(&models.User{})
}

func (f *fakeAuth) CurrentUser(context.Context, string) client.Result[*models.User] {
	return client.Success(&models.User{})
}

func (f *fakeAuth) UpdateUser(context.Context, string, models.UserUpdate) client.Result[*models.User] {
	return client.Success(&models.User{})
}

func (f *fakeAuth) RefreshToken(context.Context, string) client.Result[models.AuthData] {
	return client.Success(models.AuthData{})
}

func (f *fakeAuth) UpdatePassword(_ context.Context, _ string, change models.PasswordChange) client.Result[struct{}] {
	f.LastChange = change
	return f.result()
}

func (f *fakeAuth) ResetPassword(_ context.Context, resetToken, password string) client.Result[struct{}] {
	f.LastResetToken, f.LastPassword = resetToken, password
	return f.result()
}

func (f *fakeAuth) RequestPasswordReset(_ context.Context, email string) client.Result[struct{}] {
	f.LastEmail = email
	return f.result()
}

// fakeSession is an in-memory Session.
type fakeSession struct {
	mu   sync.Mutex
	snap session.Snapshot
}

func loggedIn(user models.User) *fakeSession {
	return &fakeSession{snap: session.Snapshot{State: session.StateAuthenticated, Token: "tok", User: &user}}
}

func (f *fakeSession) Snapshot() session.Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := f.snap
	s.User = f.snap.User.Clone()
	return s
}

func (f *fakeSession) ReconcileBalance(b models.Tokens) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.snap.User != nil {
		f.snap.User.TokenBalance = b
	}
}

func (f *fakeSession) MarkPurchased(id int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.snap.User != nil {
		f.snap.User.AgentPurchases = append(f.snap.User.AgentPurchases, id)
	}
}
