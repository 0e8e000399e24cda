// Package services combines the session with the backend gateways into the
// operations the CLI views perform.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/agentmarket/internal/client/client"
	"github.com/dmitrijs2005/agentmarket/internal/client/invocation"
	"github.com/dmitrijs2005/agentmarket/internal/client/models"
	"github.com/dmitrijs2005/agentmarket/internal/client/session"
	"github.com/dmitrijs2005/agentmarket/internal/logging"
	"golang.org/x/sync/errgroup"
)

var (
	ErrNotDeveloper  = errors.New("developer account required")
	ErrInvalidAmount = errors.New("amount must be positive")
)

// Session is the part of session.Store the services use.
type Session interface {
	Snapshot() session.Snapshot
	ReconcileBalance(balance models.Tokens)
	MarkPurchased(agentID int64)
}

// Dashboard is the aggregate of the agent catalog and the invocation history.
// Each half carries its own error; one failing does not hide the other.
type Dashboard struct {
	Agents     []models.Agent
	AgentsErr  error
	History    []models.Invocation
	HistoryErr error
}

// Owned returns the agents the user has purchased.
func (d Dashboard) Owned() []models.Agent {
	var out []models.Agent
	for _, a := range d.Agents {
		if a.IsPurchased {
			out = append(out, a)
		}
	}
	return out
}

// MarketService defines the marketplace operations of the CLI.
//
// Contract:
//   - every method needs an authenticated session (session.ErrNotAuthenticated otherwise);
//   - gateway failures come back as *client.GatewayError, matchable with errors.Is
//     against the client sentinels;
//   - balances are only ever taken from server responses.
type MarketService interface {
	Agents(ctx context.Context) ([]models.Agent, error)
	Agent(ctx context.Context, id int64) (*models.Agent, error)
	Purchase(ctx context.Context, agent *models.Agent) (*models.Purchase, error)
	Invoke(ctx context.Context, agent models.Agent, in invocation.Input) (*models.Invocation, error)
	History(ctx context.Context) ([]models.Invocation, error)
	BuyTokens(ctx context.Context, amount models.Tokens) (*models.TokenPurchase, error)
	Balance(ctx context.Context) (models.Tokens, error)
	Dashboard(ctx context.Context) (Dashboard, error)

	CreateAgent(ctx context.Context, draft models.AgentDraft) (*models.Agent, error)
	UpdateAgent(ctx context.Context, id int64, patch models.AgentUpdate) (*models.Agent, error)
	DeleteAgent(ctx context.Context, id int64) error
	Analytics(ctx context.Context, agentID int64) (*models.Analytics, error)
}

type marketService struct {
	agents  client.AgentGateway
	session Session
	log     logging.Logger
}

func NewMarketService(agents client.AgentGateway, s Session, log logging.Logger) MarketService {
	if log == nil {
		log = logging.Nop()
	}
	return &marketService{agents: agents, session: s, log: log}
}

func (m *marketService) token() (string, error) {
	t := m.session.Snapshot().Token
	if t == "" {
		return "", session.ErrNotAuthenticated
	}
	return t, nil
}

func (m *marketService) developerToken() (string, error) {
	snap := m.session.Snapshot()
	if snap.Token == "" {
		return "", session.ErrNotAuthenticated
	}
	if snap.User == nil || !snap.User.IsDeveloper {
		return "", ErrNotDeveloper
	}
	return snap.Token, nil
}

func (m *marketService) Agents(ctx context.Context) ([]models.Agent, error) {
	token, err := m.token()
	if err != nil {
		return nil, err
	}
	res := m.agents.ListAgents(ctx, token)
	return res.Data, res.Err()
}

func (m *marketService) Agent(ctx context.Context, id int64) (*models.Agent, error) {
	token, err := m.token()
	if err != nil {
		return nil, err
	}
	res := m.agents.GetAgent(ctx, token, id)
	if err := res.Err(); err != nil {
		return nil, err
	}
	return res.Data, nil
}

// Purchase buys agent at its listed price. On success the local balance is
// set to the server's remaining balance and agent is marked purchased.
func (m *marketService) Purchase(ctx context.Context, agent *models.Agent) (*models.Purchase, error) {
	token, err := m.token()
	if err != nil {
		return nil, err
	}

	res := m.agents.PurchaseAgent(ctx, token, agent.ID, agent.Price)
	if err := res.Err(); err != nil {
		return nil, err
	}

	m.session.ReconcileBalance(res.Data.RemainingBalance)
	m.session.MarkPurchased(agent.ID)
	agent.IsPurchased = true
	m.log.Info(ctx, "agent purchased", "agent_id", agent.ID, "remaining_balance", res.Data.RemainingBalance)
	return res.Data, nil
}

// Invoke builds the request for agent and sends it. The balance is re-read
// from the server afterwards; a failure to do so is logged, not returned.
func (m *marketService) Invoke(ctx context.Context, agent models.Agent, in invocation.Input) (*models.Invocation, error) {
	token, err := m.token()
	if err != nil {
		return nil, err
	}

	req, err := invocation.Build(agent.Name, in)
	if errors.Is(err, invocation.ErrUnsupportedAgentType) && agent.Type != "" {
		req, err = invocation.Build(agent.Type, in)
	}
	if err != nil {
		return nil, err
	}

	res := m.agents.InvokeAgent(ctx, token, agent.ID, req)
	if err := res.Err(); err != nil {
		return nil, err
	}
	if res.Data.AgentName == "" {
		res.Data.AgentName = agent.Name
	}
	m.log.Info(ctx, "agent invoked", "agent_id", agent.ID, "tokens_used", res.Data.TokensUsed)

	if _, err := m.Balance(ctx); err != nil {
		m.log.Warn(ctx, "refreshing balance after invocation failed", "error", err)
	}
	return res.Data, nil
}

func (m *marketService) History(ctx context.Context) ([]models.Invocation, error) {
	token, err := m.token()
	if err != nil {
		return nil, err
	}
	res := m.agents.ListInvocations(ctx, token)
	return res.Data, res.Err()
}

func (m *marketService) BuyTokens(ctx context.Context, amount models.Tokens) (*models.TokenPurchase, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	token, err := m.token()
	if err != nil {
		return nil, err
	}

	res := m.agents.PurchaseTokens(ctx, token, amount)
	if err := res.Err(); err != nil {
		return nil, err
	}
	m.session.ReconcileBalance(res.Data.NewBalance)
	return res.Data, nil
}

// Balance fetches the balance and reconciles the session with it.
func (m *marketService) Balance(ctx context.Context) (models.Tokens, error) {
	token, err := m.token()
	if err != nil {
		return 0, err
	}
	res := m.agents.GetBalance(ctx, token)
	if err := res.Err(); err != nil {
		return 0, err
	}
	m.session.ReconcileBalance(res.Data.Balance)
	return res.Data.Balance, nil
}

// Dashboard loads the catalog and the history in parallel and waits for
// both. The returned error is only set when there is no session.
func (m *marketService) Dashboard(ctx context.Context) (Dashboard, error) {
	token, err := m.token()
	if err != nil {
		return Dashboard{}, err
	}

	var d Dashboard
	var g errgroup.Group
	g.Go(func() error {
		res := m.agents.ListAgents(ctx, token)
		d.Agents, d.AgentsErr = res.Data, res.Err()
		return nil
	})
	g.Go(func() error {
		res := m.agents.ListInvocations(ctx, token)
		d.History, d.HistoryErr = res.Data, res.Err()
		return nil
	})
	_ = g.Wait()
	return d, nil
}

func (m *marketService) CreateAgent(ctx context.Context, draft models.AgentDraft) (*models.Agent, error) {
	if err := ValidateAgentDraft(draft); err != nil {
		return nil, err
	}
	token, err := m.developerToken()
	if err != nil {
		return nil, err
	}
	res := m.agents.CreateAgent(ctx, token, draft)
	if err := res.Err(); err != nil {
		return nil, err
	}
	return res.Data, nil
}

func (m *marketService) UpdateAgent(ctx context.Context, id int64, patch models.AgentUpdate) (*models.Agent, error) {
	if patch.Price != nil && *patch.Price < 0 {
		return nil, invalid("price", "Price must not be negative")
	}
	token, err := m.developerToken()
	if err != nil {
		return nil, err
	}
	res := m.agents.UpdateAgent(ctx, token, id, patch)
	if err := res.Err(); err != nil {
		return nil, err
	}
	return res.Data, nil
}

func (m *marketService) DeleteAgent(ctx context.Context, id int64) error {
	token, err := m.developerToken()
	if err != nil {
		return err
	}
	return m.agents.DeleteAgent(ctx, token, id).Err()
}

// Analytics returns the usage metrics the server recorded for agentID.
func (m *marketService) Analytics(ctx context.Context, agentID int64) (*models.Analytics, error) {
	token, err := m.developerToken()
	if err != nil {
		return nil, err
	}
	res := m.agents.GetAnalytics(ctx, token, agentID)
	if err := res.Err(); err != nil {
		return nil, fmt.Errorf("analytics for agent %d: %w", agentID, err)
	}
	return res.Data, nil
}
