package client

import (
	"context"

	"github.com/dmitrijs2005/agentmarket/internal/client/models"
)

// AuthGateway wraps the account endpoints of the backend.
type AuthGateway interface {
	Login(ctx context.Context, creds models.Credentials) Result[models.AuthData]
	Register(ctx context.Context, data models.Registration) Result[*models.User]
	CurrentUser(ctx context.Context, token string) Result[*models.User]
	UpdateUser(ctx context.Context, token string, patch models.UserUpdate) Result[*models.User]
	RefreshToken(ctx context.Context, token string) Result[models.AuthData]
	UpdatePassword(ctx context.Context, token string, change models.PasswordChange) Result[struct{}]
	ResetPassword(ctx context.Context, resetToken, password string) Result[struct{}]
	RequestPasswordReset(ctx context.Context, email string) Result[struct{}]
}

// AgentGateway wraps the catalog, purchase, invocation and analytics
// endpoints of the backend.
type AgentGateway interface {
	ListAgents(ctx context.Context, token string) Result[[]models.Agent]
	GetAgent(ctx context.Context, token string, id int64) Result[*models.Agent]
	CreateAgent(ctx context.Context, token string, draft models.AgentDraft) Result[*models.Agent]
	UpdateAgent(ctx context.Context, token string, id int64, patch models.AgentUpdate) Result[*models.Agent]
	DeleteAgent(ctx context.Context, token string, id int64) Result[struct{}]
	PurchaseAgent(ctx context.Context, token string, agentID int64, price models.Tokens) Result[*models.Purchase]
	InvokeAgent(ctx context.Context, token string, agentID int64, req models.InvocationRequest) Result[*models.Invocation]
	ListInvocations(ctx context.Context, token string) Result[[]models.Invocation]
	GetAnalytics(ctx context.Context, token string, agentID int64) Result[*models.Analytics]
	PurchaseTokens(ctx context.Context, token string, amount models.Tokens) Result[*models.TokenPurchase]
	GetBalance(ctx context.Context, token string) Result[models.TokenBalance]
}

// Client is the full backend surface used by the CLI.
type Client interface {
	AuthGateway
	AgentGateway
}
