package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/agentmarket/internal/client/models"
)

func (c *HTTPClient) ListAgents(ctx context.Context, token string) Result[[]models.Agent] {
	return call[[]models.Agent](ctx, c, request{
		method:   http.MethodGet,
		path:     "/agents",
		token:    token,
		fallback: "Failed to fetch agents",
	})
}

func (c *HTTPClient) GetAgent(ctx context.Context, token string, id int64) Result[*models.Agent] {
	return call[*models.Agent](ctx, c, request{
		method:   http.MethodGet,
		path:     fmt.Sprintf("/agents/%d", id),
		token:    token,
		fallback: "Failed to fetch agent",
	})
}

func (c *HTTPClient) CreateAgent(ctx context.Context, token string, draft models.AgentDraft) Result[*models.Agent] {
	return call[*models.Agent](ctx, c, request{
		method:   http.MethodPost,
		path:     "/agents/create",
		token:    token,
		body:     draft,
		fallback: "Failed to create agent",
	})
}

func (c *HTTPClient) UpdateAgent(ctx context.Context, token string, id int64, patch models.AgentUpdate) Result[*models.Agent] {
	return call[*models.Agent](ctx, c, request{
		method:   http.MethodPut,
		path:     fmt.Sprintf("/agents/%d", id),
		token:    token,
		body:     patch,
		fallback: "Failed to update agent",
	})
}

func (c *HTTPClient) DeleteAgent(ctx context.Context, token string, id int64) Result[struct{}] {
	return call[struct{}](ctx, c, request{
		method:   http.MethodDelete,
		path:     fmt.Sprintf("/agents/%d", id),
		token:    token,
		fallback: "Failed to delete agent",
	})
}

func (c *HTTPClient) PurchaseAgent(ctx context.Context, token string, agentID int64, price models.Tokens) Result[*models.Purchase] {
	return call[*models.Purchase](ctx, c, request{
		method:   http.MethodPost,
		path:     "/agents/purchase",
		token:    token,
		body:     models.PurchaseRequest{AgentID: agentID, PurchasePrice: price},
		fallback: "Failed to purchase agent",
	})
}

func (c *HTTPClient) InvokeAgent(ctx context.Context, token string, agentID int64, req models.InvocationRequest) Result[*models.Invocation] {
	res := call[*models.Invocation](ctx, c, request{
		method:   http.MethodPost,
		path:     fmt.Sprintf("/agents/invoke/%d", agentID),
		token:    token,
		body:     req,
		fallback: "Failed to invoke agent",
	})
	if res.OK() && res.Data != nil && res.Data.AgentID == 0 {
		res.Data.AgentID = agentID
	}
	return res
}

func (c *HTTPClient) ListInvocations(ctx context.Context, token string) Result[[]models.Invocation] {
	return call[[]models.Invocation](ctx, c, request{
		method:   http.MethodGet,
		path:     "/users/me/invocations",
		token:    token,
		fallback: "Failed to fetch invocations",
	})
}

func (c *HTTPClient) GetAnalytics(ctx context.Context, token string, agentID int64) Result[*models.Analytics] {
	return call[*models.Analytics](ctx, c, request{
		method:   http.MethodGet,
		path:     fmt.Sprintf("/agents/%d/analytics", agentID),
		token:    token,
		fallback: "Failed to fetch agent analytics",
	})
}

func (c *HTTPClient) PurchaseTokens(ctx context.Context, token string, amount models.Tokens) Result[*models.TokenPurchase] {
	return call[*models.TokenPurchase](ctx, c, request{
		method:   http.MethodPost,
		path:     "/tokens/purchase",
		token:    token,
		body:     map[string]models.Tokens{"amount": amount},
		fallback: "Failed to purchase tokens",
	})
}

// GetBalance reads the balance from /users/me; the backend has no
// dedicated endpoint.
func (c *HTTPClient) GetBalance(ctx context.Context, token string) Result[models.TokenBalance] {
	res := call[*models.User](ctx, c, request{
		method:   http.MethodGet,
		path:     "/users/me",
		token:    token,
		fallback: "Failed to get token balance",
	})
	var balance models.TokenBalance
	if res.OK() {
		balance.Balance = res.Data.TokenBalance
	}
	return mapResult(res, balance)
}
