package models

import (
	"github.com/dmitrijs2005/agentmarket/internal/timex"
)

// Agent is a catalog entry. IsPurchased is relative to the current user.
type Agent struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Type        string     `json:"type,omitempty"`
	Price       Tokens     `json:"price"`
	DeveloperID int64      `json:"developer_id"`
	IsActive    bool       `json:"is_active"`
	IsPurchased bool       `json:"is_purchased"`
	CreatedAt   timex.Time `json:"created_at"`
	UpdatedAt   timex.Time `json:"updated_at"`
}

// AgentDraft is the payload of POST /agents/create.
type AgentDraft struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Type        string `json:"type,omitempty"`
	Price       Tokens `json:"price"`
}

// AgentUpdate is a partial agent patch for PUT /agents/{id}.
type AgentUpdate struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Type        *string `json:"type,omitempty"`
	Price       *Tokens `json:"price,omitempty"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

// PurchaseRequest is the payload of POST /agents/purchase.
type PurchaseRequest struct {
	AgentID       int64  `json:"agent_id"`
	PurchasePrice Tokens `json:"purchase_price"`
}

// Purchase links a user to an agent and carries the server-confirmed
// remaining balance.
type Purchase struct {
	AgentID          int64  `json:"agent_id"`
	PurchaseID       int64  `json:"purchase_id"`
	PurchasePrice    Tokens `json:"purchase_price"`
	RemainingBalance Tokens `json:"remaining_balance"`
}

// TimeSeriesPoint is one sample of agent usage metrics.
type TimeSeriesPoint struct {
	Timestamp           timex.Time `json:"timestamp"`
	Invocations         int64      `json:"invocations"`
	SuccessRate         float64    `json:"success_rate"`
	AverageResponseTime float64    `json:"average_response_time"`
}

// Analytics is the response of GET /agents/{id}/analytics.
type Analytics struct {
	ID         int64             `json:"id"`
	Name       string            `json:"name"`
	TimeSeries []TimeSeriesPoint `json:"time_series"`
}
