package models

import (
	"encoding/json"

	"github.com/dmitrijs2005/agentmarket/internal/timex"
)

// Invocation is one immutable request/response record of an agent run.
type Invocation struct {
	ID         int64      `json:"id"`
	PurchaseID int64      `json:"purchase_id,omitempty"`
	AgentID    int64      `json:"agent_id"`
	AgentName  string     `json:"agent_name,omitempty"`
	InputData  string     `json:"input_data"`
	OutputData string     `json:"output_data,omitempty"`
	TokensUsed int64      `json:"tokens_used"`
	CreatedAt  timex.Time `json:"created_at"`
}

// invocationWire mirrors every spelling the backend has used for the
// invocation record.
type invocationWire struct {
	ID         int64           `json:"id"`
	PurchaseID int64           `json:"purchase_id"`
	AgentID    int64           `json:"agent_id"`
	AgentName  string          `json:"agent_name"`
	InputData  json.RawMessage `json:"input_data"`
	InputText  json.RawMessage `json:"input_text"`
	OutputData json.RawMessage `json:"output_data"`
	OutputText json.RawMessage `json:"output_text"`
	TokensUsed json.Number     `json:"tokens_used"`
	CreatedAt  timex.Time      `json:"created_at"`
}

// UnmarshalJSON accepts both output_data/input_data and the older
// output_text/input_text names. Payloads that are not JSON strings are kept
// as their raw JSON text so the content parser can still decode them.
func (inv *Invocation) UnmarshalJSON(b []byte) error {
	var w invocationWire
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	var tokens Tokens
	if w.TokensUsed != "" {
		if err := tokens.UnmarshalJSON([]byte(w.TokensUsed.String())); err != nil {
			return err
		}
	}
	*inv = Invocation{
		ID:         w.ID,
		PurchaseID: w.PurchaseID,
		AgentID:    w.AgentID,
		AgentName:  w.AgentName,
		InputData:  firstText(w.InputData, w.InputText),
		OutputData: firstText(w.OutputData, w.OutputText),
		TokensUsed: int64(tokens),
		CreatedAt:  w.CreatedAt,
	}
	return nil
}

func firstText(candidates ...json.RawMessage) string {
	for _, raw := range candidates {
		if len(raw) == 0 || string(raw) == "null" {
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return s
		}
		return string(raw)
	}
	return ""
}
