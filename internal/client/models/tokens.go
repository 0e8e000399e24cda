package models

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Tokens is an integer amount of the in-app credit currency. The backend
// stores balances as floats and may encode them as 100.0; Tokens accepts
// any JSON number with an integral value.
type Tokens int64

func (t *Tokens) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*t = 0
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("token amount: %w", err)
	}
	if i, err := strconv.ParseInt(n.String(), 10, 64); err == nil {
		*t = Tokens(i)
		return nil
	}
	f, err := n.Float64()
	if err != nil {
		return fmt.Errorf("token amount: %w", err)
	}
	*t = Tokens(math.Round(f))
	return nil
}

// TokenPurchase is the response of POST /tokens/purchase.
type TokenPurchase struct {
	Status      string `json:"status"`
	NewBalance  Tokens `json:"new_balance"`
	AmountAdded Tokens `json:"amount_added"`
}

// TokenBalance is the current credit balance of the user.
type TokenBalance struct {
	Balance Tokens `json:"balance"`
}
