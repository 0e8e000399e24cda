package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokens_AcceptsIntegralFloats(t *testing.T) {
	var u User
	require.NoError(t, json.Unmarshal([]byte(`{"id":1,"username":"bob","token_balance":100.0}`), &u))
	assert.Equal(t, Tokens(100), u.TokenBalance)

	var p Purchase
	require.NoError(t, json.Unmarshal([]byte(`{"agent_id":3,"purchase_id":9,"purchase_price":25,"remaining_balance":75}`), &p))
	assert.Equal(t, Tokens(75), p.RemainingBalance)
	assert.Equal(t, Tokens(25), p.PurchasePrice)
}

func TestTokens_RejectsGarbage(t *testing.T) {
	var tk Tokens
	require.Error(t, json.Unmarshal([]byte(`"lots"`), &tk))
	require.NoError(t, json.Unmarshal([]byte(`null`), &tk))
	assert.Equal(t, Tokens(0), tk)
}

func TestInvocation_NormalizesFieldNames(t *testing.T) {
	tests := []struct {
		name       string
		in         string
		wantInput  string
		wantOutput string
	}{
		{
			name:       "history shape",
			in:         `{"id":1,"agent_id":2,"agent_name":"Code Reviewer","input_data":"{'code': 'x'}","output_data":"looks fine","tokens_used":12,"created_at":"2024-01-02T03:04:05"}`,
			wantInput:  "{'code': 'x'}",
			wantOutput: "looks fine",
		},
		{
			name:       "invoke response shape",
			in:         `{"output_text":"review text","tokens_used":7.0}`,
			wantOutput: "review text",
		},
		{
			name:       "object payload kept as json",
			in:         `{"input_data":{"code_review":{"code":"x"}},"output_data":null}`,
			wantInput:  `{"code_review":{"code":"x"}}`,
			wantOutput: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var inv Invocation
			require.NoError(t, json.Unmarshal([]byte(tt.in), &inv))
			assert.Equal(t, tt.wantInput, inv.InputData)
			assert.Equal(t, tt.wantOutput, inv.OutputData)
		})
	}
}

func TestInvocation_Fields(t *testing.T) {
	var inv Invocation
	require.NoError(t, json.Unmarshal([]byte(`{"id":5,"purchase_id":4,"agent_id":3,"agent_name":"Writing Assistant","input_data":"a","output_data":"b","tokens_used":42,"created_at":"2024-05-06T07:08:09Z"}`), &inv))
	assert.Equal(t, int64(5), inv.ID)
	assert.Equal(t, int64(4), inv.PurchaseID)
	assert.Equal(t, int64(3), inv.AgentID)
	assert.Equal(t, "Writing Assistant", inv.AgentName)
	assert.Equal(t, int64(42), inv.TokensUsed)
	assert.True(t, inv.CreatedAt.Equal(time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)))
}

func TestWrap_PopulatesOnlyMatchingPayload(t *testing.T) {
	req := Wrap(CodeReview{Code: "print(1)", Language: "python"})
	require.Equal(t, AgentTypeCodeReviewer, req.AgentType)

	b, err := json.Marshal(req)
	require.NoError(t, err)

	var m map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(b, &m))
	assert.Len(t, m, 2)
	assert.Contains(t, m, "agent_type")
	assert.Contains(t, m, "code_review")

	p, ok := req.Unwrap().(CodeReview)
	require.True(t, ok)
	assert.Equal(t, "print(1)", p.Code)
}

func TestUnwrap_Empty(t *testing.T) {
	assert.Nil(t, InvocationRequest{}.Unwrap())
}

func TestUser_CloneAndPurchases(t *testing.T) {
	u := &User{ID: 1, AgentPurchases: []int64{4, 7}}
	c := u.Clone()
	c.AgentPurchases[0] = 99
	assert.Equal(t, int64(4), u.AgentPurchases[0])
	assert.True(t, u.HasPurchased(7))
	assert.False(t, u.HasPurchased(8))

	var nilUser *User
	assert.Nil(t, nilUser.Clone())
	assert.False(t, nilUser.HasPurchased(1))
}

func TestUserUpdate_Empty(t *testing.T) {
	assert.True(t, UserUpdate{}.Empty())
	email := "a@b.c"
	upd := UserUpdate{Email: &email}
	assert.False(t, upd.Empty())

	b, err := json.Marshal(upd)
	require.NoError(t, err)
	assert.JSONEq(t, `{"email":"a@b.c"}`, string(b))
}
