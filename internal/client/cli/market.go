package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/agentmarket/internal/client/invocation"
	"github.com/dmitrijs2005/agentmarket/internal/client/models"
	"github.com/dmitrijs2005/agentmarket/internal/client/services"
)

var errNotOwned = errors.New("purchase the agent before invoking it")

func (a *App) Agents(ctx context.Context) error {
	return a.protect(ctx, "agents", func(ctx context.Context) error {
		agents, err := a.market.Agents(ctx)
		if err != nil {
			return err
		}
		fmt.Fprint(a.out, a.render.Agents(agents, a.session.Snapshot().User))
		return nil
	})
}

func (a *App) ShowAgent(ctx context.Context, id int64) error {
	return a.protect(ctx, "agent", func(ctx context.Context) error {
		agent, err := a.market.Agent(ctx, id)
		if err != nil {
			return err
		}
		fmt.Fprint(a.out, a.render.Agent(*agent, a.session.Snapshot().User))
		return nil
	})
}

// Buy purchases an agent after confirmation.
func (a *App) Buy(ctx context.Context, id int64) error {
	return a.protect(ctx, "buy", func(ctx context.Context) error {
		agent, err := a.market.Agent(ctx, id)
		if err != nil {
			return err
		}
		if agent.IsPurchased || a.session.Snapshot().User.HasPurchased(agent.ID) {
			fmt.Fprintf(a.out, "You already own %s.\n", agent.Name)
			return nil
		}

		ok, err := getConfirm(a.reader, fmt.Sprintf("Buy %s for %d tokens?", agent.Name, agent.Price), a.out)
		if err != nil || !ok {
			return err
		}

		p, err := a.market.Purchase(ctx, agent)
		if err != nil {
			return err
		}
		fmt.Fprintln(a.out, a.render.Success(fmt.Sprintf("Purchased %s. Remaining balance: %d tokens.", agent.Name, p.RemainingBalance)))
		return nil
	})
}

// Invoke prompts for the form fields of the agent's type and shows the
// result. Nothing is sent for an agent type the client cannot shape a
// request for.
func (a *App) Invoke(ctx context.Context, id int64) error {
	return a.protect(ctx, "invoke", func(ctx context.Context) error {
		agent, err := a.market.Agent(ctx, id)
		if err != nil {
			return err
		}
		if !agent.IsPurchased && !a.session.Snapshot().User.HasPurchased(agent.ID) {
			return fmt.Errorf("%s: %w", agent.Name, errNotOwned)
		}

		fields, err := invocation.Fields(agent.Name)
		if errors.Is(err, invocation.ErrUnsupportedAgentType) && agent.Type != "" {
			fields, err = invocation.Fields(agent.Type)
		}
		if err != nil {
			return err
		}

		in, err := a.fill(fields)
		if err != nil {
			return err
		}

		inv, err := a.market.Invoke(ctx, *agent, in)
		if err != nil {
			return err
		}
		if inv.InputData == "" {
			inv.InputData = primary(fields, in)
		}
		fmt.Fprint(a.out, a.render.Invocation(*inv, in["language"]))
		return nil
	})
}

// fill prompts for each field in order. Required fields are asked again
// until answered.
func (a *App) fill(fields []invocation.Field) (invocation.Input, error) {
	in := invocation.Input{}
	for _, f := range fields {
		label := f.Label
		if !f.Required {
			label += " (optional)"
		}
		for {
			var (
				v   string
				err error
			)
			if f.Multiline {
				v, err = getMultiline(a.reader, label, a.out)
			} else {
				v, err = a.ask(label)
			}
			if err != nil {
				return nil, err
			}
			if v != "" || !f.Required {
				in[f.Name] = v
				break
			}
			fmt.Fprintln(a.out, a.render.Error(f.Label+" is required"))
		}
	}
	for _, f := range fields {
		if f.Code && in[f.Name] != "" {
			fmt.Fprintln(a.out, a.render.Code(in[f.Name], in["language"]))
		}
	}
	return in, nil
}

// primary returns the value of the first required field.
func primary(fields []invocation.Field, in invocation.Input) string {
	for _, f := range fields {
		if f.Required {
			return in[f.Name]
		}
	}
	return ""
}

func (a *App) History(ctx context.Context) error {
	return a.protect(ctx, "history", func(ctx context.Context) error {
		invs, err := a.market.History(ctx)
		if err != nil {
			return err
		}
		fmt.Fprint(a.out, a.render.History(invs))
		return nil
	})
}

// Dashboard shows owned agents and recent invocations. A failure of one half
// is reported without hiding the other.
func (a *App) Dashboard(ctx context.Context) error {
	return a.protect(ctx, "dashboard", func(ctx context.Context) error {
		d, err := a.market.Dashboard(ctx)
		if err != nil {
			return err
		}

		fmt.Fprintln(a.out, a.render.Title("Your agents"))
		if d.AgentsErr != nil {
			fmt.Fprintln(a.out, a.render.Error(d.AgentsErr.Error()))
		} else {
			fmt.Fprint(a.out, a.render.Agents(d.Owned(), a.session.Snapshot().User))
		}

		fmt.Fprintln(a.out, a.render.Title("Recent invocations"))
		if d.HistoryErr != nil {
			fmt.Fprintln(a.out, a.render.Error(d.HistoryErr.Error()))
		} else {
			fmt.Fprint(a.out, a.render.History(d.History))
		}
		return nil
	})
}

func (a *App) BuyTokens(ctx context.Context, amount int64) error {
	return a.protect(ctx, "tokens", func(ctx context.Context) error {
		p, err := a.market.BuyTokens(ctx, models.Tokens(amount))
		if err != nil {
			return err
		}
		fmt.Fprintln(a.out, a.render.Success(fmt.Sprintf("Added %d tokens. Balance: %d tokens.", p.AmountAdded, p.NewBalance)))
		return nil
	})
}

func (a *App) Balance(ctx context.Context) error {
	return a.protect(ctx, "balance", func(ctx context.Context) error {
		n, err := a.market.Balance(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Balance: %d tokens\n", n)
		return nil
	})
}

// CreateAgent publishes a new agent. Developer accounts only.
func (a *App) CreateAgent(ctx context.Context) error {
	return a.protect(ctx, "create", func(ctx context.Context) error {
		var (
			d   models.AgentDraft
			err error
		)
		if d.Name, err = a.ask("Name"); err != nil {
			return err
		}
		if d.Description, err = getMultiline(a.reader, "Description (Markdown)", a.out); err != nil {
			return err
		}
		if d.Type, err = a.ask("Type (optional)"); err != nil {
			return err
		}
		price, err := a.ask("Price in tokens")
		if err != nil {
			return err
		}
		if d.Price, err = parseTokens(price); err != nil {
			return err
		}

		agent, err := a.market.CreateAgent(ctx, d)
		if err != nil {
			return err
		}
		fmt.Fprintln(a.out, a.render.Success("Agent created."))
		fmt.Fprint(a.out, a.render.Agent(*agent, nil))
		return nil
	})
}

// UpdateAgent edits an agent. Blank answers keep the current value.
func (a *App) UpdateAgent(ctx context.Context, id int64) error {
	return a.protect(ctx, "update", func(ctx context.Context) error {
		current, err := a.market.Agent(ctx, id)
		if err != nil {
			return err
		}

		var patch models.AgentUpdate
		if v, err := a.ask(fmt.Sprintf("Name [%s]", current.Name)); err != nil {
			return err
		} else if v != "" && v != current.Name {
			patch.Name = &v
		}
		if v, err := getMultiline(a.reader, "Description (blank keeps the current one)", a.out); err != nil {
			return err
		} else if v != "" && v != current.Description {
			patch.Description = &v
		}
		if v, err := a.ask(fmt.Sprintf("Price [%d]", current.Price)); err != nil {
			return err
		} else if v != "" {
			price, err := parseTokens(v)
			if err != nil {
				return err
			}
			if price != current.Price {
				patch.Price = &price
			}
		}
		if v, err := a.ask(fmt.Sprintf("Active [%s]", yesNo(current.IsActive))); err != nil {
			return err
		} else if v != "" {
			active := v == "y" || v == "yes"
			if active != current.IsActive {
				patch.IsActive = &active
			}
		}

		if patch == (models.AgentUpdate{}) {
			fmt.Fprintln(a.out, "Nothing to change.")
			return nil
		}
		agent, err := a.market.UpdateAgent(ctx, id, patch)
		if err != nil {
			return err
		}
		fmt.Fprintln(a.out, a.render.Success("Agent updated."))
		fmt.Fprint(a.out, a.render.Agent(*agent, nil))
		return nil
	})
}

func (a *App) DeleteAgent(ctx context.Context, id int64) error {
	return a.protect(ctx, "delete", func(ctx context.Context) error {
		ok, err := getConfirm(a.reader, fmt.Sprintf("Delete agent %d?", id), a.out)
		if err != nil || !ok {
			return err
		}
		if err := a.market.DeleteAgent(ctx, id); err != nil {
			return err
		}
		fmt.Fprintln(a.out, a.render.Success("Agent deleted."))
		return nil
	})
}

func (a *App) Analytics(ctx context.Context, id int64) error {
	return a.protect(ctx, "analytics", func(ctx context.Context) error {
		stats, err := a.market.Analytics(ctx, id)
		if err != nil {
			return err
		}
		fmt.Fprint(a.out, a.render.Analytics(*stats))
		return nil
	})
}

func parseTokens(s string) (models.Tokens, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n < 0 {
		return 0, &services.ValidationError{Field: "price", Message: "Price must be a whole, non-negative number of tokens"}
	}
	return models.Tokens(n), nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
