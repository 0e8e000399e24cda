package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/x/ansi"
	"github.com/dmitrijs2005/agentmarket/internal/client/content"
	"github.com/dmitrijs2005/agentmarket/internal/client/models"
	"github.com/muesli/termenv"
)

const (
	defaultWidth   = 80
	previewColumns = 60
	timeLayout     = "2006-01-02 15:04"
)

type Options struct {
	// Color enables ANSI styling and syntax highlighting.
	Color bool
	// Width is the wrap width for Markdown. Defaults to 80.
	Width int
}

// Renderer turns models into printable strings. It never writes itself.
type Renderer struct {
	color bool
	theme Theme
	md    *glamour.TermRenderer
}

// New builds a Renderer styled for w.
func New(w io.Writer, opts Options) *Renderer {
	width := opts.Width
	if width <= 0 {
		width = defaultWidth
	}

	lr := lipgloss.NewRenderer(w)
	style := glamour.WithStylePath("notty")
	if opts.Color {
		style = glamour.WithStylePath("dark")
	} else {
		lr.SetColorProfile(termenv.Ascii)
	}

	md, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(width))
	if err != nil {
		md = nil
	}

	return &Renderer{color: opts.Color, theme: defaultTheme(lr), md: md}
}

// Markdown renders s as Markdown, or returns it unchanged if rendering fails.
func (r *Renderer) Markdown(s string) string {
	if r.md == nil {
		return s
	}
	out, err := r.md.Render(s)
	if err != nil {
		return s
	}
	return strings.TrimRight(out, "\n") + "\n"
}

// Code highlights code in language. Without color, or for an unknown
// language, the code comes back as is.
func (r *Renderer) Code(code, language string) string {
	if !r.color || language == "" {
		return code
	}
	var b strings.Builder
	if err := quick.Highlight(&b, code, language, "terminal256", r.theme.CodeName); err != nil {
		return code
	}
	return b.String()
}

func (r *Renderer) Error(msg string) string {
	return r.theme.Error.Render("error: ") + msg
}

func (r *Renderer) Success(msg string) string {
	return r.theme.Success.Render(msg)
}

func (r *Renderer) Title(s string) string {
	return r.theme.Title.Render(s)
}

func (r *Renderer) newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(r.theme.Border).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return r.theme.Header
			}
			return r.theme.Cell
		})
}

// Agents lists the catalog. Agents owned by user are flagged.
func (r *Renderer) Agents(agents []models.Agent, user *models.User) string {
	if len(agents) == 0 {
		return r.theme.Faint.Render("No agents available.") + "\n"
	}
	t := r.newTable("ID", "Name", "Price", "Status")
	for _, a := range agents {
		status := ""
		switch {
		case a.IsPurchased || user.HasPurchased(a.ID):
			status = r.theme.Owned.Render("owned")
		case !a.IsActive:
			status = r.theme.Faint.Render("inactive")
		}
		t.Row(strconv.FormatInt(a.ID, 10), a.Name, r.theme.Price.Render(tokens(a.Price)), status)
	}
	return t.String() + "\n"
}

// Agent shows one catalog entry in full.
func (r *Renderer) Agent(a models.Agent, user *models.User) string {
	var b strings.Builder
	b.WriteString(r.Title(a.Name) + "\n")
	r.field(&b, "ID", strconv.FormatInt(a.ID, 10))
	if a.Type != "" {
		r.field(&b, "Type", a.Type)
	}
	r.field(&b, "Price", tokens(a.Price))
	owned := a.IsPurchased || user.HasPurchased(a.ID)
	r.field(&b, "Owned", yesNo(owned))
	if !a.CreatedAt.IsZero() {
		r.field(&b, "Created", a.CreatedAt.Local().Format(timeLayout))
	}
	if a.Description != "" {
		b.WriteString("\n" + r.Markdown(a.Description))
	}
	return b.String()
}

// User shows the profile of the logged-in account.
// User shows a profile. since and expires describe the session and are
// skipped when zero.
func (r *Renderer) User(u *models.User, since, expires time.Time) string {
	if u == nil {
		return r.theme.Faint.Render("Not logged in.") + "\n"
	}
	var b strings.Builder
	b.WriteString(r.Title(u.Username) + "\n")
	r.field(&b, "Email", u.Email)
	if name := strings.TrimSpace(u.FirstName + " " + u.LastName); name != "" {
		r.field(&b, "Name", name)
	}
	r.field(&b, "Developer", yesNo(u.IsDeveloper))
	r.field(&b, "Balance", tokens(u.TokenBalance))
	r.field(&b, "Agents owned", strconv.Itoa(len(u.AgentPurchases)))
	if !since.IsZero() {
		r.field(&b, "Signed in", since.Local().Format(timeLayout))
	}
	if !expires.IsZero() {
		r.field(&b, "Session until", expires.Local().Format(timeLayout))
	}
	return b.String()
}

// Invocation shows a single invocation. Output is rendered as Markdown and
// a code input is highlighted in language.
func (r *Renderer) Invocation(inv models.Invocation, language string) string {
	var b strings.Builder
	title := inv.AgentName
	if title == "" {
		title = fmt.Sprintf("Agent %d", inv.AgentID)
	}
	b.WriteString(r.Title(title) + "\n")
	if !inv.CreatedAt.IsZero() {
		r.field(&b, "When", inv.CreatedAt.Local().Format(timeLayout))
	}
	r.field(&b, "Tokens used", strconv.FormatInt(inv.TokensUsed, 10))

	if in := content.Parse(inv.InputData); in != "" {
		b.WriteString("\n" + r.theme.Label.Render("Input") + "\n")
		b.WriteString(strings.TrimRight(r.Code(in, language), "\n") + "\n")
	}
	b.WriteString("\n" + r.theme.Label.Render("Output") + "\n")
	if out := content.Parse(inv.OutputData); out != "" {
		b.WriteString(r.Markdown(out))
	} else {
		b.WriteString(r.theme.Faint.Render("(no output)") + "\n")
	}
	return b.String()
}

// History lists invocations, newest as given, with shortened previews.
func (r *Renderer) History(invs []models.Invocation) string {
	if len(invs) == 0 {
		return r.theme.Faint.Render("No invocations yet.") + "\n"
	}
	t := r.newTable("ID", "Agent", "When", "Tokens", "Input")
	for _, inv := range invs {
		when := ""
		if !inv.CreatedAt.IsZero() {
			when = inv.CreatedAt.Local().Format(timeLayout)
		}
		t.Row(
			strconv.FormatInt(inv.ID, 10),
			inv.AgentName,
			when,
			strconv.FormatInt(inv.TokensUsed, 10),
			Preview(content.Parse(inv.InputData), previewColumns),
		)
	}
	return t.String() + "\n"
}

// Analytics tabulates the time series of an agent.
func (r *Renderer) Analytics(a models.Analytics) string {
	var b strings.Builder
	b.WriteString(r.Title(a.Name) + "\n")
	if len(a.TimeSeries) == 0 {
		b.WriteString(r.theme.Faint.Render("No usage recorded.") + "\n")
		return b.String()
	}
	t := r.newTable("Time", "Invocations", "Success", "Avg response")
	var total int64
	for _, p := range a.TimeSeries {
		total += p.Invocations
		t.Row(
			p.Timestamp.Local().Format(timeLayout),
			strconv.FormatInt(p.Invocations, 10),
			fmt.Sprintf("%.1f%%", successPercent(p.SuccessRate)),
			fmt.Sprintf("%.2fs", p.AverageResponseTime),
		)
	}
	b.WriteString(t.String() + "\n")
	r.field(&b, "Total invocations", strconv.FormatInt(total, 10))
	return b.String()
}

func (r *Renderer) field(b *strings.Builder, label, value string) {
	b.WriteString(r.theme.Label.Render(label+":") + " " + value + "\n")
}

// Preview collapses s onto one line and cuts it to width columns.
func Preview(s string, width int) string {
	s = strings.Join(strings.Fields(s), " ")
	return ansi.Truncate(s, width, "…")
}

// successPercent accepts rates given either as a fraction or a percentage.
func successPercent(rate float64) float64 {
	if rate <= 1 {
		return rate * 100
	}
	return rate
}

func tokens(n models.Tokens) string {
	if n == 1 {
		return "1 token"
	}
	return strconv.FormatInt(int64(n), 10) + " tokens"
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
