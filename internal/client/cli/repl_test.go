package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExec struct {
	loggedIn bool

	calls    []string
	reported []error
	fail     map[string]error
}

func (f *fakeExec) record(call string) error {
	f.calls = append(f.calls, call)
	return f.fail[strings.Fields(call)[0]]
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) report(_ context.Context, err error) {
	if err != nil {
		f.reported = append(f.reported, err)
	}
}

func (f *fakeExec) Register(context.Context) error { return f.record("register") }
func (f *fakeExec) Login(context.Context) error {
	f.loggedIn = true
	return f.record("login")
}
func (f *fakeExec) Logout(_ context.Context, forget bool) error {
	f.loggedIn = false
	return f.record(fmt.Sprintf("logout %v", forget))
}
func (f *fakeExec) WhoAmI(context.Context) error         { return f.record("whoami") }
func (f *fakeExec) Renew(context.Context) error          { return f.record("renew") }
func (f *fakeExec) Profile(context.Context) error        { return f.record("profile") }
func (f *fakeExec) ChangePassword(context.Context) error { return f.record("password") }
func (f *fakeExec) ForgotPassword(context.Context) error { return f.record("forgot") }
func (f *fakeExec) ResetPassword(context.Context) error  { return f.record("reset") }
func (f *fakeExec) Agents(context.Context) error         { return f.record("agents") }
func (f *fakeExec) ShowAgent(_ context.Context, id int64) error {
	return f.record(fmt.Sprintf("agent %d", id))
}
func (f *fakeExec) Buy(_ context.Context, id int64) error { return f.record(fmt.Sprintf("buy %d", id)) }
func (f *fakeExec) Invoke(_ context.Context, id int64) error {
	return f.record(fmt.Sprintf("invoke %d", id))
}
func (f *fakeExec) History(context.Context) error   { return f.record("history") }
func (f *fakeExec) Dashboard(context.Context) error { return f.record("dashboard") }
func (f *fakeExec) BuyTokens(_ context.Context, amount int64) error {
	return f.record(fmt.Sprintf("tokens %d", amount))
}
func (f *fakeExec) Balance(context.Context) error     { return f.record("balance") }
func (f *fakeExec) CreateAgent(context.Context) error { return f.record("create") }
func (f *fakeExec) UpdateAgent(_ context.Context, id int64) error {
	return f.record(fmt.Sprintf("update %d", id))
}
func (f *fakeExec) DeleteAgent(_ context.Context, id int64) error {
	return f.record(fmt.Sprintf("delete %d", id))
}
func (f *fakeExec) Analytics(_ context.Context, id int64) error {
	return f.record(fmt.Sprintf("analytics %d", id))
}

// captureOutput replaces the print seams and returns everything printed.
func captureOutput(t *testing.T) *strings.Builder {
	t.Helper()
	var b strings.Builder
	origLn, origPrint := printlnFn, printFn
	printlnFn = func(a ...any) (int, error) { return fmt.Fprintln(&b, a...) }
	printFn = func(a ...any) (int, error) { return fmt.Fprint(&b, a...) }
	t.Cleanup(func() {
		printlnFn = origLn
		printFn = origPrint
	})
	return &b
}

func TestRunREPL_DispatchesCommands(t *testing.T) {
	captureOutput(t)

	input := strings.Join([]string{
		"login",
		"agents",
		"ls",
		"agent 3",
		"buy 3",
		"invoke 3",
		"history",
		"dashboard",
		"tokens 50",
		"balance",
		"whoami",
		"renew",
		"profile",
		"password",
		"create",
		"update 4",
		"delete 4",
		"analytics 4",
		"logout --forget",
		"forgot",
		"reset",
		"register",
		"exit",
		"agents",
	}, "\n")

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "status" }, rdr(input))

	assert.Equal(t, []string{
		"login", "agents", "agents", "agent 3", "buy 3", "invoke 3", "history", "dashboard",
		"tokens 50", "balance", "whoami", "renew", "profile", "password", "create", "update 4",
		"delete 4", "analytics 4", "logout true", "forgot", "reset", "register",
	}, exec.calls)
	assert.Empty(t, exec.reported)
}

func TestRunREPL_UsageOnBadArguments(t *testing.T) {
	out := captureOutput(t)

	exec := &fakeExec{loggedIn: true}
	runREPL(context.Background(), exec, func() string { return "s" },
		rdr("agent\nbuy x\ninvoke -1\ntokens 0\ntokens\nfoobar\nlogout\nquit\n"))

	assert.Equal(t, []string{"logout false"}, exec.calls)
	text := out.String()
	assert.Contains(t, text, "Usage: agent <id>")
	assert.Contains(t, text, "Usage: buy <id>")
	assert.Contains(t, text, "Usage: invoke <id>")
	assert.Contains(t, text, "Usage: tokens <amount>")
	assert.Contains(t, text, "Unknown command: foobar")
	assert.Contains(t, text, "Bye!")
}

func TestRunREPL_ReportsErrors(t *testing.T) {
	captureOutput(t)

	boom := errors.New("boom")
	exec := &fakeExec{fail: map[string]error{"agents": boom}}
	runREPL(context.Background(), exec, func() string { return "s" }, rdr("agents\nhistory"))

	require.Len(t, exec.reported, 1)
	assert.ErrorIs(t, exec.reported[0], boom)
	assert.Equal(t, []string{"agents", "history"}, exec.calls)
}

func TestRunREPL_HelpDependsOnSession(t *testing.T) {
	out := captureOutput(t)

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "anonymous" }, rdr("help\nlogin\nhelp\n"))

	text := out.String()
	assert.Contains(t, text, "agentmarket (anonymous)> ")
	assert.Contains(t, text, helpAnonymous)
	assert.Contains(t, text, helpLoggedIn)
	assert.Empty(t, exec.reported)
}
