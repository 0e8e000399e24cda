package cli

import (
	"bufio"
	"context"
	"fmt"
	"strconv"
	"strings"
)

// printlnFn and printFn are test seams for user-facing output.
var (
	printlnFn = fmt.Println
	printFn   = fmt.Print
)

// execIface defines the command surface the REPL dispatches to.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	report(ctx context.Context, err error)

	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context, forget bool) error
	WhoAmI(ctx context.Context) error
	Renew(ctx context.Context) error
	Profile(ctx context.Context) error
	ChangePassword(ctx context.Context) error
	ForgotPassword(ctx context.Context) error
	ResetPassword(ctx context.Context) error

	Agents(ctx context.Context) error
	ShowAgent(ctx context.Context, id int64) error
	Buy(ctx context.Context, id int64) error
	Invoke(ctx context.Context, id int64) error
	History(ctx context.Context) error
	Dashboard(ctx context.Context) error
	BuyTokens(ctx context.Context, amount int64) error
	Balance(ctx context.Context) error

	CreateAgent(ctx context.Context) error
	UpdateAgent(ctx context.Context, id int64) error
	DeleteAgent(ctx context.Context, id int64) error
	Analytics(ctx context.Context, id int64) error
}

const (
	helpAnonymous = `Available commands:
  register              create an account
  login                 log in
  forgot                request a password reset link
  reset                 set a new password with a reset token
  exit | quit           leave
Marketplace commands ask you to log in first.`

	helpLoggedIn = `Available commands:
  agents                list the marketplace
  agent <id>            show an agent
  buy <id>              purchase an agent
  invoke <id>           run an agent you own
  history               list your invocations
  dashboard             your agents and recent invocations
  tokens <amount>       buy tokens
  balance               show your token balance
  whoami                show your profile
  profile               edit your profile
  password              change your password
  renew                 extend your session with a fresh token
  logout [--forget]     log out; --forget also drops the remembered username
Developer commands:
  create                publish an agent
  update <id>           edit an agent
  delete <id>           remove an agent
  analytics <id>        usage of an agent
  exit | quit           leave`
)

// runREPL starts the read–eval–print loop of the marketplace CLI.
//
// It reads a line from reader, parses the first token as the
// command, and dispatches to methods on 'a'. Commands taking an id or an
// amount validate it here and print their usage line on a bad argument.
// Errors returned by handlers are passed to a.report. The loop exits on
// EOF or when the user types "exit" or "quit".
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printFn(fmt.Sprintf("agentmarket (%s)> ", statusFn()))
		line, readErr := reader.ReadString('\n')
		if readErr != nil && line == "" {
			printlnFn()
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var err error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpLoggedIn)
			} else {
				printlnFn(helpAnonymous)
			}

		case "register":
			err = a.Register(ctx)
		case "login":
			err = a.Login(ctx)
		case "logout":
			err = a.Logout(ctx, len(args) > 0 && args[0] == "--forget")
		case "whoami":
			err = a.WhoAmI(ctx)
		case "renew":
			err = a.Renew(ctx)
		case "profile":
			err = a.Profile(ctx)
		case "password":
			err = a.ChangePassword(ctx)
		case "forgot":
			err = a.ForgotPassword(ctx)
		case "reset":
			err = a.ResetPassword(ctx)

		case "agents", "ls":
			err = a.Agents(ctx)
		case "history":
			err = a.History(ctx)
		case "dashboard":
			err = a.Dashboard(ctx)
		case "balance":
			err = a.Balance(ctx)
		case "create":
			err = a.CreateAgent(ctx)

		case "agent", "buy", "invoke", "update", "delete", "analytics":
			id, ok := positiveArg(args)
			if !ok {
				printlnFn(fmt.Sprintf("Usage: %s <id>", cmd))
				continue
			}
			err = withID(ctx, a, cmd, id)

		case "tokens":
			amount, ok := positiveArg(args)
			if !ok {
				printlnFn("Usage: tokens <amount>")
				continue
			}
			err = a.BuyTokens(ctx, amount)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		a.report(ctx, err)
	}
}

func withID(ctx context.Context, a execIface, cmd string, id int64) error {
	switch cmd {
	case "agent":
		return a.ShowAgent(ctx, id)
	case "buy":
		return a.Buy(ctx, id)
	case "invoke":
		return a.Invoke(ctx, id)
	case "update":
		return a.UpdateAgent(ctx, id)
	case "delete":
		return a.DeleteAgent(ctx, id)
	default:
		return a.Analytics(ctx, id)
	}
}

// positiveArg parses the first argument as a positive integer.
func positiveArg(args []string) (int64, bool) {
	if len(args) == 0 {
		return 0, false
	}
	n, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}
