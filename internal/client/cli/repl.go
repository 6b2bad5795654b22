package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/riskcheck/console/internal/routes"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	canOpen(cmd string) bool

	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Google(ctx context.Context) error
	ForgotPassword(ctx context.Context) error
	ResetPassword(ctx context.Context) error
	Logout(ctx context.Context) error

	WhoAmI(ctx context.Context) error
	Menu(ctx context.Context) error
	Dashboard(ctx context.Context, args []string) error
	Analytics(ctx context.Context, args []string) error
	Keys(ctx context.Context) error
	NewKey(ctx context.Context) error
	RevokeKey(ctx context.Context, args []string) error
	Lists(ctx context.Context, args []string) error
	AddListEntry(ctx context.Context) error
	Plans(ctx context.Context) error
	Checkout(ctx context.Context, args []string) error
	Profile(ctx context.Context) error
	DeleteAccount(ctx context.Context) error
}

// commandPaths maps each command to the console page it stands for, so the
// same public/protected rules gate the REPL.
var commandPaths = map[string]string{
	"register": "/register",
	"login":    "/login",
	"google":   "/auth/callback",
	"forgot":   "/reset-password",
	"reset":    "/reset-password",

	"whoami":        "/settings",
	"menu":          "/dashboard",
	"dashboard":     "/dashboard",
	"analytics":     "/analytics",
	"keys":          "/api-key",
	"newkey":        "/api-key",
	"revoke":        "/api-key",
	"lists":         "/custom-list",
	"addentry":      "/custom-list",
	"plans":         "/subscription",
	"checkout":      "/subscription",
	"profile":       "/settings",
	"deleteaccount": "/settings",
	"logout":        "/settings",
}

// gateCommands names the menu entry that has to be visible for a command.
var gateCommands = map[string]string{
	"analytics": "analytics",
	"lists":     "lists",
	"addentry":  "lists",
}

const (
	helpSignedOut = "Available commands: register, login, google, forgot, reset, exit"
	helpSignedIn  = "Available commands: menu, whoami, (d)ashboard [page], analytics [7d|30d|90d] [day|week|month], " +
		"keys, newkey, revoke <id>, lists [allowlist|blocklist] [page], addentry, plans, checkout <plan>, " +
		"profile, deleteaccount, logout, exit"
)

// runREPL starts a simple read–eval–print loop for the RiskCheck CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Every command is tied to a console page. Protected pages need a session;
// public ones (login, register, ...) are refused once signed in. Plan-gated
// pages (analytics, custom lists) also need the matching plan feature.
//
// Any errors returned by command handlers are ignored here; handlers report
// their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("rc> %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]
		if cmd == "d" {
			cmd = "dashboard"
		}

		if path, ok := commandPaths[cmd]; ok {
			d := routes.Decide(path, a.isLoggedIn())
			switch d.Redirect {
			case routes.LoginPath:
				printlnFn("Please log in first")
				continue
			case routes.DashboardPath:
				printlnFn("You are already logged in")
				continue
			}
		}
		if item, ok := gateCommands[cmd]; ok && !a.canOpen(item) {
			printlnFn("Your plan does not include", cmd)
			continue
		}

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpSignedIn)
			} else {
				printlnFn(helpSignedOut)
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "google":
			_ = a.Google(ctx)

		case "forgot":
			_ = a.ForgotPassword(ctx)

		case "reset":
			_ = a.ResetPassword(ctx)

		case "whoami":
			_ = a.WhoAmI(ctx)

		case "menu":
			_ = a.Menu(ctx)

		case "dashboard":
			_ = a.Dashboard(ctx, args)

		case "analytics":
			_ = a.Analytics(ctx, args)

		case "keys":
			_ = a.Keys(ctx)

		case "newkey":
			_ = a.NewKey(ctx)

		case "revoke":
			_ = a.RevokeKey(ctx, args)

		case "lists":
			_ = a.Lists(ctx, args)

		case "addentry":
			_ = a.AddListEntry(ctx)

		case "plans":
			_ = a.Plans(ctx)

		case "checkout":
			_ = a.Checkout(ctx, args)

		case "profile":
			_ = a.Profile(ctx)

		case "deleteaccount":
			_ = a.DeleteAccount(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
