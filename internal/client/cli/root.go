package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"time"
)

// sessionCheckInterval is how often the watcher looks at the token, and how
// long before expiry it refreshes.
const sessionCheckInterval = time.Minute

func (a *App) getStatus() string {
	return fmt.Sprintf("(%s)", a.status())
}

// Root restores a saved session, starts the session watcher and runs the
// REPL until the user exits.
func (a *App) Root(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	a.println("Welcome to the RiskCheck console (type 'help' for commands)")

	a.restoreSession(ctx)
	if u := a.currentUser(); u != nil {
		a.printf("Logged in as %s\n", u.Email)
	} else {
		a.println("Type 'login', 'google' or 'register' to start.")
	}

	go a.StartSessionWatcher(ctx, sessionCheckInterval)

	runREPL(ctx, a, a.getStatus, bufio.NewScanner(os.Stdin))
}
