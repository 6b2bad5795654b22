// Package cli provides the interactive RiskCheck console for the terminal.
//
// It wires configuration, the local session database, the API client and
// services, and an interactive REPL. Typical flow: restore the saved session
// (or prompt for a login), start a background session watcher that refreshes
// the access token before it expires, and execute user commands.
//
// Commands mirror the web console pages:
//   - login / register / google / forgot / reset / logout
//   - dashboard, analytics (plan-gated)
//   - keys / newkey / revoke
//   - lists / addentry (plan-gated)
//   - plans / checkout
//   - whoami / profile / deleteaccount
//
// The REPL is started via App.Root(ctx), which blocks until the user exits.
// See App, StartSessionWatcher, and runREPL for details.
package cli
