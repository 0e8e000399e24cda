// Package cli provides the interactive agent marketplace command-line client.
//
// It wires configuration, the local SQLite store, the backend gateways, the
// session and an interactive REPL. Typical flow: restore the previous
// session in the background, then execute user commands.
//
// Key features:
//   - Register / Login / Logout, profile and password management
//   - Browse, buy and invoke agents; invocation history and dashboard
//   - Token purchases and balance
//   - Developer commands: create, update, delete agents and view analytics
//
// Marketplace commands go through the route guard: an anonymous user is
// asked to log in and the command then resumes.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli
