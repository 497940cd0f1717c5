// Package cli provides the interactive AuthKeeper command-line client.
//
// It wires configuration, the local session store, the identity backend
// selected by the configured mode and a session controller, then runs a
// small REPL over them. The stored session is restored before the first
// prompt is shown, so a returning user starts signed in.
//
// Commands: register, login, logout, status, profile, help, exit | quit.
package cli
