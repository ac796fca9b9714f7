// Package cli provides the interactive fragments command-line client.
//
// It wires configuration, the local session store, the fragments API client
// and an interactive REPL. Typical flow: restore the previous session or
// prompt for credentials, start a background connectivity watcher, and
// execute user commands.
//
// Key features:
//   - Login / Logout (Cognito user pool or HTTP Basic)
//   - List fragments and fragment ids
//   - Create, view, update and delete fragments
//   - Convert a fragment to another format
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, StartOnlineStatusWatcher, and runREPL for details.
package cli
