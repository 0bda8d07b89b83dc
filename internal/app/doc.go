// Package app wires configuration, logging, the Todoable client, the shared
// state store and the TUI together.
//
// # Components
//
//   - app.go: Run (TUI entry point) and NewClient (shared with the CLI)
//   - poller.go: Background refresh of lists and their items
//
// # Data Flow
//
//	┌──────────────┐
//	│   Run()      │ Initialize everything
//	└──────┬───────┘
//	       │
//	       ├─────> config.Load()        Read config + env overrides
//	       ├─────> logging.New()        File logger (TUI owns the terminal)
//	       ├─────> todoable.Build()     Client, authenticated once
//	       ├─────> refresh()            Populate the store
//	       ├─────> StartPoller()        Background updates
//	       └─────> ui.Run()             Start TUI (blocks)
//
// # Polling Behavior
//
// Each refresh calls Lists and then FindList for every list, at most four at
// a time. Failures keep the previous snapshot, are logged, and double the
// wait before the next attempt up to two minutes. Token expiry during a
// long session is handled by the client's lazy re-authentication.
package app
