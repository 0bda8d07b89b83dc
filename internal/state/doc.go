// Package state holds the latest lists fetched from the API so the poller and
// the TUI can share them.
//
// # Concurrency Model
//
// Store uses a readers-writer lock:
//
//   - Update(): Acquires write lock (exclusive access)
//   - Snapshot(): Acquires read lock (concurrent reads allowed)
//
// Both directions deep-copy the lists and their items, so a Snapshot can be
// read and mutated by the UI without affecting the stored one.
//
// # Update Semantics
//
//	// Success case: Replace the lists
//	store.Update(lists, nil)
//
//	// Error case: Keep old lists, record error
//	store.Update(nil, err)
//
// Two consecutive failures mark the snapshot offline.
//
// The zero Store is ready to use.
package state
