// Package ui provides the Bubble Tea terminal interface for todoable.
//
// # Layout
//
//   - Header: logo, list and item totals, last refresh, connection health
//   - Command bar: key hints and the active theme
//   - Lists pane (left): every list with its open item count
//   - Items pane (right): items of the selected list, pending first
//   - Footer: prompts, delete confirmation, and the last action's outcome
//
// # Data Flow
//
//  1. A background poller writes state.Store; a tick copies its snapshot in
//  2. Key presses open prompts or start mutations as tea.Cmds
//  3. Each mutation calls the client, then Options.Refresh reloads the store
//  4. Errors are reduced to one footer line by describeError
//
// The selected list is tracked by id, so it survives reordering and
// deletions by other clients.
//
// # Key Bindings
//
//   - j/k, up/down, g/G: move within the focused pane
//   - tab: switch pane
//   - n: new list, r: rename list, a: add item
//   - f: finish item, d: delete list or item (y confirms)
//   - R: refresh now, h: hide finished items, T: cycle theme
//   - L: activity log (tail of the log file, any key closes)
//   - ?: help, q or ctrl+c: quit
//
// Theme, hidden-items toggle and the selected list persist through the prefs
// package.
package ui
