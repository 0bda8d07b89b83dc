// Package config loads the Todoable client configuration.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/todoable/config.toml (default)
//  3. If the config file doesn't exist, fall back to hardcoded defaults
//  4. Environment variables override whatever the file said
//
// # Default Values
//
//   - Config file: ~/.config/todoable/config.toml
//   - API base URL: https://todoable.teachable.tech/api
//   - Request timeout: 10 seconds
//   - TUI refresh interval: 15 seconds
//   - Log file (TUI mode): ~/.local/state/todoable/todoable.log
//
// # TOML Format
//
//	base_url = "https://todoable.teachable.tech/api"
//	username = "me@example.com"
//	password = "secret"
//	timeout_seconds = 10
//	poll_seconds = 15
//	log_file = "~/.local/state/todoable/todoable.log"
//	log_level = "info"
//
// # Environment
//
//   - TODOABLE_USERNAME
//   - TODOABLE_PASSWORD
//   - TODOABLE_BASE_URL
//
// Missing config files are NOT an error. Missing credentials are reported by
// Validate, which callers run before building a client.
package config
