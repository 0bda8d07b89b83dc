// Package logtail reads the tail of the TUI's log file for the in-app
// activity view.
//
// Read returns the last N raw lines using a fixed-size ring buffer, so large
// files are scanned once without holding more than N lines. Parse decodes one
// JSON line as written by the logging package (ts, level, msg plus fields) and
// Entry.String renders it on one line:
//
//	15:04:05 WARN  action failed action="Created list \"Groceries\"" error=...
//
// Lines that are not JSON, such as a panic trace appended to the file, are
// kept verbatim as the entry message.
package logtail
