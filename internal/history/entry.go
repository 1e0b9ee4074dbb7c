// Package history provides read access to a reedline-compatible SQLite
// command-history database (the format nushell writes to history.sqlite3).
package history

import "time"

// Entry is one recorded command execution. Every field except the command
// text is optional; old shells and imports leave columns NULL. Entries are
// immutable snapshots: nothing mutates one after it leaves the store.
type Entry struct {
	ID         *int64
	Command    string
	StartedAt  *time.Time
	Duration   *time.Duration
	ExitStatus *int64
	Hostname   *string
	Cwd        *string
	SessionID  *int64
}

// Succeeded reports whether the entry recorded a zero exit status.
// Returns false when the exit status is unknown.
func (e Entry) Succeeded() bool {
	return e.ExitStatus != nil && *e.ExitStatus == 0
}
