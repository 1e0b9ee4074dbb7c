// Package scope models the search breadth of a history query: the current
// session, the current directory, the current machine, or everywhere.
package scope

import "fmt"

// Scope is the active filtering breadth. Exactly one scope is active at a
// time; it cycles in the fixed order Session, Directory, Machine, Everywhere.
type Scope int

const (
	Session Scope = iota
	Directory
	Machine
	Everywhere

	count = 4
)

// Default is the scope hx starts in when nothing else is configured.
const Default = Directory

// Next returns the scope after s in the fixed cycle, wrapping Everywhere
// back to Session.
func (s Scope) Next() Scope {
	switch s {
	case Session:
		return Directory
	case Directory:
		return Machine
	case Machine:
		return Everywhere
	case Everywhere:
		return Session
	default:
		return Default
	}
}

// All returns every scope in cycle order.
func All() []Scope {
	return []Scope{Session, Directory, Machine, Everywhere}
}

// String returns the machine-readable name, as accepted by Parse.
func (s Scope) String() string {
	switch s {
	case Session:
		return "session"
	case Directory:
		return "directory"
	case Machine:
		return "machine"
	case Everywhere:
		return "everywhere"
	default:
		return fmt.Sprintf("scope(%d)", int(s))
	}
}

// Label returns the human-readable scope name shown in the picker header.
func (s Scope) Label() string {
	switch s {
	case Session:
		return "Session history"
	case Directory:
		return "Directory history"
	case Machine:
		return "Machine history"
	case Everywhere:
		return "Everywhere"
	default:
		return "History"
	}
}

// Parse returns the scope named by s ("session", "directory", "machine",
// "everywhere").
func Parse(name string) (Scope, error) {
	for _, s := range All() {
		if s.String() == name {
			return s, nil
		}
	}
	return Default, fmt.Errorf("unknown scope %q", name)
}

// header diagrams highlight the active scope in a row of four boxes. The
// heavy box borders mark the active one.
var headers = [count]string{
	Session: `
 ┏━━━━━━━┱─────────┬────┬──────────┐
 ┃Session┃Directory│Host│Everywhere│
━┛       ┗━━━━━━━━━┷━━━━┷━━━━━━━━━━┷━━━━━━━━━━━━━━━━━`,
	Directory: `
 ┌───────┲━━━━━━━━━┱────┬──────────┐
 │Session┃Directory┃Host│Everywhere│
━┷━━━━━━━┛         ┗━━━━┷━━━━━━━━━━┷━━━━━━━━━━━━━━━━━`,
	Machine: `
 ┌───────┬─────────┲━━━━┱──────────┐
 │Session│Directory┃Host┃Everywhere│
━┷━━━━━━━┷━━━━━━━━━┛    ┗━━━━━━━━━━┷━━━━━━━━━━━━━━━━━`,
	Everywhere: `
 ┌───────┬─────────┬────┲━━━━━━━━━━┓
 │Session│Directory│Host┃Everywhere┃
━┷━━━━━━━┷━━━━━━━━━┷━━━━┛          ┗━━━━━━━━━━━━━━━━━`,
}

// extraInfo is the scope-specific detail appended to the label: the session
// id, the working directory, or the hostname. Everywhere has none.
func (s Scope) extraInfo(env Env) string {
	switch s {
	case Session:
		return fmt.Sprintf("%d", env.SessionID)
	case Directory:
		return env.Cwd
	case Machine:
		return env.Hostname
	default:
		return ""
	}
}

// Title renders the picker header for s: the label, the scope-specific
// detail, and the box diagram highlighting the active scope. Pure: identical
// inputs render identically.
func (s Scope) Title(env Env) string {
	if s < 0 || s >= count {
		s = Default
	}
	return fmt.Sprintf("%s %s\n%s\n", s.Label(), s.extraInfo(env), headers[s])
}
