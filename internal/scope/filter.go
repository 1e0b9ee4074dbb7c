package scope

import (
	"os"
	"strconv"

	"github.com/vanderheijden86/histscope/internal/history"
)

// Env holds the environment facts a filter is built from. It is read once
// per query construction and passed in explicitly so filter building stays
// pure and testable.
type Env struct {
	SessionID int64
	Cwd       string
	Hostname  string
}

// SessionEnvVar names the variable a shell hook exports so session-scoped
// search can tell shells apart. Without it the parent pid stands in, which
// at least distinguishes concurrent shells on one machine.
const SessionEnvVar = "HX_SESSION"

// CurrentEnv reads the process environment into an Env.
func CurrentEnv() Env {
	env := Env{SessionID: int64(os.Getppid())}
	if v := os.Getenv(SessionEnvVar); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			env.SessionID = id
		}
	}
	if cwd, err := os.Getwd(); err == nil {
		env.Cwd = cwd
	}
	if host, err := os.Hostname(); err == nil {
		env.Hostname = host
	}
	return env
}

// BuildFilter converts the active scope, the typed query text and the
// environment facts into a store filter:
//
//   - the command substring is the query text verbatim (empty matches all)
//   - hostname is constrained to env.Hostname except in Everywhere
//   - cwd is constrained to env.Cwd only in Directory
//   - session id is constrained to env.SessionID only in Session
//
// Filters are built fresh on every scope change or re-query; the constraints
// differ per scope so nothing is cached across transitions.
func BuildFilter(s Scope, query string, env Env) history.SearchFilter {
	filter := history.Anything()
	filter.CommandSubstring = &query

	if s != Everywhere {
		host := env.Hostname
		filter.Hostname = &host
	}
	if s == Directory {
		cwd := env.Cwd
		filter.Cwd = &cwd
	}
	if s == Session {
		session := env.SessionID
		filter.SessionID = &session
	}
	return filter
}
