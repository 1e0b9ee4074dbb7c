package history

import "time"

// Direction orders search results by insertion id.
type Direction int

const (
	// Backward returns the most recent entries first.
	Backward Direction = iota
	// Forward returns the oldest entries first.
	Forward
)

// SearchFilter restricts which entries a search returns. Nil fields are
// unconstrained. CommandSubstring matches anywhere in the command text; the
// empty string matches everything. Hostname, Cwd and SessionID are exact
// matches.
type SearchFilter struct {
	CommandSubstring *string
	Hostname         *string
	Cwd              *string
	SessionID        *int64
}

// Anything returns a filter with no constraints.
func Anything() SearchFilter {
	return SearchFilter{}
}

// SearchQuery is one store query: a filter plus ordering and optional
// time/id/count bounds. The bounds exist for completeness of the store
// contract; the interactive front-end always leaves them nil.
type SearchQuery struct {
	Direction Direction
	StartTime *time.Time
	EndTime   *time.Time
	StartID   *int64
	EndID     *int64
	Limit     *int
	Filter    SearchFilter
}
