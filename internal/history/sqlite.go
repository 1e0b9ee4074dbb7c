package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// Store provides read access to a history SQLite database.
type Store struct {
	db   *sql.DB
	path string
}

// DefaultPath returns the conventional location of nushell's history
// database, or an error if the user config directory cannot be determined.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locating config dir: %w", err)
	}
	return filepath.Join(dir, "nushell", "history.sqlite3"), nil
}

// Open opens a history database for reading.
func Open(path string) (*Store, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("history database: %w", err)
	}

	// Open in read-only mode with various pragmas for read performance
	dsn := fmt.Sprintf("file:%s?mode=ro&_busy_timeout=5000&_journal_mode=WAL", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("cannot open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA cache_size = -64000",
		"PRAGMA temp_store = MEMORY",
	}
	for _, pragma := range pragmas {
		// Non-fatal on a read-only handle
		db.Exec(pragma)
	}

	return &Store{db: db, path: path}, nil
}

// OpenWritable opens (creating if necessary) a history database that accepts
// inserts. Used by tests and by imports; the interactive front-end only reads.
func OpenWritable(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("cannot open database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}
	return &Store{db: db, path: path}, nil
}

// schema mirrors reedline's SqliteBackedHistory table so hx can read the
// databases nushell already writes.
const schema = `
CREATE TABLE IF NOT EXISTS history (
	id integer PRIMARY KEY AUTOINCREMENT,
	command_line text NOT NULL,
	start_timestamp integer,
	session_id integer,
	hostname text,
	cwd text,
	duration_ms integer,
	exit_status integer,
	more_info text
);
CREATE INDEX IF NOT EXISTS idx_history_time ON history(start_timestamp);
CREATE INDEX IF NOT EXISTS idx_history_cwd ON history(cwd);
`

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Search streams entries matching the query to yield, in the query's
// direction, until the result set is exhausted or yield returns false.
// Rows are forwarded as they are scanned, so a consumer can start work
// before the query completes.
func (s *Store) Search(q SearchQuery, yield func(Entry) bool) error {
	where, args := buildWhere(q)

	order := "ASC"
	if q.Direction == Backward {
		order = "DESC"
	}

	sqlText := fmt.Sprintf(`
		SELECT id, command_line, start_timestamp, session_id,
		       hostname, cwd, duration_ms, exit_status
		FROM history
		%s
		ORDER BY id %s`, where, order)

	if q.Limit != nil {
		sqlText += fmt.Sprintf(" LIMIT %d", *q.Limit)
	}

	rows, err := s.db.Query(sqlText, args...)
	if err != nil {
		return fmt.Errorf("history query failed: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return fmt.Errorf("scanning history row: %w", err)
		}
		if !yield(entry) {
			return nil
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating history rows: %w", err)
	}
	return nil
}

// SearchAll collects all matching entries into a slice.
func (s *Store) SearchAll(q SearchQuery) ([]Entry, error) {
	var entries []Entry
	err := s.Search(q, func(e Entry) bool {
		entries = append(entries, e)
		return true
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// Count returns the number of entries matching the filter.
func (s *Store) Count(filter SearchFilter) (int, error) {
	where, args := buildWhere(SearchQuery{Filter: filter})
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM history "+where, args...).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting history: %w", err)
	}
	return count, nil
}

// Append inserts one entry. Only writable stores accept it.
func (s *Store) Append(e Entry) error {
	var ts, dur, exit, session any
	if e.StartedAt != nil {
		ts = e.StartedAt.UnixMilli()
	}
	if e.Duration != nil {
		dur = e.Duration.Milliseconds()
	}
	if e.ExitStatus != nil {
		exit = *e.ExitStatus
	}
	if e.SessionID != nil {
		session = *e.SessionID
	}
	_, err := s.db.Exec(`
		INSERT INTO history (command_line, start_timestamp, session_id, hostname, cwd, duration_ms, exit_status)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.Command, ts, session, optString(e.Hostname), optString(e.Cwd), dur, exit)
	if err != nil {
		return fmt.Errorf("inserting history entry: %w", err)
	}
	return nil
}

func optString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

// buildWhere translates a query's filter and bounds into a WHERE clause.
func buildWhere(q SearchQuery) (string, []any) {
	var clauses []string
	var args []any

	f := q.Filter
	if f.CommandSubstring != nil && *f.CommandSubstring != "" {
		clauses = append(clauses, `command_line LIKE ? ESCAPE '\'`)
		args = append(args, "%"+escapeLike(*f.CommandSubstring)+"%")
	}
	if f.Hostname != nil {
		clauses = append(clauses, "hostname = ?")
		args = append(args, *f.Hostname)
	}
	if f.Cwd != nil {
		clauses = append(clauses, "cwd = ?")
		args = append(args, *f.Cwd)
	}
	if f.SessionID != nil {
		clauses = append(clauses, "session_id = ?")
		args = append(args, *f.SessionID)
	}

	if q.StartTime != nil {
		clauses = append(clauses, "start_timestamp >= ?")
		args = append(args, q.StartTime.UnixMilli())
	}
	if q.EndTime != nil {
		clauses = append(clauses, "start_timestamp <= ?")
		args = append(args, q.EndTime.UnixMilli())
	}
	if q.StartID != nil {
		clauses = append(clauses, "id >= ?")
		args = append(args, *q.StartID)
	}
	if q.EndID != nil {
		clauses = append(clauses, "id <= ?")
		args = append(args, *q.EndID)
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(clauses, " AND "), args
}

// escapeLike escapes LIKE metacharacters so the substring is matched
// literally.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

func scanEntry(rows *sql.Rows) (Entry, error) {
	var (
		e          Entry
		id         sql.NullInt64
		ts         sql.NullInt64
		session    sql.NullInt64
		hostname   sql.NullString
		cwd        sql.NullString
		durationMS sql.NullInt64
		exitStatus sql.NullInt64
	)

	err := rows.Scan(&id, &e.Command, &ts, &session, &hostname, &cwd, &durationMS, &exitStatus)
	if err != nil {
		return Entry{}, err
	}

	if id.Valid {
		v := id.Int64
		e.ID = &v
	}
	if ts.Valid {
		t := time.UnixMilli(ts.Int64)
		e.StartedAt = &t
	}
	if session.Valid {
		v := session.Int64
		e.SessionID = &v
	}
	if hostname.Valid {
		v := hostname.String
		e.Hostname = &v
	}
	if cwd.Valid {
		v := cwd.String
		e.Cwd = &v
	}
	if durationMS.Valid {
		d := time.Duration(durationMS.Int64) * time.Millisecond
		e.Duration = &d
	}
	if exitStatus.Valid {
		v := exitStatus.Int64
		e.ExitStatus = &v
	}
	return e, nil
}
