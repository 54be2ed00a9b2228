package adapter

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	m "github.com/mosawalhi7/passweaver/internal/model"
)

// SessionStore persists resumable generation sessions.
//
// A session record keeps the inputs needed to reproduce the exact
// candidate stream (strings, dates, numbers, filter) plus the progress
// cursor. UpdateProgress is the checkpoint write: callers invoke it only
// after the corresponding candidates are durably in the output file.
type SessionStore interface {
	Create(ctx context.Context, s m.Session) (m.Session, error)
	Get(ctx context.Context, id string) (m.Session, error)
	List(ctx context.Context) ([]m.Session, error)
	UpdateProgress(ctx context.Context, id string, cursor m.Cursor, total uint64, completed bool) error
	AppendOutputFile(ctx context.Context, id string, name string) error
	Reset(ctx context.Context, id string) error
	Close() error
}

type sqliteSessionStore struct {
	db *sql.DB
}

const sessionSchemaVersion = 1

// OpenSessionStore opens (creating if needed) the SQLite session store at
// path. WAL keeps the single writer from blocking list reads.
func OpenSessionStore(path string) (SessionStore, error) {
	p := filepath.Clean(strings.TrimSpace(path))
	if p == "" {
		return nil, errors.New("missing session db path")
	}

	if err := os.MkdirAll(filepath.Dir(p), 0o700); err != nil {
		return nil, fmt.Errorf("create session db dir: %w", err)
	}

	db, err := sql.Open("sqlite", p)
	if err != nil {
		return nil, fmt.Errorf("open session db: %w", err)
	}

	if err := initSessionSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	return &sqliteSessionStore{db: db}, nil
}

func initSessionSchema(db *sql.DB) error {
	if _, err := db.Exec(`PRAGMA journal_mode=WAL;`); err != nil {
		return fmt.Errorf("pragma journal_mode: %w", err)
	}

	if _, err := db.Exec(`PRAGMA busy_timeout=3000;`); err != nil {
		return fmt.Errorf("pragma busy_timeout: %w", err)
	}

	var version int
	if err := db.QueryRow(`PRAGMA user_version;`).Scan(&version); err != nil {
		return fmt.Errorf("pragma user_version: %w", err)
	}

	if version >= sessionSchemaVersion {
		return nil
	}

	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS sessions (
  session_id         TEXT PRIMARY KEY,
  created_at_unix_ms INTEGER NOT NULL,
  updated_at_unix_ms INTEGER NOT NULL,
  strings_json       TEXT NOT NULL,
  dates_json         TEXT NOT NULL,
  numbers_json       TEXT NOT NULL,
  filter_json        TEXT NOT NULL,
  rule_index         INTEGER NOT NULL DEFAULT 0,
  rule_offset        INTEGER NOT NULL DEFAULT 0,
  total_generated    INTEGER NOT NULL DEFAULT 0,
  completed          INTEGER NOT NULL DEFAULT 0,
  output_files_json  TEXT NOT NULL DEFAULT '[]'
);
`); err != nil {
		return fmt.Errorf("create sessions table: %w", err)
	}

	if _, err := db.Exec(fmt.Sprintf(`PRAGMA user_version=%d;`, sessionSchemaVersion)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}

	return nil
}

func (s *sqliteSessionStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}

	return s.db.Close()
}

// NewSessionID returns a fresh short session id.
func NewSessionID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}

func (s *sqliteSessionStore) Create(ctx context.Context, sess m.Session) (m.Session, error) {
	if sess.ID == "" {
		sess.ID = NewSessionID()
	}

	now := time.Now().UTC().Truncate(time.Second)
	sess.CreatedAt = now
	sess.UpdatedAt = now

	stringsJSON, datesJSON, numbersJSON, filterJSON, filesJSON, err := encodeSession(sess)
	if err != nil {
		return m.Session{}, err
	}

	_, err = s.db.ExecContext(ctx, `
INSERT INTO sessions (
  session_id, created_at_unix_ms, updated_at_unix_ms,
  strings_json, dates_json, numbers_json, filter_json,
  rule_index, rule_offset, total_generated, completed, output_files_json
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`,
		sess.ID, now.UnixMilli(), now.UnixMilli(),
		stringsJSON, datesJSON, numbersJSON, filterJSON,
		sess.Cursor.RuleIndex, sess.Cursor.Offset, sess.TotalGenerated,
		boolToInt(sess.Completed), filesJSON,
	)
	if err != nil {
		return m.Session{}, fmt.Errorf("create session: %w", err)
	}

	return sess, nil
}

func encodeSession(sess m.Session) (string, string, string, string, string, error) {
	stringsJSON, err := json.Marshal(sess.Strings)
	if err != nil {
		return "", "", "", "", "", fmt.Errorf("encode session strings: %w", err)
	}

	datesJSON, err := json.Marshal(sess.Dates)
	if err != nil {
		return "", "", "", "", "", fmt.Errorf("encode session dates: %w", err)
	}

	numbersJSON, err := json.Marshal(sess.Numbers)
	if err != nil {
		return "", "", "", "", "", fmt.Errorf("encode session numbers: %w", err)
	}

	filterJSON, err := json.Marshal(sess.Filter)
	if err != nil {
		return "", "", "", "", "", fmt.Errorf("encode session filter: %w", err)
	}

	filesJSON, err := json.Marshal(outputFilesOrEmpty(sess.OutputFiles))
	if err != nil {
		return "", "", "", "", "", fmt.Errorf("encode session output files: %w", err)
	}

	return string(stringsJSON), string(datesJSON), string(numbersJSON), string(filterJSON), string(filesJSON), nil
}

func outputFilesOrEmpty(files []string) []string {
	if files == nil {
		return []string{}
	}

	return files
}

const sessionColumns = `
  session_id, created_at_unix_ms, updated_at_unix_ms,
  strings_json, dates_json, numbers_json, filter_json,
  rule_index, rule_offset, total_generated, completed, output_files_json`

func (s *sqliteSessionStore) Get(ctx context.Context, id string) (m.Session, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return m.Session{}, m.ErrSessionNotFound
	}

	row := s.db.QueryRowContext(ctx, `SELECT`+sessionColumns+` FROM sessions WHERE session_id = ?`, id)

	sess, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return m.Session{}, m.ErrSessionNotFound
	}

	return sess, err
}

func (s *sqliteSessionStore) List(ctx context.Context) ([]m.Session, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT`+sessionColumns+` FROM sessions ORDER BY updated_at_unix_ms DESC, session_id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var out []m.Session

	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			// A corrupt row forfeits its own resumability, not the listing.
			var corrupt *m.SessionCorruptError
			if errors.As(err, &corrupt) {
				out = append(out, sess)
				continue
			}

			return nil, err
		}

		out = append(out, sess)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanSession decodes one sessions row. Decode failures return the
// partially decoded session together with a SessionCorruptError so
// callers can fall back to a fresh run instead of crashing.
func scanSession(row rowScanner) (m.Session, error) {
	var (
		sess                 m.Session
		createdMs, updatedMs int64
		completed            int
		stringsJSON          string
		datesJSON            string
		numbersJSON          string
		filterJSON           string
		filesJSON            string
	)

	err := row.Scan(
		&sess.ID, &createdMs, &updatedMs,
		&stringsJSON, &datesJSON, &numbersJSON, &filterJSON,
		&sess.Cursor.RuleIndex, &sess.Cursor.Offset, &sess.TotalGenerated,
		&completed, &filesJSON,
	)
	if err != nil {
		return m.Session{}, err
	}

	sess.CreatedAt = time.UnixMilli(createdMs).UTC()
	sess.UpdatedAt = time.UnixMilli(updatedMs).UTC()
	sess.Completed = completed != 0

	var decodeErr error
	decodeJSON(stringsJSON, &sess.Strings, &decodeErr)
	decodeJSON(datesJSON, &sess.Dates, &decodeErr)
	decodeJSON(numbersJSON, &sess.Numbers, &decodeErr)
	decodeJSON(filterJSON, &sess.Filter, &decodeErr)
	decodeJSON(filesJSON, &sess.OutputFiles, &decodeErr)

	if decodeErr != nil {
		return sess, &m.SessionCorruptError{ID: sess.ID, Err: decodeErr}
	}

	return sess, nil
}

func decodeJSON(raw string, dest any, firstErr *error) {
	if err := json.Unmarshal([]byte(raw), dest); err != nil && *firstErr == nil {
		*firstErr = err
	}
}

func (s *sqliteSessionStore) UpdateProgress(ctx context.Context, id string, cursor m.Cursor, total uint64, completed bool) error {
	res, err := s.db.ExecContext(ctx, `
UPDATE sessions SET
  rule_index = ?, rule_offset = ?, total_generated = ?, completed = ?, updated_at_unix_ms = ?
WHERE session_id = ?
`, cursor.RuleIndex, cursor.Offset, total, boolToInt(completed), time.Now().UTC().UnixMilli(), id)
	if err != nil {
		return fmt.Errorf("update session progress: %w", err)
	}

	return requireOneRow(res)
}

func (s *sqliteSessionStore) AppendOutputFile(ctx context.Context, id string, name string) error {
	sess, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	files := outputFilesOrEmpty(sess.OutputFiles)
	for _, f := range files {
		if f == name {
			return nil
		}
	}
	files = append(files, name)

	filesJSON, err := json.Marshal(files)
	if err != nil {
		return fmt.Errorf("encode session output files: %w", err)
	}

	res, err := s.db.ExecContext(ctx, `
UPDATE sessions SET output_files_json = ?, updated_at_unix_ms = ? WHERE session_id = ?
`, string(filesJSON), time.Now().UTC().UnixMilli(), id)
	if err != nil {
		return fmt.Errorf("append session output file: %w", err)
	}

	return requireOneRow(res)
}

// Reset rewinds a session's cursor so generation restarts from scratch
// with the same inputs.
func (s *sqliteSessionStore) Reset(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `
UPDATE sessions SET rule_index = 0, rule_offset = 0, total_generated = 0, completed = 0, updated_at_unix_ms = ? WHERE session_id = ?
`, time.Now().UTC().UnixMilli(), id)
	if err != nil {
		return fmt.Errorf("reset session: %w", err)
	}

	return requireOneRow(res)
}

func requireOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if n == 0 {
		return m.ErrSessionNotFound
	}

	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}

	return 0
}
