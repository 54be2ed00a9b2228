package model

import (
	"errors"
	"fmt"
)

// ErrNoTokens is returned before generation when no string tokens were
// supplied. Strings are mandatory regardless of other inputs.
var ErrNoTokens = errors.New("no string tokens supplied")

// ErrNoRules is returned when the rules file is empty or contains only
// comments.
var ErrNoRules = errors.New("rules file contains no rules")

// ErrSessionNotFound is returned when a session id has no record.
var ErrSessionNotFound = errors.New("session not found")

// RuleSyntaxError rejects a whole rules file at load time.
type RuleSyntaxError struct {
	Line   int
	Text   string
	Reason string
}

func (e *RuleSyntaxError) Error() string {
	return fmt.Sprintf("rules line %d: %s: %q", e.Line, e.Reason, e.Text)
}

// InvalidFilterConfigError rejects a filter configuration before
// generation starts.
type InvalidFilterConfigError struct {
	Field  string
	Reason string
}

func (e *InvalidFilterConfigError) Error() string {
	return fmt.Sprintf("invalid filter config: %s %s", e.Field, e.Reason)
}

// SessionCorruptError marks a session record that failed to decode.
// Callers fall back to a fresh run instead of crashing; resumability for
// the record is forfeited.
type SessionCorruptError struct {
	ID  string
	Err error
}

func (e *SessionCorruptError) Error() string {
	return fmt.Sprintf("session %s: corrupt record: %v", e.ID, e.Err)
}

func (e *SessionCorruptError) Unwrap() error {
	return e.Err
}
