package model

import "time"

// Candidate is an assembled password string together with the cursor of
// the combination that produced it.
type Candidate struct {
	Text string
	// RuleIndex is the 0-based rule the candidate came from.
	RuleIndex int
	// Offset is the 1-based position of the combination within the rule's
	// product ordering, counted before filtering.
	Offset uint64
}

// Cursor marks the last combination durably written for a session.
// The zero value means nothing has been written.
type Cursor struct {
	RuleIndex int    `json:"rule_index"`
	Offset    uint64 `json:"offset"`
}

// Covers reports whether the candidate is at or before the cursor, i.e.
// already written by an earlier run.
func (c Cursor) Covers(cand Candidate) bool {
	if cand.RuleIndex != c.RuleIndex {
		return cand.RuleIndex < c.RuleIndex
	}

	return cand.Offset <= c.Offset
}

// Session is a resumable generation run: the inputs needed to reproduce
// the exact candidate stream plus the progress cursor. The cursor is
// advanced only after the corresponding candidate has been written.
type Session struct {
	ID        string
	CreatedAt time.Time
	UpdatedAt time.Time

	Strings []string
	// Dates holds the raw D/M/YYYY inputs; they are re-parsed on resume.
	Dates   []string
	Numbers []string
	Filter  FilterConfig

	Cursor         Cursor
	TotalGenerated uint64
	Completed      bool
	OutputFiles    []string
}

// Tokens parses the session inputs into a token set.
func (s Session) Tokens() (Tokens, error) {
	dates, err := ParseDates(s.Dates)
	if err != nil {
		return Tokens{}, err
	}

	return Tokens{
		Strings: s.Strings,
		Dates:   dates,
		Numbers: s.Numbers,
	}, nil
}
