package model

import (
	"strings"
	"unicode"
)

// SegmentKind identifies what a rule segment contributes to a candidate.
type SegmentKind string

const (
	// SegmentLiteral contributes fixed text.
	SegmentLiteral SegmentKind = "literal"
	// SegmentString contributes one of the string tokens.
	SegmentString SegmentKind = "string"
	// SegmentStringLeet contributes leet variants of a string token.
	SegmentStringLeet SegmentKind = "string_leet"
	// SegmentCharacter contributes the first character of a string token.
	SegmentCharacter SegmentKind = "character"
	// SegmentDay contributes the day component of a date token.
	SegmentDay SegmentKind = "day"
	// SegmentMonth contributes the month component of a date token.
	SegmentMonth SegmentKind = "month"
	// SegmentYear contributes the full year of a date token.
	SegmentYear SegmentKind = "year"
	// SegmentShortYear contributes the two-digit year of a date token.
	SegmentShortYear SegmentKind = "short_year"
	// SegmentFullDate contributes the derived number forms of a date token.
	SegmentFullDate SegmentKind = "full_date"
	// SegmentSymbol contributes one of the configured symbols.
	SegmentSymbol SegmentKind = "symbol"
	// SegmentCommonNumber contributes one of the configured common numbers.
	SegmentCommonNumber SegmentKind = "common_number"
	// SegmentNumber contributes one of the user-supplied number tokens.
	SegmentNumber SegmentKind = "number"
)

// Segment is one position in a rule template.
type Segment struct {
	Kind SegmentKind
	// Literal text, for SegmentLiteral only.
	Literal string
	// Case applies to string, string_leet and character segments.
	Case CasePattern
	// Slot is the 1-based slot declared in the rule (string2, character3).
	Slot int
}

// Rule is an ordered template of segments parsed from one rules-file line.
type Rule struct {
	// Index is the 0-based position of the rule in the file, counting only
	// rule lines. Generation order and resume cursors rely on it.
	Index    int
	Raw      string
	Segments []Segment
}

// UsesDates reports whether any segment draws on a date token.
func (r Rule) UsesDates() bool {
	for _, s := range r.Segments {
		switch s.Kind {
		case SegmentDay, SegmentMonth, SegmentYear, SegmentShortYear, SegmentFullDate:
			return true
		}
	}

	return false
}

// UsesNumbers reports whether any segment draws on a user number token.
func (r Rule) UsesNumbers() bool {
	for _, s := range r.Segments {
		if s.Kind == SegmentNumber {
			return true
		}
	}

	return false
}

// CaseMode selects how a case pattern is applied.
type CaseMode int

const (
	// CaseLower lowercases the whole token (pattern "u:N", the default).
	CaseLower CaseMode = iota
	// CaseUpper uppercases the whole token (pattern "u:A").
	CaseUpper
	// CasePositions lowercases the token then uppercases the listed
	// 1-based positions (pattern "u:1,3" or "u:L" for the last rune).
	CasePositions
)

// PositionLast marks the last rune in a CasePositions pattern.
const PositionLast = -1

// CasePattern describes a deterministic casing transform for a token.
type CasePattern struct {
	Mode      CaseMode
	Positions []int
}

// Apply renders s under the pattern.
func (p CasePattern) Apply(s string) string {
	switch p.Mode {
	case CaseUpper:
		return strings.ToUpper(s)
	case CaseLower:
		return strings.ToLower(s)
	}

	runes := []rune(strings.ToLower(s))
	for _, pos := range p.Positions {
		idx := pos - 1
		if pos == PositionLast {
			idx = len(runes) - 1
		}

		if idx >= 0 && idx < len(runes) {
			runes[idx] = unicode.ToUpper(runes[idx])
		}
	}

	return string(runes)
}
