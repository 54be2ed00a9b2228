// Package domain implements the password generation engines: rule
// parsing, token variation, rule-directed combination, filtering and the
// workflow tying them to the output sink.
package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	m "github.com/mosawalhi7/passweaver/internal/model"
)

const (
	segmentSeparator = " + "
	literalPrefix    = "literal:"
	commentPrefix    = "#"
)

var placeholderPattern = regexp.MustCompile(`^(string|character)(\d*)$`)
var placeholderCasePattern = regexp.MustCompile(`^(string|character)(\d*):(u:.+)$`)
var stringLeetPattern = regexp.MustCompile(`^string_leet(?::(u:.+))?$`)

var directiveKinds = map[string]m.SegmentKind{
	"day":           m.SegmentDay,
	"month":         m.SegmentMonth,
	"year":          m.SegmentYear,
	"short_year":    m.SegmentShortYear,
	"full_date":     m.SegmentFullDate,
	"symbol":        m.SegmentSymbol,
	"common_number": m.SegmentCommonNumber,
	"number":        m.SegmentNumber,
}

// ParseRules turns the raw text of a rules file into the ordered rule
// sequence. One rule per non-empty, non-comment line. Any syntax problem
// rejects the whole file; a file with no rule lines is ErrNoRules.
func ParseRules(text string) ([]m.Rule, error) {
	var rules []m.Rule

	for i, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, commentPrefix) {
			continue
		}

		segments, err := parseRuleLine(line)
		if err != nil {
			return nil, &m.RuleSyntaxError{Line: i + 1, Text: line, Reason: err.Error()}
		}

		rules = append(rules, m.Rule{
			Index:    len(rules),
			Raw:      line,
			Segments: segments,
		})
	}

	if len(rules) == 0 {
		return nil, m.ErrNoRules
	}

	return rules, nil
}

func parseRuleLine(line string) ([]m.Segment, error) {
	parts := strings.Split(line, segmentSeparator)
	segments := make([]m.Segment, 0, len(parts))

	for _, part := range parts {
		seg, err := parseSegment(part)
		if err != nil {
			return nil, err
		}

		segments = append(segments, seg)
	}

	return segments, nil
}

func parseSegment(token string) (m.Segment, error) {
	if strings.HasPrefix(token, literalPrefix) {
		return m.Segment{Kind: m.SegmentLiteral, Literal: token[len(literalPrefix):]}, nil
	}

	if kind, ok := directiveKinds[token]; ok {
		return m.Segment{Kind: kind}, nil
	}

	if match := stringLeetPattern.FindStringSubmatch(token); match != nil {
		pattern, err := parseCasePattern(match[1])
		if err != nil {
			return m.Segment{}, err
		}

		return m.Segment{Kind: m.SegmentStringLeet, Case: pattern, Slot: 1}, nil
	}

	if match := placeholderPattern.FindStringSubmatch(token); match != nil {
		return m.Segment{Kind: placeholderKind(match[1]), Slot: parseSlot(match[2])}, nil
	}

	if match := placeholderCasePattern.FindStringSubmatch(token); match != nil {
		pattern, err := parseCasePattern(match[3])
		if err != nil {
			return m.Segment{}, err
		}

		return m.Segment{Kind: placeholderKind(match[1]), Slot: parseSlot(match[2]), Case: pattern}, nil
	}

	// Directive-looking segments must parse as a known form; anything else
	// with a delimiter is a typo, not a literal.
	if strings.Contains(token, ":") {
		return m.Segment{}, fmt.Errorf("unknown directive")
	}

	// Bare words that match no directive pass through as literal text.
	return m.Segment{Kind: m.SegmentLiteral, Literal: token}, nil
}

func placeholderKind(name string) m.SegmentKind {
	if name == "character" {
		return m.SegmentCharacter
	}

	return m.SegmentString
}

func parseSlot(digits string) int {
	if digits == "" {
		return 1
	}

	slot, err := strconv.Atoi(digits)
	if err != nil || slot < 1 {
		return 1
	}

	return slot
}

// parseCasePattern parses a "u:..." case pattern. The empty string yields
// the default pattern (all lower).
func parseCasePattern(pattern string) (m.CasePattern, error) {
	if pattern == "" {
		return m.CasePattern{Mode: m.CaseLower}, nil
	}

	spec, ok := strings.CutPrefix(pattern, "u:")
	if !ok || spec == "" {
		return m.CasePattern{}, fmt.Errorf("malformed case pattern %q", pattern)
	}

	switch spec {
	case "A":
		return m.CasePattern{Mode: m.CaseUpper}, nil
	case "N":
		return m.CasePattern{Mode: m.CaseLower}, nil
	}

	positions := make([]int, 0, 2)

	for _, field := range strings.Split(spec, ",") {
		if field == "L" {
			positions = append(positions, m.PositionLast)
			continue
		}

		pos, err := strconv.Atoi(field)
		if err != nil || pos < 1 {
			return m.CasePattern{}, fmt.Errorf("malformed case pattern %q", pattern)
		}

		positions = append(positions, pos)
	}

	return m.CasePattern{Mode: m.CasePositions, Positions: positions}, nil
}
