package domain

import (
	"context"
	"log/slog"
	"strings"

	m "github.com/mosawalhi7/passweaver/internal/model"
)

// EngineConfig carries the fixed value pools and the leet policy used by
// the combination engine.
type EngineConfig struct {
	Symbols       []string
	CommonNumbers []string
	LeetPolicy    LeetPolicy
	LeetDepth     int
}

// CombinationEngine produces the candidate stream for a rule sequence and
// token set.
type CombinationEngine interface {
	// Stream starts a producer goroutine and delivers candidates over the
	// returned channel. The channel closes when all rules are exhausted or
	// ctx is cancelled; cancellation is checked between productions.
	//
	// The enumeration order is fixed: rules in file order, and within a
	// rule the first placeholder is the outermost axis, the last the
	// innermost. Each candidate carries its (rule, offset) cursor, so a
	// cursor maps back to exactly one combination on a later run.
	Stream(ctx context.Context, rules []m.Rule, tokens m.Tokens) <-chan m.Candidate
}

type combinationEngine struct {
	cfg EngineConfig
}

// NewCombinationEngine creates a CombinationEngine with the given pools
// and leet policy.
func NewCombinationEngine(cfg EngineConfig) CombinationEngine {
	return &combinationEngine{cfg: cfg}
}

func (e *combinationEngine) Stream(ctx context.Context, rules []m.Rule, tokens m.Tokens) <-chan m.Candidate {
	ch := make(chan m.Candidate, 1)

	go func() {
		defer close(ch)

		for _, rule := range rules {
			if e.skipRule(rule, tokens) {
				slog.Debug("skipping rule: absent token class", "rule", rule.Raw)
				continue
			}

			if !e.streamRule(ctx, rule, tokens, ch) {
				slog.Debug("candidate streaming cancelled", "rule", rule.Index)
				return
			}
		}
	}()

	return ch
}

// skipRule reports whether the rule references a token class absent from
// the inputs. Such rules contribute zero candidates; only missing string
// tokens are fatal, and that is checked before the engine starts.
func (e *combinationEngine) skipRule(rule m.Rule, tokens m.Tokens) bool {
	if rule.UsesDates() && len(tokens.Dates) == 0 {
		return true
	}

	if rule.UsesNumbers() && len(tokens.Numbers) == 0 {
		return true
	}

	return false
}

// streamRule emits every combination for one rule. Returns false when the
// context was cancelled mid-rule.
func (e *combinationEngine) streamRule(ctx context.Context, rule m.Rule, tokens m.Tokens, ch chan<- m.Candidate) bool {
	state := &ruleState{
		engine: e,
		rule:   rule,
		tokens: tokens,
		parts:  make([]string, len(rule.Segments)),
		used:   make(map[string]bool, len(tokens.Strings)),
		emit: func(text string, offset uint64) bool {
			select {
			case <-ctx.Done():
				return false
			case ch <- m.Candidate{Text: text, RuleIndex: rule.Index, Offset: offset}:
				return true
			}
		},
	}

	if rule.UsesDates() {
		// Dates form the outermost axis: the whole rule product repeats
		// once per supplied date.
		for i := range tokens.Dates {
			state.date = &tokens.Dates[i]
			if !state.expand(0) {
				return false
			}
		}

		return true
	}

	return state.expand(0)
}

// ruleState carries the in-progress combination while expanding one rule
// left to right.
type ruleState struct {
	engine *combinationEngine
	rule   m.Rule
	tokens m.Tokens
	date   *m.Date

	parts  []string
	used   map[string]bool
	offset uint64
	emit   func(text string, offset uint64) bool
}

// expand fills segment i with each of its values and recurses. Literal
// segments contribute one fixed value, so they add no axis. Returns false
// to unwind when the consumer is gone.
func (s *ruleState) expand(i int) bool {
	if i == len(s.rule.Segments) {
		text := strings.Join(s.parts, "")
		if text == "" {
			return true
		}

		s.offset++

		return s.emit(text, s.offset)
	}

	seg := s.rule.Segments[i]

	switch seg.Kind {
	case m.SegmentLiteral:
		return s.place(i, seg.Literal)

	case m.SegmentString, m.SegmentStringLeet, m.SegmentCharacter:
		return s.expandString(i, seg)

	case m.SegmentDay:
		return s.place(i, s.date.Day)

	case m.SegmentMonth:
		return s.place(i, s.date.Month)

	case m.SegmentYear:
		return s.place(i, s.date.Year)

	case m.SegmentShortYear:
		return s.place(i, s.date.ShortYear)

	case m.SegmentFullDate:
		return s.placeEach(i, s.date.NumberForms())

	case m.SegmentSymbol:
		return s.placeEach(i, s.engine.cfg.Symbols)

	case m.SegmentCommonNumber:
		return s.placeEach(i, s.engine.cfg.CommonNumbers)

	case m.SegmentNumber:
		return s.placeEach(i, s.tokens.Numbers)
	}

	return true
}

// expandString iterates the available string tokens for a string-class
// segment, applying case and, for string_leet, the leet variants. A
// string token is consumed for the rest of the candidate once placed;
// when every token is consumed the first one is reused so rules with more
// string slots than inputs still produce output.
func (s *ruleState) expandString(i int, seg m.Segment) bool {
	for _, tok := range s.availableStrings() {
		key := strings.ToLower(tok)
		value := tok
		if seg.Kind == m.SegmentCharacter {
			value = firstRune(tok)
		}

		consumed := !s.used[key]
		s.used[key] = true

		ok := true
		if seg.Kind == m.SegmentStringLeet {
			spec := VariationSpec{
				Case:   seg.Case,
				Leet:   true,
				Policy: s.engine.cfg.LeetPolicy,
				Depth:  s.engine.cfg.LeetDepth,
			}
			for _, variant := range Variants(value, spec) {
				if !s.place(i, variant) {
					ok = false
					break
				}
			}
		} else {
			ok = s.place(i, seg.Case.Apply(value))
		}

		if consumed {
			s.used[key] = false
		}

		if !ok {
			return false
		}
	}

	return true
}

func (s *ruleState) availableStrings() []string {
	free := make([]string, 0, len(s.tokens.Strings))

	for _, tok := range s.tokens.Strings {
		if tok == "" || s.used[strings.ToLower(tok)] {
			continue
		}

		free = append(free, tok)
	}

	if len(free) == 0 && len(s.tokens.Strings) > 0 {
		return s.tokens.Strings[:1]
	}

	return free
}

func (s *ruleState) place(i int, value string) bool {
	s.parts[i] = value
	ok := s.expand(i + 1)
	s.parts[i] = ""

	return ok
}

func (s *ruleState) placeEach(i int, values []string) bool {
	for _, v := range values {
		if !s.place(i, v) {
			return false
		}
	}

	return true
}

func firstRune(s string) string {
	for _, r := range s {
		return string(r)
	}

	return ""
}
