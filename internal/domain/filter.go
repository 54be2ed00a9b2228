package domain

import (
	"unicode"
	"unicode/utf8"

	m "github.com/mosawalhi7/passweaver/internal/model"
)

// AcceptCandidate is the filter predicate: it reports whether the
// candidate text satisfies the config. It is pure and safe to evaluate
// repeatedly; the zero config accepts everything.
func AcceptCandidate(text string, cfg m.FilterConfig) bool {
	length := utf8.RuneCountInString(text)
	if cfg.MinLength > 0 && length < cfg.MinLength {
		return false
	}

	if cfg.MaxLength > 0 && length > cfg.MaxLength {
		return false
	}

	if cfg.RequireUppercase && !containsFunc(text, unicode.IsUpper) {
		return false
	}

	if cfg.RequireSymbol && !containsFunc(text, isSymbol) {
		return false
	}

	return true
}

func isSymbol(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

func containsFunc(s string, f func(rune) bool) bool {
	for _, r := range s {
		if f(r) {
			return true
		}
	}

	return false
}
