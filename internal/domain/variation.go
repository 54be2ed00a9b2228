package domain

import (
	"unicode"

	m "github.com/mosawalhi7/passweaver/internal/model"
)

// LeetPolicy selects how far leet substitution expands.
type LeetPolicy string

const (
	// LeetProgressive substitutes a bounded number of positions at a time
	// (one, then two, ... up to the configured depth). This models likely
	// human patterns and keeps the variant count small.
	LeetProgressive LeetPolicy = "progressive"
	// LeetFull takes the per-character option product, substituting every
	// eligible combination.
	LeetFull LeetPolicy = "full"
)

// DefaultLeetDepth bounds progressive substitution.
const DefaultLeetDepth = 2

// leetTable maps a lowercase rune to its substitutions.
var leetTable = map[rune][]rune{
	'a': {'@'},
	'e': {'3'},
	'i': {'1'},
	'o': {'0'},
	's': {'$', '5'},
	't': {'7'},
}

// VariationSpec controls variant production for one token occurrence.
type VariationSpec struct {
	Case   m.CasePattern
	Leet   bool
	Policy LeetPolicy
	Depth  int
}

// Variants returns the ordered variant sequence for a token under the
// spec: the cased rendering first, then leet substitutions per policy.
// The result is deterministic, free of duplicates and depends on nothing
// but its inputs, so re-invoking it restarts the same sequence.
func Variants(token string, spec VariationSpec) []string {
	base := spec.Case.Apply(token)
	if !spec.Leet {
		return []string{base}
	}

	policy := spec.Policy
	if policy == "" {
		policy = LeetProgressive
	}

	depth := spec.Depth
	if depth <= 0 {
		depth = DefaultLeetDepth
	}

	var variants []string
	if policy == LeetFull {
		variants = leetProduct(base)
	} else {
		variants = leetProgressive(base, depth)
	}

	return dedupe(variants)
}

// leetProgressive yields the base string, then every combination of k
// substituted positions for k = 1..depth, positions left to right.
func leetProgressive(base string, depth int) []string {
	runes := []rune(base)
	eligible := make([]int, 0, len(runes))

	for i, r := range runes {
		if len(substitutionsFor(r)) > 0 {
			eligible = append(eligible, i)
		}
	}

	out := []string{base}
	if depth > len(eligible) {
		depth = len(eligible)
	}

	for k := 1; k <= depth; k++ {
		out = appendSubstituted(out, runes, eligible, k)
	}

	return out
}

// appendSubstituted appends all variants with exactly k substituted
// positions chosen from eligible, in combination order.
func appendSubstituted(out []string, runes []rune, eligible []int, k int) []string {
	chosen := make([]int, k)

	var walk func(start, depth int) []string
	walk = func(start, depth int) []string {
		if depth == k {
			out = substituteAt(out, runes, chosen)
			return out
		}

		for i := start; i <= len(eligible)-(k-depth); i++ {
			chosen[depth] = eligible[i]
			walk(i+1, depth+1)
		}

		return out
	}

	return walk(0, 0)
}

// substituteAt expands the chosen positions over each position's
// substitution options.
func substituteAt(out []string, runes []rune, positions []int) []string {
	options := make([][]rune, len(positions))
	for i, pos := range positions {
		options[i] = substitutionsFor(runes[pos])
	}

	counters := make([]int, len(positions))

	for {
		variant := make([]rune, len(runes))
		copy(variant, runes)

		for i, pos := range positions {
			variant[pos] = options[i][counters[i]]
		}

		out = append(out, string(variant))

		i := len(counters) - 1
		for ; i >= 0; i-- {
			counters[i]++
			if counters[i] < len(options[i]) {
				break
			}

			counters[i] = 0
		}

		if i < 0 {
			return out
		}
	}
}

// leetProduct is the full per-character option product, original
// character included, leftmost position varying slowest.
func leetProduct(base string) []string {
	out := []string{""}

	for _, r := range base {
		options := append([]rune{r}, substitutionsFor(r)...)
		next := make([]string, 0, len(out)*len(options))

		for _, prefix := range out {
			for _, opt := range options {
				next = append(next, prefix+string(opt))
			}
		}

		out = next
	}

	return out
}

func substitutionsFor(r rune) []rune {
	return leetTable[unicode.ToLower(r)]
}

func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := values[:0]

	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}

		seen[v] = struct{}{}
		out = append(out, v)
	}

	return out
}
