package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "github.com/mosawalhi7/passweaver/internal/model"
)

func TestVariants_NoLeet(t *testing.T) {
	got := Variants("John", VariationSpec{})
	assert.Equal(t, []string{"john"}, got)

	got = Variants("john", VariationSpec{Case: m.CasePattern{Mode: m.CaseUpper}})
	assert.Equal(t, []string{"JOHN"}, got)
}

func TestVariants_ProgressiveSingleSubstitution(t *testing.T) {
	got := Variants("john", VariationSpec{Leet: true})

	// Only 'o' is substitutable, so depth 2 collapses to one variant.
	assert.Equal(t, []string{"john", "j0hn"}, got)
}

func TestVariants_ProgressiveDepthTwo(t *testing.T) {
	got := Variants("sam", VariationSpec{Leet: true, Policy: LeetProgressive, Depth: 2})

	want := []string{
		"sam",
		"$am", "5am", "s@m",
		"$@m", "5@m",
	}
	assert.Equal(t, want, got)
}

func TestVariants_ProgressiveDepthOne(t *testing.T) {
	got := Variants("sam", VariationSpec{Leet: true, Depth: 1})
	assert.Equal(t, []string{"sam", "$am", "5am", "s@m"}, got)
}

func TestVariants_FullProduct(t *testing.T) {
	got := Variants("sa", VariationSpec{Leet: true, Policy: LeetFull})

	want := []string{"sa", "s@", "$a", "$@", "5a", "5@"}
	assert.Equal(t, want, got)
}

func TestVariants_CaseAppliedBeforeLeet(t *testing.T) {
	got := Variants("sam", VariationSpec{
		Case:  m.CasePattern{Mode: m.CasePositions, Positions: []int{1}},
		Leet:  true,
		Depth: 1,
	})

	// Substitution looks at the cased rendering; untouched runes keep it.
	assert.Equal(t, []string{"Sam", "$am", "5am", "S@m"}, got)
}

func TestVariants_NoEligibleRunes(t *testing.T) {
	got := Variants("xyz", VariationSpec{Leet: true})
	assert.Equal(t, []string{"xyz"}, got)
}

func TestVariants_Deterministic(t *testing.T) {
	spec := VariationSpec{Leet: true, Policy: LeetFull}

	first := Variants("sos", spec)
	second := Variants("sos", spec)

	require.Equal(t, first, second)

	seen := make(map[string]struct{}, len(first))
	for _, v := range first {
		_, dup := seen[v]
		assert.False(t, dup, "duplicate variant %q", v)
		seen[v] = struct{}{}
	}
}
