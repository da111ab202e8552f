package textclean

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanCollapsesCharacterRuns(t *testing.T) {
	got := Clean(strings.Repeat("a", 50), 20)
	assert.Equal(t, strings.Repeat("a", 20), got)
}

func TestCleanKeepsShortRuns(t *testing.T) {
	// Legitimate short repeats, e.g. drug-name patterns, survive.
	assert.Equal(t, "aaaa", Clean("aaaa", 20))
}

func TestCleanDropsSeparatorLines(t *testing.T) {
	input := "heading\n-----\nbody\n=====\ntail"
	assert.Equal(t, "heading\nbody\ntail", Clean(input, 20))
}

func TestCleanKeepsShortSeparators(t *testing.T) {
	// Four characters is below the separator threshold.
	assert.Equal(t, "----", Clean("----", 20))
}

func TestCleanCapsDuplicateLines(t *testing.T) {
	input := strings.TrimSuffix(strings.Repeat("Patient\n", 50), "\n") + "\nhas diabetes"
	got := Clean(input, 20)

	count := strings.Count(got, "Patient")
	assert.Equal(t, 20, count)
	assert.True(t, strings.HasSuffix(got, "has diabetes"))
}

func TestCleanPassesCleanTextThrough(t *testing.T) {
	input := "Patient presents with acute abdominal pain.\nVitals stable.\nPlan: imaging."
	assert.Equal(t, input, Clean(input, 20))
}

func TestCleanIsIdempotent(t *testing.T) {
	inputs := []string{
		strings.Repeat("a", 50),
		"-----\nbody\n-----",
		strings.Repeat("Patient\n", 50),
		"x\n\n\ny",
		"normal text\nwith lines",
		strings.Repeat("ab", 40),
	}
	for _, in := range inputs {
		once := Clean(in, 20)
		twice := Clean(once, 20)
		require.Equal(t, once, twice, "Clean not idempotent for %q", in)
	}
}

func TestCleanZeroMaxUsesDefault(t *testing.T) {
	got := Clean(strings.Repeat("a", 50), 0)
	assert.Equal(t, strings.Repeat("a", DefaultMaxConsecutive), got)
}

func TestCleanMultiByteRuns(t *testing.T) {
	got := Clean(strings.Repeat("é", 30), 10)
	assert.Equal(t, strings.Repeat("é", 10), got)
}
