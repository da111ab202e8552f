// Package textclean removes OCR artifacts from extracted text.
//
// Faxed and rescanned documents produce separator rows, runaway character
// runs, and repeated lines. Clean caps those while preserving short
// legitimate repeats such as drug-name patterns.
package textclean

import (
	"strings"
	"unicode"
)

// DefaultMaxConsecutive is the default cap on character runs and repeated lines.
const DefaultMaxConsecutive = 20

// minSeparatorRun is the length at which a single-character line counts as a
// separator row (e.g. "-----", "=====").
const minSeparatorRun = 5

// Clean removes OCR artifacts, line by line:
//
//  1. Separator lines (a single non-alphanumeric character repeated at least
//     five times with no other content) are dropped.
//  2. Runs of the same character longer than maxConsecutive are collapsed to
//     exactly maxConsecutive occurrences.
//  3. Consecutive duplicate lines beyond maxConsecutive repetitions are dropped.
//
// Clean is pure and idempotent: Clean(Clean(x)) == Clean(x).
func Clean(text string, maxConsecutive int) string {
	if maxConsecutive < 1 {
		maxConsecutive = DefaultMaxConsecutive
	}

	lines := strings.Split(text, "\n")
	cleaned := make([]string, 0, len(lines))

	prevLine := ""
	havePrev := false
	repeatCount := 0

	for _, line := range lines {
		if isSeparatorLine(strings.TrimSpace(line)) {
			continue
		}

		line = collapseRuns(line, maxConsecutive)

		if havePrev && line == prevLine {
			repeatCount++
			if repeatCount > maxConsecutive {
				continue
			}
		} else {
			repeatCount = 1
			prevLine = line
			havePrev = true
		}

		cleaned = append(cleaned, line)
	}

	return strings.Join(cleaned, "\n")
}

// isSeparatorLine reports whether s consists of one non-alphanumeric
// character repeated at least minSeparatorRun times and nothing else.
// Letter and digit runs are left to collapseRuns so that runaway OCR noise
// like "aaaa..." is capped, not deleted.
func isSeparatorLine(s string) bool {
	runes := []rune(s)
	if len(runes) < minSeparatorRun {
		return false
	}
	if unicode.IsLetter(runes[0]) || unicode.IsDigit(runes[0]) {
		return false
	}
	for _, r := range runes[1:] {
		if r != runes[0] {
			return false
		}
	}
	return true
}

// collapseRuns caps any run of a single repeated character at max occurrences.
func collapseRuns(s string, max int) string {
	var b strings.Builder
	b.Grow(len(s))

	var prev rune
	runLen := 0
	for i, r := range s {
		if i > 0 && r == prev {
			runLen++
		} else {
			runLen = 1
			prev = r
		}
		if runLen <= max {
			b.WriteRune(r)
		}
	}
	return b.String()
}
