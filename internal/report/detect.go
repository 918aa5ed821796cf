package report

import (
	"regexp"
	"strings"
	"unicode"
)

// HeadingCandidate is a line structurally eligible to be a section heading.
// Candidates are recomputed per render and never persisted.
type HeadingCandidate struct {
	LineIndex int
	RawText   string
}

const (
	maxHeadingLen   = 90
	maxHeadingWords = 12
	// A line ending in sentence punctuation with more words than this is
	// prose, not a heading.
	maxTerminatedHeadingWords = 7
	maxHeadingPunct           = 2
)

var (
	patientHeaderRe = regexp.MustCompile(`(?i)^\s*(name|age|sex|gender|date|history|patient|ref(\.|erred|erring)?\s*(by|dr|doctor)?)\s*[:\-]`)
	listMarkerRe    = regexp.MustCompile(`^\s*([-*•>]|\d+[.)]|[a-zA-Z][.)])\s`)
)

// DetectHeadingCandidates scans template text and flags lines that are
// structurally plausible section headings. The filter is deliberately
// over-inclusive: later stages narrow further, but a line rejected here can
// never be recovered as a heading.
func DetectHeadingCandidates(text string) []HeadingCandidate {
	var candidates []HeadingCandidate
	for i, line := range strings.Split(text, "\n") {
		if plausibleHeading(line) {
			candidates = append(candidates, HeadingCandidate{LineIndex: i, RawText: line})
		}
	}
	return candidates
}

func plausibleHeading(line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || len(trimmed) > maxHeadingLen {
		return false
	}
	words := len(strings.Fields(trimmed))
	if words > maxHeadingWords {
		return false
	}
	if patientHeaderRe.MatchString(trimmed) {
		return false
	}
	if listMarkerRe.MatchString(line) {
		return false
	}
	if isPunctOnly(trimmed) {
		return false
	}
	if countAny(trimmed, ".!?") >= 2 {
		return false
	}
	if countPunct(trimmed) > maxHeadingPunct {
		return false
	}
	if endsInSentencePunct(trimmed) && words > maxTerminatedHeadingWords {
		return false
	}
	return true
}

func isPunctOnly(s string) bool {
	for _, r := range s {
		if !unicode.IsPunct(r) && !unicode.IsSymbol(r) && !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}

func countAny(s, chars string) int {
	n := 0
	for _, r := range s {
		if strings.ContainsRune(chars, r) {
			n++
		}
	}
	return n
}

func countPunct(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsPunct(r) {
			n++
		}
	}
	return n
}

func endsInSentencePunct(s string) bool {
	if s == "" {
		return false
	}
	switch s[len(s)-1] {
	case '.', '!', '?':
		return true
	}
	return false
}

var nonAlnumRe = regexp.MustCompile(`[^a-z0-9]+`)

// normalizeHeading lowercases a heading line and collapses every run of
// non-alphanumeric characters into a single space. It is the comparison
// primitive shared by the resolver and the profile renderer.
func normalizeHeading(s string) string {
	s = strings.ToLower(s)
	s = nonAlnumRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
