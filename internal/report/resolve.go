package report

import (
	"sort"
	"strings"
)

// Assignment binds a canonical section key to one line of the template.
// At most one assignment per key, at most one key per line index.
type Assignment struct {
	Key             SectionKey
	LineIndex       int
	HeadingLineText string
}

// ResolveSections assigns canonical keys to template lines. The explicit
// user mapping is authoritative; keys it leaves unresolved fall back to the
// heuristic candidate/classifier path. Returns assignments sorted by line
// index, and whether any fallback detection was used.
func ResolveSections(lines []string, mapping map[SectionKey]string, candidates []HeadingCandidate) ([]Assignment, bool) {
	assigned := make(map[SectionKey]Assignment)
	usedLines := make(map[int]bool)

	// Explicit pass: normalized equality against the mapped heading text.
	for _, key := range SectionOrder {
		heading := strings.TrimSpace(mapping[key])
		if heading == "" {
			continue
		}
		want := normalizeHeading(heading)
		if want == "" {
			continue
		}
		for i, line := range lines {
			if usedLines[i] {
				continue
			}
			if normalizeHeading(line) == want {
				assigned[key] = Assignment{Key: key, LineIndex: i, HeadingLineText: line}
				usedLines[i] = true
				break
			}
		}
	}

	// Fallback pass: classify remaining candidates in document order.
	usedFallback := false
	for _, key := range SectionOrder {
		if _, ok := assigned[key]; ok {
			continue
		}
		for _, cand := range candidates {
			if usedLines[cand.LineIndex] {
				continue
			}
			got, ok := ClassifyHeading(cand.RawText)
			if !ok || got != key {
				continue
			}
			assigned[key] = Assignment{Key: key, LineIndex: cand.LineIndex, HeadingLineText: cand.RawText}
			usedLines[cand.LineIndex] = true
			usedFallback = true
			break
		}
	}

	out := make([]Assignment, 0, len(assigned))
	for _, a := range assigned {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LineIndex < out[j].LineIndex })
	return out, usedFallback
}
