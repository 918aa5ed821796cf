package report

import (
	"strings"
)

// ExtractCanonicalSections re-parses the canonical builder's own output into
// per-section replacement text. The canonical headings are known verbatim,
// so matching is by exact prefix rather than the heuristic detector. The
// result is the single source of truth for what replacement text should say.
func ExtractCanonicalSections(canonical string, g Gender) map[SectionKey]string {
	out := make(map[SectionKey]string)
	d := defaultsFor(g)

	for _, line := range strings.Split(canonical, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || trimmed == d.Banner || trimmed == d.Disclaimer {
			continue
		}
		if key, body, ok := matchCanonicalLine(trimmed, d); ok {
			if _, dup := out[key]; !dup {
				out[key] = body
			}
		}
	}

	// Composite merges. Female PELVIC synthesizes from UTERUS + ADNEXA when
	// the report carries no pelvic line of its own.
	if g == GenderFemale && strings.TrimSpace(out[SectionPelvic]) == "" {
		out[SectionPelvic] = joinNonBlank(out[SectionUterus], out[SectionAdnexa])
	}
	out[SectionPeritoneumNodes] = joinNonBlank(out[SectionPeritoneum], out[SectionLymph])

	return out
}

func matchCanonicalLine(line string, d genderDefaults) (SectionKey, string, bool) {
	for _, key := range SectionOrder {
		h, ok := canonicalHeadings[key]
		if !ok {
			continue
		}
		if strings.HasPrefix(line, h) {
			return key, strings.TrimSpace(strings.TrimPrefix(line, h)), true
		}
	}
	// The impression line is label-driven.
	lower := strings.ToLower(line)
	if strings.HasPrefix(line, d.ImpressionLabel) {
		return SectionImpression, strings.TrimSpace(strings.TrimPrefix(line, d.ImpressionLabel)), true
	}
	for _, p := range impressionSelfLabels {
		if strings.HasPrefix(lower, p) {
			return SectionImpression, line, true
		}
	}
	return "", "", false
}

func joinNonBlank(parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}
