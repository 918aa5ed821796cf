package report

import (
	"fmt"
	"sort"
	"strings"
)

// RenderInput is everything one render pass needs. The engine holds no
// state across calls.
type RenderInput struct {
	TemplateText string
	Mapping      map[SectionKey]string
	Overrides    map[string]string
	OrganStates  map[string]OrganState
	Gender       Gender
	Patient      PatientInfo
	Suppress     []string
}

// Result is the render outcome. The counters and flags are telemetry for
// the surrounding application, not control flow.
type Result struct {
	Text                    string `json:"text"`
	SectionsDetected        int    `json:"sections_detected"`
	SectionsReplaced        int    `json:"sections_replaced"`
	UsedFallbackDetection   bool   `json:"used_fallback_detection"`
	ForcedCanonicalFallback bool   `json:"forced_canonical_fallback,omitempty"`
	FallbackReason          string `json:"fallback_reason,omitempty"`
}

// RenderTemplate merges canonical section content into a user-supplied
// template, preserving the template's formatting. When a safe partial edit
// is impossible it substitutes the entire canonical report instead; the
// engine never fails outright.
func RenderTemplate(in RenderInput) Result {
	canonical := BuildCanonical(BuildInput{
		Gender:    in.Gender,
		Patient:   in.Patient,
		Overrides: in.Overrides,
		Suppress:  in.Suppress,
	})
	sections := ExtractCanonicalSections(canonical, in.Gender)

	lines := strings.Split(in.TemplateText, "\n")
	candidates := DetectHeadingCandidates(in.TemplateText)
	assignments, usedFallback := ResolveSections(lines, in.Mapping, candidates)

	res := Result{
		SectionsDetected:      len(assignments),
		UsedFallbackDetection: usedFallback,
	}

	// Safety override: a high-risk finding whose canonical text has nowhere
	// to land must not be silently dropped into an unmatched template.
	if organ, key, ok := unanchoredHighRisk(in, sections, assignments); ok {
		res.Text = canonical
		res.ForcedCanonicalFallback = true
		res.FallbackReason = fmt.Sprintf("high-risk finding for %s has no matching %s section in the template", organ, key)
		return res
	}

	// Partial edits need at least one anchor.
	if len(assignments) == 0 {
		if hasAnyOverride(in) || hasHighRisk(in.OrganStates) {
			res.Text = canonical
			res.ForcedCanonicalFallback = true
			res.FallbackReason = "no template sections could be resolved"
			return res
		}
		// Nothing to place; leave the template untouched.
		res.Text = in.TemplateText
		return res
	}

	highRiskSections := highRiskSectionSet(in.OrganStates, in.Gender)

	// Splice in reverse document order so earlier indices stay valid.
	for i := len(assignments) - 1; i >= 0; i-- {
		a := assignments[i]
		bodyStart := a.LineIndex + 1
		bodyEnd := len(lines)
		if i+1 < len(assignments) {
			bodyEnd = assignments[i+1].LineIndex
		}

		hasOverrides := sectionOverridden(a.Key, in.Overrides)
		applicable := SectionApplicable(a.Key, in.Gender)
		highRisk := highRiskSections[a.Key]
		canonText := strings.TrimSpace(sections[a.Key])

		shouldForceClear := !applicable || ((hasOverrides || highRisk) && canonText == "")
		shouldReplace := shouldForceClear || ((hasOverrides || highRisk) && canonText != "")
		if !shouldReplace {
			continue
		}

		if shouldForceClear {
			// Remove the section's lines entirely, keeping one blank
			// separator in their place.
			lines = splice(lines, a.LineIndex, bodyEnd, []string{""})
			res.SectionsReplaced++
			continue
		}

		// Trailing blank lines separate this section from the next and are
		// kept out of the replacement range.
		contentEnd := bodyEnd
		for contentEnd > bodyStart && strings.TrimSpace(lines[contentEnd-1]) == "" {
			contentEnd--
		}

		st := detectLineStyle(lines[bodyStart:contentEnd])
		replacement := styleReplacement(st, canonText)
		lines = splice(lines, bodyStart, contentEnd, replacement)
		res.SectionsReplaced++
	}

	res.Text = strings.Join(lines, "\n")
	return res
}

// unanchoredHighRisk finds a high-risk organ state whose mapped section has
// non-blank canonical text but never resolved to any template line. Organs
// are visited in sorted order so the reported reason is deterministic.
func unanchoredHighRisk(in RenderInput, sections map[SectionKey]string, assignments []Assignment) (string, SectionKey, bool) {
	resolved := make(map[SectionKey]bool, len(assignments))
	for _, a := range assignments {
		resolved[a.Key] = true
	}
	for _, organ := range sortedOrgans(in.OrganStates) {
		if in.OrganStates[organ] != OrganHighRisk {
			continue
		}
		for _, key := range OrganSections(organ, in.Gender) {
			if strings.TrimSpace(sections[key]) == "" {
				continue
			}
			if resolved[key] {
				continue
			}
			// A combined peritoneum/nodes heading anchors either constituent.
			if (key == SectionPeritoneum || key == SectionLymph) && resolved[SectionPeritoneumNodes] {
				continue
			}
			return organ, key, true
		}
	}
	return "", "", false
}

func sortedOrgans(states map[string]OrganState) []string {
	organs := make([]string, 0, len(states))
	for o := range states {
		organs = append(organs, o)
	}
	sort.Strings(organs)
	return organs
}

func highRiskSectionSet(states map[string]OrganState, g Gender) map[SectionKey]bool {
	out := make(map[SectionKey]bool)
	for organ, state := range states {
		if state != OrganHighRisk {
			continue
		}
		for _, key := range OrganSections(organ, g) {
			out[key] = true
		}
	}
	// The composite section stands in for its constituents.
	if out[SectionPeritoneum] || out[SectionLymph] {
		out[SectionPeritoneumNodes] = true
	}
	return out
}

func hasHighRisk(states map[string]OrganState) bool {
	for _, s := range states {
		if s == OrganHighRisk {
			return true
		}
	}
	return false
}

func hasAnyOverride(in RenderInput) bool {
	for _, key := range SectionOrder {
		if sectionOverridden(key, in.Overrides) {
			return true
		}
	}
	return false
}

func sectionOverridden(key SectionKey, overrides map[string]string) bool {
	for _, field := range sectionFields[key] {
		if strings.TrimSpace(overrides[field]) != "" {
			return true
		}
	}
	return false
}

// splice replaces lines[start:end) with repl.
func splice(lines []string, start, end int, repl []string) []string {
	out := make([]string, 0, len(lines)-(end-start)+len(repl))
	out = append(out, lines[:start]...)
	out = append(out, repl...)
	out = append(out, lines[end:]...)
	return out
}
