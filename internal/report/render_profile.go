package report

import (
	"sort"
	"strings"
)

// RenderProfile is the schema-driven variant of the template renderer.
// Sections are matched purely by normalized heading-text equality against
// the user-authored profile; there is no classifier, no force-clear and no
// canonical fallback. A section with no available field values is left
// untouched.
func RenderProfile(p *Profile, templateText string, values map[string]string) Result {
	if p == nil {
		return Result{Text: templateText}
	}

	lines := strings.Split(templateText, "\n")
	usedLines := make(map[int]bool)

	type match struct {
		section   ProfileSection
		lineIndex int
	}
	var matches []match

	for _, sec := range p.Sections {
		want := normalizeHeading(sec.Heading)
		if want == "" {
			continue
		}
		for i, line := range lines {
			if usedLines[i] {
				continue
			}
			if normalizeHeading(line) == want {
				matches = append(matches, match{section: sec, lineIndex: i})
				usedLines[i] = true
				break
			}
		}
	}

	res := Result{SectionsDetected: len(matches)}

	// Matches were collected in profile order; order them by line so
	// reverse-index splicing keeps earlier indices valid.
	sort.Slice(matches, func(i, j int) bool { return matches[i].lineIndex < matches[j].lineIndex })

	for i := len(matches) - 1; i >= 0; i-- {
		m := matches[i]
		body := profileSectionBody(p, m.section, values)
		if len(body) == 0 {
			continue
		}
		bodyStart := m.lineIndex + 1
		bodyEnd := len(lines)
		if i+1 < len(matches) {
			bodyEnd = matches[i+1].lineIndex
		}
		for bodyEnd > bodyStart && strings.TrimSpace(lines[bodyEnd-1]) == "" {
			bodyEnd--
		}
		st := detectLineStyle(lines[bodyStart:bodyEnd])
		replacement := applyLineStyle(st, body)
		lines = splice(lines, bodyStart, bodyEnd, replacement)
		res.SectionsReplaced++
	}

	res.Text = strings.Join(lines, "\n")
	return res
}

// profileSectionBody builds "Label: value" lines for each non-blank
// dependent field, in depends_on order. Unresolved references are inert.
func profileSectionBody(p *Profile, sec ProfileSection, values map[string]string) []string {
	var out []string
	for _, fieldID := range sec.DependsOn {
		f := p.FieldByID(fieldID)
		if f == nil {
			continue
		}
		v := strings.TrimSpace(values[fieldID])
		if v == "" {
			continue
		}
		out = append(out, f.Label+": "+v)
	}
	return out
}
