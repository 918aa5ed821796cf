package report

import (
	"strings"
)

// PatientInfo is the demographic header of a report. Blank values fall back
// to literal placeholders so the printed layout stays aligned.
type PatientInfo struct {
	Name        string `json:"name"`
	GenderLabel string `json:"gender_label"`
	Date        string `json:"date"`
}

// BuildInput are the inputs of the canonical report builder. Overrides maps
// field id to free text; blank or absent means "use the medical default for
// the active gender". Suppress lists field ids to omit outright.
type BuildInput struct {
	Gender    Gender
	Patient   PatientInfo
	Overrides map[string]string
	Suppress  []string
}

// BuildCanonical produces the fully formed reference report. It is a pure
// function of its inputs and is always safe to call as a fallback.
func BuildCanonical(in BuildInput) string {
	d := defaultsFor(in.Gender)
	suppressed := make(map[string]bool, len(in.Suppress))
	for _, f := range in.Suppress {
		suppressed[f] = true
	}

	lines := []string{
		d.Title,
		"",
		"Name : " + orPlaceholder(in.Patient.Name, placeholderName),
		"Sex : " + orPlaceholder(in.Patient.GenderLabel, placeholderSex),
		"Date : " + orPlaceholder(in.Patient.Date, placeholderDate),
		"",
	}

	for _, key := range SectionOrder {
		if key == SectionPeritoneumNodes {
			// Composite key: its content is synthesized by the extractor
			// from PERITONEUM and LYMPH, never printed on its own.
			continue
		}
		if !SectionApplicable(key, in.Gender) {
			continue
		}
		body := resolveSectionBody(key, in.Gender, in.Overrides, suppressed)
		if body == "" {
			continue
		}
		if key == SectionImpression {
			lines = append(lines, "", labelImpression(body, d.ImpressionLabel))
			continue
		}
		lines = append(lines, canonicalHeadings[key]+" "+body)
	}

	lines = append(lines, "", d.Banner, d.Disclaimer)
	return strings.Join(lines, "\n")
}

// resolveSectionBody joins the section's resolved field fragments with the
// period-enforcement rule and a single space.
func resolveSectionBody(key SectionKey, g Gender, overrides map[string]string, suppressed map[string]bool) string {
	d := defaultsFor(g)
	var parts []string
	for _, field := range sectionFields[key] {
		if suppressed[field] {
			continue
		}
		text := strings.TrimSpace(overrides[field])
		if text == "" {
			text = d.Fields[field]
		}
		if text = ensurePeriod(text); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " ")
}

// ensurePeriod appends a terminating period unless the fragment already
// ends in sentence punctuation. Empty fragments are dropped.
func ensurePeriod(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	switch s[len(s)-1] {
	case '.', '!', '?':
		return s
	}
	return s + "."
}

// impressionSelfLabels are prefixes of bodies that already carry a label.
var impressionSelfLabels = []string{"impression", "conclusion", "significant findings"}

// labelImpression prefixes the impression body with the gender-specific
// label unless the body already starts with one of its own.
func labelImpression(body, label string) string {
	lower := strings.ToLower(strings.TrimSpace(body))
	for _, p := range impressionSelfLabels {
		if strings.HasPrefix(lower, p) {
			return body
		}
	}
	return label + " " + body
}

func orPlaceholder(s, placeholder string) string {
	if strings.TrimSpace(s) == "" {
		return placeholder
	}
	return s
}
