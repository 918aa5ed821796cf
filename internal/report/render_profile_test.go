package report

import (
	"strings"
	"testing"
)

func thyroidProfile(t *testing.T) *Profile {
	t.Helper()
	p := SanitizeProfile([]byte(`{
		"sections": [
			{"id": "thyroid", "heading": "Thyroid gland", "depends_on": ["right_lobe", "left_lobe"]},
			{"id": "nodes", "heading": "Neck nodes", "depends_on": ["cervical_nodes"]}
		],
		"fields": [
			{"id": "right_lobe", "label": "Right lobe", "type": "measurement", "section_id": "thyroid"},
			{"id": "left_lobe", "label": "Left lobe", "type": "measurement", "section_id": "thyroid"},
			{"id": "cervical_nodes", "label": "Cervical nodes", "type": "text", "section_id": "nodes"}
		]
	}`))
	if p == nil {
		t.Fatal("fixture profile failed to sanitize")
	}
	return p
}

const thyroidTemplate = `THYROID GLAND
- within normal limits

NECK NODES
- none seen
`

func TestRenderProfile_FillsSectionFromFields(t *testing.T) {
	p := thyroidProfile(t)
	res := RenderProfile(p, thyroidTemplate, map[string]string{
		"right_lobe": "4.8 x 1.8 x 1.6 cm",
		"left_lobe":  "4.5 x 1.7 x 1.5 cm",
	})
	if res.SectionsDetected != 2 {
		t.Errorf("expected 2 sections detected, got %d", res.SectionsDetected)
	}
	if res.SectionsReplaced != 1 {
		t.Errorf("expected 1 section replaced, got %d", res.SectionsReplaced)
	}
	if !strings.Contains(res.Text, "- Right lobe: 4.8 x 1.8 x 1.6 cm") {
		t.Errorf("label:value line missing or style lost:\n%s", res.Text)
	}
	if !strings.Contains(res.Text, "NECK NODES\n- none seen") {
		t.Errorf("section without values must stay untouched:\n%s", res.Text)
	}
}

func TestRenderProfile_MatchesByNormalizedHeadingOnly(t *testing.T) {
	p := thyroidProfile(t)
	// A near-miss heading must not match; no classifier fallback exists.
	res := RenderProfile(p, "THYROID STUDY\n- normal\n", map[string]string{
		"right_lobe": "4.8 cm",
	})
	if res.SectionsDetected != 0 || res.SectionsReplaced != 0 {
		t.Errorf("profile matching must be exact: %+v", res)
	}
	if res.Text != "THYROID STUDY\n- normal\n" {
		t.Error("unmatched template must pass through unchanged")
	}
}

func TestRenderProfile_NoValuesIsPassthrough(t *testing.T) {
	p := thyroidProfile(t)
	res := RenderProfile(p, thyroidTemplate, nil)
	if res.Text != thyroidTemplate {
		t.Errorf("no-value render must be byte-identical:\n%q", res.Text)
	}
	if res.SectionsReplaced != 0 {
		t.Errorf("expected 0 replacements, got %d", res.SectionsReplaced)
	}
	if res.ForcedCanonicalFallback {
		t.Error("profile rendering never falls back to the canonical report")
	}
}

func TestRenderProfile_NilProfilePassthrough(t *testing.T) {
	res := RenderProfile(nil, "anything\n", map[string]string{"x": "y"})
	if res.Text != "anything\n" {
		t.Error("nil profile must be a passthrough")
	}
}
