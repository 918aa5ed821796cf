package report

import (
	"strings"
	"testing"
)

func TestExtract_RoundTripsBuilderOutput(t *testing.T) {
	canonical := BuildCanonical(BuildInput{
		Gender:    GenderMale,
		Overrides: map[string]string{"liver_main": "Grade I fatty liver"},
	})
	sections := ExtractCanonicalSections(canonical, GenderMale)

	if got := sections[SectionLiver]; got != "Grade I fatty liver." {
		t.Errorf("liver section: got %q", got)
	}
	if sections[SectionPancreas] == "" {
		t.Error("pancreas default missing from extraction")
	}
	if sections[SectionProstate] == "" {
		t.Error("prostate section missing from male extraction")
	}
	if sections[SectionUterus] != "" {
		t.Error("uterus must not extract from a male report")
	}
}

func TestExtract_ImpressionByLabel(t *testing.T) {
	male := BuildCanonical(BuildInput{Gender: GenderMale})
	sections := ExtractCanonicalSections(male, GenderMale)
	if !strings.Contains(sections[SectionImpression], "Normal study") {
		t.Errorf("impression not extracted: %q", sections[SectionImpression])
	}
}

func TestExtract_FemalePelvicSynthesis(t *testing.T) {
	// The female canonical report carries an explicit pelvis line, so
	// remove it first to exercise the synthesis path.
	canonical := BuildCanonical(BuildInput{
		Gender:   GenderFemale,
		Suppress: []string{"pelvic_main"},
	})
	sections := ExtractCanonicalSections(canonical, GenderFemale)

	pelvic := sections[SectionPelvic]
	if !strings.Contains(pelvic, "Uterus is anteverted") || !strings.Contains(pelvic, "Both ovaries are normal") {
		t.Errorf("pelvic synthesis from uterus+adnexa failed: %q", pelvic)
	}
}

func TestExtract_PeritoneumNodesMerge(t *testing.T) {
	canonical := BuildCanonical(BuildInput{Gender: GenderMale})
	sections := ExtractCanonicalSections(canonical, GenderMale)

	merged := sections[SectionPeritoneumNodes]
	if !strings.Contains(merged, "peritoneal cavity") || !strings.Contains(merged, "lymphadenopathy") {
		t.Errorf("composite merge incomplete: %q", merged)
	}
}

func TestExtract_BannerAndDisclaimerExcluded(t *testing.T) {
	canonical := BuildCanonical(BuildInput{Gender: GenderFemale})
	sections := ExtractCanonicalSections(canonical, GenderFemale)
	for key, text := range sections {
		if strings.Contains(text, "End of report") {
			t.Errorf("%s section leaked the banner: %q", key, text)
		}
	}
}
