package report

import (
	"testing"
)

func TestClassify_ExactHeadings(t *testing.T) {
	cases := []struct {
		line string
		want SectionKey
	}{
		{"LIVER", SectionLiver},
		{"Pancreas:", SectionPancreas},
		{"Gall bladder", SectionGallCBD},
		{"KIDNEYS", SectionKidneys},
		{"Urinary Bladder", SectionBladder},
		{"PROSTATE", SectionProstate},
		{"Uterus", SectionUterus},
		{"IMPRESSION", SectionImpression},
		{"Note", SectionNote},
	}
	for _, c := range cases {
		got, ok := ClassifyHeading(c.line)
		if !ok {
			t.Errorf("ClassifyHeading(%q): no match, want %s", c.line, c.want)
			continue
		}
		if got != c.want {
			t.Errorf("ClassifyHeading(%q) = %s, want %s", c.line, got, c.want)
		}
	}
}

func TestClassify_PrefixAndSuffixForms(t *testing.T) {
	got, ok := ClassifyHeading("LIVER FINDINGS")
	if !ok || got != SectionLiver {
		t.Errorf("prefix form: got %v %v", got, ok)
	}
	got, ok = ClassifyHeading("B/L KIDNEYS")
	if !ok || got != SectionKidneys {
		t.Errorf("suffix form: got %v %v", got, ok)
	}
}

func TestClassify_NoMatchBelowThreshold(t *testing.T) {
	for _, line := range []string{"", "FINDINGS", "Technique", "Measurements"} {
		if got, ok := ClassifyHeading(line); ok {
			t.Errorf("ClassifyHeading(%q) = %s, want no match", line, got)
		}
	}
}

func TestClassify_CompositePeritoneumNodesBonus(t *testing.T) {
	got, ok := ClassifyHeading("Peritoneal cavity & lymph nodes")
	if !ok || got != SectionPeritoneumNodes {
		t.Errorf("composite heading: got %v ok=%v, want PERITONEUM_NODES", got, ok)
	}
}

func TestClassify_PlainPeritoneumStaysSimple(t *testing.T) {
	got, ok := ClassifyHeading("Peritoneal cavity")
	if !ok || got != SectionPeritoneum {
		t.Errorf("got %v ok=%v, want PERITONEUM", got, ok)
	}
}

func TestClassify_TieFavorsEnumerationOrder(t *testing.T) {
	// "free fluid pod" scores PELVIC (pod suffix +4) and PERITONEUM
	// ("free fluid" prefix +4) equally; PELVIC comes first in the taxonomy.
	got, ok := ClassifyHeading("free fluid pod")
	if !ok || got != SectionPelvic {
		t.Errorf("tie-break: got %v ok=%v, want PELVIC", got, ok)
	}
}
