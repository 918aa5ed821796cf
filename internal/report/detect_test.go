package report

import (
	"strings"
	"testing"
)

func candidateLines(text string) []string {
	var out []string
	for _, c := range DetectHeadingCandidates(text) {
		out = append(out, strings.TrimSpace(c.RawText))
	}
	return out
}

func TestDetect_AcceptsPlausibleHeadings(t *testing.T) {
	text := "LIVER\nPancreas:\nGall bladder & CBD\nIMPRESSION"
	got := candidateLines(text)
	want := []string{"LIVER", "Pancreas:", "Gall bladder & CBD", "IMPRESSION"}
	if len(got) != len(want) {
		t.Fatalf("expected %d candidates, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("candidate %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestDetect_RejectsPatientHeaderLines(t *testing.T) {
	text := "Name: John Smith\nGender: male\nDate: 12/01/2026\nHistory: pain abdomen\nLIVER"
	got := candidateLines(text)
	if len(got) != 1 || got[0] != "LIVER" {
		t.Errorf("patient header lines must be rejected, got %v", got)
	}
}

func TestDetect_RejectsListAndProseLines(t *testing.T) {
	text := strings.Join([]string{
		"- normal in size and echotexture",
		"1) no focal lesion",
		"a) trace free fluid",
		"The liver is enlarged and shows coarse echotexture. No focal lesion. Portal vein is normal.",
		"....",
		"This line ends with a period and has well over seven words in it.",
	}, "\n")
	if got := candidateLines(text); len(got) != 0 {
		t.Errorf("expected no candidates, got %v", got)
	}
}

func TestDetect_RejectsLongLines(t *testing.T) {
	long := strings.Repeat("liver ", 20) // > 90 chars, > 12 words
	if got := candidateLines(long); len(got) != 0 {
		t.Errorf("over-long line must be rejected, got %v", got)
	}
}

func TestDetect_LineIndicesMatchSource(t *testing.T) {
	text := "\nLIVER\n- body\nSPLEEN\n"
	cands := DetectHeadingCandidates(text)
	if len(cands) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(cands))
	}
	if cands[0].LineIndex != 1 || cands[1].LineIndex != 3 {
		t.Errorf("wrong line indices: %d, %d", cands[0].LineIndex, cands[1].LineIndex)
	}
}

func TestNormalizeHeading(t *testing.T) {
	cases := []struct{ in, want string }{
		{"  LIVER FINDINGS:  ", "liver findings"},
		{"Gall-bladder & C.B.D.", "gall bladder c b d"},
		{"", ""},
		{"***", ""},
	}
	for _, c := range cases {
		if got := normalizeHeading(c.in); got != c.want {
			t.Errorf("normalizeHeading(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
