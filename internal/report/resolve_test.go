package report

import (
	"strings"
	"testing"
)

func resolveText(text string, mapping map[SectionKey]string) ([]Assignment, bool) {
	lines := strings.Split(text, "\n")
	return ResolveSections(lines, mapping, DetectHeadingCandidates(text))
}

func TestResolve_ExplicitMappingWins(t *testing.T) {
	text := "MY LIVER SECTION\n- body\nPancreas:\n- body"
	assignments, usedFallback := resolveText(text, map[SectionKey]string{
		SectionLiver: "My Liver Section",
	})
	if len(assignments) < 1 {
		t.Fatal("expected at least the explicit assignment")
	}
	if assignments[0].Key != SectionLiver || assignments[0].LineIndex != 0 {
		t.Errorf("explicit mapping not honored: %+v", assignments[0])
	}
	// Pancreas resolves via the classifier fallback.
	if !usedFallback {
		t.Error("expected fallback detection for the unmapped pancreas line")
	}
}

func TestResolve_FallbackOnly(t *testing.T) {
	text := "Pancreas:\n- normal"
	assignments, usedFallback := resolveText(text, nil)
	if !usedFallback {
		t.Error("usedFallbackDetection must be true")
	}
	if len(assignments) != 1 || assignments[0].Key != SectionPancreas || assignments[0].LineIndex != 0 {
		t.Errorf("unexpected assignments: %+v", assignments)
	}
}

func TestResolve_NoFallbackFlagWhenExplicitCoversAll(t *testing.T) {
	text := "LIVER FINDINGS\n- body"
	assignments, usedFallback := resolveText(text, map[SectionKey]string{
		SectionLiver: "LIVER FINDINGS",
	})
	if usedFallback {
		t.Error("explicit-only resolution must not set the fallback flag")
	}
	if len(assignments) != 1 {
		t.Errorf("expected 1 assignment, got %d", len(assignments))
	}
}

func TestResolve_InjectiveAssignment(t *testing.T) {
	// Two keys explicitly mapped to the same heading text: only the first
	// taxonomy key may consume the line.
	text := "SHARED HEADING\n- body"
	assignments, _ := resolveText(text, map[SectionKey]string{
		SectionLiver:  "SHARED HEADING",
		SectionSpleen: "SHARED HEADING",
	})
	seen := make(map[int]SectionKey)
	for _, a := range assignments {
		if prev, dup := seen[a.LineIndex]; dup {
			t.Fatalf("line %d assigned to both %s and %s", a.LineIndex, prev, a.Key)
		}
		seen[a.LineIndex] = a.Key
	}
	if len(assignments) != 1 || assignments[0].Key != SectionLiver {
		t.Errorf("first enumeration key must win the shared line: %+v", assignments)
	}
}

func TestResolve_SortedByLineIndex(t *testing.T) {
	text := "IMPRESSION\n...\nLIVER\n...\nSPLEEN"
	assignments, _ := resolveText(text, nil)
	for i := 1; i < len(assignments); i++ {
		if assignments[i-1].LineIndex >= assignments[i].LineIndex {
			t.Fatalf("assignments not sorted by line index: %+v", assignments)
		}
	}
}

func TestResolve_MappingToMissingHeadingFallsBack(t *testing.T) {
	text := "Liver:\n- body"
	assignments, usedFallback := resolveText(text, map[SectionKey]string{
		SectionLiver: "HEPATIC SURVEY SECTION",
	})
	if len(assignments) != 1 || assignments[0].Key != SectionLiver {
		t.Fatalf("expected classifier fallback to rescue LIVER: %+v", assignments)
	}
	if !usedFallback {
		t.Error("fallback flag must be set")
	}
}
