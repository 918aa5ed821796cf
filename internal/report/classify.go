package report

import (
	"strings"
)

// Keyword score weights. Carried over verbatim from the legacy matcher;
// see DESIGN.md before changing them.
const (
	scoreExact     = 6
	scorePrefix    = 4
	scoreSubstring = 2
	scoreComposite = 6
	scoreThreshold = 2
)

// sectionKeywords is the fixed keyword bank the classifier scores against,
// in taxonomy enumeration order semantics (ties favor earlier keys).
var sectionKeywords = map[SectionKey][]string{
	SectionLiver:           {"liver", "hepatic", "liver findings"},
	SectionGallCBD:         {"gall bladder", "gallbladder", "gb", "cbd", "biliary", "gall bladder and cbd"},
	SectionPancreas:        {"pancreas", "pancreatic"},
	SectionSpleen:          {"spleen", "splenic"},
	SectionKidneys:         {"kidneys", "kidney", "renal", "kub"},
	SectionBladder:         {"urinary bladder", "bladder", "ub"},
	SectionProstate:        {"prostate"},
	SectionUterus:          {"uterus", "uterine"},
	SectionAdnexa:          {"adnexa", "adnexae", "ovaries", "ovary"},
	SectionPelvic:          {"pelvis", "pelvic", "pouch of douglas", "pod"},
	SectionPeritoneum:      {"peritoneal cavity", "peritoneum", "peritoneal", "ascites", "free fluid"},
	SectionLymph:           {"lymph nodes", "lymphadenopathy", "lymph", "nodes"},
	SectionPeritoneumNodes: {"peritoneal cavity", "lymph nodes", "nodes"},
	SectionImpression:      {"impression", "conclusion", "significant findings", "opinion"},
	SectionNote:            {"note", "remarks", "comment"},
}

var (
	peritoneumTerms = []string{"peritoneum", "peritoneal", "ascites"}
	nodeTerms       = []string{"lymph", "node", "nodes"}
)

// ClassifyHeading scores a candidate line against the taxonomy and returns
// the best key, or ok=false when no key reaches the score threshold. Ties
// favor the first key in enumeration order.
func ClassifyHeading(line string) (SectionKey, bool) {
	norm := normalizeHeading(line)
	if norm == "" {
		return "", false
	}

	var best SectionKey
	bestScore := 0
	for _, key := range SectionOrder {
		score := scoreAgainst(norm, key)
		if score > bestScore {
			best, bestScore = key, score
		}
	}
	if bestScore < scoreThreshold {
		return "", false
	}
	return best, true
}

func scoreAgainst(norm string, key SectionKey) int {
	score := 0
	for _, kw := range sectionKeywords[key] {
		switch {
		case norm == kw:
			score += scoreExact
		case strings.HasPrefix(norm, kw) || strings.HasSuffix(norm, kw):
			score += scorePrefix
		case strings.Contains(norm, kw):
			score += scoreSubstring
		}
	}
	if key == SectionPeritoneumNodes && containsAny(norm, peritoneumTerms) && containsAny(norm, nodeTerms) {
		score += scoreComposite
	}
	return score
}

func containsAny(s string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}
