package report

// Gender selects which default sentence bank, section set and boilerplate
// strings the builder uses.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// SectionKey identifies one canonical report section.
type SectionKey string

const (
	SectionLiver           SectionKey = "LIVER"
	SectionGallCBD         SectionKey = "GALL_CBD"
	SectionPancreas        SectionKey = "PANCREAS"
	SectionSpleen          SectionKey = "SPLEEN"
	SectionKidneys         SectionKey = "KIDNEYS"
	SectionBladder         SectionKey = "BLADDER"
	SectionProstate        SectionKey = "PROSTATE"
	SectionUterus          SectionKey = "UTERUS"
	SectionAdnexa          SectionKey = "ADNEXA"
	SectionPelvic          SectionKey = "PELVIC"
	SectionPeritoneum      SectionKey = "PERITONEUM"
	SectionLymph           SectionKey = "LYMPH"
	SectionPeritoneumNodes SectionKey = "PERITONEUM_NODES"
	SectionImpression      SectionKey = "IMPRESSION"
	SectionNote            SectionKey = "NOTE"
)

// SectionOrder is the stable enumeration order of the taxonomy. Document
// order over the keys actually present is derived from it, and classifier
// ties are broken in its favor.
var SectionOrder = []SectionKey{
	SectionLiver,
	SectionGallCBD,
	SectionPancreas,
	SectionSpleen,
	SectionKidneys,
	SectionBladder,
	SectionProstate,
	SectionUterus,
	SectionAdnexa,
	SectionPelvic,
	SectionPeritoneum,
	SectionLymph,
	SectionPeritoneumNodes,
	SectionImpression,
	SectionNote,
}

// sectionFields declares, per section, the ordered field identifiers the
// section body is assembled from. A section is "overridden" when any of its
// fields carries a non-blank value.
var sectionFields = map[SectionKey][]string{
	SectionLiver:           {"liver_main"},
	SectionGallCBD:         {"gallbladder_main", "cbd_main"},
	SectionPancreas:        {"pancreas_main"},
	SectionSpleen:          {"spleen_main"},
	SectionKidneys:         {"kidneys_main", "kidneys_cmd"},
	SectionBladder:         {"bladder_main"},
	SectionProstate:        {"prostate_main"},
	SectionUterus:          {"uterus_main"},
	SectionAdnexa:          {"adnexa_main"},
	SectionPelvic:          {"pelvic_main"},
	SectionPeritoneum:      {"peritoneum_main"},
	SectionLymph:           {"lymph_main"},
	SectionPeritoneumNodes: {"peritoneum_main", "lymph_main"},
	SectionImpression:      {"impression_main"},
	SectionNote:            {"note_main"},
}

// SectionFields returns the ordered dependent field ids for a section.
func SectionFields(key SectionKey) []string {
	return sectionFields[key]
}

// maleOnly and femaleOnly mark sections that are anatomically inapplicable
// to the other gender. Everything else applies to both.
var (
	maleOnly   = map[SectionKey]bool{SectionProstate: true}
	femaleOnly = map[SectionKey]bool{SectionUterus: true, SectionAdnexa: true}
)

// SectionApplicable reports whether a section can appear in a report for
// the given gender.
func SectionApplicable(key SectionKey, g Gender) bool {
	if maleOnly[key] {
		return g == GenderMale
	}
	if femaleOnly[key] {
		return g == GenderFemale
	}
	return true
}

// OrganState is a qualitative per-organ risk flag supplied alongside field
// overrides. It only forces safety behavior; it never authors text.
type OrganState string

const (
	OrganNormal   OrganState = "normal"
	OrganHighRisk OrganState = "high_risk"
)

// organSections maps an organ identifier to the canonical sections its
// state flag bears on. The peritoneal cavity additionally maps into the
// PELVIC section for female anatomy.
var organSections = map[string][]SectionKey{
	"liver":             {SectionLiver},
	"gallbladder":       {SectionGallCBD},
	"pancreas":          {SectionPancreas},
	"spleen":            {SectionSpleen},
	"kidneys":           {SectionKidneys},
	"bladder":           {SectionBladder},
	"prostate":          {SectionProstate},
	"uterus":            {SectionUterus},
	"adnexa":            {SectionAdnexa},
	"peritoneal_cavity": {SectionPeritoneum},
	"lymph_nodes":       {SectionLymph},
}

// KnownOrgan reports whether the organ identifier is part of the taxonomy.
func KnownOrgan(organ string) bool {
	_, ok := organSections[organ]
	return ok
}

// OrganSections returns the canonical sections an organ's state maps into
// for the given gender. Unknown organs map to nothing.
func OrganSections(organ string, g Gender) []SectionKey {
	keys, ok := organSections[organ]
	if !ok {
		return nil
	}
	if organ == "peritoneal_cavity" && g == GenderFemale {
		keys = append(append([]SectionKey{}, keys...), SectionPelvic)
	}
	out := make([]SectionKey, 0, len(keys))
	for _, k := range keys {
		if SectionApplicable(k, g) {
			out = append(out, k)
		}
	}
	return out
}
