package report

// genderDefaults is the immutable default sentence bank for one gender,
// plus the verbatim boilerplate strings that must match the paper/PDF
// layout exactly.
type genderDefaults struct {
	// Title printed at the top of the canonical report.
	Title string
	// Fields maps field id to its default sentence. A field absent here
	// simply does not exist for the gender.
	Fields map[string]string
	// ImpressionLabel prefixes the impression body unless the body already
	// carries its own label.
	ImpressionLabel string
	// Banner is the fixed end-of-report line.
	Banner string
	// Disclaimer is the fixed legal/limitations line.
	Disclaimer string
}

// Heading text emitted by the builder for each section, and matched back
// verbatim by the canonical section extractor. The IMPRESSION section is
// label-driven and has no entry here.
var canonicalHeadings = map[SectionKey]string{
	SectionLiver:      "Liver :",
	SectionGallCBD:    "Gall bladder & CBD :",
	SectionPancreas:   "Pancreas :",
	SectionSpleen:     "Spleen :",
	SectionKidneys:    "Kidneys :",
	SectionBladder:    "Urinary bladder :",
	SectionProstate:   "Prostate :",
	SectionUterus:     "Uterus :",
	SectionAdnexa:     "Adnexa :",
	SectionPelvic:     "Pelvis :",
	SectionPeritoneum: "Peritoneal cavity :",
	SectionLymph:      "Lymph nodes :",
	SectionNote:       "Note :",
}

// Placeholders used when patient info is missing.
const (
	placeholderName = "____________________"
	placeholderSex  = "______"
	placeholderDate = "__/__/____"
)

var maleDefaults = genderDefaults{
	Title: "ULTRASOUND STUDY OF THE WHOLE ABDOMEN",
	Fields: map[string]string{
		"liver_main":       "Liver is normal in size and echotexture. No focal parenchymal lesion is seen.",
		"gallbladder_main": "Gall bladder is well distended with anechoic lumen. Wall thickness is normal. No calculus is seen.",
		"cbd_main":         "CBD is not dilated.",
		"pancreas_main":    "Pancreas is normal in size and echotexture. No peripancreatic collection.",
		"spleen_main":      "Spleen is normal in size and echotexture.",
		"kidneys_main":     "Both kidneys are normal in size, shape and position. No calculus or hydronephrosis.",
		"kidneys_cmd":      "Corticomedullary differentiation is well maintained on both sides.",
		"bladder_main":     "Urinary bladder is well distended with clear lumen. Wall thickness is normal.",
		"prostate_main":    "Prostate is normal in size and echotexture. No focal lesion is seen.",
		"peritoneum_main":  "No free fluid is seen in the peritoneal cavity.",
		"lymph_main":       "No significant abdominal lymphadenopathy.",
		"impression_main":  "Normal study of the whole abdomen.",
	},
	ImpressionLabel: "IMPRESSION:",
	Banner:          "*** End of report — whole abdomen study ***",
	Disclaimer:      "Ultrasound is operator and patient dependent; findings should be correlated clinically.",
}

var femaleDefaults = genderDefaults{
	Title: "ULTRASOUND STUDY OF THE WHOLE ABDOMEN & PELVIS",
	Fields: map[string]string{
		"liver_main":       "Liver is normal in size and echotexture. No focal parenchymal lesion is seen.",
		"gallbladder_main": "Gall bladder is partially distended. No obvious calculus or wall thickening is seen.",
		"cbd_main":         "CBD is not dilated.",
		"pancreas_main":    "Pancreas is normal in size and echotexture. No peripancreatic collection.",
		"spleen_main":      "Spleen is normal in size and echotexture.",
		"kidneys_main":     "Both kidneys are normal in size, shape and position. No calculus or hydronephrosis.",
		"kidneys_cmd":      "Corticomedullary differentiation is well maintained on both sides.",
		"bladder_main":     "Urinary bladder is well distended with clear lumen. Wall thickness is normal.",
		"uterus_main":      "Uterus is anteverted, normal in size and echotexture. Endometrial echo is central and regular.",
		"adnexa_main":      "Both ovaries are normal in size and echotexture. No adnexal mass is seen.",
		"pelvic_main":      "No free fluid is seen in the pouch of Douglas.",
		"peritoneum_main":  "No free fluid is seen in the peritoneal cavity.",
		"lymph_main":       "No significant abdominal or pelvic lymphadenopathy.",
		"impression_main":  "Normal study of the whole abdomen and pelvis.",
	},
	ImpressionLabel: "Significant findings :",
	Banner:          "*** End of report — whole abdomen & pelvis study ***",
	Disclaimer:      "Ultrasound is operator and patient dependent; findings should be correlated clinically.",
}

func defaultsFor(g Gender) genderDefaults {
	if g == GenderFemale {
		return femaleDefaults
	}
	return maleDefaults
}
