package report

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// Size caps enforced by the profile sanitizer.
const (
	maxProfileSections  = 48
	maxProfileFields    = 160
	maxSectionDepends   = 64
	maxProfileStringLen = 200
)

// FieldType is the closed set of profile field types.
type FieldType string

const (
	FieldText        FieldType = "text"
	FieldNumber      FieldType = "number"
	FieldBoolean     FieldType = "boolean"
	FieldMeasurement FieldType = "measurement"
)

var validFieldTypes = map[FieldType]bool{
	FieldText: true, FieldNumber: true, FieldBoolean: true, FieldMeasurement: true,
}

// ProfileSection is one user-authored report section.
type ProfileSection struct {
	ID         string   `json:"id"`
	Heading    string   `json:"heading"`
	DependsOn  []string `json:"depends_on,omitempty"`
	NormalHint string   `json:"normal_hint,omitempty"`
}

// ProfileField is one user-authored clinical data point.
type ProfileField struct {
	ID         string    `json:"id"`
	Label      string    `json:"label"`
	Type       FieldType `json:"type"`
	SectionID  string    `json:"section_id"`
	NormalHint string    `json:"normal_hint,omitempty"`
}

// Profile is a user-authored section/field schema, independent of the
// fixed taxonomy. Instances are only ever produced by SanitizeProfile.
type Profile struct {
	Sections []ProfileSection `json:"sections"`
	Fields   []ProfileField   `json:"fields"`
}

// rawProfile tolerates loosely typed input.
type rawProfile struct {
	Sections []struct {
		ID         string        `json:"id"`
		Heading    string        `json:"heading"`
		DependsOn  []interface{} `json:"depends_on"`
		NormalHint string        `json:"normal_hint"`
	} `json:"sections"`
	Fields []struct {
		ID         string `json:"id"`
		Label      string `json:"label"`
		Type       string `json:"type"`
		SectionID  string `json:"section_id"`
		NormalHint string `json:"normal_hint"`
	} `json:"fields"`
}

// SanitizeProfile builds a valid Profile from untrusted JSON. It never
// fails: invalid input degrades to a smaller valid structure, and wholly
// unparseable or empty input degrades to a nil profile.
func SanitizeProfile(raw []byte) *Profile {
	var rp rawProfile
	if err := json.Unmarshal(raw, &rp); err != nil {
		return nil
	}
	if len(rp.Sections) == 0 {
		return nil
	}
	if len(rp.Sections) > maxProfileSections {
		rp.Sections = rp.Sections[:maxProfileSections]
	}
	if len(rp.Fields) > maxProfileFields {
		rp.Fields = rp.Fields[:maxProfileFields]
	}

	p := &Profile{}
	sectionIDs := make(map[string]bool)
	var rawDeps [][]interface{} // aligned with p.Sections
	for _, rs := range rp.Sections {
		heading := capString(strings.TrimSpace(rs.Heading))
		if heading == "" {
			continue
		}
		id := uniqueSlug(sectionIDs, rs.ID, heading)
		p.Sections = append(p.Sections, ProfileSection{
			ID:         id,
			Heading:    heading,
			NormalHint: capString(strings.TrimSpace(rs.NormalHint)),
		})
		rawDeps = append(rawDeps, rs.DependsOn)
	}
	if len(p.Sections) == 0 {
		return nil
	}

	fieldIDs := make(map[string]bool)
	for _, rf := range rp.Fields {
		label := capString(strings.TrimSpace(rf.Label))
		if label == "" {
			continue
		}
		ft := FieldType(strings.ToLower(strings.TrimSpace(rf.Type)))
		if !validFieldTypes[ft] {
			ft = FieldText
		}
		sectionID := strings.TrimSpace(rf.SectionID)
		if !sectionIDs[sectionID] {
			// Dangling references fall back to the first section.
			sectionID = p.Sections[0].ID
		}
		p.Fields = append(p.Fields, ProfileField{
			ID:         uniqueSlug(fieldIDs, rf.ID, label),
			Label:      label,
			Type:       ft,
			SectionID:  sectionID,
			NormalHint: capString(strings.TrimSpace(rf.NormalHint)),
		})
	}

	// depends_on entries must name fields that exist post-sanitization.
	for i, deps := range rawDeps {
		if len(deps) > maxSectionDepends {
			deps = deps[:maxSectionDepends]
		}
		for _, d := range deps {
			id, ok := d.(string)
			if !ok {
				continue
			}
			id = strings.TrimSpace(id)
			if fieldIDs[id] {
				p.Sections[i].DependsOn = append(p.Sections[i].DependsOn, id)
			}
		}
	}

	return p
}

// FieldByID returns the field with the given id, or nil.
func (p *Profile) FieldByID(id string) *ProfileField {
	for i := range p.Fields {
		if p.Fields[i].ID == id {
			return &p.Fields[i]
		}
	}
	return nil
}

var slugInvalidRe = regexp.MustCompile(`[^a-z0-9]+`)

// slugify turns arbitrary text into a slug-safe identifier.
func slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = slugInvalidRe.ReplaceAllString(s, "_")
	return strings.Trim(s, "_")
}

// uniqueSlug slugifies the preferred id (or the fallback text when absent)
// and disambiguates collisions with a numeric suffix.
func uniqueSlug(seen map[string]bool, id, fallback string) string {
	slug := slugify(id)
	if slug == "" {
		slug = slugify(fallback)
	}
	if slug == "" {
		slug = "item"
	}
	out := slug
	for n := 2; seen[out]; n++ {
		out = fmt.Sprintf("%s_%d", slug, n)
	}
	seen[out] = true
	return out
}

func capString(s string) string {
	if len(s) > maxProfileStringLen {
		return s[:maxProfileStringLen]
	}
	return s
}
