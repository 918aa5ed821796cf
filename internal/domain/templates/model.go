package templates

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/uphomesco-hub/mvptypist-sub001/internal/report"
)

// maxHeadingLen caps the stored length of a mapped heading line.
const maxHeadingLen = 200

// Template is a user-authored report layout together with its saved heading
// mapping. The mapping records which template line carries each canonical
// section so the renderer can skip classifier guesswork.
type Template struct {
	ID        uuid.UUID         `db:"id" json:"id"`
	Name      string            `db:"name" json:"name"`
	Gender    string            `db:"gender" json:"gender"`
	Body      string            `db:"body" json:"body"`
	Mapping   map[string]string `db:"mapping" json:"mapping,omitempty"`
	Active    bool              `db:"active" json:"active"`
	VersionID int               `db:"version_id" json:"version_id"`
	CreatedAt time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt time.Time         `db:"updated_at" json:"updated_at"`
}

// EngineMapping converts the stored mapping into the typed form the render
// engine consumes. Unknown section keys were already dropped at save time,
// so this is a plain re-key.
func (t *Template) EngineMapping() map[report.SectionKey]string {
	if len(t.Mapping) == 0 {
		return nil
	}
	out := make(map[report.SectionKey]string, len(t.Mapping))
	for k, v := range t.Mapping {
		out[report.SectionKey(k)] = v
	}
	return out
}

// SanitizeMapping keeps only entries whose key is a canonical section and
// whose heading text is non-blank and within the length cap. It never fails;
// hostile or stale mappings degrade to a smaller mapping.
func SanitizeMapping(raw map[string]string) map[string]string {
	if len(raw) == 0 {
		return nil
	}
	valid := make(map[string]bool, len(report.SectionOrder))
	for _, key := range report.SectionOrder {
		valid[string(key)] = true
	}

	out := make(map[string]string)
	for k, v := range raw {
		if !valid[k] {
			continue
		}
		trimmed := trimHeading(v)
		if trimmed == "" {
			continue
		}
		out[k] = trimmed
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func trimHeading(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > maxHeadingLen {
		s = strings.TrimSpace(s[:maxHeadingLen])
	}
	return s
}

// Profile is a versioned, user-authored section/field schema. The stored
// schema is always the sanitized form; raw input never reaches the database.
type Profile struct {
	ID        uuid.UUID       `db:"id" json:"id"`
	Name      string          `db:"name" json:"name"`
	Schema    json.RawMessage `db:"schema" json:"schema"`
	Version   int             `db:"version" json:"version"`
	Approved  bool            `db:"approved" json:"approved"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt time.Time       `db:"updated_at" json:"updated_at"`
}

// Decode unmarshals the stored schema into the engine's profile type.
func (p *Profile) Decode() (*report.Profile, error) {
	var out report.Profile
	if err := json.Unmarshal(p.Schema, &out); err != nil {
		return nil, fmt.Errorf("decode profile schema: %w", err)
	}
	return &out, nil
}
