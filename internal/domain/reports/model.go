package reports

import (
	"time"

	"github.com/google/uuid"

	"github.com/uphomesco-hub/mvptypist-sub001/internal/report"
)

// Report lifecycle states. Drafts are freely editable; finalized reports
// are frozen until an amendment reopens them.
const (
	StatusDraft     = "draft"
	StatusFinalized = "finalized"
	StatusAmended   = "amended"
)

// Report is one rendered sonography report together with the inputs that
// produced it. The inputs are stored so a re-render after an edit is exact.
type Report struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	PatientName string     `db:"patient_name" json:"patient_name"`
	PatientSex  string     `db:"patient_sex" json:"patient_sex"`
	StudyDate   string     `db:"study_date" json:"study_date"`
	Gender      string     `db:"gender" json:"gender"`
	TemplateID  *uuid.UUID `db:"template_id" json:"template_id,omitempty"`

	Overrides   map[string]string `db:"overrides" json:"overrides,omitempty"`
	OrganStates map[string]string `db:"organ_states" json:"organ_states,omitempty"`
	Suppress    []string          `db:"suppress" json:"suppress,omitempty"`

	RenderedText            string `db:"rendered_text" json:"rendered_text"`
	SectionsDetected        int    `db:"sections_detected" json:"sections_detected"`
	SectionsReplaced        int    `db:"sections_replaced" json:"sections_replaced"`
	UsedFallbackDetection   bool   `db:"used_fallback_detection" json:"used_fallback_detection"`
	ForcedCanonicalFallback bool   `db:"forced_canonical_fallback" json:"forced_canonical_fallback"`
	FallbackReason          string `db:"fallback_reason" json:"fallback_reason,omitempty"`

	Status      string     `db:"status" json:"status"`
	VersionID   int        `db:"version_id" json:"version_id"`
	FinalizedAt *time.Time `db:"finalized_at" json:"finalized_at,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}

// EngineOrganStates converts the stored string states into the engine's
// typed form. Values were validated at save time.
func (r *Report) EngineOrganStates() map[string]report.OrganState {
	if len(r.OrganStates) == 0 {
		return nil
	}
	out := make(map[string]report.OrganState, len(r.OrganStates))
	for organ, state := range r.OrganStates {
		out[organ] = report.OrganState(state)
	}
	return out
}

// applyResult copies a render outcome onto the report.
func (r *Report) applyResult(res report.Result) {
	r.RenderedText = res.Text
	r.SectionsDetected = res.SectionsDetected
	r.SectionsReplaced = res.SectionsReplaced
	r.UsedFallbackDetection = res.UsedFallbackDetection
	r.ForcedCanonicalFallback = res.ForcedCanonicalFallback
	r.FallbackReason = res.FallbackReason
}
