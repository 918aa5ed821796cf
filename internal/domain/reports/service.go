package reports

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/uphomesco-hub/mvptypist-sub001/internal/domain/templates"
	"github.com/uphomesco-hub/mvptypist-sub001/internal/report"
)

var (
	ErrNotEditable   = errors.New("report is not editable in its current status")
	ErrNotFinalized  = errors.New("report is not finalized")
	ErrNotDraft      = errors.New("only draft reports can be deleted")
	ErrAlreadyFinal  = errors.New("report is already finalized")
	ErrInvalidGender = errors.New("gender must be \"male\" or \"female\"")
)

// TemplateSource provides stored templates to the render path. The
// templates service satisfies it.
type TemplateSource interface {
	GetTemplate(ctx context.Context, id uuid.UUID) (*templates.Template, error)
}

type Service struct {
	reports   ReportRepository
	templates TemplateSource
}

func NewService(reports ReportRepository, templates TemplateSource) *Service {
	return &Service{reports: reports, templates: templates}
}

// RenderRequest carries everything one render needs. TemplateText, when
// set, takes precedence over TemplateID; with neither, the canonical
// report is produced directly.
type RenderRequest struct {
	PatientName  string            `json:"patient_name"`
	PatientSex   string            `json:"patient_sex"`
	StudyDate    string            `json:"study_date"`
	Gender       string            `json:"gender"`
	TemplateID   *uuid.UUID        `json:"template_id,omitempty"`
	TemplateText string            `json:"template_text,omitempty"`
	Mapping      map[string]string `json:"mapping,omitempty"`
	Overrides    map[string]string `json:"overrides,omitempty"`
	OrganStates  map[string]string `json:"organ_states,omitempty"`
	Suppress     []string          `json:"suppress,omitempty"`
}

func (req *RenderRequest) validate() error {
	if req.Gender != string(report.GenderMale) && req.Gender != string(report.GenderFemale) {
		return ErrInvalidGender
	}
	for organ, state := range req.OrganStates {
		if !report.KnownOrgan(organ) {
			return fmt.Errorf("unknown organ %q", organ)
		}
		if s := report.OrganState(state); s != report.OrganNormal && s != report.OrganHighRisk {
			return fmt.Errorf("organ %q: state must be %q or %q", organ, report.OrganNormal, report.OrganHighRisk)
		}
	}
	return nil
}

// Render runs one render pass without persisting anything.
func (s *Service) Render(ctx context.Context, req RenderRequest) (report.Result, error) {
	if err := req.validate(); err != nil {
		return report.Result{}, err
	}
	return s.render(ctx, req)
}

func (s *Service) render(ctx context.Context, req RenderRequest) (report.Result, error) {
	templateText := req.TemplateText
	mapping := templates.SanitizeMapping(req.Mapping)

	if templateText == "" && req.TemplateID != nil {
		tpl, err := s.templates.GetTemplate(ctx, *req.TemplateID)
		if err != nil {
			return report.Result{}, fmt.Errorf("load template: %w", err)
		}
		templateText = tpl.Body
		if mapping == nil {
			mapping = tpl.Mapping
		}
	}

	in := report.RenderInput{
		TemplateText: templateText,
		Overrides:    req.Overrides,
		Suppress:     req.Suppress,
		Gender:       report.Gender(req.Gender),
		Patient: report.PatientInfo{
			Name:        req.PatientName,
			GenderLabel: req.PatientSex,
			Date:        req.StudyDate,
		},
	}
	if len(mapping) > 0 {
		in.Mapping = make(map[report.SectionKey]string, len(mapping))
		for k, v := range mapping {
			in.Mapping[report.SectionKey(k)] = v
		}
	}
	if len(req.OrganStates) > 0 {
		in.OrganStates = make(map[string]report.OrganState, len(req.OrganStates))
		for organ, state := range req.OrganStates {
			in.OrganStates[organ] = report.OrganState(state)
		}
	}

	// With no template there is nothing to merge into; the canonical
	// report is the output.
	if templateText == "" {
		return report.Result{Text: report.BuildCanonical(report.BuildInput{
			Gender:    in.Gender,
			Patient:   in.Patient,
			Overrides: in.Overrides,
			Suppress:  in.Suppress,
		})}, nil
	}

	return report.RenderTemplate(in), nil
}

// CreateReport renders the request and persists the outcome as a draft.
func (s *Service) CreateReport(ctx context.Context, req RenderRequest) (*Report, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	res, err := s.render(ctx, req)
	if err != nil {
		return nil, err
	}

	rep := &Report{
		PatientName: req.PatientName,
		PatientSex:  req.PatientSex,
		StudyDate:   req.StudyDate,
		Gender:      req.Gender,
		TemplateID:  req.TemplateID,
		Overrides:   req.Overrides,
		OrganStates: req.OrganStates,
		Suppress:    req.Suppress,
		Status:      StatusDraft,
	}
	rep.applyResult(res)
	if err := s.reports.Create(ctx, rep); err != nil {
		return nil, err
	}
	rep.VersionID = 1
	return rep, nil
}

func (s *Service) GetReport(ctx context.Context, id uuid.UUID) (*Report, error) {
	return s.reports.GetByID(ctx, id)
}

func (s *Service) ListReports(ctx context.Context, status, patient string, limit, offset int) ([]*Report, int, error) {
	return s.reports.List(ctx, status, patient, limit, offset)
}

// UpdateReport replaces the render inputs of a draft or amended report and
// re-renders. Finalized reports are immutable until amended.
func (s *Service) UpdateReport(ctx context.Context, id uuid.UUID, req RenderRequest) (*Report, error) {
	rep, err := s.reports.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rep.Status != StatusDraft && rep.Status != StatusAmended {
		return nil, ErrNotEditable
	}
	if err := req.validate(); err != nil {
		return nil, err
	}
	res, err := s.render(ctx, req)
	if err != nil {
		return nil, err
	}

	rep.PatientName = req.PatientName
	rep.PatientSex = req.PatientSex
	rep.StudyDate = req.StudyDate
	rep.Gender = req.Gender
	rep.TemplateID = req.TemplateID
	rep.Overrides = req.Overrides
	rep.OrganStates = req.OrganStates
	rep.Suppress = req.Suppress
	rep.applyResult(res)
	if err := s.reports.Update(ctx, rep); err != nil {
		return nil, err
	}
	return rep, nil
}

// Finalize freezes a draft or amended report.
func (s *Service) Finalize(ctx context.Context, id uuid.UUID) (*Report, error) {
	rep, err := s.reports.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rep.Status == StatusFinalized {
		return nil, ErrAlreadyFinal
	}
	now := time.Now()
	rep.Status = StatusFinalized
	rep.FinalizedAt = &now
	if err := s.reports.Update(ctx, rep); err != nil {
		return nil, err
	}
	return rep, nil
}

// Amend reopens a finalized report for editing under a new version.
func (s *Service) Amend(ctx context.Context, id uuid.UUID) (*Report, error) {
	rep, err := s.reports.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rep.Status != StatusFinalized {
		return nil, ErrNotFinalized
	}
	rep.Status = StatusAmended
	rep.FinalizedAt = nil
	rep.VersionID++
	if err := s.reports.Update(ctx, rep); err != nil {
		return nil, err
	}
	return rep, nil
}

// DeleteReport removes a draft. Finalized and amended reports are kept for
// the record.
func (s *Service) DeleteReport(ctx context.Context, id uuid.UUID) error {
	rep, err := s.reports.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if rep.Status != StatusDraft {
		return ErrNotDraft
	}
	return s.reports.Delete(ctx, id)
}
