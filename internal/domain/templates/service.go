package templates

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/uphomesco-hub/mvptypist-sub001/internal/report"
)

// ErrInvalidProfileSchema is returned when a submitted profile schema cannot
// be sanitized into at least one usable section.
var ErrInvalidProfileSchema = errors.New("profile schema could not be sanitized")

type Service struct {
	templates TemplateRepository
	profiles  ProfileRepository
}

func NewService(templates TemplateRepository, profiles ProfileRepository) *Service {
	return &Service{templates: templates, profiles: profiles}
}

// -- Templates --

func (s *Service) CreateTemplate(ctx context.Context, t *Template) error {
	if t.Name == "" {
		return fmt.Errorf("name is required")
	}
	if t.Gender != string(report.GenderMale) && t.Gender != string(report.GenderFemale) {
		return fmt.Errorf("gender must be %q or %q", report.GenderMale, report.GenderFemale)
	}
	if t.Body == "" {
		return fmt.Errorf("body is required")
	}
	t.Mapping = SanitizeMapping(t.Mapping)
	t.Active = true
	if err := s.templates.Create(ctx, t); err != nil {
		return err
	}
	t.VersionID = 1
	return nil
}

func (s *Service) GetTemplate(ctx context.Context, id uuid.UUID) (*Template, error) {
	return s.templates.GetByID(ctx, id)
}

func (s *Service) UpdateTemplate(ctx context.Context, t *Template) error {
	if t.Gender != "" && t.Gender != string(report.GenderMale) && t.Gender != string(report.GenderFemale) {
		return fmt.Errorf("gender must be %q or %q", report.GenderMale, report.GenderFemale)
	}
	t.Mapping = SanitizeMapping(t.Mapping)
	return s.templates.Update(ctx, t)
}

func (s *Service) DeleteTemplate(ctx context.Context, id uuid.UUID) error {
	return s.templates.Delete(ctx, id)
}

func (s *Service) ListTemplates(ctx context.Context, gender string, limit, offset int) ([]*Template, int, error) {
	return s.templates.List(ctx, gender, limit, offset)
}

// ReplaceMapping swaps a template's heading mapping without touching the
// body. The incoming mapping is sanitized; a mapping that sanitizes to
// nothing simply clears the stored one, pushing renders onto classifier
// fallback.
func (s *Service) ReplaceMapping(ctx context.Context, id uuid.UUID, mapping map[string]string) (*Template, error) {
	t, err := s.templates.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	t.Mapping = SanitizeMapping(mapping)
	if err := s.templates.Update(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// -- Profiles --

// CreateProfile sanitizes the submitted schema and stores the sanitized
// form. Raw input is discarded; a schema with no usable sections is
// rejected rather than stored empty.
func (s *Service) CreateProfile(ctx context.Context, name string, rawSchema []byte) (*Profile, error) {
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}
	sanitized := report.SanitizeProfile(rawSchema)
	if sanitized == nil {
		return nil, ErrInvalidProfileSchema
	}
	schema, err := json.Marshal(sanitized)
	if err != nil {
		return nil, err
	}

	p := &Profile{
		Name:    name,
		Schema:  schema,
		Version: 1,
	}
	if err := s.profiles.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) GetProfile(ctx context.Context, id uuid.UUID) (*Profile, error) {
	return s.profiles.GetByID(ctx, id)
}

// UpdateProfile replaces a profile's schema, bumping the version and
// clearing the approval flag so the new revision is reviewed again.
func (s *Service) UpdateProfile(ctx context.Context, id uuid.UUID, name string, rawSchema []byte) (*Profile, error) {
	p, err := s.profiles.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	sanitized := report.SanitizeProfile(rawSchema)
	if sanitized == nil {
		return nil, ErrInvalidProfileSchema
	}
	schema, err := json.Marshal(sanitized)
	if err != nil {
		return nil, err
	}

	if name != "" {
		p.Name = name
	}
	p.Schema = schema
	p.Version++
	p.Approved = false
	if err := s.profiles.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) DeleteProfile(ctx context.Context, id uuid.UUID) error {
	return s.profiles.Delete(ctx, id)
}

func (s *Service) ListProfiles(ctx context.Context, limit, offset int) ([]*Profile, int, error) {
	return s.profiles.List(ctx, limit, offset)
}

// ApproveProfile marks the current profile revision as approved for use.
func (s *Service) ApproveProfile(ctx context.Context, id uuid.UUID) (*Profile, error) {
	p, err := s.profiles.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Approved = true
	if err := s.profiles.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// PreviewSchema sanitizes a submitted schema and renders it against the
// template text without storing anything. It lets authors iterate on a
// schema before saving it.
func (s *Service) PreviewSchema(rawSchema []byte, templateText string, values map[string]string) (report.Result, error) {
	sanitized := report.SanitizeProfile(rawSchema)
	if sanitized == nil {
		return report.Result{}, ErrInvalidProfileSchema
	}
	return report.RenderProfile(sanitized, templateText, values), nil
}

// PreviewProfile renders a template body against a stored profile without
// persisting anything.
func (s *Service) PreviewProfile(ctx context.Context, id uuid.UUID, templateText string, values map[string]string) (report.Result, error) {
	p, err := s.profiles.GetByID(ctx, id)
	if err != nil {
		return report.Result{}, err
	}
	decoded, err := p.Decode()
	if err != nil {
		return report.Result{}, err
	}
	return report.RenderProfile(decoded, templateText, values), nil
}
