// Package lawyers covers the lawyer side of the marketplace: the
// registration form and the admin verification queue.
package lawyers

import (
	"context"

	"legallink_client/internal/api"
	"legallink_client/internal/wizard"
	"legallink_client/platform/apperr"
	"legallink_client/platform/logger"
	"legallink_client/platform/phone"
	"legallink_client/platform/validator"
)

// Field names shared between the registration steps and the payload.
const (
	FieldFullName      = "fullName"
	FieldEmail         = "email"
	FieldPhone         = "phone"
	FieldFirm          = "firm"
	FieldBarNumber     = "barNumber"
	FieldJurisdiction  = "jurisdiction"
	FieldPracticeAreas = "practiceAreas"
)

// Lawyer is a lawyer profile as the backend returns it.
type Lawyer struct {
	ID            string   `json:"id"`
	FullName      string   `json:"fullName"`
	Email         string   `json:"email"`
	Phone         string   `json:"phone"`
	Firm          string   `json:"firm"`
	BarNumber     string   `json:"barNumber"`
	Jurisdiction  string   `json:"jurisdiction"`
	PracticeAreas []string `json:"practiceAreas"`
	Verified      bool     `json:"verified"`
}

// registration mirrors the assembled wizard payload for validation.
type registration struct {
	FullName      string   `validate:"required,min=2"`
	Email         string   `validate:"required,email"`
	Phone         string   `validate:"required"`
	Firm          string   `validate:"required"`
	BarNumber     string   `validate:"required"`
	Jurisdiction  string   `validate:"required"`
	PracticeAreas []string `validate:"required,min=1"`
}

// Backend is the slice of the API client this module needs.
type Backend interface {
	Get(ctx context.Context, path string, out interface{}) error
	Post(ctx context.Context, path string, body, out interface{}) error
}

// Service drives lawyer registration and admin verification.
type Service struct {
	backend Backend
	val     *validator.Validator
	region  string
	log     *logger.Logger
}

// New creates the lawyer service.
func New(backend Backend, val *validator.Validator, region string, log *logger.Logger) *Service {
	return &Service{backend: backend, val: val, region: region, log: log}
}

// NewRegistration returns the registration form: identity, credentials,
// practice areas, contact.
func (s *Service) NewRegistration() *wizard.Wizard {
	return wizard.New(
		wizard.Step{Name: "identity", Required: []string{FieldFullName, FieldEmail}},
		wizard.Step{Name: "credentials", Required: []string{FieldFirm, FieldBarNumber, FieldJurisdiction}},
		wizard.Step{Name: "practice areas", Required: []string{FieldPracticeAreas}},
		wizard.Step{Name: "contact", Required: []string{FieldPhone}},
	)
}

// Register validates and submits the completed registration. A backend
// refusal resets the form to its first step with values intact.
func (s *Service) Register(ctx context.Context, w *wizard.Wizard) (Lawyer, error) {
	if !w.Done() {
		return Lawyer{}, apperr.Validation("the registration has unfinished steps")
	}

	reg := registration{
		FullName:      w.String(FieldFullName),
		Email:         w.String(FieldEmail),
		Phone:         phone.NormalizeE164(w.String(FieldPhone), s.region),
		Firm:          w.String(FieldFirm),
		BarNumber:     w.String(FieldBarNumber),
		Jurisdiction:  w.String(FieldJurisdiction),
		PracticeAreas: w.Strings(FieldPracticeAreas),
	}
	if err := s.val.Struct(reg); err != nil {
		return Lawyer{}, apperr.Validation("registration is invalid").WithDetails(validator.FieldErrors(err))
	}

	payload := w.Assemble()
	payload[FieldPhone] = reg.Phone

	var created Lawyer
	if err := s.backend.Post(ctx, "/lawyers/register", payload, &created); err != nil {
		w.Reset()
		s.log.Warn("lawyer registration refused", "error", err.Error())
		return Lawyer{}, apperr.Wrap(apperr.GetKind(err), "your registration could not be submitted, please review and try again", err)
	}

	s.log.Info("lawyer registered", "id", created.ID)
	return created, nil
}

// PendingVerification lists lawyers awaiting an admin decision.
func (s *Service) PendingVerification(ctx context.Context) ([]Lawyer, error) {
	var items []Lawyer
	if err := s.backend.Get(ctx, "/admin/lawyers/pending", &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Verify records the admin's decision on a pending registration.
func (s *Service) Verify(ctx context.Context, id string, approve bool) error {
	if id == "" {
		return apperr.BadRequest("missing lawyer id")
	}

	decision := "reject"
	if approve {
		decision = "approve"
	}
	body := map[string]string{"decision": decision}

	if err := s.backend.Post(ctx, api.Path("admin", "lawyers", id, "verify"), body, nil); err != nil {
		return err
	}
	s.log.Info("lawyer verification decided", "id", id, "decision", decision)
	return nil
}
