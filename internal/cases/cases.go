// Package cases implements the case creation form and the client's case
// list. Creation runs through the shared wizard engine; the assembled
// payload posts once, and a refused submission sends the user back to the
// first step without losing input.
package cases

import (
	"context"
	"time"

	"legallink_client/internal/api"
	"legallink_client/internal/appointments/domain"
	"legallink_client/internal/wizard"
	"legallink_client/platform/apperr"
	"legallink_client/platform/logger"
)

// Field names shared between the wizard steps and the submission payload.
const (
	FieldPracticeArea       = "practiceArea"
	FieldPreferredLanguage  = "preferredLanguage"
	FieldConflictCheckNames = "conflictCheckNames"
	FieldIssueSummary       = "issueSummary"
	FieldSpecialRequests    = "specialRequests"
)

// Upload is the attachment descriptor, shared with the appointment record.
type Upload = domain.Upload

// Case is a client's legal matter as the backend returns it.
type Case struct {
	ID                 string          `json:"id"`
	PracticeArea       string          `json:"practiceArea"`
	PreferredLanguage  string          `json:"preferredLanguage"`
	ConflictCheckNames []string        `json:"conflictCheckNames,omitempty"`
	IssueSummary       string          `json:"issueSummary"`
	SpecialRequests    string          `json:"specialRequests,omitempty"`
	Uploads            []domain.Upload `json:"uploads"`
	Status             string          `json:"status"`
	CreatedAt          time.Time       `json:"createdAt"`
}

// Backend is the slice of the API client the case module needs.
type Backend interface {
	Get(ctx context.Context, path string, out interface{}) error
	Post(ctx context.Context, path string, body, out interface{}) error
}

// Service drives case creation and retrieval.
type Service struct {
	backend Backend
	log     *logger.Logger
}

// New creates the case service.
func New(backend Backend, log *logger.Logger) *Service {
	return &Service{backend: backend, log: log}
}

// NewWizard returns the case creation form: matter basics, conflict check,
// summary, uploads. The upload step has no required fields; attachments
// are optional.
func (s *Service) NewWizard() *wizard.Wizard {
	return wizard.New(
		wizard.Step{Name: "matter", Required: []string{FieldPracticeArea, FieldPreferredLanguage}},
		wizard.Step{Name: "conflict check", Required: []string{FieldConflictCheckNames}},
		wizard.Step{Name: "summary", Required: []string{FieldIssueSummary}},
		wizard.Step{Name: "uploads"},
	)
}

// Submit posts the completed form once. On any backend refusal the wizard
// resets to its first step and the caller gets a generic message; entered
// values survive so the user can walk forward and retry.
func (s *Service) Submit(ctx context.Context, w *wizard.Wizard, uploads []domain.Upload) (Case, error) {
	if !w.Done() {
		return Case{}, apperr.Validation("the form has unfinished steps")
	}

	payload := w.Assemble()
	if uploads == nil {
		uploads = []domain.Upload{}
	}
	payload["uploads"] = uploads

	var created Case
	if err := s.backend.Post(ctx, "/client/cases", payload, &created); err != nil {
		w.Reset()
		s.log.Warn("case submission refused", "error", err.Error())
		return Case{}, apperr.Wrap(apperr.GetKind(err), "your case could not be submitted, please review and try again", err)
	}

	s.log.Info("case submitted", "id", created.ID)
	return created, nil
}

// List fetches the client's cases.
func (s *Service) List(ctx context.Context) ([]Case, error) {
	var items []Case
	if err := s.backend.Get(ctx, "/client/cases", &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Get fetches one case by id.
func (s *Service) Get(ctx context.Context, id string) (Case, error) {
	if id == "" {
		return Case{}, apperr.BadRequest("missing case id")
	}
	var item Case
	if err := s.backend.Get(ctx, api.Path("client", "cases", id), &item); err != nil {
		return Case{}, err
	}
	return item, nil
}
