// Package clients manages the lawyer's client roster against the backend.
package clients

import (
	"context"

	"legallink_client/internal/api"
	"legallink_client/platform/apperr"
	"legallink_client/platform/logger"
	"legallink_client/platform/phone"
	"legallink_client/platform/validator"
)

// Client is one roster entry as the backend returns it.
type Client struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	Notes string `json:"notes,omitempty"`
}

// Form is the create/update input. Phone accepts whatever the user typed;
// it is normalized to E.164 before submission.
type Form struct {
	Name  string `json:"name" validate:"required,min=2"`
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone" validate:"required"`
	Notes string `json:"notes,omitempty"`
}

// Backend is the slice of the API client the roster needs.
type Backend interface {
	Get(ctx context.Context, path string, out interface{}) error
	Post(ctx context.Context, path string, body, out interface{}) error
	Put(ctx context.Context, path string, body, out interface{}) error
	Delete(ctx context.Context, path string) error
}

// Service is the client roster service.
type Service struct {
	backend Backend
	val     *validator.Validator
	region  string
	log     *logger.Logger
}

// New creates the roster service. region is the default dialing region for
// phone numbers entered without a country prefix.
func New(backend Backend, val *validator.Validator, region string, log *logger.Logger) *Service {
	return &Service{backend: backend, val: val, region: region, log: log}
}

// Create validates the form and adds a client to the roster.
func (s *Service) Create(ctx context.Context, form Form) (Client, error) {
	prepared, err := s.prepare(form)
	if err != nil {
		return Client{}, err
	}

	var created Client
	if err := s.backend.Post(ctx, "/clients", prepared, &created); err != nil {
		return Client{}, err
	}
	s.log.Info("client created", "id", created.ID)
	return created, nil
}

// Update validates the form and overwrites an existing roster entry.
func (s *Service) Update(ctx context.Context, id string, form Form) (Client, error) {
	if id == "" {
		return Client{}, apperr.BadRequest("missing client id")
	}
	prepared, err := s.prepare(form)
	if err != nil {
		return Client{}, err
	}

	var updated Client
	if err := s.backend.Put(ctx, api.Path("clients", id), prepared, &updated); err != nil {
		return Client{}, err
	}
	return updated, nil
}

// List fetches the full roster.
func (s *Service) List(ctx context.Context) ([]Client, error) {
	var items []Client
	if err := s.backend.Get(ctx, "/clients", &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Get fetches one roster entry.
func (s *Service) Get(ctx context.Context, id string) (Client, error) {
	if id == "" {
		return Client{}, apperr.BadRequest("missing client id")
	}
	var item Client
	if err := s.backend.Get(ctx, api.Path("clients", id), &item); err != nil {
		return Client{}, err
	}
	return item, nil
}

// Remove deletes a roster entry.
func (s *Service) Remove(ctx context.Context, id string) error {
	if id == "" {
		return apperr.BadRequest("missing client id")
	}
	if err := s.backend.Delete(ctx, api.Path("clients", id)); err != nil {
		return err
	}
	s.log.Info("client removed", "id", id)
	return nil
}

// prepare validates the form and normalizes the phone number.
func (s *Service) prepare(form Form) (Form, error) {
	if err := s.val.Struct(form); err != nil {
		return Form{}, apperr.Validation("client form is invalid").WithDetails(validator.FieldErrors(err))
	}
	form.Phone = phone.NormalizeE164(form.Phone, s.region)
	return form, nil
}
