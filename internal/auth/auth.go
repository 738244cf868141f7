// Package auth drives the session lifecycle against the backend: sign in,
// sign out, and the user's own profile.
package auth

import (
	"context"

	"legallink_client/internal/session"
	"legallink_client/platform/apperr"
	"legallink_client/platform/logger"
	"legallink_client/platform/validator"
)

// Profile is the authenticated user's own record.
type Profile struct {
	ID    string       `json:"id"`
	Name  string       `json:"name"`
	Email string       `json:"email"`
	Phone string       `json:"phone,omitempty"`
	Role  session.Role `json:"role"`
}

// Credentials is the sign-in input.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// loginResponse is the backend's sign-in envelope.
type loginResponse struct {
	Token string       `json:"token"`
	Role  session.Role `json:"role"`
	User  session.User `json:"user"`
}

// ProfileUpdate is the editable slice of the profile.
type ProfileUpdate struct {
	Name  string `json:"name" validate:"required,min=2"`
	Phone string `json:"phone,omitempty"`
}

// Backend is the slice of the API client this module needs.
type Backend interface {
	Get(ctx context.Context, path string, out interface{}) error
	Post(ctx context.Context, path string, body, out interface{}) error
	Put(ctx context.Context, path string, body, out interface{}) error
}

// Service is the auth service.
type Service struct {
	backend  Backend
	sessions *session.Manager
	val      *validator.Validator
	log      *logger.Logger
}

// New creates the auth service.
func New(backend Backend, sessions *session.Manager, val *validator.Validator, log *logger.Logger) *Service {
	return &Service{backend: backend, sessions: sessions, val: val, log: log}
}

// Login signs in and establishes the session in both scopes.
func (s *Service) Login(ctx context.Context, creds Credentials) (session.Session, error) {
	if err := s.val.Struct(creds); err != nil {
		return session.Session{}, apperr.Validation("sign-in form is invalid").WithDetails(validator.FieldErrors(err))
	}

	var resp loginResponse
	if err := s.backend.Post(ctx, "/auth/user/login", creds, &resp); err != nil {
		s.log.AuthEvent("login", creds.Email, false, err.Error())
		return session.Session{}, err
	}
	if resp.Token == "" {
		s.log.AuthEvent("login", creds.Email, false, "no token in response")
		return session.Session{}, apperr.Internal("sign-in succeeded but no token was returned")
	}

	if err := s.sessions.Establish(ctx, resp.Token, resp.Role, resp.User); err != nil {
		return session.Session{}, err
	}
	return session.Session{Token: resp.Token, Role: resp.Role, User: resp.User}, nil
}

// Logout tells the backend, then clears the local session. The backend call
// is best-effort: a dead backend must never trap the user in a session.
func (s *Service) Logout(ctx context.Context) error {
	sess, err := s.sessions.Current(ctx)
	if err != nil {
		return nil // already signed out
	}

	if err := s.backend.Post(ctx, "/auth/user/logout", nil, nil); err != nil {
		s.log.AuthEvent("logout", sess.User.Email, false, err.Error())
	} else {
		s.log.AuthEvent("logout", sess.User.Email, true, "")
	}

	return s.sessions.Clear(ctx)
}

// Profile fetches the authenticated user's record.
func (s *Service) Profile(ctx context.Context) (Profile, error) {
	if _, err := s.sessions.Current(ctx); err != nil {
		return Profile{}, err
	}

	var profile Profile
	if err := s.backend.Get(ctx, "/auth/user/me", &profile); err != nil {
		return Profile{}, err
	}
	return profile, nil
}

// UpdateProfile validates and saves profile changes, refreshing the stored
// user snapshot so the session reflects the new name immediately.
func (s *Service) UpdateProfile(ctx context.Context, update ProfileUpdate) (Profile, error) {
	sess, err := s.sessions.Current(ctx)
	if err != nil {
		return Profile{}, err
	}
	if err := s.val.Struct(update); err != nil {
		return Profile{}, apperr.Validation("profile is invalid").WithDetails(validator.FieldErrors(err))
	}

	var profile Profile
	if err := s.backend.Put(ctx, "/auth/user/me", update, &profile); err != nil {
		return Profile{}, err
	}

	user := sess.User
	user.Name = profile.Name
	if err := s.sessions.Establish(ctx, sess.Token, sess.Role, user); err != nil {
		return Profile{}, err
	}
	return profile, nil
}
