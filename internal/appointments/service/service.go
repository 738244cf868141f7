// Package service is the appointment view-model: it reconciles an
// appointment's state from several partial sources (query-string id, local
// cache, fetch by id, list fetch) into one canonical record and derives the
// display facts screens need.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"legallink_client/internal/api"
	"legallink_client/internal/appointments/domain"
	"legallink_client/internal/appointments/transport"
	"legallink_client/platform/apperr"
	"legallink_client/platform/logger"
	"legallink_client/platform/store"
)

// cacheKey is the fixed key of the last-known appointment in both scopes.
const cacheKey = "appointment"

// Backend is the slice of the API client the view-model needs.
type Backend interface {
	Get(ctx context.Context, path string, out interface{}) error
	Delete(ctx context.Context, path string) error
}

// View is the reconciled, display-ready appointment state.
type View struct {
	Appointment domain.Appointment
	// Found is false only for the true empty state: no id known anywhere,
	// no cache, and no list result.
	Found bool
	// FromCache marks an offline fallback: the backend could not be
	// reached and the record shown is the last cached one.
	FromCache bool
	// Summary holds the client's appointments for the multi-card view,
	// in backend order.
	Summary []Card
}

// Card is one appointment with its derived display fields.
type Card struct {
	Appointment   domain.Appointment
	Tone          string
	Countdown     string
	CanReschedule bool
	Deadline      time.Time
}

// Service is the appointment view-model service.
type Service struct {
	backend Backend
	cache   store.Store
	log     *logger.Logger
	now     func() time.Time
}

// New creates the view-model service over the dual-scope cache.
func New(backend Backend, cache store.Store, log *logger.Logger) *Service {
	return &Service{
		backend: backend,
		cache:   cache,
		log:     log,
		now:     time.Now,
	}
}

// Load reconciles the appointment from its sources. queryID is the id from
// the deep link, empty when the screen was opened without one. Sources are
// merged last-fetched-wins; the cache seeds the view immediately and serves
// as the offline fallback. Both remote fetches run concurrently under one
// cancellable group, so abandoning the screen abandons every in-flight call.
func (s *Service) Load(ctx context.Context, queryID string) (View, error) {
	seed, hasSeed := s.cached(ctx)

	id := queryID
	if id == "" {
		id = seed.ID
	}

	var (
		byID     *domain.Appointment
		rejected bool
		byIDErr  error
		list     []domain.Appointment
		listErr  error
	)

	g, gctx := errgroup.WithContext(ctx)

	if id != "" {
		fetchID := id
		g.Go(func() error {
			appt, err := s.fetchByID(gctx, fetchID)
			if err == nil {
				byID = appt
				return nil
			}
			if apperr.Is(err, apperr.KindNotFound) && hasSeed && seed.ID == fetchID {
				// The record existed locally and the backend no longer
				// serves it: the lawyer turned the request down. Showing
				// "rejected" avoids flashing an empty screen over data
				// the user has already seen.
				rejected = true
				return nil
			}
			byIDErr = err
			return nil
		})
	}

	g.Go(func() error {
		items, err := s.fetchList(gctx)
		if err != nil {
			listErr = err
			return nil
		}
		list = items
		return nil
	})

	// Fetch closures only record their outcomes; the group itself can only
	// fail through context cancellation.
	if err := g.Wait(); err != nil {
		return View{}, apperr.Wrap(apperr.KindInternal, "load interrupted", err)
	}

	view := View{Summary: s.cards(list)}

	switch {
	case rejected:
		appt := seed
		appt.RawStatus = "Rejected"
		appt.Status = domain.StatusRejected
		s.writeCache(ctx, appt)
		view.Appointment = appt
		view.Found = true

	case byID != nil:
		view.Appointment = *byID
		view.Found = true

	case id != "" && byIDErr != nil && hasSeed:
		view.Appointment = seed
		view.Found = true
		view.FromCache = true

	case len(list) > 0:
		view.Appointment = latestFromList(list)
		view.Found = true
		s.writeCache(ctx, view.Appointment)

	case hasSeed:
		view.Appointment = seed
		view.Found = true
		view.FromCache = listErr != nil

	default:
		// No id, no cache, and the list gave nothing: the one case that
		// renders as "not found".
		view.Found = false
	}

	return view, nil
}

// Get fetches a single appointment by id with the cache as offline
// fallback, without the list reconciliation of Load.
func (s *Service) Get(ctx context.Context, id string) (View, error) {
	appt, err := s.fetchByID(ctx, id)
	if err == nil {
		return View{Appointment: *appt, Found: true}, nil
	}

	seed, hasSeed := s.cached(ctx)
	if apperr.Is(err, apperr.KindNotFound) {
		if hasSeed && seed.ID == id {
			seed.RawStatus = "Rejected"
			seed.Status = domain.StatusRejected
			s.writeCache(ctx, seed)
			return View{Appointment: seed, Found: true}, nil
		}
		return View{}, err
	}

	if hasSeed {
		return View{Appointment: seed, Found: true, FromCache: true}, nil
	}
	return View{}, err
}

// List returns the client's appointments as display cards.
func (s *Service) List(ctx context.Context) ([]Card, error) {
	items, err := s.fetchList(ctx)
	if err != nil {
		return nil, err
	}
	return s.cards(items), nil
}

// Cancel deletes the appointment and resets local state. Both cache scopes
// are cleared only after the backend confirms.
func (s *Service) Cancel(ctx context.Context, id string) error {
	if id == "" {
		return apperr.BadRequest("no appointment to cancel")
	}

	if err := s.backend.Delete(ctx, api.Path("lawyers", "appointments", id)); err != nil {
		return err
	}

	if err := s.cache.Delete(ctx, cacheKey); err != nil {
		s.log.CacheError("delete", cacheKey, err)
	}
	s.log.Info("appointment cancelled", "id", id)
	return nil
}

// Card derives the display fields for one appointment.
func (s *Service) Card(appt domain.Appointment) Card {
	now := s.now()
	return Card{
		Appointment:   appt,
		Tone:          tone(appt.Status),
		Countdown:     countdown(now, appt.Start),
		CanReschedule: appt.CanReschedule(now),
		Deadline:      appt.RescheduleDeadline(),
	}
}

func (s *Service) cards(items []domain.Appointment) []Card {
	if len(items) == 0 {
		return nil
	}
	cards := make([]Card, 0, len(items))
	for _, item := range items {
		cards = append(cards, s.Card(item))
	}
	return cards
}

func (s *Service) fetchByID(ctx context.Context, id string) (*domain.Appointment, error) {
	var raw json.RawMessage
	if err := s.backend.Get(ctx, api.Path("lawyers", "appointments", id), &raw); err != nil {
		return nil, err
	}

	appt, ok := transport.Sanitize(raw)
	if !ok {
		return nil, apperr.NotFound("appointment has no usable start time")
	}
	if appt.ID == "" {
		appt.ID = id
	}

	s.writeCache(ctx, appt)
	return &appt, nil
}

func (s *Service) fetchList(ctx context.Context) ([]domain.Appointment, error) {
	var raw json.RawMessage
	if err := s.backend.Get(ctx, "/lawyers/appointments/client", &raw); err != nil {
		return nil, err
	}
	return transport.SanitizeList(raw), nil
}

// latestFromList treats the first item of the list as the most recent
// appointment. The backend publishes no sort contract for this endpoint;
// this assumption is isolated here so a confirmed contract (or an explicit
// sort) changes exactly one place.
func latestFromList(items []domain.Appointment) domain.Appointment {
	return items[0]
}

func (s *Service) cached(ctx context.Context) (domain.Appointment, bool) {
	data, err := s.cache.Get(ctx, cacheKey)
	if err != nil {
		s.log.CacheEvent("get", cacheKey, false)
		return domain.Appointment{}, false
	}

	var appt domain.Appointment
	if err := json.Unmarshal(data, &appt); err != nil || appt.IsZero() {
		s.log.CacheEvent("get", cacheKey, false)
		return domain.Appointment{}, false
	}

	s.log.CacheEvent("get", cacheKey, true)
	return appt, true
}

func (s *Service) writeCache(ctx context.Context, appt domain.Appointment) {
	data, err := json.Marshal(appt)
	if err != nil {
		s.log.CacheError("encode", cacheKey, err)
		return
	}
	if err := s.cache.Set(ctx, cacheKey, data); err != nil {
		s.log.CacheError("set", cacheKey, err)
		return
	}
	s.log.CacheEvent("set", cacheKey, true)
}

func tone(status domain.Status) string {
	switch status {
	case domain.StatusAccepted:
		return "positive"
	case domain.StatusPending:
		return "warning"
	case domain.StatusRejected, domain.StatusCancelled:
		return "negative"
	default:
		return "neutral"
	}
}

// countdown renders the time until start in the coarsest useful unit.
func countdown(now, start time.Time) string {
	if start.IsZero() {
		return ""
	}

	until := start.Sub(now)
	switch {
	case until < 0:
		return "past"
	case until < time.Hour:
		return plural(int(until.Minutes()), "minute")
	case until < 48*time.Hour:
		return plural(int(until.Hours()), "hour")
	default:
		return plural(int(until.Hours()/24), "day")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return "in 1 " + unit
	}
	return fmt.Sprintf("in %d %ss", n, unit)
}
