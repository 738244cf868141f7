// Package reschedule implements the reschedule dialog: a small open/closed
// state machine over a date, slot, and duration selection, gated by the
// seven-day notice window of the appointment being moved.
package reschedule

import (
	"context"
	"fmt"
	"time"

	"legallink_client/internal/appointments/domain"
	"legallink_client/platform/apperr"
	"legallink_client/platform/logger"
)

// State is the dialog state.
type State int

const (
	StateClosed State = iota
	StateOpen
)

// Selection is the user's current pick inside the open dialog.
type Selection struct {
	Date            string
	Slot            string
	DurationMinutes int
}

// Rescheduler is the backend operation a confirmed selection maps onto.
// The backend does not expose this endpoint yet; Recorder stands in for it
// so the dialog's contract is already the real one when it lands.
type Rescheduler interface {
	Reschedule(ctx context.Context, appointmentID string, start time.Time, durationMinutes int) error
}

// Recorder is the no-op Rescheduler: it remembers confirmed selections and
// succeeds unconditionally.
type Recorder struct {
	Calls []RecordedCall
}

// RecordedCall is one confirmed reschedule the Recorder accepted.
type RecordedCall struct {
	AppointmentID   string
	Start           time.Time
	DurationMinutes int
}

func (r *Recorder) Reschedule(ctx context.Context, appointmentID string, start time.Time, durationMinutes int) error {
	r.Calls = append(r.Calls, RecordedCall{
		AppointmentID:   appointmentID,
		Start:           start,
		DurationMinutes: durationMinutes,
	})
	return nil
}

// Modal is the reschedule dialog state machine.
type Modal struct {
	availability *Availability
	backend      Rescheduler
	log          *logger.Logger
	now          func() time.Time

	state  State
	appt   domain.Appointment
	sel    Selection
	banner string
}

// NewModal creates a closed dialog over the availability table.
func NewModal(availability *Availability, backend Rescheduler, log *logger.Logger) *Modal {
	return &Modal{
		availability: availability,
		backend:      backend,
		log:          log,
		now:          time.Now,
	}
}

// State returns the current dialog state.
func (m *Modal) State() State {
	return m.state
}

// Selection returns the current pick.
func (m *Modal) Selection() Selection {
	return m.sel
}

// Availability returns the slot table the dialog offers from.
func (m *Modal) Availability() *Availability {
	return m.availability
}

// Open starts the dialog for an appointment. It fails when the notice
// window has passed: past the deadline the action no longer exists.
func (m *Modal) Open(appt domain.Appointment) error {
	if appt.ID == "" {
		return apperr.BadRequest("no appointment to reschedule")
	}
	if !appt.CanReschedule(m.now()) {
		return apperr.Forbidden(fmt.Sprintf(
			"rescheduling closed on %s", appt.RescheduleDeadline().Format("2 January 2006")))
	}

	m.state = StateOpen
	m.appt = appt
	m.sel = Selection{}
	return nil
}

// Close abandons the dialog. The selection is discarded and no banner is set.
func (m *Modal) Close() {
	m.state = StateClosed
	m.appt = domain.Appointment{}
	m.sel = Selection{}
}

// SelectDate picks a date from the table. Changing the date clears any slot
// picked for the previous date.
func (m *Modal) SelectDate(date string) error {
	if m.state != StateOpen {
		return apperr.BadRequest("reschedule dialog is not open")
	}
	if len(m.availability.SlotsFor(date)) == 0 {
		return apperr.Validation("no availability on " + date)
	}

	if m.sel.Date != date {
		m.sel.Slot = ""
	}
	m.sel.Date = date
	return nil
}

// SelectSlot picks a time slot on the selected date.
func (m *Modal) SelectSlot(slot string) error {
	if m.state != StateOpen {
		return apperr.BadRequest("reschedule dialog is not open")
	}
	if m.sel.Date == "" {
		return apperr.Validation("pick a date first")
	}
	if !m.availability.HasSlot(m.sel.Date, slot) {
		return apperr.Validation(slot + " is not available on " + m.sel.Date)
	}

	m.sel.Slot = slot
	return nil
}

// SelectDuration picks one of the accepted meeting durations.
func (m *Modal) SelectDuration(minutes int) error {
	if m.state != StateOpen {
		return apperr.BadRequest("reschedule dialog is not open")
	}
	if !domain.ValidDuration(minutes) {
		return apperr.Validation(fmt.Sprintf("%d minutes is not an offered duration", minutes))
	}

	m.sel.DurationMinutes = minutes
	return nil
}

// Confirm validates the full selection, hands it to the backend, closes the
// dialog, and arms the one-shot confirmation banner.
func (m *Modal) Confirm(ctx context.Context) error {
	if m.state != StateOpen {
		return apperr.BadRequest("reschedule dialog is not open")
	}

	var missing []string
	if m.sel.Date == "" {
		missing = append(missing, "date")
	}
	if m.sel.Slot == "" {
		missing = append(missing, "time slot")
	}
	if m.sel.DurationMinutes == 0 {
		missing = append(missing, "duration")
	}
	if len(missing) > 0 {
		return apperr.Validation("selection incomplete").WithDetails(missing)
	}

	start, err := time.ParseInLocation("2006-01-02 15:04", m.sel.Date+" "+m.sel.Slot, time.Local)
	if err != nil {
		return apperr.Internal("availability table holds an unparseable slot: " + m.sel.Slot)
	}

	if err := m.backend.Reschedule(ctx, m.appt.ID, start, m.sel.DurationMinutes); err != nil {
		return err
	}

	m.log.Info("appointment rescheduled",
		"id", m.appt.ID,
		"start", start.Format(time.RFC3339),
		"duration_minutes", m.sel.DurationMinutes,
	)
	m.banner = fmt.Sprintf("Appointment moved to %s at %s (%d minutes).",
		start.Format("2 January 2006"), m.sel.Slot, m.sel.DurationMinutes)
	m.Close()
	return nil
}

// Banner returns the confirmation banner once; reading it clears it.
func (m *Modal) Banner() (string, bool) {
	if m.banner == "" {
		return "", false
	}
	text := m.banner
	m.banner = ""
	return text, true
}
