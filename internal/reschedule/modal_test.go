package reschedule

import (
	"context"
	"testing"
	"time"

	"legallink_client/internal/appointments/domain"
	"legallink_client/platform/apperr"
	"legallink_client/platform/logger"
)

const testTable = `
days:
  - date: "2026-09-07"
    slots: ["09:00", "14:00"]
  - date: "2026-09-08"
    slots: ["11:00"]
`

func newModal(t *testing.T) (*Modal, *Recorder) {
	t.Helper()
	avail, err := parseAvailability([]byte(testTable))
	if err != nil {
		t.Fatalf("parse availability: %v", err)
	}
	recorder := &Recorder{}
	m := NewModal(avail, recorder, logger.New("development"))
	m.now = func() time.Time {
		return time.Date(2026, 8, 1, 12, 0, 0, 0, time.Local)
	}
	return m, recorder
}

func reschedulable() domain.Appointment {
	return domain.Appointment{
		ID:    "appt-1",
		Start: time.Date(2026, 9, 20, 9, 0, 0, 0, time.Local),
	}
}

func TestOpenGatedByNoticeWindow(t *testing.T) {
	m, _ := newModal(t)

	appt := reschedulable()
	appt.Start = time.Date(2026, 8, 5, 9, 0, 0, 0, time.Local) // four days out
	if err := m.Open(appt); !apperr.Is(err, apperr.KindForbidden) {
		t.Fatalf("err = %v, want forbidden inside the notice window", err)
	}
	if m.State() != StateClosed {
		t.Fatalf("dialog must stay closed after a refused open")
	}

	if err := m.Open(reschedulable()); err != nil {
		t.Fatalf("Open: %v", err)
	}
	if m.State() != StateOpen {
		t.Fatalf("state = %v", m.State())
	}
}

func TestSelectionValidation(t *testing.T) {
	m, _ := newModal(t)
	if err := m.Open(reschedulable()); err != nil {
		t.Fatalf("Open: %v", err)
	}

	if err := m.SelectDate("2026-09-09"); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("err = %v, want validation for an unoffered date", err)
	}
	if err := m.SelectSlot("09:00"); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("err = %v, want validation for slot before date", err)
	}

	if err := m.SelectDate("2026-09-07"); err != nil {
		t.Fatalf("SelectDate: %v", err)
	}
	if err := m.SelectSlot("11:00"); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("err = %v, want validation for a slot from another date", err)
	}
	if err := m.SelectSlot("14:00"); err != nil {
		t.Fatalf("SelectSlot: %v", err)
	}
	if err := m.SelectDuration(45); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("err = %v, want validation for an unoffered duration", err)
	}
	if err := m.SelectDuration(60); err != nil {
		t.Fatalf("SelectDuration: %v", err)
	}

	// Switching dates discards the slot picked for the old one.
	if err := m.SelectDate("2026-09-08"); err != nil {
		t.Fatalf("SelectDate: %v", err)
	}
	if m.Selection().Slot != "" {
		t.Fatalf("slot should be cleared on date change, got %q", m.Selection().Slot)
	}
}

func TestConfirmRequiresCompleteSelection(t *testing.T) {
	m, recorder := newModal(t)
	if err := m.Open(reschedulable()); err != nil {
		t.Fatalf("Open: %v", err)
	}

	if err := m.Confirm(context.Background()); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("err = %v, want validation for empty selection", err)
	}
	if len(recorder.Calls) != 0 {
		t.Fatalf("nothing should reach the backend before the selection is complete")
	}
	if m.State() != StateOpen {
		t.Fatalf("a failed confirm must keep the dialog open")
	}
}

func TestConfirmClosesAndArmsBanner(t *testing.T) {
	m, recorder := newModal(t)
	if err := m.Open(reschedulable()); err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := m.SelectDate("2026-09-07"); err != nil {
		t.Fatalf("SelectDate: %v", err)
	}
	if err := m.SelectSlot("09:00"); err != nil {
		t.Fatalf("SelectSlot: %v", err)
	}
	if err := m.SelectDuration(90); err != nil {
		t.Fatalf("SelectDuration: %v", err)
	}

	if err := m.Confirm(context.Background()); err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if m.State() != StateClosed {
		t.Fatalf("dialog should close after confirm")
	}

	if len(recorder.Calls) != 1 {
		t.Fatalf("calls = %+v", recorder.Calls)
	}
	call := recorder.Calls[0]
	want := time.Date(2026, 9, 7, 9, 0, 0, 0, time.Local)
	if call.AppointmentID != "appt-1" || !call.Start.Equal(want) || call.DurationMinutes != 90 {
		t.Fatalf("call = %+v", call)
	}

	// The banner reads exactly once.
	text, ok := m.Banner()
	if !ok || text == "" {
		t.Fatalf("expected an armed banner, got %q ok=%v", text, ok)
	}
	if _, ok := m.Banner(); ok {
		t.Fatalf("banner must clear after one read")
	}
}

func TestCloseDiscardsWithoutBanner(t *testing.T) {
	m, recorder := newModal(t)
	if err := m.Open(reschedulable()); err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := m.SelectDate("2026-09-08"); err != nil {
		t.Fatalf("SelectDate: %v", err)
	}

	m.Close()
	if m.State() != StateClosed {
		t.Fatalf("state = %v", m.State())
	}
	if _, ok := m.Banner(); ok {
		t.Fatalf("abandoning the dialog must not arm the banner")
	}
	if len(recorder.Calls) != 0 {
		t.Fatalf("abandoning the dialog must not reach the backend")
	}
	if m.Selection() != (Selection{}) {
		t.Fatalf("selection should be discarded, got %+v", m.Selection())
	}
}

func TestEmbeddedAvailabilityParses(t *testing.T) {
	avail, err := LoadAvailability()
	if err != nil {
		t.Fatalf("LoadAvailability: %v", err)
	}
	dates := avail.Dates()
	if len(dates) == 0 {
		t.Fatalf("embedded table is empty")
	}
	for _, date := range dates {
		if len(avail.SlotsFor(date)) == 0 {
			t.Fatalf("date %s has no slots", date)
		}
	}
}
