// Package domain defines the canonical appointment record and the display
// facts derived from it. Whatever shape the backend sends, exactly one
// representation exists in memory: this one.
package domain

import (
	"strings"
	"time"
)

// Status is the closed set of appointment states shown to users.
type Status string

const (
	StatusPending   Status = "pending"
	StatusAccepted  Status = "accepted"
	StatusRejected  Status = "rejected"
	StatusCancelled Status = "cancelled"
)

// Mode says how the meeting happens, which in turn selects whether the
// physical location or the meeting link is the active field.
type Mode string

const (
	ModeInPerson Mode = "in-person"
	ModeOnline   Mode = "online"
)

// RescheduleNotice is how far before the start a reschedule must happen.
const RescheduleNotice = 7 * 24 * time.Hour

// Durations lists the durations the backend accepts, in minutes.
var Durations = []int{30, 60, 90, 120}

// DefaultDurationMinutes is used when the backend omits the duration.
const DefaultDurationMinutes = 60

// Location is a physical meeting place, active only for in-person mode.
type Location struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

// Contact is a denormalized person snapshot attached to an appointment.
type Contact struct {
	Name  string `json:"name"`
	Firm  string `json:"firm,omitempty"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Upload describes a file attached to the case details.
type Upload struct {
	ID         string     `json:"id"`
	FileName   string     `json:"fileName"`
	Size       int64      `json:"size"`
	MimeType   string     `json:"mimeType"`
	CapturedAt *time.Time `json:"capturedAt,omitempty"`
}

// CaseDetails is the free-text bag describing the legal matter.
type CaseDetails struct {
	PracticeArea       string   `json:"practiceArea"`
	PreferredLanguage  string   `json:"preferredLanguage"`
	ConflictCheckNames []string `json:"conflictCheckNames,omitempty"`
	IssueSummary       string   `json:"issueSummary,omitempty"`
	SpecialRequests    string   `json:"specialRequests,omitempty"`
	Uploads            []Upload `json:"uploads"`
}

// Appointment is the canonical record every screen renders from.
type Appointment struct {
	ID              string      `json:"id"`
	RawStatus       string      `json:"rawStatus"`
	Status          Status      `json:"status"`
	Start           time.Time   `json:"start"`
	DurationMinutes int         `json:"durationMinutes"`
	Mode            Mode        `json:"mode"`
	Location        Location    `json:"location"`
	MeetingLink     string      `json:"meetingLink"`
	Lawyer          Contact     `json:"lawyer"`
	Client          Contact     `json:"client"`
	CaseDetails     CaseDetails `json:"caseDetails"`
}

// IsZero reports whether the record is the empty appointment.
func (a Appointment) IsZero() bool {
	return a.ID == "" && a.Start.IsZero()
}

// End returns the scheduled end time.
func (a Appointment) End() time.Time {
	return a.Start.Add(time.Duration(a.DurationMinutes) * time.Minute)
}

// RescheduleDeadline is start minus the notice window.
func (a Appointment) RescheduleDeadline() time.Time {
	return a.Start.Add(-RescheduleNotice)
}

// CanReschedule reports whether a reschedule is still permitted: true at
// the deadline itself, false any moment after it.
func (a Appointment) CanReschedule(now time.Time) bool {
	return !now.After(a.RescheduleDeadline())
}

// IsOnline reports whether the meeting link is the active field.
func (a Appointment) IsOnline() bool {
	return a.Mode == ModeOnline
}

// MeetingPoint returns the single human-readable "where" for the
// appointment, honoring the mode invariant.
func (a Appointment) MeetingPoint() string {
	if a.IsOnline() {
		return a.MeetingLink
	}
	if a.Location.Name == "" {
		return a.Location.Address
	}
	if a.Location.Address == "" {
		return a.Location.Name
	}
	return a.Location.Name + ", " + a.Location.Address
}

// NormalizeStatus folds the backend's free-form status text into the closed
// set. It is a substring heuristic, checked in fixed precedence order, not
// an enum decode: any value containing "reject" anywhere classifies as
// rejected, and so on. Unmatched values default to pending.
func NormalizeStatus(raw string) Status {
	lowered := strings.ToLower(raw)
	switch {
	case strings.Contains(lowered, "reject"):
		return StatusRejected
	case strings.Contains(lowered, "pending"):
		return StatusPending
	case strings.Contains(lowered, "cancel"):
		return StatusCancelled
	case strings.Contains(lowered, "accept"), strings.Contains(lowered, "confirm"):
		return StatusAccepted
	default:
		return StatusPending
	}
}

// NormalizeMode classifies the backend's mode text: anything mentioning
// "online" or "video" is an online meeting, everything else is in-person.
func NormalizeMode(raw string) Mode {
	lowered := strings.ToLower(raw)
	if strings.Contains(lowered, "online") || strings.Contains(lowered, "video") {
		return ModeOnline
	}
	return ModeInPerson
}

// ValidDuration reports whether minutes is one of the accepted durations.
func ValidDuration(minutes int) bool {
	for _, d := range Durations {
		if d == minutes {
			return true
		}
	}
	return false
}
