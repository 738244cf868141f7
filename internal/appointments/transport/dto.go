// Package transport decodes backend appointment payloads into the canonical
// domain record. The backend mixes camelCase and snake_case key spellings
// between (and sometimes within) responses, so every field is read through
// an explicit alias list here instead of inline fallbacks at call sites.
package transport

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"legallink_client/internal/appointments/domain"
)

// Payload is the wire shape of an appointment, with one struct field per
// accepted key spelling. Missing fields are tolerated everywhere; the only
// thing that makes a payload unusable is a start time that cannot be
// derived at all.
type Payload struct {
	ID            string `json:"id"`
	AppointmentID string `json:"appointmentId"`
	AltID         string `json:"_id"`

	Status string `json:"status"`

	Start           string `json:"start"`
	StartTime       string `json:"startTime"`
	StartTimeSnake  string `json:"start_time"`
	Date            string `json:"date"`
	AppointmentDate string `json:"appointment_date"`
	Time            string `json:"time"`
	AppointmentTime string `json:"appointment_time"`

	Duration             flexInt `json:"duration"`
	DurationMinutes      flexInt `json:"durationMinutes"`
	DurationMinutesSnake flexInt `json:"duration_minutes"`

	Mode             string `json:"mode"`
	MeetingType      string `json:"meetingType"`
	MeetingTypeSnake string `json:"meeting_type"`

	Location        *locationPayload `json:"location"`
	LocationName    string           `json:"location_name"`
	LocationAddress string           `json:"location_address"`

	MeetingLink      string `json:"meetingLink"`
	MeetingLinkSnake string `json:"meeting_link"`
	Link             string `json:"link"`

	Lawyer *contactPayload `json:"lawyer"`
	Client *contactPayload `json:"client"`

	CaseDetails      *casePayload `json:"caseDetails"`
	CaseDetailsSnake *casePayload `json:"case_details"`
}

type locationPayload struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

type contactPayload struct {
	Name       string `json:"name"`
	FullName   string `json:"full_name"`
	Firm       string `json:"firm"`
	FirmName   string `json:"firm_name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	PhoneSnake string `json:"phone_number"`
	PhoneCamel string `json:"phoneNumber"`
}

type casePayload struct {
	PracticeArea            string          `json:"practiceArea"`
	PracticeAreaSnake       string          `json:"practice_area"`
	PreferredLanguage       string          `json:"preferredLanguage"`
	PreferredLanguageSnake  string          `json:"preferred_language"`
	ConflictCheckNames      flexStringList  `json:"conflictCheckNames"`
	ConflictCheckNamesSnake flexStringList  `json:"conflict_check_names"`
	IssueSummary            string          `json:"issueSummary"`
	IssueSummarySnake       string          `json:"issue_summary"`
	SpecialRequests         string          `json:"specialRequests"`
	SpecialRequestsSnake    string          `json:"special_requests"`
	Uploads                 []uploadPayload `json:"uploads"`
}

type uploadPayload struct {
	ID            string  `json:"id"`
	FileName      string  `json:"fileName"`
	FileNameSnake string  `json:"file_name"`
	Name          string  `json:"name"`
	Size          flexInt `json:"size"`
	MimeType      string  `json:"mimeType"`
	MimeTypeSnake string  `json:"mime_type"`
	ContentType   string  `json:"content_type"`
	CapturedAt    string  `json:"capturedAt"`
	CapturedAtAlt string  `json:"captured_at"`
}

// Sanitize decodes raw JSON into the canonical appointment. ok is false
// only when no start time is derivable, which renders the appointment
// unusable ("not found" for display purposes). Every other missing field
// gets a defined default.
func Sanitize(raw []byte) (domain.Appointment, bool) {
	var p Payload
	if err := json.Unmarshal(raw, &p); err != nil {
		return domain.Appointment{}, false
	}
	return p.Canonical()
}

// Canonical converts the wire payload into the canonical record.
func (p Payload) Canonical() (domain.Appointment, bool) {
	start, ok := deriveStart(
		first(p.Start, p.StartTime, p.StartTimeSnake),
		first(p.Date, p.AppointmentDate),
		first(p.Time, p.AppointmentTime),
	)
	if !ok {
		return domain.Appointment{}, false
	}

	rawStatus := strings.TrimSpace(p.Status)
	mode := domain.NormalizeMode(first(p.Mode, p.MeetingType, p.MeetingTypeSnake))

	appt := domain.Appointment{
		ID:              first(p.ID, p.AppointmentID, p.AltID),
		RawStatus:       rawStatus,
		Status:          domain.NormalizeStatus(rawStatus),
		Start:           start,
		DurationMinutes: duration(p.DurationMinutes, p.DurationMinutesSnake, p.Duration),
		Mode:            mode,
		Lawyer:          contact(p.Lawyer),
		Client:          contact(p.Client),
		CaseDetails:     caseDetails(pick(p.CaseDetails, p.CaseDetailsSnake)),
	}

	// Mode invariant: exactly one of location/meetingLink is active in the
	// canonical record; the inactive one is zeroed even if the backend sent it.
	if mode == domain.ModeOnline {
		appt.MeetingLink = first(p.MeetingLink, p.MeetingLinkSnake, p.Link)
	} else {
		appt.Location = location(p)
	}

	return appt, true
}

// SanitizeList decodes a list response. Items that fail to sanitize are
// dropped rather than failing the whole list.
func SanitizeList(raw []byte) []domain.Appointment {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		// Some backend builds wrap the list in an envelope.
		var envelope struct {
			Appointments []json.RawMessage `json:"appointments"`
			Items        []json.RawMessage `json:"items"`
		}
		if err := json.Unmarshal(raw, &envelope); err != nil {
			return nil
		}
		items = envelope.Appointments
		if items == nil {
			items = envelope.Items
		}
	}

	out := make([]domain.Appointment, 0, len(items))
	for _, item := range items {
		if appt, ok := Sanitize(item); ok {
			out = append(out, appt)
		}
	}
	return out
}

func deriveStart(direct, date, clock string) (time.Time, bool) {
	if direct != "" {
		if t, ok := parseTimestamp(direct); ok {
			return t, true
		}
	}
	if date == "" {
		return time.Time{}, false
	}

	day, err := time.ParseInLocation("2006-01-02", date, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	if clock == "" {
		return day, true
	}

	for _, layout := range []string{"15:04", "15:04:05", "3:04 PM", "3:04PM"} {
		if t, err := time.ParseInLocation(layout, strings.TrimSpace(clock), time.Local); err == nil {
			return time.Date(day.Year(), day.Month(), day.Day(),
				t.Hour(), t.Minute(), t.Second(), 0, time.Local), true
		}
	}
	// An unparseable time still leaves a renderable date.
	return day, true
}

func parseTimestamp(value string) (time.Time, bool) {
	trimmed := strings.TrimSpace(value)
	if t, err := time.Parse(time.RFC3339, trimmed); err == nil {
		return t, true
	}
	// Zone-less timestamps are taken as local time.
	for _, layout := range []string{"2006-01-02T15:04:05", "2006-01-02 15:04:05", "2006-01-02T15:04"} {
		if t, err := time.ParseInLocation(layout, trimmed, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func duration(values ...flexInt) int {
	for _, v := range values {
		if v > 0 {
			return int(v)
		}
	}
	return domain.DefaultDurationMinutes
}

func contact(p *contactPayload) domain.Contact {
	if p == nil {
		return domain.Contact{}
	}
	return domain.Contact{
		Name:  first(p.Name, p.FullName),
		Firm:  first(p.Firm, p.FirmName),
		Email: p.Email,
		Phone: first(p.Phone, p.PhoneCamel, p.PhoneSnake),
	}
}

func location(p Payload) domain.Location {
	if p.Location != nil {
		return domain.Location{Name: p.Location.Name, Address: p.Location.Address}
	}
	return domain.Location{Name: p.LocationName, Address: p.LocationAddress}
}

func caseDetails(p *casePayload) domain.CaseDetails {
	if p == nil {
		return domain.CaseDetails{Uploads: []domain.Upload{}}
	}

	names := []string(p.ConflictCheckNames)
	if len(names) == 0 {
		names = []string(p.ConflictCheckNamesSnake)
	}

	uploads := make([]domain.Upload, 0, len(p.Uploads))
	for _, u := range p.Uploads {
		upload := domain.Upload{
			ID:       u.ID,
			FileName: first(u.FileName, u.FileNameSnake, u.Name),
			Size:     int64(u.Size),
			MimeType: first(u.MimeType, u.MimeTypeSnake, u.ContentType),
		}
		if raw := first(u.CapturedAt, u.CapturedAtAlt); raw != "" {
			if t, ok := parseTimestamp(raw); ok {
				upload.CapturedAt = &t
			}
		}
		uploads = append(uploads, upload)
	}

	return domain.CaseDetails{
		PracticeArea:       first(p.PracticeArea, p.PracticeAreaSnake),
		PreferredLanguage:  first(p.PreferredLanguage, p.PreferredLanguageSnake),
		ConflictCheckNames: names,
		IssueSummary:       first(p.IssueSummary, p.IssueSummarySnake),
		SpecialRequests:    first(p.SpecialRequests, p.SpecialRequestsSnake),
		Uploads:            uploads,
	}
}

func pick(values ...*casePayload) *casePayload {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}

func first(values ...string) string {
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

// flexInt tolerates numbers sent as JSON strings.
type flexInt int64

func (f *flexInt) UnmarshalJSON(data []byte) error {
	trimmed := strings.Trim(string(data), `"`)
	if trimmed == "" || trimmed == "null" {
		*f = 0
		return nil
	}
	n, err := strconv.ParseInt(trimmed, 10, 64)
	if err != nil {
		*f = 0
		return nil
	}
	*f = flexInt(n)
	return nil
}

// flexStringList tolerates either a JSON array or a comma-separated string.
type flexStringList []string

func (f *flexStringList) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*f = list
		return nil
	}

	var single string
	if err := json.Unmarshal(data, &single); err != nil {
		*f = nil
		return nil
	}

	var out []string
	for _, part := range strings.Split(single, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	*f = out
	return nil
}
