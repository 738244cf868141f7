package domain

import (
	"testing"
	"time"
)

func TestNormalizeStatus(t *testing.T) {
	cases := []struct {
		raw  string
		want Status
	}{
		{"Pending approval", StatusPending},
		{"PENDING", StatusPending},
		{"Accepted", StatusAccepted},
		{"Confirmed", StatusAccepted},
		{"appointment confirmed by lawyer", StatusAccepted},
		{"Rejected", StatusRejected},
		{"request was REJECTED", StatusRejected},
		{"Cancelled", StatusCancelled},
		{"canceled", StatusCancelled},
		{"", StatusPending},
		{"something else entirely", StatusPending},
		// Precedence: reject wins over any other match in the same string.
		{"rejected after being accepted", StatusRejected},
		{"pending cancellation", StatusPending},
		{"cancelled, was confirmed", StatusCancelled},
	}

	for _, tc := range cases {
		if got := NormalizeStatus(tc.raw); got != tc.want {
			t.Fatalf("NormalizeStatus(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}

func TestNormalizeMode(t *testing.T) {
	cases := []struct {
		raw  string
		want Mode
	}{
		{"In-person", ModeInPerson},
		{"Video call", ModeOnline},
		{"Online", ModeOnline},
		{"ONLINE MEETING", ModeOnline},
		{"office visit", ModeInPerson},
		{"", ModeInPerson},
	}

	for _, tc := range cases {
		if got := NormalizeMode(tc.raw); got != tc.want {
			t.Fatalf("NormalizeMode(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}

func TestCanRescheduleBoundary(t *testing.T) {
	start := time.Date(2025, 12, 18, 9, 0, 0, 0, time.Local)
	appt := Appointment{Start: start}

	deadline := start.Add(-7 * 24 * time.Hour)
	if got := appt.RescheduleDeadline(); !got.Equal(deadline) {
		t.Fatalf("deadline = %v, want %v", got, deadline)
	}

	if !appt.CanReschedule(deadline.Add(-time.Hour)) {
		t.Fatalf("expected reschedulable well before the deadline")
	}
	// Inclusive boundary: exactly at the deadline is still allowed.
	if !appt.CanReschedule(deadline) {
		t.Fatalf("expected reschedulable exactly at the deadline")
	}
	if appt.CanReschedule(deadline.Add(time.Second)) {
		t.Fatalf("expected not reschedulable after the deadline")
	}
}

func TestMeetingPointHonorsMode(t *testing.T) {
	online := Appointment{
		Mode:        ModeOnline,
		MeetingLink: "https://meet.example.com/abc",
	}
	if got := online.MeetingPoint(); got != "https://meet.example.com/abc" {
		t.Fatalf("online meeting point = %q", got)
	}

	inPerson := Appointment{
		Mode:     ModeInPerson,
		Location: Location{Name: "Harbor Law Group", Address: "12 Quay St"},
	}
	if got := inPerson.MeetingPoint(); got != "Harbor Law Group, 12 Quay St" {
		t.Fatalf("in-person meeting point = %q", got)
	}
}

func TestEnd(t *testing.T) {
	start := time.Date(2025, 12, 18, 9, 0, 0, 0, time.Local)
	appt := Appointment{Start: start, DurationMinutes: 90}
	if got := appt.End(); !got.Equal(start.Add(90 * time.Minute)) {
		t.Fatalf("end = %v", got)
	}
}

func TestValidDuration(t *testing.T) {
	for _, d := range []int{30, 60, 90, 120} {
		if !ValidDuration(d) {
			t.Fatalf("expected %d to be valid", d)
		}
	}
	for _, d := range []int{0, 15, 45, 240} {
		if ValidDuration(d) {
			t.Fatalf("expected %d to be invalid", d)
		}
	}
}
