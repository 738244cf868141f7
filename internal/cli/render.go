package cli

import (
	"fmt"
	"text/tabwriter"

	qrcode "github.com/skip2/go-qrcode"

	"legallink_client/internal/appointments/service"
)

func (a *App) renderAppointment(view service.View) {
	card := a.Appointments.Card(view.Appointment)
	appt := view.Appointment

	header := fmt.Sprintf("appointment %s (%s)", appt.ID, appt.Status)
	if view.FromCache {
		header += " (offline copy)"
	}
	fmt.Fprintln(a.Out, header)

	fmt.Fprintf(a.Out, "  when:     %s (%d minutes, %s)\n",
		appt.Start.Format("Mon 2 January 2006 15:04"), appt.DurationMinutes, card.Countdown)
	fmt.Fprintf(a.Out, "  where:    %s\n", appt.MeetingPoint())
	if appt.Lawyer.Name != "" {
		fmt.Fprintf(a.Out, "  lawyer:   %s (%s)\n", appt.Lawyer.Name, appt.Lawyer.Firm)
	}
	if appt.CaseDetails.PracticeArea != "" {
		fmt.Fprintf(a.Out, "  matter:   %s\n", appt.CaseDetails.PracticeArea)
	}

	if card.CanReschedule {
		fmt.Fprintf(a.Out, "  you can reschedule until %s\n", card.Deadline.Format("2 January 2006"))
	}

	if appt.IsOnline() && appt.MeetingLink != "" {
		a.renderQR(appt.MeetingLink)
	}
}

func (a *App) renderSummary(cards []service.Card) {
	w := tabwriter.NewWriter(a.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTATUS\tWHEN\tWHERE")
	for _, card := range cards {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			card.Appointment.ID,
			card.Appointment.Status,
			card.Appointment.Start.Format("2006-01-02 15:04"),
			card.Appointment.MeetingPoint(),
		)
	}
	w.Flush()
}

// renderQR prints the meeting link as a terminal QR code so the user can
// open it on their phone. A failed encode falls back to the bare link.
func (a *App) renderQR(link string) {
	code, err := qrcode.New(link, qrcode.Low)
	if err != nil {
		fmt.Fprintf(a.Out, "  join:     %s\n", link)
		return
	}
	fmt.Fprintln(a.Out, code.ToSmallString(false))
}
