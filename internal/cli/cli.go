// Package cli is the terminal surface of the LegalLink client: subcommand
// dispatch over the wired domain services.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"legallink_client/internal/appointments/service"
	"legallink_client/internal/auth"
	"legallink_client/internal/cases"
	"legallink_client/internal/chat"
	"legallink_client/internal/clients"
	"legallink_client/internal/lawyers"
	"legallink_client/internal/reschedule"
	"legallink_client/internal/session"
	"legallink_client/platform/apperr"
	"legallink_client/platform/logger"
)

// App bundles the wired services behind the command surface.
type App struct {
	Sessions     *session.Manager
	Auth         *auth.Service
	Appointments *service.Service
	Reschedule   *reschedule.Modal
	Cases        *cases.Service
	Clients      *clients.Service
	Lawyers      *lawyers.Service
	Chat         *chat.Service
	Log          *logger.Logger
	Out          io.Writer
}

const usage = `usage: legallink <command> [flags]

commands:
  login           sign in and store the session
  logout          sign out
  whoami          show the current session
  profile         show or update your profile
  appointments    show your appointment overview
  appointment     show, cancel, or reschedule one appointment
  cases           create or list your cases
  clients         manage your client roster
  lawyers         register, or review pending registrations
  chat            send messages or read a conversation
`

// Run dispatches one invocation. The returned code is the process exit code.
func (a *App) Run(ctx context.Context, args []string) int {
	if len(args) == 0 {
		fmt.Fprint(a.Out, usage)
		return 2
	}

	var err error
	switch args[0] {
	case "login":
		err = a.login(ctx, args[1:])
	case "logout":
		err = a.Auth.Logout(ctx)
	case "whoami":
		err = a.whoami(ctx)
	case "profile":
		err = a.profile(ctx, args[1:])
	case "appointments":
		err = a.overview(ctx)
	case "appointment":
		err = a.appointment(ctx, args[1:])
	case "cases":
		err = a.cases(ctx, args[1:])
	case "clients":
		err = a.clients(ctx, args[1:])
	case "lawyers":
		err = a.lawyers(ctx, args[1:])
	case "chat":
		err = a.chat(ctx, args[1:])
	case "help", "-h", "--help":
		fmt.Fprint(a.Out, usage)
		return 0
	default:
		fmt.Fprintf(a.Out, "unknown command %q\n\n%s", args[0], usage)
		return 2
	}

	if err != nil {
		a.render(err)
		return 1
	}
	return 0
}

// render prints a failure the way a user should read it, with validation
// details spelled out per field.
func (a *App) render(err error) {
	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		fmt.Fprintf(a.Out, "error: %v\n", err)
		return
	}

	fmt.Fprintf(a.Out, "error: %s\n", appErr.Message)
	switch details := appErr.Details.(type) {
	case []string:
		for _, field := range details {
			fmt.Fprintf(a.Out, "  - %s is required\n", field)
		}
	case map[string]string:
		for field, rule := range details {
			fmt.Fprintf(a.Out, "  - %s: %s\n", field, rule)
		}
	}
}

func (a *App) login(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	fs.SetOutput(a.Out)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	if err := fs.Parse(args); err != nil {
		return err
	}

	sess, err := a.Auth.Login(ctx, auth.Credentials{Email: *email, Password: *password})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.Out, "signed in as %s (%s)\n", sess.User.Email, sess.Role)
	return nil
}

func (a *App) whoami(ctx context.Context) error {
	sess, err := a.Sessions.Current(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.Out, "%s <%s> role=%s\n", sess.User.Name, sess.User.Email, sess.Role)
	return nil
}

func (a *App) profile(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("profile", flag.ContinueOnError)
	fs.SetOutput(a.Out)
	name := fs.String("name", "", "update the display name")
	phoneNumber := fs.String("phone", "", "update the phone number")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *name == "" && *phoneNumber == "" {
		profile, err := a.Auth.Profile(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.Out, "%s <%s> role=%s phone=%s\n", profile.Name, profile.Email, profile.Role, profile.Phone)
		return nil
	}

	current, err := a.Auth.Profile(ctx)
	if err != nil {
		return err
	}
	update := auth.ProfileUpdate{Name: current.Name, Phone: current.Phone}
	if *name != "" {
		update.Name = *name
	}
	if *phoneNumber != "" {
		update.Phone = *phoneNumber
	}

	profile, err := a.Auth.UpdateProfile(ctx, update)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.Out, "profile saved: %s phone=%s\n", profile.Name, profile.Phone)
	return nil
}

func (a *App) overview(ctx context.Context) error {
	view, err := a.Appointments.Load(ctx, "")
	if err != nil {
		return err
	}
	if !view.Found {
		fmt.Fprintln(a.Out, "no appointments yet")
		return nil
	}

	a.renderAppointment(view)
	if len(view.Summary) > 1 {
		fmt.Fprintln(a.Out)
		a.renderSummary(view.Summary)
	}
	return nil
}

func (a *App) appointment(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return apperr.BadRequest("usage: legallink appointment <show|cancel|reschedule> [flags]")
	}

	switch args[0] {
	case "show":
		fs := flag.NewFlagSet("appointment show", flag.ContinueOnError)
		fs.SetOutput(a.Out)
		id := fs.String("id", "", "appointment id (defaults to the last viewed one)")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		view, err := a.Appointments.Load(ctx, *id)
		if err != nil {
			return err
		}
		if !view.Found {
			fmt.Fprintln(a.Out, "appointment not found")
			return nil
		}
		a.renderAppointment(view)
		return nil

	case "cancel":
		fs := flag.NewFlagSet("appointment cancel", flag.ContinueOnError)
		fs.SetOutput(a.Out)
		id := fs.String("id", "", "appointment id")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		if err := a.Appointments.Cancel(ctx, *id); err != nil {
			return err
		}
		fmt.Fprintln(a.Out, "appointment cancelled")
		return nil

	case "reschedule":
		return a.rescheduleCmd(ctx, args[1:])
	}
	return apperr.BadRequest("unknown appointment subcommand " + args[0])
}

func (a *App) rescheduleCmd(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("appointment reschedule", flag.ContinueOnError)
	fs.SetOutput(a.Out)
	id := fs.String("id", "", "appointment id")
	date := fs.String("date", "", "new date (YYYY-MM-DD)")
	slot := fs.String("slot", "", "time slot (HH:MM)")
	duration := fs.Int("duration", 0, "duration in minutes")
	if err := fs.Parse(args); err != nil {
		return err
	}

	view, err := a.Appointments.Get(ctx, *id)
	if err != nil {
		return err
	}

	if *date == "" {
		// No selection given: show what can be picked.
		fmt.Fprintln(a.Out, "available dates:")
		for _, d := range a.Reschedule.Availability().Dates() {
			fmt.Fprintf(a.Out, "  %s  %s\n", d, strings.Join(a.Reschedule.Availability().SlotsFor(d), " "))
		}
		return nil
	}

	if err := a.Reschedule.Open(view.Appointment); err != nil {
		return err
	}
	if err := a.Reschedule.SelectDate(*date); err != nil {
		return err
	}
	if err := a.Reschedule.SelectSlot(*slot); err != nil {
		return err
	}
	if err := a.Reschedule.SelectDuration(*duration); err != nil {
		return err
	}
	if err := a.Reschedule.Confirm(ctx); err != nil {
		return err
	}

	if banner, ok := a.Reschedule.Banner(); ok {
		fmt.Fprintln(a.Out, banner)
	}
	return nil
}

func (a *App) cases(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return apperr.BadRequest("usage: legallink cases <new|list> [flags]")
	}

	switch args[0] {
	case "list":
		items, err := a.Cases.List(ctx)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			fmt.Fprintln(a.Out, "no cases yet")
			return nil
		}
		for _, item := range items {
			fmt.Fprintf(a.Out, "%s  %-14s %s\n", item.ID, item.Status, item.PracticeArea)
		}
		return nil

	case "new":
		return a.newCase(ctx, args[1:])
	}
	return apperr.BadRequest("unknown cases subcommand " + args[0])
}

func (a *App) newCase(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("cases new", flag.ContinueOnError)
	fs.SetOutput(a.Out)
	practiceArea := fs.String("practice-area", "", "practice area")
	language := fs.String("language", "", "preferred language")
	conflicts := fs.String("conflicts", "", "comma-separated conflict check names")
	summary := fs.String("summary", "", "issue summary")
	special := fs.String("special", "", "special requests")
	var files stringList
	fs.Var(&files, "upload", "file to attach (repeatable)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	w := a.Cases.NewWizard()
	w.Set(cases.FieldPracticeArea, *practiceArea)
	w.Set(cases.FieldPreferredLanguage, *language)
	w.Set(cases.FieldConflictCheckNames, splitList(*conflicts))
	w.Set(cases.FieldIssueSummary, *summary)
	w.Set(cases.FieldSpecialRequests, *special)

	// Walk the steps the way the form does, so missing input surfaces as
	// the step's own field errors.
	for !w.Done() {
		if err := w.Next(); err != nil {
			return err
		}
	}

	uploads := make([]cases.Upload, 0, len(files))
	for _, path := range files {
		upload, err := cases.Preflight(path)
		if err != nil {
			return err
		}
		uploads = append(uploads, upload)
	}

	created, err := a.Cases.Submit(ctx, w, uploads)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.Out, "case submitted: %s\n", created.ID)
	return nil
}

func (a *App) clients(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return apperr.BadRequest("usage: legallink clients <add|list|show|remove> [flags]")
	}

	switch args[0] {
	case "list":
		items, err := a.Clients.List(ctx)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			fmt.Fprintln(a.Out, "no clients yet")
			return nil
		}
		for _, item := range items {
			fmt.Fprintf(a.Out, "%s  %-24s %-28s %s\n", item.ID, item.Name, item.Email, item.Phone)
		}
		return nil

	case "add":
		fs := flag.NewFlagSet("clients add", flag.ContinueOnError)
		fs.SetOutput(a.Out)
		name := fs.String("name", "", "client name")
		email := fs.String("email", "", "client email")
		phoneNumber := fs.String("phone", "", "client phone")
		notes := fs.String("notes", "", "notes")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		created, err := a.Clients.Create(ctx, clients.Form{
			Name: *name, Email: *email, Phone: *phoneNumber, Notes: *notes,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(a.Out, "client added: %s\n", created.ID)
		return nil

	case "show":
		fs := flag.NewFlagSet("clients show", flag.ContinueOnError)
		fs.SetOutput(a.Out)
		id := fs.String("id", "", "client id")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		item, err := a.Clients.Get(ctx, *id)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.Out, "%s <%s> %s\n%s\n", item.Name, item.Email, item.Phone, item.Notes)
		return nil

	case "remove":
		fs := flag.NewFlagSet("clients remove", flag.ContinueOnError)
		fs.SetOutput(a.Out)
		id := fs.String("id", "", "client id")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		if err := a.Clients.Remove(ctx, *id); err != nil {
			return err
		}
		fmt.Fprintln(a.Out, "client removed")
		return nil
	}
	return apperr.BadRequest("unknown clients subcommand " + args[0])
}

func (a *App) lawyers(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return apperr.BadRequest("usage: legallink lawyers <register|pending|verify> [flags]")
	}

	switch args[0] {
	case "register":
		fs := flag.NewFlagSet("lawyers register", flag.ContinueOnError)
		fs.SetOutput(a.Out)
		name := fs.String("name", "", "full name")
		email := fs.String("email", "", "email")
		firm := fs.String("firm", "", "firm name")
		barNumber := fs.String("bar-number", "", "bar number")
		jurisdiction := fs.String("jurisdiction", "", "jurisdiction")
		areas := fs.String("practice-areas", "", "comma-separated practice areas")
		phoneNumber := fs.String("phone", "", "phone number")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}

		w := a.Lawyers.NewRegistration()
		w.Set(lawyers.FieldFullName, *name)
		w.Set(lawyers.FieldEmail, *email)
		w.Set(lawyers.FieldFirm, *firm)
		w.Set(lawyers.FieldBarNumber, *barNumber)
		w.Set(lawyers.FieldJurisdiction, *jurisdiction)
		w.Set(lawyers.FieldPracticeAreas, splitList(*areas))
		w.Set(lawyers.FieldPhone, *phoneNumber)
		for !w.Done() {
			if err := w.Next(); err != nil {
				return err
			}
		}

		created, err := a.Lawyers.Register(ctx, w)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.Out, "registration submitted: %s (pending verification)\n", created.ID)
		return nil

	case "pending":
		if _, err := a.Sessions.RequireRole(ctx, session.RoleAdmin); err != nil {
			return err
		}
		items, err := a.Lawyers.PendingVerification(ctx)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			fmt.Fprintln(a.Out, "no pending registrations")
			return nil
		}
		for _, item := range items {
			fmt.Fprintf(a.Out, "%s  %-24s %-24s bar=%s\n", item.ID, item.FullName, item.Firm, item.BarNumber)
		}
		return nil

	case "verify":
		if _, err := a.Sessions.RequireRole(ctx, session.RoleAdmin); err != nil {
			return err
		}
		fs := flag.NewFlagSet("lawyers verify", flag.ContinueOnError)
		fs.SetOutput(a.Out)
		id := fs.String("id", "", "lawyer id")
		reject := fs.Bool("reject", false, "reject instead of approve")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		if err := a.Lawyers.Verify(ctx, *id, !*reject); err != nil {
			return err
		}
		fmt.Fprintln(a.Out, "decision recorded")
		return nil
	}
	return apperr.BadRequest("unknown lawyers subcommand " + args[0])
}

func (a *App) chat(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return apperr.BadRequest("usage: legallink chat <send|history> [flags]")
	}

	switch args[0] {
	case "send":
		fs := flag.NewFlagSet("chat send", flag.ContinueOnError)
		fs.SetOutput(a.Out)
		conversation := fs.String("conversation", "", "conversation id")
		message := fs.String("message", "", "message body")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}

		sent, err := a.Chat.Send(ctx, *conversation, *message)
		if apperr.Is(err, apperr.KindRateLimited) {
			fmt.Fprintln(a.Out, "you have used your free messages for this conversation")
			fmt.Fprintln(a.Out, "book a consultation to keep talking: legallink cases new")
			return err
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(a.Out, "sent %s (%d messages left)\n", sent.ID, a.Chat.Remaining(*conversation))
		return nil

	case "history":
		fs := flag.NewFlagSet("chat history", flag.ContinueOnError)
		fs.SetOutput(a.Out)
		conversation := fs.String("conversation", "", "conversation id")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}

		items, err := a.Chat.History(ctx, *conversation)
		if err != nil {
			return err
		}
		for _, item := range items {
			fmt.Fprintf(a.Out, "[%s] %s\n", item.Sender, item.Body)
		}
		return nil
	}
	return apperr.BadRequest("unknown chat subcommand " + args[0])
}

// stringList is a repeatable flag value.
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }

func (s *stringList) Set(value string) error {
	*s = append(*s, value)
	return nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
