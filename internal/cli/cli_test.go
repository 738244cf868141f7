package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"legallink_client/internal/api"
	"legallink_client/internal/apitest"
	"legallink_client/internal/appointments/service"
	"legallink_client/internal/auth"
	"legallink_client/internal/cases"
	"legallink_client/internal/chat"
	"legallink_client/internal/clients"
	"legallink_client/internal/lawyers"
	"legallink_client/internal/reschedule"
	"legallink_client/internal/session"
	"legallink_client/platform/logger"
	"legallink_client/platform/store"
	"legallink_client/platform/validator"
)

type testConfig struct {
	baseURL     string
	sessionFile string
}

func (c testConfig) GetAPIBaseURL() string { return c.baseURL }
func (c testConfig) GetHTTPTimeout() time.Duration { return 5 * time.Second }
func (c testConfig) GetRateLimitPerSecond() float64 { return 100 }
func (c testConfig) GetRateLimitBurst() int { return 10 }
func (c testConfig) GetSessionFile() string { return c.sessionFile }
func (c testConfig) GetSessionSecret() string { return "cli-test-secret" }
func (c testConfig) GetChatMessageLimit() int { return 15 }
func (c testConfig) GetChatLimitOverrides() map[string]int { return nil }

func newApp(t *testing.T) (*App, *apitest.Server, *bytes.Buffer) {
	t.Helper()
	server := apitest.New()
	t.Cleanup(server.Close)

	cfg := testConfig{
		baseURL:     server.URL,
		sessionFile: filepath.Join(t.TempDir(), "session.bin"),
	}
	log := logger.New("development")
	val := validator.New()
	sessions := session.NewManager(store.NewMemory(), cfg, log)
	client := api.NewClient(cfg, sessions, log)
	cache := store.NewMemory()

	availability, err := reschedule.LoadAvailability()
	if err != nil {
		t.Fatalf("LoadAvailability: %v", err)
	}

	out := &bytes.Buffer{}
	app := &App{
		Sessions:     sessions,
		Auth:         auth.New(client, sessions, val, log),
		Appointments: service.New(client, cache, log),
		Reschedule:   reschedule.NewModal(availability, &reschedule.Recorder{}, log),
		Cases:        cases.New(client, log),
		Clients:      clients.New(client, val, "NL", log),
		Lawyers:      lawyers.New(client, val, "NL", log),
		Chat:         chat.New(client, cfg, log),
		Log:          log,
		Out:          out,
	}
	return app, server, out
}

func run(t *testing.T, app *App, args ...string) (int, string) {
	t.Helper()
	out := app.Out.(*bytes.Buffer)
	out.Reset()
	code := app.Run(context.Background(), args)
	return code, out.String()
}

func signIn(t *testing.T, app *App) {
	t.Helper()
	code, out := run(t, app, "login", "-email", "dana@example.com", "-password", apitest.Password)
	if code != 0 {
		t.Fatalf("login failed: %s", out)
	}
}

func TestUnknownCommand(t *testing.T) {
	app, _, _ := newApp(t)

	code, out := run(t, app, "frobnicate")
	if code != 2 || !strings.Contains(out, "unknown command") {
		t.Fatalf("code = %d, out = %q", code, out)
	}
}

func TestLoginWhoamiLogout(t *testing.T) {
	app, _, _ := newApp(t)

	signIn(t, app)

	code, out := run(t, app, "whoami")
	if code != 0 || !strings.Contains(out, "dana@example.com") {
		t.Fatalf("whoami: code = %d, out = %q", code, out)
	}

	if code, _ := run(t, app, "logout"); code != 0 {
		t.Fatalf("logout failed")
	}
	code, out = run(t, app, "whoami")
	if code != 1 || !strings.Contains(out, "not signed in") {
		t.Fatalf("whoami after logout: code = %d, out = %q", code, out)
	}
}

func TestAppointmentOverview(t *testing.T) {
	app, server, _ := newApp(t)
	signIn(t, app)

	server.SeedAppointment("appt-1", gin.H{
		"id":           "appt-1",
		"status":       "Confirmed",
		"start":        "2026-11-05T10:00:00",
		"meeting_type": "In-person",
		"location":     gin.H{"name": "Harbor Law Group", "address": "12 Quay St"},
	})

	code, out := run(t, app, "appointments")
	if code != 0 {
		t.Fatalf("appointments: %s", out)
	}
	if !strings.Contains(out, "appt-1") || !strings.Contains(out, "accepted") {
		t.Fatalf("out = %q", out)
	}
	if !strings.Contains(out, "Harbor Law Group") {
		t.Fatalf("out = %q", out)
	}
}

func TestClientRosterCommands(t *testing.T) {
	app, _, _ := newApp(t)
	signIn(t, app)

	code, out := run(t, app, "clients", "add",
		"-name", "Dana Cho", "-email", "dana@example.com", "-phone", "06 1234 5678")
	if code != 0 {
		t.Fatalf("clients add: %s", out)
	}

	code, out = run(t, app, "clients", "list")
	if code != 0 || !strings.Contains(out, "+31612345678") {
		t.Fatalf("clients list: code = %d, out = %q", code, out)
	}
}

func TestValidationErrorsAreSpelledOut(t *testing.T) {
	app, _, _ := newApp(t)
	signIn(t, app)

	code, out := run(t, app, "clients", "add", "-name", "D")
	if code != 1 {
		t.Fatalf("code = %d, out = %q", code, out)
	}
	if !strings.Contains(out, "email") || !strings.Contains(out, "phone") {
		t.Fatalf("field errors missing: %q", out)
	}
}

func TestCaseWizardViaFlags(t *testing.T) {
	app, _, _ := newApp(t)
	signIn(t, app)

	// Missing summary: the wizard reports its step's fields and nothing posts.
	code, out := run(t, app, "cases", "new",
		"-practice-area", "Family law", "-language", "English", "-conflicts", "Acme Corp")
	if code != 1 || !strings.Contains(out, "issueSummary") {
		t.Fatalf("code = %d, out = %q", code, out)
	}

	code, out = run(t, app, "cases", "new",
		"-practice-area", "Family law", "-language", "English",
		"-conflicts", "Acme Corp", "-summary", "Custody arrangement")
	if code != 0 || !strings.Contains(out, "case submitted") {
		t.Fatalf("code = %d, out = %q", code, out)
	}

	code, out = run(t, app, "cases", "list")
	if code != 0 || !strings.Contains(out, "open") {
		t.Fatalf("cases list: code = %d, out = %q", code, out)
	}
}

func TestAdminGateOnLawyerCommands(t *testing.T) {
	app, _, _ := newApp(t)
	signIn(t, app) // role is client

	code, out := run(t, app, "lawyers", "pending")
	if code != 1 || !strings.Contains(out, "error") {
		t.Fatalf("code = %d, out = %q", code, out)
	}
}
