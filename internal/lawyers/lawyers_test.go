package lawyers

import (
	"context"
	"encoding/json"
	"testing"

	"legallink_client/internal/wizard"
	"legallink_client/platform/apperr"
	"legallink_client/platform/logger"
	"legallink_client/platform/validator"
)

type fakeBackend struct {
	postErr  error
	lastPath string
	lastBody interface{}
	response string
}

func (f *fakeBackend) Get(ctx context.Context, path string, out interface{}) error {
	f.lastPath = path
	return json.Unmarshal([]byte(f.response), out)
}

func (f *fakeBackend) Post(ctx context.Context, path string, body, out interface{}) error {
	if f.postErr != nil {
		return f.postErr
	}
	f.lastPath, f.lastBody = path, body
	if out != nil && f.response != "" {
		return json.Unmarshal([]byte(f.response), out)
	}
	return nil
}

func newService(backend *fakeBackend) *Service {
	return New(backend, validator.New(), "NL", logger.New("development"))
}

func completedRegistration(t *testing.T, svc *Service) *wizard.Wizard {
	t.Helper()
	w := svc.NewRegistration()
	w.Set(FieldFullName, "Priya Nair")
	w.Set(FieldEmail, "priya@harbor.law")
	w.Set(FieldFirm, "Harbor Law Group")
	w.Set(FieldBarNumber, "BAR-2041")
	w.Set(FieldJurisdiction, "Amsterdam")
	w.Set(FieldPracticeAreas, []string{"Family law", "Employment law"})
	w.Set(FieldPhone, "06 1234 5678")
	for !w.Done() {
		if err := w.Next(); err != nil {
			t.Fatalf("Next on %q: %v", w.Step().Name, err)
		}
	}
	return w
}

func TestRegisterSubmitsNormalizedPayload(t *testing.T) {
	backend := &fakeBackend{response: `{"id":"lw-1","fullName":"Priya Nair"}`}
	svc := newService(backend)
	w := completedRegistration(t, svc)

	created, err := svc.Register(context.Background(), w)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if created.ID != "lw-1" {
		t.Fatalf("created = %+v", created)
	}
	if backend.lastPath != "/lawyers/register" {
		t.Fatalf("path = %q", backend.lastPath)
	}

	payload := backend.lastBody.(map[string]interface{})
	if payload[FieldPhone] != "+31612345678" {
		t.Fatalf("phone = %v, want E.164", payload[FieldPhone])
	}
}

func TestRegisterInvalidEmailBlocked(t *testing.T) {
	svc := newService(&fakeBackend{})
	w := completedRegistration(t, svc)
	w.Set(FieldEmail, "not-an-email")

	_, err := svc.Register(context.Background(), w)
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("err = %v", err)
	}
	fields := err.(*apperr.Error).Details.(map[string]string)
	if _, ok := fields["email"]; !ok {
		t.Fatalf("fields = %v", fields)
	}
}

func TestRegisterRefusedResetsForm(t *testing.T) {
	backend := &fakeBackend{postErr: apperr.Conflict("bar number already registered")}
	svc := newService(backend)
	w := completedRegistration(t, svc)

	if _, err := svc.Register(context.Background(), w); err == nil {
		t.Fatalf("expected the refusal to surface")
	}
	if w.StepIndex() != 0 {
		t.Fatalf("index = %d", w.StepIndex())
	}
	if w.String(FieldBarNumber) != "BAR-2041" {
		t.Fatalf("entered values must survive a refused submission")
	}
}

func TestVerifyDecision(t *testing.T) {
	backend := &fakeBackend{}
	svc := newService(backend)

	if err := svc.Verify(context.Background(), "lw-2", true); err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if backend.lastPath != "/admin/lawyers/lw-2/verify" {
		t.Fatalf("path = %q", backend.lastPath)
	}
	if body := backend.lastBody.(map[string]string); body["decision"] != "approve" {
		t.Fatalf("body = %v", body)
	}

	if err := svc.Verify(context.Background(), "lw-2", false); err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if body := backend.lastBody.(map[string]string); body["decision"] != "reject" {
		t.Fatalf("body = %v", body)
	}

	if err := svc.Verify(context.Background(), "", true); !apperr.Is(err, apperr.KindBadRequest) {
		t.Fatalf("err = %v", err)
	}
}

func TestPendingVerification(t *testing.T) {
	backend := &fakeBackend{response: `[{"id":"lw-3","fullName":"Marc de Vries","verified":false}]`}
	svc := newService(backend)

	items, err := svc.PendingVerification(context.Background())
	if err != nil {
		t.Fatalf("PendingVerification: %v", err)
	}
	if len(items) != 1 || items[0].ID != "lw-3" {
		t.Fatalf("items = %+v", items)
	}
}
