package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/insurancereminder/policy-engine/internal/core/domain"
	"github.com/insurancereminder/policy-engine/internal/core/ports"
)

type stubPolicyService struct {
	addFn    func(ctx context.Context, input ports.AddPolicyInput) (string, error)
	getFn    func(ctx context.Context, id string) (*domain.Policy, error)
	listFn   func(ctx context.Context) ([]ports.CategoryGroup, error)
	exportFn func(ctx context.Context) ([]domain.Policy, error)
	renewFn  func(ctx context.Context, input ports.RenewPolicyInput) error
}

func (s *stubPolicyService) AddPolicy(ctx context.Context, input ports.AddPolicyInput) (string, error) {
	return s.addFn(ctx, input)
}

func (s *stubPolicyService) UpdatePolicy(context.Context, ports.UpdatePolicyInput) error { return nil }

func (s *stubPolicyService) DeletePolicy(context.Context, string) error { return nil }

func (s *stubPolicyService) RenewPolicy(ctx context.Context, input ports.RenewPolicyInput) error {
	return s.renewFn(ctx, input)
}

func (s *stubPolicyService) GetPolicy(ctx context.Context, id string) (*domain.Policy, error) {
	return s.getFn(ctx, id)
}

func (s *stubPolicyService) ListActivePolicies(ctx context.Context) ([]ports.CategoryGroup, error) {
	return s.listFn(ctx)
}

func (s *stubPolicyService) StreamActivePolicies(context.Context) (<-chan []ports.CategoryGroup, error) {
	ch := make(chan []ports.CategoryGroup)
	close(ch)
	return ch, nil
}

func (s *stubPolicyService) SharePolicy(context.Context, string, string) error { return nil }

func (s *stubPolicyService) AttachPolicyFile(context.Context, string, string, string) error {
	return nil
}

func (s *stubPolicyService) ExportPolicies(ctx context.Context) ([]domain.Policy, error) {
	return s.exportFn(ctx)
}

func newPolicyEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func TestPolicyHandler_Create(t *testing.T) {
	e := newPolicyEcho()
	var captured ports.AddPolicyInput
	stub := &stubPolicyService{
		addFn: func(_ context.Context, input ports.AddPolicyInput) (string, error) {
			captured = input
			return "p1", nil
		},
	}
	handler := NewPolicyHandler(stub)

	body := `{"name":"Car Insurance","type":"AUTO","expiry_date":"2026-01-10","current_price":"199.99"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/policies", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp createPolicyResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.ID != "p1" {
		t.Fatalf("id = %q, want p1", resp.ID)
	}
	if captured.Name != "Car Insurance" || captured.Type != "AUTO" || captured.CurrentPrice != "199.99" {
		t.Fatalf("service received %+v", captured)
	}
}

func TestPolicyHandler_Create_MissingFields(t *testing.T) {
	e := newPolicyEcho()
	stub := &stubPolicyService{
		addFn: func(context.Context, ports.AddPolicyInput) (string, error) {
			t.Fatal("service must not be called on invalid payload")
			return "", nil
		},
	}
	handler := NewPolicyHandler(stub)

	req := httptest.NewRequest(http.MethodPost, "/v1/policies", strings.NewReader(`{"name":"Car Insurance"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestPolicyHandler_Get(t *testing.T) {
	e := newPolicyEcho()
	expiry := time.Now().UTC().AddDate(0, 0, 90)
	stub := &stubPolicyService{
		getFn: func(_ context.Context, id string) (*domain.Policy, error) {
			if id != "p1" {
				t.Fatalf("asked for %q", id)
			}
			return &domain.Policy{
				ID:                 "p1",
				Name:               "Car Insurance",
				Type:               domain.TypeAuto,
				ExpiryDate:         expiry,
				ReminderDaysBefore: 30,
				Currency:           "EUR",
				IsActive:           true,
			}, nil
		},
	}
	handler := NewPolicyHandler(stub)

	req := httptest.NewRequest(http.MethodGet, "/v1/policies/p1", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("p1")

	if err := handler.Get(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp policyResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.ExpiryDate != expiry.Format(time.DateOnly) {
		t.Fatalf("expiry = %q", resp.ExpiryDate)
	}
	if resp.Status != string(domain.StatusActive) {
		t.Fatalf("status = %q for a policy 90 days out", resp.Status)
	}
}

func TestPolicyHandler_Get_NotFoundBubbles(t *testing.T) {
	e := newPolicyEcho()
	stub := &stubPolicyService{
		getFn: func(context.Context, string) (*domain.Policy, error) {
			return nil, domain.ErrPolicyNotFound
		},
	}
	handler := NewPolicyHandler(stub)

	req := httptest.NewRequest(http.MethodGet, "/v1/policies/missing", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("missing")

	if err := handler.Get(c); err != domain.ErrPolicyNotFound {
		t.Fatalf("expected the domain error to bubble, got %v", err)
	}
}

func TestPolicyHandler_Renew(t *testing.T) {
	e := newPolicyEcho()
	var captured ports.RenewPolicyInput
	stub := &stubPolicyService{
		renewFn: func(_ context.Context, input ports.RenewPolicyInput) error {
			captured = input
			return nil
		},
	}
	handler := NewPolicyHandler(stub)

	req := httptest.NewRequest(http.MethodPost, "/v1/policies/p1/renew",
		strings.NewReader(`{"new_expiry_date":"2027-01-10","new_price":"250"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("p1")

	if err := handler.Renew(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if captured.ID != "p1" || captured.NewExpiryDate != "2027-01-10" || captured.NewPrice != "250" {
		t.Fatalf("service received %+v", captured)
	}
}

func TestPolicyHandler_Export_CSV(t *testing.T) {
	e := newPolicyEcho()
	stub := &stubPolicyService{
		exportFn: func(context.Context) ([]domain.Policy, error) {
			return []domain.Policy{{
				ID:         "p1",
				Name:       "Car Insurance",
				Type:       domain.TypeAuto,
				ExpiryDate: time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC),
				Currency:   "EUR",
				IsActive:   true,
			}}, nil
		},
	}
	handler := NewPolicyHandler(stub)

	req := httptest.NewRequest(http.MethodGet, "/v1/policies/export?format=csv", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.Export(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if ct := rec.Header().Get(echo.HeaderContentType); !strings.HasPrefix(ct, "text/csv") {
		t.Fatalf("content type = %q", ct)
	}
	if !strings.HasPrefix(rec.Body.String(), "Name,Type,Company,Policy Number,Expiry Date,Price,Currency,Has File") {
		t.Fatalf("unexpected csv body: %q", rec.Body.String())
	}
}

func TestPolicyHandler_Export_UnknownFormat(t *testing.T) {
	e := newPolicyEcho()
	handler := NewPolicyHandler(&stubPolicyService{})

	req := httptest.NewRequest(http.MethodGet, "/v1/policies/export?format=xml", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := handler.Export(c)
	if err == nil {
		t.Fatal("expected an error for an unknown format")
	}
}
