package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/scaninstead/api/internal/dto"
	"github.com/scaninstead/api/internal/entity"
	"github.com/scaninstead/api/internal/service"
)

func newTestHomeownerHandler(owners *stubHomeowners) *HomeownerHandler {
	return NewHomeownerHandler(service.NewHomeownerService(owners, nil, "https://scaninstead.test", "US", zerolog.Nop()))
}

func TestCreateHomeowner(t *testing.T) {
	h := newTestHomeownerHandler(newStubHomeowners())

	req, rec := jsonRequest(t, http.MethodPost, "/api/create", dto.CreateHomeownerRequest{
		FullName: "Jane Smith",
		Email:    "jane@example.com",
	})
	c := echo.New().NewContext(req, rec)

	if err := h.Create(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp dto.HomeownerResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Success || resp.Homeowner == nil {
		t.Fatalf("expected homeowner in response, got %s", rec.Body.String())
	}
	if resp.Homeowner.QRUrl == "" || resp.Homeowner.PitchURL == "" {
		t.Fatal("expected QR code and pitch URL in response")
	}
}

func TestCreateHomeownerMissingFields(t *testing.T) {
	h := newTestHomeownerHandler(newStubHomeowners())

	req, rec := jsonRequest(t, http.MethodPost, "/api/create", dto.CreateHomeownerRequest{Email: "jane@example.com"})
	c := echo.New().NewContext(req, rec)

	if err := h.Create(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestCreateHomeownerDuplicateEmail(t *testing.T) {
	existing := &entity.Homeowner{ID: uuid.New(), Email: "jane@example.com"}
	h := newTestHomeownerHandler(newStubHomeowners(existing))

	req, rec := jsonRequest(t, http.MethodPost, "/api/create", dto.CreateHomeownerRequest{
		FullName: "Jane Smith",
		Email:    "jane@example.com",
	})
	c := echo.New().NewContext(req, rec)

	if err := h.Create(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestGetHomeowner(t *testing.T) {
	existing := &entity.Homeowner{
		ID:       uuid.New(),
		FullName: "Jane Smith",
		Email:    "jane@example.com",
		PitchURL: "https://scaninstead.test/v/x",
	}
	h := newTestHomeownerHandler(newStubHomeowners(existing))

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/homeowner/"+existing.ID.String(), nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(existing.ID.String())

	if err := h.Get(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp dto.HomeownerResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Homeowner == nil || resp.Homeowner.FullName != "Jane Smith" {
		t.Fatalf("unexpected homeowner: %+v", resp.Homeowner)
	}
}

func TestGetHomeownerNotFound(t *testing.T) {
	h := newTestHomeownerHandler(newStubHomeowners())

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/homeowner/"+uuid.NewString(), nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(uuid.NewString())

	if err := h.Get(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestRegisterHomeowner(t *testing.T) {
	existing := &entity.Homeowner{ID: uuid.New(), FullName: "Jane", Email: "jane@example.com"}
	h := newTestHomeownerHandler(newStubHomeowners(existing))

	req, rec := jsonRequest(t, http.MethodPost, "/api/homeowner/"+existing.ID.String()+"/register", dto.RegisterHomeownerRequest{
		FullName:               "Jane Smith",
		Phone:                  "+12125551234",
		NotificationPreference: entity.NotifyBoth,
	})
	c := echo.New().NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(existing.ID.String())

	if err := h.Register(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp dto.HomeownerResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Homeowner == nil || !resp.Homeowner.IsRegistered {
		t.Fatalf("expected registered homeowner, got %s", rec.Body.String())
	}
	if resp.Homeowner.FullName != "Jane Smith" {
		t.Errorf("unexpected name %q", resp.Homeowner.FullName)
	}
}

func TestRegisterHomeownerNotFound(t *testing.T) {
	h := newTestHomeownerHandler(newStubHomeowners())

	id := uuid.NewString()
	req, rec := jsonRequest(t, http.MethodPost, "/api/homeowner/"+id+"/register", dto.RegisterHomeownerRequest{FullName: "Jane"})
	c := echo.New().NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(id)

	if err := h.Register(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestRegisterHomeownerMissingName(t *testing.T) {
	existing := &entity.Homeowner{ID: uuid.New(), Email: "jane@example.com"}
	h := newTestHomeownerHandler(newStubHomeowners(existing))

	req, rec := jsonRequest(t, http.MethodPost, "/api/homeowner/"+existing.ID.String()+"/register", dto.RegisterHomeownerRequest{})
	c := echo.New().NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(existing.ID.String())

	if err := h.Register(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
