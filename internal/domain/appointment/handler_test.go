package appointment

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/odonto/clinica/internal/platform/validation"
)

func TestHandler_ListFilters(t *testing.T) {
	svc, repo, _ := newTestService()
	h := NewHandler(svc)
	e := echo.New()
	seed(repo, 1, "2024-06-10", "10:00", "Consulta", "agendado")
	seed(repo, 1, "2024-06-10", "08:00", "Limpeza", "concluido")
	seed(repo, 2, "2024-06-11", "09:00", "Consulta", "agendado")

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/?data=2024-06-10&status=agendado", nil), rec)
	if err := h.List(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var got []map[string]interface{}
	json.Unmarshal(rec.Body.Bytes(), &got)
	if len(got) != 1 || got[0]["horario"] != "10:00" || got[0]["paciente_nome"] != "Maria Silva" {
		t.Errorf("unexpected list %v", got)
	}
	if got[0]["data"] != "2024-06-10" {
		t.Errorf("expected YYYY-MM-DD data, got %v", got[0]["data"])
	}
}

func TestHandler_ListOrdered(t *testing.T) {
	svc, repo, _ := newTestService()
	h := NewHandler(svc)
	e := echo.New()
	seed(repo, 1, "2024-06-11", "08:00", "Consulta", "agendado")
	seed(repo, 1, "2024-06-10", "14:00", "Consulta", "agendado")
	seed(repo, 1, "2024-06-10", "09:00", "Consulta", "agendado")

	rec := httptest.NewRecorder()
	if err := h.Proximas(e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var got []Appointment
	json.Unmarshal(rec.Body.Bytes(), &got)
	if len(got) != 3 || got[0].Horario != "09:00" || got[2].Horario != "08:00" {
		t.Errorf("unexpected order %+v", got)
	}
}

func TestHandler_ListBadDate(t *testing.T) {
	svc, _, _ := newTestService()
	h := NewHandler(svc)
	e := echo.New()

	err := h.List(e.NewContext(httptest.NewRequest(http.MethodGet, "/?data=amanha", nil), httptest.NewRecorder()))
	var verr validation.Errors
	if !errors.As(err, &verr) || verr["data"][0] != validation.MsgDate {
		t.Errorf("expected data field error, got %v", err)
	}
}

func TestHandler_UpdateStatus(t *testing.T) {
	svc, repo, _ := newTestService()
	h := NewHandler(svc)
	e := echo.New()
	seed(repo, 1, "2024-06-10", "09:00", "Consulta", "agendado")

	req := httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(`{"status":"xyz"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues("1")

	err := h.UpdateStatus(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
	if repo.items[1].Status != "agendado" {
		t.Error("status must be unchanged")
	}

	req = httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(`{"status":"concluido"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c = e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("1")
	if err := h.UpdateStatus(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var got Appointment
	json.Unmarshal(rec.Body.Bytes(), &got)
	if got.Status != "concluido" {
		t.Errorf("expected concluido, got %q", got.Status)
	}
}

func TestHandler_DailyTotalsBadDate(t *testing.T) {
	svc, _, _ := newTestService()
	h := NewHandler(svc)
	e := echo.New()

	err := h.DailyTotals(e.NewContext(httptest.NewRequest(http.MethodGet, "/?data=15-06-2024", nil), httptest.NewRecorder()))
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest || he.Message != MsgBadDate {
		t.Errorf("expected 400 with date message, got %v", err)
	}
}

func TestHandler_DetailRendersNullAnamnese(t *testing.T) {
	svc, repo, _ := newTestService()
	h := NewHandler(svc)
	e := echo.New()
	seed(repo, 1, "2024-06-10", "09:00", "Consulta", "agendado")

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	c.SetParamNames("id")
	c.SetParamValues("1")
	if err := h.Detail(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var got map[string]json.RawMessage
	json.Unmarshal(rec.Body.Bytes(), &got)
	if string(got["anamnese"]) != "null" {
		t.Errorf("expected anamnese null, got %s", got["anamnese"])
	}
	var ag map[string]interface{}
	json.Unmarshal(got["agendamento"], &ag)
	if ag["status_display"] != "Agendado" {
		t.Errorf("unexpected agendamento %v", ag)
	}
}

func TestHandler_StaticRoutesWinOverID(t *testing.T) {
	svc, _, _ := newTestService()
	e := echo.New()
	NewHandler(svc).RegisterRoutes(e.Group("/api"))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/agendamentos/totais-diarios/?data=2024-06-10", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var totals Totals
	json.Unmarshal(rec.Body.Bytes(), &totals)
	if totals.Data != "2024-06-10" || totals.TotalPacientes != 2 {
		t.Errorf("unexpected totals %+v", totals)
	}
}
