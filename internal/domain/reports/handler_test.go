package reports

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func newTestHandler() (*Handler, *echo.Echo) {
	svc, _ := newTestService()
	h := NewHandler(svc)
	e := echo.New()
	return h, e
}

func TestHandler_Render(t *testing.T) {
	h, e := newTestHandler()

	body := `{"gender":"male","patient_name":"John Doe"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/reports/render", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.Render(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}

	var res struct {
		Text string `json:"text"`
	}
	json.Unmarshal(rec.Body.Bytes(), &res)
	if !strings.Contains(res.Text, "John Doe") {
		t.Error("expected patient name in output")
	}
}

func TestHandler_Render_InvalidGender(t *testing.T) {
	h, e := newTestHandler()

	body := `{"gender":"unknown"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/reports/render", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.Render(c)
	he, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected HTTPError, got %v", err)
	}
	if he.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", he.Code)
	}
}

func TestHandler_CreateReport(t *testing.T) {
	h, e := newTestHandler()

	body := `{"gender":"male","patient_name":"John Doe","template_text":"LIVER:\nNormal.\n","overrides":{"liver_main":"Enlarged."}}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/reports", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.CreateReport(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}

	var rep Report
	json.Unmarshal(rec.Body.Bytes(), &rep)
	if rep.Status != StatusDraft {
		t.Errorf("expected draft, got %s", rep.Status)
	}
}

func TestHandler_GetReport_NotFound(t *testing.T) {
	h, e := newTestHandler()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(uuid.New().String())

	if err := h.GetReport(c); err == nil {
		t.Error("expected error for not found")
	}
}

func TestHandler_ListReports_InvalidStatus(t *testing.T) {
	h, e := newTestHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports?status=bogus", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.ListReports(c); err == nil {
		t.Error("expected error for invalid status filter")
	}
}

func TestHandler_ListReports_StatusFilter(t *testing.T) {
	h, e := newTestHandler()

	rep, _ := h.svc.CreateReport(context.Background(), RenderRequest{Gender: "male"})
	h.svc.CreateReport(context.Background(), RenderRequest{Gender: "female"})
	h.svc.Finalize(context.Background(), rep.ID)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports?status=finalized", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.ListReports(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var resp struct {
		Total int `json:"total"`
	}
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Total != 1 {
		t.Errorf("expected total 1, got %d", resp.Total)
	}
}

func TestHandler_UpdateReport_FinalizedConflict(t *testing.T) {
	h, e := newTestHandler()

	rep, _ := h.svc.CreateReport(context.Background(), RenderRequest{Gender: "male"})
	h.svc.Finalize(context.Background(), rep.ID)

	body := `{"gender":"male"}`
	req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(rep.ID.String())

	err := h.UpdateReport(c)
	he, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected HTTPError, got %v", err)
	}
	if he.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", he.Code)
	}
}

func TestHandler_FinalizeAndAmend(t *testing.T) {
	h, e := newTestHandler()

	rep, _ := h.svc.CreateReport(context.Background(), RenderRequest{Gender: "male"})

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(rep.ID.String())

	if err := h.Finalize(c); err != nil {
		t.Fatalf("finalize: %v", err)
	}
	var finalized Report
	json.Unmarshal(rec.Body.Bytes(), &finalized)
	if finalized.Status != StatusFinalized {
		t.Errorf("expected finalized, got %s", finalized.Status)
	}

	req = httptest.NewRequest(http.MethodPost, "/", nil)
	rec = httptest.NewRecorder()
	c = e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(rep.ID.String())

	if err := h.Amend(c); err != nil {
		t.Fatalf("amend: %v", err)
	}
	var amended Report
	json.Unmarshal(rec.Body.Bytes(), &amended)
	if amended.Status != StatusAmended {
		t.Errorf("expected amended, got %s", amended.Status)
	}
}

func TestHandler_DeleteReport_NonDraftConflict(t *testing.T) {
	h, e := newTestHandler()

	rep, _ := h.svc.CreateReport(context.Background(), RenderRequest{Gender: "male"})
	h.svc.Finalize(context.Background(), rep.ID)

	req := httptest.NewRequest(http.MethodDelete, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(rep.ID.String())

	err := h.DeleteReport(c)
	he, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected HTTPError, got %v", err)
	}
	if he.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", he.Code)
	}
}
