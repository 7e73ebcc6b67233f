package patient

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func newTestHandler() (*Handler, *echo.Echo) {
	return NewHandler(newTestService()), echo.New()
}

func httpCode(t *testing.T, err error) int {
	t.Helper()
	var he *echo.HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("expected *echo.HTTPError, got %v", err)
	}
	return he.Code
}

func TestHandler_CreatePatient(t *testing.T) {
	h, e := newTestHandler()

	body := `{"name":"Jane Doe","age":"42","phone":"555-0100"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/patients", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	if err := h.CreatePatient(e.NewContext(req, rec)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}
	var p Patient
	json.Unmarshal(rec.Body.Bytes(), &p)
	if p.ID == 0 || p.Name != "Jane Doe" || p.Age != "42" {
		t.Errorf("unexpected patient %+v", p)
	}
}

func TestHandler_CreatePatient_Form(t *testing.T) {
	h, e := newTestHandler()

	form := url.Values{"name": {"John Roe"}, "age": {"abc"}, "phone": {"555"}}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/patients", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()

	if err := h.CreatePatient(e.NewContext(req, rec)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var p Patient
	json.Unmarshal(rec.Body.Bytes(), &p)
	if p.Name != "John Roe" || p.Age != "abc" {
		t.Errorf("unexpected patient %+v", p)
	}
}

func TestHandler_CreatePatient_BadRequest(t *testing.T) {
	h, e := newTestHandler()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/patients", strings.NewReader(`{"phone":"555"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	err := h.CreatePatient(e.NewContext(req, httptest.NewRecorder()))
	if code := httpCode(t, err); code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", code)
	}
}

func TestHandler_GetPatient(t *testing.T) {
	h, e := newTestHandler()
	p := &Patient{Name: "Jane Doe"}
	h.svc.CreatePatient(nil, p)

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	c.SetParamNames("id")
	c.SetParamValues(strconv.FormatInt(p.ID, 10))

	if err := h.GetPatient(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestHandler_GetPatient_Errors(t *testing.T) {
	h, e := newTestHandler()

	tests := []struct {
		id   string
		want int
	}{
		{"42", http.StatusNotFound},
		{"abc", http.StatusBadRequest},
		{"-1", http.StatusBadRequest},
	}
	for _, tt := range tests {
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
		c.SetParamNames("id")
		c.SetParamValues(tt.id)
		if code := httpCode(t, h.GetPatient(c)); code != tt.want {
			t.Errorf("id %q: expected %d, got %d", tt.id, tt.want, code)
		}
	}
}

func TestHandler_ListPatients(t *testing.T) {
	h, e := newTestHandler()
	h.svc.CreatePatient(nil, &Patient{Name: "Jane Doe"})
	h.svc.CreatePatient(nil, &Patient{Name: "John Roe"})

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/v1/patients?name=john", nil), rec)
	if err := h.ListPatients(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var resp struct {
		Data  []Patient `json:"data"`
		Total int       `json:"total"`
	}
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Total != 1 || len(resp.Data) != 1 || resp.Data[0].Name != "John Roe" {
		t.Errorf("unexpected list response %+v", resp)
	}
}

func TestHandler_ListPatients_EmptyIsArray(t *testing.T) {
	h, e := newTestHandler()
	rec := httptest.NewRecorder()
	if err := h.ListPatients(e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(rec.Body.String(), `"data":[]`) {
		t.Errorf("expected empty array, got %s", rec.Body.String())
	}
}

func TestHandler_UpdatePatient(t *testing.T) {
	h, e := newTestHandler()
	p := &Patient{Name: "Jane Doe"}
	h.svc.CreatePatient(nil, p)

	req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{"name":"Jane Smith","birth_date":"1980-01-31"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(strconv.FormatInt(p.ID, 10))

	if err := h.UpdatePatient(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, _ := h.svc.GetPatient(nil, p.ID)
	if got.Name != "Jane Smith" || got.BirthDate != "1980-01-31" {
		t.Errorf("update not applied: %+v", got)
	}
}

func TestHandler_DeletePatient(t *testing.T) {
	h, e := newTestHandler()
	p := &Patient{Name: "ToDelete"}
	h.svc.CreatePatient(nil, p)

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodDelete, "/", nil), rec)
	c.SetParamNames("id")
	c.SetParamValues(strconv.FormatInt(p.ID, 10))

	if err := h.DeletePatient(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", rec.Code)
	}

	c = e.NewContext(httptest.NewRequest(http.MethodDelete, "/", nil), httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues(strconv.FormatInt(p.ID, 10))
	if code := httpCode(t, h.DeletePatient(c)); code != http.StatusNotFound {
		t.Errorf("expected 404 on second delete, got %d", code)
	}
}
