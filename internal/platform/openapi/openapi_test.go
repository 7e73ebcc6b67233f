package openapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func newTestEcho() (*echo.Echo, *Generator) {
	e := echo.New()
	noop := func(c echo.Context) error { return nil }
	api := e.Group("/api/v1")
	api.GET("/patients", noop)
	api.POST("/patients", noop)
	api.GET("/patients/:id/consultations", noop)
	api.GET("/prescriptions/:id/pdf", noop)
	e.GET("/health", noop)

	g := NewGenerator("test", "/api/v1", e.Routes, map[string]Operation{
		OpKey(http.MethodPost, "/api/v1/patients"):           {Summary: "Register a patient", Tag: "patients", RequestBody: "Patient", Response: "Patient", Status: http.StatusCreated},
		OpKey(http.MethodGet, "/api/v1/patients"):            {Summary: "List patients", Tag: "patients", Response: "PatientPage", Query: []string{"name", "limit", "offset"}},
		OpKey(http.MethodGet, "/api/v1/prescriptions/:id/pdf"): {Summary: "Download prescription", Tag: "prescriptions", Response: "application/pdf"},
	})
	g.RegisterRoutes(api)
	return e, g
}

func TestOpenAPIPath(t *testing.T) {
	tests := []struct {
		in, want string
		params   int
	}{
		{"/patients", "/patients", 0},
		{"/patients/:id", "/patients/{id}", 1},
		{"/patients/:id/consultations", "/patients/{id}/consultations", 1},
		{"/prescriptions/:id/preview.png", "/prescriptions/{id}/preview.png", 1},
	}
	for _, tt := range tests {
		got, params := openAPIPath(tt.in)
		if got != tt.want || len(params) != tt.params {
			t.Errorf("openAPIPath(%q) = %q %v, want %q with %d params", tt.in, got, params, tt.want, tt.params)
		}
	}
}

func TestOperationID(t *testing.T) {
	if got := operationID(http.MethodGet, "/api/v1/prescriptions/:id/preview.png"); got != "getPrescriptionsIdPreviewpng" {
		t.Errorf("unexpected operation id %q", got)
	}
}

func TestGenerateSpec_Paths(t *testing.T) {
	_, g := newTestEcho()
	doc := g.GenerateSpec()

	if doc["openapi"] != "3.0.3" {
		t.Errorf("expected openapi 3.0.3, got %v", doc["openapi"])
	}
	paths := doc["paths"].(map[string]map[string]interface{})
	if _, ok := paths["/health"]; ok {
		t.Error("routes outside the prefix must not be listed")
	}
	for _, p := range []string{"/patients", "/patients/{id}/consultations", "/prescriptions/{id}/pdf", "/openapi.json"} {
		if _, ok := paths[p]; !ok {
			t.Errorf("expected path %s", p)
		}
	}

	create := paths["/patients"]["post"].(map[string]interface{})
	if create["summary"] != "Register a patient" {
		t.Errorf("unexpected summary %v", create["summary"])
	}
	resp := create["responses"].(map[string]interface{})
	if _, ok := resp["201"]; !ok {
		t.Error("expected a 201 response for create")
	}
	if _, ok := resp["404"]; ok {
		t.Error("collection routes have no 404")
	}

	pdf := paths["/prescriptions/{id}/pdf"]["get"].(map[string]interface{})
	pdfResp := pdf["responses"].(map[string]interface{})
	ok := pdfResp["200"].(map[string]interface{})
	if _, has := ok["content"].(map[string]interface{})["application/pdf"]; !has {
		t.Error("expected application/pdf content on the download route")
	}
	if _, has := pdfResp["404"]; !has {
		t.Error("expected a 404 response on an id route")
	}
	if len(pdf["parameters"].([]map[string]interface{})) != 1 {
		t.Error("expected the id path parameter")
	}

	undocumented := paths["/patients/{id}/consultations"]["get"].(map[string]interface{})
	if undocumented["summary"] == "" {
		t.Error("expected a generic summary for routes without metadata")
	}
}

func TestGenerator_Endpoint(t *testing.T) {
	e, _ := newTestEcho()
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/openapi.json", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var doc map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &doc); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	schemas := doc["components"].(map[string]interface{})["schemas"].(map[string]interface{})
	for _, name := range []string{"Patient", "Consultation", "Prescription", "ClinicSettings", "Asset", "Error"} {
		if _, ok := schemas[name]; !ok {
			t.Errorf("expected schema %s", name)
		}
	}
}
