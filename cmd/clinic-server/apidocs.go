package main

import (
	"net/http"

	"github.com/clinic/clinic/internal/platform/openapi"
)

const apiPrefix = "/api/v1"

var version = "dev"

func op(method, path string) string { return openapi.OpKey(method, apiPrefix+path) }

var listQuery = []string{"limit", "offset"}

// apiDocs annotates the routes listed in /api/v1/openapi.json.
var apiDocs = map[string]openapi.Operation{
	op(http.MethodGet, "/patients"):         {Summary: "List patients, newest first", Tag: "patients", Response: "PatientPage", Query: []string{"name", "limit", "offset"}},
	op(http.MethodPost, "/patients"):        {Summary: "Register a patient", Tag: "patients", RequestBody: "Patient", Response: "Patient", Status: http.StatusCreated},
	op(http.MethodGet, "/patients/:id"):     {Summary: "Get a patient", Tag: "patients", Response: "Patient"},
	op(http.MethodPut, "/patients/:id"):     {Summary: "Update a patient", Tag: "patients", RequestBody: "Patient", Response: "Patient"},
	op(http.MethodDelete, "/patients/:id"):  {Summary: "Delete a patient with its records", Tag: "patients", Status: http.StatusNoContent},

	op(http.MethodGet, "/patients/:id/consultations"):  {Summary: "List a patient's consultations", Tag: "consultations", Response: "ConsultationPage", Query: listQuery},
	op(http.MethodPost, "/patients/:id/consultations"): {Summary: "Record a consultation", Tag: "consultations", RequestBody: "Consultation", Response: "Consultation", Status: http.StatusCreated},
	op(http.MethodGet, "/consultations/:id"):           {Summary: "Get a consultation", Tag: "consultations", Response: "Consultation"},
	op(http.MethodDelete, "/consultations/:id"):        {Summary: "Delete a consultation", Tag: "consultations", Status: http.StatusNoContent},

	op(http.MethodPost, "/prescriptions"):                 {Summary: "Issue a prescription", Tag: "prescriptions", RequestBody: "Prescription", Response: "Prescription", Status: http.StatusCreated},
	op(http.MethodGet, "/prescriptions/:id"):              {Summary: "Get a prescription", Tag: "prescriptions", Response: "Prescription"},
	op(http.MethodDelete, "/prescriptions/:id"):           {Summary: "Delete a prescription", Tag: "prescriptions", Status: http.StatusNoContent},
	op(http.MethodGet, "/prescriptions/:id/pdf"):          {Summary: "Download the printable prescription", Tag: "prescriptions", Response: "application/pdf"},
	op(http.MethodGet, "/prescriptions/:id/preview.png"):  {Summary: "Preview the printed page", Tag: "prescriptions", Response: "image/png"},
	op(http.MethodGet, "/patients/:id/prescriptions"):     {Summary: "List a patient's prescriptions", Tag: "prescriptions", Response: "PrescriptionPage", Query: listQuery},

	op(http.MethodGet, "/settings"):             {Summary: "Read clinic settings", Tag: "settings", Response: "ClinicSettings"},
	op(http.MethodPut, "/settings"):             {Summary: "Update clinic settings", Tag: "settings", RequestBody: "ClinicSettings", Response: "ClinicSettings"},
	op(http.MethodPut, "/settings/signature"):   {Summary: "Upload the signature image", Tag: "settings", RequestBody: "image/png", Response: "Asset"},
	op(http.MethodGet, "/settings/signature"):   {Summary: "Download the signature image", Tag: "settings", Response: "image/png"},
	op(http.MethodDelete, "/settings/signature"): {Summary: "Remove the signature image", Tag: "settings", Status: http.StatusNoContent},

	op(http.MethodGet, "/openapi.json"): {Summary: "This document", Tag: "meta"},
}
