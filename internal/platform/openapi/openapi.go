package openapi

import (
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
)

// Operation describes one route for the generated document. Routes without
// an Operation are still listed with a generic summary.
type Operation struct {
	Summary     string
	Tag         string
	RequestBody string // component schema name, "" for none
	Response    string // component schema name, or a media type such as "application/pdf"
	Status      int    // success status, defaults to 200
	Query       []string
}

// Generator builds an OpenAPI 3.0 document from the routes registered on an
// echo instance.
type Generator struct {
	version string
	prefix  string
	routes  func() []*echo.Route
	ops     map[string]Operation
}

// NewGenerator describes every route under prefix. routes is called on each
// request so the document reflects routes registered after construction.
func NewGenerator(version, prefix string, routes func() []*echo.Route, ops map[string]Operation) *Generator {
	return &Generator{version: version, prefix: prefix, routes: routes, ops: ops}
}

// OpKey is the lookup key for ops: method, a space, and the echo path.
func OpKey(method, path string) string { return method + " " + path }

// GenerateSpec produces the OpenAPI document as a map.
func (g *Generator) GenerateSpec() map[string]interface{} {
	paths := make(map[string]map[string]interface{})
	for _, r := range g.routes() {
		if !strings.HasPrefix(r.Path, g.prefix+"/") {
			continue
		}
		method := strings.ToLower(r.Method)
		if strings.HasPrefix(method, "echo_") || method == "options" || method == "head" {
			continue
		}
		path, params := openAPIPath(strings.TrimPrefix(r.Path, g.prefix))
		if paths[path] == nil {
			paths[path] = make(map[string]interface{})
		}
		paths[path][method] = g.operation(r, params)
	}

	return map[string]interface{}{
		"openapi": "3.0.3",
		"info": map[string]interface{}{
			"title":       "Clinic API",
			"version":     g.version,
			"description": "Patients, consultations, prescriptions and printable prescription documents.",
		},
		"servers": []map[string]string{{"url": g.prefix}},
		"paths":   paths,
		"components": map[string]interface{}{
			"schemas": componentSchemas(),
		},
	}
}

func (g *Generator) operation(r *echo.Route, params []string) map[string]interface{} {
	op, ok := g.ops[OpKey(r.Method, r.Path)]
	if !ok {
		op = Operation{Summary: r.Method + " " + r.Path}
	}

	var parameters []map[string]interface{}
	for _, p := range params {
		parameters = append(parameters, map[string]interface{}{
			"name": p, "in": "path", "required": true,
			"schema": map[string]string{"type": "integer", "format": "int64"},
		})
	}
	for _, q := range op.Query {
		parameters = append(parameters, map[string]interface{}{
			"name": q, "in": "query", "required": false,
			"schema": map[string]string{"type": "string"},
		})
	}

	out := map[string]interface{}{
		"summary":     op.Summary,
		"operationId": operationID(r.Method, r.Path),
		"responses":   responses(op, len(params) > 0),
	}
	if op.Tag != "" {
		out["tags"] = []string{op.Tag}
	}
	if len(parameters) > 0 {
		out["parameters"] = parameters
	}
	if op.RequestBody != "" {
		out["requestBody"] = map[string]interface{}{
			"required": true,
			"content":  content(op.RequestBody),
		}
	}
	return out
}

func responses(op Operation, hasID bool) map[string]interface{} {
	status := op.Status
	if status == 0 {
		status = http.StatusOK
	}
	ok := map[string]interface{}{"description": http.StatusText(status)}
	if op.Response != "" {
		ok["content"] = content(op.Response)
	}
	out := map[string]interface{}{
		strconv.Itoa(status): ok,
		"400":        errorResponse("Invalid request"),
	}
	if hasID {
		out["404"] = errorResponse("Not found")
	}
	return out
}

func content(ref string) map[string]interface{} {
	if strings.Contains(ref, "/") {
		return map[string]interface{}{
			ref: map[string]interface{}{"schema": map[string]string{"type": "string", "format": "binary"}},
		}
	}
	return map[string]interface{}{
		"application/json": map[string]interface{}{
			"schema": map[string]string{"$ref": "#/components/schemas/" + ref},
		},
	}
}

func errorResponse(desc string) map[string]interface{} {
	return map[string]interface{}{
		"description": desc,
		"content":     content("Error"),
	}
}

// openAPIPath turns "/patients/:id/consultations" into
// "/patients/{id}/consultations" and returns the parameter names.
func openAPIPath(p string) (string, []string) {
	segs := strings.Split(p, "/")
	var params []string
	for i, s := range segs {
		if strings.HasPrefix(s, ":") {
			params = append(params, s[1:])
			segs[i] = "{" + s[1:] + "}"
		}
	}
	return strings.Join(segs, "/"), params
}

func operationID(method, path string) string {
	var b strings.Builder
	b.WriteString(strings.ToLower(method))
	for _, s := range strings.Split(path, "/") {
		s = strings.TrimPrefix(s, ":")
		s = strings.NewReplacer(".", "", "-", "", "_", "").Replace(s)
		if s == "" || s == "api" || s == "v1" {
			continue
		}
		b.WriteString(strings.ToUpper(s[:1]) + s[1:])
	}
	return b.String()
}

func object(required []string, props map[string]string) map[string]interface{} {
	properties := make(map[string]interface{}, len(props))
	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		typ, format, _ := strings.Cut(props[name], ":")
		s := map[string]string{"type": typ}
		if format != "" {
			s["format"] = format
		}
		properties[name] = s
	}
	out := map[string]interface{}{"type": "object", "properties": properties}
	if len(required) > 0 {
		out["required"] = required
	}
	return out
}

func page(item string) map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"data":     map[string]interface{}{"type": "array", "items": map[string]string{"$ref": "#/components/schemas/" + item}},
			"total":    map[string]string{"type": "integer"},
			"limit":    map[string]string{"type": "integer"},
			"offset":   map[string]string{"type": "integer"},
			"has_more": map[string]string{"type": "boolean"},
			"next":     map[string]string{"type": "string"},
		},
	}
}

func componentSchemas() map[string]interface{} {
	return map[string]interface{}{
		"Patient": object([]string{"name"}, map[string]string{
			"id": "integer:int64", "name": "string", "age": "string", "phone": "string",
			"national_id": "string", "birth_date": "string", "created_at": "string:date-time",
		}),
		"Consultation": object([]string{"notes"}, map[string]string{
			"id": "integer:int64", "patient_id": "integer:int64", "date": "string",
			"notes": "string", "created_at": "string:date-time",
		}),
		"Prescription": object([]string{"patient_id", "items"}, map[string]string{
			"id": "integer:int64", "patient_id": "integer:int64", "issued_at": "string",
			"items": "string", "observations": "string", "created_at": "string:date-time",
		}),
		"ClinicSettings": object(nil, map[string]string{
			"clinic_header": "string", "doctor_name": "string", "doctor_license": "string",
			"address": "string", "phone": "string", "city": "string",
		}),
		"Asset": object(nil, map[string]string{
			"name": "string", "content_type": "string", "size": "integer:int64",
			"hash": "string", "modified_at": "string:date-time",
		}),
		"PatientPage":      page("Patient"),
		"ConsultationPage": page("Consultation"),
		"PrescriptionPage": page("Prescription"),
		"Error":            object(nil, map[string]string{"message": "string", "error": "string"}),
	}
}

// RegisterRoutes serves the document at /openapi.json on api.
func (g *Generator) RegisterRoutes(api *echo.Group) {
	api.GET("/openapi.json", func(c echo.Context) error {
		return c.JSON(http.StatusOK, g.GenerateSpec())
	})
}
