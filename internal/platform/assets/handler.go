package assets

import (
	"bytes"
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
)

// Handler exposes one named asset over HTTP.
type Handler struct {
	store Store
	name  string
}

// NewHandler returns a handler bound to the asset called name.
func NewHandler(store Store, name string) *Handler {
	return &Handler{store: store, name: name}
}

// RegisterRoutes mounts PUT/GET/DELETE for the asset at path on g.
func (h *Handler) RegisterRoutes(g *echo.Group, path string) {
	g.PUT(path, h.Replace)
	g.GET(path, h.Download)
	g.DELETE(path, h.Delete)
}

// Replace accepts either a multipart form with a "file" field or the raw
// image as the request body.
func (h *Handler) Replace(c echo.Context) error {
	var src io.Reader
	if file, err := c.FormFile("file"); err == nil {
		f, err := file.Open()
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to open uploaded file"})
		}
		defer f.Close()
		src = f
	} else {
		body, err := io.ReadAll(c.Request().Body)
		if err != nil {
			var httpErr *echo.HTTPError
			if errors.As(err, &httpErr) {
				return httpErr
			}
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "failed to read request body"})
		}
		if len(body) == 0 {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "file is required"})
		}
		src = bytes.NewReader(body)
	}

	meta, err := h.store.Put(c.Request().Context(), h.name, src)
	if err != nil {
		switch {
		case errors.Is(err, ErrAssetTooLarge):
			return c.JSON(http.StatusRequestEntityTooLarge, map[string]string{"error": err.Error()})
		case errors.Is(err, ErrInvalidContentType):
			return c.JSON(http.StatusUnsupportedMediaType, map[string]string{"error": err.Error()})
		case errors.Is(err, ErrInvalidName):
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		default:
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
		}
	}
	return c.JSON(http.StatusOK, meta)
}

func (h *Handler) Download(c echo.Context) error {
	data, meta, err := h.store.Get(c.Request().Context(), h.name)
	if err != nil {
		if errors.Is(err, ErrAssetNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	c.Response().Header().Set("ETag", `"`+meta.Hash+`"`)
	return c.Blob(http.StatusOK, meta.ContentType, data)
}

func (h *Handler) Delete(c echo.Context) error {
	if err := h.store.Delete(c.Request().Context(), h.name); err != nil {
		if errors.Is(err, ErrAssetNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.NoContent(http.StatusNoContent)
}
