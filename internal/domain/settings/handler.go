package settings

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Updater is implemented by providers that can persist changes.
type Updater interface {
	Provider
	Update(updates map[string]string) (ClinicSettings, error)
}

type Handler struct {
	store Updater
}

func NewHandler(store Updater) *Handler {
	return &Handler{store: store}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/settings", h.GetSettings)
	api.PUT("/settings", h.UpdateSettings)
}

func (h *Handler) GetSettings(c echo.Context) error {
	return c.JSON(http.StatusOK, h.store.Settings().Map())
}

func (h *Handler) UpdateSettings(c echo.Context) error {
	var body map[string]string
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "settings must be a JSON object of strings")
	}
	updated, err := h.store.Update(body)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, updated.Map())
}
