// Package dashboard exposes the rendered role/stage dashboard endpoint.
package dashboard

import (
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"

	"github.com/hideyanjp01-maker/workbench/internal/services/dashboard"
	"github.com/hideyanjp01-maker/workbench/pkg/models"
	"github.com/hideyanjp01-maker/workbench/pkg/tracing"
)

type Handler struct {
	service *dashboard.Service
	logger  ectologger.Logger
}

func NewHandler(service *dashboard.Service, logger ectologger.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

func (h *Handler) Register(g *echo.Group) {
	g.GET("/:role/:stage", h.Render)
}

// Render returns the dashboard for a role and stage. Unknown role or stage
// names are a 400; a missing layout for a valid pair is a 404.
func (h *Handler) Render(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "dashboard.Render")
	defer span.End()

	role, err := models.ParseRole(c.Param("role"))
	if err != nil {
		return httperror.WrapError(http.StatusBadRequest, err)
	}

	stage, err := models.ParseStage(c.Param("stage"))
	if err != nil {
		return httperror.WrapError(http.StatusBadRequest, err)
	}

	dash, err := h.service.Render(ctx, role, stage)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dash)
}
