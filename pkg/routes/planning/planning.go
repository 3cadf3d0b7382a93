// Package planning exposes the planning workflow API: pushing ideas into
// planning, the two-party decision endpoints, and the review queues.
package planning

import (
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"

	"github.com/hideyanjp01-maker/workbench/internal/repositories/planningproduct"
	"github.com/hideyanjp01-maker/workbench/internal/services/planning"
	"github.com/hideyanjp01-maker/workbench/pkg/binding"
	"github.com/hideyanjp01-maker/workbench/pkg/middleware"
	"github.com/hideyanjp01-maker/workbench/pkg/models"
	"github.com/hideyanjp01-maker/workbench/pkg/tracing"
)

// RejectRequest carries the brand owner's rejection reason.
type RejectRequest struct {
	Reason string `json:"reason" validate:"required"`
}

type Handler struct {
	service *planning.Service
	logger  ectologger.Logger
}

func NewHandler(service *planning.Service, logger ectologger.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register mounts the planning routes on g. Decision endpoints are
// role-gated: approval belongs to the brand owner, targets and sign-off to
// the e-commerce owner.
func (h *Handler) Register(g *echo.Group) {
	g.POST("", h.Push)
	g.GET("", h.List)
	g.GET("/queues/approval", h.ApprovalQueue, middleware.RequireRole(models.RoleBrandOwner))
	g.GET("/queues/sign-off", h.SignOffQueue, middleware.RequireRole(models.RoleEcommerceOwner))
	g.GET("/:id", h.Get)
	g.POST("/:id/approve", h.Approve, middleware.RequireRole(models.RoleBrandOwner))
	g.POST("/:id/reject", h.Reject, middleware.RequireRole(models.RoleBrandOwner))
	g.PUT("/:id/targets", h.UpdateTargets, middleware.RequireRole(models.RoleEcommerceOwner))
	g.POST("/:id/confirm", h.ConfirmTargets, middleware.RequireRole(models.RoleEcommerceOwner))
}

// Push adds an idea to the planning workflow. Re-pushing an existing idea
// returns the current record unchanged.
func (h *Handler) Push(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "planning.Push")
	defer span.End()

	idea, err := binding.BindRequest[models.Idea](c)
	if err != nil {
		return err
	}

	record, err := h.service.Push(ctx, idea)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusAccepted, record)
}

func (h *Handler) List(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "planning.List")
	defer span.End()

	records, err := h.service.List(ctx)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, records)
}

func (h *Handler) Get(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "planning.Get")
	defer span.End()

	id, err := requireID(c)
	if err != nil {
		return err
	}

	record, err := h.service.Get(ctx, id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, record)
}

// ApprovalQueue lists products awaiting the brand owner's decision.
func (h *Handler) ApprovalQueue(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "planning.ApprovalQueue")
	defer span.End()

	records, err := h.service.PendingProducts(ctx)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, records)
}

// SignOffQueue lists approved products awaiting e-commerce target sign-off.
func (h *Handler) SignOffQueue(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "planning.SignOffQueue")
	defer span.End()

	records, err := h.service.EcommercePendingProducts(ctx)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, records)
}

func (h *Handler) Approve(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "planning.Approve")
	defer span.End()

	id, err := requireID(c)
	if err != nil {
		return err
	}

	record, err := h.service.Approve(ctx, id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, record)
}

func (h *Handler) Reject(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "planning.Reject")
	defer span.End()

	id, err := requireID(c)
	if err != nil {
		return err
	}

	req, err := binding.BindRequest[RejectRequest](c)
	if err != nil {
		return err
	}

	record, err := h.service.Reject(ctx, id, req.Reason)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, record)
}

func (h *Handler) UpdateTargets(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "planning.UpdateTargets")
	defer span.End()

	id, err := requireID(c)
	if err != nil {
		return err
	}

	patch, err := binding.BindRequest[planningproduct.TargetsPatch](c)
	if err != nil {
		return err
	}

	record, err := h.service.UpdateTargets(ctx, id, patch)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, record)
}

func (h *Handler) ConfirmTargets(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "planning.ConfirmTargets")
	defer span.End()

	id, err := requireID(c)
	if err != nil {
		return err
	}

	record, err := h.service.ConfirmTargets(ctx, id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, record)
}

func requireID(c echo.Context) (string, error) {
	id := c.Param("id")
	if id == "" {
		return "", httperror.NewHTTPError(http.StatusBadRequest, "missing id")
	}
	return id, nil
}
