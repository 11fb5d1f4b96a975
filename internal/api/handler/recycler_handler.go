package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ecocolecta/pickup-system/internal/api/metrics"
	"github.com/ecocolecta/pickup-system/internal/core/domain"
	"github.com/ecocolecta/pickup-system/internal/core/ports"
)

// RecyclerHandler serves the recycler-scoped endpoints: active assignments,
// completed history, progress updates, and availability.
type RecyclerHandler struct {
	service ports.RecyclerService
}

func NewRecyclerHandler(service ports.RecyclerService) *RecyclerHandler {
	return &RecyclerHandler{service: service}
}

// ListAssignments returns the caller's active work, soonest pickup first.
//
// @Summary      List active assignments
// @Tags         recycler
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  ports.RecyclerAssignmentView
// @Router       /reciclador/assignments [get]
func (h *RecyclerHandler) ListAssignments(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	views, err := h.service.ListAssignments(c.Request().Context(), caller.ProfileID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "assignments", views)
}

// History returns the caller's completed pickups, most recent first.
//
// @Summary      List completed pickups
// @Tags         recycler
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  ports.RecyclerAssignmentView
// @Router       /reciclador/history [get]
func (h *RecyclerHandler) History(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	views, err := h.service.History(c.Request().Context(), caller.ProfileID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "history", views)
}

// Advance moves one of the caller's assignments to in_progress or completed.
//
// @Summary      Advance an assignment
// @Tags         recycler
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int             true  "Request id"
// @Param        body  body      advanceRequest  true  "Target status"
// @Success      200   {object}  domain.PickupRequest
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /reciclador/assignments/{id} [put]
func (h *RecyclerHandler) Advance(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}
	requestID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req advanceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	advanced, err := h.service.Advance(c.Request().Context(), caller.ProfileID, requestID, ports.AdvanceInput{
		Status:   domain.RequestStatus(req.Status),
		Comments: req.Comments,
	})
	if err != nil {
		observeTransitionErr(err)
		return err
	}

	metrics.TransitionsTotal.WithLabelValues(req.Status, domain.RoleRecycler).Inc()

	return respond(c, http.StatusOK, "assignment updated", advanced)
}

// UpdateAvailability sets the caller's availability flag.
//
// @Summary      Update availability
// @Tags         recycler
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      availabilityRequest  true  "New availability"
// @Success      200   {object}  domain.Recycler
// @Failure      422   {object}  map[string]string
// @Router       /reciclador/status [put]
func (h *RecyclerHandler) UpdateAvailability(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	var req availabilityRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	recycler, err := h.service.UpdateAvailability(c.Request().Context(), caller.ProfileID, domain.RecyclerStatus(req.Status))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "availability updated", recycler)
}
