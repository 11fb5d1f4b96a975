package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ecocolecta/pickup-system/internal/api/metrics"
	"github.com/ecocolecta/pickup-system/internal/core/domain"
	"github.com/ecocolecta/pickup-system/internal/core/ports"
)

// AssociationHandler serves the association-scoped endpoints: recycler roster
// management, incoming request triage, assignment, stats, and profile edits.
type AssociationHandler struct {
	service ports.AssociationService
	auth    ports.AuthService
}

func NewAssociationHandler(service ports.AssociationService, auth ports.AuthService) *AssociationHandler {
	return &AssociationHandler{service: service, auth: auth}
}

// ListRecyclers returns the association's worker roster.
//
// @Summary      List own recyclers
// @Tags         association
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.Recycler
// @Router       /asociacion/recicladores [get]
func (h *AssociationHandler) ListRecyclers(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	recyclers, err := h.service.ListRecyclers(c.Request().Context(), caller.ProfileID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "recyclers", recyclers)
}

// RegisterRecycler creates a recycler account owned by the caller.
//
// @Summary      Register a recycler
// @Tags         association
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      registerRecyclerRequest  true  "Recycler account details"
// @Success      201   {object}  map[string]any
// @Failure      400   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /asociacion/recicladores [post]
func (h *AssociationHandler) RegisterRecycler(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	var req registerRecyclerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	result, err := h.auth.RegisterRecycler(c.Request().Context(), caller.ProfileID, ports.RegisterRecyclerInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Phone:    req.Phone,
		City:     req.City,
	})
	if err != nil {
		return err
	}

	metrics.RegistrationsTotal.WithLabelValues(domain.RoleRecycler).Inc()

	return respond(c, http.StatusCreated, "recycler registered", profileResponse{
		Identity: result.Identity,
		Profile:  result.Profile,
	})
}

// ListRequests returns the requests addressed to the association, newest
// first, with requester and assigned-worker summaries.
//
// @Summary      List incoming requests
// @Tags         association
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  ports.AssociationRequestView
// @Router       /asociacion/requests [get]
func (h *AssociationHandler) ListRequests(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	views, err := h.service.ListRequests(c.Request().Context(), caller.ProfileID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "requests", views)
}

// Assign binds a pending request to an available recycler and stamps the
// collection date. Exactly one concurrent assignment can win.
//
// @Summary      Assign a request to a recycler
// @Tags         association
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      assignRequest  true  "Assignment details"
// @Success      200   {object}  domain.PickupRequest
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /asociacion/assign [post]
func (h *AssociationHandler) Assign(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	var req assignRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	collectionDate, err := parseDate("collection_date", req.CollectionDate)
	if err != nil {
		return err
	}

	assigned, err := h.service.Assign(c.Request().Context(), caller.ProfileID, ports.AssignInput{
		RequestID:      req.RequestID,
		RecyclerID:     req.RecyclerID,
		CollectionDate: collectionDate,
	})
	if err != nil {
		observeTransitionErr(err)
		return err
	}

	metrics.TransitionsTotal.WithLabelValues(string(domain.StatusAssigned), domain.RoleAssociation).Inc()

	return respond(c, http.StatusOK, "request assigned", assigned)
}

// CancelRequest cancels an incoming request on behalf of the association.
//
// @Summary      Cancel an incoming request
// @Tags         association
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Request id"
// @Success      200  {object}  domain.PickupRequest
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /asociacion/requests/{id}/cancel [put]
func (h *AssociationHandler) CancelRequest(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}
	requestID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	cancelled, err := h.service.CancelRequest(c.Request().Context(), caller.ProfileID, requestID)
	if err != nil {
		observeTransitionErr(err)
		return err
	}

	metrics.TransitionsTotal.WithLabelValues(string(domain.StatusCancelled), domain.RoleAssociation).Inc()

	return respond(c, http.StatusOK, "request cancelled", cancelled)
}

// Stats returns the association dashboard snapshot.
//
// @Summary      Get association statistics
// @Tags         association
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  ports.AssociationStats
// @Router       /asociacion/stats [get]
func (h *AssociationHandler) Stats(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	stats, err := h.service.Stats(c.Request().Context(), caller.ProfileID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "stats", stats)
}

// UpdateProfile applies a partial update to the association's public profile.
//
// @Summary      Update association profile
// @Tags         association
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateProfileRequest  true  "Fields to change"
// @Success      200   {object}  domain.Association
// @Failure      400   {object}  map[string]string
// @Router       /asociacion/profile [put]
func (h *AssociationHandler) UpdateProfile(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	updated, err := h.service.UpdateProfile(c.Request().Context(), caller.ProfileID, ports.UpdateAssociationInput{
		Name:        req.Name,
		Phone:       req.Phone,
		Address:     req.Address,
		Description: req.Description,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "profile updated", updated)
}
