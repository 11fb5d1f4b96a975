package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/ecocolecta/pickup-system/internal/api/metrics"
	"github.com/ecocolecta/pickup-system/internal/core/domain"
	"github.com/ecocolecta/pickup-system/internal/core/ports"
)

// CitizenHandler serves the citizen-scoped request lifecycle endpoints.
// Ownership scoping happens in the service and repository layers; the handler
// only extracts the caller and the path parameters.
type CitizenHandler struct {
	service ports.CitizenService
}

func NewCitizenHandler(service ports.CitizenService) *CitizenHandler {
	return &CitizenHandler{service: service}
}

// pathID parses a positive integer path parameter. A malformed id maps to 404
// rather than 400 so probing with garbage ids looks identical to probing with
// someone else's ids.
func pathID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusNotFound, "not found")
	}
	return id, nil
}

// ListRequests returns the caller's pickup requests, newest first.
//
// @Summary      List own pickup requests
// @Tags         citizen
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   ports.CitizenRequestView
// @Failure      401  {object}  map[string]string
// @Router       /citizen/requests [get]
func (h *CitizenHandler) ListRequests(c echo.Context) error {
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

// GetRequest returns one of the caller's requests by id.
//
// @Summary      Get one own pickup request
// @Tags         citizen
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Request id"
// @Success      200  {object}  ports.CitizenRequestView
// @Failure      404  {object}  map[string]string
// @Router       /citizen/requests/{id} [get]
func (h *CitizenHandler) GetRequest(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}
	requestID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	view, err := h.service.GetRequest(c.Request().Context(), caller.ProfileID, requestID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "request", view)
}

// CreateRequest submits a new pickup request in pending state.
//
// @Summary      Create a pickup request
// @Tags         citizen
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createRequestRequest  true  "Pickup details"
// @Success      201   {object}  domain.PickupRequest
// @Failure      404   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /citizen/requests [post]
func (h *CitizenHandler) CreateRequest(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	var req createRequestRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	requestDate, err := parseDate("request_date", req.RequestDate)
	if err != nil {
		return err
	}

	created, err := h.service.CreateRequest(c.Request().Context(), caller.ProfileID, ports.CreateRequestInput{
		AssociationID: req.AssociationID,
		Address:       req.Address,
		City:          req.City,
		References:    req.References,
		Materials:     req.Materials,
		Comments:      req.Comments,
		RequestDate:   requestDate,
	})
	if err != nil {
		return err
	}

	metrics.RequestsCreatedTotal.Inc()

	return respond(c, http.StatusCreated, "request created", created)
}

// CancelRequest cancels one of the caller's requests while it is still
// cancellable (pending or assigned).
//
// @Summary      Cancel an own pickup request
// @Tags         citizen
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Request id"
// @Success      200  {object}  domain.PickupRequest
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /citizen/requests/{id}/cancel [put]
func (h *CitizenHandler) CancelRequest(c echo.Context) error {
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

	metrics.TransitionsTotal.WithLabelValues(string(domain.StatusCancelled), domain.RoleCitizen).Inc()

	return respond(c, http.StatusOK, "request cancelled", cancelled)
}

// ListAssociations lists the verified associations a citizen may send a
// request to.
//
// @Summary      List verified associations
// @Tags         citizen
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  ports.AssociationSummary
// @Router       /citizen/associations [get]
func (h *CitizenHandler) ListAssociations(c echo.Context) error {
	if _, err := ctxCaller(c); err != nil {
		return err
	}

	summaries, err := h.service.ListAssociations(c.Request().Context())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "associations", summaries)
}
