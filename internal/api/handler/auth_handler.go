package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ecocolecta/pickup-system/internal/api/metrics"
	"github.com/ecocolecta/pickup-system/internal/core/domain"
	"github.com/ecocolecta/pickup-system/internal/core/ports"
)

// AuthHandler handles registration, login, logout, and the self-profile view.
type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register creates a citizen or association account and logs it in.
//
// @Summary      Register a citizen or association
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Account and profile details"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	in := ports.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	}
	switch req.Role {
	case domain.RoleCitizen:
		in.Citizen = &ports.CitizenProfileInput{
			Name:          req.Name,
			Phone:         req.Phone,
			Address:       req.Address,
			City:          req.City,
			LocationNotes: req.LocationNotes,
		}
	case domain.RoleAssociation:
		in.Association = &ports.AssociationProfileInput{
			Name:        req.Name,
			Phone:       req.Phone,
			Address:     req.Address,
			City:        req.City,
			Description: req.Description,
		}
	}

	result, err := h.authService.Register(c.Request().Context(), in)
	if err != nil {
		return err
	}

	metrics.RegistrationsTotal.WithLabelValues(req.Role).Inc()

	return respond(c, http.StatusCreated, "registered", authResponse{
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
		Identity:  result.Identity,
		Profile:   result.Profile,
	})
}

// Login authenticates an identity and issues a bearer token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  authResponse
// @Failure      401   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	result, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("rejected").Inc()
		return err
	}
	metrics.LoginsTotal.WithLabelValues("ok").Inc()

	return respond(c, http.StatusOK, "logged in", authResponse{
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
		Identity:  result.Identity,
		Profile:   result.Profile,
	})
}

// Logout revokes the presented token's session. The token itself stays
// syntactically valid until expiry but is no longer accepted.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Router       /logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	tokenID, err := ctxTokenID(c)
	if err != nil {
		return err
	}

	if err := h.authService.Logout(c.Request().Context(), tokenID); err != nil {
		return err
	}

	return respond(c, http.StatusOK, "logged out", nil)
}

// Profile returns the caller's identity and role-specific profile.
//
// @Summary      Get own profile
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  profileResponse
// @Failure      401  {object}  map[string]string
// @Router       /profile [get]
func (h *AuthHandler) Profile(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	result, err := h.authService.Profile(c.Request().Context(), caller)
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, "profile", profileResponse{
		Identity: result.Identity,
		Profile:  result.Profile,
	})
}
