package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ecocolecta/pickup-system/internal/core/ports"
)

// CatalogHandler serves the public reference data used by registration forms.
type CatalogHandler struct {
	cities ports.CityRepository
}

func NewCatalogHandler(cities ports.CityRepository) *CatalogHandler {
	return &CatalogHandler{cities: cities}
}

// Cities lists the supported cities.
//
// @Summary      List cities
// @Tags         catalog
// @Produce      json
// @Success      200  {array}  domain.City
// @Router       /cities [get]
func (h *CatalogHandler) Cities(c echo.Context) error {
	cities, err := h.cities.List(c.Request().Context())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "cities", cities)
}
