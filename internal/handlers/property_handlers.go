package handlers

import (
	"net/http"
	"strconv"

	"kosmart/internal/common"
	"kosmart/internal/models"
	"kosmart/internal/services"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// PropertyHandlers handles HTTP requests for properties
type PropertyHandlers struct {
	propertyService services.PropertyServiceInterface
}

// NewPropertyHandlers creates a new property handlers instance
func NewPropertyHandlers(propertyService services.PropertyServiceInterface) *PropertyHandlers {
	return &PropertyHandlers{
		propertyService: propertyService,
	}
}

type propertyPayload struct {
	Name                string          `json:"name"`
	Address             string          `json:"address"`
	TotalCapacity       int             `json:"total_capacity"`
	StandardMonthlyRate decimal.Decimal `json:"standard_monthly_rate"`
	FacilityDescription *string         `json:"facility_description"`
}

// CreateProperty handles POST /properties
func (h *PropertyHandlers) CreateProperty(c echo.Context) error {
	ctx := c.Request().Context()

	var req propertyPayload
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	property, err := h.propertyService.Create(ctx, &models.Property{
		Name:                req.Name,
		Address:             req.Address,
		TotalCapacity:       req.TotalCapacity,
		StandardMonthlyRate: req.StandardMonthlyRate,
		FacilityDescription: req.FacilityDescription,
	})
	if err != nil {
		return respondDomainError(c, err, "Property")
	}
	return c.JSON(http.StatusCreated, property)
}

// GetProperty handles GET /properties/:id
func (h *PropertyHandlers) GetProperty(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	property, err := h.propertyService.GetByID(ctx, id)
	if err != nil {
		return respondDomainError(c, err, "Property")
	}
	return c.JSON(http.StatusOK, property)
}

// ListProperties handles GET /properties
func (h *PropertyHandlers) ListProperties(c echo.Context) error {
	ctx := c.Request().Context()

	filter := &models.PropertySearchFilter{
		Query:     c.QueryParam("q"),
		SortBy:    c.QueryParam("sort"),
		SortOrder: c.QueryParam("dir"),
	}
	if limit, err := strconv.Atoi(c.QueryParam("limit")); err == nil && limit > 0 {
		filter.Limit = limit
	}
	if offset, err := strconv.Atoi(c.QueryParam("offset")); err == nil && offset > 0 {
		filter.Offset = offset
	}

	properties, err := h.propertyService.Search(ctx, filter)
	if err != nil {
		return respondDomainError(c, err, "Property")
	}
	return c.JSON(http.StatusOK, properties)
}

// UpdateProperty handles PUT /properties/:id
func (h *PropertyHandlers) UpdateProperty(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	var req propertyPayload
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	property, err := h.propertyService.Update(ctx, &models.Property{
		ID:                  id,
		Name:                req.Name,
		Address:             req.Address,
		TotalCapacity:       req.TotalCapacity,
		StandardMonthlyRate: req.StandardMonthlyRate,
		FacilityDescription: req.FacilityDescription,
	})
	if err != nil {
		return respondDomainError(c, err, "Property")
	}
	return c.JSON(http.StatusOK, property)
}

// DeleteProperty handles DELETE /properties/:id (soft delete, guarded by the
// active-tenancy rule)
func (h *PropertyHandlers) DeleteProperty(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	if err := h.propertyService.Delete(ctx, id); err != nil {
		return respondDomainError(c, err, "Property")
	}
	return c.NoContent(http.StatusNoContent)
}
