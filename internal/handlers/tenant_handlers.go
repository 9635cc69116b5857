package handlers

import (
	"net/http"
	"strconv"

	"kosmart/internal/common"
	"kosmart/internal/models"
	"kosmart/internal/services"

	"github.com/labstack/echo/v4"
)

// TenantHandlers handles HTTP requests for tenants (renters)
type TenantHandlers struct {
	tenantService services.TenantServiceInterface
}

// NewTenantHandlers creates a new tenant handlers instance
func NewTenantHandlers(tenantService services.TenantServiceInterface) *TenantHandlers {
	return &TenantHandlers{
		tenantService: tenantService,
	}
}

type tenantPayload struct {
	FullName      string  `json:"full_name"`
	Gender        string  `json:"gender"`
	DateOfBirth   string  `json:"date_of_birth"`
	OriginCity    string  `json:"origin_city"`
	Occupation    string  `json:"occupation"`
	WorkplaceName *string `json:"workplace_name"`
	PhoneNumber   *string `json:"phone_number"`
}

// CreateTenant handles POST /tenants
func (h *TenantHandlers) CreateTenant(c echo.Context) error {
	ctx := c.Request().Context()

	var req tenantPayload
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	dob, err := common.ParseDate(req.DateOfBirth, "date_of_birth")
	if err != nil {
		return common.SendValidationError(c, "date_of_birth", err.Error())
	}

	tenant, err := h.tenantService.Create(ctx, &models.Tenant{
		FullName:      req.FullName,
		Gender:        req.Gender,
		DateOfBirth:   dob,
		OriginCity:    req.OriginCity,
		Occupation:    req.Occupation,
		WorkplaceName: req.WorkplaceName,
		PhoneNumber:   req.PhoneNumber,
	})
	if err != nil {
		return respondDomainError(c, err, "Tenant")
	}
	return c.JSON(http.StatusCreated, tenant)
}

// GetTenant handles GET /tenants/:id
func (h *TenantHandlers) GetTenant(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	tenant, err := h.tenantService.GetByID(ctx, id)
	if err != nil {
		return respondDomainError(c, err, "Tenant")
	}
	return c.JSON(http.StatusOK, tenant)
}

// ListTenants handles GET /tenants. With available=true the result is
// restricted to tenants without an active tenancy (the check-in picker).
func (h *TenantHandlers) ListTenants(c echo.Context) error {
	ctx := c.Request().Context()

	filter := &models.TenantSearchFilter{
		Query:         c.QueryParam("q"),
		AvailableOnly: c.QueryParam("available") == "true",
		SortBy:        c.QueryParam("sort"),
		SortOrder:     c.QueryParam("dir"),
	}
	if limit, err := strconv.Atoi(c.QueryParam("limit")); err == nil && limit > 0 {
		filter.Limit = limit
	}
	if offset, err := strconv.Atoi(c.QueryParam("offset")); err == nil && offset > 0 {
		filter.Offset = offset
	}

	tenants, err := h.tenantService.Search(ctx, filter)
	if err != nil {
		return respondDomainError(c, err, "Tenant")
	}
	return c.JSON(http.StatusOK, tenants)
}

// UpdateTenant handles PUT /tenants/:id
func (h *TenantHandlers) UpdateTenant(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	var req tenantPayload
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	dob, err := common.ParseDate(req.DateOfBirth, "date_of_birth")
	if err != nil {
		return common.SendValidationError(c, "date_of_birth", err.Error())
	}

	tenant, err := h.tenantService.Update(ctx, &models.Tenant{
		ID:            id,
		FullName:      req.FullName,
		Gender:        req.Gender,
		DateOfBirth:   dob,
		OriginCity:    req.OriginCity,
		Occupation:    req.Occupation,
		WorkplaceName: req.WorkplaceName,
		PhoneNumber:   req.PhoneNumber,
	})
	if err != nil {
		return respondDomainError(c, err, "Tenant")
	}
	return c.JSON(http.StatusOK, tenant)
}

// DeleteTenant handles DELETE /tenants/:id (soft delete, guarded by the
// active-tenancy rule)
func (h *TenantHandlers) DeleteTenant(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	if err := h.tenantService.Delete(ctx, id); err != nil {
		return respondDomainError(c, err, "Tenant")
	}
	return c.NoContent(http.StatusNoContent)
}
