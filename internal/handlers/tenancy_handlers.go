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

// TenancyHandlers handles HTTP requests for tenancies (check-in, edits)
type TenancyHandlers struct {
	tenancyService services.TenancyServiceInterface
}

// NewTenancyHandlers creates a new tenancy handlers instance
func NewTenancyHandlers(tenancyService services.TenancyServiceInterface) *TenancyHandlers {
	return &TenancyHandlers{
		tenancyService: tenancyService,
	}
}

// CreateTenancy handles POST /tenancies (check-in)
func (h *TenancyHandlers) CreateTenancy(c echo.Context) error {
	ctx := c.Request().Context()

	var req struct {
		TenantID      *string `json:"tenant_id"`
		PropertyID    string  `json:"property_id"`
		FullName      string  `json:"full_name"`
		Gender        string  `json:"gender"`
		DateOfBirth   *string `json:"date_of_birth"`
		OriginCity    string  `json:"origin_city"`
		Occupation    string  `json:"occupation"`
		WorkplaceName *string `json:"workplace_name"`
		PhoneNumber   *string `json:"phone_number"`

		RoomNumber *string         `json:"room_number"`
		StartDate  string          `json:"start_date"`
		RentPrice  decimal.Decimal `json:"rent_price"`

		PayInitialRent bool             `json:"pay_initial_rent"`
		PaymentAmount  *decimal.Decimal `json:"payment_amount"`
		PaymentDate    *string          `json:"payment_date"`
		PaymentMethod  *string          `json:"payment_method"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	propertyID, err := common.ValidateUUID(req.PropertyID, "property_id")
	if err != nil {
		return common.SendValidationError(c, "property_id", err.Error())
	}
	startDate, err := common.ParseDate(req.StartDate, "start_date")
	if err != nil {
		return common.SendValidationError(c, "start_date", err.Error())
	}
	paymentDate, err := common.ParseOptionalDate(req.PaymentDate, "payment_date")
	if err != nil {
		return common.SendValidationError(c, "payment_date", err.Error())
	}

	create := &models.CreateTenancyRequest{
		PropertyID:     propertyID,
		RoomNumber:     common.NormalizeRoomNumber(req.RoomNumber),
		StartDate:      startDate,
		RentPrice:      req.RentPrice,
		PayInitialRent: req.PayInitialRent,
		PaymentAmount:  req.PaymentAmount,
		PaymentDate:    paymentDate,
		PaymentMethod:  req.PaymentMethod,
	}

	if req.TenantID != nil && *req.TenantID != "" {
		tenantID, err := common.ValidateUUID(*req.TenantID, "tenant_id")
		if err != nil {
			return common.SendValidationError(c, "tenant_id", err.Error())
		}
		create.TenantID = &tenantID
	} else {
		dob, err := common.ParseOptionalDate(req.DateOfBirth, "date_of_birth")
		if err != nil {
			return common.SendValidationError(c, "date_of_birth", err.Error())
		}
		create.FullName = req.FullName
		create.Gender = req.Gender
		create.OriginCity = req.OriginCity
		create.Occupation = req.Occupation
		create.WorkplaceName = req.WorkplaceName
		create.PhoneNumber = req.PhoneNumber
		if dob != nil {
			create.DateOfBirth = *dob
		}
	}

	tenancy, err := h.tenancyService.CreateTenancy(ctx, create)
	if err != nil {
		return respondDomainError(c, err, "Tenancy reference")
	}
	return c.JSON(http.StatusCreated, tenancy)
}

// GetTenancy handles GET /tenancies/:id
func (h *TenancyHandlers) GetTenancy(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	tenancy, err := h.tenancyService.GetTenancy(ctx, id)
	if err != nil {
		return respondDomainError(c, err, "Tenancy")
	}
	return c.JSON(http.StatusOK, tenancy)
}

// ListTenancies handles GET /tenancies
func (h *TenancyHandlers) ListTenancies(c echo.Context) error {
	ctx := c.Request().Context()

	filter := &models.TenancySearchFilter{
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
	if propertyIDStr := c.QueryParam("property_id"); propertyIDStr != "" {
		propertyID, err := common.ValidateUUID(propertyIDStr, "property_id")
		if err != nil {
			return common.SendValidationError(c, "property_id", err.Error())
		}
		filter.PropertyID = &propertyID
	}
	if status := c.QueryParam("status"); status != "" {
		if !models.ValidTenancyStatus(status) {
			return common.SendValidationError(c, "status", "Unknown status")
		}
		filter.Status = &status
	}

	tenancies, err := h.tenancyService.ListTenancies(ctx, filter)
	if err != nil {
		return respondDomainError(c, err, "Tenancy")
	}
	return c.JSON(http.StatusOK, tenancies)
}

// UpdateTenancy handles PUT /tenancies/:id
func (h *TenancyHandlers) UpdateTenancy(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	var req struct {
		TenantID      *string          `json:"tenant_id"`
		PropertyID    *string          `json:"property_id"`
		RoomNumber    *string          `json:"room_number"`
		StartDate     *string          `json:"start_date"`
		EndDate       *string          `json:"end_date"`
		RentPrice     *decimal.Decimal `json:"rent_price"`
		Status        *string          `json:"status"`
		LeavingReason *string          `json:"leaving_reason"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	update := &models.UpdateTenancyRequest{
		RentPrice:     req.RentPrice,
		Status:        req.Status,
		LeavingReason: req.LeavingReason,
	}
	if req.RoomNumber != nil {
		update.RoomNumber = common.NormalizeRoomNumber(req.RoomNumber)
	}
	if req.TenantID != nil {
		tenantID, err := common.ValidateUUID(*req.TenantID, "tenant_id")
		if err != nil {
			return common.SendValidationError(c, "tenant_id", err.Error())
		}
		update.TenantID = &tenantID
	}
	if req.PropertyID != nil {
		propertyID, err := common.ValidateUUID(*req.PropertyID, "property_id")
		if err != nil {
			return common.SendValidationError(c, "property_id", err.Error())
		}
		update.PropertyID = &propertyID
	}
	if update.StartDate, err = common.ParseOptionalDate(req.StartDate, "start_date"); err != nil {
		return common.SendValidationError(c, "start_date", err.Error())
	}
	if update.EndDate, err = common.ParseOptionalDate(req.EndDate, "end_date"); err != nil {
		return common.SendValidationError(c, "end_date", err.Error())
	}
	// Re-checked in the service against the merged row; rejecting here keeps
	// the obvious case out of the transaction.
	if update.StartDate != nil && update.EndDate != nil && update.EndDate.Before(*update.StartDate) {
		return common.SendValidationError(c, "end_date", "end_date must be on or after start_date")
	}

	tenancy, err := h.tenancyService.UpdateTenancy(ctx, id, update)
	if err != nil {
		return respondDomainError(c, err, "Tenancy")
	}
	return c.JSON(http.StatusOK, tenancy)
}

// SearchTenancies handles GET /tenancies/search, the active-tenancy picker
// used by the payment form.
func (h *TenancyHandlers) SearchTenancies(c echo.Context) error {
	ctx := c.Request().Context()

	limit := 20
	if parsed, err := strconv.Atoi(c.QueryParam("limit")); err == nil && parsed > 0 {
		limit = parsed
	}

	if idStr := c.QueryParam("id"); idStr != "" {
		id, err := common.ValidateUUID(idStr, "id")
		if err != nil {
			return common.SendClientError(c, err.Error())
		}
		tenancy, err := h.tenancyService.GetTenancy(ctx, id)
		if err != nil {
			return respondDomainError(c, err, "Tenancy")
		}
		if tenancy.Status != models.TenancyStatusActive {
			return c.JSON(http.StatusOK, []*services.TenancyOption{})
		}
		return c.JSON(http.StatusOK, []*services.TenancyOption{{
			Value:     tenancy.ID.String(),
			Label:     tenancy.Tenant.FullName + " - " + tenancy.Property.Name,
			RentPrice: tenancy.RentPrice,
		}})
	}

	options, err := h.tenancyService.SearchActive(ctx, c.QueryParam("query"), limit)
	if err != nil {
		return respondDomainError(c, err, "Tenancy")
	}
	return c.JSON(http.StatusOK, options)
}

// DeleteTenancy handles DELETE /tenancies/:id. Tenancies are closed by
// setting status and end_date, never removed.
func (h *TenancyHandlers) DeleteTenancy(c echo.Context) error {
	return echo.NewHTTPError(http.StatusMethodNotAllowed, "Tenancies are closed via status, not deleted")
}
