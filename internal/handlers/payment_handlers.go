package handlers

import (
	"net/http"
	"time"

	"kosmart/internal/common"
	"kosmart/internal/models"
	"kosmart/internal/services"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

const receiptURLExpiry = 15 * time.Minute

// PaymentHandlers handles HTTP requests for payments
type PaymentHandlers struct {
	paymentService  services.PaymentServiceInterface
	documentService services.DocumentService
}

// NewPaymentHandlers creates a new payment handlers instance
func NewPaymentHandlers(paymentService services.PaymentServiceInterface, documentService services.DocumentService) *PaymentHandlers {
	return &PaymentHandlers{
		paymentService:  paymentService,
		documentService: documentService,
	}
}

// RecordPayment handles POST /payments
func (h *PaymentHandlers) RecordPayment(c echo.Context) error {
	ctx := c.Request().Context()

	var req struct {
		TenancyID   string          `json:"tenancy_id"`
		Amount      decimal.Decimal `json:"amount"`
		PaymentDate string          `json:"payment_date"`
		PaymentType string          `json:"payment_type"`
		Method      string          `json:"method"`
		Notes       *string         `json:"notes"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	tenancyID, err := common.ValidateUUID(req.TenancyID, "tenancy_id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	paymentDate, err := common.ParseDate(req.PaymentDate, "payment_date")
	if err != nil {
		return common.SendValidationError(c, "payment_date", err.Error())
	}
	if req.PaymentType == "" {
		req.PaymentType = models.PaymentTypeMonthlyRent
	}
	if req.Method == "" {
		req.Method = models.PaymentMethodTransfer
	}

	payment, err := h.paymentService.RecordPayment(ctx, &services.RecordPaymentRequest{
		TenancyID:   tenancyID,
		Amount:      req.Amount,
		PaymentDate: paymentDate,
		PaymentType: req.PaymentType,
		Method:      req.Method,
		Notes:       req.Notes,
	})
	if err != nil {
		return respondDomainError(c, err, "Payment")
	}
	return c.JSON(http.StatusCreated, payment)
}

// ListPaymentsByTenancy handles GET /tenancies/:id/payments
func (h *PaymentHandlers) ListPaymentsByTenancy(c echo.Context) error {
	ctx := c.Request().Context()

	tenancyID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	payments, err := h.paymentService.ListByTenancy(ctx, tenancyID)
	if err != nil {
		return respondDomainError(c, err, "Tenancy")
	}
	return c.JSON(http.StatusOK, payments)
}

// DeletePayment handles DELETE /payments/:id
func (h *PaymentHandlers) DeletePayment(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	if err := h.paymentService.Delete(ctx, id); err != nil {
		return respondDomainError(c, err, "Payment")
	}
	return c.NoContent(http.StatusNoContent)
}

// UploadReceipt handles POST /payments/:id/receipt (multipart upload)
func (h *PaymentHandlers) UploadReceipt(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	if _, err := h.paymentService.GetByID(ctx, id); err != nil {
		return respondDomainError(c, err, "Payment")
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return common.SendClientError(c, "file is required")
	}
	src, err := fileHeader.Open()
	if err != nil {
		return common.SendServerError(c, "Failed to read uploaded file")
	}
	defer src.Close()

	objectName, err := h.documentService.UploadReceipt(ctx, id, src, fileHeader.Size, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		return common.SendServerError(c, "Failed to store receipt")
	}
	return c.JSON(http.StatusCreated, map[string]string{"object_name": objectName})
}

// GetReceiptURL handles GET /payments/:id/receipt. Returns a short-lived
// download link for the stored receipt.
func (h *PaymentHandlers) GetReceiptURL(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	if _, err := h.paymentService.GetByID(ctx, id); err != nil {
		return respondDomainError(c, err, "Payment")
	}

	url, err := h.documentService.GetPresignedURL("receipts/"+id.String(), receiptURLExpiry)
	if err != nil {
		return common.SendServerError(c, "Failed to generate receipt link")
	}
	return c.JSON(http.StatusOK, map[string]string{"url": url})
}
