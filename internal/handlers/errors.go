package handlers

import (
	"errors"

	"kosmart/internal/common"
	"kosmart/internal/models"

	"github.com/labstack/echo/v4"
)

// respondDomainError maps domain errors onto the shared error envelope.
func respondDomainError(c echo.Context, err error, resource string) error {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return common.SendNotFoundError(c, resource)
	case errors.Is(err, models.ErrValidation):
		return common.SendClientError(c, err.Error())
	case errors.Is(err, models.ErrActiveTenancyExists):
		return common.SendConflictError(c, "Cannot delete record with an active tenancy")
	case errors.Is(err, models.ErrUnauthorized):
		return common.SendUnauthorizedError(c)
	default:
		return common.SendServerError(c, "Internal server error")
	}
}
