package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/dls-barber/internal/domain/catalog"
	domain "github.com/BruksfildServices01/dls-barber/internal/domain/reservation"
	"github.com/BruksfildServices01/dls-barber/internal/httperr"
	"github.com/BruksfildServices01/dls-barber/internal/usecase/barber"
)

const msgSlotTaken = "This time was just taken, please pick another."

// respondError renders a use case error. Unexpected errors are attached to
// the gin context so the request logger records them.
func respondError(c *gin.Context, err error) {
	if ve, ok := domain.AsValidation(err); ok {
		httperr.WriteDetails(c, http.StatusBadRequest, "validation_error", "Invalid data.", ve.Fields)
		return
	}

	switch {
	case errors.Is(err, domain.ErrSlotTaken):
		httperr.Conflict(c, "slot_taken", msgSlotTaken)
	case errors.Is(err, domain.ErrReservationNotFound):
		httperr.NotFound(c, "reservation_not_found", "Reservation not found.")
	case errors.Is(err, catalog.ErrBarberNotFound):
		httperr.NotFound(c, "barber_not_found", "Barber not found.")
	case errors.Is(err, catalog.ErrServiceNotFound):
		httperr.NotFound(c, "service_not_found", "Service not found.")
	case errors.Is(err, domain.ErrForbidden):
		httperr.Forbidden(c, "forbidden", "You cannot change this reservation.")
	case errors.Is(err, barber.ErrStorageDisabled):
		httperr.Unavailable(c, "storage_disabled", "Photo storage is not configured.")
	case domain.IsUnavailable(err):
		_ = c.Error(err)
		httperr.Unavailable(c, "data_unavailable", "Service temporarily unavailable, please retry.")
	default:
		_ = c.Error(err)
		httperr.Internal(c, "internal_error", "Internal server error.")
	}
}

func invalidRequest(c *gin.Context, err error) {
	httperr.WriteDetails(c, http.StatusBadRequest, "invalid_request", "Invalid data.",
		map[string]string{"body": err.Error()})
}
