package handlers

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/dls-barber/internal/domain/reservation"
	"github.com/BruksfildServices01/dls-barber/internal/httpresp"
	"github.com/BruksfildServices01/dls-barber/internal/httperr"
	"github.com/BruksfildServices01/dls-barber/internal/middleware"
	"github.com/BruksfildServices01/dls-barber/internal/usecase/reservation"
)

////////////////////////////////////////////////////////
// HANDLER
////////////////////////////////////////////////////////

type ReservationHandler struct {
	availability *reservation.GetAvailability
	create       *reservation.CreateReservation
	setStatus    *reservation.SetStatus
	cancel       *reservation.CancelReservation
	list         *reservation.ListReservations
}

func NewReservationHandler(
	availability *reservation.GetAvailability,
	create *reservation.CreateReservation,
	setStatus *reservation.SetStatus,
	cancel *reservation.CancelReservation,
	list *reservation.ListReservations,
) *ReservationHandler {
	return &ReservationHandler{
		availability: availability,
		create:       create,
		setStatus:    setStatus,
		cancel:       cancel,
		list:         list,
	}
}

////////////////////////////////////////////////////////
// DTOs
////////////////////////////////////////////////////////

// Required fields are checked by the use case so every missing field is
// reported at once.
type CreateReservationRequest struct {
	BarberID        uint   `json:"barber_id"`
	ServiceID       uint   `json:"service_id"`
	ReservationDate string `json:"reservation_date"` // YYYY-MM-DD
	ReservationTime string `json:"reservation_time"` // HH:MM
	ClientName      string `json:"client_name"`
	ClientPhone     string `json:"client_phone"`
	ClientEmail     string `json:"client_email"`
	Notes           string `json:"notes"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

////////////////////////////////////////////////////////
// AVAILABILITY
////////////////////////////////////////////////////////

// Availability serves GET /available-hours?date=&barber_id=.
func (h *ReservationHandler) Availability(c *gin.Context) {
	h.writeAvailability(c, c.Query("date"), c.Query("barber_id"))
}

// AvailabilityByPath serves GET /available-hours/:date/:barber_id.
func (h *ReservationHandler) AvailabilityByPath(c *gin.Context) {
	h.writeAvailability(c, c.Param("date"), c.Param("barber_id"))
}

func (h *ReservationHandler) writeAvailability(c *gin.Context, date, rawBarberID string) {
	var barberID uint
	if raw := strings.TrimSpace(rawBarberID); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			respondError(c, domain.NewValidationError("barber_id", "must be a positive integer"))
			return
		}
		barberID = uint(id)
	}

	slots, err := h.availability.Execute(c.Request.Context(), reservation.AvailabilityInput{
		BarberID: barberID,
		Date:     date,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	httpresp.OK(c, gin.H{"available_hours": domain.Strings(slots)})
}

////////////////////////////////////////////////////////
// CREATE
////////////////////////////////////////////////////////

func (h *ReservationHandler) Create(c *gin.Context) {
	var req CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	detail, err := h.create.Execute(c.Request.Context(), reservation.CreateInput{
		UserID:      middleware.UserIDPtr(c),
		BarberID:    req.BarberID,
		ServiceID:   req.ServiceID,
		Date:        req.ReservationDate,
		Time:        req.ReservationTime,
		ClientName:  req.ClientName,
		ClientPhone: req.ClientPhone,
		ClientEmail: req.ClientEmail,
		Notes:       req.Notes,
	})
	if err != nil {
		// A lost race on create is reported as a bad request the client can
		// fix by picking another slot.
		if errors.Is(err, domain.ErrSlotTaken) {
			httperr.BadRequest(c, "slot_taken", msgSlotTaken)
			return
		}
		respondError(c, err)
		return
	}

	httpresp.Created(c, gin.H{
		"message":     "Reservation created successfully",
		"reservation": detail,
	})
}

////////////////////////////////////////////////////////
// LISTINGS
////////////////////////////////////////////////////////

func (h *ReservationHandler) Mine(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	rows, err := h.list.ByUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	httpresp.OK(c, gin.H{"reservations": httpresp.Slice(rows)})
}

// All serves the admin listing with optional status, date and barber_id
// filters.
func (h *ReservationHandler) All(c *gin.Context) {
	filter := domain.ListFilter{
		Status: c.Query("status"),
		Date:   c.Query("date"),
	}
	if raw := c.Query("barber_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			respondError(c, domain.NewValidationError("barber_id", "must be a positive integer"))
			return
		}
		filter.BarberID = uint(id)
	}

	rows, stats, err := h.list.All(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	httpresp.OK(c, gin.H{
		"reservations": httpresp.Slice(rows),
		"statistics":   stats,
	})
}

////////////////////////////////////////////////////////
// STATUS
////////////////////////////////////////////////////////

func (h *ReservationHandler) UpdateStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	detail, err := h.setStatus.Execute(c.Request.Context(), id, req.Status, middleware.UserIDPtr(c))
	if err != nil {
		respondError(c, err)
		return
	}

	httpresp.OK(c, gin.H{
		"message":     "Reservation status updated successfully",
		"reservation": detail,
	})
}

func (h *ReservationHandler) Cancel(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	userID, _ := middleware.UserID(c)

	detail, err := h.cancel.Execute(c.Request.Context(), id, userID, middleware.IsAdmin(c))
	if err != nil {
		respondError(c, err)
		return
	}

	httpresp.OK(c, gin.H{
		"message":     "Reservation cancelled successfully",
		"reservation": detail,
	})
}
