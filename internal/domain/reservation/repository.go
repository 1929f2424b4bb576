package reservation

import (
	"context"
	"time"

	"github.com/BruksfildServices01/dls-barber/internal/dto"
	"github.com/BruksfildServices01/dls-barber/internal/models"
)

type ScheduleRepository interface {
	// GetWeeklyWindows returns the active windows of a barber on a weekday.
	// Zero windows is a valid answer, and the only one for an unknown or
	// deactivated barber.
	GetWeeklyWindows(
		ctx context.Context,
		barberID uint,
		weekday time.Weekday,
	) ([]Window, error)

	ListSchedule(
		ctx context.Context,
		barberID uint,
	) ([]models.AvailableHour, error)

	ReplaceSchedule(
		ctx context.Context,
		barberID uint,
		hours []models.AvailableHour,
	) error
}

type ListFilter struct {
	Status   string
	Date     string
	BarberID uint
}

type Repository interface {
	// -------- Availability --------
	FindActiveTimes(
		ctx context.Context,
		barberID uint,
		date string,
	) ([]TimeOfDay, error)

	// -------- Create (conflict safe) --------

	// InsertIfFree stores r unless an active reservation already holds the
	// same barber, date and time. It returns ErrSlotTaken in that case.
	InsertIfFree(
		ctx context.Context,
		r *models.Reservation,
	) error

	// -------- State change --------

	// UpdateStatus sets the status of a reservation and returns the previous
	// one. Reactivating a cancelled reservation fails with ErrSlotTaken when
	// another active reservation holds the slot.
	UpdateStatus(
		ctx context.Context,
		id uint,
		status Status,
	) (Status, error)

	GetByID(
		ctx context.Context,
		id uint,
	) (*models.Reservation, error)

	// -------- Listing --------
	GetDetail(
		ctx context.Context,
		id uint,
	) (*dto.ReservationDetail, error)

	ListByUser(
		ctx context.Context,
		userID uint,
	) ([]dto.ReservationDetail, error)

	List(
		ctx context.Context,
		filter ListFilter,
	) ([]dto.ReservationDetail, error)

	Statistics(
		ctx context.Context,
		today string,
	) (*dto.ReservationStatistics, error)

	// -------- Maintenance --------

	// CompleteConfirmedBefore marks confirmed reservations whose slot starts
	// before beforeDate/beforeTime as completed and returns the affected rows.
	CompleteConfirmedBefore(
		ctx context.Context,
		beforeDate string,
		beforeTime string,
	) ([]models.Reservation, error)
}
