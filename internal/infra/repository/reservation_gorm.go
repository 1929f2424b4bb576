package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/dls-barber/internal/domain/reservation"
	"github.com/BruksfildServices01/dls-barber/internal/dto"
	"github.com/BruksfildServices01/dls-barber/internal/httperr"
	"github.com/BruksfildServices01/dls-barber/internal/models"
)

type ReservationGormRepository struct {
	db *gorm.DB
}

func NewReservationGormRepository(db *gorm.DB) *ReservationGormRepository {
	return &ReservationGormRepository{db: db}
}

// --------------------------------------------------
// Availability
// --------------------------------------------------

func (r *ReservationGormRepository) FindActiveTimes(
	ctx context.Context,
	barberID uint,
	date string,
) ([]domain.TimeOfDay, error) {

	var raw []string
	if err := r.db.WithContext(ctx).
		Model(&models.Reservation{}).
		Where(
			"barber_id = ? AND reservation_date = ? AND status <> ?",
			barberID, date, string(domain.StatusCancelled),
		).
		Pluck("reservation_time", &raw).Error; err != nil {
		return nil, domain.Unavailable("find active times", err)
	}

	times := make([]domain.TimeOfDay, 0, len(raw))
	for _, s := range raw {
		if t, err := domain.ParseTimeOfDay(s); err == nil {
			times = append(times, t)
		}
	}
	return times, nil
}

// --------------------------------------------------
// Create
// --------------------------------------------------

// lockActiveInSlot locks the active reservations holding a slot and reports
// whether any exist besides excludeID.
func lockActiveInSlot(
	tx *gorm.DB,
	barberID uint,
	date string,
	hhmm string,
	excludeID uint,
) (bool, error) {

	var ids []uint
	q := tx.
		Model(&models.Reservation{}).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where(
			"barber_id = ? AND reservation_date = ? AND reservation_time = ? AND status <> ?",
			barberID, date, hhmm, string(domain.StatusCancelled),
		)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}

	if err := q.Pluck("id", &ids).Error; err != nil {
		return false, err
	}
	return len(ids) > 0, nil
}

func (r *ReservationGormRepository) InsertIfFree(
	ctx context.Context,
	res *models.Reservation,
) error {

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		taken, err := lockActiveInSlot(tx, res.BarberID, res.ReservationDate, res.ReservationTime, 0)
		if err != nil {
			return err
		}
		if taken {
			return domain.ErrSlotTaken
		}

		return tx.Create(res).Error
	})

	return mapWriteError("insert reservation", err)
}

// --------------------------------------------------
// State change
// --------------------------------------------------

func (r *ReservationGormRepository) UpdateStatus(
	ctx context.Context,
	id uint,
	status domain.Status,
) (domain.Status, error) {

	var previous domain.Status

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var res models.Reservation
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&res, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrReservationNotFound
			}
			return err
		}

		previous = domain.Status(res.Status)
		if previous == status {
			return nil
		}

		if domain.RequiresSlotCheck(previous, status) {
			taken, err := lockActiveInSlot(tx, res.BarberID, res.ReservationDate, res.ReservationTime, res.ID)
			if err != nil {
				return err
			}
			if taken {
				return domain.ErrSlotTaken
			}
		}

		return tx.Model(&res).Update("status", string(status)).Error
	})

	if err != nil {
		return "", mapWriteError("update reservation status", err)
	}
	return previous, nil
}

func (r *ReservationGormRepository) GetByID(
	ctx context.Context,
	id uint,
) (*models.Reservation, error) {

	var res models.Reservation
	if err := r.db.WithContext(ctx).First(&res, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrReservationNotFound
		}
		return nil, domain.Unavailable("get reservation", err)
	}
	return &res, nil
}

// --------------------------------------------------
// Listing
// --------------------------------------------------

func (r *ReservationGormRepository) detailQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("reservations AS r").
		Select(`
			r.id, r.user_id, r.barber_id, r.service_id,
			r.reservation_date, r.reservation_time, r.status,
			r.client_name, r.client_phone, r.client_email, r.notes,
			r.created_at, r.updated_at,
			COALESCE(b.name, '') AS barber_name,
			COALESCE(s.name, '') AS service_name,
			COALESCE(s.duration_minutes, 0) AS duration_minutes,
			COALESCE(s.price, 0) AS price,
			u.username AS username,
			u.email AS user_email
		`).
		Joins("LEFT JOIN barbers b ON b.id = r.barber_id").
		Joins("LEFT JOIN services s ON s.id = r.service_id").
		Joins("LEFT JOIN users u ON u.id = r.user_id")
}

func (r *ReservationGormRepository) GetDetail(
	ctx context.Context,
	id uint,
) (*dto.ReservationDetail, error) {

	var rows []dto.ReservationDetail
	if err := r.detailQuery(ctx).
		Where("r.id = ?", id).
		Limit(1).
		Scan(&rows).Error; err != nil {
		return nil, domain.Unavailable("get reservation detail", err)
	}
	if len(rows) == 0 {
		return nil, domain.ErrReservationNotFound
	}
	return &rows[0], nil
}

func (r *ReservationGormRepository) ListByUser(
	ctx context.Context,
	userID uint,
) ([]dto.ReservationDetail, error) {

	var rows []dto.ReservationDetail
	if err := r.detailQuery(ctx).
		Where("r.user_id = ?", userID).
		Order("r.reservation_date DESC, r.reservation_time DESC").
		Scan(&rows).Error; err != nil {
		return nil, domain.Unavailable("list user reservations", err)
	}
	return rows, nil
}

func (r *ReservationGormRepository) List(
	ctx context.Context,
	filter domain.ListFilter,
) ([]dto.ReservationDetail, error) {

	q := r.detailQuery(ctx)

	if filter.Status != "" {
		q = q.Where("r.status = ?", filter.Status)
	}
	if filter.Date != "" {
		q = q.Where("r.reservation_date = ?", filter.Date)
	}
	if filter.BarberID != 0 {
		q = q.Where("r.barber_id = ?", filter.BarberID)
	}

	var rows []dto.ReservationDetail
	if err := q.
		Order("r.reservation_date DESC, r.reservation_time DESC").
		Scan(&rows).Error; err != nil {
		return nil, domain.Unavailable("list reservations", err)
	}
	return rows, nil
}

func (r *ReservationGormRepository) Statistics(
	ctx context.Context,
	today string,
) (*dto.ReservationStatistics, error) {

	var stats dto.ReservationStatistics

	err := r.db.WithContext(ctx).
		Model(&models.Reservation{}).
		Select(`
			COUNT(*) AS total,
			COALESCE(SUM(CASE WHEN status = 'pending' THEN 1 ELSE 0 END), 0) AS pending,
			COALESCE(SUM(CASE WHEN status = 'confirmed' THEN 1 ELSE 0 END), 0) AS confirmed,
			COALESCE(SUM(CASE WHEN status = 'completed' THEN 1 ELSE 0 END), 0) AS completed,
			COALESCE(SUM(CASE WHEN status = 'cancelled' THEN 1 ELSE 0 END), 0) AS cancelled,
			COALESCE(SUM(CASE WHEN reservation_date = ? THEN 1 ELSE 0 END), 0) AS today,
			COALESCE(SUM(CASE WHEN reservation_date >= ? AND status IN ('pending', 'confirmed') THEN 1 ELSE 0 END), 0) AS upcoming
		`, today, today).
		Scan(&stats).Error
	if err != nil {
		return nil, domain.Unavailable("reservation statistics", err)
	}
	return &stats, nil
}

// --------------------------------------------------
// Maintenance
// --------------------------------------------------

func (r *ReservationGormRepository) CompleteConfirmedBefore(
	ctx context.Context,
	beforeDate string,
	beforeTime string,
) ([]models.Reservation, error) {

	var done []models.Reservation

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where(
				"status = ? AND (reservation_date < ? OR (reservation_date = ? AND reservation_time < ?))",
				string(domain.StatusConfirmed), beforeDate, beforeDate, beforeTime,
			).
			Find(&done).Error; err != nil {
			return err
		}

		if len(done) == 0 {
			return nil
		}

		ids := make([]uint, len(done))
		for i := range done {
			ids[i] = done[i].ID
			done[i].Status = string(domain.StatusCompleted)
		}

		return tx.
			Model(&models.Reservation{}).
			Where("id IN ?", ids).
			Update("status", string(domain.StatusCompleted)).Error
	})
	if err != nil {
		return nil, domain.Unavailable("complete past reservations", err)
	}
	return done, nil
}

// mapWriteError turns a lost race on the active slot index into
// ErrSlotTaken and storage failures into DataUnavailableError.
func mapWriteError(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case httperr.IsDuplicateKey(err):
		return domain.ErrSlotTaken
	case errors.Is(err, domain.ErrSlotTaken),
		errors.Is(err, domain.ErrReservationNotFound):
		return err
	default:
		return domain.Unavailable(op, err)
	}
}

// Compile-time check
var _ domain.Repository = (*ReservationGormRepository)(nil)
