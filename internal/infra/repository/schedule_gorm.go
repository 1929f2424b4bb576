package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/dls-barber/internal/domain/reservation"
	"github.com/BruksfildServices01/dls-barber/internal/models"
)

type ScheduleGormRepository struct {
	db *gorm.DB
}

func NewScheduleGormRepository(db *gorm.DB) *ScheduleGormRepository {
	return &ScheduleGormRepository{db: db}
}

func (r *ScheduleGormRepository) GetWeeklyWindows(
	ctx context.Context,
	barberID uint,
	weekday time.Weekday,
) ([]domain.Window, error) {

	var hours []models.AvailableHour
	if err := r.db.WithContext(ctx).
		Joins("JOIN barbers ON barbers.id = available_hours.barber_id AND barbers.is_active = ?", true).
		Where("available_hours.barber_id = ? AND available_hours.day_of_week = ? AND available_hours.is_active = ?",
			barberID, int(weekday), true).
		Order("available_hours.start_time ASC").
		Find(&hours).Error; err != nil {
		return nil, domain.Unavailable("get weekly windows", err)
	}

	windows := make([]domain.Window, 0, len(hours))
	for _, h := range hours {
		start, err1 := domain.ParseTimeOfDay(h.StartTime)
		end, err2 := domain.ParseTimeOfDay(h.EndTime)
		if err1 != nil || err2 != nil {
			continue
		}
		windows = append(windows, domain.Window{Start: start, End: end})
	}
	return windows, nil
}

func (r *ScheduleGormRepository) ListSchedule(
	ctx context.Context,
	barberID uint,
) ([]models.AvailableHour, error) {

	var hours []models.AvailableHour
	if err := r.db.WithContext(ctx).
		Where("barber_id = ?", barberID).
		Order("day_of_week ASC, start_time ASC").
		Find(&hours).Error; err != nil {
		return nil, domain.Unavailable("list schedule", err)
	}
	return hours, nil
}

// ReplaceSchedule swaps the whole weekly schedule of a barber atomically.
func (r *ScheduleGormRepository) ReplaceSchedule(
	ctx context.Context,
	barberID uint,
	hours []models.AvailableHour,
) error {

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("barber_id = ?", barberID).
			Delete(&models.AvailableHour{}).Error; err != nil {
			return err
		}

		if len(hours) == 0 {
			return nil
		}

		for i := range hours {
			hours[i].ID = 0
			hours[i].BarberID = barberID
		}
		return tx.Create(&hours).Error
	})

	return domain.Unavailable("replace schedule", err)
}

// Compile-time check
var _ domain.ScheduleRepository = (*ScheduleGormRepository)(nil)
