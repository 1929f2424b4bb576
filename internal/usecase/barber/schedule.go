package barber

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/BruksfildServices01/dls-barber/internal/audit"
	"github.com/BruksfildServices01/dls-barber/internal/domain/catalog"
	domain "github.com/BruksfildServices01/dls-barber/internal/domain/reservation"
	"github.com/BruksfildServices01/dls-barber/internal/models"
)

type WindowInput struct {
	DayOfWeek int
	StartTime string
	EndTime   string
	IsActive  bool
}

type Schedule struct {
	schedule domain.ScheduleRepository
	catalog  catalog.Repository
	cache    domain.AvailabilityCache
	audit    *audit.Dispatcher
	log      *slog.Logger
}

func NewSchedule(
	schedule domain.ScheduleRepository,
	catalogRepo catalog.Repository,
	cache domain.AvailabilityCache,
	auditDispatcher *audit.Dispatcher,
	log *slog.Logger,
) *Schedule {
	return &Schedule{
		schedule: schedule,
		catalog:  catalogRepo,
		cache:    cache,
		audit:    auditDispatcher,
		log:      log,
	}
}

func (uc *Schedule) Get(ctx context.Context, barberID uint) ([]models.AvailableHour, error) {
	if _, err := uc.catalog.GetBarber(ctx, barberID); err != nil {
		return nil, err
	}
	return uc.schedule.ListSchedule(ctx, barberID)
}

// Replace swaps the weekly windows of a barber and drops every cached
// availability of that barber.
func (uc *Schedule) Replace(
	ctx context.Context,
	barberID uint,
	days []WindowInput,
	actorID *uint,
) ([]models.AvailableHour, error) {

	hours, err := normalizeWindows(days)
	if err != nil {
		return nil, err
	}

	if _, err := uc.catalog.GetBarber(ctx, barberID); err != nil {
		return nil, err
	}

	if err := uc.schedule.ReplaceSchedule(ctx, barberID, hours); err != nil {
		return nil, err
	}

	if err := uc.cache.InvalidateBarber(ctx, barberID); err != nil {
		uc.log.Warn("availability cache invalidate failed",
			slog.Uint64("barber_id", uint64(barberID)),
			slog.Any("error", err),
		)
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   actorID,
		Action:   audit.ActionScheduleUpdated,
		Entity:   audit.EntityBarber,
		EntityID: audit.Ptr(barberID),
		Metadata: map[string]int{"windows": len(hours)},
	})

	return uc.schedule.ListSchedule(ctx, barberID)
}

func normalizeWindows(days []WindowInput) ([]models.AvailableHour, error) {
	ve := &domain.ValidationError{}
	hours := make([]models.AvailableHour, 0, len(days))

	for i, d := range days {
		field := fmt.Sprintf("days[%d]", i)

		if d.DayOfWeek < 0 || d.DayOfWeek > 6 {
			ve.Add(field+".day_of_week", "must be between 0 (sunday) and 6")
		}

		start, err := domain.ParseTimeOfDay(d.StartTime)
		if err != nil {
			ve.Add(field+".start_time", "must be HH:MM")
		}
		end, err2 := domain.ParseTimeOfDay(d.EndTime)
		if err2 != nil {
			ve.Add(field+".end_time", "must be HH:MM")
		}
		if err == nil && err2 == nil && start >= end {
			ve.Add(field+".end_time", "must be after start_time")
		}

		hours = append(hours, models.AvailableHour{
			DayOfWeek: d.DayOfWeek,
			StartTime: start.String(),
			EndTime:   end.String(),
			IsActive:  d.IsActive,
		})
	}

	if err := ve.Err(); err != nil {
		return nil, err
	}
	return hours, nil
}
