package reservation

import (
	"context"
	"log/slog"
	"strings"
	"time"

	domain "github.com/BruksfildServices01/dls-barber/internal/domain/reservation"
	"github.com/BruksfildServices01/dls-barber/internal/metrics"
	"github.com/BruksfildServices01/dls-barber/internal/timezone"
)

type AvailabilityInput struct {
	BarberID uint
	Date     string
}

type GetAvailability struct {
	schedule domain.ScheduleRepository
	repo     domain.Repository
	cache    domain.AvailabilityCache
	metrics  *metrics.Metrics
	log      *slog.Logger
	step     time.Duration
	loc      *time.Location
}

func NewGetAvailability(
	schedule domain.ScheduleRepository,
	repo domain.Repository,
	cache domain.AvailabilityCache,
	m *metrics.Metrics,
	log *slog.Logger,
	policy Policy,
) *GetAvailability {
	return &GetAvailability{
		schedule: schedule,
		repo:     repo,
		cache:    cache,
		metrics:  m,
		log:      log,
		step:     policy.Step,
		loc:      policy.location(),
	}
}

// Execute lists the free slot start times of a barber on a date, ascending.
// A day without windows, or a deactivated barber, yields an empty list. Past
// dates are allowed.
func (uc *GetAvailability) Execute(
	ctx context.Context,
	in AvailabilityInput,
) ([]domain.TimeOfDay, error) {

	ve := &domain.ValidationError{}
	if in.BarberID == 0 {
		ve.Add("barber_id", "required")
	}

	var day time.Time
	raw := strings.TrimSpace(in.Date)
	if raw == "" {
		ve.Add("date", "required")
	} else {
		d, err := timezone.ParseDate(raw, uc.loc)
		if err != nil {
			ve.Add("date", "must be YYYY-MM-DD")
		}
		day = d
	}
	if err := ve.Err(); err != nil {
		return nil, err
	}

	date := day.Format(dateLayout)

	cached, hit, err := uc.cache.Get(ctx, in.BarberID, date)
	if err != nil {
		uc.log.Warn("availability cache read failed", slog.Any("error", err))
	} else if hit {
		uc.metrics.AvailabilityRequested(true)
		return cached, nil
	}
	uc.metrics.AvailabilityRequested(false)

	// Read before storage so a booking committed meanwhile voids the write-back.
	generation, genErr := uc.cache.Generation(ctx, in.BarberID)
	if genErr != nil {
		uc.log.Warn("availability cache generation read failed", slog.Any("error", genErr))
	}

	// --------------------------------------------------
	// Windows of the weekday, then subtract active bookings
	// --------------------------------------------------
	windows, err := uc.schedule.GetWeeklyWindows(ctx, in.BarberID, day.Weekday())
	if err != nil {
		return nil, domain.Unavailable("get availability", err)
	}

	free := []domain.TimeOfDay{}
	if len(windows) > 0 {
		taken, err := uc.repo.FindActiveTimes(ctx, in.BarberID, date)
		if err != nil {
			return nil, domain.Unavailable("get availability", err)
		}
		free = domain.Subtract(domain.GenerateSlots(windows, uc.step), taken)
	}

	if genErr == nil {
		if err := uc.cache.Set(ctx, in.BarberID, date, generation, free); err != nil {
			uc.log.Warn("availability cache write failed", slog.Any("error", err))
		}
	}

	return free, nil
}
