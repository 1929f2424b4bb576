package reservation

import (
	"context"
	"log/slog"
	"time"

	"github.com/BruksfildServices01/dls-barber/internal/config"
	domain "github.com/BruksfildServices01/dls-barber/internal/domain/reservation"
	"github.com/BruksfildServices01/dls-barber/internal/timezone"
)

const dateLayout = timezone.DateLayout

// Policy carries the shop-wide booking settings resolved from config.
type Policy struct {
	Step          time.Duration
	Location      *time.Location
	InitialStatus domain.Status
	PhoneRegion   string
}

func PolicyFromConfig(cfg *config.Config) (Policy, error) {
	status, err := domain.InitialStatus(cfg.InitialStatus)
	if err != nil {
		return Policy{}, err
	}
	return Policy{
		Step:          cfg.SlotStep(),
		Location:      timezone.Location(cfg.Timezone),
		InitialStatus: status,
		PhoneRegion:   cfg.PhoneRegion,
	}, nil
}

func (p Policy) location() *time.Location {
	if p.Location == nil {
		return time.UTC
	}
	return p.Location
}

func (p Policy) clock() func() time.Time {
	loc := p.location()
	return func() time.Time { return time.Now().In(loc) }
}

// invalidate drops the cached availability of one barber and date. Cache
// failures never fail the write that triggered them.
func invalidate(ctx context.Context, cache domain.AvailabilityCache, log *slog.Logger, barberID uint, date string) {
	if err := cache.Invalidate(ctx, barberID, date); err != nil {
		log.Warn("availability cache invalidate failed",
			slog.Uint64("barber_id", uint64(barberID)),
			slog.String("date", date),
			slog.Any("error", err),
		)
	}
}
