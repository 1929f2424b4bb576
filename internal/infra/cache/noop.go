package cache

import (
	"context"

	domain "github.com/BruksfildServices01/dls-barber/internal/domain/reservation"
)

// Noop is used when REDIS_URL is empty. Every lookup misses.
type Noop struct{}

func (Noop) Get(context.Context, uint, string) ([]domain.TimeOfDay, bool, error) {
	return nil, false, nil
}

func (Noop) Generation(context.Context, uint) (int64, error) { return 0, nil }

func (Noop) Set(context.Context, uint, string, int64, []domain.TimeOfDay) error { return nil }

func (Noop) Invalidate(context.Context, uint, string) error { return nil }

func (Noop) InvalidateBarber(context.Context, uint) error { return nil }

var _ domain.AvailabilityCache = Noop{}
