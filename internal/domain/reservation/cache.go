package reservation

import "context"

// AvailabilityCache keeps computed free slots per barber and date. A miss is
// (nil, false, nil). Implementations must tolerate being bypassed entirely.
//
// Every invalidation bumps the barber's generation. Callers read Generation
// before loading from storage and pass it to Set, which stores nothing when
// an invalidation happened in between.
type AvailabilityCache interface {
	Get(ctx context.Context, barberID uint, date string) ([]TimeOfDay, bool, error)
	Generation(ctx context.Context, barberID uint) (int64, error)
	Set(ctx context.Context, barberID uint, date string, generation int64, slots []TimeOfDay) error
	Invalidate(ctx context.Context, barberID uint, date string) error
	InvalidateBarber(ctx context.Context, barberID uint) error
}
