package reservation

import (
	"context"
	"errors"
	"log/slog"

	"github.com/BruksfildServices01/dls-barber/internal/audit"
	domain "github.com/BruksfildServices01/dls-barber/internal/domain/reservation"
	"github.com/BruksfildServices01/dls-barber/internal/dto"
)

type SetStatus struct {
	repo  domain.Repository
	cache domain.AvailabilityCache
	audit *audit.Dispatcher
	log   *slog.Logger
}

func NewSetStatus(
	repo domain.Repository,
	cache domain.AvailabilityCache,
	auditDispatcher *audit.Dispatcher,
	log *slog.Logger,
) *SetStatus {
	return &SetStatus{
		repo:  repo,
		cache: cache,
		audit: auditDispatcher,
		log:   log,
	}
}

// Execute moves any reservation to status. Leaving cancelled for an active
// status fails with ErrSlotTaken when the slot was booked meanwhile.
func (uc *SetStatus) Execute(
	ctx context.Context,
	id uint,
	rawStatus string,
	actorID *uint,
) (*dto.ReservationDetail, error) {

	status, err := domain.ParseStatus(rawStatus)
	if err != nil {
		return nil, err
	}

	previous, err := uc.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		if errors.Is(err, domain.ErrSlotTaken) {
			uc.audit.Dispatch(audit.Event{
				UserID:   actorID,
				Action:   audit.ActionReservationConflict,
				Entity:   audit.EntityReservation,
				EntityID: audit.Ptr(id),
				Metadata: map[string]string{"to": string(status)},
			})
		}
		return nil, err
	}

	detail, err := uc.repo.GetDetail(ctx, id)
	if err != nil {
		return nil, err
	}

	if previous == status {
		return detail, nil
	}

	invalidate(ctx, uc.cache, uc.log, detail.BarberID, detail.ReservationDate)
	uc.audit.Dispatch(audit.Event{
		UserID:   actorID,
		Action:   audit.ActionReservationStatusChanged,
		Entity:   audit.EntityReservation,
		EntityID: audit.Ptr(id),
		Metadata: map[string]string{
			"from": string(previous),
			"to":   string(status),
		},
	})

	return detail, nil
}
