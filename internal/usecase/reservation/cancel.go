package reservation

import (
	"context"

	domain "github.com/BruksfildServices01/dls-barber/internal/domain/reservation"
	"github.com/BruksfildServices01/dls-barber/internal/dto"
)

type CancelReservation struct {
	repo      domain.Repository
	setStatus *SetStatus
}

func NewCancelReservation(
	repo domain.Repository,
	setStatus *SetStatus,
) *CancelReservation {
	return &CancelReservation{
		repo:      repo,
		setStatus: setStatus,
	}
}

// Execute cancels a reservation on behalf of its owner or an admin.
func (uc *CancelReservation) Execute(
	ctx context.Context,
	id uint,
	actorID uint,
	isAdmin bool,
) (*dto.ReservationDetail, error) {

	res, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !isAdmin && (res.UserID == nil || *res.UserID != actorID) {
		return nil, domain.ErrForbidden
	}

	return uc.setStatus.Execute(ctx, id, string(domain.StatusCancelled), &actorID)
}
