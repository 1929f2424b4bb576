package reservation

import (
	"context"
	"log/slog"
	"time"

	"github.com/BruksfildServices01/dls-barber/internal/audit"
	domain "github.com/BruksfildServices01/dls-barber/internal/domain/reservation"
)

// CompletePast marks confirmed reservations whose slot already started in
// shop time as completed. It runs from the scheduler.
type CompletePast struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	log   *slog.Logger
	now   func() time.Time
}

func NewCompletePast(
	repo domain.Repository,
	auditDispatcher *audit.Dispatcher,
	log *slog.Logger,
	policy Policy,
) *CompletePast {
	return &CompletePast{
		repo:  repo,
		audit: auditDispatcher,
		log:   log,
		now:   policy.clock(),
	}
}

func (uc *CompletePast) Execute(ctx context.Context) (int, error) {
	now := uc.now()

	done, err := uc.repo.CompleteConfirmedBefore(ctx, now.Format(dateLayout), domain.TimeOfDayOf(now).String())
	if err != nil {
		return 0, err
	}
	if len(done) == 0 {
		return 0, nil
	}

	ids := make([]uint, len(done))
	for i, r := range done {
		ids[i] = r.ID
	}

	uc.audit.Dispatch(audit.Event{
		Action:   audit.ActionReservationsAutoComplete,
		Entity:   audit.EntityReservation,
		Metadata: map[string]any{"ids": ids},
	})
	uc.log.Info("auto-completed reservations", slog.Int("count", len(done)))

	return len(done), nil
}
