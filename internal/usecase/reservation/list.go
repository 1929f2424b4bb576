package reservation

import (
	"context"
	"strings"
	"time"

	domain "github.com/BruksfildServices01/dls-barber/internal/domain/reservation"
	"github.com/BruksfildServices01/dls-barber/internal/dto"
	"github.com/BruksfildServices01/dls-barber/internal/timezone"
)

type ListReservations struct {
	repo domain.Repository
	now  func() time.Time
}

func NewListReservations(repo domain.Repository, policy Policy) *ListReservations {
	return &ListReservations{
		repo: repo,
		now:  policy.clock(),
	}
}

func (uc *ListReservations) ByUser(ctx context.Context, userID uint) ([]dto.ReservationDetail, error) {
	return uc.repo.ListByUser(ctx, userID)
}

// All returns the filtered listing together with shop-wide statistics.
func (uc *ListReservations) All(
	ctx context.Context,
	filter domain.ListFilter,
) ([]dto.ReservationDetail, *dto.ReservationStatistics, error) {

	ve := &domain.ValidationError{}
	if filter.Status != "" {
		s, err := domain.ParseStatus(filter.Status)
		if err != nil {
			ve.Add("status", "unknown status")
		}
		filter.Status = string(s)
	}
	if filter.Date != "" {
		filter.Date = strings.TrimSpace(filter.Date)
		if _, err := timezone.ParseDate(filter.Date, time.UTC); err != nil {
			ve.Add("date", "must be YYYY-MM-DD")
		}
	}
	if err := ve.Err(); err != nil {
		return nil, nil, err
	}

	rows, err := uc.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, err
	}

	stats, err := uc.repo.Statistics(ctx, uc.now().Format(dateLayout))
	if err != nil {
		return nil, nil, err
	}
	return rows, stats, nil
}
