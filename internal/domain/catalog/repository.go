package catalog

import (
	"context"

	"github.com/BruksfildServices01/dls-barber/internal/dto"
	"github.com/BruksfildServices01/dls-barber/internal/httperr"
	"github.com/BruksfildServices01/dls-barber/internal/models"
)

var (
	ErrBarberNotFound  = httperr.ErrBusiness("barber_not_found")
	ErrServiceNotFound = httperr.ErrBusiness("service_not_found")
)

type Repository interface {
	GetBarber(ctx context.Context, id uint) (*models.Barber, error)
	GetService(ctx context.Context, id uint) (*models.Service, error)

	ListBarbers(ctx context.Context, activeOnly bool) ([]models.Barber, error)
	ListServices(ctx context.Context, activeOnly bool) ([]models.Service, error)

	BarbersWithStats(ctx context.Context) ([]dto.BarberWithStats, error)
	ServicesWithStats(ctx context.Context) ([]dto.ServiceWithStats, error)

	SetBarberActive(ctx context.Context, id uint, active bool) (*models.Barber, error)
	SetBarberPhoto(ctx context.Context, id uint, url string) (*models.Barber, error)
}
