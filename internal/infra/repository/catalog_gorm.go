package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/dls-barber/internal/domain/catalog"
	domain "github.com/BruksfildServices01/dls-barber/internal/domain/reservation"
	"github.com/BruksfildServices01/dls-barber/internal/dto"
	"github.com/BruksfildServices01/dls-barber/internal/models"
)

type CatalogGormRepository struct {
	db *gorm.DB
}

func NewCatalogGormRepository(db *gorm.DB) *CatalogGormRepository {
	return &CatalogGormRepository{db: db}
}

// --------------------------------------------------
// Barbers
// --------------------------------------------------

func (r *CatalogGormRepository) GetBarber(ctx context.Context, id uint) (*models.Barber, error) {
	var b models.Barber
	if err := r.db.WithContext(ctx).First(&b, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, catalog.ErrBarberNotFound
		}
		return nil, domain.Unavailable("get barber", err)
	}
	return &b, nil
}

func (r *CatalogGormRepository) ListBarbers(ctx context.Context, activeOnly bool) ([]models.Barber, error) {
	q := r.db.WithContext(ctx).Order("name ASC")
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}

	var barbers []models.Barber
	if err := q.Find(&barbers).Error; err != nil {
		return nil, domain.Unavailable("list barbers", err)
	}
	return barbers, nil
}

func (r *CatalogGormRepository) BarbersWithStats(ctx context.Context) ([]dto.BarberWithStats, error) {
	var rows []dto.BarberWithStats
	err := r.db.WithContext(ctx).
		Table("barbers AS b").
		Select(`
			b.id, b.name, b.email, b.phone, b.specialty, b.photo_url, b.is_active, b.created_at,
			COUNT(r.id) AS total_reservations,
			COALESCE(SUM(CASE WHEN r.status = 'confirmed' THEN 1 ELSE 0 END), 0) AS confirmed_reservations,
			COALESCE(SUM(CASE WHEN r.status = 'pending' THEN 1 ELSE 0 END), 0) AS pending_reservations
		`).
		Joins("LEFT JOIN reservations r ON r.barber_id = b.id").
		Group("b.id").
		Order("b.name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, domain.Unavailable("barbers with stats", err)
	}
	return rows, nil
}

func (r *CatalogGormRepository) SetBarberActive(ctx context.Context, id uint, active bool) (*models.Barber, error) {
	return r.updateBarber(ctx, id, "is_active", active)
}

func (r *CatalogGormRepository) SetBarberPhoto(ctx context.Context, id uint, url string) (*models.Barber, error) {
	return r.updateBarber(ctx, id, "photo_url", url)
}

func (r *CatalogGormRepository) updateBarber(ctx context.Context, id uint, column string, value any) (*models.Barber, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Barber{}).
		Where("id = ?", id).
		Update(column, value)
	if res.Error != nil {
		return nil, domain.Unavailable("update barber", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, catalog.ErrBarberNotFound
	}
	return r.GetBarber(ctx, id)
}

// --------------------------------------------------
// Services
// --------------------------------------------------

func (r *CatalogGormRepository) GetService(ctx context.Context, id uint) (*models.Service, error) {
	var s models.Service
	if err := r.db.WithContext(ctx).First(&s, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, catalog.ErrServiceNotFound
		}
		return nil, domain.Unavailable("get service", err)
	}
	return &s, nil
}

func (r *CatalogGormRepository) ListServices(ctx context.Context, activeOnly bool) ([]models.Service, error) {
	q := r.db.WithContext(ctx).Order("name ASC")
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}

	var services []models.Service
	if err := q.Find(&services).Error; err != nil {
		return nil, domain.Unavailable("list services", err)
	}
	return services, nil
}

func (r *CatalogGormRepository) ServicesWithStats(ctx context.Context) ([]dto.ServiceWithStats, error) {
	var rows []dto.ServiceWithStats
	err := r.db.WithContext(ctx).
		Table("services AS s").
		Select(`
			s.id, s.name, s.description, s.duration_minutes, s.price, s.is_active, s.created_at,
			COUNT(r.id) AS total_reservations
		`).
		Joins("LEFT JOIN reservations r ON r.service_id = s.id").
		Group("s.id").
		Order("s.name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, domain.Unavailable("services with stats", err)
	}
	return rows, nil
}

// Compile-time check
var _ catalog.Repository = (*CatalogGormRepository)(nil)
