package db

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/dls-barber/internal/models"
)

// ActiveSlotIndex guarantees at most one non-cancelled reservation per
// barber, date and time.
const ActiveSlotIndex = "ux_reservations_active_slot"

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Barber{},
		&models.Service{},
		&models.AvailableHour{},
		&models.Reservation{},
		&models.AuditLog{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	if err := db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS ` + ActiveSlotIndex + `
		ON reservations (barber_id, reservation_date, reservation_time)
		WHERE status <> 'cancelled'
	`).Error; err != nil {
		return fmt.Errorf("create %s: %w", ActiveSlotIndex, err)
	}

	return nil
}
