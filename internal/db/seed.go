package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/dls-barber/internal/models"
)

type SeedOptions struct {
	AdminEmail    string
	AdminPassword string
}

var seedServices = []models.Service{
	{Name: "Corte de cabello", Description: "Corte clásico o moderno a elección", DurationMinutes: 30, Price: 800},
	{Name: "Arreglo de barba", Description: "Perfilado y arreglo de barba", DurationMinutes: 20, Price: 500},
	{Name: "Afeitado clásico", Description: "Afeitado con navaja y toalla caliente", DurationMinutes: 25, Price: 600},
	{Name: "Diseños personalizados", Description: "Diseños y degradados a medida", DurationMinutes: 45, Price: 1200},
	{Name: "Cortes ejecutivos", Description: "Corte prolijo para el día a día profesional", DurationMinutes: 35, Price: 1000},
}

// seedWeek is indexed by time.Weekday. Empty entries are closed days.
var seedWeek = [7][2]string{
	time.Sunday:    {},
	time.Monday:    {"09:00", "18:00"},
	time.Tuesday:   {"09:00", "18:00"},
	time.Wednesday: {"09:00", "18:00"},
	time.Thursday:  {"09:00", "18:00"},
	time.Friday:    {"09:00", "18:00"},
	time.Saturday:  {"09:00", "15:00"},
}

// Seed inserts the starter catalog. Each part is skipped when rows already
// exist, so it is safe to run on every boot.
func Seed(ctx context.Context, db *gorm.DB, opts SeedOptions, log *slog.Logger) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var barberCount int64
		if err := tx.Model(&models.Barber{}).Count(&barberCount).Error; err != nil {
			return err
		}

		if barberCount == 0 {
			barber := models.Barber{
				Name:      "Samuel",
				Email:     "samuel@dlsbarber.com",
				Specialty: "Cortes clásicos y modernos",
				IsActive:  true,
			}
			if err := tx.Create(&barber).Error; err != nil {
				return fmt.Errorf("seed barber: %w", err)
			}

			hours := make([]models.AvailableHour, 0, len(seedWeek))
			for day, w := range seedWeek {
				if w[0] == "" {
					continue
				}
				hours = append(hours, models.AvailableHour{
					BarberID:  barber.ID,
					DayOfWeek: day,
					StartTime: w[0],
					EndTime:   w[1],
					IsActive:  true,
				})
			}
			if err := tx.Create(&hours).Error; err != nil {
				return fmt.Errorf("seed schedule: %w", err)
			}
			log.Info("seeded barber", slog.Uint64("barber_id", uint64(barber.ID)))
		}

		var serviceCount int64
		if err := tx.Model(&models.Service{}).Count(&serviceCount).Error; err != nil {
			return err
		}
		if serviceCount == 0 {
			services := make([]models.Service, len(seedServices))
			copy(services, seedServices)
			for i := range services {
				services[i].IsActive = true
			}
			if err := tx.Create(&services).Error; err != nil {
				return fmt.Errorf("seed services: %w", err)
			}
			log.Info("seeded services", slog.Int("count", len(services)))
		}

		if opts.AdminPassword == "" {
			return nil
		}

		var admin models.User
		err := tx.Where("email = ?", opts.AdminEmail).First(&admin).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(opts.AdminPassword), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		admin = models.User{
			Username:     "admin",
			Email:        opts.AdminEmail,
			PasswordHash: string(hash),
			FullName:     "Administrador",
			Role:         models.RoleAdmin,
		}
		if err := tx.Create(&admin).Error; err != nil {
			return fmt.Errorf("seed admin: %w", err)
		}
		log.Info("seeded admin user", slog.String("email", admin.Email))
		return nil
	})
}
