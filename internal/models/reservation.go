package models

import "time"

// Reservation dates are stored as "2006-01-02" and times as "15:04" so the
// partial unique index compares slots exactly on every driver.
type Reservation struct {
	ID uint `gorm:"primaryKey" json:"id"`

	UserID    *uint `gorm:"index" json:"user_id"`
	BarberID  uint  `gorm:"not null;index:idx_reservations_barber_date" json:"barber_id"`
	ServiceID uint  `gorm:"not null" json:"service_id"`

	ReservationDate string `gorm:"size:10;not null;index:idx_reservations_barber_date" json:"reservation_date"`
	ReservationTime string `gorm:"size:5;not null" json:"reservation_time"`

	Status string `gorm:"size:20;not null;default:'pending'" json:"status"`

	ClientName  string `gorm:"size:100;not null" json:"client_name"`
	ClientPhone string `gorm:"size:30;not null" json:"client_phone"`
	ClientEmail string `gorm:"size:100" json:"client_email"`
	Notes       string `gorm:"size:500" json:"notes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
