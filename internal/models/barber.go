package models

import "time"

// Barbers are deactivated, never deleted; reservations keep pointing at them.
type Barber struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	Email     string    `gorm:"size:100" json:"email"`
	Phone     string    `gorm:"size:30" json:"phone"`
	Specialty string    `gorm:"size:100" json:"specialty"`
	PhotoURL  string    `gorm:"size:255" json:"photo_url"`
	IsActive  bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
