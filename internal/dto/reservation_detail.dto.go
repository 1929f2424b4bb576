package dto

import "time"

// ReservationDetail is a reservation joined with the barber, service and
// account it references, as shown on confirmation and listing screens.
type ReservationDetail struct {
	ID              uint      `json:"id"`
	UserID          *uint     `json:"user_id"`
	BarberID        uint      `json:"barber_id"`
	ServiceID       uint      `json:"service_id"`
	ReservationDate string    `json:"reservation_date"`
	ReservationTime string    `json:"reservation_time"`
	Status          string    `json:"status"`
	ClientName      string    `json:"client_name"`
	ClientPhone     string    `json:"client_phone"`
	ClientEmail     string    `json:"client_email"`
	Notes           string    `json:"notes"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	BarberName      string  `json:"barber_name"`
	ServiceName     string  `json:"service_name"`
	DurationMinutes int     `json:"duration_minutes"`
	Price           float64 `json:"price"`

	Username  *string `json:"username,omitempty"`
	UserEmail *string `json:"user_email,omitempty"`
}

type ReservationStatistics struct {
	Total     int64 `json:"total_reservations"`
	Pending   int64 `json:"pending"`
	Confirmed int64 `json:"confirmed"`
	Completed int64 `json:"completed"`
	Cancelled int64 `json:"cancelled"`
	Today     int64 `json:"today"`
	Upcoming  int64 `json:"upcoming"`
}

type BarberWithStats struct {
	ID                    uint      `json:"id"`
	Name                  string    `json:"name"`
	Email                 string    `json:"email"`
	Phone                 string    `json:"phone"`
	Specialty             string    `json:"specialty"`
	PhotoURL              string    `json:"photo_url"`
	IsActive              bool      `json:"is_active"`
	CreatedAt             time.Time `json:"created_at"`
	TotalReservations     int64     `json:"total_reservations"`
	ConfirmedReservations int64     `json:"confirmed_reservations"`
	PendingReservations   int64     `json:"pending_reservations"`
}

type ServiceWithStats struct {
	ID                uint      `json:"id"`
	Name              string    `json:"name"`
	Description       string    `json:"description"`
	DurationMinutes   int       `json:"duration_minutes"`
	Price             float64   `json:"price"`
	IsActive          bool      `json:"is_active"`
	CreatedAt         time.Time `json:"created_at"`
	TotalReservations int64     `json:"total_reservations"`
}
