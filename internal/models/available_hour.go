package models

// AvailableHour is one weekly working window for a barber. DayOfWeek follows
// time.Weekday (Sunday=0). Times are "15:04".
type AvailableHour struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	BarberID  uint   `gorm:"not null;index:idx_available_hours_barber_day" json:"barber_id"`
	DayOfWeek int    `gorm:"not null;index:idx_available_hours_barber_day" json:"day_of_week"`
	StartTime string `gorm:"size:5;not null" json:"start_time"`
	EndTime   string `gorm:"size:5;not null" json:"end_time"`
	IsActive  bool   `gorm:"not null" json:"is_active"`
}
