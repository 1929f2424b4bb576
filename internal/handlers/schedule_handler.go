package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/dls-barber/internal/httpresp"
	"github.com/BruksfildServices01/dls-barber/internal/middleware"
	"github.com/BruksfildServices01/dls-barber/internal/usecase/barber"
)

type ScheduleHandler struct {
	schedule *barber.Schedule
}

func NewScheduleHandler(schedule *barber.Schedule) *ScheduleHandler {
	return &ScheduleHandler{schedule: schedule}
}

// DayOfWeek follows Go's time.Weekday: 0 is Sunday.
type ScheduleDayConfig struct {
	DayOfWeek *int   `json:"day_of_week" binding:"required"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	IsActive  *bool  `json:"is_active"`
}

type ScheduleUpdateRequest struct {
	Days []ScheduleDayConfig `json:"days" binding:"required,dive"`
}

func (h *ScheduleHandler) Get(c *gin.Context) {
	barberID, ok := pathID(c, "id")
	if !ok {
		return
	}

	hours, err := h.schedule.Get(c.Request.Context(), barberID)
	if err != nil {
		respondError(c, err)
		return
	}
	httpresp.OK(c, gin.H{"days": httpresp.Slice(hours)})
}

// Update replaces the whole weekly schedule. Omitting a weekday closes it.
func (h *ScheduleHandler) Update(c *gin.Context) {
	barberID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req ScheduleUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	days := make([]barber.WindowInput, 0, len(req.Days))
	for _, d := range req.Days {
		active := true
		if d.IsActive != nil {
			active = *d.IsActive
		}
		days = append(days, barber.WindowInput{
			DayOfWeek: *d.DayOfWeek,
			StartTime: d.StartTime,
			EndTime:   d.EndTime,
			IsActive:  active,
		})
	}

	hours, err := h.schedule.Replace(c.Request.Context(), barberID, days, middleware.UserIDPtr(c))
	if err != nil {
		respondError(c, err)
		return
	}

	httpresp.OK(c, gin.H{
		"message": "Schedule updated successfully",
		"days":    httpresp.Slice(hours),
	})
}
