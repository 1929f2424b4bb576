package reservation

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/BruksfildServices01/dls-barber/internal/audit"
	"github.com/BruksfildServices01/dls-barber/internal/domain/catalog"
	domain "github.com/BruksfildServices01/dls-barber/internal/domain/reservation"
	"github.com/BruksfildServices01/dls-barber/internal/dto"
	"github.com/BruksfildServices01/dls-barber/internal/metrics"
	"github.com/BruksfildServices01/dls-barber/internal/models"
	"github.com/BruksfildServices01/dls-barber/internal/timezone"
	"github.com/BruksfildServices01/dls-barber/internal/validators"
)

// ======================================================
// INPUT
// ======================================================

type CreateInput struct {
	UserID *uint

	BarberID  uint
	ServiceID uint
	Date      string
	Time      string

	ClientName  string
	ClientPhone string
	ClientEmail string
	Notes       string
}

// ======================================================
// USE CASE
// ======================================================

type CreateReservation struct {
	repo     domain.Repository
	schedule domain.ScheduleRepository
	catalog  catalog.Repository
	cache    domain.AvailabilityCache
	audit    *audit.Dispatcher
	metrics  *metrics.Metrics
	log      *slog.Logger
	policy   Policy
	now      func() time.Time
}

func NewCreateReservation(
	repo domain.Repository,
	schedule domain.ScheduleRepository,
	catalogRepo catalog.Repository,
	cache domain.AvailabilityCache,
	auditDispatcher *audit.Dispatcher,
	m *metrics.Metrics,
	log *slog.Logger,
	policy Policy,
) *CreateReservation {
	return &CreateReservation{
		repo:     repo,
		schedule: schedule,
		catalog:  catalogRepo,
		cache:    cache,
		audit:    auditDispatcher,
		metrics:  m,
		log:      log,
		policy:   policy,
		now:      policy.clock(),
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateReservation) Execute(
	ctx context.Context,
	in CreateInput,
) (*dto.ReservationDetail, error) {

	// --------------------------------------------------
	// 1. Input
	// --------------------------------------------------
	res, day, slot, err := uc.validateInput(in)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 2. Barber and service
	// --------------------------------------------------
	barber, service, err := uc.loadCatalog(ctx, in.BarberID, in.ServiceID)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 3. Schedule grid and shop time
	// --------------------------------------------------
	windows, err := uc.schedule.GetWeeklyWindows(ctx, in.BarberID, day.Weekday())
	if err != nil {
		return nil, domain.Unavailable("create reservation", err)
	}
	if !domain.Contains(domain.GenerateSlots(windows, uc.policy.Step), slot) {
		return nil, domain.NewValidationError("reservation_time", "outside_schedule")
	}

	if slot.On(day).Before(uc.now()) {
		return nil, domain.NewValidationError("reservation_date", "must not be in the past")
	}

	// --------------------------------------------------
	// 4. Conflict-safe insert
	// --------------------------------------------------
	if err := uc.repo.InsertIfFree(ctx, res); err != nil {
		if errors.Is(err, domain.ErrSlotTaken) {
			uc.metrics.ReservationConflict(res.BarberID)
			uc.audit.Dispatch(audit.Event{
				UserID: in.UserID,
				Action: audit.ActionReservationConflict,
				Entity: audit.EntityReservation,
				Metadata: map[string]any{
					"barber_id": res.BarberID,
					"date":      res.ReservationDate,
					"time":      res.ReservationTime,
				},
			})
			uc.log.Info("reservation slot taken",
				slog.Uint64("barber_id", uint64(res.BarberID)),
				slog.String("date", res.ReservationDate),
				slog.String("time", res.ReservationTime),
			)
		}
		return nil, err
	}

	// --------------------------------------------------
	// 5. Side effects
	// --------------------------------------------------
	invalidate(ctx, uc.cache, uc.log, res.BarberID, res.ReservationDate)
	uc.metrics.ReservationCreated(res.BarberID)
	uc.audit.Dispatch(audit.Event{
		UserID:   in.UserID,
		Action:   audit.ActionReservationCreated,
		Entity:   audit.EntityReservation,
		EntityID: audit.Ptr(res.ID),
	})

	return detailOf(res, barber, service), nil
}

func (uc *CreateReservation) validateInput(in CreateInput) (*models.Reservation, time.Time, domain.TimeOfDay, error) {
	ve := &domain.ValidationError{}

	name := strings.TrimSpace(in.ClientName)
	rawPhone := strings.TrimSpace(in.ClientPhone)
	email := validators.NormalizeEmail(in.ClientEmail)
	notes := strings.TrimSpace(in.Notes)

	if in.BarberID == 0 {
		ve.Add("barber_id", "required")
	}
	if in.ServiceID == 0 {
		ve.Add("service_id", "required")
	}

	var day time.Time
	if strings.TrimSpace(in.Date) == "" {
		ve.Add("reservation_date", "required")
	} else if d, err := timezone.ParseDate(strings.TrimSpace(in.Date), uc.policy.location()); err != nil {
		ve.Add("reservation_date", "must be YYYY-MM-DD")
	} else {
		day = d
	}

	var slot domain.TimeOfDay
	if strings.TrimSpace(in.Time) == "" {
		ve.Add("reservation_time", "required")
	} else if t, err := domain.ParseTimeOfDay(in.Time); err != nil {
		ve.Add("reservation_time", "must be HH:MM")
	} else {
		slot = t
	}

	switch {
	case name == "":
		ve.Add("client_name", "required")
	case utf8.RuneCountInString(name) > 100:
		ve.Add("client_name", "at most 100 characters")
	}

	var phone string
	if rawPhone == "" {
		ve.Add("client_phone", "required")
	} else if p, err := validators.NormalizePhone(rawPhone, uc.policy.PhoneRegion); err != nil {
		ve.Add("client_phone", "invalid phone number")
	} else {
		phone = p
	}

	if email != "" && !validators.IsEmailSyntaxValid(email) {
		ve.Add("client_email", "invalid email")
	}
	if utf8.RuneCountInString(notes) > 500 {
		ve.Add("notes", "at most 500 characters")
	}

	if err := ve.Err(); err != nil {
		return nil, time.Time{}, 0, err
	}

	status := uc.policy.InitialStatus
	if status == "" {
		status = domain.StatusPending
	}

	res := &models.Reservation{
		UserID:          in.UserID,
		BarberID:        in.BarberID,
		ServiceID:       in.ServiceID,
		ReservationDate: day.Format(dateLayout),
		ReservationTime: slot.String(),
		Status:          string(status),
		ClientName:      name,
		ClientPhone:     phone,
		ClientEmail:     email,
		Notes:           notes,
	}
	return res, day, slot, nil
}

func (uc *CreateReservation) loadCatalog(ctx context.Context, barberID, serviceID uint) (*models.Barber, *models.Service, error) {
	ve := &domain.ValidationError{}

	barber, err := uc.catalog.GetBarber(ctx, barberID)
	switch {
	case errors.Is(err, catalog.ErrBarberNotFound):
		ve.Add("barber_id", "barber not found")
	case err != nil:
		return nil, nil, domain.Unavailable("create reservation", err)
	case !barber.IsActive:
		ve.Add("barber_id", "barber is not available")
	}

	service, err := uc.catalog.GetService(ctx, serviceID)
	switch {
	case errors.Is(err, catalog.ErrServiceNotFound):
		ve.Add("service_id", "service not found")
	case err != nil:
		return nil, nil, domain.Unavailable("create reservation", err)
	case !service.IsActive:
		ve.Add("service_id", "service is not available")
	}

	if err := ve.Err(); err != nil {
		return nil, nil, err
	}
	return barber, service, nil
}

func detailOf(r *models.Reservation, b *models.Barber, s *models.Service) *dto.ReservationDetail {
	return &dto.ReservationDetail{
		ID:              r.ID,
		UserID:          r.UserID,
		BarberID:        r.BarberID,
		ServiceID:       r.ServiceID,
		ReservationDate: r.ReservationDate,
		ReservationTime: r.ReservationTime,
		Status:          r.Status,
		ClientName:      r.ClientName,
		ClientPhone:     r.ClientPhone,
		ClientEmail:     r.ClientEmail,
		Notes:           r.Notes,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
		BarberName:      b.Name,
		ServiceName:     s.Name,
		DurationMinutes: s.DurationMinutes,
		Price:           s.Price,
	}
}
