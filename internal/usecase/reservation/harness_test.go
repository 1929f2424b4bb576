package reservation

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/dls-barber/internal/db/dbtest"
	domain "github.com/BruksfildServices01/dls-barber/internal/domain/reservation"
	"github.com/BruksfildServices01/dls-barber/internal/infra/repository"
	"github.com/BruksfildServices01/dls-barber/internal/logger"
	"github.com/BruksfildServices01/dls-barber/internal/metrics"
	"github.com/BruksfildServices01/dls-barber/internal/models"
)

// monday is a Monday; the barber works 10:00-13:00 on Mondays and
// 09:00-12:00 on Saturdays.
const monday = "2030-01-07"

type memCache struct {
	mu          sync.Mutex
	slots       map[string][]domain.TimeOfDay
	generations map[uint]int64
}

func newMemCache() *memCache {
	return &memCache{
		slots:       map[string][]domain.TimeOfDay{},
		generations: map[uint]int64{},
	}
}

func memKey(barberID uint, date string) string {
	return fmt.Sprintf("%d:%s", barberID, date)
}

func (c *memCache) Get(_ context.Context, barberID uint, date string) ([]domain.TimeOfDay, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.slots[memKey(barberID, date)]
	return s, ok, nil
}

func (c *memCache) Generation(_ context.Context, barberID uint) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generations[barberID], nil
}

func (c *memCache) Set(_ context.Context, barberID uint, date string, generation int64, slots []domain.TimeOfDay) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generations[barberID] != generation {
		return nil
	}
	c.slots[memKey(barberID, date)] = slots
	return nil
}

func (c *memCache) Invalidate(_ context.Context, barberID uint, date string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generations[barberID]++
	delete(c.slots, memKey(barberID, date))
	return nil
}

func (c *memCache) InvalidateBarber(_ context.Context, barberID uint) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generations[barberID]++
	c.slots = map[string][]domain.TimeOfDay{}
	return nil
}

type harness struct {
	db      *gorm.DB
	barber  models.Barber
	service models.Service
	cache   *memCache
	policy  Policy

	availability *GetAvailability
	create       *CreateReservation
	setStatus    *SetStatus
	cancel       *CancelReservation
	list         *ListReservations
	completePast *CompletePast
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	gdb := dbtest.New(t)

	h := &harness{
		db:      gdb,
		barber:  models.Barber{Name: "Samuel", IsActive: true},
		service: models.Service{Name: "Corte de cabello", DurationMinutes: 30, Price: 800, IsActive: true},
		cache:   newMemCache(),
	}
	require.NoError(t, gdb.Create(&h.barber).Error)
	require.NoError(t, gdb.Create(&h.service).Error)
	require.NoError(t, gdb.Create(&[]models.AvailableHour{
		{BarberID: h.barber.ID, DayOfWeek: int(time.Monday), StartTime: "10:00", EndTime: "13:00", IsActive: true},
		{BarberID: h.barber.ID, DayOfWeek: int(time.Saturday), StartTime: "09:00", EndTime: "12:00", IsActive: true},
	}).Error)

	reservations := repository.NewReservationGormRepository(gdb)
	schedule := repository.NewScheduleGormRepository(gdb)
	catalogRepo := repository.NewCatalogGormRepository(gdb)
	log := logger.Discard()
	m := metrics.New()

	policy := Policy{
		Step:          30 * time.Minute,
		Location:      time.UTC,
		InitialStatus: domain.StatusPending,
		PhoneRegion:   "UY",
	}

	h.policy = policy
	h.availability = NewGetAvailability(schedule, reservations, h.cache, m, log, policy)
	h.create = NewCreateReservation(reservations, schedule, catalogRepo, h.cache, nil, m, log, policy)
	h.setStatus = NewSetStatus(reservations, h.cache, nil, log)
	h.cancel = NewCancelReservation(reservations, h.setStatus)
	h.list = NewListReservations(reservations, policy)
	h.completePast = NewCompletePast(reservations, nil, log, policy)

	h.setNow(time.Date(2030, 1, 1, 8, 0, 0, 0, time.UTC))
	return h
}

func (h *harness) setNow(now time.Time) {
	clock := func() time.Time { return now }
	h.create.now = clock
	h.list.now = clock
	h.completePast.now = clock
}

func (h *harness) input(date, hhmm string) CreateInput {
	return CreateInput{
		BarberID:    h.barber.ID,
		ServiceID:   h.service.ID,
		Date:        date,
		Time:        hhmm,
		ClientName:  "Ana Pérez",
		ClientPhone: "099 123 456",
	}
}

func (h *harness) countReservations(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, h.db.Model(&models.Reservation{}).Count(&n).Error)
	return n
}
