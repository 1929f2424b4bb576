package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the booking counters. A nil *Metrics records nothing.
type Metrics struct {
	registry *prometheus.Registry

	reservationsCreated  *prometheus.CounterVec
	reservationConflicts *prometheus.CounterVec
	availabilityRequests prometheus.Counter
	availabilityHits     prometheus.Counter
}

func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,
		reservationsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "barber_reservations_created_total",
			Help: "Reservations stored, by barber.",
		}, []string{"barber_id"}),
		reservationConflicts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "barber_reservation_conflicts_total",
			Help: "Booking attempts rejected because the slot was taken, by barber.",
		}, []string{"barber_id"}),
		availabilityRequests: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "barber_availability_requests_total",
			Help: "Availability computations requested.",
		}),
		availabilityHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "barber_availability_cache_hits_total",
			Help: "Availability requests answered from cache.",
		}),
	}

	reg.MustRegister(
		m.reservationsCreated,
		m.reservationConflicts,
		m.availabilityRequests,
		m.availabilityHits,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) ReservationCreated(barberID uint) {
	if m == nil {
		return
	}
	m.reservationsCreated.WithLabelValues(strconv.FormatUint(uint64(barberID), 10)).Inc()
}

func (m *Metrics) ReservationConflict(barberID uint) {
	if m == nil {
		return
	}
	m.reservationConflicts.WithLabelValues(strconv.FormatUint(uint64(barberID), 10)).Inc()
}

func (m *Metrics) AvailabilityRequested(cacheHit bool) {
	if m == nil {
		return
	}
	m.availabilityRequests.Inc()
	if cacheHit {
		m.availabilityHits.Inc()
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
