package audit

import (
	"context"
	"log/slog"
	"sync"
)

const (
	ActionReservationCreated       = "reservation_created"
	ActionReservationConflict      = "reservation_conflict"
	ActionReservationStatusChanged = "reservation_status_changed"
	ActionReservationsAutoComplete = "reservations_auto_completed"
	ActionScheduleUpdated          = "schedule_updated"
	ActionBarberPhotoUploaded      = "barber_photo_uploaded"
	ActionBarberActivation         = "barber_activation_changed"

	EntityReservation = "reservation"
	EntityBarber      = "barber"
)

type Event struct {
	UserID   *uint
	Action   string
	Entity   string
	EntityID *uint
	Metadata any
}

type sink interface {
	Log(ctx context.Context, ev Event) error
}

// Dispatcher writes events from a single background worker. Audit never
// blocks or fails a request: when the queue is full the event is dropped.
// A nil *Dispatcher discards everything.
type Dispatcher struct {
	sink  sink
	log   *slog.Logger
	queue chan Event

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

func NewDispatcher(s sink, log *slog.Logger) *Dispatcher {
	d := &Dispatcher{
		sink:  s,
		log:   log,
		queue: make(chan Event, 100),
		done:  make(chan struct{}),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer close(d.done)
	for ev := range d.queue {
		if err := d.sink.Log(context.Background(), ev); err != nil {
			d.log.Error("audit write failed",
				slog.String("action", ev.Action),
				slog.Any("error", err),
			)
		}
	}
}

// Dispatch drops the event once Close has been called.
func (d *Dispatcher) Dispatch(ev Event) {
	if d == nil {
		return
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		d.log.Warn("audit dispatcher closed, dropping event", slog.String("action", ev.Action))
		return
	}

	select {
	case d.queue <- ev:
	default:
		d.log.Warn("audit queue full, dropping event", slog.String("action", ev.Action))
	}
}

// Close stops accepting events and waits until queued ones are written or
// ctx ends. It is safe to call more than once.
func (d *Dispatcher) Close(ctx context.Context) error {
	if d == nil {
		return nil
	}

	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func Ptr(id uint) *uint {
	return &id
}
