package reservation

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/BruksfildServices01/dls-barber/internal/httperr"
)

var (
	ErrSlotTaken           = httperr.ErrBusiness("slot_taken")
	ErrReservationNotFound = httperr.ErrBusiness("reservation_not_found")
	ErrForbidden           = httperr.ErrBusiness("forbidden")
)

// ValidationError lists every rejected input field with a message.
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

func (e *ValidationError) Add(field, message string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	if _, exists := e.Fields[field]; !exists {
		e.Fields[field] = message
	}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Err returns nil when no field was rejected.
func (e *ValidationError) Err() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// DataUnavailableError wraps a storage failure. No partial state is left
// behind, so callers may retry.
type DataUnavailableError struct {
	Op  string
	Err error
}

func (e *DataUnavailableError) Error() string {
	return fmt.Sprintf("%s: data unavailable: %v", e.Op, e.Err)
}

func (e *DataUnavailableError) Unwrap() error {
	return e.Err
}

func Unavailable(op string, err error) error {
	if err == nil {
		return nil
	}
	var already *DataUnavailableError
	if errors.As(err, &already) {
		return err
	}
	return &DataUnavailableError{Op: op, Err: err}
}

func IsUnavailable(err error) bool {
	var du *DataUnavailableError
	return errors.As(err, &du)
}
