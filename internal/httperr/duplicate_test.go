package httperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestIsDuplicateKey(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"gorm translated", fmt.Errorf("insert: %w", gorm.ErrDuplicatedKey), true},
		{"postgres unique", &pgconn.PgError{Code: "23505"}, true},
		{"postgres other", &pgconn.PgError{Code: "23503"}, false},
		{"sqlite", errors.New("constraint failed: UNIQUE constraint failed: reservations.barber_id (2067)"), true},
		{"unrelated", errors.New("connection refused"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsDuplicateKey(tt.err))
		})
	}
}

func TestBusinessCode(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", ErrBusiness("slot_taken"))

	code, ok := BusinessCode(err)
	assert.True(t, ok)
	assert.Equal(t, "slot_taken", code)
	assert.True(t, IsBusiness(err, "slot_taken"))
	assert.False(t, IsBusiness(err, "other"))
	assert.True(t, errors.Is(err, ErrBusiness("slot_taken")))
}
