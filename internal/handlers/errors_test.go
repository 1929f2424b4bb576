package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/dls-barber/internal/domain/catalog"
	domain "github.com/BruksfildServices01/dls-barber/internal/domain/reservation"
	"github.com/BruksfildServices01/dls-barber/internal/httperr"
	"github.com/BruksfildServices01/dls-barber/internal/usecase/barber"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRespondError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validation", domain.NewValidationError("client_name", "required"), http.StatusBadRequest, "validation_error"},
		{"slot taken", fmt.Errorf("update: %w", domain.ErrSlotTaken), http.StatusConflict, "slot_taken"},
		{"reservation missing", domain.ErrReservationNotFound, http.StatusNotFound, "reservation_not_found"},
		{"barber missing", catalog.ErrBarberNotFound, http.StatusNotFound, "barber_not_found"},
		{"service missing", catalog.ErrServiceNotFound, http.StatusNotFound, "service_not_found"},
		{"forbidden", domain.ErrForbidden, http.StatusForbidden, "forbidden"},
		{"storage disabled", barber.ErrStorageDisabled, http.StatusServiceUnavailable, "storage_disabled"},
		{"unavailable", domain.Unavailable("list", errors.New("connection reset")), http.StatusServiceUnavailable, "data_unavailable"},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(rec)

			respondError(c, tt.err)

			assert.Equal(t, tt.status, rec.Code)
			var body httperr.HTTPError
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.code, body.Code)
			assert.NotEmpty(t, body.Message)
		})
	}
}

func TestRespondErrorValidationDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)

	ve := &domain.ValidationError{}
	ve.Add("reservation_time", "outside_schedule")
	ve.Add("client_phone", "invalid phone number")
	respondError(c, ve)

	var body httperr.HTTPError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, map[string]string{
		"reservation_time": "outside_schedule",
		"client_phone":     "invalid phone number",
	}, body.Details)
	assert.Empty(t, c.Errors)
}
