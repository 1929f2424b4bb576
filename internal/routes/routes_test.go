package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/dls-barber/internal/audit"
	"github.com/BruksfildServices01/dls-barber/internal/config"
	dbpkg "github.com/BruksfildServices01/dls-barber/internal/db"
	"github.com/BruksfildServices01/dls-barber/internal/db/dbtest"
	"github.com/BruksfildServices01/dls-barber/internal/infra/cache"
	"github.com/BruksfildServices01/dls-barber/internal/logger"
	"github.com/BruksfildServices01/dls-barber/internal/metrics"
	"github.com/BruksfildServices01/dls-barber/internal/models"
)

const (
	adminEmail    = "admin@dlsbarber.com"
	adminPassword = "admin-pass"

	// nextMonday is a Monday; the seeded barber works 09:00-18:00.
	nextMonday = "2030-01-07"
	nextSunday = "2030-01-06"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testApp struct {
	t      *testing.T
	db     *gorm.DB
	router http.Handler
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	db := dbtest.New(t)
	log := logger.Discard()

	require.NoError(t, dbpkg.Seed(context.Background(), db, dbpkg.SeedOptions{
		AdminEmail:    adminEmail,
		AdminPassword: adminPassword,
	}, log))

	dispatcher := audit.NewDispatcher(audit.New(db), log)
	t.Cleanup(func() { _ = dispatcher.Close(context.Background()) })

	cfg := &config.Config{
		JWTSecret:        "test-secret",
		JWTTTL:           time.Hour,
		Timezone:         "UTC",
		PhoneRegion:      "UY",
		SlotStepMinutes:  30,
		InitialStatus:    "pending",
		RequestTimeout:   5 * time.Second,
		CORSAllowOrigins: []string{"http://localhost:3000"},
	}

	router, err := NewRouter(db, cfg, Infra{
		Log:     log,
		Cache:   cache.Noop{},
		Audit:   dispatcher,
		Metrics: metrics.New(),
	})
	require.NoError(t, err)

	return &testApp{t: t, db: db, router: router}
}

func (a *testApp) do(method, path, token string, body any) *httptest.ResponseRecorder {
	a.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func (a *testApp) login(email, password string) string {
	a.t.Helper()
	rec := a.do(http.MethodPost, "/api/auth/login", "", gin.H{"email": email, "password": password})
	require.Equal(a.t, http.StatusOK, rec.Code, rec.Body.String())
	return decode(a.t, rec)["token"].(string)
}

func (a *testApp) register(username string) string {
	a.t.Helper()
	rec := a.do(http.MethodPost, "/api/auth/register", "", gin.H{
		"username":  username,
		"email":     username + "@example.com",
		"password":  "secret1",
		"full_name": username,
		"phone":     "099 123 456",
	})
	require.Equal(a.t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode(a.t, rec)["token"].(string)
}

func (a *testApp) availability(date string) []any {
	a.t.Helper()
	rec := a.do(http.MethodGet, "/api/reservations/available-hours?date="+date+"&barber_id=1", "", nil)
	require.Equal(a.t, http.StatusOK, rec.Code, rec.Body.String())
	return decode(a.t, rec)["available_hours"].([]any)
}

func booking(slot string) gin.H {
	return gin.H{
		"barber_id":        1,
		"service_id":       1,
		"reservation_date": nextMonday,
		"reservation_time": slot,
		"client_name":      "Juan Pérez",
		"client_phone":     "099 123 456",
		"client_email":     "juan@example.com",
	}
}

func (a *testApp) book(token, slot string) uint {
	a.t.Helper()
	rec := a.do(http.MethodPost, "/api/reservations", token, booking(slot))
	require.Equal(a.t, http.StatusCreated, rec.Code, rec.Body.String())
	res := decode(a.t, rec)["reservation"].(map[string]any)
	return uint(res["id"].(float64))
}

// ======================================================
// AVAILABILITY + CREATE
// ======================================================

func TestBookingRoundTrip(t *testing.T) {
	app := newTestApp(t)

	before := app.availability(nextMonday)
	require.Len(t, before, 18)
	assert.Equal(t, "09:00", before[0])
	assert.Equal(t, "17:30", before[17])

	rec := app.do(http.MethodPost, "/api/reservations", "", booking("10:00"))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	body := decode(t, rec)
	assert.NotEmpty(t, body["message"])
	res := body["reservation"].(map[string]any)
	assert.Equal(t, "10:00", res["reservation_time"])
	assert.Equal(t, "pending", res["status"])
	assert.Equal(t, "+59899123456", res["client_phone"])
	assert.Equal(t, "Samuel", res["barber_name"])
	assert.Nil(t, res["user_id"])

	after := app.availability(nextMonday)
	assert.Len(t, after, 17)
	assert.NotContains(t, after, "10:00")

	legacy := app.do(http.MethodGet, "/api/reservations/available-hours/"+nextMonday+"/1", "", nil)
	require.Equal(t, http.StatusOK, legacy.Code)
	assert.Equal(t, after, decode(t, legacy)["available_hours"])
}

func TestCreateConflictIsBadRequest(t *testing.T) {
	app := newTestApp(t)
	app.book("", "10:00")

	rec := app.do(http.MethodPost, "/api/reservations", "", booking("10:00"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "slot_taken", decode(t, rec)["error_code"])

	var count int64
	require.NoError(t, app.db.Model(&models.Reservation{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestCreateValidationDetails(t *testing.T) {
	app := newTestApp(t)

	body := booking("10:00")
	body["client_name"] = "  "
	body["reservation_time"] = "10:15"

	rec := app.do(http.MethodPost, "/api/reservations", "", body)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	out := decode(t, rec)
	assert.Equal(t, "validation_error", out["error_code"])
	details := out["details"].(map[string]any)
	assert.Equal(t, "required", details["client_name"])

	var count int64
	require.NoError(t, app.db.Model(&models.Reservation{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestAvailabilityEdgeCases(t *testing.T) {
	app := newTestApp(t)

	assert.Empty(t, app.availability(nextSunday))

	rec := app.do(http.MethodGet, "/api/reservations/available-hours?date=07-01-2030&barber_id=1", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = app.do(http.MethodGet, "/api/reservations/available-hours?date="+nextMonday+"&barber_id=abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = app.do(http.MethodGet, "/api/reservations/available-hours?date="+nextMonday+"&barber_id=99", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode(t, rec)["available_hours"])
}

// ======================================================
// STATUS + CANCEL
// ======================================================

func TestSetStatusAndReactivation(t *testing.T) {
	app := newTestApp(t)
	adminToken := app.login(adminEmail, adminPassword)
	userToken := app.register("ana")

	first := app.book("", "10:00")
	path := "/api/reservations/" + itoa(first) + "/status"

	rec := app.do(http.MethodPut, path, userToken, gin.H{"status": "confirmed"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = app.do(http.MethodPut, path, adminToken, gin.H{"status": "archived"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = app.do(http.MethodPut, "/api/reservations/999/status", adminToken, gin.H{"status": "confirmed"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = app.do(http.MethodPut, path, adminToken, gin.H{"status": "cancelled"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "cancelled", decode(t, rec)["reservation"].(map[string]any)["status"])
	assert.Contains(t, app.availability(nextMonday), "10:00")

	app.book("", "10:00")

	rec = app.do(http.MethodPut, path, adminToken, gin.H{"status": "confirmed"})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "slot_taken", decode(t, rec)["error_code"])
}

func TestCancelOwnership(t *testing.T) {
	app := newTestApp(t)
	ana := app.register("ana")
	bob := app.register("bob")

	id := app.book(ana, "11:00")
	path := "/api/reservations/" + itoa(id)

	rec := app.do(http.MethodDelete, path, "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = app.do(http.MethodDelete, path, bob, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = app.do(http.MethodDelete, "/api/reservations/999", ana, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = app.do(http.MethodDelete, path, ana, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "cancelled", decode(t, rec)["reservation"].(map[string]any)["status"])

	rec = app.do(http.MethodGet, "/api/reservations/my-reservations", ana, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	mine := decode(t, rec)["reservations"].([]any)
	require.Len(t, mine, 1)

	rec = app.do(http.MethodGet, "/api/reservations/my-reservations", bob, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode(t, rec)["reservations"])
}

// ======================================================
// ACCOUNTS
// ======================================================

func TestAccountLifecycle(t *testing.T) {
	app := newTestApp(t)
	token := app.register("ana")

	rec := app.do(http.MethodPost, "/api/auth/register", "", gin.H{
		"username":  "ana",
		"email":     "other@example.com",
		"password":  "secret1",
		"full_name": "Ana",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "user_already_exists", decode(t, rec)["error_code"])

	rec = app.do(http.MethodPost, "/api/auth/login", "", gin.H{"email": "ana@example.com", "password": "wrong-pass"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = app.do(http.MethodGet, "/api/auth/profile", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	user := decode(t, rec)["user"].(map[string]any)
	assert.Equal(t, "ana@example.com", user["email"])
	assert.Equal(t, "+59899123456", user["phone"])
	assert.NotContains(t, user, "password_hash")

	rec = app.do(http.MethodPut, "/api/auth/profile", token, gin.H{"full_name": "Ana María", "phone": ""})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Ana María", decode(t, rec)["user"].(map[string]any)["full_name"])

	rec = app.do(http.MethodPut, "/api/auth/change-password", token, gin.H{
		"current_password": "nope",
		"new_password":     "secret2",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = app.do(http.MethodPut, "/api/auth/change-password", token, gin.H{
		"current_password": "secret1",
		"new_password":     "secret2",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	app.login("ana@example.com", "secret2")

	rec = app.do(http.MethodGet, "/api/auth/verify", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decode(t, rec)["valid"])

	rec = app.do(http.MethodGet, "/api/auth/users", token, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = app.do(http.MethodGet, "/api/auth/users", app.login(adminEmail, adminPassword), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["users"], 2)
}

// ======================================================
// ADMIN
// ======================================================

func TestAdminListingAndCatalog(t *testing.T) {
	app := newTestApp(t)
	admin := app.login(adminEmail, adminPassword)

	app.book("", "09:00")
	app.book("", "09:30")

	rec := app.do(http.MethodGet, "/api/admin/reservations", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = app.do(http.MethodGet, "/api/admin/reservations?status=pending&barber_id=1", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	out := decode(t, rec)
	rows := out["reservations"].([]any)
	require.Len(t, rows, 2)
	assert.Equal(t, "09:30", rows[0].(map[string]any)["reservation_time"])
	stats := out["statistics"].(map[string]any)
	assert.EqualValues(t, 2, stats["total_reservations"])
	assert.EqualValues(t, 2, stats["pending"])
	assert.EqualValues(t, 2, stats["upcoming"])

	rec = app.do(http.MethodGet, "/api/admin/reservations?status=bogus", admin, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = app.do(http.MethodGet, "/api/admin/barbers", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	barbers := decode(t, rec)["barbers"].([]any)
	require.Len(t, barbers, 1)
	assert.EqualValues(t, 2, barbers[0].(map[string]any)["pending_reservations"])

	rec = app.do(http.MethodGet, "/api/general/services", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["services"], 5)

	rec = app.do(http.MethodPatch, "/api/admin/barbers/1", admin, gin.H{"is_active": false})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = app.do(http.MethodGet, "/api/barbers", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode(t, rec)["barbers"])
	assert.Empty(t, app.availability(nextMonday), "a deactivated barber offers no slots")

	rec = app.do(http.MethodPost, "/api/reservations", "", booking("12:00"))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode(t, rec)["details"], "barber_id")

	rec = app.do(http.MethodPatch, "/api/admin/barbers/42", admin, gin.H{"is_active": true})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdminScheduleReplace(t *testing.T) {
	app := newTestApp(t)
	admin := app.login(adminEmail, adminPassword)

	rec := app.do(http.MethodPut, "/api/admin/barbers/1/schedule", admin, gin.H{
		"days": []gin.H{
			{"day_of_week": 1, "start_time": "12:00", "end_time": "10:00"},
		},
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode(t, rec)["details"], "days[0].end_time")

	rec = app.do(http.MethodPut, "/api/admin/barbers/1/schedule", admin, gin.H{
		"days": []gin.H{
			{"day_of_week": 1, "start_time": "10:00", "end_time": "12:00"},
			{"day_of_week": 0, "start_time": "10:00", "end_time": "11:00"},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	assert.Equal(t, []any{"10:00", "10:30", "11:00", "11:30"}, app.availability(nextMonday))
	assert.Equal(t, []any{"10:00", "10:30"}, app.availability(nextSunday))

	rec = app.do(http.MethodGet, "/api/admin/barbers/1/schedule", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["days"], 2)

	rec = app.do(http.MethodGet, "/api/admin/barbers/9/schedule", admin, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdminAuditLogs(t *testing.T) {
	app := newTestApp(t)
	admin := app.login(adminEmail, adminPassword)
	app.book("", "10:00")

	require.Eventually(t, func() bool {
		var n int64
		app.db.Model(&models.AuditLog{}).Where("action = ?", audit.ActionReservationCreated).Count(&n)
		return n == 1
	}, 2*time.Second, 20*time.Millisecond)

	rec := app.do(http.MethodGet, "/api/admin/audit-logs?action="+audit.ActionReservationCreated, admin, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	out := decode(t, rec)
	assert.EqualValues(t, 1, out["total"])
	assert.Len(t, out["logs"], 1)

	rec = app.do(http.MethodGet, "/api/admin/audit-logs?from=yesterday", admin, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPhotoUploadWithoutStorage(t *testing.T) {
	app := newTestApp(t)
	admin := app.login(adminEmail, adminPassword)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("photo", "me.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("not really a png"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/admin/barbers/1/photo", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+admin)
	rec := httptest.NewRecorder()
	app.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "storage_disabled", decode(t, rec)["error_code"])

	rec = app.do(http.MethodPost, "/api/admin/barbers/1/photo", admin, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// ======================================================
// OPS
// ======================================================

func TestHealthMetricsAndFallbacks(t *testing.T) {
	app := newTestApp(t)
	app.book("", "10:00")

	rec := app.do(http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decode(t, rec)["status"])
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))

	rec = app.do(http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `barber_reservations_created_total{barber_id="1"} 1`)

	rec = app.do(http.MethodGet, "/api/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "route_not_found", decode(t, rec)["error_code"])
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
