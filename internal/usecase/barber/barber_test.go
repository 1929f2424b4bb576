package barber

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/dls-barber/internal/db/dbtest"
	"github.com/BruksfildServices01/dls-barber/internal/domain/catalog"
	domain "github.com/BruksfildServices01/dls-barber/internal/domain/reservation"
	"github.com/BruksfildServices01/dls-barber/internal/infra/cache"
	"github.com/BruksfildServices01/dls-barber/internal/infra/repository"
	"github.com/BruksfildServices01/dls-barber/internal/logger"
	"github.com/BruksfildServices01/dls-barber/internal/models"
)

type fakeStore struct {
	keys []string
	err  error
}

func (s *fakeStore) Put(_ context.Context, key, contentType string, body []byte) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	if contentType != "image/webp" || len(body) == 0 {
		return "", errors.New("unexpected upload")
	}
	s.keys = append(s.keys, key)
	return "https://cdn.example.com/" + key, nil
}

type countingCache struct {
	cache.Noop
	barberInvalidations int
}

func (c *countingCache) InvalidateBarber(context.Context, uint) error {
	c.barberInvalidations++
	return nil
}

func setup(t *testing.T) (models.Barber, *repository.ScheduleGormRepository, *repository.CatalogGormRepository) {
	t.Helper()
	gdb := dbtest.New(t)

	b := models.Barber{Name: "Samuel", IsActive: true}
	require.NoError(t, gdb.Create(&b).Error)
	return b, repository.NewScheduleGormRepository(gdb), repository.NewCatalogGormRepository(gdb)
}

func TestScheduleReplace(t *testing.T) {
	b, schedRepo, catRepo := setup(t)
	c := &countingCache{}
	uc := NewSchedule(schedRepo, catRepo, c, nil, logger.Discard())
	ctx := context.Background()

	hours, err := uc.Replace(ctx, b.ID, []WindowInput{
		{DayOfWeek: int(time.Monday), StartTime: "09:00:00", EndTime: "12:00", IsActive: true},
		{DayOfWeek: int(time.Monday), StartTime: "14:00", EndTime: "18:00", IsActive: true},
		{DayOfWeek: int(time.Sunday), StartTime: "10:00", EndTime: "12:00", IsActive: false},
	}, nil)
	require.NoError(t, err)
	require.Len(t, hours, 3)
	assert.Equal(t, 0, hours[0].DayOfWeek)
	assert.Equal(t, "09:00", hours[1].StartTime)
	assert.Equal(t, 1, c.barberInvalidations)

	windows, err := schedRepo.GetWeeklyWindows(ctx, b.ID, time.Sunday)
	require.NoError(t, err)
	assert.Empty(t, windows)

	got, err := uc.Get(ctx, b.ID)
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestScheduleReplaceValidation(t *testing.T) {
	b, schedRepo, catRepo := setup(t)
	uc := NewSchedule(schedRepo, catRepo, cache.Noop{}, nil, logger.Discard())
	ctx := context.Background()

	_, err := uc.Replace(ctx, b.ID, []WindowInput{
		{DayOfWeek: 7, StartTime: "09:00", EndTime: "10:00"},
		{DayOfWeek: 1, StartTime: "12:00", EndTime: "11:00"},
		{DayOfWeek: 2, StartTime: "nine", EndTime: "10:00"},
	}, nil)

	ve, ok := domain.AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields, "days[0].day_of_week")
	assert.Contains(t, ve.Fields, "days[1].end_time")
	assert.Contains(t, ve.Fields, "days[2].start_time")

	_, err = uc.Replace(ctx, 999, nil, nil)
	assert.ErrorIs(t, err, catalog.ErrBarberNotFound)
}

func pngBytes(t *testing.T) *bytes.Reader {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 800, 600))))
	return bytes.NewReader(buf.Bytes())
}

func TestUploadPhoto(t *testing.T) {
	b, _, catRepo := setup(t)
	store := &fakeStore{}
	uc := NewProfile(catRepo, store, cache.Noop{}, nil, logger.Discard())
	ctx := context.Background()

	got, err := uc.UploadPhoto(ctx, b.ID, pngBytes(t), nil)
	require.NoError(t, err)
	require.Len(t, store.keys, 1)
	assert.True(t, strings.HasPrefix(store.keys[0], "barbers/"))
	assert.True(t, strings.HasSuffix(store.keys[0], ".webp"))
	assert.Equal(t, "https://cdn.example.com/"+store.keys[0], got.PhotoURL)

	_, err = uc.UploadPhoto(ctx, b.ID, strings.NewReader("text"), nil)
	_, ok := domain.AsValidation(err)
	assert.True(t, ok)

	_, err = uc.UploadPhoto(ctx, 999, pngBytes(t), nil)
	assert.ErrorIs(t, err, catalog.ErrBarberNotFound)
}

func TestUploadPhotoStorageFailures(t *testing.T) {
	b, _, catRepo := setup(t)
	ctx := context.Background()

	_, err := NewProfile(catRepo, nil, cache.Noop{}, nil, logger.Discard()).UploadPhoto(ctx, b.ID, pngBytes(t), nil)
	assert.ErrorIs(t, err, ErrStorageDisabled)

	failing := &fakeStore{err: errors.New("bucket gone")}
	_, err = NewProfile(catRepo, failing, cache.Noop{}, nil, logger.Discard()).UploadPhoto(ctx, b.ID, pngBytes(t), nil)
	assert.True(t, domain.IsUnavailable(err))
}

func TestSetActive(t *testing.T) {
	b, _, catRepo := setup(t)
	c := &countingCache{}
	uc := NewProfile(catRepo, nil, c, nil, logger.Discard())

	got, err := uc.SetActive(context.Background(), b.ID, false, nil)
	require.NoError(t, err)
	assert.False(t, got.IsActive)
	assert.Equal(t, 1, c.barberInvalidations)

	_, err = uc.SetActive(context.Background(), 999, true, nil)
	assert.ErrorIs(t, err, catalog.ErrBarberNotFound)
}
