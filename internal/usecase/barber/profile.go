package barber

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/dls-barber/internal/audit"
	"github.com/BruksfildServices01/dls-barber/internal/domain/catalog"
	domain "github.com/BruksfildServices01/dls-barber/internal/domain/reservation"
	"github.com/BruksfildServices01/dls-barber/internal/httperr"
	"github.com/BruksfildServices01/dls-barber/internal/infra/storage"
	"github.com/BruksfildServices01/dls-barber/internal/models"
)

var ErrStorageDisabled = httperr.ErrBusiness("storage_disabled")

type PhotoStore interface {
	Put(ctx context.Context, key, contentType string, body []byte) (string, error)
}

type Profile struct {
	catalog catalog.Repository
	store   PhotoStore
	cache   domain.AvailabilityCache
	audit   *audit.Dispatcher
	log     *slog.Logger
}

// NewProfile accepts a nil store; photo uploads then fail with
// ErrStorageDisabled.
func NewProfile(
	catalogRepo catalog.Repository,
	store PhotoStore,
	cache domain.AvailabilityCache,
	auditDispatcher *audit.Dispatcher,
	log *slog.Logger,
) *Profile {
	return &Profile{
		catalog: catalogRepo,
		store:   store,
		cache:   cache,
		audit:   auditDispatcher,
		log:     log,
	}
}

// SetActive toggles the barber and drops their cached availability, which is
// empty while they are inactive.
func (uc *Profile) SetActive(ctx context.Context, barberID uint, active bool, actorID *uint) (*models.Barber, error) {
	b, err := uc.catalog.SetBarberActive(ctx, barberID, active)
	if err != nil {
		return nil, err
	}

	if err := uc.cache.InvalidateBarber(ctx, barberID); err != nil {
		uc.log.Warn("availability cache invalidate failed",
			slog.Uint64("barber_id", uint64(barberID)),
			slog.Any("error", err),
		)
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   actorID,
		Action:   audit.ActionBarberActivation,
		Entity:   audit.EntityBarber,
		EntityID: audit.Ptr(barberID),
		Metadata: map[string]bool{"is_active": active},
	})
	return b, nil
}

// UploadPhoto stores a resized webp copy of the image and points the barber
// at it.
func (uc *Profile) UploadPhoto(ctx context.Context, barberID uint, image io.Reader, actorID *uint) (*models.Barber, error) {
	if uc.store == nil {
		return nil, ErrStorageDisabled
	}

	if _, err := uc.catalog.GetBarber(ctx, barberID); err != nil {
		return nil, err
	}

	body, err := storage.ProcessPhoto(image)
	if err != nil {
		return nil, domain.NewValidationError("photo", "must be a JPEG, PNG or WebP image")
	}

	key := fmt.Sprintf("barbers/%d/%s.webp", barberID, uuid.NewString())
	url, err := uc.store.Put(ctx, key, storage.PhotoMIME, body)
	if err != nil {
		uc.log.Error("barber photo upload failed", slog.String("key", key), slog.Any("error", err))
		return nil, domain.Unavailable("upload barber photo", err)
	}

	b, err := uc.catalog.SetBarberPhoto(ctx, barberID, url)
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   actorID,
		Action:   audit.ActionBarberPhotoUploaded,
		Entity:   audit.EntityBarber,
		EntityID: audit.Ptr(barberID),
		Metadata: map[string]string{"url": url},
	})
	return b, nil
}
