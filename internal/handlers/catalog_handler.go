package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/dls-barber/internal/domain/catalog"
	"github.com/BruksfildServices01/dls-barber/internal/httperr"
	"github.com/BruksfildServices01/dls-barber/internal/httpresp"
	"github.com/BruksfildServices01/dls-barber/internal/infra/storage"
	"github.com/BruksfildServices01/dls-barber/internal/middleware"
	"github.com/BruksfildServices01/dls-barber/internal/usecase/barber"
)

type CatalogHandler struct {
	catalog catalog.Repository
	profile *barber.Profile
}

func NewCatalogHandler(catalogRepo catalog.Repository, profile *barber.Profile) *CatalogHandler {
	return &CatalogHandler{
		catalog: catalogRepo,
		profile: profile,
	}
}

type SetBarberActiveRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

// ======================================================
// PUBLIC
// ======================================================

func (h *CatalogHandler) Barbers(c *gin.Context) {
	barbers, err := h.catalog.ListBarbers(c.Request.Context(), true)
	if err != nil {
		respondError(c, err)
		return
	}
	httpresp.OK(c, gin.H{"barbers": httpresp.Slice(barbers)})
}

func (h *CatalogHandler) Services(c *gin.Context) {
	services, err := h.catalog.ListServices(c.Request.Context(), true)
	if err != nil {
		respondError(c, err)
		return
	}
	httpresp.OK(c, gin.H{"services": httpresp.Slice(services)})
}

// ======================================================
// ADMIN
// ======================================================

func (h *CatalogHandler) AdminBarbers(c *gin.Context) {
	barbers, err := h.catalog.BarbersWithStats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	httpresp.OK(c, gin.H{"barbers": httpresp.Slice(barbers)})
}

func (h *CatalogHandler) AdminServices(c *gin.Context) {
	services, err := h.catalog.ServicesWithStats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	httpresp.OK(c, gin.H{"services": httpresp.Slice(services)})
}

func (h *CatalogHandler) SetBarberActive(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req SetBarberActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	b, err := h.profile.SetActive(c.Request.Context(), id, *req.IsActive, middleware.UserIDPtr(c))
	if err != nil {
		respondError(c, err)
		return
	}
	httpresp.OK(c, gin.H{"barber": b})
}

func (h *CatalogHandler) UploadPhoto(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	fh, err := c.FormFile("photo")
	if err != nil {
		httperr.BadRequest(c, "missing_photo", "Send the image in the photo field.")
		return
	}
	if fh.Size > storage.MaxPhotoBytes {
		httperr.Write(c, http.StatusRequestEntityTooLarge, "photo_too_large", "The image is too large.")
		return
	}

	f, err := fh.Open()
	if err != nil {
		httperr.BadRequest(c, "invalid_photo", "Could not read the image.")
		return
	}
	defer f.Close()

	b, err := h.profile.UploadPhoto(c.Request.Context(), id, f, middleware.UserIDPtr(c))
	if err != nil {
		respondError(c, err)
		return
	}
	httpresp.OK(c, gin.H{"barber": b})
}

func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		httperr.BadRequest(c, "invalid_id", "Invalid id.")
		return 0, false
	}
	return uint(id), true
}
