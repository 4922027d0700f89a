package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pedram-fm/massage-app-sub000/internal/audit"
	"github.com/pedram-fm/massage-app-sub000/internal/cache"
	"github.com/pedram-fm/massage-app-sub000/internal/httperr"
	"github.com/pedram-fm/massage-app-sub000/internal/httpresp"
	"github.com/pedram-fm/massage-app-sub000/internal/models"
)

// ======================================================
// HANDLER
// ======================================================

type ServiceHandler struct {
	db    *gorm.DB
	cache *cache.Availability
	audit *audit.Dispatcher
}

func NewServiceHandler(db *gorm.DB, c *cache.Availability, dispatcher *audit.Dispatcher) *ServiceHandler {
	return &ServiceHandler{
		db:    db,
		cache: c,
		audit: dispatcher,
	}
}

// ======================================================
// CATALOG
// ======================================================

func (h *ServiceHandler) ListCatalog(c *gin.Context) {
	q := h.db.Where("active = true")

	if query := strings.TrimSpace(strings.ToLower(c.Query("query"))); query != "" {
		like := "%" + query + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(name_fa) LIKE ? OR LOWER(description) LIKE ?", like, like, like)
	}

	var services []models.Service
	if err := q.Order("id ASC").Find(&services).Error; err != nil {
		httperr.Internal(c, "failed_to_list_services", "Failed to list catalog services.")
		return
	}

	httpresp.List(c, services)
}

// ======================================================
// OFFERINGS
// ======================================================

type CreateOfferingRequest struct {
	ServiceID   uint     `json:"service_id" binding:"required"`
	DurationMin *int     `json:"duration_min"`
	Price       *float64 `json:"price"`
}

type UpdateOfferingRequest struct {
	DurationMin *int     `json:"duration_min"`
	Price       *float64 `json:"price"`
	Active      *bool    `json:"active"`
}

func (h *ServiceHandler) ListOfferings(c *gin.Context) {
	therapistID, ok := therapistIDFromContext(c)
	if !ok {
		return
	}

	var offerings []models.TherapistService
	if err := h.db.
		Preload("Service").
		Where("therapist_id = ?", therapistID).
		Order("id ASC").
		Find(&offerings).Error; err != nil {

		httperr.Internal(c, "failed_to_list_offerings", "Failed to list offerings.")
		return
	}

	httpresp.List(c, offerings)
}

func (h *ServiceHandler) CreateOffering(c *gin.Context) {
	therapistID, ok := therapistIDFromContext(c)
	if !ok {
		return
	}

	var req CreateOfferingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	if req.DurationMin != nil && *req.DurationMin <= 0 {
		httperr.BadRequest(c, "invalid_duration", "Duration must be positive.")
		return
	}
	if req.Price != nil && *req.Price < 0 {
		httperr.BadRequest(c, "invalid_price", "Price must not be negative.")
		return
	}

	var service models.Service
	if err := h.db.First(&service, req.ServiceID).Error; err != nil {
		httperr.BadRequest(c, "service_not_found", "Catalog service not found.")
		return
	}
	if !service.Active {
		httperr.BadRequest(c, "service_inactive", "Catalog service is not active.")
		return
	}

	var count int64
	h.db.Model(&models.TherapistService{}).
		Where("therapist_id = ? AND service_id = ?", therapistID, req.ServiceID).
		Count(&count)
	if count > 0 {
		httperr.BadRequest(c, "offering_already_exists", "This service is already offered.")
		return
	}

	offering := models.TherapistService{
		TherapistID: therapistID,
		ServiceID:   req.ServiceID,
		DurationMin: req.DurationMin,
		Price:       req.Price,
		Active:      true,
	}

	if err := h.db.Create(&offering).Error; err != nil {
		httperr.Internal(c, "failed_to_create_offering", "Failed to create offering.")
		return
	}
	offering.Service = service

	// a new offering changes what every availability response contains
	h.cache.InvalidateAll(c.Request.Context(), therapistID)

	h.audit.Dispatch(audit.Event{
		TherapistID: therapistID,
		Action:      "offering_created",
		Entity:      "therapist_service",
		EntityID:    &offering.ID,
	})

	c.JSON(http.StatusCreated, offering)
}

func (h *ServiceHandler) UpdateOffering(c *gin.Context) {
	therapistID, ok := therapistIDFromContext(c)
	if !ok {
		return
	}

	offeringID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_offering_id", "Invalid offering id.")
		return
	}

	var req UpdateOfferingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	if req.DurationMin != nil && *req.DurationMin <= 0 {
		httperr.BadRequest(c, "invalid_duration", "Duration must be positive.")
		return
	}
	if req.Price != nil && *req.Price < 0 {
		httperr.BadRequest(c, "invalid_price", "Price must not be negative.")
		return
	}

	var offering models.TherapistService
	if err := h.db.
		Preload("Service").
		Where("id = ? AND therapist_id = ?", offeringID, therapistID).
		First(&offering).Error; err != nil {

		httperr.NotFound(c, "offering_not_found", "Offering not found.")
		return
	}

	if req.DurationMin != nil {
		offering.DurationMin = req.DurationMin
	}
	if req.Price != nil {
		offering.Price = req.Price
	}
	if req.Active != nil {
		offering.Active = *req.Active
	}

	if err := h.db.Save(&offering).Error; err != nil {
		httperr.Internal(c, "failed_to_update_offering", "Failed to update offering.")
		return
	}

	h.cache.InvalidateAll(c.Request.Context(), therapistID)

	h.audit.Dispatch(audit.Event{
		TherapistID: therapistID,
		Action:      "offering_updated",
		Entity:      "therapist_service",
		EntityID:    &offering.ID,
	})

	c.JSON(http.StatusOK, offering)
}

func (h *ServiceHandler) DeleteOffering(c *gin.Context) {
	therapistID, ok := therapistIDFromContext(c)
	if !ok {
		return
	}

	offeringID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_offering_id", "Invalid offering id.")
		return
	}

	// deactivate, never hard-delete: bookings keep pointing at the offering
	res := h.db.Model(&models.TherapistService{}).
		Where("id = ? AND therapist_id = ?", offeringID, therapistID).
		Update("active", false)
	if res.Error != nil {
		httperr.Internal(c, "failed_to_delete_offering", "Failed to delete offering.")
		return
	}
	if res.RowsAffected == 0 {
		httperr.NotFound(c, "offering_not_found", "Offering not found.")
		return
	}

	h.cache.InvalidateAll(c.Request.Context(), therapistID)

	id := uint(offeringID)
	h.audit.Dispatch(audit.Event{
		TherapistID: therapistID,
		Action:      "offering_deactivated",
		Entity:      "therapist_service",
		EntityID:    &id,
	})

	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
