package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pedram-fm/massage-app-sub000/internal/middleware"
	"github.com/pedram-fm/massage-app-sub000/internal/models"
	"github.com/pedram-fm/massage-app-sub000/internal/timezone"
)

type MeHandler struct {
	db *gorm.DB
}

func NewMeHandler(db *gorm.DB) *MeHandler {
	return &MeHandler{db: db}
}

func therapistIDFromContext(c *gin.Context) (uint, bool) {
	val, exists := c.Get(middleware.ContextTherapistID)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "therapist_not_in_context"})
		return 0, false
	}

	id, ok := val.(uint)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_therapist_id_type"})
		return 0, false
	}

	return id, true
}

func (h *MeHandler) GetMe(c *gin.Context) {
	therapistID, ok := therapistIDFromContext(c)
	if !ok {
		return
	}

	var therapist models.Therapist
	if err := h.db.First(&therapist, therapistID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "therapist_not_found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"therapist": therapist})
}

type UpdateMeRequest struct {
	Name     *string `json:"name"`
	Phone    *string `json:"phone"`
	Bio      *string `json:"bio"`
	Timezone *string `json:"timezone"`
}

func (h *MeHandler) UpdateMe(c *gin.Context) {
	therapistID, ok := therapistIDFromContext(c)
	if !ok {
		return
	}

	var req UpdateMeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	var therapist models.Therapist
	if err := h.db.First(&therapist, therapistID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "therapist_not_found"})
		return
	}

	if req.Name != nil {
		therapist.Name = *req.Name
	}
	if req.Phone != nil {
		therapist.Phone = *req.Phone
	}
	if req.Bio != nil {
		therapist.Bio = *req.Bio
	}
	if req.Timezone != nil {
		if !timezone.IsValid(*req.Timezone) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_timezone"})
			return
		}
		therapist.Timezone = *req.Timezone
	}

	if err := h.db.Save(&therapist).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_update_therapist"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"therapist": therapist})
}
