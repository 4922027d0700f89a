package handlers

import (
	"net/http"
	"regexp"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pedram-fm/massage-app-sub000/internal/audit"
	"github.com/pedram-fm/massage-app-sub000/internal/cache"
	"github.com/pedram-fm/massage-app-sub000/internal/httperr"
	"github.com/pedram-fm/massage-app-sub000/internal/models"
)

var hhmmPattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

// ======================================================
// HANDLER
// ======================================================

type ScheduleHandler struct {
	db    *gorm.DB
	cache *cache.Availability
	audit *audit.Dispatcher
}

func NewScheduleHandler(db *gorm.DB, c *cache.Availability, dispatcher *audit.Dispatcher) *ScheduleHandler {
	return &ScheduleHandler{
		db:    db,
		cache: c,
		audit: dispatcher,
	}
}

// ======================================================
// WEEKLY SCHEDULE
// ======================================================

type WeeklyRuleRequest struct {
	Weekday   int    `json:"weekday" binding:"min=0,max=6"`
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time" binding:"required"`
	BreakMin  int    `json:"break_min" binding:"min=0"`
}

func (h *ScheduleHandler) GetWeekly(c *gin.Context) {
	therapistID, ok := therapistIDFromContext(c)
	if !ok {
		return
	}

	var rules []models.WeeklySchedule
	if err := h.db.
		Where("therapist_id = ? AND active = true", therapistID).
		Order("weekday ASC").
		Find(&rules).Error; err != nil {

		httperr.Internal(c, "failed_to_list_schedule", "Failed to list weekly schedule.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"schedule": rules})
}

// PutWeekly replaces the whole weekly schedule at once. Old rows are kept but
// deactivated, so the history of rule changes survives.
func (h *ScheduleHandler) PutWeekly(c *gin.Context) {
	therapistID, ok := therapistIDFromContext(c)
	if !ok {
		return
	}

	var req []WeeklyRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	seen := make(map[int]bool, len(req))
	for _, r := range req {
		if seen[r.Weekday] {
			httperr.BadRequest(c, "duplicate_weekday", "Each weekday may appear at most once.")
			return
		}
		seen[r.Weekday] = true

		if !hhmmPattern.MatchString(r.StartTime) || !hhmmPattern.MatchString(r.EndTime) {
			httperr.BadRequest(c, "invalid_time_format", "Times must be HH:mm.")
			return
		}
		if r.EndTime <= r.StartTime {
			httperr.BadRequest(c, "invalid_time_range", "End time must be after start time.")
			return
		}
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.WeeklySchedule{}).
			Where("therapist_id = ? AND active = true", therapistID).
			Update("active", false).Error; err != nil {
			return err
		}

		for _, r := range req {
			rule := models.WeeklySchedule{
				TherapistID: therapistID,
				Weekday:     r.Weekday,
				StartTime:   r.StartTime,
				EndTime:     r.EndTime,
				BreakMin:    r.BreakMin,
				Active:      true,
			}
			if err := tx.Create(&rule).Error; err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		httperr.Internal(c, "failed_to_update_schedule", "Failed to update weekly schedule.")
		return
	}

	// a schedule change can affect every cached day
	h.cache.InvalidateAll(c.Request.Context(), therapistID)

	h.audit.Dispatch(audit.Event{
		TherapistID: therapistID,
		Action:      "weekly_schedule_replaced",
		Entity:      "weekly_schedule",
		Metadata:    map[string]any{"rules": len(req)},
	})

	c.JSON(http.StatusOK, gin.H{"updated": true})
}

// ======================================================
// OVERRIDES
// ======================================================

type OverrideRequest struct {
	Date      string `json:"date" binding:"required"` // yyyy-mm-dd
	Type      string `json:"type" binding:"required"` // unavailable | custom_hours
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	BreakMin  int    `json:"break_min"`
	Reason    string `json:"reason"`
}

func (h *ScheduleHandler) ListOverrides(c *gin.Context) {
	therapistID, ok := therapistIDFromContext(c)
	if !ok {
		return
	}

	q := h.db.Where("therapist_id = ?", therapistID)

	if fromStr := c.Query("from"); fromStr != "" {
		if from, err := time.Parse("2006-01-02", fromStr); err == nil {
			q = q.Where("date >= ?", from)
		}
	}
	if toStr := c.Query("to"); toStr != "" {
		if to, err := time.Parse("2006-01-02", toStr); err == nil {
			q = q.Where("date <= ?", to)
		}
	}

	var overrides []models.ScheduleOverride
	if err := q.Order("date ASC").Find(&overrides).Error; err != nil {
		httperr.Internal(c, "failed_to_list_overrides", "Failed to list overrides.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"overrides": overrides})
}

// PutOverride upserts the single override allowed for a date.
func (h *ScheduleHandler) PutOverride(c *gin.Context) {
	therapistID, ok := therapistIDFromContext(c)
	if !ok {
		return
	}

	var therapist models.Therapist
	if err := h.db.First(&therapist, therapistID).Error; err != nil {
		httperr.Internal(c, "therapist_not_found", "Therapist not found.")
		return
	}

	var req OverrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	if req.Type != models.OverrideUnavailable && req.Type != models.OverrideCustomHours {
		httperr.BadRequest(c, "invalid_override_type", "Type must be 'unavailable' or 'custom_hours'.")
		return
	}

	if req.Type == models.OverrideCustomHours {
		if !hhmmPattern.MatchString(req.StartTime) || !hhmmPattern.MatchString(req.EndTime) {
			httperr.BadRequest(c, "invalid_time_format", "Times must be HH:mm.")
			return
		}
		if req.EndTime <= req.StartTime {
			httperr.BadRequest(c, "invalid_time_range", "End time must be after start time.")
			return
		}
	}

	date, err := parseDateForTherapist(c, &therapist, req.Date)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Invalid date.")
		return
	}

	override := models.ScheduleOverride{
		TherapistID: therapistID,
		Date:        date,
		Type:        req.Type,
		Reason:      req.Reason,
	}
	if req.Type == models.OverrideCustomHours {
		override.StartTime = req.StartTime
		override.EndTime = req.EndTime
		override.BreakMin = req.BreakMin
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("therapist_id = ? AND date = ?", therapistID, date).
			Delete(&models.ScheduleOverride{}).Error; err != nil {
			return err
		}
		return tx.Create(&override).Error
	})
	if err != nil {
		httperr.Internal(c, "failed_to_save_override", "Failed to save override.")
		return
	}

	h.cache.Invalidate(c.Request.Context(), therapistID, date)

	h.audit.Dispatch(audit.Event{
		TherapistID: therapistID,
		Action:      "override_saved",
		Entity:      "schedule_override",
		EntityID:    &override.ID,
		Metadata:    map[string]any{"date": date.Format("2006-01-02"), "type": req.Type},
	})

	c.JSON(http.StatusOK, gin.H{"override": override})
}

func (h *ScheduleHandler) DeleteOverride(c *gin.Context) {
	therapistID, ok := therapistIDFromContext(c)
	if !ok {
		return
	}

	var therapist models.Therapist
	if err := h.db.First(&therapist, therapistID).Error; err != nil {
		httperr.Internal(c, "therapist_not_found", "Therapist not found.")
		return
	}

	date, err := parseDateForTherapist(c, &therapist, c.Param("date"))
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Invalid date.")
		return
	}

	res := h.db.
		Where("therapist_id = ? AND date = ?", therapistID, date).
		Delete(&models.ScheduleOverride{})
	if res.Error != nil {
		httperr.Internal(c, "failed_to_delete_override", "Failed to delete override.")
		return
	}
	if res.RowsAffected == 0 {
		httperr.NotFound(c, "override_not_found", "No override on that date.")
		return
	}

	h.cache.Invalidate(c.Request.Context(), therapistID, date)

	h.audit.Dispatch(audit.Event{
		TherapistID: therapistID,
		Action:      "override_deleted",
		Entity:      "schedule_override",
		Metadata:    map[string]any{"date": date.Format("2006-01-02")},
	})

	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
