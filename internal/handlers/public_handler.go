package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pedram-fm/massage-app-sub000/internal/audit"
	"github.com/pedram-fm/massage-app-sub000/internal/cache"
	"github.com/pedram-fm/massage-app-sub000/internal/calendar"
	"github.com/pedram-fm/massage-app-sub000/internal/httperr"
	infraRepo "github.com/pedram-fm/massage-app-sub000/internal/infra/repository"
	"github.com/pedram-fm/massage-app-sub000/internal/models"
	usecase "github.com/pedram-fm/massage-app-sub000/internal/usecase/booking"
)

////////////////////////////////////////////////////////
// HANDLER
////////////////////////////////////////////////////////

type PublicHandler struct {
	db    *gorm.DB
	cache *cache.Availability
	audit *audit.Dispatcher
}

func NewPublicHandler(db *gorm.DB, c *cache.Availability, dispatcher *audit.Dispatcher) *PublicHandler {
	return &PublicHandler{
		db:    db,
		cache: c,
		audit: dispatcher,
	}
}

func (h *PublicHandler) therapistBySlug(c *gin.Context) (*models.Therapist, bool) {
	slug := c.Param("slug")

	var therapist models.Therapist
	if err := h.db.Where("slug = ?", slug).First(&therapist).Error; err != nil {
		httperr.NotFound(c, "therapist_not_found", "Therapist not found.")
		return nil, false
	}

	return &therapist, true
}

////////////////////////////////////////////////////////
// DTOs
////////////////////////////////////////////////////////

type PublicCreateBookingRequest struct {
	ClientName  string `json:"client_name" binding:"required"`
	ClientPhone string `json:"client_phone" binding:"required"`
	ClientEmail string `json:"client_email"`
	OfferingID  uint   `json:"offering_id" binding:"required"`
	Date        string `json:"date" binding:"required"` // YYYY-MM-DD
	Time        string `json:"time" binding:"required"` // HH:mm
	Notes       string `json:"notes"`
}

////////////////////////////////////////////////////////
// SERVICES
////////////////////////////////////////////////////////

func (h *PublicHandler) ListServices(c *gin.Context) {
	therapist, ok := h.therapistBySlug(c)
	if !ok {
		return
	}

	repo := infraRepo.NewBookingGormRepository(h.db)
	offerings, err := repo.ListActiveOfferings(c.Request.Context(), therapist.ID)
	if err != nil {
		httperr.Internal(c, "failed_to_list_services", "Failed to list services.")
		return
	}

	type serviceView struct {
		OfferingID  uint    `json:"offering_id"`
		Name        string  `json:"name"`
		NameFa      string  `json:"name_fa"`
		Description string  `json:"description"`
		DurationMin int     `json:"duration_min"`
		Price       float64 `json:"price"`
	}

	out := make([]serviceView, 0, len(offerings))
	for _, off := range offerings {
		out = append(out, serviceView{
			OfferingID:  off.ID,
			Name:        off.Service.Name,
			NameFa:      off.Service.NameFa,
			Description: off.Service.Description,
			DurationMin: off.EffectiveDuration(),
			Price:       off.EffectivePrice(),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"therapist": gin.H{
			"name": therapist.Name,
			"slug": therapist.Slug,
			"bio":  therapist.Bio,
		},
		"services": out,
	})
}

////////////////////////////////////////////////////////
// AVAILABILITY
////////////////////////////////////////////////////////

func (h *PublicHandler) Availability(c *gin.Context) {
	therapist, ok := h.therapistBySlug(c)
	if !ok {
		return
	}

	dateStr := c.Query("date")
	if dateStr == "" {
		httperr.BadRequest(c, "missing_date", "Query param 'date' is required.")
		return
	}

	date, err := parseDateForTherapist(c, therapist, dateStr)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Invalid date.")
		return
	}

	repo := infraRepo.NewBookingGormRepository(h.db)
	uc := usecase.NewGetAvailableSlots(repo, h.cache)

	day, err := uc.Execute(c.Request.Context(), therapist.ID, date)
	if err != nil {
		httperr.Internal(c, "availability_failed", "Failed to compute availability.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":         day.Date,
		"date_jalali":  calendar.ToJalali(date),
		"is_available": day.IsAvailable,
		"reason":       day.Reason,
		"offerings":    day.Offerings,
	})
}

func (h *PublicHandler) AvailabilitySummary(c *gin.Context) {
	therapist, ok := h.therapistBySlug(c)
	if !ok {
		return
	}

	startStr := c.Query("start")
	endStr := c.Query("end")
	if startStr == "" || endStr == "" {
		httperr.BadRequest(c, "missing_params", "Query params 'start' and 'end' are required.")
		return
	}

	start, err := parseDateForTherapist(c, therapist, startStr)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Invalid start date.")
		return
	}
	end, err := parseDateForTherapist(c, therapist, endStr)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Invalid end date.")
		return
	}

	repo := infraRepo.NewBookingGormRepository(h.db)
	uc := usecase.NewGetAvailabilitySummary(usecase.NewGetAvailableSlots(repo, h.cache))

	days, err := uc.Execute(c.Request.Context(), therapist.ID, start, end)
	if err != nil {
		switch {
		case httperr.IsBusiness(err, "invalid_date_range"):
			httperr.BadRequest(c, "invalid_date_range", "End date is before start date.")
		case httperr.IsBusiness(err, "date_range_too_large"):
			httperr.BadRequest(c, "date_range_too_large", "Requested range is too large.")
		default:
			httperr.Internal(c, "summary_failed", "Failed to compute availability summary.")
		}
		return
	}

	views := make([]gin.H, 0, len(days))
	for _, d := range days {
		views = append(views, gin.H{
			"date":         d.Date,
			"date_jalali":  jalaliOf(d.Date, therapist),
			"is_available": d.IsAvailable,
			"open_slots":   d.OpenSlots,
		})
	}

	c.JSON(http.StatusOK, gin.H{"days": views})
}

func (h *PublicHandler) NextAvailableSlot(c *gin.Context) {
	therapist, ok := h.therapistBySlug(c)
	if !ok {
		return
	}

	offeringID, err := strconv.ParseUint(c.Query("offering_id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_offering_id", "Invalid offering id.")
		return
	}

	days, _ := strconv.Atoi(c.DefaultQuery("days", "0"))

	repo := infraRepo.NewBookingGormRepository(h.db)
	uc := usecase.NewGetNextAvailableSlot(repo)

	next, err := uc.Execute(c.Request.Context(), therapist.ID, uint(offeringID), days)
	if err != nil {
		mapOfferingErrors(c, err)
		return
	}

	if next == nil {
		c.JSON(http.StatusOK, gin.H{"found": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"found":       true,
		"date":        next.Date,
		"date_jalali": jalaliOf(next.Date, therapist),
		"slot":        next.Slot,
	})
}

func jalaliOf(dateStr string, t *models.Therapist) string {
	d, err := time.ParseInLocation("2006-01-02", dateStr, locationFromTherapist(t))
	if err != nil {
		return ""
	}
	return calendar.ToJalali(d)
}

////////////////////////////////////////////////////////
// SLOT CHECK
////////////////////////////////////////////////////////

// SlotCheck answers whether one specific interval is currently free. It is
// advisory only; the create path re-validates under lock.
func (h *PublicHandler) SlotCheck(c *gin.Context) {
	therapist, ok := h.therapistBySlug(c)
	if !ok {
		return
	}

	dateStr := c.Query("date")
	timeStr := c.Query("time")
	durationMin, _ := strconv.Atoi(c.Query("duration_min"))

	if dateStr == "" || timeStr == "" || durationMin <= 0 {
		httperr.BadRequest(c, "missing_params", "Query params 'date', 'time' and 'duration_min' are required.")
		return
	}

	date, err := parseDateForTherapist(c, therapist, dateStr)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Invalid date.")
		return
	}

	start, err := time.ParseInLocation(
		"2006-01-02 15:04",
		date.Format("2006-01-02")+" "+timeStr,
		locationFromTherapist(therapist),
	)
	if err != nil {
		httperr.BadRequest(c, "invalid_time", "Invalid time.")
		return
	}
	end := start.Add(time.Duration(durationMin) * time.Minute)

	repo := infraRepo.NewBookingGormRepository(h.db)
	free, err := usecase.SlotAvailable(c.Request.Context(), repo, therapist.ID, start, end, false)
	if err != nil {
		httperr.Internal(c, "slot_check_failed", "Failed to check slot.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"start":     start,
		"end":       end,
		"available": free,
	})
}

////////////////////////////////////////////////////////
// CREATE BOOKING
////////////////////////////////////////////////////////

func (h *PublicHandler) CreateBooking(c *gin.Context) {
	therapist, ok := h.therapistBySlug(c)
	if !ok {
		return
	}

	var req PublicCreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	date := req.Date
	if c.Query("cal") == "jalali" {
		g, err := calendar.ToGregorian(req.Date, locationFromTherapist(therapist))
		if err != nil {
			httperr.BadRequest(c, "invalid_date", "Invalid Jalali date.")
			return
		}
		date = g.Format("2006-01-02")
	}

	repo := infraRepo.NewBookingGormRepository(h.db)
	uc := usecase.NewCreateBooking(repo, h.cache, h.audit)

	b, err := uc.Execute(c.Request.Context(), usecase.CreateBookingInput{
		TherapistID: therapist.ID,
		OfferingID:  req.OfferingID,
		ClientName:  req.ClientName,
		ClientPhone: req.ClientPhone,
		ClientEmail: req.ClientEmail,
		Date:        date,
		Time:        req.Time,
		Notes:       req.Notes,
	})
	if err != nil {
		mapCreateErrors(c, err)
		return
	}

	c.JSON(http.StatusCreated, b)
}

////////////////////////////////////////////////////////
// REFERENCE LOOKUP
////////////////////////////////////////////////////////

func (h *PublicHandler) BookingByReference(c *gin.Context) {
	therapist, ok := h.therapistBySlug(c)
	if !ok {
		return
	}

	reference := c.Param("reference")

	repo := infraRepo.NewBookingGormRepository(h.db)
	b, err := repo.GetBookingByReference(c.Request.Context(), reference)
	if err != nil || b.TherapistID != therapist.ID {
		httperr.NotFound(c, "booking_not_found", "Booking not found.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reference":   b.Reference,
		"start_time":  b.StartTime,
		"end_time":    b.EndTime,
		"status":      b.Status,
		"client_name": b.ClientName,
		"price":       b.Price,
	})
}

////////////////////////////////////////////////////////
// ERROR MAPPING
////////////////////////////////////////////////////////

func mapOfferingErrors(c *gin.Context, err error) {
	switch {
	case httperr.IsBusiness(err, "service_not_found"):
		httperr.BadRequest(c, "service_not_found", "Service not found.")
	case httperr.IsBusiness(err, "not_owner"):
		httperr.BadRequest(c, "service_not_found", "Service not found.")
	case httperr.IsBusiness(err, "service_inactive"):
		httperr.BadRequest(c, "service_inactive", "Service is not active.")
	default:
		httperr.Internal(c, "internal_error", "Unexpected error.")
	}
}

func mapCreateErrors(c *gin.Context, err error) {
	switch {
	case httperr.IsBusiness(err, "slot_unavailable") || httperr.IsExclusionConflict(err):
		httperr.Write(c, http.StatusConflict, "slot_unavailable", "The requested slot is no longer available.")
	case httperr.IsBusiness(err, "past_booking"):
		httperr.BadRequest(c, "past_booking", "Cannot book a slot in the past.")
	case httperr.IsBusiness(err, "invalid_date_or_time"):
		httperr.BadRequest(c, "invalid_date_or_time", "Invalid date or time.")
	case httperr.IsBusiness(err, "invalid_duration"):
		httperr.BadRequest(c, "invalid_duration", "Service has no usable duration.")
	case httperr.IsBusiness(err, "service_not_found"),
		httperr.IsBusiness(err, "not_owner"):
		httperr.BadRequest(c, "service_not_found", "Service not found.")
	case httperr.IsBusiness(err, "service_inactive"):
		httperr.BadRequest(c, "service_inactive", "Service is not active.")
	default:
		httperr.Internal(c, "booking_failed", "Failed to create booking.")
	}
}
