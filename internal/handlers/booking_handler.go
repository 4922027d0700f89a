package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pedram-fm/massage-app-sub000/internal/audit"
	"github.com/pedram-fm/massage-app-sub000/internal/cache"
	"github.com/pedram-fm/massage-app-sub000/internal/httperr"
	"github.com/pedram-fm/massage-app-sub000/internal/httpresp"
	infraRepo "github.com/pedram-fm/massage-app-sub000/internal/infra/repository"
	"github.com/pedram-fm/massage-app-sub000/internal/models"
	usecase "github.com/pedram-fm/massage-app-sub000/internal/usecase/booking"
)

// ======================================================
// HANDLER
// ======================================================

type BookingHandler struct {
	db    *gorm.DB
	cache *cache.Availability
	audit *audit.Dispatcher
}

func NewBookingHandler(db *gorm.DB, c *cache.Availability, dispatcher *audit.Dispatcher) *BookingHandler {
	return &BookingHandler{
		db:    db,
		cache: c,
		audit: dispatcher,
	}
}

func (h *BookingHandler) therapist(c *gin.Context, therapistID uint) (*models.Therapist, bool) {
	var therapist models.Therapist
	if err := h.db.First(&therapist, therapistID).Error; err != nil {
		httperr.Internal(c, "therapist_not_found", "Therapist not found.")
		return nil, false
	}
	return &therapist, true
}

// ======================================================
// DTOs
// ======================================================

type PrivateCreateBookingRequest struct {
	ClientName  string `json:"client_name" binding:"required"`
	ClientPhone string `json:"client_phone"`
	ClientEmail string `json:"client_email"`
	OfferingID  uint   `json:"offering_id" binding:"required"`
	Date        string `json:"date" binding:"required"` // YYYY-MM-DD
	Time        string `json:"time" binding:"required"` // HH:mm
	Notes       string `json:"notes"`
}

type CancelBookingRequest struct {
	Reason string `json:"reason"`
}

// ======================================================
// LISTING
// ======================================================

func (h *BookingHandler) ListByDate(c *gin.Context) {
	therapistID, ok := therapistIDFromContext(c)
	if !ok {
		return
	}
	therapist, ok := h.therapist(c, therapistID)
	if !ok {
		return
	}

	date, err := parseDateForTherapist(c, therapist, c.Query("date"))
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Invalid date.")
		return
	}

	repo := infraRepo.NewBookingGormRepository(h.db)
	uc := usecase.NewListBookingsByDate(repo)

	bookings, err := uc.Execute(c.Request.Context(), therapistID, date)
	if err != nil {
		httperr.Internal(c, "failed_to_list_bookings", "Failed to list bookings.")
		return
	}

	httpresp.List(c, bookings)
}

func (h *BookingHandler) ListByMonth(c *gin.Context) {
	therapistID, ok := therapistIDFromContext(c)
	if !ok {
		return
	}

	year, errY := strconv.Atoi(c.Query("year"))
	month, errM := strconv.Atoi(c.Query("month"))
	if errY != nil || errM != nil {
		httperr.BadRequest(c, "invalid_params", "Query params 'year' and 'month' are required.")
		return
	}

	repo := infraRepo.NewBookingGormRepository(h.db)
	uc := usecase.NewListBookingsByMonth(repo)

	bookings, err := uc.Execute(c.Request.Context(), therapistID, year, month)
	if err != nil {
		if httperr.IsBusiness(err, "invalid_month") {
			httperr.BadRequest(c, "invalid_month", "Month must be between 1 and 12.")
			return
		}
		httperr.Internal(c, "failed_to_list_bookings", "Failed to list bookings.")
		return
	}

	httpresp.List(c, bookings)
}

// ======================================================
// GAPS
// ======================================================

func (h *BookingHandler) Gaps(c *gin.Context) {
	therapistID, ok := therapistIDFromContext(c)
	if !ok {
		return
	}
	therapist, ok := h.therapist(c, therapistID)
	if !ok {
		return
	}

	date, err := parseDateForTherapist(c, therapist, c.Query("date"))
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Invalid date.")
		return
	}

	repo := infraRepo.NewBookingGormRepository(h.db)
	uc := usecase.NewGetFreeGaps(repo)

	gaps, err := uc.Execute(c.Request.Context(), therapistID, date)
	if err != nil {
		httperr.Internal(c, "failed_to_compute_gaps", "Failed to compute free gaps.")
		return
	}

	c.JSON(http.StatusOK, gaps)
}

// ======================================================
// CREATE
// ======================================================

// Create books a slot on the therapist's own behalf, e.g. for a phone client.
// Same transaction and same validation as the public path.
func (h *BookingHandler) Create(c *gin.Context) {
	therapistID, ok := therapistIDFromContext(c)
	if !ok {
		return
	}

	var req PrivateCreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	repo := infraRepo.NewBookingGormRepository(h.db)
	uc := usecase.NewCreateBooking(repo, h.cache, h.audit)

	b, err := uc.Execute(c.Request.Context(), usecase.CreateBookingInput{
		TherapistID: therapistID,
		OfferingID:  req.OfferingID,
		ClientName:  req.ClientName,
		ClientPhone: req.ClientPhone,
		ClientEmail: req.ClientEmail,
		Date:        req.Date,
		Time:        req.Time,
		Notes:       req.Notes,
	})
	if err != nil {
		mapCreateErrors(c, err)
		return
	}

	c.JSON(http.StatusCreated, b)
}

// ======================================================
// STATUS TRANSITIONS
// ======================================================

func (h *BookingHandler) bookingID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_booking_id", "Invalid booking id.")
		return 0, false
	}
	return uint(id), true
}

func mapTransitionErrors(c *gin.Context, err error) {
	switch {
	case httperr.IsBusiness(err, "booking_not_found"):
		httperr.NotFound(c, "booking_not_found", "Booking not found.")
	case httperr.IsBusiness(err, "invalid_state"):
		httperr.BadRequest(c, "invalid_state", "Booking is not in a state that allows this action.")
	default:
		httperr.Internal(c, "booking_update_failed", "Failed to update booking.")
	}
}

func (h *BookingHandler) Cancel(c *gin.Context) {
	therapistID, ok := therapistIDFromContext(c)
	if !ok {
		return
	}
	bookingID, ok := h.bookingID(c)
	if !ok {
		return
	}

	var req CancelBookingRequest
	_ = c.ShouldBindJSON(&req)

	repo := infraRepo.NewBookingGormRepository(h.db)
	uc := usecase.NewCancelBooking(repo, h.cache, h.audit)

	b, err := uc.Execute(c.Request.Context(), therapistID, bookingID, req.Reason)
	if err != nil {
		mapTransitionErrors(c, err)
		return
	}

	c.JSON(http.StatusOK, b)
}

func (h *BookingHandler) Complete(c *gin.Context) {
	therapistID, ok := therapistIDFromContext(c)
	if !ok {
		return
	}
	bookingID, ok := h.bookingID(c)
	if !ok {
		return
	}

	repo := infraRepo.NewBookingGormRepository(h.db)
	uc := usecase.NewCompleteBooking(repo, h.audit)

	b, err := uc.Execute(c.Request.Context(), therapistID, bookingID)
	if err != nil {
		mapTransitionErrors(c, err)
		return
	}

	c.JSON(http.StatusOK, b)
}

func (h *BookingHandler) NoShow(c *gin.Context) {
	therapistID, ok := therapistIDFromContext(c)
	if !ok {
		return
	}
	bookingID, ok := h.bookingID(c)
	if !ok {
		return
	}

	repo := infraRepo.NewBookingGormRepository(h.db)
	uc := usecase.NewMarkNoShow(repo, h.audit)

	b, err := uc.Execute(c.Request.Context(), therapistID, bookingID)
	if err != nil {
		mapTransitionErrors(c, err)
		return
	}

	c.JSON(http.StatusOK, b)
}
