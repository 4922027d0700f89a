package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pedram-fm/massage-app-sub000/internal/calendar"
	"github.com/pedram-fm/massage-app-sub000/internal/models"
	"github.com/pedram-fm/massage-app-sub000/internal/timezone"
)

// --------------------------------------------------
// Timezone and calendar are per-therapist concerns
// --------------------------------------------------

func locationFromTherapist(t *models.Therapist) *time.Location {
	if t != nil {
		return timezone.Location(t.Timezone)
	}
	return timezone.Location(timezone.DefaultTimezone)
}

// parseDateForTherapist reads a "yyyy-mm-dd" date query. With ?cal=jalali the
// string is interpreted in the Jalali calendar; otherwise it is a storage
// (Gregorian) date. Either way the result is midnight in the therapist's
// timezone.
func parseDateForTherapist(
	c *gin.Context,
	t *models.Therapist,
	dateStr string,
) (time.Time, error) {

	loc := locationFromTherapist(t)

	if c.Query("cal") == "jalali" {
		return calendar.ToGregorian(dateStr, loc)
	}

	return time.ParseInLocation("2006-01-02", dateStr, loc)
}
