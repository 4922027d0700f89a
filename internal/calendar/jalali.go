// Package calendar converts between the Jalali calendar shown to clients and
// the Gregorian timestamps everything is stored and compared in.
package calendar

import (
	"fmt"
	"time"

	ptime "github.com/yaa110/go-persian-calendar"
)

// ToJalali renders a storage-calendar date as "yyyy-mm-dd" in the Jalali
// calendar.
func ToJalali(t time.Time) string {
	pt := ptime.New(t)
	return fmt.Sprintf("%04d-%02d-%02d", pt.Year(), int(pt.Month()), pt.Day())
}

// ToGregorian parses a Jalali "yyyy-mm-dd" string into midnight of the
// corresponding Gregorian day in loc.
func ToGregorian(jalali string, loc *time.Location) (time.Time, error) {
	var year, month, day int
	if _, err := fmt.Sscanf(jalali, "%d-%d-%d", &year, &month, &day); err != nil {
		return time.Time{}, fmt.Errorf("invalid jalali date %q: %w", jalali, err)
	}
	if year < 1 || month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, fmt.Errorf("invalid jalali date %q", jalali)
	}

	pt := ptime.Date(year, ptime.Month(month), day, 0, 0, 0, 0, loc)
	g := pt.Time()

	// ptime normalizes out-of-range days (e.g. Esfand 31 in a common year)
	// instead of failing; round-trip to reject them.
	back := ptime.New(g)
	if back.Year() != year || int(back.Month()) != month || back.Day() != day {
		return time.Time{}, fmt.Errorf("invalid jalali date %q", jalali)
	}

	return time.Date(g.Year(), g.Month(), g.Day(), 0, 0, 0, 0, loc), nil
}
