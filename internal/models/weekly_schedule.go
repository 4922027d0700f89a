package models

import "time"

// WeeklySchedule is the recurring availability rule for one weekday.
// Several rows may exist for the same weekday over time; the active one governs.
type WeeklySchedule struct {
	ID          uint `gorm:"primaryKey" json:"id"`
	TherapistID uint `gorm:"index" json:"therapist_id"`

	Weekday int `json:"weekday"` // 0 = Sunday … 6 = Saturday

	StartTime string `json:"start_time"` // "HH:mm"
	EndTime   string `json:"end_time"`
	BreakMin  int    `json:"break_min"`
	Active    bool   `json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
