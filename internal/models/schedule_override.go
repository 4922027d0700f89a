package models

import "time"

const (
	OverrideUnavailable = "unavailable"
	OverrideCustomHours = "custom_hours"
)

// ScheduleOverride is a single-date exception. When present it always wins
// over the weekly rule for that date. At most one per (therapist, date).
type ScheduleOverride struct {
	ID          uint `gorm:"primaryKey" json:"id"`
	TherapistID uint `gorm:"uniqueIndex:idx_therapist_override_date" json:"therapist_id"`

	Date time.Time `gorm:"uniqueIndex:idx_therapist_override_date" json:"date"` // midnight in therapist tz

	Type string `gorm:"size:20;not null" json:"type"` // unavailable | custom_hours

	StartTime string `json:"start_time"` // custom_hours only
	EndTime   string `json:"end_time"`
	BreakMin  int    `json:"break_min"`
	Reason    string `gorm:"size:255" json:"reason"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
