package models

import "time"

// TherapistService is a therapist's offering of a catalog service.
// At most one offering per (therapist, service).
type TherapistService struct {
	ID uint `gorm:"primaryKey" json:"id"`

	TherapistID uint `gorm:"uniqueIndex:idx_therapist_service" json:"therapist_id"`

	ServiceID uint    `gorm:"uniqueIndex:idx_therapist_service" json:"service_id"`
	Service   Service `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"service"`

	DurationMin *int     `json:"duration_min"`
	Price       *float64 `json:"price"`
	Active      bool     `gorm:"default:true" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// EffectiveDuration falls back to the catalog default when the offering
// carries no override.
func (ts *TherapistService) EffectiveDuration() int {
	if ts.DurationMin != nil && *ts.DurationMin > 0 {
		return *ts.DurationMin
	}
	return ts.Service.DurationMin
}

func (ts *TherapistService) EffectivePrice() float64 {
	if ts.Price != nil {
		return *ts.Price
	}
	return ts.Service.Price
}
