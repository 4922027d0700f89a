package booking

import (
	"time"

	"github.com/pedram-fm/massage-app-sub000/internal/models"
)

type PlanSource string

const (
	PlanWeekly   PlanSource = "weekly"
	PlanOverride PlanSource = "override"
)

// DayPlan is the effective rule for one therapist/date after the override
// has been applied on top of the weekly schedule.
type DayPlan struct {
	Available bool
	Source    PlanSource

	StartTime string // "HH:mm", only when Available
	EndTime   string
	BreakMin  int
}

// ResolveDayPlan applies precedence: an override for the date always wins;
// otherwise the active weekly row governs; no rule means unavailable.
// Pure function of its inputs; pass nil for absent rows.
func ResolveDayPlan(override *models.ScheduleOverride, weekly *models.WeeklySchedule) DayPlan {
	if override != nil {
		if override.Type == models.OverrideUnavailable {
			return DayPlan{Available: false, Source: PlanOverride}
		}
		return DayPlan{
			Available: true,
			Source:    PlanOverride,
			StartTime: override.StartTime,
			EndTime:   override.EndTime,
			BreakMin:  override.BreakMin,
		}
	}

	if weekly == nil || !weekly.Active || weekly.StartTime == "" || weekly.EndTime == "" {
		return DayPlan{Available: false, Source: PlanWeekly}
	}

	return DayPlan{
		Available: true,
		Source:    PlanWeekly,
		StartTime: weekly.StartTime,
		EndTime:   weekly.EndTime,
		BreakMin:  weekly.BreakMin,
	}
}

// Window anchors the plan's working hours on the given day.
// Second return is false when the plan is unavailable or malformed.
func (p DayPlan) Window(day time.Time, loc *time.Location) (start, end time.Time, ok bool) {
	if !p.Available {
		return time.Time{}, time.Time{}, false
	}
	start, okStart := atTime(day, p.StartTime, loc)
	end, okEnd := atTime(day, p.EndTime, loc)
	if !okStart || !okEnd || !end.After(start) {
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}
