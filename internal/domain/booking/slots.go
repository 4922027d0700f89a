package booking

import "time"

// ServiceSlotSpec carries the per-service inputs of the multi-service
// generator variant.
type ServiceSlotSpec struct {
	ServiceID   uint
	DurationMin int
	BreakMin    int
}

// GenerateSlots emits the ordered candidate slots of one day.
//
// Starting at startHM it emits [cursor, cursor+duration) while the slot still
// fits before endHM, then advances cursor by duration+break. Degenerate input
// (non-positive duration, end <= start, unparseable times) yields an empty
// list, never an error. Pure and deterministic.
func GenerateSlots(day time.Time, startHM, endHM string, durationMin, breakMin int, loc *time.Location) []Slot {
	slots := []Slot{}

	if durationMin <= 0 {
		return slots
	}
	if breakMin < 0 {
		breakMin = 0
	}

	dayStart, okStart := atTime(day, startHM, loc)
	dayEnd, okEnd := atTime(day, endHM, loc)
	if !okStart || !okEnd || !dayEnd.After(dayStart) {
		return slots
	}

	duration := time.Duration(durationMin) * time.Minute
	step := duration + time.Duration(breakMin)*time.Minute

	for cursor := dayStart; !cursor.Add(duration).After(dayEnd); cursor = cursor.Add(step) {
		slots = append(slots, Slot{
			Start: cursor,
			End:   cursor.Add(duration),
		})
	}

	return slots
}

// GenerateSlotsForServices runs the generator once per service against the
// same working window, so one schedule lookup serves all offerings of a day.
func GenerateSlotsForServices(day time.Time, startHM, endHM string, specs []ServiceSlotSpec, loc *time.Location) map[uint][]Slot {
	out := make(map[uint][]Slot, len(specs))
	for _, spec := range specs {
		out[spec.ServiceID] = GenerateSlots(day, startHM, endHM, spec.DurationMin, spec.BreakMin, loc)
	}
	return out
}

// atTime anchors an "HH:mm" string on the given day.
func atTime(day time.Time, hm string, loc *time.Location) (time.Time, bool) {
	t, err := time.Parse("15:04", hm)
	if err != nil {
		return time.Time{}, false
	}
	return time.Date(
		day.Year(), day.Month(), day.Day(),
		t.Hour(), t.Minute(), 0, 0,
		loc,
	), true
}
