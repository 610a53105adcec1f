package trainers

import (
	"slices"
	"strings"

	"github.com/md-rashed-zaman/gymdesk/services/gym-service/internal/model"
)

// ParseSchedule turns free text such as
//
//	Monday: Morning, Evening
//	Saturday: Afternoon
//
// into availability in week order. Unknown days and slots are ignored, a
// later line for the same day replaces an earlier one, and days left without
// slots are dropped.
func ParseSchedule(schedule string) []model.DayAvailability {
	byDay := make(map[string][]string, len(model.Weekdays))
	for _, line := range strings.Split(schedule, "\n") {
		parts := strings.Split(line, ":")
		if len(parts) != 2 {
			continue
		}
		day := strings.TrimSpace(parts[0])
		if !slices.Contains(model.Weekdays, day) {
			continue
		}
		var slots []string
		for _, s := range strings.Split(parts[1], ",") {
			s = strings.TrimSpace(s)
			if slices.Contains(model.TimeSlots, s) && !slices.Contains(slots, s) {
				slots = append(slots, s)
			}
		}
		byDay[day] = slots
	}

	out := []model.DayAvailability{}
	for _, day := range model.Weekdays {
		if slots := byDay[day]; len(slots) > 0 {
			out = append(out, model.DayAvailability{Day: day, Slots: slots})
		}
	}
	return out
}
