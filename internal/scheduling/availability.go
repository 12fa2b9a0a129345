package scheduling

// TimeWindow is one open interval in a student's day.
type TimeWindow struct {
	Start ClockTime `json:"start_time"`
	End   ClockTime `json:"end_time"`
}

// Contains reports whether the window fully covers a meeting slot's times.
func (w TimeWindow) Contains(slot TimeSlot) bool {
	return w.Start <= slot.Start && w.End >= slot.End
}

// DayAvailability is a student's openness on a single day.
type DayAvailability struct {
	Day       Weekday      `json:"day"`
	Available bool         `json:"available"`
	Windows   []TimeWindow `json:"time_slots"`
}

// FilterCompatible keeps subjects whose every meeting slot lands on an
// available day inside at least one window there. Subjects without parsed
// slots pass vacuously. Input order is preserved.
func FilterCompatible(subjects []Subject, availability []DayAvailability) []Subject {
	open := make(map[Weekday]DayAvailability, len(availability))
	for _, day := range availability {
		if day.Available {
			open[day.Day] = day
		}
	}

	compatible := make([]Subject, 0, len(subjects))
	for _, subject := range subjects {
		if subjectFits(subject, open) {
			compatible = append(compatible, subject)
		}
	}
	return compatible
}

func subjectFits(subject Subject, open map[Weekday]DayAvailability) bool {
	for _, slot := range subject.Slots {
		day, ok := open[slot.Day]
		if !ok {
			return false
		}
		fits := false
		for _, window := range day.Windows {
			if window.Contains(slot) {
				fits = true
				break
			}
		}
		if !fits {
			return false
		}
	}
	return true
}
