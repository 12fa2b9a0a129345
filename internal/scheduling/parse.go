package scheduling

import "strings"

// ParseScheduleText turns a stored meeting-time expression such as
// "Mon 09:00-11:00, Wed 14:00-16:00" into time slots. Segments that cannot be
// parsed are skipped and returned in the second value so the caller can log
// them; a partial schedule beats failing the whole subject.
func ParseScheduleText(text string) ([]TimeSlot, []string) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	var slots []TimeSlot
	var skipped []string
	for _, segment := range strings.Split(text, ",") {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			continue
		}
		slot, ok := parseScheduleSegment(segment)
		if !ok {
			skipped = append(skipped, segment)
			continue
		}
		slots = append(slots, slot)
	}
	return slots, skipped
}

// parseScheduleSegment parses a single "<day> <start>-<end>" token. Trailing
// fields beyond the time range are ignored.
func parseScheduleSegment(segment string) (TimeSlot, bool) {
	fields := strings.Fields(segment)
	if len(fields) < 2 {
		return TimeSlot{}, false
	}
	bounds := strings.Split(fields[1], "-")
	if len(bounds) != 2 {
		return TimeSlot{}, false
	}
	start, err := ParseClockTime(bounds[0])
	if err != nil {
		return TimeSlot{}, false
	}
	end, err := ParseClockTime(bounds[1])
	if err != nil {
		return TimeSlot{}, false
	}
	return TimeSlot{Day: ParseWeekday(fields[0]), Start: start, End: end}, true
}

// ParsePrerequisites splits a stored prerequisite expression into subject
// names. The first delimiter found among "," ";" "|" wins; with none present
// the whole trimmed string is the single prerequisite. Empty input yields nil.
func ParsePrerequisites(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	parts := []string{raw}
	for _, delimiter := range []string{",", ";", "|"} {
		if strings.Contains(raw, delimiter) {
			parts = strings.Split(raw, delimiter)
			break
		}
	}

	names := make([]string, 0, len(parts))
	for _, part := range parts {
		if name := strings.TrimSpace(part); name != "" {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return nil
	}
	return names
}
