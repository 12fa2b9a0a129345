package scheduling

import (
	"fmt"
	"strconv"
	"strings"
)

// Weekday is a normalized day name. The seven canonical constants cover the
// schedule grammar; ParseWeekday may return a non-canonical value for input it
// cannot map, which then never matches an availability entry.
type Weekday string

const (
	Monday    Weekday = "Monday"
	Tuesday   Weekday = "Tuesday"
	Wednesday Weekday = "Wednesday"
	Thursday  Weekday = "Thursday"
	Friday    Weekday = "Friday"
	Saturday  Weekday = "Saturday"
	Sunday    Weekday = "Sunday"
)

var weekdayAliases = map[string]Weekday{
	"mon": Monday, "monday": Monday,
	"tue": Tuesday, "tuesday": Tuesday,
	"wed": Wednesday, "wednesday": Wednesday,
	"thu": Thursday, "thursday": Thursday,
	"fri": Friday, "friday": Friday,
	"sat": Saturday, "saturday": Saturday,
	"sun": Sunday, "sunday": Sunday,
}

// Weekdays lists the canonical days in calendar order.
func Weekdays() []Weekday {
	return []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}
}

// ParseWeekday maps common day spellings onto a canonical Weekday. Unrecognized
// input is title-cased and returned as-is rather than rejected; such a value
// fails every availability lookup downstream.
func ParseWeekday(raw string) Weekday {
	if day, ok := weekdayAliases[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return day
	}
	return Weekday(titleCase(strings.TrimSpace(raw)))
}

// IsCanonical reports whether the value is one of the seven day constants.
func (d Weekday) IsCanonical() bool {
	_, ok := weekdayAliases[strings.ToLower(string(d))]
	return ok
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}

// ClockTime is a time of day stored as minutes since midnight. It marshals as
// "HH:MM" to stay compatible with the catalog's schedule text.
type ClockTime int

// ParseClockTime parses "HH:MM" or "H:MM" 24-hour notation.
func ParseClockTime(raw string) (ClockTime, error) {
	parts := strings.SplitN(strings.TrimSpace(raw), ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time %q", raw)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, fmt.Errorf("invalid hour in %q", raw)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("invalid minute in %q", raw)
	}
	return ClockTime(hour*60 + minute), nil
}

// MustClockTime is a test and seed helper that panics on malformed input.
func MustClockTime(raw string) ClockTime {
	t, err := ParseClockTime(raw)
	if err != nil {
		panic(err)
	}
	return t
}

func (t ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

// MarshalJSON renders the time as a quoted "HH:MM" string.
func (t ClockTime) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(t.String())), nil
}

// UnmarshalJSON accepts a quoted "HH:MM" string.
func (t *ClockTime) UnmarshalJSON(data []byte) error {
	raw, err := strconv.Unquote(string(data))
	if err != nil {
		return fmt.Errorf("clock time must be a string: %w", err)
	}
	parsed, err := ParseClockTime(raw)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// TimeSlot is one weekly meeting block of a subject, or one availability
// window of a student.
type TimeSlot struct {
	Day   Weekday   `json:"day"`
	Start ClockTime `json:"start_time"`
	End   ClockTime `json:"end_time"`
}

// Overlaps reports whether two slots share any time on the same day. Slots
// that merely touch at an endpoint do not overlap. The relation is symmetric.
func (s TimeSlot) Overlaps(other TimeSlot) bool {
	if s.Day != other.Day {
		return false
	}
	return !(s.End <= other.Start || s.Start >= other.End)
}

// Duration returns the slot length in hours.
func (s TimeSlot) Duration() float64 {
	return float64(s.End-s.Start) / 60
}

func (s TimeSlot) String() string {
	return fmt.Sprintf("%s %s-%s", s.Day, s.Start, s.End)
}
