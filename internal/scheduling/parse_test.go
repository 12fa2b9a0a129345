package scheduling

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseScheduleText(t *testing.T) {
	slots, skipped := ParseScheduleText("Mon 09:00-11:00, Wed 14:00-16:00")
	require.Empty(t, skipped)
	require.Equal(t, []TimeSlot{
		slot(Monday, "09:00", "11:00"),
		slot(Wednesday, "14:00", "16:00"),
	}, slots)
}

func TestParseScheduleTextSkipsMalformedSegments(t *testing.T) {
	cases := []struct {
		name    string
		input   string
		want    []TimeSlot
		skipped int
	}{
		{"missing time range", "Mon, Wed 14:00-16:00", []TimeSlot{slot(Wednesday, "14:00", "16:00")}, 1},
		{"no dash", "Mon 09:00 11:00, Fri 08:00-10:00", []TimeSlot{slot(Friday, "08:00", "10:00")}, 1},
		{"double dash", "Mon 09:00-11:00-12:00, Tue 10:00-12:00", []TimeSlot{slot(Tuesday, "10:00", "12:00")}, 1},
		{"bad clock value", "Mon 9h-11h, Tue 10:00-12:00", []TimeSlot{slot(Tuesday, "10:00", "12:00")}, 1},
		{"blank segments", "Mon 09:00-11:00, , ", []TimeSlot{slot(Monday, "09:00", "11:00")}, 0},
		{"extra tokens ignored", "Mon 09:00-11:00 room 12", []TimeSlot{slot(Monday, "09:00", "11:00")}, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			slots, skipped := ParseScheduleText(tc.input)
			require.Equal(t, tc.want, slots)
			require.Len(t, skipped, tc.skipped)
		})
	}
}

func TestParseScheduleTextEmpty(t *testing.T) {
	slots, skipped := ParseScheduleText("   ")
	require.Nil(t, slots)
	require.Nil(t, skipped)
}

func TestParsePrerequisites(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty", "", nil},
		{"blank", "   ", nil},
		{"single", "Calculus I", []string{"Calculus I"}},
		{"comma", "Calculus I, Physics I", []string{"Calculus I", "Physics I"}},
		{"semicolon", "Calculus I; Physics I", []string{"Calculus I", "Physics I"}},
		{"pipe", "Calculus I|Physics I", []string{"Calculus I", "Physics I"}},
		{"first delimiter wins", "Calculus I, Physics I; Chemistry", []string{"Calculus I", "Physics I; Chemistry"}},
		{"drops empty parts", "Calculus I,,Physics I, ", []string{"Calculus I", "Physics I"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, ParsePrerequisites(tc.input))
		})
	}
}
