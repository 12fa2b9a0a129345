package scheduling

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAnalyzeEmptySchedule(t *testing.T) {
	analysis := Analyze(nil, 5)

	require.Zero(t, analysis.TotalSubjects)
	require.Zero(t, analysis.TotalCredits)
	require.Zero(t, analysis.TotalHours)
	require.Empty(t, analysis.DifficultyDistribution)
	require.Empty(t, analysis.CategoryDistribution)
	require.Equal(t, []string{"No subjects could be scheduled with current constraints"}, analysis.Warnings)
}

func TestAnalyzeTotalsAndDistributions(t *testing.T) {
	schedule := []Subject{
		{Name: "Calculus I", Category: "Mathematics", Credits: 4, Difficulty: 3,
			Slots: []TimeSlot{slot(Monday, "09:00", "11:00"), slot(Wednesday, "09:00", "10:30")}},
		{Name: "Physics I", Category: "Science", Credits: 3, Difficulty: 4,
			Slots: []TimeSlot{slot(Tuesday, "14:00", "16:00")}},
	}

	analysis := Analyze(schedule, 5)

	require.Equal(t, 2, analysis.TotalSubjects)
	require.Equal(t, 7, analysis.TotalCredits)
	require.Equal(t, 5.5, analysis.TotalHours)
	require.Equal(t, 3.5, analysis.AverageDifficulty)
	require.Equal(t, map[int]int{3: 1, 4: 1}, analysis.DifficultyDistribution)
	require.Equal(t, map[string]int{"Mathematics": 1, "Science": 1}, analysis.CategoryDistribution)
	require.Equal(t, 40.0, analysis.ScheduleEfficiency)
	require.Contains(t, analysis.Warnings, "Only 2 subjects scheduled out of requested 5")
	require.Empty(t, analysis.Recommendations)
}

func heavySchedule(hours int) []Subject {
	// One two-hour slot per weekday pattern, repeated until the requested
	// weekly volume is reached.
	var schedule []Subject
	days := Weekdays()
	for hours > 0 {
		block := 2
		if hours == 1 {
			block = 1
		}
		day := days[len(schedule)%len(days)]
		start := ClockTime(8*60 + (len(schedule)/len(days))*3*60)
		schedule = append(schedule, Subject{
			Name:       string(rune('A' + len(schedule))),
			Category:   "General",
			Credits:    3,
			Difficulty: 3,
			Slots:      []TimeSlot{{Day: day, Start: start, End: start + ClockTime(block*60)}},
		})
		hours -= block
	}
	return schedule
}

func TestAnalyzeOverloadWarning(t *testing.T) {
	over := Analyze(heavySchedule(41), 50)
	require.Contains(t, over.Warnings, "Schedule exceeds 40 hours per week - consider reducing subjects")

	under := Analyze(heavySchedule(39), 50)
	require.NotContains(t, under.Warnings, "Schedule exceeds 40 hours per week - consider reducing subjects")

	exact := Analyze(heavySchedule(40), 50)
	require.NotContains(t, exact.Warnings, "Schedule exceeds 40 hours per week - consider reducing subjects")
}

func TestAnalyzeHighDifficultyWarning(t *testing.T) {
	hard := Analyze([]Subject{
		{Name: "A", Category: "X", Difficulty: 5},
		{Name: "B", Category: "Y", Difficulty: 5},
	}, 2)
	require.Contains(t, hard.Warnings, "High average difficulty level - ensure adequate study time")

	easier := Analyze([]Subject{
		{Name: "A", Category: "X", Difficulty: 4},
		{Name: "B", Category: "Y", Difficulty: 4},
	}, 2)
	require.NotContains(t, easier.Warnings, "High average difficulty level - ensure adequate study time")
}

func TestAnalyzeCategoryRecommendation(t *testing.T) {
	single := Analyze([]Subject{
		{Name: "A", Category: "Mathematics", Difficulty: 2},
		{Name: "B", Category: "Mathematics", Difficulty: 2},
	}, 2)
	require.Equal(t, []string{"Consider adding subjects from different categories for a balanced curriculum"}, single.Recommendations)

	mixed := Analyze([]Subject{
		{Name: "A", Category: "Mathematics", Difficulty: 2},
		{Name: "B", Category: "Science", Difficulty: 2},
	}, 2)
	require.Empty(t, mixed.Recommendations)
}

func TestAnalyzeScheduleEfficiency(t *testing.T) {
	analysis := Analyze([]Subject{
		{Name: "A", Category: "X", Difficulty: 1},
		{Name: "B", Category: "Y", Difficulty: 1},
		{Name: "C", Category: "Z", Difficulty: 1},
	}, 4)
	require.Equal(t, 75.0, analysis.ScheduleEfficiency)
}
