package scheduling

import (
	"fmt"
	"math"
)

// Analysis summarizes a finished schedule for the student.
type Analysis struct {
	TotalSubjects          int            `json:"total_subjects"`
	TotalCredits           int            `json:"total_credits"`
	TotalHours             float64        `json:"total_hours"`
	AverageDifficulty      float64        `json:"average_difficulty"`
	DifficultyDistribution map[int]int    `json:"difficulty_distribution"`
	CategoryDistribution   map[string]int `json:"category_distribution"`
	ScheduleEfficiency     float64        `json:"schedule_efficiency"`
	Warnings               []string       `json:"warnings"`
	Recommendations        []string       `json:"recommendations"`
}

const (
	maxWeeklyHours    = 40
	highDifficultyBar = 4
)

// Analyze computes totals, distributions, and advisory messages for the
// admitted schedule against the requested subject count.
func Analyze(schedule []Subject, requested int) Analysis {
	if len(schedule) == 0 {
		return Analysis{
			DifficultyDistribution: map[int]int{},
			CategoryDistribution:   map[string]int{},
			Warnings:               []string{"No subjects could be scheduled with current constraints"},
			Recommendations:        []string{},
		}
	}

	analysis := Analysis{
		TotalSubjects:          len(schedule),
		DifficultyDistribution: map[int]int{},
		CategoryDistribution:   map[string]int{},
		Warnings:               []string{},
		Recommendations:        []string{},
	}

	var totalHours, totalDifficulty float64
	for _, subject := range schedule {
		analysis.TotalCredits += subject.Credits
		totalHours += subject.WeeklyHours()
		totalDifficulty += float64(subject.Difficulty)
		analysis.DifficultyDistribution[subject.Difficulty]++
		analysis.CategoryDistribution[subject.Category]++
	}
	averageDifficulty := totalDifficulty / float64(len(schedule))
	analysis.TotalHours = round1(totalHours)
	analysis.AverageDifficulty = round1(averageDifficulty)

	if analysis.TotalSubjects < requested {
		analysis.Warnings = append(analysis.Warnings,
			fmt.Sprintf("Only %d subjects scheduled out of requested %d", analysis.TotalSubjects, requested))
	}
	if totalHours > maxWeeklyHours {
		analysis.Warnings = append(analysis.Warnings,
			"Schedule exceeds 40 hours per week - consider reducing subjects")
	}
	if averageDifficulty > highDifficultyBar {
		analysis.Warnings = append(analysis.Warnings,
			"High average difficulty level - ensure adequate study time")
	}
	if len(analysis.CategoryDistribution) < 2 {
		analysis.Recommendations = append(analysis.Recommendations,
			"Consider adding subjects from different categories for a balanced curriculum")
	}

	if requested > 0 {
		analysis.ScheduleEfficiency = round1(float64(analysis.TotalSubjects) / float64(requested) * 100)
	}
	return analysis
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
