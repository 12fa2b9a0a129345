package scheduling

import "sort"

// Strategy selects how compatible subjects are ranked before greedy
// admission.
type Strategy string

const (
	StrategyMaximizeSubjects   Strategy = "maximize_subjects"
	StrategyClearDependencies  Strategy = "clear_dependencies"
	StrategyBalancedDifficulty Strategy = "balanced_difficulty"
	StrategyInterestBased      Strategy = "interest_based"
	StrategyHighValueCredits   Strategy = "high_value_credits"
)

// DefaultStrategy is applied when a request names no strategy or an unknown
// one.
const DefaultStrategy = StrategyInterestBased

// KnownStrategies lists the selectable strategies in presentation order.
func KnownStrategies() []Strategy {
	return []Strategy{
		StrategyMaximizeSubjects,
		StrategyClearDependencies,
		StrategyBalancedDifficulty,
		StrategyInterestBased,
		StrategyHighValueCredits,
	}
}

// ParseStrategy maps a wire value onto a Strategy, falling back to the
// default for anything unrecognized.
func ParseStrategy(raw string) Strategy {
	switch Strategy(raw) {
	case StrategyMaximizeSubjects, StrategyClearDependencies, StrategyBalancedDifficulty,
		StrategyInterestBased, StrategyHighValueCredits:
		return Strategy(raw)
	default:
		return DefaultStrategy
	}
}

// Description returns a short human-readable summary for listing endpoints.
func (s Strategy) Description() string {
	switch s {
	case StrategyMaximizeSubjects:
		return "Fit as many subjects as possible by favoring short weekly hours"
	case StrategyClearDependencies:
		return "Unlock later subjects first by scheduling common prerequisites early"
	case StrategyBalancedDifficulty:
		return "Mix difficulty levels instead of stacking the hardest subjects"
	case StrategyInterestBased:
		return "Follow the student's recorded interest levels"
	case StrategyHighValueCredits:
		return "Prefer subjects worth the most credits"
	default:
		return ""
	}
}

// RankContext carries the request-scoped inputs a strategy may consult.
// Interest maps subject name to the student's recorded interest level;
// subjects without an entry rank at interest 0.
type RankContext struct {
	SubjectCount int
	Interest     map[string]int
}

// Rank orders candidates by the strategy's keys. Sorts are stable, so input
// order is the final tiebreak and identical inputs always produce identical
// output. balanced_difficulty may return fewer subjects than it was given;
// the other strategies reorder the full candidate set.
func (s Strategy) Rank(candidates []Subject, rc RankContext) []Subject {
	switch s {
	case StrategyMaximizeSubjects:
		return rankMaximizeSubjects(candidates)
	case StrategyClearDependencies:
		return rankClearDependencies(candidates)
	case StrategyBalancedDifficulty:
		return rankBalancedDifficulty(candidates, rc.SubjectCount)
	case StrategyHighValueCredits:
		return rankHighValueCredits(candidates)
	case StrategyInterestBased:
		return rankInterestBased(candidates, rc.Interest)
	default:
		return rankInterestBased(candidates, rc.Interest)
	}
}

func rankMaximizeSubjects(candidates []Subject) []Subject {
	ranked := cloneSubjects(candidates)
	sort.SliceStable(ranked, func(i, j int) bool {
		hi, hj := ranked[i].WeeklyHours(), ranked[j].WeeklyHours()
		if hi != hj {
			return hi < hj
		}
		return ranked[i].Credits > ranked[j].Credits
	})
	return ranked
}

// rankClearDependencies counts, for each candidate, how many other candidates
// name it as a prerequisite. The count is local to this run's candidate set,
// not the full catalog.
func rankClearDependencies(candidates []Subject) []Subject {
	dependents := make(map[string]int, len(candidates))
	for _, subject := range candidates {
		count := 0
		for _, other := range candidates {
			if containsName(other.Prerequisites, subject.Name) {
				count++
			}
		}
		dependents[subject.Name] = count
	}

	ranked := cloneSubjects(candidates)
	sort.SliceStable(ranked, func(i, j int) bool {
		di, dj := dependents[ranked[i].Name], dependents[ranked[j].Name]
		if di != dj {
			return di > dj
		}
		return ranked[i].Difficulty < ranked[j].Difficulty
	})
	return ranked
}

// rankBalancedDifficulty concatenates per-level groups, levels ascending,
// credits descending inside a level, taking at most subjectCount/levels + 1
// per level. The integer division is intentional and kept from the reference
// behavior; it is not a ceiling.
func rankBalancedDifficulty(candidates []Subject, subjectCount int) []Subject {
	if len(candidates) == 0 {
		return nil
	}

	groups := make(map[int][]Subject)
	for _, subject := range candidates {
		groups[subject.Difficulty] = append(groups[subject.Difficulty], subject)
	}

	levels := make([]int, 0, len(groups))
	for level := range groups {
		levels = append(levels, level)
	}
	sort.Ints(levels)

	perLevel := subjectCount/len(groups) + 1
	ranked := make([]Subject, 0, len(candidates))
	for _, level := range levels {
		group := cloneSubjects(groups[level])
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].Credits > group[j].Credits
		})
		if len(group) > perLevel {
			group = group[:perLevel]
		}
		ranked = append(ranked, group...)
	}
	return ranked
}

func rankInterestBased(candidates []Subject, interest map[string]int) []Subject {
	ranked := cloneSubjects(candidates)
	sort.SliceStable(ranked, func(i, j int) bool {
		ii, ij := interest[ranked[i].Name], interest[ranked[j].Name]
		if ii != ij {
			return ii > ij
		}
		return ranked[i].Credits > ranked[j].Credits
	})
	return ranked
}

func rankHighValueCredits(candidates []Subject) []Subject {
	ranked := cloneSubjects(candidates)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Credits != ranked[j].Credits {
			return ranked[i].Credits > ranked[j].Credits
		}
		return ranked[i].Difficulty < ranked[j].Difficulty
	})
	return ranked
}

func cloneSubjects(subjects []Subject) []Subject {
	out := make([]Subject, len(subjects))
	copy(out, subjects)
	return out
}

func containsName(names []string, target string) bool {
	for _, name := range names {
		if name == target {
			return true
		}
	}
	return false
}
