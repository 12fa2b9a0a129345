package scheduling

// SelectConflictFree admits ranked candidates in order until target subjects
// are scheduled. A candidate is rejected when any of its slots overlaps a
// slot already in use. With prioritizeDependencies set, a candidate whose
// prerequisites are not all admitted yet is skipped and never revisited, so
// the pass can under-fill even when a feasible ordering exists. Single
// greedy pass, no backtracking; admission order is the output order.
func SelectConflictFree(ranked []Subject, target int, prioritizeDependencies bool) []Subject {
	admitted := make([]Subject, 0, target)
	var used []TimeSlot

	for _, candidate := range ranked {
		if len(admitted) >= target {
			break
		}

		conflict := false
	scan:
		for _, slot := range candidate.Slots {
			for _, taken := range used {
				if slot.Overlaps(taken) {
					conflict = true
					break scan
				}
			}
		}

		if prioritizeDependencies && !prerequisitesMet(candidate, admitted) {
			continue
		}

		if !conflict {
			admitted = append(admitted, candidate)
			used = append(used, candidate.Slots...)
		}
	}
	return admitted
}

func prerequisitesMet(candidate Subject, admitted []Subject) bool {
	for _, prereq := range candidate.Prerequisites {
		found := false
		for _, subject := range admitted {
			if subject.Name == prereq {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
