package round

// Pure scoring helpers over round sets. A "missed" week is a week in
// [1, totalWeeks] without a submitted round; it costs MissedRoundPenalty
// strokes in season totals.

// Total sums the strokes of a scorecard. Callers supply well-formed
// sequences; no validation happens here.
func Total(scores []HoleScore) int {
	sum := 0
	for _, s := range scores {
		sum += s.Strokes
	}
	return sum
}

// SeasonTotal adds up one player's season: the submitted total per week, or
// the missed-round penalty for weeks without a submitted round.
func SeasonTotal(rounds []WeeklyRound, totalWeeks int) int {
	total := 0
	for w := 1; w <= totalWeeks; w++ {
		if r := submittedForWeek(rounds, w); r != nil {
			total += r.TotalScore
		} else {
			total += MissedRoundPenalty
		}
	}
	return total
}

// CountMissedWeeks counts weeks in [1, totalWeeks] without a submitted round.
func CountMissedWeeks(rounds []WeeklyRound, totalWeeks int) int {
	missed := 0
	for w := 1; w <= totalWeeks; w++ {
		if submittedForWeek(rounds, w) == nil {
			missed++
		}
	}
	return missed
}

// WeeklyScores lays one player's season out as a fixed-length row: position
// i holds the submitted total for week i+1, or nil when that week is missed.
func WeeklyScores(rounds []WeeklyRound) []*int {
	out := make([]*int, TotalWeeks)
	for w := 1; w <= TotalWeeks; w++ {
		if r := submittedForWeek(rounds, w); r != nil {
			score := r.TotalScore
			out[w-1] = &score
		}
	}
	return out
}

// IsDisqualified reports whether a player has missed too many weeks.
// Strictly more than DisqualificationMissedWeeks misses disqualifies:
// three misses keeps a player in, four does not.
func IsDisqualified(rounds []WeeklyRound) bool {
	return CountMissedWeeks(rounds, TotalWeeks) > DisqualificationMissedWeeks
}

func submittedForWeek(rounds []WeeklyRound, weekNumber int) *WeeklyRound {
	for i := range rounds {
		if rounds[i].Week == weekNumber && rounds[i].Submitted {
			return &rounds[i]
		}
	}
	return nil
}
