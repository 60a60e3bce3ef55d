package round

import (
	"fmt"
	"time"
)

// The lifecycle of a WeeklyRound is one-way:
//
//	(absent) -> declared -> submitted+locked
//
// Submission locks the round by policy; only a commissioner edit can change
// the scores afterwards, and nothing ever un-submits or un-locks.

// NewDeclared creates a freshly declared round with nine zero-stroke
// placeholders. Callers are responsible for the active-week guard and for
// not overwriting an existing round for the same (player, week).
func NewDeclared(playerID string, weekNumber int, now time.Time) WeeklyRound {
	scores := make([]HoleScore, HolesPerRound)
	for i := range scores {
		scores[i] = HoleScore{HoleNumber: i + 1}
	}

	return WeeklyRound{
		ID:         ID(playerID, weekNumber),
		PlayerID:   playerID,
		Week:       weekNumber,
		Declared:   true,
		DeclaredAt: now,
		HoleScores: scores,
	}
}

// Submit records the final scorecard. Every hole needs at least one stroke;
// resubmission is rejected, only commissioners edit after the fact.
func Submit(r WeeklyRound, scores []HoleScore, photoURL string, now time.Time) (WeeklyRound, error) {
	if !r.Declared {
		return WeeklyRound{}, ErrNotDeclared
	}
	if r.Submitted {
		return WeeklyRound{}, ErrAlreadySubmitted
	}
	if err := ValidateScorecard(scores, 1); err != nil {
		return WeeklyRound{}, err
	}

	r.HoleScores = cloneScores(scores)
	r.TotalScore = Total(scores)
	r.Submitted = true
	r.SubmittedAt = now
	r.Locked = true
	if photoURL != "" {
		r.PhotoURL = photoURL
	}

	return r, nil
}

// Edit replaces the scorecard of a submitted round and recomputes the total.
// Zero strokes are permitted so a commissioner can erase a hole while
// resolving a dispute. Flags, timestamps, and the photo stay untouched.
func Edit(r WeeklyRound, scores []HoleScore) (WeeklyRound, error) {
	if !r.Submitted {
		return WeeklyRound{}, ErrNotSubmitted
	}
	if err := ValidateScorecard(scores, 0); err != nil {
		return WeeklyRound{}, err
	}

	r.HoleScores = cloneScores(scores)
	r.TotalScore = Total(scores)

	return r, nil
}

// Lock marks a submitted round as final. Idempotent.
func Lock(r WeeklyRound) (WeeklyRound, error) {
	if !r.Submitted {
		return WeeklyRound{}, ErrNotSubmitted
	}
	r.Locked = true

	return r, nil
}

// ValidateScorecard checks that scores covers holes 1..9 in order with
// strokes in [minStrokes, MaxStrokesPerHole].
func ValidateScorecard(scores []HoleScore, minStrokes int) error {
	if len(scores) != HolesPerRound {
		return fmt.Errorf("%w: expected %d holes, got %d", ErrInvalidScorecard, HolesPerRound, len(scores))
	}

	for i, s := range scores {
		if s.HoleNumber != i+1 {
			return fmt.Errorf("%w: hole %d out of sequence at position %d", ErrInvalidScorecard, s.HoleNumber, i+1)
		}
		if s.Strokes < minStrokes || s.Strokes > MaxStrokesPerHole {
			return fmt.Errorf("%w: hole %d strokes must be between %d and %d", ErrInvalidScorecard, s.HoleNumber, minStrokes, MaxStrokesPerHole)
		}
	}

	return nil
}

func cloneScores(scores []HoleScore) []HoleScore {
	out := make([]HoleScore, len(scores))
	copy(out, scores)
	return out
}
