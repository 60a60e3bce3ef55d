package round

import (
	"errors"
	"fmt"
	"time"
)

const (
	// TotalWeeks is the fixed length of a season.
	TotalWeeks = 6
	// HolesPerRound is the number of holes on a scorecard.
	HolesPerRound = 9
	// MaxStrokesPerHole caps a single hole entry.
	MaxStrokesPerHole = 20
	// MissedRoundPenalty is added to the season total for every week
	// without a submitted round.
	MissedRoundPenalty = 63
	// DisqualificationMissedWeeks is the strict lower bound for DQ:
	// a player is disqualified only with more misses than this.
	DisqualificationMissedWeeks = 3
)

var (
	ErrNotDeclared      = errors.New("round has not been declared")
	ErrAlreadySubmitted = errors.New("round has already been submitted")
	ErrNotSubmitted     = errors.New("round has not been submitted")
	ErrInvalidScorecard = errors.New("invalid scorecard")
	ErrWeekNotActive    = errors.New("week has not been opened")
	ErrInvalidWeek      = errors.New("week is out of range")
)

// HoleScore is a single scorecard line.
type HoleScore struct {
	HoleNumber int
	Strokes    int
}

// WeeklyRound is one player's record for one week. At most one round exists
// per (PlayerID, Week); its ID is derived from that pair. TotalScore is a
// derived field and is recomputed on every write to HoleScores.
type WeeklyRound struct {
	ID          string
	PlayerID    string
	Week        int
	Declared    bool
	DeclaredAt  time.Time
	HoleScores  []HoleScore
	TotalScore  int
	Submitted   bool
	SubmittedAt time.Time
	PhotoURL    string
	Locked      bool
}

// ID builds the derived round identifier for a (player, week) pair.
func ID(playerID string, weekNumber int) string {
	return fmt.Sprintf("round-%s-%d", playerID, weekNumber)
}

// ValidWeek reports whether weekNumber falls inside the season.
func ValidWeek(weekNumber int) bool {
	return weekNumber >= 1 && weekNumber <= TotalWeeks
}
