package leaderboard

import (
	"sort"

	"github.com/openfairway/niner-league/internal/domain/player"
	"github.com/openfairway/niner-league/internal/domain/round"
)

// Kind tags the two leaderboard variants.
type Kind string

const (
	KindWeekly Kind = "weekly"
	KindSeason Kind = "season"
)

// WeeklyEntry is one row of a single-week leaderboard. Players without a
// submitted round carry the missed-round penalty as their score.
type WeeklyEntry struct {
	PlayerID   string
	Username   string
	TotalScore int
	Submitted  bool
	Rank       int
}

type Weekly struct {
	Kind    Kind
	Week    int
	Entries []WeeklyEntry
}

// SeasonEntry is one row of the season leaderboard. WeeklyScores has one
// slot per season week; nil marks a missed week. Disqualified players keep
// their computed position and are only flagged.
type SeasonEntry struct {
	PlayerID     string
	Username     string
	WeeklyScores []*int
	TotalScore   int
	MissedWeeks  int
	Disqualified bool
	Rank         int
}

type Season struct {
	Kind    Kind
	Entries []SeasonEntry
}

// ProjectWeekly builds the leaderboard for one week. The second return is
// false when the week has not been opened yet; no ranking is produced then.
// Rows sort ascending by score (stroke play), ties break on username, and
// ranks run 1..N by position without compression.
func ProjectWeekly(players []player.Player, rounds []round.WeeklyRound, activeWeeks []int, weekNumber int) (Weekly, bool) {
	if !containsWeek(activeWeeks, weekNumber) {
		return Weekly{}, false
	}

	byPlayer := roundsByPlayer(rounds)
	entries := make([]WeeklyEntry, 0, len(players))
	for _, p := range players {
		entry := WeeklyEntry{
			PlayerID:   p.ID,
			Username:   p.Username,
			TotalScore: round.MissedRoundPenalty,
		}
		for _, r := range byPlayer[p.ID] {
			if r.Week == weekNumber && r.Submitted {
				entry.TotalScore = r.TotalScore
				entry.Submitted = true
				break
			}
		}
		entries = append(entries, entry)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].TotalScore != entries[j].TotalScore {
			return entries[i].TotalScore < entries[j].TotalScore
		}
		return entries[i].Username < entries[j].Username
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}

	return Weekly{Kind: KindWeekly, Week: weekNumber, Entries: entries}, true
}

// ProjectSeason builds the cumulative leaderboard. The second return is
// false until at least one week has been opened.
func ProjectSeason(players []player.Player, rounds []round.WeeklyRound, activeWeeks []int) (Season, bool) {
	if len(activeWeeks) == 0 {
		return Season{}, false
	}

	byPlayer := roundsByPlayer(rounds)
	entries := make([]SeasonEntry, 0, len(players))
	for _, p := range players {
		playerRounds := byPlayer[p.ID]
		entries = append(entries, SeasonEntry{
			PlayerID:     p.ID,
			Username:     p.Username,
			WeeklyScores: round.WeeklyScores(playerRounds),
			TotalScore:   round.SeasonTotal(playerRounds, round.TotalWeeks),
			MissedWeeks:  round.CountMissedWeeks(playerRounds, round.TotalWeeks),
			Disqualified: round.IsDisqualified(playerRounds),
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].TotalScore != entries[j].TotalScore {
			return entries[i].TotalScore < entries[j].TotalScore
		}
		return entries[i].Username < entries[j].Username
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}

	return Season{Kind: KindSeason, Entries: entries}, true
}

func roundsByPlayer(rounds []round.WeeklyRound) map[string][]round.WeeklyRound {
	out := make(map[string][]round.WeeklyRound, len(rounds))
	for _, r := range rounds {
		out[r.PlayerID] = append(out[r.PlayerID], r)
	}
	return out
}

func containsWeek(weeks []int, weekNumber int) bool {
	for _, w := range weeks {
		if w == weekNumber {
			return true
		}
	}
	return false
}
