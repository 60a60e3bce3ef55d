package httpapi

import (
	"time"

	"github.com/openfairway/niner-league/internal/domain/leaderboard"
	"github.com/openfairway/niner-league/internal/domain/player"
	"github.com/openfairway/niner-league/internal/domain/round"
)

type playerDTO struct {
	ID             string `json:"id"`
	Username       string `json:"username"`
	Email          string `json:"email"`
	Name           string `json:"name"`
	IsCommissioner bool   `json:"is_commissioner"`
	BuyInPaid      bool   `json:"buy_in_paid"`
}

func playerToDTO(p player.Player) playerDTO {
	return playerDTO{
		ID:             p.ID,
		Username:       p.Username,
		Email:          p.Email,
		Name:           p.Name,
		IsCommissioner: p.IsCommissioner,
		BuyInPaid:      p.BuyInPaid,
	}
}

type holeScoreDTO struct {
	HoleNumber int `json:"hole_number" validate:"required,min=1,max=9"`
	Strokes    int `json:"strokes" validate:"min=0,max=20"`
}

type roundDTO struct {
	ID          string         `json:"id"`
	PlayerID    string         `json:"player_id"`
	Week        int            `json:"week"`
	Declared    bool           `json:"declared"`
	DeclaredAt  *time.Time     `json:"declared_at,omitempty"`
	HoleScores  []holeScoreDTO `json:"hole_scores"`
	TotalScore  int            `json:"total_score"`
	Submitted   bool           `json:"submitted"`
	SubmittedAt *time.Time     `json:"submitted_at,omitempty"`
	PhotoURL    string         `json:"photo_url,omitempty"`
	Locked      bool           `json:"locked"`
}

func roundToDTO(item round.WeeklyRound) roundDTO {
	scores := make([]holeScoreDTO, 0, len(item.HoleScores))
	for _, s := range item.HoleScores {
		scores = append(scores, holeScoreDTO{HoleNumber: s.HoleNumber, Strokes: s.Strokes})
	}

	dto := roundDTO{
		ID:         item.ID,
		PlayerID:   item.PlayerID,
		Week:       item.Week,
		Declared:   item.Declared,
		HoleScores: scores,
		TotalScore: item.TotalScore,
		Submitted:  item.Submitted,
		PhotoURL:   item.PhotoURL,
		Locked:     item.Locked,
	}
	if !item.DeclaredAt.IsZero() {
		at := item.DeclaredAt
		dto.DeclaredAt = &at
	}
	if !item.SubmittedAt.IsZero() {
		at := item.SubmittedAt
		dto.SubmittedAt = &at
	}

	return dto
}

func scoresFromDTO(scores []holeScoreDTO) []round.HoleScore {
	out := make([]round.HoleScore, 0, len(scores))
	for _, s := range scores {
		out = append(out, round.HoleScore{HoleNumber: s.HoleNumber, Strokes: s.Strokes})
	}

	return out
}

type weeklyEntryDTO struct {
	PlayerID   string `json:"player_id"`
	Username   string `json:"username"`
	TotalScore int    `json:"total_score"`
	Submitted  bool   `json:"submitted"`
	Rank       int    `json:"rank"`
}

type weeklyBoardDTO struct {
	Week      int              `json:"week"`
	Available bool             `json:"available"`
	Entries   []weeklyEntryDTO `json:"entries"`
}

func weeklyBoardToDTO(board leaderboard.Weekly, available bool) weeklyBoardDTO {
	entries := make([]weeklyEntryDTO, 0, len(board.Entries))
	for _, e := range board.Entries {
		entries = append(entries, weeklyEntryDTO{
			PlayerID:   e.PlayerID,
			Username:   e.Username,
			TotalScore: e.TotalScore,
			Submitted:  e.Submitted,
			Rank:       e.Rank,
		})
	}

	return weeklyBoardDTO{Week: board.Week, Available: available, Entries: entries}
}

type seasonEntryDTO struct {
	PlayerID     string `json:"player_id"`
	Username     string `json:"username"`
	WeeklyScores []*int `json:"weekly_scores"`
	TotalScore   int    `json:"total_score"`
	MissedWeeks  int    `json:"missed_weeks"`
	Disqualified bool   `json:"disqualified"`
	Rank         int    `json:"rank"`
}

type seasonBoardDTO struct {
	Available bool             `json:"available"`
	Entries   []seasonEntryDTO `json:"entries"`
}

func seasonBoardToDTO(board leaderboard.Season, available bool) seasonBoardDTO {
	entries := make([]seasonEntryDTO, 0, len(board.Entries))
	for _, e := range board.Entries {
		entries = append(entries, seasonEntryDTO{
			PlayerID:     e.PlayerID,
			Username:     e.Username,
			WeeklyScores: e.WeeklyScores,
			TotalScore:   e.TotalScore,
			MissedWeeks:  e.MissedWeeks,
			Disqualified: e.Disqualified,
			Rank:         e.Rank,
		})
	}

	return seasonBoardDTO{Available: available, Entries: entries}
}
