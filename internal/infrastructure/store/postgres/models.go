package postgres

import (
	"time"

	"github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"

	"github.com/openfairway/niner-league/internal/domain/player"
	"github.com/openfairway/niner-league/internal/domain/round"
	"github.com/openfairway/niner-league/internal/domain/week"
)

type playerRow struct {
	ID             string    `db:"id"`
	Username       string    `db:"username"`
	Email          string    `db:"email"`
	Name           string    `db:"name"`
	IsCommissioner bool      `db:"is_commissioner"`
	BuyInPaid      bool      `db:"buy_in_paid"`
	UpdatedAt      time.Time `db:"updated_at"`
}

func (r playerRow) toDomain() player.Player {
	return player.Player{
		ID:             r.ID,
		Username:       r.Username,
		Email:          r.Email,
		Name:           r.Name,
		IsCommissioner: r.IsCommissioner,
		BuyInPaid:      r.BuyInPaid,
	}
}

func playerRowFrom(p player.Player) playerRow {
	return playerRow{
		ID:             p.ID,
		Username:       p.Username,
		Email:          p.Email,
		Name:           p.Name,
		IsCommissioner: p.IsCommissioner,
		BuyInPaid:      p.BuyInPaid,
	}
}

type roundRow struct {
	ID          string     `db:"id"`
	PlayerID    string     `db:"player_id"`
	Week        int        `db:"week"`
	Declared    bool       `db:"declared"`
	DeclaredAt  *time.Time `db:"declared_at"`
	HoleScores  []byte     `db:"hole_scores"`
	TotalScore  int        `db:"total_score"`
	Submitted   bool       `db:"submitted"`
	SubmittedAt *time.Time `db:"submitted_at"`
	PhotoURL    string     `db:"photo_url"`
	Locked      bool       `db:"locked"`
	UpdatedAt   time.Time  `db:"updated_at"`
}

type holeScoreDoc struct {
	HoleNumber int `json:"hole_number"`
	Strokes    int `json:"strokes"`
}

func (r roundRow) toDomain() (round.WeeklyRound, error) {
	var docs []holeScoreDoc
	if len(r.HoleScores) > 0 {
		if err := sonic.Unmarshal(r.HoleScores, &docs); err != nil {
			return round.WeeklyRound{}, errors.Wrapf(err, "decode hole scores for round %s", r.ID)
		}
	}

	scores := make([]round.HoleScore, 0, len(docs))
	for _, d := range docs {
		scores = append(scores, round.HoleScore{HoleNumber: d.HoleNumber, Strokes: d.Strokes})
	}

	item := round.WeeklyRound{
		ID:         r.ID,
		PlayerID:   r.PlayerID,
		Week:       r.Week,
		Declared:   r.Declared,
		HoleScores: scores,
		TotalScore: r.TotalScore,
		Submitted:  r.Submitted,
		PhotoURL:   r.PhotoURL,
		Locked:     r.Locked,
	}
	if r.DeclaredAt != nil {
		item.DeclaredAt = *r.DeclaredAt
	}
	if r.SubmittedAt != nil {
		item.SubmittedAt = *r.SubmittedAt
	}

	return item, nil
}

func roundRowFrom(item round.WeeklyRound) (roundRow, error) {
	docs := make([]holeScoreDoc, 0, len(item.HoleScores))
	for _, s := range item.HoleScores {
		docs = append(docs, holeScoreDoc{HoleNumber: s.HoleNumber, Strokes: s.Strokes})
	}
	encoded, err := sonic.Marshal(docs)
	if err != nil {
		return roundRow{}, errors.Wrapf(err, "encode hole scores for round %s", item.ID)
	}

	row := roundRow{
		ID:         item.ID,
		PlayerID:   item.PlayerID,
		Week:       item.Week,
		Declared:   item.Declared,
		HoleScores: encoded,
		TotalScore: item.TotalScore,
		Submitted:  item.Submitted,
		PhotoURL:   item.PhotoURL,
		Locked:     item.Locked,
	}
	if !item.DeclaredAt.IsZero() {
		at := item.DeclaredAt
		row.DeclaredAt = &at
	}
	if !item.SubmittedAt.IsZero() {
		at := item.SubmittedAt
		row.SubmittedAt = &at
	}

	return row, nil
}

type weekRow struct {
	Week      int       `db:"week"`
	Active    bool      `db:"active"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r weekRow) toDomain() week.Flag {
	return week.Flag{Week: r.Week, Active: r.Active}
}
