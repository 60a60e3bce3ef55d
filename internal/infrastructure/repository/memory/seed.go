package memory

import (
	"github.com/openfairway/niner-league/internal/domain/player"
)

const (
	PlayerIDAlex = "user-alex"
	PlayerIDJeb  = "user-jeb"
)

// SeedPlayers returns the founding roster. Both founders run the league, so
// both carry the commissioner flag and have their buy-in settled.
func SeedPlayers() []player.Player {
	return []player.Player{
		{
			ID:             PlayerIDAlex,
			Username:       "alex",
			Email:          "alex@ninerleague.test",
			Name:           "Alex",
			IsCommissioner: true,
			BuyInPaid:      true,
		},
		{
			ID:             PlayerIDJeb,
			Username:       "jeb",
			Email:          "jeb@ninerleague.test",
			Name:           "Jeb",
			IsCommissioner: true,
			BuyInPaid:      true,
		},
	}
}
