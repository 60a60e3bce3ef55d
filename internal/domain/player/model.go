package player

import (
	"errors"
	"fmt"
)

var ErrDuplicateUsername = errors.New("username is already taken")

// Player is a league member. The ID is the opaque identifier issued by the
// identity provider and never changes for the life of the account.
type Player struct {
	ID             string
	Username       string
	Email          string
	Name           string
	IsCommissioner bool
	BuyInPaid      bool
}

func (p Player) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("player id is required")
	}
	if p.Username == "" {
		return fmt.Errorf("player username is required")
	}
	if p.Email == "" {
		return fmt.Errorf("player email is required")
	}

	return nil
}
