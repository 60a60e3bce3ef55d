package demo

import (
	"github.com/openfairway/niner-league/internal/domain/user"
	"github.com/openfairway/niner-league/internal/infrastructure/repository/memory"
)

// SeedFounders registers the two founding commissioners with their
// well-known demo passwords.
func SeedFounders(p *Provider) error {
	founders := []struct {
		principal user.Principal
		password  string
	}{
		{
			principal: user.Principal{UserID: memory.PlayerIDAlex, Username: "alex", Email: "alex@ninerleague.test"},
			password:  "alex123",
		},
		{
			principal: user.Principal{UserID: memory.PlayerIDJeb, Username: "jeb", Email: "jeb@ninerleague.test"},
			password:  "jeb123",
		},
	}

	for _, f := range founders {
		if err := p.RegisterPrincipal(f.principal, f.password); err != nil {
			return err
		}
	}

	return nil
}
