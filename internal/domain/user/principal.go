package user

// Principal identifies the authenticated caller of a command. Role checks
// happen against the player document, not the principal: the identity
// provider only vouches for the id.
type Principal struct {
	UserID   string
	Username string
	Email    string
}
