package domain

// Principal is the minimal authenticated identity the guard attaches to a
// request context after verifying an access token against live user state.
type Principal struct {
	ID           string
	Email        string
	Role         Role
	TokenVersion int64
	DeviceID     string
}
