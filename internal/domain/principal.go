package domain

// AuthMethod describes how a caller authenticated with the API.
type AuthMethod string

const (
	AuthMethodJWT   AuthMethod = "jwt"
	AuthMethodGuest AuthMethod = "guest"
)

// Principal captures normalized caller identity independent of auth mechanism.
// Guests carry a client-provisioned GuestID and no Subject.
type Principal struct {
	ID         string
	AuthMethod AuthMethod
	Subject    string
	Issuer     string
	Email      string
	Name       string
	RoleLabel  string
	GuestID    string
}

// IsGuest reports whether the caller is unauthenticated.
func (p Principal) IsGuest() bool {
	return p.AuthMethod == AuthMethodGuest
}
