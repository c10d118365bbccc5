package domain

// Identity is the authenticated caller extracted from a session token.
// It mirrors the user record at the time the token was issued.
type Identity struct {
	ID    string
	Email string
	Role  Role
}

// IsAdmin reports whether the identity carries the admin role.
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}
