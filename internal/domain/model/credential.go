package model

// Role is the access level attached to a user account.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User is the cached account record returned by the auth backend.
type User struct {
	ID            string
	Username      string
	Email         string
	Role          Role
	EmailVerified bool
}

// Credential pairs the opaque session token with the cached user record.
// Both are persisted together and removed together. The token is never
// decoded in the access-control path; validity is decided solely by the
// backend rejecting a request.
type Credential struct {
	Token string
	User  User
}
