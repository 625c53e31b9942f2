package domain

import "time"

// User is an API operator, not a customer. Password holds a bcrypt hash.
type User struct {
	ID        int64
	Name      string
	Email     string
	Password  string
	CreatedAt time.Time
}

// APIToken is a bearer token at rest. Only the SHA-256 of the issued secret
// is stored; the plaintext leaves the system once, in the login response.
type APIToken struct {
	ID         int64
	UserID     int64
	TokenHash  string
	CreatedAt  time.Time
	LastUsedAt *time.Time
}
