package types

import "time"

// User represents a registered account.
type User struct {
	// Username is the unique login name and the key of the account.
	Username string `json:"username"`

	// PasswordHash stores the bcrypt hash of the user's password.
	// This field is never exposed in API responses.
	PasswordHash string `json:"-"`

	// CreatedAt is the timestamp when the account was created.
	CreatedAt time.Time `json:"createdAt"`
}
