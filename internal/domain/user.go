package domain

import "time"

type User struct {
	ID           string
	Username     string
	PasswordHash string // scrypt, "hex(salt):hex(key)"
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Identity is the (user id, username) pair a verified token asserts.
type Identity struct {
	UserID   string
	Username string
}
