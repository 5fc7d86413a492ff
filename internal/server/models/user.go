package models

// User is a registered account. Password holds the bcrypt hash, never the
// plaintext.
type User struct {
	ID       int64
	UserName string
	Password string
}
