package models

// Feedback is a titled note owned by exactly one account, referenced by
// username.
type Feedback struct {
	ID       int64
	Title    string
	Content  string
	UserName string
}

// OwnedBy reports whether username owns the note.
func (f *Feedback) OwnedBy(username string) bool {
	return f != nil && f.UserName == username
}
