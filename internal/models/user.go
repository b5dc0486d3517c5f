package models

import "time"

type User struct {
	ID        int
	Username  string
	Email     string
	FirstName string
	LastName  string
	Password  string // bcrypt hash, never rendered
	CreatedAt time.Time
}

// FullName falls back to the username when no name is set.
func (u *User) FullName() string {
	name := u.FirstName
	if u.LastName != "" {
		if name != "" {
			name += " "
		}
		name += u.LastName
	}
	if name == "" {
		return u.Username
	}
	return name
}
