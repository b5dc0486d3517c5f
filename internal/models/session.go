package models

import "time"

// Session is a login session identified by the token stored in the session cookie.
type Session struct {
	ID      int
	UserID  int
	Token   string
	Expires time.Time
}

func (s Session) Expired(now time.Time) bool {
	return now.After(s.Expires)
}
