package models

import "time"

type Comment struct {
	ID        int
	PostID    int
	AuthorID  int
	Author    string // username of the author
	Text      string
	CreatedAt time.Time
}

func (c Comment) String() string {
	r := []rune(c.Text)
	if len(r) > previewLen {
		r = r[:previewLen]
	}
	return c.Author + ": " + string(r)
}
