package models

import "time"

// previewLen - сколько символов текста показывается в String().
const previewLen = 15

type Post struct {
	ID        int
	Text      string
	CreatedAt time.Time
	EditedAt  *time.Time
	Image     string // path relative to the media root, e.g. "posts/cat.gif"
	AuthorID  int
	Author    string // username of the author
	GroupID   *int
	Group     *Group

	CommentCount int
	Likes        int
	Liked        bool // liked by the current user
}

func (p Post) String() string {
	r := []rune(p.Text)
	if len(r) > previewLen {
		return string(r[:previewLen])
	}
	return p.Text
}
