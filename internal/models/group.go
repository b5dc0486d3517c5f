package models

type Group struct {
	ID          int
	Title       string
	Slug        string
	Description string
}

func (g Group) String() string { return g.Title }
