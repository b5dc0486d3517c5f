package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"yatube/internal/models"
	"yatube/internal/pagination"
)

// PostFilter narrows a post listing. Zero fields are ignored.
type PostFilter struct {
	GroupID    int
	AuthorID   int
	FollowerID int // only posts by authors this user follows
	ViewerID   int // fills Post.Liked for this user
}

func (f PostFilter) where() (string, []any) {
	var conds []string
	var args []any
	if f.GroupID != 0 {
		conds = append(conds, "p.group_id = ?")
		args = append(args, f.GroupID)
	}
	if f.AuthorID != 0 {
		conds = append(conds, "p.author_id = ?")
		args = append(args, f.AuthorID)
	}
	if f.FollowerID != 0 {
		conds = append(conds, "p.author_id IN (SELECT author_id FROM follows WHERE user_id = ?)")
		args = append(args, f.FollowerID)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// PostPage is one page of a listing together with its navigation data.
type PostPage struct {
	Posts []models.Post
	pagination.Page
}

const postSelect = `
	SELECT p.id, p.text, p.created_at, p.edited_at, p.image, p.author_id, u.username,
		g.id, g.title, g.slug, g.description,
		(SELECT COUNT(*) FROM comments c WHERE c.post_id = p.id),
		(SELECT COUNT(*) FROM likes l WHERE l.post_id = p.id),
		EXISTS (SELECT 1 FROM likes l WHERE l.post_id = p.id AND l.user_id = ?)
	FROM posts p
	JOIN users u ON u.id = p.author_id
	LEFT JOIN post_groups g ON g.id = p.group_id`

const postOrder = " ORDER BY p.created_at DESC, p.id DESC"

func scanPost(row rowScanner) (*models.Post, error) {
	var (
		p         models.Post
		editedAt  sql.NullTime
		groupID   sql.NullInt64
		groupTitl sql.NullString
		groupSlug sql.NullString
		groupDesc sql.NullString
	)
	err := row.Scan(&p.ID, &p.Text, &p.CreatedAt, &editedAt, &p.Image, &p.AuthorID, &p.Author,
		&groupID, &groupTitl, &groupSlug, &groupDesc,
		&p.CommentCount, &p.Likes, &p.Liked)
	if err != nil {
		return nil, err
	}
	if editedAt.Valid {
		t := editedAt.Time
		p.EditedAt = &t
	}
	if groupID.Valid {
		id := int(groupID.Int64)
		p.GroupID = &id
		p.Group = &models.Group{ID: id, Title: groupTitl.String, Slug: groupSlug.String, Description: groupDesc.String}
	}
	return &p, nil
}

func (s *Store) CountPosts(ctx context.Context, f PostFilter) (int, error) {
	where, args := f.where()
	var n int
	if err := s.queryRow(ctx, "SELECT COUNT(*) FROM posts p"+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count posts: %w", err)
	}
	return n, nil
}

// ListPosts returns the posts of pg, newest first.
func (s *Store) ListPosts(ctx context.Context, f PostFilter, pg pagination.Page) ([]models.Post, error) {
	where, whereArgs := f.where()
	args := make([]any, 0, len(whereArgs)+3)
	args = append(args, f.ViewerID)
	args = append(args, whereArgs...)
	args = append(args, pg.Limit, pg.Offset)

	rows, err := s.query(ctx, postSelect+where+postOrder+" LIMIT ? OFFSET ?", args...)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	posts := make([]models.Post, 0, pg.Limit)
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, *p)
	}
	return posts, rows.Err()
}

// Posts counts the matching posts, resolves the raw page number and loads that page.
func (s *Store) Posts(ctx context.Context, f PostFilter, rawPage string) (*PostPage, error) {
	count, err := s.CountPosts(ctx, f)
	if err != nil {
		return nil, err
	}
	pg := pagination.New(count, pagination.PostsPerPage).Page(rawPage)
	posts, err := s.ListPosts(ctx, f, pg)
	if err != nil {
		return nil, err
	}
	return &PostPage{Posts: posts, Page: pg}, nil
}

// FollowFeed lists posts by the authors userID follows, newest first.
func (s *Store) FollowFeed(ctx context.Context, userID int, rawPage string) (*PostPage, error) {
	return s.Posts(ctx, PostFilter{FollowerID: userID, ViewerID: userID}, rawPage)
}

// PostByID loads a single post; viewerID (0 for anonymous) fills Liked.
func (s *Store) PostByID(ctx context.Context, id, viewerID int) (*models.Post, error) {
	p, err := scanPost(s.queryRow(ctx, postSelect+" WHERE p.id = ?", viewerID, id))
	if err != nil {
		return nil, notFound(err)
	}
	return p, nil
}

// CreatePost inserts p with a server-side creation time and fills p.ID.
func (s *Store) CreatePost(ctx context.Context, p *models.Post) error {
	p.CreatedAt = time.Now().UTC()
	id, err := s.insertReturningID(ctx, `
		INSERT INTO posts (text, created_at, image, author_id, group_id)
		VALUES (?, ?, ?, ?, ?)`,
		p.Text, p.CreatedAt, p.Image, p.AuthorID, nullableID(p.GroupID))
	if err != nil {
		return fmt.Errorf("create post: %w", err)
	}
	p.ID = id
	return nil
}

// UpdatePost saves text, group and image and stamps edited_at.
// The author and creation time never change.
func (s *Store) UpdatePost(ctx context.Context, p *models.Post) error {
	now := time.Now().UTC()
	res, err := s.exec(ctx, `
		UPDATE posts SET text = ?, image = ?, group_id = ?, edited_at = ?
		WHERE id = ?`,
		p.Text, p.Image, nullableID(p.GroupID), now, p.ID)
	if err != nil {
		return fmt.Errorf("update post %d: %w", p.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	p.EditedAt = &now
	return nil
}

// DeletePost removes the post; comments and likes go with it.
func (s *Store) DeletePost(ctx context.Context, id int) error {
	res, err := s.exec(ctx, "DELETE FROM posts WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete post %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func nullableID(id *int) any {
	if id == nil {
		return nil
	}
	return *id
}
