package database

import (
	"context"
	"fmt"
	"time"

	"yatube/internal/models"
)

// CreateComment stores c with a server-side timestamp.
func (s *Store) CreateComment(ctx context.Context, c *models.Comment) error {
	c.CreatedAt = time.Now().UTC()
	id, err := s.insertReturningID(ctx,
		"INSERT INTO comments (post_id, author_id, text, created_at) VALUES (?, ?, ?, ?)",
		c.PostID, c.AuthorID, c.Text, c.CreatedAt)
	if err != nil {
		return fmt.Errorf("create comment: %w", err)
	}
	c.ID = id
	return nil
}

// CommentsForPost возвращает комментарии поста, новые первыми.
func (s *Store) CommentsForPost(ctx context.Context, postID int) ([]models.Comment, error) {
	rows, err := s.query(ctx, `
		SELECT c.id, c.post_id, c.author_id, u.username, c.text, c.created_at
		FROM comments c
		JOIN users u ON u.id = c.author_id
		WHERE c.post_id = ?
		ORDER BY c.created_at DESC, c.id DESC`, postID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	var comments []models.Comment
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(&c.ID, &c.PostID, &c.AuthorID, &c.Author, &c.Text, &c.CreatedAt); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}
