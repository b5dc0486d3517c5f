package database

import (
	"context"
	"fmt"

	"yatube/internal/models"
)

func (s *Store) CreateGroup(ctx context.Context, g *models.Group) error {
	id, err := s.insertReturningID(ctx,
		"INSERT INTO post_groups (title, slug, description) VALUES (?, ?, ?)",
		g.Title, g.Slug, g.Description)
	if err != nil {
		return fmt.Errorf("create group %q: %w", g.Slug, err)
	}
	g.ID = id
	return nil
}

func (s *Store) GroupBySlug(ctx context.Context, slug string) (*models.Group, error) {
	var g models.Group
	err := s.queryRow(ctx, "SELECT id, title, slug, description FROM post_groups WHERE slug = ?", slug).
		Scan(&g.ID, &g.Title, &g.Slug, &g.Description)
	if err != nil {
		return nil, notFound(err)
	}
	return &g, nil
}

func (s *Store) GroupByID(ctx context.Context, id int) (*models.Group, error) {
	var g models.Group
	err := s.queryRow(ctx, "SELECT id, title, slug, description FROM post_groups WHERE id = ?", id).
		Scan(&g.ID, &g.Title, &g.Slug, &g.Description)
	if err != nil {
		return nil, notFound(err)
	}
	return &g, nil
}

// ListGroups returns all groups ordered by title, for the post form's select box.
func (s *Store) ListGroups(ctx context.Context) ([]models.Group, error) {
	rows, err := s.query(ctx, "SELECT id, title, slug, description FROM post_groups ORDER BY title, id")
	if err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	defer rows.Close()

	var groups []models.Group
	for rows.Next() {
		var g models.Group
		if err := rows.Scan(&g.ID, &g.Title, &g.Slug, &g.Description); err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

// DeleteGroup removes the group; its posts stay with the group reference cleared.
func (s *Store) DeleteGroup(ctx context.Context, id int) error {
	res, err := s.exec(ctx, "DELETE FROM post_groups WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete group: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
