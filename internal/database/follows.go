package database

import (
	"context"
	"fmt"
)

// Follow subscribes userID to authorID. Following twice keeps one record,
// following yourself does nothing.
func (s *Store) Follow(ctx context.Context, userID, authorID int) error {
	if userID == authorID {
		return nil
	}
	_, err := s.exec(ctx, `
		INSERT INTO follows (user_id, author_id) VALUES (?, ?)
		ON CONFLICT (user_id, author_id) DO NOTHING`, userID, authorID)
	if err != nil {
		return fmt.Errorf("follow %d -> %d: %w", userID, authorID, err)
	}
	return nil
}

// Unfollow is a no-op when there is nothing to remove.
func (s *Store) Unfollow(ctx context.Context, userID, authorID int) error {
	if _, err := s.exec(ctx, "DELETE FROM follows WHERE user_id = ? AND author_id = ?", userID, authorID); err != nil {
		return fmt.Errorf("unfollow %d -> %d: %w", userID, authorID, err)
	}
	return nil
}

func (s *Store) IsFollowing(ctx context.Context, userID, authorID int) (bool, error) {
	var n int
	err := s.queryRow(ctx, "SELECT COUNT(*) FROM follows WHERE user_id = ? AND author_id = ?", userID, authorID).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// FollowCounts returns how many authors the user follows and how many followers they have.
func (s *Store) FollowCounts(ctx context.Context, userID int) (following, followers int, err error) {
	err = s.queryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM follows WHERE user_id = ?),
			(SELECT COUNT(*) FROM follows WHERE author_id = ?)`, userID, userID).Scan(&following, &followers)
	return following, followers, err
}
