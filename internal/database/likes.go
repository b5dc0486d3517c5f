package database

import (
	"context"
	"fmt"
)

// ToggleLike ставит лайк, если его не было, и снимает, если был.
// Возвращает новое состояние и число лайков поста после переключения.
func (s *Store) ToggleLike(ctx context.Context, userID, postID int) (liked bool, likes int, err error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return false, 0, err
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	res, err := tx.ExecContext(ctx, s.rebind("DELETE FROM likes WHERE user_id = ? AND post_id = ?"), userID, postID)
	if err != nil {
		return false, 0, fmt.Errorf("unlike: %w", err)
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return false, 0, err
	}

	if removed == 0 {
		_, err = tx.ExecContext(ctx, s.rebind(`
			INSERT INTO likes (user_id, post_id) VALUES (?, ?)
			ON CONFLICT (user_id, post_id) DO NOTHING`), userID, postID)
		if err != nil {
			return false, 0, fmt.Errorf("like: %w", err)
		}
		liked = true
	}

	if err := tx.QueryRowContext(ctx, s.rebind("SELECT COUNT(*) FROM likes WHERE post_id = ?"), postID).Scan(&likes); err != nil {
		return false, 0, err
	}
	if err := tx.Commit(); err != nil {
		return false, 0, err
	}
	return liked, likes, nil
}
