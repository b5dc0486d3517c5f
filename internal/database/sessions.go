package database

import (
	"context"
	"fmt"
	"time"

	"yatube/internal/models"
)

// ReplaceSession удаляет старые сессии пользователя и создает новую:
// у пользователя всегда не больше одной активной сессии.
func (s *Store) ReplaceSession(ctx context.Context, userID int, token string, expires time.Time) (*models.Session, error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.ExecContext(ctx, s.rebind("DELETE FROM sessions WHERE user_id = ?"), userID); err != nil {
		return nil, fmt.Errorf("delete old sessions: %w", err)
	}

	var id int
	err = tx.QueryRowContext(ctx,
		s.rebind("INSERT INTO sessions (user_id, token, expires) VALUES (?, ?, ?) RETURNING id"),
		userID, token, expires.UTC()).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &models.Session{ID: id, UserID: userID, Token: token, Expires: expires}, nil
}

func (s *Store) SessionByToken(ctx context.Context, token string) (*models.Session, error) {
	var sess models.Session
	err := s.queryRow(ctx, "SELECT id, user_id, token, expires FROM sessions WHERE token = ?", token).
		Scan(&sess.ID, &sess.UserID, &sess.Token, &sess.Expires)
	if err != nil {
		return nil, notFound(err)
	}
	return &sess, nil
}

// DeleteSession returns ErrNotFound when no session had the token.
func (s *Store) DeleteSession(ctx context.Context, token string) error {
	res, err := s.exec(ctx, "DELETE FROM sessions WHERE token = ?", token)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteExpiredSessions удаляет просроченные сессии и возвращает их количество.
func (s *Store) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	res, err := s.exec(ctx, "DELETE FROM sessions WHERE expires < ?", now.UTC())
	if err != nil {
		return 0, fmt.Errorf("cleanup sessions: %w", err)
	}
	return res.RowsAffected()
}
