package database

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"yatube/internal/models"
)

const userColumns = "id, username, email, first_name, last_name, password, created_at"

// HashPassword хеширует пароль с использованием bcrypt.
func HashPassword(password string) (string, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashedPassword), nil
}

// CheckPasswordHash сравнивает хешированный пароль с обычным.
func CheckPasswordHash(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

// CreateUser inserts u; u.Password must already be hashed. ID and CreatedAt are filled in.
func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	id, err := s.insertReturningID(ctx, `
		INSERT INTO users (username, email, first_name, last_name, password, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		u.Username, u.Email, u.FirstName, u.LastName, u.Password, u.CreatedAt)
	if err != nil {
		return fmt.Errorf("create user %q: %w", u.Username, err)
	}
	u.ID = id
	return nil
}

// UserTaken reports which of email and username are already registered.
// Usernames compare case-insensitively.
func (s *Store) UserTaken(ctx context.Context, email, username string) (emailTaken, usernameTaken bool, err error) {
	var emails, names int
	err = s.queryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM users WHERE email = ?),
			(SELECT COUNT(*) FROM users WHERE lower(username) = lower(?))`,
		email, username).Scan(&emails, &names)
	if err != nil {
		return false, false, fmt.Errorf("check existing user: %w", err)
	}
	return emails > 0, names > 0, nil
}

func (s *Store) UserByID(ctx context.Context, id int) (*models.User, error) {
	return s.scanUser(s.queryRow(ctx, "SELECT "+userColumns+" FROM users WHERE id = ?", id))
}

func (s *Store) UserByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.scanUser(s.queryRow(ctx,
		"SELECT "+userColumns+" FROM users WHERE lower(username) = lower(?)", username))
}

// UserByLogin finds a user by email or, failing that, by username.
func (s *Store) UserByLogin(ctx context.Context, login string) (*models.User, error) {
	return s.scanUser(s.queryRow(ctx,
		"SELECT "+userColumns+" FROM users WHERE email = ? OR lower(username) = lower(?)", login, login))
}

func (s *Store) scanUser(row rowScanner) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.FirstName, &u.LastName, &u.Password, &u.CreatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}
